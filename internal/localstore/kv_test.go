package localstore_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pkordes/trip-planner/internal/localstore"
)

func TestKV_SetThenGet(t *testing.T) {
	kv := localstore.NewKV(openTestDB(t))
	ctx := context.Background()

	require.NoError(t, kv.Set(ctx, "k1", []byte{0x01, 0x02}))

	v, err := kv.Get(ctx, "k1")
	require.NoError(t, err)
	assert.Equal(t, []byte{0x01, 0x02}, v)
}

func TestKV_GetMissingReturnsNilNil(t *testing.T) {
	kv := localstore.NewKV(openTestDB(t))

	v, err := kv.Get(context.Background(), "absent")

	require.NoError(t, err)
	assert.Nil(t, v)
}

func TestKV_SetOverwrites(t *testing.T) {
	kv := localstore.NewKV(openTestDB(t))
	ctx := context.Background()

	require.NoError(t, kv.Set(ctx, "k", []byte("old")))
	require.NoError(t, kv.Set(ctx, "k", []byte("new")))

	v, err := kv.Get(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, []byte("new"), v)
}

func TestKV_DeleteIsIdempotent(t *testing.T) {
	kv := localstore.NewKV(openTestDB(t))
	ctx := context.Background()

	require.NoError(t, kv.Set(ctx, "x", []byte{1}))
	require.NoError(t, kv.Delete(ctx, "x"))
	require.NoError(t, kv.Delete(ctx, "x"))

	v, err := kv.Get(ctx, "x")
	require.NoError(t, err)
	assert.Nil(t, v)
}

func TestKV_ErrorsAreWrapped(t *testing.T) {
	db := openTestDB(t)
	kv := localstore.NewKV(db)
	require.NoError(t, db.Close())

	_, err := kv.Get(context.Background(), "k")
	require.ErrorContains(t, err, "localstore.KV.Get[k]")

	err = kv.Set(context.Background(), "k", []byte("v"))
	require.ErrorContains(t, err, "localstore.KV.Set[k]")
}
