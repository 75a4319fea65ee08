package repo

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
)

// ChangeChannel is the Postgres NOTIFY channel carrying the id of every trip
// whose trips, activities or trip_members rows changed.
const ChangeChannel = "trip_changes"

// ChangeFeed delivers remote change notifications scoped to a trip id.
// It holds one pooled connection for LISTEN and reconnects after failures.
type ChangeFeed struct {
	pool    *pgxpool.Pool
	logger  *slog.Logger
	backoff time.Duration
}

// NewChangeFeed constructs a ChangeFeed on pool.
func NewChangeFeed(pool *pgxpool.Pool, logger *slog.Logger) *ChangeFeed {
	return &ChangeFeed{pool: pool, logger: logger, backoff: time.Second}
}

// Run listens until ctx is cancelled, calling onChange with the trip id of
// every notification. onChange runs on the listener goroutine and should not
// block for long.
func (f *ChangeFeed) Run(ctx context.Context, onChange func(tripID string)) error {
	for {
		err := f.listen(ctx, onChange)
		if ctx.Err() != nil {
			return nil
		}
		f.logger.Warn("change feed interrupted, reconnecting", "error", err, "retry_in", f.backoff.String())

		select {
		case <-ctx.Done():
			return nil
		case <-time.After(f.backoff):
		}
	}
}

func (f *ChangeFeed) listen(ctx context.Context, onChange func(tripID string)) error {
	pooled, err := f.pool.Acquire(ctx)
	if err != nil {
		return fmt.Errorf("repo.ChangeFeed.listen: acquire: %w", err)
	}
	// a LISTENing session is never handed back to the pool
	conn := pooled.Hijack()
	defer conn.Close(context.Background())

	if _, err := conn.Exec(ctx, "LISTEN "+ChangeChannel); err != nil {
		return fmt.Errorf("repo.ChangeFeed.listen: listen: %w", err)
	}
	f.logger.Info("change feed listening", "channel", ChangeChannel)

	for {
		n, err := conn.WaitForNotification(ctx)
		if err != nil {
			return fmt.Errorf("repo.ChangeFeed.listen: wait: %w", err)
		}
		if n.Payload == "" {
			continue
		}
		onChange(n.Payload)
	}
}
