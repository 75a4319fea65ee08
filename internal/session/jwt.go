package session

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/pkordes/trip-planner/internal/domain"
)

// TokenKey is the device key/value entry holding the persisted sign-in token.
const TokenKey = "auth-token"

// Claims are the JWT claims a sign-in token must carry. The subject is the
// user id.
type Claims struct {
	Email string `json:"email"`
	jwt.RegisteredClaims
}

// tokenStore is the device key/value storage the provider persists tokens in.
type tokenStore interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, key string) error
}

// TokenProvider is an AuthProvider that accepts HS256 tokens signed by the
// identity service and remembers the last valid one on the device.
type TokenProvider struct {
	secret []byte
	store  tokenStore
	now    func() time.Time
}

// NewTokenProvider constructs a TokenProvider verifying with secret.
func NewTokenProvider(secret string, store tokenStore) *TokenProvider {
	return &TokenProvider{secret: []byte(secret), store: store, now: time.Now}
}

// Restore verifies the persisted token, if any. An expired or otherwise
// invalid token is discarded and the session starts anonymous.
func (p *TokenProvider) Restore(ctx context.Context) (*Identity, error) {
	raw, err := p.store.Get(ctx, TokenKey)
	if err != nil {
		return nil, fmt.Errorf("session.TokenProvider.Restore: %w", err)
	}
	if raw == nil {
		return nil, nil
	}
	id, err := p.Verify(string(raw))
	if err != nil {
		if delErr := p.store.Delete(ctx, TokenKey); delErr != nil {
			return nil, fmt.Errorf("session.TokenProvider.Restore: discard token: %w", delErr)
		}
		return nil, nil
	}
	return &id, nil
}

// SignIn verifies token and persists it for the next Restore.
func (p *TokenProvider) SignIn(ctx context.Context, token string) (Identity, error) {
	id, err := p.Verify(token)
	if err != nil {
		return Identity{}, err
	}
	if err := p.store.Set(ctx, TokenKey, []byte(token)); err != nil {
		return Identity{}, fmt.Errorf("session.TokenProvider.SignIn: %w", err)
	}
	return id, nil
}

// SignOut deletes the persisted token.
func (p *TokenProvider) SignOut(ctx context.Context) error {
	if err := p.store.Delete(ctx, TokenKey); err != nil {
		return fmt.Errorf("session.TokenProvider.SignOut: %w", err)
	}
	return nil
}

// Verify checks the signature and expiry of token and extracts the identity.
// Any failure is reported as domain.ErrInvalidToken.
func (p *TokenProvider) Verify(token string) (Identity, error) {
	claims := &Claims{}
	parsed, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return p.secret, nil
	}, jwt.WithTimeFunc(p.now), jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		return Identity{}, fmt.Errorf("session.TokenProvider.Verify: %w: %v", domain.ErrInvalidToken, err)
	}
	if !parsed.Valid || claims.Subject == "" {
		return Identity{}, fmt.Errorf("session.TokenProvider.Verify: %w: missing subject", domain.ErrInvalidToken)
	}
	return Identity{UserID: claims.Subject, Email: claims.Email}, nil
}

// IssueToken signs an HS256 token for userID valid for ttl. The planner
// itself only verifies tokens; this exists for development tooling and tests.
func IssueToken(secret, userID, email string, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := Claims{
		Email: email,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
}
