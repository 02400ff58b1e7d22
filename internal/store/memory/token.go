package memory

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/reelboost/reelboost-api/internal/domain/auth"
)

type tokenStore struct {
	s *Store
}

func (ts *tokenStore) CreateToken(ctx context.Context, t *auth.RefreshToken) error {
	ts.s.mu.Lock()
	defer ts.s.mu.Unlock()
	if t.ID == uuid.Nil {
		t.ID = uuid.New()
	}
	t.CreatedAt = time.Now()
	c := *t
	ts.s.tokens[t.TokenHash] = &c
	return nil
}

func (ts *tokenStore) GetTokenByHash(ctx context.Context, hash string) (*auth.RefreshToken, error) {
	ts.s.mu.RLock()
	defer ts.s.mu.RUnlock()
	t, ok := ts.s.tokens[hash]
	if !ok {
		return nil, auth.ErrInvalidRefreshToken
	}
	c := *t
	return &c, nil
}

func (ts *tokenStore) DeleteToken(ctx context.Context, hash string) error {
	ts.s.mu.Lock()
	defer ts.s.mu.Unlock()
	delete(ts.s.tokens, hash)
	return nil
}

func (ts *tokenStore) DeleteUserTokens(ctx context.Context, userID uuid.UUID) error {
	ts.s.mu.Lock()
	defer ts.s.mu.Unlock()
	for hash, t := range ts.s.tokens {
		if t.UserID == userID {
			delete(ts.s.tokens, hash)
		}
	}
	return nil
}
