package memory

import (
	"context"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/reelboost/reelboost-api/internal/domain/user"
)

type userStore struct {
	s *Store
}

func (us *userStore) GetByID(ctx context.Context, id uuid.UUID) (*user.User, error) {
	us.s.mu.RLock()
	defer us.s.mu.RUnlock()
	u, ok := us.s.users[id]
	if !ok {
		return nil, user.ErrNotFound
	}
	return copyUser(u), nil
}

func (us *userStore) GetByEmail(ctx context.Context, email string) (*user.User, error) {
	us.s.mu.RLock()
	defer us.s.mu.RUnlock()
	for _, u := range us.s.users {
		if u.Email == email {
			return copyUser(u), nil
		}
	}
	return nil, user.ErrNotFound
}

func (us *userStore) GetByReferralCode(ctx context.Context, code string) (*user.User, error) {
	us.s.mu.RLock()
	defer us.s.mu.RUnlock()
	for _, u := range us.s.users {
		if u.ReferralCode == code {
			return copyUser(u), nil
		}
	}
	return nil, user.ErrNotFound
}

func (us *userStore) GetByAPIKey(ctx context.Context, apiKey string) (*user.User, error) {
	us.s.mu.RLock()
	defer us.s.mu.RUnlock()
	for _, u := range us.s.users {
		if u.APIKey.Valid && u.APIKey.String == apiKey && u.APIKeyEnabled == 1 {
			return copyUser(u), nil
		}
	}
	return nil, user.ErrNotFound
}

func (us *userStore) List(ctx context.Context) ([]user.User, error) {
	us.s.mu.RLock()
	defer us.s.mu.RUnlock()
	users := make([]user.User, 0, len(us.s.users))
	for _, u := range us.s.users {
		users = append(users, *copyUser(u))
	}
	sort.Slice(users, func(i, j int) bool {
		return users[i].CreatedAt.After(users[j].CreatedAt)
	})
	return users, nil
}

func (us *userStore) Create(ctx context.Context, u *user.User) error {
	us.s.mu.Lock()
	defer us.s.mu.Unlock()
	for _, existing := range us.s.users {
		if existing.Email == u.Email {
			return user.ErrEmailExists
		}
	}
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	if u.CreatedAt.IsZero() {
		u.CreatedAt = time.Now()
		u.UpdatedAt = u.CreatedAt
	}
	us.s.users[u.ID] = copyUser(u)
	return nil
}

func (us *userStore) UpdateRole(ctx context.Context, id uuid.UUID, role user.Role) error {
	us.s.mu.Lock()
	defer us.s.mu.Unlock()
	u, ok := us.s.users[id]
	if !ok {
		return user.ErrNotFound
	}
	u.Role = role
	u.UpdatedAt = time.Now()
	return nil
}

func (us *userStore) SetBalance(ctx context.Context, id uuid.UUID, balance decimal.Decimal) error {
	us.s.mu.Lock()
	defer us.s.mu.Unlock()
	u, ok := us.s.users[id]
	if !ok {
		return user.ErrNotFound
	}
	u.WalletBalance = balance
	u.UpdatedAt = time.Now()
	return nil
}

func (us *userStore) SetAPIKey(ctx context.Context, id uuid.UUID, apiKey string, enabled bool) error {
	us.s.mu.Lock()
	defer us.s.mu.Unlock()
	u, ok := us.s.users[id]
	if !ok {
		return user.ErrNotFound
	}
	u.APIKey.String = apiKey
	u.APIKey.Valid = apiKey != ""
	u.APIKeyEnabled = 0
	if enabled {
		u.APIKeyEnabled = 1
	}
	u.UpdatedAt = time.Now()
	return nil
}

func (us *userStore) SetResellerMarkup(ctx context.Context, id uuid.UUID, markup decimal.Decimal) error {
	us.s.mu.Lock()
	defer us.s.mu.Unlock()
	u, ok := us.s.users[id]
	if !ok {
		return user.ErrNotFound
	}
	u.ResellerMarkup = markup
	u.UpdatedAt = time.Now()
	return nil
}

func (us *userStore) Delete(ctx context.Context, id uuid.UUID) error {
	us.s.mu.Lock()
	defer us.s.mu.Unlock()
	if _, ok := us.s.users[id]; !ok {
		return user.ErrNotFound
	}
	delete(us.s.users, id)
	return nil
}

func copyUser(u *user.User) *user.User {
	c := *u
	return &c
}
