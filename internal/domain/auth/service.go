package auth

import (
	"context"
	"crypto/rand"
	"database/sql"
	"encoding/hex"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/reelboost/reelboost-api/internal/domain/referral"
	"github.com/reelboost/reelboost-api/internal/domain/user"
	"github.com/reelboost/reelboost-api/internal/pkg/jwt"
	"github.com/reelboost/reelboost-api/internal/pkg/password"
)

// Service handles signup, login and token rotation
type Service struct {
	users     user.Store
	tokens    TokenStore
	referrals referral.Store
	jwt       *jwt.Service
}

func NewService(users user.Store, tokens TokenStore, referrals referral.Store, jwtService *jwt.Service) *Service {
	return &Service{users: users, tokens: tokens, referrals: referrals, jwt: jwtService}
}

// Signup creates an account, assigns a fresh referral code and, when a
// valid code was supplied, records the referral attribution.
func (s *Service) Signup(ctx context.Context, req *SignupRequest) (*AuthResponse, error) {
	req.Email = normalizeEmail(req.Email)

	if existing, _ := s.users.GetByEmail(ctx, req.Email); existing != nil {
		return nil, ErrEmailAlreadyExists
	}

	var referrer *user.User
	if code := strings.ToUpper(strings.TrimSpace(req.ReferralCode)); code != "" {
		u, err := s.users.GetByReferralCode(ctx, code)
		if err != nil {
			return nil, ErrInvalidReferralCode
		}
		referrer = u
	}

	hash, err := password.Hash(req.Password)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	u := &user.User{
		ID:            uuid.New(),
		Email:         req.Email,
		PasswordHash:  sql.NullString{String: hash, Valid: true},
		FirstName:     nullable(req.FirstName),
		LastName:      nullable(req.LastName),
		Role:          user.RoleUser,
		WalletBalance: decimal.Zero,
		ReferralCode:  generateReferralCode(),
		TotalEarnings: decimal.Zero,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	if referrer != nil {
		u.ReferredBy = sql.NullString{String: referrer.ReferralCode, Valid: true}
	}

	if err := s.users.Create(ctx, u); err != nil {
		return nil, err
	}

	if referrer != nil {
		if err := s.referrals.Create(ctx, &referral.Referral{
			ReferrerID:     referrer.ID,
			ReferredUserID: u.ID,
		}); err != nil {
			return nil, err
		}
	}

	return s.issueTokens(ctx, u)
}

// Login authenticates by email and password
func (s *Service) Login(ctx context.Context, req *LoginRequest) (*AuthResponse, error) {
	req.Email = normalizeEmail(req.Email)

	u, err := s.users.GetByEmail(ctx, req.Email)
	if err != nil || u == nil {
		return nil, ErrInvalidCredentials
	}
	if !u.PasswordHash.Valid || !password.Verify(req.Password, u.PasswordHash.String) {
		return nil, ErrInvalidCredentials
	}

	return s.issueTokens(ctx, u)
}

// Refresh rotates a refresh token: the presented token is validated
// against its stored hash, deleted, and replaced by a new pair.
func (s *Service) Refresh(ctx context.Context, refreshToken string) (*AuthResponse, error) {
	if refreshToken == "" {
		return nil, ErrRefreshTokenRequired
	}

	claims, err := s.jwt.ValidateRefreshToken(refreshToken)
	if err != nil {
		return nil, ErrInvalidRefreshToken
	}

	hash := jwt.HashRefreshToken(refreshToken)
	stored, err := s.tokens.GetTokenByHash(ctx, hash)
	if err != nil {
		return nil, ErrInvalidRefreshToken
	}
	if stored.UserID != claims.UserID || time.Now().After(stored.ExpiresAt) {
		_ = s.tokens.DeleteToken(ctx, hash)
		return nil, ErrInvalidRefreshToken
	}

	u, err := s.users.GetByID(ctx, stored.UserID)
	if err != nil {
		return nil, ErrInvalidRefreshToken
	}

	if err := s.tokens.DeleteToken(ctx, hash); err != nil {
		return nil, err
	}
	return s.issueTokens(ctx, u)
}

// Logout revokes every stored refresh token for the user
func (s *Service) Logout(ctx context.Context, userID uuid.UUID) error {
	return s.tokens.DeleteUserTokens(ctx, userID)
}

// Me returns the authenticated profile
func (s *Service) Me(ctx context.Context, userID uuid.UUID) (*user.Profile, error) {
	u, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	p := u.ToProfile()
	return &p, nil
}

func (s *Service) issueTokens(ctx context.Context, u *user.User) (*AuthResponse, error) {
	access, err := s.jwt.GenerateAccessToken(u.ID, string(u.Role))
	if err != nil {
		return nil, err
	}
	refresh, _, expiresAt, err := s.jwt.GenerateRefreshToken(u.ID)
	if err != nil {
		return nil, err
	}

	if err := s.tokens.CreateToken(ctx, &RefreshToken{
		ID:        uuid.New(),
		UserID:    u.ID,
		TokenHash: jwt.HashRefreshToken(refresh),
		ExpiresAt: expiresAt,
	}); err != nil {
		return nil, err
	}

	return &AuthResponse{
		AccessToken:  access,
		RefreshToken: refresh,
		User:         u.ToProfile(),
	}, nil
}

// generateReferralCode returns an 8-character uppercase hex code
func generateReferralCode() string {
	b := make([]byte, 4)
	if _, err := rand.Read(b); err != nil {
		id := uuid.New()
		copy(b, id[:4])
	}
	return strings.ToUpper(hex.EncodeToString(b))
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func nullable(s string) sql.NullString {
	s = strings.TrimSpace(s)
	return sql.NullString{String: s, Valid: s != ""}
}
