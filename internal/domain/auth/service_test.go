package auth_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/reelboost/reelboost-api/internal/domain/auth"
	"github.com/reelboost/reelboost-api/internal/domain/user"
	"github.com/reelboost/reelboost-api/internal/pkg/jwt"
	"github.com/reelboost/reelboost-api/internal/store/memory"
)

func newAuth(t *testing.T) (*memory.Store, *auth.Service) {
	t.Helper()
	store := memory.NewStore()
	jwtSvc := jwt.NewService("test-secret", 15*time.Minute, 7*24*time.Hour)
	return store, auth.NewService(store.Users(), store.Tokens(), store.Referrals(), jwtSvc)
}

func TestSignupIssuesTokensAndReferralCode(t *testing.T) {
	_, svc := newAuth(t)

	resp, err := svc.Signup(context.Background(), &auth.SignupRequest{
		Email:    "New.User@Example.com",
		Password: "correct-horse",
	})
	if err != nil {
		t.Fatalf("signup: %v", err)
	}

	if resp.AccessToken == "" || resp.RefreshToken == "" {
		t.Error("missing tokens")
	}
	if resp.User.Email != "new.user@example.com" {
		t.Errorf("email not normalized: %s", resp.User.Email)
	}
	if len(resp.User.ReferralCode) != 8 {
		t.Errorf("referral code = %q, want 8 chars", resp.User.ReferralCode)
	}
	if resp.User.Role != user.RoleUser {
		t.Errorf("role = %s, want user", resp.User.Role)
	}

	if _, err := svc.Signup(context.Background(), &auth.SignupRequest{
		Email:    "new.user@example.com",
		Password: "other-password",
	}); !errors.Is(err, auth.ErrEmailAlreadyExists) {
		t.Errorf("duplicate signup err = %v, want ErrEmailAlreadyExists", err)
	}
}

func TestSignupWithReferralCodeRecordsAttribution(t *testing.T) {
	store, svc := newAuth(t)

	referrer, err := svc.Signup(context.Background(), &auth.SignupRequest{
		Email:    "referrer@example.com",
		Password: "correct-horse",
	})
	if err != nil {
		t.Fatalf("signup referrer: %v", err)
	}

	referred, err := svc.Signup(context.Background(), &auth.SignupRequest{
		Email:        "referred@example.com",
		Password:     "correct-horse",
		ReferralCode: referrer.User.ReferralCode,
	})
	if err != nil {
		t.Fatalf("signup referred: %v", err)
	}
	if referred.User.ReferredBy != referrer.User.ReferralCode {
		t.Errorf("referred_by = %q, want %q", referred.User.ReferredBy, referrer.User.ReferralCode)
	}

	refs, err := store.Referrals().ListByReferrer(context.Background(), referrer.User.ID)
	if err != nil {
		t.Fatalf("list referrals: %v", err)
	}
	if len(refs) != 1 || refs[0].ReferredUserID != referred.User.ID {
		t.Fatalf("referrals = %+v", refs)
	}
	if !refs[0].CommissionEarned.IsZero() {
		t.Errorf("commission at signup = %s, want 0", refs[0].CommissionEarned)
	}

	if _, err := svc.Signup(context.Background(), &auth.SignupRequest{
		Email:        "third@example.com",
		Password:     "correct-horse",
		ReferralCode: "NOPE9999",
	}); !errors.Is(err, auth.ErrInvalidReferralCode) {
		t.Errorf("bad code err = %v, want ErrInvalidReferralCode", err)
	}
}

func TestLogin(t *testing.T) {
	_, svc := newAuth(t)

	if _, err := svc.Signup(context.Background(), &auth.SignupRequest{
		Email:    "login@example.com",
		Password: "correct-horse",
	}); err != nil {
		t.Fatalf("signup: %v", err)
	}

	if _, err := svc.Login(context.Background(), &auth.LoginRequest{
		Email:    "login@example.com",
		Password: "correct-horse",
	}); err != nil {
		t.Fatalf("login: %v", err)
	}

	if _, err := svc.Login(context.Background(), &auth.LoginRequest{
		Email:    "login@example.com",
		Password: "wrong",
	}); !errors.Is(err, auth.ErrInvalidCredentials) {
		t.Errorf("bad password err = %v, want ErrInvalidCredentials", err)
	}
	if _, err := svc.Login(context.Background(), &auth.LoginRequest{
		Email:    "nobody@example.com",
		Password: "correct-horse",
	}); !errors.Is(err, auth.ErrInvalidCredentials) {
		t.Errorf("unknown email err = %v, want ErrInvalidCredentials", err)
	}
}

func TestRefreshRotatesToken(t *testing.T) {
	_, svc := newAuth(t)

	signed, err := svc.Signup(context.Background(), &auth.SignupRequest{
		Email:    "rotate@example.com",
		Password: "correct-horse",
	})
	if err != nil {
		t.Fatalf("signup: %v", err)
	}

	refreshed, err := svc.Refresh(context.Background(), signed.RefreshToken)
	if err != nil {
		t.Fatalf("refresh: %v", err)
	}
	if refreshed.RefreshToken == signed.RefreshToken {
		t.Error("refresh token not rotated")
	}

	// The old token is spent
	if _, err := svc.Refresh(context.Background(), signed.RefreshToken); !errors.Is(err, auth.ErrInvalidRefreshToken) {
		t.Errorf("reused token err = %v, want ErrInvalidRefreshToken", err)
	}

	// The new one still works
	if _, err := svc.Refresh(context.Background(), refreshed.RefreshToken); err != nil {
		t.Errorf("second rotation err = %v", err)
	}

	if _, err := svc.Refresh(context.Background(), ""); !errors.Is(err, auth.ErrRefreshTokenRequired) {
		t.Errorf("empty token err = %v, want ErrRefreshTokenRequired", err)
	}
	if _, err := svc.Refresh(context.Background(), "garbage"); !errors.Is(err, auth.ErrInvalidRefreshToken) {
		t.Errorf("garbage token err = %v, want ErrInvalidRefreshToken", err)
	}
}

func TestLogoutRevokesRefreshTokens(t *testing.T) {
	_, svc := newAuth(t)

	signed, err := svc.Signup(context.Background(), &auth.SignupRequest{
		Email:    "logout@example.com",
		Password: "correct-horse",
	})
	if err != nil {
		t.Fatalf("signup: %v", err)
	}

	if err := svc.Logout(context.Background(), signed.User.ID); err != nil {
		t.Fatalf("logout: %v", err)
	}
	if _, err := svc.Refresh(context.Background(), signed.RefreshToken); !errors.Is(err, auth.ErrInvalidRefreshToken) {
		t.Errorf("post-logout refresh err = %v, want ErrInvalidRefreshToken", err)
	}
}
