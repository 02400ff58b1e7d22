package admin

import (
	"context"
	"crypto/rand"
	"database/sql"
	"encoding/hex"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"

	"github.com/reelboost/reelboost-api/internal/domain/catalog"
	"github.com/reelboost/reelboost-api/internal/domain/order"
	"github.com/reelboost/reelboost-api/internal/domain/user"
	"github.com/reelboost/reelboost-api/internal/domain/wallet"
	"github.com/reelboost/reelboost-api/internal/pkg/password"
)

// Service backs the admin panel: user management, catalog writes,
// order overrides, proof review and read-side analytics.
type Service struct {
	users    user.Store
	catalog  *catalog.Manager
	orders   order.Store
	wallet   *wallet.Service
	notifier order.Notifier
}

func NewService(users user.Store, catalogMgr *catalog.Manager, orders order.Store, walletSvc *wallet.Service, notifier order.Notifier) *Service {
	return &Service{users: users, catalog: catalogMgr, orders: orders, wallet: walletSvc, notifier: notifier}
}

// CreateUser provisions an account with an explicit role
func (s *Service) CreateUser(ctx context.Context, req *createUserRequest) (*user.User, error) {
	email := strings.ToLower(strings.TrimSpace(req.Email))
	if existing, _ := s.users.GetByEmail(ctx, email); existing != nil {
		return nil, user.ErrEmailExists
	}

	hash, err := password.Hash(req.Password)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	u := &user.User{
		ID:            uuid.New(),
		Email:         email,
		PasswordHash:  sql.NullString{String: hash, Valid: true},
		Role:          user.Role(req.Role),
		WalletBalance: decimal.Zero,
		ReferralCode:  strings.ToUpper(hex.EncodeToString(randomBytes(4))),
		TotalEarnings: decimal.Zero,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	if req.FirstName != "" {
		u.FirstName = sql.NullString{String: req.FirstName, Valid: true}
	}
	if req.LastName != "" {
		u.LastName = sql.NullString{String: req.LastName, Valid: true}
	}

	if err := s.users.Create(ctx, u); err != nil {
		return nil, err
	}
	log.Info().Str("user_id", u.ID.String()).Str("role", req.Role).Msg("admin created user")
	return u, nil
}

// UpdateUser patches role, balance and reseller markup. The balance
// write is an absolute override and deliberately leaves no ledger row.
func (s *Service) UpdateUser(ctx context.Context, id uuid.UUID, req *updateUserRequest) (*user.User, error) {
	u, err := s.users.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Role != nil && user.Role(*req.Role) != u.Role {
		if err := s.users.UpdateRole(ctx, id, user.Role(*req.Role)); err != nil {
			return nil, err
		}
	}
	if req.WalletBalance != nil {
		balance := req.WalletBalance.Round(2)
		if err := s.users.SetBalance(ctx, id, balance); err != nil {
			return nil, err
		}
		if s.notifier != nil {
			s.notifier.NotifyBalance(id, balance)
		}
		log.Info().
			Str("user_id", id.String()).
			Str("balance", balance.StringFixed(2)).
			Msg("admin set wallet balance")
	}
	if req.ResellerMarkup != nil {
		if err := s.users.SetResellerMarkup(ctx, id, req.ResellerMarkup.Round(2)); err != nil {
			return nil, err
		}
	}

	return s.users.GetByID(ctx, id)
}

// GenerateAPIKey mints a reseller key and enables API access
func (s *Service) GenerateAPIKey(ctx context.Context, id uuid.UUID) (string, error) {
	if _, err := s.users.GetByID(ctx, id); err != nil {
		return "", err
	}

	key := "rb_" + hex.EncodeToString(randomBytes(24))
	if err := s.users.SetAPIKey(ctx, id, key, true); err != nil {
		return "", err
	}
	log.Info().Str("user_id", id.String()).Msg("reseller API key generated")
	return key, nil
}

// RefundOrder flips an order to refunded and credits the buyer once
func (s *Service) RefundOrder(ctx context.Context, id uuid.UUID) (*order.Order, error) {
	result, err := s.orders.Refund(ctx, id)
	if err != nil {
		return nil, err
	}
	if s.notifier != nil {
		s.notifier.NotifyBalance(result.Order.UserID, result.NewBalance)
		s.notifier.NotifyOrderStatus(result.Order.UserID, result.Order.ID, string(result.Order.Status))
	}
	log.Info().
		Str("order_id", id.String()).
		Str("amount", result.Order.Amount.StringFixed(2)).
		Msg("order refunded")
	return result.Order, nil
}

// SetOrderStatus applies an admin status override. A refund goes
// through RefundOrder so the credit happens atomically.
func (s *Service) SetOrderStatus(ctx context.Context, id uuid.UUID, status order.Status) (*order.Order, error) {
	if status == order.StatusRefunded {
		return s.RefundOrder(ctx, id)
	}

	if err := s.orders.UpdateStatus(ctx, id, status); err != nil {
		return nil, err
	}
	o, err := s.orders.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if s.notifier != nil {
		s.notifier.NotifyOrderStatus(o.UserID, o.ID, string(o.Status))
	}
	return o, nil
}

// Analytics aggregates the admin dashboard numbers on read
type Analytics struct {
	TotalUsers     int             `json:"total_users"`
	TotalOrders    int             `json:"total_orders"`
	TotalRevenue   decimal.Decimal `json:"total_revenue"`
	OrdersByStatus map[string]int  `json:"orders_by_status"`
	PendingProofs  int             `json:"pending_proofs"`
	ActiveServices int             `json:"active_services"`
}

func (s *Service) Dashboard(ctx context.Context) (*Analytics, error) {
	users, err := s.users.List(ctx)
	if err != nil {
		return nil, err
	}
	orders, err := s.orders.ListAll(ctx)
	if err != nil {
		return nil, err
	}
	proofs, err := s.wallet.AllProofs(ctx)
	if err != nil {
		return nil, err
	}
	services, err := s.catalog.List(ctx)
	if err != nil {
		return nil, err
	}

	out := &Analytics{
		TotalUsers:     len(users),
		TotalOrders:    len(orders),
		TotalRevenue:   decimal.Zero,
		OrdersByStatus: map[string]int{},
	}
	for _, o := range orders {
		out.OrdersByStatus[string(o.Status)]++
		if o.Status != order.StatusRefunded {
			out.TotalRevenue = out.TotalRevenue.Add(o.Amount)
		}
	}
	for _, p := range proofs {
		if p.Status == wallet.ProofStatusPending {
			out.PendingProofs++
		}
	}
	for _, svc := range services {
		if svc.IsActive == 1 {
			out.ActiveServices++
		}
	}
	return out, nil
}

func randomBytes(n int) []byte {
	b := make([]byte, n)
	if _, err := rand.Read(b); err != nil {
		id := uuid.New()
		for i := range b {
			b[i] = id[i%len(id)]
		}
	}
	return b
}

func serviceFromRequest(req *serviceRequest, id uuid.UUID) (*catalog.Service, error) {
	if req.MaxQuantity < req.MinQuantity {
		return nil, fmt.Errorf("%w: min %d exceeds max %d", catalog.ErrInvalidQuantity, req.MinQuantity, req.MaxQuantity)
	}

	svc := &catalog.Service{
		ID:               id,
		Platform:         catalog.Platform(req.Platform),
		Name:             req.Name,
		PricePerThousand: req.PricePerThousand,
		MinQuantity:      req.MinQuantity,
		MaxQuantity:      req.MaxQuantity,
		IsActive:         1,
	}
	if req.Description != "" {
		svc.Description = &req.Description
	}
	if req.ETA != "" {
		svc.ETA = &req.ETA
	}
	if req.SupplierServiceID != "" {
		svc.SupplierServiceID = &req.SupplierServiceID
	}
	if req.IsActive != nil && !*req.IsActive {
		svc.IsActive = 0
	}
	return svc, nil
}
