// Package memory is an in-process implementation of every repository
// interface. It backs development without postgres and the service
// tests. One mutex guards all state, so multi-entity operations are
// atomic the same way the postgres transactions are.
package memory

import (
	"sync"

	"github.com/google/uuid"

	"github.com/reelboost/reelboost-api/internal/domain/auth"
	"github.com/reelboost/reelboost-api/internal/domain/catalog"
	"github.com/reelboost/reelboost-api/internal/domain/order"
	"github.com/reelboost/reelboost-api/internal/domain/referral"
	"github.com/reelboost/reelboost-api/internal/domain/user"
	"github.com/reelboost/reelboost-api/internal/domain/wallet"
)

// Store holds all application state in maps. Domain repository views
// are exposed through the accessor methods; they all share the one
// mutex.
type Store struct {
	mu sync.RWMutex

	users        map[uuid.UUID]*user.User
	services     map[uuid.UUID]*catalog.Service
	orders       map[uuid.UUID]*order.Order
	transactions []wallet.Transaction
	proofs       map[uuid.UUID]*wallet.PaymentProof
	referrals    map[uuid.UUID]*referral.Referral
	consentLogs  []order.ConsentLog
	tokens       map[string]*auth.RefreshToken
}

func NewStore() *Store {
	return &Store{
		users:     make(map[uuid.UUID]*user.User),
		services:  make(map[uuid.UUID]*catalog.Service),
		orders:    make(map[uuid.UUID]*order.Order),
		proofs:    make(map[uuid.UUID]*wallet.PaymentProof),
		referrals: make(map[uuid.UUID]*referral.Referral),
		tokens:    make(map[string]*auth.RefreshToken),
	}
}

func (s *Store) Users() user.Store         { return &userStore{s} }
func (s *Store) Services() catalog.Store   { return &catalogStore{s} }
func (s *Store) Orders() order.Store       { return &orderStore{s} }
func (s *Store) Wallet() wallet.Store      { return &walletStore{s} }
func (s *Store) Referrals() referral.Store { return &referralStore{s} }
func (s *Store) Tokens() auth.TokenStore   { return &tokenStore{s} }
