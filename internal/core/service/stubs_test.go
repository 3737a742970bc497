package service

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/energybank/energy-bank/internal/core/domain"
)

var discardLogger = zerolog.Nop()

// ---------------------------------------------------------------------------
// In-memory stub repositories. Mutations hold a mutex so the stubs give the
// same per-user atomicity the Mongo store provides with $inc updates.
// ---------------------------------------------------------------------------

type stubUserRepo struct {
	mu        sync.Mutex
	users     map[string]*domain.User
	createErr error
	creditErr error
}

func newStubUserRepo() *stubUserRepo {
	return &stubUserRepo{users: make(map[string]*domain.User)}
}

func cloneUser(u *domain.User) *domain.User {
	if u == nil {
		return nil
	}
	clone := *u
	clone.ActivePlanIDs = append([]string(nil), u.ActivePlanIDs...)
	return &clone
}

func (r *stubUserRepo) add(u *domain.User) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.users[u.ID] = cloneUser(u)
}

func (r *stubUserRepo) Create(_ context.Context, user *domain.User) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.createErr != nil {
		return nil, r.createErr
	}
	for _, u := range r.users {
		if u.Email == user.Email {
			return nil, domain.ErrUserExists
		}
	}
	clone := cloneUser(user)
	if clone.ID == "" {
		clone.ID = fmt.Sprintf("user_%d", len(r.users)+1)
	}
	r.users[clone.ID] = clone
	return cloneUser(clone), nil
}

func (r *stubUserRepo) FindByEmail(_ context.Context, email string) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.Email == email {
			return cloneUser(u), nil
		}
	}
	return nil, domain.ErrUserNotFound
}

func (r *stubUserRepo) FindByID(_ context.Context, id string) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[id]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	return cloneUser(u), nil
}

func (r *stubUserRepo) ApplyAccrual(_ context.Context, userID string, earned, energy decimal.Decimal, seconds int64, at time.Time) (decimal.Decimal, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[userID]
	if !ok {
		return decimal.Decimal{}, domain.ErrUserNotFound
	}
	u.Balance = u.Balance.Add(earned)
	u.EnergyBalance = u.EnergyBalance.Add(energy)
	u.TotalConnectedTime += seconds
	u.LastHeartbeat = &at
	return u.Balance, nil
}

func (r *stubUserRepo) DeductBalance(_ context.Context, userID string, amount decimal.Decimal) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[userID]
	if !ok {
		return domain.ErrUserNotFound
	}
	if u.Balance.LessThan(amount) {
		return domain.ErrInsufficientFunds
	}
	u.Balance = u.Balance.Sub(amount)
	return nil
}

func (r *stubUserRepo) CreditBalance(_ context.Context, userID string, amount decimal.Decimal) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.creditErr != nil {
		return r.creditErr
	}
	u, ok := r.users[userID]
	if !ok {
		return domain.ErrUserNotFound
	}
	u.Balance = u.Balance.Add(amount)
	return nil
}

func (r *stubUserRepo) PurchasePlan(_ context.Context, userID, planID string, price decimal.Decimal) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[userID]
	if !ok {
		return domain.ErrUserNotFound
	}
	if u.Balance.LessThan(price) {
		return domain.ErrInsufficientFunds
	}
	u.Balance = u.Balance.Sub(price)
	u.ActivePlanIDs = append(u.ActivePlanIDs, planID)
	return nil
}

func (r *stubUserRepo) PromoteAdmin(_ context.Context, email string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.Email == email {
			u.IsAdmin = true
			return nil
		}
	}
	return domain.ErrUserNotFound
}

type stubPlanRepo struct {
	plans []domain.Plan
}

func (r *stubPlanRepo) List(_ context.Context) ([]domain.Plan, error) {
	return append([]domain.Plan(nil), r.plans...), nil
}

func (r *stubPlanRepo) FindByID(_ context.Context, id string) (*domain.Plan, error) {
	for _, p := range r.plans {
		if p.ID == id {
			clone := p
			return &clone, nil
		}
	}
	return nil, domain.ErrPlanNotFound
}

func (r *stubPlanRepo) FindByIDs(_ context.Context, ids []string) ([]domain.Plan, error) {
	var out []domain.Plan
	for _, id := range ids {
		if p, err := r.FindByID(context.Background(), id); err == nil {
			out = append(out, *p)
		}
	}
	return out, nil
}

func (r *stubPlanRepo) Seed(_ context.Context, plans []domain.Plan) error {
	if len(r.plans) == 0 {
		r.plans = append(r.plans, plans...)
	}
	return nil
}

type stubTxRepo struct {
	mu        sync.Mutex
	txs       map[string]*domain.Transaction
	seq       int
	createErr error
}

func newStubTxRepo() *stubTxRepo {
	return &stubTxRepo{txs: make(map[string]*domain.Transaction)}
}

func (r *stubTxRepo) Create(_ context.Context, tx *domain.Transaction) (*domain.Transaction, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.createErr != nil {
		return nil, r.createErr
	}
	r.seq++
	clone := *tx
	clone.ID = fmt.Sprintf("tx_%d", r.seq)
	r.txs[clone.ID] = &clone
	out := clone
	return &out, nil
}

func (r *stubTxRepo) FindByID(_ context.Context, id string) (*domain.Transaction, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	tx, ok := r.txs[id]
	if !ok {
		return nil, domain.ErrTransactionNotFound
	}
	clone := *tx
	return &clone, nil
}

func (r *stubTxRepo) ListByUser(_ context.Context, userID string) ([]domain.Transaction, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []domain.Transaction
	for _, tx := range r.txs {
		if tx.UserID == userID {
			out = append(out, *tx)
		}
	}
	return out, nil
}

func (r *stubTxRepo) ListAll(_ context.Context) ([]domain.Transaction, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []domain.Transaction
	for _, tx := range r.txs {
		out = append(out, *tx)
	}
	return out, nil
}

// Settle mirrors the real store: the pending check and the flip are one
// critical section, so replays fail.
func (r *stubTxRepo) Settle(_ context.Context, id string, next domain.TransactionStatus) (*domain.Transaction, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	tx, ok := r.txs[id]
	if !ok {
		return nil, domain.ErrTransactionNotFound
	}
	if tx.Status != domain.StatusPending {
		return nil, domain.ErrInvalidSettlement
	}
	tx.Status = next
	clone := *tx
	return &clone, nil
}

func (r *stubTxRepo) RevertSettlement(_ context.Context, id string, from domain.TransactionStatus) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	tx, ok := r.txs[id]
	if !ok {
		return domain.ErrTransactionNotFound
	}
	if tx.Status != from {
		return domain.ErrInvalidSettlement
	}
	tx.Status = domain.StatusPending
	return nil
}

// stubLocker serializes per user with in-process mutexes.
type stubLocker struct {
	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

func newStubLocker() *stubLocker {
	return &stubLocker{locks: make(map[string]*sync.Mutex)}
}

func (l *stubLocker) Lock(_ context.Context, userID string) (func(), error) {
	l.mu.Lock()
	m, ok := l.locks[userID]
	if !ok {
		m = &sync.Mutex{}
		l.locks[userID] = m
	}
	l.mu.Unlock()
	m.Lock()
	return m.Unlock, nil
}

// ---------------------------------------------------------------------------
// Helpers
// ---------------------------------------------------------------------------

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func testUser(id, balance string, planIDs ...string) *domain.User {
	return &domain.User{
		ID:            id,
		Email:         id + "@example.com",
		Username:      id,
		Balance:       dec(balance),
		EnergyBalance: decimal.Zero,
		ActivePlanIDs: planIDs,
		CreatedAt:     time.Now().UTC(),
	}
}

func testPlan(id, name, price, powerKw string) domain.Plan {
	return domain.Plan{
		ID:      id,
		Name:    name,
		Price:   dec(price),
		PowerKw: dec(powerKw),
	}
}
