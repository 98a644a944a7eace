package mocks

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
	"sync/atomic"
	"time"

	"github.com/shopspring/decimal"

	"github.com/iho/cashbook/internal/domain"
	"github.com/iho/cashbook/internal/usecase"
)

// MockStore is an in-memory stand-in for the database behind the repository
// mocks.
//
// Transactions are serialized: Begin holds txMu until Commit or Rollback,
// which gives every unit of work the isolation the row locks give in
// postgres. Rollback restores the snapshot taken at Begin.
type MockStore struct {
	txMu sync.Mutex
	mu   sync.Mutex

	borrowers map[string]domain.Borrower
	loans     map[string]domain.Loan
	periods   map[string]domain.Period
	receipts  []domain.Receipt
	expenses  []domain.Expense
	owner     []domain.OwnerTransaction
	outbox    []domain.OutboxEvent

	Borrowers         *MockBorrowerRepository
	Loans             *MockLoanRepository
	Periods           *MockPeriodRepository
	Receipts          *MockReceiptRepository
	Expenses          *MockExpenseRepository
	OwnerTransactions *MockOwnerTransactionRepository
	Outbox            *MockOutboxRepository
	TxManager         *MockTxManager
}

// NewMockStore creates an empty store with all repositories attached.
func NewMockStore() *MockStore {
	s := &MockStore{
		borrowers: make(map[string]domain.Borrower),
		loans:     make(map[string]domain.Loan),
		periods:   make(map[string]domain.Period),
	}
	s.Borrowers = &MockBorrowerRepository{s: s}
	s.Loans = &MockLoanRepository{s: s}
	s.Periods = &MockPeriodRepository{s: s}
	s.Receipts = &MockReceiptRepository{s: s}
	s.Expenses = &MockExpenseRepository{s: s}
	s.OwnerTransactions = &MockOwnerTransactionRepository{s: s}
	s.Outbox = &MockOutboxRepository{s: s}
	s.TxManager = &MockTxManager{s: s}
	return s
}

// Repositories returns the store's repositories for usecase.Deps.
func (s *MockStore) Repositories() usecase.Repositories {
	return usecase.Repositories{
		Borrowers:         s.Borrowers,
		Loans:             s.Loans,
		Periods:           s.Periods,
		Receipts:          s.Receipts,
		Expenses:          s.Expenses,
		OwnerTransactions: s.OwnerTransactions,
		Outbox:            s.Outbox,
	}
}

// Events returns a copy of every outbox event written so far.
func (s *MockStore) Events() []domain.OutboxEvent {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]domain.OutboxEvent(nil), s.outbox...)
}

// CountPeriods returns the number of stored periods.
func (s *MockStore) CountPeriods() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.periods)
}

// PutPeriod stores p as is, bypassing the use cases.
func (s *MockStore) PutPeriod(p *domain.Period) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.periods[p.ID] = *p
}

// PutBorrower stores b as is, bypassing the use cases.
func (s *MockStore) PutBorrower(b *domain.Borrower) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.borrowers[b.ID] = *b
}

type snapshot struct {
	borrowers map[string]domain.Borrower
	loans     map[string]domain.Loan
	periods   map[string]domain.Period
	receipts  []domain.Receipt
	expenses  []domain.Expense
	owner     []domain.OwnerTransaction
	outbox    []domain.OutboxEvent
}

func (s *MockStore) snapshot() snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return snapshot{
		borrowers: cloneMap(s.borrowers),
		loans:     cloneMap(s.loans),
		periods:   cloneMap(s.periods),
		receipts:  append([]domain.Receipt(nil), s.receipts...),
		expenses:  append([]domain.Expense(nil), s.expenses...),
		owner:     append([]domain.OwnerTransaction(nil), s.owner...),
		outbox:    append([]domain.OutboxEvent(nil), s.outbox...),
	}
}

func (s *MockStore) restore(snap snapshot) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.borrowers = snap.borrowers
	s.loans = snap.loans
	s.periods = snap.periods
	s.receipts = snap.receipts
	s.expenses = snap.expenses
	s.owner = snap.owner
	s.outbox = snap.outbox
}

func cloneMap[V any](m map[string]V) map[string]V {
	out := make(map[string]V, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}

// MockTxManager implements usecase.TransactionManager over a MockStore.
type MockTxManager struct {
	s *MockStore

	commits   atomic.Int64
	rollbacks atomic.Int64
}

// Begin waits for any open transaction to finish and starts a new one.
// Units of work never interleave here, so concurrent tests against the
// store check outcomes of serial execution only; interleavings under row
// locks are exercised by the postgres integration tests.
func (m *MockTxManager) Begin(ctx context.Context) (usecase.Transaction, error) {
	m.s.txMu.Lock()
	return &MockTx{m: m, snap: m.s.snapshot()}, nil
}

// Commits returns the number of committed transactions.
func (m *MockTxManager) Commits() int64 { return m.commits.Load() }

// Rollbacks returns the number of transactions rolled back before commit.
func (m *MockTxManager) Rollbacks() int64 { return m.rollbacks.Load() }

// MockTx is a transaction of a MockStore.
type MockTx struct {
	m    *MockTxManager
	snap snapshot
	done bool
}

// Commit keeps the changes made since Begin.
func (t *MockTx) Commit(ctx context.Context) error {
	if t.done {
		return errors.New("mock tx: already finished")
	}
	t.done = true
	t.m.commits.Add(1)
	t.m.s.txMu.Unlock()
	return nil
}

// Rollback discards the changes made since Begin. It is a no-op after
// Commit.
func (t *MockTx) Rollback(ctx context.Context) error {
	if t.done {
		return nil
	}
	t.done = true
	t.m.s.restore(t.snap)
	t.m.rollbacks.Add(1)
	t.m.s.txMu.Unlock()
	return nil
}

// MockBorrowerRepository implements usecase.BorrowerRepository.
type MockBorrowerRepository struct {
	s *MockStore

	CreateFunc func(ctx context.Context, b *domain.Borrower) error
}

func (r *MockBorrowerRepository) Create(ctx context.Context, b *domain.Borrower) error {
	if r.CreateFunc != nil {
		return r.CreateFunc(ctx, b)
	}
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.borrowers[b.ID] = *b
	return nil
}

func (r *MockBorrowerRepository) GetByID(ctx context.Context, id string) (*domain.Borrower, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	b, ok := r.s.borrowers[id]
	if !ok {
		return nil, domain.ErrBorrowerNotFound
	}
	return &b, nil
}

func (r *MockBorrowerRepository) GetByIDForUpdate(ctx context.Context, tx usecase.Transaction, id string) (*domain.Borrower, error) {
	return r.GetByID(ctx, id)
}

func (r *MockBorrowerRepository) Update(ctx context.Context, b *domain.Borrower) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.borrowers[b.ID]; !ok {
		return domain.ErrBorrowerNotFound
	}
	r.s.borrowers[b.ID] = *b
	return nil
}

func (r *MockBorrowerRepository) Delete(ctx context.Context, tx usecase.Transaction, id string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.borrowers[id]; !ok {
		return domain.ErrBorrowerNotFound
	}
	for _, l := range r.s.loans {
		if l.BorrowerID == id {
			return domain.ErrBorrowerHasLoans
		}
	}
	delete(r.s.borrowers, id)
	return nil
}

func (r *MockBorrowerRepository) List(ctx context.Context, limit, offset int) ([]*domain.Borrower, error) {
	r.s.mu.Lock()
	all := make([]*domain.Borrower, 0, len(r.s.borrowers))
	for _, b := range r.s.borrowers {
		b := b
		all = append(all, &b)
	}
	r.s.mu.Unlock()

	sort.Slice(all, func(i, j int) bool {
		if all[i].FullName != all[j].FullName {
			return all[i].FullName < all[j].FullName
		}
		return all[i].ID < all[j].ID
	})
	return page(all, limit, offset), nil
}

// MockLoanRepository implements usecase.LoanRepository.
type MockLoanRepository struct {
	s *MockStore

	UpdateFunc func(ctx context.Context, tx usecase.Transaction, loan *domain.Loan) error
}

func (r *MockLoanRepository) Create(ctx context.Context, tx usecase.Transaction, l *domain.Loan) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.borrowers[l.BorrowerID]; !ok {
		return domain.ErrBorrowerNotFound
	}
	stored := *l
	stored.BorrowerName = ""
	r.s.loans[l.ID] = stored
	return nil
}

func (r *MockLoanRepository) GetByID(ctx context.Context, id string) (*domain.Loan, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	l, ok := r.s.loans[id]
	if !ok {
		return nil, domain.ErrLoanNotFound
	}
	l.BorrowerName = r.s.borrowers[l.BorrowerID].FullName
	return &l, nil
}

func (r *MockLoanRepository) GetByIDForUpdate(ctx context.Context, tx usecase.Transaction, id string) (*domain.Loan, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	l, ok := r.s.loans[id]
	if !ok {
		return nil, domain.ErrLoanNotFound
	}
	return &l, nil
}

func (r *MockLoanRepository) HasActiveLoan(ctx context.Context, tx usecase.Transaction, borrowerID string) (bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, l := range r.s.loans {
		if l.BorrowerID == borrowerID && l.Status == domain.LoanStatusActive {
			return true, nil
		}
	}
	return false, nil
}

func (r *MockLoanRepository) CountByBorrower(ctx context.Context, tx usecase.Transaction, borrowerID string) (int, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	n := 0
	for _, l := range r.s.loans {
		if l.BorrowerID == borrowerID {
			n++
		}
	}
	return n, nil
}

func (r *MockLoanRepository) Update(ctx context.Context, tx usecase.Transaction, l *domain.Loan) error {
	if r.UpdateFunc != nil {
		return r.UpdateFunc(ctx, tx, l)
	}
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.loans[l.ID]; !ok {
		return domain.ErrLoanNotFound
	}
	stored := *l
	stored.BorrowerName = ""
	r.s.loans[l.ID] = stored
	return nil
}

func (r *MockLoanRepository) Delete(ctx context.Context, tx usecase.Transaction, id string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.loans[id]; !ok {
		return domain.ErrLoanNotFound
	}
	for _, rc := range r.s.receipts {
		if rc.LoanID == id {
			return domain.ErrLoanHasPayments
		}
	}
	delete(r.s.loans, id)
	return nil
}

func (r *MockLoanRepository) Portfolio(ctx context.Context) (*domain.Portfolio, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	p := &domain.Portfolio{Borrowers: int64(len(r.s.borrowers))}
	for _, l := range r.s.loans {
		l := l
		p.Add(&l)
	}
	return p, nil
}

func (r *MockLoanRepository) List(ctx context.Context, filter usecase.LoanFilter) ([]*domain.Loan, error) {
	r.s.mu.Lock()
	all := make([]*domain.Loan, 0, len(r.s.loans))
	for _, l := range r.s.loans {
		if filter.BorrowerID != "" && l.BorrowerID != filter.BorrowerID {
			continue
		}
		if filter.Status != "" && l.Status != filter.Status {
			continue
		}
		l := l
		l.BorrowerName = r.s.borrowers[l.BorrowerID].FullName
		all = append(all, &l)
	}
	r.s.mu.Unlock()

	sort.Slice(all, func(i, j int) bool {
		if !all[i].CreatedAt.Equal(all[j].CreatedAt) {
			return all[i].CreatedAt.After(all[j].CreatedAt)
		}
		return all[i].ID > all[j].ID
	})
	return page(all, filter.Limit, filter.Offset), nil
}

// MockPeriodRepository implements usecase.PeriodRepository.
type MockPeriodRepository struct {
	s *MockStore

	UpdateTotalsFunc func(ctx context.Context, tx usecase.Transaction, id string, totals domain.Totals, updatedAt time.Time) error
}

func (r *MockPeriodRepository) CreateIfAbsent(ctx context.Context, tx usecase.Transaction, p *domain.Period) (bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, existing := range r.s.periods {
		if existing.Date.Equal(p.Date) {
			return false, nil
		}
	}
	r.s.periods[p.ID] = *p
	return true, nil
}

func (r *MockPeriodRepository) GetByID(ctx context.Context, id string) (*domain.Period, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	p, ok := r.s.periods[id]
	if !ok {
		return nil, domain.ErrPeriodNotFound
	}
	return &p, nil
}

func (r *MockPeriodRepository) GetByIDTx(ctx context.Context, tx usecase.Transaction, id string) (*domain.Period, error) {
	return r.GetByID(ctx, id)
}

func (r *MockPeriodRepository) GetByIDForUpdate(ctx context.Context, tx usecase.Transaction, id string) (*domain.Period, error) {
	return r.GetByID(ctx, id)
}

func (r *MockPeriodRepository) GetByDate(ctx context.Context, date time.Time) (*domain.Period, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, p := range r.s.periods {
		if p.Date.Equal(date) {
			return &p, nil
		}
	}
	return nil, domain.ErrPeriodNotFound
}

func (r *MockPeriodRepository) GetLatestBefore(ctx context.Context, tx usecase.Transaction, date time.Time) (*domain.Period, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var latest *domain.Period
	for _, p := range r.s.periods {
		if !p.Date.Before(date) {
			continue
		}
		if latest == nil || p.Date.After(latest.Date) {
			p := p
			latest = &p
		}
	}
	if latest == nil {
		return nil, domain.ErrPeriodNotFound
	}
	return latest, nil
}

func (r *MockPeriodRepository) UpdateTotals(ctx context.Context, tx usecase.Transaction, id string, t domain.Totals, updatedAt time.Time) error {
	if r.UpdateTotalsFunc != nil {
		return r.UpdateTotalsFunc(ctx, tx, id, t, updatedAt)
	}
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	p, ok := r.s.periods[id]
	if !ok || p.Locked {
		return domain.ErrPeriodLocked
	}
	p.ApplyTotals(t, updatedAt)
	r.s.periods[id] = p
	return nil
}

func (r *MockPeriodRepository) Lock(ctx context.Context, tx usecase.Transaction, id string, lockedAt time.Time) (bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	p, ok := r.s.periods[id]
	if !ok || p.Locked {
		return false, nil
	}
	if err := p.Lock(lockedAt); err != nil {
		return false, err
	}
	r.s.periods[id] = p
	return true, nil
}

func (r *MockPeriodRepository) List(ctx context.Context, limit, offset int) ([]*domain.Period, error) {
	r.s.mu.Lock()
	all := make([]*domain.Period, 0, len(r.s.periods))
	for _, p := range r.s.periods {
		p := p
		all = append(all, &p)
	}
	r.s.mu.Unlock()

	sort.Slice(all, func(i, j int) bool { return all[i].Date.After(all[j].Date) })
	return page(all, limit, offset), nil
}

// MockReceiptRepository implements usecase.ReceiptRepository.
type MockReceiptRepository struct {
	s *MockStore

	CreateFunc       func(ctx context.Context, tx usecase.Transaction, r *domain.Receipt) error
	ListByPeriodFunc func(ctx context.Context, tx usecase.Transaction, periodID string) ([]*domain.Receipt, error)
}

func (r *MockReceiptRepository) Create(ctx context.Context, tx usecase.Transaction, rc *domain.Receipt) error {
	if r.CreateFunc != nil {
		return r.CreateFunc(ctx, tx, rc)
	}
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.receipts = append(r.s.receipts, *rc)
	return nil
}

func (r *MockReceiptRepository) ListByPeriod(ctx context.Context, tx usecase.Transaction, periodID string) ([]*domain.Receipt, error) {
	if r.ListByPeriodFunc != nil {
		return r.ListByPeriodFunc(ctx, tx, periodID)
	}
	r.s.mu.Lock()
	var out []*domain.Receipt
	for _, rc := range r.s.receipts {
		if rc.PeriodID != periodID {
			continue
		}
		rc := rc
		if l, ok := r.s.loans[rc.LoanID]; ok {
			b := r.s.borrowers[l.BorrowerID]
			rc.BorrowerName = b.FullName
			rc.BorrowerPhone = b.Phone
		}
		out = append(out, &rc)
	}
	r.s.mu.Unlock()

	sort.SliceStable(out, func(i, j int) bool {
		if !out[i].PaidAt.Equal(out[j].PaidAt) {
			return out[i].PaidAt.Before(out[j].PaidAt)
		}
		return out[i].ID < out[j].ID
	})
	return out, nil
}

func (r *MockReceiptRepository) CountByLoan(ctx context.Context, tx usecase.Transaction, loanID string) (int, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	n := 0
	for _, rc := range r.s.receipts {
		if rc.LoanID == loanID {
			n++
		}
	}
	return n, nil
}

// MockExpenseRepository implements usecase.ExpenseRepository.
type MockExpenseRepository struct {
	s *MockStore

	CreateFunc func(ctx context.Context, tx usecase.Transaction, e *domain.Expense) error
}

func (r *MockExpenseRepository) Create(ctx context.Context, tx usecase.Transaction, e *domain.Expense) error {
	if r.CreateFunc != nil {
		return r.CreateFunc(ctx, tx, e)
	}
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.expenses = append(r.s.expenses, *e)
	return nil
}

func (r *MockExpenseRepository) ListByPeriod(ctx context.Context, tx usecase.Transaction, periodID string) ([]*domain.Expense, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []*domain.Expense
	for _, e := range r.s.expenses {
		if e.PeriodID == periodID {
			e := e
			out = append(out, &e)
		}
	}
	return out, nil
}

func (r *MockExpenseRepository) UpdateLoanExpense(ctx context.Context, tx usecase.Transaction, loanID string, amount decimal.Decimal) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for i, e := range r.s.expenses {
		if e.Source == domain.ExpenseSourceLoan && e.ReferenceID != nil && *e.ReferenceID == loanID {
			r.s.expenses[i].Amount = amount
		}
	}
	return nil
}

func (r *MockExpenseRepository) DeleteByReference(ctx context.Context, tx usecase.Transaction, source domain.ExpenseSource, referenceID string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	kept := r.s.expenses[:0:0]
	for _, e := range r.s.expenses {
		if e.Source == source && e.ReferenceID != nil && *e.ReferenceID == referenceID {
			continue
		}
		kept = append(kept, e)
	}
	r.s.expenses = kept
	return nil
}

// MockOwnerTransactionRepository implements usecase.OwnerTransactionRepository.
type MockOwnerTransactionRepository struct {
	s *MockStore
}

func (r *MockOwnerTransactionRepository) Create(ctx context.Context, tx usecase.Transaction, o *domain.OwnerTransaction) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.owner = append(r.s.owner, *o)
	return nil
}

func (r *MockOwnerTransactionRepository) ListByPeriod(ctx context.Context, tx usecase.Transaction, periodID string) ([]*domain.OwnerTransaction, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []*domain.OwnerTransaction
	for _, o := range r.s.owner {
		if o.PeriodID == periodID {
			o := o
			out = append(out, &o)
		}
	}
	return out, nil
}

// MockOutboxRepository implements usecase.OutboxRepository.
type MockOutboxRepository struct {
	s *MockStore
}

func (r *MockOutboxRepository) Create(ctx context.Context, tx usecase.Transaction, event *domain.OutboxEvent) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.outbox = append(r.s.outbox, *event)
	return nil
}

func (r *MockOutboxRepository) GetUnpublished(ctx context.Context, limit int) ([]*domain.OutboxEvent, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []*domain.OutboxEvent
	for _, e := range r.s.outbox {
		if !e.Published {
			e := e
			out = append(out, &e)
		}
		if len(out) == limit {
			break
		}
	}
	return out, nil
}

func (r *MockOutboxRepository) MarkPublished(ctx context.Context, id string, publishedAt time.Time) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for i := range r.s.outbox {
		if r.s.outbox[i].ID == id {
			at := publishedAt
			r.s.outbox[i].Published = true
			r.s.outbox[i].PublishedAt = &at
		}
	}
	return nil
}

func (r *MockOutboxRepository) GetByAggregate(ctx context.Context, aggregateType, aggregateID string, limit, offset int) ([]*domain.OutboxEvent, error) {
	r.s.mu.Lock()
	var out []*domain.OutboxEvent
	for _, e := range r.s.outbox {
		if e.AggregateType == aggregateType && e.AggregateID == aggregateID {
			e := e
			out = append(out, &e)
		}
	}
	r.s.mu.Unlock()
	return page(out, limit, offset), nil
}

func (r *MockOutboxRepository) DeletePublished(ctx context.Context, before time.Time) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	kept := r.s.outbox[:0:0]
	for _, e := range r.s.outbox {
		if e.Published && e.PublishedAt != nil && e.PublishedAt.Before(before) {
			continue
		}
		kept = append(kept, e)
	}
	r.s.outbox = kept
	return nil
}

func page[T any](all []T, limit, offset int) []T {
	if offset >= len(all) {
		return []T{}
	}
	end := len(all)
	if limit > 0 && offset+limit < end {
		end = offset + limit
	}
	return all[offset:end]
}

// SequentialIDGenerator yields IDs that sort in generation order.
type SequentialIDGenerator struct {
	prefix string
	n      atomic.Int64
}

// NewSequentialIDGenerator creates a generator producing prefix-000001, ...
func NewSequentialIDGenerator(prefix string) *SequentialIDGenerator {
	return &SequentialIDGenerator{prefix: prefix}
}

func (g *SequentialIDGenerator) Generate() string {
	return fmt.Sprintf("%s-%06d", g.prefix, g.n.Add(1))
}

// FixedClock is a settable clock.
type FixedClock struct {
	mu  sync.Mutex
	now time.Time
}

// NewFixedClock creates a clock stopped at now.
func NewFixedClock(now time.Time) *FixedClock {
	return &FixedClock{now: now}
}

func (c *FixedClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

// Advance moves the clock forward by d.
func (c *FixedClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

// Set moves the clock to t.
func (c *FixedClock) Set(t time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = t
}
