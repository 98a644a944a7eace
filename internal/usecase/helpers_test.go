package usecase_test

import (
	"context"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/iho/cashbook/internal/domain"
	"github.com/iho/cashbook/internal/infrastructure/metrics"
	"github.com/iho/cashbook/internal/usecase"
	"github.com/iho/cashbook/internal/usecase/mocks"
)

var (
	day1 = time.Date(2025, 3, 13, 0, 0, 0, 0, time.UTC)
	day2 = time.Date(2025, 3, 14, 0, 0, 0, 0, time.UTC)
)

type harness struct {
	store      *mocks.MockStore
	clock      *mocks.FixedClock
	metrics    *metrics.Metrics
	deps       usecase.Deps
	settlement *usecase.SettlementEngine
	periods    *usecase.PeriodUseCase
	loans      *usecase.LoanUseCase
	cash       *usecase.CashUseCase
	borrowers  *usecase.BorrowerUseCase
}

func newHarness(t *testing.T) *harness {
	t.Helper()

	store := mocks.NewMockStore()
	clock := mocks.NewFixedClock(day2.Add(9 * time.Hour))
	m := metrics.NewWithRegistry(prometheus.NewRegistry())

	deps := usecase.Deps{
		TxManager: store.TxManager,
		Repos:     store.Repositories(),
		IDGen:     mocks.NewSequentialIDGenerator("id"),
		Clock:     clock,
		Metrics:   m,
		Logger:    zerolog.Nop(),
		Location:  time.UTC,
	}

	settlement := usecase.NewSettlementEngine(deps)
	periods := usecase.NewPeriodUseCase(deps, settlement)

	return &harness{
		store:      store,
		clock:      clock,
		metrics:    m,
		deps:       deps,
		settlement: settlement,
		periods:    periods,
		loans:      usecase.NewLoanUseCase(deps, periods, settlement, domain.DefaultLoanPolicy()),
		cash:       usecase.NewCashUseCase(deps, periods, settlement),
		borrowers:  usecase.NewBorrowerUseCase(deps),
	}
}

// at moves the clock to 09:00 on day.
func (h *harness) at(day time.Time) {
	h.clock.Set(day.Add(9 * time.Hour))
}

func (h *harness) tick() {
	h.clock.Advance(time.Minute)
}

func (h *harness) borrower(t *testing.T, name string) *domain.Borrower {
	t.Helper()
	b, err := h.borrowers.CreateBorrower(context.Background(), usecase.CreateBorrowerInput{
		FullName: name,
		Phone:    "0788000000",
	})
	require.NoError(t, err)
	return b
}

func (h *harness) issue(t *testing.T, borrowerID string, principal int64) *domain.Loan {
	t.Helper()
	h.tick()
	loan, err := h.loans.IssueLoan(context.Background(), usecase.IssueLoanInput{
		BorrowerID: borrowerID,
		Principal:  dec(principal),
	})
	require.NoError(t, err)
	return loan
}

func (h *harness) expense(t *testing.T, amount int64) *usecase.ExpenseResult {
	t.Helper()
	h.tick()
	res, err := h.cash.AddExpense(context.Background(), usecase.AddExpenseInput{
		Description: "Transport",
		Amount:      dec(amount),
	})
	require.NoError(t, err)
	return res
}

func (h *harness) owner(t *testing.T, typ domain.OwnerTxType, amount int64) *usecase.OwnerTransactionResult {
	t.Helper()
	h.tick()
	res, err := h.cash.AddOwnerTransaction(context.Background(), usecase.AddOwnerTransactionInput{
		Type:   typ,
		Amount: dec(amount),
	})
	require.NoError(t, err)
	return res
}

func (h *harness) pay(t *testing.T, loanID string, amount int64) *usecase.PaymentResult {
	t.Helper()
	h.tick()
	res, err := h.loans.ApplyPayment(context.Background(), usecase.PaymentInput{
		LoanID: loanID,
		Amount: dec(amount),
	})
	require.NoError(t, err)
	return res
}

func (h *harness) today(t *testing.T) *domain.Period {
	t.Helper()
	p, err := h.periods.ResolveToday(context.Background())
	require.NoError(t, err)
	return p
}

func (h *harness) reload(t *testing.T, id string) *domain.Period {
	t.Helper()
	snap, err := h.periods.GetPeriod(context.Background(), id)
	require.NoError(t, err)
	return snap.Period
}

func (h *harness) eventCount(eventType string) int {
	n := 0
	for _, e := range h.store.Events() {
		if e.EventType == eventType {
			n++
		}
	}
	return n
}

func dec(v int64) decimal.Decimal {
	return decimal.NewFromInt(v)
}

func requireAmount(t *testing.T, want int64, got decimal.Decimal, msgAndArgs ...any) {
	t.Helper()
	require.Truef(t, dec(want).Equal(got), "expected %d, got %s %v", want, got, msgAndArgs)
}
