package usecase_test

import (
	"context"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iho/cashbook/internal/domain"
	"github.com/iho/cashbook/internal/usecase"
)

func TestAddExpense(t *testing.T) {
	h := newHarness(t)

	res, err := h.cash.AddExpense(context.Background(), usecase.AddExpenseInput{
		Description: "  Airtime  ",
		Amount:      dec(2500),
	})
	require.NoError(t, err)

	assert.Equal(t, "Airtime", res.Expense.Description)
	assert.Equal(t, domain.ExpenseSourceManual, res.Expense.Source)
	assert.Equal(t, res.Period.ID, res.Expense.PeriodID)
	requireAmount(t, 2500, res.Period.TotalPayments)
	requireAmount(t, -2500, res.Period.ClosingBalance)
	assert.Equal(t, 1, h.eventCount(domain.EventTypeExpenseRecorded))
	assert.Equal(t, float64(1), testutil.ToFloat64(h.metrics.TransactionsRecorded.WithLabelValues("expense")))
}

func TestAddExpense_Validation(t *testing.T) {
	h := newHarness(t)

	tests := []struct {
		name  string
		input usecase.AddExpenseInput
		want  error
	}{
		{"blank description", usecase.AddExpenseInput{Description: "  ", Amount: dec(10)}, domain.ErrMissingDescription},
		{"zero amount", usecase.AddExpenseInput{Description: "Fuel", Amount: dec(0)}, domain.ErrInvalidAmount},
		{"unknown period", usecase.AddExpenseInput{PeriodID: "missing", Description: "Fuel", Amount: dec(10)}, domain.ErrPeriodNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := h.cash.AddExpense(context.Background(), tt.input)
			require.ErrorIs(t, err, tt.want)
		})
	}
	assert.Equal(t, 0, h.eventCount(domain.EventTypeExpenseRecorded))
}

func TestAddOwnerTransaction(t *testing.T) {
	h := newHarness(t)

	capital := h.owner(t, domain.OwnerTxCapitalIn, 9000)
	requireAmount(t, 9000, capital.Period.TotalCapitalIn)
	requireAmount(t, 9000, capital.Period.ClosingBalance)

	note := "school fees"
	drawing, err := h.cash.AddOwnerTransaction(context.Background(), usecase.AddOwnerTransactionInput{
		Type:   domain.OwnerTxDrawing,
		Amount: dec(4000),
		Note:   &note,
	})
	require.NoError(t, err)
	requireAmount(t, 4000, drawing.Period.TotalDrawings)
	requireAmount(t, 5000, drawing.Period.ClosingBalance)
	assert.Equal(t, &note, drawing.Transaction.Note)

	assert.Equal(t, 2, h.eventCount(domain.EventTypeOwnerTxRecorded))
}

func TestAddOwnerTransaction_Validation(t *testing.T) {
	h := newHarness(t)

	_, err := h.cash.AddOwnerTransaction(context.Background(), usecase.AddOwnerTransactionInput{
		Type:   "LOAN",
		Amount: dec(10),
	})
	require.ErrorIs(t, err, domain.ErrInvalidOwnerTxType)

	_, err = h.cash.AddOwnerTransaction(context.Background(), usecase.AddOwnerTransactionInput{
		Type:   domain.OwnerTxCapitalIn,
		Amount: dec(-10),
	})
	require.ErrorIs(t, err, domain.ErrInvalidAmount)
}

func TestWritesAfterLockRejected(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()

	b := h.borrower(t, "Alice")
	loan := h.issue(t, b.ID, 1000)
	other := h.borrower(t, "Bob")
	p := h.owner(t, domain.OwnerTxCapitalIn, 50000).Period

	_, err := h.periods.Lock(ctx, p.ID)
	require.NoError(t, err)
	frozen := h.reload(t, p.ID)
	events := len(h.store.Events())

	writes := map[string]func() error{
		"expense": func() error {
			_, err := h.cash.AddExpense(ctx, usecase.AddExpenseInput{Description: "Fuel", Amount: dec(10)})
			return err
		},
		"capital in": func() error {
			_, err := h.cash.AddOwnerTransaction(ctx, usecase.AddOwnerTransactionInput{Type: domain.OwnerTxCapitalIn, Amount: dec(10)})
			return err
		},
		"drawing": func() error {
			_, err := h.cash.AddOwnerTransaction(ctx, usecase.AddOwnerTransactionInput{Type: domain.OwnerTxDrawing, Amount: dec(10)})
			return err
		},
		"payment": func() error {
			_, err := h.loans.ApplyPayment(ctx, usecase.PaymentInput{LoanID: loan.ID, Amount: dec(10)})
			return err
		},
		"issue loan": func() error {
			_, err := h.loans.IssueLoan(ctx, usecase.IssueLoanInput{BorrowerID: other.ID, Principal: dec(10)})
			return err
		},
		"delete loan": func() error {
			return h.loans.DeleteLoan(ctx, loan.ID)
		},
	}

	for name, write := range writes {
		t.Run(name, func(t *testing.T) {
			require.ErrorIs(t, write(), domain.ErrPeriodLocked)
		})
	}

	after := h.reload(t, p.ID)
	assert.True(t, frozen.Totals().Equal(after.Totals()))
	assert.Equal(t, events, len(h.store.Events()))
}

func TestWritesNextDayOpenNewPeriod(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()

	h.at(day1)
	h.owner(t, domain.OwnerTxCapitalIn, 8000)
	_, err := h.periods.LockDate(ctx, nil)
	require.NoError(t, err)

	h.at(day2)
	res := h.expense(t, 3000)

	requireAmount(t, 8000, res.Period.OpeningBalance)
	requireAmount(t, 5000, res.Period.ClosingBalance)
	assert.False(t, res.Period.Locked)
	assert.Equal(t, 2, h.store.CountPeriods())
}
