package usecase_test

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/iho/cashbook/internal/domain"
	"github.com/iho/cashbook/internal/usecase"
	"github.com/iho/cashbook/internal/usecase/mocks"
)

func lockedDay(t *testing.T, h *harness) *domain.Period {
	t.Helper()

	h.owner(t, domain.OwnerTxCapitalIn, 40000)
	b := h.borrower(t, "Alice Uwase")
	loan := h.issue(t, b.ID, 10000)
	h.expense(t, 1500)
	h.pay(t, loan.ID, 5000)
	h.owner(t, domain.OwnerTxDrawing, 2000)

	p := h.today(t)
	locked, err := h.periods.Lock(context.Background(), p.ID)
	require.NoError(t, err)
	return locked
}

func TestGetReport_MergesStreamsInTimeOrder(t *testing.T) {
	h := newHarness(t)
	p := lockedDay(t, h)

	uc := usecase.NewReportUseCase(h.deps, nil, 0, "")
	report, err := uc.GetReport(context.Background(), p.ID)
	require.NoError(t, err)

	assert.Equal(t, usecase.DefaultCurrency, report.Currency)
	assert.Equal(t, p.ID, report.Period.ID)
	require.Len(t, report.Lines, 5)

	kinds := make([]domain.ReportLineKind, len(report.Lines))
	for i, l := range report.Lines {
		kinds[i] = l.Kind
		if i > 0 {
			assert.False(t, l.At.Before(report.Lines[i-1].At), "lines must be in time order")
		}
	}
	assert.Equal(t, []domain.ReportLineKind{
		domain.ReportLineCapitalIn,
		domain.ReportLineExpense,
		domain.ReportLineExpense,
		domain.ReportLineReceipt,
		domain.ReportLineDrawing,
	}, kinds)

	receipt := report.Lines[3]
	assert.Equal(t, "Alice Uwase", receipt.Party)
	assert.Equal(t, "0788000000", receipt.Phone)
	assert.Equal(t, "Loan repayment", receipt.Description)
	assert.Equal(t, domain.DirectionIn, receipt.Direction)
	assert.Equal(t, domain.DirectionOut, report.Lines[4].Direction)

	requireAmount(t, 5000, report.Period.TotalReceipts)
	requireAmount(t, 11500, report.Period.TotalPayments)
	requireAmount(t, 31500, report.Period.ClosingBalance)
}

func TestGetReport_OpenPeriodIsNotLocked(t *testing.T) {
	h := newHarness(t)
	p := h.today(t)

	uc := usecase.NewReportUseCase(h.deps, nil, 0, "")
	_, err := uc.GetReport(context.Background(), p.ID)
	require.ErrorIs(t, err, domain.ErrNotLocked)

	_, err = uc.GetReport(context.Background(), "missing")
	require.ErrorIs(t, err, domain.ErrPeriodNotFound)
}

func TestGetReport_CachesLockedReport(t *testing.T) {
	h := newHarness(t)
	p := lockedDay(t, h)

	ctrl := gomock.NewController(t)
	cache := mocks.NewMockCache(ctrl)

	var stored []byte
	gomock.InOrder(
		cache.EXPECT().Get(gomock.Any(), "report:"+p.ID).Return(nil, nil),
		cache.EXPECT().Set(gomock.Any(), "report:"+p.ID, gomock.Any(), usecase.DefaultReportCacheTTL).
			DoAndReturn(func(_ context.Context, _ string, value []byte, _ time.Duration) error {
				stored = value
				return nil
			}),
	)

	uc := usecase.NewReportUseCase(h.deps, cache, 0, "RWF")
	first, err := uc.GetReport(context.Background(), p.ID)
	require.NoError(t, err)
	require.NotEmpty(t, stored)

	var decoded domain.Report
	require.NoError(t, json.Unmarshal(stored, &decoded))
	assert.Len(t, decoded.Lines, len(first.Lines))

	// The second read is served from the cache without touching the store.
	cache.EXPECT().Get(gomock.Any(), "report:"+p.ID).Return(stored, nil)
	commits := h.store.TxManager.Commits()

	second, err := uc.GetReport(context.Background(), p.ID)
	require.NoError(t, err)
	assert.Equal(t, commits, h.store.TxManager.Commits())
	assert.Len(t, second.Lines, len(first.Lines))
	assert.True(t, first.Period.ClosingBalance.Equal(second.Period.ClosingBalance))
}

func TestGetReport_CacheErrorsFallBackToStore(t *testing.T) {
	h := newHarness(t)
	p := lockedDay(t, h)

	ctrl := gomock.NewController(t)
	cache := mocks.NewMockCache(ctrl)
	cache.EXPECT().Get(gomock.Any(), gomock.Any()).Return(nil, errors.New("redis down"))
	cache.EXPECT().Set(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Return(errors.New("redis down"))

	uc := usecase.NewReportUseCase(h.deps, cache, 0, "")
	report, err := uc.GetReport(context.Background(), p.ID)
	require.NoError(t, err)
	assert.Len(t, report.Lines, 5)
}
