package usecase_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/iho/cashbook/internal/usecase"
	"github.com/iho/cashbook/internal/usecase/mocks"
)

func txDeps(t *testing.T, ctrl *gomock.Controller) (usecase.Deps, *mocks.MockStore, *mocks.MockTransactionManager) {
	t.Helper()
	store := mocks.NewMockStore()
	txm := mocks.NewMockTransactionManager(ctrl)
	return usecase.Deps{
		TxManager: txm,
		Repos:     store.Repositories(),
		IDGen:     mocks.NewSequentialIDGenerator("id"),
		Clock:     mocks.NewFixedClock(day2),
		Logger:    zerolog.Nop(),
	}, store, txm
}

func TestRunInTx_BeginErrorIsReturned(t *testing.T) {
	ctrl := gomock.NewController(t)
	deps, _, txm := txDeps(t, ctrl)

	beginErr := errors.New("pool exhausted")
	txm.EXPECT().Begin(gomock.Any()).Return(nil, beginErr)

	err := usecase.NewBorrowerUseCase(deps).DeleteBorrower(context.Background(), "b-1")
	require.ErrorIs(t, err, beginErr)
}

func TestRunInTx_CommitErrorIsReturned(t *testing.T) {
	ctrl := gomock.NewController(t)
	deps, _, txm := txDeps(t, ctrl)

	uc := usecase.NewBorrowerUseCase(deps)
	b, err := uc.CreateBorrower(context.Background(), usecase.CreateBorrowerInput{FullName: "Grace", Phone: "0788"})
	require.NoError(t, err)

	commitErr := errors.New("connection lost")
	tx := mocks.NewMockTransaction(ctrl)
	txm.EXPECT().Begin(gomock.Any()).Return(tx, nil)
	tx.EXPECT().Commit(gomock.Any()).Return(commitErr)
	tx.EXPECT().Rollback(gomock.Any()).Return(nil)

	err = uc.DeleteBorrower(context.Background(), b.ID)
	require.ErrorIs(t, err, commitErr)
}

func TestRunInTx_FailureRollsBack(t *testing.T) {
	ctrl := gomock.NewController(t)
	deps, _, txm := txDeps(t, ctrl)

	tx := mocks.NewMockTransaction(ctrl)
	txm.EXPECT().Begin(gomock.Any()).Return(tx, nil)
	tx.EXPECT().Rollback(gomock.Any()).Return(nil)

	err := usecase.NewBorrowerUseCase(deps).DeleteBorrower(context.Background(), "missing")
	require.Error(t, err)
}

func TestRunInTx_RetrierRerunsWholeUnit(t *testing.T) {
	ctrl := gomock.NewController(t)
	deps, store, txm := txDeps(t, ctrl)

	retrier := mocks.NewMockRetrier(ctrl)
	retrier.EXPECT().Retry(gomock.Any(), gomock.Any()).DoAndReturn(func(_ context.Context, op func() error) error {
		if err := op(); err == nil {
			return nil
		}
		return op()
	})
	deps.Retrier = retrier

	uc := usecase.NewBorrowerUseCase(deps)
	b, err := uc.CreateBorrower(context.Background(), usecase.CreateBorrowerInput{FullName: "Grace", Phone: "0788"})
	require.NoError(t, err)

	tx := mocks.NewMockTransaction(ctrl)
	gomock.InOrder(
		txm.EXPECT().Begin(gomock.Any()).Return(nil, errors.New("deadlock detected")),
		txm.EXPECT().Begin(gomock.Any()).Return(tx, nil),
	)
	tx.EXPECT().Commit(gomock.Any()).Return(nil)
	tx.EXPECT().Rollback(gomock.Any()).Return(nil)

	require.NoError(t, uc.DeleteBorrower(context.Background(), b.ID))

	_, err = store.Borrowers.GetByID(context.Background(), b.ID)
	assert.Error(t, err)
}

func TestVerify_StampsClockTime(t *testing.T) {
	ctrl := gomock.NewController(t)
	clock := mocks.NewMockClock(ctrl)
	checkedAt := day2.Add(17 * time.Hour)
	clock.EXPECT().Now().Return(checkedAt).AnyTimes()

	store := mocks.NewMockStore()
	deps := usecase.Deps{
		TxManager: store.TxManager,
		Repos:     store.Repositories(),
		IDGen:     mocks.NewSequentialIDGenerator("id"),
		Clock:     clock,
		Logger:    zerolog.Nop(),
	}
	periods := usecase.NewPeriodUseCase(deps, usecase.NewSettlementEngine(deps))

	p, err := periods.ResolveToday(context.Background())
	require.NoError(t, err)
	assert.True(t, p.Date.Equal(day2))

	v, err := periods.Verify(context.Background(), p.ID)
	require.NoError(t, err)
	assert.True(t, v.Consistent)
	assert.True(t, v.CheckedAt.Equal(checkedAt))
}
