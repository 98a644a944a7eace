package usecase_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iho/cashbook/internal/domain"
	"github.com/iho/cashbook/internal/usecase"
)

func TestCreateBorrower(t *testing.T) {
	h := newHarness(t)

	nid := "1199080012345678"
	b, err := h.borrowers.CreateBorrower(context.Background(), usecase.CreateBorrowerInput{
		FullName:   " Grace Mukamana ",
		Phone:      "0788123456",
		NationalID: &nid,
	})
	require.NoError(t, err)
	assert.Equal(t, "Grace Mukamana", b.FullName)
	assert.Equal(t, &nid, b.NationalID)

	got, err := h.borrowers.GetBorrower(context.Background(), b.ID)
	require.NoError(t, err)
	assert.Equal(t, b.FullName, got.FullName)
}

func TestCreateBorrower_Validation(t *testing.T) {
	h := newHarness(t)

	_, err := h.borrowers.CreateBorrower(context.Background(), usecase.CreateBorrowerInput{Phone: "0788"})
	require.ErrorIs(t, err, domain.ErrMissingBorrowerName)

	_, err = h.borrowers.CreateBorrower(context.Background(), usecase.CreateBorrowerInput{FullName: "Grace"})
	require.ErrorIs(t, err, domain.ErrMissingBorrowerPhone)
}

func TestUpdateBorrower(t *testing.T) {
	h := newHarness(t)
	b := h.borrower(t, "Grace")

	phone := "0722000111"
	updated, err := h.borrowers.UpdateBorrower(context.Background(), b.ID, usecase.UpdateBorrowerInput{Phone: &phone})
	require.NoError(t, err)
	assert.Equal(t, "Grace", updated.FullName)
	assert.Equal(t, phone, updated.Phone)

	blank := " "
	_, err = h.borrowers.UpdateBorrower(context.Background(), b.ID, usecase.UpdateBorrowerInput{FullName: &blank})
	require.ErrorIs(t, err, domain.ErrInvalid)

	_, err = h.borrowers.UpdateBorrower(context.Background(), "missing", usecase.UpdateBorrowerInput{Phone: &phone})
	require.ErrorIs(t, err, domain.ErrBorrowerNotFound)
}

func TestListBorrowers_ByName(t *testing.T) {
	h := newHarness(t)
	h.borrower(t, "Claude")
	h.borrower(t, "Aline")
	h.borrower(t, "Bertin")

	list, err := h.borrowers.ListBorrowers(context.Background(), usecase.ListBorrowersInput{})
	require.NoError(t, err)
	require.Len(t, list, 3)
	assert.Equal(t, "Aline", list[0].FullName)
	assert.Equal(t, "Claude", list[2].FullName)

	page, err := h.borrowers.ListBorrowers(context.Background(), usecase.ListBorrowersInput{Limit: 1, Offset: 1})
	require.NoError(t, err)
	require.Len(t, page, 1)
	assert.Equal(t, "Bertin", page[0].FullName)
}

func TestDeleteBorrower(t *testing.T) {
	h := newHarness(t)
	b := h.borrower(t, "Grace")

	require.NoError(t, h.borrowers.DeleteBorrower(context.Background(), b.ID))

	_, err := h.borrowers.GetBorrower(context.Background(), b.ID)
	require.ErrorIs(t, err, domain.ErrBorrowerNotFound)

	err = h.borrowers.DeleteBorrower(context.Background(), b.ID)
	require.ErrorIs(t, err, domain.ErrBorrowerNotFound)
}

func TestDeleteBorrower_WithLoansRejected(t *testing.T) {
	h := newHarness(t)
	b := h.borrower(t, "Grace")
	loan := h.issue(t, b.ID, 1000)
	h.pay(t, loan.ID, loan.TotalToRepay.IntPart())

	err := h.borrowers.DeleteBorrower(context.Background(), b.ID)
	require.ErrorIs(t, err, domain.ErrBorrowerHasLoans)
	require.ErrorIs(t, err, domain.ErrConflict)

	_, err = h.borrowers.GetBorrower(context.Background(), b.ID)
	require.NoError(t, err)
}
