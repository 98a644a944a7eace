package generated

import (
	"context"

	"github.com/jackc/pgx/v5/pgtype"
)

const createLoan = `-- name: CreateLoan :exec
INSERT INTO loans (
    id, borrower_id, cashbook_id, principal, processing_fee, interest,
    total_to_repay, amount_paid, remaining, status, start_date, notes, created_at, updated_at
)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
`

type CreateLoanParams struct {
	ID            string             `json:"id"`
	BorrowerID    string             `json:"borrower_id"`
	CashbookID    string             `json:"cashbook_id"`
	Principal     pgtype.Numeric     `json:"principal"`
	ProcessingFee pgtype.Numeric     `json:"processing_fee"`
	Interest      pgtype.Numeric     `json:"interest"`
	TotalToRepay  pgtype.Numeric     `json:"total_to_repay"`
	AmountPaid    pgtype.Numeric     `json:"amount_paid"`
	Remaining     pgtype.Numeric     `json:"remaining"`
	Status        string             `json:"status"`
	StartDate     pgtype.Date        `json:"start_date"`
	Notes         pgtype.Text        `json:"notes"`
	CreatedAt     pgtype.Timestamptz `json:"created_at"`
	UpdatedAt     pgtype.Timestamptz `json:"updated_at"`
}

func (q *Queries) CreateLoan(ctx context.Context, arg CreateLoanParams) error {
	_, err := q.db.Exec(ctx, createLoan,
		arg.ID,
		arg.BorrowerID,
		arg.CashbookID,
		arg.Principal,
		arg.ProcessingFee,
		arg.Interest,
		arg.TotalToRepay,
		arg.AmountPaid,
		arg.Remaining,
		arg.Status,
		arg.StartDate,
		arg.Notes,
		arg.CreatedAt,
		arg.UpdatedAt,
	)
	return err
}

const deleteLoan = `-- name: DeleteLoan :execrows
DELETE FROM loans WHERE id = $1
`

func (q *Queries) DeleteLoan(ctx context.Context, id string) (int64, error) {
	result, err := q.db.Exec(ctx, deleteLoan, id)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected(), nil
}

const getLoanByID = `-- name: GetLoanByID :one
SELECT l.id, l.borrower_id, l.cashbook_id, l.principal, l.processing_fee, l.interest, l.total_to_repay, l.amount_paid, l.remaining, l.status, l.start_date, l.notes, l.created_at, l.updated_at, b.full_name AS borrower_name
FROM loans l
JOIN borrowers b ON b.id = l.borrower_id
WHERE l.id = $1
`

type GetLoanByIDRow struct {
	Loan         Loan   `json:"loan"`
	BorrowerName string `json:"borrower_name"`
}

func (q *Queries) GetLoanByID(ctx context.Context, id string) (GetLoanByIDRow, error) {
	row := q.db.QueryRow(ctx, getLoanByID, id)
	var i GetLoanByIDRow
	err := row.Scan(
		&i.Loan.ID,
		&i.Loan.BorrowerID,
		&i.Loan.CashbookID,
		&i.Loan.Principal,
		&i.Loan.ProcessingFee,
		&i.Loan.Interest,
		&i.Loan.TotalToRepay,
		&i.Loan.AmountPaid,
		&i.Loan.Remaining,
		&i.Loan.Status,
		&i.Loan.StartDate,
		&i.Loan.Notes,
		&i.Loan.CreatedAt,
		&i.Loan.UpdatedAt,
		&i.BorrowerName,
	)
	return i, err
}

const getLoanByIDForUpdate = `-- name: GetLoanByIDForUpdate :one
SELECT id, borrower_id, cashbook_id, principal, processing_fee, interest, total_to_repay, amount_paid, remaining, status, start_date, notes, created_at, updated_at FROM loans
WHERE id = $1
FOR UPDATE
`

func (q *Queries) GetLoanByIDForUpdate(ctx context.Context, id string) (Loan, error) {
	row := q.db.QueryRow(ctx, getLoanByIDForUpdate, id)
	var i Loan
	err := row.Scan(
		&i.ID,
		&i.BorrowerID,
		&i.CashbookID,
		&i.Principal,
		&i.ProcessingFee,
		&i.Interest,
		&i.TotalToRepay,
		&i.AmountPaid,
		&i.Remaining,
		&i.Status,
		&i.StartDate,
		&i.Notes,
		&i.CreatedAt,
		&i.UpdatedAt,
	)
	return i, err
}

const getLoanPortfolio = `-- name: GetLoanPortfolio :one
SELECT
    (SELECT COUNT(*) FROM borrowers)::bigint AS borrower_count,
    COUNT(*)::bigint AS loan_count,
    COUNT(*) FILTER (WHERE status = 'Active')::bigint AS active_loans,
    COUNT(*) FILTER (WHERE status = 'Completed')::bigint AS completed_loans,
    COALESCE(SUM(principal), 0)::numeric AS total_principal,
    COALESCE(SUM(amount_paid), 0)::numeric AS total_repaid,
    COALESCE(SUM(remaining), 0)::numeric AS total_outstanding
FROM loans
`

type GetLoanPortfolioRow struct {
	BorrowerCount    int64          `json:"borrower_count"`
	LoanCount        int64          `json:"loan_count"`
	ActiveLoans      int64          `json:"active_loans"`
	CompletedLoans   int64          `json:"completed_loans"`
	TotalPrincipal   pgtype.Numeric `json:"total_principal"`
	TotalRepaid      pgtype.Numeric `json:"total_repaid"`
	TotalOutstanding pgtype.Numeric `json:"total_outstanding"`
}

func (q *Queries) GetLoanPortfolio(ctx context.Context) (GetLoanPortfolioRow, error) {
	row := q.db.QueryRow(ctx, getLoanPortfolio)
	var i GetLoanPortfolioRow
	err := row.Scan(
		&i.BorrowerCount,
		&i.LoanCount,
		&i.ActiveLoans,
		&i.CompletedLoans,
		&i.TotalPrincipal,
		&i.TotalRepaid,
		&i.TotalOutstanding,
	)
	return i, err
}

const hasActiveLoan = `-- name: HasActiveLoan :one
SELECT EXISTS (
    SELECT 1 FROM loans WHERE borrower_id = $1 AND status = 'Active'
)
`

func (q *Queries) HasActiveLoan(ctx context.Context, borrowerID string) (bool, error) {
	row := q.db.QueryRow(ctx, hasActiveLoan, borrowerID)
	var exists bool
	err := row.Scan(&exists)
	return exists, err
}

const listLoans = `-- name: ListLoans :many
SELECT l.id, l.borrower_id, l.cashbook_id, l.principal, l.processing_fee, l.interest, l.total_to_repay, l.amount_paid, l.remaining, l.status, l.start_date, l.notes, l.created_at, l.updated_at, b.full_name AS borrower_name
FROM loans l
JOIN borrowers b ON b.id = l.borrower_id
WHERE ($1::text = '' OR l.borrower_id = $1)
  AND ($2::text = '' OR l.status = $2)
ORDER BY l.created_at DESC, l.id DESC
LIMIT $3 OFFSET $4
`

type ListLoansParams struct {
	BorrowerID string `json:"borrower_id"`
	Status     string `json:"status"`
	Limit      int32  `json:"limit"`
	Offset     int32  `json:"offset"`
}

type ListLoansRow struct {
	Loan         Loan   `json:"loan"`
	BorrowerName string `json:"borrower_name"`
}

func (q *Queries) ListLoans(ctx context.Context, arg ListLoansParams) ([]ListLoansRow, error) {
	rows, err := q.db.Query(ctx, listLoans,
		arg.BorrowerID,
		arg.Status,
		arg.Limit,
		arg.Offset,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	items := []ListLoansRow{}
	for rows.Next() {
		var i ListLoansRow
		if err := rows.Scan(
			&i.Loan.ID,
			&i.Loan.BorrowerID,
			&i.Loan.CashbookID,
			&i.Loan.Principal,
			&i.Loan.ProcessingFee,
			&i.Loan.Interest,
			&i.Loan.TotalToRepay,
			&i.Loan.AmountPaid,
			&i.Loan.Remaining,
			&i.Loan.Status,
			&i.Loan.StartDate,
			&i.Loan.Notes,
			&i.Loan.CreatedAt,
			&i.Loan.UpdatedAt,
			&i.BorrowerName,
		); err != nil {
			return nil, err
		}
		items = append(items, i)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

const updateLoan = `-- name: UpdateLoan :execrows
UPDATE loans
SET principal = $2,
    processing_fee = $3,
    interest = $4,
    total_to_repay = $5,
    amount_paid = $6,
    remaining = $7,
    status = $8,
    notes = $9,
    updated_at = $10
WHERE id = $1
`

type UpdateLoanParams struct {
	ID            string             `json:"id"`
	Principal     pgtype.Numeric     `json:"principal"`
	ProcessingFee pgtype.Numeric     `json:"processing_fee"`
	Interest      pgtype.Numeric     `json:"interest"`
	TotalToRepay  pgtype.Numeric     `json:"total_to_repay"`
	AmountPaid    pgtype.Numeric     `json:"amount_paid"`
	Remaining     pgtype.Numeric     `json:"remaining"`
	Status        string             `json:"status"`
	Notes         pgtype.Text        `json:"notes"`
	UpdatedAt     pgtype.Timestamptz `json:"updated_at"`
}

func (q *Queries) UpdateLoan(ctx context.Context, arg UpdateLoanParams) (int64, error) {
	result, err := q.db.Exec(ctx, updateLoan,
		arg.ID,
		arg.Principal,
		arg.ProcessingFee,
		arg.Interest,
		arg.TotalToRepay,
		arg.AmountPaid,
		arg.Remaining,
		arg.Status,
		arg.Notes,
		arg.UpdatedAt,
	)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected(), nil
}
