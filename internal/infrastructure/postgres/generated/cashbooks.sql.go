package generated

import (
	"context"

	"github.com/jackc/pgx/v5/pgtype"
)

const createCashbookIfAbsent = `-- name: CreateCashbookIfAbsent :execrows
INSERT INTO cashbooks (
    id, date, opening_balance, total_receipts, total_payments,
    total_capital_in, total_drawings, closing_balance, locked, created_at, updated_at
)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, false, $9, $10)
ON CONFLICT (date) DO NOTHING
`

type CreateCashbookIfAbsentParams struct {
	ID             string             `json:"id"`
	Date           pgtype.Date        `json:"date"`
	OpeningBalance pgtype.Numeric     `json:"opening_balance"`
	TotalReceipts  pgtype.Numeric     `json:"total_receipts"`
	TotalPayments  pgtype.Numeric     `json:"total_payments"`
	TotalCapitalIn pgtype.Numeric     `json:"total_capital_in"`
	TotalDrawings  pgtype.Numeric     `json:"total_drawings"`
	ClosingBalance pgtype.Numeric     `json:"closing_balance"`
	CreatedAt      pgtype.Timestamptz `json:"created_at"`
	UpdatedAt      pgtype.Timestamptz `json:"updated_at"`
}

func (q *Queries) CreateCashbookIfAbsent(ctx context.Context, arg CreateCashbookIfAbsentParams) (int64, error) {
	result, err := q.db.Exec(ctx, createCashbookIfAbsent,
		arg.ID,
		arg.Date,
		arg.OpeningBalance,
		arg.TotalReceipts,
		arg.TotalPayments,
		arg.TotalCapitalIn,
		arg.TotalDrawings,
		arg.ClosingBalance,
		arg.CreatedAt,
		arg.UpdatedAt,
	)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected(), nil
}

const getCashbookByDate = `-- name: GetCashbookByDate :one
SELECT id, date, opening_balance, total_receipts, total_payments, total_capital_in, total_drawings, closing_balance, locked, locked_at, created_at, updated_at FROM cashbooks
WHERE date = $1
`

func (q *Queries) GetCashbookByDate(ctx context.Context, date pgtype.Date) (Cashbook, error) {
	row := q.db.QueryRow(ctx, getCashbookByDate, date)
	var i Cashbook
	err := row.Scan(
		&i.ID,
		&i.Date,
		&i.OpeningBalance,
		&i.TotalReceipts,
		&i.TotalPayments,
		&i.TotalCapitalIn,
		&i.TotalDrawings,
		&i.ClosingBalance,
		&i.Locked,
		&i.LockedAt,
		&i.CreatedAt,
		&i.UpdatedAt,
	)
	return i, err
}

const getCashbookByID = `-- name: GetCashbookByID :one
SELECT id, date, opening_balance, total_receipts, total_payments, total_capital_in, total_drawings, closing_balance, locked, locked_at, created_at, updated_at FROM cashbooks
WHERE id = $1
`

func (q *Queries) GetCashbookByID(ctx context.Context, id string) (Cashbook, error) {
	row := q.db.QueryRow(ctx, getCashbookByID, id)
	var i Cashbook
	err := row.Scan(
		&i.ID,
		&i.Date,
		&i.OpeningBalance,
		&i.TotalReceipts,
		&i.TotalPayments,
		&i.TotalCapitalIn,
		&i.TotalDrawings,
		&i.ClosingBalance,
		&i.Locked,
		&i.LockedAt,
		&i.CreatedAt,
		&i.UpdatedAt,
	)
	return i, err
}

const getCashbookByIDForUpdate = `-- name: GetCashbookByIDForUpdate :one
SELECT id, date, opening_balance, total_receipts, total_payments, total_capital_in, total_drawings, closing_balance, locked, locked_at, created_at, updated_at FROM cashbooks
WHERE id = $1
FOR UPDATE
`

func (q *Queries) GetCashbookByIDForUpdate(ctx context.Context, id string) (Cashbook, error) {
	row := q.db.QueryRow(ctx, getCashbookByIDForUpdate, id)
	var i Cashbook
	err := row.Scan(
		&i.ID,
		&i.Date,
		&i.OpeningBalance,
		&i.TotalReceipts,
		&i.TotalPayments,
		&i.TotalCapitalIn,
		&i.TotalDrawings,
		&i.ClosingBalance,
		&i.Locked,
		&i.LockedAt,
		&i.CreatedAt,
		&i.UpdatedAt,
	)
	return i, err
}

const getLatestCashbookBefore = `-- name: GetLatestCashbookBefore :one
SELECT id, date, opening_balance, total_receipts, total_payments, total_capital_in, total_drawings, closing_balance, locked, locked_at, created_at, updated_at FROM cashbooks
WHERE date < $1
ORDER BY date DESC
LIMIT 1
`

func (q *Queries) GetLatestCashbookBefore(ctx context.Context, date pgtype.Date) (Cashbook, error) {
	row := q.db.QueryRow(ctx, getLatestCashbookBefore, date)
	var i Cashbook
	err := row.Scan(
		&i.ID,
		&i.Date,
		&i.OpeningBalance,
		&i.TotalReceipts,
		&i.TotalPayments,
		&i.TotalCapitalIn,
		&i.TotalDrawings,
		&i.ClosingBalance,
		&i.Locked,
		&i.LockedAt,
		&i.CreatedAt,
		&i.UpdatedAt,
	)
	return i, err
}

const listCashbooks = `-- name: ListCashbooks :many
SELECT id, date, opening_balance, total_receipts, total_payments, total_capital_in, total_drawings, closing_balance, locked, locked_at, created_at, updated_at FROM cashbooks
ORDER BY date DESC
LIMIT $1 OFFSET $2
`

type ListCashbooksParams struct {
	Limit  int32 `json:"limit"`
	Offset int32 `json:"offset"`
}

func (q *Queries) ListCashbooks(ctx context.Context, arg ListCashbooksParams) ([]Cashbook, error) {
	rows, err := q.db.Query(ctx, listCashbooks, arg.Limit, arg.Offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	items := []Cashbook{}
	for rows.Next() {
		var i Cashbook
		if err := rows.Scan(
			&i.ID,
			&i.Date,
			&i.OpeningBalance,
			&i.TotalReceipts,
			&i.TotalPayments,
			&i.TotalCapitalIn,
			&i.TotalDrawings,
			&i.ClosingBalance,
			&i.Locked,
			&i.LockedAt,
			&i.CreatedAt,
			&i.UpdatedAt,
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

const lockCashbook = `-- name: LockCashbook :execrows
UPDATE cashbooks
SET locked = true, locked_at = $2, updated_at = $2
WHERE id = $1 AND locked = false
`

type LockCashbookParams struct {
	ID       string             `json:"id"`
	LockedAt pgtype.Timestamptz `json:"locked_at"`
}

func (q *Queries) LockCashbook(ctx context.Context, arg LockCashbookParams) (int64, error) {
	result, err := q.db.Exec(ctx, lockCashbook, arg.ID, arg.LockedAt)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected(), nil
}

const updateCashbookTotals = `-- name: UpdateCashbookTotals :execrows
UPDATE cashbooks
SET total_receipts = $2,
    total_payments = $3,
    total_capital_in = $4,
    total_drawings = $5,
    closing_balance = $6,
    updated_at = $7
WHERE id = $1 AND locked = false
`

type UpdateCashbookTotalsParams struct {
	ID             string             `json:"id"`
	TotalReceipts  pgtype.Numeric     `json:"total_receipts"`
	TotalPayments  pgtype.Numeric     `json:"total_payments"`
	TotalCapitalIn pgtype.Numeric     `json:"total_capital_in"`
	TotalDrawings  pgtype.Numeric     `json:"total_drawings"`
	ClosingBalance pgtype.Numeric     `json:"closing_balance"`
	UpdatedAt      pgtype.Timestamptz `json:"updated_at"`
}

func (q *Queries) UpdateCashbookTotals(ctx context.Context, arg UpdateCashbookTotalsParams) (int64, error) {
	result, err := q.db.Exec(ctx, updateCashbookTotals,
		arg.ID,
		arg.TotalReceipts,
		arg.TotalPayments,
		arg.TotalCapitalIn,
		arg.TotalDrawings,
		arg.ClosingBalance,
		arg.UpdatedAt,
	)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected(), nil
}
