package generated

import (
	"context"

	"github.com/jackc/pgx/v5/pgtype"
)

const countReceiptsByLoan = `-- name: CountReceiptsByLoan :one
SELECT COUNT(*) FROM receipts WHERE loan_id = $1
`

func (q *Queries) CountReceiptsByLoan(ctx context.Context, loanID string) (int64, error) {
	row := q.db.QueryRow(ctx, countReceiptsByLoan, loanID)
	var count int64
	err := row.Scan(&count)
	return count, err
}

const createReceipt = `-- name: CreateReceipt :exec
INSERT INTO receipts (id, loan_id, cashbook_id, amount, paid_at, notes, created_at)
VALUES ($1, $2, $3, $4, $5, $6, $7)
`

type CreateReceiptParams struct {
	ID         string             `json:"id"`
	LoanID     string             `json:"loan_id"`
	CashbookID string             `json:"cashbook_id"`
	Amount     pgtype.Numeric     `json:"amount"`
	PaidAt     pgtype.Timestamptz `json:"paid_at"`
	Notes      pgtype.Text        `json:"notes"`
	CreatedAt  pgtype.Timestamptz `json:"created_at"`
}

func (q *Queries) CreateReceipt(ctx context.Context, arg CreateReceiptParams) error {
	_, err := q.db.Exec(ctx, createReceipt,
		arg.ID,
		arg.LoanID,
		arg.CashbookID,
		arg.Amount,
		arg.PaidAt,
		arg.Notes,
		arg.CreatedAt,
	)
	return err
}

const listReceiptsByCashbook = `-- name: ListReceiptsByCashbook :many
SELECT r.id, r.loan_id, r.cashbook_id, r.amount, r.paid_at, r.notes, r.created_at, b.full_name AS borrower_name, b.phone AS borrower_phone
FROM receipts r
JOIN loans l ON l.id = r.loan_id
JOIN borrowers b ON b.id = l.borrower_id
WHERE r.cashbook_id = $1
ORDER BY r.paid_at, r.id
`

type ListReceiptsByCashbookRow struct {
	Receipt       Receipt `json:"receipt"`
	BorrowerName  string  `json:"borrower_name"`
	BorrowerPhone string  `json:"borrower_phone"`
}

func (q *Queries) ListReceiptsByCashbook(ctx context.Context, cashbookID string) ([]ListReceiptsByCashbookRow, error) {
	rows, err := q.db.Query(ctx, listReceiptsByCashbook, cashbookID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	items := []ListReceiptsByCashbookRow{}
	for rows.Next() {
		var i ListReceiptsByCashbookRow
		if err := rows.Scan(
			&i.Receipt.ID,
			&i.Receipt.LoanID,
			&i.Receipt.CashbookID,
			&i.Receipt.Amount,
			&i.Receipt.PaidAt,
			&i.Receipt.Notes,
			&i.Receipt.CreatedAt,
			&i.BorrowerName,
			&i.BorrowerPhone,
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
