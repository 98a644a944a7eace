package generated

import (
	"context"

	"github.com/jackc/pgx/v5/pgtype"
)

const createOwnerTransaction = `-- name: CreateOwnerTransaction :exec
INSERT INTO owner_transactions (id, cashbook_id, amount, type, note, created_at)
VALUES ($1, $2, $3, $4, $5, $6)
`

type CreateOwnerTransactionParams struct {
	ID         string             `json:"id"`
	CashbookID string             `json:"cashbook_id"`
	Amount     pgtype.Numeric     `json:"amount"`
	Type       string             `json:"type"`
	Note       pgtype.Text        `json:"note"`
	CreatedAt  pgtype.Timestamptz `json:"created_at"`
}

func (q *Queries) CreateOwnerTransaction(ctx context.Context, arg CreateOwnerTransactionParams) error {
	_, err := q.db.Exec(ctx, createOwnerTransaction,
		arg.ID,
		arg.CashbookID,
		arg.Amount,
		arg.Type,
		arg.Note,
		arg.CreatedAt,
	)
	return err
}

const listOwnerTransactionsByCashbook = `-- name: ListOwnerTransactionsByCashbook :many
SELECT id, cashbook_id, amount, type, note, created_at FROM owner_transactions
WHERE cashbook_id = $1
ORDER BY created_at, id
`

func (q *Queries) ListOwnerTransactionsByCashbook(ctx context.Context, cashbookID string) ([]OwnerTransaction, error) {
	rows, err := q.db.Query(ctx, listOwnerTransactionsByCashbook, cashbookID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	items := []OwnerTransaction{}
	for rows.Next() {
		var i OwnerTransaction
		if err := rows.Scan(
			&i.ID,
			&i.CashbookID,
			&i.Amount,
			&i.Type,
			&i.Note,
			&i.CreatedAt,
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
