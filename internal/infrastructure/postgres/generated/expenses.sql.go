package generated

import (
	"context"

	"github.com/jackc/pgx/v5/pgtype"
)

const createExpense = `-- name: CreateExpense :exec
INSERT INTO expenses (id, cashbook_id, description, amount, source, reference_id, created_at)
VALUES ($1, $2, $3, $4, $5, $6, $7)
`

type CreateExpenseParams struct {
	ID          string             `json:"id"`
	CashbookID  string             `json:"cashbook_id"`
	Description string             `json:"description"`
	Amount      pgtype.Numeric     `json:"amount"`
	Source      string             `json:"source"`
	ReferenceID pgtype.Text        `json:"reference_id"`
	CreatedAt   pgtype.Timestamptz `json:"created_at"`
}

func (q *Queries) CreateExpense(ctx context.Context, arg CreateExpenseParams) error {
	_, err := q.db.Exec(ctx, createExpense,
		arg.ID,
		arg.CashbookID,
		arg.Description,
		arg.Amount,
		arg.Source,
		arg.ReferenceID,
		arg.CreatedAt,
	)
	return err
}

const deleteExpensesByReference = `-- name: DeleteExpensesByReference :execrows
DELETE FROM expenses WHERE source = $1 AND reference_id = $2
`

type DeleteExpensesByReferenceParams struct {
	Source      string      `json:"source"`
	ReferenceID pgtype.Text `json:"reference_id"`
}

func (q *Queries) DeleteExpensesByReference(ctx context.Context, arg DeleteExpensesByReferenceParams) (int64, error) {
	result, err := q.db.Exec(ctx, deleteExpensesByReference, arg.Source, arg.ReferenceID)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected(), nil
}

const listExpensesByCashbook = `-- name: ListExpensesByCashbook :many
SELECT id, cashbook_id, description, amount, source, reference_id, created_at FROM expenses
WHERE cashbook_id = $1
ORDER BY created_at, id
`

func (q *Queries) ListExpensesByCashbook(ctx context.Context, cashbookID string) ([]Expense, error) {
	rows, err := q.db.Query(ctx, listExpensesByCashbook, cashbookID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	items := []Expense{}
	for rows.Next() {
		var i Expense
		if err := rows.Scan(
			&i.ID,
			&i.CashbookID,
			&i.Description,
			&i.Amount,
			&i.Source,
			&i.ReferenceID,
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

const updateLoanExpenseAmount = `-- name: UpdateLoanExpenseAmount :execrows
UPDATE expenses SET amount = $2
WHERE source = 'loan' AND reference_id = $1
`

type UpdateLoanExpenseAmountParams struct {
	ReferenceID pgtype.Text    `json:"reference_id"`
	Amount      pgtype.Numeric `json:"amount"`
}

func (q *Queries) UpdateLoanExpenseAmount(ctx context.Context, arg UpdateLoanExpenseAmountParams) (int64, error) {
	result, err := q.db.Exec(ctx, updateLoanExpenseAmount, arg.ReferenceID, arg.Amount)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected(), nil
}
