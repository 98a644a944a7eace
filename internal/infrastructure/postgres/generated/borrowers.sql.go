package generated

import (
	"context"

	"github.com/jackc/pgx/v5/pgtype"
)

const countLoansByBorrower = `-- name: CountLoansByBorrower :one
SELECT COUNT(*) FROM loans WHERE borrower_id = $1
`

func (q *Queries) CountLoansByBorrower(ctx context.Context, borrowerID string) (int64, error) {
	row := q.db.QueryRow(ctx, countLoansByBorrower, borrowerID)
	var count int64
	err := row.Scan(&count)
	return count, err
}

const createBorrower = `-- name: CreateBorrower :exec
INSERT INTO borrowers (id, full_name, phone, national_id, notes, created_at, updated_at)
VALUES ($1, $2, $3, $4, $5, $6, $7)
`

type CreateBorrowerParams struct {
	ID         string             `json:"id"`
	FullName   string             `json:"full_name"`
	Phone      string             `json:"phone"`
	NationalID pgtype.Text        `json:"national_id"`
	Notes      pgtype.Text        `json:"notes"`
	CreatedAt  pgtype.Timestamptz `json:"created_at"`
	UpdatedAt  pgtype.Timestamptz `json:"updated_at"`
}

func (q *Queries) CreateBorrower(ctx context.Context, arg CreateBorrowerParams) error {
	_, err := q.db.Exec(ctx, createBorrower,
		arg.ID,
		arg.FullName,
		arg.Phone,
		arg.NationalID,
		arg.Notes,
		arg.CreatedAt,
		arg.UpdatedAt,
	)
	return err
}

const deleteBorrower = `-- name: DeleteBorrower :execrows
DELETE FROM borrowers WHERE id = $1
`

func (q *Queries) DeleteBorrower(ctx context.Context, id string) (int64, error) {
	result, err := q.db.Exec(ctx, deleteBorrower, id)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected(), nil
}

const getBorrowerByID = `-- name: GetBorrowerByID :one
SELECT id, full_name, phone, national_id, notes, created_at, updated_at FROM borrowers WHERE id = $1
`

func (q *Queries) GetBorrowerByID(ctx context.Context, id string) (Borrower, error) {
	row := q.db.QueryRow(ctx, getBorrowerByID, id)
	var i Borrower
	err := row.Scan(
		&i.ID,
		&i.FullName,
		&i.Phone,
		&i.NationalID,
		&i.Notes,
		&i.CreatedAt,
		&i.UpdatedAt,
	)
	return i, err
}

const getBorrowerByIDForUpdate = `-- name: GetBorrowerByIDForUpdate :one
SELECT id, full_name, phone, national_id, notes, created_at, updated_at FROM borrowers WHERE id = $1 FOR UPDATE
`

func (q *Queries) GetBorrowerByIDForUpdate(ctx context.Context, id string) (Borrower, error) {
	row := q.db.QueryRow(ctx, getBorrowerByIDForUpdate, id)
	var i Borrower
	err := row.Scan(
		&i.ID,
		&i.FullName,
		&i.Phone,
		&i.NationalID,
		&i.Notes,
		&i.CreatedAt,
		&i.UpdatedAt,
	)
	return i, err
}

const listBorrowers = `-- name: ListBorrowers :many
SELECT id, full_name, phone, national_id, notes, created_at, updated_at FROM borrowers
ORDER BY full_name, id
LIMIT $1 OFFSET $2
`

type ListBorrowersParams struct {
	Limit  int32 `json:"limit"`
	Offset int32 `json:"offset"`
}

func (q *Queries) ListBorrowers(ctx context.Context, arg ListBorrowersParams) ([]Borrower, error) {
	rows, err := q.db.Query(ctx, listBorrowers, arg.Limit, arg.Offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	items := []Borrower{}
	for rows.Next() {
		var i Borrower
		if err := rows.Scan(
			&i.ID,
			&i.FullName,
			&i.Phone,
			&i.NationalID,
			&i.Notes,
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

const updateBorrower = `-- name: UpdateBorrower :execrows
UPDATE borrowers
SET full_name = $2, phone = $3, national_id = $4, notes = $5, updated_at = $6
WHERE id = $1
`

type UpdateBorrowerParams struct {
	ID         string             `json:"id"`
	FullName   string             `json:"full_name"`
	Phone      string             `json:"phone"`
	NationalID pgtype.Text        `json:"national_id"`
	Notes      pgtype.Text        `json:"notes"`
	UpdatedAt  pgtype.Timestamptz `json:"updated_at"`
}

func (q *Queries) UpdateBorrower(ctx context.Context, arg UpdateBorrowerParams) (int64, error) {
	result, err := q.db.Exec(ctx, updateBorrower,
		arg.ID,
		arg.FullName,
		arg.Phone,
		arg.NationalID,
		arg.Notes,
		arg.UpdatedAt,
	)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected(), nil
}
