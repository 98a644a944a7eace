package generated

import (
	"github.com/jackc/pgx/v5/pgtype"
)

type Borrower struct {
	ID         string             `json:"id"`
	FullName   string             `json:"full_name"`
	Phone      string             `json:"phone"`
	NationalID pgtype.Text        `json:"national_id"`
	Notes      pgtype.Text        `json:"notes"`
	CreatedAt  pgtype.Timestamptz `json:"created_at"`
	UpdatedAt  pgtype.Timestamptz `json:"updated_at"`
}

type Cashbook struct {
	ID             string             `json:"id"`
	Date           pgtype.Date        `json:"date"`
	OpeningBalance pgtype.Numeric     `json:"opening_balance"`
	TotalReceipts  pgtype.Numeric     `json:"total_receipts"`
	TotalPayments  pgtype.Numeric     `json:"total_payments"`
	TotalCapitalIn pgtype.Numeric     `json:"total_capital_in"`
	TotalDrawings  pgtype.Numeric     `json:"total_drawings"`
	ClosingBalance pgtype.Numeric     `json:"closing_balance"`
	Locked         bool               `json:"locked"`
	LockedAt       pgtype.Timestamptz `json:"locked_at"`
	CreatedAt      pgtype.Timestamptz `json:"created_at"`
	UpdatedAt      pgtype.Timestamptz `json:"updated_at"`
}

type Expense struct {
	ID          string             `json:"id"`
	CashbookID  string             `json:"cashbook_id"`
	Description string             `json:"description"`
	Amount      pgtype.Numeric     `json:"amount"`
	Source      string             `json:"source"`
	ReferenceID pgtype.Text        `json:"reference_id"`
	CreatedAt   pgtype.Timestamptz `json:"created_at"`
}

type Loan struct {
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

type OutboxEvent struct {
	ID            string             `json:"id"`
	AggregateID   string             `json:"aggregate_id"`
	AggregateType string             `json:"aggregate_type"`
	EventType     string             `json:"event_type"`
	Payload       []byte             `json:"payload"`
	CreatedAt     pgtype.Timestamptz `json:"created_at"`
	Published     bool               `json:"published"`
	PublishedAt   pgtype.Timestamptz `json:"published_at"`
}

type OwnerTransaction struct {
	ID         string             `json:"id"`
	CashbookID string             `json:"cashbook_id"`
	Amount     pgtype.Numeric     `json:"amount"`
	Type       string             `json:"type"`
	Note       pgtype.Text        `json:"note"`
	CreatedAt  pgtype.Timestamptz `json:"created_at"`
}

type Receipt struct {
	ID         string             `json:"id"`
	LoanID     string             `json:"loan_id"`
	CashbookID string             `json:"cashbook_id"`
	Amount     pgtype.Numeric     `json:"amount"`
	PaidAt     pgtype.Timestamptz `json:"paid_at"`
	Notes      pgtype.Text        `json:"notes"`
	CreatedAt  pgtype.Timestamptz `json:"created_at"`
}
