package dto

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/iho/cashbook/internal/domain"
	"github.com/iho/cashbook/internal/usecase"
)

func TestPeriodFromDomain(t *testing.T) {
	now := time.Date(2025, 3, 14, 18, 0, 0, 0, time.UTC)
	p := domain.NewPeriod("p-1", time.Date(2025, 3, 14, 0, 0, 0, 0, time.UTC), decimal.NewFromInt(50000), now)
	if err := p.Lock(now); err != nil {
		t.Fatalf("lock: %v", err)
	}

	resp := PeriodFromDomain(p)
	if resp.Date != "2025-03-14" {
		t.Fatalf("expected date 2025-03-14, got %s", resp.Date)
	}
	if !resp.Locked || resp.LockedAt == nil {
		t.Fatalf("expected locked period, got %+v", resp)
	}

	data, err := json.Marshal(resp)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	var decoded map[string]any
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if decoded["opening_balance"] != "50000" {
		t.Fatalf("expected amounts as strings, got %v", decoded["opening_balance"])
	}
}

func TestPeriodDetailFromSnapshot_EmptyListsAreArrays(t *testing.T) {
	p := domain.NewPeriod("p-1", time.Date(2025, 3, 14, 0, 0, 0, 0, time.UTC), decimal.Zero, time.Now())

	data, err := json.Marshal(PeriodDetailFromSnapshot(&usecase.PeriodSnapshot{Period: p}))
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}

	var decoded map[string]any
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	for _, key := range []string{"receipts", "expenses", "owner_transactions"} {
		if _, ok := decoded[key].([]any); !ok {
			t.Fatalf("expected %s to be an array, got %v", key, decoded[key])
		}
	}
}

func TestLoanFromDomain(t *testing.T) {
	start := time.Date(2025, 3, 13, 0, 0, 0, 0, time.UTC)
	loan, err := domain.NewLoan("l-1", "b-1", "p-1", decimal.NewFromInt(100000), domain.DefaultLoanPolicy(), start, nil, start)
	if err != nil {
		t.Fatalf("new loan: %v", err)
	}
	loan.BorrowerName = "Alice"

	resp := LoanFromDomain(loan)
	if resp.StartDate != "2025-03-13" || resp.Status != "Active" || resp.BorrowerName != "Alice" {
		t.Fatalf("unexpected response: %+v", resp)
	}
	if !resp.TotalToRepay.Equal(decimal.NewFromInt(120000)) {
		t.Fatalf("expected total 120000, got %s", resp.TotalToRepay)
	}
}

func TestReportFromDomain(t *testing.T) {
	at := time.Date(2025, 3, 14, 9, 0, 0, 0, time.UTC)
	p := domain.NewPeriod("p-1", time.Date(2025, 3, 14, 0, 0, 0, 0, time.UTC), decimal.Zero, at)
	report := &domain.Report{
		Period:   p,
		Currency: "RWF",
		Lines: []domain.ReportLine{
			{Kind: domain.ReportLineReceipt, ID: "r-1", Description: "Loan repayment", Party: "Alice", Direction: domain.DirectionIn, Amount: decimal.NewFromInt(20000), At: at},
		},
		GeneratedAt: at,
	}

	resp := ReportFromDomain(report)
	if len(resp.Lines) != 1 || resp.Lines[0].Kind != "Receipt" || resp.Lines[0].Party != "Alice" {
		t.Fatalf("unexpected lines: %+v", resp.Lines)
	}
	if resp.Currency != "RWF" || resp.Period.ID != "p-1" {
		t.Fatalf("unexpected report: %+v", resp)
	}
}

func TestVerificationFromUseCase(t *testing.T) {
	v := &usecase.Verification{
		PeriodID:   "p-1",
		Date:       time.Date(2025, 3, 14, 0, 0, 0, 0, time.UTC),
		Stored:     domain.Totals{Closing: decimal.NewFromInt(1)},
		Derived:    domain.Totals{Closing: decimal.NewFromInt(2)},
		Consistent: false,
	}

	resp := VerificationFromUseCase(v)
	if resp.Date != "2025-03-14" || resp.Consistent {
		t.Fatalf("unexpected response: %+v", resp)
	}
	if !resp.Derived.Closing.Equal(decimal.NewFromInt(2)) {
		t.Fatalf("expected derived closing 2, got %s", resp.Derived.Closing)
	}
}
