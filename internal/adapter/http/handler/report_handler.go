package handler

import (
	"context"
	"encoding/csv"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/iho/cashbook/internal/adapter/http/dto"
	"github.com/iho/cashbook/internal/domain"
)

// ReportService defines the behavior needed by ReportHandler.
type ReportService interface {
	GetReport(ctx context.Context, periodID string) (*domain.Report, error)
}

// ReportHandler serves the report of a locked period.
type ReportHandler struct {
	reportUC ReportService
}

// NewReportHandler creates a new ReportHandler.
func NewReportHandler(reportUC ReportService) *ReportHandler {
	return &ReportHandler{reportUC: reportUC}
}

// Get returns the report as JSON, or as CSV with ?format=csv.
func (h *ReportHandler) Get(w http.ResponseWriter, r *http.Request) {
	report, err := h.reportUC.GetReport(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeDomainError(w, "failed to build report", err)
		return
	}

	switch r.URL.Query().Get("format") {
	case "", "json":
		writeJSON(w, http.StatusOK, dto.ReportFromDomain(report))
	case "csv":
		writeReportCSV(w, report)
	default:
		writeError(w, http.StatusBadRequest, "unsupported format", "use json or csv")
	}
}

func writeReportCSV(w http.ResponseWriter, report *domain.Report) {
	name := fmt.Sprintf("cashbook-%s.csv", report.Period.DateString())
	w.Header().Set("Content-Type", "text/csv")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", name))
	w.WriteHeader(http.StatusOK)

	cw := csv.NewWriter(w)
	cw.Write([]string{"time", "kind", "description", "party", "phone", "direction", "amount", "currency"})
	for _, l := range report.Lines {
		cw.Write([]string{
			l.At.Format(time.RFC3339),
			string(l.Kind),
			l.Description,
			l.Party,
			l.Phone,
			l.Direction,
			l.Amount.StringFixed(2),
			report.Currency,
		})
	}

	p := report.Period
	cw.Write([]string{})
	cw.Write([]string{"opening_balance", p.OpeningBalance.StringFixed(2)})
	cw.Write([]string{"total_receipts", p.TotalReceipts.StringFixed(2)})
	cw.Write([]string{"total_payments", p.TotalPayments.StringFixed(2)})
	cw.Write([]string{"total_capital_in", p.TotalCapitalIn.StringFixed(2)})
	cw.Write([]string{"total_drawings", p.TotalDrawings.StringFixed(2)})
	cw.Write([]string{"closing_balance", p.ClosingBalance.StringFixed(2)})
	cw.Flush()
}
