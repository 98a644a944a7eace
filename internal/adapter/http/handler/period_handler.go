package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/iho/cashbook/internal/adapter/http/dto"
	"github.com/iho/cashbook/internal/domain"
	"github.com/iho/cashbook/internal/usecase"
)

// PeriodService defines the behavior needed by PeriodHandler.
type PeriodService interface {
	GetPeriod(ctx context.Context, id string) (*usecase.PeriodSnapshot, error)
	GetPeriodByDate(ctx context.Context, date *time.Time) (*usecase.PeriodSnapshot, error)
	ListPeriods(ctx context.Context, input usecase.ListPeriodsInput) ([]*domain.Period, error)
	Lock(ctx context.Context, id string) (*domain.Period, error)
	LockDate(ctx context.Context, date *time.Time) (*domain.Period, error)
	Recompute(ctx context.Context, id string) (*domain.Period, error)
	Verify(ctx context.Context, id string) (*usecase.Verification, error)
}

// PeriodHandler handles cashbook period requests.
type PeriodHandler struct {
	periodUC PeriodService
}

// NewPeriodHandler creates a new PeriodHandler.
func NewPeriodHandler(periodUC PeriodService) *PeriodHandler {
	return &PeriodHandler{periodUC: periodUC}
}

// Today returns the period for ?date=YYYY-MM-DD, or today, creating it if
// absent.
func (h *PeriodHandler) Today(w http.ResponseWriter, r *http.Request) {
	var date *time.Time
	if s := r.URL.Query().Get("date"); s != "" {
		d, err := domain.ParseDate(s)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid date", err.Error())
			return
		}
		date = &d
	}

	snap, err := h.periodUC.GetPeriodByDate(r.Context(), date)
	if err != nil {
		writeDomainError(w, "failed to resolve period", err)
		return
	}

	writeJSON(w, http.StatusOK, dto.PeriodDetailFromSnapshot(snap))
}

// Get retrieves a period and its transactions.
func (h *PeriodHandler) Get(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		writeError(w, http.StatusBadRequest, "missing period ID", "")
		return
	}

	snap, err := h.periodUC.GetPeriod(r.Context(), id)
	if err != nil {
		writeDomainError(w, "failed to get period", err)
		return
	}

	writeJSON(w, http.StatusOK, dto.PeriodDetailFromSnapshot(snap))
}

// List lists periods newest first.
func (h *PeriodHandler) List(w http.ResponseWriter, r *http.Request) {
	periods, err := h.periodUC.ListPeriods(r.Context(), usecase.ListPeriodsInput{
		Limit:  parseIntQuery(r, "limit", 30),
		Offset: parseIntQuery(r, "offset", 0),
	})
	if err != nil {
		writeDomainError(w, "failed to list periods", err)
		return
	}

	writeJSON(w, http.StatusOK, dto.ListPeriodsResponse{
		Periods: dto.PeriodsFromDomain(periods),
		Total:   int64(len(periods)),
	})
}

// Lock locks the period in the path.
func (h *PeriodHandler) Lock(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		writeError(w, http.StatusBadRequest, "missing period ID", "")
		return
	}

	period, err := h.periodUC.Lock(r.Context(), id)
	if err != nil {
		writeDomainError(w, "failed to lock period", err)
		return
	}

	writeJSON(w, http.StatusOK, dto.PeriodFromDomain(period))
}

// LockDate locks the period of the requested date, today by default.
func (h *PeriodHandler) LockDate(w http.ResponseWriter, r *http.Request) {
	var req dto.LockRequest
	if err := decodeJSON(r, &req, true); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	date, err := req.ParsedDate()
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid date", err.Error())
		return
	}

	period, err := h.periodUC.LockDate(r.Context(), date)
	if err != nil {
		writeDomainError(w, "failed to lock period", err)
		return
	}

	writeJSON(w, http.StatusOK, dto.PeriodFromDomain(period))
}

// Recompute rederives the period's aggregates.
func (h *PeriodHandler) Recompute(w http.ResponseWriter, r *http.Request) {
	period, err := h.periodUC.Recompute(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeDomainError(w, "failed to recompute period", err)
		return
	}

	writeJSON(w, http.StatusOK, dto.PeriodFromDomain(period))
}

// Verify compares stored aggregates with the period's transactions.
func (h *PeriodHandler) Verify(w http.ResponseWriter, r *http.Request) {
	v, err := h.periodUC.Verify(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeDomainError(w, "failed to verify period", err)
		return
	}

	writeJSON(w, http.StatusOK, dto.VerificationFromUseCase(v))
}
