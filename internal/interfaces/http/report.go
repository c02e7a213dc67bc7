package http

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/google/uuid"

	"orangejuice/internal/domain/report"
)

type ReportService interface {
	TaxReport(ctx context.Context, userID uuid.UUID, year int) (*report.TaxReport, error)
	InvestmentSummary(ctx context.Context, userID uuid.UUID) ([]report.InvestmentSummary, error)
}

type ReportHandler struct {
	reports ReportService
	now     func() time.Time
}

func NewReportHandler(reports ReportService) *ReportHandler {
	return &ReportHandler{reports: reports, now: time.Now}
}

// HandleTaxReport reports the sales of ?year=, defaulting to the current year
func (h *ReportHandler) HandleTaxReport(w http.ResponseWriter, r *http.Request) {
	userID, err := callerID(r)
	if err != nil {
		writeError(w, r, err)
		return
	}

	year := h.now().UTC().Year()
	if raw := r.URL.Query().Get("year"); raw != "" {
		year, err = strconv.Atoi(raw)
		if err != nil {
			writeError(w, r, report.ErrInvalidYear)
			return
		}
	}

	rep, err := h.reports.TaxReport(r.Context(), userID, year)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, rep)
}

func (h *ReportHandler) HandleInvestmentSummary(w http.ResponseWriter, r *http.Request) {
	userID, err := callerID(r)
	if err != nil {
		writeError(w, r, err)
		return
	}

	summary, err := h.reports.InvestmentSummary(r.Context(), userID)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, summary)
}
