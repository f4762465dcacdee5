package handlers

import (
	"net/http"

	"github.com/tvdoutor/contratos/internal/usecase"
)

type ReportHandler struct {
	Reports   *usecase.ReportsUseCase
	Dashboard *usecase.DashboardUseCase
}

func NewReportHandler(reports *usecase.ReportsUseCase, dashboard *usecase.DashboardUseCase) *ReportHandler {
	return &ReportHandler{Reports: reports, Dashboard: dashboard}
}

// MonthlyRevenue (GET /reports/monthly-revenue?year=)
func (h *ReportHandler) MonthlyRevenue(w http.ResponseWriter, r *http.Request) {
	rows, err := h.Reports.MonthlyRevenue(r.Context(), queryInt(r, "year"))
	if err != nil {
		writeUseCaseError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, rows)
}

// ContractStatus (GET /reports/contract-status?year=)
func (h *ReportHandler) ContractStatus(w http.ResponseWriter, r *http.Request) {
	rows, err := h.Reports.ContractStatus(r.Context(), queryInt(r, "year"))
	if err != nil {
		writeUseCaseError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, rows)
}

// ContractsByState (GET /reports/contracts-by-state?year=)
func (h *ReportHandler) ContractsByState(w http.ResponseWriter, r *http.Request) {
	rows, err := h.Reports.ContractsByState(r.Context(), queryInt(r, "year"))
	if err != nil {
		writeUseCaseError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, rows)
}

// DashboardStats (GET /dashboard)
func (h *ReportHandler) DashboardStats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.Dashboard.Execute(r.Context())
	if err != nil {
		writeUseCaseError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, stats)
}
