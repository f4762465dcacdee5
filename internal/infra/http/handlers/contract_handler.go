package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/tvdoutor/contratos/internal/auth"
	"github.com/tvdoutor/contratos/internal/entity"
	"github.com/tvdoutor/contratos/internal/infra/http/middleware"
	"github.com/tvdoutor/contratos/internal/usecase"
)

type ContractHandler struct {
	Creator usecase.ContractCreator
	Queries *usecase.ContractQueries
}

func NewContractHandler(creator usecase.ContractCreator, queries *usecase.ContractQueries) *ContractHandler {
	return &ContractHandler{Creator: creator, Queries: queries}
}

// Quote (POST /contracts/quote) calcula os valores sem validar.
func (h *ContractHandler) Quote(w http.ResponseWriter, r *http.Request) {
	d := entity.NewDraft()
	if !decodeJSON(w, r, d) {
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"quote":    usecase.QuoteDraft(d),
		"progress": usecase.FormProgress(d),
	})
}

// Preview (POST /contracts/preview)
func (h *ContractHandler) Preview(w http.ResponseWriter, r *http.Request) {
	d := entity.NewDraft()
	if !decodeJSON(w, r, d) {
		return
	}
	out, err := usecase.PreviewContract(d)
	if err != nil {
		writeUseCaseError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, out)
}

// Create (POST /contracts)
func (h *ContractHandler) Create(w http.ResponseWriter, r *http.Request) {
	s, _ := auth.SessionFromContext(r.Context())
	d := entity.NewDraft()
	if !decodeJSON(w, r, d) {
		return
	}
	out, err := h.Creator.Execute(r.Context(), d, s.User)
	if err != nil {
		writeUseCaseError(w, r, err)
		return
	}
	middleware.RecordContractCreated()
	writeJSON(w, http.StatusCreated, out)
}

// Search (GET /contracts?q=&status=&limit=&offset=)
func (h *ContractHandler) Search(w http.ResponseWriter, r *http.Request) {
	rows, err := h.Queries.Search(r.Context(), entity.SearchContractsParams{
		Q:      r.URL.Query().Get("q"),
		Status: entity.ContractStatus(r.URL.Query().Get("status")),
		Limit:  queryInt(r, "limit"),
		Offset: queryInt(r, "offset"),
	})
	if err != nil {
		writeUseCaseError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, rows)
}

// Get (GET /contracts/{id})
func (h *ContractHandler) Get(w http.ResponseWriter, r *http.Request) {
	c, err := h.Queries.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeUseCaseError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, c)
}

// Processing (GET /contracts/{id}/processing)
func (h *ContractHandler) Processing(w http.ResponseWriter, r *http.Request) {
	out, err := h.Queries.ProcessingStatus(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeUseCaseError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, out)
}

// UpdateStatus (PATCH /contracts/{id}/status)
func (h *ContractHandler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	s, _ := auth.SessionFromContext(r.Context())
	var in struct {
		Status entity.ContractStatus `json:"status"`
	}
	if !decodeJSON(w, r, &in) {
		return
	}
	if err := h.Queries.UpdateStatus(r.Context(), s.User, chi.URLParam(r, "id"), in.Status); err != nil {
		writeUseCaseError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
