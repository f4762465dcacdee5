package handlers

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/tvdoutor/contratos/internal/auth"
	"github.com/tvdoutor/contratos/internal/entity"
	"github.com/tvdoutor/contratos/internal/infra/http/middleware"
	"github.com/tvdoutor/contratos/internal/usecase"
)

// DraftHandler expõe a sessão de formulário (rascunho) do lado do servidor.
type DraftHandler struct {
	Drafts  *usecase.DraftService
	Creator usecase.ContractCreator
}

func NewDraftHandler(drafts *usecase.DraftService, creator usecase.ContractCreator) *DraftHandler {
	return &DraftHandler{Drafts: drafts, Creator: creator}
}

type fieldChange struct {
	Field string `json:"field"`
	Value string `json:"value"`
}

func (h *DraftHandler) session(w http.ResponseWriter, r *http.Request) (*usecase.FormSession, *auth.Session, bool) {
	s, _ := auth.SessionFromContext(r.Context())
	fs, err := h.Drafts.Get(chi.URLParam(r, "id"), s.User.ID)
	if err != nil {
		writeUseCaseError(w, r, err)
		return nil, nil, false
	}
	return fs, s, true
}

func contractorIndex(w http.ResponseWriter, r *http.Request) (int, bool) {
	i, err := strconv.Atoi(chi.URLParam(r, "index"))
	if err != nil {
		writeErrorResponse(w, http.StatusBadRequest, "INVALID_REQUEST", entity.ErrContractorIndex.Error())
		return 0, false
	}
	return i, true
}

// Create (POST /drafts)
func (h *DraftHandler) Create(w http.ResponseWriter, r *http.Request) {
	s, _ := auth.SessionFromContext(r.Context())
	fs := h.Drafts.Create(s.User.ID)
	writeJSON(w, http.StatusCreated, fs.Snapshot())
}

// Get (GET /drafts/{id})
func (h *DraftHandler) Get(w http.ResponseWriter, r *http.Request) {
	fs, _, ok := h.session(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, fs.Snapshot())
}

// UpdateField (PATCH /drafts/{id}/fields)
func (h *DraftHandler) UpdateField(w http.ResponseWriter, r *http.Request) {
	fs, _, ok := h.session(w, r)
	if !ok {
		return
	}
	var in fieldChange
	if !decodeJSON(w, r, &in) {
		return
	}
	if err := fs.HandleInputChange(in.Field, in.Value); err != nil {
		writeUseCaseError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, fs.Snapshot())
}

// UpdateContractor (PATCH /drafts/{id}/contractors/{index})
func (h *DraftHandler) UpdateContractor(w http.ResponseWriter, r *http.Request) {
	fs, _, ok := h.session(w, r)
	if !ok {
		return
	}
	index, ok := contractorIndex(w, r)
	if !ok {
		return
	}
	var in fieldChange
	if !decodeJSON(w, r, &in) {
		return
	}
	if err := fs.HandleContractorChange(index, in.Field, in.Value); err != nil {
		writeUseCaseError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, fs.Snapshot())
}

// AddContractor (POST /drafts/{id}/contractors)
func (h *DraftHandler) AddContractor(w http.ResponseWriter, r *http.Request) {
	fs, _, ok := h.session(w, r)
	if !ok {
		return
	}
	fs.AddContractor()
	writeJSON(w, http.StatusOK, fs.Snapshot())
}

// RemoveContractor (DELETE /drafts/{id}/contractors/{index})
func (h *DraftHandler) RemoveContractor(w http.ResponseWriter, r *http.Request) {
	fs, _, ok := h.session(w, r)
	if !ok {
		return
	}
	index, ok := contractorIndex(w, r)
	if !ok {
		return
	}
	if err := fs.RemoveContractor(index); err != nil {
		writeUseCaseError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, fs.Snapshot())
}

// Submit (POST /drafts/{id}/submit)
func (h *DraftHandler) Submit(w http.ResponseWriter, r *http.Request) {
	fs, s, ok := h.session(w, r)
	if !ok {
		return
	}
	out, err := fs.Submit(r.Context(), h.Creator, s.User)
	if err != nil {
		writeUseCaseError(w, r, err)
		return
	}
	middleware.RecordContractCreated()
	writeJSON(w, http.StatusCreated, out)
}

// Discard (DELETE /drafts/{id})
func (h *DraftHandler) Discard(w http.ResponseWriter, r *http.Request) {
	s, _ := auth.SessionFromContext(r.Context())
	if err := h.Drafts.Discard(chi.URLParam(r, "id"), s.User.ID); err != nil {
		writeUseCaseError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
