package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/tvdoutor/contratos/internal/auth"
	"github.com/tvdoutor/contratos/internal/entity"
	"github.com/tvdoutor/contratos/internal/usecase"
)

type UserHandler struct {
	UseCase *usecase.ManageUsersUseCase
}

func NewUserHandler(uc *usecase.ManageUsersUseCase) *UserHandler {
	return &UserHandler{UseCase: uc}
}

// Create (POST /users)
func (h *UserHandler) Create(w http.ResponseWriter, r *http.Request) {
	s, _ := auth.SessionFromContext(r.Context())
	var in usecase.CreateUserInput
	if !decodeJSON(w, r, &in) {
		return
	}
	out, err := h.UseCase.Create(r.Context(), s.User, in)
	if err != nil {
		writeUseCaseError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, out)
}

// Search (GET /users?q=&role=&active=&limit=&offset=)
func (h *UserHandler) Search(w http.ResponseWriter, r *http.Request) {
	s, _ := auth.SessionFromContext(r.Context())
	params := entity.SearchUsersParams{
		Q:      r.URL.Query().Get("q"),
		Role:   entity.Role(r.URL.Query().Get("role")),
		Limit:  queryInt(r, "limit"),
		Offset: queryInt(r, "offset"),
	}
	switch r.URL.Query().Get("active") {
	case "true":
		active := true
		params.Active = &active
	case "false":
		active := false
		params.Active = &active
	}

	rows, err := h.UseCase.Search(r.Context(), s.User, params)
	if err != nil {
		writeUseCaseError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, rows)
}

// Update (PATCH /users/{id})
func (h *UserHandler) Update(w http.ResponseWriter, r *http.Request) {
	s, _ := auth.SessionFromContext(r.Context())
	var in entity.ProfileUpdate
	if !decodeJSON(w, r, &in) {
		return
	}
	if err := h.UseCase.Update(r.Context(), s.User, chi.URLParam(r, "id"), in); err != nil {
		writeUseCaseError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// Delete (DELETE /users/{id})
func (h *UserHandler) Delete(w http.ResponseWriter, r *http.Request) {
	s, _ := auth.SessionFromContext(r.Context())
	if err := h.UseCase.Delete(r.Context(), s.User, chi.URLParam(r, "id")); err != nil {
		writeUseCaseError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// ResetPassword (POST /users/{id}/password)
func (h *UserHandler) ResetPassword(w http.ResponseWriter, r *http.Request) {
	s, _ := auth.SessionFromContext(r.Context())
	var in struct {
		Password string `json:"password"`
	}
	if !decodeJSON(w, r, &in) {
		return
	}
	if err := h.UseCase.ResetPassword(r.Context(), s.User, chi.URLParam(r, "id"), in.Password); err != nil {
		writeUseCaseError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
