package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/rs/zerolog/hlog"

	"github.com/tvdoutor/contratos/internal/entity"
	"github.com/tvdoutor/contratos/internal/usecase"
)

type ErrorResponse struct {
	Error    string            `json:"error"`
	Message  string            `json:"message"`
	Errors   map[string]string `json:"errors,omitempty"`
	FirstTab string            `json:"firstTab,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeErrorResponse(w http.ResponseWriter, status int, code, message string) {
	writeJSON(w, status, ErrorResponse{Error: code, Message: message})
}

func decodeJSON(w http.ResponseWriter, r *http.Request, v any) bool {
	r.Body = http.MaxBytesReader(w, r.Body, 1<<20)
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		writeErrorResponse(w, http.StatusBadRequest, "INVALID_JSON", "JSON inválido")
		return false
	}
	return true
}

// writeUseCaseError traduz os erros dos casos de uso para HTTP.
func writeUseCaseError(w http.ResponseWriter, r *http.Request, err error) {
	var de *usecase.DomainError
	if errors.As(err, &de) {
		status := http.StatusBadRequest
		switch de.Code {
		case usecase.CodeValidation:
			status = http.StatusUnprocessableEntity
		case usecase.CodePermissionDenied:
			status = http.StatusForbidden
		case usecase.CodeNotFound:
			status = http.StatusNotFound
		case usecase.CodeConflict:
			status = http.StatusConflict
		}
		writeJSON(w, status, ErrorResponse{
			Error:    de.Code,
			Message:  de.Message,
			Errors:   de.Fields,
			FirstTab: de.FirstTab,
		})
		return
	}

	var te *usecase.TechnicalError
	if errors.As(err, &te) {
		hlog.FromRequest(r).Error().Err(err).Str("code", te.Code).Msg("falha em colaborador externo")
		writeErrorResponse(w, http.StatusBadGateway, te.Code, te.Message)
		return
	}

	switch {
	case errors.Is(err, entity.ErrDraftNotFound), errors.Is(err, entity.ErrContractNotFound), errors.Is(err, entity.ErrUserNotFound):
		writeErrorResponse(w, http.StatusNotFound, usecase.CodeNotFound, err.Error())
		return
	case errors.Is(err, entity.ErrLastContractor), errors.Is(err, usecase.ErrSubmissionInFlight):
		writeErrorResponse(w, http.StatusConflict, usecase.CodeConflict, err.Error())
		return
	case errors.Is(err, entity.ErrContractorIndex), errors.Is(err, entity.ErrUnknownField):
		writeErrorResponse(w, http.StatusBadRequest, "INVALID_REQUEST", err.Error())
		return
	}

	hlog.FromRequest(r).Error().Err(err).Msg("erro inesperado")
	writeErrorResponse(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Erro interno")
}

func queryInt(r *http.Request, name string) int {
	n, err := strconv.Atoi(r.URL.Query().Get(name))
	if err != nil {
		return 0
	}
	return n
}
