package usecase

import "errors"

const (
	CodeValidation       = "VALIDATION_ERROR"
	CodePermissionDenied = "PERMISSION_DENIED"
	CodeNotFound         = "NOT_FOUND"
	CodeConflict         = "CONFLICT"
	CodeGateway          = "GATEWAY_ERROR"
)

// DomainError é um erro que o usuário consegue corrigir.
type DomainError struct {
	Code    string
	Message string

	// Fields carries the per-field messages of a failed form validation.
	Fields   map[string]string
	FirstTab string
}

func (e *DomainError) Error() string {
	return e.Message
}

func IsDomainError(err error) bool {
	var de *DomainError
	return errors.As(err, &de)
}

// TechnicalError wraps a failure of some collaborator (banco, fila, webhook).
type TechnicalError struct {
	Code    string
	Message string
	Err     error
}

func (e *TechnicalError) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

func (e *TechnicalError) Unwrap() error {
	return e.Err
}

func IsTechnicalError(err error) bool {
	var te *TechnicalError
	return errors.As(err, &te)
}

func permissionDenied(msg string) error {
	return &DomainError{Code: CodePermissionDenied, Message: msg}
}

func gatewayError(msg string, err error) error {
	return &TechnicalError{Code: CodeGateway, Message: msg, Err: err}
}
