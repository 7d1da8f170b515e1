package domain

import (
	"errors"
	"fmt"

	"github.com/vfg2006/business-manager-api/pkg/apiErrors"
)

// Erros base compartilhados pelos casos de uso
var (
	ErrNotFound          = errors.New("registro não encontrado")
	ErrInvalidInput      = errors.New("dados inválidos")
	ErrConflict          = errors.New("registro duplicado")
	ErrForbidden         = errors.New("acesso negado")
	ErrInsufficientStock = errors.New("estoque insuficiente")
	ErrDatabaseOperation = errors.New("erro ao realizar operação no banco de dados")
)

// DomainError é um erro com contexto adicional para os casos de uso
type DomainError struct {
	Err     error  // Erro base
	Code    string // Código de erro para API
	Details string // Detalhes adicionais
}

func (e *DomainError) Error() string {
	if e.Details != "" {
		return fmt.Sprintf("%s: %s", e.Err.Error(), e.Details)
	}
	return e.Err.Error()
}

func (e *DomainError) Unwrap() error {
	return e.Err
}

func (e *DomainError) APICode() string {
	return e.Code
}

func NewDomainError(err error, code string, details string) *DomainError {
	return &DomainError{
		Err:     err,
		Code:    code,
		Details: details,
	}
}

func NotFound(details string) *DomainError {
	return NewDomainError(ErrNotFound, apiErrors.ErrResourceNotFound, details)
}

func InvalidInput(details string) *DomainError {
	return NewDomainError(ErrInvalidInput, apiErrors.ErrInvalidRequest, details)
}

func Conflict(details string) *DomainError {
	return NewDomainError(ErrConflict, apiErrors.ErrConflict, details)
}

func Forbidden(details string) *DomainError {
	return NewDomainError(ErrForbidden, apiErrors.ErrBusinessAccess, details)
}

// WrapRepositoryError traduz os erros dos repositórios para DomainError.
// Erros que já são DomainError passam intactos.
func WrapRepositoryError(err error, details string) error {
	if err == nil {
		return nil
	}

	var domainErr *DomainError
	if errors.As(err, &domainErr) {
		return err
	}

	switch {
	case errors.Is(err, ErrNotFound):
		return NotFound(details)
	case errors.Is(err, ErrConflict):
		return Conflict(details)
	case errors.Is(err, ErrInsufficientStock):
		return NewDomainError(ErrInsufficientStock, apiErrors.ErrInsufficientStock, details)
	default:
		return &DomainError{
			Err:     fmt.Errorf("%w: %v", ErrDatabaseOperation, err),
			Code:    apiErrors.ErrDatabaseOperation,
			Details: details,
		}
	}
}
