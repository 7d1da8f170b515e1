package business

import (
	"errors"

	"github.com/vfg2006/business-manager-api/internal/domain"
	"github.com/vfg2006/business-manager-api/pkg/apiErrors"
)

var ErrNoBusiness = errors.New("nenhum negócio selecionado")

func noBusinessError() *domain.DomainError {
	return domain.NewDomainError(ErrNoBusiness, apiErrors.ErrNoBusiness, "Cadastre um negócio para continuar")
}
