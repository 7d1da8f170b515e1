// Package repository contém as implementações dos repositórios para acesso aos dados
package repository

import (
	"github.com/Masterminds/squirrel"
	"github.com/vfg2006/business-manager-api/internal/domain"
)

//go:generate mockgen -source=user.go -destination=mocks/user.go -package=mocks
//go:generate mockgen -source=session.go -destination=mocks/session.go -package=mocks
//go:generate mockgen -source=business.go -destination=mocks/business.go -package=mocks
//go:generate mockgen -source=category.go -destination=mocks/category.go -package=mocks
//go:generate mockgen -source=product.go -destination=mocks/product.go -package=mocks
//go:generate mockgen -source=customer.go -destination=mocks/customer.go -package=mocks
//go:generate mockgen -source=sale.go -destination=mocks/sale.go -package=mocks
//go:generate mockgen -source=feedback.go -destination=mocks/feedback.go -package=mocks
//go:generate mockgen -source=notification.go -destination=mocks/notification.go -package=mocks
//go:generate mockgen -source=stats.go -destination=mocks/stats.go -package=mocks

// Os erros dos repositórios são os mesmos do domínio, assim os casos de uso usam errors.Is direto
var (
	ErrConflict          = domain.ErrConflict
	ErrInsufficientStock = domain.ErrInsufficientStock
	ErrNotFound          = domain.ErrNotFound
)

var psql = squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
