package domain

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDomainError(t *testing.T) {
	err := NewDomainError(ErrNotFound, "RES_001", "produto 4")

	assert.Equal(t, "registro não encontrado: produto 4", err.Error())
	assert.Equal(t, "RES_001", err.APICode())
	assert.ErrorIs(t, fmt.Errorf("handler: %w", err), ErrNotFound)

	var domainErr *DomainError
	assert.True(t, errors.As(fmt.Errorf("handler: %w", err), &domainErr))

	assert.Equal(t, "dados inválidos", NewDomainError(ErrInvalidInput, "VAL_001", "").Error())
}

func TestWrapRepositoryError(t *testing.T) {
	tests := []struct {
		name string
		err  error
		base error
		code string
	}{
		{"não encontrado", fmt.Errorf("repo: %w", ErrNotFound), ErrNotFound, "RES_001"},
		{"duplicado", ErrConflict, ErrConflict, "RES_002"},
		{"estoque", ErrInsufficientStock, ErrInsufficientStock, "RES_005"},
		{"driver", errors.New("connection reset"), ErrDatabaseOperation, "SRV_002"},
		{"já classificado", Forbidden("negócio 2"), ErrForbidden, "RES_004"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := WrapRepositoryError(tt.err, "detalhe")

			var domainErr *DomainError
			assert.True(t, errors.As(err, &domainErr))
			assert.ErrorIs(t, err, tt.base)
			assert.Equal(t, tt.code, domainErr.Code)
		})
	}

	assert.NoError(t, WrapRepositoryError(nil, ""))
}

func TestRowValidation(t *testing.T) {
	negative := -1.0
	zero := 0
	email := "sem-arroba"
	sku := "ABC"

	assert.NoError(t, (&ProductRow{Name: "Café", Price: 10}).Validate())
	assert.ErrorIs(t, (&ProductRow{Name: " ", Price: 10}).Validate(), ErrInvalidRow)
	assert.ErrorIs(t, (&ProductRow{Name: "Café", Price: -1}).Validate(), ErrInvalidRow)
	assert.ErrorIs(t, (&ProductRow{Name: "Café", Cost: &negative}).Validate(), ErrInvalidRow)

	assert.NoError(t, (&CustomerRow{Name: "Ana"}).Validate())
	assert.ErrorIs(t, (&CustomerRow{Name: "Ana", Email: &email}).Validate(), ErrInvalidRow)

	assert.NoError(t, (&SaleRow{ProductSKU: &sku, Quantity: 1}).Validate())
	assert.ErrorIs(t, (&SaleRow{Quantity: 1}).Validate(), ErrInvalidRow)
	assert.ErrorIs(t, (&SaleRow{ProductSKU: &sku, Quantity: zero}).Validate(), ErrInvalidRow)
}

func TestImportResultFail(t *testing.T) {
	var result ImportResult
	result.Fail(2, errors.New("boom"))

	assert.Equal(t, []RowError{{Row: 2, Message: "boom"}}, result.Failed)
}

func TestProductIsLowStock(t *testing.T) {
	assert.True(t, (&Product{Stock: 5, LowStockThreshold: 5}).IsLowStock())
	assert.False(t, (&Product{Stock: 6, LowStockThreshold: 5}).IsLowStock())
}
