package domain

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

var ErrInvalidRow = errors.New("linha inválida")

// RowError descreve uma linha do CSV que não pôde ser importada.
// Row é 1-based e não conta o cabeçalho.
type RowError struct {
	Row     int    `json:"row"`
	Message string `json:"message"`
}

type ImportResult struct {
	Imported int        `json:"imported"`
	Failed   []RowError `json:"failed"`
}

func (r *ImportResult) Fail(row int, err error) {
	r.Failed = append(r.Failed, RowError{Row: row, Message: err.Error()})
}

// ProductRow é o esquema validado de uma linha de importação de produtos
type ProductRow struct {
	Name              string   `mapstructure:"name"`
	SKU               *string  `mapstructure:"sku"`
	Description       *string  `mapstructure:"description"`
	Price             float64  `mapstructure:"price"`
	Cost              *float64 `mapstructure:"cost"`
	Stock             *int     `mapstructure:"stock"`
	LowStockThreshold *int     `mapstructure:"low_stock_threshold"`
	Category          *string  `mapstructure:"category"`
}

func (r *ProductRow) Validate() error {
	if strings.TrimSpace(r.Name) == "" {
		return fmt.Errorf("%w: name é obrigatório", ErrInvalidRow)
	}
	if r.Price < 0 {
		return fmt.Errorf("%w: price não pode ser negativo", ErrInvalidRow)
	}
	if r.Cost != nil && *r.Cost < 0 {
		return fmt.Errorf("%w: cost não pode ser negativo", ErrInvalidRow)
	}
	if r.Stock != nil && *r.Stock < 0 {
		return fmt.Errorf("%w: stock não pode ser negativo", ErrInvalidRow)
	}
	return nil
}

type CustomerRow struct {
	Name    string  `mapstructure:"name"`
	Email   *string `mapstructure:"email"`
	Phone   *string `mapstructure:"phone"`
	Address *string `mapstructure:"address"`
	Notes   *string `mapstructure:"notes"`
}

func (r *CustomerRow) Validate() error {
	if strings.TrimSpace(r.Name) == "" {
		return fmt.Errorf("%w: name é obrigatório", ErrInvalidRow)
	}
	if r.Email != nil && !strings.Contains(*r.Email, "@") {
		return fmt.Errorf("%w: email inválido", ErrInvalidRow)
	}
	return nil
}

// SaleRow identifica o produto pelo SKU ou, na falta dele, pelo nome
type SaleRow struct {
	ProductSKU    *string    `mapstructure:"product_sku"`
	ProductName   *string    `mapstructure:"product"`
	Quantity      int        `mapstructure:"quantity"`
	UnitPrice     *float64   `mapstructure:"unit_price"`
	CustomerEmail *string    `mapstructure:"customer_email"`
	SaleDate      *time.Time `mapstructure:"sale_date"`
	Notes         *string    `mapstructure:"notes"`
}

func (r *SaleRow) Validate() error {
	if r.ProductSKU == nil && r.ProductName == nil {
		return fmt.Errorf("%w: product_sku ou product é obrigatório", ErrInvalidRow)
	}
	if r.Quantity <= 0 {
		return fmt.Errorf("%w: quantity deve ser maior que zero", ErrInvalidRow)
	}
	if r.UnitPrice != nil && *r.UnitPrice < 0 {
		return fmt.Errorf("%w: unit_price não pode ser negativo", ErrInvalidRow)
	}
	return nil
}
