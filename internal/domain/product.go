package domain

import "time"

const DefaultLowStockThreshold = 5

type Product struct {
	ID                int       `json:"id" db:"id"`
	BusinessID        int       `json:"business_id" db:"business_id"`
	CategoryID        *int      `json:"category_id" db:"category_id"`
	Name              string    `json:"name" db:"name"`
	SKU               string    `json:"sku" db:"sku"`
	Description       *string   `json:"description" db:"description"`
	Price             float64   `json:"price" db:"price"`
	Cost              float64   `json:"cost" db:"cost"`
	Stock             int       `json:"stock" db:"stock"`
	LowStockThreshold int       `json:"low_stock_threshold" db:"low_stock_threshold"`
	CreatedAt         time.Time `json:"created_at" db:"created_at"`
	UpdatedAt         time.Time `json:"updated_at" db:"updated_at"`
}

func (p *Product) IsLowStock() bool {
	return p.Stock <= p.LowStockThreshold
}

type UpdateProductRequest struct {
	ID                int      `json:"-"`
	BusinessID        int      `json:"-"`
	CategoryID        *int     `json:"category_id"`
	Name              *string  `json:"name"`
	SKU               *string  `json:"sku"`
	Description       *string  `json:"description"`
	Price             *float64 `json:"price"`
	Cost              *float64 `json:"cost"`
	Stock             *int     `json:"stock"`
	LowStockThreshold *int     `json:"low_stock_threshold"`
}

type ProductFilters struct {
	BusinessID int
	CategoryID *int
	Search     string
	LowStock   bool
}
