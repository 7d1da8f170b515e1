package domain

import "time"

// Sale liga um produto, uma quantidade e um preço dentro de um negócio.
// ProductName e CategoryID vêm do join com products e não são persistidos em sales.
type Sale struct {
	ID          int       `json:"id" db:"id"`
	BusinessID  int       `json:"business_id" db:"business_id"`
	UserID      int       `json:"user_id" db:"user_id"`
	ProductID   int       `json:"product_id" db:"product_id"`
	CustomerID  *int      `json:"customer_id" db:"customer_id"`
	Quantity    int       `json:"quantity" db:"quantity"`
	UnitPrice   float64   `json:"unit_price" db:"unit_price"`
	TotalAmount float64   `json:"total_amount" db:"total_amount"`
	SaleDate    time.Time `json:"sale_date" db:"sale_date"`
	Notes       *string   `json:"notes" db:"notes"`
	CreatedAt   time.Time `json:"created_at" db:"created_at"`

	ProductName *string `json:"product_name,omitempty" db:"product_name"`
	CategoryID  *int    `json:"category_id,omitempty" db:"category_id"`
}

type CreateSaleRequest struct {
	BusinessID int        `json:"-"`
	UserID     int        `json:"-"`
	ProductID  int        `json:"product_id"`
	CustomerID *int       `json:"customer_id"`
	Quantity   int        `json:"quantity"`
	UnitPrice  *float64   `json:"unit_price"`
	SaleDate   *time.Time `json:"sale_date"`
	Notes      *string    `json:"notes"`
}

type UpdateSaleRequest struct {
	ID         int        `json:"-"`
	BusinessID int        `json:"-"`
	CustomerID *int       `json:"customer_id"`
	Quantity   *int       `json:"quantity"`
	UnitPrice  *float64   `json:"unit_price"`
	SaleDate   *time.Time `json:"sale_date"`
	Notes      *string    `json:"notes"`
}

type SaleFilters struct {
	BusinessID int
	StartDate  *time.Time
	EndDate    *time.Time
	ProductID  *int
	CustomerID *int
}
