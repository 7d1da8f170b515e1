package domain

import "time"

type Category struct {
	ID          int       `json:"id" db:"id"`
	BusinessID  int       `json:"business_id" db:"business_id"`
	Name        string    `json:"name" db:"name"`
	Description *string   `json:"description" db:"description"`
	CreatedAt   time.Time `json:"created_at" db:"created_at"`
	UpdatedAt   time.Time `json:"updated_at" db:"updated_at"`
}
