package domain

import "time"

const (
	NotificationTypeLowStock = "low_stock"
	NotificationTypeImport   = "import"
	NotificationTypeSystem   = "system"
)

type Notification struct {
	ID          int       `json:"id" db:"id"`
	UserID      int       `json:"user_id" db:"user_id"`
	BusinessID  *int      `json:"business_id" db:"business_id"`
	Type        string    `json:"type" db:"type"`
	Title       string    `json:"title" db:"title"`
	Message     string    `json:"message" db:"message"`
	ReferenceID *int      `json:"reference_id" db:"reference_id"`
	Read        bool      `json:"read" db:"read"`
	CreatedAt   time.Time `json:"created_at" db:"created_at"`
}
