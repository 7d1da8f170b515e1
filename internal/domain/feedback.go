package domain

import "time"

type Feedback struct {
	ID         int       `json:"id" db:"id"`
	UserID     int       `json:"user_id" db:"user_id"`
	BusinessID *int      `json:"business_id" db:"business_id"`
	Rating     int       `json:"rating" db:"rating"`
	Message    string    `json:"message" db:"message"`
	CreatedAt  time.Time `json:"created_at" db:"created_at"`
}
