package domain

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Perfis de usuário
const (
	RoleAdmin = 1
	RoleUser  = 2
)

type User struct {
	ID           int       `json:"id" db:"id"`
	Name         string    `json:"name" db:"name"`
	Email        string    `json:"email" db:"email"`
	PasswordHash string    `json:"password,omitempty" db:"password_hash"`
	RoleID       int       `json:"role_id" db:"role_id"`
	Active       bool      `json:"active" db:"active"`
	CreatedAt    time.Time `json:"created_at" db:"created_at"`
	UpdatedAt    time.Time `json:"updated_at" db:"updated_at"`
}

func (u *User) IsAdmin() bool {
	return u != nil && u.RoleID == RoleAdmin
}

type RegisterRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type UpdateUserRequest struct {
	ID    int     `json:"id"`
	Name  *string `json:"name"`
	Email *string `json:"email"`
}

// Claims é o conteúdo do token que vai no cookie de sessão
type Claims struct {
	SessionID  string `json:"sid"`
	UserID     int    `json:"uid"`
	UserEmail  string `json:"email"`
	UserRoleID int    `json:"role"`
	jwt.RegisteredClaims
}
