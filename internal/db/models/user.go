package models

import (
	"time"

	"github.com/google/uuid"
)

// RoleUser is the default role assigned at signup.
const RoleUser = "user"

// User represents one account document.
//
//nolint:govet // fieldalignment: Accept minor memory overhead for better readability
type User struct {
	ID           uuid.UUID `db:"id" json:"id"`
	Email        string    `db:"email" json:"email"`
	DisplayName  string    `db:"display_name" json:"displayName"`
	Role         string    `db:"role" json:"role"`
	PasswordHash string    `db:"password_hash" json:"-"`
	CreatedAt    time.Time `db:"created_at" json:"createdAt"`
}

// NewUser creates an account with the default role.
func NewUser(email, displayName, passwordHash string) *User {
	return &User{
		ID:           uuid.New(),
		Email:        email,
		DisplayName:  displayName,
		Role:         RoleUser,
		PasswordHash: passwordHash,
		CreatedAt:    time.Now(),
	}
}
