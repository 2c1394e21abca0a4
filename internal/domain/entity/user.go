package entity

import "time"

// User roles.
const (
	RoleAdmin   = "admin"
	RoleCashier = "cashier"
)

// User is a shop operator allowed to issue invoices.
type User struct {
	ID           string
	Email        string
	PasswordHash string // bcrypt hash
	Name         string
	Role         string // admin, cashier
	Status       string // active, inactive
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
