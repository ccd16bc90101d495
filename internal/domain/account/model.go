package account

import (
	"time"

	"github.com/google/uuid"
)

// Account maps to the account table. One account per practitioner.
type Account struct {
	ID           uuid.UUID `db:"id" json:"id"`
	Email        string    `db:"email" json:"email"`
	PasswordHash string    `db:"password_hash" json:"-"`
	FirstName    string    `db:"first_name" json:"first_name"`
	LastName     string    `db:"last_name" json:"last_name"`
	IsStaff      bool      `db:"is_staff" json:"is_staff"`
	CreatedAt    time.Time `db:"created_at" json:"created_at"`
	UpdatedAt    time.Time `db:"updated_at" json:"updated_at"`
}

// Roles returns the RBAC roles granted to this account.
func (a *Account) Roles() []string {
	roles := []string{"nurse"}
	if a.IsStaff {
		roles = append(roles, "admin")
	}
	return roles
}
