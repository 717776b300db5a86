package domain

import (
	"strings"
	"time"
)

// Role is the access tier of a user.
type Role string

const (
	RoleAdmin    Role = "ADMIN"
	RoleCustomer Role = "CUSTOMER"
)

// ParseRole normalises a role name. An empty value yields RoleCustomer.
func ParseRole(s string) (Role, error) {
	switch Role(strings.ToUpper(strings.TrimSpace(s))) {
	case "", RoleCustomer:
		return RoleCustomer, nil
	case RoleAdmin:
		return RoleAdmin, nil
	}
	return "", ErrValidation
}

// Authority renders the role the way login responses report it.
func (r Role) Authority() string {
	return "ROLE_" + string(r)
}

// User models a registered account. Users are created by registration only.
type User struct {
	ID           int64     `json:"id"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	FirstName    string    `json:"firstName"`
	LastName     string    `json:"lastName"`
	Role         Role      `json:"role"`
	CreatedAt    time.Time `json:"createdAt"`
}

// Identity is the authenticated caller, established per request.
type Identity struct {
	Email string
	Role  Role
}

// IsAdmin reports whether the identity may mutate the catalog.
func (i *Identity) IsAdmin() bool {
	return i != nil && i.Role == RoleAdmin
}
