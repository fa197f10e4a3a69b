package entity

import (
	"strings"
	"time"
)

// Roles válidos para User.
const (
	RoleCustomer   = "CUSTOMER"
	RoleAdmin      = "ADMIN"
	RoleSuperAdmin = "SUPER_ADMIN"
)

// User representa un cliente o administrador de la tienda.
// El carrito vive serializado en la columna users.cart (ver CartItem).
type User struct {
	ID           string
	Name         string
	Email        string // único, siempre en minúsculas
	PasswordHash string // bcrypt hash, nunca plano en dominio después de persistir
	Phone        string
	Role         string
	Active       bool
	Subscribed   bool
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// IsAdmin indica si el usuario tiene acceso al back-office.
func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin || u.Role == RoleSuperAdmin
}

// ValidRole indica si el rol pertenece a la enumeración.
func ValidRole(role string) bool {
	switch role {
	case RoleCustomer, RoleAdmin, RoleSuperAdmin:
		return true
	}
	return false
}

// NormalizeEmail aplica la convención de almacenamiento de emails.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
