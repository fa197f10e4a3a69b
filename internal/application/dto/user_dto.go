package dto

import "time"

// RegisterRequest alta de cliente. Address es opcional; si viene se crea como dirección predeterminada.
type RegisterRequest struct {
	Name     string `json:"name" validate:"required,min=2,max=120"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8"`
	Phone    string `json:"phone" validate:"required,min=7,max=20"`
	Address  string `json:"address" validate:"omitempty,max=255"`
	City     string `json:"city" validate:"required"`
	Zip      string `json:"zip" validate:"omitempty,max=10"`
}

// LoginRequest entrada para login.
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// AuthResponse salida de login/registro.
type AuthResponse struct {
	Status string       `json:"status"`
	Token  string       `json:"token,omitempty"`
	User   UserResponse `json:"user"`
}

// ResetPasswordRequest cambio de clave por email (sin token de recuperación).
type ResetPasswordRequest struct {
	Email       string `json:"email" validate:"required,email"`
	NewPassword string `json:"newPassword" validate:"required,min=8"`
}

// VerifyEmailRequest consulta de existencia de un email.
type VerifyEmailRequest struct {
	Email string `json:"email" validate:"required,email"`
}

// VerifyEmailResponse resultado de la verificación.
type VerifyEmailResponse struct {
	Exists bool `json:"exists"`
}

// UserResponse salida de un usuario (sin password).
type UserResponse struct {
	ID         string    `json:"id"`
	Name       string    `json:"name"`
	Email      string    `json:"email"`
	Phone      string    `json:"phone"`
	Role       string    `json:"role"`
	Active     bool      `json:"active"`
	Subscribed bool      `json:"subscribed"`
	CreatedAt  time.Time `json:"createdAt"`
}

// UserListResponse listado paginado de usuarios (back-office).
type UserListResponse struct {
	Items []UserResponse `json:"items"`
	Page  PageResponse   `json:"page"`
}

// UpdateProfileRequest campos editables del perfil propio.
type UpdateProfileRequest struct {
	Name       *string `json:"name" validate:"omitempty,min=2,max=120"`
	Phone      *string `json:"phone" validate:"omitempty,min=7,max=20"`
	Subscribed *bool   `json:"subscribed"`
}

// ChangePasswordRequest cambio de clave autenticado.
type ChangePasswordRequest struct {
	CurrentPassword string `json:"currentPassword" validate:"required"`
	NewPassword     string `json:"newPassword" validate:"required,min=8"`
}

// AdminUpdateUserRequest activación y rol. Cambiar el rol requiere SUPER_ADMIN.
type AdminUpdateUserRequest struct {
	Active *bool   `json:"active"`
	Role   *string `json:"role" validate:"omitempty,oneof=CUSTOMER ADMIN SUPER_ADMIN"`
}

// AddressRequest alta o edición de una dirección de despacho.
type AddressRequest struct {
	Label     string `json:"label" validate:"omitempty,max=60"`
	Line      string `json:"line" validate:"required,max=255"`
	City      string `json:"city" validate:"required,max=80"`
	Zip       string `json:"zip" validate:"omitempty,max=10"`
	IsDefault bool   `json:"isDefault"`
}

// AddressResponse salida de una dirección.
type AddressResponse struct {
	ID        string `json:"id"`
	Label     string `json:"label"`
	Line      string `json:"line"`
	City      string `json:"city"`
	Zip       string `json:"zip"`
	IsDefault bool   `json:"isDefault"`
}
