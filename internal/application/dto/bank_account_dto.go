package dto

import "time"

// BankAccountRequest alta de una cuenta de cobro. Los campos obligatorios dependen de Type.
type BankAccountRequest struct {
	Type          string `json:"type" validate:"required,oneof=MOBILE_PAYMENT TRANSFER"`
	BankName      string `json:"bankName" validate:"required,max=100"`
	HolderName    string `json:"holderName" validate:"max=150"`
	HolderID      string `json:"holderId" validate:"max=20"`
	Phone         string `json:"phone" validate:"max=20"`
	AccountNumber string `json:"accountNumber" validate:"max=20"`
	Active        *bool  `json:"active"`
}

// UpdateBankAccountRequest edición parcial.
type UpdateBankAccountRequest struct {
	BankName      *string `json:"bankName" validate:"omitempty,max=100"`
	HolderName    *string `json:"holderName" validate:"omitempty,max=150"`
	HolderID      *string `json:"holderId" validate:"omitempty,max=20"`
	Phone         *string `json:"phone" validate:"omitempty,max=20"`
	AccountNumber *string `json:"accountNumber" validate:"omitempty,max=20"`
	Active        *bool   `json:"active"`
}

// BankAccountResponse salida de una cuenta.
type BankAccountResponse struct {
	ID            string    `json:"id"`
	Type          string    `json:"type"`
	BankName      string    `json:"bankName"`
	HolderName    string    `json:"holderName"`
	HolderID      string    `json:"holderId"`
	Phone         string    `json:"phone,omitempty"`
	AccountNumber string    `json:"accountNumber,omitempty"`
	Active        bool      `json:"active"`
	CreatedAt     time.Time `json:"createdAt"`
}
