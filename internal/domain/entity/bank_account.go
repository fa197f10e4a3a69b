package entity

import "time"

// Tipos de cuenta para cobros.
const (
	BankAccountMobilePayment = "MOBILE_PAYMENT" // pago móvil
	BankAccountTransfer      = "TRANSFER"
)

// BankAccount cuenta donde los clientes pagan sus órdenes. Solo la administra el back-office.
type BankAccount struct {
	ID            string
	Type          string
	BankName      string
	HolderName    string
	HolderID      string // cédula o RIF
	Phone         string // obligatorio en pago móvil
	AccountNumber string // 20 dígitos, obligatorio en transferencia
	Active        bool
	CreatedAt     time.Time
	UpdatedAt     time.Time
}
