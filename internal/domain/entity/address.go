package entity

import "time"

// Address dirección de despacho; pertenece a exactamente un usuario.
// A lo sumo una dirección por usuario tiene IsDefault=true.
type Address struct {
	ID        string
	UserID    string
	Label     string // "Casa", "Trabajo"
	Line      string
	City      string
	Zip       string
	IsDefault bool
	CreatedAt time.Time
	UpdatedAt time.Time
}
