package entity

import "time"

// Category agrupa productos del catálogo (herramientas, electricidad, plomería...).
type Category struct {
	ID        string
	Name      string
	Slug      string // único
	CreatedAt time.Time
}
