package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// CreateProductRequest entrada para crear un producto.
type CreateProductRequest struct {
	CategoryID      string          `json:"categoryId" validate:"required,uuid"`
	SKU             string          `json:"sku" validate:"required,max=50"`
	Name            string          `json:"name" validate:"required,max=200"`
	Description     string          `json:"description"`
	Price           decimal.Decimal `json:"price"`
	DiscountPercent decimal.Decimal `json:"discountPercent"`
	Stock           int             `json:"stock" validate:"min=0"`
	ImageURL        string          `json:"imageUrl" validate:"omitempty,max=500"`
}

// UpdateProductRequest campos opcionales para actualizar.
type UpdateProductRequest struct {
	CategoryID      *string          `json:"categoryId" validate:"omitempty,uuid"`
	Name            *string          `json:"name" validate:"omitempty,max=200"`
	Description     *string          `json:"description"`
	Price           *decimal.Decimal `json:"price"`
	DiscountPercent *decimal.Decimal `json:"discountPercent"`
	Stock           *int             `json:"stock" validate:"omitempty,min=0"`
	ImageURL        *string          `json:"imageUrl" validate:"omitempty,max=500"`
	Active          *bool            `json:"active"`
}

// ProductFilterRequest parámetros de GET /products.
type ProductFilterRequest struct {
	PageRequest
	Category string `query:"category" validate:"omitempty,uuid"`
	Q        string `query:"q"`
}

// ProductResponse salida de un producto. FinalPrice ya descuenta DiscountPercent.
type ProductResponse struct {
	ID              string          `json:"id"`
	CategoryID      string          `json:"categoryId"`
	SKU             string          `json:"sku"`
	Name            string          `json:"name"`
	Description     string          `json:"description"`
	Price           decimal.Decimal `json:"price"`
	DiscountPercent decimal.Decimal `json:"discountPercent"`
	FinalPrice      decimal.Decimal `json:"finalPrice"`
	Stock           int             `json:"stock"`
	ImageURL        string          `json:"imageUrl"`
	Active          bool            `json:"active"`
	UpdatedAt       time.Time       `json:"updatedAt"`
}

// ProductListResponse listado paginado.
type ProductListResponse struct {
	Items []ProductResponse `json:"items"`
	Page  PageResponse      `json:"page"`
}

// CategoryRequest alta de categoría. Slug se deriva del nombre si viene vacío.
type CategoryRequest struct {
	Name string `json:"name" validate:"required,max=100"`
	Slug string `json:"slug" validate:"omitempty,max=100"`
}

// CategoryResponse salida de una categoría.
type CategoryResponse struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	Slug string `json:"slug"`
}
