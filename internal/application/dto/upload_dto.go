package dto

// UploadResponse resultado de una subida de imagen.
type UploadResponse struct {
	URL       string `json:"url"`
	Key       string `json:"key"`
	ProductID string `json:"productId,omitempty"`
}

// ProductDescriptionRequest entrada de POST /ai/product-description.
type ProductDescriptionRequest struct {
	Name     string   `json:"name" validate:"required,max=200"`
	Category string   `json:"category" validate:"max=100"`
	Keywords []string `json:"keywords" validate:"max=10,dive,max=40"`
}

// ProductDescriptionResponse texto sugerido para la ficha del producto.
type ProductDescriptionResponse struct {
	Description string `json:"description"`
	Provider    string `json:"provider"`
}
