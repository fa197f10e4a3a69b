package usecase

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/ferreteria-api/internal/application/dto"
	"github.com/jhoicas/ferreteria-api/internal/application/ports"
	"github.com/jhoicas/ferreteria-api/internal/domain"
	"github.com/jhoicas/ferreteria-api/internal/domain/entity"
	"github.com/jhoicas/ferreteria-api/internal/domain/repository"
)

// Prefijos de las claves en el bucket.
const (
	UploadKindGeneric = "images"
	UploadKindProduct = "products"
)

var allowedImages = map[string]string{
	"image/jpeg": ".jpg",
	"image/png":  ".png",
	"image/webp": ".webp",
}

// UploadUseCase guarda imágenes en el ObjectStore y opcionalmente las asocia a un producto.
type UploadUseCase struct {
	store    ports.ObjectStore
	products repository.ProductRepository
	maxBytes int64
}

// NewUploadUseCase construye el caso de uso. maxMB limita el tamaño de cada archivo.
func NewUploadUseCase(store ports.ObjectStore, products repository.ProductRepository, maxMB int) *UploadUseCase {
	return &UploadUseCase{store: store, products: products, maxBytes: int64(maxMB) << 20}
}

// MaxBytes tamaño máximo aceptado.
func (uc *UploadUseCase) MaxBytes() int64 { return uc.maxBytes }

// Upload valida tipo (por contenido, no por extensión) y tamaño, y guarda el archivo.
// Con productID no vacío la URL queda como imagen del producto.
func (uc *UploadUseCase) Upload(ctx context.Context, kind string, data []byte, productID string) (*dto.UploadResponse, error) {
	if len(data) == 0 {
		return nil, domain.NewValidationError("file", "archivo vacío")
	}
	if int64(len(data)) > uc.maxBytes {
		return nil, domain.NewValidationError("file", fmt.Sprintf("supera el máximo de %d MB", uc.maxBytes>>20))
	}
	contentType := http.DetectContentType(data)
	ext, ok := allowedImages[contentType]
	if !ok {
		return nil, domain.NewValidationError("file", "solo se aceptan imágenes jpeg, png o webp")
	}
	var product *entity.Product
	if productID != "" {
		var err error
		if product, err = uc.products.GetByID(ctx, productID); err != nil {
			return nil, err
		}
		if product == nil {
			return nil, domain.ErrNotFound
		}
	}
	key := fmt.Sprintf("%s/%s/%s%s", kind, time.Now().Format("2006/01"), uuid.New().String(), ext)
	url, err := uc.store.Put(ctx, key, contentType, data)
	if err != nil {
		return nil, fmt.Errorf("guardar imagen: %w", err)
	}
	if product != nil {
		product.ImageURL = url
		product.UpdatedAt = time.Now()
		if err := uc.products.Update(ctx, product); err != nil {
			return nil, err
		}
	}
	return &dto.UploadResponse{URL: url, Key: key, ProductID: productID}, nil
}
