package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jhoicas/ferreteria-api/internal/application/dto"
	"github.com/jhoicas/ferreteria-api/internal/application/ports"
	"github.com/jhoicas/ferreteria-api/internal/domain"
)

// AIUseCase redacción asistida de fichas de producto.
// Aplica un timeout de 10 segundos en cada llamada al proveedor.
type AIUseCase struct {
	writer ports.CopyWriter
}

// NewAIUseCase construye el caso de uso inyectando el puerto CopyWriter.
func NewAIUseCase(writer ports.CopyWriter) *AIUseCase {
	return &AIUseCase{writer: writer}
}

// SuggestDescription valida la entrada y delega al proveedor configurado.
func (uc *AIUseCase) SuggestDescription(ctx context.Context, req dto.ProductDescriptionRequest) (*dto.ProductDescriptionResponse, error) {
	if strings.TrimSpace(req.Name) == "" {
		return nil, domain.NewValidationError("name", "es obligatorio")
	}

	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	text, err := uc.writer.SuggestProductDescription(ctx, req.Name, req.Category, req.Keywords)
	if err != nil {
		return nil, fmt.Errorf("descripción IA: %w", err)
	}
	return &dto.ProductDescriptionResponse{Description: strings.TrimSpace(text), Provider: uc.writer.Provider()}, nil
}
