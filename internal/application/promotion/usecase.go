package promotion

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/ferreteria-api/internal/application/dto"
	"github.com/jhoicas/ferreteria-api/internal/domain"
	"github.com/jhoicas/ferreteria-api/internal/domain/entity"
	"github.com/jhoicas/ferreteria-api/internal/domain/pricing"
	"github.com/jhoicas/ferreteria-api/internal/domain/repository"
)

var hundred = decimal.NewFromInt(100)

// UseCase CRUD de cupones y validación pública de códigos.
type UseCase struct {
	repo     repository.PromotionRepository
	resolver *Resolver
}

// NewUseCase construye el caso de uso.
func NewUseCase(repo repository.PromotionRepository, resolver *Resolver) *UseCase {
	return &UseCase{repo: repo, resolver: resolver}
}

// Validate GET /promotions/validate. Un código que no aplica responde valid=false, no error.
func (uc *UseCase) Validate(ctx context.Context, code string, subtotal decimal.Decimal) *dto.ValidatePromotionResponse {
	res, ok := uc.resolver.Resolve(ctx, code, subtotal)
	if !ok {
		return &dto.ValidatePromotionResponse{Valid: false, Discount: decimal.Zero}
	}
	return &dto.ValidatePromotionResponse{
		Valid:        true,
		Code:         res.Promotion.Code,
		Type:         res.Promotion.DiscountType,
		Discount:     res.Discount,
		FreeShipping: res.FreeShipping,
	}
}

func validatePromotion(in dto.PromotionRequest) error {
	if !entity.ValidDiscountType(in.DiscountType) {
		return domain.NewValidationError("discountType", "debe ser PERCENTAGE, FIXED o FREE_SHIPPING")
	}
	switch in.DiscountType {
	case entity.DiscountPercentage:
		if in.DiscountValue.LessThanOrEqual(decimal.Zero) || in.DiscountValue.GreaterThan(hundred) {
			return domain.NewValidationError("discountValue", "debe estar entre 0 y 100")
		}
	case entity.DiscountFixed:
		if in.DiscountValue.LessThanOrEqual(decimal.Zero) {
			return domain.NewValidationError("discountValue", "debe ser mayor a 0")
		}
	}
	if in.StartDate != nil && in.EndDate != nil && in.EndDate.Before(*in.StartDate) {
		return domain.NewValidationError("endDate", "debe ser posterior a startDate")
	}
	return nil
}

func apply(p *entity.Promotion, in dto.PromotionRequest) {
	p.Code = pricing.NormalizeCode(in.Code)
	p.Description = in.Description
	p.DiscountType = in.DiscountType
	p.DiscountValue = in.DiscountValue
	if in.DiscountType == entity.DiscountFreeShipping {
		p.DiscountValue = decimal.Zero
	}
	p.StartDate = in.StartDate
	p.EndDate = in.EndDate
	p.MaxUsage = in.MaxUsage
	if in.Active != nil {
		p.Active = *in.Active
	}
}

// Create alta de cupón; el código se guarda en mayúsculas y es único.
func (uc *UseCase) Create(ctx context.Context, in dto.PromotionRequest) (*dto.PromotionResponse, error) {
	if err := validatePromotion(in); err != nil {
		return nil, err
	}
	existing, err := uc.repo.GetByCode(ctx, pricing.NormalizeCode(in.Code))
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, domain.ErrDuplicate
	}
	now := time.Now()
	p := &entity.Promotion{ID: uuid.New().String(), Active: true, CreatedAt: now, UpdatedAt: now}
	apply(p, in)
	if err := uc.repo.Create(ctx, p); err != nil {
		return nil, err
	}
	return toResponse(p), nil
}

// Update reemplaza los datos del cupón; conserva UsageCount.
func (uc *UseCase) Update(ctx context.Context, id string, in dto.PromotionRequest) (*dto.PromotionResponse, error) {
	if err := validatePromotion(in); err != nil {
		return nil, err
	}
	p, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, domain.ErrNotFound
	}
	apply(p, in)
	p.UpdatedAt = time.Now()
	if err := uc.repo.Update(ctx, p); err != nil {
		return nil, err
	}
	return toResponse(p), nil
}

// Delete elimina el cupón. Las órdenes conservan el código como texto.
func (uc *UseCase) Delete(ctx context.Context, id string) error {
	return uc.repo.Delete(ctx, id)
}

// List todos los cupones.
func (uc *UseCase) List(ctx context.Context) ([]dto.PromotionResponse, error) {
	list, err := uc.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]dto.PromotionResponse, 0, len(list))
	for _, p := range list {
		out = append(out, *toResponse(p))
	}
	return out, nil
}

func toResponse(p *entity.Promotion) *dto.PromotionResponse {
	return &dto.PromotionResponse{
		ID:            p.ID,
		Code:          p.Code,
		Description:   p.Description,
		DiscountType:  p.DiscountType,
		DiscountValue: p.DiscountValue,
		StartDate:     p.StartDate,
		EndDate:       p.EndDate,
		MaxUsage:      p.MaxUsage,
		UsageCount:    p.UsageCount,
		Active:        p.Active,
	}
}
