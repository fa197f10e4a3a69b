package promotion_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/ferreteria-api/internal/application/dto"
	"github.com/jhoicas/ferreteria-api/internal/application/promotion"
	"github.com/jhoicas/ferreteria-api/internal/domain"
	"github.com/jhoicas/ferreteria-api/internal/domain/entity"
	"github.com/jhoicas/ferreteria-api/internal/infrastructure/memory"
	"github.com/jhoicas/ferreteria-api/pkg/logger"
)

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func newUseCase() (*promotion.UseCase, *memory.Repositories) {
	repos := memory.New()
	return promotion.NewUseCase(repos.Promotions, promotion.NewResolver(repos.Promotions, logger.Nop())), repos
}

func TestValidate_Ahorra10(t *testing.T) {
	ctx := context.Background()
	uc, _ := newUseCase()
	_, err := uc.Create(ctx, dto.PromotionRequest{Code: "ahorra10", DiscountType: "PERCENTAGE", DiscountValue: dec("10")})
	require.NoError(t, err)

	out := uc.Validate(ctx, "Ahorra10", dec("100.00"))
	assert.True(t, out.Valid)
	assert.Equal(t, "AHORRA10", out.Code)
	assert.True(t, dec("10.00").Equal(out.Discount))
}

func TestValidate_CodigoInexistenteNoEsError(t *testing.T) {
	uc, _ := newUseCase()
	out := uc.Validate(context.Background(), "NOEXISTE", dec("50"))
	assert.False(t, out.Valid)
	assert.True(t, out.Discount.IsZero())
}

func TestValidate_FijoAcotadoAlSubtotal(t *testing.T) {
	ctx := context.Background()
	uc, _ := newUseCase()
	_, err := uc.Create(ctx, dto.PromotionRequest{Code: "MENOS50", DiscountType: "FIXED", DiscountValue: dec("50")})
	require.NoError(t, err)

	out := uc.Validate(ctx, "MENOS50", dec("20"))
	assert.True(t, dec("20").Equal(out.Discount))
}

func TestValidate_CuponVencido(t *testing.T) {
	ctx := context.Background()
	uc, _ := newUseCase()
	past := time.Now().Add(-48 * time.Hour)
	_, err := uc.Create(ctx, dto.PromotionRequest{Code: "VIEJO", DiscountType: "PERCENTAGE", DiscountValue: dec("5"), EndDate: &past})
	require.NoError(t, err)

	assert.False(t, uc.Validate(ctx, "VIEJO", dec("100")).Valid)
}

func TestValidate_EnvioGratis(t *testing.T) {
	ctx := context.Background()
	uc, _ := newUseCase()
	_, err := uc.Create(ctx, dto.PromotionRequest{Code: "ENVIOGRATIS", DiscountType: "FREE_SHIPPING"})
	require.NoError(t, err)

	out := uc.Validate(ctx, "enviogratis", dec("30"))
	assert.True(t, out.Valid)
	assert.True(t, out.FreeShipping)
	assert.True(t, out.Discount.IsZero())
}

func TestCreate_ValidacionesYDuplicado(t *testing.T) {
	ctx := context.Background()
	uc, _ := newUseCase()

	_, err := uc.Create(ctx, dto.PromotionRequest{Code: "MAL", DiscountType: "PERCENTAGE", DiscountValue: dec("150")})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = uc.Create(ctx, dto.PromotionRequest{Code: "DOBLE", DiscountType: "FIXED", DiscountValue: dec("5")})
	require.NoError(t, err)
	_, err = uc.Create(ctx, dto.PromotionRequest{Code: "doble", DiscountType: "FIXED", DiscountValue: dec("5")})
	assert.ErrorIs(t, err, domain.ErrDuplicate)
}

type failingRepo struct {
	*memory.PromotionRepository
}

func (failingRepo) GetByCode(context.Context, string) (*entity.Promotion, error) {
	return nil, errors.New("conexión perdida")
}

func TestResolve_FallaDeLecturaDegradaASinDescuento(t *testing.T) {
	r := promotion.NewResolver(failingRepo{memory.New().Promotions}, logger.Nop())
	res, ok := r.Resolve(context.Background(), "AHORRA10", dec("100"))
	assert.False(t, ok)
	assert.Nil(t, res)
}
