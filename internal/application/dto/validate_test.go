package dto_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/ferreteria-api/internal/application/dto"
	"github.com/jhoicas/ferreteria-api/internal/domain"
)

func TestValidate_EmailMalFormado(t *testing.T) {
	err := dto.Validate(&dto.LoginRequest{Email: "no-es-email", Password: "x"})
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	var verr *domain.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Contains(t, verr.Fields, "email")
}

func TestValidate_CantidadCeroEnCarrito(t *testing.T) {
	err := dto.Validate(&dto.ReplaceCartRequest{Cart: []dto.CartItemDTO{{ProductID: "p1", Quantity: 0}}})
	var verr *domain.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Contains(t, verr.Fields, "cart[0].quantity")
}

func TestValidate_OrdenSinItems(t *testing.T) {
	err := dto.Validate(&dto.CreateOrderRequest{ShippingAddressID: "a1", PaymentMethod: "CASH"})
	var verr *domain.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Contains(t, verr.Fields, "items")
}

func TestValidate_IdentificadoresDebenSerUUID(t *testing.T) {
	err := dto.Validate(&dto.CreateOrderRequest{
		Items:             []dto.OrderItemRequest{{ProductID: "42", Quantity: 1}},
		ShippingAddressID: "casa",
		PaymentMethod:     "CASH",
	})
	var verr *domain.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "identificador inválido", verr.Fields["items[0].productId"])
	assert.Equal(t, "identificador inválido", verr.Fields["shippingAddressId"])

	assert.NoError(t, dto.Validate(&dto.CreateOrderRequest{
		Items:             []dto.OrderItemRequest{{ProductID: "0b9a4c3e-3f1d-4d7e-9a51-6f0c2d8e7b11", Quantity: 1}},
		ShippingAddressID: "5d2f8a90-1c3b-4e6f-8a7d-9b0c1d2e3f40",
		PaymentMethod:     "CASH",
	}))
}

func TestValidate_RequestValido(t *testing.T) {
	assert.NoError(t, dto.Validate(&dto.LoginRequest{Email: "ana@ferreteria.com", Password: "secreta123"}))
}
