package usecase_test

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/ferreteria-api/internal/application/dto"
	"github.com/jhoicas/ferreteria-api/internal/application/usecase"
	"github.com/jhoicas/ferreteria-api/internal/domain"
	"github.com/jhoicas/ferreteria-api/internal/domain/entity"
	"github.com/jhoicas/ferreteria-api/internal/infrastructure/memory"
)

func seedUser(t *testing.T, repos *memory.Repositories, id, role string) {
	t.Helper()
	require.NoError(t, repos.Users.Create(context.Background(), &entity.User{ID: id, Email: id + "@correo.com", Role: role, Active: true}))
}

func TestBankAccount_PagoMovilRequiereTelefono(t *testing.T) {
	uc := usecase.NewBankAccountUseCase(memory.New().BankAccounts)

	_, err := uc.Create(context.Background(), dto.BankAccountRequest{Type: "MOBILE_PAYMENT", BankName: "Banesco", HolderID: "V-12345678"})
	var verr *domain.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Contains(t, verr.Fields, "phone")
}

func TestBankAccount_TransferenciaRequiere20Digitos(t *testing.T) {
	uc := usecase.NewBankAccountUseCase(memory.New().BankAccounts)
	in := dto.BankAccountRequest{Type: "TRANSFER", BankName: "Mercantil", HolderName: "Ferretería C.A.", HolderID: "J-40000000-1", AccountNumber: "0105123"}

	_, err := uc.Create(context.Background(), in)
	var verr *domain.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Contains(t, verr.Fields, "accountNumber")

	in.AccountNumber = "01050000000000000001"
	out, err := uc.Create(context.Background(), in)
	require.NoError(t, err)
	assert.True(t, out.Active)
}

func TestBankAccount_ListadoPublicoSoloActivas(t *testing.T) {
	ctx := context.Background()
	uc := usecase.NewBankAccountUseCase(memory.New().BankAccounts)
	inactive := false
	_, err := uc.Create(ctx, dto.BankAccountRequest{Type: "MOBILE_PAYMENT", BankName: "Banesco", HolderID: "V-1", Phone: "04140000000"})
	require.NoError(t, err)
	_, err = uc.Create(ctx, dto.BankAccountRequest{Type: "MOBILE_PAYMENT", BankName: "BDV", HolderID: "V-2", Phone: "04240000000", Active: &inactive})
	require.NoError(t, err)

	public, err := uc.List(ctx, true)
	require.NoError(t, err)
	assert.Len(t, public, 1)
}

func TestAddress_SoloUnaPredeterminada(t *testing.T) {
	ctx := context.Background()
	repos := memory.New()
	seedUser(t, repos, "u1", entity.RoleCustomer)
	uc := usecase.NewAddressUseCase(repos.Addresses, repos.Tx, "Maturín")

	first, err := uc.Create(ctx, "u1", dto.AddressRequest{Line: "Calle 1", City: "Maturín"})
	require.NoError(t, err)
	assert.True(t, first.IsDefault, "la primera dirección queda predeterminada")

	second, err := uc.Create(ctx, "u1", dto.AddressRequest{Line: "Calle 2", City: "MATURIN"})
	require.NoError(t, err)
	require.NoError(t, uc.SetDefault(ctx, "u1", second.ID))

	list, err := uc.List(ctx, "u1")
	require.NoError(t, err)
	defaults := 0
	for _, a := range list {
		if a.IsDefault {
			defaults++
			assert.Equal(t, second.ID, a.ID)
		}
	}
	assert.Equal(t, 1, defaults)
}

func TestAddress_AjenaEsNoEncontrada(t *testing.T) {
	ctx := context.Background()
	repos := memory.New()
	uc := usecase.NewAddressUseCase(repos.Addresses, repos.Tx, "Maturín")
	a, err := uc.Create(ctx, "u1", dto.AddressRequest{Line: "Calle 1", City: "Maturín"})
	require.NoError(t, err)

	assert.ErrorIs(t, uc.Delete(ctx, "u2", a.ID), domain.ErrNotFound)
	assert.ErrorIs(t, uc.SetDefault(ctx, "u2", a.ID), domain.ErrNotFound)
}

func TestAddress_UsadaEnOrdenNoSeBorra(t *testing.T) {
	ctx := context.Background()
	repos := memory.New()
	uc := usecase.NewAddressUseCase(repos.Addresses, repos.Tx, "Maturín")
	a, err := uc.Create(ctx, "u1", dto.AddressRequest{Line: "Calle 1", City: "Maturín"})
	require.NoError(t, err)
	require.NoError(t, repos.Orders.Create(ctx, &entity.Order{ID: "o1", OrderNumber: "ORD-1", UserID: "u1", AddressID: a.ID}))

	assert.ErrorIs(t, uc.Delete(ctx, "u1", a.ID), domain.ErrConflict)
}

func TestUserAdminUpdate_CambioDeRolSoloSuperAdmin(t *testing.T) {
	ctx := context.Background()
	repos := memory.New()
	seedUser(t, repos, "admin", entity.RoleAdmin)
	seedUser(t, repos, "cliente", entity.RoleCustomer)
	uc := usecase.NewUserUseCase(repos.Users)
	role := entity.RoleAdmin

	_, err := uc.AdminUpdate(ctx, "admin", entity.RoleAdmin, "cliente", dto.AdminUpdateUserRequest{Role: &role})
	assert.ErrorIs(t, err, domain.ErrForbidden)

	out, err := uc.AdminUpdate(ctx, "root", entity.RoleSuperAdmin, "cliente", dto.AdminUpdateUserRequest{Role: &role})
	require.NoError(t, err)
	assert.Equal(t, entity.RoleAdmin, out.Role)
}

func TestProduct_CreateYPrecioFinal(t *testing.T) {
	ctx := context.Background()
	repos := memory.New()
	require.NoError(t, repos.Categories.Create(ctx, &entity.Category{ID: "c1", Name: "Herramientas", Slug: "herramientas"}))
	uc := usecase.NewProductUseCase(repos.Products, repos.Categories)

	p, err := uc.Create(ctx, dto.CreateProductRequest{
		CategoryID: "c1", SKU: "tal-500", Name: "Taladro 500W",
		Price: decimal.NewFromInt(80), DiscountPercent: decimal.NewFromInt(25), Stock: 4,
	})
	require.NoError(t, err)
	assert.Equal(t, "TAL-500", p.SKU)
	assert.True(t, decimal.NewFromInt(60).Equal(p.FinalPrice))

	_, err = uc.Create(ctx, dto.CreateProductRequest{CategoryID: "c1", SKU: "TAL-500", Name: "Otro", Price: decimal.NewFromInt(1)})
	assert.ErrorIs(t, err, domain.ErrDuplicate)

	require.NoError(t, uc.Deactivate(ctx, p.ID))
	list, err := uc.List(ctx, dto.ProductFilterRequest{}, false)
	require.NoError(t, err)
	assert.Empty(t, list.Items)
}

func TestSlugify(t *testing.T) {
	assert.Equal(t, "herramientas-electricas", usecase.Slugify("Herramientas Eléctricas"))
	assert.Equal(t, "pinturas-y-barnices", usecase.Slugify("  Pinturas & Barnices "))
}

type fakeStore struct {
	keys map[string][]byte
}

func (f *fakeStore) Put(_ context.Context, key, _ string, data []byte) (string, error) {
	f.keys[key] = data
	return "/uploads/" + key, nil
}

func (f *fakeStore) Delete(_ context.Context, key string) error {
	delete(f.keys, key)
	return nil
}

var pngHeader = []byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR")

func TestUpload_RechazaNoImagen(t *testing.T) {
	uc := usecase.NewUploadUseCase(&fakeStore{keys: map[string][]byte{}}, memory.New().Products, 1)
	_, err := uc.Upload(context.Background(), usecase.UploadKindGeneric, []byte("%PDF-1.4 no es imagen"), "")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestUpload_RechazaArchivoGrande(t *testing.T) {
	uc := usecase.NewUploadUseCase(&fakeStore{keys: map[string][]byte{}}, memory.New().Products, 1)
	big := append(bytes.Clone(pngHeader), make([]byte, 1<<20)...)
	_, err := uc.Upload(context.Background(), usecase.UploadKindGeneric, big, "")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestUpload_AsociaImagenAlProducto(t *testing.T) {
	ctx := context.Background()
	repos := memory.New()
	require.NoError(t, repos.Products.Create(ctx, &entity.Product{ID: "p1", SKU: "X"}))
	store := &fakeStore{keys: map[string][]byte{}}
	uc := usecase.NewUploadUseCase(store, repos.Products, 1)

	out, err := uc.Upload(ctx, usecase.UploadKindProduct, pngHeader, "p1")
	require.NoError(t, err)
	assert.Contains(t, out.Key, "products/")
	assert.Len(t, store.keys, 1)

	p, _ := repos.Products.GetByID(ctx, "p1")
	assert.Equal(t, out.URL, p.ImageURL)
}

type stubWriter struct{ err error }

func (s stubWriter) SuggestProductDescription(_ context.Context, name, _ string, _ []string) (string, error) {
	return "  " + name + " ideal para trabajos pesados. ", s.err
}
func (stubWriter) Provider() string { return "stub" }

func TestAI_SuggestDescription(t *testing.T) {
	uc := usecase.NewAIUseCase(stubWriter{})
	out, err := uc.SuggestDescription(context.Background(), dto.ProductDescriptionRequest{Name: "Martillo"})
	require.NoError(t, err)
	assert.Equal(t, "Martillo ideal para trabajos pesados.", out.Description)
	assert.Equal(t, "stub", out.Provider)

	_, err = usecase.NewAIUseCase(stubWriter{err: errors.New("timeout")}).SuggestDescription(context.Background(), dto.ProductDescriptionRequest{Name: "X"})
	assert.Error(t, err)
}
