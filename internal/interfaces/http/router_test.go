package http_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gocloud.dev/blob/memblob"

	appanalytics "github.com/jhoicas/ferreteria-api/internal/application/analytics"
	"github.com/jhoicas/ferreteria-api/internal/application/auth"
	"github.com/jhoicas/ferreteria-api/internal/application/cart"
	"github.com/jhoicas/ferreteria-api/internal/application/order"
	"github.com/jhoicas/ferreteria-api/internal/application/ports"
	"github.com/jhoicas/ferreteria-api/internal/application/promotion"
	"github.com/jhoicas/ferreteria-api/internal/application/usecase"
	"github.com/jhoicas/ferreteria-api/internal/domain/entity"
	"github.com/jhoicas/ferreteria-api/internal/infrastructure/memory"
	infraredis "github.com/jhoicas/ferreteria-api/internal/infrastructure/redis"
	"github.com/jhoicas/ferreteria-api/internal/infrastructure/storage"
	apphttp "github.com/jhoicas/ferreteria-api/internal/interfaces/http"
	"github.com/jhoicas/ferreteria-api/pkg/logger"
)

const (
	customerID = "11111111-1111-1111-1111-111111111111"
	adminID    = "22222222-2222-2222-2222-222222222222"
	addressID  = "33333333-3333-3333-3333-333333333333"
	productID  = "44444444-4444-4444-4444-444444444444"
)

type stubWriter struct{ err error }

func (w stubWriter) SuggestProductDescription(context.Context, string, string, []string) (string, error) {
	return "Martillo de acero forjado.", w.err
}

func (stubWriter) Provider() string { return "stub" }

type denyLimiter struct{}

func (denyLimiter) Allow(context.Context, string) (infraredis.Decision, error) {
	return infraredis.Decision{Allowed: false, Limit: 5, Remaining: 0, RetryAfter: 1500 * time.Millisecond}, nil
}

type apiFixture struct {
	app   *fiber.App
	repos *memory.Repositories
}

func newAPI(t *testing.T, opts ...func(*apphttp.RouterDeps)) apiFixture {
	t.Helper()
	ctx := context.Background()
	repos := memory.New()
	now := time.Now()
	require.NoError(t, repos.Users.Create(ctx, &entity.User{ID: customerID, Name: "Ana", Email: "ana@correo.com", Role: entity.RoleCustomer, Active: true, CreatedAt: now}))
	require.NoError(t, repos.Users.Create(ctx, &entity.User{ID: adminID, Name: "Admin", Email: "admin@ferreteria.com", Role: entity.RoleAdmin, Active: true, CreatedAt: now}))
	require.NoError(t, repos.Addresses.Create(ctx, &entity.Address{ID: addressID, UserID: customerID, Line: "Av. Bolívar", City: "Maturín", IsDefault: true}))
	require.NoError(t, repos.Products.Create(ctx, &entity.Product{
		ID: productID, SKU: "MAR-16", Name: "Martillo 16oz", Price: decimal.RequireFromString("12.50"), Stock: 4, Active: true, UpdatedAt: now,
	}))

	log := logger.Nop()
	resolver := promotion.NewResolver(repos.Promotions, log)
	store := storage.NewBlobStore(memblob.OpenBucket(nil), "/uploads")
	t.Cleanup(func() { _ = store.Close() })

	deps := apphttp.RouterDeps{
		AuthUC:        auth.NewAuthUseCase(repos.Users, repos.Tx, auth.JWTConfig{Secret: testJWTSecret, ExpMinutes: testExpMin, Issuer: testIssuer}, "Maturín"),
		UserUC:        usecase.NewUserUseCase(repos.Users),
		AddressUC:     usecase.NewAddressUseCase(repos.Addresses, repos.Tx, "Maturín"),
		ProductUC:     usecase.NewProductUseCase(repos.Products, repos.Categories),
		CategoryUC:    usecase.NewCategoryUseCase(repos.Categories),
		CartUC:        cart.NewUseCase(repos.Carts, memory.NewGuestCartStore(time.Hour), resolver),
		PromotionUC:   promotion.NewUseCase(repos.Promotions, resolver),
		OrderUC: order.NewUseCase(order.Deps{
			Tx: repos.Tx, Orders: repos.Orders, Users: repos.Users, Addresses: repos.Addresses, Resolver: resolver, Log: log,
		}, order.Config{ShippingFlatCost: decimal.RequireFromString("2.00"), StoreName: "Ferretería"}),
		DashboardUC:   appanalytics.NewDashboardUseCase(repos.Analytics),
		BankAccountUC: usecase.NewBankAccountUseCase(repos.BankAccounts),
		UploadUC:      usecase.NewUploadUseCase(store, repos.Products, 1),
		AIUC:          usecase.NewAIUseCase(stubWriter{}),
		JWTSecret:     testJWTSecret,
		Logger:        log,
	}
	for _, o := range opts {
		o(&deps)
	}
	app := fiber.New()
	apphttp.Router(app, deps)
	return apiFixture{app: app, repos: repos}
}

func (f apiFixture) call(t *testing.T, method, path, auth string, body any, headers ...string) (*http.Response, map[string]any) {
	t.Helper()
	var rd io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		require.NoError(t, err)
		rd = bytes.NewReader(b)
	}
	req := httptest.NewRequest(method, path, rd)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if auth != "" {
		req.Header.Set("Authorization", auth)
	}
	for i := 0; i+1 < len(headers); i += 2 {
		req.Header.Set(headers[i], headers[i+1])
	}
	resp, err := f.app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()
	raw, _ := io.ReadAll(resp.Body)
	out := map[string]any{}
	_ = json.Unmarshal(raw, &out)
	return resp, out
}

// ──────────────────────────────────────────────────────────────────────────────
// Auth
// ──────────────────────────────────────────────────────────────────────────────

func TestRegister_CiudadFueraDeDespacho_Retorna400(t *testing.T) {
	f := newAPI(t)
	resp, body := f.call(t, http.MethodPost, "/api/auth/register", "", map[string]any{
		"name": "Pedro", "email": "pedro@correo.com", "password": "secreto123", "phone": "04141234567", "city": "Caracas",
	})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "INVALID_CITY", body["code"])
	assert.Contains(t, body["message"], "Maturín")
}

func TestRegister_EmailMalFormado_Retorna400ConCampo(t *testing.T) {
	f := newAPI(t)
	resp, body := f.call(t, http.MethodPost, "/api/auth/register", "", map[string]any{
		"name": "Pedro", "email": "no-es-email", "password": "secreto123", "phone": "04141234567", "city": "maturin",
	})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	fields, _ := body["fields"].(map[string]any)
	assert.Contains(t, fields, "email")
}

func TestRegisterYLogin_FlujoCompleto(t *testing.T) {
	f := newAPI(t)
	resp, _ := f.call(t, http.MethodPost, "/api/auth/register", "", map[string]any{
		"name": "Pedro", "email": "Pedro@Correo.com", "password": "secreto123", "phone": "04141234567", "city": "MATURIN",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	resp, _ = f.call(t, http.MethodPost, "/api/auth/register", "", map[string]any{
		"name": "Pedro", "email": "pedro@correo.com", "password": "secreto123", "phone": "04141234567", "city": "Maturín",
	})
	assert.Equal(t, http.StatusConflict, resp.StatusCode)

	resp, body := f.call(t, http.MethodPost, "/api/auth/login", "", map[string]any{"email": "pedro@correo.com", "password": "secreto123"})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.NotEmpty(t, body["token"])
}

func TestLogin_ClaveIncorrecta_Retorna401(t *testing.T) {
	f := newAPI(t)
	resp, body := f.call(t, http.MethodPost, "/api/auth/login", "", map[string]any{"email": "nadie@correo.com", "password": "x"})
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	assert.Equal(t, "INVALID_CREDENTIALS", body["code"])
}

func TestLogin_RateLimitExcedido_Retorna429(t *testing.T) {
	f := newAPI(t, func(d *apphttp.RouterDeps) { d.RateLimiter = denyLimiter{} })
	resp, body := f.call(t, http.MethodPost, "/api/auth/login", "", map[string]any{"email": "ana@correo.com", "password": "x"})
	assert.Equal(t, http.StatusTooManyRequests, resp.StatusCode)
	assert.Equal(t, "2", resp.Header.Get("Retry-After"))
	assert.Equal(t, "5", resp.Header.Get("X-RateLimit-Limit"))
	assert.Equal(t, "TOO_MANY_REQUESTS", body["code"])
}

// ──────────────────────────────────────────────────────────────────────────────
// Carrito
// ──────────────────────────────────────────────────────────────────────────────

func TestCart_SinIdentidad_Retorna401(t *testing.T) {
	f := newAPI(t)
	resp, _ := f.call(t, http.MethodGet, "/api/cart", "", nil)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestCart_UsuarioInexistente_Retorna404(t *testing.T) {
	f := newAPI(t)
	resp, _ := f.call(t, http.MethodGet, "/api/cart", "", nil, apphttp.HeaderUserID, "no-existe")
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestCart_UserIDMalFormado_Retorna404(t *testing.T) {
	f := newAPI(t)
	resp, body := f.call(t, http.MethodGet, "/api/cart", "", nil, apphttp.HeaderUserID, "42")
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	assert.Equal(t, "USER_NOT_FOUND", body["code"])

	resp, _ = f.call(t, http.MethodPut, "/api/cart", "", map[string]any{"cart": []map[string]any{}}, apphttp.HeaderUserID, "42")
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestCart_ProductIDMalFormado_Retorna400(t *testing.T) {
	f := newAPI(t)
	resp, body := f.call(t, http.MethodPut, "/api/cart", "", map[string]any{
		"cart": []map[string]any{{"productId": "prod-1", "price": "12.50", "quantity": 1}},
	}, apphttp.HeaderUserID, customerID)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "VALIDATION", body["code"])
	assert.Contains(t, body["fields"], "cart[0].productId")
}

func TestCart_ReemplazarYLeerConHeader(t *testing.T) {
	f := newAPI(t)
	resp, _ := f.call(t, http.MethodPut, "/api/cart", "", map[string]any{
		"cart": []map[string]any{{"productId": productID, "name": "Martillo 16oz", "price": "12.50", "quantity": 2}},
	}, apphttp.HeaderUserID, customerID)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	resp, body := f.call(t, http.MethodGet, "/api/cart?code=NOEXISTE", "", nil, apphttp.HeaderUserID, customerID)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "25", body["subtotal"])
	assert.Equal(t, "0", body["discount"])
}

func TestCart_CantidadCero_Retorna400(t *testing.T) {
	f := newAPI(t)
	resp, body := f.call(t, http.MethodPut, "/api/cart", tokenFor(t, customerID, entity.RoleCustomer), map[string]any{
		"cart": []map[string]any{{"productId": productID, "price": "12.50", "quantity": 0}},
	})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "VALIDATION", body["code"])
}

func TestCart_InvitadoYFusionAlIniciarSesion(t *testing.T) {
	f := newAPI(t)
	resp, _ := f.call(t, http.MethodPut, "/api/cart", "", map[string]any{
		"cart": []map[string]any{{"productId": productID, "name": "Martillo 16oz", "price": "12.50", "quantity": 1}},
	}, apphttp.HeaderGuestID, "guest-abc")
	require.Equal(t, http.StatusOK, resp.StatusCode)

	resp, body := f.call(t, http.MethodPost, "/api/cart/merge", tokenFor(t, customerID, entity.RoleCustomer), map[string]any{"guestId": "guest-abc"})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	items, _ := body["cart"].([]any)
	assert.Len(t, items, 1)

	_, body = f.call(t, http.MethodGet, "/api/cart", "", nil, apphttp.HeaderGuestID, "guest-abc")
	items, _ = body["cart"].([]any)
	assert.Empty(t, items, "el carrito del invitado se elimina tras la fusión")
}

// ──────────────────────────────────────────────────────────────────────────────
// Órdenes
// ──────────────────────────────────────────────────────────────────────────────

func createOrder(t *testing.T, f apiFixture, qty int) (*http.Response, map[string]any) {
	t.Helper()
	return f.call(t, http.MethodPost, "/api/orders", tokenFor(t, customerID, entity.RoleCustomer), map[string]any{
		"items":             []map[string]any{{"productId": productID, "quantity": qty}},
		"total":             "1",
		"shippingAddressId": addressID,
		"paymentMethod":     entity.PaymentMethodTransfer,
		"paymentReference":  "000123",
	})
}

func TestOrders_CrearCalculaTotalesEnServidor(t *testing.T) {
	f := newAPI(t)
	resp, body := createOrder(t, f, 2)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	assert.Equal(t, "25", body["subtotal"])
	assert.Equal(t, "27", body["total"])
	assert.Equal(t, entity.OrderStatusPending, body["status"])
}

func TestOrders_StockInsuficiente_Retorna409(t *testing.T) {
	f := newAPI(t)
	resp, body := createOrder(t, f, 5)
	assert.Equal(t, http.StatusConflict, resp.StatusCode)
	assert.Equal(t, "INSUFFICIENT_STOCK", body["code"])
}

func TestOrders_IDsMalFormados(t *testing.T) {
	f := newAPI(t)
	tok := tokenFor(t, customerID, entity.RoleCustomer)

	resp, body := f.call(t, http.MethodPost, "/api/orders", tok, map[string]any{
		"items":             []map[string]any{{"productId": "abc", "quantity": 1}},
		"shippingAddressId": "casa",
		"paymentMethod":     entity.PaymentMethodCash,
	})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	fields, _ := body["fields"].(map[string]any)
	assert.Contains(t, fields, "items[0].productId")
	assert.Contains(t, fields, "shippingAddressId")

	for _, path := range []string{"/api/orders/42", "/api/orders/42/history", "/api/orders/42/receipt"} {
		resp, body = f.call(t, http.MethodGet, path, tok, nil)
		assert.Equal(t, http.StatusNotFound, resp.StatusCode, path)
		assert.Equal(t, "NOT_FOUND", body["code"], path)
	}
	resp, _ = f.call(t, http.MethodPatch, "/api/orders/42", tokenFor(t, adminID, entity.RoleAdmin), map[string]any{"status": entity.OrderStatusShipped})
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestOrders_PatchPorCliente_Retorna403(t *testing.T) {
	f := newAPI(t)
	_, created := createOrder(t, f, 1)
	resp, _ := f.call(t, http.MethodPatch, "/api/orders/"+created["id"].(string), tokenFor(t, customerID, entity.RoleCustomer),
		map[string]any{"status": entity.OrderStatusShipped})
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
}

func TestOrders_PatchValidacion(t *testing.T) {
	f := newAPI(t)
	_, created := createOrder(t, f, 1)
	path := "/api/orders/" + created["id"].(string)
	adminTok := tokenFor(t, adminID, entity.RoleAdmin)

	resp, _ := f.call(t, http.MethodPatch, path, adminTok, map[string]any{})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode, "sin campos")

	resp, _ = f.call(t, http.MethodPatch, path, adminTok, map[string]any{"status": "ENVIADO"})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode, "estado fuera de la enumeración")

	resp, body := f.call(t, http.MethodPatch, path, adminTok, map[string]any{"status": entity.OrderStatusShipped, "paymentStatus": entity.PaymentStatusPaid})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, entity.OrderStatusShipped, body["status"])

	resp, body = f.call(t, http.MethodPatch, path, adminTok, map[string]any{"status": entity.OrderStatusPending})
	assert.Equal(t, http.StatusConflict, resp.StatusCode, "no se retrocede")
	assert.Equal(t, "INVALID_TRANSITION", body["code"])
}

func TestOrders_OrdenAjenaNoVisible(t *testing.T) {
	f := newAPI(t)
	_, created := createOrder(t, f, 1)
	resp, _ := f.call(t, http.MethodGet, "/api/orders/"+created["id"].(string), tokenFor(t, "otro-usuario", entity.RoleCustomer), nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	resp, _ = f.call(t, http.MethodGet, "/api/orders/"+created["id"].(string), tokenFor(t, adminID, entity.RoleAdmin), nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

// ──────────────────────────────────────────────────────────────────────────────
// Catálogo, cupones y administración
// ──────────────────────────────────────────────────────────────────────────────

func TestProducts_ClienteNoPuedeCrear(t *testing.T) {
	f := newAPI(t)
	resp, _ := f.call(t, http.MethodPost, "/api/products", tokenFor(t, customerID, entity.RoleCustomer), map[string]any{"sku": "X", "name": "X"})
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)

	resp, body := f.call(t, http.MethodGet, "/api/products?q=martillo", "", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	items, _ := body["items"].([]any)
	assert.Len(t, items, 1)
}

func TestPromotions_ValidarCodigoInexistente(t *testing.T) {
	f := newAPI(t)
	resp, body := f.call(t, http.MethodGet, "/api/promotions/validate?code=NADA&subtotal=10", "", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, false, body["valid"])

	resp, _ = f.call(t, http.MethodGet, "/api/promotions/validate?code=NADA&subtotal=abc", "", nil)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestDashboard_SoloAdmin(t *testing.T) {
	f := newAPI(t)
	resp, _ := f.call(t, http.MethodGet, "/api/admin/dashboard", tokenFor(t, customerID, entity.RoleCustomer), nil)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)

	resp, body := f.call(t, http.MethodGet, "/api/admin/dashboard?days=7", tokenFor(t, adminID, entity.RoleAdmin), nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "0", body["averageOrderValue"])
}

func TestAdminUsers_CambioDeRolRequiereSuperAdmin(t *testing.T) {
	f := newAPI(t)
	resp, _ := f.call(t, http.MethodPatch, "/api/admin/users/"+customerID, tokenFor(t, adminID, entity.RoleAdmin), map[string]any{"role": entity.RoleAdmin})
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)

	resp, body := f.call(t, http.MethodPatch, "/api/admin/users/"+customerID, tokenFor(t, "root", entity.RoleSuperAdmin), map[string]any{"role": entity.RoleAdmin})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, entity.RoleAdmin, body["role"])
}

func TestBankAccounts_TransferenciaExigeCuentaDe20Digitos(t *testing.T) {
	f := newAPI(t)
	adminTok := tokenFor(t, adminID, entity.RoleAdmin)
	resp, _ := f.call(t, http.MethodPost, "/api/bank-accounts", adminTok, map[string]any{
		"type": "TRANSFER", "bankName": "Banco de Venezuela", "holderName": "Ferretería", "holderId": "J-123", "accountNumber": "0102",
	})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp, _ = f.call(t, http.MethodPost, "/api/bank-accounts", adminTok, map[string]any{
		"type": "TRANSFER", "bankName": "Banco de Venezuela", "holderName": "Ferretería", "holderId": "J-123", "accountNumber": "01020000000000000001",
	})
	assert.Equal(t, http.StatusCreated, resp.StatusCode)
}

func TestAI_SinProveedorConfigurado_Retorna503(t *testing.T) {
	f := newAPI(t, func(d *apphttp.RouterDeps) {
		d.AIUC = usecase.NewAIUseCase(stubWriter{err: ports.ErrCopyWriterUnavailable})
	})
	resp, body := f.call(t, http.MethodPost, "/api/ai/product-description", tokenFor(t, adminID, entity.RoleAdmin), map[string]any{"name": "Martillo"})
	assert.Equal(t, http.StatusServiceUnavailable, resp.StatusCode)
	assert.Equal(t, "AI_UNAVAILABLE", body["code"])
}

// ──────────────────────────────────────────────────────────────────────────────
// Uploads
// ──────────────────────────────────────────────────────────────────────────────

var pngHeader = []byte{0x89, 'P', 'N', 'G', '\r', '\n', 0x1a, '\n', 0, 0, 0, 0x0d, 'I', 'H', 'D', 'R'}

func multipartBody(t *testing.T, field string, data []byte, extra map[string]string) (*bytes.Buffer, string) {
	t.Helper()
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	fw, err := w.CreateFormFile(field, "foto.png")
	require.NoError(t, err)
	_, err = fw.Write(data)
	require.NoError(t, err)
	for k, v := range extra {
		require.NoError(t, w.WriteField(k, v))
	}
	require.NoError(t, w.Close())
	return &buf, w.FormDataContentType()
}

func TestUpload_ImagenDeProductoActualizaURL(t *testing.T) {
	f := newAPI(t)
	body, ct := multipartBody(t, "file", pngHeader, map[string]string{"productId": productID})
	req := httptest.NewRequest(http.MethodPost, "/api/upload/products", body)
	req.Header.Set("Content-Type", ct)
	req.Header.Set("Authorization", tokenFor(t, adminID, entity.RoleAdmin))
	resp, err := f.app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	p, err := f.repos.Products.GetByID(context.Background(), productID)
	require.NoError(t, err)
	assert.Contains(t, p.ImageURL, "/uploads/products/")
}

func TestUpload_TipoNoPermitido_Retorna400(t *testing.T) {
	f := newAPI(t)
	body, ct := multipartBody(t, "file", []byte("texto plano, no imagen"), nil)
	req := httptest.NewRequest(http.MethodPost, "/api/upload", body)
	req.Header.Set("Content-Type", ct)
	req.Header.Set("Authorization", tokenFor(t, adminID, entity.RoleAdmin))
	resp, err := f.app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}
