package http

import (
	"net/http"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"

	appanalytics "github.com/jhoicas/ferreteria-api/internal/application/analytics"
	"github.com/jhoicas/ferreteria-api/internal/application/auth"
	"github.com/jhoicas/ferreteria-api/internal/application/cart"
	"github.com/jhoicas/ferreteria-api/internal/application/order"
	"github.com/jhoicas/ferreteria-api/internal/application/promotion"
	"github.com/jhoicas/ferreteria-api/internal/application/usecase"
	"github.com/jhoicas/ferreteria-api/internal/domain/policy"
	"github.com/jhoicas/ferreteria-api/pkg/logger"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	AuthUC        *auth.AuthUseCase
	UserUC        *usecase.UserUseCase
	AddressUC     *usecase.AddressUseCase
	ProductUC     *usecase.ProductUseCase
	CategoryUC    *usecase.CategoryUseCase
	CartUC        *cart.UseCase
	PromotionUC   *promotion.UseCase
	OrderUC       *order.UseCase
	DashboardUC   *appanalytics.DashboardUseCase
	BankAccountUC *usecase.BankAccountUseCase
	UploadUC      *usecase.UploadUseCase
	AIUC          *usecase.AIUseCase
	JWTSecret     string
	Logger        *logger.Logger

	// Opcionales: sin RateLimiter no se limita; sin MetricsHandler no se expone /metrics.
	RateLimiter    RateLimiter
	MetricsHandler http.Handler

	// Directorio local servido en UploadsPrefix (solo con bucket file://).
	UploadsDir    string
	UploadsPrefix string
}

// Router registra las rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	log := deps.Logger
	if log == nil {
		log = logger.Nop()
	}
	er := errorResponder{log: log.Component("http")}

	authed := AuthMiddleware(deps.JWTSecret)
	optional := OptionalAuth(deps.JWTSecret)
	can := RequirePermission
	limited := func(c *fiber.Ctx) error { return c.Next() }
	if deps.RateLimiter != nil {
		limited = RateLimit(deps.RateLimiter, log.Component("ratelimit"))
	}

	if deps.MetricsHandler != nil {
		app.Get("/metrics", adaptor.HTTPHandler(deps.MetricsHandler))
	}
	if deps.UploadsDir != "" && deps.UploadsPrefix != "" {
		app.Static(deps.UploadsPrefix, deps.UploadsDir)
	}

	api := app.Group("/api")

	// Auth (público)
	authGroup := api.Group("/auth")
	authHandler := NewAuthHandler(deps.AuthUC, er)
	authGroup.Post("/register", limited, authHandler.Register)
	authGroup.Post("/login", limited, authHandler.Login)
	authGroup.Post("/reset-password", limited, authHandler.ResetPassword)
	authGroup.Post("/verify-email", limited, authHandler.VerifyEmail)

	// Perfil y direcciones
	userHandler := NewUserHandler(deps.UserUC, deps.AddressUC, er)
	me := api.Group("/users/me", authed)
	me.Get("/", userHandler.Me)
	me.Put("/", userHandler.UpdateMe)
	me.Put("/password", userHandler.ChangePassword)
	me.Get("/addresses", userHandler.ListAddresses)
	me.Post("/addresses", userHandler.CreateAddress)
	me.Put("/addresses/:id", userHandler.UpdateAddress)
	me.Delete("/addresses/:id", userHandler.DeleteAddress)
	me.Post("/addresses/:id/default", userHandler.SetDefaultAddress)

	// Catálogo: lectura pública, escritura con products:manage
	productHandler := NewProductHandler(deps.ProductUC, deps.CategoryUC, er)
	api.Get("/products", optional, productHandler.List)
	api.Get("/products/:id", productHandler.GetByID)
	api.Post("/products", authed, can(policy.ActionProductsManage), productHandler.Create)
	api.Put("/products/:id", authed, can(policy.ActionProductsManage), productHandler.Update)
	api.Delete("/products/:id", authed, can(policy.ActionProductsManage), productHandler.Delete)
	api.Get("/categories", productHandler.ListCategories)
	api.Post("/categories", authed, can(policy.ActionProductsManage), productHandler.CreateCategory)

	// Carrito: usuario o invitado
	cartHandler := NewCartHandler(deps.CartUC, er)
	api.Get("/cart", optional, cartHandler.Get)
	api.Put("/cart", optional, cartHandler.Replace)
	api.Post("/cart/merge", authed, cartHandler.Merge)

	// Cupones
	promotionHandler := NewPromotionHandler(deps.PromotionUC, er)
	api.Get("/promotions/validate", promotionHandler.Validate)
	promotions := api.Group("/promotions", authed, can(policy.ActionPromotionsManage))
	promotions.Get("/", promotionHandler.List)
	promotions.Post("/", promotionHandler.Create)
	promotions.Put("/:id", promotionHandler.Update)
	promotions.Delete("/:id", promotionHandler.Delete)

	// Órdenes
	orderHandler := NewOrderHandler(deps.OrderUC, er)
	orders := api.Group("/orders", authed)
	orders.Post("/", orderHandler.Create)
	orders.Get("/", orderHandler.List)
	orders.Get("/:id", orderHandler.Get)
	orders.Get("/:id/history", orderHandler.History)
	orders.Get("/:id/receipt", orderHandler.Receipt)
	orders.Patch("/:id", can(policy.ActionOrdersUpdateStatus), orderHandler.Update)

	// Cuentas de cobro
	bankHandler := NewBankAccountHandler(deps.BankAccountUC, er)
	api.Get("/bank-accounts", optional, bankHandler.List)
	api.Post("/bank-accounts", authed, can(policy.ActionBankAccountsManage), bankHandler.Create)
	api.Patch("/bank-accounts/:id", authed, can(policy.ActionBankAccountsManage), bankHandler.Update)
	api.Delete("/bank-accounts/:id", authed, can(policy.ActionBankAccountsManage), bankHandler.Delete)

	// Administración
	dashboardHandler := NewDashboardHandler(deps.DashboardUC, er)
	admin := api.Group("/admin", authed)
	admin.Get("/dashboard", can(policy.ActionDashboardView), dashboardHandler.GetSummary)
	admin.Get("/users", can(policy.ActionUsersManage), userHandler.AdminList)
	admin.Patch("/users/:id", can(policy.ActionUsersManage), userHandler.AdminUpdate)

	// Imágenes
	uploadHandler := NewUploadHandler(deps.UploadUC, er)
	upload := api.Group("/upload", authed, can(policy.ActionUploadsCreate))
	upload.Post("/", uploadHandler.Generic)
	upload.Post("/products", uploadHandler.Product)

	// IA
	aiHandler := NewAIHandler(deps.AIUC, er)
	api.Post("/ai/product-description", authed, can(policy.ActionAISuggest), aiHandler.SuggestDescription)
}
