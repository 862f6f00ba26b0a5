package router

import (
	"net/http"

	"storefront/internal/handler"
	"storefront/internal/middleware"

	"github.com/rs/zerolog"
)

// Handlers groups the HTTP handlers served by the router.
type Handlers struct {
	Product  *handler.ProductHandler
	Category *handler.CategoryHandler
	Cart     *handler.CartHandler
	Discount *handler.DiscountHandler
	Address  *handler.AddressHandler
	Wallet   *handler.WalletHandler
	Order    *handler.OrderHandler
	Audit    *handler.AuditHandler
}

// New creates a new HTTP router with all routes and middleware configured.
// Customer routes require a bearer token, admin routes an API key.
func New(h Handlers, apiKey, jwtSecret string, logger zerolog.Logger) http.Handler {
	mux := http.NewServeMux()

	// Health check endpoint (no authentication required)
	mux.HandleFunc("GET /health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status": "healthy"}`))
	})

	// Public catalogue
	mux.HandleFunc("GET /api/products", h.Product.List)
	mux.HandleFunc("GET /api/products/most-sold", h.Product.MostSold)
	mux.HandleFunc("GET /api/products/home", h.Product.HomePage)
	mux.HandleFunc("GET /api/products/{id}", h.Product.GetByID)
	mux.HandleFunc("GET /api/categories", h.Category.List)
	mux.HandleFunc("GET /api/categories/{id}", h.Category.Get)
	mux.HandleFunc("GET /api/discounts/code/{code}", h.Discount.GetByCode)

	// Customer routes
	auth := middleware.BearerAuth(jwtSecret, logger)
	user := func(pattern string, fn http.HandlerFunc) {
		mux.Handle(pattern, auth(fn))
	}
	user("GET /api/cart", h.Cart.Get)
	user("POST /api/cart/items", h.Cart.AddItem)
	user("DELETE /api/cart/items/{productID}", h.Cart.RemoveItem)
	user("POST /api/orders", h.Order.Submit)
	user("GET /api/orders", h.Order.ListMine)
	user("GET /api/orders/{id}", h.Order.GetMine)
	user("GET /api/addresses", h.Address.List)
	user("POST /api/addresses", h.Address.Create)
	user("PUT /api/addresses/{id}", h.Address.Update)
	user("DELETE /api/addresses/{id}", h.Address.Delete)
	user("GET /api/wallet", h.Wallet.Get)
	user("GET /api/wallet/history", h.Wallet.History)

	// Admin routes
	admin := http.NewServeMux()
	admin.HandleFunc("GET /api/admin/products", h.Product.List)
	admin.HandleFunc("GET /api/admin/products/trashed", h.Product.ListTrashed)
	admin.HandleFunc("GET /api/admin/products/{id}", h.Product.AdminGetByID)
	admin.HandleFunc("POST /api/admin/products", h.Product.Create)
	admin.HandleFunc("PUT /api/admin/products/{id}", h.Product.Update)
	admin.HandleFunc("DELETE /api/admin/products/{id}", h.Product.SoftDelete)
	admin.HandleFunc("POST /api/admin/products/{id}/restore", h.Product.Restore)
	admin.HandleFunc("DELETE /api/admin/products/{id}/force", h.Product.Destroy)

	admin.HandleFunc("POST /api/admin/categories", h.Category.Create)
	admin.HandleFunc("PUT /api/admin/categories/{id}", h.Category.Update)
	admin.HandleFunc("DELETE /api/admin/categories/{id}", h.Category.Delete)

	admin.HandleFunc("GET /api/admin/discounts", h.Discount.List)
	admin.HandleFunc("GET /api/admin/discounts/trashed", h.Discount.ListTrashed)
	admin.HandleFunc("GET /api/admin/discounts/{id}", h.Discount.GetByID)
	admin.HandleFunc("POST /api/admin/discounts", h.Discount.Create)
	admin.HandleFunc("PUT /api/admin/discounts/{id}", h.Discount.Update)
	admin.HandleFunc("DELETE /api/admin/discounts/{id}", h.Discount.SoftDelete)
	admin.HandleFunc("POST /api/admin/discounts/{id}/restore", h.Discount.Restore)
	admin.HandleFunc("DELETE /api/admin/discounts/{id}/force", h.Discount.Destroy)

	admin.HandleFunc("GET /api/admin/orders", h.Order.List)
	admin.HandleFunc("GET /api/admin/orders/{id}", h.Order.GetByID)
	admin.HandleFunc("PATCH /api/admin/orders/{id}/status", h.Order.UpdateStatus)

	admin.HandleFunc("GET /api/admin/users/{id}/wallet", h.Wallet.AdminGet)
	admin.HandleFunc("POST /api/admin/users/{id}/wallet", h.Wallet.Adjust)

	admin.HandleFunc("GET /api/admin/logs", h.Audit.List)
	admin.HandleFunc("GET /api/admin/logs/{id}", h.Audit.GetByID)

	mux.Handle("/api/admin/", middleware.APIKeyAuth(apiKey, logger)(admin))

	// Apply middleware in order: Recovery -> Logging -> CORS
	var handler http.Handler = mux
	handler = middleware.CORS(handler)
	handler = middleware.Logging(logger)(handler)
	handler = middleware.Recovery(logger)(handler)

	return handler
}
