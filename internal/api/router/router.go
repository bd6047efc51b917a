package router

import (
	"net/http"
	"time"

	httpSwagger "github.com/swaggo/http-swagger/v2"

	_ "warehub/docs" // registra a especificação OpenAPI gerada pelo swag

	"warehub/internal/api/customer"
	"warehub/internal/api/dashboard"
	"warehub/internal/api/order"
	"warehub/internal/api/product"
	"warehub/internal/api/stock"
	"warehub/internal/api/user"
	"warehub/internal/api/warehouse"
	"warehub/internal/domain"
	"warehub/internal/pkg/cache"
	"warehub/internal/pkg/logger"
	"warehub/internal/pkg/middleware"
	"warehub/internal/pkg/telemetry"
)

// Handlers reúne os handlers já inicializados por injeção de dependências.
type Handlers struct {
	Warehouse *warehouse.Handler
	Product   *product.Handler
	Stock     *stock.Handler
	Customer  *customer.Handler
	Order     *order.Handler
	User      *user.Handler
	Dashboard *dashboard.Handler
}

// Options configura os middlewares globais.
type Options struct {
	Auth            *middleware.Auth
	Cache           cache.Client
	RateLimit       int
	RateLimitWindow time.Duration
	CORSOrigins     []string
	TracingEnabled  bool
	ServiceName     string
	Logger          logger.Logger
}

// NewRouter configura e retorna o roteador HTTP principal.
func NewRouter(h Handlers, opts Options) http.Handler {
	mux := http.NewServeMux()
	auth := opts.Auth

	// Qualquer usuário autenticado.
	authed := auth.Authenticate
	// admin ou manager.
	writer := func(next http.HandlerFunc) http.HandlerFunc {
		return auth.Authenticate(auth.RequireRoles(domain.RoleAdmin, domain.RoleManager)(next))
	}
	admin := func(next http.HandlerFunc) http.HandlerFunc {
		return auth.Authenticate(auth.RequireRoles(domain.RoleAdmin)(next))
	}

	// --- 1. Health Check e documentação ---
	mux.HandleFunc("GET /ping", PingHandler)
	mux.Handle("GET /swagger/", httpSwagger.Handler(httpSwagger.URL("/swagger/doc.json")))

	// --- 2. Autenticação ---
	mux.HandleFunc("POST /v1/auth/register", h.User.RegisterUserHandler)
	mux.HandleFunc("POST /v1/auth/login", h.User.LoginUserHandler)
	mux.HandleFunc("POST /v1/auth/refresh", h.User.RefreshTokenHandler)
	mux.HandleFunc("POST /v1/auth/logout", h.User.LogoutHandler)
	mux.HandleFunc("GET /v1/auth/me", authed(h.User.MeHandler))

	// --- 3. Armazéns ---
	mux.HandleFunc("GET /v1/warehouses", authed(h.Warehouse.ListWarehousesHandler))
	mux.HandleFunc("GET /v1/warehouses/{id}", authed(h.Warehouse.GetWarehouseByIDHandler))
	mux.HandleFunc("POST /v1/warehouses", writer(h.Warehouse.CreateWarehouseHandler))
	mux.HandleFunc("PUT /v1/warehouses/{id}", writer(h.Warehouse.UpdateWarehouseHandler))
	mux.HandleFunc("DELETE /v1/warehouses/{id}", admin(h.Warehouse.DeleteWarehouseHandler))

	// --- 4. Produtos e estoque ---
	mux.HandleFunc("GET /v1/products", authed(h.Product.GetProductsHandler))
	mux.HandleFunc("GET /v1/products/{id}", authed(h.Product.GetProductByIDHandler))
	mux.HandleFunc("POST /v1/products", writer(h.Product.CreateProductHandler))
	mux.HandleFunc("PUT /v1/products/{id}", writer(h.Product.UpdateProductHandler))
	mux.HandleFunc("DELETE /v1/products/{id}", writer(h.Product.DeleteProductHandler))

	mux.HandleFunc("GET /v1/inventory", authed(h.Stock.GetStockLevelsHandler))
	mux.HandleFunc("POST /v1/inventory/adjust", writer(h.Stock.AdjustStockHandler))

	// --- 5. Clientes ---
	mux.HandleFunc("GET /v1/customers", authed(h.Customer.ListCustomersHandler))
	mux.HandleFunc("GET /v1/customers/{id}", authed(h.Customer.GetCustomerByIDHandler))
	mux.HandleFunc("POST /v1/customers", writer(h.Customer.CreateCustomerHandler))
	mux.HandleFunc("PUT /v1/customers/{id}", writer(h.Customer.UpdateCustomerHandler))
	mux.HandleFunc("DELETE /v1/customers/{id}", writer(h.Customer.DeleteCustomerHandler))

	// --- 6. Pedidos ---
	mux.HandleFunc("GET /v1/orders", authed(h.Order.ListOrdersHandler))
	mux.HandleFunc("GET /v1/orders/{id}", authed(h.Order.GetOrderByIDHandler))
	mux.HandleFunc("POST /v1/orders", writer(h.Order.CreateOrderHandler))
	mux.HandleFunc("PUT /v1/orders/{id}", writer(h.Order.UpdateOrderHandler))
	mux.HandleFunc("PATCH /v1/orders/{id}/status", writer(h.Order.UpdateOrderStatusHandler))
	mux.HandleFunc("DELETE /v1/orders/{id}", writer(h.Order.DeleteOrderHandler))

	// --- 7. Usuários e papéis ---
	mux.HandleFunc("GET /v1/users", admin(h.User.ListUsersHandler))
	mux.HandleFunc("GET /v1/users/{id}", admin(h.User.GetUserByIDHandler))
	mux.HandleFunc("PUT /v1/users/{id}", admin(h.User.UpdateUserHandler))
	mux.HandleFunc("DELETE /v1/users/{id}", admin(h.User.DeleteUserHandler))
	mux.HandleFunc("GET /v1/roles", authed(h.User.ListRolesHandler))

	// --- 8. Painel ---
	mux.HandleFunc("GET /v1/dashboard/stats", authed(h.Dashboard.StatsHandler))
	mux.HandleFunc("GET /v1/dashboard/low-stock", authed(h.Dashboard.LowStockHandler))
	mux.HandleFunc("GET /v1/dashboard/recent-orders", authed(h.Dashboard.RecentOrdersHandler))
	mux.HandleFunc("GET /v1/dashboard/sales", authed(h.Dashboard.SalesHandler))

	// --- 9. Middlewares globais (o primeiro é o mais externo) ---
	mws := []func(http.Handler) http.Handler{middleware.Recover(opts.Logger)}
	if opts.TracingEnabled {
		mws = append(mws, telemetry.Middleware(opts.ServiceName, "/ping"))
	}
	mws = append(mws,
		middleware.CORS(middleware.DefaultCORSConfig(opts.CORSOrigins)),
		middleware.RequestLogger(opts.Logger),
		middleware.RateLimiter(opts.Cache, opts.RateLimit, opts.RateLimitWindow, opts.Logger),
	)

	return middleware.Chain(mux, mws...)
}

// PingHandler é uma função utilitária para o health check.
func PingHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte("pong"))
}
