package apiclient

import (
	"context"
	"net/http"
	"net/url"
	"strconv"

	"warehub/internal/domain"
)

// --- Autenticação ---

// Login autentica e guarda o par de tokens no TokenStore.
func (c *Client) Login(ctx context.Context, email, password string) (TokenPair, error) {
	var pair TokenPair
	err := c.do(ctx, http.MethodPost, apiPrefix+"/auth/login", nil, domain.LoginRequest{Email: email, Password: password}, &pair)
	if err != nil {
		return TokenPair{}, err
	}
	c.tokens.SetTokens(pair.AccessToken, pair.RefreshToken)
	return pair, nil
}

func (c *Client) Register(ctx context.Context, reg UserRegistration) (User, error) {
	var u User
	err := c.do(ctx, http.MethodPost, apiPrefix+"/auth/register", nil, reg, &u)
	return u, err
}

// Logout revoga o refresh token atual. Os tokens locais são descartados mesmo em caso de erro.
func (c *Client) Logout(ctx context.Context) error {
	_, refresh := c.tokens.Tokens()
	defer c.tokens.Clear()
	if refresh == "" {
		return nil
	}
	return c.do(ctx, http.MethodPost, apiPrefix+"/auth/logout", nil, domain.RefreshRequest{RefreshToken: refresh}, nil)
}

func (c *Client) Me(ctx context.Context) (User, error) {
	var u User
	err := c.do(ctx, http.MethodGet, apiPrefix+"/auth/me", nil, nil, &u)
	return u, err
}

// --- Armazéns ---

func (c *Client) CreateWarehouse(ctx context.Context, w Warehouse) (Warehouse, error) {
	var out Warehouse
	err := c.do(ctx, http.MethodPost, apiPrefix+"/warehouses", nil, w, &out)
	return out, err
}

func (c *Client) GetWarehouse(ctx context.Context, id string) (Warehouse, error) {
	var out Warehouse
	err := c.do(ctx, http.MethodGet, apiPrefix+"/warehouses/"+url.PathEscape(id), nil, nil, &out)
	return out, err
}

func (c *Client) ListWarehouses(ctx context.Context, opts ListOptions) (Page[Warehouse], error) {
	var out Page[Warehouse]
	err := c.do(ctx, http.MethodGet, apiPrefix+"/warehouses", opts.values(), nil, &out)
	return out, err
}

func (c *Client) UpdateWarehouse(ctx context.Context, id string, w Warehouse) (Warehouse, error) {
	var out Warehouse
	err := c.do(ctx, http.MethodPut, apiPrefix+"/warehouses/"+url.PathEscape(id), nil, w, &out)
	return out, err
}

func (c *Client) DeleteWarehouse(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, apiPrefix+"/warehouses/"+url.PathEscape(id), nil, nil, nil)
}

// --- Produtos e estoque ---

func (c *Client) CreateProduct(ctx context.Context, p Product) (Product, error) {
	var out Product
	err := c.do(ctx, http.MethodPost, apiPrefix+"/products", nil, p, &out)
	return out, err
}

func (c *Client) GetProduct(ctx context.Context, id string) (Product, error) {
	var out Product
	err := c.do(ctx, http.MethodGet, apiPrefix+"/products/"+url.PathEscape(id), nil, nil, &out)
	return out, err
}

func (c *Client) ListProducts(ctx context.Context, opts ListOptions) (Page[Product], error) {
	var out Page[Product]
	err := c.do(ctx, http.MethodGet, apiPrefix+"/products", opts.values(), nil, &out)
	return out, err
}

func (c *Client) UpdateProduct(ctx context.Context, id string, p Product) (Product, error) {
	var out Product
	err := c.do(ctx, http.MethodPut, apiPrefix+"/products/"+url.PathEscape(id), nil, p, &out)
	return out, err
}

func (c *Client) DeleteProduct(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, apiPrefix+"/products/"+url.PathEscape(id), nil, nil, nil)
}

func (c *Client) AdjustStock(ctx context.Context, adj StockAdjustmentRequest) (StockLevel, error) {
	var out StockLevel
	err := c.do(ctx, http.MethodPost, apiPrefix+"/inventory/adjust", nil, adj, &out)
	return out, err
}

func (c *Client) StockLevels(ctx context.Context, productID, warehouseID string) ([]StockLevel, error) {
	q := url.Values{}
	if productID != "" {
		q.Set("product_id", productID)
	}
	if warehouseID != "" {
		q.Set("warehouse_id", warehouseID)
	}
	var out []StockLevel
	err := c.do(ctx, http.MethodGet, apiPrefix+"/inventory", q, nil, &out)
	return out, err
}

// --- Clientes ---

func (c *Client) CreateCustomer(ctx context.Context, cu Customer) (Customer, error) {
	var out Customer
	err := c.do(ctx, http.MethodPost, apiPrefix+"/customers", nil, cu, &out)
	return out, err
}

func (c *Client) GetCustomer(ctx context.Context, id string) (Customer, error) {
	var out Customer
	err := c.do(ctx, http.MethodGet, apiPrefix+"/customers/"+url.PathEscape(id), nil, nil, &out)
	return out, err
}

func (c *Client) ListCustomers(ctx context.Context, opts ListOptions) (Page[Customer], error) {
	var out Page[Customer]
	err := c.do(ctx, http.MethodGet, apiPrefix+"/customers", opts.values(), nil, &out)
	return out, err
}

func (c *Client) UpdateCustomer(ctx context.Context, id string, cu Customer) (Customer, error) {
	var out Customer
	err := c.do(ctx, http.MethodPut, apiPrefix+"/customers/"+url.PathEscape(id), nil, cu, &out)
	return out, err
}

func (c *Client) DeleteCustomer(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, apiPrefix+"/customers/"+url.PathEscape(id), nil, nil, nil)
}

// --- Pedidos ---

func (c *Client) CreateOrder(ctx context.Context, req CreateOrderRequest) (Order, error) {
	var out Order
	err := c.do(ctx, http.MethodPost, apiPrefix+"/orders", nil, req, &out)
	return out, err
}

func (c *Client) GetOrder(ctx context.Context, id string) (Order, error) {
	var out Order
	err := c.do(ctx, http.MethodGet, apiPrefix+"/orders/"+url.PathEscape(id), nil, nil, &out)
	return out, err
}

func (c *Client) ListOrders(ctx context.Context, opts ListOptions) (Page[Order], error) {
	var out Page[Order]
	err := c.do(ctx, http.MethodGet, apiPrefix+"/orders", opts.values(), nil, &out)
	return out, err
}

func (c *Client) UpdateOrder(ctx context.Context, id string, req UpdateOrderRequest) (Order, error) {
	var out Order
	err := c.do(ctx, http.MethodPut, apiPrefix+"/orders/"+url.PathEscape(id), nil, req, &out)
	return out, err
}

func (c *Client) UpdateOrderStatus(ctx context.Context, id string, upd OrderStatusUpdate) (Order, error) {
	var out Order
	err := c.do(ctx, http.MethodPatch, apiPrefix+"/orders/"+url.PathEscape(id)+"/status", nil, upd, &out)
	return out, err
}

func (c *Client) DeleteOrder(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, apiPrefix+"/orders/"+url.PathEscape(id), nil, nil, nil)
}

// --- Painel ---

func (c *Client) DashboardStats(ctx context.Context) (DashboardStats, error) {
	var out DashboardStats
	err := c.do(ctx, http.MethodGet, apiPrefix+"/dashboard/stats", nil, nil, &out)
	return out, err
}

func (c *Client) LowStock(ctx context.Context, limit int) ([]Product, error) {
	var out []Product
	err := c.do(ctx, http.MethodGet, apiPrefix+"/dashboard/low-stock", intQuery("limit", limit), nil, &out)
	return out, err
}

func (c *Client) RecentOrders(ctx context.Context, limit int) ([]Order, error) {
	var out []Order
	err := c.do(ctx, http.MethodGet, apiPrefix+"/dashboard/recent-orders", intQuery("limit", limit), nil, &out)
	return out, err
}

func (c *Client) Sales(ctx context.Context, days int) ([]SalesPoint, error) {
	var out []SalesPoint
	err := c.do(ctx, http.MethodGet, apiPrefix+"/dashboard/sales", intQuery("days", days), nil, &out)
	return out, err
}

func intQuery(key string, v int) url.Values {
	if v <= 0 {
		return nil
	}
	return url.Values{key: []string{strconv.Itoa(v)}}
}
