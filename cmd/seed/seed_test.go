package main

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"warehub/internal/domain"
	"warehub/pkg/apiclient"
)

func TestLoadFixtures_BundledFile(t *testing.T) {
	f, err := os.Open("fixtures.yaml")
	require.NoError(t, err)
	defer f.Close()

	fx, err := LoadFixtures(f)
	require.NoError(t, err)
	assert.Len(t, fx.Warehouses, 3)
	assert.Len(t, fx.Products, 4)
	assert.Len(t, fx.Customers, 3)

	p, err := fx.Products[3].toDomain()
	require.NoError(t, err)
	assert.Equal(t, "35.5", p.Price.String())
}

func TestLoadFixtures_Rejects(t *testing.T) {
	tests := []struct {
		name string
		yaml string
	}{
		{"campo desconhecido", "warehouses:\n  - name: X\n    colour: red\n"},
		{"sku duplicado", "products:\n  - sku: A1\n    price: \"1\"\n  - sku: A1\n    price: \"2\"\n"},
		{"produto sem sku", "products:\n  - name: Sem código\n    price: \"1\"\n"},
		{"estoque sem armazém", "products:\n  - sku: A1\n    price: \"1\"\n    stock: 5\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := LoadFixtures(strings.NewReader(tt.yaml))
			assert.Error(t, err)
		})
	}
}

func TestSeed_TalliesConflictsAsSkipped(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		switch r.URL.Path {
		case "/v1/warehouses":
			var wh domain.Warehouse
			require.NoError(t, json.NewDecoder(r.Body).Decode(&wh))
			if wh.Code == "WH-DUP" {
				w.WriteHeader(http.StatusConflict)
				_, _ = w.Write([]byte(`{"code":409,"category":"CONFLICT","message":"código em uso"}`))
				return
			}
			w.WriteHeader(http.StatusCreated)
			_ = json.NewEncoder(w).Encode(wh)
		case "/v1/products":
			w.WriteHeader(http.StatusBadRequest)
			_, _ = w.Write([]byte(`{"code":400,"category":"VALIDATION_ERROR","message":"inválido"}`))
		default:
			w.WriteHeader(http.StatusCreated)
			_, _ = w.Write([]byte(`{}`))
		}
	}))
	defer srv.Close()

	fx := Fixtures{
		Warehouses: []WarehouseFixture{{Code: "WH-NEW"}, {Code: "WH-DUP"}},
		Products:   []ProductFixture{{SKU: "P1", Price: "10"}, {SKU: "P2", Price: "abc"}},
		Customers:  []CustomerFixture{{Email: "a@b.in"}},
	}

	client := apiclient.New(srv.URL, apiclient.WithHTTPClient(srv.Client()))
	report := Seed(context.Background(), client, fx)

	assert.Equal(t, 1, report.Warehouses.Succeeded)
	assert.Equal(t, 1, report.Skipped)
	assert.Equal(t, 2, report.Products.Failed)
	assert.Contains(t, report.Products.Errors, "P2")
	assert.Equal(t, 1, report.Customers.Succeeded)
	assert.Equal(t, 2, report.Failed())
}

func TestSeed_OpeningStockGoesThroughInventory(t *testing.T) {
	var adjustments []domain.StockAdjustmentRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		switch {
		case r.Method == http.MethodPost && r.URL.Path == "/v1/warehouses":
			var wh domain.Warehouse
			require.NoError(t, json.NewDecoder(r.Body).Decode(&wh))
			if wh.Code == "WH-OLD" {
				w.WriteHeader(http.StatusConflict)
				_, _ = w.Write([]byte(`{"code":409,"category":"CONFLICT","message":"código em uso"}`))
				return
			}
			wh.ID = "wh-new-id"
			w.WriteHeader(http.StatusCreated)
			_ = json.NewEncoder(w).Encode(wh)
		case r.Method == http.MethodGet && r.URL.Path == "/v1/warehouses":
			assert.Equal(t, "WH-OLD", r.URL.Query().Get("search"))
			_ = json.NewEncoder(w).Encode(domain.NewPage([]domain.Warehouse{{ID: "wh-old-id", Code: "WH-OLD"}}, domain.ListParams{Page: 1, Limit: 10}, 1))
		case r.URL.Path == "/v1/products":
			var p domain.Product
			require.NoError(t, json.NewDecoder(r.Body).Decode(&p))
			assert.Zero(t, p.Stock)
			p.ID = "id-" + p.SKU
			w.WriteHeader(http.StatusCreated)
			_ = json.NewEncoder(w).Encode(p)
		case r.URL.Path == "/v1/inventory/adjust":
			var adj domain.StockAdjustmentRequest
			require.NoError(t, json.NewDecoder(r.Body).Decode(&adj))
			adjustments = append(adjustments, adj)
			_ = json.NewEncoder(w).Encode(domain.StockLevel{ProductID: adj.ProductID, WarehouseID: adj.WarehouseID, Quantity: adj.Delta})
		default:
			http.NotFound(w, r)
		}
	}))
	defer srv.Close()

	fx := Fixtures{
		Warehouses: []WarehouseFixture{{Code: "WH-NEW"}, {Code: "WH-OLD"}},
		Products: []ProductFixture{
			{SKU: "P1", Price: "10", Stock: 40, Warehouse: "WH-NEW"},
			{SKU: "P2", Price: "5", Stock: 7, Warehouse: "WH-OLD"},
			{SKU: "P3", Price: "1"},
		},
	}

	client := apiclient.New(srv.URL, apiclient.WithHTTPClient(srv.Client()))
	report := Seed(context.Background(), client, fx)

	assert.Equal(t, 3, report.Products.Succeeded)
	assert.Zero(t, report.Failed())
	require.Len(t, adjustments, 2)
	assert.Equal(t, domain.StockAdjustmentRequest{ProductID: "id-P1", WarehouseID: "wh-new-id", Delta: 40, Reason: "estoque inicial"}, adjustments[0])
	assert.Equal(t, domain.StockAdjustmentRequest{ProductID: "id-P2", WarehouseID: "wh-old-id", Delta: 7, Reason: "estoque inicial"}, adjustments[1])
}
