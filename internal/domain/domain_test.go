package domain_test

import (
	"math"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"warehub/internal/domain"
)

func TestListParams_Normalize(t *testing.T) {
	p := domain.ListParams{Page: 0, Limit: 500, Order: "ASC", Search: "  pune "}
	p.Normalize()

	assert.Equal(t, 1, p.Page)
	assert.Equal(t, domain.MaxLimit, p.Limit)
	assert.Equal(t, domain.SortAsc, p.Order)
	assert.Equal(t, "pune", p.Search)

	p = domain.ListParams{Page: 3, Limit: 0, Order: "sideways"}
	p.Normalize()
	assert.Equal(t, domain.DefaultLimit, p.Limit)
	assert.Equal(t, domain.SortDesc, p.Order)
	assert.Equal(t, 20, p.Offset())
}

func TestListParams_HugePageKeepsOffsetPositive(t *testing.T) {
	p := domain.ListParams{Page: math.MaxInt64 / 50, Limit: 100}
	p.Normalize()

	assert.Equal(t, domain.MaxPage, p.Page)
	assert.Positive(t, p.Offset())
	assert.LessOrEqual(t, p.Offset(), math.MaxInt32)
}

func TestNewPage(t *testing.T) {
	params := domain.ListParams{Page: 2, Limit: 10}
	page := domain.NewPage([]int{1, 2, 3}, params, 23)

	assert.Len(t, page.Data, 3)
	assert.Equal(t, 3, page.Pagination.TotalPages)
	assert.Equal(t, 23, page.Pagination.Total)

	empty := domain.NewPage[int](nil, params, 0)
	assert.NotNil(t, empty.Data)
	assert.Equal(t, 0, empty.Pagination.TotalPages)
}

func TestWarehouse_NormalizeAndUtilization(t *testing.T) {
	w := domain.Warehouse{Code: " blr-01 ", Capacity: 300, Occupied: 100, Amenities: []string{" dock "}}
	w.Normalize()
	w.ComputeUtilization()

	assert.Equal(t, "BLR-01", w.Code)
	assert.Equal(t, domain.WarehouseActive, w.Status)
	assert.Equal(t, "India", w.Address.Country)
	assert.Equal(t, []string{"dock"}, w.Amenities)
	assert.InDelta(t, 33.33, w.Utilization, 1e-9)

	empty := domain.Warehouse{}
	empty.ComputeUtilization()
	assert.Zero(t, empty.Utilization)
}

func TestPricing_ApplyTotals(t *testing.T) {
	pricing := domain.Pricing{
		TaxRate:               decimal.RequireFromString("0.18"),
		ShippingFee:           decimal.NewFromInt(50),
		FreeShippingThreshold: decimal.NewFromInt(500),
	}

	order := domain.Order{Items: []domain.OrderItem{
		{Quantity: 2, UnitPrice: decimal.RequireFromString("99.99")},
		{Quantity: 1, UnitPrice: decimal.RequireFromString("50.00")},
	}}
	pricing.ApplyTotals(&order)

	assert.Equal(t, "199.98", order.Items[0].LineTotal.StringFixed(2))
	assert.Equal(t, "249.98", order.Subtotal.StringFixed(2))
	assert.Equal(t, "45.00", order.Tax.StringFixed(2))
	assert.Equal(t, "50.00", order.ShippingCost.StringFixed(2))
	assert.Equal(t, "344.98", order.Total.StringFixed(2))

	big := domain.Order{Items: []domain.OrderItem{{Quantity: 5, UnitPrice: decimal.NewFromInt(100)}}}
	pricing.ApplyTotals(&big)
	assert.True(t, big.ShippingCost.IsZero())
	assert.Equal(t, "590.00", big.Total.StringFixed(2))
}

func TestUserRole_IsValid(t *testing.T) {
	assert.True(t, domain.RoleManager.IsValid())
	assert.False(t, domain.UserRole("root").IsValid())
	assert.Len(t, domain.Roles(), 4)
}
