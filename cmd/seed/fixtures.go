package main

import (
	"fmt"
	"io"

	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"

	"warehub/internal/domain"
)

// Fixtures é o conteúdo do arquivo YAML de carga.
type Fixtures struct {
	Warehouses []WarehouseFixture `yaml:"warehouses"`
	Products   []ProductFixture   `yaml:"products"`
	Customers  []CustomerFixture  `yaml:"customers"`
}

type AddressFixture struct {
	Street  string `yaml:"street"`
	City    string `yaml:"city"`
	State   string `yaml:"state"`
	Pincode string `yaml:"pincode"`
	Country string `yaml:"country"`
}

func (a AddressFixture) toDomain() domain.Address {
	return domain.Address{Street: a.Street, City: a.City, State: a.State, Pincode: a.Pincode, Country: a.Country}
}

type WarehouseFixture struct {
	Name         string         `yaml:"name"`
	Code         string         `yaml:"code"`
	Status       string         `yaml:"status"`
	Capacity     int            `yaml:"capacity"`
	Occupied     int            `yaml:"occupied"`
	ContactPhone string         `yaml:"contact_phone"`
	ContactEmail string         `yaml:"contact_email"`
	Amenities    []string       `yaml:"amenities"`
	Address      AddressFixture `yaml:"address"`
}

func (w WarehouseFixture) toDomain() domain.Warehouse {
	amenities := w.Amenities
	if amenities == nil {
		amenities = []string{}
	}
	return domain.Warehouse{
		Name:         w.Name,
		Code:         w.Code,
		Status:       domain.WarehouseStatus(w.Status),
		Capacity:     w.Capacity,
		Occupied:     w.Occupied,
		ContactPhone: w.ContactPhone,
		ContactEmail: w.ContactEmail,
		Amenities:    amenities,
		Address:      w.Address.toDomain(),
	}
}

type ProductFixture struct {
	SKU          string `yaml:"sku"`
	Name         string `yaml:"name"`
	Description  string `yaml:"description"`
	Category     string `yaml:"category"`
	Price        string `yaml:"price"`
	CostPrice    string `yaml:"cost_price"`
	Stock        int    `yaml:"stock"`
	Warehouse    string `yaml:"warehouse"` // código do armazém que recebe o estoque inicial
	ReorderLevel int    `yaml:"reorder_level"`
	Unit         string `yaml:"unit"`
}

// toDomain converte os preços; valores monetários ficam como texto no YAML para não passar por float.
// O estoque não vai no cadastro: entra depois, por ajuste no armazém indicado.
func (p ProductFixture) toDomain() (domain.Product, error) {
	price, err := decimal.NewFromString(p.Price)
	if err != nil {
		return domain.Product{}, fmt.Errorf("%s: price inválido %q", p.SKU, p.Price)
	}
	cost := decimal.Zero
	if p.CostPrice != "" {
		if cost, err = decimal.NewFromString(p.CostPrice); err != nil {
			return domain.Product{}, fmt.Errorf("%s: cost_price inválido %q", p.SKU, p.CostPrice)
		}
	}
	return domain.Product{
		SKU:          p.SKU,
		Name:         p.Name,
		Description:  p.Description,
		Category:     p.Category,
		Price:        price,
		CostPrice:    cost,
		ReorderLevel: p.ReorderLevel,
		Unit:         p.Unit,
	}, nil
}

type CustomerFixture struct {
	Name    string          `yaml:"name"`
	Email   string          `yaml:"email"`
	Phone   string          `yaml:"phone"`
	Company string          `yaml:"company"`
	Segment string          `yaml:"segment"`
	Address *AddressFixture `yaml:"address"`
}

func (c CustomerFixture) toDomain() domain.Customer {
	cu := domain.Customer{
		Name:    c.Name,
		Email:   c.Email,
		Phone:   c.Phone,
		Company: c.Company,
		Segment: domain.CustomerSegment(c.Segment),
	}
	if c.Address != nil {
		addr := c.Address.toDomain()
		cu.Address = &addr
	}
	return cu
}

// LoadFixtures lê e valida a estrutura mínima da fixture.
func LoadFixtures(r io.Reader) (Fixtures, error) {
	var fx Fixtures
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&fx); err != nil {
		return Fixtures{}, fmt.Errorf("ler YAML: %w", err)
	}

	seen := make(map[string]bool)
	for _, p := range fx.Products {
		if p.SKU == "" {
			return Fixtures{}, fmt.Errorf("produto %q sem sku", p.Name)
		}
		if seen[p.SKU] {
			return Fixtures{}, fmt.Errorf("sku duplicado: %s", p.SKU)
		}
		seen[p.SKU] = true
		if p.Stock < 0 {
			return Fixtures{}, fmt.Errorf("%s: stock negativo", p.SKU)
		}
		if p.Stock > 0 && p.Warehouse == "" {
			return Fixtures{}, fmt.Errorf("%s: stock inicial exige warehouse", p.SKU)
		}
	}
	return fx, nil
}
