package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"time"

	"github.com/joho/godotenv"

	"warehub/pkg/apiclient"
)

// Uso: seed -api http://localhost:8080 -file cmd/seed/fixtures.yaml
// Credenciais de um admin/manager via SEED_EMAIL e SEED_PASSWORD.
func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("⚠️ Aviso: .env não encontrado. Usando apenas variáveis do sistema.")
	}

	apiURL := flag.String("api", envOr("SEED_API_URL", "http://localhost:8080"), "URL base da API")
	file := flag.String("file", "cmd/seed/fixtures.yaml", "arquivo YAML com os dados")
	timeout := flag.Duration("timeout", 2*time.Minute, "tempo máximo da carga")
	flag.Parse()

	email, password := os.Getenv("SEED_EMAIL"), os.Getenv("SEED_PASSWORD")
	if email == "" || password == "" {
		log.Fatal("❌ SEED_EMAIL e SEED_PASSWORD devem ser definidos")
	}

	f, err := os.Open(*file)
	if err != nil {
		log.Fatalf("❌ Falha ao abrir %s: %v", *file, err)
	}
	fx, err := LoadFixtures(f)
	f.Close()
	if err != nil {
		log.Fatalf("❌ Fixture inválida: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), *timeout)
	defer cancel()

	client := apiclient.New(*apiURL)
	if _, err := client.Login(ctx, email, password); err != nil {
		log.Fatalf("❌ Login falhou: %v", err)
	}
	defer client.Logout(context.Background())

	report := Seed(ctx, client, fx)
	for _, line := range report.Lines() {
		fmt.Println(line)
	}
	if report.Failed() > 0 {
		os.Exit(1)
	}
}

// Report guarda os totais por recurso. Registros já existentes (409) contam como ignorados.
type Report struct {
	Warehouses apiclient.BulkResult
	Products   apiclient.BulkResult
	Customers  apiclient.BulkResult
	Skipped    int
}

func (r Report) Failed() int {
	return r.Warehouses.Failed + r.Products.Failed + r.Customers.Failed
}

func (r Report) Lines() []string {
	lines := []string{
		fmt.Sprintf("armazéns: %d criados, %d falhas", r.Warehouses.Succeeded, r.Warehouses.Failed),
		fmt.Sprintf("produtos: %d criados, %d falhas", r.Products.Succeeded, r.Products.Failed),
		fmt.Sprintf("clientes: %d criados, %d falhas", r.Customers.Succeeded, r.Customers.Failed),
		fmt.Sprintf("ignorados (já existentes): %d", r.Skipped),
	}
	for _, res := range []apiclient.BulkResult{r.Warehouses, r.Products, r.Customers} {
		for key, err := range res.Errors {
			lines = append(lines, fmt.Sprintf("  ✗ %s: %v", key, err))
		}
	}
	return lines
}

func (r *Report) add(res *apiclient.BulkResult, key string, err error) {
	if apiclient.IsStatus(err, http.StatusConflict) {
		r.Skipped++
		return
	}
	if err == nil {
		res.Succeeded++
		return
	}
	r.fail(res, key, err)
}

func (r *Report) fail(res *apiclient.BulkResult, key string, err error) {
	res.Failed++
	if res.Errors == nil {
		res.Errors = make(map[string]error)
	}
	res.Errors[key] = err
}

// Seed envia os registros da fixture, um a um, na ordem armazéns, produtos, clientes.
// O estoque inicial de cada produto criado entra por ajuste no armazém da fixture.
func Seed(ctx context.Context, client *apiclient.Client, fx Fixtures) Report {
	var report Report
	warehouseIDs := make(map[string]string)

	for _, w := range fx.Warehouses {
		created, err := client.CreateWarehouse(ctx, w.toDomain())
		if err == nil {
			warehouseIDs[w.Code] = created.ID
		}
		report.add(&report.Warehouses, w.Code, err)
	}
	for _, p := range fx.Products {
		prod, err := p.toDomain()
		if err == nil {
			prod, err = client.CreateProduct(ctx, prod)
		}
		// Produto já existente (409) mantém o saldo que tem.
		if err == nil && p.Stock > 0 {
			if stockErr := openingStock(ctx, client, warehouseIDs, prod.ID, p); stockErr != nil {
				report.fail(&report.Products, p.SKU, stockErr)
				continue
			}
		}
		report.add(&report.Products, p.SKU, err)
	}
	for _, c := range fx.Customers {
		_, err := client.CreateCustomer(ctx, c.toDomain())
		report.add(&report.Customers, c.Email, err)
	}

	return report
}

func openingStock(ctx context.Context, client *apiclient.Client, warehouseIDs map[string]string, productID string, p ProductFixture) error {
	whID, ok := warehouseIDs[p.Warehouse]
	if !ok {
		// Armazém criado numa carga anterior: busca pelo código.
		page, err := client.ListWarehouses(ctx, apiclient.ListOptions{Search: p.Warehouse, Limit: 10})
		if err != nil {
			return fmt.Errorf("buscar armazém %s: %w", p.Warehouse, err)
		}
		for _, w := range page.Data {
			if w.Code == p.Warehouse {
				whID = w.ID
				break
			}
		}
		if whID == "" {
			return fmt.Errorf("armazém %s não encontrado", p.Warehouse)
		}
		warehouseIDs[p.Warehouse] = whID
	}

	_, err := client.AdjustStock(ctx, apiclient.StockAdjustmentRequest{
		ProductID:   productID,
		WarehouseID: whID,
		Delta:       p.Stock,
		Reason:      "estoque inicial",
	})
	if err != nil {
		return fmt.Errorf("estoque inicial: %w", err)
	}
	return nil
}

func envOr(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}
