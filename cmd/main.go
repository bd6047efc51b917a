package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"

	// Nossos pacotes de infraestrutura e utilitários
	"warehub/config"
	"warehub/internal/domain"
	"warehub/internal/pkg/cache"
	"warehub/internal/pkg/database"
	"warehub/internal/pkg/logger"
	"warehub/internal/pkg/middleware"
	"warehub/internal/pkg/telemetry"
	"warehub/internal/pkg/token"
	"warehub/internal/pkg/validation"

	// Handlers
	"warehub/internal/api/customer"
	"warehub/internal/api/dashboard"
	"warehub/internal/api/order"
	"warehub/internal/api/product"
	"warehub/internal/api/router"
	"warehub/internal/api/stock"
	"warehub/internal/api/user"
	"warehub/internal/api/warehouse"

	// Acesso a Dados
	"warehub/internal/repository/customerrepo"
	"warehub/internal/repository/dashboardrepo"
	"warehub/internal/repository/orderrepo"
	"warehub/internal/repository/productrepo"
	"warehub/internal/repository/sessionrepo"
	"warehub/internal/repository/stockrepo"
	"warehub/internal/repository/userrepo"
	"warehub/internal/repository/warehouserepo"

	// Lógica de Negócio
	"warehub/internal/service/customerservice"
	"warehub/internal/service/dashboardservice"
	"warehub/internal/service/orderservice"
	"warehub/internal/service/productservice"
	"warehub/internal/service/stockservice"
	"warehub/internal/service/userservice"
	"warehub/internal/service/warehouseservice"
)

// @title WareHub API
// @version 1.0
// @description API de gestão de armazéns, estoque, clientes e pedidos.
// @BasePath /v1
// @securityDefinitions.apikey ApiKeyAuth
// @in header
// @name Authorization
func main() {
	// 1. Configuração e Inicialização
	log.Println("⚡ Inicializando serviço WareHub...")
	if err := godotenv.Load(); err != nil {
		// As variáveis podem vir do ambiente do sistema (ex: Docker).
		log.Println("⚠️ Aviso: Arquivo .env não encontrado ou erro de leitura. Carregando configs apenas do ambiente do sistema.")
	}

	cfg := config.LoadConfig()
	log := logger.NewLogger(cfg.LogLevel)
	log.Info("Configurações carregadas.", map[string]interface{}{"env": cfg.Environment})

	shutdownTracing, err := telemetry.Init(cfg.ServiceName, cfg.TracingEnabled)
	if err != nil {
		log.Fatal("Falha ao inicializar o tracing.", err)
	}

	// 2. Conexão com Recursos de Infraestrutura

	// A. Banco de Dados (PostgreSQL)
	db, err := database.NewPostgresDB(cfg.DatabaseURL)
	if err != nil {
		log.Fatal("Falha ao conectar ao banco de dados.", err)
	}
	defer db.Close()
	log.Info("Conexão PostgreSQL estabelecida.", nil)

	// B. Cache (Redis). Fora do ar em desenvolvimento, usamos o cache em memória.
	cacheClient, err := cache.NewRedisClient(cache.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	})
	if err != nil {
		if cfg.Environment == "production" {
			log.Fatal("Falha ao conectar ao Redis.", err)
		}
		log.Warn("Redis indisponível; usando cache em memória.", map[string]interface{}{"addr": cfg.RedisAddr, "error": err.Error()})
		cacheClient.Close()
		cacheClient = cache.NewMemoryClient()
	} else {
		log.Info("Conexão Redis estabelecida.", nil)
	}
	defer cacheClient.Close()

	// 3. INJEÇÃO DE DEPENDÊNCIAS
	// Ordem: Repository -> Service -> Handler
	validator := validation.New()
	tokenSvc := token.NewService(cfg.JWTSecretKey, cfg.TokenExpiry, cfg.RefreshTokenExpiry)
	pricing := domain.Pricing{
		TaxRate:               decimal.NewFromFloat(cfg.TaxRate),
		ShippingFee:           decimal.NewFromFloat(cfg.ShippingFee),
		FreeShippingThreshold: decimal.NewFromFloat(cfg.FreeShippingThreshold),
	}

	// A. Repositórios
	warehouseRepo := warehouserepo.NewWarehouseRepository(db, cfg.DBTimeout, log)
	productRepo := productrepo.NewProductRepository(db, cacheClient, cfg.DBTimeout, cfg.CacheTTL, log)
	stockRepo := stockrepo.NewStockRepository(db, cfg.DBTimeout, log)
	customerRepo := customerrepo.NewCustomerRepository(db, cfg.DBTimeout, log)
	orderRepo := orderrepo.NewOrderRepository(db, cfg.DBTimeout, log)
	userRepo := userrepo.NewUserRepository(db, cfg.DBTimeout, log)
	sessionRepo := sessionrepo.NewSessionRepository(cacheClient, cfg.CacheTimeout, log)
	dashboardRepo := dashboardrepo.NewDashboardRepository(db, cfg.DBTimeout, log)
	log.Debug("Repositórios inicializados.", nil)

	// B. Serviços
	warehouseSvc := warehouseservice.NewService(warehouseRepo, validator, log)
	productSvc := productservice.NewService(productRepo, validator, log)
	stockSvc := stockservice.NewService(stockRepo, productRepo, validator, log)
	customerSvc := customerservice.NewService(customerRepo, validator, log)
	orderSvc := orderservice.NewService(orderRepo, productRepo, pricing, validator, log)
	userSvc := userservice.NewService(userRepo, sessionRepo, tokenSvc, validator, log)
	dashboardSvc := dashboardservice.NewService(dashboardRepo, productRepo, orderRepo, cacheClient, cfg.CacheTTL, log)
	log.Debug("Serviços inicializados.", nil)

	// C. Handlers
	handlers := router.Handlers{
		Warehouse: warehouse.NewHandler(warehouseSvc, log),
		Product:   product.NewHandler(productSvc, log),
		Stock:     stock.NewHandler(stockSvc, log),
		Customer:  customer.NewHandler(customerSvc, log),
		Order:     order.NewHandler(orderSvc, log),
		User:      user.NewHandler(userSvc, log),
		Dashboard: dashboard.NewHandler(dashboardSvc, log),
	}

	// 4. Configuração e Início do Roteador/Servidor
	r := router.NewRouter(handlers, router.Options{
		Auth:            middleware.NewAuth(tokenSvc, userSvc, log),
		Cache:           cacheClient,
		RateLimit:       cfg.RateLimitMaxRequests,
		RateLimitWindow: cfg.RateLimitPeriod,
		CORSOrigins:     cfg.CORSAllowedOrigins,
		TracingEnabled:  cfg.TracingEnabled,
		ServiceName:     cfg.ServiceName,
		Logger:          log,
	})

	server := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      r,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// 5. Execução e Graceful Shutdown
	go func() {
		log.Info("Servidor WareHub ouvindo na porta", map[string]interface{}{"port": cfg.Port})
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("Servidor falhou.", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	<-quit
	log.Info("Sinal de encerramento recebido. Desligando servidor...", nil)

	ctx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		log.Error("Desligamento do servidor forçado.", err)
	}
	if err := shutdownTracing(ctx); err != nil {
		log.Error("Falha ao descarregar os traces.", err)
	}

	log.Info("Servidor encerrado com sucesso.", nil)
}
