package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config armazena todas as configurações do aplicativo WareHub.
type Config struct {
	// Geral
	Port        string
	Environment string
	LogLevel    string
	ServiceName string

	// Banco de Dados (PostgreSQL)
	DatabaseURL string
	DBTimeout   time.Duration

	// Cache (Redis)
	RedisAddr     string
	RedisPassword string
	RedisDB       int
	CacheTimeout  time.Duration
	CacheTTL      time.Duration

	// Segurança (JWT)
	JWTSecretKey       string
	TokenExpiry        time.Duration
	RefreshTokenExpiry time.Duration

	// Rate Limiting
	RateLimitMaxRequests int
	RateLimitPeriod      time.Duration

	// HTTP
	CORSAllowedOrigins []string
	ShutdownTimeout    time.Duration

	// Observabilidade
	TracingEnabled bool

	// Regras de pedido
	TaxRate               float64
	ShippingFee           float64
	FreeShippingThreshold float64
}

// LookupFunc abstrai os.LookupEnv para permitir testes sem tocar no ambiente do processo.
type LookupFunc func(key string) (string, bool)

// LoadConfig carrega as configurações a partir das variáveis de ambiente.
// Encerra o processo se alguma variável obrigatória estiver ausente.
func LoadConfig() *Config {
	cfg, err := Load(os.LookupEnv)
	if err != nil {
		log.Fatalf("❌ Erro de Configuração: %v", err)
	}
	return cfg
}

// Load monta a configuração usando a função de lookup informada.
func Load(lookup LookupFunc) (*Config, error) {
	e := env{lookup: lookup}

	cfg := &Config{
		// 1. Geral
		Port:        e.get("PORT", "8080"),
		Environment: e.get("ENV", "development"),
		LogLevel:    e.get("LOG_LEVEL", "info"),
		ServiceName: e.get("SERVICE_NAME", "warehub"),

		// 2. Banco de Dados (PostgreSQL)
		DatabaseURL: e.get("DATABASE_URL", ""),
		DBTimeout:   e.duration("DB_TIMEOUT_SEC", 5) * time.Second,

		// 3. Cache (Redis)
		RedisAddr:     e.get("REDIS_ADDR", "localhost:6379"),
		RedisPassword: e.get("REDIS_PASSWORD", ""),
		RedisDB:       e.int("REDIS_DB", 0),
		CacheTimeout:  e.duration("CACHE_TIMEOUT_SEC", 10) * time.Second,
		CacheTTL:      e.duration("CACHE_TTL_SEC", 300) * time.Second,

		// 4. Segurança (JWT)
		JWTSecretKey:       e.get("JWT_SECRET_KEY", ""),
		TokenExpiry:        e.duration("JWT_EXPIRY_MIN", 60) * time.Minute,
		RefreshTokenExpiry: e.duration("REFRESH_EXPIRY_HOURS", 168) * time.Hour,

		// 5. Rate Limiting
		RateLimitMaxRequests: e.int("RATE_LIMIT_MAX_REQUESTS", 100),
		RateLimitPeriod:      e.duration("RATE_LIMIT_PERIOD_MIN", 1) * time.Minute,

		// 6. HTTP
		CORSAllowedOrigins: e.list("CORS_ALLOWED_ORIGINS", []string{"http://localhost:3000"}),
		ShutdownTimeout:    e.duration("SHUTDOWN_TIMEOUT_SEC", 15) * time.Second,

		// 7. Observabilidade
		TracingEnabled: e.bool("TRACING_ENABLED", false),

		// 8. Pedidos
		TaxRate:               e.float("TAX_RATE", 0.18),
		ShippingFee:           e.float("SHIPPING_FEE", 50),
		FreeShippingThreshold: e.float("FREE_SHIPPING_THRESHOLD", 500),
	}

	// Variáveis obrigatórias: sem elas a aplicação não deve iniciar.
	if cfg.DatabaseURL == "" {
		return nil, fmt.Errorf("a variável de ambiente DATABASE_URL deve ser definida")
	}
	if cfg.JWTSecretKey == "" {
		return nil, fmt.Errorf("a variável de ambiente JWT_SECRET_KEY deve ser definida")
	}
	if cfg.TaxRate < 0 {
		return nil, fmt.Errorf("TAX_RATE não pode ser negativo")
	}

	return cfg, nil
}

// Funções Helpers (Auxiliares)

type env struct {
	lookup LookupFunc
}

// get lê a variável de ambiente ou retorna um valor padrão.
func (e env) get(key, defaultValue string) string {
	if value, exists := e.lookup(key); exists {
		return value
	}
	return defaultValue
}

// duration lê uma variável numérica e retorna-a como time.Duration (sem unidade).
func (e env) duration(key string, defaultValue int) time.Duration {
	return time.Duration(e.int(key, defaultValue))
}

// int lê uma variável de ambiente numérica e retorna-a como int.
func (e env) int(key string, defaultValue int) int {
	valueStr := e.get(key, "")
	if valueStr == "" {
		return defaultValue
	}

	value, err := strconv.Atoi(valueStr)
	if err != nil {
		log.Printf("⚠️ Aviso: Valor de %s ('%s') não é um número inteiro válido. Usando padrão (%d).", key, valueStr, defaultValue)
		return defaultValue
	}
	return value
}

func (e env) float(key string, defaultValue float64) float64 {
	valueStr := e.get(key, "")
	if valueStr == "" {
		return defaultValue
	}

	value, err := strconv.ParseFloat(valueStr, 64)
	if err != nil {
		log.Printf("⚠️ Aviso: Valor de %s ('%s') não é um número válido. Usando padrão (%g).", key, valueStr, defaultValue)
		return defaultValue
	}
	return value
}

func (e env) bool(key string, defaultValue bool) bool {
	valueStr := e.get(key, "")
	if valueStr == "" {
		return defaultValue
	}

	value, err := strconv.ParseBool(valueStr)
	if err != nil {
		log.Printf("⚠️ Aviso: Valor de %s ('%s') não é um booleano válido. Usando padrão (%t).", key, valueStr, defaultValue)
		return defaultValue
	}
	return value
}

// list lê uma lista separada por vírgulas, ignorando itens vazios.
func (e env) list(key string, defaultValue []string) []string {
	valueStr := e.get(key, "")
	if valueStr == "" {
		return defaultValue
	}

	var out []string
	for _, item := range strings.Split(valueStr, ",") {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	return out
}
