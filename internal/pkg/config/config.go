package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/FACorreiaa/go-wander/internal/app/domain/flow"
)

type PostgresConfig struct {
	Host     string
	Port     string
	DB       string
	Username string
	Password string
	SSLMode  string
	MaxConns int32
	MinConns int32
}

type RepositoriesConfig struct {
	Postgres PostgresConfig
}

type GeminiConfig struct {
	APIKey      string
	Model       string
	Temperature float32
	// RequestsPerSecond caps outbound AI calls across the process.
	RequestsPerSecond float64
	Burst             int
	// CacheTTL is how long generated itineraries, packing lists and playlists
	// are reused for identical requests.
	CacheTTL time.Duration
}

type HTTPConfig struct {
	ClientSecret      string
	RequestsPerSecond float64
	Burst             int
}

type Config struct {
	Repositories RepositoriesConfig
	Gemini       GeminiConfig
	HTTP         HTTPConfig
	Flow         flow.Config
	ServerPort   string
	MetricsAddr  string
	PprofAddr    string
	OTLPEndpoint string
	LogLevel     string
	HistoryLimit int
	SessionTTL   time.Duration
}

func Load() (*Config, error) {
	defaults := flow.DefaultConfig()

	cfg := &Config{
		Repositories: RepositoriesConfig{
			Postgres: PostgresConfig{
				Host:     getEnvOrDefault("POSTGRES_HOST", "localhost"),
				Port:     getEnvOrDefault("POSTGRES_PORT", "5454"),
				DB:       getEnvOrDefault("POSTGRES_DB", "wander"),
				Username: getEnvOrDefault("POSTGRES_USER", "postgres"),
				Password: getEnvOrDefault("POSTGRES_PASSWORD", ""),
				SSLMode:  getEnvOrDefault("POSTGRES_SSLMODE", "disable"),
				MaxConns: 30,
				MinConns: 5,
			},
		},
		ServerPort:   getEnvOrDefault("SERVER_PORT", "8091"),
		MetricsAddr:  getEnvOrDefault("METRICS_ADDR", ":9092"),
		PprofAddr:    getEnvOrDefault("PPROF_ADDR", ":6060"),
		OTLPEndpoint: os.Getenv("OTEL_EXPORTER_OTLP_ENDPOINT"),
		LogLevel:     getEnvOrDefault("LOG_LEVEL", "info"),
	}

	if cfg.Repositories.Postgres.Password == "" {
		return nil, fmt.Errorf("POSTGRES_PASSWORD environment variable is required")
	}

	p := parser{}

	cfg.Gemini = GeminiConfig{
		APIKey:            os.Getenv("GEMINI_API_KEY"),
		Model:             getEnvOrDefault("GEMINI_MODEL", "gemini-2.5-flash"),
		Temperature:       float32(p.float("GEMINI_TEMPERATURE", 0.7)),
		RequestsPerSecond: p.float("GEMINI_RPS", 2),
		Burst:             p.int("GEMINI_BURST", 4),
		CacheTTL:          p.duration("GEMINI_CACHE_TTL", 30*time.Minute),
	}
	cfg.HTTP = HTTPConfig{
		ClientSecret:      getEnvOrDefault("CLIENT_TOKEN_SECRET", "change-me"),
		RequestsPerSecond: p.float("HTTP_RPS", 10),
		Burst:             p.int("HTTP_BURST", 20),
	}
	cfg.Flow = flow.Config{
		PrepareDelay:    p.duration("FLOW_PREPARE_DELAY", defaults.PrepareDelay),
		SearchDwell:     p.duration("FLOW_SEARCH_DWELL", defaults.SearchDwell),
		ResolveDelay:    p.duration("FLOW_RESOLVE_DELAY", defaults.ResolveDelay),
		LockDelay:       p.duration("FLOW_LOCK_DELAY", defaults.LockDelay),
		ZoomDelay:       p.duration("FLOW_ZOOM_DELAY", defaults.ZoomDelay),
		ScanDuration:    p.duration("FLOW_SCAN_DURATION", defaults.ScanDuration),
		MessageInterval: p.duration("FLOW_MESSAGE_INTERVAL", defaults.MessageInterval),
		Messages:        defaults.Messages,
		ResolveTimeout:  p.duration("FLOW_RESOLVE_TIMEOUT", 0),
	}
	cfg.HistoryLimit = p.int("HISTORY_LIMIT", 5)
	cfg.SessionTTL = p.duration("SESSION_TTL", 15*time.Minute)

	if p.err != nil {
		return nil, p.err
	}
	if cfg.HistoryLimit < 1 {
		return nil, fmt.Errorf("HISTORY_LIMIT must be positive, got %d", cfg.HistoryLimit)
	}

	return cfg, nil
}

// DSN returns the libpq style connection string for the Postgres section.
func (p PostgresConfig) DSN() string {
	return fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s pool_max_conns=%d pool_min_conns=%d",
		p.Host, p.Port, p.Username, p.Password, p.DB, p.SSLMode, p.MaxConns, p.MinConns)
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// parser keeps the first conversion error so Load can report it once.
type parser struct {
	err error
}

func (p *parser) duration(key string, def time.Duration) time.Duration {
	raw := os.Getenv(key)
	if raw == "" {
		return def
	}
	d, err := time.ParseDuration(raw)
	if err != nil {
		p.fail(key, err)
		return def
	}
	return d
}

func (p *parser) int(key string, def int) int {
	raw := os.Getenv(key)
	if raw == "" {
		return def
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		p.fail(key, err)
		return def
	}
	return v
}

func (p *parser) float(key string, def float64) float64 {
	raw := os.Getenv(key)
	if raw == "" {
		return def
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		p.fail(key, err)
		return def
	}
	return v
}

func (p *parser) fail(key string, err error) {
	if p.err == nil {
		p.err = fmt.Errorf("invalid %s: %w", key, err)
	}
}
