package bootstrap

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	httpadapter "github.com/kartik99Lm10/SuckDSA/internal/adapters/http"
)

const (
	StoreMemory   = "memory"
	StorePostgres = "postgres"
	StoreMongo    = "mongo"

	devJWTSecret = "suckdsa-savage-secret"
)

// Config is the resolved runtime configuration.
type Config struct {
	Environment string
	LogLevel    string
	HTTPPort    int
	BaseURL     string

	// TrustedProxies lists the IPs or CIDRs allowed to set X-Forwarded-For.
	TrustedProxies []string

	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	ShutdownTimeout time.Duration

	JWTSecret        string
	TokenTTL         time.Duration
	BcryptCost       int
	RegistrationMode string
	OTPTTL           time.Duration

	StoreDriver   string
	DatabaseURL   string
	MongoURL      string
	MongoDatabase string
	MaxDBConns    int32
	RedisURL      string

	SMTPHost      string
	SMTPPort      int
	EmailUser     string
	EmailPass     string
	EmailFromName string

	CompletionProvider string
	CompletionModel    string
	CompletionAPIKey   string
	CompletionTimeout  time.Duration
	CompletionRPS      float64
	CompletionBurst    int

	KafkaBrokers     []string
	KafkaTopicPrefix string
	OTLPEndpoint     string

	GlobalRateLimit  int
	GlobalRateWindow time.Duration
	ChatRateLimit    int
	ChatRateWindow   time.Duration
}

// configFile mirrors the YAML schema used by configs/default.yaml.
type configFile struct {
	Service struct {
		Environment string `yaml:"environment"`
		HTTPPort    int    `yaml:"http_port"`
		LogLevel    string `yaml:"log_level"`
		BaseURL     string `yaml:"base_url"`

		TrustedProxies []string `yaml:"trusted_proxies"`
	} `yaml:"service"`
	Auth struct {
		RegistrationMode string `yaml:"registration_mode"`
		OTPTTL           string `yaml:"otp_ttl"`
		TokenTTL         string `yaml:"token_ttl"`
		BcryptCost       int    `yaml:"bcrypt_cost"`
	} `yaml:"auth"`
	Storage struct {
		Driver        string `yaml:"driver"`
		PostgresURL   string `yaml:"postgres_url"`
		MongoURL      string `yaml:"mongo_url"`
		MongoDatabase string `yaml:"mongo_database"`
		RedisURL      string `yaml:"redis_url"`
	} `yaml:"storage"`
	Mail struct {
		SMTPHost string `yaml:"smtp_host"`
		SMTPPort int    `yaml:"smtp_port"`
		FromName string `yaml:"from_name"`
	} `yaml:"mail"`
	Completion struct {
		Provider          string  `yaml:"provider"`
		Model             string  `yaml:"model"`
		Timeout           string  `yaml:"timeout"`
		RequestsPerSecond float64 `yaml:"requests_per_second"`
		Burst             int     `yaml:"burst"`
	} `yaml:"completion"`
	Events struct {
		KafkaBrokers []string `yaml:"kafka_brokers"`
		TopicPrefix  string   `yaml:"topic_prefix"`
	} `yaml:"events"`
	Telemetry struct {
		OTLPEndpoint string `yaml:"otlp_endpoint"`
	} `yaml:"telemetry"`
	RateLimit struct {
		GlobalLimit  int    `yaml:"global_limit"`
		GlobalWindow string `yaml:"global_window"`
		ChatLimit    int    `yaml:"chat_limit"`
		ChatWindow   string `yaml:"chat_window"`
	} `yaml:"rate_limit"`
}

func defaultConfig() Config {
	return Config{
		Environment:        "development",
		LogLevel:           "info",
		HTTPPort:           8001,
		ReadTimeout:        15 * time.Second,
		WriteTimeout:       60 * time.Second,
		ShutdownTimeout:    10 * time.Second,
		TokenTTL:           7 * 24 * time.Hour,
		BcryptCost:         12,
		OTPTTL:             5 * time.Minute,
		MongoDatabase:      "suckdsa",
		MaxDBConns:         10,
		SMTPHost:           "smtp.gmail.com",
		SMTPPort:           587,
		EmailFromName:      "SuckDSA",
		CompletionProvider: "gemini",
		CompletionTimeout:  30 * time.Second,
		CompletionRPS:      5,
		CompletionBurst:    5,
		KafkaTopicPrefix:   "suckdsa",
		GlobalRateLimit:    100,
		GlobalRateWindow:   15 * time.Minute,
		ChatRateLimit:      10,
		ChatRateWindow:     time.Minute,
	}
}

// LoadConfig resolves configuration in priority order: defaults -> file -> env.
// A missing file is not an error.
func LoadConfig(path string) (Config, error) {
	cfg := defaultConfig()

	raw, err := os.ReadFile(path)
	if err == nil {
		if err := applyFile(&cfg, raw); err != nil {
			return Config{}, err
		}
	} else if !os.IsNotExist(err) {
		return Config{}, fmt.Errorf("read config file: %w", err)
	}

	if err := applyEnv(&cfg); err != nil {
		return Config{}, err
	}
	if cfg.StoreDriver == "" {
		cfg.StoreDriver = inferStoreDriver(cfg)
	}
	if cfg.JWTSecret == "" && !cfg.IsProduction() {
		cfg.JWTSecret = devJWTSecret
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func applyFile(cfg *Config, raw []byte) error {
	var f configFile
	if err := yaml.Unmarshal(raw, &f); err != nil {
		return fmt.Errorf("parse config file: %w", err)
	}
	setString(&cfg.Environment, f.Service.Environment)
	setString(&cfg.LogLevel, f.Service.LogLevel)
	setString(&cfg.BaseURL, f.Service.BaseURL)
	if f.Service.HTTPPort > 0 {
		cfg.HTTPPort = f.Service.HTTPPort
	}
	if len(f.Service.TrustedProxies) > 0 {
		cfg.TrustedProxies = f.Service.TrustedProxies
	}

	setString(&cfg.RegistrationMode, f.Auth.RegistrationMode)
	if f.Auth.BcryptCost > 0 {
		cfg.BcryptCost = f.Auth.BcryptCost
	}

	setString(&cfg.StoreDriver, f.Storage.Driver)
	setString(&cfg.DatabaseURL, f.Storage.PostgresURL)
	setString(&cfg.MongoURL, f.Storage.MongoURL)
	setString(&cfg.MongoDatabase, f.Storage.MongoDatabase)
	setString(&cfg.RedisURL, f.Storage.RedisURL)

	setString(&cfg.SMTPHost, f.Mail.SMTPHost)
	setString(&cfg.EmailFromName, f.Mail.FromName)
	if f.Mail.SMTPPort > 0 {
		cfg.SMTPPort = f.Mail.SMTPPort
	}

	setString(&cfg.CompletionProvider, f.Completion.Provider)
	setString(&cfg.CompletionModel, f.Completion.Model)
	if f.Completion.RequestsPerSecond > 0 {
		cfg.CompletionRPS = f.Completion.RequestsPerSecond
	}
	if f.Completion.Burst > 0 {
		cfg.CompletionBurst = f.Completion.Burst
	}

	if len(f.Events.KafkaBrokers) > 0 {
		cfg.KafkaBrokers = f.Events.KafkaBrokers
	}
	setString(&cfg.KafkaTopicPrefix, f.Events.TopicPrefix)
	setString(&cfg.OTLPEndpoint, f.Telemetry.OTLPEndpoint)

	if f.RateLimit.GlobalLimit > 0 {
		cfg.GlobalRateLimit = f.RateLimit.GlobalLimit
	}
	if f.RateLimit.ChatLimit > 0 {
		cfg.ChatRateLimit = f.RateLimit.ChatLimit
	}

	durations := []struct {
		name string
		raw  string
		dst  *time.Duration
	}{
		{"auth.otp_ttl", f.Auth.OTPTTL, &cfg.OTPTTL},
		{"auth.token_ttl", f.Auth.TokenTTL, &cfg.TokenTTL},
		{"completion.timeout", f.Completion.Timeout, &cfg.CompletionTimeout},
		{"rate_limit.global_window", f.RateLimit.GlobalWindow, &cfg.GlobalRateWindow},
		{"rate_limit.chat_window", f.RateLimit.ChatWindow, &cfg.ChatRateWindow},
	}
	for _, d := range durations {
		if strings.TrimSpace(d.raw) == "" {
			continue
		}
		v, err := time.ParseDuration(d.raw)
		if err != nil {
			return fmt.Errorf("parse %s: %w", d.name, err)
		}
		*d.dst = v
	}
	return nil
}

func applyEnv(cfg *Config) error {
	cfg.Environment = envOrDefault("SUCKDSA_ENV", envOrDefault("NODE_ENV", cfg.Environment))
	cfg.LogLevel = envOrDefault("LOG_LEVEL", cfg.LogLevel)
	cfg.HTTPPort = envInt("PORT", cfg.HTTPPort)
	cfg.BaseURL = envOrDefault("BASE_URL", cfg.BaseURL)

	cfg.JWTSecret = envOrDefault("JWT_SECRET", cfg.JWTSecret)
	cfg.BcryptCost = envInt("BCRYPT_ROUNDS", cfg.BcryptCost)
	cfg.RegistrationMode = strings.ToLower(strings.TrimSpace(envOrDefault("REGISTRATION_MODE", cfg.RegistrationMode)))

	cfg.StoreDriver = strings.ToLower(strings.TrimSpace(envOrDefault("STORE_DRIVER", cfg.StoreDriver)))
	cfg.DatabaseURL = envOrDefault("DATABASE_URL", cfg.DatabaseURL)
	cfg.MongoURL = envOrDefault("MONGO_URL", cfg.MongoURL)
	cfg.MongoDatabase = envOrDefault("MONGO_DATABASE", cfg.MongoDatabase)
	cfg.MaxDBConns = int32(envInt("DB_MAX_CONNS", int(cfg.MaxDBConns)))
	cfg.RedisURL = envOrDefault("REDIS_URL", envOrDefault("REDIS_ADDR", cfg.RedisURL))

	cfg.SMTPHost = envOrDefault("SMTP_HOST", cfg.SMTPHost)
	cfg.SMTPPort = envInt("SMTP_PORT", cfg.SMTPPort)
	cfg.EmailUser = envOrDefault("EMAIL_USER", cfg.EmailUser)
	cfg.EmailPass = envOrDefault("EMAIL_PASS", cfg.EmailPass)

	cfg.CompletionProvider = strings.ToLower(strings.TrimSpace(envOrDefault("COMPLETION_PROVIDER", cfg.CompletionProvider)))
	cfg.CompletionModel = envOrDefault("COMPLETION_MODEL", cfg.CompletionModel)
	cfg.CompletionAPIKey = envOrDefault("COMPLETION_API_KEY", envOrDefault("GEMINI_API_KEY", cfg.CompletionAPIKey))

	cfg.KafkaBrokers = envCSV("KAFKA_BROKERS", cfg.KafkaBrokers)
	cfg.OTLPEndpoint = envOrDefault("OTEL_EXPORTER_OTLP_ENDPOINT", cfg.OTLPEndpoint)

	cfg.TrustedProxies = envCSV("TRUSTED_PROXIES", cfg.TrustedProxies)
	cfg.GlobalRateLimit = envInt("RATE_LIMIT_GLOBAL", cfg.GlobalRateLimit)
	cfg.ChatRateLimit = envInt("RATE_LIMIT_CHAT", cfg.ChatRateLimit)

	durations := []struct {
		name string
		dst  *time.Duration
	}{
		{"OTP_TTL", &cfg.OTPTTL},
		{"TOKEN_TTL", &cfg.TokenTTL},
		{"COMPLETION_TIMEOUT", &cfg.CompletionTimeout},
	}
	for _, d := range durations {
		v, err := envDuration(d.name, *d.dst)
		if err != nil {
			return err
		}
		*d.dst = v
	}
	return nil
}

func inferStoreDriver(cfg Config) string {
	switch {
	case cfg.MongoURL != "":
		return StoreMongo
	case cfg.DatabaseURL != "":
		return StorePostgres
	default:
		return StoreMemory
	}
}

func (c Config) IsProduction() bool {
	return strings.EqualFold(c.Environment, "production")
}

// EffectiveRegistrationMode applies the production default when no mode is configured.
func (c Config) EffectiveRegistrationMode() string {
	if c.RegistrationMode != "" {
		return c.RegistrationMode
	}
	if c.IsProduction() {
		return "direct"
	}
	return "otp"
}

func (c Config) MailConfigured() bool {
	return c.EmailUser != "" && c.EmailPass != ""
}

// Validate rejects combinations that cannot start.
func (c Config) Validate() error {
	if c.HTTPPort <= 0 || c.HTTPPort > 65535 {
		return fmt.Errorf("invalid http port %d", c.HTTPPort)
	}
	switch c.StoreDriver {
	case StoreMemory:
	case StorePostgres:
		if c.DatabaseURL == "" {
			return fmt.Errorf("store driver postgres requires DATABASE_URL")
		}
	case StoreMongo:
		if c.MongoURL == "" {
			return fmt.Errorf("store driver mongo requires MONGO_URL")
		}
	default:
		return fmt.Errorf("unknown store driver %q", c.StoreDriver)
	}
	switch c.RegistrationMode {
	case "", "otp", "direct":
	default:
		return fmt.Errorf("unknown registration mode %q", c.RegistrationMode)
	}
	switch c.CompletionProvider {
	case "gemini", "openai", "anthropic", "ollama", "none":
	default:
		return fmt.Errorf("unknown completion provider %q", c.CompletionProvider)
	}
	if c.JWTSecret == "" {
		return fmt.Errorf("missing JWT_SECRET")
	}
	if c.OTPTTL <= 0 || c.TokenTTL <= 0 {
		return fmt.Errorf("otp and token ttl must be positive")
	}
	if c.GlobalRateLimit <= 0 || c.ChatRateLimit <= 0 {
		return fmt.Errorf("rate limits must be positive")
	}
	if c.SMTPPort <= 0 || c.SMTPPort > 65535 {
		return fmt.Errorf("invalid smtp port %d", c.SMTPPort)
	}
	if _, err := httpadapter.ParseTrustedProxies(c.TrustedProxies); err != nil {
		return err
	}
	return nil
}

func setString(dst *string, value string) {
	if strings.TrimSpace(value) != "" {
		*dst = strings.TrimSpace(value)
	}
}

// envOrDefault returns an env var when present, otherwise the provided fallback.
func envOrDefault(name, fallback string) string {
	if value := os.Getenv(name); value != "" {
		return value
	}
	return fallback
}

// envInt parses integer env vars with safe fallback on empty/invalid values.
func envInt(name string, fallback int) int {
	raw := os.Getenv(name)
	if raw == "" {
		return fallback
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return fallback
	}
	return v
}

// envDuration accepts Go durations ("5m") or plain seconds.
func envDuration(name string, fallback time.Duration) (time.Duration, error) {
	raw := strings.TrimSpace(os.Getenv(name))
	if raw == "" {
		return fallback, nil
	}
	if secs, err := strconv.Atoi(raw); err == nil {
		return time.Duration(secs) * time.Second, nil
	}
	v, err := time.ParseDuration(raw)
	if err != nil {
		return 0, fmt.Errorf("parse %s: %w", name, err)
	}
	return v, nil
}

// envCSV parses comma-separated env vars and removes empty segments.
func envCSV(name string, fallback []string) []string {
	raw := os.Getenv(name)
	if raw == "" {
		return fallback
	}
	parts := make([]string, 0)
	for _, part := range strings.Split(raw, ",") {
		trimmed := strings.TrimSpace(part)
		if trimmed == "" {
			continue
		}
		parts = append(parts, trimmed)
	}
	if len(parts) == 0 {
		return fallback
	}
	return parts
}
