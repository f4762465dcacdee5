// Package config lê as variáveis de ambiente (e o .env, se houver).
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
	"github.com/spf13/viper"
)

const (
	BackendPostgres = "postgres"
	BackendMemory   = "memory"
)

type Config struct {
	Env      string
	LogLevel string
	Port     string

	// BackendMode decide entre o banco real e o fixture em memória.
	BackendMode string
	DatabaseURL string
	// DemoPassword é a senha dos usuários do fixture em memória.
	DemoPassword string

	JWTSecret string
	JWTTTL    time.Duration

	AllowedOrigins []string
	LoginRateLimit int

	RabbitMQURL string

	RedisAddr     string
	RedisPassword string
	RedisDB       int

	MinioEndpoint  string
	MinioAccessKey string
	MinioSecretKey string
	MinioBucket    string
	MinioUseSSL    bool

	DocumentWebhookURL string
	DocumentTimeout    time.Duration

	SMTPHost     string
	SMTPPort     int
	SMTPUser     string
	SMTPPassword string
	SMTPFrom     string

	ProcessingTimeout time.Duration
	DraftTTL          time.Duration
}

func (c *Config) IsDevelopment() bool {
	return c.Env == "development"
}

// Load reads .env (optional) and the process environment. Missing backend
// settings degrade to the in-memory fixture instead of failing.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		log.Debug().Msg("arquivo .env não encontrado, usando variáveis do sistema")
	}

	v := viper.New()
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	setDefaults(v)

	cfg := &Config{
		Env:                v.GetString("APP_ENV"),
		LogLevel:           v.GetString("LOG_LEVEL"),
		Port:               v.GetString("PORT"),
		BackendMode:        strings.ToLower(v.GetString("BACKEND_MODE")),
		DatabaseURL:        v.GetString("DATABASE_URL"),
		DemoPassword:       v.GetString("DEMO_PASSWORD"),
		JWTSecret:          v.GetString("JWT_SECRET"),
		JWTTTL:             v.GetDuration("JWT_TTL"),
		AllowedOrigins:     splitList(v.GetString("ALLOWED_ORIGINS")),
		LoginRateLimit:     v.GetInt("LOGIN_RATE_LIMIT"),
		RabbitMQURL:        v.GetString("RABBITMQ_URL"),
		RedisAddr:          v.GetString("REDIS_ADDR"),
		RedisPassword:      v.GetString("REDIS_PASSWORD"),
		RedisDB:            v.GetInt("REDIS_DB"),
		MinioEndpoint:      v.GetString("MINIO_ENDPOINT"),
		MinioAccessKey:     v.GetString("MINIO_ACCESS_KEY"),
		MinioSecretKey:     v.GetString("MINIO_SECRET_KEY"),
		MinioBucket:        v.GetString("MINIO_BUCKET"),
		MinioUseSSL:        v.GetBool("MINIO_USE_SSL"),
		DocumentWebhookURL: v.GetString("DOCUMENT_WEBHOOK_URL"),
		DocumentTimeout:    v.GetDuration("DOCUMENT_TIMEOUT"),
		SMTPHost:           v.GetString("SMTP_HOST"),
		SMTPPort:           v.GetInt("SMTP_PORT"),
		SMTPUser:           v.GetString("SMTP_USER"),
		SMTPPassword:       v.GetString("SMTP_PASSWORD"),
		SMTPFrom:           v.GetString("SMTP_FROM"),
		ProcessingTimeout:  v.GetDuration("PROCESSING_TIMEOUT"),
		DraftTTL:           v.GetDuration("DRAFT_TTL"),
	}

	if err := cfg.resolveBackend(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("APP_ENV", "development")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("PORT", "8080")
	v.SetDefault("DEMO_PASSWORD", "tvdoutor123")
	v.SetDefault("JWT_TTL", "12h")
	v.SetDefault("ALLOWED_ORIGINS", "http://localhost:5173")
	v.SetDefault("LOGIN_RATE_LIMIT", 10)
	v.SetDefault("MINIO_BUCKET", "contratos")
	v.SetDefault("DOCUMENT_TIMEOUT", "60s")
	v.SetDefault("SMTP_PORT", 587)
	v.SetDefault("SMTP_FROM", "contratos@tvdoutor.com.br")
	v.SetDefault("PROCESSING_TIMEOUT", "30m")
	v.SetDefault("DRAFT_TTL", "24h")
}

func (c *Config) resolveBackend() error {
	switch c.BackendMode {
	case "":
		if c.DatabaseURL == "" {
			log.Warn().Msg("DATABASE_URL não definido: usando dados de demonstração em memória")
			c.BackendMode = BackendMemory
		} else {
			c.BackendMode = BackendPostgres
		}
	case BackendMemory:
	case BackendPostgres:
		if c.DatabaseURL == "" {
			return fmt.Errorf("BACKEND_MODE=postgres exige DATABASE_URL")
		}
	default:
		return fmt.Errorf("BACKEND_MODE inválido: %q", c.BackendMode)
	}

	if c.JWTSecret == "" {
		if c.BackendMode == BackendPostgres && !c.IsDevelopment() {
			return fmt.Errorf("JWT_SECRET é obrigatório")
		}
		log.Warn().Msg("JWT_SECRET não definido: usando segredo de desenvolvimento")
		c.JWTSecret = "dev-secret-nao-usar-em-producao"
	}
	return nil
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
