package config

import (
	"errors"
	"strings"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	Port             string
	LogLevel         string
	CORSOrigins      []string
	JWT              JWTConfig
	Argon2           Argon2Config
	Ledger           LedgerConfig
	AllowAdminSignup bool
	SeedEnabled      bool
}

type JWTConfig struct {
	SecretKey  string
	AccessTTL  time.Duration
	RefreshTTL time.Duration
}

type Argon2Config struct {
	Time       uint32
	Memory     uint32
	Threads    uint8
	KeyLength  uint32
	SaltLength int
}

// LedgerConfig bounds money-movement transactions. IdempotencyTTL caps how
// long an in-flight Idempotency-Key guard lives in Redis.
type LedgerConfig struct {
	TxTimeout      time.Duration
	IdempotencyTTL time.Duration
	Currency       string
	BankBIC        string
	BankName       string
}

var envBindings = map[string]string{
	"port":                    "PORT",
	"log.level":               "LOG_LEVEL",
	"cors.allowed_origins":    "CORS_ALLOWED_ORIGINS",
	"database.host":           "DATABASE_HOST",
	"database.port":           "DATABASE_PORT",
	"database.user":           "DATABASE_USER",
	"database.password":       "DATABASE_PASSWORD",
	"database.name":           "DATABASE_NAME",
	"database.ssl_mode":       "DATABASE_SSL_MODE",
	"redis.host":              "REDIS_HOST",
	"redis.port":              "REDIS_PORT",
	"redis.password":          "REDIS_PASSWORD",
	"redis.db":                "REDIS_DB",
	"jwt.secret_key":          "JWT_SECRET_KEY",
	"jwt.access_ttl":          "JWT_ACCESS_TTL",
	"jwt.refresh_ttl":         "JWT_REFRESH_TTL",
	"argon2.time":             "ARGON2_TIME",
	"argon2.memory":           "ARGON2_MEMORY",
	"argon2.threads":          "ARGON2_THREADS",
	"argon2.key_length":       "ARGON2_KEY_LENGTH",
	"argon2.salt_length":      "ARGON2_SALT_LENGTH",
	"ledger.tx_timeout":       "LEDGER_TX_TIMEOUT",
	"ledger.idempotency_ttl":  "LEDGER_IDEMPOTENCY_TTL",
	"ledger.currency":         "LEDGER_CURRENCY",
	"ledger.bank_bic":         "LEDGER_BANK_BIC",
	"ledger.bank_name":        "LEDGER_BANK_NAME",
	"auth.allow_admin_signup": "AUTH_ALLOW_ADMIN_SIGNUP",
	"seed.enabled":            "SEED_ENABLED",
}

// SetDefaults registers every default the service relies on. Tests call it
// directly so they do not depend on a .env file.
func SetDefaults() {
	viper.SetDefault("port", "8080")
	viper.SetDefault("log.level", "info")
	viper.SetDefault("cors.allowed_origins", "http://localhost:3000")
	viper.SetDefault("jwt.secret_key", "")
	viper.SetDefault("jwt.access_ttl", time.Hour)
	viper.SetDefault("jwt.refresh_ttl", 24*time.Hour)
	viper.SetDefault("argon2.time", 1)
	viper.SetDefault("argon2.memory", 64*1024)
	viper.SetDefault("argon2.threads", 4)
	viper.SetDefault("argon2.key_length", 32)
	viper.SetDefault("argon2.salt_length", 16)
	viper.SetDefault("ledger.tx_timeout", 10*time.Second)
	viper.SetDefault("ledger.idempotency_ttl", 30*time.Second)
	viper.SetDefault("ledger.currency", "USD")
	viper.SetDefault("ledger.bank_bic", "LDGLUS33")
	viper.SetDefault("ledger.bank_name", "Ledgerline")
	viper.SetDefault("auth.allow_admin_signup", false)
	viper.SetDefault("seed.enabled", false)
}

// Load reads .env (if present) and the environment into a Config.
func Load() (*Config, error) {
	viper.SetConfigFile(".env")
	viper.AutomaticEnv()
	SetDefaults()

	for key, env := range envBindings {
		if err := viper.BindEnv(key, env); err != nil {
			return nil, err
		}
	}

	// A missing .env is fine; the environment is authoritative.
	_ = viper.ReadInConfig()

	cfg := FromViper()
	if cfg.JWT.SecretKey == "" {
		return nil, errors.New("jwt.secret_key (JWT_SECRET_KEY) must be set")
	}
	return cfg, nil
}

// FromViper snapshots the current viper state.
func FromViper() *Config {
	return &Config{
		Port:        viper.GetString("port"),
		LogLevel:    viper.GetString("log.level"),
		CORSOrigins: splitList(viper.GetString("cors.allowed_origins")),
		JWT: JWTConfig{
			SecretKey:  viper.GetString("jwt.secret_key"),
			AccessTTL:  viper.GetDuration("jwt.access_ttl"),
			RefreshTTL: viper.GetDuration("jwt.refresh_ttl"),
		},
		Argon2: Argon2Config{
			Time:       viper.GetUint32("argon2.time"),
			Memory:     viper.GetUint32("argon2.memory"),
			Threads:    uint8(viper.GetUint("argon2.threads")),
			KeyLength:  viper.GetUint32("argon2.key_length"),
			SaltLength: viper.GetInt("argon2.salt_length"),
		},
		Ledger: LedgerConfig{
			TxTimeout:      viper.GetDuration("ledger.tx_timeout"),
			IdempotencyTTL: viper.GetDuration("ledger.idempotency_ttl"),
			Currency:       viper.GetString("ledger.currency"),
			BankBIC:        viper.GetString("ledger.bank_bic"),
			BankName:       viper.GetString("ledger.bank_name"),
		},
		AllowAdminSignup: viper.GetBool("auth.allow_admin_signup"),
		SeedEnabled:      viper.GetBool("seed.enabled"),
	}
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
