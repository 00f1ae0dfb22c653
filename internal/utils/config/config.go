package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"

	"github.com/dwarvesf/tradeshield-backend/internal/consts"
	"github.com/dwarvesf/tradeshield-backend/internal/types/environments"
	"github.com/dwarvesf/tradeshield-backend/internal/utils/vault"
)

type AppConfig struct {
	Environment environments.Environment
	ApiServer   ApiServerConfig
	Postgres    DBConnection
	Auth        AuthConfig
	Redis       RedisConfig
	Kafka       KafkaConfig
	Notifier    NotifierConfig
	Uptime      UptimeWebhookConfig
	Vault       VaultConfig
	Trading     TradingConfig
}

type ApiServerConfig struct {
	Port           string
	AllowedOrigins string
}

type DBConnection struct {
	Host string
	Port string
	User string
	Name string
	Pass string

	SSLMode string
}

type AuthConfig struct {
	JWTSecret string
	TokenTTL  time.Duration
}

type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

type KafkaConfig struct {
	Brokers     []string
	EscrowTopic string
}

type NotifierConfig struct {
	WebhookURL string
}

// UptimeWebhookConfig holds the heartbeat URL pinged after each successful
// run of a background job. Empty URLs disable the heartbeat.
type UptimeWebhookConfig struct {
	SwapExpiryURL   string
	InrExpiryURL    string
	EscrowExpiryURL string
}

type VaultConfig struct {
	Addr         string
	KVSecretPath string
	Role         string
}

type TradingConfig struct {
	RequireKYC      bool
	PlatformFeeRate decimal.Decimal
	SwapExpiry      time.Duration
	InrExpiry       time.Duration
	EscrowExpiry    time.Duration
}

func New() *AppConfig {
	env := os.Getenv("APP_ENV")
	if env == "" {
		env = "development"
	}

	// this will not override env variables if they already exist
	godotenv.Load(".env." + env)

	cfg := &AppConfig{
		Environment: environments.Parse(env),
		ApiServer: ApiServerConfig{
			Port:           envVarWithDefault("PORT", "8080"),
			AllowedOrigins: os.Getenv("ALLOWED_ORIGINS"),
		},
		Postgres: DBConnection{
			Host:    os.Getenv("DB_HOST"),
			Port:    os.Getenv("DB_PORT"),
			User:    os.Getenv("DB_USER"),
			Name:    os.Getenv("DB_NAME"),
			Pass:    os.Getenv("DB_PASS"),
			SSLMode: envVarWithDefault("DB_SSL_MODE", "disable"),
		},
		Auth: AuthConfig{
			JWTSecret: os.Getenv("JWT_SECRET"),
			TokenTTL:  envVarAsDuration("JWT_TTL", 24*time.Hour),
		},
		Redis: RedisConfig{
			Addr:     os.Getenv("REDIS_ADDR"),
			Password: os.Getenv("REDIS_PASSWORD"),
			DB:       envVarAsInt("REDIS_DB", 0),
		},
		Kafka: KafkaConfig{
			Brokers:     splitList(os.Getenv("KAFKA_BROKERS")),
			EscrowTopic: envVarWithDefault("KAFKA_ESCROW_TOPIC", "escrow-events"),
		},
		Notifier: NotifierConfig{
			WebhookURL: os.Getenv("NOTIFY_WEBHOOK_URL"),
		},
		Uptime: UptimeWebhookConfig{
			SwapExpiryURL:   os.Getenv("UPTIME_WEBHOOK_SWAP_EXPIRY"),
			InrExpiryURL:    os.Getenv("UPTIME_WEBHOOK_INR_EXPIRY"),
			EscrowExpiryURL: os.Getenv("UPTIME_WEBHOOK_ESCROW_EXPIRY"),
		},
		Vault: VaultConfig{
			Addr:         os.Getenv("VAULT_ADDR"),
			KVSecretPath: envVarWithDefault("VAULT_KV_SECRET_PATH", "secret/data/tradeshield"),
			Role:         envVarWithDefault("VAULT_ROLE", "tradeshield-backend"),
		},
		Trading: TradingConfig{
			RequireKYC:      envVarAsBool("REQUIRE_KYC"),
			PlatformFeeRate: envVarAsDecimal("PLATFORM_FEE_RATE", consts.PlatformFeeRate),
			SwapExpiry:      envVarAsDuration("SWAP_EXPIRY", consts.SWAP_EXPIRY),
			InrExpiry:       envVarAsDuration("INR_TRANSACTION_EXPIRY", consts.INR_TRANSACTION_EXPIRY),
			EscrowExpiry:    envVarAsDuration("ESCROW_EXPIRY", consts.ESCROW_EXPIRY),
		},
	}

	if cfg.Vault.Addr != "" {
		if err := loadVaultSecrets(cfg); err != nil {
			panic(err)
		}
	}

	return cfg
}

// loadVaultSecrets overrides secrets with the values stored in Vault.
func loadVaultSecrets(cfg *AppConfig) error {
	vc, err := vault.New(cfg.Vault.Addr, cfg.Vault.KVSecretPath, cfg.Vault.Role)
	if err != nil {
		return err
	}

	secrets, err := vc.GetKVs("JWT_SECRET", "DB_PASS", "REDIS_PASSWORD")
	if err != nil {
		return err
	}
	applySecrets(cfg, secrets)

	return nil
}

func applySecrets(cfg *AppConfig, secrets map[string]string) {
	if v, ok := secrets["JWT_SECRET"]; ok && v != "" {
		cfg.Auth.JWTSecret = v
	}
	if v, ok := secrets["DB_PASS"]; ok && v != "" {
		cfg.Postgres.Pass = v
	}
	if v, ok := secrets["REDIS_PASSWORD"]; ok && v != "" {
		cfg.Redis.Password = v
	}
}

func envVarWithDefault(envName, fallback string) string {
	if v := os.Getenv(envName); v != "" {
		return v
	}
	return fallback
}

func envVarAsInt(envName string, fallback int) int {
	valueStr := os.Getenv(envName)
	if valueStr == "" {
		return fallback
	}

	value, err := strconv.Atoi(valueStr)
	if err != nil {
		panic(err)
	}

	return value
}

func envVarAsDuration(envName string, fallback time.Duration) time.Duration {
	valueStr := os.Getenv(envName)
	if valueStr == "" {
		return fallback
	}

	value, err := time.ParseDuration(valueStr)
	if err != nil {
		panic(err)
	}

	return value
}

func envVarAsDecimal(envName string, fallback decimal.Decimal) decimal.Decimal {
	valueStr := os.Getenv(envName)
	if valueStr == "" {
		return fallback
	}

	return decimal.RequireFromString(valueStr)
}

func envVarAsBool(envName string) bool {
	valueStr := os.Getenv(envName)
	return valueStr == "true"
}

func splitList(v string) []string {
	var out []string
	for _, item := range strings.Split(v, ",") {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	return out
}
