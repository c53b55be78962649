// Package config centralizes service configuration. Values are read from
// RCVAULT_-prefixed environment variables via viper so main stays lean.
package config

import (
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Store backend selectors.
const (
	StoreMemory   = "memory"
	StoreRedis    = "redis"
	StorePostgres = "postgres"
)

// Config holds all configuration for the service.
type Config struct {
	Addr string

	// LookupCost is the fee in rupees debited per billed RC lookup.
	LookupCost int64

	// StoreBackend selects the kvstore implementation: memory, redis or
	// postgres.
	StoreBackend string
	RedisURL     string
	PostgresURL  string

	VahanBaseURL string
	VahanAPIKey  string
	VahanTimeout time.Duration

	KafkaBrokers []string
	KafkaTopic   string
}

// Load builds a Config from the environment, applying defaults for anything
// unset.
func Load() (Config, error) {
	v := viper.New()
	v.SetEnvPrefix("RCVAULT")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	v.SetDefault("ADDR", ":8080")
	v.SetDefault("LOOKUP_COST", 5)
	v.SetDefault("STORE_BACKEND", StoreMemory)
	v.SetDefault("REDIS_URL", "")
	v.SetDefault("POSTGRES_URL", "")
	v.SetDefault("VAHAN_BASE_URL", "https://api.apnirc.xyz")
	v.SetDefault("VAHAN_API_KEY", "")
	v.SetDefault("VAHAN_TIMEOUT", "15s")
	v.SetDefault("KAFKA_BROKERS", "")
	v.SetDefault("KAFKA_TOPIC", "rcvault.audit")

	cfg := Config{
		Addr:         v.GetString("ADDR"),
		LookupCost:   v.GetInt64("LOOKUP_COST"),
		StoreBackend: v.GetString("STORE_BACKEND"),
		RedisURL:     v.GetString("REDIS_URL"),
		PostgresURL:  v.GetString("POSTGRES_URL"),
		VahanBaseURL: v.GetString("VAHAN_BASE_URL"),
		VahanAPIKey:  v.GetString("VAHAN_API_KEY"),
		VahanTimeout: v.GetDuration("VAHAN_TIMEOUT"),
		KafkaTopic:   v.GetString("KAFKA_TOPIC"),
	}
	if brokers := v.GetString("KAFKA_BROKERS"); brokers != "" {
		cfg.KafkaBrokers = strings.Split(brokers, ",")
	}
	return cfg, nil
}
