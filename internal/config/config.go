package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

type Config struct {
	Log     LogConfig
	Lock    LockConfig
	Kafka   KafkaConfig
	Serve   ServeConfig
	Receipt ReceiptConfig
}

type LogConfig struct {
	Dir   string
	Level string
}

// LockConfig enables the advisory store lock when RedisAddr is set.
type LockConfig struct {
	RedisAddr string
	TTL       time.Duration
}

func (c LockConfig) Enabled() bool {
	return c.RedisAddr != ""
}

type KafkaConfig struct {
	Enabled bool
	Brokers []string
	Topic   string
}

type ServeConfig struct {
	Addr         string
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

// ReceiptConfig seals QR payloads when Secret is set.
type ReceiptConfig struct {
	Secret string
	Size   int
}

func Load() *Config {
	return &Config{
		Log: LogConfig{
			Dir:   getEnv("LOG_DIR", ""),
			Level: getEnv("LOG_LEVEL", "info"),
		},
		Lock: LockConfig{
			RedisAddr: getEnv("REDIS_ADDR", ""),
			TTL:       time.Duration(getEnvInt("STORE_LOCK_TTL_MINUTES", 30)) * time.Minute,
		},
		Kafka: KafkaConfig{
			Enabled: getEnvBool("KAFKA_ENABLED", false),
			Brokers: getEnvList("KAFKA_BROKERS", []string{"localhost:9092"}),
			Topic:   getEnv("KAFKA_TOPIC", "purchase-tracker.orders.recorded"),
		},
		Serve: ServeConfig{
			Addr:         getEnv("SERVE_ADDR", ":8086"),
			ReadTimeout:  15 * time.Second,
			WriteTimeout: 15 * time.Second,
		},
		Receipt: ReceiptConfig{
			Secret: getEnv("RECEIPT_SECRET", ""),
			Size:   getEnvInt("RECEIPT_SIZE", 256),
		},
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.ParseBool(value); err == nil {
			return parsed
		}
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.Atoi(value); err == nil && parsed > 0 {
			return parsed
		}
	}
	return defaultValue
}

func getEnvList(key string, defaultValue []string) []string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	var out []string
	for _, part := range strings.Split(value, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	if len(out) == 0 {
		return defaultValue
	}
	return out
}
