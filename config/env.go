// Package config loads application settings from the environment, with an
// optional .env file merged in first. Every getter falls back to a default
// that works for local development.
package config

import (
	"strconv"
	"strings"
	"sync"

	"github.com/joho/godotenv"
	"os"
)

const (
	defaultAppPort      = "8080"
	defaultAppEnv       = "local"
	defaultMongoURI     = "mongodb://localhost:27017"
	defaultMongoDB      = "granthkosh"
	defaultRedisAddr    = "localhost:6379"
	defaultJWTSecret    = "change-me-in-production"
	defaultShippingFlat = 5.0
	defaultTaxRate      = 0.10
)

var loadOnce sync.Once

// Load merges .env into the process environment (existing variables win).
// Safe to call more than once; only the first call does any work.
func Load() error {
	loadOnce.Do(func() {
		// Missing .env is fine — the environment alone is enough.
		_ = godotenv.Load()
	})
	return nil
}

func get(key, fallback string) string {
	_ = Load()
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return fallback
}

func getFloat(key string, fallback float64) float64 {
	f, err := strconv.ParseFloat(get(key, ""), 64)
	if err != nil {
		return fallback
	}
	return f
}

// Get reads any config key by name with a fallback.
func Get(key, fallback string) string { return get(key, fallback) }

func AppPort() string { return get("APP_PORT", defaultAppPort) }
func AppEnv() string  { return get("APP_ENV", defaultAppEnv) }

func MongoURI() string { return get("MONGO_URI", defaultMongoURI) }
func MongoDB() string  { return get("MONGO_DB", defaultMongoDB) }

func RedisAddr() string     { return get("REDIS_ADDR", defaultRedisAddr) }
func RedisPassword() string { return get("REDIS_PASSWORD", "") }

func JWTSecret() string { return get("JWT_SECRET", defaultJWTSecret) }

// LogToMongo reports whether request/app logs should also be written to the
// Mongo logs collection.
func LogToMongo() bool { return get("LOG_MONGO", "false") == "true" }

// ── Checkout pricing ─────────────────────────────────────────────────────────

// ShippingFlatRate is the flat shipping charge applied to every order.
func ShippingFlatRate() float64 { return getFloat("SHIPPING_FLAT_RATE", defaultShippingFlat) }

// TaxRate is the flat tax rate applied to the order subtotal.
func TaxRate() float64 { return getFloat("TAX_RATE", defaultTaxRate) }

// ── Mail ─────────────────────────────────────────────────────────────────────

func SMTPHost() string { return get("SMTP_HOST", "") }
func SMTPPort() string { return get("SMTP_PORT", "587") }
func SMTPUser() string { return get("SMTP_USER", "") }
func SMTPPass() string { return get("SMTP_PASS", "") }
func MailFrom() string { return get("MAIL_FROM", "orders@granthkosh.local") }

// ── Storage ──────────────────────────────────────────────────────────────────

func StorageDisk() string      { return get("STORAGE_DISK", "local") }
func StorageLocalRoot() string { return get("STORAGE_LOCAL_ROOT", "storage") }
func StorageURL() string       { return get("STORAGE_URL", "http://localhost:8080/storage") }

func S3Bucket() string   { return get("S3_BUCKET", "") }
func S3Region() string   { return get("S3_REGION", "us-east-1") }
func S3Key() string      { return get("S3_KEY", "") }
func S3Secret() string   { return get("S3_SECRET", "") }
func S3Endpoint() string { return get("S3_ENDPOINT", "") }
func S3URL() string      { return get("S3_URL", "") }
