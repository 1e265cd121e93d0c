package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// MinIOConfig holds object storage settings for MinIO or any S3-compatible store (R2 included).
type MinIOConfig struct {
	Driver    string
	Endpoint  string
	AccessKey string
	SecretKey string
	Bucket    string
	UseSSL    bool
}

// ContentConfig controls how stored objects are exposed to clients.
type ContentConfig struct {
	// PublicBaseURL is the public address of the bucket, without trailing slash.
	PublicBaseURL string
	// ImageTransformBaseURL prefixes the /cdn-cgi/image path. Empty means same host.
	ImageTransformBaseURL string
	ListConcurrency       int
	DecodeCacheSize       int
}

// RevalidateConfig holds the shared secret and the deploy hook fired on revalidation.
type RevalidateConfig struct {
	Secret        string
	DeployHookURL string
	Timeout       time.Duration
}

// CORSConfig holds the allow-list of browser origins.
type CORSConfig struct {
	AllowedOrigins []string
}

// SyncConfig holds the build-time synchronization settings.
type SyncConfig struct {
	GatewayURL     string
	GatewaySecret  string
	BatchSize      int
	MaxAttempts    int
	RetryWait      time.Duration
	RequestTimeout time.Duration
	ListLimit      int
	OutputPath     string
}

// LogConfig controls the zap logger.
type LogConfig struct {
	Level       string
	Development bool
}

// AppConfig is the centralized configuration struct for the application.
// It is populated from environment variables. Sensitive values are not hardcoded.
type AppConfig struct {
	Port        string
	ServiceName string
	MinIO       MinIOConfig
	Content     ContentConfig
	Revalidate  RevalidateConfig
	CORS        CORSConfig
	Sync        SyncConfig
	Log         LogConfig
}

// Load reads configuration from environment variables.
// A .env file can be auto-loaded by importing: _ "github.com/joho/godotenv/autoload"
// This function does not require a .env file; real environment variables take precedence.
func Load() *AppConfig {
	return &AppConfig{
		Port:        getEnv("PORT", "8080"),
		ServiceName: getEnv("SERVICE_NAME", "content-gateway"),
		MinIO: MinIOConfig{
			Driver:    getEnv("STORAGE_DRIVER", "minio"),
			Endpoint:  getEnv("MINIO_ENDPOINT", ""),
			AccessKey: getEnv("MINIO_ACCESS_KEY", ""),
			SecretKey: getEnv("MINIO_SECRET_KEY", ""),
			Bucket:    getEnv("MINIO_BUCKET", ""),
			UseSSL:    getEnvBool("MINIO_USE_SSL", false),
		},
		Content: ContentConfig{
			PublicBaseURL:         strings.TrimRight(getEnv("PUBLIC_BASE_URL", ""), "/"),
			ImageTransformBaseURL: strings.TrimRight(getEnv("IMAGE_TRANSFORM_BASE_URL", ""), "/"),
			ListConcurrency:       getEnvInt("LIST_CONCURRENCY", 16),
			DecodeCacheSize:       getEnvInt("DECODE_CACHE_SIZE", 1024),
		},
		Revalidate: RevalidateConfig{
			Secret:        getEnv("REVALIDATE_SECRET", ""),
			DeployHookURL: getEnv("DEPLOY_HOOK_URL", ""),
			Timeout:       getEnvDuration("DEPLOY_HOOK_TIMEOUT_MS", 10*time.Second),
		},
		CORS: CORSConfig{
			AllowedOrigins: getEnvList("ALLOWED_ORIGINS"),
		},
		Sync: SyncConfig{
			GatewayURL:     strings.TrimRight(getEnv("GATEWAY_URL", ""), "/"),
			GatewaySecret:  getEnv("GATEWAY_SECRET", ""),
			BatchSize:      getEnvInt("SYNC_BATCH_SIZE", 10),
			MaxAttempts:    getEnvInt("SYNC_MAX_ATTEMPTS", 3),
			RetryWait:      getEnvDuration("SYNC_RETRY_WAIT_MS", 500*time.Millisecond),
			RequestTimeout: getEnvDuration("SYNC_REQUEST_TIMEOUT_MS", 15*time.Second),
			ListLimit:      getEnvInt("SYNC_LIST_LIMIT", 500),
			OutputPath:     getEnv("SYNC_OUTPUT", ".content/posts.json"),
		},
		Log: LogConfig{
			Level:       getEnv("LOG_LEVEL", "info"),
			Development: getEnvBool("LOG_DEVELOPMENT", false),
		},
	}
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getEnvBool(key string, def bool) bool {
	if v := os.Getenv(key); v != "" {
		b, err := strconv.ParseBool(v)
		if err == nil {
			return b
		}
	}
	return def
}

func getEnvInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		i, err := strconv.Atoi(v)
		if err == nil {
			return i
		}
	}
	return def
}

// getEnvDuration reads a whole number of milliseconds.
func getEnvDuration(key string, def time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		ms, err := strconv.Atoi(v)
		if err == nil && ms >= 0 {
			return time.Duration(ms) * time.Millisecond
		}
	}
	return def
}

// getEnvList splits a comma-separated value, dropping empty entries.
func getEnvList(key string) []string {
	var out []string
	for _, part := range strings.Split(os.Getenv(key), ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
