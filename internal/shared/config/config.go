package config

import (
	"log"
	"os"
	"strconv"
	"strings"
	"time"
)

const (
	defaultOllamaBaseURL = "http://localhost:11434"
	defaultModel         = "llama3.2"
	defaultExportPath    = "cover_letter.pdf"
)

// Config holds application configuration.
type Config struct {
	Port            string
	Env             string
	CORSAllowOrigin []string
	OllamaBaseURL   string
	LLMModel        string
	OllamaTimeout   time.Duration
	ExportPath      string
	ObjectStoreType string
	LocalStoreDir   string
	AWSRegion       string
	S3Bucket        string
	S3Prefix        string
	SSEKMSKeyID     string
	MaxUploadBytes  int64

	GenerateRatePerMinute int
	GenerateBurst         int
}

// Load reads configuration from environment variables with sensible defaults.
func Load() Config {
	// Best-effort load of local env files for dev convenience.
	loadEnvFiles(".env", "cmd/.env")

	cfg := Config{
		Port:            getEnv("PORT", "8080"),
		Env:             normalizeEnv(getEnv("ENV", "dev")),
		CORSAllowOrigin: splitAndTrim(getEnv("CORS_ALLOW_ORIGINS", "")),
		OllamaBaseURL:   strings.TrimSuffix(getEnv("OLLAMA_BASE_URL", defaultOllamaBaseURL), "/"),
		LLMModel:        getEnv("LLM_MODEL", defaultModel),
		OllamaTimeout:   time.Duration(getEnvInt("OLLAMA_TIMEOUT_SECONDS", 0)) * time.Second,
		ExportPath:      getEnv("EXPORT_PATH", defaultExportPath),
		ObjectStoreType: normalizeStoreType(getEnv("OBJECT_STORE", "none")),
		LocalStoreDir:   getEnv("LOCAL_STORE_DIR", "./data"),
		AWSRegion:       getEnv("AWS_REGION", ""),
		S3Bucket:        getEnv("S3_BUCKET", ""),
		S3Prefix:        getEnv("S3_PREFIX", ""),
		SSEKMSKeyID:     getEnv("SSE_KMS_KEY_ID", ""),
		MaxUploadBytes:  int64(getEnvInt("MAX_UPLOAD_MB", 10)) << 20,

		GenerateRatePerMinute: getEnvInt("GENERATE_RATE_PER_MINUTE", 0),
		GenerateBurst:         getEnvInt("GENERATE_BURST", 3),
	}

	if cfg.ObjectStoreType == "s3" && cfg.S3Bucket == "" {
		log.Printf("OBJECT_STORE=s3 without S3_BUCKET; export mirroring disabled")
		cfg.ObjectStoreType = "none"
	}
	return cfg
}

func getEnv(key, def string) string {
	if val := strings.TrimSpace(os.Getenv(key)); val != "" {
		return val
	}
	return def
}

func getEnvInt(key string, def int) int {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return def
	}
	parsed, err := strconv.Atoi(raw)
	if err != nil || parsed < 0 {
		log.Printf("ignoring invalid %s=%q", key, raw)
		return def
	}
	return parsed
}

func splitAndTrim(raw string) []string {
	parts := strings.Split(raw, ",")
	var out []string
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}

func normalizeEnv(raw string) string {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "production", "prod":
		return "production"
	case "staging":
		return "staging"
	default:
		return "dev"
	}
}

func normalizeStoreType(raw string) string {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "s3":
		return "s3"
	case "local":
		return "local"
	default:
		return "none"
	}
}
