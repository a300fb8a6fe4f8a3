package config

import (
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// DefaultMaxUploadBytes is the upload ceiling applied when MAX_UPLOAD_BYTES is unset.
const DefaultMaxUploadBytes = 10 << 20

// Config holds application configuration.
type Config struct {
	Port            string
	Env             string
	LogLevel        string
	CORSAllowOrigin []string

	LLMProvider  string
	LLMModel     string
	GeminiAPIKey string
	OpenAIAPIKey string
	LLMTimeout   time.Duration

	ObjectStoreType string
	LocalStoreDir   string
	AWSRegion       string
	S3Bucket        string
	S3Prefix        string
	SSEKMSKeyID     string
	MaxUploadBytes  int64

	OCREnabled   bool
	OCRLanguages []string
	PDFToPPMPath string
	OCRDPI       int

	RateLimitRPS   float64
	RateLimitBurst int
}

// Load reads configuration from the environment, after a best-effort load of
// local .env files for dev convenience.
func Load() Config {
	_ = godotenv.Load(existing(".env", "cmd/.env")...)
	return FromViper(newViper())
}

// FromViper builds a Config from an already-populated viper instance.
func FromViper(v *viper.Viper) Config {
	return Config{
		Port:            v.GetString("PORT"),
		Env:             normalizeEnv(v.GetString("ENV")),
		LogLevel:        v.GetString("LOG_LEVEL"),
		CORSAllowOrigin: splitAndTrim(v.GetString("CORS_ALLOW_ORIGINS")),
		LLMProvider:     normalizeProvider(v.GetString("LLM_PROVIDER")),
		LLMModel:        strings.TrimSpace(v.GetString("LLM_MODEL")),
		GeminiAPIKey:    strings.TrimSpace(v.GetString("GEMINI_API_KEY")),
		OpenAIAPIKey:    strings.TrimSpace(v.GetString("OPENAI_API_KEY")),
		LLMTimeout:      v.GetDuration("LLM_TIMEOUT"),
		ObjectStoreType: normalizeStoreType(v.GetString("OBJECT_STORE")),
		LocalStoreDir:   v.GetString("LOCAL_STORE_DIR"),
		AWSRegion:       v.GetString("AWS_REGION"),
		S3Bucket:        v.GetString("S3_BUCKET"),
		S3Prefix:        v.GetString("S3_PREFIX"),
		SSEKMSKeyID:     v.GetString("SSE_KMS_KEY_ID"),
		MaxUploadBytes:  v.GetInt64("MAX_UPLOAD_BYTES"),
		OCREnabled:      v.GetBool("OCR_ENABLED"),
		OCRLanguages:    splitAndTrim(v.GetString("OCR_LANGUAGES")),
		PDFToPPMPath:    v.GetString("PDFTOPPM_PATH"),
		OCRDPI:          v.GetInt("OCR_DPI"),
		RateLimitRPS:    v.GetFloat64("RATE_LIMIT_RPS"),
		RateLimitBurst:  v.GetInt("RATE_LIMIT_BURST"),
	}
}

func newViper() *viper.Viper {
	v := viper.New()
	v.AutomaticEnv()
	_ = v.BindEnv("GEMINI_API_KEY", "GEMINI_API_KEY", "GOOGLE_API_KEY")

	v.SetDefault("PORT", "5000")
	v.SetDefault("ENV", "dev")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("CORS_ALLOW_ORIGINS", "http://localhost:5173")
	v.SetDefault("LLM_PROVIDER", "gemini")
	v.SetDefault("LLM_TIMEOUT", "120s")
	v.SetDefault("OBJECT_STORE", "local")
	v.SetDefault("LOCAL_STORE_DIR", "./uploads")
	v.SetDefault("MAX_UPLOAD_BYTES", DefaultMaxUploadBytes)
	v.SetDefault("OCR_ENABLED", true)
	v.SetDefault("OCR_LANGUAGES", "eng")
	v.SetDefault("PDFTOPPM_PATH", "pdftoppm")
	v.SetDefault("OCR_DPI", 200)
	v.SetDefault("RATE_LIMIT_RPS", 1.0)
	v.SetDefault("RATE_LIMIT_BURST", 10)
	return v
}

func existing(paths ...string) []string {
	var out []string
	for _, p := range paths {
		if env, err := godotenv.Read(p); err == nil && len(env) > 0 {
			out = append(out, p)
		}
	}
	return out
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
	case "local":
		return "local"
	default:
		return "dev"
	}
}

func normalizeProvider(raw string) string {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "openai":
		return "openai"
	default:
		return "gemini"
	}
}

func normalizeStoreType(raw string) string {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "s3":
		return "s3"
	default:
		return "local"
	}
}
