package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"echoboard/pkg/logger"

	"github.com/joho/godotenv"
)

type Config struct {
	ServerPort  string
	Mode        string // debug, release, test
	LogLevel    string
	FrontendURL string
	StaticDir   string

	DBDriver   string // postgres, sqlite
	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string
	DBPath     string // sqlite file

	JWTSecret      string
	JWTExpiryHours int

	CORSOrigins   []string
	AuthRateLimit float64 // requests per second per IP on public auth routes
	AuthBurst     int

	Mail MailConfig
	AI   AIConfig
	S3   S3Config
}

type MailConfig struct {
	Host     string
	Port     int
	Username string
	Password string
	From     string
	UseTLS   bool
}

// Enabled reports whether an SMTP host was configured.
func (m MailConfig) Enabled() bool {
	return m.Host != ""
}

type AIConfig struct {
	Provider  string // openai, anthropic, gemini, ollama
	APIKey    string
	BaseURL   string
	Model     string
	MaxTokens int
	Timeout   time.Duration
}

type S3Config struct {
	Region        string
	Endpoint      string
	AccessKey     string
	SecretKey     string
	Bucket        string
	PublicBaseURL string
	PresignTTL    time.Duration
}

// Enabled reports whether uploads can be presigned.
func (s S3Config) Enabled() bool {
	return s.Bucket != "" && s.Endpoint != ""
}

func Load() *Config {
	err := godotenv.Load()
	if err != nil {
		logger.Warn().Msg("No .env file found, using system environment variables")
	}

	return &Config{
		ServerPort:  getEnv("SERVER_PORT", "3001"),
		Mode:        getEnv("GIN_MODE", "debug"),
		LogLevel:    getEnv("LOG_LEVEL", "info"),
		FrontendURL: strings.TrimRight(getEnv("FRONTEND_URL", "http://localhost:3000"), "/"),
		StaticDir:   getEnv("STATIC_DIR", ""),

		DBDriver:   getEnv("DB_DRIVER", "postgres"),
		DBHost:     getEnv("DB_HOST", "localhost"),
		DBPort:     getEnv("DB_PORT", "5432"),
		DBUser:     getEnv("DB_USER", "echoboard"),
		DBPassword: getEnv("DB_PASSWORD", "echoboard"),
		DBName:     getEnv("DB_NAME", "echoboard"),
		DBPath:     getEnv("DB_PATH", "echoboard.db"),

		JWTSecret:      getEnv("JWT_SECRET", "supersecretkey"),
		JWTExpiryHours: getEnvInt("JWT_EXPIRY_HOURS", 24),

		CORSOrigins:   splitList(getEnv("CORS_ORIGINS", "*")),
		AuthRateLimit: getEnvFloat("AUTH_RATE_LIMIT", 5),
		AuthBurst:     getEnvInt("AUTH_RATE_BURST", 10),

		Mail: MailConfig{
			Host:     getEnv("MAIL_SERVER", ""),
			Port:     getEnvInt("MAIL_PORT", 587),
			Username: getEnv("MAIL_USERNAME", ""),
			Password: getEnv("MAIL_PASSWORD", ""),
			From:     getEnv("MAIL_DEFAULT_SENDER", ""),
			UseTLS:   getEnvBool("MAIL_USE_SSL", false),
		},
		AI: AIConfig{
			Provider:  getEnv("AI_PROVIDER", "openai"),
			APIKey:    getEnv("AI_API_KEY", ""),
			BaseURL:   getEnv("AI_BASE_URL", ""),
			Model:     getEnv("AI_MODEL", ""),
			MaxTokens: getEnvInt("AI_MAX_TOKENS", 1024),
			Timeout:   time.Duration(getEnvInt("AI_TIMEOUT_SECONDS", 60)) * time.Second,
		},
		S3: S3Config{
			Region:        getEnv("S3_REGION", "us-east-1"),
			Endpoint:      getEnv("S3_ENDPOINT", ""),
			AccessKey:     getEnv("S3_ACCESS_KEY", ""),
			SecretKey:     getEnv("S3_SECRET_KEY", ""),
			Bucket:        getEnv("S3_BUCKET", ""),
			PublicBaseURL: strings.TrimRight(getEnv("S3_PUBLIC_BASE_URL", ""), "/"),
			PresignTTL:    time.Duration(getEnvInt("S3_PRESIGN_MINUTES", 15)) * time.Minute,
		},
	}
}

func getEnv(key, defaultVal string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultVal
}

func getEnvInt(key string, defaultVal int) int {
	if v, err := strconv.Atoi(getEnv(key, "")); err == nil {
		return v
	}
	return defaultVal
}

func getEnvFloat(key string, defaultVal float64) float64 {
	if v, err := strconv.ParseFloat(getEnv(key, ""), 64); err == nil {
		return v
	}
	return defaultVal
}

func getEnvBool(key string, defaultVal bool) bool {
	if v, err := strconv.ParseBool(getEnv(key, "")); err == nil {
		return v
	}
	return defaultVal
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
