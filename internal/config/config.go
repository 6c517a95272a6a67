package config

import (
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
)

var (
	JwtSecret          string
	Issuer             string
	TokenTTLHours      int
	DbHost             string
	DbPort             string
	DbUser             string
	DbPassword         string
	DbName             string
	DbSSLMode          string
	ServerPort         string
	IsProduction       bool
	AdminRoles         = []string{"ADMIN"}
	AuditRetentionDays int
	CORSAllowedOrigins []string
	LogLevel           string
	LogFormat          string

	StorageType     string
	StorageLocalDir string
	MaxUploadMB     int64
	MinioEndpoint   string
	MinioAccessKey  string
	MinioSecretKey  string
	MinioUseSSL     bool
	MinioBucket     string
)

func LoadConfig() {
	if err := godotenv.Load(); err != nil {
		log.Debug().Msg("No .env file found, using environment variables")
	}

	JwtSecret = getEnv("JWT_SECRET", "defaultsecret")
	Issuer = getEnv("ISSUER", "orgflow")
	TokenTTLHours = getEnvInt("TOKEN_TTL_HOURS", 24)
	DbHost = getEnv("DB_HOST", "localhost")
	DbPort = getEnv("DB_PORT", "5432")
	DbUser = getEnv("DB_USER", "postgres")
	DbPassword = getEnv("DB_PASSWORD", "password")
	DbName = getEnv("DB_NAME", "orgflow")
	DbSSLMode = getEnv("DB_SSLMODE", "disable")
	ServerPort = getEnv("SERVER_PORT", "8080")
	IsProduction, _ = strconv.ParseBool(getEnv("IS_PRODUCTION", "false"))
	AdminRoles = splitList(getEnv("ADMIN_ROLES", "ADMIN"))
	AuditRetentionDays = getEnvInt("AUDIT_RETENTION_DAYS", 365)
	CORSAllowedOrigins = splitList(getEnv("CORS_ALLOWED_ORIGINS", "http://localhost:3000,http://localhost:5173"))
	LogLevel = getEnv("LOG_LEVEL", "info")
	LogFormat = getEnv("LOG_FORMAT", "json")

	StorageType = getEnv("STORAGE_TYPE", "local")
	StorageLocalDir = getEnv("STORAGE_LOCAL_DIR", "./uploads")
	MaxUploadMB = int64(getEnvInt("MAX_UPLOAD_MB", 10))
	MinioEndpoint = getEnv("MINIO_ENDPOINT", "localhost:9000")
	MinioAccessKey = getEnv("MINIO_ACCESS_KEY", "minioadmin")
	MinioSecretKey = getEnv("MINIO_SECRET_KEY", "minioadmin")
	MinioBucket = getEnv("MINIO_BUCKET", "orgflow-attachments")
	MinioUseSSL, _ = strconv.ParseBool(getEnv("MINIO_USE_SSL", "false"))
}

// IsAdminRole reports whether role may administer routes and templates.
func IsAdminRole(role string) bool {
	for _, r := range AdminRoles {
		if r == role {
			return true
		}
	}
	return false
}

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if value, ok := os.LookupEnv(key); ok {
		if n, err := strconv.Atoi(value); err == nil {
			return n
		}
		log.Warn().Str("key", key).Str("value", value).Msg("Ignoring non-numeric environment value")
	}
	return fallback
}

func splitList(value string) []string {
	parts := strings.Split(value, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
