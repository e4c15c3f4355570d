package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Env             string
	ServerAddr      string
	MongoURI        string
	MongoDB         string
	FrontendOrigins []string

	RedisURL              string
	RedisAddr             string
	RedisPassword         string
	RedisDB               int
	RenderCacheTTLSeconds int

	AdminAPIKey       string
	AdminUser         string
	AdminPassword     string
	JWTSecret         string
	AccessTTLMinutes  int
	RefreshTTLMinutes int
	CookieSecure      bool

	S3Endpoint      string
	S3Region        string
	S3Bucket        string
	S3AccessKey     string
	S3SecretKey     string
	S3PublicBaseURL string

	UploadMaxBytes      int64
	PollIntervalSeconds int
	RateLimitLogin      int
	RateLimitUploads    int
	RateLimitWindowSec  int

	Timezone *time.Location
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return fallback
}

func getEnvInt64(key string, fallback int64) int64 {
	if v := os.Getenv(key); v != "" {
		if i, err := strconv.ParseInt(v, 10, 64); err == nil {
			return i
		}
	}
	return fallback
}

func Load() (*Config, error) {
	_ = godotenv.Load()

	loc, err := time.LoadLocation(getEnv("TZ", "Asia/Ho_Chi_Minh"))
	if err != nil {
		return nil, err
	}

	cfg := &Config{
		Env:             getEnv("APP_ENV", "development"),
		ServerAddr:      getEnv("SERVER_ADDR", ":8080"),
		MongoURI:        getEnv("MONGO_URI", "mongodb://localhost:27017/adx"),
		MongoDB:         getEnv("MONGO_DB", "adx"),
		FrontendOrigins: splitOrigins(getEnv("FRONTEND_ORIGINS", "http://localhost:5173")),

		RedisURL:              getEnv("REDIS_URL", ""),
		RedisAddr:             getEnv("REDIS_ADDR", ""),
		RedisPassword:         getEnv("REDIS_PASSWORD", ""),
		RedisDB:               getEnvInt("REDIS_DB", 0),
		RenderCacheTTLSeconds: getEnvInt("RENDER_CACHE_TTL_SECONDS", 300),

		AdminAPIKey:       getEnv("ADMIN_API_KEY", ""),
		AdminUser:         getEnv("ADMIN_USER", "admin"),
		AdminPassword:     getEnv("ADMIN_PASSWORD", ""),
		JWTSecret:         getEnv("JWT_SECRET", ""),
		AccessTTLMinutes:  getEnvInt("ACCESS_TTL_MINUTES", 15),
		RefreshTTLMinutes: getEnvInt("REFRESH_TTL_MINUTES", 43200),
		CookieSecure:      getEnv("COOKIE_SECURE", "false") == "true",

		S3Endpoint:      getEnv("S3_ENDPOINT", ""),
		S3Region:        getEnv("S3_REGION", "ap-southeast-1"),
		S3Bucket:        getEnv("S3_BUCKET", ""),
		S3AccessKey:     getEnv("S3_ACCESS_KEY", ""),
		S3SecretKey:     getEnv("S3_SECRET_KEY", ""),
		S3PublicBaseURL: getEnv("S3_PUBLIC_BASE_URL", ""),

		UploadMaxBytes:      getEnvInt64("UPLOAD_MAX_BYTES", 5*1024*1024),
		PollIntervalSeconds: getEnvInt("POLL_INTERVAL_SECONDS", 3),
		RateLimitLogin:      getEnvInt("RATE_LIMIT_LOGIN", 10),
		RateLimitUploads:    getEnvInt("RATE_LIMIT_UPLOADS", 30),
		RateLimitWindowSec:  getEnvInt("RATE_LIMIT_WINDOW_SEC", 60),

		Timezone: loc,
	}

	return cfg, nil
}

func splitOrigins(raw string) []string {
	parts := strings.Split(raw, ",")
	origins := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			origins = append(origins, strings.TrimRight(p, "/"))
		}
	}
	return origins
}
