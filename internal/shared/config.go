package shared

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
)

type Config struct {
	AppEnv         string
	LogLevel       string
	HTTPAddr       string
	MetricsAddr    string
	MySQLDSN       string
	RedisAddr      string
	RedisDB        int
	RedisPass      string
	CacheTTL       time.Duration
	SearchCacheTTL time.Duration
	JWTSecret      string
	TokenTTL       time.Duration
	BcryptCost     int
	GoogleClientID string
	GoogleSecret   string
	GoogleRedirect string
	GoogleRPS      int
	AdminEmails    []string
}

// Load reads configuration from the environment. A .env file in the working
// directory is applied first when present; real env vars win.
func Load() Config {
	if err := godotenv.Load(); err == nil {
		log.Debug().Msg("loaded .env")
	}
	atoi := func(k string, def int) int {
		if v := os.Getenv(k); v != "" {
			if n, err := strconv.Atoi(v); err == nil {
				return n
			}
			log.Warn().Str("key", k).Str("value", v).Msg("ignoring non-numeric config value")
		}
		return def
	}
	c := Config{
		AppEnv:         env("APP_ENV", "prod"),
		LogLevel:       env("LOG_LEVEL", "info"),
		HTTPAddr:       env("HTTP_ADDR", ":8080"),
		MetricsAddr:    env("METRICS_ADDR", ""),
		MySQLDSN:       env("MYSQL_DSN", "root:root@tcp(localhost:3306)/stayhub?parseTime=true&charset=utf8mb4,utf8&loc=UTC"),
		RedisAddr:      os.Getenv("REDIS_ADDR"),
		RedisPass:      env("REDIS_PASSWORD", ""),
		RedisDB:        atoi("REDIS_DB", 0),
		CacheTTL:       time.Duration(atoi("CACHE_TTL_SECONDS", 900)) * time.Second,
		SearchCacheTTL: time.Duration(atoi("SEARCH_CACHE_TTL_SECONDS", 60)) * time.Second,
		JWTSecret:      env("JWT_SECRET", ""),
		TokenTTL:       time.Duration(atoi("TOKEN_TTL_HOURS", 24)) * time.Hour,
		BcryptCost:     atoi("BCRYPT_COST", 12),
		GoogleClientID: env("GOOGLE_CLIENT_ID", ""),
		GoogleSecret:   env("GOOGLE_CLIENT_SECRET", ""),
		GoogleRedirect: env("GOOGLE_REDIRECT_URL", "http://localhost:5173/auth/google/callback"),
		GoogleRPS:      atoi("GOOGLE_RPS", 5),
		AdminEmails:    splitList(os.Getenv("ADMIN_EMAILS")),
	}
	if c.JWTSecret == "" {
		log.Warn().Msg("JWT_SECRET is empty; token issuing and verification will be refused")
	}
	if c.GoogleClientID == "" {
		log.Warn().Msg("GOOGLE_CLIENT_ID is empty; Google sign-in is disabled")
	}
	return c
}

func env(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}

func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if p := strings.ToLower(strings.TrimSpace(part)); p != "" {
			out = append(out, p)
		}
	}
	return out
}
