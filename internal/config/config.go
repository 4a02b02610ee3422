package config

import (
	"os"
	"strconv"
)

type Config struct {
	Port            string
	Environment     string
	SupabaseURL     string
	SupabaseDBURL   string
	SupabaseJWKSURL string // Constructed from SupabaseURL + /auth/v1/.well-known/jwks.json
	CORSOrigins     string
	TablePrefix     string
	// Storage selects the persistence backend: "postgres" or "memory"
	Storage string
	// RedisURL enables scope-change publishing when set
	RedisURL string
	// Logging
	LogDir      string
	LogMaxFiles int
	// AuthDisabled skips JWT verification and uses DevUserID (dev only)
	AuthDisabled bool
	DevUserID    string
	// MaxNodeLevels bounds nesting inside a container (depth 0..MaxNodeLevels-1)
	MaxNodeLevels int
}

func Load() *Config {
	env := getEnv("ENVIRONMENT", "dev")
	tablePrefix := getTablePrefix(env)
	supabaseURL := getEnv("SUPABASE_URL", "")

	// Construct JWKS URL from Supabase URL
	jwksURL := ""
	if supabaseURL != "" {
		jwksURL = supabaseURL + "/auth/v1/.well-known/jwks.json"
	}

	return &Config{
		Port:            getEnv("PORT", "8080"),
		Environment:     env,
		SupabaseURL:     supabaseURL,
		SupabaseDBURL:   getEnv("SUPABASE_DB_URL", ""),
		SupabaseJWKSURL: jwksURL,
		CORSOrigins:     getEnv("CORS_ORIGINS", "http://localhost:3000"),
		TablePrefix:     tablePrefix,
		Storage:         getEnv("STORAGE", "postgres"),
		RedisURL:        getEnv("REDIS_URL", ""),
		LogDir:          getEnv("LOG_DIR", ""),
		LogMaxFiles:     getEnvInt("LOG_MAX_FILES", 10),
		// Never honoured outside dev, see AuthBypassAllowed
		AuthDisabled:  getEnv("AUTH_DISABLED", "false") == "true",
		DevUserID:     getEnv("DEV_USER_ID", "00000000-0000-0000-0000-000000000001"),
		MaxNodeLevels: getEnvInt("MAX_NODE_LEVELS", MaxNodeLevels),
	}
}

// AuthBypassAllowed reports whether JWT verification may be skipped.
func (c *Config) AuthBypassAllowed() bool {
	return c.AuthDisabled && c.Environment == "dev"
}

// getTablePrefix returns the table prefix based on environment
func getTablePrefix(env string) string {
	// Allow manual override via TABLE_PREFIX env var
	if prefix := os.Getenv("TABLE_PREFIX"); prefix != "" {
		return prefix
	}

	switch env {
	case "prod":
		return "prod_"
	case "test":
		return "test_"
	default:
		return "dev_"
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	n, err := strconv.Atoi(value)
	if err != nil || n <= 0 {
		return defaultValue
	}
	return n
}
