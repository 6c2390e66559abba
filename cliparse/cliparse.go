package cliparse

import (
	"errors"
	"flag"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Port         int
	DatabaseURL  string
	DatabaseType string
	JWTSecret    string
	JWTIssuer    string
	JWTAudience  string
	TokenTTL     time.Duration
	RedisURL     string
	CORSOrigin   string
	SeedDemo     bool
}

// Defaults applied when neither a flag nor an environment variable is set
const (
	DefaultPort         = 3318
	DefaultDatabaseType = "sqlite"
	DefaultSQLitePath   = "pollbooth.db"
	DefaultIssuer       = "pollbooth"
	DefaultAudience     = "pollbooth-clients"
	DefaultTokenTTL     = 60 * time.Minute
	DefaultCORSOrigin   = "*"
)

// ParseFlags loads .env if present, then reads flags with environment
// variables as the fallback
func ParseFlags(args []string) (Config, error) {
	// A missing .env is normal outside development
	_ = godotenv.Load()

	var cfg Config

	fs := flag.NewFlagSet("pollbooth", flag.ContinueOnError)

	// Network config (can be CLI args or env)
	fs.IntVar(&cfg.Port, "p", 0, "Server port")
	fs.StringVar(&cfg.DatabaseURL, "d", "", "Database URL")
	fs.StringVar(&cfg.DatabaseType, "t", "", "Database type (sqlite or postgres)")
	fs.StringVar(&cfg.RedisURL, "redis", "", "Redis URL for token revocation (optional)")
	fs.StringVar(&cfg.CORSOrigin, "cors-origin", "", "Allowed CORS origin")

	// Secrets (prefer env variables, but allow CLI for dev)
	fs.StringVar(&cfg.JWTSecret, "jwt-secret", "", "JWT signing secret (prefer env)")
	fs.StringVar(&cfg.JWTIssuer, "jwt-issuer", "", "JWT issuer")
	fs.StringVar(&cfg.JWTAudience, "jwt-audience", "", "JWT audience")
	fs.DurationVar(&cfg.TokenTTL, "token-ttl", 0, "Access token lifetime")

	fs.BoolVar(&cfg.SeedDemo, "seed", false, "Insert demo users and polls into an empty database")

	if err := fs.Parse(args); err != nil {
		return Config{}, err
	}

	// Fall back to environment variables
	if cfg.Port == 0 {
		if portStr := os.Getenv("PORT"); portStr != "" {
			port, err := strconv.Atoi(portStr)
			if err != nil {
				return Config{}, errors.New("invalid PORT env variable")
			}
			cfg.Port = port
		} else {
			cfg.Port = DefaultPort
		}
	}

	cfg.DatabaseType = firstNonEmpty(cfg.DatabaseType, os.Getenv("DATABASE_TYPE"), DefaultDatabaseType)
	if cfg.DatabaseType != "sqlite" && cfg.DatabaseType != "postgres" {
		return Config{}, fmt.Errorf("unsupported database type %q (use sqlite or postgres)", cfg.DatabaseType)
	}

	cfg.DatabaseURL = firstNonEmpty(cfg.DatabaseURL, os.Getenv("DATABASE_URL"))
	if cfg.DatabaseURL == "" {
		if cfg.DatabaseType != "sqlite" {
			return Config{}, errors.New("database URL required (use -d or DATABASE_URL env)")
		}
		cfg.DatabaseURL = DefaultSQLitePath
	}

	cfg.RedisURL = firstNonEmpty(cfg.RedisURL, os.Getenv("REDIS_URL"))
	cfg.CORSOrigin = firstNonEmpty(cfg.CORSOrigin, os.Getenv("CORS_ORIGIN"), DefaultCORSOrigin)
	cfg.JWTIssuer = firstNonEmpty(cfg.JWTIssuer, os.Getenv("JWT_ISSUER"), DefaultIssuer)
	cfg.JWTAudience = firstNonEmpty(cfg.JWTAudience, os.Getenv("JWT_AUDIENCE"), DefaultAudience)

	if cfg.TokenTTL == 0 {
		cfg.TokenTTL = DefaultTokenTTL
		if ttl := os.Getenv("TOKEN_TTL"); ttl != "" {
			d, err := time.ParseDuration(ttl)
			if err != nil {
				return Config{}, errors.New("invalid TOKEN_TTL env variable")
			}
			cfg.TokenTTL = d
		}
	}
	if cfg.TokenTTL < 0 {
		return Config{}, errors.New("token TTL must be positive")
	}

	if !cfg.SeedDemo {
		if v := os.Getenv("SEED_DEMO"); v != "" {
			seed, err := strconv.ParseBool(strings.TrimSpace(v))
			if err != nil {
				return Config{}, errors.New("invalid SEED_DEMO env variable")
			}
			cfg.SeedDemo = seed
		}
	}

	// Secrets - MUST be provided
	cfg.JWTSecret = firstNonEmpty(cfg.JWTSecret, os.Getenv("JWT_SECRET"))
	if cfg.JWTSecret == "" {
		return Config{}, errors.New("JWT_SECRET required")
	}

	return cfg, nil
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
