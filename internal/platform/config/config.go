package config

import (
	"os"
	"strconv"
	"time"
)

// Config captures process-level configuration. Values come from the
// environment so main stays lean and deployments stay twelve-factor.
type Config struct {
	Addr           string
	DatabaseURL    string
	RedisURL       string
	KafkaBrokers   string
	AuditTopic     string
	JWTSigningKey  string
	OperatorToken  string
	MgmtBaseURL    string
	MgmtToken      string
	StatusCacheTTL time.Duration
}

// DevJWTSigningKey is the development fallback. Deployments override it;
// main warns when it is in use.
const DevJWTSigningKey = "dev-secret-key-change-in-production"

// FromEnv builds a Config from environment variables with dev defaults.
// OPERATOR_TOKEN deliberately has no default: when unset, the operator
// surface rejects every request instead of accepting a guessable token.
func FromEnv() Config {
	jwtSigningKey := os.Getenv("JWT_SIGNING_KEY")
	if jwtSigningKey == "" {
		jwtSigningKey = DevJWTSigningKey
	}

	return Config{
		Addr:           getEnv("VERIPORTAL_ADDR", ":8080"),
		DatabaseURL:    os.Getenv("DATABASE_URL"),
		RedisURL:       os.Getenv("REDIS_URL"),
		KafkaBrokers:   os.Getenv("KAFKA_BROKERS"),
		AuditTopic:     getEnv("AUDIT_TOPIC", "veriportal.audit"),
		JWTSigningKey:  jwtSigningKey,
		OperatorToken:  os.Getenv("OPERATOR_TOKEN"),
		MgmtBaseURL:    os.Getenv("MGMT_API_BASE_URL"),
		MgmtToken:      os.Getenv("MGMT_API_TOKEN"),
		StatusCacheTTL: getEnvSeconds("STATUS_CACHE_TTL_SEC", 30),
	}
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvSeconds(key string, fallback int) time.Duration {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n >= 0 {
			return time.Duration(n) * time.Second
		}
	}
	return time.Duration(fallback) * time.Second
}
