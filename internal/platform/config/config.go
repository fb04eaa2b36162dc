package config

import (
	"os"
	"strings"
	"time"
)

// Server captures process-level configuration. Built from environment
// variables so main stays lean.
type Server struct {
	Addr string

	// PostgresURL selects the persistent store; empty means in-memory stores
	// seeded with demo data.
	PostgresURL string

	// RedisURL enables the latest-schema cache; empty disables caching.
	RedisURL string

	// KafkaBrokers enables the Kafka audit publisher; empty falls back to the
	// structured-log recorder.
	KafkaBrokers []string
	AuditTopic   string

	// EncryptionMasterKey is the base64-encoded 32-byte secret the field
	// codec derives its cipher key from.
	EncryptionMasterKey string

	JWTSigningKey string
}

// SchemaCacheTTL bounds how stale a cached latest-schema row may be.
var SchemaCacheTTL = 5 * time.Minute

// FromEnv builds a Server config from environment variables.
func FromEnv() Server {
	addr := os.Getenv("CROSSCLASS_ADDR")
	if addr == "" {
		addr = ":8080"
	}

	var brokers []string
	if raw := os.Getenv("CROSSCLASS_KAFKA_BROKERS"); raw != "" {
		for _, b := range strings.Split(raw, ",") {
			if b = strings.TrimSpace(b); b != "" {
				brokers = append(brokers, b)
			}
		}
	}

	topic := os.Getenv("CROSSCLASS_AUDIT_TOPIC")
	if topic == "" {
		topic = "crossclass.audit"
	}

	jwtSigningKey := os.Getenv("CROSSCLASS_JWT_SIGNING_KEY")
	if jwtSigningKey == "" {
		// Use a default for development - should be overridden in production
		jwtSigningKey = "dev-secret-key-change-in-production"
	}

	return Server{
		Addr:                addr,
		PostgresURL:         os.Getenv("CROSSCLASS_POSTGRES_URL"),
		RedisURL:            os.Getenv("CROSSCLASS_REDIS_URL"),
		KafkaBrokers:        brokers,
		AuditTopic:          topic,
		EncryptionMasterKey: os.Getenv("CROSSCLASS_ENCRYPTION_MASTER_KEY"),
		JWTSigningKey:       jwtSigningKey,
	}
}
