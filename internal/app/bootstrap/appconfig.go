// internal/app/bootstrap/appconfig.go
package bootstrap

import "time"

// AppConfig holds service-specific configuration for this WAFFLE app.
//
// These values come from environment variables, configuration files, or
// command-line flags (loaded in LoadConfig). They represent *app-level*
// configuration, not WAFFLE core configuration; ports, TLS, log level and
// env live in WAFFLE's CoreConfig.
type AppConfig struct {
	// MongoDB connection configuration
	MongoURI         string // MongoDB connection string (e.g., mongodb://localhost:27017)
	MongoDatabase    string // Database name within MongoDB
	MongoMaxPoolSize uint64 // Max connections in the driver pool
	MongoMinPoolSize uint64 // Min idle connections kept open

	// Bearer-token verification. Tokens are issued by the account service.
	JWTSecret string // HMAC secret shared with the issuer
	JWTIssuer string // Expected "iss" claim (blank disables the check)

	// CORS
	CORSAllowedOrigins []string // "*" allows any origin

	// Behaviour
	TopicsEmptyNotFound bool  // GET /api/get-all-topic answers 404 when there are no topics
	MaxBodyBytes        int64 // Request body cap for JSON endpoints

	// Audit logging destinations: "all", "db", "log" or "off"
	AuditLogAdmin    string
	AuditLogActivity string

	// Store call timeouts (zero keeps the built-in default)
	TimeoutShort  time.Duration
	TimeoutMedium time.Duration
	TimeoutLong   time.Duration
}
