// internal/app/bootstrap/config.go
package bootstrap

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/dalemusser/interviewhub/internal/app/system/auditlog"
	"github.com/dalemusser/interviewhub/internal/app/system/jsonutil"
	"github.com/dalemusser/waffle/config"
	wafflemongo "github.com/dalemusser/waffle/pantry/mongo"
	"go.uber.org/zap"
)

// devJWTSecret is the default signing secret. It is refused in prod.
const devJWTSecret = "dev-only-change-me-please-0123456789ABCDEF"

// appConfigKeys defines the configuration keys for InterviewHub.
// These are loaded via WAFFLE's config system with support for:
//   - Config files: mongo_uri, jwt_secret, etc.
//   - Environment variables: INTERVIEWHUB_MONGO_URI, INTERVIEWHUB_JWT_SECRET, etc.
//   - Command-line flags: --mongo_uri, --jwt_secret, etc.
var appConfigKeys = []config.AppKey{
	{Name: "mongo_uri", Default: "mongodb://localhost:27017", Desc: "MongoDB connection URI"},
	{Name: "mongo_database", Default: "interview_hub", Desc: "MongoDB database name"},
	{Name: "mongo_max_pool_size", Default: 100, Desc: "MongoDB max connection pool size (default: 100)"},
	{Name: "mongo_min_pool_size", Default: 10, Desc: "MongoDB min connection pool size (default: 10)"},

	// Bearer tokens
	{Name: "jwt_secret", Default: devJWTSecret, Desc: "HMAC secret for verifying bearer tokens (must be strong in production)"},
	{Name: "jwt_issuer", Default: "", Desc: "Expected token issuer (blank disables the check)"},

	// CORS
	{Name: "cors_allowed_origins", Default: "*", Desc: "Comma-separated list of allowed CORS origins"},

	// Behaviour
	{Name: "topics_empty_not_found", Default: true, Desc: "Answer 404 'No topics found' when the topic list is empty"},
	{Name: "max_body_bytes", Default: int(jsonutil.DefaultMaxBody), Desc: "Maximum JSON request body size in bytes"},

	// Audit logging settings
	{Name: "audit_log_admin", Default: "all", Desc: "Admin event logging: 'all' (db+log), 'db', 'log', or 'off'"},
	{Name: "audit_log_activity", Default: "log", Desc: "Activity event logging: 'all' (db+log), 'db', 'log', or 'off'"},

	// Store timeouts
	{Name: "timeout_short", Default: "5s", Desc: "Timeout for single-document reads and writes"},
	{Name: "timeout_medium", Default: "10s", Desc: "Timeout for list queries"},
	{Name: "timeout_long", Default: "30s", Desc: "Timeout for the interview cascade delete"},
}

// LoadConfig loads WAFFLE core config and app-specific config.
//
// WAFFLE's config.LoadWithAppConfig handles:
//   - Loading from .env files
//   - Loading from config.yaml/json/toml files
//   - Reading environment variables (WAFFLE_* for core, INTERVIEWHUB_* for app)
//   - Parsing command-line flags
//   - Merging with precedence: flags > env > files > defaults
func LoadConfig(logger *zap.Logger) (*config.CoreConfig, AppConfig, error) {
	coreCfg, appValues, err := config.LoadWithAppConfig(logger, "INTERVIEWHUB", appConfigKeys)
	if err != nil {
		return nil, AppConfig{}, err
	}

	appCfg := AppConfig{
		MongoURI:         appValues.String("mongo_uri"),
		MongoDatabase:    appValues.String("mongo_database"),
		MongoMaxPoolSize: uint64(appValues.Int("mongo_max_pool_size")),
		MongoMinPoolSize: uint64(appValues.Int("mongo_min_pool_size")),

		JWTSecret: appValues.String("jwt_secret"),
		JWTIssuer: appValues.String("jwt_issuer"),

		CORSAllowedOrigins: splitList(appValues.String("cors_allowed_origins")),

		TopicsEmptyNotFound: appValues.Bool("topics_empty_not_found"),
		MaxBodyBytes:        int64(appValues.Int("max_body_bytes")),

		AuditLogAdmin:    appValues.String("audit_log_admin"),
		AuditLogActivity: appValues.String("audit_log_activity"),

		TimeoutShort:  appValues.Duration("timeout_short", 5*time.Second),
		TimeoutMedium: appValues.Duration("timeout_medium", 10*time.Second),
		TimeoutLong:   appValues.Duration("timeout_long", 30*time.Second),
	}

	return coreCfg, appCfg, nil
}

// splitList turns "a, b,,c" into [a b c].
func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}

var validAuditDest = map[string]bool{
	auditlog.DestAll: true,
	auditlog.DestDB:  true,
	auditlog.DestLog: true,
	auditlog.DestOff: true,
}

// ValidateConfig performs app-specific config validation.
//
// Return nil to accept the loaded config, or an error to abort startup.
// InterviewHub validates the MongoDB URI format to catch configuration
// errors early, before attempting to connect, and refuses to run in prod
// with the development signing secret.
func ValidateConfig(coreCfg *config.CoreConfig, appCfg AppConfig, logger *zap.Logger) error {
	if err := wafflemongo.ValidateURI(appCfg.MongoURI); err != nil {
		logger.Error("invalid MongoDB URI", zap.Error(err))
		return fmt.Errorf("invalid MongoDB URI: %w", err)
	}

	if strings.TrimSpace(appCfg.JWTSecret) == "" {
		return errors.New("jwt_secret must be set")
	}
	if coreCfg != nil && coreCfg.Env == "prod" && appCfg.JWTSecret == devJWTSecret {
		return errors.New("jwt_secret must be changed from the development default in prod")
	}

	for key, v := range map[string]string{
		"audit_log_admin":    appCfg.AuditLogAdmin,
		"audit_log_activity": appCfg.AuditLogActivity,
	} {
		if v != "" && !validAuditDest[v] {
			return fmt.Errorf("%s must be one of all, db, log, off (got %q)", key, v)
		}
	}

	if appCfg.MongoMinPoolSize > appCfg.MongoMaxPoolSize {
		return fmt.Errorf("mongo_min_pool_size (%d) exceeds mongo_max_pool_size (%d)",
			appCfg.MongoMinPoolSize, appCfg.MongoMaxPoolSize)
	}

	return nil
}
