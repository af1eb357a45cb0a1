package app

import (
	"errors"
	"os"
	"strconv"
	"strings"
	"time"
)

type Config struct {
	Env                 string        // Environment (dev, staging, prod) (default: dev)
	LogLevel            string        // Log level (debug, info, warn, error) (default: info)
	LogFormat           string        // Log format (json, text) (default: json)
	Port                int           // HTTP server port (default: 8080)
	ShutdownGracePeriod time.Duration // Graceful shutdown timeout (default: 10s)

	Issuer          string        // Issuer claim for tokens (default: gatehouse-auth)
	AccessTTL       time.Duration // Access token validity (default: 15m)
	RefreshTTL      time.Duration // Refresh token validity (default: 7 days)
	VerificationTTL time.Duration // Confirmation and reset token validity (default: 24h)

	PrivateKey    string // PEM text of the RS512 signing key
	PublicKey     string // PEM text of the matching public key
	KeyID         string // Optional: kid header, derived from the public key when empty
	PrivateSecret string // Shared secret for /internal routes (required outside dev)
	CookieSecret  string // HMAC key for the federated login cookies (random in dev)
	CookieSecure  bool   // Secure attribute on cookies (default: true unless dev)

	DatabaseFile string // Path to SQLite database file (default: ./auth.db)
	PepperFile   string // Path to file containing pepper for password hashing (default: ./pepper)

	CacheDriver    string // redis or memory (default: redis, memory in dev)
	RedisAddr      string
	RedisPassword  string
	RedisDB        int
	RedisKeyPrefix string

	EventsDriver string // kafka or log (default: kafka, log in dev)

	TwoFactorIssuer string // Issuer label shown in authenticator apps
	QRURLTemplate   string // QR renderer, one %s for the escaped otpauth URI

	OAuth2Providers   map[string]OAuth2ClientConfig // Providers with both id and secret set
	OAuth2CallbackURL string                        // Base URL the provider redirects back to
	OAuth2SuccessURL  string                        // Default post-login redirect
	OAuth2FailureURL  string                        // Where failed logins land with ?error=
	OAuth2Redirects   []string                      // Allowed redirect origins

	CORSAllowedOrigins []string
}

type OAuth2ClientConfig struct {
	ClientID     string
	ClientSecret string
}

func (c Config) IsDev() bool { return c.Env == "dev" }

func LoadConfig() Config {
	env := getEnvOrDefault("ENV", "dev")
	dev := env == "dev"

	cfg := Config{
		Env:                 env,
		LogLevel:            getEnvOrDefault("LOG_LEVEL", "info"),
		LogFormat:           getEnvOrDefault("LOG_FORMAT", "json"),
		Port:                getEnvIntOrDefault("PORT", 8080),
		ShutdownGracePeriod: getEnvDurationOrDefault("SHUTDOWN_GRACE_PERIOD", 10*time.Second),

		// Bare integers are minutes
		Issuer:          getEnvOrDefault("AUTH_ISSUER", "gatehouse-auth"),
		AccessTTL:       getEnvDurationOrDefault("AUTH_ACCESS_TOKEN_VALIDITY", 15*time.Minute),
		RefreshTTL:      getEnvDurationOrDefault("AUTH_REFRESH_TOKEN_VALIDITY", 7*24*time.Hour),
		VerificationTTL: getEnvDurationOrDefault("AUTH_VERIFICATION_TOKEN_VALIDITY", 24*time.Hour),

		PrivateKey:    os.Getenv("AUTH_PRIVATE_KEY"),
		PublicKey:     os.Getenv("AUTH_PUBLIC_KEY"),
		KeyID:         os.Getenv("AUTH_KEY_ID"),
		PrivateSecret: os.Getenv("AUTH_PRIVATE_SECRET"),
		CookieSecret:  os.Getenv("AUTH_COOKIE_SECRET"),
		CookieSecure:  getEnvBoolOrDefault("AUTH_COOKIE_SECURE", !dev),

		DatabaseFile: getEnvOrDefault("AUTH_DATABASE_FILE", "auth.db"),
		PepperFile:   getEnvOrDefault("AUTH_PEPPER_FILE", "pepper"),

		CacheDriver:    getEnvOrDefault("CACHE_DRIVER", pick(dev, "memory", "redis")),
		RedisAddr:      getEnvOrDefault("REDIS_ADDR", "localhost:6379"),
		RedisPassword:  os.Getenv("REDIS_PASSWORD"),
		RedisDB:        getEnvIntOrDefault("REDIS_DB", 0),
		RedisKeyPrefix: getEnvOrDefault("REDIS_KEY_PREFIX", "gatehouse:"),

		EventsDriver: getEnvOrDefault("EVENTS_DRIVER", pick(dev, "log", "kafka")),

		TwoFactorIssuer: getEnvOrDefault("TWO_FACTOR_ISSUER", "gatehouse"),
		QRURLTemplate:   os.Getenv("TWO_FACTOR_QR_URL_TEMPLATE"),

		OAuth2Providers:   map[string]OAuth2ClientConfig{},
		OAuth2CallbackURL: strings.TrimSuffix(getEnvOrDefault("OAUTH2_CALLBACK_BASE_URL", "http://localhost:8080"), "/"),
		OAuth2SuccessURL:  getEnvOrDefault("OAUTH2_SUCCESS_REDIRECT", "/"),
		OAuth2FailureURL:  getEnvOrDefault("OAUTH2_FAILURE_REDIRECT", "/"),
		OAuth2Redirects:   getEnvListOrDefault("OAUTH2_ALLOWED_REDIRECTS", nil),

		CORSAllowedOrigins: getEnvListOrDefault("CORS_ALLOWED_ORIGINS", pickList(dev, []string{"*"}, nil)),
	}

	for _, name := range []string{"google", "github", "discord"} {
		prefix := "OAUTH2_" + strings.ToUpper(name)
		id, secret := os.Getenv(prefix+"_CLIENT_ID"), os.Getenv(prefix+"_CLIENT_SECRET")
		if id != "" && secret != "" {
			cfg.OAuth2Providers[name] = OAuth2ClientConfig{ClientID: id, ClientSecret: secret}
		}
	}

	return cfg
}

// Validate reports settings that are only optional in dev.
func (c Config) Validate() error {
	var errs []error
	if c.AccessTTL <= 0 || c.RefreshTTL <= 0 || c.VerificationTTL <= 0 {
		errs = append(errs, errors.New("token validity must be positive"))
	}
	if !c.IsDev() {
		if c.PrivateSecret == "" {
			errs = append(errs, errors.New("AUTH_PRIVATE_SECRET is required"))
		}
		if c.CookieSecret == "" {
			errs = append(errs, errors.New("AUTH_COOKIE_SECRET is required"))
		}
	}
	return errors.Join(errs...)
}

func pick(cond bool, a, b string) string {
	if cond {
		return a
	}
	return b
}

func pickList(cond bool, a, b []string) []string {
	if cond {
		return a
	}
	return b
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvIntOrDefault(key string, defaultValue int) int {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	if intValue, err := strconv.Atoi(value); err == nil {
		return intValue
	}

	return defaultValue
}

func getEnvBoolOrDefault(key string, defaultValue bool) bool {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	if b, err := strconv.ParseBool(value); err == nil {
		return b
	}

	return defaultValue
}

func getEnvDurationOrDefault(key string, defaultValue time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	// Try parsing as duration (e.g., "1h", "30m", "90s")
	if duration, err := time.ParseDuration(value); err == nil {
		return duration
	}

	// Try parsing as integer minutes
	if minutes, err := strconv.Atoi(value); err == nil {
		return time.Duration(minutes) * time.Minute
	}

	return defaultValue
}

// getEnvListOrDefault splits a comma separated value, dropping blanks.
func getEnvListOrDefault(key string, defaultValue []string) []string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	var out []string
	for _, item := range strings.Split(value, ",") {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	return out
}
