package config

import (
	"log"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds application configuration.
// It is read once at process start and immutable afterwards.
type Config struct {
	DatabaseURL  string
	Port         string
	IsProduction bool

	JWTSecret         string
	JWTExpiryDuration time.Duration
	JWTIssuer         string

	// External OAuth
	GoogleClientID     string `mapstructure:"GOOGLE_CLIENT_ID"`
	GoogleClientSecret string `mapstructure:"GOOGLE_CLIENT_SECRET"`
	GoogleRedirectURL  string `mapstructure:"GOOGLE_REDIRECT_URL"`

	// SMTP transport for the notification collaborator
	SMTPHost     string
	SMTPPort     int
	SMTPUsername string
	SMTPPassword string
	EmailFrom    string

	// Exchange rate provider credentials
	ExchangeRateAPIKey      string
	CurrencyConverterAPIKey string

	// LoginRateLimit is an ulule/limiter formatted rate, e.g. "10-M".
	LoginRateLimit string

	// SupportedCurrencies is the static code -> display name table used by
	// both rate providers and the startup seed.
	SupportedCurrencies map[string]string
}

// defaultSupportedCurrencies mirrors the provider contracts: both upstream
// APIs are only ever queried for pairs drawn from this table.
var defaultSupportedCurrencies = map[string]string{
	"PEN": "Peruvian Sol",
	"USD": "US Dollar",
	"EUR": "Euro",
	"GBP": "Pound Sterling",
	"JPY": "Japanese Yen",
	"CAD": "Canadian Dollar",
	"AUD": "Australian Dollar",
}

// LoadConfig loads configuration from environment variables and a .env file if present.
func LoadConfig() (*Config, error) {
	// Attempt to load .env file, ignore error if it doesn't exist
	_ = godotenv.Load()

	viper.SetDefault("PGSQL_URL", "")
	viper.SetDefault("PORT", "8080")
	viper.SetDefault("IS_PRODUCTION", false)
	viper.SetDefault("JWT_SECRET", "a-very-secret-key-should-be-longer-and-random")
	viper.SetDefault("JWT_EXPIRY_DURATION", "24h")
	viper.SetDefault("JWT_ISSUER", "yalapay")
	viper.SetDefault("GOOGLE_CLIENT_ID", "")
	viper.SetDefault("GOOGLE_CLIENT_SECRET", "")
	viper.SetDefault("GOOGLE_REDIRECT_URL", "")
	viper.SetDefault("SMTP_HOST", "")
	viper.SetDefault("SMTP_PORT", 587)
	viper.SetDefault("SMTP_USERNAME", "")
	viper.SetDefault("SMTP_PASSWORD", "")
	viper.SetDefault("EMAIL_FROM", "YALA <noreply@yalapay.example>")
	viper.SetDefault("EXCHANGE_API1_KEY", "")
	viper.SetDefault("EXCHANGE_API2_KEY", "")
	viper.SetDefault("LOGIN_RATE_LIMIT", "10-M")

	viper.AutomaticEnv()

	cfg := &Config{}

	cfg.DatabaseURL = viper.GetString("PGSQL_URL")
	if cfg.DatabaseURL == "" {
		log.Println("Warning: PGSQL_URL environment variable not set.")
	}

	cfg.Port = viper.GetString("PORT")
	cfg.IsProduction = viper.GetBool("IS_PRODUCTION")

	cfg.JWTSecret = viper.GetString("JWT_SECRET")
	if !cfg.IsProduction && cfg.JWTSecret == "a-very-secret-key-should-be-longer-and-random" {
		log.Println("Warning: JWT_SECRET not set. Using default insecure key.")
	}
	jwtExpiry, err := time.ParseDuration(viper.GetString("JWT_EXPIRY_DURATION"))
	if err != nil {
		log.Printf("Warning: invalid JWT_EXPIRY_DURATION %q, defaulting to 24h\n", viper.GetString("JWT_EXPIRY_DURATION"))
		jwtExpiry = 24 * time.Hour
	}
	cfg.JWTExpiryDuration = jwtExpiry
	cfg.JWTIssuer = viper.GetString("JWT_ISSUER")

	cfg.GoogleClientID = viper.GetString("GOOGLE_CLIENT_ID")
	cfg.GoogleClientSecret = viper.GetString("GOOGLE_CLIENT_SECRET")
	cfg.GoogleRedirectURL = viper.GetString("GOOGLE_REDIRECT_URL")

	cfg.SMTPHost = viper.GetString("SMTP_HOST")
	cfg.SMTPPort = viper.GetInt("SMTP_PORT")
	cfg.SMTPUsername = viper.GetString("SMTP_USERNAME")
	cfg.SMTPPassword = viper.GetString("SMTP_PASSWORD")
	cfg.EmailFrom = viper.GetString("EMAIL_FROM")

	cfg.ExchangeRateAPIKey = viper.GetString("EXCHANGE_API1_KEY")
	cfg.CurrencyConverterAPIKey = viper.GetString("EXCHANGE_API2_KEY")

	cfg.LoginRateLimit = viper.GetString("LOGIN_RATE_LIMIT")

	cfg.SupportedCurrencies = defaultSupportedCurrencies

	return cfg, nil
}
