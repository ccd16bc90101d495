package config

import (
	"fmt"
	"log"
	"strings"

	"github.com/spf13/viper"
)

type Config struct {
	Port                string   `mapstructure:"PORT"`
	Env                 string   `mapstructure:"ENV"`
	DatabaseURL         string   `mapstructure:"DATABASE_URL"`
	DBMaxConns          int32    `mapstructure:"DB_MAX_CONNS"`
	DBMinConns          int32    `mapstructure:"DB_MIN_CONNS"`
	JWTSecret           string   `mapstructure:"JWT_SECRET"`
	TokenTTLHours       int      `mapstructure:"TOKEN_TTL_HOURS"`
	CORSOrigins         []string `mapstructure:"CORS_ORIGINS"`
	OneSignalAppID      string   `mapstructure:"ONESIGNAL_APP_ID"`
	OneSignalAPIKey     string   `mapstructure:"ONESIGNAL_API_KEY"`
	ExpiringSoonDays    int      `mapstructure:"EXPIRING_SOON_DAYS"`
	RedisURL            string   `mapstructure:"REDIS_URL"`
	NotifySuppressHours int      `mapstructure:"NOTIFY_SUPPRESS_HOURS"`
	EmailHost           string   `mapstructure:"EMAIL_HOST"`
	EmailPort           int      `mapstructure:"EMAIL_PORT"`
	EmailHostUser       string   `mapstructure:"EMAIL_HOST_USER"`
	EmailHostPassword   string   `mapstructure:"EMAIL_HOST_PASSWORD"`
	EmailFrom           string   `mapstructure:"EMAIL_FROM"`
	S3Bucket            string   `mapstructure:"S3_BUCKET"`
	S3Region            string   `mapstructure:"S3_REGION"`
}

func Load() (*Config, error) {
	v := viper.New()
	v.SetConfigFile(".env")
	v.AutomaticEnv()

	// Defaults
	v.SetDefault("PORT", "8000")
	v.SetDefault("ENV", "development")
	v.SetDefault("DB_MAX_CONNS", 20)
	v.SetDefault("DB_MIN_CONNS", 5)
	v.SetDefault("TOKEN_TTL_HOURS", 24)
	v.SetDefault("CORS_ORIGINS", "http://localhost:3000")
	v.SetDefault("EXPIRING_SOON_DAYS", 3)
	v.SetDefault("NOTIFY_SUPPRESS_HOURS", 20)
	v.SetDefault("EMAIL_PORT", 25)
	v.SetDefault("S3_BUCKET", "mynotif-prescription")
	v.SetDefault("S3_REGION", "eu-west-3")

	// Bind env vars explicitly so Unmarshal picks them up
	v.BindEnv("PORT")
	v.BindEnv("ENV")
	v.BindEnv("DATABASE_URL")
	v.BindEnv("DB_MAX_CONNS")
	v.BindEnv("DB_MIN_CONNS")
	v.BindEnv("JWT_SECRET")
	v.BindEnv("TOKEN_TTL_HOURS")
	v.BindEnv("CORS_ORIGINS")
	v.BindEnv("ONESIGNAL_APP_ID")
	v.BindEnv("ONESIGNAL_API_KEY")
	v.BindEnv("EXPIRING_SOON_DAYS")
	v.BindEnv("REDIS_URL")
	v.BindEnv("NOTIFY_SUPPRESS_HOURS")
	v.BindEnv("EMAIL_HOST")
	v.BindEnv("EMAIL_PORT")
	v.BindEnv("EMAIL_HOST_USER")
	v.BindEnv("EMAIL_HOST_PASSWORD")
	v.BindEnv("EMAIL_FROM")
	v.BindEnv("S3_BUCKET")
	v.BindEnv("S3_REGION")

	// Try reading .env file, but don't fail if missing
	_ = v.ReadInConfig()

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	if cfg.CORSOrigins == nil {
		origins := v.GetString("CORS_ORIGINS")
		if origins != "" {
			cfg.CORSOrigins = strings.Split(origins, ",")
		}
	}

	if cfg.DatabaseURL == "" {
		return nil, fmt.Errorf("DATABASE_URL is required")
	}

	if cfg.IsDev() {
		log.Println("WARNING: server is running in DEVELOPMENT mode (ENV=development).")
		log.Println("WARNING: unsigned requests are treated as an admin user.")
		log.Println("WARNING: set ENV=production and JWT_SECRET before deploying.")
	}

	return cfg, nil
}

func (c *Config) IsDev() bool {
	return c.Env == "development"
}

// IsProduction returns true when the server is configured for production mode.
func (c *Config) IsProduction() bool {
	return c.Env == "production"
}

// Validate checks that the configuration is safe to run. Outside development
// a JWT_SECRET is required so real token authentication is enforced. Push
// credentials are deliberately NOT validated here: the OneSignal client
// constructor checks them, which keeps the rest of the app usable without
// push configured.
func (c *Config) Validate() error {
	if !c.IsDev() && c.JWTSecret == "" {
		return fmt.Errorf("JWT_SECRET is required when ENV=%q", c.Env)
	}
	if c.ExpiringSoonDays <= 0 {
		return fmt.Errorf("EXPIRING_SOON_DAYS must be positive, got %d", c.ExpiringSoonDays)
	}
	if c.TokenTTLHours <= 0 {
		return fmt.Errorf("TOKEN_TTL_HOURS must be positive, got %d", c.TokenTTLHours)
	}
	return nil
}
