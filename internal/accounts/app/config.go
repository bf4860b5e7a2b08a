package app

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v2"
)

type Config struct {
	Env                  string        `yaml:"env"`                   // Environment (dev, staging, prod) (default: dev)
	LogLevel             string        `yaml:"log_level"`             // Log level (debug, info, warn, error) (default: info)
	LogFormat            string        `yaml:"log_format"`            // Log format (json, text) (default: json)
	Port                 int           `yaml:"port"`                  // HTTP server port (default: 8080)
	ShutdownGracePeriod  time.Duration `yaml:"shutdown_grace_period"` // Graceful shutdown timeout (default: 10s)
	HousekeepingInterval time.Duration `yaml:"housekeeping_interval"` // Stale account purge interval (default: 1h)

	DatabaseDriver string `yaml:"database_driver"` // sqlite or postgres (default: sqlite)
	DatabaseFile   string `yaml:"database_file"`   // SQLite database file (default: ./accounts.db)
	DatabaseURL    string `yaml:"database_url"`    // Postgres DSN
	PepperFile     string `yaml:"pepper_file"`     // Password pepper file (default: ./pepper)

	ActivationSecret          string        `yaml:"activation_secret"`           // Required outside dev
	ActivationSecretFallbacks []string      `yaml:"activation_secret_fallbacks"` // Older secrets still accepted
	ActivationWindow          time.Duration `yaml:"activation_window"`           // Token time bucket (default: 24h)
	InactiveAccountTTL        time.Duration `yaml:"inactive_account_ttl"`        // Purge age (default: 2x activation window)

	SiteDomain string `yaml:"site_domain"` // Host used in activation links (default: localhost:8080)
	SiteScheme string `yaml:"site_scheme"` // http or https (default: http)
	LoginURL   string `yaml:"login_url"`   // Redirect after register/activate (default: /login)
	ProfileURL string `yaml:"profile_url"` // Redirect after profile update (default: /profile)

	SessionKeyFile string        `yaml:"session_key_file"` // PKCS8 Ed25519 key; ephemeral when empty
	SessionTTL     time.Duration `yaml:"session_ttl"`      // Session lifetime (default: 24h)

	Mail Mail `yaml:"mail"`

	Avatars Avatars `yaml:"avatars"`
}

type Mail struct {
	Transport  string        `yaml:"transport"`   // log or smtp (default: log)
	From       string        `yaml:"from"`        // default: noreply@localhost
	SenderName string        `yaml:"sender_name"` // default: foodcodes
	Host       string        `yaml:"smtp_host"`
	Port       int           `yaml:"smtp_port"` // default: 587
	Username   string        `yaml:"smtp_username"`
	Password   string        `yaml:"smtp_password"`
	TLS        string        `yaml:"smtp_tls"`     // implicit, starttls or none (default: starttls)
	Timeout    time.Duration `yaml:"smtp_timeout"` // default: 10s
}

type Avatars struct {
	Storage      string `yaml:"storage"` // fs or s3 (default: fs)
	Dir          string `yaml:"dir"`     // fs root (default: ./avatars)
	MaxBytes     int64  `yaml:"max_bytes"`
	MaxDimension int    `yaml:"max_dimension"`

	S3Endpoint  string `yaml:"s3_endpoint"`
	S3Region    string `yaml:"s3_region"`
	S3Bucket    string `yaml:"s3_bucket"`
	S3AccessKey string `yaml:"s3_access_key"`
	S3SecretKey string `yaml:"s3_secret_key"`
}

func defaultConfig() Config {
	return Config{
		Env:                  "dev",
		LogLevel:             "info",
		LogFormat:            "json",
		Port:                 8080,
		ShutdownGracePeriod:  10 * time.Second,
		HousekeepingInterval: 1 * time.Hour,
		DatabaseDriver:       "sqlite",
		DatabaseFile:         "accounts.db",
		PepperFile:           "pepper",
		ActivationWindow:     24 * time.Hour,
		SiteDomain:           "localhost:8080",
		SiteScheme:           "http",
		LoginURL:             "/login",
		ProfileURL:           "/profile",
		SessionTTL:           24 * time.Hour,
		Mail: Mail{
			Transport:  "log",
			From:       "noreply@localhost",
			SenderName: "foodcodes",
			Port:       587,
			TLS:        "starttls",
			Timeout:    10 * time.Second,
		},
		Avatars: Avatars{
			Storage:      "fs",
			Dir:          "avatars",
			MaxBytes:     5 << 20,
			MaxDimension: 256,
			S3Region:     "us-east-1",
		},
	}
}

// LoadConfig builds the configuration from defaults, then the YAML file named
// by CONFIG_FILE if set, then environment variables.
func LoadConfig() (Config, error) {
	cfg := defaultConfig()

	if path := os.Getenv("CONFIG_FILE"); path != "" {
		raw, err := os.ReadFile(path)
		if err != nil {
			return Config{}, fmt.Errorf("failed to read config file: %w", err)
		}
		if err := yaml.Unmarshal(raw, &cfg); err != nil {
			return Config{}, fmt.Errorf("failed to parse config file %s: %w", path, err)
		}
	}

	cfg.Env = getEnvOrDefault("ENV", cfg.Env)
	cfg.LogLevel = getEnvOrDefault("LOG_LEVEL", cfg.LogLevel)
	cfg.LogFormat = getEnvOrDefault("LOG_FORMAT", cfg.LogFormat)
	cfg.Port = getEnvIntOrDefault("PORT", cfg.Port)
	cfg.ShutdownGracePeriod = getEnvDurationOrDefault("SHUTDOWN_GRACE_PERIOD", cfg.ShutdownGracePeriod)
	cfg.HousekeepingInterval = getEnvDurationOrDefault("HOUSEKEEPING_INTERVAL", cfg.HousekeepingInterval)

	cfg.DatabaseDriver = getEnvOrDefault("DATABASE_DRIVER", cfg.DatabaseDriver)
	cfg.DatabaseFile = getEnvOrDefault("DATABASE_FILE", cfg.DatabaseFile)
	cfg.DatabaseURL = getEnvOrDefault("DATABASE_URL", cfg.DatabaseURL)
	cfg.PepperFile = getEnvOrDefault("PEPPER_FILE", cfg.PepperFile)

	cfg.ActivationSecret = getEnvOrDefault("ACTIVATION_SECRET", cfg.ActivationSecret)
	if v := os.Getenv("ACTIVATION_SECRET_FALLBACKS"); v != "" {
		cfg.ActivationSecretFallbacks = splitList(v)
	}
	cfg.ActivationWindow = getEnvDurationOrDefault("ACTIVATION_WINDOW", cfg.ActivationWindow)
	cfg.InactiveAccountTTL = getEnvDurationOrDefault("INACTIVE_ACCOUNT_TTL", cfg.InactiveAccountTTL)

	cfg.SiteDomain = getEnvOrDefault("SITE_DOMAIN", cfg.SiteDomain)
	cfg.SiteScheme = getEnvOrDefault("SITE_SCHEME", cfg.SiteScheme)
	cfg.LoginURL = getEnvOrDefault("LOGIN_URL", cfg.LoginURL)
	cfg.ProfileURL = getEnvOrDefault("PROFILE_URL", cfg.ProfileURL)

	cfg.SessionKeyFile = getEnvOrDefault("SESSION_KEY_FILE", cfg.SessionKeyFile)
	cfg.SessionTTL = getEnvDurationOrDefault("SESSION_TTL", cfg.SessionTTL)

	cfg.Mail.Transport = getEnvOrDefault("MAIL_TRANSPORT", cfg.Mail.Transport)
	cfg.Mail.From = getEnvOrDefault("MAIL_FROM", cfg.Mail.From)
	cfg.Mail.SenderName = getEnvOrDefault("MAIL_SENDER_NAME", cfg.Mail.SenderName)
	cfg.Mail.Host = getEnvOrDefault("SMTP_HOST", cfg.Mail.Host)
	cfg.Mail.Port = getEnvIntOrDefault("SMTP_PORT", cfg.Mail.Port)
	cfg.Mail.Username = getEnvOrDefault("SMTP_USERNAME", cfg.Mail.Username)
	cfg.Mail.Password = getEnvOrDefault("SMTP_PASSWORD", cfg.Mail.Password)
	cfg.Mail.TLS = getEnvOrDefault("SMTP_TLS", cfg.Mail.TLS)
	cfg.Mail.Timeout = getEnvDurationOrDefault("SMTP_TIMEOUT", cfg.Mail.Timeout)

	cfg.Avatars.Storage = getEnvOrDefault("AVATAR_STORAGE", cfg.Avatars.Storage)
	cfg.Avatars.Dir = getEnvOrDefault("AVATAR_DIR", cfg.Avatars.Dir)
	cfg.Avatars.MaxBytes = int64(getEnvIntOrDefault("AVATAR_MAX_BYTES", int(cfg.Avatars.MaxBytes)))
	cfg.Avatars.MaxDimension = getEnvIntOrDefault("AVATAR_MAX_DIMENSION", cfg.Avatars.MaxDimension)
	cfg.Avatars.S3Endpoint = getEnvOrDefault("S3_ENDPOINT", cfg.Avatars.S3Endpoint)
	cfg.Avatars.S3Region = getEnvOrDefault("S3_REGION", cfg.Avatars.S3Region)
	cfg.Avatars.S3Bucket = getEnvOrDefault("S3_BUCKET", cfg.Avatars.S3Bucket)
	cfg.Avatars.S3AccessKey = getEnvOrDefault("S3_ACCESS_KEY", cfg.Avatars.S3AccessKey)
	cfg.Avatars.S3SecretKey = getEnvOrDefault("S3_SECRET_KEY", cfg.Avatars.S3SecretKey)

	// Every token a stale account could hold has expired by then.
	if cfg.InactiveAccountTTL == 0 {
		cfg.InactiveAccountTTL = 2 * cfg.ActivationWindow
	}

	return cfg, cfg.Validate()
}

// Validate rejects settings the service cannot start with.
func (c Config) Validate() error {
	switch c.DatabaseDriver {
	case "sqlite":
	case "postgres":
		if c.DatabaseURL == "" {
			return fmt.Errorf("DATABASE_URL is required for the postgres driver")
		}
	default:
		return fmt.Errorf("unknown DATABASE_DRIVER %q", c.DatabaseDriver)
	}

	if c.ActivationSecret == "" && !c.IsDev() {
		return fmt.Errorf("ACTIVATION_SECRET is required when ENV=%s", c.Env)
	}
	if c.ActivationWindow <= 0 {
		return fmt.Errorf("ACTIVATION_WINDOW must be positive")
	}
	if c.InactiveAccountTTL > 0 && c.InactiveAccountTTL < 2*c.ActivationWindow {
		return fmt.Errorf("INACTIVE_ACCOUNT_TTL must be at least twice ACTIVATION_WINDOW")
	}

	switch c.Mail.Transport {
	case "log":
	case "smtp":
		if c.Mail.Host == "" {
			return fmt.Errorf("SMTP_HOST is required for the smtp mail transport")
		}
	default:
		return fmt.Errorf("unknown MAIL_TRANSPORT %q", c.Mail.Transport)
	}

	switch c.Avatars.Storage {
	case "fs":
	case "s3":
		if c.Avatars.S3Bucket == "" {
			return fmt.Errorf("S3_BUCKET is required for s3 avatar storage")
		}
	default:
		return fmt.Errorf("unknown AVATAR_STORAGE %q", c.Avatars.Storage)
	}

	if c.Avatars.MaxBytes <= 0 || c.Avatars.MaxDimension <= 0 {
		return fmt.Errorf("avatar limits must be positive")
	}

	return nil
}

func (c Config) IsDev() bool { return c.Env == "dev" }

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

func getEnvDurationOrDefault(key string, defaultValue time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	if duration, err := time.ParseDuration(value); err == nil {
		return duration
	}

	// Bare integers are minutes
	if minutes, err := strconv.Atoi(value); err == nil {
		return time.Duration(minutes) * time.Minute
	}

	return defaultValue
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
