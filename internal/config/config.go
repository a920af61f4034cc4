package config

import (
	"flag"
	"os"
	"path/filepath"
	"regexp"

	"github.com/caarlos0/env/v6"
	"github.com/joho/godotenv"
)

type Config struct {
	// Server-side settings
	DatabaseDSN string `env:"DATABASE_URI"`
	AuthSecret  string `env:"AUTH_SECRET"`
	UploadDir   string `env:"UPLOAD_DIR"`
	UploadMaxMB int    `env:"UPLOAD_MAX_MB"`

	// Rate limit for register/login, requests per second per client IP
	AuthRateRPS   float64 `env:"AUTH_RATE_RPS"`
	AuthRateBurst int     `env:"AUTH_RATE_BURST"`

	// Logging
	LogLevel string `env:"LOG_LEVEL"`
	LogJSON  bool   `env:"LOG_JSON"`
	LogFile  string `env:"LOG_FILE"`

	// Shared settings
	BaseURL     string `env:"BASE_URL"`
	EnableHTTPS bool   `env:"ENABLE_HTTPS"`

	// Client-side settings
	ServerURL   string `env:"-"`
	SessionFile string `env:"SESSION_FILE"`
	Version     bool   `env:"-"` // show client version and exit (flag only)
}

// DefaultAuthSecret is used when AUTH_SECRET is unset. Development only.
const DefaultAuthSecret = "dev-secret-key"

var hostPortRe = regexp.MustCompile(`^[A-Za-z0-9\.\-]+:\d{1,5}$`)

func NewConfig() *Config {
	_ = godotenv.Load()

	cfg := &Config{}
	_ = env.Parse(cfg)

	// flags override only when the matching env variable is empty
	// Server flags
	flag.StringVar(&cfg.DatabaseDSN, "d", cfg.DatabaseDSN, "database DSN (postgres URL or sqlite file)")
	flag.StringVar(&cfg.AuthSecret, "auth-secret", cfg.AuthSecret, "secret used to sign JWT")
	flag.StringVar(&cfg.UploadDir, "upload-dir", cfg.UploadDir, "directory for uploaded item images")
	flag.IntVar(&cfg.UploadMaxMB, "upload-max-mb", cfg.UploadMaxMB, "max image upload size in MB")
	flag.StringVar(&cfg.LogLevel, "log-level", cfg.LogLevel, "log level: debug|info|warn|error")
	flag.StringVar(&cfg.LogFile, "log-file", cfg.LogFile, "optional rotating log file")
	// Shared/client flags
	flag.StringVar(&cfg.BaseURL, "base-url", cfg.BaseURL, "server address in host:port form")
	flag.BoolVar(&cfg.EnableHTTPS, "https", cfg.EnableHTTPS, "enable HTTPS (client: prefer https scheme for BaseURL)")
	// Client flags
	flag.StringVar(&cfg.SessionFile, "session-file", cfg.SessionFile, "path to the client session file")
	flag.BoolVar(&cfg.Version, "version", cfg.Version, "Show client version and exit")

	flag.Parse()

	cfg.applyDefaults()
	return cfg
}

func (cfg *Config) applyDefaults() {
	if cfg.AuthSecret == "" {
		cfg.AuthSecret = DefaultAuthSecret
	}
	if cfg.DatabaseDSN == "" {
		cfg.DatabaseDSN = "neighborly.db"
	}
	if cfg.UploadDir == "" {
		cfg.UploadDir = "uploads"
	}
	if cfg.UploadMaxMB <= 0 {
		cfg.UploadMaxMB = 5
	}
	if cfg.AuthRateRPS <= 0 {
		cfg.AuthRateRPS = 5
	}
	if cfg.AuthRateBurst <= 0 {
		cfg.AuthRateBurst = 10
	}
	if cfg.LogLevel == "" {
		cfg.LogLevel = "info"
	}
	// BaseURL must be "address:port" (no scheme, no path)
	if !hostPortRe.MatchString(cfg.BaseURL) {
		cfg.BaseURL = "localhost:8081"
	}

	if cfg.EnableHTTPS {
		cfg.ServerURL = "https://" + cfg.BaseURL
	} else {
		cfg.ServerURL = "http://" + cfg.BaseURL
	}

	if cfg.SessionFile == "" {
		if dir, err := os.UserConfigDir(); err == nil {
			cfg.SessionFile = filepath.Join(dir, "Neighborly", "session.json")
		}
	}
}
