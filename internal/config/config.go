package config

import (
	"errors"
	"io/fs"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"github.com/Simplici0/quotedoc/internal/logging"
	"github.com/Simplici0/quotedoc/internal/storage"
)

const (
	defaultDBPath        = "./dev.db"
	defaultPort          = "8080"
	defaultEnv           = "dev"
	defaultExportDir     = "./exports"
	defaultExportPrefix  = "quote"
	defaultExportTimeout = 60 * time.Second
	defaultMinIOBucket   = "quotes"
)

// Config holds application configuration sourced from environment variables.
type Config struct {
	AdminEmail    string
	AdminPassword string
	SessionSecret string
	DBPath        string
	Port          string
	Env           string

	Log    logging.Config
	Chrome Chrome
	Export Export
	MinIO  storage.MinIOConfig

	// Warnings lists problems found while loading. Load never fails; the
	// caller logs these once a logger exists.
	Warnings []string
}

// Chrome configures the browser used to rasterize pages.
type Chrome struct {
	Path         string
	NoSandbox    bool
	AutoDownload bool
}

// Export configures where and how finished documents are written.
type Export struct {
	Dir     string
	Prefix  string
	Timeout time.Duration
}

// IsDev reports whether the app runs in local development mode.
func (c Config) IsDev() bool {
	return strings.EqualFold(c.Env, "dev") || strings.EqualFold(c.Env, "development")
}

// MinIOEnabled reports whether exports should be uploaded to object storage.
func (c Config) MinIOEnabled() bool {
	return c.MinIO.Endpoint != ""
}

// Load reads ./.env (if present) and the environment.
func Load() Config {
	return LoadFile(".env")
}

// LoadFile is Load with an explicit dotenv path. Variables already present
// in the environment win over the file.
func LoadFile(path string) Config {
	var warnings []string

	// Best-effort: production should use real env injection.
	if err := godotenv.Load(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		warnings = append(warnings, "could not read "+path+": "+err.Error())
	}

	v := viper.New()
	v.AutomaticEnv()
	v.SetDefault("DB_PATH", defaultDBPath)
	v.SetDefault("PORT", defaultPort)
	v.SetDefault("APP_ENV", defaultEnv)
	v.SetDefault("LOG_LEVEL", logging.DefaultConfig().Level)
	v.SetDefault("LOG_FORMAT", logging.DefaultConfig().Format)
	v.SetDefault("LOG_OUTPUT", logging.DefaultConfig().Output)
	v.SetDefault("EXPORT_DIR", defaultExportDir)
	v.SetDefault("EXPORT_PREFIX", defaultExportPrefix)
	v.SetDefault("EXPORT_TIMEOUT", defaultExportTimeout)
	v.SetDefault("MINIO_BUCKET", defaultMinIOBucket)

	cfg := Config{
		AdminEmail:    v.GetString("ADMIN_EMAIL"),
		AdminPassword: v.GetString("ADMIN_PASSWORD"),
		SessionSecret: v.GetString("SESSION_SECRET"),
		DBPath:        v.GetString("DB_PATH"),
		Port:          v.GetString("PORT"),
		Env:           v.GetString("APP_ENV"),
		Chrome: Chrome{
			Path:         v.GetString("CHROME_PATH"),
			NoSandbox:    v.GetBool("CHROME_NO_SANDBOX"),
			AutoDownload: v.GetBool("CHROME_AUTO_DOWNLOAD"),
		},
		Export: Export{
			Dir:     v.GetString("EXPORT_DIR"),
			Prefix:  v.GetString("EXPORT_PREFIX"),
			Timeout: v.GetDuration("EXPORT_TIMEOUT"),
		},
		MinIO: storage.MinIOConfig{
			Endpoint:  v.GetString("MINIO_ENDPOINT"),
			AccessKey: v.GetString("MINIO_ACCESS_KEY"),
			SecretKey: v.GetString("MINIO_SECRET_KEY"),
			Bucket:    v.GetString("MINIO_BUCKET"),
			UseSSL:    v.GetBool("MINIO_USE_SSL"),
		},
	}
	cfg.Log = logging.Config{
		Level:       v.GetString("LOG_LEVEL"),
		Format:      v.GetString("LOG_FORMAT"),
		Output:      v.GetString("LOG_OUTPUT"),
		Development: cfg.IsDev(),
	}

	if cfg.Export.Timeout <= 0 {
		warnings = append(warnings, "EXPORT_TIMEOUT is not a positive duration, using default")
		cfg.Export.Timeout = defaultExportTimeout
	}
	if cfg.AdminEmail == "" {
		warnings = append(warnings, "ADMIN_EMAIL is not set")
	}
	if cfg.AdminPassword == "" {
		warnings = append(warnings, "ADMIN_PASSWORD is not set")
	}
	if cfg.SessionSecret == "" {
		warnings = append(warnings, "SESSION_SECRET is not set")
	}
	if cfg.MinIOEnabled() && (cfg.MinIO.AccessKey == "" || cfg.MinIO.SecretKey == "") {
		warnings = append(warnings, "MINIO_ENDPOINT is set without credentials")
	}

	cfg.Warnings = warnings
	return cfg
}
