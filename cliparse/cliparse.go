package cliparse

import (
	"errors"
	"flag"
	"net/url"
	"os"
	"strconv"

	"github.com/danielhkuo/adaptable-records/appconfig"
)

type Config struct {
	Port         int
	DatabaseURL  string
	DatabaseType string
	Table        string
	SchemaMode   string
	ConfigPath   string
	LogLevel     string
	LogFormat    string
	SeqURL       string
}

// ParseFlags validates flags and fills unset values from the environment
func ParseFlags(args []string) (Config, error) {
	var cfg Config

	fs := flag.NewFlagSet("adaptable-records", flag.ContinueOnError)

	// Network and storage
	fs.IntVar(&cfg.Port, "p", 0, "Server port")
	fs.StringVar(&cfg.DatabaseURL, "d", "", "Database URL (sqlite file or postgres URL)")
	fs.StringVar(&cfg.DatabaseType, "t", "", "Database type (sqlite or postgres)")
	fs.StringVar(&cfg.Table, "table", "", "Table holding the records")
	fs.StringVar(&cfg.SchemaMode, "schema", "", "Schema mode (dynamic or fixed)")
	fs.StringVar(&cfg.ConfigPath, "config", "", "Customization file")

	// Logging
	fs.StringVar(&cfg.LogLevel, "log-level", "", "Log level (debug, info, warn, error)")
	fs.StringVar(&cfg.LogFormat, "log-format", "", "Log format (text or json)")
	fs.StringVar(&cfg.SeqURL, "seq", "", "Seq server URL for log shipping")

	if err := fs.Parse(args); err != nil {
		return Config{}, err
	}

	// Fall back to environment variables
	if cfg.Port == 0 {
		if portStr := os.Getenv("PORT"); portStr != "" {
			port, err := strconv.Atoi(portStr)
			if err != nil {
				return Config{}, errors.New("invalid PORT env variable")
			}
			cfg.Port = port
		} else {
			cfg.Port = 3318 // default
		}
	}

	if err := cfg.FillFromEnv(); err != nil {
		return Config{}, err
	}

	return cfg, nil
}

// FillFromEnv completes every storage and logging setting left empty.
// It is shared with the command line client.
func (cfg *Config) FillFromEnv() error {
	fallback(&cfg.DatabaseType, os.Getenv("DATABASE_TYPE"), "sqlite")
	fallback(&cfg.SchemaMode, os.Getenv("SCHEMA_MODE"), "dynamic")

	defaultTable := "records"
	if cfg.SchemaMode == "fixed" {
		defaultTable = "students"
	}
	fallback(&cfg.Table, os.Getenv("TABLE_NAME"), defaultTable)
	fallback(&cfg.ConfigPath, os.Getenv("APP_CONFIG"), appconfig.DefaultPath)
	fallback(&cfg.LogLevel, os.Getenv("LOG_LEVEL"), "info")
	fallback(&cfg.LogFormat, os.Getenv("LOG_FORMAT"), "text")
	fallback(&cfg.SeqURL, os.Getenv("SEQ_URL"), "")

	if cfg.DatabaseURL == "" {
		cfg.DatabaseURL = os.Getenv("DATABASE_URL")
	}
	if cfg.DatabaseURL == "" {
		switch cfg.DatabaseType {
		case "sqlite", "sqlite3":
			cfg.DatabaseURL = "data.db"
		case "postgres", "postgresql", "pg":
			cfg.DatabaseURL = postgresURLFromEnv()
		default:
			return errors.New("database URL required (use -d or DATABASE_URL env)")
		}
	}

	return nil
}

// postgresURLFromEnv assembles a connection string for the networked
// student database from DB_* variables.
func postgresURLFromEnv() string {
	password := os.Getenv("DB_PASSWORD")
	if password == "" {
		password = os.Getenv("PASSWORD")
	}

	host := envOr("DB_HOST", "localhost") + ":" + envOr("DB_PORT", "5432")
	u := url.URL{
		Scheme:   "postgres",
		Host:     host,
		Path:     "/" + envOr("DB_NAME", "school"),
		RawQuery: "sslmode=" + url.QueryEscape(envOr("DB_SSLMODE", "disable")),
	}
	if password != "" {
		u.User = url.UserPassword(envOr("DB_USER", "root"), password)
	} else {
		u.User = url.User(envOr("DB_USER", "root"))
	}

	return u.String()
}

func fallback(dst *string, env, def string) {
	if *dst != "" {
		return
	}
	if env != "" {
		*dst = env
		return
	}
	*dst = def
}

func envOr(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}
