package utils

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const (
	StoreMongo    = "mongo"
	StorePostgres = "postgres"
	StoreMemory   = "memory"
)

type Config struct {
	ServerPort  string
	JWTSecret   string
	TokenTTL    time.Duration
	HashCost    int
	StoreDriver string
	CORSOrigins []string
	Postgres    PostgresConfig
	Mongo       MongoConfig
	Logging     LoggingConfig
}

type PostgresConfig struct {
	DSN               string
	Host              string
	Port              int
	User              string
	Password          string
	Database          string
	MaxConns          int32
	MinConns          int32
	MaxConnLifetime   time.Duration
	MaxConnIdleTime   time.Duration
	HealthCheckPeriod time.Duration
	ConnectTimeout    time.Duration
}

type MongoConfig struct {
	URI            string
	Database       string
	ConnectTimeout time.Duration
}

type LoggingConfig struct {
	Level        string
	Encoding     string
	Development  bool
	EnableCaller bool
	ServiceName  string
}

// LoadEnvFiles loads the given dotenv files into the process environment. Missing
// files are skipped so variables can be supplied externally.
func LoadEnvFiles(paths ...string) error {
	for _, path := range paths {
		if err := godotenv.Load(path); err != nil {
			var pathErr *fs.PathError
			if errors.As(err, &pathErr) {
				continue
			}
			return fmt.Errorf("load %s: %w", path, err)
		}
	}
	return nil
}

// LoadConfig reads the configuration from the environment. JWT_SECRET has no
// default: the server refuses to start without it.
func LoadConfig() (*Config, error) {
	cfg := fromEnv()
	if err := cfg.validate(true); err != nil {
		return nil, err
	}
	return cfg, nil
}

// LoadStoreConfig is LoadConfig for tools that only talk to the store and never
// sign tokens.
func LoadStoreConfig() (*Config, error) {
	cfg := fromEnv()
	if err := cfg.validate(false); err != nil {
		return nil, err
	}
	return cfg, nil
}

func fromEnv() *Config {
	pgPort, _ := strconv.Atoi(envOrDefault("POSTGRES_PORT", "5432"))

	mongoURI := strings.TrimSpace(os.Getenv("MONGO_URI"))
	if mongoURI == "" {
		mongoURI = envOrDefault("MONGODB_URI", "mongodb://localhost:27017")
	}

	cfg := &Config{
		ServerPort:  envOrDefault("PORT", "5000"),
		JWTSecret:   strings.TrimSpace(os.Getenv("JWT_SECRET")),
		TokenTTL:    parseDuration(envOrDefault("JWT_EXPIRES_IN", "1h"), time.Hour),
		HashCost:    parseInt(envOrDefault("BCRYPT_COST", "10"), 10),
		StoreDriver: strings.ToLower(envOrDefault("STORE_DRIVER", StoreMongo)),
		CORSOrigins: parseList(envOrDefault("CORS_ALLOWED_ORIGINS", "*")),
		Postgres: PostgresConfig{
			DSN:               os.Getenv("POSTGRES_DSN"),
			Host:              envOrDefault("POSTGRES_HOST", "localhost"),
			Port:              pgPort,
			User:              envOrDefault("POSTGRES_USER", "postgres"),
			Password:          os.Getenv("POSTGRES_PASSWORD"),
			Database:          envOrDefault("POSTGRES_DB", "taskpad"),
			MaxConns:          parseInt32(envOrDefault("POSTGRES_MAX_CONNS", "8"), 8),
			MinConns:          parseInt32(envOrDefault("POSTGRES_MIN_CONNS", "1"), 1),
			MaxConnLifetime:   parseDuration(envOrDefault("POSTGRES_MAX_CONN_LIFETIME", "1h"), time.Hour),
			MaxConnIdleTime:   parseDuration(envOrDefault("POSTGRES_MAX_CONN_IDLE", "30m"), 30*time.Minute),
			HealthCheckPeriod: parseDuration(envOrDefault("POSTGRES_HEALTH_CHECK_PERIOD", "1m"), time.Minute),
			ConnectTimeout:    parseDuration(envOrDefault("POSTGRES_CONNECT_TIMEOUT", "5s"), 5*time.Second),
		},
		Mongo: MongoConfig{
			URI:            mongoURI,
			Database:       envOrDefault("MONGO_DATABASE", "taskpad"),
			ConnectTimeout: parseDuration(envOrDefault("MONGO_CONNECT_TIMEOUT", "5s"), 5*time.Second),
		},
		Logging: LoggingConfig{
			Level:        strings.ToLower(envOrDefault("LOG_LEVEL", "info")),
			Encoding:     strings.ToLower(envOrDefault("LOG_ENCODING", "console")),
			Development:  parseBool(envOrDefault("LOG_DEVELOPMENT", "false"), false),
			EnableCaller: parseBool(envOrDefault("LOG_CALLER", "false"), false),
			ServiceName:  envOrDefault("SERVICE_NAME", "taskpad-server"),
		},
	}

	return cfg
}

func (c *Config) validate(needSecret bool) error {
	problems := make([]string, 0, 3)

	if needSecret && c.JWTSecret == "" {
		problems = append(problems, "JWT_SECRET is required")
	}

	switch c.StoreDriver {
	case StoreMongo, StorePostgres, StoreMemory:
	default:
		problems = append(problems, fmt.Sprintf("STORE_DRIVER %q is not one of mongo, postgres, memory", c.StoreDriver))
	}

	if c.TokenTTL <= 0 {
		problems = append(problems, "JWT_EXPIRES_IN must be positive")
	}

	if len(problems) > 0 {
		return fmt.Errorf("invalid configuration: %s", strings.Join(problems, "; "))
	}

	return nil
}

func (c PostgresConfig) BuildDSN() string {
	if c.DSN != "" {
		return c.DSN
	}
	return fmt.Sprintf("postgres://%s:%s@%s:%d/%s", c.User, c.Password, c.Host, c.Port, c.Database)
}

func envOrDefault(key, fallback string) string {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return fallback
	}
	return value
}

func parseDuration(value string, fallback time.Duration) time.Duration {
	d, err := time.ParseDuration(value)
	if err != nil {
		return fallback
	}
	return d
}

func parseInt(value string, fallback int) int {
	i, err := strconv.Atoi(value)
	if err != nil {
		return fallback
	}
	return i
}

func parseInt32(value string, fallback int32) int32 {
	i, err := strconv.Atoi(value)
	if err != nil {
		return fallback
	}
	return int32(i)
}

func parseBool(value string, fallback bool) bool {
	v, err := strconv.ParseBool(strings.TrimSpace(value))
	if err != nil {
		return fallback
	}
	return v
}

func parseList(value string) []string {
	parts := strings.Split(value, ",")
	out := make([]string, 0, len(parts))
	for _, part := range parts {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}
