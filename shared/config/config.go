package config

import (
	"os"
	"path"
	"strconv"
	"time"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v2"
)

const (
	BackendMemory   = "memory"
	BackendPostgres = "postgres"
)

type Config struct {
	Public  Public
	Private Private
}

type Public struct {
	StorageBackend     string        `yaml:"storage_backend" validate:"required,oneof=memory postgres"`
	ThreadsPerBoard    int           `yaml:"threads_per_board" validate:"required,gt=0"`
	RepliesPreview     int           `yaml:"replies_preview" validate:"required,gt=0"` // replies shown per thread in board listing
	MaxTextLength      int           `yaml:"max_text_length" validate:"required,gt=0"`
	StripHTML          bool          `yaml:"strip_html"`
	StaticDir          string        `yaml:"static_dir"`
	LogLevel           string        `yaml:"log_level"`
	LogJSON            bool          `yaml:"log_json"`
	CorsAllowedOrigins []string      `yaml:"cors_allowed_origins"`
	WriteRPS           float64       `yaml:"write_rps" validate:"required,gt=0"` // per IP, write routes only
	WriteBurst         float64       `yaml:"write_burst" validate:"required,gt=0"`
	JwtTTL             time.Duration `yaml:"jwt_ttl"`
	SecureCookies      bool          `yaml:"secure_cookies"`
}

type Pg struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	Dbname   string `yaml:"dbname"`
}

type Private struct {
	Pg     Pg     `yaml:"pg"`
	JwtKey string `yaml:"jwt_key" validate:"required"`
}

func (c *Config) JwtKey() string {
	return c.Private.JwtKey
}

func (c *Config) JwtTTL() time.Duration {
	return c.Public.JwtTTL
}

// Default returns the configuration used when no files are given,
// e.g. by the in-process self-test.
func Default() *Config {
	return &Config{
		Public: Public{
			StorageBackend:     BackendMemory,
			ThreadsPerBoard:    10,
			RepliesPreview:     3,
			MaxTextLength:      10_000,
			StaticDir:          "public",
			LogLevel:           "info",
			CorsAllowedOrigins: []string{"*"},
			WriteRPS:           10,
			WriteBurst:         20,
			JwtTTL:             24 * time.Hour,
		},
	}
}

func mustLoadPath(configPath string, output interface{}) {
	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		panic("config file does not exist: " + configPath)
	}
	configFile, err := os.ReadFile(configPath)
	if err != nil {
		panic("can't read config file")
	}

	if err = yaml.UnmarshalStrict(configFile, output); err != nil {
		panic("can't unmarshal config file " + configPath + ": " + err.Error())
	}
}

// MustLoad reads public.yaml and private.yaml from configFolder, applies
// environment overrides and panics if a required field is missing.
func MustLoad(configFolder string) *Config {
	var public Public
	mustLoadPath(path.Join(configFolder, "public.yaml"), &public)

	var private Private
	mustLoadPath(path.Join(configFolder, "private.yaml"), &private)

	cfg := &Config{public, private}
	applyEnv(cfg)

	validate := validator.New(validator.WithRequiredStructEnabled())
	if err := validate.Struct(cfg); err != nil {
		panic("invalid config: " + err.Error())
	}
	return cfg
}

func applyEnv(cfg *Config) {
	if backend := os.Getenv("STORAGE_BACKEND"); backend != "" {
		cfg.Public.StorageBackend = backend
	}
	if host := os.Getenv("PG_HOST"); host != "" {
		cfg.Private.Pg.Host = host
	}
	if port, err := strconv.Atoi(os.Getenv("PG_PORT")); err == nil {
		cfg.Private.Pg.Port = port
	}
}
