package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Addr            string        `yaml:"addr"`
	JWTSecret       string        `yaml:"jwt_secret"`
	APITimeout      time.Duration `yaml:"timeout"`
	DatabasePath    string        `yaml:"database_path"`
	TokenDuration   time.Duration `yaml:"token_duration"`
	RefreshInterval time.Duration `yaml:"refresh_interval"`
	Admin           AdminSeed     `yaml:"admin"`
}

// AdminSeed optionally provisions an administrator account at startup.
// Seeding is skipped when either field is empty.
type AdminSeed struct {
	Email    string `yaml:"email"`
	Password string `yaml:"password"`
}

func LoadConfig(path string) (*Config, error) {
	apiTimeout := 15 * time.Second
	tokenDuration := 1 * time.Hour
	refreshInterval := 5 * time.Minute

	cfg := &Config{
		Addr:            getEnv("SENTINELA_ADDR", ":8080"),
		JWTSecret:       getEnv("SENTINELA_JWT_SECRET", "supersecretkey"),
		APITimeout:      apiTimeout,
		DatabasePath:    getEnv("SENTINELA_DATABASE_PATH", "sentinela.db"),
		TokenDuration:   tokenDuration,
		RefreshInterval: refreshInterval,
		Admin: AdminSeed{
			Email:    getEnv("SENTINELA_ADMIN_EMAIL", ""),
			Password: getEnv("SENTINELA_ADMIN_PASSWORD", ""),
		},
	}
	if path != "" {
		f, err := os.Open(path)
		if err != nil {
			return nil, err
		}
		defer f.Close()

		dec := yaml.NewDecoder(f)
		if err := dec.Decode(cfg); err != nil {
			return nil, err
		}
	}

	return cfg, nil
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}

	return def
}

// Validate rejects configurations that must not reach production: the
// default JWT secret outside development and non-positive durations.
func (c *Config) Validate() error {
	env := getEnv("SENTINELA_ENV", "development")
	if c.JWTSecret == "" || (c.JWTSecret == "supersecretkey" && env != "development") {
		return fmt.Errorf("jwt_secret is insecure for env %q", env)
	}
	if c.DatabasePath == "" {
		return fmt.Errorf("database_path is required")
	}
	if c.TokenDuration <= 0 {
		return fmt.Errorf("token_duration must be positive")
	}
	if c.RefreshInterval <= 0 {
		return fmt.Errorf("refresh_interval must be positive")
	}

	return nil
}
