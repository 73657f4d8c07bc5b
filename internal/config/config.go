package config

import (
	"errors"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

type Config struct {
	App      AppConfig      `yaml:"app"`
	Server   ServerConfig   `yaml:"server"`
	Database DatabaseConfig `yaml:"database"`
	JWT      JWTConfig      `yaml:"jwt"`
	GitHub   GitHubConfig   `yaml:"github"`
	Cookie   CookieConfig   `yaml:"cookie"`
}

type AppConfig struct {
	Environment string `yaml:"environment"` // development, production
	LogLevel    string `yaml:"log_level"`
	APIURL      string `yaml:"api_url"`      // public base URL of this service
	FrontendURL string `yaml:"frontend_url"` // where the OAuth callback redirects
}

type ServerConfig struct {
	Host       string   `yaml:"host"`
	Port       string   `yaml:"port"`
	Mode       string   `yaml:"mode"` // debug, release, test
	CORSOrigin []string `yaml:"cors_origin"`
}

type DatabaseConfig struct {
	Driver        string `yaml:"driver"` // sqlite, mysql, postgres, mongo
	DSN           string `yaml:"dsn"`
	MongoURI      string `yaml:"mongo_uri"`
	MongoDatabase string `yaml:"mongo_database"`
	Debug         bool   `yaml:"debug"`
}

type JWTConfig struct {
	Secret     string `yaml:"secret"`
	ExpireHour int    `yaml:"expire_hour"`
}

type GitHubConfig struct {
	ClientID     string `yaml:"client_id"`
	ClientSecret string `yaml:"client_secret"`
}

type CookieConfig struct {
	HashKey  string `yaml:"hash_key"`
	BlockKey string `yaml:"block_key"`
	MaxAge   int    `yaml:"max_age"` // seconds
}

func Load(configPath string) (*Config, error) {
	// .env is optional; real deployments inject the environment directly.
	_ = godotenv.Load()

	if configPath == "" {
		configPath = "config.yaml"
	}

	var cfg *Config

	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		cfg = DefaultConfig()
	} else {
		data, err := os.ReadFile(configPath)
		if err != nil {
			return nil, err
		}

		fileCfg := DefaultConfig()
		if err := yaml.Unmarshal(data, fileCfg); err != nil {
			return nil, err
		}
		cfg = fileCfg
	}

	cfg.overrideFromEnv()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func DefaultConfig() *Config {
	return &Config{
		App: AppConfig{
			Environment: "development",
			LogLevel:    "info",
			APIURL:      "http://localhost:8080",
			FrontendURL: "http://localhost:5173",
		},
		Server: ServerConfig{
			Host:       "0.0.0.0",
			Port:       "8080",
			Mode:       "debug",
			CORSOrigin: []string{"http://localhost:5173"},
		},
		Database: DatabaseConfig{
			Driver:        "sqlite",
			DSN:           "ancome.db",
			MongoDatabase: "ancome",
		},
		JWT: JWTConfig{
			Secret:     "ancome-secret-key-change-in-production",
			ExpireHour: 24 * 30,
		},
		Cookie: CookieConfig{
			MaxAge: 60 * 60 * 24 * 30,
		},
	}
}

// IsProduction reports whether cookies must be Secure/SameSite=None.
func (c *Config) IsProduction() bool {
	return c.App.Environment == "production"
}

func (c *Config) Validate() error {
	if c.Server.Port == "" {
		return errors.New("server port is required")
	}
	switch c.Database.Driver {
	case "sqlite", "mysql", "postgres":
		if c.Database.DSN == "" {
			return errors.New("database dsn is required")
		}
	case "mongo":
		if c.Database.MongoURI == "" {
			return errors.New("mongo uri is required when driver is mongo")
		}
	default:
		return errors.New("unsupported database driver: " + c.Database.Driver)
	}
	if c.JWT.Secret == "" {
		return errors.New("jwt secret is required")
	}
	if c.IsProduction() && c.Cookie.HashKey == "" {
		return errors.New("cookie hash key is required in production")
	}
	return nil
}

func (c *Config) overrideFromEnv() {
	if env := os.Getenv("APP_ENV"); env != "" {
		c.App.Environment = env
	}
	if level := os.Getenv("LOG_LEVEL"); level != "" {
		c.App.LogLevel = level
	}
	if apiURL := os.Getenv("API_URL"); apiURL != "" {
		c.App.APIURL = strings.TrimSuffix(apiURL, "/")
	}
	if frontend := os.Getenv("FRONTEND_URL"); frontend != "" {
		c.App.FrontendURL = strings.TrimSuffix(frontend, "/")
	}
	if host := os.Getenv("SERVER_HOST"); host != "" {
		c.Server.Host = host
	}
	if port := os.Getenv("SERVER_PORT"); port != "" {
		c.Server.Port = port
	} else if port := os.Getenv("PORT"); port != "" {
		c.Server.Port = port
	}
	if mode := os.Getenv("SERVER_MODE"); mode != "" {
		c.Server.Mode = mode
	}
	if origin := os.Getenv("CORS_ORIGIN"); origin != "" {
		c.Server.CORSOrigin = splitList(origin)
	}
	if driver := os.Getenv("DB_DRIVER"); driver != "" {
		c.Database.Driver = driver
	}
	if dsn := os.Getenv("DB_DSN"); dsn != "" {
		c.Database.DSN = dsn
	}
	if uri := os.Getenv("MONGO_URI"); uri != "" {
		c.Database.MongoURI = uri
	}
	if name := os.Getenv("MONGO_DATABASE"); name != "" {
		c.Database.MongoDatabase = name
	}
	if secret := os.Getenv("JWT_SECRET"); secret != "" {
		c.JWT.Secret = secret
	}
	if hours := os.Getenv("JWT_EXPIRE_HOUR"); hours != "" {
		if h, err := strconv.Atoi(hours); err == nil && h > 0 {
			c.JWT.ExpireHour = h
		}
	}
	if id := os.Getenv("GITHUB_CLIENT_ID"); id != "" {
		c.GitHub.ClientID = id
	}
	if secret := os.Getenv("GITHUB_CLIENT_SECRET"); secret != "" {
		c.GitHub.ClientSecret = secret
	}
	if key := os.Getenv("COOKIE_HASH_KEY"); key != "" {
		c.Cookie.HashKey = key
	}
	if key := os.Getenv("COOKIE_BLOCK_KEY"); key != "" {
		c.Cookie.BlockKey = key
	}
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

func (c *Config) Save(configPath string) error {
	if configPath == "" {
		configPath = "config.yaml"
	}

	dir := filepath.Dir(configPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return err
	}

	return os.WriteFile(configPath, data, 0644)
}
