package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

// Config holds all runtime settings. Values come from the compiled defaults,
// then an optional YAML file, then environment variables.
type Config struct {
	MongoURI string `yaml:"mongo_uri"`
	Database string `yaml:"database"`
	Port     string `yaml:"port"`
	BaseURL  string `yaml:"base_url"`

	Redis   RedisConfig   `yaml:"redis"`
	Auth    AuthConfig    `yaml:"auth"`
	Storage StorageConfig `yaml:"storage"`
	SMS     SMSConfig     `yaml:"sms"`
	Logger  LoggerConfig  `yaml:"logger"`

	// CacheRefreshSpec is a cron spec for the product cache refresh job
	CacheRefreshSpec string `yaml:"cache_refresh_spec"`
}

type RedisConfig struct {
	Addr     string `yaml:"addr"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
}

type AuthConfig struct {
	JWTSecret  string        `yaml:"jwt_secret"`
	SessionTTL time.Duration `yaml:"session_ttl"`
	// Bootstrap credentials, read only by the seed command
	AdminEmail    string `yaml:"admin_email"`
	AdminPassword string `yaml:"admin_password"`
}

// MinSecretLength is the shortest JWT secret the server accepts
const MinSecretLength = 32

var weakSecrets = map[string]bool{
	"change-me": true,
	"changeme":  true,
	"secret":    true,
}

// CheckSecret rejects a missing, placeholder or short signing secret. Any
// of those would let a caller forge an admin token.
func (a AuthConfig) CheckSecret() error {
	secret := strings.TrimSpace(a.JWTSecret)
	switch {
	case secret == "":
		return errors.New("JWT_SECRET is not set")
	case weakSecrets[strings.ToLower(secret)]:
		return errors.New("JWT_SECRET is a placeholder value")
	case len(secret) < MinSecretLength:
		return errors.Errorf("JWT_SECRET must be at least %d characters", MinSecretLength)
	}
	return nil
}

// StorageConfig describes an S3-compatible bucket (DigitalOcean Spaces)
type StorageConfig struct {
	Endpoint  string `yaml:"endpoint"`
	Region    string `yaml:"region"`
	Bucket    string `yaml:"bucket"`
	AccessKey string `yaml:"access_key"`
	SecretKey string `yaml:"secret_key"`
}

// Configured reports whether every value needed for uploads is present
func (s StorageConfig) Configured() bool {
	return s.Endpoint != "" && s.Bucket != "" && s.AccessKey != "" && s.SecretKey != ""
}

type SMSConfig struct {
	AccountSID  string `yaml:"account_sid"`
	AuthToken   string `yaml:"auth_token"`
	FromNumber  string `yaml:"from_number"`
	InquiryToNo string `yaml:"inquiry_to_number"`
}

// Configured reports whether the gateway credentials are present
func (s SMSConfig) Configured() bool {
	return s.AccountSID != "" && s.AuthToken != "" && s.FromNumber != ""
}

type LoggerConfig struct {
	Mode     string `yaml:"mode"`
	Filename string `yaml:"filename"`
}

func defaultConfig() *Config {
	return &Config{
		MongoURI: "mongodb://localhost:27017/",
		Database: "storefront",
		Port:     ":8080",
		BaseURL:  "http://localhost:8080",
		Redis: RedisConfig{
			Addr: "localhost:6379",
		},
		Auth: AuthConfig{
			SessionTTL: 24 * time.Hour,
		},
		Storage: StorageConfig{
			Region: "us-east-1",
		},
		SMS: SMSConfig{
			InquiryToNo: "+16127200910",
		},
		Logger: LoggerConfig{
			Mode: "development",
		},
		CacheRefreshSpec: "@every 1m",
	}
}

// LoadConfig builds the configuration. path may be empty.
func LoadConfig(path string) (*Config, error) {
	cfg := defaultConfig()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, errors.Wrap(err, "read config file")
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, errors.Wrap(err, "parse config file")
		}
	}

	if err := applyEnv(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

func applyEnv(cfg *Config) error {
	setString(&cfg.MongoURI, "MONGODB_URI")
	setString(&cfg.Database, "MONGODB_DATABASE")
	setString(&cfg.Port, "PORT")
	setString(&cfg.BaseURL, "BASE_URL")

	setString(&cfg.Redis.Addr, "REDIS_ADDR")
	setString(&cfg.Redis.Password, "REDIS_PASSWORD")
	if v := os.Getenv("REDIS_DB"); v != "" {
		db, err := strconv.Atoi(v)
		if err != nil {
			return errors.Wrap(err, "REDIS_DB")
		}
		cfg.Redis.DB = db
	}

	setString(&cfg.Auth.JWTSecret, "JWT_SECRET")
	if v := os.Getenv("SESSION_TTL"); v != "" {
		ttl, err := time.ParseDuration(v)
		if err != nil {
			return errors.Wrap(err, "SESSION_TTL")
		}
		cfg.Auth.SessionTTL = ttl
	}
	setString(&cfg.Auth.AdminEmail, "ADMIN_EMAIL")
	setString(&cfg.Auth.AdminPassword, "ADMIN_PASSWORD")

	setString(&cfg.Storage.Endpoint, "DO_SPACE_ENDPOINT")
	setString(&cfg.Storage.Region, "DO_SPACE_REGION")
	setString(&cfg.Storage.Bucket, "DO_SPACE_BUCKET")
	setString(&cfg.Storage.AccessKey, "DO_SPACE_KEY")
	setString(&cfg.Storage.SecretKey, "DO_SPACE_SECRET")

	setString(&cfg.SMS.AccountSID, "TWILIO_ACCOUNT_SID")
	setString(&cfg.SMS.AuthToken, "TWILIO_AUTH_TOKEN")
	setString(&cfg.SMS.FromNumber, "TWILIO_PHONE_NUMBER")
	setString(&cfg.SMS.InquiryToNo, "INQUIRY_TO_PHONE")

	setString(&cfg.Logger.Mode, "LOG_MODE")
	setString(&cfg.Logger.Filename, "LOG_FILE")
	setString(&cfg.CacheRefreshSpec, "CACHE_REFRESH_SPEC")

	// Accept a bare port number as well as ":port"
	if cfg.Port != "" && cfg.Port[0] != ':' {
		if _, err := strconv.Atoi(cfg.Port); err == nil {
			cfg.Port = ":" + cfg.Port
		}
	}
	return nil
}

func setString(dst *string, key string) {
	if v, ok := os.LookupEnv(key); ok {
		*dst = v
	}
}
