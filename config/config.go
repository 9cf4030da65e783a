package config

import (
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

type Config struct {
	Port           string   `env:"PORT" envDefault:"8080"`
	GinMode        string   `env:"GIN_MODE" envDefault:"release"`
	AllowedOrigins []string `env:"ALLOWED_ORIGINS" envSeparator:","`

	MongoURI          string `env:"MONGODB_URI,required,notEmpty"`
	DatabaseName      string `env:"DATABASE_NAME" envDefault:"ecommerce"`
	MongoTransactions bool   `env:"MONGODB_TRANSACTIONS" envDefault:"true"`

	JWTSecret        string        `env:"JWT_SECRET,required,notEmpty"`
	JWTRefreshSecret string        `env:"JWT_REFRESH_SECRET,required,notEmpty"`
	AccessTokenTTL   time.Duration `env:"ACCESS_TOKEN_TTL" envDefault:"15m"`
	RefreshTokenTTL  time.Duration `env:"REFRESH_TOKEN_TTL" envDefault:"336h"`
	CookieSecure     bool          `env:"COOKIE_SECURE" envDefault:"true"`
	CookieDomain     string        `env:"COOKIE_DOMAIN"`

	AdminEmail    string `env:"ADMIN_EMAIL"`
	AdminPassword string `env:"ADMIN_PASSWORD"`
	AdminName     string `env:"ADMIN_NAME" envDefault:"Administrator"`

	Translate Translate `envPrefix:"TRANSLATE_"`

	RedisURL            string        `env:"REDIS_URL"`
	TranslationCacheTTL time.Duration `env:"TRANSLATION_CACHE_TTL" envDefault:"720h"`

	ImageStore  string `env:"IMAGE_STORE" envDefault:"gcs"`
	ImageFolder string `env:"IMAGE_FOLDER" envDefault:"ecommerce-dashboard"`
	GCS         GCS
	R2          R2 `envPrefix:"R2_"`

	MaxUploadSizeMB       int `env:"MAX_UPLOAD_SIZE_MB" envDefault:"5"`
	ReadQueryMaxLimit     int `env:"READ_QUERY_MAX_LIMIT" envDefault:"100"`
	DefaultReadQueryLimit int `env:"DEFAULT_READ_QUERY_LIMIT" envDefault:"20"`
}

// Translate configures the machine translation endpoint and its rate limit.
type Translate struct {
	URL      string        `env:"URL" envDefault:"https://translate.fedilab.app/translate"`
	APIKey   string        `env:"API_KEY"`
	Source   string        `env:"SOURCE" envDefault:"en"`
	Target   string        `env:"TARGET" envDefault:"ar"`
	Interval time.Duration `env:"INTERVAL" envDefault:"1s"`
	Burst    int           `env:"BURST" envDefault:"1"`
	Timeout  time.Duration `env:"TIMEOUT" envDefault:"15s"`
}

type GCS struct {
	Bucket          string `env:"GCS_BUCKET"`
	CredentialsFile string `env:"CREDENTIALS_FILE_LOCATION"`
}

type R2 struct {
	Bucket          string `env:"BUCKET"`
	AccessKeyID     string `env:"ACCESS_KEY_ID"`
	SecretAccessKey string `env:"SECRET_ACCESS_KEY"`
	Endpoint        string `env:"ENDPOINT"`
	PublicDomain    string `env:"PUBLIC_DOMAIN"`
}

// Load reads .env when present and parses the process environment.
func Load() (Config, error) {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using system environment variables")
	}
	return Parse()
}

// Parse builds a Config from the process environment only.
func Parse() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c Config) validate() error {
	switch strings.ToLower(c.ImageStore) {
	case "gcs", "r2":
	default:
		return fmt.Errorf("IMAGE_STORE must be gcs or r2, got %q", c.ImageStore)
	}
	if c.Translate.Interval <= 0 {
		return fmt.Errorf("TRANSLATE_INTERVAL must be positive")
	}
	if c.Translate.Burst < 1 {
		return fmt.Errorf("TRANSLATE_BURST must be at least 1")
	}
	if c.MaxUploadSizeMB < 1 {
		return fmt.Errorf("MAX_UPLOAD_SIZE_MB must be at least 1")
	}
	if c.DefaultReadQueryLimit < 1 || c.ReadQueryMaxLimit < c.DefaultReadQueryLimit {
		return fmt.Errorf("DEFAULT_READ_QUERY_LIMIT must be between 1 and READ_QUERY_MAX_LIMIT")
	}
	return nil
}

// MaxUploadBytes is the upload size limit in bytes.
func (c Config) MaxUploadBytes() int64 {
	return int64(c.MaxUploadSizeMB) << 20
}
