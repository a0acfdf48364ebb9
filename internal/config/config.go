package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// S3Config holds document storage settings. An empty bucket disables uploads to S3.
type S3Config struct {
	Bucket          string `yaml:"bucket"`
	Region          string `yaml:"region"`
	Endpoint        string `yaml:"endpoint"`
	Prefix          string `yaml:"prefix"`
	AccessKeyID     string `yaml:"access_key_id"`
	SecretAccessKey string `yaml:"secret_access_key"`
	PathStyle       bool   `yaml:"path_style"`
}

// KafkaConfig holds event publishing settings. No brokers disables publishing.
type KafkaConfig struct {
	Brokers []string `yaml:"brokers"`
	Topic   string   `yaml:"topic"`
}

// Config holds application configuration
type Config struct {
	Port         string        `yaml:"port"`
	ServiceName  string        `yaml:"service_name"`
	PingMessage  string        `yaml:"ping_message"`
	ReadTimeout  time.Duration `yaml:"read_timeout"`
	WriteTimeout time.Duration `yaml:"write_timeout"`

	DBConn string `yaml:"db_conn"`

	LogLevel      string `yaml:"log_level"`
	LogFile       string `yaml:"log_file"`
	LogMaxSizeMB  int    `yaml:"log_max_size_mb"`
	LogMaxBackups int    `yaml:"log_max_backups"`
	LogMaxAgeDays int    `yaml:"log_max_age_days"`

	JWTSecret   string `yaml:"jwt_secret"`
	AuditSecret string `yaml:"audit_secret"`

	RateLimitRPS   float64 `yaml:"rate_limit_rps"`
	RateLimitBurst int     `yaml:"rate_limit_burst"`
	UploadMaxBytes int64   `yaml:"upload_max_bytes"`

	StatsFeedURL     string        `yaml:"stats_feed_url"`
	StatsRefreshSpec string        `yaml:"stats_refresh_spec"`
	StatsTimeout     time.Duration `yaml:"stats_timeout"`

	SMTPHost     string `yaml:"smtp_host"`
	SMTPPort     string `yaml:"smtp_port"`
	SMTPUsername string `yaml:"smtp_username"`
	SMTPPassword string `yaml:"smtp_password"`
	SenderEmail  string `yaml:"sender_email"`
	NotifyEmail  string `yaml:"notify_email"`

	S3    S3Config    `yaml:"s3"`
	Kafka KafkaConfig `yaml:"kafka"`
}

func defaults() *Config {
	return &Config{
		Port:             "8080",
		ServiceName:      "credit-engine",
		PingMessage:      "Credit engine running",
		ReadTimeout:      10 * time.Second,
		WriteTimeout:     10 * time.Second,
		DBConn:           "host=localhost port=5436 user=test password=test dbname=credit sslmode=disable",
		LogLevel:         "INFO",
		LogMaxSizeMB:     100,
		LogMaxBackups:    5,
		LogMaxAgeDays:    28,
		JWTSecret:        "secret",
		AuditSecret:      "a1b2c3d4e5f6a7b8c9d0e1f2a3b4c5d6a1b2c3d4e5f6a7b8c9d0e1f2a3b4c5d6",
		RateLimitRPS:     50,
		RateLimitBurst:   100,
		UploadMaxBytes:   20 << 20,
		StatsRefreshSpec: "@every 10m",
		StatsTimeout:     5 * time.Second,
		SMTPPort:         "587",
		S3: S3Config{
			Region: "ap-south-1",
			Prefix: "income-documents",
		},
		Kafka: KafkaConfig{
			Topic: "credit-assessments",
		},
	}
}

// NewConfig loads configuration from an optional .env file, an optional YAML
// file (CONFIG_FILE, default config.yml) and environment variables, in
// increasing order of precedence.
func NewConfig() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("failed to load .env: %w", err)
	}

	cfg := defaults()
	if err := cfg.loadFile(getEnv("CONFIG_FILE", "config.yml")); err != nil {
		return nil, err
	}
	cfg.applyEnv()

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) loadFile(path string) error {
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("cannot read config file: %w", err)
	}
	if err := yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("cannot parse YAML: %w", err)
	}
	return nil
}

func (c *Config) applyEnv() {
	c.Port = getEnv("PORT", c.Port)
	c.ServiceName = getEnv("SERVICE_NAME", c.ServiceName)
	c.PingMessage = getEnv("PING_MESSAGE", c.PingMessage)
	c.ReadTimeout = getEnvDuration("READ_TIMEOUT", c.ReadTimeout)
	c.WriteTimeout = getEnvDuration("WRITE_TIMEOUT", c.WriteTimeout)
	c.DBConn = getEnv("DB_CONN", c.DBConn)

	c.LogLevel = getEnv("LOG_LEVEL", c.LogLevel)
	c.LogFile = getEnv("LOG_FILE", c.LogFile)
	c.LogMaxSizeMB = getEnvInt("LOG_MAX_SIZE_MB", c.LogMaxSizeMB)
	c.LogMaxBackups = getEnvInt("LOG_MAX_BACKUPS", c.LogMaxBackups)
	c.LogMaxAgeDays = getEnvInt("LOG_MAX_AGE_DAYS", c.LogMaxAgeDays)

	c.JWTSecret = getEnv("JWT_SECRET", c.JWTSecret)
	c.AuditSecret = getEnv("AUDIT_SECRET", c.AuditSecret)

	c.RateLimitRPS = getEnvFloat("RATE_LIMIT_RPS", c.RateLimitRPS)
	c.RateLimitBurst = getEnvInt("RATE_LIMIT_BURST", c.RateLimitBurst)
	c.UploadMaxBytes = int64(getEnvInt("UPLOAD_MAX_BYTES", int(c.UploadMaxBytes)))

	c.StatsFeedURL = getEnv("STATS_FEED_URL", c.StatsFeedURL)
	c.StatsRefreshSpec = getEnv("STATS_REFRESH_SPEC", c.StatsRefreshSpec)
	c.StatsTimeout = getEnvDuration("STATS_TIMEOUT", c.StatsTimeout)

	c.SMTPHost = getEnv("SMTP_HOST", c.SMTPHost)
	c.SMTPPort = getEnv("SMTP_PORT", c.SMTPPort)
	c.SMTPUsername = getEnv("SMTP_USERNAME", c.SMTPUsername)
	c.SMTPPassword = getEnv("SMTP_PASSWORD", c.SMTPPassword)
	c.SenderEmail = getEnv("SENDER_EMAIL", c.SenderEmail)
	c.NotifyEmail = getEnv("NOTIFY_EMAIL", c.NotifyEmail)

	c.S3.Bucket = getEnv("S3_BUCKET", c.S3.Bucket)
	c.S3.Region = getEnv("S3_REGION", c.S3.Region)
	c.S3.Endpoint = getEnv("S3_ENDPOINT", c.S3.Endpoint)
	c.S3.Prefix = getEnv("S3_PREFIX", c.S3.Prefix)
	c.S3.AccessKeyID = getEnv("S3_ACCESS_KEY_ID", c.S3.AccessKeyID)
	c.S3.SecretAccessKey = getEnv("S3_SECRET_ACCESS_KEY", c.S3.SecretAccessKey)
	c.S3.PathStyle = getEnvBool("S3_PATH_STYLE", c.S3.PathStyle)

	c.Kafka.Brokers = getEnvList("KAFKA_BROKERS", c.Kafka.Brokers)
	c.Kafka.Topic = getEnv("KAFKA_TOPIC", c.Kafka.Topic)
}

func (c *Config) validate() error {
	if c.Port == "" {
		return fmt.Errorf("PORT is required")
	}
	if c.JWTSecret == "" {
		return fmt.Errorf("JWT_SECRET is required")
	}
	if c.AuditSecret == "" {
		return fmt.Errorf("AUDIT_SECRET is required")
	}
	if c.RateLimitRPS <= 0 || c.RateLimitBurst <= 0 {
		return fmt.Errorf("RATE_LIMIT_RPS and RATE_LIMIT_BURST must be positive")
	}
	if c.UploadMaxBytes <= 0 {
		return fmt.Errorf("UPLOAD_MAX_BYTES must be positive")
	}
	if c.SMTPHost != "" && (c.SenderEmail == "" || c.NotifyEmail == "") {
		return fmt.Errorf("SENDER_EMAIL and NOTIFY_EMAIL are required when SMTP_HOST is set")
	}
	if len(c.Kafka.Brokers) > 0 && c.Kafka.Topic == "" {
		return fmt.Errorf("KAFKA_TOPIC is required when KAFKA_BROKERS is set")
	}
	return nil
}

// Addr is the listen address of the HTTP server.
func (c *Config) Addr() string {
	return fmt.Sprintf(":%s", c.Port)
}

func getEnv(key, defaultVal string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultVal
}

func getEnvInt(key string, defaultVal int) int {
	if v, ok := os.LookupEnv(key); ok {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return defaultVal
}

func getEnvFloat(key string, defaultVal float64) float64 {
	if v, ok := os.LookupEnv(key); ok {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
	}
	return defaultVal
}

func getEnvBool(key string, defaultVal bool) bool {
	if v, ok := os.LookupEnv(key); ok {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return defaultVal
}

func getEnvDuration(key string, defaultVal time.Duration) time.Duration {
	if v, ok := os.LookupEnv(key); ok {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return defaultVal
}

func getEnvList(key string, defaultVal []string) []string {
	v, ok := os.LookupEnv(key)
	if !ok {
		return defaultVal
	}
	var out []string
	for _, item := range strings.Split(v, ",") {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	return out
}
