package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/kendall-kelly/dressmaker-orders-api/logger"
)

// Config holds all application configuration
type Config struct {
	Port     string
	GoEnv    string
	LogLevel string
	LogDir   string

	MongoURI      string
	MongoDatabase string

	AdminSecret   string
	AdminTokenTTL time.Duration
	TokenIssuer   string
	TokenAudience string

	LineChannelSecret      string
	LineChannelAccessToken string
	LineAPIBaseURL         string
	AdminLineUserIDs       []string
	PublicBaseURL          string

	QueueEnabled     bool
	RedisAddr        string
	RedisPassword    string
	RedisDB          int
	QueueConcurrency int
	QueueMaxRetry    int

	SheetWebhookURL   string
	SheetWorkbookPath string

	AWSRegion          string
	AWSS3Bucket        string
	AWSAccessKeyID     string
	AWSSecretAccessKey string
	UploadDir          string

	CORSAllowedOrigins []string
}

// Load loads the configuration from environment variables
// It automatically determines which .env file to load based on GO_ENV
func Load() (*Config, error) {
	env := os.Getenv("GO_ENV")
	if env == "" {
		env = "development"
	}

	envFile := fmt.Sprintf(".env.%s", env)
	if err := godotenv.Load(envFile); err != nil {
		// On the host the variables are usually set directly
		if err := godotenv.Load(); err != nil {
			logger.Debugw("config_env_file_missing", "file", envFile)
		}
	} else {
		logger.Infow("config_env_file_loaded", "file", envFile)
	}

	config := &Config{
		Port:     getEnv("PORT", "8080"),
		GoEnv:    getEnv("GO_ENV", "development"),
		LogLevel: getEnv("LOG_LEVEL", "info"),
		LogDir:   getEnv("LOG_DIR", ""),

		MongoURI:      getEnv("MONGODB_URI", ""),
		MongoDatabase: getEnv("MONGODB_DATABASE", "dressmaker"),

		AdminSecret:   getEnv("ADMIN_SECRET", ""),
		AdminTokenTTL: getEnvDuration("ADMIN_TOKEN_TTL", 12*time.Hour),
		TokenIssuer:   getEnv("TOKEN_ISSUER", "dressmaker-orders-api"),
		TokenAudience: getEnv("TOKEN_AUDIENCE", "dressmaker-admin"),

		LineChannelSecret:      getEnv("LINE_CHANNEL_SECRET", ""),
		LineChannelAccessToken: getEnv("LINE_CHANNEL_ACCESS_TOKEN", ""),
		LineAPIBaseURL:         getEnv("LINE_API_BASE_URL", "https://api.line.me"),
		AdminLineUserIDs:       getEnvList("ADMIN_LINE_USER_IDS"),
		PublicBaseURL:          strings.TrimRight(getEnv("PUBLIC_BASE_URL", "http://localhost:8080"), "/"),

		QueueEnabled:     getEnvBool("QUEUE_ENABLED", false),
		RedisAddr:        getEnv("REDIS_ADDR", "127.0.0.1:6379"),
		RedisPassword:    getEnv("REDIS_PASSWORD", ""),
		RedisDB:          getEnvInt("REDIS_DB", 0),
		QueueConcurrency: getEnvInt("QUEUE_CONCURRENCY", 5),
		QueueMaxRetry:    getEnvInt("QUEUE_MAX_RETRY", 5),

		SheetWebhookURL:   getEnv("SHEET_WEBHOOK_URL", ""),
		SheetWorkbookPath: getEnv("SHEET_WORKBOOK_PATH", ""),

		AWSRegion:          getEnv("AWS_REGION", "ap-southeast-1"),
		AWSS3Bucket:        getEnv("AWS_S3_BUCKET", ""),
		AWSAccessKeyID:     getEnv("AWS_ACCESS_KEY_ID", ""),
		AWSSecretAccessKey: getEnv("AWS_SECRET_ACCESS_KEY", ""),
		UploadDir:          getEnv("UPLOAD_DIR", "./uploads"),

		CORSAllowedOrigins: getEnvList("CORS_ALLOWED_ORIGINS"),
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}

	return config, nil
}

// Validate checks that all required configuration values are set
func (c *Config) Validate() error {
	if c.IsTest() {
		return nil
	}
	if c.MongoURI == "" {
		return fmt.Errorf("MONGODB_URI is required")
	}
	if c.AdminSecret == "" {
		return fmt.Errorf("ADMIN_SECRET is required")
	}
	if c.QueueEnabled && c.RedisAddr == "" {
		return fmt.Errorf("REDIS_ADDR is required when QUEUE_ENABLED is set")
	}
	return nil
}

// IsProduction returns true if the application is running in production mode
func (c *Config) IsProduction() bool {
	return c.GoEnv == "production"
}

// IsTest returns true if the application is running in test mode
func (c *Config) IsTest() bool {
	return c.GoEnv == "test"
}

// IsDevelopment returns true if the application is running in development mode
func (c *Config) IsDevelopment() bool {
	return c.GoEnv == "development"
}

// UsesS3 reports whether reference images go to S3 instead of the upload dir
func (c *Config) UsesS3() bool {
	return c.AWSS3Bucket != ""
}

// ConfirmReceivedURL is the public link a customer opens to confirm delivery
func (c *Config) ConfirmReceivedURL(orderID string) string {
	return fmt.Sprintf("%s/api/v1/orders/confirm-received/%s", c.PublicBaseURL, orderID)
}

// TailorJobsURL lists the jobs assigned to a tailor
func (c *Config) TailorJobsURL(lineUserID string) string {
	return fmt.Sprintf("%s/api/v1/tailors/%s/jobs", c.PublicBaseURL, lineUserID)
}

// LoggerOptions maps the log settings to logger.Options
func (c *Config) LoggerOptions() logger.Options {
	return logger.Options{Dir: c.LogDir}
}

// getEnv retrieves an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		logger.Warnw("config_invalid_int", "key", key, "value", value)
		return defaultValue
	}
	return n
}

func getEnvBool(key string, defaultValue bool) bool {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	b, err := strconv.ParseBool(value)
	if err != nil {
		logger.Warnw("config_invalid_bool", "key", key, "value", value)
		return defaultValue
	}
	return b
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	d, err := time.ParseDuration(value)
	if err != nil || d <= 0 {
		logger.Warnw("config_invalid_duration", "key", key, "value", value)
		return defaultValue
	}
	return d
}

// getEnvList splits a comma separated variable, dropping empty entries
func getEnvList(key string) []string {
	var out []string
	for _, part := range strings.Split(os.Getenv(key), ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
