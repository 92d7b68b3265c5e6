package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	ServerPort  string
	Environment string
	LogLevel    string

	StoreDriver string

	FirebaseProject            string
	FirebaseServiceAccountPath string
	FirebaseServiceAccountJSON string

	MongoURI      string
	MongoDatabase string

	AuthProvider string
	JWTSecret    string
	JWTExpiry    int64

	StorageBucket string
	UploadDir     string
	PublicBaseURL string

	RedisAddr     string
	RedisPassword string
	RedisGeoKey   string

	KafkaBrokers []string
	KafkaTopic   string

	PaymentGateway      string
	StripeAPIKey        string
	StripeCurrency      string
	MidtransServerKey   string
	MidtransEnvironment string

	OpenAIAPIKey   string
	OpenAIBaseURL  string
	OpenAIModel    string
	ChatbotTimeout time.Duration

	OverdueSweepInterval time.Duration
}

func Load() (*Config, error) {
	// a missing .env file is fine, the process environment still applies
	_ = godotenv.Load()

	var errs []error

	config := &Config{
		ServerPort:  getEnv("SERVER_PORT", "8080"),
		Environment: getEnv("ENVIRONMENT", "development"),
		LogLevel:    getEnv("LOG_LEVEL", "info"),

		StoreDriver: strings.ToLower(getEnv("STORE_DRIVER", "memory")),

		FirebaseProject:            getEnv("FIREBASE_PROJECT_ID", ""),
		FirebaseServiceAccountPath: getEnv("FIREBASE_SERVICE_ACCOUNT_PATH", ""),
		FirebaseServiceAccountJSON: getEnv("FIREBASE_SERVICE_ACCOUNT_JSON", ""),

		MongoURI:      getEnv("MONGO_URI", "mongodb://localhost:27017"),
		MongoDatabase: getEnv("MONGO_DATABASE", "agrirent"),

		AuthProvider: strings.ToLower(getEnv("AUTH_PROVIDER", "jwt")),
		JWTSecret:    getEnv("JWT_SECRET", "change-me"),
		JWTExpiry:    getEnvAsInt64("JWT_EXPIRY", 24*60*60, &errs),

		StorageBucket: getEnv("STORAGE_BUCKET", ""),
		UploadDir:     getEnv("UPLOAD_DIR", "./uploads"),
		PublicBaseURL: getEnv("PUBLIC_BASE_URL", ""),

		RedisAddr:     getEnv("REDIS_ADDR", ""),
		RedisPassword: getEnv("REDIS_PASSWORD", ""),
		RedisGeoKey:   getEnv("REDIS_GEO_KEY", "lands_geo"),

		KafkaBrokers: splitList(getEnv("KAFKA_BROKERS", "")),
		KafkaTopic:   getEnv("KAFKA_TOPIC", "agrirent-events"),

		PaymentGateway:      strings.ToLower(getEnv("PAYMENT_GATEWAY", "manual")),
		StripeAPIKey:        getEnv("STRIPE_API_KEY", ""),
		StripeCurrency:      getEnv("STRIPE_CURRENCY", "inr"),
		MidtransServerKey:   getEnv("MIDTRANS_SERVER_KEY", ""),
		MidtransEnvironment: getEnv("MIDTRANS_ENVIRONMENT", "sandbox"),

		OpenAIAPIKey:   getEnv("OPENAI_API_KEY", ""),
		OpenAIBaseURL:  getEnv("OPENAI_BASE_URL", ""),
		OpenAIModel:    getEnv("OPENAI_MODEL", "gpt-3.5-turbo"),
		ChatbotTimeout: getEnvAsDuration("CHATBOT_TIMEOUT", 10*time.Second, &errs),

		OverdueSweepInterval: getEnvAsDuration("OVERDUE_SWEEP_INTERVAL", time.Hour, &errs),
	}

	errs = append(errs, config.validate()...)
	if len(errs) > 0 {
		return nil, errors.Join(errs...)
	}

	return config, nil
}

func (c *Config) validate() []error {
	var errs []error
	switch c.StoreDriver {
	case "memory", "mongo":
	case "firestore":
		if c.FirebaseProject == "" {
			errs = append(errs, errors.New("FIREBASE_PROJECT_ID is required for the firestore store"))
		}
	default:
		errs = append(errs, fmt.Errorf("STORE_DRIVER %q is not supported", c.StoreDriver))
	}
	switch c.AuthProvider {
	case "jwt":
		if c.JWTSecret == "" {
			errs = append(errs, errors.New("JWT_SECRET must not be empty"))
		}
	case "firebase":
		if c.FirebaseProject == "" {
			errs = append(errs, errors.New("FIREBASE_PROJECT_ID is required for firebase auth"))
		}
	default:
		errs = append(errs, fmt.Errorf("AUTH_PROVIDER %q is not supported", c.AuthProvider))
	}
	switch c.PaymentGateway {
	case "manual":
	case "stripe":
		if c.StripeAPIKey == "" {
			errs = append(errs, errors.New("STRIPE_API_KEY is required for the stripe gateway"))
		}
	case "midtrans":
		if c.MidtransServerKey == "" {
			errs = append(errs, errors.New("MIDTRANS_SERVER_KEY is required for the midtrans gateway"))
		}
	default:
		errs = append(errs, fmt.Errorf("PAYMENT_GATEWAY %q is not supported", c.PaymentGateway))
	}
	if c.OverdueSweepInterval <= 0 {
		errs = append(errs, fmt.Errorf("OVERDUE_SWEEP_INTERVAL must be positive, got %s", c.OverdueSweepInterval))
	}
	if c.ChatbotTimeout <= 0 {
		errs = append(errs, fmt.Errorf("CHATBOT_TIMEOUT must be positive, got %s", c.ChatbotTimeout))
	}
	return errs
}

func (c *Config) IsDevelopment() bool {
	return c.Environment == "development"
}

func getEnv(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}

func getEnvAsInt64(key string, defaultValue int64, errs *[]error) int64 {
	value, exists := os.LookupEnv(key)
	if !exists || value == "" {
		return defaultValue
	}
	intValue, err := strconv.ParseInt(value, 10, 64)
	if err != nil {
		*errs = append(*errs, fmt.Errorf("%s: %w", key, err))
		return defaultValue
	}
	return intValue
}

func getEnvAsDuration(key string, defaultValue time.Duration, errs *[]error) time.Duration {
	value, exists := os.LookupEnv(key)
	if !exists || value == "" {
		return defaultValue
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		*errs = append(*errs, fmt.Errorf("%s: %w", key, err))
		return defaultValue
	}
	return d
}

func splitList(value string) []string {
	var out []string
	for _, part := range strings.Split(value, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
