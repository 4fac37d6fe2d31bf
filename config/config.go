package config

import (
	"log"

	"github.com/spf13/viper"
)

// Config holds all configuration values.
type Config struct {
	AppPort           string `mapstructure:"APP_PORT"`
	DatabaseURL       string `mapstructure:"DATABASE_URL"`
	DatabaseName      string `mapstructure:"DATABASE_NAME"`
	Env               string `mapstructure:"ENV"`
	JWTSecret         string `mapstructure:"JWT_SECRET"`
	AdminToken        string `mapstructure:"ADMIN_TOKEN"`
	LogLevel          string `mapstructure:"LOG_LEVEL"`
	MaxRequestsPerMin int    `mapstructure:"MAX_REQUESTS_PER_MIN"`

	// Redis configuration.
	RedisAddr      string `mapstructure:"REDIS_ADDR"`
	RedisPassword  string `mapstructure:"REDIS_PASSWORD"`
	RedisCacheDB   int    `mapstructure:"REDIS_CACHE_DB"`
	RedisQueueDB   int    `mapstructure:"REDIS_QUEUE_DB"`

	// Stripe key for the refund collaborator.
	StripeKey string `mapstructure:"STRIPE_KEY"`

	// Matching and auto-assignment knobs.
	DefaultRadiusMiles      float64 `mapstructure:"DEFAULT_RADIUS_MILES"`
	MatchLimit              int     `mapstructure:"MATCH_LIMIT"`
	AutoAssignTimeoutHours  int     `mapstructure:"AUTO_ASSIGN_TIMEOUT_HOURS"`
	AutoAssignMaxCandidates int     `mapstructure:"AUTO_ASSIGN_MAX_CANDIDATES"`
}

// FirebaseServiceAccountKeyPath points at the FCM service account credentials.
const FirebaseServiceAccountKeyPath = "./config/firebase-service-account.json"

var AppConfig Config

func LoadConfig() {
	// Look for a config file named "config.yaml" in the current and "config" directory.
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(".")
	viper.AddConfigPath("./config")
	// Automatically use environment variables where available.
	viper.AutomaticEnv()

	// Set default values.
	viper.SetDefault("APP_PORT", "8080")
	viper.SetDefault("ENV", "development")
	viper.SetDefault("LOG_LEVEL", "info")
	viper.SetDefault("MAX_REQUESTS_PER_MIN", 100)
	viper.SetDefault("REDIS_ADDR", "localhost:6379")
	viper.SetDefault("REDIS_PASSWORD", "")
	viper.SetDefault("REDIS_CACHE_DB", 0)
	viper.SetDefault("REDIS_QUEUE_DB", 1)
	viper.SetDefault("DATABASE_URL", "mongodb://localhost:27017")
	viper.SetDefault("DATABASE_NAME", "neatly")
	viper.SetDefault("STRIPE_KEY", "")
	viper.SetDefault("DEFAULT_RADIUS_MILES", 10.0)
	viper.SetDefault("MATCH_LIMIT", 20)
	viper.SetDefault("AUTO_ASSIGN_TIMEOUT_HOURS", 2)
	viper.SetDefault("AUTO_ASSIGN_MAX_CANDIDATES", 5)

	if err := viper.ReadInConfig(); err != nil {
		log.Println("No config file found, using environment variables only")
	}

	if err := viper.Unmarshal(&AppConfig); err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
}

func GetEnv() string {
	return AppConfig.Env
}

func IsProduction() bool {
	return GetEnv() == "production"
}
