/**
 * @description
 * This package handles the configuration management for the service. It uses the
 * Viper library to read configuration from environment variables, providing a
 * centralized and straightforward way to manage application settings.
 *
 * @dependencies
 * - github.com/spf13/viper: A popular library for Go application configuration.
 */

package config

import (
	"log"
	"os"
	"strings"

	"github.com/spf13/viper"
)

// Config holds all the configuration variables for the onboarding-service.
// These values are loaded from environment variables.
type Config struct {
	ServerPort               string `mapstructure:"SERVER_PORT"`
	DatabaseURL              string `mapstructure:"DATABASE_URL"`
	RedisURL                 string `mapstructure:"REDIS_URL"`
	RedisRateLimitPrefix     string `mapstructure:"REDIS_RATE_LIMIT_PREFIX"`
	RabbitMQURL              string `mapstructure:"RABBITMQ_URL"`
	JWTSecret                string `mapstructure:"JWT_SECRET"`
	CustomerAPIBaseURL       string `mapstructure:"CUSTOMER_API_BASE_URL"`
	BankAPIBaseURL           string `mapstructure:"BANK_API_BASE_URL"`
	BankAPIKey               string `mapstructure:"BANK_API_KEY"`
	ContractURL              string `mapstructure:"CONTRACT_URL"`
	SignupRateLimitPerMinute int    `mapstructure:"SIGNUP_RATE_LIMIT_PER_MINUTE"`
	LinkRepairSchedule       string `mapstructure:"LINK_REPAIR_SCHEDULE"`
}

// LoadConfig reads configuration from environment variables from the given path.
// It uses Viper to automatically bind environment variables to the Config struct.
func LoadConfig(path string) (config Config, err error) {
	// Tell viper the path to look for the optional .env file.
	viper.AddConfigPath(path)
	viper.SetConfigName(".env")
	viper.SetConfigType("env")

	// Enable automatic binding of environment variables.
	viper.AutomaticEnv()
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	// Set default values
	viper.SetDefault("SERVER_PORT", "8080")
	viper.SetDefault("CUSTOMER_API_BASE_URL", "http://tchdev.techreo.mx:2020/LabService")
	viper.SetDefault("CONTRACT_URL", "https://example.com/contratos")
	viper.SetDefault("REDIS_RATE_LIMIT_PREFIX", "onboarding:rate_limit")
	viper.SetDefault("SIGNUP_RATE_LIMIT_PER_MINUTE", 30)
	viper.SetDefault("LINK_REPAIR_SCHEDULE", "@every 15m")

	// Bind environment variables explicitly to ensure they appear in Unmarshal
	_ = viper.BindEnv("SERVER_PORT")
	_ = viper.BindEnv("PORT")
	_ = viper.BindEnv("DATABASE_URL")
	_ = viper.BindEnv("REDIS_URL")
	_ = viper.BindEnv("REDIS_RATE_LIMIT_PREFIX")
	_ = viper.BindEnv("RABBITMQ_URL")
	_ = viper.BindEnv("JWT_SECRET")
	_ = viper.BindEnv("CUSTOMER_API_BASE_URL")
	_ = viper.BindEnv("BANK_API_BASE_URL")
	_ = viper.BindEnv("BANK_API_KEY")
	_ = viper.BindEnv("CONTRACT_URL")
	_ = viper.BindEnv("SIGNUP_RATE_LIMIT_PER_MINUTE")
	_ = viper.BindEnv("LINK_REPAIR_SCHEDULE")

	// Attempt to read the config file. It's okay if it doesn't exist.
	if err = viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			log.Printf("level=warn component=config msg=\"failed to read config file; using environment values\" err=%v", err)
		}
	}

	// Unmarshal the configuration into the Config struct.
	err = viper.Unmarshal(&config)
	if err != nil {
		return
	}

	// If a platform-provided PORT is set (e.g., Railway/Render), prefer it
	if port := strings.TrimSpace(os.Getenv("PORT")); port != "" {
		config.ServerPort = port
	}

	config.CustomerAPIBaseURL = strings.TrimRight(strings.TrimSpace(config.CustomerAPIBaseURL), "/")
	config.BankAPIBaseURL = strings.TrimRight(strings.TrimSpace(config.BankAPIBaseURL), "/")
	config.RedisURL = strings.TrimSpace(config.RedisURL)
	config.RedisRateLimitPrefix = strings.TrimSpace(config.RedisRateLimitPrefix)
	if config.RedisRateLimitPrefix == "" {
		config.RedisRateLimitPrefix = "onboarding:rate_limit"
	}
	if config.SignupRateLimitPerMinute < 0 {
		log.Printf("level=warn component=config msg=\"negative signup rate limit configured; disabling limiter\" limit=%d", config.SignupRateLimitPerMinute)
		config.SignupRateLimitPerMinute = 0
	}
	if strings.TrimSpace(config.LinkRepairSchedule) == "" {
		config.LinkRepairSchedule = "@every 15m"
	}

	return
}
