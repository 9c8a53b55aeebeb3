package config

import (
	"os"
	"sync"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
	"github.com/sirupsen/logrus"
)

type Config struct {
	DatabaseURL string `envconfig:"DATABASE_URL" required:"true"`
	HTTPPort    string `envconfig:"HTTP_PORT"    default:":8080"`
	LogLevel    string `envconfig:"LOG_LEVEL"    default:"info"`

	JWTSecret       string `envconfig:"JWT_SECRET" required:"true"`
	TokenExpiryMins int    `envconfig:"TOKEN_EXPIRY_MINUTES" default:"30"`

	// Optional. Empty means the product cache decorator is not installed.
	RedisAddr     string `envconfig:"REDIS_ADDR"`
	RedisPassword string `envconfig:"REDIS_PASSWORD"`
}

var (
	config Config
	once   sync.Once
)

func LoadConfig(logger *logrus.Logger) *Config {
	once.Do(func() {
		err := godotenv.Load()
		if err != nil && !os.IsNotExist(err) {
			logger.Warnf("Error loading .env file (but continuing): %v", err)
		} else if err == nil {
			logger.Info("Loaded configuration from .env file")
		}

		err = envconfig.Process("", &config)
		if err != nil {
			logger.Fatalf("Failed to process configuration from environment variables: %v", err)
		}

		logger.Infof("Configuration loaded: HTTP Port=%s, LogLevel=%s", config.HTTPPort, config.LogLevel)
		if config.RedisAddr != "" {
			logger.Infof("Configuration loaded: product cache enabled at %s", config.RedisAddr)
		} else {
			logger.Info("Configuration loaded: REDIS_ADDR not set, product cache disabled")
		}
	})
	return &config
}
