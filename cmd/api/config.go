package main

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/warehouse-ops/operations-api/internal/infrastructure/partner"
	"github.com/warehouse-ops/operations-api/pkg/kafka"
	"github.com/warehouse-ops/operations-api/pkg/mongodb"
)

// Config holds application configuration
type Config struct {
	ServerAddr string          `yaml:"serverAddr"`
	MongoDB    *mongodb.Config `yaml:"mongodb"`
	Kafka      *kafka.Config   `yaml:"kafka"`
	Partner    *partner.Config `yaml:"partner"`
}

// loadConfig builds the configuration from environment variables. When
// CONFIG_FILE points at a YAML file, its values override the environment
// defaults.
func loadConfig() (*Config, error) {
	config := &Config{
		ServerAddr: getEnv("SERVER_ADDR", ":8080"),
		MongoDB: &mongodb.Config{
			URI:            getEnv("MONGODB_URI", "mongodb://localhost:27017"),
			Database:       getEnv("MONGODB_DATABASE", "operations_db"),
			ConnectTimeout: 10 * time.Second,
			MaxPoolSize:    100,
			MinPoolSize:    10,
		},
		Kafka: &kafka.Config{
			Brokers:      []string{getEnv("KAFKA_BROKERS", "localhost:9092")},
			ClientID:     serviceName,
			BatchSize:    100,
			BatchTimeout: 10 * time.Millisecond,
			RequiredAcks: -1,
		},
		Partner: partner.DefaultConfig(),
	}

	if endpoint := os.Getenv("PARTNER_NOTIFY_ENDPOINT"); endpoint != "" {
		config.Partner.Endpoint = endpoint
	}
	if getEnv("PARTNER_NOTIFY_ENABLED", "true") == "false" {
		config.Partner.Enabled = false
	}

	if path := os.Getenv("CONFIG_FILE"); path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
		}
		if err := yaml.Unmarshal(data, config); err != nil {
			return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
		}
	}

	return config, nil
}
