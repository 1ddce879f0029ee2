/**
 * @description
 * This file handles configuration management for the invest-service.
 * It loads settings from environment variables, providing defaults for the
 * cron schedules and the HTTP listen address.
 */
package config

import (
	"errors"

	"github.com/spf13/viper"
)

// Config holds all configuration for the invest service.
type Config struct {
	RunAddress            string `mapstructure:"RUN_ADDRESS"`
	DatabaseURL           string `mapstructure:"DATABASE_URL"`
	AMQPURL               string `mapstructure:"AMQP_URL"`
	JWTSecret             string `mapstructure:"JWT_SECRET"`
	AdminAPIKey           string `mapstructure:"ADMIN_API_KEY"`
	EarningsJobSchedule   string `mapstructure:"EARNINGS_JOB_SCHEDULE"`
	CompletionJobSchedule string `mapstructure:"COMPLETION_JOB_SCHEDULE"`
	EarningsRunTimeoutSec int    `mapstructure:"EARNINGS_RUN_TIMEOUT_SECONDS"`
}

// LoadConfig reads configuration from environment variables.
func LoadConfig() (*Config, error) {
	viper.SetDefault("RUN_ADDRESS", ":8080")
	viper.SetDefault("EARNINGS_JOB_SCHEDULE", "30 0 * * *")  // At 00:30 every day.
	viper.SetDefault("COMPLETION_JOB_SCHEDULE", "0 0 * * *") // At midnight every day.
	viper.SetDefault("EARNINGS_RUN_TIMEOUT_SECONDS", 300)
	viper.AutomaticEnv()

	// Bind environment variables explicitly to ensure they appear in Unmarshal
	_ = viper.BindEnv("RUN_ADDRESS")
	_ = viper.BindEnv("DATABASE_URL")
	_ = viper.BindEnv("AMQP_URL")
	_ = viper.BindEnv("JWT_SECRET")
	_ = viper.BindEnv("ADMIN_API_KEY")
	_ = viper.BindEnv("EARNINGS_JOB_SCHEDULE")
	_ = viper.BindEnv("COMPLETION_JOB_SCHEDULE")
	_ = viper.BindEnv("EARNINGS_RUN_TIMEOUT_SECONDS")

	var config Config
	if err := viper.Unmarshal(&config); err != nil {
		return nil, err
	}

	if config.DatabaseURL == "" {
		return nil, errors.New("DATABASE_URL is required")
	}
	if config.JWTSecret == "" {
		return nil, errors.New("JWT_SECRET is required")
	}

	return &config, nil
}
