package config

import (
	"os"
	"strconv"
)

type Config struct {
	HTTP_ADDR string

	DB_USERNAME string
	DB_PASSWORD string
	DB_HOST     string
	DB_PORT     string
	DB_NAME     string
	DISABLE_TLS string

	JWT_SECRET      string
	TOKEN_TTL_HOURS int

	// Optional Auth0 SSO
	AUTH0_DOMAIN        string
	AUTH0_CLIENT_ID     string
	AUTH0_CLIENT_SECRET string
	AUTH0_CALLBACK_URL  string
	STATE_SECRET        string

	// Optional Redis for login throttling
	REDIS_ADDR     string
	REDIS_PASSWORD string

	// Otel
	OTEL_EXPORTER_OTLP_ENDPOINT string
}

func ReadConfig() *Config {
	tokenTTL := 24
	if ttlStr := os.Getenv("TOKEN_TTL_HOURS"); ttlStr != "" {
		if ttl, err := strconv.Atoi(ttlStr); err == nil {
			tokenTTL = ttl
		}
	}

	return &Config{
		HTTP_ADDR: GetEnvOrDefault("HTTP_ADDR", "0.0.0.0:6060"),

		DB_USERNAME: os.Getenv("DB_USERNAME"),
		DB_PASSWORD: os.Getenv("DB_PASSWORD"),
		DB_HOST:     os.Getenv("DB_HOST"),
		DB_PORT:     os.Getenv("DB_PORT"),
		DB_NAME:     os.Getenv("DB_NAME"),
		DISABLE_TLS: os.Getenv("DISABLE_TLS"),

		JWT_SECRET:      os.Getenv("JWT_SECRET"),
		TOKEN_TTL_HOURS: tokenTTL,

		AUTH0_DOMAIN:        os.Getenv("AUTH0_DOMAIN"),
		AUTH0_CLIENT_ID:     os.Getenv("AUTH0_CLIENT_ID"),
		AUTH0_CLIENT_SECRET: os.Getenv("AUTH0_CLIENT_SECRET"),
		AUTH0_CALLBACK_URL:  os.Getenv("AUTH0_CALLBACK_URL"),
		STATE_SECRET:        os.Getenv("STATE_SECRET"),

		REDIS_ADDR:     os.Getenv("REDIS_ADDR"),
		REDIS_PASSWORD: os.Getenv("REDIS_PASSWORD"),

		OTEL_EXPORTER_OTLP_ENDPOINT: os.Getenv("OTEL_EXPORTER_OTLP_ENDPOINT"),
	}
}

func GetEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
