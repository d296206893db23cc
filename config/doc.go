// Package config loads service configuration from a YAML file, an optional
// .env file and the process environment using viper and godotenv.
//
// # Usage
//
//	var cfg AppConfig
//	err := config.LoadConfig("fluencyd", &cfg, config.WithEnvPrefix("FLUENCY"))
//
// Environment variables override file values. Underscores map onto nested
// keys, so FLUENCY_SERVER_PORT sets server.port.
package config
