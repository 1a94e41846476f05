// Package config loads configuration structs from environment variables
// using github.com/caarlos0/env field tags, with optional .env file support
// via github.com/joho/godotenv.
//
// All configuration in this module is environment-driven so deployments can
// be tuned without code changes; see pg.Config and redis.Config for the
// structs this loader is typically used with.
package config
