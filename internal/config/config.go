package config

import (
	"fmt"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"github.com/workhive/workhive/internal/logger"
)

type Config struct {
	Port      string
	DBUser    string
	DBPass    string
	DBHost    string
	DBPort    string
	DBName    string
	JWTSecret string
	RedisAddr string
}

var App Config

// Load reads .env (if present) and binds settings from the environment.
func Load() {
	// .env is optional; real deployments set the environment directly.
	_ = godotenv.Load()

	viper.AutomaticEnv()

	viper.SetDefault("PORT", "8080")
	viper.SetDefault("DB_USER", "postgres")
	viper.SetDefault("DB_PASSWORD", "postgres")
	viper.SetDefault("DB_HOST", "localhost")
	viper.SetDefault("DB_PORT", "5432")
	viper.SetDefault("DB_NAME", "workhive")
	viper.SetDefault("REDIS_ADDR", "127.0.0.1:6379")

	App = Config{
		Port:      viper.GetString("PORT"),
		DBUser:    viper.GetString("DB_USER"),
		DBPass:    viper.GetString("DB_PASSWORD"),
		DBHost:    viper.GetString("DB_HOST"),
		DBPort:    viper.GetString("DB_PORT"),
		DBName:    viper.GetString("DB_NAME"),
		JWTSecret: viper.GetString("JWT_SECRET"),
		RedisAddr: viper.GetString("REDIS_ADDR"),
	}

	if App.JWTSecret == "" {
		logger.Log.Warn("JWT_SECRET is empty; tokens will not be secure")
	}
}

// DSN renders the Postgres connection string.
func (c Config) DSN() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%s/%s",
		c.DBUser, c.DBPass, c.DBHost, c.DBPort, c.DBName)
}
