package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/joho/godotenv"
)

type Config struct {
	Environment  string
	EmailAccount string
	EmailPass    string
	GeminiAPIKey string
}

func NewConfig() (*Config, error) {
	env := os.Getenv("GEMBOT_ENV")
	if env == "" {
		env = "development"
	}

	if env == "development" {
		if err := godotenv.Load(); err != nil {
			fmt.Println("Warning: .env file not found, using environment variables")
		}
	}

	config := &Config{
		Environment:  env,
		EmailAccount: os.Getenv("EMAIL_ACCOUNT"),
		EmailPass:    os.Getenv("EMAIL_PASSWORD"),
		GeminiAPIKey: os.Getenv("GEMINI_API_KEY"),
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}

	return config, nil
}

func (c *Config) Validate() error {
	if c.EmailAccount == "" {
		return fmt.Errorf("EMAIL_ACCOUNT is required")
	}

	if !strings.Contains(c.EmailAccount, "@") {
		return fmt.Errorf("EMAIL_ACCOUNT must be an email address")
	}

	if c.EmailPass == "" {
		return fmt.Errorf("EMAIL_PASSWORD is required")
	}

	if c.GeminiAPIKey == "" {
		return fmt.Errorf("GEMINI_API_KEY is required")
	}

	return nil
}
