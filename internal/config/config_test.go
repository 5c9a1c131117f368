package config

import (
	"os"
	"testing"
)

func TestNewConfig(t *testing.T) {
	_ = os.Setenv("GEMBOT_ENV", "production")
	_ = os.Setenv("EMAIL_ACCOUNT", "bot@example.com")
	_ = os.Setenv("EMAIL_PASSWORD", "test-password")
	_ = os.Setenv("GEMINI_API_KEY", "test-api-key")

	defer func() {
		_ = os.Unsetenv("GEMBOT_ENV")
		_ = os.Unsetenv("EMAIL_ACCOUNT")
		_ = os.Unsetenv("EMAIL_PASSWORD")
		_ = os.Unsetenv("GEMINI_API_KEY")
	}()

	config, err := NewConfig()
	if err != nil {
		t.Fatalf("NewConfig() returned error: %v", err)
	}

	if config.Environment != "production" {
		t.Errorf("expected Environment 'production', got '%s'", config.Environment)
	}

	if config.EmailAccount != "bot@example.com" {
		t.Errorf("expected EmailAccount 'bot@example.com', got '%s'", config.EmailAccount)
	}

	if config.EmailPass != "test-password" {
		t.Errorf("expected EmailPass 'test-password', got '%s'", config.EmailPass)
	}

	if config.GeminiAPIKey != "test-api-key" {
		t.Errorf("expected GeminiAPIKey 'test-api-key', got '%s'", config.GeminiAPIKey)
	}
}

func TestNewConfigDefaultsEnvironment(t *testing.T) {
	_ = os.Unsetenv("GEMBOT_ENV")
	_ = os.Setenv("EMAIL_ACCOUNT", "bot@example.com")
	_ = os.Setenv("EMAIL_PASSWORD", "test-password")
	_ = os.Setenv("GEMINI_API_KEY", "test-api-key")

	defer func() {
		_ = os.Unsetenv("EMAIL_ACCOUNT")
		_ = os.Unsetenv("EMAIL_PASSWORD")
		_ = os.Unsetenv("GEMINI_API_KEY")
	}()

	config, err := NewConfig()
	if err != nil {
		t.Fatalf("NewConfig() returned error: %v", err)
	}

	if config.Environment != "development" {
		t.Errorf("expected default Environment 'development', got '%s'", config.Environment)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name      string
		config    *Config
		shouldErr bool
		errMsg    string
	}{
		{
			name: "valid config",
			config: &Config{
				EmailAccount: "bot@example.com",
				EmailPass:    "password",
				GeminiAPIKey: "key",
			},
			shouldErr: false,
		},
		{
			name: "missing account",
			config: &Config{
				EmailPass:    "password",
				GeminiAPIKey: "key",
			},
			shouldErr: true,
			errMsg:    "EMAIL_ACCOUNT is required",
		},
		{
			name: "account is not an address",
			config: &Config{
				EmailAccount: "bot",
				EmailPass:    "password",
				GeminiAPIKey: "key",
			},
			shouldErr: true,
			errMsg:    "EMAIL_ACCOUNT must be an email address",
		},
		{
			name: "missing password",
			config: &Config{
				EmailAccount: "bot@example.com",
				GeminiAPIKey: "key",
			},
			shouldErr: true,
			errMsg:    "EMAIL_PASSWORD is required",
		},
		{
			name: "missing API key",
			config: &Config{
				EmailAccount: "bot@example.com",
				EmailPass:    "password",
			},
			shouldErr: true,
			errMsg:    "GEMINI_API_KEY is required",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.config.Validate()
			if tt.shouldErr && err == nil {
				t.Errorf("expected error but got none")
			}
			if !tt.shouldErr && err != nil {
				t.Errorf("expected no error but got: %v", err)
			}
			if tt.shouldErr && err != nil && err.Error() != tt.errMsg {
				t.Errorf("expected error message '%s', got '%s'", tt.errMsg, err.Error())
			}
		})
	}
}
