package config

import (
	"testing"
	"time"

	"rescreen/internal/errors"
)

func baseConfig() *Config {
	return &Config{
		AI: AIConfig{
			Model:           "gemini/gemini-2.0-flash",
			Timeout:         90 * time.Second,
			Temperature:     0.3,
			MaxOutputTokens: 4096,
		},
		Server: ServerConfig{
			Port: "8080",
			TLS:  TLSConfig{Mode: "disabled"},
		},
		App: AppConfig{
			DefaultFormat:    "json",
			SupportedFormats: []string{"json", "text", "markdown"},
		},
	}
}

func TestParseModelID(t *testing.T) {
	tests := []struct {
		name         string
		modelID      string
		wantProvider string
		wantModel    string
	}{
		{
			name:         "gemini prefixed",
			modelID:      "gemini/gemini-2.0-flash",
			wantProvider: "gemini",
			wantModel:    "gemini-2.0-flash",
		},
		{
			name:         "anthropic prefixed",
			modelID:      "anthropic/claude-sonnet-4",
			wantProvider: "anthropic",
			wantModel:    "claude-sonnet-4",
		},
		{
			name:         "no prefix defaults to gemini",
			modelID:      "gemini-2.0-flash",
			wantProvider: "gemini",
			wantModel:    "gemini-2.0-flash",
		},
		{
			name:         "uppercase provider normalized",
			modelID:      "OpenAI/gpt-4o",
			wantProvider: "openai",
			wantModel:    "gpt-4o",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			provider, model := ParseModelID(tt.modelID)
			if provider != tt.wantProvider {
				t.Errorf("ParseModelID(%q) provider = %q, want %q", tt.modelID, provider, tt.wantProvider)
			}
			if model != tt.wantModel {
				t.Errorf("ParseModelID(%q) model = %q, want %q", tt.modelID, model, tt.wantModel)
			}
		})
	}
}

func TestResolveCredential(t *testing.T) {
	t.Run("explicit key wins over environment", func(t *testing.T) {
		t.Setenv("GEMINI_API_KEY", "env-key")
		cfg := baseConfig()
		cfg.AI.APIKey = "explicit-key"

		binding, err := cfg.ResolveCredential()
		if err != nil {
			t.Fatalf("ResolveCredential() error = %v", err)
		}
		if binding.APIKey != "explicit-key" {
			t.Errorf("APIKey = %q, want %q", binding.APIKey, "explicit-key")
		}
		if binding.Provider != "gemini" {
			t.Errorf("Provider = %q, want %q", binding.Provider, "gemini")
		}
		if binding.ModelName != "gemini-2.0-flash" {
			t.Errorf("ModelName = %q, want %q", binding.ModelName, "gemini-2.0-flash")
		}
	})

	t.Run("falls back to provider env slot", func(t *testing.T) {
		t.Setenv("GEMINI_API_KEY", "env-key")
		cfg := baseConfig()

		binding, err := cfg.ResolveCredential()
		if err != nil {
			t.Fatalf("ResolveCredential() error = %v", err)
		}
		if binding.APIKey != "env-key" {
			t.Errorf("APIKey = %q, want %q", binding.APIKey, "env-key")
		}
	})

	t.Run("anthropic model uses anthropic slot", func(t *testing.T) {
		t.Setenv("ANTHROPIC_API_KEY", "ant-key")
		t.Setenv("GEMINI_API_KEY", "")
		cfg := baseConfig()
		cfg.AI.Model = "anthropic/claude-sonnet-4"

		binding, err := cfg.ResolveCredential()
		if err != nil {
			t.Fatalf("ResolveCredential() error = %v", err)
		}
		if binding.APIKey != "ant-key" {
			t.Errorf("APIKey = %q, want %q", binding.APIKey, "ant-key")
		}
	})

	t.Run("missing key is a config error", func(t *testing.T) {
		t.Setenv("GEMINI_API_KEY", "")
		cfg := baseConfig()

		_, err := cfg.ResolveCredential()
		if err == nil {
			t.Fatal("ResolveCredential() expected error, got nil")
		}
		if !errors.IsConfigError(err) {
			t.Errorf("expected config error, got %T: %v", err, err)
		}
	})
}

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{
			name:    "valid config",
			mutate:  func(c *Config) {},
			wantErr: false,
		},
		{
			name:    "missing model",
			mutate:  func(c *Config) { c.AI.Model = "" },
			wantErr: true,
		},
		{
			name:    "zero timeout",
			mutate:  func(c *Config) { c.AI.Timeout = 0 },
			wantErr: true,
		},
		{
			name:    "temperature out of range",
			mutate:  func(c *Config) { c.AI.Temperature = 3.5 },
			wantErr: true,
		},
		{
			name:    "non-positive output tokens",
			mutate:  func(c *Config) { c.AI.MaxOutputTokens = 0 },
			wantErr: true,
		},
		{
			name:    "unsupported default format",
			mutate:  func(c *Config) { c.App.DefaultFormat = "xml" },
			wantErr: true,
		},
		{
			name:    "server TLS mode without cert files",
			mutate:  func(c *Config) { c.Server.TLS.Mode = "server" },
			wantErr: true,
		},
		{
			name: "server TLS mode with cert files",
			mutate: func(c *Config) {
				c.Server.TLS.Mode = "server"
				c.Server.TLS.CertFile = "/etc/certs/tls.crt"
				c.Server.TLS.KeyFile = "/etc/certs/tls.key"
			},
			wantErr: false,
		},
		{
			name:    "invalid TLS mode",
			mutate:  func(c *Config) { c.Server.TLS.Mode = "mutual" },
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := baseConfig()
			tt.mutate(cfg)
			err := cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}
