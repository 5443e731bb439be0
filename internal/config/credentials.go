package config

import (
	"os"
	"strings"

	"rescreen/internal/errors"
)

// CredentialBinding is the resolved pairing of a backend provider, a bare
// model name, and the API key that authorizes calls to it.
type CredentialBinding struct {
	Provider  string
	ModelName string
	APIKey    string
}

// providerKeyEnvVars maps a provider name to the environment variable that
// conventionally carries its API key.
var providerKeyEnvVars = map[string]string{
	"gemini":    "GEMINI_API_KEY",
	"anthropic": "ANTHROPIC_API_KEY",
	"openai":    "OPENAI_API_KEY",
}

// ParseModelID splits a provider-prefixed model identifier into provider and
// model name. An identifier without a "/" is treated as a Gemini model.
func ParseModelID(modelID string) (provider, modelName string) {
	if before, after, found := strings.Cut(modelID, "/"); found {
		return strings.ToLower(before), after
	}
	return "gemini", modelID
}

// ResolveCredential determines the API key for the configured model. The
// explicit key wins; otherwise the provider's conventional environment
// variable is consulted. A missing key is a configuration error reported
// before any network call is attempted.
func (c *Config) ResolveCredential() (*CredentialBinding, error) {
	provider, modelName := ParseModelID(c.AI.Model)

	apiKey := c.AI.APIKey
	if apiKey == "" {
		if envVar, ok := providerKeyEnvVars[provider]; ok {
			apiKey = os.Getenv(envVar)
		}
	}

	if apiKey == "" {
		return nil, errors.NewConfigError(
			errors.ErrCodeMissingAPIKey,
			"no API key configured for model "+c.AI.Model+": set AI_API_KEY or the provider key variable",
			nil,
		).WithContext("provider", provider).WithContext("model", modelName)
	}

	return &CredentialBinding{
		Provider:  provider,
		ModelName: modelName,
		APIKey:    apiKey,
	}, nil
}
