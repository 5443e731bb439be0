package ai

import (
	"context"
	"fmt"

	"rescreen/internal/config"
	"rescreen/internal/errors"
)

// Service owns the completion backend for the screening pipeline
type Service struct {
	Client CompletionClient // Exported for access from server package
	config *config.AIConfig
	logger *errors.Logger
}

// NewService resolves the credential binding and creates the backend for the
// configured model. An unknown provider prefix or a missing API key fails
// here, before any network call is made.
func NewService(cfg *config.Config, logger *errors.Logger) (*Service, error) {
	binding, err := cfg.ResolveCredential()
	if err != nil {
		return nil, err
	}

	logger.Debug("Initializing AI service",
		"provider", binding.Provider,
		"model", binding.ModelName,
		"temperature", cfg.AI.Temperature,
		"timeout", cfg.AI.Timeout,
		"max_retries", cfg.AI.MaxRetries)

	var client CompletionClient
	switch binding.Provider {
	case "gemini":
		client, err = NewGeminiProvider(&cfg.AI, binding, logger)
	default:
		return nil, errors.NewConfigError(errors.ErrCodeUnsupportedBackend,
			fmt.Sprintf("Unsupported AI provider: %s", binding.Provider), nil)
	}

	if err != nil {
		return nil, errors.NewAIError(errors.ErrCodeUpstreamFailed,
			"Failed to create completion client", err)
	}

	return &Service{
		Client: client,
		config: &cfg.AI,
		logger: logger,
	}, nil
}

// GetModelInfo returns information about the AI model for health checks
func (s *Service) GetModelInfo(ctx context.Context) *ModelInfo {
	return s.Client.GetModelInfo(ctx)
}

// Close releases the backend client
func (s *Service) Close() error {
	return s.Client.Close()
}
