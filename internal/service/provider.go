package service

import (
	"context"
	"fmt"

	"github.com/fadilmartias/resume-ingestor/internal/config"
	"go.uber.org/zap"
)

// NewTextGenerator builds the model backend named by provider.
func NewTextGenerator(ctx context.Context, provider string, gemini *config.GeminiConfig, openRouter *config.OpenRouterConfig, logger *zap.Logger) (TextGenerator, error) {
	switch provider {
	case config.ProviderGemini, "":
		s, err := NewGeminiService(ctx, gemini, logger)
		if err != nil {
			return nil, err
		}
		return s, nil
	case config.ProviderOpenRouter:
		s, err := NewOpenRouterService(openRouter, logger)
		if err != nil {
			return nil, err
		}
		return s, nil
	default:
		return nil, fmt.Errorf("unknown MODEL_PROVIDER %q", provider)
	}
}
