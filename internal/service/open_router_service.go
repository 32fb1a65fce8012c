package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/fadilmartias/resume-ingestor/internal/config"
	"github.com/go-resty/resty/v2"
	"github.com/tidwall/gjson"
	"go.uber.org/zap"
)

var _ TextGenerator = (*OpenRouterService)(nil)

type OpenRouterService struct {
	client *resty.Client
	apiKey string
	model  string
	url    string
	logger *zap.Logger
}

func NewOpenRouterService(cfg *config.OpenRouterConfig, logger *zap.Logger) (*OpenRouterService, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("OPENROUTER_API_KEY not set")
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &OpenRouterService{
		client: resty.New().SetTimeout(2 * time.Minute),
		apiKey: cfg.APIKey,
		model:  cfg.Model,
		url:    cfg.URL,
		logger: logger,
	}, nil
}

// GenerateText posts a single-turn chat completion and returns the content
// of the first choice.
func (s *OpenRouterService) GenerateText(ctx context.Context, prompt string) (string, error) {
	if strings.TrimSpace(prompt) == "" {
		return "", fmt.Errorf("prompt cannot be empty")
	}

	resp, err := s.client.R().
		SetContext(ctx).
		SetHeader("Authorization", "Bearer "+s.apiKey).
		SetHeader("Content-Type", "application/json").
		SetBody(map[string]any{
			"model": s.model,
			"messages": []map[string]string{
				{"role": "system", "content": "You extract structured candidate profiles from resumes."},
				{"role": "user", "content": prompt},
			},
		}).
		Post(s.url)
	if err != nil {
		return "", fmt.Errorf("openrouter request: %w", err)
	}

	s.logger.Debug("openrouter.response",
		zap.Int("status", resp.StatusCode()),
		zap.Int("bytes", len(resp.Body())),
		zap.Duration("elapsed", resp.Time()),
	)

	if resp.IsError() {
		msg := gjson.GetBytes(resp.Body(), "error.message").String()
		return "", fmt.Errorf("openrouter status %d: %s", resp.StatusCode(), msg)
	}

	text := gjson.GetBytes(resp.Body(), "choices.0.message.content").String()
	if text == "" {
		return "", fmt.Errorf("no response from LLM")
	}
	return text, nil
}
