package service

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strings"
	"sync"
	"time"

	"github.com/fadilmartias/resume-ingestor/internal/config"
	"go.uber.org/zap"
	"google.golang.org/genai"
)

// TextGenerator sends one prompt to a generative model and returns its reply.
type TextGenerator interface {
	GenerateText(ctx context.Context, prompt string) (string, error)
}

// contentGenerator is the part of genai.Models the service uses.
type contentGenerator interface {
	GenerateContent(ctx context.Context, model string, contents []*genai.Content, config *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error)
}

var _ TextGenerator = (*GeminiService)(nil)

// after and now are swapped in tests to skip backoff waits and move the
// breaker clock.
var (
	after = time.After
	now   = time.Now
)

type GeminiService struct {
	models         contentGenerator
	Model          string
	MaxRetries     int
	BaseDelay      time.Duration
	MaxDelay       time.Duration
	RequestTimeout time.Duration
	logger         *zap.Logger

	mu                sync.Mutex
	consecutiveErrors int
	circuitBreakerMax int
	breakerCooldown   time.Duration
	openedAt          time.Time
	trialInFlight     bool
}

func NewGeminiService(ctx context.Context, cfg *config.GeminiConfig, logger *zap.Logger) (*GeminiService, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("GEMINI_API_KEY not set")
	}
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  cfg.APIKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("create genai client: %w", err)
	}
	return newGeminiService(client.Models, cfg, logger), nil
}

func newGeminiService(models contentGenerator, cfg *config.GeminiConfig, logger *zap.Logger) *GeminiService {
	if logger == nil {
		logger = zap.NewNop()
	}
	timeout := cfg.RequestTimeout
	if timeout <= 0 {
		timeout = 90 * time.Second
	}
	cooldown := cfg.BreakerCooldown
	if cooldown <= 0 {
		cooldown = 30 * time.Second
	}
	return &GeminiService{
		models:            models,
		Model:             cfg.Model,
		MaxRetries:        cfg.MaxRetries,
		BaseDelay:         time.Second,
		MaxDelay:          30 * time.Second,
		RequestTimeout:    timeout,
		logger:            logger,
		circuitBreakerMax: 5,
		breakerCooldown:   cooldown,
	}
}

// GenerateText calls Gemini once, plus up to MaxRetries retries on
// retryable API errors.
func (s *GeminiService) GenerateText(ctx context.Context, prompt string) (string, error) {
	if s.Model == "" {
		return "", fmt.Errorf("model name cannot be empty")
	}
	if strings.TrimSpace(prompt) == "" {
		return "", fmt.Errorf("prompt cannot be empty")
	}
	if n, ok := s.allowCall(); !ok {
		return "", fmt.Errorf("circuit breaker open: too many consecutive errors (%d)", n)
	}

	timeoutCtx, cancel := context.WithTimeout(ctx, s.RequestTimeout)
	defer cancel()

	genConfig := &genai.GenerateContentConfig{
		Temperature: genai.Ptr(float32(0.1)),
	}

	var lastErr error
	for attempt := 0; attempt <= s.MaxRetries; attempt++ {
		if attempt > 0 {
			delay := s.calculateBackoff(attempt)
			s.logger.Info("gemini.retry",
				zap.Int("attempt", attempt),
				zap.Int("max_retries", s.MaxRetries),
				zap.Duration("delay", delay),
			)
			select {
			case <-after(delay):
			case <-timeoutCtx.Done():
				s.recordFailure()
				return "", fmt.Errorf("context done during retry: %w", timeoutCtx.Err())
			}
		}

		result, err := s.models.GenerateContent(timeoutCtx, s.Model, genai.Text(prompt), genConfig)
		if err == nil {
			s.recordSuccess()
			if err := validateGenerateResponse(result); err != nil {
				return "", fmt.Errorf("invalid response: %w", err)
			}
			return result.Text(), nil
		}

		lastErr = err
		if !isRetryableError(err) {
			s.recordFailure()
			return "", fmt.Errorf("generate content failed: %w", err)
		}
		s.logger.Warn("gemini.retryable_error", zap.Int("attempt", attempt+1), zap.Error(err))
	}

	s.recordFailure()
	if s.MaxRetries == 0 {
		return "", fmt.Errorf("generate content failed: %w", lastErr)
	}
	return "", fmt.Errorf("max retries (%d) exceeded for GenerateContent: %w", s.MaxRetries, lastErr)
}

func (s *GeminiService) calculateBackoff(attempt int) time.Duration {
	delay := s.BaseDelay * time.Duration(math.Pow(2, float64(attempt-1)))
	if delay > s.MaxDelay {
		delay = s.MaxDelay
	}
	return delay
}

func isRetryableError(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return false
	}

	if code, ok := apiErrorCode(err); ok {
		switch code {
		case 429, 500, 502, 503, 504:
			return true
		default:
			return false
		}
	}

	errMsg := err.Error()
	return strings.Contains(errMsg, "connection refused") ||
		strings.Contains(errMsg, "connection reset") ||
		strings.Contains(errMsg, "temporary failure") ||
		strings.Contains(errMsg, "EOF")
}

func apiErrorCode(err error) (int, bool) {
	var apiErr genai.APIError
	if errors.As(err, &apiErr) {
		return apiErr.Code, true
	}
	var apiErrPtr *genai.APIError
	if errors.As(err, &apiErrPtr) && apiErrPtr != nil {
		return apiErrPtr.Code, true
	}
	return 0, false
}

func validateGenerateResponse(resp *genai.GenerateContentResponse) error {
	if resp == nil {
		return fmt.Errorf("response is nil")
	}
	if len(resp.Candidates) == 0 {
		return fmt.Errorf("no candidates in response")
	}
	if resp.Candidates[0].Content == nil {
		return fmt.Errorf("candidate content is nil")
	}
	if len(resp.Candidates[0].Content.Parts) == 0 {
		return fmt.Errorf("no parts in content")
	}
	return nil
}

// allowCall lets calls through while the breaker is closed. Once open, it
// rejects until the cooldown has passed and then admits a single trial
// call, whose result closes or re-opens the breaker.
func (s *GeminiService) allowCall() (consecutiveErrors int, ok bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.consecutiveErrors < s.circuitBreakerMax {
		return s.consecutiveErrors, true
	}
	if s.trialInFlight || now().Sub(s.openedAt) < s.breakerCooldown {
		return s.consecutiveErrors, false
	}
	s.trialInFlight = true
	s.logger.Info("gemini.circuit_breaker.half_open", zap.Int("consecutive_errors", s.consecutiveErrors))
	return s.consecutiveErrors, true
}

func (s *GeminiService) recordSuccess() {
	s.mu.Lock()
	s.consecutiveErrors = 0
	s.trialInFlight = false
	s.mu.Unlock()
}

func (s *GeminiService) recordFailure() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.consecutiveErrors++
	s.trialInFlight = false
	if s.consecutiveErrors >= s.circuitBreakerMax {
		s.openedAt = now()
	}
}

func (s *GeminiService) ResetCircuitBreaker() {
	s.recordSuccess()
	s.logger.Info("gemini.circuit_breaker.reset")
}

func (s *GeminiService) GetCircuitBreakerStatus() (consecutiveErrors int, isOpen bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.consecutiveErrors, s.consecutiveErrors >= s.circuitBreakerMax
}
