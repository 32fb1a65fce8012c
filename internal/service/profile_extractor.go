package service

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/fadilmartias/resume-ingestor/internal/apperror"
	"github.com/fadilmartias/resume-ingestor/internal/logger"
	"go.uber.org/zap"
)

// fencedJSON matches the first ```json fenced block, label case-insensitive.
var fencedJSON = regexp.MustCompile("(?is)```[ \\t]*json[ \\t]*\\r?\\n(.*?)```")

// ProfileExtractor asks the model for a profile shaped like the template and
// pulls the JSON payload out of its reply.
type ProfileExtractor struct {
	generator TextGenerator
	logger    *zap.Logger
}

func NewProfileExtractor(generator TextGenerator, logger *zap.Logger) *ProfileExtractor {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ProfileExtractor{generator: generator, logger: logger}
}

// Extract makes exactly one model call. Errors carry KindModelInvocation,
// KindModelTimeout or KindMalformedResponse.
func (e *ProfileExtractor) Extract(ctx context.Context, text string, assets *PromptAssets) (json.RawMessage, error) {
	prompt := BuildPrompt(text, assets.Template, assets.Query)

	reply, err := e.generator.GenerateText(ctx, prompt)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) || errors.Is(ctx.Err(), context.DeadlineExceeded) {
			return nil, apperror.New(apperror.KindModelTimeout, "model call exceeded deadline", err)
		}
		return nil, apperror.New(apperror.KindModelInvocation, "model call failed", err)
	}
	e.logger.Debug("extractor.model.reply", zap.String("reply", logger.TruncateForLog(reply, 500)))

	parsed, err := ParseFencedJSON(reply)
	if err != nil {
		e.logger.Warn("extractor.reply.malformed",
			zap.String("reply", logger.TruncateForLog(reply, 200)),
			zap.Error(err),
		)
		return nil, err
	}
	return parsed, nil
}

// BuildPrompt embeds the resume text, output template and instruction query
// in one prompt.
func BuildPrompt(text string, template json.RawMessage, query string) string {
	return fmt.Sprintf("resume:%s, json_format:%s query:%s", text, string(template), query)
}

// ParseFencedJSON returns the compacted contents of the first ```json block
// in reply.
func ParseFencedJSON(reply string) (json.RawMessage, error) {
	m := fencedJSON.FindStringSubmatch(reply)
	if m == nil {
		return nil, apperror.New(apperror.KindMalformedResponse, "no JSON found in response", nil)
	}

	body := strings.TrimSpace(m[1])
	var buf bytes.Buffer
	if err := json.Compact(&buf, []byte(body)); err != nil {
		return nil, apperror.New(apperror.KindMalformedResponse, "fenced block is not valid JSON", err)
	}
	return json.RawMessage(buf.Bytes()), nil
}
