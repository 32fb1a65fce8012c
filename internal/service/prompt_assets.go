package service

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"strings"
	"sync"

	"github.com/fadilmartias/resume-ingestor/internal/apperror"
	"golang.org/x/sync/errgroup"
)

// PromptAssets are the static inputs of every extraction prompt.
type PromptAssets struct {
	Template json.RawMessage
	Query    string
}

// PromptAssetLoader reads the output template and instruction query and
// keeps them after the first successful load.
type PromptAssetLoader struct {
	templatePath string
	queryPath    string

	mu     sync.Mutex
	cached *PromptAssets
}

func NewPromptAssetLoader(templatePath, queryPath string) *PromptAssetLoader {
	return &PromptAssetLoader{templatePath: templatePath, queryPath: queryPath}
}

// NewStaticPromptAssetLoader serves fixed assets without touching disk.
func NewStaticPromptAssetLoader(assets *PromptAssets) *PromptAssetLoader {
	return &PromptAssetLoader{cached: assets}
}

func (l *PromptAssetLoader) Load(ctx context.Context) (*PromptAssets, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.cached != nil {
		return l.cached, nil
	}

	var template json.RawMessage
	var query string
	g, _ := errgroup.WithContext(ctx)
	g.Go(func() error {
		raw, err := os.ReadFile(l.templatePath)
		if err != nil {
			return apperror.New(apperror.KindTemplate, "read template "+l.templatePath, err)
		}
		var buf bytes.Buffer
		if err := json.Compact(&buf, raw); err != nil {
			return apperror.New(apperror.KindTemplate, "template is not valid JSON", err)
		}
		template = buf.Bytes()
		return nil
	})
	g.Go(func() error {
		raw, err := os.ReadFile(l.queryPath)
		if err != nil {
			return apperror.New(apperror.KindTemplate, "read query "+l.queryPath, err)
		}
		query = strings.TrimSpace(string(raw))
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	l.cached = &PromptAssets{Template: template, Query: query}
	return l.cached, nil
}
