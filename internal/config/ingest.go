package config

import (
	"sync"
	"time"
)

const (
	ProviderGemini     = "gemini"
	ProviderOpenRouter = "openrouter"
)

type IngestConfig struct {
	ModelProvider  string
	TemplatePath   string
	QueryPath      string
	StagingDir     string
	Concurrency    int
	ModelTimeout   time.Duration
	IdentityPath   string
	MaxUploadMB    int
	PDFOCRFallback bool
}

var (
	ingestConfig *IngestConfig
	ingestOnce   sync.Once
)

func LoadIngestConfig() *IngestConfig {
	ingestOnce.Do(func() {
		ingestConfig = &IngestConfig{
			ModelProvider:  getEnv("MODEL_PROVIDER", ProviderGemini),
			TemplatePath:   getEnv("TEMPLATE_PATH", "jsonLayout.json"),
			QueryPath:      getEnv("QUERY_PATH", "query.txt"),
			StagingDir:     getEnv("STAGING_DIR", "temp"),
			Concurrency:    getEnvInt("INGEST_CONCURRENCY", 4),
			ModelTimeout:   getEnvDuration("MODEL_TIMEOUT", 2*time.Minute),
			IdentityPath:   getEnv("IDENTITY_PATH", "node.resume.contactDetails"),
			MaxUploadMB:    getEnvInt("MAX_UPLOAD_MB", 5),
			PDFOCRFallback: getEnvBool("PDF_OCR_FALLBACK", false),
		}
	})
	return ingestConfig
}
