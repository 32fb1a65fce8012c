package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"

	"github.com/fadilmartias/resume-ingestor/internal/bootstrap"
	"github.com/fadilmartias/resume-ingestor/internal/config"
	"github.com/fadilmartias/resume-ingestor/internal/dto"
	applogger "github.com/fadilmartias/resume-ingestor/internal/logger"
	"github.com/fadilmartias/resume-ingestor/internal/usecase"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var rootCmd = &cobra.Command{
	Use:   "ingest <files...>",
	Short: "ingest resumes from local files into the profile store",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		concurrency, _ := cmd.Flags().GetInt("concurrency")
		return run(cmd.Context(), cmd.OutOrStdout(), args, concurrency)
	},
	SilenceUsage: true,
}

func init() {
	rootCmd.Flags().IntP("concurrency", "c", 0, "documents processed at once (default INGEST_CONCURRENCY)")
}

func run(ctx context.Context, stdout io.Writer, paths []string, concurrency int) error {
	if err := godotenv.Load(); err != nil {
		log.Println("Could not load .env file")
	}

	logConfig := *config.LoadLogConfig()
	logConfig.Stream = "stderr"
	zlog, err := applogger.New(&logConfig)
	if err != nil {
		return fmt.Errorf("creating a logger: %w", err)
	}
	defer zlog.Sync()

	docs, err := readDocuments(paths)
	if err != nil {
		return err
	}

	pipeline, err := bootstrap.NewPipeline(ctx, zlog, concurrency)
	if err != nil {
		return err
	}
	defer pipeline.Close()

	outcomes, err := pipeline.Ingestion.ProcessBatch(ctx, docs)
	if err != nil {
		zlog.Error("batch failed", zap.Error(err))
		return err
	}

	enc := json.NewEncoder(stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(dto.NewIngestOutcomeDTOs(outcomes))
}

func readDocuments(paths []string) ([]usecase.Document, error) {
	docs := make([]usecase.Document, 0, len(paths))
	for _, p := range paths {
		data, err := os.ReadFile(p)
		if err != nil {
			return nil, fmt.Errorf("reading %s: %w", p, err)
		}
		docs = append(docs, usecase.Document{Filename: filepath.Base(p), Data: data})
	}
	return docs, nil
}
