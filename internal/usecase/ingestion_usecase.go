package usecase

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"sync"
	"time"

	"github.com/fadilmartias/resume-ingestor/internal/apperror"
	"github.com/fadilmartias/resume-ingestor/internal/config"
	"github.com/fadilmartias/resume-ingestor/internal/identity"
	"github.com/fadilmartias/resume-ingestor/internal/model"
	"github.com/fadilmartias/resume-ingestor/internal/service"
	"github.com/fadilmartias/resume-ingestor/internal/util"
	"github.com/google/uuid"
	"github.com/panjf2000/ants/v2"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
	"gorm.io/datatypes"
)

type TextExtractor interface {
	ExtractText(path, ext string) (string, error)
}

type ProfileClient interface {
	Extract(ctx context.Context, text string, assets *service.PromptAssets) (json.RawMessage, error)
}

type AssetLoader interface {
	Load(ctx context.Context) (*service.PromptAssets, error)
}

type ProfileStore interface {
	Ping(ctx context.Context) error
	FindByIdentity(ctx context.Context, keys identity.Keys) (*model.CandidateProfile, error)
	Insert(ctx context.Context, profile *model.CandidateProfile) (uuid.UUID, error)
	MergeUpdate(ctx context.Context, id uuid.UUID, fields []byte, sourceFile string) (*model.CandidateProfile, error)
	FindAll(ctx context.Context) ([]model.CandidateProfile, error)
	FindPage(ctx context.Context, page, pageSize int) ([]model.CandidateProfile, int64, error)
}

// Document is one uploaded file. ReadErr is set when the upload could not
// be read; the document then fails with KindStaging.
type Document struct {
	Filename string
	Data     []byte
	ReadErr  error
}

type Status string

const (
	StatusStoredNew     Status = "stored-new"
	StatusStoredUpdated Status = "stored-updated"
	StatusFailed        Status = "failed"
)

// Outcome is the terminal result of one document. Profile is set for the
// stored statuses, Err for StatusFailed.
type Outcome struct {
	Filename string
	Status   Status
	Profile  *model.CandidateProfile
	Err      error
}

func (o Outcome) Kind() apperror.Kind {
	return apperror.KindOf(o.Err)
}

type IngestionOptions struct {
	StagingDir     string
	IdentityPath   string
	ModelTimeout   time.Duration
	MaxUploadBytes int64
	Concurrency    int
}

func OptionsFromConfig(cfg *config.IngestConfig) IngestionOptions {
	return IngestionOptions{
		StagingDir:     cfg.StagingDir,
		IdentityPath:   cfg.IdentityPath,
		ModelTimeout:   cfg.ModelTimeout,
		MaxUploadBytes: int64(cfg.MaxUploadMB) * 1024 * 1024,
		Concurrency:    cfg.Concurrency,
	}
}

type IngestionUsecase struct {
	extractor TextExtractor
	client    ProfileClient
	assets    AssetLoader
	store     ProfileStore
	locker    *identity.Locker
	pool      *ants.Pool
	opts      IngestionOptions
	logger    *zap.Logger
}

func NewIngestionUsecase(extractor TextExtractor, client ProfileClient, assets AssetLoader, store ProfileStore, opts IngestionOptions, logger *zap.Logger) (*IngestionUsecase, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	if opts.Concurrency < 1 {
		opts.Concurrency = 1
	}
	if opts.ModelTimeout <= 0 {
		opts.ModelTimeout = 2 * time.Minute
	}
	if opts.StagingDir == "" {
		opts.StagingDir = os.TempDir()
	}
	if err := os.MkdirAll(opts.StagingDir, 0o755); err != nil {
		return nil, fmt.Errorf("create staging dir: %w", err)
	}

	pool, err := ants.NewPool(opts.Concurrency)
	if err != nil {
		return nil, fmt.Errorf("create worker pool: %w", err)
	}

	return &IngestionUsecase{
		extractor: extractor,
		client:    client,
		assets:    assets,
		store:     store,
		locker:    identity.NewLocker(),
		pool:      pool,
		opts:      opts,
		logger:    logger,
	}, nil
}

// Release stops the worker pool.
func (uc *IngestionUsecase) Release() {
	uc.pool.Release()
}

// ProcessBatch ingests every document and returns one outcome per document
// in input order. Only an unreachable store fails the whole batch.
func (uc *IngestionUsecase) ProcessBatch(ctx context.Context, docs []Document) ([]Outcome, error) {
	if len(docs) == 0 {
		return []Outcome{}, nil
	}
	if err := uc.store.Ping(ctx); err != nil {
		return nil, apperror.New(apperror.KindStore, "store unreachable", err)
	}

	outcomes := make([]Outcome, len(docs))
	var wg sync.WaitGroup
	for i := range docs {
		wg.Add(1)
		task := func() {
			defer wg.Done()
			outcomes[i] = uc.processOne(ctx, docs[i])
		}
		if err := uc.pool.Submit(task); err != nil {
			uc.logger.Warn("ingest.pool.submit_failed", zap.Error(err))
			task()
		}
	}
	wg.Wait()

	uc.logger.Info("ingest.batch.done", zap.Int("documents", len(docs)), zap.Int("failed", countFailed(outcomes)))
	return outcomes, nil
}

func (uc *IngestionUsecase) processOne(ctx context.Context, doc Document) (out Outcome) {
	log := uc.logger.With(zap.String("filename", doc.Filename))
	start := time.Now()
	defer func() {
		if r := recover(); r != nil {
			out = failed(doc.Filename, fmt.Errorf("panic while ingesting: %v", r))
		}
		if out.Status == StatusFailed {
			log.Warn("ingest.document.failed",
				zap.String("kind", string(out.Kind())),
				zap.Duration("elapsed", time.Since(start)),
				zap.Error(out.Err),
			)
			return
		}
		log.Info("ingest.document.stored",
			zap.String("status", string(out.Status)),
			zap.String("id", out.Profile.ID.String()),
			zap.Duration("elapsed", time.Since(start)),
		)
	}()

	if doc.ReadErr != nil {
		return failed(doc.Filename, apperror.New(apperror.KindStaging, "read upload", doc.ReadErr))
	}
	if uc.opts.MaxUploadBytes > 0 && int64(len(doc.Data)) > uc.opts.MaxUploadBytes {
		return failed(doc.Filename, apperror.Newf(apperror.KindStaging, nil,
			"file is %d bytes, limit is %d", len(doc.Data), uc.opts.MaxUploadBytes))
	}

	ext := util.ExtOf(doc.Filename)
	var (
		staged string
		assets *service.PromptAssets
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(recovered(func() error {
		path, err := uc.stage(doc.Data, ext)
		staged = path
		return err
	}))
	g.Go(recovered(func() error {
		a, err := uc.assets.Load(gctx)
		assets = a
		return err
	}))
	err := g.Wait()
	if staged != "" {
		defer uc.removeStaged(log, staged)
	}
	if err != nil {
		return failed(doc.Filename, err)
	}

	text, err := uc.extractor.ExtractText(staged, ext)
	if err != nil {
		return failed(doc.Filename, err)
	}
	if text == "" {
		return failed(doc.Filename, apperror.New(apperror.KindEmptyExtraction, "no text extracted", nil))
	}

	modelCtx, cancel := context.WithTimeout(ctx, uc.opts.ModelTimeout)
	fields, err := uc.client.Extract(modelCtx, text, assets)
	cancel()
	if err != nil {
		return failed(doc.Filename, err)
	}

	keys := identity.Read(fields, uc.opts.IdentityPath)
	if keys.Empty() {
		return failed(doc.Filename, apperror.New(apperror.KindMissingIdentity, "neither email nor phone present", nil))
	}
	log.Debug("ingest.identity.resolved", zap.Stringer("identity", keys))

	profile, status, err := uc.persist(ctx, keys, fields, doc.Filename)
	if err != nil {
		return failed(doc.Filename, err)
	}
	return Outcome{Filename: doc.Filename, Status: status, Profile: profile}
}

// stage writes data under a unique name in the staging dir. A partially
// written file is removed before returning.
func (uc *IngestionUsecase) stage(data []byte, ext string) (string, error) {
	f, err := os.CreateTemp(uc.opts.StagingDir, "resume-*"+ext)
	if err != nil {
		return "", apperror.New(apperror.KindStaging, "create staging file", err)
	}
	path := f.Name()
	_, werr := f.Write(data)
	cerr := f.Close()
	if werr == nil {
		werr = cerr
	}
	if werr != nil {
		_ = os.Remove(path)
		return "", apperror.New(apperror.KindStaging, "write staging file", werr)
	}
	return path, nil
}

func (uc *IngestionUsecase) removeStaged(log *zap.Logger, path string) {
	if err := os.Remove(path); err != nil && !errors.Is(err, os.ErrNotExist) {
		log.Error("ingest.staging.remove_failed", zap.String("path", path), zap.Error(err))
	}
}

// persist resolves keys and inserts or merges under the identity lock. A
// conflicting concurrent insert from another process is retried once by
// resolving again.
func (uc *IngestionUsecase) persist(ctx context.Context, keys identity.Keys, fields []byte, sourceFile string) (*model.CandidateProfile, Status, error) {
	unlock := uc.locker.Lock(keys)
	defer unlock()

	var err error
	for attempt := 0; attempt < 2; attempt++ {
		var existing *model.CandidateProfile
		existing, err = uc.store.FindByIdentity(ctx, keys)
		if err != nil {
			return nil, "", err
		}
		if existing != nil {
			updated, err := uc.store.MergeUpdate(ctx, existing.ID, fields, sourceFile)
			if err != nil {
				return nil, "", err
			}
			return updated, StatusStoredUpdated, nil
		}

		profile := &model.CandidateProfile{
			Email:      optional(keys.Email),
			Phone:      optional(keys.Phone),
			Fields:     datatypes.JSON(fields),
			SourceFile: sourceFile,
		}
		if _, err = uc.store.Insert(ctx, profile); err == nil {
			return profile, StatusStoredNew, nil
		}
		if !errors.Is(err, apperror.ErrStoreConflict) {
			return nil, "", err
		}
		uc.logger.Warn("ingest.store.conflict", zap.Stringer("identity", keys), zap.Int("attempt", attempt+1))
	}
	return nil, "", err
}

// ListProfiles returns every profile when page is 0, otherwise one page.
func (uc *IngestionUsecase) ListProfiles(ctx context.Context, page, pageSize int) ([]model.CandidateProfile, int64, error) {
	if page <= 0 {
		profiles, err := uc.store.FindAll(ctx)
		if err != nil {
			return nil, 0, apperror.New(apperror.KindStore, "list profiles", err)
		}
		return profiles, int64(len(profiles)), nil
	}
	profiles, total, err := uc.store.FindPage(ctx, page, pageSize)
	if err != nil {
		return nil, 0, apperror.New(apperror.KindStore, "list profiles", err)
	}
	return profiles, total, nil
}

// recovered turns a panic in an errgroup step into that step's error; the
// recover in processOne does not reach other goroutines.
func recovered(fn func() error) func() error {
	return func() (err error) {
		defer func() {
			if r := recover(); r != nil {
				err = fmt.Errorf("panic while ingesting: %v", r)
			}
		}()
		return fn()
	}
}

func failed(filename string, err error) Outcome {
	return Outcome{Filename: filename, Status: StatusFailed, Err: err}
}

func optional(v string) *string {
	if v == "" {
		return nil
	}
	return &v
}

func countFailed(outcomes []Outcome) int {
	n := 0
	for _, o := range outcomes {
		if o.Status == StatusFailed {
			n++
		}
	}
	return n
}
