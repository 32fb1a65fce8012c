package handler

import (
	"context"
	"fmt"
	"io"
	"mime/multipart"
	"time"

	"github.com/fadilmartias/resume-ingestor/internal/dto"
	"github.com/fadilmartias/resume-ingestor/internal/middleware"
	"github.com/fadilmartias/resume-ingestor/internal/model"
	"github.com/fadilmartias/resume-ingestor/internal/response"
	"github.com/fadilmartias/resume-ingestor/internal/usecase"
	"github.com/fadilmartias/resume-ingestor/internal/util"
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

const (
	defaultPageSize = 20
	maxPageSize     = 100
)

type ResumeUsecase interface {
	ProcessBatch(ctx context.Context, docs []usecase.Document) ([]usecase.Outcome, error)
	ListProfiles(ctx context.Context, page, pageSize int) ([]model.CandidateProfile, int64, error)
}

type ResumeHandler struct {
	uc     ResumeUsecase
	logger *zap.Logger
}

func NewResumeHandler(uc ResumeUsecase, logger *zap.Logger) *ResumeHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ResumeHandler{uc: uc, logger: logger}
}

func (h *ResumeHandler) RegisterRoutes(app *fiber.App) {
	app.Post("/upload", middleware.RateLimiter(5, 10*time.Second), h.Upload)
	app.Get("/resumes", h.List)
}

// Upload ingests every file sent under the "files" field and answers with
// one outcome per file, in upload order.
func (h *ResumeHandler) Upload(c *fiber.Ctx) error {
	form, err := c.MultipartForm()
	if err != nil {
		return util.ErrorResponse(c, util.ErrorResponseFormat{
			Code:    fiber.StatusBadRequest,
			Message: "multipart form is required",
		}, err)
	}
	files := form.File["files"]
	if len(files) == 0 {
		return util.ErrorResponse(c, util.ErrorResponseFormat{
			Code:    fiber.StatusBadRequest,
			Message: "at least one file is required",
		})
	}

	docs := make([]usecase.Document, 0, len(files))
	for _, fh := range files {
		docs = append(docs, readUpload(fh))
	}

	outcomes, err := h.uc.ProcessBatch(c.UserContext(), docs)
	if err != nil {
		h.logger.Error("handler.upload.batch_failed", zap.Int("files", len(docs)), zap.Error(err))
		return util.ErrorResponse(c, util.ErrorResponseFormat{
			Code:    fiber.StatusServiceUnavailable,
			Message: "profile store is unavailable",
		}, err)
	}

	return util.SuccessResponse(c, util.SuccessResponseFormat{
		Message: fmt.Sprintf("Processed %d file(s)", len(outcomes)),
		Data:    dto.NewIngestOutcomeDTOs(outcomes),
	})
}

// readUpload loads one multipart file. A read failure is carried on the
// document so it fails alone.
func readUpload(fh *multipart.FileHeader) usecase.Document {
	doc := usecase.Document{Filename: fh.Filename}
	f, err := fh.Open()
	if err != nil {
		doc.ReadErr = err
		return doc
	}
	defer f.Close()

	doc.Data, doc.ReadErr = io.ReadAll(f)
	return doc
}

// List returns all profiles, or one page of them when ?page is given.
func (h *ResumeHandler) List(c *fiber.Ctx) error {
	page := c.QueryInt("page", 0)
	pageSize := c.QueryInt("page_size", defaultPageSize)
	if pageSize < 1 || pageSize > maxPageSize {
		pageSize = defaultPageSize
	}
	if page < 0 {
		page = 0
	}

	profiles, total, err := h.uc.ListProfiles(c.UserContext(), page, pageSize)
	if err != nil {
		return util.ErrorResponse(c, util.ErrorResponseFormat{
			Message: "failed to list resumes",
		}, err)
	}
	if total == 0 {
		return util.ErrorResponse(c, util.ErrorResponseFormat{
			Code:    fiber.StatusNotFound,
			Message: "No resumes found.",
		})
	}

	var pagination *response.Pagination
	if page > 0 {
		pagination = response.NewPagination(page, pageSize, total, len(profiles))
	}
	return util.SuccessResponse(c, util.SuccessResponseFormat{
		Message:    "Success get resumes",
		Data:       dto.NewCandidateProfileDTOs(profiles),
		Pagination: pagination,
	})
}
