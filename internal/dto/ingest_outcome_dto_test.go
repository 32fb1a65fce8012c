package dto

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/fadilmartias/resume-ingestor/internal/apperror"
	"github.com/fadilmartias/resume-ingestor/internal/model"
	"github.com/fadilmartias/resume-ingestor/internal/usecase"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/datatypes"
)

func TestNewIngestOutcomeDTOs(t *testing.T) {
	email := "jane@example.com"
	id := uuid.MustParse("7f9c2a52-3f0e-4a8e-9d43-2b1c6c0e5a11")
	created := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)

	out := NewIngestOutcomeDTOs([]usecase.Outcome{
		{
			Filename: "jane.pdf",
			Status:   usecase.StatusStoredNew,
			Profile: &model.CandidateProfile{
				ID:        id,
				Email:     &email,
				Fields:    datatypes.JSON(`{"title":"Engineer"}`),
				CreatedAt: created,
				UpdatedAt: created,
			},
		},
		{
			Filename: "scan.pdf",
			Status:   usecase.StatusFailed,
			Err:      apperror.New(apperror.KindEmptyExtraction, "no text extracted", nil),
		},
	})

	require.Len(t, out, 2)
	raw, err := json.Marshal(out)
	require.NoError(t, err)
	assert.JSONEq(t, `[
		{
			"filename": "jane.pdf",
			"status": "stored-new",
			"profile": {
				"id": "7f9c2a52-3f0e-4a8e-9d43-2b1c6c0e5a11",
				"contact_details": {"email": "jane@example.com"},
				"fields": {"title": "Engineer"},
				"created_at": "2026-01-02T03:04:05Z",
				"updated_at": "2026-01-02T03:04:05Z"
			}
		},
		{
			"filename": "scan.pdf",
			"status": "failed",
			"error": {"kind": "empty-extraction", "message": "empty-extraction: no text extracted"}
		}
	]`, string(raw))
}
