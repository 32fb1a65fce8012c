package repository

import (
	"context"
	"errors"
	"time"

	"github.com/fadilmartias/resume-ingestor/internal/apperror"
	"github.com/fadilmartias/resume-ingestor/internal/identity"
	"github.com/fadilmartias/resume-ingestor/internal/model"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/datatypes"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type ProfileRepository struct {
	db           *gorm.DB
	identityPath string
	logger       *zap.Logger
}

func NewProfileRepository(db *gorm.DB, identityPath string, logger *zap.Logger) *ProfileRepository {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ProfileRepository{db: db, identityPath: identityPath, logger: logger}
}

func (r *ProfileRepository) Ping(ctx context.Context) error {
	sqlDB, err := r.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}

// FindByIdentity returns the profile matching either key, or nil. Empty keys
// never take part in the match. An email match wins over a phone match.
func (r *ProfileRepository) FindByIdentity(ctx context.Context, keys identity.Keys) (*model.CandidateProfile, error) {
	q := r.db.WithContext(ctx).Model(&model.CandidateProfile{})
	switch {
	case keys.Email != "" && keys.Phone != "":
		q = q.Where("email = ? OR phone = ?", keys.Email, keys.Phone)
	case keys.Email != "":
		q = q.Where("email = ?", keys.Email)
	case keys.Phone != "":
		q = q.Where("phone = ?", keys.Phone)
	default:
		return nil, nil
	}

	var found []model.CandidateProfile
	if err := q.Order("created_at ASC").Limit(2).Find(&found).Error; err != nil {
		return nil, apperror.New(apperror.KindStore, "find profile by identity", err)
	}
	if len(found) == 0 {
		return nil, nil
	}
	for i := range found {
		if keys.Email != "" && found[i].EmailValue() == keys.Email {
			return &found[i], nil
		}
	}
	return &found[0], nil
}

// Insert stores profile as-is under a fresh id.
func (r *ProfileRepository) Insert(ctx context.Context, profile *model.CandidateProfile) (uuid.UUID, error) {
	profile.ID = uuid.New()
	now := time.Now().UTC()
	profile.CreatedAt = now
	profile.UpdatedAt = now

	if err := r.db.WithContext(ctx).Create(profile).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return uuid.Nil, apperror.New(apperror.KindStoreConflict, "identity already stored", err)
		}
		return uuid.Nil, apperror.New(apperror.KindStore, "insert profile", err)
	}
	r.logger.Debug("repository.profile.inserted", zap.String("id", profile.ID.String()))
	return profile.ID, nil
}

// MergeUpdate replaces every non-identity field of the stored profile with
// fields. The stored email and phone are kept, both in their columns and
// inside the payload.
func (r *ProfileRepository) MergeUpdate(ctx context.Context, id uuid.UUID, fields []byte, sourceFile string) (*model.CandidateProfile, error) {
	var updated model.CandidateProfile
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			First(&updated, "id = ?", id).Error; err != nil {
			return err
		}

		stored := identity.Keys{Email: updated.EmailValue(), Phone: updated.PhoneValue()}
		merged, err := identity.Preserve(fields, r.identityPath, stored)
		if err != nil {
			return err
		}

		updated.Fields = datatypes.JSON(merged)
		updated.SourceFile = sourceFile
		updated.UpdatedAt = time.Now().UTC()
		return tx.Save(&updated).Error
	})
	if err != nil {
		return nil, apperror.New(apperror.KindStore, "merge profile "+id.String(), err)
	}
	r.logger.Debug("repository.profile.merged", zap.String("id", id.String()))
	return &updated, nil
}

func (r *ProfileRepository) FindAll(ctx context.Context) ([]model.CandidateProfile, error) {
	var profiles []model.CandidateProfile
	err := r.db.WithContext(ctx).Order("created_at ASC").Find(&profiles).Error
	return profiles, err
}

func (r *ProfileRepository) FindPage(ctx context.Context, page, pageSize int) ([]model.CandidateProfile, int64, error) {
	var total int64
	if err := r.db.WithContext(ctx).Model(&model.CandidateProfile{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}
	var profiles []model.CandidateProfile
	err := r.db.WithContext(ctx).
		Order("created_at ASC").
		Offset((page - 1) * pageSize).
		Limit(pageSize).
		Find(&profiles).Error
	return profiles, total, err
}
