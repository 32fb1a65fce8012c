package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// CandidateProfile is a stored resume extraction. Email and Phone are the
// identity keys; nil means the extraction carried no value for that key.
type CandidateProfile struct {
	ID         uuid.UUID      `gorm:"type:uuid;primaryKey" json:"id"`
	Email      *string        `gorm:"type:varchar(320);uniqueIndex:idx_candidate_profiles_email" json:"email"`
	Phone      *string        `gorm:"type:varchar(64);uniqueIndex:idx_candidate_profiles_phone" json:"phone"`
	Fields     datatypes.JSON `gorm:"type:jsonb" json:"fields"`
	SourceFile string         `gorm:"type:text" json:"source_file"`
	CreatedAt  time.Time      `json:"created_at"`
	UpdatedAt  time.Time      `json:"updated_at"`
}

func (p *CandidateProfile) TableName() string {
	return "candidate_profiles"
}

func (p *CandidateProfile) EmailValue() string {
	if p.Email == nil {
		return ""
	}
	return *p.Email
}

func (p *CandidateProfile) PhoneValue() string {
	if p.Phone == nil {
		return ""
	}
	return *p.Phone
}
