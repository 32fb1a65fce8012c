package dto

import (
	"encoding/json"
	"time"

	"github.com/fadilmartias/resume-ingestor/internal/model"
)

type ContactDetailsDTO struct {
	Email string `json:"email,omitempty"`
	Phone string `json:"phone,omitempty"`
}

type CandidateProfileDTO struct {
	ID             string            `json:"id"`
	ContactDetails ContactDetailsDTO `json:"contact_details"`
	Fields         json.RawMessage   `json:"fields"`
	SourceFile     string            `json:"source_file,omitempty"`
	CreatedAt      time.Time         `json:"created_at"`
	UpdatedAt      time.Time         `json:"updated_at"`
}

func NewCandidateProfileDTO(p *model.CandidateProfile) CandidateProfileDTO {
	fields := json.RawMessage(p.Fields)
	if len(fields) == 0 {
		fields = json.RawMessage("{}")
	}
	return CandidateProfileDTO{
		ID: p.ID.String(),
		ContactDetails: ContactDetailsDTO{
			Email: p.EmailValue(),
			Phone: p.PhoneValue(),
		},
		Fields:     fields,
		SourceFile: p.SourceFile,
		CreatedAt:  p.CreatedAt,
		UpdatedAt:  p.UpdatedAt,
	}
}

func NewCandidateProfileDTOs(profiles []model.CandidateProfile) []CandidateProfileDTO {
	out := make([]CandidateProfileDTO, 0, len(profiles))
	for i := range profiles {
		out = append(out, NewCandidateProfileDTO(&profiles[i]))
	}
	return out
}
