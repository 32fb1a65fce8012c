package dto

import (
	"github.com/fadilmartias/resume-ingestor/internal/usecase"
)

type OutcomeErrorDTO struct {
	Kind    string `json:"kind"`
	Message string `json:"message"`
}

type IngestOutcomeDTO struct {
	Filename string               `json:"filename"`
	Status   string               `json:"status"`
	Profile  *CandidateProfileDTO `json:"profile,omitempty"`
	Error    *OutcomeErrorDTO     `json:"error,omitempty"`
}

func NewIngestOutcomeDTOs(outcomes []usecase.Outcome) []IngestOutcomeDTO {
	out := make([]IngestOutcomeDTO, 0, len(outcomes))
	for _, o := range outcomes {
		item := IngestOutcomeDTO{Filename: o.Filename, Status: string(o.Status)}
		if o.Profile != nil {
			p := NewCandidateProfileDTO(o.Profile)
			item.Profile = &p
		}
		if o.Err != nil {
			item.Error = &OutcomeErrorDTO{Kind: string(o.Kind()), Message: o.Err.Error()}
		}
		out = append(out, item)
	}
	return out
}
