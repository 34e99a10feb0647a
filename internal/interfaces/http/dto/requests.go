// Package dto defines the HTTP request and response bodies.
package dto

import (
	"time"

	"samarth/internal/application/answer"
	"samarth/internal/application/queries"
	"samarth/internal/domain/dataset"
)

// AskRequest is the body of POST /api/ask. A missing question is treated as
// an empty one and answered with guidance.
type AskRequest struct {
	Question string `json:"question" validate:"max=1000"`
}

// AskResponse is the answer returned for every question.
type AskResponse = answer.Response

// SuggestionsResponse lists example questions.
type SuggestionsResponse struct {
	Suggestions []string `json:"suggestions"`
}

// DatasetResponse describes the snapshot in effect.
type DatasetResponse struct {
	Version  string                  `json:"version"`
	Source   string                  `json:"source"`
	LoadedAt time.Time               `json:"loaded_at"`
	Regions  []dataset.RegionSummary `json:"regions"`
}

// FromSummary converts the query result.
func FromSummary(s queries.DatasetSummary) DatasetResponse {
	return DatasetResponse{
		Version:  s.Version,
		Source:   s.Source,
		LoadedAt: s.LoadedAt,
		Regions:  s.Regions,
	}
}

// HealthResponse is returned by the health and readiness probes.
type HealthResponse struct {
	Status         string    `json:"status"`
	Timestamp      time.Time `json:"timestamp"`
	DatasetVersion string    `json:"dataset_version,omitempty"`
	DatasetRegions int       `json:"dataset_regions,omitempty"`
}

// ValidationError describes one invalid field.
type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
	Code    string `json:"code"`
}

// ValidationErrors aggregates field errors.
type ValidationErrors struct {
	Errors []ValidationError `json:"errors"`
}

func (v ValidationErrors) Error() string {
	if len(v.Errors) == 0 {
		return "validation failed"
	}
	first := v.Errors[0]
	return first.Field + ": " + first.Message
}
