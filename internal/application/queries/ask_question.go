package queries

import (
	"unicode/utf8"

	apperrors "samarth/internal/errors"
)

// MaxQuestionLength bounds question text, in characters.
const MaxQuestionLength = 1000

// AskQuestionQuery asks the engine one free-text question. An empty question
// is valid and is answered with guidance.
type AskQuestionQuery struct {
	Question string
}

// Validate validates the AskQuestionQuery
func (q AskQuestionQuery) Validate() error {
	if utf8.RuneCountInString(q.Question) > MaxQuestionLength {
		return apperrors.Validation(apperrors.CodeQuestionTooLong, "question is too long").
			WithOperation("ask_question").
			Build()
	}
	return nil
}

// DatasetSummaryQuery asks for a description of the snapshot currently in effect.
type DatasetSummaryQuery struct{}

// Validate validates the DatasetSummaryQuery
func (q DatasetSummaryQuery) Validate() error { return nil }
