// Package handlers implements the HTTP endpoints.
package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"samarth/internal/application/answer"
	"samarth/internal/application/queries"
	apperrors "samarth/internal/errors"
	"samarth/internal/interfaces/http/dto"
	"samarth/internal/interfaces/http/validation"
	"samarth/internal/middleware"
	"samarth/pkg/api"

	"go.uber.org/zap"
)

// Asker answers questions and describes the dataset.
type Asker interface {
	Ask(ctx context.Context, question string) (answer.Response, error)
	DatasetSummary(ctx context.Context) (queries.DatasetSummary, error)
}

// QuestionHandler serves the question endpoints.
type QuestionHandler struct {
	asker          Asker
	validator      *validation.Validator
	maxRequestSize int64
	logger         *zap.Logger
}

// NewQuestionHandler creates a new question handler
func NewQuestionHandler(asker Asker, maxRequestSize int64, logger *zap.Logger) *QuestionHandler {
	return &QuestionHandler{
		asker:          asker,
		validator:      validation.GetValidator(),
		maxRequestSize: maxRequestSize,
		logger:         logger,
	}
}

// Ask handles POST /api/ask
func (h *QuestionHandler) Ask(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestIDFromRequest(r)

	var req dto.AskRequest
	body := http.MaxBytesReader(w, r.Body, h.maxRequestSize)
	if err := json.NewDecoder(body).Decode(&req); err != nil && !errors.Is(err, io.EOF) {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			api.ErrorWithCode(w, http.StatusRequestEntityTooLarge, apperrors.CodeInvalidRequest, "Request body too large", requestID)
			return
		}
		api.ErrorWithCode(w, http.StatusBadRequest, apperrors.CodeInvalidRequest, "Invalid request body", requestID)
		return
	}

	if err := h.validator.Validate(req); err != nil {
		api.ErrorWithCode(w, http.StatusBadRequest, validationCode(err), err.Error(), requestID)
		return
	}

	resp, err := h.asker.Ask(r.Context(), req.Question)
	if err != nil {
		h.respondError(w, r, err, "ask_question")
		return
	}

	h.logger.Debug("Answered question",
		zap.String("request_id", requestID),
		zap.String("intent", string(resp.Type)),
	)
	api.Success(w, http.StatusOK, resp)
}

// Suggestions handles GET /api/suggestions
func (h *QuestionHandler) Suggestions(w http.ResponseWriter, _ *http.Request) {
	api.Success(w, http.StatusOK, dto.SuggestionsResponse{Suggestions: answer.Suggestions()})
}

// Dataset handles GET /api/dataset
func (h *QuestionHandler) Dataset(w http.ResponseWriter, r *http.Request) {
	summary, err := h.asker.DatasetSummary(r.Context())
	if err != nil {
		h.respondError(w, r, err, "dataset_summary")
		return
	}
	api.Success(w, http.StatusOK, dto.FromSummary(summary))
}

// validationCode maps the first failing rule to an error code.
func validationCode(err error) string {
	var verrs dto.ValidationErrors
	if errors.As(err, &verrs) && len(verrs.Errors) > 0 {
		first := verrs.Errors[0]
		if first.Field == "question" && first.Code == "MAX" {
			return apperrors.CodeQuestionTooLong
		}
	}
	return apperrors.CodeInvalidRequest
}

func (h *QuestionHandler) respondError(w http.ResponseWriter, r *http.Request, err error, operation string) {
	requestID := middleware.GetRequestIDFromRequest(r)
	unified := apperrors.FromDomain(err, operation)
	unified.RequestID = requestID

	status := unified.HTTPStatus()
	if status >= http.StatusInternalServerError {
		h.logger.Error("Request failed",
			zap.String("request_id", requestID),
			zap.String("operation", operation),
			zap.String("code", unified.Code),
			zap.Error(err),
		)
	} else {
		h.logger.Warn("Request rejected",
			zap.String("request_id", requestID),
			zap.String("operation", operation),
			zap.String("code", unified.Code),
			zap.Error(err),
		)
	}

	message := unified.Message
	if unified.Type == apperrors.ErrorTypeInternal {
		message = "Internal server error"
	}
	api.ErrorWithCode(w, status, unified.Code, message, requestID)
}
