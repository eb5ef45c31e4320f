package api

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/okian/lessongen/internal/adapters/http/schema"
	"github.com/okian/lessongen/internal/domain/lesson"
	"github.com/okian/lessongen/internal/domain/model"
	"github.com/okian/lessongen/pkg/logger"
)

// Error codes returned in errorResponse.Code.
const (
	codeBadRequest      = "bad_request"
	codeValidation      = "validation_error"
	codePayloadTooLarge = "payload_too_large"
	codeInternal        = "internal_error"
)

// LessonHandler serves the lesson endpoints.
type LessonHandler struct {
	deps    Dependencies
	maxBody int64
	log     logger.Logger
}

// NewLessonHandler creates a new lesson handler.
func NewLessonHandler(deps Dependencies) *LessonHandler {
	return &LessonHandler{deps: deps, maxBody: DefaultMaxBodyBytes, log: logger.Get()}
}

// HandlePitching handles POST /lesson/pitching requests.
func (h *LessonHandler) HandlePitching(w http.ResponseWriter, r *http.Request) {
	handle(h, w, r, schema.Pitching, h.deps.Pitching)
}

// HandleHitting handles POST /lesson/hitting requests.
func (h *LessonHandler) HandleHitting(w http.ResponseWriter, r *http.Request) {
	handle(h, w, r, schema.Hitting, h.deps.Hitting)
}

func handle[T any](h *LessonHandler, w http.ResponseWriter, r *http.Request, schemaName string,
	generate func(context.Context, T) (lesson.Result, error),
) {
	ctx := r.Context()

	var in T
	if err := h.decode(w, r, schemaName, &in); err != nil {
		h.fail(ctx, w, err)
		return
	}

	res, err := generate(ctx, in)
	if err != nil {
		if errors.Is(err, model.ErrInvalidInput) {
			h.fail(ctx, w, WrapKind("generate", ErrValidation, err))
			return
		}
		h.log.Error(ctx, "lesson generation failed", logger.Error(err))
		writeError(w, http.StatusInternalServerError, codeInternal, nil)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

// decode reads the capped body, checks it against the schema and decodes it into dst.
func (h *LessonHandler) decode(w http.ResponseWriter, r *http.Request, schemaName string, dst any) error {
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, h.maxBody))
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return WrapKind("read body", ErrPayloadTooLarge, err)
		}
		return WrapKind("read body", ErrBadRequest, err)
	}

	violations, err := schema.Validate(schemaName, body)
	if err != nil {
		return WrapKind("parse body", ErrBadRequest, err)
	}
	if len(violations) > 0 {
		return WrapKind("validate body", ErrValidation, model.ValidationErrors(violations))
	}

	if err := json.Unmarshal(body, dst); err != nil {
		return WrapKind("decode body", ErrBadRequest, err)
	}
	return nil
}

func (h *LessonHandler) fail(ctx context.Context, w http.ResponseWriter, err error) {
	h.log.Debug(ctx, "lesson request rejected", logger.Error(err))
	switch {
	case errors.Is(err, ErrPayloadTooLarge):
		writeError(w, http.StatusRequestEntityTooLarge, codePayloadTooLarge, err)
	case errors.Is(err, ErrValidation):
		writeErrorDetails(w, http.StatusUnprocessableEntity, codeValidation, ErrValidation, model.Fields(err))
	default:
		writeError(w, http.StatusBadRequest, codeBadRequest, err)
	}
}
