package api

import (
	"bytes"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/google/uuid"

	"github.com/sharvarianand/tasktuner/internal/productivity/application/queries"
	"github.com/sharvarianand/tasktuner/internal/productivity/domain/task"
)

const maxBodyBytes = 1 << 20

// PriorityHandler serves the ranking, scoring and explanation endpoints.
type PriorityHandler struct {
	prioritize  *queries.PrioritizeTasksHandler
	score       *queries.ScoreTaskHandler
	explain     *queries.ExplainTaskHandler
	defaultUser uuid.UUID
	logger      *slog.Logger
}

// PriorityHandlerConfig holds dependencies for the priority handler.
type PriorityHandlerConfig struct {
	Prioritize *queries.PrioritizeTasksHandler
	Score      *queries.ScoreTaskHandler
	Explain    *queries.ExplainTaskHandler
	// DefaultUserID is used when a request names no user.
	DefaultUserID uuid.UUID
	Logger        *slog.Logger
}

// NewPriorityHandler creates a new priority handler.
func NewPriorityHandler(cfg PriorityHandlerConfig) *PriorityHandler {
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}
	return &PriorityHandler{
		prioritize:  cfg.Prioritize,
		score:       cfg.Score,
		explain:     cfg.Explain,
		defaultUser: cfg.DefaultUserID,
		logger:      cfg.Logger,
	}
}

type prioritizeRequest struct {
	UserID      string            `json:"userId"`
	Tasks       json.RawMessage   `json:"tasks"`
	UserContext *task.UserContext `json:"userContext"`
	Limit       int               `json:"limit"`
}

type scoreRequest struct {
	UserID       string            `json:"userId"`
	Task         json.RawMessage   `json:"task"`
	UserContext  *task.UserContext `json:"userContext"`
	Now          string            `json:"now"`
	MLAdjustment *float64          `json:"mlAdjustment"`
}

// Prioritize handles POST /api/v1/prioritize. A missing or null tasks field
// ranks the user's pending tasks from the store.
func (h *PriorityHandler) Prioritize(w http.ResponseWriter, r *http.Request) {
	var req prioritizeRequest
	if apiErr := decodeBody(r, &req); apiErr != nil {
		writeError(w, apiErr)
		return
	}

	userID, apiErr := h.userID(r, req.UserID)
	if apiErr != nil {
		writeError(w, apiErr)
		return
	}
	if req.Limit < 0 {
		writeError(w, ErrBadRequest.WithMessage("limit must not be negative"))
		return
	}

	query := queries.PrioritizeTasksQuery{UserID: userID, UserContext: req.UserContext, Limit: req.Limit}
	if !isNull(req.Tasks) {
		if !bytes.HasPrefix(bytes.TrimSpace(req.Tasks), []byte("[")) {
			writeError(w, ErrBadRequest.WithMessage("tasks must be an array"))
			return
		}
		tasks := make([]task.Task, 0)
		if err := json.Unmarshal(req.Tasks, &tasks); err != nil {
			writeError(w, ErrBadRequest.WithMessage("tasks must be an array of objects"))
			return
		}
		query.Tasks = tasks
	}

	result, err := h.prioritize.Handle(r.Context(), query)
	if err != nil {
		if errors.Is(err, queries.ErrNoTaskSource) {
			writeError(w, ErrBadRequest.WithMessage("%s", err.Error()))
			return
		}
		h.logger.ErrorContext(r.Context(), "failed to prioritize tasks", "user_id", userID, "error", err)
		writeError(w, ErrInternalServer)
		return
	}

	writeJSON(w, http.StatusOK, result)
}

// Score handles POST /api/v1/score.
func (h *PriorityHandler) Score(w http.ResponseWriter, r *http.Request) {
	query, apiErr := h.singleTaskQuery(r)
	if apiErr != nil {
		writeError(w, apiErr)
		return
	}

	result, err := h.score.Handle(r.Context(), query)
	if err != nil {
		h.logger.ErrorContext(r.Context(), "failed to score task", "error", err)
		writeError(w, ErrInternalServer)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

// Explain handles POST /api/v1/explain.
func (h *PriorityHandler) Explain(w http.ResponseWriter, r *http.Request) {
	query, apiErr := h.singleTaskQuery(r)
	if apiErr != nil {
		writeError(w, apiErr)
		return
	}

	result, err := h.explain.Handle(r.Context(), query)
	if err != nil {
		h.logger.ErrorContext(r.Context(), "failed to explain task", "error", err)
		writeError(w, ErrInternalServer)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

func (h *PriorityHandler) singleTaskQuery(r *http.Request) (queries.ScoreTaskQuery, *APIError) {
	var req scoreRequest
	if apiErr := decodeBody(r, &req); apiErr != nil {
		return queries.ScoreTaskQuery{}, apiErr
	}

	userID, apiErr := h.userID(r, req.UserID)
	if apiErr != nil {
		return queries.ScoreTaskQuery{}, apiErr
	}
	if isNull(req.Task) {
		return queries.ScoreTaskQuery{}, ErrBadRequest.WithMessage("task is required")
	}

	var t task.Task
	if err := json.Unmarshal(req.Task, &t); err != nil {
		return queries.ScoreTaskQuery{}, ErrBadRequest.WithMessage("task must be an object")
	}

	query := queries.ScoreTaskQuery{
		UserID:       userID,
		Task:         t,
		UserContext:  req.UserContext,
		MLAdjustment: req.MLAdjustment,
	}
	if req.Now != "" {
		now := task.ParseTimestamp(req.Now)
		if now == nil {
			return queries.ScoreTaskQuery{}, ErrBadRequest.WithMessage("now must be an RFC 3339 timestamp")
		}
		query.Now = now
	}
	return query, nil
}

// userID resolves the request user: body, then X-User-ID, then the default.
func (h *PriorityHandler) userID(r *http.Request, fromBody string) (uuid.UUID, *APIError) {
	raw := fromBody
	if raw == "" {
		raw = r.Header.Get("X-User-ID")
	}
	if raw == "" {
		return h.defaultUser, nil
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, ErrBadRequest.WithMessage("invalid user id %q", raw)
	}
	return id, nil
}

func decodeBody(r *http.Request, dst any) *APIError {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return ErrPayloadTooLarge
		}
		return ErrBadRequest.WithMessage("invalid JSON body")
	}
	return nil
}

func isNull(msg json.RawMessage) bool {
	trimmed := bytes.TrimSpace(msg)
	return len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null"))
}
