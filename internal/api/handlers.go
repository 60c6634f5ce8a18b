package api

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/starford/vitalis/internal/apperr"
	"github.com/starford/vitalis/internal/history"
)

// Handler holds API route handlers.
type Handler struct {
	svc *Service
}

// NewHandler creates a new Handler.
func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

// ScoreNote handles POST /api/score.
//
//	@Summary		Score one Markdown note against the quality rubric
//	@Tags			quality
//	@Accept			json
//	@Produce		json
//	@Param			body	body		ScoreRequest	true	"Note content"
//	@Success		200		{object}	ScoreResponse
//	@Failure		400		{object}	errResponse
//	@Security		BearerAuth
//	@Router			/score [post]
func (h *Handler) ScoreNote(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, 1<<20)
	var req ScoreRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody("invalid JSON body"))
		return
	}
	if req.Content == "" {
		writeJSON(w, http.StatusBadRequest, errorBody("content is required"))
		return
	}
	evaluation, err := h.svc.Score(r.Context(), []byte(req.Content))
	if err != nil {
		slog.Error("score failed", slog.String("error", err.Error()))
		writeJSON(w, http.StatusInternalServerError, errorBody("internal error"))
		return
	}
	writeJSON(w, http.StatusOK, evaluation)
}

// Evaluate handles POST /api/evaluate.
//
//	@Summary		Evaluate extraction results against scenario ground truth
//	@Tags			accuracy
//	@Accept			json
//	@Produce		json
//	@Param			body	body		EvaluateRequest	true	"Scenario and extracted notes"
//	@Success		200		{object}	EvaluateResponse
//	@Failure		400		{object}	errResponse
//	@Security		BearerAuth
//	@Router			/evaluate [post]
func (h *Handler) Evaluate(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, 10<<20)
	var req EvaluateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody("invalid JSON body"))
		return
	}
	if req.Notes == nil {
		writeJSON(w, http.StatusBadRequest, errorBody("notes are required"))
		return
	}
	metrics := h.svc.Evaluate(r.Context(), req.Scenario, req.Notes, req.Timing)
	writeJSON(w, http.StatusOK, metrics)
}

// ListRuns handles GET /api/runs.
//
//	@Summary		List recent evaluation runs
//	@Tags			runs
//	@Produce		json
//	@Param			limit	query		int	false	"Max rows"
//	@Success		200		{object}	RunListResponse
//	@Security		BearerAuth
//	@Router			/runs [get]
func (h *Handler) ListRuns(w http.ResponseWriter, r *http.Request) {
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	runs, err := h.svc.Runs(r.Context(), limit)
	if err != nil {
		if errors.Is(err, errHistoryDisabled) {
			writeJSON(w, http.StatusServiceUnavailable, errorBody("run history disabled"))
			return
		}
		slog.Error("list runs failed", slog.String("error", err.Error()))
		writeJSON(w, http.StatusInternalServerError, errorBody("internal error"))
		return
	}
	if runs == nil {
		runs = []history.RunRow{}
	}
	writeJSON(w, http.StatusOK, RunListResponse{Runs: runs})
}

// GetRun handles GET /api/runs/{id}.
//
//	@Summary		Get one evaluation run by id
//	@Tags			runs
//	@Produce		json
//	@Param			id	path		string	true	"Run id"
//	@Success		200	{object}	history.RunRow
//	@Failure		404	{object}	errResponse
//	@Security		BearerAuth
//	@Router			/runs/{id} [get]
func (h *Handler) GetRun(w http.ResponseWriter, r *http.Request) {
	runID := chi.URLParam(r, "id")
	run, err := h.svc.Run(r.Context(), runID)
	if err != nil {
		switch {
		case errors.Is(err, apperr.ErrNotFound):
			writeJSON(w, http.StatusNotFound, errorBody("not found"))
		case errors.Is(err, errHistoryDisabled):
			writeJSON(w, http.StatusServiceUnavailable, errorBody("run history disabled"))
		default:
			slog.Error("get run failed", slog.String("run_id", runID), slog.String("error", err.Error()))
			writeJSON(w, http.StatusInternalServerError, errorBody("internal error"))
		}
		return
	}
	writeJSON(w, http.StatusOK, run)
}
