package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/heritageworks/engage/internal/app/points"
	"github.com/heritageworks/engage/internal/domain"
)

// registryReader is the read-only achievement registry slice the API needs.
type registryReader interface {
	ListActive(ctx context.Context) ([]domain.AchievementDefinition, error)
	ListDefinitions(ctx context.Context) ([]domain.AchievementDefinition, error)
}

// --- POST /api/v1/awards ---

func (s *Server) handleAward(w http.ResponseWriter, r *http.Request) {
	var req points.AwardRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	result, err := s.awards.Award(r.Context(), req)
	switch {
	case errors.Is(err, domain.ErrEmptyUserID):
		writeError(w, http.StatusBadRequest, err.Error())
		return
	case errors.Is(err, domain.ErrDuplicateEvent):
		writeError(w, http.StatusConflict, err.Error())
		return
	case errors.Is(err, domain.ErrVersionConflict):
		// Retries exhausted under sustained contention. The caller may
		// safely retry the whole award with the same event id.
		writeError(w, http.StatusConflict, err.Error())
		return
	case err != nil:
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	writeJSON(w, http.StatusOK, result)
}

// --- GET /api/v1/profiles/{userID} ---

func (s *Server) handleProfile(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "userID")
	profile, err := s.awards.Profile(r.Context(), userID)
	if errors.Is(err, domain.ErrProfileNotFound) {
		writeError(w, http.StatusNotFound, err.Error())
		return
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"profile":              profile,
		"points_to_next_level": points.PointsToNextLevel(profile.TotalPoints),
		"level_progress_pct":   points.LevelProgress(profile.TotalPoints),
	})
}

// --- GET /api/v1/profiles/{userID}/activities?since=RFC3339 ---

func (s *Server) handleActivities(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "userID")

	var since time.Time
	if raw := r.URL.Query().Get("since"); raw != "" {
		parsed, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			writeError(w, http.StatusBadRequest, "since must be RFC3339")
			return
		}
		since = parsed
	}

	records, err := s.awards.Activities(r.Context(), userID, since)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"activities": records,
		"count":      len(records),
	})
}

// --- GET /api/v1/profiles/{userID}/achievements ---

func (s *Server) handleUserAchievements(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "userID")
	profile, err := s.awards.Profile(r.Context(), userID)
	if errors.Is(err, domain.ErrProfileNotFound) {
		writeError(w, http.StatusNotFound, err.Error())
		return
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	// Join the unlock ledger with definitions. Retired definitions still
	// render: the unlock happened, even if the criterion no longer exists.
	defs, err := s.registry.ListDefinitions(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	byID := make(map[string]domain.AchievementDefinition, len(defs))
	for _, def := range defs {
		byID[def.ID] = def
	}

	type earnedView struct {
		domain.EarnedAchievement
		Name   string        `json:"name,omitempty"`
		Rarity domain.Rarity `json:"rarity,omitempty"`
	}
	earned := make([]earnedView, len(profile.Earned))
	for i, e := range profile.Earned {
		view := earnedView{EarnedAchievement: e}
		if def, ok := byID[e.AchievementID]; ok {
			view.Name = def.Name
			view.Rarity = def.Rarity
		}
		earned[i] = view
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"achievements": earned,
		"count":        len(earned),
	})
}

// --- GET /api/v1/profiles/{userID}/streak ---

func (s *Server) handleStreak(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "userID")
	streak, err := s.awards.Streak(r.Context(), userID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, streak)
}

// --- GET /api/v1/achievements ---

func (s *Server) handleAchievements(w http.ResponseWriter, r *http.Request) {
	defs, err := s.registry.ListActive(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"achievements": defs,
		"count":        len(defs),
	})
}

// --- GET /api/v1/leaderboard?window=&category=&limit=&user_id= ---

func (s *Server) handleLeaderboard(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	query := points.LeaderboardQuery{
		Window:   domain.Window(defaulted(q.Get("window"), string(domain.WindowAllTime))),
		Category: domain.Category(defaulted(q.Get("category"), string(domain.CategoryOverall))),
		ViewerID: q.Get("user_id"),
	}
	if raw := q.Get("limit"); raw != "" {
		limit, err := strconv.Atoi(raw)
		if err != nil {
			writeError(w, http.StatusBadRequest, "limit must be an integer")
			return
		}
		query.Limit = limit
	}

	entries, err := s.leaderboards.Top(r.Context(), query)
	if errors.Is(err, domain.ErrInvalidWindow) || errors.Is(err, domain.ErrInvalidCategory) {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"window":      query.Window,
		"category":    query.Category,
		"leaderboard": entries,
	})
}

// --- GET /api/v1/leaderboard/position?user_id=&window=&category= ---

func (s *Server) handlePosition(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	userID := q.Get("user_id")
	if userID == "" {
		writeError(w, http.StatusBadRequest, "user_id is required")
		return
	}

	window := domain.Window(defaulted(q.Get("window"), string(domain.WindowAllTime)))
	category := domain.Category(defaulted(q.Get("category"), string(domain.CategoryOverall)))

	pos, err := s.leaderboards.Position(r.Context(), userID, window, category)
	switch {
	case errors.Is(err, domain.ErrProfileNotFound):
		writeError(w, http.StatusNotFound, err.Error())
		return
	case errors.Is(err, domain.ErrInvalidWindow), errors.Is(err, domain.ErrInvalidCategory):
		writeError(w, http.StatusBadRequest, err.Error())
		return
	case err != nil:
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	writeJSON(w, http.StatusOK, pos)
}

func defaulted(v, fallback string) string {
	if v == "" {
		return fallback
	}
	return v
}
