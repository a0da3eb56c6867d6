// Package httpapi serves the level list and the run history over HTTP as
// JSON, next to the SSH server. It is read-only: runs are only created by
// played games.
package httpapi

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/vovakirdan/kahina/internal/core"
	"github.com/vovakirdan/kahina/internal/level"
	"github.com/vovakirdan/kahina/internal/registry"
	"github.com/vovakirdan/kahina/internal/replay"
	"github.com/vovakirdan/kahina/internal/storage"
)

// maxLimit caps the number of runs a single request can list.
const maxLimit = 200

// Server handles HTTP requests.
type Server struct {
	store     *storage.Store // nil disables the run endpoints
	levelDir  string
	logger    *log.Logger
	startTime time.Time
}

// NewServer creates an API server. store may be nil.
func NewServer(store *storage.Store, levelDir string, logger *log.Logger) *Server {
	return &Server{
		store:     store,
		levelDir:  levelDir,
		logger:    logger,
		startTime: time.Now(),
	}
}

// Routes sets up the HTTP routes with their middleware.
func (s *Server) Routes() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(s.logRequests)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(30 * time.Second))

	r.Get("/health", s.handleHealth)

	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/games", s.handleGames)
		r.Get("/levels", s.handleLevels)
		r.Get("/stats", s.handleStats)
		r.Get("/runs", s.handleRuns)
		r.Get("/runs/{id}", s.handleRun)
		r.Get("/runs/{id}/verify", s.handleVerify)
	})

	return r
}

// logRequests logs every request once it has been served.
func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, r)
		if s.logger != nil {
			s.logger.Info("http request",
				"method", r.Method,
				"path", r.URL.Path,
				"status", ww.Status(),
				"duration", time.Since(start),
				"request_id", middleware.GetReqID(r.Context()),
			)
		}
	})
}

type errorResponse struct {
	Error     string `json:"error"`
	RequestID string `json:"request_id,omitempty"`
}

// writeJSON writes a JSON response with proper headers.
func (s *Server) writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil && s.logger != nil {
		s.logger.Warn("cannot encode response", "error", err)
	}
}

// writeError writes a JSON error carrying the request ID.
func (s *Server) writeError(w http.ResponseWriter, r *http.Request, status int, msg string) {
	s.writeJSON(w, status, errorResponse{
		Error:     msg,
		RequestID: middleware.GetReqID(r.Context()),
	})
}

// requireStore answers 503 when no runs database is configured.
func (s *Server) requireStore(w http.ResponseWriter, r *http.Request) bool {
	if s.store == nil {
		s.writeError(w, r, http.StatusServiceUnavailable, "no runs database")
		return false
	}
	return true
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]any{
		"status":  "ok",
		"uptime":  time.Since(s.startTime).Round(time.Second).String(),
		"storage": s.store != nil,
	})
}

type gameJSON struct {
	ID    string `json:"id"`
	Title string `json:"title"`
}

func (s *Server) handleGames(w http.ResponseWriter, _ *http.Request) {
	games := []gameJSON{}
	for _, g := range registry.List() {
		games = append(games, gameJSON{ID: g.ID, Title: g.Title})
	}
	s.writeJSON(w, http.StatusOK, games)
}

type levelJSON struct {
	ID        string  `json:"id"`
	Name      string  `json:"name"`
	Width     float64 `json:"width"`
	Height    float64 `json:"height"`
	Platforms int     `json:"platforms"`
	Hidden    int     `json:"hidden"`
	HasOracle bool    `json:"has_oracle"`
	File      string  `json:"file,omitempty"`
}

func (s *Server) handleLevels(w http.ResponseWriter, r *http.Request) {
	levels, err := level.All(s.levelDir)
	if err != nil {
		s.writeError(w, r, http.StatusInternalServerError, err.Error())
		return
	}

	out := make([]levelJSON, 0, len(levels))
	for _, l := range levels {
		out = append(out, levelJSON{
			ID:        l.ID,
			Name:      l.Name,
			Width:     l.Width,
			Height:    l.Height,
			Platforms: len(l.Platforms),
			Hidden:    l.HiddenCount(),
			HasOracle: l.HasOracle,
			File:      l.FilePath,
		})
	}
	s.writeJSON(w, http.StatusOK, out)
}

type statsJSON struct {
	GameID      string    `json:"game_id"`
	Runs        int       `json:"runs"`
	Wins        int       `json:"wins"`
	TotalFrames int64     `json:"total_frames"`
	LastPlayed  time.Time `json:"last_played"`
}

func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	if !s.requireStore(w, r) {
		return
	}
	stats, err := s.store.GetAllGamesStats()
	if err != nil {
		s.writeError(w, r, http.StatusInternalServerError, err.Error())
		return
	}

	out := make([]statsJSON, 0, len(stats))
	for _, info := range registry.List() {
		if gs, ok := stats[info.ID]; ok {
			out = append(out, statsJSON(*gs))
		}
	}
	s.writeJSON(w, http.StatusOK, out)
}

type runJSON struct {
	ID         string    `json:"id"`
	GameID     string    `json:"game_id"`
	LevelID    string    `json:"level_id,omitempty"`
	Difficulty string    `json:"difficulty,omitempty"`
	Outcome    string    `json:"outcome"`
	Score      int       `json:"score"`
	Frames     int       `json:"frames"`
	Seed       int64     `json:"seed"`
	Inputs     string    `json:"inputs,omitempty"`
	Player     string    `json:"player,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
}

func toRunJSON(r storage.Run) runJSON {
	return runJSON(r)
}

// handleRuns lists recent runs. Query: game (optional), limit (default 20).
func (s *Server) handleRuns(w http.ResponseWriter, r *http.Request) {
	if !s.requireStore(w, r) {
		return
	}

	gameID := r.URL.Query().Get("game")
	if gameID != "" && !registry.Exists(gameID) {
		s.writeError(w, r, http.StatusBadRequest, "unknown game "+strconv.Quote(gameID))
		return
	}

	limit := 0
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 || n > maxLimit {
			s.writeError(w, r, http.StatusBadRequest, "limit must be between 1 and "+strconv.Itoa(maxLimit))
			return
		}
		limit = n
	}

	runs, err := s.store.RecentRuns(gameID, limit)
	if err != nil {
		s.writeError(w, r, http.StatusInternalServerError, err.Error())
		return
	}

	out := make([]runJSON, 0, len(runs))
	for _, run := range runs {
		out = append(out, toRunJSON(run))
	}
	s.writeJSON(w, http.StatusOK, out)
}

// loadRun fetches the run named in the URL, writing the error response
// itself when it cannot.
func (s *Server) loadRun(w http.ResponseWriter, r *http.Request) (storage.Run, bool) {
	if !s.requireStore(w, r) {
		return storage.Run{}, false
	}
	run, err := s.store.GetRun(chi.URLParam(r, "id"))
	if errors.Is(err, storage.ErrNotFound) {
		s.writeError(w, r, http.StatusNotFound, "run not found")
		return storage.Run{}, false
	}
	if err != nil {
		s.writeError(w, r, http.StatusInternalServerError, err.Error())
		return storage.Run{}, false
	}
	return run, true
}

func (s *Server) handleRun(w http.ResponseWriter, r *http.Request) {
	run, ok := s.loadRun(w, r)
	if !ok {
		return
	}
	s.writeJSON(w, http.StatusOK, toRunJSON(run))
}

type verifyJSON struct {
	ID       string `json:"id"`
	Matches  bool   `json:"matches"`
	Outcome  string `json:"outcome"`
	Score    int    `json:"score"`
	Frames   int    `json:"frames"`
	Level    string `json:"level,omitempty"`
	EndedAt  int    `json:"ended_at"` // Input index that ended the replay, -1 if none
	Inputs   int    `json:"inputs"`   // Number of recorded input frames
	Recorded struct {
		Outcome string `json:"outcome"`
		Score   int    `json:"score"`
		Frames  int    `json:"frames"`
	} `json:"recorded"`
}

// handleVerify re-simulates a stored run and compares the result.
func (s *Server) handleVerify(w http.ResponseWriter, r *http.Request) {
	run, ok := s.loadRun(w, r)
	if !ok {
		return
	}

	frames, err := replay.Decode(run.Inputs)
	if err != nil {
		s.writeError(w, r, http.StatusUnprocessableEntity, err.Error())
		return
	}

	game, err := registry.CreateWithLevel(run.GameID, run.LevelID)
	if err != nil {
		s.writeError(w, r, http.StatusUnprocessableEntity, err.Error())
		return
	}

	cfg := core.DefaultConfig()
	cfg.Seed = run.Seed
	cfg.Difficulty = run.Difficulty
	out, err := replay.Verify(game, cfg, frames)
	if err != nil {
		s.writeError(w, r, http.StatusUnprocessableEntity, err.Error())
		return
	}

	res := verifyJSON{
		ID:      run.ID,
		Outcome: storage.OutcomeOf(out.State),
		Score:   out.State.Score,
		Frames:  out.State.Frames,
		Level:   out.Level,
		EndedAt: out.EndedAt,
		Inputs:  len(frames),
	}
	res.Recorded.Outcome = run.Outcome
	res.Recorded.Score = run.Score
	res.Recorded.Frames = run.Frames
	res.Matches = out.EndedOnLast(len(frames)) &&
		res.Outcome == run.Outcome && res.Score == run.Score
	s.writeJSON(w, http.StatusOK, res)
}
