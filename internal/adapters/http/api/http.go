// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/okian/breakside/internal/domain/match"
	"github.com/okian/breakside/internal/domain/model"
	"github.com/okian/breakside/internal/domain/possession"
	"github.com/okian/breakside/internal/domain/stats"
	"github.com/okian/breakside/internal/domain/types"
)

// Dependencies required by HTTP handlers. Using an interface bundle keeps
// the handler layer loosely coupled to the service implementation.
type Dependencies interface {
	// Commands mutate the live match state.
	SelectLineup(ctx context.Context, names []string) error
	MarkLocation(ctx context.Context, c model.Coordinate) error
	SelectPlayer(ctx context.Context, name string) error
	DeclareTurnover(ctx context.Context, kind model.TurnoverKind, name string) error
	DeclareBlock(ctx context.Context, name string) error
	DeclareOpponentScore(ctx context.Context) error
	CorrectEvent(ctx context.Context, seq int, name string) error
	NextPoint(ctx context.Context) error
	EndMatch(ctx context.Context) error
	ResetMatch(ctx context.Context) error
	AdjustScore(ctx context.Context, team match.Team, delta int) error

	// Reads expose tracker state.
	LogEvents(ctx context.Context) []model.Event
	Possession(ctx context.Context) possession.View
	Score(ctx context.Context) types.ScoreView
	Players(ctx context.Context) []model.Player
	Stats(ctx context.Context, scope string) (stats.Result, error)
}

// Server wires HTTP routes for the tracker API.
type Server struct {
	commands *CommandsHandler
	views    *ViewsHandler
	health   *HealthHandler
}

// NewServer creates a new API server with all handlers.
func NewServer(deps Dependencies) *Server {
	return &Server{
		commands: NewCommandsHandler(deps),
		views:    NewViewsHandler(deps),
		health:   NewHealthHandler(),
	}
}

// Register attaches all HTTP routes to mux.
func (s *Server) Register(_ context.Context, mux *http.ServeMux) {
	mux.HandleFunc("/lineup", MetricsMiddleware(s.commands.HandleLineup, "lineup"))
	mux.HandleFunc("/location", MetricsMiddleware(s.commands.HandleLocation, "location"))
	mux.HandleFunc("/player", MetricsMiddleware(s.commands.HandlePlayer, "player"))
	mux.HandleFunc("/turnover", MetricsMiddleware(s.commands.HandleTurnover, "turnover"))
	mux.HandleFunc("/block", MetricsMiddleware(s.commands.HandleBlock, "block"))
	mux.HandleFunc("/opponent-score", MetricsMiddleware(s.commands.HandleOpponentScore, "opponent_score"))
	mux.HandleFunc("/point/next", MetricsMiddleware(s.commands.HandleNextPoint, "next_point"))
	mux.HandleFunc("/match/end", MetricsMiddleware(s.commands.HandleEndMatch, "end_match"))
	mux.HandleFunc("/match/reset", MetricsMiddleware(s.commands.HandleResetMatch, "reset_match"))
	mux.HandleFunc("/score/adjust", MetricsMiddleware(s.commands.HandleAdjustScore, "adjust_score"))
	mux.HandleFunc("/events/correct", MetricsMiddleware(s.commands.HandleCorrectEvent, "correct_event"))

	mux.HandleFunc("/log", MetricsMiddleware(s.views.HandleLog, "log"))
	mux.HandleFunc("/possession", MetricsMiddleware(s.views.HandlePossession, "possession"))
	mux.HandleFunc("/score", MetricsMiddleware(s.views.HandleScore, "score"))
	mux.HandleFunc("/stats", MetricsMiddleware(s.views.HandleStats, "stats"))
	mux.HandleFunc("/players", MetricsMiddleware(s.views.HandlePlayers, "players"))
	mux.HandleFunc("/healthz", MetricsMiddleware(s.health.HandleHealth, "healthz"))
}

type ackResponse struct {
	Status string `json:"status"`
}

type errorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code string, err error) {
	msg := http.StatusText(status)
	if err != nil {
		msg = err.Error()
	}
	writeJSON(w, status, errorResponse{Code: code, Message: msg})
}

// writeCommandError translates domain errors into status codes so every
// command handler maps failures the same way.
func writeCommandError(w http.ResponseWriter, err error) {
	status, code := classify(err)
	writeError(w, status, code, err)
}
