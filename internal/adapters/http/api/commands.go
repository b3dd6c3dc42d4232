// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/okian/breakside/internal/domain/match"
	"github.com/okian/breakside/internal/domain/model"
)

// CommandsHandler handles the mutating tracker endpoints.
type CommandsHandler struct {
	deps Dependencies
}

// NewCommandsHandler creates a new commands handler.
func NewCommandsHandler(deps Dependencies) *CommandsHandler {
	return &CommandsHandler{deps: deps}
}

type lineupRequest struct {
	Players []string `json:"players"`
}

func (l lineupRequest) validate() error {
	if len(l.Players) == 0 {
		return errors.New("missing players")
	}
	for _, p := range l.Players {
		if strings.TrimSpace(p) == "" {
			return errors.New("empty player name")
		}
	}
	return nil
}

type locationRequest struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

type playerRequest struct {
	Name string `json:"name"`
}

func (p playerRequest) validate() error {
	if strings.TrimSpace(p.Name) == "" {
		return errors.New("missing name")
	}
	return nil
}

type turnoverRequest struct {
	Kind   string `json:"kind"`
	Player string `json:"player"`
}

func (t turnoverRequest) validate() error {
	switch model.TurnoverKind(t.Kind) {
	case model.TurnoverNone, model.TurnoverThrowError, model.TurnoverReceiveError:
		return nil
	}
	return errors.New("invalid kind; must be throw-error or receive-error")
}

type adjustRequest struct {
	Team  string `json:"team"`
	Delta int    `json:"delta"`
}

func (a adjustRequest) validate() error {
	switch match.Team(a.Team) {
	case match.TeamHome, match.TeamAway:
	default:
		return errors.New("invalid team; must be home or away")
	}
	if a.Delta == 0 {
		return errors.New("delta must be non-zero")
	}
	return nil
}

type correctRequest struct {
	Seq    int    `json:"seq"`
	Player string `json:"player"`
}

func (c correctRequest) validate() error {
	switch {
	case c.Seq < 1:
		return errors.New("missing seq")
	case strings.TrimSpace(c.Player) == "":
		return errors.New("missing player")
	}
	return nil
}

// HandleLineup handles POST /lineup requests.
func (h *CommandsHandler) HandleLineup(w http.ResponseWriter, r *http.Request) {
	const op = "api.lineup"
	if r.Method != http.MethodPost {
		http.NotFound(w, r)
		return
	}
	var req lineupRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, err))
		return
	}
	if err := req.validate(); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, err))
		return
	}
	if err := h.deps.SelectLineup(r.Context(), req.Players); err != nil {
		writeCommandError(w, Wrap(op, err))
		return
	}
	writeJSON(w, http.StatusOK, ackResponse{Status: "accepted"})
}

// HandleLocation handles POST /location requests.
func (h *CommandsHandler) HandleLocation(w http.ResponseWriter, r *http.Request) {
	const op = "api.location"
	if r.Method != http.MethodPost {
		http.NotFound(w, r)
		return
	}
	var req locationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, err))
		return
	}
	if err := h.deps.MarkLocation(r.Context(), model.Coordinate{X: req.X, Y: req.Y}); err != nil {
		writeCommandError(w, Wrap(op, err))
		return
	}
	writeJSON(w, http.StatusOK, ackResponse{Status: "accepted"})
}

// HandlePlayer handles POST /player requests.
func (h *CommandsHandler) HandlePlayer(w http.ResponseWriter, r *http.Request) {
	const op = "api.player"
	if r.Method != http.MethodPost {
		http.NotFound(w, r)
		return
	}
	var req playerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, err))
		return
	}
	if err := req.validate(); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, err))
		return
	}
	if err := h.deps.SelectPlayer(r.Context(), req.Name); err != nil {
		writeCommandError(w, Wrap(op, err))
		return
	}
	writeJSON(w, http.StatusOK, ackResponse{Status: "accepted"})
}

// HandleTurnover handles POST /turnover requests.
func (h *CommandsHandler) HandleTurnover(w http.ResponseWriter, r *http.Request) {
	const op = "api.turnover"
	if r.Method != http.MethodPost {
		http.NotFound(w, r)
		return
	}
	var req turnoverRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, err))
		return
	}
	if err := req.validate(); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, err))
		return
	}
	if err := h.deps.DeclareTurnover(r.Context(), model.TurnoverKind(req.Kind), req.Player); err != nil {
		writeCommandError(w, Wrap(op, err))
		return
	}
	writeJSON(w, http.StatusOK, ackResponse{Status: "accepted"})
}

// HandleBlock handles POST /block requests.
func (h *CommandsHandler) HandleBlock(w http.ResponseWriter, r *http.Request) {
	const op = "api.block"
	if r.Method != http.MethodPost {
		http.NotFound(w, r)
		return
	}
	var req playerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, err))
		return
	}
	if err := req.validate(); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, err))
		return
	}
	if err := h.deps.DeclareBlock(r.Context(), req.Name); err != nil {
		writeCommandError(w, Wrap(op, err))
		return
	}
	writeJSON(w, http.StatusOK, ackResponse{Status: "accepted"})
}

// HandleOpponentScore handles POST /opponent-score requests.
func (h *CommandsHandler) HandleOpponentScore(w http.ResponseWriter, r *http.Request) {
	const op = "api.opponent_score"
	if r.Method != http.MethodPost {
		http.NotFound(w, r)
		return
	}
	if err := h.deps.DeclareOpponentScore(r.Context()); err != nil {
		writeCommandError(w, Wrap(op, err))
		return
	}
	writeJSON(w, http.StatusOK, ackResponse{Status: "accepted"})
}

// HandleNextPoint handles POST /point/next requests.
func (h *CommandsHandler) HandleNextPoint(w http.ResponseWriter, r *http.Request) {
	const op = "api.next_point"
	if r.Method != http.MethodPost {
		http.NotFound(w, r)
		return
	}
	if err := h.deps.NextPoint(r.Context()); err != nil {
		writeCommandError(w, Wrap(op, err))
		return
	}
	writeJSON(w, http.StatusOK, ackResponse{Status: "accepted"})
}

// HandleEndMatch handles POST /match/end requests.
func (h *CommandsHandler) HandleEndMatch(w http.ResponseWriter, r *http.Request) {
	const op = "api.end_match"
	if r.Method != http.MethodPost {
		http.NotFound(w, r)
		return
	}
	if err := h.deps.EndMatch(r.Context()); err != nil {
		writeCommandError(w, Wrap(op, err))
		return
	}
	writeJSON(w, http.StatusOK, ackResponse{Status: "accepted"})
}

// HandleResetMatch handles POST /match/reset requests.
func (h *CommandsHandler) HandleResetMatch(w http.ResponseWriter, r *http.Request) {
	const op = "api.reset_match"
	if r.Method != http.MethodPost {
		http.NotFound(w, r)
		return
	}
	if err := h.deps.ResetMatch(r.Context()); err != nil {
		writeCommandError(w, Wrap(op, err))
		return
	}
	writeJSON(w, http.StatusOK, ackResponse{Status: "accepted"})
}

// HandleAdjustScore handles POST /score/adjust requests.
func (h *CommandsHandler) HandleAdjustScore(w http.ResponseWriter, r *http.Request) {
	const op = "api.adjust_score"
	if r.Method != http.MethodPost {
		http.NotFound(w, r)
		return
	}
	var req adjustRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, err))
		return
	}
	if err := req.validate(); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, err))
		return
	}
	if err := h.deps.AdjustScore(r.Context(), match.Team(req.Team), req.Delta); err != nil {
		writeCommandError(w, Wrap(op, err))
		return
	}
	writeJSON(w, http.StatusOK, ackResponse{Status: "accepted"})
}

// HandleCorrectEvent handles POST /events/correct requests.
func (h *CommandsHandler) HandleCorrectEvent(w http.ResponseWriter, r *http.Request) {
	const op = "api.correct_event"
	if r.Method != http.MethodPost {
		http.NotFound(w, r)
		return
	}
	var req correctRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, err))
		return
	}
	if err := req.validate(); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, err))
		return
	}
	if err := h.deps.CorrectEvent(r.Context(), req.Seq, req.Player); err != nil {
		writeCommandError(w, Wrap(op, err))
		return
	}
	writeJSON(w, http.StatusOK, ackResponse{Status: "accepted"})
}
