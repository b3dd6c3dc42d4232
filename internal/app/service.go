// Package app provides the core business service that implements the
// dependencies required by the HTTP API. All commands arrive from a
// single interactive actor; one mutex serializes them so the event log
// and possession state are never partially updated.
package app

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/okian/breakside/internal/adapters/mq/queue"
	"github.com/okian/breakside/internal/adapters/mq/worker"
	"github.com/okian/breakside/internal/domain/eventlog"
	"github.com/okian/breakside/internal/domain/field"
	"github.com/okian/breakside/internal/domain/match"
	"github.com/okian/breakside/internal/domain/model"
	"github.com/okian/breakside/internal/domain/possession"
	"github.com/okian/breakside/internal/domain/roster"
	"github.com/okian/breakside/internal/domain/stats"
	"github.com/okian/breakside/internal/domain/types"
	"github.com/okian/breakside/pkg/logger"
	"github.com/okian/breakside/pkg/metrics"
)

// Stats scopes.
const (
	ScopePoint = "point"
	ScopeMatch = "match"
)

const defaultTickInterval = time.Second

// Broadcaster pushes read-only state updates to rendering collaborators.
type Broadcaster interface {
	Broadcast(ctx context.Context, v any)
}

// holdRecorder feeds the aggregator and the hold-time histogram.
type holdRecorder struct {
	agg *match.Aggregator
}

func (h *holdRecorder) RecordHold(player string, seconds float64) {
	h.agg.RecordHold(player, seconds)
	metrics.RecordHoldSeconds(seconds)
}

// Service implements the tracker core behind the HTTP API.
type Service struct {
	mu sync.Mutex

	roster  *roster.Roster
	field   field.Field
	log     *eventlog.Log
	machine *possession.Machine
	agg     *match.Aggregator

	snapshots  queue.Queue
	pool       *worker.Pool
	sinks      []worker.Sink
	queueSize  int
	pubCount   int
	lineupSize int
	tickEvery  time.Duration

	broadcaster Broadcaster
	meta        model.MatchMeta

	pointStartedAt time.Time
	started        bool
	stopCh         chan struct{}

	logger logger.Logger
}

// Option applies a configuration option to the Service.
type Option func(*Service)

// WithLogger sets a custom logger for the service.
func WithLogger(l logger.Logger) Option {
	return func(s *Service) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithField sets the field geometry.
func WithField(f field.Field) Option {
	return func(s *Service) { s.field = f }
}

// WithLineupSize sets the players required on the line.
func WithLineupSize(n int) Option {
	return func(s *Service) {
		if n > 0 {
			s.lineupSize = n
		}
	}
}

// WithSnapshotQueueSize bounds the snapshot queue.
func WithSnapshotQueueSize(n int) Option {
	return func(s *Service) {
		if n > 0 {
			s.queueSize = n
		}
	}
}

// WithPublisherCount sets the snapshot publisher worker count.
func WithPublisherCount(n int) Option {
	return func(s *Service) {
		if n > 0 {
			s.pubCount = n
		}
	}
}

// WithSinks sets the snapshot delivery sinks.
func WithSinks(sinks ...worker.Sink) Option {
	return func(s *Service) { s.sinks = sinks }
}

// WithBroadcaster sets the live-state broadcaster.
func WithBroadcaster(b Broadcaster) Option {
	return func(s *Service) { s.broadcaster = b }
}

// WithMatchMeta attaches fixture metadata carried on every snapshot.
func WithMatchMeta(meta model.MatchMeta) Option {
	return func(s *Service) { s.meta = meta }
}

// WithTickInterval sets the point-clock refresh interval.
func WithTickInterval(d time.Duration) Option {
	return func(s *Service) {
		if d > 0 {
			s.tickEvery = d
		}
	}
}

// New constructs a Service for the given roster. Commands are valid
// immediately; Start only launches the snapshot pipeline and the ticker.
func New(r *roster.Roster, opts ...Option) *Service {
	s := &Service{
		roster:     r,
		field:      field.New(),
		queueSize:  1024,
		pubCount:   1,
		lineupSize: 7,
		tickEvery:  defaultTickInterval,
		stopCh:     make(chan struct{}),
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.logger == nil {
		s.logger = logger.Get().Named("tracker")
	}
	s.log = eventlog.New()
	s.agg = match.New(match.WithMeta(s.meta))
	s.machine = possession.New(s.log, s.field, &holdRecorder{agg: s.agg},
		possession.WithLineupSize(s.lineupSize))
	return s
}

// Start launches the snapshot pipeline and the point-clock ticker.
func (s *Service) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.started {
		return nil
	}

	s.snapshots = queue.NewInMemoryQueue(queue.WithCapacity(s.queueSize))
	s.pool = worker.NewPool(s.snapshots, s.sinks, worker.WithWorkerCount(s.pubCount))
	s.pool.Start(ctx)

	go s.runTicker()

	s.started = true
	s.logger.Info(ctx, "tracker service started",
		logger.Int("roster", s.roster.Len()),
		logger.Int("lineup_size", s.lineupSize),
		logger.Int("publishers", s.pubCount),
	)
	return nil
}

// Stop shuts the snapshot pipeline down.
func (s *Service) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.started {
		return
	}
	if q, ok := s.snapshots.(*queue.InMemoryQueue); ok {
		_ = q.Close()
	}
	s.pool.Stop()
	close(s.stopCh)
	s.started = false
	s.logger.Info(context.Background(), "tracker service stopped")
}

// SelectLineup activates the named roster players for the next point.
func (s *Service) SelectLineup(ctx context.Context, names []string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.agg.Ended() {
		return match.ErrMatchEnded
	}
	players := make([]model.Player, 0, len(names))
	for _, n := range names {
		p, err := s.roster.Lookup(n)
		if err != nil {
			return err
		}
		players = append(players, p)
	}
	if err := s.machine.SelectLineup(players); err != nil {
		metrics.RecordTransitionRejected("lineup")
		return err
	}
	s.logger.Info(ctx, "lineup selected", logger.Int("players", len(players)))
	s.publish(ctx)
	return nil
}

// MarkLocation feeds a field location to the machine. While in
// possession it is interpreted as a throw release toward that target.
func (s *Service) MarkLocation(ctx context.Context, c model.Coordinate) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.agg.Ended() {
		return match.ErrMatchEnded
	}

	if s.machine.State() == possession.StateInPossession {
		if err := s.machine.ReleaseThrow(c); err != nil {
			metrics.RecordTransitionRejected("location")
			return err
		}
		s.publish(ctx)
		return nil
	}

	e, err := s.machine.MarkLocation(c)
	if err != nil {
		metrics.RecordTransitionRejected("location")
		return err
	}
	s.observe(ctx, e)
	s.publish(ctx)
	return nil
}

// SelectPlayer routes a player selection (pickup attribution, completion
// attribution, or pending-throw cancel).
func (s *Service) SelectPlayer(ctx context.Context, name string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.agg.Ended() {
		return match.ErrMatchEnded
	}
	e, err := s.machine.SelectPlayer(name)
	if err != nil {
		metrics.RecordTransitionRejected("player")
		return err
	}
	s.observe(ctx, e)
	s.publish(ctx)
	return nil
}

// DeclareTurnover records a loss of possession.
func (s *Service) DeclareTurnover(ctx context.Context, kind model.TurnoverKind, name string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.agg.Ended() {
		return match.ErrMatchEnded
	}
	e, err := s.machine.DeclareTurnover(kind, name)
	if err != nil {
		metrics.RecordTransitionRejected("turnover")
		return err
	}
	s.observe(ctx, e)
	s.publish(ctx)
	return nil
}

// DeclareBlock records a defensive block.
func (s *Service) DeclareBlock(ctx context.Context, name string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.agg.Ended() {
		return match.ErrMatchEnded
	}
	e, err := s.machine.DeclareBlock(name)
	if err != nil {
		metrics.RecordTransitionRejected("block")
		return err
	}
	s.observe(ctx, e)
	s.publish(ctx)
	return nil
}

// DeclareOpponentScore ends the point with the opposing team scoring.
func (s *Service) DeclareOpponentScore(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.agg.Ended() {
		return match.ErrMatchEnded
	}
	e, err := s.machine.DeclareOpponentScore()
	if err != nil {
		metrics.RecordTransitionRejected("opponent_score")
		return err
	}
	s.observe(ctx, e)
	s.publish(ctx)
	return nil
}

// CorrectEvent reattributes a past event of the open point.
func (s *Service) CorrectEvent(ctx context.Context, seq int, name string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.agg.Ended() {
		return match.ErrMatchEnded
	}
	c, err := s.machine.CorrectPlayer(seq, name)
	if err != nil {
		metrics.RecordTransitionRejected("correct")
		return err
	}
	metrics.RecordCorrection()
	if !c.WasLast && !c.RewroteNext {
		// Correction applied, but no dependent thrower reference was found
		// to rewrite.
		s.logger.Warn(ctx, "correction left no thrower reference to rewrite",
			logger.Int("seq", seq),
			logger.String("old", c.OldPlayer),
			logger.String("new", name),
		)
	}
	s.publish(ctx)
	return nil
}

// NextPoint archives the closed point and resets the live state for the
// next one.
func (s *Service) NextPoint(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.agg.Ended() {
		return match.ErrMatchEnded
	}
	if !s.log.Closed() {
		metrics.RecordTransitionRejected("next_point")
		return fmt.Errorf("app.next_point: point still open: %w", possession.ErrIllegalTransition)
	}
	p, err := s.agg.ClosePoint(s.log.Events())
	if err != nil {
		return err
	}
	metrics.RecordPointClosed()
	s.machine.ResetPoint()
	s.pointStartedAt = time.Time{}
	metrics.UpdatePointElapsed(0)
	s.logger.Info(ctx, "point archived",
		logger.String("point", p.ID),
		logger.Int("events", len(p.Events)),
		logger.Int("home", s.agg.Home()),
		logger.Int("away", s.agg.Away()),
	)
	s.enqueueSnapshot(ctx)
	s.publish(ctx)
	return nil
}

// EndMatch archives the in-progress point and freezes the match.
func (s *Service) EndMatch(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.agg.EndMatch(s.log.Events()); err != nil {
		return err
	}
	s.machine.ResetPoint()
	s.pointStartedAt = time.Time{}
	metrics.UpdatePointElapsed(0)
	s.logger.Info(ctx, "match ended",
		logger.Int("home", s.agg.Home()),
		logger.Int("away", s.agg.Away()),
		logger.Int("points", len(s.agg.Points())),
	)
	s.enqueueSnapshot(ctx)
	s.publish(ctx)
	return nil
}

// ResetMatch clears the full match state back to a cold start.
func (s *Service) ResetMatch(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.agg.ResetMatch()
	s.machine.ResetMatch()
	s.pointStartedAt = time.Time{}
	metrics.UpdateScore(0, 0)
	metrics.UpdatePointElapsed(0)
	s.logger.Info(ctx, "match reset")
	s.publish(ctx)
	return nil
}

// AdjustScore applies a manual score override. The override only moves
// the counters; the event log and statistics never see it.
func (s *Service) AdjustScore(ctx context.Context, team match.Team, delta int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.agg.Adjust(team, delta); err != nil {
		return err
	}
	metrics.UpdateScore(s.agg.Home(), s.agg.Away())
	s.logger.Info(ctx, "score adjusted",
		logger.String("team", string(team)),
		logger.Int("delta", delta),
	)
	s.enqueueSnapshot(ctx)
	s.publish(ctx)
	return nil
}

// LogEvents returns the open point's events.
func (s *Service) LogEvents(_ context.Context) []model.Event {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.log.Events()
}

// Possession returns the live possession view.
func (s *Service) Possession(_ context.Context) possession.View {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.machine.Snapshot()
}

// Score returns the current score counters.
func (s *Service) Score(_ context.Context) types.ScoreView {
	s.mu.Lock()
	defer s.mu.Unlock()
	return types.ScoreView{Home: s.agg.Home(), Away: s.agg.Away(), Ended: s.agg.Ended()}
}

// Players returns the roster.
func (s *Service) Players(_ context.Context) []model.Player {
	return s.roster.Players()
}

// Stats recomputes statistics from the authoritative event list. Scope is
// ScopePoint (open point only) or ScopeMatch (archived plus open).
func (s *Service) Stats(_ context.Context, scope string) (stats.Result, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	switch scope {
	case ScopePoint:
		return stats.Compute(s.log.Events(), s.agg.PointHolds()), nil
	case "", ScopeMatch:
		return stats.Compute(s.agg.AllEvents(s.log.Events()), s.agg.Holds()), nil
	default:
		return stats.Result{}, fmt.Errorf("app.stats: unknown scope %q", scope)
	}
}

// observe reacts to an appended event: metrics, score counters, and the
// point clock.
func (s *Service) observe(ctx context.Context, e *model.Event) {
	if e == nil {
		return
	}
	metrics.RecordEventAppended(string(e.Type))
	if e.Type.Catch() {
		metrics.RecordPassDistance(e.DistanceM)
	}
	if s.pointStartedAt.IsZero() {
		s.pointStartedAt = time.Now()
	}
	if e.Type.Terminal() {
		_ = s.agg.ScoreFor(e.Type)
		metrics.UpdateScore(s.agg.Home(), s.agg.Away())
		s.logger.Info(ctx, "point closed",
			logger.String("by", e.Player),
			logger.Int("home", s.agg.Home()),
			logger.Int("away", s.agg.Away()),
		)
		s.enqueueSnapshot(ctx)
	}
	s.logger.Debug(ctx, "event appended",
		logger.Int("seq", e.Seq),
		logger.String("type", string(e.Type)),
		logger.String("player", e.Player),
	)
}

// enqueueSnapshot hands the current match state to the publisher pipeline.
// Fire-and-forget: a full queue drops the snapshot.
func (s *Service) enqueueSnapshot(ctx context.Context) {
	if s.snapshots == nil {
		return
	}
	snap := s.agg.Snapshot(s.log.Events())
	if !s.snapshots.Enqueue(ctx, snap) {
		s.logger.Warn(ctx, "snapshot queue full, dropping snapshot",
			logger.String("snapshot", snap.ID))
	}
}

// publish pushes the live view to rendering collaborators.
func (s *Service) publish(ctx context.Context) {
	if s.broadcaster == nil {
		return
	}
	s.broadcaster.Broadcast(ctx, types.LiveUpdate{
		Possession: s.machine.Snapshot(),
		Score:      types.ScoreView{Home: s.agg.Home(), Away: s.agg.Away(), Ended: s.agg.Ended()},
		Events:     s.log.Events(),
	})
}

// runTicker refreshes the point-elapsed gauge. The tick is suspended
// while a throw awaits attribution so dialog latency never shows up in
// the displayed clock.
func (s *Service) runTicker() {
	ticker := time.NewTicker(s.tickEvery)
	defer ticker.Stop()
	for {
		select {
		case <-s.stopCh:
			return
		case <-ticker.C:
			s.mu.Lock()
			suspended := s.machine.State() == possession.StateAwaitingThrow
			started := s.pointStartedAt
			s.mu.Unlock()
			if suspended || started.IsZero() {
				continue
			}
			metrics.UpdatePointElapsed(time.Since(started).Seconds())
		}
	}
}
