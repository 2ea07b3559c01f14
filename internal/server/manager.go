package server

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"sort"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/colorwargame/colorwar/internal/common"
	"github.com/colorwargame/colorwar/internal/config"
	"github.com/colorwargame/colorwar/internal/game"
	"github.com/colorwargame/colorwar/internal/game/events"
	"github.com/colorwargame/colorwar/internal/sim"
)

var (
	// ErrServerFull means the match registry is at capacity.
	ErrServerFull = errors.New("match capacity reached")
	// ErrMatchNotFound means no live match carries the requested id.
	ErrMatchNotFound = errors.New("match not found")
)

// Match is one managed automated match.
type Match struct {
	id     string
	colors []common.Color

	// mu serializes engine access between the playout goroutine and
	// snapshot readers.
	mu       sync.Mutex
	engine   *game.Engine
	agent    sim.Agent
	phase    Phase
	created  time.Time
	finished time.Time
}

// MatchSummary is the list-endpoint view of a managed match.
type MatchSummary struct {
	ID      string      `json:"id"`
	Phase   string      `json:"phase"`
	Colors  []string    `json:"colors"`
	Turn    int         `json:"turn"`
	Status  game.Status `json:"status"`
	Created int64       `json:"created_at"`
}

// Manager owns the registry of automated matches: it starts them, steps
// them on a ticker, pushes frames to the hub, and expires finished ones.
type Manager struct {
	cfg      config.ServerConfig
	maxMoves int // per-match move budget before a match is abandoned
	hub      *Hub
	recorder events.Subscriber // optional archive recorder
	logger   zerolog.Logger

	mu      sync.RWMutex
	matches map[string]*Match

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// NewManager creates a manager. simCfg.MaxMoves bounds every match: random
// playouts frequently never converge, and an unbounded match would pin its
// goroutine and registry slot forever. recorder may be nil when archiving
// is off.
func NewManager(cfg config.ServerConfig, simCfg config.SimConfig, hub *Hub, recorder events.Subscriber, logger zerolog.Logger) *Manager {
	maxMoves := simCfg.MaxMoves
	if maxMoves <= 0 {
		maxMoves = sim.DefaultMaxMoves
	}
	ctx, cancel := context.WithCancel(context.Background())
	m := &Manager{
		cfg:      cfg,
		maxMoves: maxMoves,
		hub:      hub,
		recorder: recorder,
		logger:   logger.With().Str("component", "match_manager").Logger(),
		matches:  make(map[string]*Match),
		ctx:      ctx,
		cancel:   cancel,
	}
	m.wg.Add(1)
	go m.cleanupLoop()
	return m
}

// Stop cancels every playout and waits for the goroutines to drain.
func (m *Manager) Stop() {
	m.cancel()
	m.wg.Wait()
}

// StartMatch seats a new automated match and launches its playout.
// seed 0 means a time-seeded shuffle.
func (m *Manager) StartMatch(colors []common.Color, seed int64) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if len(m.matches) >= m.cfg.MaxMatches {
		return "", fmt.Errorf("%w: %d matches", ErrServerFull, len(m.matches))
	}

	var rng *rand.Rand
	if seed != 0 {
		rng = rand.New(rand.NewSource(seed))
	}
	bus := events.NewEventBus()
	if m.recorder != nil {
		bus.Subscribe(m.recorder)
	}

	engine, err := game.NewEngine(game.Config{
		Colors:   colors,
		Rng:      rng,
		EventBus: bus,
		Logger:   m.logger,
	})
	if err != nil {
		return "", err
	}

	match := &Match{
		id:      engine.MatchID(),
		colors:  append([]common.Color(nil), colors...),
		engine:  engine,
		agent:   sim.NewRandomAgent(rng),
		phase:   PhaseRunning,
		created: time.Now(),
	}
	m.matches[match.id] = match

	m.wg.Add(1)
	go m.run(match)

	m.logger.Info().
		Str("match_id", match.id).
		Int("players", len(colors)).
		Int64("seed", seed).
		Msg("Automated match started")
	return match.id, nil
}

// run steps one match on the configured interval until it concludes,
// decided or abandoned.
func (m *Manager) run(match *Match) {
	defer m.wg.Done()

	interval := time.Duration(m.cfg.MoveIntervalMs) * time.Millisecond
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-m.ctx.Done():
			return
		case <-ticker.C:
			if done := m.step(match); done {
				return
			}
		}
	}
}

// step applies one move and broadcasts the outcome. Returns true once the
// match is over.
func (m *Manager) step(match *Match) bool {
	match.mu.Lock()
	if match.engine.Status().Over {
		match.mu.Unlock()
		m.finish(match)
		return true
	}

	player := match.engine.CurrentPlayer()
	at, err := match.agent.PickMove(match.engine, player)
	if err != nil {
		match.mu.Unlock()
		m.logger.Error().Err(err).Str("match_id", match.id).Msg("Playout cannot continue")
		m.finish(match)
		return true
	}
	res, err := match.engine.ApplyMove(player, at)
	if err != nil {
		match.mu.Unlock()
		m.logger.Error().Err(err).Str("match_id", match.id).Msg("Playout move rejected")
		m.finish(match)
		return true
	}
	if !match.engine.Status().Over && match.engine.Turn() >= m.maxMoves {
		match.engine.Abandon(events.EndReasonUndecided)
		m.logger.Warn().
			Str("match_id", match.id).
			Int("moves", match.engine.Turn()).
			Msg("Move budget exhausted, match abandoned")
	}
	snapshot := match.engine.Snapshot()
	over := match.engine.Status().Over
	match.mu.Unlock()

	m.hub.Broadcast(match.id, "snapshot", snapshot)
	if len(res.Explosions) > 0 {
		m.hub.Broadcast(match.id, "cascade", map[string]interface{}{
			"player":     res.Player,
			"turn":       res.Turn,
			"explosions": res.Explosions,
		})
	}

	if over {
		m.finish(match)
		return true
	}
	return false
}

// finish moves the match out of Running. With a recorder attached the
// summary is already persisted by the time the ended event was published,
// so the match jumps straight through Finished to Archived.
func (m *Manager) finish(match *Match) {
	match.mu.Lock()
	if match.phase.CanTransitionTo(PhaseFinished) {
		match.phase = PhaseFinished
		match.finished = time.Now()
	}
	if m.recorder != nil && match.phase.CanTransitionTo(PhaseArchived) {
		match.phase = PhaseArchived
	}
	phase := match.phase
	winner := match.engine.Status().Winner
	match.mu.Unlock()

	m.logger.Info().
		Str("match_id", match.id).
		Stringer("phase", phase).
		Int("winner", winner).
		Msg("Match finished")
}

// cleanupLoop drops finished matches once their TTL has passed.
func (m *Manager) cleanupLoop() {
	defer m.wg.Done()

	ttl := time.Duration(m.cfg.FinishedTTLSeconds) * time.Second
	interval := ttl / 2
	if interval < time.Second {
		interval = time.Second
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-m.ctx.Done():
			return
		case <-ticker.C:
			m.expireFinished(ttl)
		}
	}
}

func (m *Manager) expireFinished(ttl time.Duration) {
	cutoff := time.Now().Add(-ttl)

	m.mu.Lock()
	defer m.mu.Unlock()
	for id, match := range m.matches {
		match.mu.Lock()
		expired := match.phase != PhaseRunning && match.finished.Before(cutoff)
		match.mu.Unlock()
		if expired {
			delete(m.matches, id)
			m.logger.Debug().Str("match_id", id).Msg("Finished match expired")
		}
	}
}

// List summarizes every managed match, newest first.
func (m *Manager) List() []MatchSummary {
	m.mu.RLock()
	matches := make([]*Match, 0, len(m.matches))
	for _, match := range m.matches {
		matches = append(matches, match)
	}
	m.mu.RUnlock()

	summaries := make([]MatchSummary, 0, len(matches))
	for _, match := range matches {
		match.mu.Lock()
		colors := make([]string, len(match.colors))
		for i, c := range match.colors {
			colors[i] = c.String()
		}
		summaries = append(summaries, MatchSummary{
			ID:      match.id,
			Phase:   match.phase.String(),
			Colors:  colors,
			Turn:    match.engine.Turn(),
			Status:  match.engine.Status(),
			Created: match.created.UnixMilli(),
		})
		match.mu.Unlock()
	}

	sort.Slice(summaries, func(i, j int) bool {
		return summaries[i].Created > summaries[j].Created
	})
	return summaries
}

// Snapshot returns the live state of one match and its phase.
func (m *Manager) Snapshot(id string) (game.Snapshot, Phase, error) {
	m.mu.RLock()
	match, ok := m.matches[id]
	m.mu.RUnlock()
	if !ok {
		return game.Snapshot{}, 0, fmt.Errorf("%w: %s", ErrMatchNotFound, id)
	}

	match.mu.Lock()
	defer match.mu.Unlock()
	return match.engine.Snapshot(), match.phase, nil
}

// Exists reports whether a live match carries the id.
func (m *Manager) Exists(id string) bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	_, ok := m.matches[id]
	return ok
}

// Count returns the number of managed matches.
func (m *Manager) Count() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.matches)
}
