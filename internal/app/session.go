package app

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"signage-planner/internal/editor"
	"signage-planner/internal/marker"
	"signage-planner/internal/persistence"
	"signage-planner/internal/store"
)

// DefaultEffectTimeout bounds each storage call made for an effect.
const DefaultEffectTimeout = 10 * time.Second

// HistoryLog receives committed history entries.
type HistoryLog interface {
	Append(ctx context.Context, floorPlanID, kind string, markers interface{}) (*store.MarkerHistory, error)
}

// SessionConfig configures a session.
type SessionConfig struct {
	FloorPlanID   string
	ReadOnly      bool
	HistoryLimit  int
	EffectTimeout time.Duration
}

// HistoryMarker is the audit-log encoding of a marker.
type HistoryMarker struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Type     string `json:"type"`
	X        int    `json:"x"`
	Y        int    `json:"y"`
	Rotation int    `json:"rotation"`
	Radius   *int   `json:"radius,omitempty"`
	Width    *int   `json:"width,omitempty"`
	Height   *int   `json:"height,omitempty"`
	X2       *int   `json:"x2,omitempty"`
	Y2       *int   `json:"y2,omitempty"`
}

// Session is one opened floor plan: the editor store plus the goroutines
// that execute its effects and follow remote changes.
type Session struct {
	cfg     SessionConfig
	store   *editor.Store
	adapter *persistence.Adapter
	history HistoryLog
	events  *Events
	log     zerolog.Logger

	cancel context.CancelFunc

	mu     sync.Mutex
	closed bool
	jobs   chan func(context.Context)
	worker sync.WaitGroup

	// pending counts queued jobs not yet finished; idle is signalled
	// when it drops to zero.
	pendingMu sync.Mutex
	pending   int
	idle      *sync.Cond
}

// OpenSession loads the floor plan and its markers and starts following
// change notifications. history may be nil.
func OpenSession(ctx context.Context, cfg SessionConfig, adapter *persistence.Adapter, history HistoryLog, log zerolog.Logger) (*Session, error) {
	if cfg.EffectTimeout <= 0 {
		cfg.EffectTimeout = DefaultEffectTimeout
	}
	log = log.With().Str("component", "session").Str("floorPlan", cfg.FloorPlanID).Logger()

	fp, err := adapter.LoadFloorPlan(ctx, cfg.FloorPlanID)
	if err != nil {
		return nil, err
	}
	markers, err := adapter.LoadMarkers(ctx, cfg.FloorPlanID)
	if err != nil {
		return nil, err
	}

	state := editor.NewState(fp, markers)
	state.ReadOnly = cfg.ReadOnly
	if cfg.HistoryLimit > 0 {
		state.HistoryLimit = cfg.HistoryLimit
	}

	sctx, cancel := context.WithCancel(context.Background())
	s := &Session{
		cfg:     cfg,
		store:   editor.NewStore(state),
		adapter: adapter,
		history: history,
		events:  NewEvents(),
		log:     log,
		cancel:  cancel,
		jobs:    make(chan func(context.Context), 64),
	}
	s.idle = sync.NewCond(&s.pendingMu)
	s.store.OnEffect(s.handleEffects)

	s.worker.Add(1)
	go s.runJobs()

	if err := adapter.Subscribe(sctx, cfg.FloorPlanID, s.onReload); err != nil {
		s.Close()
		return nil, err
	}

	log.Info().Int("markers", len(markers)).Bool("readOnly", cfg.ReadOnly).Msg("Session opened")
	return s, nil
}

// Store returns the editor store.
func (s *Session) Store() *editor.Store { return s.store }

// Events returns the session event bus.
func (s *Session) Events() *Events { return s.events }

// FloorPlanID returns the opened floor plan.
func (s *Session) FloorPlanID() string { return s.cfg.FloorPlanID }

// Dispatch forwards an action to the store.
func (s *Session) Dispatch(a editor.Action) []editor.Effect {
	return s.store.Dispatch(a)
}

// Reload re-queries the markers and dispatches them to the store.
func (s *Session) Reload(ctx context.Context) error {
	markers, err := s.adapter.LoadMarkers(ctx, s.cfg.FloorPlanID)
	s.onReload(markers, err)
	return err
}

// Flush blocks until the effect queue is empty. It may be called while
// other goroutines keep queueing.
func (s *Session) Flush() {
	s.pendingMu.Lock()
	for s.pending > 0 {
		s.idle.Wait()
	}
	s.pendingMu.Unlock()
}

// Close stops following changes and waits for queued effects. Effects
// produced after Close are dropped.
func (s *Session) Close() {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}
	s.closed = true
	s.cancel()
	close(s.jobs)
	s.mu.Unlock()

	s.worker.Wait()
	s.log.Info().Msg("Session closed")
}

func (s *Session) onReload(markers []marker.Marker, err error) {
	if err != nil {
		s.log.Warn().Err(err).Msg("Reload failed")
		s.events.Emit(EventLoadFailed, MarkerError{Err: err})
		return
	}
	s.store.Dispatch(editor.MarkersLoaded{Markers: markers})
	s.events.Emit(EventMarkersLoaded, len(markers))
}

// handleEffects queues storage effects for the single worker, so writes
// reach storage in the order they were produced. Navigation is emitted
// immediately.
func (s *Session) handleEffects(effects []editor.Effect) {
	for _, eff := range effects {
		switch e := eff.(type) {
		case editor.SaveMarker:
			m := e.Marker
			s.enqueue(func(ctx context.Context) {
				if err := s.adapter.SaveMarker(ctx, m); err != nil {
					s.events.Emit(EventSaveFailed, MarkerError{MarkerID: m.ID, Err: err})
				}
			})
		case editor.ClearMarker:
			id := e.ID
			s.enqueue(func(ctx context.Context) {
				if err := s.adapter.DeleteMarker(ctx, id); err != nil {
					s.events.Emit(EventDeleteFailed, MarkerError{MarkerID: id, Err: err})
				}
			})
		case editor.RecordHistory:
			if s.history == nil {
				continue
			}
			fpID, entry := e.FloorPlanID, e.Entry
			s.enqueue(func(ctx context.Context) {
				if _, err := s.history.Append(ctx, fpID, string(entry.Kind), HistoryMarkers(entry.Markers)); err != nil {
					s.log.Warn().Err(err).Str("kind", string(entry.Kind)).Msg("Failed to record history")
					s.events.Emit(EventHistoryFailed, MarkerError{Err: err})
				}
			})
		case editor.OpenSpotEffect:
			s.events.Emit(EventOpenSpot, e.SpotID)
		default:
			s.log.Warn().Str("effect", fmt.Sprintf("%T", eff)).Msg("Unhandled effect")
		}
	}
}

func (s *Session) enqueue(job func(context.Context)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		s.log.Warn().Msg("Effect dropped after close")
		return
	}
	s.pendingMu.Lock()
	s.pending++
	s.pendingMu.Unlock()
	s.jobs <- job
}

func (s *Session) runJobs() {
	defer s.worker.Done()
	for job := range s.jobs {
		ctx, cancel := context.WithTimeout(context.Background(), s.cfg.EffectTimeout)
		job(ctx)
		cancel()

		s.pendingMu.Lock()
		s.pending--
		if s.pending == 0 {
			s.idle.Broadcast()
		}
		s.pendingMu.Unlock()
	}
}

// HistoryMarkers converts markers to their audit-log encoding.
func HistoryMarkers(markers []marker.Marker) []HistoryMarker {
	out := make([]HistoryMarker, len(markers))
	for i, m := range markers {
		g := persistence.ToGeometry(m)
		out[i] = HistoryMarker{
			ID:       m.ID,
			Name:     m.Name,
			Type:     g.Type,
			X:        g.X,
			Y:        g.Y,
			Rotation: g.Rotation,
			Radius:   g.Radius,
			Width:    g.Width,
			Height:   g.Height,
			X2:       g.X2,
			Y2:       g.Y2,
		}
	}
	return out
}
