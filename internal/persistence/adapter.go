package persistence

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"signage-planner/internal/marker"
)

// Adapter loads and stores markers for the editor.
type Adapter struct {
	backend Backend
	changes ChangeSubscriber
	log     zerolog.Logger
}

// New creates an adapter. changes may be nil when no notifications exist.
func New(backend Backend, changes ChangeSubscriber, log zerolog.Logger) *Adapter {
	return &Adapter{
		backend: backend,
		changes: changes,
		log:     log.With().Str("component", "persistence").Logger(),
	}
}

// LoadFloorPlan resolves a floor plan.
func (a *Adapter) LoadFloorPlan(ctx context.Context, id string) (marker.FloorPlan, error) {
	r, err := a.backend.FloorPlan(ctx, id)
	if err != nil {
		return marker.FloorPlan{}, fmt.Errorf("failed to load floor plan %s: %w", id, err)
	}
	return ToFloorPlan(r), nil
}

// LoadMarkers returns the visible markers of a floor plan. Records without
// position data are skipped.
func (a *Adapter) LoadMarkers(ctx context.Context, floorPlanID string) ([]marker.Marker, error) {
	fp, err := a.LoadFloorPlan(ctx, floorPlanID)
	if err != nil {
		return nil, err
	}
	records, err := a.backend.VisibleSpots(ctx, floorPlanID)
	if err != nil {
		return nil, fmt.Errorf("failed to load markers for %s: %w", floorPlanID, err)
	}

	markers, dropped := ToMarkers(records, fp)
	ev := a.log.Debug()
	if dropped > 0 {
		ev = a.log.Warn()
	}
	ev.Str("floorPlan", floorPlanID).
		Int("count", len(markers)).
		Int("dropped", dropped).
		Msg("Loaded markers")
	return markers, nil
}

// SaveMarker writes a marker's geometry, rounded to integer pixels, and marks
// its spot visible. A missing spot yields an error wrapping ErrMarkerNotFound.
func (a *Adapter) SaveMarker(ctx context.Context, m marker.Marker) error {
	if err := a.backend.WriteGeometry(ctx, m.ID, ToGeometry(m)); err != nil {
		a.log.Error().Err(err).Str("marker", m.ID).Msg("Failed to save marker")
		return fmt.Errorf("failed to save marker %s: %w", m.ID, err)
	}
	a.log.Debug().Str("marker", m.ID).Str("type", string(m.Type())).Msg("Saved marker")
	return nil
}

// DeleteMarker removes a marker from the map. The spot itself is kept.
func (a *Adapter) DeleteMarker(ctx context.Context, id string) error {
	if err := a.backend.ClearGeometry(ctx, id); err != nil {
		a.log.Error().Err(err).Str("marker", id).Msg("Failed to clear marker")
		return fmt.Errorf("failed to clear marker %s: %w", id, err)
	}
	a.log.Debug().Str("marker", id).Msg("Cleared marker")
	return nil
}

// Subscribe reloads the floor plan's markers on every change notification
// and hands the result to onChange until ctx is done. Notifications that
// arrive during a reload are coalesced into one more reload.
func (a *Adapter) Subscribe(ctx context.Context, floorPlanID string, onChange func([]marker.Marker, error)) error {
	if a.changes == nil {
		return nil
	}
	ch, cancel, err := a.changes.SubscribeChanges(floorPlanID)
	if err != nil {
		return fmt.Errorf("failed to subscribe to %s: %w", floorPlanID, err)
	}

	go func() {
		defer cancel()
		for {
			select {
			case <-ctx.Done():
				return
			case _, ok := <-ch:
				if !ok {
					return
				}
				drain(ch)
				a.log.Debug().Str("floorPlan", floorPlanID).Msg("Change notification, reloading")
				markers, err := a.LoadMarkers(ctx, floorPlanID)
				if ctx.Err() != nil {
					return
				}
				onChange(markers, err)
			}
		}
	}()
	return nil
}

func drain(ch <-chan struct{}) {
	for {
		select {
		case _, ok := <-ch:
			if !ok {
				return
			}
		default:
			return
		}
	}
}
