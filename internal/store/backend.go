package store

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"gorm.io/gorm"

	"signage-planner/internal/persistence"
	"signage-planner/internal/pubsub"
)

// Backend implements the persistence contract over the repositories.
type Backend struct {
	FloorPlans *FloorPlanRepository
	Spots      *SpotRepository
	History    *HistoryRepository
	ps         *pubsub.PubSub
}

// NewBackend wires the repositories for db. Spot writes publish to ps.
func NewBackend(db *gorm.DB, ps *pubsub.PubSub) *Backend {
	return &Backend{
		FloorPlans: NewFloorPlanRepository(db),
		Spots:      NewSpotRepository(db, ps),
		History:    NewHistoryRepository(db),
		ps:         ps,
	}
}

var _ persistence.Backend = (*Backend)(nil)
var _ persistence.ChangeSubscriber = (*Backend)(nil)

// FloorPlan implements persistence.FloorPlanLookup.
func (b *Backend) FloorPlan(ctx context.Context, id string) (persistence.FloorPlanRecord, error) {
	plan, err := b.FloorPlans.FindByID(ctx, id)
	if err != nil {
		return persistence.FloorPlanRecord{}, err
	}
	return persistence.FloorPlanRecord{
		ID:       plan.ID,
		Name:     plan.Name,
		ImageRef: plan.ImageRef,
		Width:    plan.OriginalWidth,
		Height:   plan.OriginalHeight,
	}, nil
}

// VisibleSpots implements persistence.MarkerQuery.
func (b *Backend) VisibleSpots(ctx context.Context, floorPlanID string) ([]persistence.SpotRecord, error) {
	spots, err := b.Spots.FindVisibleByFloorPlanID(ctx, floorPlanID)
	if err != nil {
		return nil, err
	}
	records := make([]persistence.SpotRecord, len(spots))
	for i, s := range spots {
		records[i] = SpotRecord(s)
	}
	return records, nil
}

// WriteGeometry implements persistence.MarkerWriter. Columns of other shape
// types are nulled so a record carries one shape only.
func (b *Backend) WriteGeometry(ctx context.Context, spotID string, g persistence.Geometry) error {
	values := map[string]interface{}{
		"show_on_map":     true,
		"marker_type":     g.Type,
		"marker_x":        g.X,
		"marker_y":        g.Y,
		"marker_rotation": g.Rotation,
		"marker_radius":   nullable(g.Radius),
		"marker_width":    nullable(g.Width),
		"marker_height":   nullable(g.Height),
		"marker_x2":       nullable(g.X2),
		"marker_y2":       nullable(g.Y2),
	}
	return notFound(b.Spots.UpdateColumns(ctx, spotID, values))
}

// ClearGeometry implements persistence.MarkerClearer.
func (b *Backend) ClearGeometry(ctx context.Context, spotID string) error {
	return notFound(b.Spots.ClearPlacement(ctx, spotID))
}

// SubscribeChanges implements persistence.ChangeSubscriber.
func (b *Backend) SubscribeChanges(floorPlanID string) (<-chan struct{}, func(), error) {
	if b.ps == nil {
		return nil, nil, errors.New("change notifications not configured")
	}
	sub := b.ps.Subscribe(pubsub.TopicMarkersChanged, floorPlanID, 16)
	out := make(chan struct{}, 1)
	done := make(chan struct{})

	go func() {
		defer close(out)
		for {
			select {
			case <-done:
				return
			case _, ok := <-sub.Channel:
				if !ok {
					return
				}
				select {
				case out <- struct{}{}:
				default:
				}
			}
		}
	}()

	var once sync.Once
	cancel := func() {
		once.Do(func() {
			close(done)
			b.ps.Unsubscribe(sub)
		})
	}
	return out, cancel, nil
}

// SpotRecord converts a stored spot to the persistence record shape.
func SpotRecord(s SignageSpot) persistence.SpotRecord {
	r := persistence.SpotRecord{
		ID:              s.ID,
		FloorPlanID:     s.FloorPlanID,
		Name:            s.Name,
		Status:          s.Status,
		ExpiryDate:      s.ExpiryDate,
		NextPlannedDate: s.NextPlannedDate,
		ShowOnMap:       s.ShowOnMap,
		MarkerX:         s.MarkerX,
		MarkerY:         s.MarkerY,
		MarkerX2:        s.MarkerX2,
		MarkerY2:        s.MarkerY2,
		MarkerWidth:     s.MarkerWidth,
		MarkerHeight:    s.MarkerHeight,
		MarkerRadius:    s.MarkerRadius,
		MarkerRotation:  s.MarkerRotation,
		XPercent:        s.XPercent,
		YPercent:        s.YPercent,
		WidthPercent:    s.WidthPercent,
		HeightPercent:   s.HeightPercent,
	}
	if s.MarkerType != nil {
		r.MarkerType = *s.MarkerType
	}
	if s.PreviewImage != nil {
		r.PreviewImage = *s.PreviewImage
	}
	return r
}

func nullable(v *int) interface{} {
	if v == nil {
		return nil
	}
	return *v
}

func notFound(err error) error {
	if errors.Is(err, ErrNotFound) {
		return fmt.Errorf("%w: %v", persistence.ErrMarkerNotFound, err)
	}
	return err
}
