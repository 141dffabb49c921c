package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"signage-planner/internal/pubsub"
)

// Geometry columns cleared when a spot is removed from the map.
var geometryColumns = []string{
	"marker_type", "marker_x", "marker_y", "marker_x2", "marker_y2",
	"marker_width", "marker_height", "marker_radius", "marker_rotation",
	"x_percent", "y_percent", "width_percent", "height_percent",
}

// SpotRepository handles signage spot data access. Writes publish a
// TopicMarkersChanged notification filtered by floor plan.
type SpotRepository struct {
	db *gorm.DB
	ps *pubsub.PubSub
}

// NewSpotRepository creates a new SpotRepository. ps may be nil.
func NewSpotRepository(db *gorm.DB, ps *pubsub.PubSub) *SpotRepository {
	return &SpotRepository{db: db, ps: ps}
}

// FindByFloorPlanID returns all spots of a floor plan, placed or not.
func (r *SpotRepository) FindByFloorPlanID(ctx context.Context, floorPlanID string) ([]SignageSpot, error) {
	var spots []SignageSpot
	result := r.db.WithContext(ctx).
		Where("floor_plan_id = ?", floorPlanID).
		Order("name ASC").
		Find(&spots)
	return spots, result.Error
}

// FindVisibleByFloorPlanID returns the spots shown on the floor plan map in
// placement order.
func (r *SpotRepository) FindVisibleByFloorPlanID(ctx context.Context, floorPlanID string) ([]SignageSpot, error) {
	var spots []SignageSpot
	result := r.db.WithContext(ctx).
		Where("floor_plan_id = ? AND show_on_map = ?", floorPlanID, true).
		Order("updated_at ASC, id ASC").
		Find(&spots)
	return spots, result.Error
}

// FindByID returns a spot by ID, or ErrNotFound.
func (r *SpotRepository) FindByID(ctx context.Context, id string) (*SignageSpot, error) {
	var spot SignageSpot
	result := r.db.WithContext(ctx).First(&spot, "id = ?", id)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("spot %s: %w", id, ErrNotFound)
		}
		return nil, result.Error
	}
	return &spot, nil
}

// Create creates a new spot.
func (r *SpotRepository) Create(ctx context.Context, spot *SignageSpot) error {
	if spot.ID == "" {
		spot.ID = uuid.New().String()
	}
	if err := r.db.WithContext(ctx).Create(spot).Error; err != nil {
		return err
	}
	r.publish(spot.FloorPlanID, spot.ID)
	return nil
}

// UpdateColumns writes the given columns of a spot. It returns ErrNotFound
// when the spot does not exist.
func (r *SpotRepository) UpdateColumns(ctx context.Context, id string, values map[string]interface{}) error {
	spot, err := r.FindByID(ctx, id)
	if err != nil {
		return err
	}
	result := r.db.WithContext(ctx).
		Model(&SignageSpot{}).
		Where("id = ?", id).
		Updates(values)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return fmt.Errorf("spot %s: %w", id, ErrNotFound)
	}
	r.publish(spot.FloorPlanID, id)
	return nil
}

// ClearPlacement hides a spot from the map and nulls its geometry. The spot
// itself is kept.
func (r *SpotRepository) ClearPlacement(ctx context.Context, id string) error {
	values := map[string]interface{}{"show_on_map": false}
	for _, c := range geometryColumns {
		values[c] = nil
	}
	return r.UpdateColumns(ctx, id, values)
}

func (r *SpotRepository) publish(floorPlanID, spotID string) {
	if r.ps == nil {
		return
	}
	r.ps.PublishChange(pubsub.Change{FloorPlanID: floorPlanID, SpotID: spotID, Source: "store"})
}
