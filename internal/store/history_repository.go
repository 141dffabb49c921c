package store

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// HistoryRepository appends and reads the marker change audit log.
type HistoryRepository struct {
	db *gorm.DB
}

// NewHistoryRepository creates a new HistoryRepository.
func NewHistoryRepository(db *gorm.DB) *HistoryRepository {
	return &HistoryRepository{db: db}
}

// Append records one committed change. markers is stored as JSON.
func (r *HistoryRepository) Append(ctx context.Context, floorPlanID, kind string, markers interface{}) (*MarkerHistory, error) {
	data, err := json.Marshal(markers)
	if err != nil {
		return nil, fmt.Errorf("failed to encode history markers: %w", err)
	}
	entry := &MarkerHistory{
		ID:          uuid.New().String(),
		FloorPlanID: floorPlanID,
		Kind:        kind,
		Markers:     datatypes.JSON(data),
	}
	if err := r.db.WithContext(ctx).Create(entry).Error; err != nil {
		return nil, err
	}
	return entry, nil
}

// FindByFloorPlanID returns the newest entries first, at most limit when
// limit is positive.
func (r *HistoryRepository) FindByFloorPlanID(ctx context.Context, floorPlanID string, limit int) ([]MarkerHistory, error) {
	var entries []MarkerHistory
	q := r.db.WithContext(ctx).
		Where("floor_plan_id = ?", floorPlanID).
		Order("created_at DESC, id DESC")
	if limit > 0 {
		q = q.Limit(limit)
	}
	result := q.Find(&entries)
	return entries, result.Error
}
