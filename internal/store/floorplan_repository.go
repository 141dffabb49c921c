package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// FloorPlanRepository handles floor plan data access.
type FloorPlanRepository struct {
	db *gorm.DB
}

// NewFloorPlanRepository creates a new FloorPlanRepository.
func NewFloorPlanRepository(db *gorm.DB) *FloorPlanRepository {
	return &FloorPlanRepository{db: db}
}

// FindAll returns all floor plans ordered by venue and level.
func (r *FloorPlanRepository) FindAll(ctx context.Context) ([]FloorPlan, error) {
	var plans []FloorPlan
	result := r.db.WithContext(ctx).
		Order("venue_id ASC, level ASC, name ASC").
		Find(&plans)
	return plans, result.Error
}

// FindByID returns a floor plan by ID, or ErrNotFound.
func (r *FloorPlanRepository) FindByID(ctx context.Context, id string) (*FloorPlan, error) {
	var plan FloorPlan
	result := r.db.WithContext(ctx).First(&plan, "id = ?", id)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("floor plan %s: %w", id, ErrNotFound)
		}
		return nil, result.Error
	}
	return &plan, nil
}

// Create creates a new floor plan.
func (r *FloorPlanRepository) Create(ctx context.Context, plan *FloorPlan) error {
	if plan.ID == "" {
		plan.ID = uuid.New().String()
	}
	return r.db.WithContext(ctx).Create(plan).Error
}

// SetDimensions records the true pixel size of a floor plan's image.
func (r *FloorPlanRepository) SetDimensions(ctx context.Context, id string, width, height int) error {
	result := r.db.WithContext(ctx).
		Model(&FloorPlan{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"original_width":  width,
			"original_height": height,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return fmt.Errorf("floor plan %s: %w", id, ErrNotFound)
	}
	return nil
}
