package store

import (
	"time"

	"gorm.io/datatypes"
)

// FloorPlan represents one level of a venue.
// Table: floor_plans
type FloorPlan struct {
	ID             string    `gorm:"column:id;primaryKey"`
	VenueID        string    `gorm:"column:venue_id;index"`
	Name           string    `gorm:"column:name"`
	Level          int       `gorm:"column:level"`
	ImageRef       string    `gorm:"column:image_ref"`
	OriginalWidth  *int      `gorm:"column:original_width"`
	OriginalHeight *int      `gorm:"column:original_height"`
	CreatedAt      time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt      time.Time `gorm:"column:updated_at;autoUpdateTime"`
}

func (FloorPlan) TableName() string { return "floor_plans" }

// SignageSpot is a physical signage location. Its map placement is held in
// the marker_* pixel columns; older rows may only carry the *_percent
// columns (0-100 of the image size).
// Table: signage_spots
type SignageSpot struct {
	ID              string     `gorm:"column:id;primaryKey"`
	FloorPlanID     string     `gorm:"column:floor_plan_id;index"`
	Name            string     `gorm:"column:name"`
	Status          string     `gorm:"column:status;default:empty"`
	ExpiryDate      *time.Time `gorm:"column:expiry_date"`
	NextPlannedDate *time.Time `gorm:"column:next_planned_date"`
	PreviewImage    *string    `gorm:"column:preview_image"`
	ShowOnMap       bool       `gorm:"column:show_on_map;default:false"`

	MarkerType     *string `gorm:"column:marker_type"`
	MarkerX        *int    `gorm:"column:marker_x"`
	MarkerY        *int    `gorm:"column:marker_y"`
	MarkerX2       *int    `gorm:"column:marker_x2"`
	MarkerY2       *int    `gorm:"column:marker_y2"`
	MarkerWidth    *int    `gorm:"column:marker_width"`
	MarkerHeight   *int    `gorm:"column:marker_height"`
	MarkerRadius   *int    `gorm:"column:marker_radius"`
	MarkerRotation *int    `gorm:"column:marker_rotation"`

	XPercent      *float64 `gorm:"column:x_percent"`
	YPercent      *float64 `gorm:"column:y_percent"`
	WidthPercent  *float64 `gorm:"column:width_percent"`
	HeightPercent *float64 `gorm:"column:height_percent"`

	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time `gorm:"column:updated_at;autoUpdateTime"`
}

func (SignageSpot) TableName() string { return "signage_spots" }

// MarkerHistory is an append-only audit record of a committed editor change.
// Table: marker_history
type MarkerHistory struct {
	ID          string         `gorm:"column:id;primaryKey"`
	FloorPlanID string         `gorm:"column:floor_plan_id;index"`
	Kind        string         `gorm:"column:kind"`
	Markers     datatypes.JSON `gorm:"column:markers"`
	CreatedAt   time.Time      `gorm:"column:created_at;autoCreateTime"`
}

func (MarkerHistory) TableName() string { return "marker_history" }
