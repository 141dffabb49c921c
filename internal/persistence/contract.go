// Package persistence loads and stores floor-plan markers through a narrow
// backend contract and turns backend change notifications into reloads.
package persistence

import (
	"context"
	"errors"
	"time"
)

// ErrMarkerNotFound reports that the spot behind a marker no longer exists.
// Backends must return an error wrapping it from WriteGeometry and
// ClearGeometry when the spot is missing.
var ErrMarkerNotFound = errors.New("marker target not found")

// FloorPlanRecord is what the backend knows about a floor plan. Width and
// Height are nil for legacy plans.
type FloorPlanRecord struct {
	ID       string
	Name     string
	ImageRef string
	Width    *int
	Height   *int
}

// SpotRecord is a stored spot with both current (pixel) and legacy
// (percentage) geometry fields.
type SpotRecord struct {
	ID              string
	FloorPlanID     string
	Name            string
	Status          string
	ExpiryDate      *time.Time
	NextPlannedDate *time.Time
	PreviewImage    string
	ShowOnMap       bool

	MarkerType     string
	MarkerX        *int
	MarkerY        *int
	MarkerX2       *int
	MarkerY2       *int
	MarkerWidth    *int
	MarkerHeight   *int
	MarkerRadius   *int
	MarkerRotation *int

	XPercent      *float64
	YPercent      *float64
	WidthPercent  *float64
	HeightPercent *float64
}

// Geometry is the integer geometry written for one marker. Only the fields
// of Type are set.
type Geometry struct {
	Type     string
	X, Y     int
	Rotation int
	Radius   *int
	Width    *int
	Height   *int
	X2, Y2   *int
}

// FloorPlanLookup resolves a floor plan.
type FloorPlanLookup interface {
	FloorPlan(ctx context.Context, id string) (FloorPlanRecord, error)
}

// MarkerQuery lists the spots currently shown on a floor plan.
type MarkerQuery interface {
	VisibleSpots(ctx context.Context, floorPlanID string) ([]SpotRecord, error)
}

// MarkerWriter writes one spot's geometry and sets it visible.
type MarkerWriter interface {
	WriteGeometry(ctx context.Context, spotID string, g Geometry) error
}

// MarkerClearer hides a spot and nulls its geometry.
type MarkerClearer interface {
	ClearGeometry(ctx context.Context, spotID string) error
}

// ChangeSubscriber signals that something changed on a floor plan. The
// returned cancel function stops delivery and closes the channel.
type ChangeSubscriber interface {
	SubscribeChanges(floorPlanID string) (<-chan struct{}, func(), error)
}

// Backend is the full storage contract.
type Backend interface {
	FloorPlanLookup
	MarkerQuery
	MarkerWriter
	MarkerClearer
}
