package editor

import "signage-planner/internal/marker"

// Effect is a side effect requested by the reducer.
type Effect interface {
	isEffect()
}

// SaveMarker persists a marker's geometry.
type SaveMarker struct {
	Marker marker.Marker
}

// ClearMarker removes a marker's placement from storage.
type ClearMarker struct {
	ID string
}

// OpenSpotEffect asks the host application to navigate to a spot.
type OpenSpotEffect struct {
	SpotID string
}

// RecordHistory appends a committed change to the audit log.
type RecordHistory struct {
	FloorPlanID string
	Entry       HistoryEntry
}

func (SaveMarker) isEffect()     {}
func (ClearMarker) isEffect()    {}
func (OpenSpotEffect) isEffect() {}
func (RecordHistory) isEffect()  {}
