package editor

import (
	"signage-planner/internal/marker"
	"signage-planner/pkg/geometry"
)

// Action is a request to change editor state. The set of actions is closed.
type Action interface {
	isAction()
}

// SetMode switches the interaction mode.
type SetMode struct {
	Mode Mode
}

// StartPlacement begins placing a marker of Type for a signage spot.
type StartPlacement struct {
	Type     marker.Type
	SpotID   string
	SpotName string
	Status   marker.Status
}

// SetDraftMarker replaces the in-progress draft geometry.
type SetDraftMarker struct {
	Marker marker.Marker
}

// CommitDraftMarker finalizes the current placement with Marker's geometry.
type CommitDraftMarker struct {
	Marker marker.Marker
}

// CancelDraft discards the draft and the placement context.
type CancelDraft struct{}

// SelectMarker selects a marker. Multi toggles membership instead of
// replacing the selection.
type SelectMarker struct {
	ID    string
	Multi bool
}

// DeselectAll clears the selection.
type DeselectAll struct{}

// OpenSpot asks the host to show the spot linked to a marker.
type OpenSpot struct {
	ID string
}

// StartDrag grabs a marker at pointer position (X, Y).
type StartDrag struct {
	X, Y     float64
	MarkerID string
}

// Drag moves the grabbed marker so it keeps its grab offset from the pointer.
type Drag struct {
	X, Y float64
}

// EndDrag finishes the drag and commits the final geometry.
type EndDrag struct{}

// StartResize grabs a resize handle of a marker.
type StartResize struct {
	Handle   marker.Handle
	MarkerID string
}

// Resize recomputes the resized geometry for pointer position (X, Y).
type Resize struct {
	X, Y float64
}

// EndResize finishes the resize and commits the final geometry.
type EndResize struct{}

// Undo steps back one history entry.
type Undo struct{}

// Redo steps forward one history entry.
type Redo struct{}

// ZoomIn zooms by ZoomStep around Center, or the view center when nil.
type ZoomIn struct {
	Center *geometry.Point2D
}

// ZoomOut zooms by 1/ZoomStep around Center, or the view center when nil.
type ZoomOut struct {
	Center *geometry.Point2D
}

// ZoomBy zooms by an arbitrary factor, as the mouse wheel does.
type ZoomBy struct {
	Factor float64
	Center *geometry.Point2D
}

// SetViewBox replaces the viewbox.
type SetViewBox struct {
	ViewBox geometry.ViewBox
}

// PanBy shifts the viewbox by a canvas-pixel pointer delta.
type PanBy struct {
	DX, DY float64
}

// ResetView fits the whole floor plan.
type ResetView struct{}

// MarkersLoaded replaces the marker set with authoritative data.
type MarkersLoaded struct {
	Markers []marker.Marker
}

// DeleteMarkers removes markers from the plan. Empty IDs means the selection.
type DeleteMarkers struct {
	IDs []string
}

// UpdateMarker replaces a marker's editable properties. The marker type
// cannot change.
type UpdateMarker struct {
	Marker marker.Marker
}

func (SetMode) isAction()           {}
func (StartPlacement) isAction()    {}
func (SetDraftMarker) isAction()    {}
func (CommitDraftMarker) isAction() {}
func (CancelDraft) isAction()       {}
func (SelectMarker) isAction()      {}
func (DeselectAll) isAction()       {}
func (OpenSpot) isAction()          {}
func (StartDrag) isAction()         {}
func (Drag) isAction()              {}
func (EndDrag) isAction()           {}
func (StartResize) isAction()       {}
func (Resize) isAction()            {}
func (EndResize) isAction()         {}
func (Undo) isAction()              {}
func (Redo) isAction()              {}
func (ZoomIn) isAction()            {}
func (ZoomOut) isAction()           {}
func (ZoomBy) isAction()            {}
func (SetViewBox) isAction()        {}
func (PanBy) isAction()             {}
func (ResetView) isAction()         {}
func (MarkersLoaded) isAction()     {}
func (DeleteMarkers) isAction()     {}
func (UpdateMarker) isAction()      {}
