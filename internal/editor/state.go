// Package editor implements the floor-plan marker editor state machine.
//
// All state changes go through Reduce, which is a pure function of the current
// State and an Action. Side effects (persistence, navigation, audit) are
// returned as Effect values for the caller to execute.
package editor

import (
	"signage-planner/internal/marker"
	"signage-planner/pkg/geometry"
)

// Mode is the editor's interaction mode.
type Mode string

const (
	ModeView       Mode = "view"
	ModeSelect     Mode = "select"
	ModePlacePoint Mode = "place-point"
	ModePlaceArea  Mode = "place-area"
	ModePlaceLine  Mode = "place-line"
	ModeEdit       Mode = "edit"
)

// Placing reports whether m is one of the place-* modes.
func (m Mode) Placing() bool {
	return m == ModePlacePoint || m == ModePlaceArea || m == ModePlaceLine
}

// CanManipulate reports whether markers can be dragged or resized in m.
func (m Mode) CanManipulate() bool {
	return m == ModeSelect || m == ModeEdit
}

// Valid reports whether m is a known mode.
func (m Mode) Valid() bool {
	switch m {
	case ModeView, ModeSelect, ModePlacePoint, ModePlaceArea, ModePlaceLine, ModeEdit:
		return true
	}
	return false
}

// PlacementMode returns the place-* mode for a marker type.
func PlacementMode(t marker.Type) Mode {
	switch t {
	case marker.TypeArea:
		return ModePlaceArea
	case marker.TypeLine:
		return ModePlaceLine
	default:
		return ModePlacePoint
	}
}

// Default limits.
const (
	DefaultHistoryLimit = 50
	ZoomStep            = 1.5
	MaxZoom             = 20.0
)

// Placement is the spot that the next committed marker will belong to.
type Placement struct {
	Type     marker.Type
	SpotID   string
	SpotName string
	Status   marker.Status
}

// DragSession tracks an in-progress marker drag. Offset is the pointer
// position minus the marker center at grab time; every frame is computed
// from Original.
type DragSession struct {
	MarkerID string
	Offset   geometry.Point2D
	Original marker.Marker
	Current  marker.Marker
	Moved    bool
}

// ResizeSession tracks an in-progress resize. Original is the snapshot every
// Resize action is computed from.
type ResizeSession struct {
	Handle   marker.Handle
	Original marker.Marker
	Current  marker.Marker
	Moved    bool
}

// State is the editor's complete state for one floor plan.
type State struct {
	Mode      Mode
	ReadOnly  bool
	Selected  []string
	Draft     *marker.Marker
	Placement *Placement
	Drag      *DragSession
	Resize    *ResizeSession

	FloorPlan marker.FloorPlan
	Markers   []marker.Marker
	ViewBox   geometry.ViewBox

	History      []HistoryEntry
	HistoryIndex int
	HistoryLimit int

	// base is the marker set before the oldest retained history entry.
	base []marker.Marker
}

// NewState returns the initial state for a floor plan: view mode, no
// selection, and a viewbox showing the whole image.
func NewState(fp marker.FloorPlan, markers []marker.Marker) State {
	w, h := fp.Dimensions()
	return State{
		Mode:         ModeView,
		FloorPlan:    fp,
		Markers:      cloneMarkers(markers),
		ViewBox:      geometry.FitViewBox(w, h),
		HistoryLimit: DefaultHistoryLimit,
		base:         cloneMarkers(markers),
	}
}

// IsSelected reports whether the marker id is selected.
func (s State) IsSelected(id string) bool {
	for _, sel := range s.Selected {
		if sel == id {
			return true
		}
	}
	return false
}

// SelectedMarkers returns the selected markers in draw order.
func (s State) SelectedMarkers() []marker.Marker {
	var out []marker.Marker
	for _, m := range s.Markers {
		if s.IsSelected(m.ID) {
			out = append(out, m)
		}
	}
	return out
}

// RenderedMarkers returns the marker set with any live drag or resize
// geometry substituted for the committed geometry.
func (s State) RenderedMarkers() []marker.Marker {
	if s.Drag == nil && s.Resize == nil {
		return s.Markers
	}
	out := cloneMarkers(s.Markers)
	if s.Drag != nil {
		if i := marker.IndexOf(out, s.Drag.MarkerID); i >= 0 {
			out[i] = s.Drag.Current
		}
	}
	if s.Resize != nil {
		if i := marker.IndexOf(out, s.Resize.Original.ID); i >= 0 {
			out[i] = s.Resize.Current
		}
	}
	return out
}

// CanUndo reports whether an undo would change state.
func (s State) CanUndo() bool { return s.HistoryIndex > 0 }

// CanRedo reports whether a redo would change state.
func (s State) CanRedo() bool { return s.HistoryIndex < len(s.History) }

// ZoomLevel returns the ratio of image width to viewbox width.
func (s State) ZoomLevel() float64 {
	w, _ := s.FloorPlan.Dimensions()
	if s.ViewBox.Width <= 0 {
		return 1
	}
	return w / s.ViewBox.Width
}

func (s State) historyLimit() int {
	if s.HistoryLimit <= 0 {
		return DefaultHistoryLimit
	}
	return s.HistoryLimit
}

func cloneMarkers(in []marker.Marker) []marker.Marker {
	if in == nil {
		return nil
	}
	out := make([]marker.Marker, len(in))
	copy(out, in)
	return out
}

func cloneIDs(in []string) []string {
	if len(in) == 0 {
		return nil
	}
	out := make([]string, len(in))
	copy(out, in)
	return out
}
