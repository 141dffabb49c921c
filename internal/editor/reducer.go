package editor

import (
	"time"

	"signage-planner/internal/marker"
	"signage-planner/pkg/geometry"
)

// Reduce applies a to s using the current time for history timestamps.
func Reduce(s State, a Action) (State, []Effect) {
	return ReduceAt(s, a, time.Now())
}

// ReduceAt applies a to s. It never mutates s; actions that do not apply in
// the current state return s unchanged and no effects.
func ReduceAt(s State, a Action, now time.Time) (State, []Effect) {
	switch a := a.(type) {
	case SetMode:
		return setMode(s, a.Mode), nil

	case StartPlacement:
		if s.ReadOnly || a.SpotID == "" || a.SpotName == "" || !a.Type.Valid() {
			return s, nil
		}
		s.Mode = PlacementMode(a.Type)
		s.Selected = nil
		s.Draft = nil
		s.Drag = nil
		s.Resize = nil
		s.Placement = &Placement{Type: a.Type, SpotID: a.SpotID, SpotName: a.SpotName, Status: a.Status}
		return s, nil

	case SetDraftMarker:
		m, ok := placed(s, a.Marker)
		if !ok {
			return s, nil
		}
		s.Draft = &m
		return s, nil

	case CommitDraftMarker:
		return commitDraft(s, a.Marker, now)

	case CancelDraft:
		s.Draft = nil
		s.Placement = nil
		s.Selected = nil
		s.Mode = ModeView
		return s, nil

	case SelectMarker:
		return selectMarker(s, a), nil

	case DeselectAll:
		s.Selected = nil
		s.Draft = nil
		s.Placement = nil
		s.Mode = ModeView
		return s, nil

	case OpenSpot:
		m, ok := marker.Find(s.Markers, a.ID)
		if !ok {
			return s, nil
		}
		return s, []Effect{OpenSpotEffect{SpotID: m.SpotID}}

	case StartDrag:
		if s.ReadOnly || s.Resize != nil || !s.Mode.CanManipulate() {
			return s, nil
		}
		m, ok := marker.Find(s.Markers, a.MarkerID)
		if !ok {
			return s, nil
		}
		pointer := geometry.NewPoint2D(a.X, a.Y)
		s.Drag = &DragSession{MarkerID: m.ID, Offset: pointer.Sub(m.Center()), Original: m, Current: m}
		if !s.IsSelected(m.ID) {
			s.Selected = []string{m.ID}
		}
		return s, nil

	case Drag:
		if s.Drag == nil {
			return s, nil
		}
		d := *s.Drag
		center := geometry.NewPoint2D(a.X, a.Y).Sub(d.Offset)
		d.Current = marker.MoveTo(d.Original, center, s.FloorPlan)
		d.Moved = true
		s.Drag = &d
		return s, nil

	case EndDrag:
		if s.Drag == nil {
			return s, nil
		}
		d := *s.Drag
		s.Drag = nil
		if !d.Moved {
			return s, nil
		}
		return commitUpdate(s, d.Current, now)

	case StartResize:
		if s.ReadOnly || s.Drag != nil || !s.Mode.CanManipulate() {
			return s, nil
		}
		m, ok := marker.Find(s.Markers, a.MarkerID)
		if !ok || !handleFits(a.Handle, m) {
			return s, nil
		}
		s.Resize = &ResizeSession{Handle: a.Handle, Original: m, Current: m}
		return s, nil

	case Resize:
		if s.Resize == nil {
			return s, nil
		}
		r := *s.Resize
		r.Current = marker.ResizeFrom(r.Original, r.Handle, geometry.NewPoint2D(a.X, a.Y), s.FloorPlan)
		r.Moved = true
		s.Resize = &r
		return s, nil

	case EndResize:
		if s.Resize == nil {
			return s, nil
		}
		r := *s.Resize
		s.Resize = nil
		if !r.Moved {
			return s, nil
		}
		return commitUpdate(s, r.Current, now)

	case Undo:
		if s.ReadOnly || !s.CanUndo() {
			return s, nil
		}
		s.HistoryIndex--
		return restore(s, s.snapshotAt(s.HistoryIndex))

	case Redo:
		if s.ReadOnly || !s.CanRedo() {
			return s, nil
		}
		s.HistoryIndex++
		return restore(s, s.snapshotAt(s.HistoryIndex))

	case ZoomIn:
		return zoom(s, ZoomStep, a.Center), nil

	case ZoomOut:
		return zoom(s, 1/ZoomStep, a.Center), nil

	case ZoomBy:
		return zoom(s, a.Factor, a.Center), nil

	case SetViewBox:
		w, h := s.FloorPlan.Dimensions()
		s.ViewBox = geometry.ConstrainViewBox(a.ViewBox, w, h)
		return s, nil

	case PanBy:
		w, h := s.FloorPlan.Dimensions()
		s.ViewBox = geometry.ConstrainViewBox(geometry.PanViewBox(s.ViewBox, a.DX, a.DY), w, h)
		return s, nil

	case ResetView:
		w, h := s.FloorPlan.Dimensions()
		s.ViewBox = geometry.FitViewBox(w, h)
		return s, nil

	case MarkersLoaded:
		return markersLoaded(s, a.Markers), nil

	case DeleteMarkers:
		return deleteMarkers(s, a.IDs, now)

	case UpdateMarker:
		if s.ReadOnly {
			return s, nil
		}
		cur, ok := marker.Find(s.Markers, a.Marker.ID)
		if !ok || cur.Type() != a.Marker.Type() {
			return s, nil
		}
		m := a.Marker.Clamped(s.FloorPlan)
		m.FloorPlanID = cur.FloorPlanID
		m.SpotID = cur.SpotID
		return commitUpdate(s, m, now)
	}
	return s, nil
}

func setMode(s State, mode Mode) State {
	if !mode.Valid() {
		return s
	}
	if s.ReadOnly && mode != ModeView {
		return s
	}
	if mode.Placing() {
		// A place-* mode needs a spot; only restart the current placement.
		if s.Placement == nil || PlacementMode(s.Placement.Type) != mode {
			return s
		}
		s.Draft = nil
		s.Mode = mode
		return s
	}
	if mode == ModeEdit && len(s.Selected) == 0 {
		return s
	}

	s.Draft = nil
	s.Placement = nil
	s.Drag = nil
	s.Resize = nil
	if mode == ModeView {
		s.Selected = nil
	}
	s.Mode = mode
	return s
}

// placed fills in the placement context for a draft or committed marker and
// clamps its geometry. It fails when no placement is active or the shape
// does not match the placement type.
func placed(s State, m marker.Marker) (marker.Marker, bool) {
	p := s.Placement
	if p == nil || !s.Mode.Placing() {
		return marker.Marker{}, false
	}
	if m.Shape == nil {
		m.Shape = marker.DefaultShape(p.Type)
	}
	if m.Type() != p.Type {
		return marker.Marker{}, false
	}
	m.ID = p.SpotID
	m.SpotID = p.SpotID
	m.Name = p.SpotName
	m.FloorPlanID = s.FloorPlan.ID
	m.Status = p.Status
	m.Status.Visible = true
	if m.Type() == marker.TypeLine {
		m.Rotation = 0
	}
	return m.Clamped(s.FloorPlan), true
}

func commitDraft(s State, draft marker.Marker, now time.Time) (State, []Effect) {
	m, ok := placed(s, draft)
	if !ok {
		return s, nil
	}
	if existing, found := marker.Find(s.Markers, m.ID); found && m.Status.Status == "" {
		m.Status = existing.Status
		m.Status.Visible = true
	}

	markers := cloneMarkers(s.Markers)
	if i := marker.IndexOf(markers, m.ID); i >= 0 {
		markers = append(markers[:i], markers[i+1:]...)
	}
	s.Markers = append(markers, m)

	s.Draft = nil
	s.Placement = nil
	s.Mode = ModeSelect
	s.Selected = []string{m.ID}

	s, rec := commit(s, KindAdd, []marker.Marker{m}, now)
	return s, []Effect{SaveMarker{Marker: m}, rec}
}

func commitUpdate(s State, m marker.Marker, now time.Time) (State, []Effect) {
	i := marker.IndexOf(s.Markers, m.ID)
	if i < 0 {
		return s, nil
	}
	markers := cloneMarkers(s.Markers)
	markers[i] = m
	s.Markers = markers

	s, rec := commit(s, KindUpdate, []marker.Marker{m}, now)
	return s, []Effect{SaveMarker{Marker: m}, rec}
}

func selectMarker(s State, a SelectMarker) State {
	if s.Mode.Placing() && s.Draft != nil {
		return s
	}
	if marker.IndexOf(s.Markers, a.ID) < 0 {
		return s
	}

	if a.Multi {
		if s.IsSelected(a.ID) {
			var sel []string
			for _, id := range s.Selected {
				if id != a.ID {
					sel = append(sel, id)
				}
			}
			s.Selected = sel
		} else {
			s.Selected = append(cloneIDs(s.Selected), a.ID)
		}
	} else {
		s.Selected = []string{a.ID}
	}

	s.Draft = nil
	s.Placement = nil
	if s.Mode != ModeEdit || len(s.Selected) == 0 {
		s.Mode = ModeSelect
	}
	return s
}

func handleFits(h marker.Handle, m marker.Marker) bool {
	switch m.Type() {
	case marker.TypeArea:
		return h == marker.HandleNW || h == marker.HandleNE || h == marker.HandleSW || h == marker.HandleSE
	case marker.TypeLine:
		return h == marker.HandleStart || h == marker.HandleEnd
	}
	return false
}

func zoom(s State, factor float64, center *geometry.Point2D) State {
	w, h := s.FloorPlan.Dimensions()
	vb := geometry.ZoomViewBox(s.ViewBox, factor, center)
	if vb.Width < w/MaxZoom || vb.Height < h/MaxZoom {
		return s
	}
	s.ViewBox = geometry.ConstrainViewBox(vb, w, h)
	return s
}

func markersLoaded(s State, loaded []marker.Marker) State {
	loaded = cloneMarkers(loaded)
	s = rebase(s, loaded)
	s.Markers = loaded
	s.Selected = pruneSelection(s.Selected, loaded)
	if s.Drag != nil && marker.IndexOf(loaded, s.Drag.MarkerID) < 0 {
		s.Drag = nil
	}
	if s.Resize != nil && marker.IndexOf(loaded, s.Resize.Original.ID) < 0 {
		s.Resize = nil
	}
	if len(s.Selected) == 0 && s.Mode.CanManipulate() {
		s.Mode = ModeView
	}
	return s
}

func deleteMarkers(s State, ids []string, now time.Time) (State, []Effect) {
	if s.ReadOnly {
		return s, nil
	}
	if len(ids) == 0 {
		ids = s.Selected
	}

	var removed []marker.Marker
	var kept []marker.Marker
	drop := make(map[string]bool, len(ids))
	for _, id := range ids {
		drop[id] = true
	}
	for _, m := range s.Markers {
		if drop[m.ID] {
			removed = append(removed, m)
		} else {
			kept = append(kept, m)
		}
	}
	if len(removed) == 0 {
		return s, nil
	}

	s.Markers = kept
	s.Drag = nil
	s.Resize = nil
	s.Selected = pruneSelection(s.Selected, kept)
	if len(s.Selected) == 0 && s.Mode.CanManipulate() {
		s.Mode = ModeView
	}

	kind := KindDelete
	if len(removed) > 1 {
		kind = KindBatch
	}
	s, rec := commit(s, kind, removed, now)

	effects := make([]Effect, 0, len(removed)+1)
	for _, m := range removed {
		effects = append(effects, ClearMarker{ID: m.ID})
	}
	return s, append(effects, rec)
}
