package editor

import (
	"reflect"
	"time"

	"signage-planner/internal/marker"
)

// HistoryKind classifies a committed change.
type HistoryKind string

const (
	KindAdd    HistoryKind = "add"
	KindUpdate HistoryKind = "update"
	KindDelete HistoryKind = "delete"
	KindBatch  HistoryKind = "batch"
)

// HistoryEntry records one committed change. Markers holds the markers the
// change touched: their new geometry for add and update, the removed markers
// for delete and batch.
type HistoryEntry struct {
	Kind      HistoryKind
	Markers   []marker.Marker
	Timestamp time.Time

	// snapshot is the full marker set after the change.
	snapshot []marker.Marker
}

// Snapshot returns the full marker set recorded after this entry.
func (e HistoryEntry) Snapshot() []marker.Marker {
	return cloneMarkers(e.snapshot)
}

// commit records a change already applied to s.Markers. The redo tail is
// dropped and the oldest entry is evicted past the limit.
func commit(s State, kind HistoryKind, changed []marker.Marker, now time.Time) (State, Effect) {
	entry := HistoryEntry{
		Kind:      kind,
		Markers:   cloneMarkers(changed),
		Timestamp: now,
		snapshot:  cloneMarkers(s.Markers),
	}

	history := make([]HistoryEntry, s.HistoryIndex, s.HistoryIndex+1)
	copy(history, s.History[:s.HistoryIndex])
	history = append(history, entry)

	if over := len(history) - s.historyLimit(); over > 0 {
		s.base = history[over-1].snapshot
		history = history[over:]
	}

	s.History = history
	s.HistoryIndex = len(history)
	return s, RecordHistory{FloorPlanID: s.FloorPlan.ID, Entry: entry}
}

// snapshotAt returns the marker set after the first index entries.
func (s State) snapshotAt(index int) []marker.Marker {
	if index <= 0 {
		return s.base
	}
	return s.History[index-1].snapshot
}

// restore replaces the marker set with target and returns the storage
// effects that bring persistence in line with it.
func restore(s State, target []marker.Marker) (State, []Effect) {
	var effects []Effect
	for _, m := range target {
		if cur, ok := marker.Find(s.Markers, m.ID); !ok || !reflect.DeepEqual(cur, m) {
			effects = append(effects, SaveMarker{Marker: m})
		}
	}
	for _, m := range s.Markers {
		if marker.IndexOf(target, m.ID) < 0 {
			effects = append(effects, ClearMarker{ID: m.ID})
		}
	}

	s.Markers = cloneMarkers(target)
	s.Drag = nil
	s.Resize = nil
	s.Selected = pruneSelection(s.Selected, s.Markers)
	if len(s.Selected) == 0 && s.Mode.CanManipulate() {
		s.Mode = ModeView
	}
	return s, effects
}

// rebase folds authoritative markers into every retained snapshot. Markers
// that history touched keep their recorded geometry; everything else follows
// the loaded set.
func rebase(s State, loaded []marker.Marker) State {
	touched := make(map[string]bool)
	for _, e := range s.History {
		for _, m := range e.Markers {
			touched[m.ID] = true
		}
	}
	merge := func(snap []marker.Marker) []marker.Marker {
		out := make([]marker.Marker, 0, len(loaded))
		for _, m := range loaded {
			if !touched[m.ID] {
				out = append(out, m)
			} else if prev, ok := marker.Find(snap, m.ID); ok {
				out = append(out, prev)
			}
		}
		for _, m := range snap {
			if touched[m.ID] && marker.IndexOf(loaded, m.ID) < 0 {
				out = append(out, m)
			}
		}
		return out
	}

	s.base = merge(s.base)
	history := make([]HistoryEntry, len(s.History))
	for i, e := range s.History {
		e.snapshot = merge(e.snapshot)
		history[i] = e
	}
	s.History = history
	return s
}

func pruneSelection(selected []string, markers []marker.Marker) []string {
	var out []string
	for _, id := range selected {
		if marker.IndexOf(markers, id) >= 0 {
			out = append(out, id)
		}
	}
	return out
}
