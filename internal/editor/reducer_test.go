package editor

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"signage-planner/internal/marker"
	"signage-planner/pkg/geometry"
)

var testNow = time.Date(2024, 6, 15, 12, 0, 0, 0, time.UTC)

func intPtr(v int) *int { return &v }

func testPlan() marker.FloorPlan {
	return marker.FloorPlan{ID: "fp-1", OriginalWidth: intPtr(1920), OriginalHeight: intPtr(1080)}
}

func reduce(t *testing.T, s State, actions ...Action) (State, []Effect) {
	t.Helper()
	var all []Effect
	for _, a := range actions {
		var effects []Effect
		s, effects = ReduceAt(s, a, testNow)
		all = append(all, effects...)
	}
	return s, all
}

func point(id string, x, y float64) marker.Marker {
	return marker.Marker{ID: id, SpotID: id, FloorPlanID: "fp-1", Name: id, X: x, Y: y, Shape: marker.PointShape{Radius: 15}}
}

func placeAndCommit(t *testing.T, s State, spot string, x, y float64) State {
	t.Helper()
	s, _ = reduce(t, s,
		StartPlacement{Type: marker.TypePoint, SpotID: spot, SpotName: "Spot " + spot},
		CommitDraftMarker{Marker: marker.Marker{X: x, Y: y, Shape: marker.PointShape{Radius: 15}}},
	)
	return s
}

func TestNewState(t *testing.T) {
	s := NewState(marker.FloorPlan{}, nil)
	assert.Equal(t, ModeView, s.Mode)
	assert.Empty(t, s.Selected)
	assert.Equal(t, geometry.ViewBox{Width: 1920, Height: 1080}, s.ViewBox)
}

func TestStartPlacement(t *testing.T) {
	s := NewState(testPlan(), []marker.Marker{point("x", 10, 10)})
	s.Selected = []string{"x"}

	s, _ = reduce(t, s, StartPlacement{Type: marker.TypeArea, SpotID: "A", SpotName: "Lobby"})
	assert.Equal(t, ModePlaceArea, s.Mode)
	assert.Empty(t, s.Selected)
	require.NotNil(t, s.Placement)
	assert.Equal(t, "A", s.Placement.SpotID)
}

func TestStartPlacement_RequiresSpot(t *testing.T) {
	s := NewState(testPlan(), nil)

	got, _ := reduce(t, s, StartPlacement{Type: marker.TypePoint, SpotName: "Lobby"})
	assert.Equal(t, s, got)

	got, _ = reduce(t, s, StartPlacement{Type: marker.TypePoint, SpotID: "A"})
	assert.Equal(t, s, got)
}

func TestSetDraftMarker(t *testing.T) {
	s := NewState(testPlan(), nil)
	s, _ = reduce(t, s,
		StartPlacement{Type: marker.TypeLine, SpotID: "A", SpotName: "Corridor"},
		SetDraftMarker{Marker: marker.Marker{X: -20, Y: 30, Shape: marker.LineShape{X2: 5000, Y2: 40}}},
	)
	require.NotNil(t, s.Draft)
	assert.Equal(t, 0.0, s.Draft.X)
	assert.Equal(t, marker.LineShape{X2: 1920, Y2: 40}, s.Draft.Shape)
	assert.Equal(t, "A", s.Draft.SpotID)

	// Wrong shape for the placement type is ignored.
	before := s
	s, _ = reduce(t, s, SetDraftMarker{Marker: marker.Marker{Shape: marker.PointShape{Radius: 3}}})
	assert.Equal(t, before, s)
}

func TestCommitDraftMarker_SelectsNewMarker(t *testing.T) {
	for _, typ := range []marker.Type{marker.TypePoint, marker.TypeArea, marker.TypeLine} {
		t.Run(string(typ), func(t *testing.T) {
			s := NewState(testPlan(), []marker.Marker{point("other", 5, 5)})
			s, effects := reduce(t, s,
				StartPlacement{Type: typ, SpotID: "A", SpotName: "Lobby"},
				CommitDraftMarker{Marker: marker.Marker{X: 100, Y: 100, Shape: marker.DefaultShape(typ)}},
			)

			assert.Equal(t, ModeSelect, s.Mode)
			assert.Equal(t, []string{"A"}, s.Selected)
			assert.Nil(t, s.Draft)
			assert.Nil(t, s.Placement)
			require.Len(t, s.History, 1)
			assert.Equal(t, KindAdd, s.History[0].Kind)
			assert.Equal(t, 1, s.HistoryIndex)

			require.Len(t, effects, 2)
			save, ok := effects[0].(SaveMarker)
			require.True(t, ok)
			assert.Equal(t, "A", save.Marker.ID)
			assert.True(t, save.Marker.Status.Visible)
			assert.IsType(t, RecordHistory{}, effects[1])
		})
	}
}

func TestCommitDraftMarker_ReplacesExistingSpotMarker(t *testing.T) {
	s := NewState(testPlan(), []marker.Marker{point("A", 5, 5)})
	s = placeAndCommit(t, s, "A", 300, 300)

	require.Len(t, s.Markers, 1)
	assert.Equal(t, 300.0, s.Markers[0].X)
}

func TestCommitDraftMarker_WithoutPlacementIgnored(t *testing.T) {
	s := NewState(testPlan(), nil)
	got, effects := reduce(t, s, CommitDraftMarker{Marker: point("A", 1, 1)})
	assert.Equal(t, s, got)
	assert.Empty(t, effects)
}

func TestCancelDraft(t *testing.T) {
	s := NewState(testPlan(), nil)
	s, effects := reduce(t, s,
		StartPlacement{Type: marker.TypePoint, SpotID: "A", SpotName: "Lobby"},
		SetDraftMarker{Marker: marker.Marker{X: 10, Y: 10}},
		CancelDraft{},
	)
	assert.Equal(t, ModeView, s.Mode)
	assert.Nil(t, s.Draft)
	assert.Nil(t, s.Placement)
	assert.Empty(t, effects)
	assert.Empty(t, s.Markers)
}

func TestSetMode(t *testing.T) {
	s := NewState(testPlan(), []marker.Marker{point("a", 10, 10)})
	s, _ = reduce(t, s, SelectMarker{ID: "a"})
	require.Equal(t, ModeSelect, s.Mode)

	s, _ = reduce(t, s, SetMode{Mode: ModeEdit})
	assert.Equal(t, ModeEdit, s.Mode)
	assert.Equal(t, []string{"a"}, s.Selected)

	s, _ = reduce(t, s, SetMode{Mode: ModeView})
	assert.Equal(t, ModeView, s.Mode)
	assert.Empty(t, s.Selected)

	// Edit needs a selection; place-* needs a placement.
	got, _ := reduce(t, s, SetMode{Mode: ModeEdit})
	assert.Equal(t, ModeView, got.Mode)
	got, _ = reduce(t, s, SetMode{Mode: ModePlacePoint})
	assert.Equal(t, ModeView, got.Mode)
}

func TestSetMode_ClearsDraft(t *testing.T) {
	s := NewState(testPlan(), nil)
	s, _ = reduce(t, s,
		StartPlacement{Type: marker.TypePoint, SpotID: "A", SpotName: "Lobby"},
		SetDraftMarker{Marker: marker.Marker{X: 10, Y: 10}},
		SetMode{Mode: ModeSelect},
	)
	assert.Nil(t, s.Draft)
	assert.Nil(t, s.Placement)
	assert.Equal(t, ModeSelect, s.Mode)
}

func TestSelectMarker(t *testing.T) {
	s := NewState(testPlan(), []marker.Marker{point("a", 10, 10), point("b", 50, 50)})

	s, _ = reduce(t, s, SelectMarker{ID: "a"})
	assert.Equal(t, []string{"a"}, s.Selected)
	assert.Equal(t, ModeSelect, s.Mode)

	s, _ = reduce(t, s, SelectMarker{ID: "b", Multi: true})
	assert.Equal(t, []string{"a", "b"}, s.Selected)

	s, _ = reduce(t, s, SelectMarker{ID: "a", Multi: true})
	assert.Equal(t, []string{"b"}, s.Selected)

	s, _ = reduce(t, s, SelectMarker{ID: "a"})
	assert.Equal(t, []string{"a"}, s.Selected)

	s, _ = reduce(t, s, DeselectAll{})
	assert.Empty(t, s.Selected)
	assert.Equal(t, ModeView, s.Mode)
}

func TestSelectMarker_BlockedWhilePlacingWithDraft(t *testing.T) {
	s := NewState(testPlan(), []marker.Marker{point("a", 10, 10)})
	s, _ = reduce(t, s,
		StartPlacement{Type: marker.TypeArea, SpotID: "B", SpotName: "Hall"},
		SetDraftMarker{Marker: marker.Marker{X: 10, Y: 10, Shape: marker.AreaShape{Width: 20, Height: 20}}},
	)
	got, _ := reduce(t, s, SelectMarker{ID: "a"}, StartDrag{X: 10, Y: 10, MarkerID: "a"})
	assert.Equal(t, s, got)
}

func TestOpenSpot(t *testing.T) {
	m := point("a", 10, 10)
	m.SpotID = "spot-a"
	s := NewState(testPlan(), []marker.Marker{m})
	s.ReadOnly = true

	got, effects := reduce(t, s, OpenSpot{ID: "a"})
	assert.Equal(t, s, got)
	assert.Equal(t, []Effect{OpenSpotEffect{SpotID: "spot-a"}}, effects)

	_, effects = reduce(t, s, OpenSpot{ID: "missing"})
	assert.Empty(t, effects)
}

func TestDrag_PreservesGrabOffset(t *testing.T) {
	s := NewState(testPlan(), []marker.Marker{point("a", 50, 50)})
	s, _ = reduce(t, s, SelectMarker{ID: "a"}, StartDrag{X: 60, Y: 65, MarkerID: "a"}, Drag{X: 80, Y: 70})

	require.NotNil(t, s.Drag)
	assert.Equal(t, 70.0, s.Drag.Current.X)
	assert.Equal(t, 55.0, s.Drag.Current.Y)

	// The committed set is untouched until the drag ends.
	assert.Equal(t, 50.0, s.Markers[0].X)
	assert.Equal(t, 70.0, s.RenderedMarkers()[0].X)

	s, effects := reduce(t, s, EndDrag{})
	assert.Nil(t, s.Drag)
	assert.Equal(t, 70.0, s.Markers[0].X)
	assert.Equal(t, 55.0, s.Markers[0].Y)
	require.Len(t, effects, 2)
	assert.Equal(t, SaveMarker{Marker: s.Markers[0]}, effects[0])
	require.Len(t, s.History, 1)
	assert.Equal(t, KindUpdate, s.History[0].Kind)
}

func TestDrag_ClampsToFloorPlan(t *testing.T) {
	s := NewState(testPlan(), []marker.Marker{point("a", 50, 50)})
	s.Mode = ModeSelect
	s, _ = reduce(t, s, StartDrag{X: 50, Y: 50, MarkerID: "a"}, Drag{X: -400, Y: 4000}, EndDrag{})
	assert.Equal(t, 0.0, s.Markers[0].X)
	assert.Equal(t, 1080.0, s.Markers[0].Y)
}

func TestDrag_ClickWithoutMoveDoesNotPersist(t *testing.T) {
	s := NewState(testPlan(), []marker.Marker{point("a", 50, 50)})
	s.Mode = ModeSelect
	s, effects := reduce(t, s, StartDrag{X: 50, Y: 50, MarkerID: "a"}, EndDrag{})
	assert.Nil(t, s.Drag)
	assert.Empty(t, effects)
	assert.Empty(t, s.History)
	assert.Equal(t, []string{"a"}, s.Selected)
	assert.Equal(t, ModeSelect, s.Mode)
}

func TestDrag_IgnoredInViewMode(t *testing.T) {
	s := NewState(testPlan(), []marker.Marker{point("a", 50, 50)})
	got, effects := reduce(t, s, StartDrag{X: 50, Y: 50, MarkerID: "a"}, Drag{X: 90, Y: 90}, EndDrag{})
	assert.Equal(t, s, got)
	assert.Empty(t, effects)
}

func TestDrag_LineAgainstEdgeKeepsLength(t *testing.T) {
	line := marker.Marker{ID: "l", X: 100, Y: 100, Shape: marker.LineShape{X2: 300, Y2: 100}}
	s := NewState(testPlan(), []marker.Marker{line})
	s.Mode = ModeSelect

	s, _ = reduce(t, s, StartDrag{X: 200, Y: 100, MarkerID: "l"}, Drag{X: 50, Y: 100})
	require.NotNil(t, s.Drag)
	assert.Equal(t, 0.0, s.Drag.Current.X)
	assert.Equal(t, marker.LineShape{X2: 200, Y2: 100}, s.Drag.Current.Shape)

	s, _ = reduce(t, s, Drag{X: 200, Y: 100}, EndDrag{})
	assert.Equal(t, line, s.Markers[0])

	s, _ = reduce(t, s, StartDrag{X: 200, Y: 100, MarkerID: "l"}, Drag{X: 5000, Y: -300}, EndDrag{})
	got := s.Markers[0]
	assert.Equal(t, 1720.0, got.X)
	assert.Equal(t, 0.0, got.Y)
	assert.Equal(t, marker.LineShape{X2: 1920, Y2: 0}, got.Shape)
}

func TestResize_FromSnapshot(t *testing.T) {
	area := marker.Marker{ID: "a", X: 100, Y: 100, Shape: marker.AreaShape{Width: 40, Height: 20}}
	s := NewState(testPlan(), []marker.Marker{area})
	s, _ = reduce(t, s,
		SelectMarker{ID: "a"},
		StartResize{Handle: marker.HandleSE, MarkerID: "a"},
		Resize{X: 200, Y: 200},
		Resize{X: 140, Y: 130},
	)
	require.NotNil(t, s.Resize)
	assert.Equal(t, marker.AreaShape{Width: 60, Height: 40}, s.Resize.Current.Shape)

	s, effects := reduce(t, s, EndResize{})
	assert.Nil(t, s.Resize)
	assert.Equal(t, marker.AreaShape{Width: 60, Height: 40}, s.Markers[0].Shape)
	assert.Len(t, effects, 2)
}

func TestStartResize_RejectsWrongHandle(t *testing.T) {
	s := NewState(testPlan(), []marker.Marker{point("a", 100, 100)})
	s, _ = reduce(t, s, SelectMarker{ID: "a"})
	got, _ := reduce(t, s, StartResize{Handle: marker.HandleNW, MarkerID: "a"})
	assert.Nil(t, got.Resize)
}

func TestUndoRedo_Bounds(t *testing.T) {
	s := NewState(testPlan(), nil)

	got, effects := reduce(t, s, Undo{})
	assert.Equal(t, s, got)
	assert.Empty(t, effects)

	s = placeAndCommit(t, s, "A", 10, 10)
	got, effects = reduce(t, s, Redo{})
	assert.Equal(t, s, got)
	assert.Empty(t, effects)
}

func TestUndoRedo_RestoresSnapshots(t *testing.T) {
	initial := []marker.Marker{point("pre", 1, 1)}
	s := NewState(testPlan(), initial)

	s = placeAndCommit(t, s, "A", 10, 10)
	s = placeAndCommit(t, s, "B", 20, 20)
	s = placeAndCommit(t, s, "C", 30, 30)
	require.Len(t, s.Markers, 4)

	s, effects := reduce(t, s, Undo{})
	assert.Len(t, s.Markers, 3)
	assert.Equal(t, []Effect{ClearMarker{ID: "C"}}, effects)

	s, _ = reduce(t, s, Undo{}, Undo{})
	assert.Equal(t, initial, s.Markers)
	assert.Equal(t, 0, s.HistoryIndex)
	assert.Empty(t, s.Selected)
	assert.Equal(t, ModeView, s.Mode)

	s, effects = reduce(t, s, Redo{})
	require.Len(t, s.Markers, 2)
	require.Len(t, effects, 1)
	save := effects[0].(SaveMarker)
	assert.Equal(t, "A", save.Marker.ID)
}

func TestUndo_RestoresDraggedGeometry(t *testing.T) {
	s := NewState(testPlan(), []marker.Marker{point("a", 50, 50)})
	s.Mode = ModeSelect
	s, _ = reduce(t, s, StartDrag{X: 50, Y: 50, MarkerID: "a"}, Drag{X: 90, Y: 90}, EndDrag{})
	require.Equal(t, 90.0, s.Markers[0].X)

	s, effects := reduce(t, s, Undo{})
	assert.Equal(t, 50.0, s.Markers[0].X)
	require.Len(t, effects, 1)
	assert.Equal(t, 50.0, effects[0].(SaveMarker).Marker.X)
}

func TestCommit_TruncatesRedoTail(t *testing.T) {
	s := NewState(testPlan(), nil)
	s = placeAndCommit(t, s, "A", 10, 10)
	s = placeAndCommit(t, s, "B", 20, 20)
	s, _ = reduce(t, s, Undo{})
	s = placeAndCommit(t, s, "C", 30, 30)

	assert.Len(t, s.History, 2)
	assert.Equal(t, 2, s.HistoryIndex)
	assert.False(t, s.CanRedo())
	assert.Equal(t, "C", s.History[1].Markers[0].ID)
}

func TestHistory_CapEvictsOldest(t *testing.T) {
	s := NewState(testPlan(), nil)
	s.HistoryLimit = 3
	for i, id := range []string{"A", "B", "C", "D", "E"} {
		s = placeAndCommit(t, s, id, float64(10*(i+1)), 10)
	}
	require.Len(t, s.History, 3)
	assert.Equal(t, "C", s.History[0].Markers[0].ID)
	assert.Equal(t, 3, s.HistoryIndex)

	// Undoing everything lands on the set after the last evicted entry.
	s, _ = reduce(t, s, Undo{}, Undo{}, Undo{}, Undo{})
	assert.Equal(t, 0, s.HistoryIndex)
	require.Len(t, s.Markers, 2)
	assert.Equal(t, "A", s.Markers[0].ID)
	assert.Equal(t, "B", s.Markers[1].ID)
}

func TestHistory_DefaultCap(t *testing.T) {
	s := NewState(testPlan(), nil)
	for i := 0; i < DefaultHistoryLimit+5; i++ {
		s = placeAndCommit(t, s, "A", float64(i+1), 10)
	}
	assert.Len(t, s.History, DefaultHistoryLimit)
}

func TestZoom(t *testing.T) {
	s := NewState(testPlan(), nil)
	s, _ = reduce(t, s, ZoomIn{})
	assert.InDelta(t, 1920/1.5, s.ViewBox.Width, 1e-9)
	assert.InDelta(t, 960, s.ViewBox.Center().X, 1e-9)

	s, _ = reduce(t, s, ZoomOut{})
	assert.InDelta(t, 1920, s.ViewBox.Width, 1e-9)

	// Zooming out past the full image is capped.
	s, _ = reduce(t, s, ZoomOut{})
	assert.Equal(t, geometry.ViewBox{Width: 1920, Height: 1080}, s.ViewBox)

	// Anchored zoom keeps the anchor's relative position.
	anchor := geometry.NewPoint2D(480, 270)
	s, _ = reduce(t, s, ZoomIn{Center: &anchor})
	assert.InDelta(t, 0.25, (anchor.X-s.ViewBox.X)/s.ViewBox.Width, 1e-9)
}

func TestZoom_MaxLevel(t *testing.T) {
	s := NewState(testPlan(), nil)
	for i := 0; i < 20; i++ {
		s, _ = reduce(t, s, ZoomIn{})
	}
	assert.LessOrEqual(t, s.ZoomLevel(), MaxZoom)
	assert.Greater(t, s.ZoomLevel(), MaxZoom/ZoomStep)
}

func TestPanBy(t *testing.T) {
	s := NewState(testPlan(), nil)
	s, _ = reduce(t, s, ZoomIn{}, ZoomIn{})
	vb := s.ViewBox

	s, _ = reduce(t, s, PanBy{DX: 30, DY: -20})
	assert.InDelta(t, vb.X-30, s.ViewBox.X, 1e-9)
	assert.InDelta(t, vb.Y+20, s.ViewBox.Y, 1e-9)

	s, _ = reduce(t, s, PanBy{DX: 10000, DY: 10000})
	assert.Equal(t, 0.0, s.ViewBox.X)
	assert.Equal(t, 0.0, s.ViewBox.Y)

	s, _ = reduce(t, s, ResetView{})
	assert.Equal(t, geometry.ViewBox{Width: 1920, Height: 1080}, s.ViewBox)
}

func TestSetViewBox_Constrained(t *testing.T) {
	s := NewState(testPlan(), nil)
	s, _ = reduce(t, s, SetViewBox{ViewBox: geometry.ViewBox{X: 1900, Y: 0, Width: 100, Height: 100}})
	assert.Equal(t, geometry.ViewBox{X: 1820, Y: 0, Width: 100, Height: 100}, s.ViewBox)
}

func TestMarkersLoaded(t *testing.T) {
	s := NewState(testPlan(), nil)
	s, _ = reduce(t, s, MarkersLoaded{Markers: []marker.Marker{point("a", 1, 1), point("b", 2, 2)}})
	assert.Len(t, s.Markers, 2)

	s, _ = reduce(t, s, SelectMarker{ID: "a"})
	s, _ = reduce(t, s, MarkersLoaded{Markers: []marker.Marker{point("b", 2, 2)}})
	assert.Empty(t, s.Selected)
	assert.Equal(t, ModeView, s.Mode)
}

func TestMarkersLoaded_RebasesHistory(t *testing.T) {
	s := NewState(testPlan(), nil)
	s, _ = reduce(t, s, MarkersLoaded{Markers: []marker.Marker{point("ext", 1, 1)}})
	s = placeAndCommit(t, s, "A", 10, 10)

	// Another session moved "ext" and added "new".
	s, _ = reduce(t, s, MarkersLoaded{Markers: []marker.Marker{point("ext", 99, 99), point("A", 10, 10), point("new", 5, 5)}})

	s, effects := reduce(t, s, Undo{})
	assert.Equal(t, []Effect{ClearMarker{ID: "A"}}, effects)
	require.Len(t, s.Markers, 2)
	assert.Equal(t, 99.0, s.Markers[0].X)
	assert.Equal(t, "new", s.Markers[1].ID)
}

func TestDeleteMarkers(t *testing.T) {
	s := NewState(testPlan(), []marker.Marker{point("a", 1, 1), point("b", 2, 2), point("c", 3, 3)})
	s, _ = reduce(t, s, SelectMarker{ID: "a"})

	s, effects := reduce(t, s, DeleteMarkers{})
	assert.Len(t, s.Markers, 2)
	assert.Empty(t, s.Selected)
	assert.Equal(t, ModeView, s.Mode)
	require.Len(t, effects, 2)
	assert.Equal(t, ClearMarker{ID: "a"}, effects[0])
	assert.Equal(t, KindDelete, s.History[0].Kind)

	s, effects = reduce(t, s, DeleteMarkers{IDs: []string{"b", "c"}})
	assert.Empty(t, s.Markers)
	assert.Len(t, effects, 3)
	assert.Equal(t, KindBatch, s.History[1].Kind)

	s, _ = reduce(t, s, Undo{})
	assert.Len(t, s.Markers, 2)
}

func TestUpdateMarker(t *testing.T) {
	s := NewState(testPlan(), []marker.Marker{point("a", 1, 1)})

	m := point("a", 1, 1)
	m.Shape = marker.PointShape{Radius: 40}
	s, effects := reduce(t, s, UpdateMarker{Marker: m})
	assert.Equal(t, marker.PointShape{Radius: 40}, s.Markers[0].Shape)
	assert.Len(t, effects, 2)

	// Type is immutable.
	m.Shape = marker.AreaShape{Width: 10, Height: 10}
	got, effects := reduce(t, s, UpdateMarker{Marker: m})
	assert.Equal(t, s, got)
	assert.Empty(t, effects)
}

func TestReadOnly_BlocksMutations(t *testing.T) {
	s := NewState(testPlan(), []marker.Marker{point("a", 1, 1)})
	s.ReadOnly = true

	got, _ := reduce(t, s,
		StartPlacement{Type: marker.TypePoint, SpotID: "A", SpotName: "Lobby"},
		StartDrag{X: 1, Y: 1, MarkerID: "a"},
		DeleteMarkers{IDs: []string{"a"}},
		SetMode{Mode: ModeSelect},
	)
	assert.Equal(t, s, got)
}

func TestEndToEnd_PointPlacementAndDelete(t *testing.T) {
	s := NewState(testPlan(), nil)
	s, _ = reduce(t, s,
		StartPlacement{Type: marker.TypePoint, SpotID: "A", SpotName: "Spot A"},
		SetDraftMarker{Marker: marker.Marker{X: 960, Y: 540, Shape: marker.PointShape{Radius: 15}}},
	)
	s, _ = reduce(t, s, CommitDraftMarker{Marker: *s.Draft})

	require.Len(t, s.Markers, 1)
	assert.Equal(t, 960.0, s.Markers[0].X)
	assert.Equal(t, 540.0, s.Markers[0].Y)
	assert.Equal(t, ModeSelect, s.Mode)
	assert.Equal(t, []string{"A"}, s.Selected)
	require.Len(t, s.History, 1)
	assert.Equal(t, KindAdd, s.History[0].Kind)

	s, effects := reduce(t, s, DeleteMarkers{})
	assert.Empty(t, s.Markers)
	assert.Contains(t, effects, Effect(ClearMarker{ID: "A"}))
}
