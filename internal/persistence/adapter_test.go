package persistence

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"signage-planner/internal/marker"
)

type fakeBackend struct {
	mu      sync.Mutex
	plan    FloorPlanRecord
	spots   map[string]SpotRecord
	order   []string
	written map[string]Geometry
	failErr error
}

func newFakeBackend() *fakeBackend {
	w, h := 1000, 500
	return &fakeBackend{
		plan:    FloorPlanRecord{ID: "fp-1", Width: &w, Height: &h},
		spots:   make(map[string]SpotRecord),
		written: make(map[string]Geometry),
	}
}

func (f *fakeBackend) add(r SpotRecord) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.spots[r.ID] = r
	f.order = append(f.order, r.ID)
}

func (f *fakeBackend) FloorPlan(_ context.Context, id string) (FloorPlanRecord, error) {
	if id != f.plan.ID {
		return FloorPlanRecord{}, errors.New("no such plan")
	}
	return f.plan, nil
}

func (f *fakeBackend) VisibleSpots(_ context.Context, _ string) ([]SpotRecord, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []SpotRecord
	for _, id := range f.order {
		if s := f.spots[id]; s.ShowOnMap {
			out = append(out, s)
		}
	}
	return out, nil
}

func (f *fakeBackend) WriteGeometry(_ context.Context, id string, g Geometry) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failErr != nil {
		return f.failErr
	}
	if _, ok := f.spots[id]; !ok {
		return fmt.Errorf("spot %s: %w", id, ErrMarkerNotFound)
	}
	f.written[id] = g
	return nil
}

func (f *fakeBackend) ClearGeometry(_ context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	s, ok := f.spots[id]
	if !ok {
		return fmt.Errorf("spot %s: %w", id, ErrMarkerNotFound)
	}
	s.ShowOnMap = false
	s.MarkerX, s.MarkerY = nil, nil
	f.spots[id] = s
	return nil
}

type fakeChanges struct {
	ch chan struct{}
}

func (f *fakeChanges) SubscribeChanges(string) (<-chan struct{}, func(), error) {
	return f.ch, func() {}, nil
}

func ip(v int) *int           { return &v }
func fp64(v float64) *float64 { return &v }

func TestLoadMarkers_PixelAndLegacy(t *testing.T) {
	b := newFakeBackend()
	b.add(SpotRecord{ID: "px", Name: "Pixel", ShowOnMap: true, MarkerType: "point", MarkerX: ip(100), MarkerY: ip(200), MarkerRadius: ip(20),
		XPercent: fp64(90), YPercent: fp64(90)})
	b.add(SpotRecord{ID: "legacy-pt", ShowOnMap: true, XPercent: fp64(50), YPercent: fp64(10)})
	b.add(SpotRecord{ID: "legacy-area", ShowOnMap: true, XPercent: fp64(10), YPercent: fp64(20), WidthPercent: fp64(5), HeightPercent: fp64(10)})
	b.add(SpotRecord{ID: "nothing", ShowOnMap: true})
	b.add(SpotRecord{ID: "hidden", ShowOnMap: false, MarkerX: ip(1), MarkerY: ip(1)})

	a := New(b, nil, zerolog.Nop())
	markers, err := a.LoadMarkers(context.Background(), "fp-1")
	require.NoError(t, err)
	require.Len(t, markers, 3)

	assert.Equal(t, "px", markers[0].ID)
	assert.Equal(t, 100.0, markers[0].X)
	assert.Equal(t, marker.PointShape{Radius: 20}, markers[0].Shape)

	assert.Equal(t, 500.0, markers[1].X)
	assert.Equal(t, 50.0, markers[1].Y)
	assert.Equal(t, marker.PointShape{Radius: marker.DefaultRadius}, markers[1].Shape)

	assert.Equal(t, 100.0, markers[2].X)
	assert.Equal(t, 100.0, markers[2].Y)
	assert.Equal(t, marker.AreaShape{Width: 50, Height: 50}, markers[2].Shape)
}

func TestLoadMarkers_UnknownPlan(t *testing.T) {
	a := New(newFakeBackend(), nil, zerolog.Nop())
	_, err := a.LoadMarkers(context.Background(), "nope")
	assert.Error(t, err)
}

func TestToMarker_FallbackDimensions(t *testing.T) {
	m, ok := ToMarker(SpotRecord{ID: "a", XPercent: fp64(50), YPercent: fp64(50)}, marker.FloorPlan{})
	require.True(t, ok)
	assert.Equal(t, 960.0, m.X)
	assert.Equal(t, 540.0, m.Y)
}

func TestToMarker_Shapes(t *testing.T) {
	fp := marker.FloorPlan{}

	line, ok := ToMarker(SpotRecord{ID: "l", MarkerType: "line", MarkerX: ip(10), MarkerY: ip(10), MarkerX2: ip(5000), MarkerY2: ip(30), MarkerRotation: ip(45)}, fp)
	require.True(t, ok)
	assert.Equal(t, marker.LineShape{X2: 1920, Y2: 30}, line.Shape)
	assert.Equal(t, 0.0, line.Rotation)

	area, ok := ToMarker(SpotRecord{ID: "a", MarkerType: "area", MarkerX: ip(10), MarkerY: ip(10), MarkerWidth: ip(3), MarkerRotation: ip(15)}, fp)
	require.True(t, ok)
	assert.Equal(t, marker.AreaShape{Width: 10, Height: 10}, area.Shape)
	assert.Equal(t, 15.0, area.Rotation)

	_, ok = ToMarker(SpotRecord{ID: "x", MarkerX: ip(10)}, fp)
	assert.False(t, ok)
}

func TestToGeometry_Rounds(t *testing.T) {
	g := ToGeometry(marker.Marker{X: 10.4, Y: 10.6, Rotation: 12.5, Shape: marker.AreaShape{Width: 20.49, Height: 30.5}})
	assert.Equal(t, "area", g.Type)
	assert.Equal(t, 10, g.X)
	assert.Equal(t, 11, g.Y)
	assert.Equal(t, 13, g.Rotation)
	assert.Equal(t, 20, *g.Width)
	assert.Equal(t, 31, *g.Height)
	assert.Nil(t, g.Radius)
	assert.Nil(t, g.X2)

	g = ToGeometry(marker.Marker{X: 1, Y: 2, Rotation: 30, Shape: marker.LineShape{X2: 3.7, Y2: 4.2}})
	assert.Equal(t, 4, *g.X2)
	assert.Equal(t, 4, *g.Y2)
	assert.Equal(t, 0, g.Rotation)

	g = ToGeometry(marker.Marker{Shape: marker.PointShape{Radius: 14.5}})
	assert.Equal(t, 15, *g.Radius)
}

func TestSaveMarker(t *testing.T) {
	b := newFakeBackend()
	b.add(SpotRecord{ID: "A"})
	a := New(b, nil, zerolog.Nop())

	err := a.SaveMarker(context.Background(), marker.Marker{ID: "A", X: 1.2, Y: 3.8, Shape: marker.PointShape{Radius: 15}})
	require.NoError(t, err)
	assert.Equal(t, 1, b.written["A"].X)
	assert.Equal(t, 4, b.written["A"].Y)

	err = a.SaveMarker(context.Background(), marker.Marker{ID: "missing", Shape: marker.PointShape{Radius: 15}})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrMarkerNotFound)

	b.failErr = errors.New("disk full")
	err = a.SaveMarker(context.Background(), marker.Marker{ID: "A", Shape: marker.PointShape{Radius: 15}})
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrMarkerNotFound)
}

func TestDeleteMarker(t *testing.T) {
	b := newFakeBackend()
	b.add(SpotRecord{ID: "A", ShowOnMap: true, MarkerX: ip(1), MarkerY: ip(1)})
	a := New(b, nil, zerolog.Nop())

	require.NoError(t, a.DeleteMarker(context.Background(), "A"))
	markers, err := a.LoadMarkers(context.Background(), "fp-1")
	require.NoError(t, err)
	assert.Empty(t, markers)

	assert.ErrorIs(t, a.DeleteMarker(context.Background(), "missing"), ErrMarkerNotFound)
}

func TestSubscribe_ReloadsOnChange(t *testing.T) {
	b := newFakeBackend()
	changes := &fakeChanges{ch: make(chan struct{}, 4)}
	a := New(b, changes, zerolog.Nop())

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	got := make(chan []marker.Marker, 4)
	require.NoError(t, a.Subscribe(ctx, "fp-1", func(m []marker.Marker, err error) {
		assert.NoError(t, err)
		got <- m
	}))

	b.add(SpotRecord{ID: "A", ShowOnMap: true, MarkerX: ip(5), MarkerY: ip(5)})
	changes.ch <- struct{}{}

	select {
	case markers := <-got:
		require.Len(t, markers, 1)
		assert.Equal(t, "A", markers[0].ID)
	case <-time.After(2 * time.Second):
		t.Fatal("expected reload after change notification")
	}
}

func TestSubscribe_NoChangeSource(t *testing.T) {
	a := New(newFakeBackend(), nil, zerolog.Nop())
	assert.NoError(t, a.Subscribe(context.Background(), "fp-1", func([]marker.Marker, error) {}))
}
