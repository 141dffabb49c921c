package canvas

import (
	"math"
	"time"

	"signage-planner/internal/editor"
	"signage-planner/internal/marker"
	"signage-planner/pkg/geometry"
)

const (
	// WheelZoomStep is the zoom factor of one wheel notch.
	WheelZoomStep = 1.2

	// ClickTolerance is how far, in screen units, a press may travel and
	// still count as a click.
	ClickTolerance = 4.0

	// HandleSize is the on-screen side of a resize handle.
	HandleSize = 10.0

	// DefaultFrameInterval limits gesture updates to roughly 60 per second.
	DefaultFrameInterval = 16 * time.Millisecond
)

// Store is the part of the editor store the controller drives.
type Store interface {
	State() editor.State
	Dispatch(editor.Action) []editor.Effect
}

// Key is a keyboard key the controller reacts to.
type Key string

const (
	KeyEscape    Key = "Escape"
	KeyDelete    Key = "Delete"
	KeyBackspace Key = "BackSpace"
	KeyPlus      Key = "+"
	KeyMinus     Key = "-"
	KeyZero      Key = "0"
)

// Modifiers are the keyboard modifiers held during a pointer event.
type Modifiers struct {
	Shift bool
}

type gesture int

const (
	gestureNone gesture = iota
	gestureResize
	gesturePlace
	gestureMarker
	gesturePan
)

func (g gesture) String() string {
	switch g {
	case gestureResize:
		return "resize"
	case gesturePlace:
		return "place"
	case gestureMarker:
		return "marker"
	case gesturePan:
		return "pan"
	default:
		return "none"
	}
}

// Controller turns pointer and key input on the drawing surface into editor
// actions. Positions are in surface units with the origin at the surface's
// top-left corner. A Controller is not safe for concurrent use; all input is
// expected from the UI event goroutine.
type Controller struct {
	store    Store
	size     geometry.Size
	now      func() time.Time
	interval time.Duration

	gesture   gesture
	mods      Modifiers
	down      geometry.Point2D // press position, screen
	last      geometry.Point2D // last applied position, screen
	markerID  string
	pressMode editor.Mode
	moved     bool
	pending   *geometry.Point2D
	lastFrame time.Time

	// Placement of area and line markers is two-step: the first click
	// anchors, the second commits.
	placement   *editor.Placement
	anchor      *geometry.Point2D
	anchorFresh bool

	onCanvasClick func(geometry.Point2D)
}

// NewController creates a controller for store.
func NewController(store Store) *Controller {
	return &Controller{
		store:    store,
		now:      time.Now,
		interval: DefaultFrameInterval,
	}
}

// SetClock replaces the time source used for frame limiting.
func (c *Controller) SetClock(now func() time.Time) {
	c.now = now
}

// SetFrameInterval sets the minimum time between gesture updates. Zero
// disables rate limiting.
func (c *Controller) SetFrameInterval(d time.Duration) {
	if d < 0 {
		d = 0
	}
	c.interval = d
}

// SetSize records the surface size.
func (c *Controller) SetSize(width, height float64) {
	c.size = geometry.Size{Width: width, Height: height}
}

// OnCanvasClick sets a callback for clicks on empty background, in
// floor-plan pixels.
func (c *Controller) OnCanvasClick(fn func(geometry.Point2D)) {
	c.onCanvasClick = fn
}

// Surface returns the mapping between the surface and the floor plan for
// state s.
func (c *Controller) Surface(s editor.State) geometry.Surface {
	return geometry.Surface{Size: c.size, ViewBox: s.ViewBox}
}

// ToCanvas maps a surface position to floor-plan pixels.
func (c *Controller) ToCanvas(x, y float64) geometry.Point2D {
	return geometry.ScreenToCanvas(c.Surface(c.store.State()), x, y)
}

// Active reports whether a gesture is in progress.
func (c *Controller) Active() bool {
	return c.gesture != gestureNone
}

// Anchor returns the first corner or endpoint of a two-step placement.
func (c *Controller) Anchor() (geometry.Point2D, bool) {
	if c.anchor == nil {
		return geometry.Point2D{}, false
	}
	return *c.anchor, true
}

// PointerDown starts a gesture. The target is chosen in priority order:
// a resize handle of a selected marker, the active placement, a marker,
// then the background.
func (c *Controller) PointerDown(x, y float64, mods Modifiers) {
	if c.gesture != gestureNone {
		c.PointerUp(c.last.X, c.last.Y)
	}
	st := c.store.State()
	c.syncPlacement(st)

	screen := geometry.NewPoint2D(x, y)
	p := geometry.ScreenToCanvas(c.Surface(st), x, y)
	c.down, c.last = screen, screen
	c.mods = mods
	c.pressMode = st.Mode
	c.moved = false
	c.pending = nil
	c.lastFrame = c.now()

	if id, h, ok := c.handleHit(st, p); ok {
		c.gesture = gestureResize
		c.markerID = id
		c.store.Dispatch(editor.StartResize{Handle: h, MarkerID: id})
		return
	}

	if st.Mode.Placing() && st.Placement != nil {
		c.gesture = gesturePlace
		if st.Placement.Type != marker.TypePoint && c.anchor == nil {
			c.anchor = &p
			c.anchorFresh = true
		} else {
			c.anchorFresh = false
		}
		c.updateDraft(st, p)
		return
	}

	if m, ok := marker.FindTopmostMarkerAt(p, st.Markers); ok {
		c.gesture = gestureMarker
		c.markerID = m.ID
		if !st.ReadOnly && !mods.Shift && st.Mode.CanManipulate() {
			c.store.Dispatch(editor.StartDrag{X: p.X, Y: p.Y, MarkerID: m.ID})
		}
		return
	}

	c.gesture = gesturePan
}

// PointerMove continues a gesture, or updates the placement preview when
// hovering. Updates are rate-limited to one per frame interval; the latest
// position is kept and applied by Flush or PointerUp.
func (c *Controller) PointerMove(x, y float64) {
	screen := geometry.NewPoint2D(x, y)
	if c.gesture == gestureNone {
		st := c.store.State()
		c.syncPlacement(st)
		if !st.Mode.Placing() || st.Placement == nil {
			return
		}
	}

	if !c.moved && geometry.Distance(screen, c.down) > ClickTolerance {
		c.moved = true
	}

	now := c.now()
	if c.interval > 0 && now.Sub(c.lastFrame) < c.interval {
		c.pending = &screen
		return
	}
	c.lastFrame = now
	c.pending = nil
	c.apply(screen)
}

// Flush applies a position held back by rate limiting. The widget calls it
// once per animation frame.
func (c *Controller) Flush() {
	if c.pending == nil {
		return
	}
	p := *c.pending
	c.pending = nil
	c.lastFrame = c.now()
	c.apply(p)
}

// PointerUp ends the current gesture. Calling it without an active gesture
// is a no-op, so a release reported twice is harmless.
func (c *Controller) PointerUp(x, y float64) {
	if c.gesture == gestureNone {
		return
	}
	screen := geometry.NewPoint2D(x, y)
	if geometry.Distance(screen, c.down) > ClickTolerance {
		c.moved = true
	}
	c.pending = nil
	if screen != c.last {
		c.apply(screen)
	}

	g := c.gesture
	c.gesture = gestureNone
	st := c.store.State()
	p := geometry.ScreenToCanvas(c.Surface(st), x, y)

	switch g {
	case gestureResize:
		c.store.Dispatch(editor.EndResize{})

	case gesturePlace:
		c.finishPlacement(st, p)

	case gestureMarker:
		if st.Drag != nil {
			c.store.Dispatch(editor.EndDrag{})
		}
		if c.moved {
			break
		}
		switch {
		case st.ReadOnly:
			c.store.Dispatch(editor.OpenSpot{ID: c.markerID})
		case c.mods.Shift:
			c.store.Dispatch(editor.SelectMarker{ID: c.markerID, Multi: true})
		case c.pressMode == editor.ModeView:
			// A view click opens the spot and selects the marker, so the next
			// press can drag it.
			c.store.Dispatch(editor.SelectMarker{ID: c.markerID})
			c.store.Dispatch(editor.OpenSpot{ID: c.markerID})
		case !st.Mode.CanManipulate():
			c.store.Dispatch(editor.SelectMarker{ID: c.markerID})
		}

	case gesturePan:
		if c.moved {
			break
		}
		if len(st.Selected) > 0 {
			c.store.Dispatch(editor.DeselectAll{})
		}
		if c.onCanvasClick != nil {
			c.onCanvasClick(p)
		}
	}
	c.markerID = ""
}

// DoubleClick opens the spot of the marker under the pointer.
func (c *Controller) DoubleClick(x, y float64) {
	st := c.store.State()
	if st.Mode.Placing() {
		return
	}
	p := geometry.ScreenToCanvas(c.Surface(st), x, y)
	if m, ok := marker.FindTopmostMarkerAt(p, st.Markers); ok {
		c.store.Dispatch(editor.OpenSpot{ID: m.ID})
	}
}

// Wheel zooms around the pointer. Positive dy (scroll up) zooms in.
func (c *Controller) Wheel(x, y, dy float64) {
	if dy == 0 {
		return
	}
	factor := WheelZoomStep
	if dy < 0 {
		factor = 1 / WheelZoomStep
	}
	p := c.ToCanvas(x, y)
	c.store.Dispatch(editor.ZoomBy{Factor: factor, Center: &p})
}

// Key handles a key press. It reports whether the key was used.
func (c *Controller) Key(k Key) bool {
	st := c.store.State()
	switch k {
	case KeyEscape:
		if st.Mode.Placing() {
			c.anchor = nil
			c.store.Dispatch(editor.CancelDraft{})
			return true
		}
		if len(st.Selected) > 0 {
			c.store.Dispatch(editor.DeselectAll{})
			return true
		}
	case KeyDelete, KeyBackspace:
		if st.Mode.CanManipulate() && len(st.Selected) > 0 && c.gesture == gestureNone {
			c.store.Dispatch(editor.DeleteMarkers{})
			return true
		}
	case KeyPlus:
		c.store.Dispatch(editor.ZoomIn{})
		return true
	case KeyMinus:
		c.store.Dispatch(editor.ZoomOut{})
		return true
	case KeyZero:
		c.store.Dispatch(editor.ResetView{})
		return true
	}
	return false
}

func (c *Controller) apply(screen geometry.Point2D) {
	st := c.store.State()
	p := geometry.ScreenToCanvas(c.Surface(st), screen.X, screen.Y)

	switch c.gesture {
	case gestureResize:
		c.store.Dispatch(editor.Resize{X: p.X, Y: p.Y})

	case gestureMarker:
		if c.moved && st.Drag != nil {
			c.store.Dispatch(editor.Drag{X: p.X, Y: p.Y})
		}

	case gesturePan:
		if c.moved {
			if k := c.Surface(st).Scale(); k > 0 {
				c.store.Dispatch(editor.PanBy{
					DX: (screen.X - c.last.X) / k,
					DY: (screen.Y - c.last.Y) / k,
				})
			}
		}

	case gesturePlace, gestureNone:
		if st.Mode.Placing() {
			c.updateDraft(st, p)
		}
	}
	c.last = screen
}

// syncPlacement drops a stale anchor when the placement changed outside the
// controller.
func (c *Controller) syncPlacement(st editor.State) {
	if st.Placement != c.placement || !st.Mode.Placing() {
		c.anchor = nil
		c.anchorFresh = false
	}
	c.placement = st.Placement
}

func (c *Controller) handleHit(st editor.State, p geometry.Point2D) (string, marker.Handle, bool) {
	if st.ReadOnly || !st.Mode.CanManipulate() || len(st.Selected) == 0 {
		return "", marker.HandleNone, false
	}
	tol := ClickTolerance
	if k := c.Surface(st).Scale(); k > 0 {
		tol = math.Max(HandleSize/k, 2)
	}
	rendered := st.RenderedMarkers()
	for i := len(rendered) - 1; i >= 0; i-- {
		m := rendered[i]
		if !st.IsSelected(m.ID) {
			continue
		}
		if h := marker.HandleAt(p, m, tol); h != marker.HandleNone {
			return m.ID, h, true
		}
	}
	return "", marker.HandleNone, false
}

// draftAt builds the draft for pointer position p.
func (c *Controller) draftAt(st editor.State, p geometry.Point2D) marker.Marker {
	switch st.Placement.Type {
	case marker.TypeArea:
		a := p
		if c.anchor != nil {
			a = *c.anchor
		}
		center, shape := marker.AreaFromCorners(a, p)
		return marker.Marker{X: center.X, Y: center.Y, Shape: shape}
	case marker.TypeLine:
		if c.anchor == nil {
			return marker.Marker{X: p.X, Y: p.Y, Shape: marker.LineShape{X2: p.X, Y2: p.Y}}
		}
		return marker.Marker{X: c.anchor.X, Y: c.anchor.Y, Shape: marker.LineShape{X2: p.X, Y2: p.Y}}
	default:
		shape := marker.Shape(marker.PointShape{Radius: marker.DefaultRadius})
		if st.Draft != nil {
			if ps, ok := st.Draft.Shape.(marker.PointShape); ok {
				shape = ps
			}
		}
		return marker.Marker{X: p.X, Y: p.Y, Shape: shape}
	}
}

func (c *Controller) updateDraft(st editor.State, p geometry.Point2D) {
	if st.Placement == nil {
		return
	}
	if st.Placement.Type != marker.TypePoint && c.anchor == nil {
		return
	}
	c.store.Dispatch(editor.SetDraftMarker{Marker: c.draftAt(st, p)})
}

func (c *Controller) finishPlacement(st editor.State, p geometry.Point2D) {
	if !st.Mode.Placing() || st.Placement == nil {
		c.anchor = nil
		return
	}
	// A click that set the anchor waits for the second click; a press that
	// was dragged commits on release.
	if st.Placement.Type != marker.TypePoint && c.anchorFresh && !c.moved {
		c.anchorFresh = false
		return
	}
	if st.Placement.Type != marker.TypePoint && c.anchor == nil {
		return
	}
	draft := c.draftAt(st, p)
	c.anchor = nil
	c.anchorFresh = false
	c.store.Dispatch(editor.CommitDraftMarker{Marker: draft})
	if c.onCanvasClick != nil && !c.moved {
		c.onCanvasClick(p)
	}
}
