// Package canvas provides the floor-plan drawing surface: a fyne widget that
// renders markers over the plan image and turns pointer input into editor
// actions.
package canvas

import (
	"image"
	"sync"
	"time"

	"fyne.io/fyne/v2"
	fynecanvas "fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/driver/desktop"
	"fyne.io/fyne/v2/widget"

	"signage-planner/internal/editor"
	planimage "signage-planner/internal/image"
)

// pulsePeriod is one half-cycle of the selection pulse.
const pulsePeriod = 700 * time.Millisecond

// StateStore is a Store that can also notify about state changes.
type StateStore interface {
	Store
	Subscribe(editor.Listener) func()
}

// FloorPlanCanvas displays a floor plan with its markers and forwards input
// to a Controller.
type FloorPlanCanvas struct {
	widget.BaseWidget

	store  StateStore
	ctrl   *Controller
	raster *fynecanvas.Raster

	// inputMu serialises controller access between the event goroutine and
	// animation ticks. mu guards display settings and is never held while
	// dispatching.
	inputMu     sync.Mutex
	mu          sync.Mutex
	layer       *planimage.Layer
	showGrid    bool
	gridSpacing float64
	showLabels  bool
	pulse       float64

	anim        *fyne.Animation
	unsubscribe func()

	// Last rendered output for export and tests.
	lastOutput *image.RGBA
}

// NewFloorPlanCanvas creates a canvas driving store.
func NewFloorPlanCanvas(store StateStore) *FloorPlanCanvas {
	fc := &FloorPlanCanvas{
		store:       store,
		ctrl:        NewController(store),
		gridSpacing: 50,
		showLabels:  true,
	}
	fc.raster = fynecanvas.NewRaster(fc.draw)
	fc.raster.ScaleMode = fynecanvas.ImageScalePixels

	fc.unsubscribe = store.Subscribe(func(editor.State) {
		fc.raster.Refresh()
	})

	fc.anim = fyne.NewAnimation(pulsePeriod, fc.tick)
	fc.anim.AutoReverse = true
	fc.anim.RepeatCount = fyne.AnimationRepeatForever

	fc.ExtendBaseWidget(fc)
	return fc
}

// Controller returns the input controller.
func (fc *FloorPlanCanvas) Controller() *Controller {
	return fc.ctrl
}

// SetLayer sets the floor-plan image. A nil layer shows the plain plan
// extent.
func (fc *FloorPlanCanvas) SetLayer(layer *planimage.Layer) {
	fc.mu.Lock()
	fc.layer = layer
	fc.mu.Unlock()
	fc.raster.Refresh()
}

// Layer returns the current image layer.
func (fc *FloorPlanCanvas) Layer() *planimage.Layer {
	fc.mu.Lock()
	defer fc.mu.Unlock()
	return fc.layer
}

// SetGrid shows or hides the alignment grid. spacing is in floor-plan pixels
// and is ignored when not positive.
func (fc *FloorPlanCanvas) SetGrid(show bool, spacing float64) {
	fc.mu.Lock()
	fc.showGrid = show
	if spacing > 0 {
		fc.gridSpacing = spacing
	}
	fc.mu.Unlock()
	fc.raster.Refresh()
}

// SetShowLabels toggles marker name labels.
func (fc *FloorPlanCanvas) SetShowLabels(show bool) {
	fc.mu.Lock()
	fc.showLabels = show
	fc.mu.Unlock()
	fc.raster.Refresh()
}

// SetFrameInterval sets the gesture update rate limit.
func (fc *FloorPlanCanvas) SetFrameInterval(d time.Duration) {
	fc.withController(func(c *Controller) { c.SetFrameInterval(d) })
}

// RenderedOutput returns the last rendered frame.
func (fc *FloorPlanCanvas) RenderedOutput() *image.RGBA {
	fc.mu.Lock()
	defer fc.mu.Unlock()
	return fc.lastOutput
}

// Scene returns what the next frame will show.
func (fc *FloorPlanCanvas) Scene() Scene {
	sc := SceneFromState(fc.store.State())
	fc.mu.Lock()
	defer fc.mu.Unlock()
	if fc.layer != nil && fc.layer.Visible {
		sc.Image = fc.layer.Image
	}
	sc.ShowGrid = fc.showGrid
	sc.GridSpacing = fc.gridSpacing
	sc.ShowLabels = fc.showLabels
	sc.Pulse = fc.pulse
	return sc
}

// Refresh redraws the canvas.
func (fc *FloorPlanCanvas) Refresh() {
	fc.raster.Refresh()
}

// Resize tells the controller the new surface size.
func (fc *FloorPlanCanvas) Resize(size fyne.Size) {
	fc.withController(func(c *Controller) {
		c.SetSize(float64(size.Width), float64(size.Height))
	})
	fc.BaseWidget.Resize(size)
}

// MinSize implements fyne.Widget.
func (fc *FloorPlanCanvas) MinSize() fyne.Size {
	return fyne.NewSize(200, 150)
}

func (fc *FloorPlanCanvas) draw(w, h int) image.Image {
	out := image.NewRGBA(image.Rect(0, 0, w, h))
	Render(out, fc.Scene())
	fc.mu.Lock()
	fc.lastOutput = out
	fc.mu.Unlock()
	return out
}

// tick runs once per animation frame. It advances the selection pulse and
// applies any pointer position held back by the frame limiter.
func (fc *FloorPlanCanvas) tick(v float32) {
	fc.withController(func(c *Controller) { c.Flush() })
	fc.mu.Lock()
	fc.pulse = float64(v)
	fc.mu.Unlock()
	if len(fc.store.State().Selected) > 0 {
		fc.raster.Refresh()
	}
}

func (fc *FloorPlanCanvas) withController(fn func(*Controller)) {
	fc.inputMu.Lock()
	defer fc.inputMu.Unlock()
	fn(fc.ctrl)
}

// MouseDown implements desktop.Mouseable.
func (fc *FloorPlanCanvas) MouseDown(ev *desktop.MouseEvent) {
	if ev.Button != desktop.MouseButtonPrimary {
		return
	}
	fc.requestFocus()
	mods := Modifiers{Shift: ev.Modifier&fyne.KeyModifierShift != 0}
	fc.withController(func(c *Controller) {
		c.PointerDown(float64(ev.Position.X), float64(ev.Position.Y), mods)
	})
}

// MouseUp implements desktop.Mouseable.
func (fc *FloorPlanCanvas) MouseUp(ev *desktop.MouseEvent) {
	if ev.Button != desktop.MouseButtonPrimary {
		return
	}
	fc.withController(func(c *Controller) {
		c.PointerUp(float64(ev.Position.X), float64(ev.Position.Y))
	})
}

// MouseIn implements desktop.Hoverable.
func (fc *FloorPlanCanvas) MouseIn(*desktop.MouseEvent) {}

// MouseMoved implements desktop.Hoverable.
func (fc *FloorPlanCanvas) MouseMoved(ev *desktop.MouseEvent) {
	fc.withController(func(c *Controller) {
		c.PointerMove(float64(ev.Position.X), float64(ev.Position.Y))
	})
}

// MouseOut implements desktop.Hoverable.
func (fc *FloorPlanCanvas) MouseOut() {}

// Dragged implements fyne.Draggable.
func (fc *FloorPlanCanvas) Dragged(ev *fyne.DragEvent) {
	fc.withController(func(c *Controller) {
		c.PointerMove(float64(ev.Position.X), float64(ev.Position.Y))
	})
}

// DragEnd implements fyne.Draggable. Releases outside the widget are not
// reported through MouseUp, so the gesture is finished here as well.
func (fc *FloorPlanCanvas) DragEnd() {
	fc.withController(func(c *Controller) {
		if c.Active() {
			c.PointerUp(c.last.X, c.last.Y)
		}
	})
}

// Scrolled implements fyne.Scrollable.
func (fc *FloorPlanCanvas) Scrolled(ev *fyne.ScrollEvent) {
	fc.withController(func(c *Controller) {
		c.Wheel(float64(ev.Position.X), float64(ev.Position.Y), float64(ev.Scrolled.DY))
	})
}

// DoubleTapped implements fyne.DoubleTappable.
func (fc *FloorPlanCanvas) DoubleTapped(ev *fyne.PointEvent) {
	fc.withController(func(c *Controller) {
		c.DoubleClick(float64(ev.Position.X), float64(ev.Position.Y))
	})
}

// FocusGained implements fyne.Focusable.
func (fc *FloorPlanCanvas) FocusGained() {}

// FocusLost implements fyne.Focusable.
func (fc *FloorPlanCanvas) FocusLost() {}

// TypedRune implements fyne.Focusable.
func (fc *FloorPlanCanvas) TypedRune(r rune) {
	var k Key
	switch r {
	case '+', '=':
		k = KeyPlus
	case '-', '_':
		k = KeyMinus
	case '0':
		k = KeyZero
	default:
		return
	}
	fc.withController(func(c *Controller) { c.Key(k) })
}

// TypedKey implements fyne.Focusable.
func (fc *FloorPlanCanvas) TypedKey(ev *fyne.KeyEvent) {
	var k Key
	switch ev.Name {
	case fyne.KeyEscape:
		k = KeyEscape
	case fyne.KeyDelete:
		k = KeyDelete
	case fyne.KeyBackspace:
		k = KeyBackspace
	default:
		return
	}
	fc.withController(func(c *Controller) { c.Key(k) })
}

func (fc *FloorPlanCanvas) requestFocus() {
	app := fyne.CurrentApp()
	if app == nil {
		return
	}
	if c := app.Driver().CanvasForObject(fc); c != nil {
		c.Focus(fc)
	}
}

// CreateRenderer implements fyne.Widget.
func (fc *FloorPlanCanvas) CreateRenderer() fyne.WidgetRenderer {
	fc.anim.Start()
	return &floorPlanRenderer{canvas: fc}
}

type floorPlanRenderer struct {
	canvas *FloorPlanCanvas
}

func (r *floorPlanRenderer) Layout(size fyne.Size) {
	r.canvas.raster.Resize(size)
}

func (r *floorPlanRenderer) MinSize() fyne.Size {
	return r.canvas.MinSize()
}

func (r *floorPlanRenderer) Refresh() {
	r.canvas.raster.Refresh()
}

func (r *floorPlanRenderer) Objects() []fyne.CanvasObject {
	return []fyne.CanvasObject{r.canvas.raster}
}

func (r *floorPlanRenderer) Destroy() {
	r.canvas.anim.Stop()
	if r.canvas.unsubscribe != nil {
		r.canvas.unsubscribe()
		r.canvas.unsubscribe = nil
	}
}
