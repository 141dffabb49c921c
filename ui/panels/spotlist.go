// Package panels provides the editor's side panels.
package panels

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/widget"
	"github.com/rs/zerolog"

	"signage-planner/internal/editor"
	"signage-planner/internal/marker"
	"signage-planner/internal/store"
	"signage-planner/ui/canvas"
)

// SpotSource lists the spots of a floor plan.
type SpotSource interface {
	FindByFloorPlanID(ctx context.Context, floorPlanID string) ([]store.SignageSpot, error)
}

// SpotItem is one row of the spot list.
type SpotItem struct {
	ID     string
	Name   string
	Status marker.Status
	Placed bool
}

// typeChoices are the marker types offered for placement, in menu order.
var typeChoices = []marker.Type{marker.TypePoint, marker.TypeArea, marker.TypeLine}

// SpotList lists a floor plan's spots and starts marker placement for the
// selected one.
type SpotList struct {
	source      SpotSource
	store       canvas.StateStore
	floorPlanID string
	log         zerolog.Logger

	mu       sync.RWMutex
	spots    []store.SignageSpot
	items    []SpotItem
	selected int

	container  fyne.CanvasObject
	list       *widget.List
	typeSelect *widget.Select
	placeBtn   *widget.Button
	removeBtn  *widget.Button
	status     *widget.Label

	onError func(error)
}

// NewSpotList creates the panel. Call Reload to populate it.
func NewSpotList(source SpotSource, st canvas.StateStore, floorPlanID string, log zerolog.Logger) *SpotList {
	sl := &SpotList{
		source:      source,
		store:       st,
		floorPlanID: floorPlanID,
		log:         log.With().Str("component", "spotlist").Logger(),
		selected:    -1,
	}

	sl.list = widget.NewList(
		func() int {
			sl.mu.RLock()
			defer sl.mu.RUnlock()
			return len(sl.items)
		},
		func() fyne.CanvasObject {
			return widget.NewLabel("Spot name")
		},
		func(id widget.ListItemID, obj fyne.CanvasObject) {
			sl.mu.RLock()
			defer sl.mu.RUnlock()
			if id < len(sl.items) {
				obj.(*widget.Label).SetText(itemLabel(sl.items[id]))
			}
		},
	)
	sl.list.OnSelected = func(id widget.ListItemID) { sl.Select(id) }

	names := make([]string, len(typeChoices))
	for i, t := range typeChoices {
		names[i] = string(t)
	}
	sl.typeSelect = widget.NewSelect(names, nil)
	sl.typeSelect.SetSelected(string(marker.TypePoint))

	sl.placeBtn = widget.NewButton("Place", func() {
		sl.Place(marker.Type(sl.typeSelect.Selected))
	})
	sl.removeBtn = widget.NewButton("Remove", sl.Remove)
	sl.status = widget.NewLabel("")

	sl.container = container.NewBorder(
		widget.NewLabel("Signage spots"),
		container.NewVBox(
			container.NewGridWithColumns(3, sl.typeSelect, sl.placeBtn, sl.removeBtn),
			sl.status,
		),
		nil, nil,
		sl.list,
	)

	st.Subscribe(func(s editor.State) { sl.syncPlaced(s) })
	sl.updateButtons()
	return sl
}

// Container returns the panel for embedding.
func (sl *SpotList) Container() fyne.CanvasObject {
	return sl.container
}

// OnError sets a callback for load failures.
func (sl *SpotList) OnError(fn func(error)) {
	sl.onError = fn
}

// Reload fetches the spot list.
func (sl *SpotList) Reload(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	spots, err := sl.source.FindByFloorPlanID(ctx, sl.floorPlanID)
	if err != nil {
		sl.log.Error().Err(err).Msg("loading spots")
		if sl.onError != nil {
			sl.onError(err)
		}
		return fmt.Errorf("loading spots: %w", err)
	}
	sort.SliceStable(spots, func(i, j int) bool { return spots[i].Name < spots[j].Name })

	sl.mu.Lock()
	sl.spots = spots
	sl.mu.Unlock()
	sl.syncPlaced(sl.store.State())
	sl.log.Debug().Int("count", len(spots)).Msg("spots loaded")
	return nil
}

// Items returns the current rows.
func (sl *SpotList) Items() []SpotItem {
	sl.mu.RLock()
	defer sl.mu.RUnlock()
	return append([]SpotItem(nil), sl.items...)
}

// Select makes row i current. A placed spot's marker is selected on the
// canvas as well.
func (sl *SpotList) Select(i int) {
	sl.mu.Lock()
	if i < 0 || i >= len(sl.items) {
		sl.mu.Unlock()
		return
	}
	sl.selected = i
	item := sl.items[i]
	sl.mu.Unlock()

	if item.Placed {
		sl.store.Dispatch(editor.SelectMarker{ID: item.ID})
	}
	sl.updateButtons()
}

// Place starts placing a marker of type t for the current spot.
func (sl *SpotList) Place(t marker.Type) {
	item, ok := sl.current()
	if !ok {
		return
	}
	if !t.Valid() {
		t = marker.TypePoint
	}
	sl.store.Dispatch(editor.StartPlacement{
		Type:     t,
		SpotID:   item.ID,
		SpotName: item.Name,
		Status:   item.Status,
	})
	if st := sl.store.State(); st.Placement != nil && st.Placement.SpotID == item.ID {
		sl.setStatus(fmt.Sprintf("Placing %s: click on the plan", item.Name))
	}
}

// Remove deletes the current spot's marker from the plan.
func (sl *SpotList) Remove() {
	item, ok := sl.current()
	if !ok || !item.Placed {
		return
	}
	sl.store.Dispatch(editor.DeleteMarkers{IDs: []string{item.ID}})
}

func (sl *SpotList) current() (SpotItem, bool) {
	sl.mu.RLock()
	defer sl.mu.RUnlock()
	if sl.selected < 0 || sl.selected >= len(sl.items) {
		return SpotItem{}, false
	}
	return sl.items[sl.selected], true
}

// syncPlaced rebuilds the rows from the loaded spots and the markers now on
// the plan.
func (sl *SpotList) syncPlaced(s editor.State) {
	sl.mu.Lock()
	items := make([]SpotItem, len(sl.spots))
	for i, sp := range sl.spots {
		_, placed := marker.Find(s.Markers, sp.ID)
		items[i] = SpotItem{ID: sp.ID, Name: sp.Name, Status: spotStatus(sp), Placed: placed}
	}
	sl.items = items
	if sl.selected >= len(items) {
		sl.selected = -1
	}
	sl.mu.Unlock()

	sl.list.Refresh()
	sl.updateButtons()
	if s.Placement == nil {
		sl.setStatus("")
	}
}

func (sl *SpotList) updateButtons() {
	item, ok := sl.current()
	readOnly := sl.store.State().ReadOnly
	if !ok || readOnly {
		sl.placeBtn.Disable()
	} else {
		sl.placeBtn.Enable()
	}
	if !ok || readOnly || !item.Placed {
		sl.removeBtn.Disable()
	} else {
		sl.removeBtn.Enable()
	}
}

func (sl *SpotList) setStatus(text string) {
	if sl.status.Text != text {
		sl.status.SetText(text)
	}
}

func spotStatus(sp store.SignageSpot) marker.Status {
	s := marker.Status{
		Status:          sp.Status,
		ExpiryDate:      sp.ExpiryDate,
		NextPlannedDate: sp.NextPlannedDate,
		Visible:         sp.ShowOnMap,
	}
	if sp.PreviewImage != nil {
		s.PreviewImage = *sp.PreviewImage
	}
	return s
}

func itemLabel(it SpotItem) string {
	mark := "○"
	if it.Placed {
		mark = "●"
	}
	return fmt.Sprintf("%s %s (%s)", mark, it.Name, marker.LabelFor(marker.Marker{Status: it.Status}, time.Now()))
}
