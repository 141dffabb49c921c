// Package mainwindow provides the main application window.
package mainwindow

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/driver/desktop"
	"fyne.io/fyne/v2/storage"
	"fyne.io/fyne/v2/theme"
	"fyne.io/fyne/v2/widget"
	"github.com/rs/zerolog"

	"signage-planner/internal/app"
	"signage-planner/internal/editor"
	planimage "signage-planner/internal/image"
	"signage-planner/internal/marker"
	"signage-planner/internal/store"
	"signage-planner/internal/version"
	"signage-planner/pkg/geometry"
	"signage-planner/ui/canvas"
	"signage-planner/ui/dialogs"
	"signage-planner/ui/panels"
	"signage-planner/ui/prefs"
)

const appTitle = "Signage Planner"

// Spots is the spot lookup the window needs: the list for the side panel
// and single-spot details for the open-spot dialog.
type Spots interface {
	panels.SpotSource
	FindByID(ctx context.Context, id string) (*store.SignageSpot, error)
}

// Options configure a window.
type Options struct {
	FloorPlanName string
	FrameInterval time.Duration
	Canvas        prefs.Canvas
}

// MainWindow is the primary application window.
type MainWindow struct {
	fyne.Window
	session *app.Session
	spots   Spots
	prefs   *prefs.Prefs
	log     zerolog.Logger

	canvas    *canvas.FloorPlanCanvas
	spotList  *panels.SpotList
	statusBar *widget.Label
	infoLabel *widget.Label

	settings prefs.Canvas

	gridItem   *fyne.MenuItem
	labelsItem *fyne.MenuItem
}

// New creates the main window for an open session.
func New(fyneApp fyne.App, session *app.Session, spots Spots, p *prefs.Prefs, opts Options, log zerolog.Logger) *MainWindow {
	title := appTitle
	if opts.FloorPlanName != "" {
		title = appTitle + " - " + opts.FloorPlanName
	}
	if session.Store().State().ReadOnly {
		title += " (read-only)"
	}

	mw := &MainWindow{
		Window:   fyneApp.NewWindow(title),
		session:  session,
		spots:    spots,
		prefs:    p,
		log:      log.With().Str("component", "mainwindow").Logger(),
		settings: opts.Canvas,
	}

	mw.setupUI(opts)
	mw.setupMenus()
	mw.setupShortcuts()
	mw.setupEventHandlers()

	width := float32(p.Float(prefs.KeyWindowWidth, 1280))
	height := float32(p.Float(prefs.KeyWindowHeight, 800))
	mw.Resize(fyne.NewSize(width, height))
	mw.SetOnClosed(mw.savePreferences)
	return mw
}

// SetLayer replaces the floor-plan image.
func (mw *MainWindow) SetLayer(layer *planimage.Layer) {
	mw.canvas.SetLayer(layer)
}

// Reload refreshes markers and the spot list from storage.
func (mw *MainWindow) Reload(ctx context.Context) {
	if err := mw.session.Reload(ctx); err != nil {
		mw.showError(err)
		return
	}
	if err := mw.spotList.Reload(ctx); err != nil {
		mw.showError(err)
		return
	}
	mw.updateStatus("Reloaded")
}

func (mw *MainWindow) setupUI(opts Options) {
	st := mw.session.Store()

	mw.canvas = canvas.NewFloorPlanCanvas(st)
	mw.canvas.SetFrameInterval(opts.FrameInterval)
	mw.canvas.SetGrid(mw.settings.ShowGrid, mw.settings.GridSpacing)
	mw.canvas.SetShowLabels(mw.settings.ShowLabels)

	mw.spotList = panels.NewSpotList(mw.spots, st, mw.session.FloorPlanID(), mw.log)
	mw.spotList.OnError(mw.showError)

	mw.statusBar = widget.NewLabel("Ready")
	mw.infoLabel = widget.NewLabel("")
	st.Subscribe(func(s editor.State) { mw.updateInfo(s) })
	mw.updateInfo(st.State())

	canvasArea := container.NewBorder(mw.createToolbar(), nil, nil, nil, mw.canvas)

	split := container.NewHSplit(mw.spotList.Container(), canvasArea)
	split.SetOffset(0.22)

	content := container.NewBorder(
		nil,
		container.NewPadded(container.NewBorder(nil, nil, nil, mw.infoLabel, mw.statusBar)),
		nil,
		nil,
		split,
	)
	mw.SetContent(content)
}

func (mw *MainWindow) createToolbar() fyne.CanvasObject {
	return widget.NewToolbar(
		widget.NewToolbarAction(theme.ContentUndoIcon(), mw.onUndo),
		widget.NewToolbarAction(theme.ContentRedoIcon(), mw.onRedo),
		widget.NewToolbarSeparator(),
		widget.NewToolbarAction(theme.ZoomInIcon(), mw.onZoomIn),
		widget.NewToolbarAction(theme.ZoomOutIcon(), mw.onZoomOut),
		widget.NewToolbarAction(theme.ZoomFitIcon(), mw.onResetView),
		widget.NewToolbarSeparator(),
		widget.NewToolbarAction(theme.DocumentCreateIcon(), mw.onEditMarker),
		widget.NewToolbarAction(theme.DeleteIcon(), mw.onDelete),
		widget.NewToolbarSeparator(),
		widget.NewToolbarAction(theme.GridIcon(), mw.onToggleGrid),
		widget.NewToolbarAction(theme.ViewRefreshIcon(), func() { mw.Reload(context.Background()) }),
	)
}

func (mw *MainWindow) setupMenus() {
	fileMenu := fyne.NewMenu("File",
		fyne.NewMenuItem("Reload", func() { mw.Reload(context.Background()) }),
		fyne.NewMenuItem("Export PNG...", mw.onExport),
	)

	editMenu := fyne.NewMenu("Edit",
		fyne.NewMenuItem("Undo", mw.onUndo),
		fyne.NewMenuItem("Redo", mw.onRedo),
		fyne.NewMenuItemSeparator(),
		fyne.NewMenuItem("Marker Properties...", mw.onEditMarker),
		fyne.NewMenuItem("Delete Selected", mw.onDelete),
		fyne.NewMenuItem("Deselect All", func() { mw.dispatch(editor.DeselectAll{}) }),
	)

	mw.gridItem = fyne.NewMenuItem("Show Grid", mw.onToggleGrid)
	mw.gridItem.Checked = mw.settings.ShowGrid
	mw.labelsItem = fyne.NewMenuItem("Show Labels", mw.onToggleLabels)
	mw.labelsItem.Checked = mw.settings.ShowLabels

	viewMenu := fyne.NewMenu("View",
		fyne.NewMenuItem("Zoom In", mw.onZoomIn),
		fyne.NewMenuItem("Zoom Out", mw.onZoomOut),
		fyne.NewMenuItem("Reset View", mw.onResetView),
		fyne.NewMenuItemSeparator(),
		mw.gridItem,
		mw.labelsItem,
	)

	helpMenu := fyne.NewMenu("Help",
		fyne.NewMenuItem("About", mw.onAbout),
	)

	mw.SetMainMenu(fyne.NewMainMenu(fileMenu, editMenu, viewMenu, helpMenu))
}

func (mw *MainWindow) setupShortcuts() {
	c := mw.Canvas()
	mod := fyne.KeyModifierShortcutDefault
	c.AddShortcut(&desktop.CustomShortcut{KeyName: fyne.KeyZ, Modifier: mod}, func(fyne.Shortcut) { mw.onUndo() })
	c.AddShortcut(&desktop.CustomShortcut{KeyName: fyne.KeyZ, Modifier: mod | fyne.KeyModifierShift}, func(fyne.Shortcut) { mw.onRedo() })
	c.AddShortcut(&desktop.CustomShortcut{KeyName: fyne.KeyY, Modifier: mod}, func(fyne.Shortcut) { mw.onRedo() })
	c.AddShortcut(&desktop.CustomShortcut{KeyName: fyne.KeyE, Modifier: mod}, func(fyne.Shortcut) { mw.onEditMarker() })
}

func (mw *MainWindow) setupEventHandlers() {
	ev := mw.session.Events()

	ev.On(app.EventMarkersLoaded, func(data interface{}) {
		if n, ok := data.(int); ok {
			mw.updateStatus(fmt.Sprintf("Markers updated (%d on plan)", n))
		}
	})
	ev.On(app.EventLoadFailed, func(data interface{}) {
		mw.reportError("Reload failed", data)
	})
	ev.On(app.EventSaveFailed, func(data interface{}) {
		mw.reportError("Save failed", data)
		if err, ok := data.(error); ok {
			dialog.ShowError(err, mw.Window)
		}
	})
	ev.On(app.EventDeleteFailed, func(data interface{}) {
		mw.reportError("Delete failed", data)
	})
	ev.On(app.EventHistoryFailed, func(data interface{}) {
		mw.reportError("History not recorded", data)
	})
	ev.On(app.EventOpenSpot, func(data interface{}) {
		if id, ok := data.(string); ok {
			mw.showSpot(id)
		}
	})
}

func (mw *MainWindow) dispatch(a editor.Action) {
	mw.session.Dispatch(a)
}

func (mw *MainWindow) updateStatus(text string) {
	mw.statusBar.SetText(text)
}

func (mw *MainWindow) reportError(prefix string, data interface{}) {
	msg := prefix
	if err, ok := data.(error); ok {
		msg = fmt.Sprintf("%s: %v", prefix, err)
	}
	mw.log.Warn().Msg(msg)
	mw.updateStatus(msg)
}

func (mw *MainWindow) showError(err error) {
	mw.updateStatus(err.Error())
	dialog.ShowError(err, mw.Window)
}

func (mw *MainWindow) updateInfo(s editor.State) {
	mw.infoLabel.SetText(infoText(s))
}

// infoText summarises the editor state for the status bar.
func infoText(s editor.State) string {
	parts := []string{string(s.Mode)}
	if s.Placement != nil {
		parts = append(parts, "placing "+s.Placement.SpotName)
	}
	if n := len(s.Selected); n > 0 {
		parts = append(parts, fmt.Sprintf("%d selected", n))
	}
	parts = append(parts, fmt.Sprintf("%d markers", len(s.Markers)))
	parts = append(parts, fmt.Sprintf("%.0f%%", s.ZoomLevel()*100))
	if s.ReadOnly {
		parts = append(parts, "read-only")
	}
	return strings.Join(parts, " | ")
}

func (mw *MainWindow) onUndo() {
	if !mw.session.Store().State().CanUndo() {
		mw.updateStatus("Nothing to undo")
		return
	}
	mw.dispatch(editor.Undo{})
}

func (mw *MainWindow) onRedo() {
	if !mw.session.Store().State().CanRedo() {
		mw.updateStatus("Nothing to redo")
		return
	}
	mw.dispatch(editor.Redo{})
}

func (mw *MainWindow) onZoomIn() { mw.dispatch(editor.ZoomIn{}) }

func (mw *MainWindow) onZoomOut() { mw.dispatch(editor.ZoomOut{}) }

func (mw *MainWindow) onResetView() { mw.dispatch(editor.ResetView{}) }

func (mw *MainWindow) onDelete() {
	if len(mw.session.Store().State().Selected) == 0 {
		return
	}
	mw.dispatch(editor.DeleteMarkers{})
}

func (mw *MainWindow) onEditMarker() {
	st := mw.session.Store().State()
	sel := st.SelectedMarkers()
	if st.ReadOnly || len(sel) != 1 {
		mw.updateStatus("Select one marker to edit")
		return
	}
	mw.dispatch(editor.SetMode{Mode: editor.ModeEdit})
	dialogs.NewMarkerDialog(sel[0], mw.Window, func(m marker.Marker) {
		mw.dispatch(editor.UpdateMarker{Marker: m})
	}).Show()
}

func (mw *MainWindow) onToggleGrid() {
	mw.settings.ShowGrid = !mw.settings.ShowGrid
	mw.canvas.SetGrid(mw.settings.ShowGrid, mw.settings.GridSpacing)
	mw.gridItem.Checked = mw.settings.ShowGrid
	mw.MainMenu().Refresh()
}

func (mw *MainWindow) onToggleLabels() {
	mw.settings.ShowLabels = !mw.settings.ShowLabels
	mw.canvas.SetShowLabels(mw.settings.ShowLabels)
	mw.labelsItem.Checked = mw.settings.ShowLabels
	mw.MainMenu().Refresh()
}

func (mw *MainWindow) onExport() {
	fd := dialog.NewFileSave(func(writer fyne.URIWriteCloser, err error) {
		if err != nil || writer == nil {
			return
		}
		defer writer.Close()
		sc := mw.canvas.Scene()
		sc.ViewBox = mw.fullView()
		sc.Selected = nil
		sc.Draft = nil
		if err := canvas.WritePNG(writer, sc, 0, 0); err != nil {
			mw.showError(err)
			return
		}
		mw.updateStatus("Exported " + writer.URI().Name())
	}, mw.Window)
	fd.SetFileName(mw.session.FloorPlanID() + ".png")
	fd.SetFilter(storage.NewExtensionFileFilter([]string{".png"}))
	fd.Show()
}

func (mw *MainWindow) fullView() geometry.ViewBox {
	return geometry.FitViewBox(mw.session.Store().State().FloorPlan.Dimensions())
}

func (mw *MainWindow) showSpot(id string) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	spot, err := mw.spots.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			mw.updateStatus("Spot no longer exists: " + id)
			return
		}
		mw.showError(err)
		return
	}
	dialog.ShowInformation(spot.Name, spotDetails(spot, time.Now()), mw.Window)
}

// spotDetails formats a spot for the information dialog.
func spotDetails(s *store.SignageSpot, now time.Time) string {
	st := marker.Status{Status: s.Status, ExpiryDate: s.ExpiryDate, NextPlannedDate: s.NextPlannedDate}
	lines := []string{
		"Status: " + string(marker.LabelFor(marker.Marker{Status: st}, now)),
	}
	if s.ExpiryDate != nil {
		lines = append(lines, "Expires: "+s.ExpiryDate.Format("2006-01-02"))
	}
	if s.NextPlannedDate != nil {
		lines = append(lines, "Next planned: "+s.NextPlannedDate.Format("2006-01-02"))
	}
	if s.PreviewImage != nil && *s.PreviewImage != "" {
		lines = append(lines, "Preview: "+*s.PreviewImage)
	}
	return strings.Join(lines, "\n")
}

func (mw *MainWindow) savePreferences() {
	size := mw.Canvas().Size()
	mw.prefs.SetFloat(prefs.KeyWindowWidth, float64(size.Width))
	mw.prefs.SetFloat(prefs.KeyWindowHeight, float64(size.Height))
	mw.prefs.SetCanvas(mw.settings)
	mw.prefs.SetString(prefs.KeyLastFloorPlan, mw.session.FloorPlanID())
	if err := mw.prefs.Save(); err != nil {
		mw.log.Warn().Err(err).Msg("Failed to save preferences")
	}
}

func (mw *MainWindow) onAbout() {
	dialog.ShowInformation("About "+appTitle,
		fmt.Sprintf("%s %s\n\nPlace and edit signage markers on venue floor plans.",
			appTitle, version.String()),
		mw.Window)
}
