// Package dialogs provides application dialogs.
package dialogs

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/widget"

	"signage-planner/internal/marker"
)

// MarkerFields holds the editable text of a marker's geometry. Only the
// fields for the marker's type are used.
type MarkerFields struct {
	X, Y     string
	Rotation string
	Radius   string
	Width    string
	Height   string
	X2, Y2   string
}

// FieldsFor formats m's geometry for editing.
func FieldsFor(m marker.Marker) MarkerFields {
	f := MarkerFields{
		X:        formatNum(m.X),
		Y:        formatNum(m.Y),
		Rotation: formatNum(m.Rotation),
	}
	switch s := m.Shape.(type) {
	case marker.PointShape:
		f.Radius = formatNum(s.Radius)
	case marker.AreaShape:
		f.Width = formatNum(s.Width)
		f.Height = formatNum(s.Height)
	case marker.LineShape:
		f.X2 = formatNum(s.X2)
		f.Y2 = formatNum(s.Y2)
	}
	return f
}

// Apply parses the fields into a copy of m. The marker type never changes.
func (f MarkerFields) Apply(m marker.Marker) (marker.Marker, error) {
	var errs []error
	num := func(name, text string) float64 {
		v, err := strconv.ParseFloat(strings.TrimSpace(text), 64)
		if err != nil {
			errs = append(errs, fmt.Errorf("%s: not a number: %q", name, text))
		}
		return v
	}

	m.X = num("x", f.X)
	m.Y = num("y", f.Y)

	switch m.Type() {
	case marker.TypeArea:
		m.Rotation = num("rotation", f.Rotation)
		w, h := num("width", f.Width), num("height", f.Height)
		if w < marker.MinAreaSide || h < marker.MinAreaSide {
			errs = append(errs, fmt.Errorf("width and height must be at least %g", marker.MinAreaSide))
		}
		m.Shape = marker.AreaShape{Width: w, Height: h}
	case marker.TypeLine:
		m.Shape = marker.LineShape{X2: num("x2", f.X2), Y2: num("y2", f.Y2)}
	default:
		m.Rotation = num("rotation", f.Rotation)
		r := num("radius", f.Radius)
		if r <= 0 {
			errs = append(errs, errors.New("radius must be positive"))
		}
		m.Shape = marker.PointShape{Radius: r}
	}

	if err := errors.Join(errs...); err != nil {
		return marker.Marker{}, err
	}
	return m, nil
}

func formatNum(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// MarkerDialog edits the geometry of one placed marker.
type MarkerDialog struct {
	marker marker.Marker
	window fyne.Window

	xEntry, yEntry   *widget.Entry
	rotationEntry    *widget.Entry
	radiusEntry      *widget.Entry
	widthEntry       *widget.Entry
	heightEntry      *widget.Entry
	x2Entry, y2Entry *widget.Entry

	onSave func(marker.Marker)
}

// NewMarkerDialog creates a dialog for m. onSave receives the edited marker.
func NewMarkerDialog(m marker.Marker, window fyne.Window, onSave func(marker.Marker)) *MarkerDialog {
	return &MarkerDialog{marker: m, window: window, onSave: onSave}
}

// Show displays the dialog.
func (d *MarkerDialog) Show() {
	dlg := dialog.NewCustomConfirm(
		fmt.Sprintf("Marker: %s", d.marker.Name),
		"Apply",
		"Cancel",
		d.createContent(),
		func(ok bool) {
			if !ok {
				return
			}
			m, err := d.fields().Apply(d.marker)
			if err != nil {
				dialog.ShowError(err, d.window)
				return
			}
			if d.onSave != nil {
				d.onSave(m)
			}
		},
		d.window,
	)
	dlg.Resize(fyne.NewSize(360, 0))
	dlg.Show()
}

func (d *MarkerDialog) createContent() fyne.CanvasObject {
	f := FieldsFor(d.marker)
	entry := func(text string) *widget.Entry {
		e := widget.NewEntry()
		e.SetText(text)
		return e
	}
	d.xEntry = entry(f.X)
	d.yEntry = entry(f.Y)
	d.rotationEntry = entry(f.Rotation)
	d.radiusEntry = entry(f.Radius)
	d.widthEntry = entry(f.Width)
	d.heightEntry = entry(f.Height)
	d.x2Entry = entry(f.X2)
	d.y2Entry = entry(f.Y2)

	form := widget.NewForm(
		widget.NewFormItem("Type", widget.NewLabel(string(d.marker.Type()))),
		widget.NewFormItem("X", d.xEntry),
		widget.NewFormItem("Y", d.yEntry),
	)
	switch d.marker.Type() {
	case marker.TypeArea:
		form.Append("Width", d.widthEntry)
		form.Append("Height", d.heightEntry)
		form.Append("Rotation", d.rotationEntry)
	case marker.TypeLine:
		form.Append("End X", d.x2Entry)
		form.Append("End Y", d.y2Entry)
	default:
		form.Append("Radius", d.radiusEntry)
	}
	return form
}

func (d *MarkerDialog) fields() MarkerFields {
	return MarkerFields{
		X:        d.xEntry.Text,
		Y:        d.yEntry.Text,
		Rotation: d.rotationEntry.Text,
		Radius:   d.radiusEntry.Text,
		Width:    d.widthEntry.Text,
		Height:   d.heightEntry.Text,
		X2:       d.x2Entry.Text,
		Y2:       d.y2Entry.Text,
	}
}
