package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/jedib0t/go-pretty/v6/table"

	"signage-planner/internal/marker"
	"signage-planner/internal/store"
)

func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func newTable(w io.Writer, header table.Row) table.Writer {
	tw := table.NewWriter()
	tw.SetOutputMirror(w)
	tw.SetStyle(table.StyleLight)
	tw.AppendHeader(header)
	return tw
}

func floorPlanTable(w io.Writer, plans []store.FloorPlan) table.Writer {
	tw := newTable(w, table.Row{"ID", "Name", "Level", "Size", "Image"})
	for _, p := range plans {
		size := "-"
		if p.OriginalWidth != nil && p.OriginalHeight != nil {
			size = fmt.Sprintf("%dx%d", *p.OriginalWidth, *p.OriginalHeight)
		}
		tw.AppendRow(table.Row{p.ID, p.Name, p.Level, size, p.ImageRef})
	}
	return tw
}

func spotTable(w io.Writer, spots []store.SignageSpot, now time.Time) table.Writer {
	tw := newTable(w, table.Row{"ID", "Name", "Status", "Label", "Placement"})
	placed := 0
	for _, s := range spots {
		if s.ShowOnMap {
			placed++
		}
		tw.AppendRow(table.Row{s.ID, s.Name, s.Status, spotLabel(s, now), placement(s)})
	}
	tw.AppendFooter(table.Row{"", fmt.Sprintf("%d spots", len(spots)), "", "", fmt.Sprintf("%d placed", placed)})
	return tw
}

func historyTable(w io.Writer, entries []store.MarkerHistory) (table.Writer, error) {
	tw := newTable(w, table.Row{"When", "Kind", "Markers"})
	for _, h := range entries {
		markers, err := decodeHistory(h)
		if err != nil {
			return nil, err
		}
		names := make([]string, 0, len(markers))
		for _, m := range markers {
			names = append(names, m.Name)
		}
		tw.AppendRow(table.Row{h.CreatedAt.Local().Format("2006-01-02 15:04:05"), h.Kind, strings.Join(names, ", ")})
	}
	return tw, nil
}

// spotLabel is the render category the editor would color the spot with.
func spotLabel(s store.SignageSpot, now time.Time) marker.Label {
	st := marker.Status{Status: s.Status, ExpiryDate: s.ExpiryDate, NextPlannedDate: s.NextPlannedDate}
	return marker.LabelFor(marker.Marker{Status: st}, now)
}

// placement summarises a spot's stored geometry.
func placement(s store.SignageSpot) string {
	if !s.ShowOnMap {
		return "-"
	}
	if s.MarkerType == nil || s.MarkerX == nil || s.MarkerY == nil {
		if s.XPercent != nil && s.YPercent != nil {
			return fmt.Sprintf("legacy %.1f%%,%.1f%%", *s.XPercent, *s.YPercent)
		}
		return "?"
	}
	at := fmt.Sprintf("%s @ %d,%d", *s.MarkerType, *s.MarkerX, *s.MarkerY)
	switch marker.Type(*s.MarkerType) {
	case marker.TypePoint:
		if s.MarkerRadius != nil {
			at += fmt.Sprintf(" r%d", *s.MarkerRadius)
		}
	case marker.TypeArea:
		if s.MarkerWidth != nil && s.MarkerHeight != nil {
			at += fmt.Sprintf(" %dx%d", *s.MarkerWidth, *s.MarkerHeight)
		}
	case marker.TypeLine:
		if s.MarkerX2 != nil && s.MarkerY2 != nil {
			at += fmt.Sprintf(" -> %d,%d", *s.MarkerX2, *s.MarkerY2)
		}
	}
	return at
}
