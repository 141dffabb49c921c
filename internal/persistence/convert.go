package persistence

import (
	"math"

	"signage-planner/internal/marker"
)

// ToFloorPlan converts a backend floor plan.
func ToFloorPlan(r FloorPlanRecord) marker.FloorPlan {
	return marker.FloorPlan{
		ID:             r.ID,
		Name:           r.Name,
		ImageRef:       r.ImageRef,
		OriginalWidth:  r.Width,
		OriginalHeight: r.Height,
	}
}

// ToMarker converts a stored spot into a marker. Pixel fields win over the
// legacy percentage fields. It returns false when the record has no usable
// position.
func ToMarker(r SpotRecord, fp marker.FloorPlan) (marker.Marker, bool) {
	m := marker.Marker{
		ID:          r.ID,
		FloorPlanID: r.FloorPlanID,
		SpotID:      r.ID,
		Name:        r.Name,
		Status: marker.Status{
			Status:          r.Status,
			ExpiryDate:      r.ExpiryDate,
			NextPlannedDate: r.NextPlannedDate,
			PreviewImage:    r.PreviewImage,
			Visible:         r.ShowOnMap,
		},
	}
	if m.FloorPlanID == "" {
		m.FloorPlanID = fp.ID
	}

	var ok bool
	if r.MarkerX != nil && r.MarkerY != nil {
		m, ok = fromPixels(m, r)
	} else if r.XPercent != nil && r.YPercent != nil {
		m, ok = fromPercent(m, r, fp)
	}
	if !ok {
		return marker.Marker{}, false
	}
	return m.Clamped(fp), true
}

// ToMarkers converts spots, returning the markers and how many records were
// dropped for lack of position data.
func ToMarkers(records []SpotRecord, fp marker.FloorPlan) ([]marker.Marker, int) {
	markers := make([]marker.Marker, 0, len(records))
	dropped := 0
	for _, r := range records {
		m, ok := ToMarker(r, fp)
		if !ok {
			dropped++
			continue
		}
		markers = append(markers, m)
	}
	return markers, dropped
}

func fromPixels(m marker.Marker, r SpotRecord) (marker.Marker, bool) {
	m.X = float64(*r.MarkerX)
	m.Y = float64(*r.MarkerY)
	if r.MarkerRotation != nil {
		m.Rotation = float64(*r.MarkerRotation)
	}

	switch marker.Type(r.MarkerType) {
	case marker.TypeArea:
		s := marker.AreaShape{Width: marker.MinAreaSide, Height: marker.MinAreaSide}
		if r.MarkerWidth != nil {
			s.Width = math.Max(float64(*r.MarkerWidth), marker.MinAreaSide)
		}
		if r.MarkerHeight != nil {
			s.Height = math.Max(float64(*r.MarkerHeight), marker.MinAreaSide)
		}
		m.Shape = s
	case marker.TypeLine:
		s := marker.LineShape{X2: m.X, Y2: m.Y}
		if r.MarkerX2 != nil && r.MarkerY2 != nil {
			s.X2, s.Y2 = float64(*r.MarkerX2), float64(*r.MarkerY2)
		}
		m.Shape = s
		m.Rotation = 0
	default:
		radius := marker.DefaultRadius
		if r.MarkerRadius != nil && *r.MarkerRadius > 0 {
			radius = float64(*r.MarkerRadius)
		}
		m.Shape = marker.PointShape{Radius: radius}
	}
	return m, true
}

func fromPercent(m marker.Marker, r SpotRecord, fp marker.FloorPlan) (marker.Marker, bool) {
	w, h := fp.Dimensions()
	m.X = *r.XPercent / 100 * w
	m.Y = *r.YPercent / 100 * h

	if r.WidthPercent != nil && r.HeightPercent != nil {
		m.Shape = marker.AreaShape{
			Width:  math.Max(*r.WidthPercent/100*w, marker.MinAreaSide),
			Height: math.Max(*r.HeightPercent/100*h, marker.MinAreaSide),
		}
		return m, true
	}
	m.Shape = marker.PointShape{Radius: marker.DefaultRadius}
	return m, true
}

// ToGeometry rounds a marker's geometry to integer pixels.
func ToGeometry(m marker.Marker) Geometry {
	g := Geometry{
		Type:     string(m.Type()),
		X:        round(m.X),
		Y:        round(m.Y),
		Rotation: round(m.Rotation),
	}
	switch s := m.Shape.(type) {
	case marker.PointShape:
		g.Radius = intPtr(round(s.Radius))
	case marker.AreaShape:
		g.Width = intPtr(round(s.Width))
		g.Height = intPtr(round(s.Height))
	case marker.LineShape:
		g.X2 = intPtr(round(s.X2))
		g.Y2 = intPtr(round(s.Y2))
		g.Rotation = 0
	default:
		g.Radius = intPtr(round(marker.DefaultRadius))
	}
	return g
}

func round(v float64) int {
	return int(math.Round(v))
}

func intPtr(v int) *int {
	return &v
}
