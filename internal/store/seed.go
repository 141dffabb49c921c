package store

import (
	"context"
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
	"gorm.io/gorm"
)

const dateLayout = "2006-01-02"

// Venue is the seed file format: one venue with its floor plans and spots.
type Venue struct {
	ID         string          `yaml:"id"`
	Name       string          `yaml:"name"`
	FloorPlans []SeedFloorPlan `yaml:"floorPlans"`
}

// SeedFloorPlan describes a floor plan in a seed file.
type SeedFloorPlan struct {
	ID     string     `yaml:"id"`
	Name   string     `yaml:"name"`
	Level  int        `yaml:"level"`
	Image  string     `yaml:"image"`
	Width  int        `yaml:"width"`
	Height int        `yaml:"height"`
	Spots  []SeedSpot `yaml:"spots"`
}

// SeedSpot describes a spot and, optionally, its placement.
type SeedSpot struct {
	ID              string      `yaml:"id"`
	Name            string      `yaml:"name"`
	Status          string      `yaml:"status"`
	ExpiryDate      string      `yaml:"expiryDate"`
	NextPlannedDate string      `yaml:"nextPlannedDate"`
	PreviewImage    string      `yaml:"previewImage"`
	Marker          *SeedMarker `yaml:"marker"`
	Legacy          *SeedLegacy `yaml:"legacy"`
}

// SeedMarker is a pixel placement.
type SeedMarker struct {
	Type     string `yaml:"type"`
	X        int    `yaml:"x"`
	Y        int    `yaml:"y"`
	X2       *int   `yaml:"x2"`
	Y2       *int   `yaml:"y2"`
	Width    *int   `yaml:"width"`
	Height   *int   `yaml:"height"`
	Radius   *int   `yaml:"radius"`
	Rotation int    `yaml:"rotation"`
}

// SeedLegacy is a percentage placement as written by older clients.
type SeedLegacy struct {
	X      float64  `yaml:"x"`
	Y      float64  `yaml:"y"`
	Width  *float64 `yaml:"width"`
	Height *float64 `yaml:"height"`
}

// SeedResult counts what a seed created.
type SeedResult struct {
	FloorPlans int
	Spots      int
	Placed     int
}

// LoadVenue reads a seed file.
func LoadVenue(path string) (*Venue, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read seed file: %w", err)
	}
	return ParseVenue(data)
}

// ParseVenue decodes seed YAML.
func ParseVenue(data []byte) (*Venue, error) {
	var v Venue
	if err := yaml.Unmarshal(data, &v); err != nil {
		return nil, fmt.Errorf("failed to parse seed file: %w", err)
	}
	if len(v.FloorPlans) == 0 {
		return nil, fmt.Errorf("seed file defines no floor plans")
	}
	return &v, nil
}

// Seed creates the venue's floor plans and spots in one transaction.
// Generated IDs are written back into v.
func Seed(ctx context.Context, db *gorm.DB, v *Venue) (SeedResult, error) {
	var res SeedResult
	err := db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		plans := NewFloorPlanRepository(tx)
		spots := NewSpotRepository(tx, nil)

		for i := range v.FloorPlans {
			sp := &v.FloorPlans[i]
			plan := &FloorPlan{
				ID:       sp.ID,
				VenueID:  v.ID,
				Name:     sp.Name,
				Level:    sp.Level,
				ImageRef: sp.Image,
			}
			if sp.Width > 0 && sp.Height > 0 {
				w, h := sp.Width, sp.Height
				plan.OriginalWidth, plan.OriginalHeight = &w, &h
			}
			if err := plans.Create(ctx, plan); err != nil {
				return fmt.Errorf("floor plan %q: %w", sp.Name, err)
			}
			sp.ID = plan.ID
			res.FloorPlans++

			for j := range sp.Spots {
				ss := &sp.Spots[j]
				spot, err := seedSpot(plan.ID, ss)
				if err != nil {
					return fmt.Errorf("spot %q: %w", ss.Name, err)
				}
				if err := spots.Create(ctx, spot); err != nil {
					return fmt.Errorf("spot %q: %w", ss.Name, err)
				}
				ss.ID = spot.ID
				res.Spots++
				if spot.ShowOnMap {
					res.Placed++
				}
			}
		}
		return nil
	})
	return res, err
}

func seedSpot(floorPlanID string, ss *SeedSpot) (*SignageSpot, error) {
	spot := &SignageSpot{
		ID:          ss.ID,
		FloorPlanID: floorPlanID,
		Name:        ss.Name,
		Status:      ss.Status,
	}
	if ss.PreviewImage != "" {
		p := ss.PreviewImage
		spot.PreviewImage = &p
	}

	var err error
	if spot.ExpiryDate, err = parseDate(ss.ExpiryDate); err != nil {
		return nil, err
	}
	if spot.NextPlannedDate, err = parseDate(ss.NextPlannedDate); err != nil {
		return nil, err
	}

	if m := ss.Marker; m != nil {
		t := m.Type
		if t == "" {
			t = "point"
		}
		x, y, rot := m.X, m.Y, m.Rotation
		spot.MarkerType = &t
		spot.MarkerX, spot.MarkerY, spot.MarkerRotation = &x, &y, &rot
		spot.MarkerX2, spot.MarkerY2 = m.X2, m.Y2
		spot.MarkerWidth, spot.MarkerHeight = m.Width, m.Height
		spot.MarkerRadius = m.Radius
		spot.ShowOnMap = true
	}
	if l := ss.Legacy; l != nil {
		x, y := l.X, l.Y
		spot.XPercent, spot.YPercent = &x, &y
		spot.WidthPercent, spot.HeightPercent = l.Width, l.Height
		spot.ShowOnMap = true
	}
	return spot, nil
}

func parseDate(s string) (*time.Time, error) {
	if s == "" {
		return nil, nil
	}
	t, err := time.ParseInLocation(dateLayout, s, time.Local)
	if err != nil {
		return nil, fmt.Errorf("invalid date %q: %w", s, err)
	}
	return &t, nil
}
