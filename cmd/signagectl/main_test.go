package main

import (
	"bytes"
	"encoding/json"
	"image/png"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"signage-planner/internal/pubsub"
	"signage-planner/internal/store"
)

const venueYAML = `
id: venue-1
name: Central Station
floorPlans:
  - id: fp-1
    name: Concourse
    image: concourse.png
    width: 1920
    height: 1080
    spots:
      - id: spot-a
        name: Lobby Banner
        status: installed
        marker: {type: area, x: 400, y: 300, width: 120, height: 40}
      - id: spot-b
        name: Platform Sign
        status: installed
        legacy: {x: 50, y: 25}
      - id: spot-c
        name: Unplaced
`

type cli struct {
	t   *testing.T
	dir string
	db  string
}

func newCLI(t *testing.T) *cli {
	dir := t.TempDir()
	return &cli{t: t, dir: dir, db: filepath.Join(dir, "signage.db")}
}

func (c *cli) run(args ...string) (string, error) {
	c.t.Helper()
	var out bytes.Buffer
	cmd := newRootCmd()
	cmd.SetOut(&out)
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs(append([]string{"--config", c.dir, "--db", c.db}, args...))
	err := cmd.Execute()
	return out.String(), err
}

func (c *cli) seed() {
	c.t.Helper()
	file := filepath.Join(c.dir, "venue.yaml")
	require.NoError(c.t, os.WriteFile(file, []byte(venueYAML), 0o644))
	out, err := c.run("seed", "--file", file)
	require.NoError(c.t, err)
	assert.Contains(c.t, out, `Seeded venue "Central Station": 1 floor plans, 3 spots (2 placed)`)
}

func TestSeedAndList(t *testing.T) {
	c := newCLI(t)
	c.seed()

	out, err := c.run("list", "--floor-plan", "fp-1")
	require.NoError(t, err)
	assert.Contains(t, out, "Lobby Banner")
	assert.Contains(t, out, "area @ 400,300 120x40")
	assert.Contains(t, out, "legacy 50.0%,25.0%")
	// footers are upper-cased by the table style
	assert.Contains(t, out, "3 SPOTS")
	assert.Contains(t, out, "2 PLACED")

	out, err = c.run("floorplans")
	require.NoError(t, err)
	assert.Contains(t, out, "1920x1080")
}

func TestClear(t *testing.T) {
	c := newCLI(t)
	c.seed()

	_, err := c.run("clear", "--spot", "spot-a")
	require.NoError(t, err)

	out, err := c.run("list", "--floor-plan", "fp-1", "--placed", "--json")
	require.NoError(t, err)
	var spots []store.SignageSpot
	require.NoError(t, json.Unmarshal([]byte(out), &spots))
	require.Len(t, spots, 1)
	assert.Equal(t, "spot-b", spots[0].ID)

	_, err = c.run("clear", "--spot", "missing")
	assert.ErrorIs(t, err, store.ErrNotFound)
}

func TestRender(t *testing.T) {
	c := newCLI(t)
	c.seed()
	out := filepath.Join(c.dir, "plan.png")

	_, err := c.run("render", "--floor-plan", "fp-1", "--out", out, "--width", "192")
	require.NoError(t, err)

	f, err := os.Open(out)
	require.NoError(t, err)
	defer f.Close()
	img, err := png.Decode(f)
	require.NoError(t, err)
	assert.Equal(t, 192, img.Bounds().Dx())
	assert.Equal(t, 108, img.Bounds().Dy())
}

func TestHistory_Empty(t *testing.T) {
	c := newCLI(t)
	c.seed()

	out, err := c.run("history", "--floor-plan", "fp-1")
	require.NoError(t, err)
	assert.Contains(t, out, "KIND")
}

func TestRequiredFlags(t *testing.T) {
	c := newCLI(t)
	for _, args := range [][]string{
		{"seed"},
		{"list"},
		{"render", "--floor-plan", "fp-1"},
		{"clear"},
		{"history"},
		{"watch"},
	} {
		_, err := c.run(args...)
		assert.Error(t, err, "%v", args)
	}
}

func TestChangeLine(t *testing.T) {
	at := time.Date(2025, 5, 1, 9, 30, 0, 0, time.UTC)
	assert.Equal(t, "2025-05-01T09:30:00Z  fp-1  spot=s1  source=realtime",
		changeLine(pubsub.Change{FloorPlanID: "fp-1", SpotID: "s1", Source: "realtime"}, at))
	assert.Equal(t, "2025-05-01T09:30:00Z  fp-1  spot=*  source=local",
		changeLine(pubsub.Change{FloorPlanID: "fp-1"}, at))
}

func TestPlacement(t *testing.T) {
	ptr := func(v int) *int { return &v }
	typ := func(s string) *string { return &s }

	assert.Equal(t, "-", placement(store.SignageSpot{}))
	assert.Equal(t, "point @ 10,20 r15", placement(store.SignageSpot{
		ShowOnMap: true, MarkerType: typ("point"), MarkerX: ptr(10), MarkerY: ptr(20), MarkerRadius: ptr(15),
	}))
	assert.Equal(t, "line @ 0,0 -> 30,40", placement(store.SignageSpot{
		ShowOnMap: true, MarkerType: typ("line"), MarkerX: ptr(0), MarkerY: ptr(0), MarkerX2: ptr(30), MarkerY2: ptr(40),
	}))
	assert.Equal(t, "?", placement(store.SignageSpot{ShowOnMap: true}))
}
