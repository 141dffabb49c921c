// Package main provides the entry point for the Signage Planner application.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	fyneapp "fyne.io/fyne/v2/app"
	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"signage-planner/internal/app"
	"signage-planner/internal/config"
	planimage "signage-planner/internal/image"
	"signage-planner/internal/logging"
	"signage-planner/internal/persistence"
	"signage-planner/internal/pubsub"
	"signage-planner/internal/realtime"
	"signage-planner/internal/store"
	"signage-planner/internal/version"
	"signage-planner/ui/mainwindow"
	"signage-planner/ui/prefs"
)

const appID = "io.signage.planner"

// imagePollInterval is how often the floor-plan image is checked for edits.
const imagePollInterval = 2 * time.Second

func main() {
	configDir := flag.String("config", ".", "directory containing signage.yaml or signage.json")
	floorPlan := flag.String("floor-plan", "", "floor plan to open (overrides editor.floorPlanId)")
	readOnly := flag.Bool("read-only", false, "open without editing")
	showVersion := flag.Bool("version", false, "print version and exit")
	flag.Parse()

	if *showVersion {
		fmt.Println(version.String())
		return
	}

	if err := run(*configDir, *floorPlan, *readOnly); err != nil {
		fmt.Fprintf(os.Stderr, "signage-planner: %v\n", err)
		os.Exit(1)
	}
}

func run(configDir, floorPlanID string, readOnly bool) error {
	cfg, err := config.Load(configDir)
	if err != nil {
		return err
	}

	var logFile io.Writer
	if f, err := logging.OpenFile(filepath.Join(filepath.Dir(cfg.DB.Path), "signage-planner.log")); err == nil {
		defer f.Close()
		logFile = f
	}
	log := logging.Setup(cfg.LogLevel, os.Stderr, logFile)
	log.Info().Str("version", version.String()).Str("config", cfg.File).Msg("Starting Signage Planner")

	db, err := store.Open(store.Config{Path: cfg.DB.Path, Debug: cfg.DB.Debug}, log)
	if err != nil {
		return err
	}
	defer store.Close(db)

	ps := pubsub.New()
	var rt *realtime.Client
	if cfg.Realtime.URL != "" {
		rt = startRealtime(cfg.Realtime, ps, log)
		defer rt.Close()
	}

	p := prefs.Load()
	if floorPlanID == "" {
		floorPlanID = cfg.Editor.FloorPlanID
	}
	if floorPlanID == "" {
		floorPlanID = p.String(prefs.KeyLastFloorPlan)
	}
	plan, err := resolveFloorPlan(context.Background(), db, floorPlanID)
	if err != nil {
		return err
	}
	log = log.With().Str("floorPlan", plan.ID).Logger()
	if rt != nil {
		if err := rt.Watch(plan.ID); err != nil {
			log.Warn().Err(err).Msg("Failed to watch floor plan on realtime feed")
		}
	}

	backend := store.NewBackend(db, ps)
	adapter := persistence.New(backend, backend, log)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	session, err := app.OpenSession(ctx, app.SessionConfig{
		FloorPlanID:  plan.ID,
		ReadOnly:     readOnly,
		HistoryLimit: cfg.Editor.HistoryLimit,
	}, adapter, store.NewHistoryRepository(db), log)
	cancel()
	if err != nil {
		return fmt.Errorf("opening floor plan %s: %w", plan.ID, err)
	}
	defer session.Close()

	fyneApp := fyneapp.NewWithID(appID)
	fyneApp.Settings().SetTheme(&app.SignageTheme{})

	settings := p.Canvas(prefs.Canvas{
		ShowGrid:    cfg.Editor.ShowGrid,
		GridSpacing: float64(cfg.Editor.GridSpacing),
		ShowLabels:  true,
	})
	win := mainwindow.New(fyneApp, session, store.NewSpotRepository(db, ps), p, mainwindow.Options{
		FloorPlanName: plan.Name,
		FrameInterval: cfg.Editor.FrameInterval,
		Canvas:        settings,
	}, log)

	watcher := setupImage(win, cfg.ImagePath(plan.ImageRef), session, log)
	if watcher != nil {
		defer watcher.Stop()
	}
	win.Reload(context.Background())

	win.ShowAndRun()
	session.Flush()
	log.Info().Msg("Signage Planner exiting")
	return nil
}

// startRealtime connects the change feed. After a failed first dial the
// client keeps retrying in the background.
func startRealtime(cfg config.Realtime, ps *pubsub.PubSub, log zerolog.Logger) *realtime.Client {
	rt := realtime.New(realtime.Config{URL: cfg.URL, Token: cfg.Token}, ps, log)
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := rt.Start(ctx); err != nil {
		log.Warn().Err(err).Str("url", cfg.URL).Msg("Realtime feed unavailable, retrying in background")
		rt.Retry()
	}
	return rt
}

// resolveFloorPlan finds the floor plan to open. An empty id picks the first
// plan in the database.
func resolveFloorPlan(ctx context.Context, db *gorm.DB, id string) (*store.FloorPlan, error) {
	repo := store.NewFloorPlanRepository(db)
	if id != "" {
		plan, err := repo.FindByID(ctx, id)
		if err == nil || !errors.Is(err, store.ErrNotFound) {
			return plan, err
		}
	}
	plans, err := repo.FindAll(ctx)
	if err != nil {
		return nil, err
	}
	if len(plans) == 0 {
		return nil, errors.New("no floor plans in database; run signagectl seed first")
	}
	return &plans[0], nil
}

// setupImage loads the floor-plan image and reloads it when the file changes
// on disk, so a designer can re-export the plan while the editor is open.
func setupImage(win *mainwindow.MainWindow, path string, session *app.Session, log zerolog.Logger) *planimage.Watcher {
	w, h := session.Store().State().FloorPlan.Dimensions()
	layer, err := planimage.LoadOrPlaceholder(path, int(w), int(h))
	if err != nil {
		log.Warn().Err(err).Str("path", path).Msg("Floor plan image unavailable, showing placeholder")
	}
	win.SetLayer(layer)
	if path == "" {
		return nil
	}

	watcher := planimage.NewWatcher(path, imagePollInterval)
	watcher.OnChange(func(l *planimage.Layer) {
		log.Info().Str("path", path).Msg("Floor plan image changed, reloading")
		win.SetLayer(l)
	})
	watcher.OnError(func(err error) {
		log.Warn().Err(err).Str("path", path).Msg("Failed to reload floor plan image")
	})
	watcher.Start()
	return watcher
}
