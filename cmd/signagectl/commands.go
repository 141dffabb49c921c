package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"signage-planner/internal/app"
	planimage "signage-planner/internal/image"
	"signage-planner/internal/marker"
	"signage-planner/internal/persistence"
	"signage-planner/internal/pubsub"
	"signage-planner/internal/realtime"
	"signage-planner/internal/store"
	"signage-planner/pkg/geometry"
	"signage-planner/ui/canvas"
)

func seedCmd() *cobra.Command {
	var file string
	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Create floor plans and spots from a venue YAML file",
		RunE: func(cmd *cobra.Command, args []string) error {
			if file == "" {
				return errors.New("--file required")
			}
			venue, err := store.LoadVenue(file)
			if err != nil {
				return err
			}
			return withDB(cmd, func(ctx context.Context, e *env) error {
				res, err := store.Seed(ctx, e.db, venue)
				if err != nil {
					return err
				}
				if viper.GetBool("json") {
					return printJSON(e.out, res)
				}
				fmt.Fprintf(e.out, "Seeded venue %q: %d floor plans, %d spots (%d placed)\n",
					venue.Name, res.FloorPlans, res.Spots, res.Placed)
				for _, fp := range venue.FloorPlans {
					fmt.Fprintf(e.out, "  %s  %s\n", fp.ID, fp.Name)
				}
				return nil
			})
		},
	}
	cmd.Flags().StringVarP(&file, "file", "f", "", "venue seed file")
	return cmd
}

func floorPlansCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "floorplans",
		Short: "List floor plans",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withDB(cmd, func(ctx context.Context, e *env) error {
				plans, err := store.NewFloorPlanRepository(e.db).FindAll(ctx)
				if err != nil {
					return err
				}
				if viper.GetBool("json") {
					return printJSON(e.out, plans)
				}
				floorPlanTable(e.out, plans).Render()
				return nil
			})
		},
	}
}

func listCmd() *cobra.Command {
	var floorPlanID string
	var placedOnly bool
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List the spots of a floor plan with their placement and status",
		RunE: func(cmd *cobra.Command, args []string) error {
			if floorPlanID == "" {
				return errors.New("--floor-plan required")
			}
			return withDB(cmd, func(ctx context.Context, e *env) error {
				repo := store.NewSpotRepository(e.db, nil)
				var spots []store.SignageSpot
				var err error
				if placedOnly {
					spots, err = repo.FindVisibleByFloorPlanID(ctx, floorPlanID)
				} else {
					spots, err = repo.FindByFloorPlanID(ctx, floorPlanID)
				}
				if err != nil {
					return err
				}
				if viper.GetBool("json") {
					return printJSON(e.out, spots)
				}
				spotTable(e.out, spots, time.Now()).Render()
				return nil
			})
		},
	}
	cmd.Flags().StringVar(&floorPlanID, "floor-plan", "", "floor plan id")
	cmd.Flags().BoolVar(&placedOnly, "placed", false, "only spots shown on the map")
	return cmd
}

func renderCmd() *cobra.Command {
	var floorPlanID, out string
	var width, height int
	var grid, labels bool
	cmd := &cobra.Command{
		Use:   "render",
		Short: "Render a floor plan with its markers to PNG",
		RunE: func(cmd *cobra.Command, args []string) error {
			if floorPlanID == "" || out == "" {
				return errors.New("--floor-plan and --out required")
			}
			return withDB(cmd, func(ctx context.Context, e *env) error {
				backend := store.NewBackend(e.db, nil)
				adapter := persistence.New(backend, backend, e.log)

				fp, err := adapter.LoadFloorPlan(ctx, floorPlanID)
				if err != nil {
					return err
				}
				markers, err := adapter.LoadMarkers(ctx, floorPlanID)
				if err != nil {
					return err
				}

				w, h := fp.Dimensions()
				layer, err := planimage.LoadOrPlaceholder(e.cfg.ImagePath(fp.ImageRef), int(w), int(h))
				if err != nil {
					e.log.Warn().Err(err).Msg("Floor plan image unavailable, rendering placeholder")
				}

				sc := renderScene(fp, markers, layer, grid, float64(e.cfg.Editor.GridSpacing), labels)

				f, err := os.Create(out)
				if err != nil {
					return err
				}
				if err := canvas.WritePNG(f, sc, width, height); err != nil {
					f.Close()
					return err
				}
				if err := f.Close(); err != nil {
					return err
				}
				fmt.Fprintf(e.out, "Rendered %d markers to %s\n", len(markers), out)
				return nil
			})
		},
	}
	cmd.Flags().StringVar(&floorPlanID, "floor-plan", "", "floor plan id")
	cmd.Flags().StringVarP(&out, "out", "o", "", "output PNG path")
	cmd.Flags().IntVar(&width, "width", 0, "output width (default: image width)")
	cmd.Flags().IntVar(&height, "height", 0, "output height (default: keeps aspect)")
	cmd.Flags().BoolVar(&grid, "grid", false, "draw the grid")
	cmd.Flags().BoolVar(&labels, "labels", true, "draw marker names")
	return cmd
}

// renderScene is the whole-plan view the render command draws.
func renderScene(fp marker.FloorPlan, markers []marker.Marker, layer *planimage.Layer, grid bool, spacing float64, labels bool) canvas.Scene {
	sc := canvas.Scene{
		FloorPlan:   fp,
		ViewBox:     geometry.FitViewBox(fp.Dimensions()),
		Markers:     markers,
		ShowGrid:    grid,
		GridSpacing: spacing,
		ShowLabels:  labels,
		Now:         time.Now(),
	}
	if layer != nil && layer.Visible {
		sc.Image = layer.Image
	}
	return sc
}

func clearCmd() *cobra.Command {
	var spotID string
	cmd := &cobra.Command{
		Use:   "clear",
		Short: "Remove a spot's marker from the map",
		RunE: func(cmd *cobra.Command, args []string) error {
			if spotID == "" {
				return errors.New("--spot required")
			}
			return withDB(cmd, func(ctx context.Context, e *env) error {
				if err := store.NewSpotRepository(e.db, nil).ClearPlacement(ctx, spotID); err != nil {
					return err
				}
				fmt.Fprintf(e.out, "Cleared placement of spot %s\n", spotID)
				return nil
			})
		},
	}
	cmd.Flags().StringVar(&spotID, "spot", "", "spot id")
	return cmd
}

func historyCmd() *cobra.Command {
	var floorPlanID string
	var limit int
	cmd := &cobra.Command{
		Use:   "history",
		Short: "Show the committed edit log of a floor plan",
		RunE: func(cmd *cobra.Command, args []string) error {
			if floorPlanID == "" {
				return errors.New("--floor-plan required")
			}
			return withDB(cmd, func(ctx context.Context, e *env) error {
				entries, err := store.NewHistoryRepository(e.db).FindByFloorPlanID(ctx, floorPlanID, limit)
				if err != nil {
					return err
				}
				if viper.GetBool("json") {
					return printJSON(e.out, entries)
				}
				t, err := historyTable(e.out, entries)
				if err != nil {
					return err
				}
				t.Render()
				return nil
			})
		},
	}
	cmd.Flags().StringVar(&floorPlanID, "floor-plan", "", "floor plan id")
	cmd.Flags().IntVar(&limit, "limit", 20, "maximum entries")
	return cmd
}

func watchCmd() *cobra.Command {
	var floorPlanID string
	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Print marker changes of a floor plan as they arrive on the change feed",
		RunE: func(cmd *cobra.Command, args []string) error {
			if floorPlanID == "" {
				return errors.New("--floor-plan required")
			}
			return withDB(cmd, func(ctx context.Context, e *env) error {
				if e.cfg.Realtime.URL == "" {
					return errors.New("realtime.url is not configured")
				}
				ps := pubsub.New()
				sub := ps.Subscribe(pubsub.TopicMarkersChanged, floorPlanID, 16)
				defer ps.Unsubscribe(sub)

				rt := realtime.New(realtime.Config{URL: e.cfg.Realtime.URL, Token: e.cfg.Realtime.Token}, ps, e.log)
				if err := rt.Start(ctx); err != nil {
					return err
				}
				defer rt.Close()
				if err := rt.Watch(floorPlanID); err != nil {
					return err
				}

				fmt.Fprintf(e.out, "Watching %s (Ctrl+C to stop)\n", floorPlanID)
				for {
					select {
					case <-ctx.Done():
						return nil
					case msg, ok := <-sub.Channel:
						if !ok {
							return nil
						}
						if c, ok := msg.(pubsub.Change); ok {
							fmt.Fprintln(e.out, changeLine(c, time.Now()))
						}
					}
				}
			})
		},
	}
	cmd.Flags().StringVar(&floorPlanID, "floor-plan", "", "floor plan id")
	return cmd
}

// changeLine formats one feed notification.
func changeLine(c pubsub.Change, at time.Time) string {
	spot := c.SpotID
	if spot == "" {
		spot = "*"
	}
	src := c.Source
	if src == "" {
		src = "local"
	}
	return fmt.Sprintf("%s  %s  spot=%s  source=%s", at.Format(time.RFC3339), c.FloorPlanID, spot, src)
}

// decodeHistory reads the marker snapshot stored with a history entry.
func decodeHistory(h store.MarkerHistory) ([]app.HistoryMarker, error) {
	var markers []app.HistoryMarker
	if len(h.Markers) == 0 {
		return nil, nil
	}
	if err := json.Unmarshal(h.Markers, &markers); err != nil {
		return nil, fmt.Errorf("history %s: %w", h.ID, err)
	}
	return markers, nil
}
