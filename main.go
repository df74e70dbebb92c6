package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"time"

	_ "github.com/joho/godotenv/autoload"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"

	"github.com/prakash023/portfolio/internal/config"
	"github.com/prakash023/portfolio/internal/hero"
)

var (
	configFile string

	snapSlot   string
	snapWidth  int
	snapHeight int
	snapFrames int
	snapOut    string

	statsDays int
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "portfolio",
		Short: "portfolio site with animated hero canvases",
		RunE:  runServe,
	}
	rootCmd.PersistentFlags().StringVar(&configFile, "config", os.Getenv("PORTFOLIO_CONFIG"), "config file path (yaml)")

	serveCmd := &cobra.Command{
		Use:   "serve",
		Short: "run the web server",
		RunE:  runServe,
	}

	snapshotCmd := &cobra.Command{
		Use:   "snapshot",
		Short: "render a hero slot to a png",
		RunE:  runSnapshot,
	}
	snapshotCmd.Flags().StringVar(&snapSlot, "slot", "top", "hero slot name")
	snapshotCmd.Flags().IntVar(&snapWidth, "width", 1280, "width in pixels")
	snapshotCmd.Flags().IntVar(&snapHeight, "height", 480, "height in pixels")
	snapshotCmd.Flags().IntVar(&snapFrames, "frames", 120, "frames to simulate")
	snapshotCmd.Flags().StringVarP(&snapOut, "out", "o", "hero.png", "output file")

	statsCmd := &cobra.Command{
		Use:   "stats",
		Short: "print visitor statistics",
		RunE:  runStats,
	}
	statsCmd.Flags().IntVar(&statsDays, "days", 14, "days to plot")

	rootCmd.AddCommand(serveCmd, snapshotCmd, statsCmd)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func loadConfig() (*config.Config, error) {
	cfg, err := config.Load(configFile)
	if err != nil {
		return nil, err
	}
	cfg.ApplyEnv(os.Getenv)
	return cfg, nil
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	gin.SetMode(cfg.Server.Mode)

	store, err := OpenStore(cfg.Server.Database)
	if err != nil {
		return err
	}
	defer store.Close()

	if err := store.SeedProjects(cmd.Context(), projectsFromConfig(cfg.Projects)); err != nil {
		return fmt.Errorf("seeding projects: %w", err)
	}

	auth, err := newAdminAuth(os.Getenv)
	if err != nil {
		return err
	}
	site := newSite(cfg, store, auth)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go runCleanup(ctx, site)

	r, err := newRouter(site)
	if err != nil {
		return fmt.Errorf("loading templates: %w", err)
	}

	log.Printf("Listening on :%s", cfg.Server.Port)
	return r.Run(":" + cfg.Server.Port)
}

// runCleanup drops expired visitor data at startup and then once a day.
func runCleanup(ctx context.Context, site *Site) {
	cleanupOldVisitorData(ctx, site)
	ticker := time.NewTicker(24 * time.Hour)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			cleanupOldVisitorData(ctx, site)
		}
	}
}

func runSnapshot(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	slot, ok := cfg.Slot(snapSlot)
	if !ok {
		return fmt.Errorf("unknown hero slot %q", snapSlot)
	}

	raster, renderer, err := hero.Snapshot(slot.Renderer(), snapWidth, snapHeight, snapFrames)
	if err != nil {
		return err
	}

	f, err := os.Create(snapOut)
	if err != nil {
		return err
	}
	if err := raster.EncodePNG(f); err != nil {
		f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return err
	}
	fmt.Printf("wrote %s (%s, %d particles, %d frames)\n", snapOut, slot.Effect, renderer.Count(), renderer.Frames())
	return nil
}
