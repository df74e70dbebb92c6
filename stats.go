package main

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/guptarohit/asciigraph"
	"github.com/spf13/cobra"
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#4fc3f7"))

	panelStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#444466")).
			Padding(0, 2)

	labelStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#888899"))

	valueStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#00ccff"))
)

func runStats(cmd *cobra.Command, args []string) error {
	if statsDays < 1 {
		return fmt.Errorf("days must be at least 1")
	}
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	store, err := OpenStore(cfg.Server.Database)
	if err != nil {
		return err
	}
	defer store.Close()

	now := time.Now()
	stats, err := store.Stats(cmd.Context(), now)
	if err != nil {
		return err
	}
	daily, err := store.DailyVisitors(cmd.Context(), now, statsDays)
	if err != nil {
		return err
	}
	fmt.Println(renderStats(stats, daily))
	return nil
}

func renderStats(stats *AdminStats, daily []float64) string {
	metric := func(label string, v int64) string {
		return labelStyle.Render(label+" ") + valueStyle.Render(fmt.Sprint(v))
	}

	var b strings.Builder
	b.WriteString(titleStyle.Render("Visitors"))
	b.WriteString("\n")
	b.WriteString(panelStyle.Render(lipgloss.JoinHorizontal(lipgloss.Top,
		metric("total", stats.TotalVisitors), "   ",
		metric("unique", stats.UniqueVisitors), "   ",
		metric("today", stats.VisitorsToday), "   ",
		metric("week", stats.VisitorsThisWeek),
	)))
	b.WriteString("\n\n")

	if len(daily) > 0 {
		b.WriteString(asciigraph.Plot(daily,
			asciigraph.Height(8),
			asciigraph.Width(60),
			asciigraph.Caption(fmt.Sprintf("visits per day, last %d days", len(daily))),
		))
		b.WriteString("\n\n")
	}

	b.WriteString(titleStyle.Render("Project views"))
	b.WriteString("\n")
	for _, p := range stats.TopProjects {
		fmt.Fprintf(&b, "%s %s\n", valueStyle.Render(fmt.Sprintf("%5d", p.Views)), p.Title)
	}
	return b.String()
}
