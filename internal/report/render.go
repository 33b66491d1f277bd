// Package report turns a scan snapshot and its recommendations into
// terminal output or JSON. Every function here is a pure transform: no
// package state, no I/O beyond the writer passed in.
package report

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/lakshaymaurya-felt/diskaudit/internal/config"
	"github.com/lakshaymaurya-felt/diskaudit/internal/core"
	"github.com/lakshaymaurya-felt/diskaudit/internal/recommend"
	"github.com/lakshaymaurya-felt/diskaudit/internal/scan"
	"github.com/lakshaymaurya-felt/diskaudit/internal/ui"
)

const (
	// minRowBytes hides near-empty categories (0.05 GB) from the table.
	minRowBytes = core.GiB / 20

	maxProjectRows     = 10
	maxNodeModulesRows = 15
	diskBarWidth       = 36
)

// Input is everything a report is built from.
type Input struct {
	Snapshot        scan.Snapshot
	Categories      []config.Category
	Recommendations []recommend.Recommendation

	// Paths shortens displayed paths to ~/...
	Paths config.Paths

	// Platform is shown in the header when set.
	Platform string
}

// Render returns the full terminal report.
func Render(in Input) string {
	sections := []string{
		renderOverview(in),
		renderCategories(in),
		renderTopProjects(in),
		renderNodeModules(in),
		renderRecommendations(in.Recommendations),
		renderLegend(),
	}

	var b strings.Builder
	for _, s := range sections {
		if s == "" {
			continue
		}
		b.WriteString(s)
		b.WriteString("\n\n")
	}
	return strings.TrimRight(b.String(), "\n") + "\n"
}

// ─── Disk overview ───────────────────────────────────────────────────────────

func renderOverview(in Input) string {
	snap := in.Snapshot
	d := snap.Disk()

	var lines []string
	lines = append(lines, ui.TitleStyle.Render("diskaudit"))
	if in.Platform != "" {
		lines = append(lines, ui.MutedStyle.Render(in.Platform))
	}
	lines = append(lines, "")

	lines = append(lines, fmt.Sprintf("%s %s %s %s %s",
		ui.BoldStyle.Render("Disk Usage:"),
		ui.BoldStyle.Render(core.FormatGB(int64(d.UsedBytes))),
		ui.MutedStyle.Render("used of"),
		ui.BoldStyle.Render(core.FormatGB(int64(d.TotalBytes))),
		ui.MutedStyle.Render("total")))

	lines = append(lines, fmt.Sprintf("%s %s  %s",
		ui.BoldStyle.Render("Free:"),
		lipgloss.NewStyle().Bold(true).Foreground(ui.ColorSuccess).Render(core.FormatGB(int64(d.FreeBytes))),
		ui.MutedStyle.Render(fmt.Sprintf("(%.0f%% free)", 100-d.UsedPercent))))

	lines = append(lines, "")
	lines = append(lines, fmt.Sprintf("[%s]  %s",
		ui.UsageBar(d.UsedPercent, diskBarWidth),
		ui.MutedStyle.Render(fmt.Sprintf("%.0f%% used", d.UsedPercent))))

	lines = append(lines, "")
	lines = append(lines, ui.MutedStyle.Render(fmt.Sprintf("Scanned %s in %s",
		in.Paths.Tilde(snap.Root()), snap.Duration().Round(100*time.Millisecond))))

	return ui.PanelStyle.Render(strings.Join(lines, "\n"))
}

// ─── Category table ──────────────────────────────────────────────────────────

type categoryRow struct {
	cat  config.Category
	size int64
}

// categoryRows lists categories worth showing, largest first. The container
// engine only appears when it answered.
func categoryRows(in Input) []categoryRow {
	var rows []categoryRow
	for _, cat := range in.Categories {
		if cat.Source == config.SourceSubsystem && !in.Snapshot.Container().Available {
			continue
		}
		size := in.Snapshot.Total(cat.ID)
		if size < minRowBytes {
			continue
		}
		rows = append(rows, categoryRow{cat: cat, size: size})
	}
	sort.SliceStable(rows, func(i, j int) bool { return rows[i].size > rows[j].size })
	return rows
}

func renderCategories(in Input) string {
	rows := categoryRows(in)
	if len(rows) == 0 {
		return ui.MutedStyle.Render("No significant usage found in any tracked category.")
	}

	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(ui.MutedStyle).
		Headers("Category", "Size", "Status", "Recommendation")

	for _, r := range rows {
		t.Row(r.cat.Emoji+" "+r.cat.Name, core.FormatGB(r.size), r.cat.Tier().String(), r.cat.Hint)
	}

	t.StyleFunc(func(row, col int) lipgloss.Style {
		base := lipgloss.NewStyle().Padding(0, 1)
		if row == table.HeaderRow {
			return base.Bold(true).Foreground(ui.ColorSecondary)
		}
		if row < 0 || row >= len(rows) {
			return base
		}
		switch col {
		case 0:
			return base.Bold(true)
		case 1:
			return base.Align(lipgloss.Right).Foreground(ui.TierColor(rows[row].cat.Tier()))
		case 2:
			return base.Bold(true).Foreground(ui.TierColor(rows[row].cat.Tier()))
		}
		return base
	})

	return ui.HeaderStyle.Render("Category Breakdown") + "\n" + t.Render()
}

// ─── Item tables ─────────────────────────────────────────────────────────────

func renderTopProjects(in Input) string {
	items := in.Snapshot.Category(config.CategoryProjects).Items
	if len(items) == 0 {
		return ""
	}
	if len(items) > maxProjectRows {
		items = items[:maxProjectRows]
	}

	t := table.New().
		Border(lipgloss.HiddenBorder()).
		Headers("#", "Project", "Size")
	for i, it := range items {
		t.Row(fmt.Sprint(i+1), it.Label, core.FormatGB(it.SizeBytes))
	}
	t.StyleFunc(itemStyle)

	return ui.HeaderStyle.Render("Top Projects by Size") + "\n" + t.Render()
}

func renderNodeModules(in Input) string {
	items := in.Snapshot.Category(config.CategoryNodeModules).Items
	if len(items) == 0 {
		return ""
	}
	if len(items) > maxNodeModulesRows {
		items = items[:maxNodeModulesRows]
	}

	t := table.New().
		Border(lipgloss.HiddenBorder()).
		Headers("Path", "Size")
	for _, it := range items {
		t.Row(in.Paths.Tilde(it.Path), core.FormatGB(it.SizeBytes))
	}
	t.StyleFunc(itemStyle)

	return ui.HeaderStyle.Render("node_modules Directories") + "\n" + t.Render()
}

func itemStyle(row, _ int) lipgloss.Style {
	base := lipgloss.NewStyle().Padding(0, 1)
	if row == table.HeaderRow {
		return base.Bold(true).Foreground(ui.ColorPrimary)
	}
	return base
}

// ─── Recommendations ─────────────────────────────────────────────────────────

func renderRecommendations(recs []recommend.Recommendation) string {
	if len(recs) == 0 {
		return lipgloss.NewStyle().Foreground(ui.ColorSuccess).Render("No major cleanup recommendations.")
	}

	sum := recommend.Summarize(recs)
	safeStyle := lipgloss.NewStyle().Foreground(ui.TierColor(config.TierSafe))
	reviewStyle := lipgloss.NewStyle().Foreground(ui.TierColor(config.TierReview))

	panel := ui.SavingsPanelStyle.Render(
		lipgloss.NewStyle().Bold(true).Foreground(ui.ColorWarning).Render("Recommendations (by savings)") + "\n" +
			fmt.Sprintf("%s  %s  +  %s  = %s",
				ui.BoldStyle.Render("Potential savings:"),
				safeStyle.Render(core.FormatGB(sum.SafeBytes)+" safe to delete"),
				reviewStyle.Render(core.FormatGB(sum.ReviewBytes)+" after review"),
				ui.BoldStyle.Render(core.FormatGB(sum.Total())+" total")))

	var b strings.Builder
	b.WriteString(panel)
	for i, r := range recs {
		tier, style := config.TierReview, reviewStyle
		if r.Safe {
			tier, style = config.TierSafe, safeStyle
		}

		b.WriteString("\n\n")
		fmt.Fprintf(&b, "%s %s %s%s\n",
			ui.BoldStyle.Render(fmt.Sprintf("%d.", i+1)),
			style.Bold(true).Render("["+tier.String()+"]"),
			ui.BoldStyle.Render(r.Label),
			ui.MutedStyle.Render(": saves "+core.FormatGB(r.SizeBytes)))
		fmt.Fprintf(&b, "   %s\n", ui.MutedStyle.Render(r.Action))
		fmt.Fprintf(&b, "   %s", style.Bold(true).Render(ui.IconArrow+" "+r.Command))
	}
	return b.String()
}

// ─── Legend ──────────────────────────────────────────────────────────────────

func renderLegend() string {
	entry := func(t config.Tier, text string) string {
		return ui.TierStyle(t).Bold(true).Render(ui.IconBlock+" "+t.String()) + ui.MutedStyle.Render(" = "+text)
	}
	return ui.MutedStyle.Render("Legend:  ") +
		entry(config.TierSafe, "safe to delete now   ") +
		entry(config.TierReview, "check before deleting   ") +
		entry(config.TierKeep, "do not delete")
}
