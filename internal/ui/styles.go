// Package ui holds the shared terminal palette and drawing primitives.
package ui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/lakshaymaurya-felt/diskaudit/internal/config"
)

// ─── Palette ─────────────────────────────────────────────────────────────────

var (
	ColorPrimary   = lipgloss.AdaptiveColor{Light: "#0891b2", Dark: "#22d3ee"}
	ColorSecondary = lipgloss.AdaptiveColor{Light: "#7c3aed", Dark: "#c084fc"}
	ColorText      = lipgloss.AdaptiveColor{Light: "#1f2937", Dark: "#f3f4f6"}
	ColorMuted     = lipgloss.AdaptiveColor{Light: "#6b7280", Dark: "#6b7280"}

	ColorSuccess = lipgloss.AdaptiveColor{Light: "#16a34a", Dark: "#4ade80"}
	ColorWarning = lipgloss.AdaptiveColor{Light: "#ca8a04", Dark: "#facc15"}
	ColorError   = lipgloss.AdaptiveColor{Light: "#dc2626", Dark: "#f87171"}
)

// ─── Icons ───────────────────────────────────────────────────────────────────

const (
	IconBlock = "■"
	IconArrow = "→"
	IconFull  = "█"
	IconEmpty = "░"
)

// ─── Styles ──────────────────────────────────────────────────────────────────

var (
	TitleStyle  = lipgloss.NewStyle().Bold(true).Foreground(ColorPrimary)
	HeaderStyle = lipgloss.NewStyle().Bold(true).Foreground(ColorSecondary)
	BoldStyle   = lipgloss.NewStyle().Bold(true).Foreground(ColorText)
	MutedStyle  = lipgloss.NewStyle().Foreground(ColorMuted)

	PanelStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(ColorPrimary).
			Padding(0, 1)

	SavingsPanelStyle = lipgloss.NewStyle().
				Border(lipgloss.RoundedBorder()).
				BorderForeground(ColorWarning).
				Padding(0, 1)
)

// TierColor maps a safety tier to its color: SAFE is red (delete now),
// REVIEW yellow, KEEP green.
func TierColor(t config.Tier) lipgloss.AdaptiveColor {
	switch t {
	case config.TierSafe:
		return ColorError
	case config.TierReview:
		return ColorWarning
	default:
		return ColorSuccess
	}
}

// TierStyle renders text in the tier's color.
func TierStyle(t config.Tier) lipgloss.Style {
	return lipgloss.NewStyle().Foreground(TierColor(t))
}

// UsageColor picks green below 60 %, yellow below 80 %, red above.
func UsageColor(pct float64) lipgloss.AdaptiveColor {
	switch {
	case pct < 60:
		return ColorSuccess
	case pct < 80:
		return ColorWarning
	default:
		return ColorError
	}
}

// UsageBar renders a ████░░░░ bar colored by UsageColor.
func UsageBar(pct float64, width int) string {
	if pct < 0 {
		pct = 0
	}
	if pct > 100 {
		pct = 100
	}
	filled := int(pct / 100 * float64(width))
	if filled > width {
		filled = width
	}

	fStr := lipgloss.NewStyle().Foreground(UsageColor(pct)).Render(strings.Repeat(IconFull, filled))
	eStr := MutedStyle.Render(strings.Repeat(IconEmpty, width-filled))
	return fStr + eStr
}
