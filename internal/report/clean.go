package report

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/lakshaymaurya-felt/diskaudit/internal/config"
	"github.com/lakshaymaurya-felt/diskaudit/internal/core"
	"github.com/lakshaymaurya-felt/diskaudit/internal/recommend"
	"github.com/lakshaymaurya-felt/diskaudit/internal/ui"
)

// RenderClean lists the commands for recommendations that are safe to run
// without review. Nothing is executed.
func RenderClean(recs []recommend.Recommendation) string {
	safe := recommend.SafeOnly(recs)
	if len(safe) == 0 {
		return lipgloss.NewStyle().Foreground(ui.ColorSuccess).Render("Nothing safe to clean up!") + "\n"
	}

	cmdStyle := ui.TierStyle(config.TierSafe)

	var b strings.Builder
	b.WriteString(ui.BoldStyle.Render("Safe cleanup commands (review before running):"))
	b.WriteString("\n")
	for i, r := range safe {
		fmt.Fprintf(&b, "\n%s %s\n",
			ui.BoldStyle.Render(fmt.Sprintf("%d. %s", i+1, r.Label)),
			ui.MutedStyle.Render("("+core.FormatGB(r.SizeBytes)+")"))
		fmt.Fprintf(&b, "   %s\n", cmdStyle.Render(r.Command))
	}
	return b.String()
}
