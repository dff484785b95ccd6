package repl

import (
	"github.com/charmbracelet/lipgloss"
)

var (
	brandColor  = lipgloss.ANSIColor(208) // orange
	accentColor = lipgloss.ANSIColor(180) // tan
	mutedColor  = lipgloss.ANSIColor(244) // gray
)

const bannerWidth = 62

// styles binds the palette to one renderer so colour detection follows the
// writer the REPL actually draws on.
type styles struct {
	brand  lipgloss.Style
	banner lipgloss.Style
	bold   lipgloss.Style
	dim    lipgloss.Style
	accent lipgloss.Style
	muted  lipgloss.Style
}

func newStyles(r *lipgloss.Renderer) styles {
	base := r.NewStyle().TabWidth(lipgloss.NoTabConversion)
	return styles{
		brand: base.Foreground(brandColor),
		banner: base.
			Border(lipgloss.NormalBorder()).
			BorderForeground(brandColor).
			Width(bannerWidth).
			Align(lipgloss.Center),
		bold:   base.Bold(true),
		dim:    base.Faint(true),
		accent: base.Foreground(accentColor),
		muted:  base.Foreground(mutedColor),
	}
}
