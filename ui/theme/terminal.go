package theme

import "github.com/charmbracelet/lipgloss"

// TerminalStyles are the lipgloss equivalents of the Tk styles.
type TerminalStyles struct {
	Title     lipgloss.Style
	Tab       lipgloss.Style
	ActiveTab lipgloss.Style
	Label     lipgloss.Style
	Value     lipgloss.Style
	Highlight lipgloss.Style
	Card      lipgloss.Style
	Active    lipgloss.Style
	Muted     lipgloss.Style
	Selected  lipgloss.Style
	Help      lipgloss.Style
}

// Terminal builds terminal styles from the current palette.
func Terminal() TerminalStyles {
	p := CurrentPalette()
	card := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color(p.Border)).
		Padding(0, 1)
	return TerminalStyles{
		Title:     lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color(p.Primary)),
		Tab:       lipgloss.NewStyle().Padding(0, 1).Foreground(lipgloss.Color(p.TextMuted)),
		ActiveTab: lipgloss.NewStyle().Padding(0, 1).Bold(true).Underline(true).Foreground(lipgloss.Color(p.Primary)),
		Label:     lipgloss.NewStyle().Foreground(lipgloss.Color(p.TextMuted)),
		Value:     lipgloss.NewStyle().Bold(true),
		Highlight: lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color(p.Warning)),
		Card:      card,
		Active:    card.BorderForeground(lipgloss.Color(p.Accent)),
		Muted:     lipgloss.NewStyle().Foreground(lipgloss.Color(p.TextMuted)),
		Selected:  lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color(p.Primary)),
		Help:      lipgloss.NewStyle().Foreground(lipgloss.Color(p.TextMuted)).Italic(true),
	}
}

// Indicator renders a colored status word.
func (TerminalStyles) Indicator(indicator string) string {
	return lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color(IndicatorColor(indicator))).Render("● " + indicator)
}

// Notice renders a notification line for a severity name.
func (TerminalStyles) Notice(severity, text string) string {
	return lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color(SeverityColor(severity))).Render(text)
}
