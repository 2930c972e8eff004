package theme

// Palette defines core semantic colors used across widgets.
// These can later be switched dynamically (e.g., dark mode) by re-calling SetDark.
const (
	ColorBg        = "#f7f9fb" // app background
	ColorSurface   = "#ffffff" // panels, cards
	ColorBorder    = "#d0d7de"
	ColorPrimary   = "#2563eb" // buttons, accents
	ColorDanger    = "#dc2626"
	ColorAccent    = "#10b981"
	ColorWarning   = "#f59e0b"
	ColorText      = "#1e293b"
	ColorTextMuted = "#64748b"
	ColorHighlight = "#fef3c7"
	ColorActive    = "#ecfdf5"
)

// PaletteSnapshot represents resolved colors for the active mode.
type PaletteSnapshot struct {
	AppBg     string
	Surface   string
	Border    string
	Primary   string
	Danger    string
	Accent    string
	Warning   string
	Text      string
	TextMuted string
	Highlight string
	Active    string
}

// internal flag for current mode
var darkMode bool

// CurrentPalette returns colors for the current dark/light mode.
func CurrentPalette() PaletteSnapshot {
	if darkMode {
		return PaletteSnapshot{
			AppBg:     "#0f172a",
			Surface:   "#1e293b",
			Border:    "#334155",
			Primary:   "#3b82f6",
			Danger:    "#ef4444",
			Accent:    "#10b981",
			Warning:   "#fbbf24",
			Text:      "#f1f5f9",
			TextMuted: "#94a3b8",
			Highlight: "#854d0e",
			Active:    "#064e3b",
		}
	}
	return PaletteSnapshot{
		AppBg:     ColorBg,
		Surface:   ColorSurface,
		Border:    ColorBorder,
		Primary:   ColorPrimary,
		Danger:    ColorDanger,
		Accent:    ColorAccent,
		Warning:   ColorWarning,
		Text:      ColorText,
		TextMuted: ColorTextMuted,
		Highlight: ColorHighlight,
		Active:    ColorActive,
	}
}

// IsDark reports current mode.
func IsDark() bool { return darkMode }

// IndicatorColor maps a camera indicator ("processing", "connected",
// "disconnected") to its color.
func IndicatorColor(indicator string) string {
	p := CurrentPalette()
	switch indicator {
	case "processing":
		return p.Warning
	case "connected":
		return p.Accent
	}
	return p.Danger
}

// SeverityColor maps a notification severity name to its color.
func SeverityColor(severity string) string {
	p := CurrentPalette()
	switch severity {
	case "success":
		return p.Accent
	case "error":
		return p.Danger
	}
	return p.Primary
}
