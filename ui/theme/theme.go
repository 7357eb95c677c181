package theme

// Palette and ttk style setup for the media visualizer window.

import (
	//lint:ignore ST1001 Dot import is intentional for concise Tk widget DSL builders.
	. "modernc.org/tk9.0"
)

// PaletteSnapshot holds the resolved colours for one mode.
type PaletteSnapshot struct {
	AppBg     string
	Surface   string
	Border    string
	Primary   string
	Danger    string
	Accent    string
	Text      string
	TextMuted string
}

var (
	light = PaletteSnapshot{
		AppBg:     "#f7f9fb",
		Surface:   "#ffffff",
		Border:    "#d0d7de",
		Primary:   "#2563eb",
		Danger:    "#dc2626",
		Accent:    "#0d9488",
		Text:      "#1e293b",
		TextMuted: "#64748b",
	}
	dark = PaletteSnapshot{
		AppBg:     "#0f172a",
		Surface:   "#1e293b",
		Border:    "#334155",
		Primary:   "#3b82f6",
		Danger:    "#ef4444",
		Accent:    "#14b8a6",
		Text:      "#f1f5f9",
		TextMuted: "#94a3b8",
	}
)

// style names used with Style("primary.TButton") etc.
const (
	StylePrimaryButton = "primary.TButton"
	StyleDangerButton  = "danger.TButton"
	StyleToolButton    = "tool.TButton"
	StyleStatusLabel   = "status.TLabel"
	StyleHeaderLabel   = "header.TLabel"
	StyleMutedLabel    = "muted.TLabel"
)

var darkMode bool

// CurrentPalette returns the palette for the active mode.
func CurrentPalette() PaletteSnapshot {
	if darkMode {
		return dark
	}
	return light
}

// InitStyles (re)applies styles for the current mode.
func InitStyles() { apply(CurrentPalette()) }

// SetDark switches mode and reapplies styles.
func SetDark(on bool) bool {
	darkMode = on
	apply(CurrentPalette())
	return darkMode
}

// ToggleDark flips the mode. Returns the new value.
func ToggleDark() bool { return SetDark(!darkMode) }

func apply(p PaletteSnapshot) {
	_ = ActivateTheme("azure light")
	App.Configure(Background(p.AppBg))

	StyleConfigure(StylePrimaryButton, Background(p.Primary), Foreground("white"), Padding("4p 3p"), Borderwidth(1), Relief("ridge"))
	StyleConfigure(StyleDangerButton, Background(p.Danger), Foreground("white"), Padding("4p 3p"), Borderwidth(1), Relief("ridge"))
	StyleConfigure(StyleToolButton, Background(p.Surface), Foreground(p.Text), Padding("3p 2p"), Borderwidth(1), Relief("groove"))
	StyleConfigure(StyleStatusLabel, Background(p.Surface), Foreground(p.Text), Padding("4p 2p"), Borderwidth(1), Relief("sunken"))
	StyleConfigure(StyleHeaderLabel, Background(p.AppBg), Foreground(p.Accent), Padding("2p 1p"))
	StyleConfigure(StyleMutedLabel, Background(p.AppBg), Foreground(p.TextMuted))
}
