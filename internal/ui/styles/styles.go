// Package styles contains Lip Gloss style definitions.
//
// Colors are mutable package vars so themes can swap them at startup;
// derived styles are rebuilt through rebuildStyles after a theme is
// applied.
package styles

import (
	"fmt"
	"os"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
)

// ColorToken identifies a themeable color slot.
type ColorToken string

// Color tokens accepted in theme config overrides.
const (
	TokenTextPrimary   ColorToken = "text.primary"
	TokenTextSecondary ColorToken = "text.secondary"
	TokenTextMuted     ColorToken = "text.muted"

	TokenStatusSuccess ColorToken = "status.success"
	TokenStatusWarning ColorToken = "status.warning"
	TokenStatusError   ColorToken = "status.error"

	TokenBorderDefault        ColorToken = "border.default"
	TokenBorderHighlightFocus ColorToken = "border.highlight.focus"

	TokenSelectionBackground ColorToken = "selection.background"

	TokenGraphSelected  ColorToken = "graph.selected"
	TokenGraphRefBranch ColorToken = "graph.ref.branch"
	TokenGraphRefTag    ColorToken = "graph.ref.tag"

	TokenGraphLane0 ColorToken = "graph.lane0"
	TokenGraphLane1 ColorToken = "graph.lane1"
	TokenGraphLane2 ColorToken = "graph.lane2"
	TokenGraphLane3 ColorToken = "graph.lane3"
	TokenGraphLane4 ColorToken = "graph.lane4"
	TokenGraphLane5 ColorToken = "graph.lane5"
	TokenGraphLane6 ColorToken = "graph.lane6"
	TokenGraphLane7 ColorToken = "graph.lane7"
)

// laneTokens indexes the lane tokens by palette slot.
var laneTokens = [...]ColorToken{
	TokenGraphLane0, TokenGraphLane1, TokenGraphLane2, TokenGraphLane3,
	TokenGraphLane4, TokenGraphLane5, TokenGraphLane6, TokenGraphLane7,
}

// Adaptive colors updated by ApplyTheme. Light values stay close to the
// dark ones; presets are designed against dark terminals first.
var (
	TextPrimaryColor   = lipgloss.AdaptiveColor{Light: "#1A1A2E", Dark: "#CDD6F4"}
	TextSecondaryColor = lipgloss.AdaptiveColor{Light: "#4A4A68", Dark: "#A6ADC8"}
	TextMutedColor     = lipgloss.AdaptiveColor{Light: "#8888A0", Dark: "#6C7086"}

	StatusSuccessColor = lipgloss.AdaptiveColor{Light: "#2D7D46", Dark: "#A6E3A1"}
	StatusWarningColor = lipgloss.AdaptiveColor{Light: "#9A6700", Dark: "#F9E2AF"}
	StatusErrorColor   = lipgloss.AdaptiveColor{Light: "#C53030", Dark: "#F38BA8"}

	SelectionBackgroundColor = lipgloss.AdaptiveColor{Light: "#E4E4F0", Dark: "#313244"}

	BorderDefaultColor        = lipgloss.AdaptiveColor{Light: "#C8C8D8", Dark: "#45475A"}
	BorderHighlightFocusColor = lipgloss.AdaptiveColor{Light: "#7C3AED", Dark: "#CBA6F7"}

	GraphSelectedColor  = lipgloss.AdaptiveColor{Light: "#7C3AED", Dark: "#F5C2E7"}
	GraphRefBranchColor = lipgloss.AdaptiveColor{Light: "#2D7D46", Dark: "#A6E3A1"}
	GraphRefTagColor    = lipgloss.AdaptiveColor{Light: "#9A6700", Dark: "#F9E2AF"}

	// LaneColors is the cycling palette for graph lanes. Adjacent lanes
	// get visually distant hues so crossing edges stay readable.
	LaneColors = [8]lipgloss.AdaptiveColor{
		{Light: "#1D4ED8", Dark: "#89B4FA"},
		{Light: "#C53030", Dark: "#F38BA8"},
		{Light: "#2D7D46", Dark: "#A6E3A1"},
		{Light: "#9A6700", Dark: "#F9E2AF"},
		{Light: "#7C3AED", Dark: "#CBA6F7"},
		{Light: "#0E7490", Dark: "#94E2D5"},
		{Light: "#BE185D", Dark: "#F5C2E7"},
		{Light: "#B45309", Dark: "#FAB387"},
	}
)

// tokenTargets maps each token to the color var it controls.
func tokenTargets() map[ColorToken]*lipgloss.AdaptiveColor {
	targets := map[ColorToken]*lipgloss.AdaptiveColor{
		TokenTextPrimary:          &TextPrimaryColor,
		TokenTextSecondary:        &TextSecondaryColor,
		TokenTextMuted:            &TextMutedColor,
		TokenStatusSuccess:        &StatusSuccessColor,
		TokenStatusWarning:        &StatusWarningColor,
		TokenStatusError:          &StatusErrorColor,
		TokenSelectionBackground:  &SelectionBackgroundColor,
		TokenBorderDefault:        &BorderDefaultColor,
		TokenBorderHighlightFocus: &BorderHighlightFocusColor,
		TokenGraphSelected:        &GraphSelectedColor,
		TokenGraphRefBranch:       &GraphRefBranchColor,
		TokenGraphRefTag:          &GraphRefTagColor,
	}
	for i := range laneTokens {
		targets[laneTokens[i]] = &LaneColors[i]
	}
	return targets
}

// Styles derived from the color vars. Rebuilt by rebuildStyles.
var (
	SelectedRowStyle lipgloss.Style
	HashStyle        lipgloss.Style
	SubjectStyle     lipgloss.Style
	AuthorStyle      lipgloss.Style
	DateStyle        lipgloss.Style
	RefBranchStyle   lipgloss.Style
	RefTagStyle      lipgloss.Style
	StatusBarStyle   lipgloss.Style
	ErrorStyle       lipgloss.Style
	laneStyles       [8]lipgloss.Style
)

func init() {
	rebuildStyles()
}

func rebuildStyles() {
	SelectedRowStyle = lipgloss.NewStyle().Foreground(GraphSelectedColor).Background(SelectionBackgroundColor).Bold(true)
	HashStyle = lipgloss.NewStyle().Foreground(TextMutedColor)
	SubjectStyle = lipgloss.NewStyle().Foreground(TextPrimaryColor)
	AuthorStyle = lipgloss.NewStyle().Foreground(TextSecondaryColor)
	DateStyle = lipgloss.NewStyle().Foreground(TextMutedColor)
	RefBranchStyle = lipgloss.NewStyle().Foreground(GraphRefBranchColor).Bold(true)
	RefTagStyle = lipgloss.NewStyle().Foreground(GraphRefTagColor)
	StatusBarStyle = lipgloss.NewStyle().Foreground(TextSecondaryColor)
	ErrorStyle = lipgloss.NewStyle().Foreground(StatusErrorColor).Bold(true)
	for i := range LaneColors {
		laneStyles[i] = lipgloss.NewStyle().Foreground(LaneColors[i])
	}
}

// LaneStyle returns the style for a lane color index. Indexes beyond
// the palette wrap.
func LaneStyle(colorIndex int) lipgloss.Style {
	if colorIndex < 0 {
		colorIndex = 0
	}
	return laneStyles[colorIndex%len(laneStyles)]
}

// PaletteSize is the number of distinct lane colors.
func PaletteSize() int {
	return len(LaneColors)
}

// Preset is a named bundle of token colors.
type Preset struct {
	Name        string
	Description string
	Colors      map[ColorToken]string
}

// Presets holds the built-in themes, keyed by name.
var Presets = map[string]Preset{
	"dracula": {
		Name:        "dracula",
		Description: "Dracula dark theme",
		Colors: map[ColorToken]string{
			TokenTextPrimary:          "#F8F8F2",
			TokenTextSecondary:        "#BFBFBF",
			TokenTextMuted:            "#6272A4",
			TokenStatusSuccess:        "#50FA7B",
			TokenStatusWarning:        "#F1FA8C",
			TokenStatusError:          "#FF5555",
			TokenBorderDefault:        "#44475A",
			TokenBorderHighlightFocus: "#BD93F9",
			TokenGraphSelected:        "#FF79C6",
			TokenGraphRefBranch:       "#50FA7B",
			TokenGraphRefTag:          "#F1FA8C",
			TokenGraphLane0:           "#8BE9FD",
			TokenGraphLane1:           "#FF5555",
			TokenGraphLane2:           "#50FA7B",
			TokenGraphLane3:           "#F1FA8C",
			TokenGraphLane4:           "#BD93F9",
			TokenGraphLane5:           "#FFB86C",
			TokenGraphLane6:           "#FF79C6",
			TokenGraphLane7:           "#6272A4",
		},
	},
	"nord": {
		Name:        "nord",
		Description: "Nord arctic theme",
		Colors: map[ColorToken]string{
			TokenTextPrimary:          "#ECEFF4",
			TokenTextSecondary:        "#D8DEE9",
			TokenTextMuted:            "#4C566A",
			TokenStatusSuccess:        "#A3BE8C",
			TokenStatusWarning:        "#EBCB8B",
			TokenStatusError:          "#BF616A",
			TokenBorderDefault:        "#3B4252",
			TokenBorderHighlightFocus: "#88C0D0",
			TokenGraphSelected:        "#B48EAD",
			TokenGraphRefBranch:       "#A3BE8C",
			TokenGraphRefTag:          "#EBCB8B",
			TokenGraphLane0:           "#88C0D0",
			TokenGraphLane1:           "#BF616A",
			TokenGraphLane2:           "#A3BE8C",
			TokenGraphLane3:           "#EBCB8B",
			TokenGraphLane4:           "#B48EAD",
			TokenGraphLane5:           "#8FBCBB",
			TokenGraphLane6:           "#D08770",
			TokenGraphLane7:           "#5E81AC",
		},
	},
	"high-contrast": {
		Name:        "high-contrast",
		Description: "Maximum contrast for accessibility",
		Colors: map[ColorToken]string{
			TokenTextPrimary:          "#FFFFFF",
			TokenTextSecondary:        "#E0E0E0",
			TokenTextMuted:            "#A0A0A0",
			TokenStatusSuccess:        "#00FF00",
			TokenStatusWarning:        "#FFFF00",
			TokenStatusError:          "#FF0000",
			TokenBorderDefault:        "#FFFFFF",
			TokenBorderHighlightFocus: "#00FFFF",
			TokenGraphSelected:        "#FF00FF",
			TokenGraphRefBranch:       "#00FF00",
			TokenGraphRefTag:          "#FFFF00",
			TokenGraphLane0:           "#00FFFF",
			TokenGraphLane1:           "#FF0000",
			TokenGraphLane2:           "#00FF00",
			TokenGraphLane3:           "#FFFF00",
			TokenGraphLane4:           "#FF00FF",
			TokenGraphLane5:           "#FFFFFF",
			TokenGraphLane6:           "#FF8000",
			TokenGraphLane7:           "#0080FF",
		},
	},
}

// DefaultPreset holds the baseline colors restored when no preset is
// requested.
var DefaultPreset = Preset{
	Name:        "default",
	Description: "Built-in catppuccin-leaning defaults",
	Colors: map[ColorToken]string{
		TokenTextPrimary:          "#CDD6F4",
		TokenTextSecondary:        "#A6ADC8",
		TokenTextMuted:            "#6C7086",
		TokenStatusSuccess:        "#A6E3A1",
		TokenStatusWarning:        "#F9E2AF",
		TokenStatusError:          "#F38BA8",
		TokenBorderDefault:        "#45475A",
		TokenBorderHighlightFocus: "#CBA6F7",
		TokenGraphSelected:        "#F5C2E7",
		TokenGraphRefBranch:       "#A6E3A1",
		TokenGraphRefTag:          "#F9E2AF",
		TokenGraphLane0:           "#89B4FA",
		TokenGraphLane1:           "#F38BA8",
		TokenGraphLane2:           "#A6E3A1",
		TokenGraphLane3:           "#F9E2AF",
		TokenGraphLane4:           "#CBA6F7",
		TokenGraphLane5:           "#94E2D5",
		TokenGraphLane6:           "#F5C2E7",
		TokenGraphLane7:           "#FAB387",
	},
}

// ThemeConfig is the theme section of the user config.
type ThemeConfig struct {
	Preset     string            `mapstructure:"preset"`
	Background string            `mapstructure:"background"`
	Colors     map[string]string `mapstructure:"colors"`
}

// ApplyBackground sets the dark/light rendering mode. "auto" (or empty)
// probes the terminal via termenv; "dark" and "light" force the mode
// for terminals that misreport their background.
func ApplyBackground(mode string) error {
	switch mode {
	case "", "auto":
		out := termenv.NewOutput(os.Stdout)
		lipgloss.DefaultRenderer().SetHasDarkBackground(out.HasDarkBackground())
	case "dark":
		lipgloss.DefaultRenderer().SetHasDarkBackground(true)
	case "light":
		lipgloss.DefaultRenderer().SetHasDarkBackground(false)
	default:
		return fmt.Errorf("unknown theme background: %s", mode)
	}
	return nil
}

// ApplyTheme sets token colors from config and rebuilds derived styles.
// Preset colors apply first, explicit overrides win over the preset.
func ApplyTheme(config ThemeConfig) error {
	preset := DefaultPreset
	if config.Preset != "" && config.Preset != "default" {
		p, ok := Presets[config.Preset]
		if !ok {
			return fmt.Errorf("unknown theme preset: %s", config.Preset)
		}
		preset = p
	}

	targets := tokenTargets()

	for token, hex := range preset.Colors {
		if target, ok := targets[token]; ok {
			target.Dark = hex
		}
	}

	for name, hex := range config.Colors {
		token := ColorToken(name)
		target, ok := targets[token]
		if !ok {
			return fmt.Errorf("unknown color token: %s", name)
		}
		if !isValidHexColor(hex) {
			return fmt.Errorf("invalid hex color for %s: %s", name, hex)
		}
		target.Dark = hex
	}

	rebuildStyles()
	return nil
}

func isValidToken(token ColorToken) bool {
	_, ok := tokenTargets()[token]
	return ok
}

func isValidHexColor(color string) bool {
	if len(color) != 4 && len(color) != 7 {
		return false
	}
	if color[0] != '#' {
		return false
	}
	for _, r := range color[1:] {
		switch {
		case r >= '0' && r <= '9':
		case r >= 'a' && r <= 'f':
		case r >= 'A' && r <= 'F':
		default:
			return false
		}
	}
	return true
}
