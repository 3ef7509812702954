package ui

import (
	"github.com/charmbracelet/lipgloss"
	te "github.com/muesli/termenv"
)

type StyleFunc func(string) string

const (
	DarkGrayHex = "#333333"
)

// ColorPair is a colour for dark and light terminal backgrounds
type ColorPair struct {
	Dark  string
	Light string
}

func NewColorPair(dark, light string) ColorPair {
	return ColorPair{Dark: dark, Light: light}
}

// Color picks the variant for the current terminal
func (c ColorPair) Color() te.Color {
	if te.HasDarkBackground() {
		return te.ColorProfile().Color(c.Dark)
	}
	return te.ColorProfile().Color(c.Light)
}

// Adaptive is the same pair as a lipgloss colour
func (c ColorPair) Adaptive() lipgloss.AdaptiveColor {
	return lipgloss.AdaptiveColor{Dark: c.Dark, Light: c.Light}
}

var (
	Cream       = NewColorPair("#FFFDF5", "#FFFDF5")
	Fuchsia     = NewColorPair("#EE6FF8", "#EE6FF8")
	Indigo      = NewColorPair("#7571F9", "#5A56E0")
	YellowGreen = NewColorPair("#ECFD65", "#04B575")
	Green       = NewColorPair("#04B575", "#04B575")
	Red         = NewColorPair("#ED567A", "#FF4672")
	FaintRed    = NewColorPair("#C74665", "#FF6F91")
	SubtleGray  = NewColorPair("#5C5C5C", "#9B9B9B")
	Navy        = NewColorPair("#1D3557", "#1D3557")
	Sea         = NewColorPair("#457B9D", "#457B9D")

	// Row colours
	ItemLinePrimaryFocused     = FuchsiaFg
	ItemLineSecondaryFocused   = DullFuchsiaFg
	ItemLinePrimaryUnfocused   = BrightGrayFg
	ItemLineSecondaryUnfocused = DimBrightGrayFg

	NormalFg    = NewFgStyle(NewColorPair("#dddddd", "#1a1a1a"))
	DimNormalFg = NewFgStyle(NewColorPair("#777777", "#A49FA5"))

	BrightGrayFg    = NewFgStyle(NewColorPair("#979797", "#847A85"))
	DimBrightGrayFg = NewFgStyle(NewColorPair("#4D4D4D", "#C2B8C2"))

	GrayFg     = NewFgStyle(NewColorPair("#626262", "#909090"))
	DarkGrayFg = NewFgStyle(NewColorPair("#3C3C3C", "#DDDADA"))
	SubtleFg   = NewFgStyle(SubtleGray)

	GreenFg    = NewFgStyle(Green)
	DimGreenFg = NewFgStyle(NewColorPair("#0B5137", "#72D2B0"))

	FuchsiaFg     = NewFgStyle(Fuchsia)
	DullFuchsiaFg = NewFgStyle(NewColorPair("#AD58B4", "#F793FF"))

	IndigoFg       = NewFgStyle(Indigo)
	SubtleIndigoFg = NewFgStyle(NewColorPair("#514DC1", "#7D79F6"))

	YellowFg     = NewFgStyle(YellowGreen)                        // renders light green on light backgrounds
	DullYellowFg = NewFgStyle(NewColorPair("#9BA92F", "#6BCB94")) // renders light green on light backgrounds
	RedFg        = NewFgStyle(Red)
	FaintRedFg   = NewFgStyle(FaintRed)

	TabColor         = NewFgStyle(NewColorPair("#962fbf", "#962fbf"))
	SelectedTabColor = NewFgStyle(NewColorPair("#d62976", "#d62976"))

	// Logo is the reverse video badge in the list and pager headers
	Logo = NewStyle(Cream, Sea, true)
)

// NewStyle returns a termenv style with foreground and background options.
func NewStyle(fg, bg ColorPair, bold bool) StyleFunc {
	s := te.Style{}.Foreground(fg.Color()).Background(bg.Color())
	if bold {
		s = s.Bold()
	}
	return s.Styled
}

// NewFgStyle returns a termenv style with a foreground only.
func NewFgStyle(c ColorPair) StyleFunc {
	return te.Style{}.Foreground(c.Color()).Styled
}

// Termenv is the raw style behind NewFgStyle, for helpers that take one
func Termenv(c ColorPair) te.Style {
	return te.Style{}.Foreground(c.Color())
}
