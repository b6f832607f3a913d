package theme

import (
	"fmt"
	"math"
	"strconv"

	"github.com/charmbracelet/lipgloss"
)

// Palette holds precomputed colors derived from a Theme.
type Palette struct {
	Bg          lipgloss.Color
	BgHighlight lipgloss.Color
	BgSelection lipgloss.Color
	Fg          lipgloss.Color
	FgMuted     lipgloss.Color
	Accent      lipgloss.Color
	Placed      lipgloss.Color
	Overlap     lipgloss.Color
	Fallback    lipgloss.Color
	Deadline    lipgloss.Color
	Today       lipgloss.Color

	// Slot cell backgrounds, one per outcome, and a shared muted one for
	// slots on days that are already over.
	PlacedBg   lipgloss.Color
	OverlapBg  lipgloss.Color
	FallbackBg lipgloss.Color
	PastBg     lipgloss.Color

	TextOnAccent   lipgloss.Color
	TextOnPlaced   lipgloss.Color
	TextOnOverlap  lipgloss.Color
	TextOnFallback lipgloss.Color

	Modal ModalColors
}

// ModalColors holds modal-specific colors derived from a Theme.
type ModalColors struct {
	Bg        lipgloss.Color
	Border    lipgloss.Color
	Text      lipgloss.Color
	Muted     lipgloss.Color
	Highlight lipgloss.Color
}

// NewPalette derives a Palette from the provided Theme.
func NewPalette(t *Theme) *Palette {
	if t == nil {
		t, _ = Load("mocha")
	}

	light := isLightTheme(t.Bg)
	placedBg := slotBg(t.Placed, t.Bg, light)
	overlapBg := slotBg(t.Overlap, t.Bg, light)
	fallbackBg := slotBg(t.Fallback, t.Bg, light)

	return &Palette{
		Bg:          lipgloss.Color(t.Bg),
		BgHighlight: lipgloss.Color(t.BgHighlight),
		BgSelection: lipgloss.Color(t.BgSelection),
		Fg:          lipgloss.Color(t.Fg),
		FgMuted:     lipgloss.Color(t.FgMuted),
		Accent:      lipgloss.Color(t.Accent),
		Placed:      lipgloss.Color(t.Placed),
		Overlap:     lipgloss.Color(t.Overlap),
		Fallback:    lipgloss.Color(t.Fallback),
		Deadline:    lipgloss.Color(t.Deadline),
		Today:       lipgloss.Color(t.Today),

		PlacedBg:   lipgloss.Color(placedBg),
		OverlapBg:  lipgloss.Color(overlapBg),
		FallbackBg: lipgloss.Color(fallbackBg),
		PastBg:     lipgloss.Color(pastBg(t.FgMuted, t.Bg, light)),

		TextOnAccent:   lipgloss.Color(chooseTextColor(t.Accent, t.Bg, t.Fg)),
		TextOnPlaced:   lipgloss.Color(chooseTextColor(placedBg, t.Bg, t.Fg)),
		TextOnOverlap:  lipgloss.Color(chooseTextColor(overlapBg, t.Bg, t.Fg)),
		TextOnFallback: lipgloss.Color(chooseTextColor(fallbackBg, t.Bg, t.Fg)),

		Modal: ModalColors{
			Bg:        lipgloss.Color(coalesce(t.BaseBg, t.BgHighlight, t.Bg)),
			Border:    lipgloss.Color(coalesce(t.ModalBorder, t.Accent)),
			Text:      lipgloss.Color(coalesce(t.TextPrimary, t.Fg)),
			Muted:     lipgloss.Color(coalesce(t.TextMuted, t.FgMuted)),
			Highlight: lipgloss.Color(coalesce(t.Highlight, t.BgSelection, t.Accent)),
		},
	}
}

// rgb is a color with channels in [0, 255].
type rgb struct{ r, g, b float64 }

func parseRGB(hex string) (rgb, bool) {
	if len(hex) != 7 || hex[0] != '#' {
		return rgb{}, false
	}
	v, err := strconv.ParseUint(hex[1:], 16, 32)
	if err != nil {
		return rgb{}, false
	}
	return rgb{float64(v >> 16 & 0xff), float64(v >> 8 & 0xff), float64(v & 0xff)}, true
}

func (c rgb) hex() string {
	clamp := func(v float64) int { return int(math.Max(0, math.Min(255, v))) }
	return fmt.Sprintf("#%02x%02x%02x", clamp(c.r), clamp(c.g), clamp(c.b))
}

func isLightTheme(bg string) bool {
	return relativeLuminance(bg) > 0.55
}

// slotBg is the cell background for an outcome color: a tint towards the
// background on light themes, a darkened shade on dark ones.
func slotBg(accent, bg string, light bool) string {
	if light {
		return blendColors(accent, bg, 0.75)
	}
	return shade(accent, 0.50, 40)
}

func pastBg(muted, bg string, light bool) string {
	if light {
		return blendColors(muted, bg, 0.85)
	}
	return shade(muted, 0.40, 30)
}

// shade scales every channel by factor, keeping each at least floor.
func shade(hex string, factor, floor float64) string {
	c, ok := parseRGB(hex)
	if !ok {
		return hex
	}
	scale := func(v float64) float64 { return math.Max(v*factor, floor) }
	return rgb{scale(c.r), scale(c.g), scale(c.b)}.hex()
}

// blendColors mixes b into a; ratio 0 returns a, 1 returns b.
func blendColors(a, b string, ratio float64) string {
	ca, okA := parseRGB(a)
	cb, okB := parseRGB(b)
	if !okA || !okB {
		return a
	}
	ratio = math.Max(0, math.Min(1, ratio))
	mix := func(x, y float64) float64 { return x*(1-ratio) + y*ratio }
	return rgb{mix(ca.r, cb.r), mix(ca.g, cb.g), mix(ca.b, cb.b)}.hex()
}

// chooseTextColor returns whichever of the two text colors contrasts more
// with bg.
func chooseTextColor(bg, lightText, darkText string) string {
	if contrastRatio(bg, lightText) >= contrastRatio(bg, darkText) {
		return lightText
	}
	return darkText
}

func contrastRatio(a, b string) float64 {
	l1, l2 := relativeLuminance(a), relativeLuminance(b)
	if l1 < l2 {
		l1, l2 = l2, l1
	}
	return (l1 + 0.05) / (l2 + 0.05)
}

// relativeLuminance follows the WCAG definition. Malformed colors are black.
func relativeLuminance(hex string) float64 {
	c, ok := parseRGB(hex)
	if !ok {
		return 0
	}
	return 0.2126*srgbToLinear(c.r) + 0.7152*srgbToLinear(c.g) + 0.0722*srgbToLinear(c.b)
}

func srgbToLinear(c float64) float64 {
	v := c / 255.0
	if v <= 0.04045 {
		return v / 12.92
	}
	return math.Pow((v+0.055)/1.055, 2.4)
}
