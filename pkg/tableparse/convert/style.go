package convert

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/ukaji3/tableparse-go/pkg/tableparse/models"
)

// HighlightBounds define the background hue range reported as highlight:
// red and green above their minimums and blue below its maximum. The
// defaults match yellow-ish marker colors.
type HighlightBounds struct {
	MinRed   int
	MinGreen int
	MaxBlue  int
}

// DefaultHighlightBounds returns the yellow highlight range.
func DefaultHighlightBounds() HighlightBounds {
	return HighlightBounds{MinRed: 200, MinGreen: 200, MaxBlue: 150}
}

// Matches reports whether a "#RRGGBB" color falls inside the bounds.
func (h HighlightBounds) Matches(hex string) bool {
	r, g, b, ok := parseHexColor(hex)
	if !ok {
		return false
	}
	return r > h.MinRed && g > h.MinGreen && b < h.MaxBlue
}

func parseHexColor(hex string) (r, g, b int, ok bool) {
	hex = strings.TrimPrefix(hex, "#")
	if len(hex) != 6 {
		return 0, 0, 0, false
	}
	v, err := strconv.ParseUint(hex, 16, 32)
	if err != nil {
		return 0, 0, 0, false
	}
	return int(v >> 16 & 0xff), int(v >> 8 & 0xff), int(v & 0xff), true
}

// styleAttr serializes a cell style as an inline style attribute,
// including the leading space. Empty when the style carries nothing.
func styleAttr(style models.CellStyle) string {
	var props []string
	if style.Background != "" {
		props = append(props, "background-color:"+style.Background)
	}
	if style.FontColor != "" {
		props = append(props, "color:"+style.FontColor)
	}
	if style.Bold {
		props = append(props, "font-weight:bold")
	}
	if style.Italic {
		props = append(props, "font-style:italic")
	}
	if style.Underline {
		props = append(props, "text-decoration:underline")
	}
	if style.FontSize > 0 {
		props = append(props, fmt.Sprintf("font-size:%gpt", style.FontSize))
	}
	if len(props) == 0 {
		return ""
	}
	return ` style="` + strings.Join(props, ";") + `"`
}
