package theme

import (
	"strconv"
	"strings"

	"github.com/gdamore/tcell/v2"
	"github.com/lucasb-eyer/go-colorful"
)

// HexToColor converts a hex color string (#RRGGBB or #RGB) to tcell.Color
func HexToColor(hexColor string) tcell.Color {
	c, ok := parseHex(hexColor)
	if !ok {
		return tcell.ColorDefault
	}
	return fromColorful(c)
}

func parseHex(hexColor string) (colorful.Color, bool) {
	hexColor = strings.TrimPrefix(strings.TrimSpace(hexColor), "#")
	if len(hexColor) == 3 {
		hexColor = string([]byte{hexColor[0], hexColor[0], hexColor[1], hexColor[1], hexColor[2], hexColor[2]})
	}
	if len(hexColor) != 6 {
		return colorful.Color{}, false
	}
	c, err := colorful.Hex("#" + hexColor)
	if err != nil {
		return colorful.Color{}, false
	}
	return c, true
}

func fromColorful(c colorful.Color) tcell.Color {
	r, g, b := c.Clamped().RGB255()
	return tcell.NewRGBColor(int32(r), int32(g), int32(b))
}

// Blend mixes two hex colors in Lab space; t=0 gives a, t=1 gives b. Dimmed
// rows are drawn this way.
func Blend(a, b string, t float64) tcell.Color {
	ca, okA := parseHex(a)
	cb, okB := parseHex(b)
	if !okA || !okB {
		return tcell.ColorDefault
	}
	return fromColorful(ca.BlendLab(cb, t))
}

// RGBToColor converts RGB values to tcell.Color
func RGBToColor(r, g, b int) tcell.Color {
	if r < 0 || r > 255 || g < 0 || g > 255 || b < 0 || b > 255 {
		return tcell.ColorDefault
	}
	return tcell.NewRGBColor(int32(r), int32(g), int32(b))
}

// ParseColorString handles multiple color formats: #RRGGBB, #RGB, rgb(r,g,b)
// or a named terminal color
func ParseColorString(colorStr string) tcell.Color {
	colorStr = strings.TrimSpace(colorStr)

	switch {
	case strings.HasPrefix(colorStr, "#"):
		return HexToColor(colorStr)
	case strings.HasPrefix(colorStr, "rgb(") && strings.HasSuffix(colorStr, ")"):
		parts := strings.Split(colorStr[len("rgb("):len(colorStr)-1], ",")
		if len(parts) != 3 {
			return tcell.ColorDefault
		}
		var rgb [3]int
		for i, part := range parts {
			n, err := strconv.Atoi(strings.TrimSpace(part))
			if err != nil {
				return tcell.ColorDefault
			}
			rgb[i] = n
		}
		return RGBToColor(rgb[0], rgb[1], rgb[2])
	}
	if c, ok := tcell.ColorNames[strings.ToLower(colorStr)]; ok {
		return c
	}
	return tcell.ColorDefault
}

// ColorToStyle creates a style with a specific foreground color
func ColorToStyle(fgColor tcell.Color) tcell.Style {
	return tcell.StyleDefault.Foreground(fgColor)
}
