package boxart

import (
	"fmt"
	"image/color"
	"strconv"
	"strings"

	"golang.org/x/image/colornames"
)

// Background is the fill used for canvas areas not covered by the source.
type Background struct {
	// Name is the value as the user wrote it.
	Name        string
	Color       color.NRGBA
	Transparent bool
}

// TransparentBackground is the "none" background.
var TransparentBackground = Background{Name: "none", Transparent: true}

// ParseBackground accepts "none", a CSS/SVG colour name, or #RGB, #RGBA,
// #RRGGBB or #RRGGBBAA.
func ParseBackground(value string) (Background, error) {
	name := strings.ToLower(strings.TrimSpace(value))
	switch name {
	case "", "none", "transparent":
		return TransparentBackground, nil
	}

	if strings.HasPrefix(name, "#") {
		c, err := parseHexColor(name[1:])
		if err != nil {
			return Background{}, &ConfigError{Field: "background", Value: value, Msg: err.Error()}
		}
		return Background{Name: name, Color: c, Transparent: c.A == 0}, nil
	}

	if named, ok := colornames.Map[name]; ok {
		c := color.NRGBAModel.Convert(named).(color.NRGBA)
		return Background{Name: name, Color: c}, nil
	}

	return Background{}, &ConfigError{Field: "background", Value: value, Msg: "expected none, a colour name or a #hex value"}
}

// Hex returns the colour as #rrggbbaa.
func (b Background) Hex() string {
	c := b.Color
	if b.Transparent {
		c = color.NRGBA{}
	}
	return fmt.Sprintf("#%02x%02x%02x%02x", c.R, c.G, c.B, c.A)
}

func (b Background) String() string {
	if b.Transparent {
		return "none"
	}
	return b.Name
}

func parseHexColor(digits string) (color.NRGBA, error) {
	switch len(digits) {
	case 3, 4:
		expanded := make([]byte, 0, len(digits)*2)
		for i := 0; i < len(digits); i++ {
			expanded = append(expanded, digits[i], digits[i])
		}
		digits = string(expanded)
	case 6, 8:
	default:
		return color.NRGBA{}, fmt.Errorf("hex colour must have 3, 4, 6 or 8 digits")
	}
	if len(digits) == 6 {
		digits += "ff"
	}
	v, err := strconv.ParseUint(digits, 16, 32)
	if err != nil {
		return color.NRGBA{}, fmt.Errorf("invalid hex colour")
	}
	return color.NRGBA{
		R: uint8(v >> 24),
		G: uint8(v >> 16),
		B: uint8(v >> 8),
		A: uint8(v),
	}, nil
}
