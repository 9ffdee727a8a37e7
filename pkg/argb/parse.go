package argb

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/lucasb-eyer/go-colorful"
)

var named = map[string]uint32{
	"black":   Black,
	"white":   White,
	"grey":    Grey,
	"gray":    Grey,
	"red":     0xFFFF0000,
	"green":   0xFF00FF00,
	"blue":    0xFF0000FF,
	"yellow":  0xFFFFFF00,
	"cyan":    0xFF00FFFF,
	"magenta": 0xFFFF00FF,
	"orange":  0xFFFFA500,
	"sky":     0xFF87CEEB,
}

// Parse reads a color written as a name ("orange"), a hex triplet ("#f80",
// "#ff8800"), a hex quad with leading alpha ("#80ff8800") or a decimal
// "r,g,b[,a]" list.
func Parse(s string) (uint32, error) {
	s = strings.TrimSpace(strings.ToLower(s))
	if c, ok := named[s]; ok {
		return c, nil
	}

	if strings.Contains(s, ",") {
		parts := strings.Split(s, ",")
		if len(parts) != 3 && len(parts) != 4 {
			return 0, fmt.Errorf("parse color %q: want 3 or 4 components", s)
		}
		ch := [4]int{0, 0, 0, 255}
		for i, p := range parts {
			v, err := strconv.Atoi(strings.TrimSpace(p))
			if err != nil {
				return 0, fmt.Errorf("parse color %q: %w", s, err)
			}
			ch[i] = v
		}
		return CropRGBA(ch[0], ch[1], ch[2], ch[3]), nil
	}

	if !strings.HasPrefix(s, "#") {
		s = "#" + s
	}
	if len(s) == 9 {
		v, err := strconv.ParseUint(s[1:], 16, 32)
		if err != nil {
			return 0, fmt.Errorf("parse color %q: %w", s, err)
		}
		return uint32(v), nil
	}

	c, err := colorful.Hex(s)
	if err != nil {
		return 0, fmt.Errorf("parse color %q: %w", s, err)
	}
	r, g, b := c.Clamped().RGB255()
	return RGB(int(r), int(g), int(b)), nil
}

// Blend interpolates from c1 to c2 in CIE-L*a*b* space, which keeps
// perceived brightness even across hue changes. Alpha is forced opaque.
func Blend(c1, c2 uint32, t float64) uint32 {
	a := colorful.Color{R: float64(R(c1)) / 255, G: float64(G(c1)) / 255, B: float64(B(c1)) / 255}
	b := colorful.Color{R: float64(R(c2)) / 255, G: float64(G(c2)) / 255, B: float64(B(c2)) / 255}
	r, g, bl := a.BlendLab(b, t).Clamped().RGB255()
	return RGB(int(r), int(g), int(bl))
}
