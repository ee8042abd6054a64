package identity

import (
	"fmt"
	"math"
	"math/rand/v2"
)

// RandomInternetColor returns a random hex color biased toward saturation
// and lightness ranges that stay legible on typical chat UI backgrounds.
func RandomInternetColor() string {
	h := rand.Float64() * 360
	s := 0.55 + rand.Float64()*0.40 // 55%–95%
	l := 0.45 + rand.Float64()*0.25 // 45%–70%
	r, g, b := hslToRGB(h, s, l)
	return fmt.Sprintf("#%02x%02x%02x", r, g, b)
}

// hslToRGB converts hue [0,360), saturation [0,1], lightness [0,1] to 8-bit RGB.
func hslToRGB(h, s, l float64) (uint8, uint8, uint8) {
	c := (1 - math.Abs(2*l-1)) * s
	hp := h / 60
	x := c * (1 - math.Abs(math.Mod(hp, 2)-1))

	var r, g, b float64
	switch {
	case hp < 1:
		r, g, b = c, x, 0
	case hp < 2:
		r, g, b = x, c, 0
	case hp < 3:
		r, g, b = 0, c, x
	case hp < 4:
		r, g, b = 0, x, c
	case hp < 5:
		r, g, b = x, 0, c
	default:
		r, g, b = c, 0, x
	}

	m := l - c/2
	return clamp8(r + m), clamp8(g + m), clamp8(b + m)
}

func clamp8(v float64) uint8 {
	scaled := math.Round(v * 255)
	if scaled < 0 {
		return 0
	}
	if scaled > 255 {
		return 255
	}
	return uint8(scaled)
}
