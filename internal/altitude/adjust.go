package altitude

import "image/color"

// Brighten scales each channel by factor, saturating at 255
func Brighten(c color.RGBA, factor float64) color.RGBA {
	return color.RGBA{
		R: clamp(float64(c.R) * factor),
		G: clamp(float64(c.G) * factor),
		B: clamp(float64(c.B) * factor),
		A: c.A,
	}
}

// Dim fades c toward black by alpha in [0, 1]
func Dim(c color.RGBA, alpha float64) color.RGBA {
	if alpha < 0 {
		alpha = 0
	} else if alpha > 1 {
		alpha = 1
	}
	return Brighten(c, alpha)
}
