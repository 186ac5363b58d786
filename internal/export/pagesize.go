package export

import "math"

// PageSize is a physical sheet size in millimetres.
type PageSize struct {
	Width  float64
	Height float64
}

// A4 portrait.
var A4 = PageSize{Width: 210, Height: 297}

// PreviewDPI is the resolution page markup is laid out at.
const PreviewDPI = 96

const mmPerInch = 25.4

// Pixels returns the sheet size in CSS pixels at dpi, rounded to whole pixels.
func (s PageSize) Pixels(dpi float64) (width, height int) {
	w := math.Round(s.Width / mmPerInch * dpi)
	h := math.Round(s.Height / mmPerInch * dpi)
	return int(w), int(h)
}
