package renderer

import (
	"fmt"
	"image"
	"image/color"
	"math"
)

// Color is a straight (non-premultiplied) RGBA color with channels in [0, 1]
type Color struct {
	R, G, B, A float64
}

var (
	// Transparent is written for pixels whose ray hits nothing
	Transparent = Color{0, 0, 0, 0}
	// OpaqueWhite is written for pixels whose ray hits a shape
	OpaqueWhite = Color{1, 1, 1, 1}
)

// Frame is a row-major RGBA pixel buffer, top row first, with a parallel
// depth buffer holding the hit distance of each pixel (+Inf on a miss).
type Frame struct {
	Width, Height int
	Pix           []float64 // 4 channels per pixel
	Depth         []float64 // 1 value per pixel
}

// NewFrame allocates a transparent frame with an empty depth buffer
func NewFrame(width, height int) *Frame {
	depth := make([]float64, width*height)
	for i := range depth {
		depth[i] = math.Inf(1)
	}
	return &Frame{
		Width:  width,
		Height: height,
		Pix:    make([]float64, 4*width*height),
		Depth:  depth,
	}
}

// At returns the color at column x, row y
func (f *Frame) At(x, y int) Color {
	i := 4 * (y*f.Width + x)
	return Color{f.Pix[i], f.Pix[i+1], f.Pix[i+2], f.Pix[i+3]}
}

// Set writes the color at column x, row y
func (f *Frame) Set(x, y int, c Color) {
	i := 4 * (y*f.Width + x)
	f.Pix[i], f.Pix[i+1], f.Pix[i+2], f.Pix[i+3] = c.R, c.G, c.B, c.A
}

// DepthAt returns the hit distance at column x, row y
func (f *Frame) DepthAt(x, y int) float64 {
	return f.Depth[y*f.Width+x]
}

// SetDepth writes the hit distance at column x, row y
func (f *Frame) SetDepth(x, y int, t float64) {
	f.Depth[y*f.Width+x] = t
}

// Downsample box-filters factor×factor blocks into single pixels. Colors are
// averaged per channel; depth keeps the nearest value of the block.
func (f *Frame) Downsample(factor int) (*Frame, error) {
	if factor < 1 || f.Width%factor != 0 || f.Height%factor != 0 {
		return nil, fmt.Errorf("%w: cannot downsample %dx%d by %d", ErrConfiguration, f.Width, f.Height, factor)
	}
	if factor == 1 {
		return f, nil
	}

	out := NewFrame(f.Width/factor, f.Height/factor)
	n := float64(factor * factor)

	for y := 0; y < out.Height; y++ {
		for x := 0; x < out.Width; x++ {
			x0, y0 := x*factor, y*factor

			// Mean as first + Σ(v - first)/n so that uniform blocks reproduce
			// their color exactly
			first := f.At(x0, y0)
			var dr, dg, db, da float64
			nearest := math.Inf(1)

			for sy := y0; sy < y0+factor; sy++ {
				for sx := x0; sx < x0+factor; sx++ {
					c := f.At(sx, sy)
					dr += c.R - first.R
					dg += c.G - first.G
					db += c.B - first.B
					da += c.A - first.A
					nearest = math.Min(nearest, f.DepthAt(sx, sy))
				}
			}

			out.Set(x, y, Color{
				R: first.R + dr/n,
				G: first.G + dg/n,
				B: first.B + db/n,
				A: first.A + da/n,
			})
			out.SetDepth(x, y, nearest)
		}
	}

	return out, nil
}

// Coverage returns the mean alpha of the frame, the fraction of it covered
// by geometry
func (f *Frame) Coverage() float64 {
	if f.Width*f.Height == 0 {
		return 0
	}
	var sum float64
	for i := 3; i < len(f.Pix); i += 4 {
		sum += f.Pix[i]
	}
	return sum / float64(f.Width*f.Height)
}

// ToNRGBA converts the frame to an 8-bit image for encoding
func (f *Frame) ToNRGBA() *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, f.Width, f.Height))
	for y := 0; y < f.Height; y++ {
		for x := 0; x < f.Width; x++ {
			c := f.At(x, y)
			img.SetNRGBA(x, y, color.NRGBA{
				R: toByte(c.R),
				G: toByte(c.G),
				B: toByte(c.B),
				A: toByte(c.A),
			})
		}
	}
	return img
}

// DepthImage renders the depth buffer as grayscale: white at near, black at
// far and for misses
func (f *Frame) DepthImage(near, far float64) *image.Gray16 {
	img := image.NewGray16(image.Rect(0, 0, f.Width, f.Height))
	span := far - near
	for y := 0; y < f.Height; y++ {
		for x := 0; x < f.Width; x++ {
			t := f.DepthAt(x, y)
			if math.IsInf(t, 0) || math.IsNaN(t) || span <= 0 {
				continue
			}
			shade := 1 - clamp01((t-near)/span)
			img.SetGray16(x, y, color.Gray16{Y: uint16(math.Round(shade * 0xffff))})
		}
	}
	return img
}

func toByte(v float64) uint8 {
	return uint8(math.Round(clamp01(v) * 255))
}

func clamp01(v float64) float64 {
	return max(0, min(1, v))
}
