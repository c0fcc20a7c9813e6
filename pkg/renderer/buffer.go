package renderer

import (
	"image"
	"image/color"
	"math"

	"github.com/arvehn/go-interactive-pathtracer/pkg/core"
)

// PixelStats accumulates radiance samples for one pixel
type PixelStats struct {
	Sum   core.Vec3
	Count int
}

// AddSample folds one radiance sample into the running sum
func (ps *PixelStats) AddSample(sample core.Vec3) {
	ps.Sum = ps.Sum.Add(sample)
	ps.Count++
}

// Color returns the current mean radiance, or black before any sample
func (ps PixelStats) Color() core.Vec3 {
	if ps.Count == 0 {
		return core.Vec3{}
	}
	return ps.Sum.Multiply(1.0 / float64(ps.Count))
}

// AccumBuffer holds per-pixel running sums across passes. Workers write
// to disjoint tile regions, so the buffer itself carries no locking;
// whole-buffer reads happen only between passes.
type AccumBuffer struct {
	width  int
	height int
	pixels []PixelStats
}

// NewAccumBuffer creates a zeroed accumulation buffer
func NewAccumBuffer(width, height int) *AccumBuffer {
	return &AccumBuffer{
		width:  width,
		height: height,
		pixels: make([]PixelStats, width*height),
	}
}

// AddSample accumulates one radiance sample at pixel (x, y)
func (b *AccumBuffer) AddSample(x, y int, sample core.Vec3) {
	b.pixels[y*b.width+x].AddSample(sample)
}

// Pixel returns the stats for pixel (x, y)
func (b *AccumBuffer) Pixel(x, y int) PixelStats {
	return b.pixels[y*b.width+x]
}

// Reset discards all accumulated samples, keeping the allocation
func (b *AccumBuffer) Reset() {
	for i := range b.pixels {
		b.pixels[i] = PixelStats{}
	}
}

// TotalSamples returns the number of samples accumulated so far
func (b *AccumBuffer) TotalSamples() int64 {
	var total int64
	for i := range b.pixels {
		total += int64(b.pixels[i].Count)
	}
	return total
}

// Width returns the buffer width in pixels
func (b *AccumBuffer) Width() int { return b.width }

// Height returns the buffer height in pixels
func (b *AccumBuffer) Height() int { return b.height }

// ToImage resolves the buffer to a display image with gamma 2.0
func (b *AccumBuffer) ToImage() *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, b.width, b.height))
	for y := 0; y < b.height; y++ {
		for x := 0; x < b.width; x++ {
			c := b.pixels[y*b.width+x].Color().Clamp(0, 1).GammaCorrect(2.0)
			img.SetRGBA(x, y, color.RGBA{
				R: uint8(math.Round(c.X * 255)),
				G: uint8(math.Round(c.Y * 255)),
				B: uint8(math.Round(c.Z * 255)),
				A: 255,
			})
		}
	}
	return img
}
