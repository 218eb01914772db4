// moment-recorder - detect and record significant moments in video streams
//  Copyright (C) 2026, The Cacophony Project
//
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// This program is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU General Public License for more details.
//
// You should have received a copy of the GNU General Public License
// along with this program. If not, see <http://www.gnu.org/licenses/>.

package chunk

import (
	"math"

	"github.com/pkg/errors"
)

// BytesPerPixel is the size of one RGBA8 pixel in a frame buffer.
const BytesPerPixel = 4

// ErrPixelLength is returned when a pixel is built from a slice that is
// not exactly BytesPerPixel long.
var ErrPixelLength = errors.New("pixel requires exactly 4 bytes")

// Pixel is a single RGBA8 sample.
type Pixel struct {
	R, G, B, A uint8
}

// PixelFrom builds a Pixel from an RGBA byte slice.
func PixelFrom(b []byte) (Pixel, error) {
	if len(b) != BytesPerPixel {
		return Pixel{}, errors.Wrapf(ErrPixelLength, "got %d bytes", len(b))
	}
	return Pixel{R: b[0], G: b[1], B: b[2], A: b[3]}, nil
}

// MustPixelFrom is like PixelFrom but panics on a malformed slice.
func MustPixelFrom(b []byte) Pixel {
	p, err := PixelFrom(b)
	if err != nil {
		panic(err)
	}
	return p
}

// Luminance returns the perceptual brightness of the pixel.
func (p Pixel) Luminance() float64 {
	return 0.299*float64(p.R) + 0.587*float64(p.G) + 0.114*float64(p.B)
}

// Sum returns R+G+B.
func (p Pixel) Sum() uint32 {
	return uint32(p.R) + uint32(p.G) + uint32(p.B)
}

// ColorRatios returns each colour channel as a fraction of Sum. A black
// pixel has all ratios zero.
func (p Pixel) ColorRatios() (r, g, b float64) {
	sum := p.Sum()
	if sum == 0 {
		return 0, 0, 0
	}
	s := float64(sum)
	return float64(p.R) / s, float64(p.G) / s, float64(p.B) / s
}

// LuminanceDelta is the absolute luminance change between two pixels.
func (p Pixel) LuminanceDelta(other Pixel) float64 {
	return math.Abs(p.Luminance() - other.Luminance())
}

// ColorDelta is the absolute change in channel sum between two pixels.
func (p Pixel) ColorDelta(other Pixel) float64 {
	return math.Abs(float64(p.Sum()) - float64(other.Sum()))
}

// HueDifference is the L1 distance between the colour ratios of two pixels.
func (p Pixel) HueDifference(other Pixel) float64 {
	r1, g1, b1 := p.ColorRatios()
	r2, g2, b2 := other.ColorRatios()
	return math.Abs(r1-r2) + math.Abs(g1-g2) + math.Abs(b1-b2)
}
