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

// Chunk is a rectangular block of pixels taken from one frame.
type Chunk struct {
	Width  int
	Height int
	Pixels []Pixel
}

func NewChunk(width, height int, pixels []Pixel) *Chunk {
	return &Chunk{
		Width:  width,
		Height: height,
		Pixels: pixels,
	}
}

// AveragePixel returns the per channel mean of the chunk, truncated to an
// integer. An empty chunk averages to the zero pixel.
func (c *Chunk) AveragePixel() Pixel {
	n := uint64(len(c.Pixels))
	if n == 0 {
		return Pixel{}
	}

	var r, g, b, a uint64
	for _, p := range c.Pixels {
		r += uint64(p.R)
		g += uint64(p.G)
		b += uint64(p.B)
		a += uint64(p.A)
	}
	return Pixel{
		R: uint8(r / n),
		G: uint8(g / n),
		B: uint8(b / n),
		A: uint8(a / n),
	}
}
