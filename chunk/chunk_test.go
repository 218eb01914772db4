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
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPixelFrom(t *testing.T) {
	p, err := PixelFrom([]byte{1, 2, 3, 4})
	require.NoError(t, err)
	assert.Equal(t, Pixel{R: 1, G: 2, B: 3, A: 4}, p)
}

func TestPixelFromWrongLength(t *testing.T) {
	for _, b := range [][]byte{nil, {1, 2, 3}, {1, 2, 3, 4, 5}} {
		_, err := PixelFrom(b)
		assert.Equal(t, ErrPixelLength, errors.Cause(err))
	}
	assert.Panics(t, func() { MustPixelFrom([]byte{1}) })
}

func TestPixelFeatures(t *testing.T) {
	p := Pixel{R: 100, G: 50, B: 50, A: 255}
	assert.InDelta(t, 0.299*100+0.587*50+0.114*50, p.Luminance(), 1e-9)
	assert.Equal(t, uint32(200), p.Sum())

	r, g, b := p.ColorRatios()
	assert.InDelta(t, 0.5, r, 1e-9)
	assert.InDelta(t, 0.25, g, 1e-9)
	assert.InDelta(t, 0.25, b, 1e-9)

	r, g, b = Pixel{A: 255}.ColorRatios()
	assert.Equal(t, []float64{0, 0, 0}, []float64{r, g, b})
}

func TestPixelDeltas(t *testing.T) {
	red := Pixel{R: 255, A: 255}
	blue := Pixel{B: 255, A: 255}
	black := Pixel{A: 255}

	assert.InDelta(t, 2.0, red.HueDifference(blue), 1e-9)
	assert.InDelta(t, 1.0, red.HueDifference(black), 1e-9)
	assert.Equal(t, 0.0, red.ColorDelta(blue))
	assert.Equal(t, 255.0, red.ColorDelta(black))
	assert.InDelta(t, 0.299*255, red.LuminanceDelta(black), 1e-9)
}

func TestUniformChunkAveragesToItsPixel(t *testing.T) {
	for _, p := range []Pixel{{}, {R: 255, G: 255, B: 255, A: 255}, {R: 7, G: 130, B: 33, A: 200}} {
		pixels := make([]Pixel, 37)
		for i := range pixels {
			pixels[i] = p
		}
		assert.Equal(t, p, NewChunk(37, 1, pixels).AveragePixel())
	}
}

func TestEmptyChunkAveragesToZero(t *testing.T) {
	assert.Equal(t, Pixel{}, NewChunk(0, 0, nil).AveragePixel())
}

func TestAverageTruncates(t *testing.T) {
	c := NewChunk(2, 1, []Pixel{{R: 1, G: 10, B: 255, A: 0}, {R: 2, G: 11, B: 254, A: 1}})
	assert.Equal(t, Pixel{R: 1, G: 10, B: 254, A: 0}, c.AveragePixel())
}

func TestLargeChunkDoesNotOverflow(t *testing.T) {
	pixels := make([]Pixel, 1<<20)
	for i := range pixels {
		pixels[i] = Pixel{R: 255, G: 255, B: 255, A: 255}
	}
	assert.Equal(t, Pixel{R: 255, G: 255, B: 255, A: 255}, NewChunk(1<<10, 1<<10, pixels).AveragePixel())
}
