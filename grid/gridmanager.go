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

package grid

import (
	"github.com/pkg/errors"
	"golang.org/x/sync/errgroup"

	"github.com/TheCacophonyProject/moment-recorder/chunk"
)

// ErrFrameSize is returned when a frame buffer is too short for the
// configured image dimensions.
var ErrFrameSize = errors.New("frame buffer too small")

type Option func(*GridManager)

// WithWorkers spreads the per cell updates of each frame across n
// goroutines. Values below 2 keep the sequential path.
func WithWorkers(n int) Option {
	return func(g *GridManager) {
		g.workers = n
	}
}

// GridManager slices frames into chunks and drives one SmartChunk per
// grid cell. Image dimensions that are not a multiple of the chunk size
// are truncated.
type GridManager struct {
	imageWidth  int
	imageHeight int
	chunkWidth  int
	chunkHeight int
	gridWidth   int
	gridHeight  int
	workers     int

	smartChunks []*chunk.SmartChunk
	pixelBufs   [][]chunk.Pixel
}

func NewGridManager(imageWidth, imageHeight, chunkWidth, chunkHeight int, opts ...Option) *GridManager {
	g := &GridManager{
		imageWidth:  imageWidth,
		imageHeight: imageHeight,
		chunkWidth:  chunkWidth,
		chunkHeight: chunkHeight,
	}
	if chunkWidth > 0 && chunkHeight > 0 {
		g.gridWidth = imageWidth / chunkWidth
		g.gridHeight = imageHeight / chunkHeight
	}
	for _, opt := range opts {
		opt(g)
	}

	n := g.gridWidth * g.gridHeight
	g.smartChunks = make([]*chunk.SmartChunk, n)
	g.pixelBufs = make([][]chunk.Pixel, n)
	for i := range g.smartChunks {
		g.smartChunks[i] = chunk.NewSmartChunk(i%g.gridWidth, i/g.gridWidth)
		g.pixelBufs[i] = make([]chunk.Pixel, chunkWidth*chunkHeight)
	}
	return g
}

func (g *GridManager) GridWidth() int  { return g.gridWidth }
func (g *GridManager) GridHeight() int { return g.gridHeight }

// Len is the number of cells in the grid.
func (g *GridManager) Len() int { return len(g.smartChunks) }

// FrameSize is the number of bytes in one RGBA frame.
func (g *GridManager) FrameSize() int {
	return g.imageWidth * g.imageHeight * chunk.BytesPerPixel
}

// SmartChunk returns the analyser for grid cell (x, y).
func (g *GridManager) SmartChunk(x, y int) *chunk.SmartChunk {
	return g.smartChunks[y*g.gridWidth+x]
}

// ProcessFrame updates every cell with its chunk of frame and returns the
// row-major status map. Every cell has been updated before it returns.
func (g *GridManager) ProcessFrame(frame []byte) ([]chunk.ChunkStatus, error) {
	if len(frame) < g.FrameSize() {
		return nil, errors.Wrapf(ErrFrameSize, "got %d bytes, need %d", len(frame), g.FrameSize())
	}

	if g.workers > 1 {
		// errgroup only bounds the fan-out; cell updates cannot fail
		var eg errgroup.Group
		eg.SetLimit(g.workers)
		for i := range g.smartChunks {
			eg.Go(func() error {
				g.updateCell(i, frame)
				return nil
			})
		}
		eg.Wait()
	} else {
		for i := range g.smartChunks {
			g.updateCell(i, frame)
		}
	}

	statuses := make([]chunk.ChunkStatus, len(g.smartChunks))
	for i, sc := range g.smartChunks {
		statuses[i] = sc.Status()
	}
	return statuses, nil
}

// updateCell only touches state owned by cell i so cells can be updated
// concurrently.
func (g *GridManager) updateCell(i int, frame []byte) {
	startX := (i % g.gridWidth) * g.chunkWidth
	startY := (i / g.gridWidth) * g.chunkHeight

	pixels := g.pixelBufs[i]
	for j := range pixels {
		px := startX + j%g.chunkWidth
		py := startY + j/g.chunkWidth
		offset := (py*g.imageWidth + px) * chunk.BytesPerPixel
		pixels[j] = chunk.MustPixelFrom(frame[offset : offset+chunk.BytesPerPixel])
	}
	g.smartChunks[i].Update(chunk.NewChunk(g.chunkWidth, g.chunkHeight, pixels))
}
