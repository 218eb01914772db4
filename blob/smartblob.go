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

package blob

import (
	"math"

	"github.com/TheCacophonyProject/moment-recorder/chunk"
)

// Point is a cell coordinate on the chunk grid.
type Point struct {
	X int `json:"x"`
	Y int `json:"y"`
}

// Vec2 is a position or velocity in chunk grid units.
type Vec2 struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

func (v Vec2) Add(o Vec2) Vec2 { return Vec2{X: v.X + o.X, Y: v.Y + o.Y} }
func (v Vec2) Sub(o Vec2) Vec2 { return Vec2{X: v.X - o.X, Y: v.Y - o.Y} }

// Dist is the euclidean distance between two positions.
func (v Vec2) Dist(o Vec2) float64 {
	return math.Hypot(v.X-o.X, v.Y-o.Y)
}

// SmartBlob summarises one connected region of anomalous cells in a
// single frame. It is never mutated after FindBlobs returns it.
type SmartBlob struct {
	// ID is only unique within the frame the blob was found in.
	ID uint64 `json:"id"`
	// BoundingBox holds the top-left and bottom-right cells.
	BoundingBox    [2]Point             `json:"bounding-box"`
	ChunkCoords    []Point              `json:"chunk-coords"`
	Size           int                  `json:"size"`
	AverageAnomaly chunk.AnomalyDetails `json:"average-anomaly"`
	CenterOfMass   Vec2                 `json:"center-of-mass"`
}

// Contains reports whether p is a member cell of the blob.
func (b *SmartBlob) Contains(p Point) bool {
	for _, c := range b.ChunkCoords {
		if c == p {
			return true
		}
	}
	return false
}
