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
	"sort"

	"github.com/TheCacophonyProject/moment-recorder/chunk"
)

// RegionGrowThreshold is the minimum heat a neighbouring cell needs to be
// pulled into a growing blob.
const RegionGrowThreshold = 1.0

// FindBlobs groups the anomalous cells of a status map into blobs. Heat
// peaks seed the blobs, hottest first, and each blob grows over
// 4-connected cells at or above RegionGrowThreshold. A cell is claimed by
// at most one blob.
func FindBlobs(statusMap []chunk.ChunkStatus, gridWidth, gridHeight int) []SmartBlob {
	n := gridWidth * gridHeight
	if n <= 0 || len(statusMap) < n {
		return nil
	}

	heat := heatMap(statusMap, n)
	peaks := findPeaks(heat, gridWidth, gridHeight)

	// Stable sort so equal heat seeds keep row-major order.
	sort.SliceStable(peaks, func(i, j int) bool {
		return heat[peaks[i]] > heat[peaks[j]]
	})

	visited := make([]bool, n)
	var blobs []SmartBlob
	for _, peak := range peaks {
		if visited[peak] {
			continue
		}
		members := growRegion(peak, heat, visited, gridWidth, gridHeight)
		blobs = append(blobs, summarise(uint64(len(blobs)), members, statusMap, gridWidth))
	}
	return blobs
}

func heatMap(statusMap []chunk.ChunkStatus, n int) []float64 {
	heat := make([]float64, n)
	for i := 0; i < n; i++ {
		if statusMap[i].IsAnomalous() {
			heat[i] = statusMap[i].Anomaly.LuminanceScore
		}
	}
	return heat
}

// findPeaks returns the indices of cells with positive heat that no
// 8-neighbour exceeds, in row-major order.
func findPeaks(heat []float64, w, h int) []int {
	var peaks []int
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			v := heat[y*w+x]
			if v <= 0 {
				continue
			}
			if isPeak(heat, x, y, w, h, v) {
				peaks = append(peaks, y*w+x)
			}
		}
	}
	return peaks
}

func isPeak(heat []float64, x, y, w, h int, v float64) bool {
	for dy := -1; dy <= 1; dy++ {
		for dx := -1; dx <= 1; dx++ {
			if dx == 0 && dy == 0 {
				continue
			}
			nx, ny := x+dx, y+dy
			if nx < 0 || ny < 0 || nx >= w || ny >= h {
				continue
			}
			if heat[ny*w+nx] > v {
				return false
			}
		}
	}
	return true
}

var neighbours4 = [4][2]int{{0, 1}, {0, -1}, {1, 0}, {-1, 0}}

// growRegion runs a breadth first search from seed and marks every cell it
// claims as visited.
func growRegion(seed int, heat []float64, visited []bool, w, h int) []int {
	visited[seed] = true
	queue := []int{seed}
	var members []int
	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]
		members = append(members, cur)

		cx, cy := cur%w, cur/w
		for _, d := range neighbours4 {
			nx, ny := cx+d[0], cy+d[1]
			if nx < 0 || ny < 0 || nx >= w || ny >= h {
				continue
			}
			ni := ny*w + nx
			if visited[ni] || heat[ni] < RegionGrowThreshold {
				continue
			}
			visited[ni] = true
			queue = append(queue, ni)
		}
	}
	return members
}

func summarise(id uint64, members []int, statusMap []chunk.ChunkStatus, w int) SmartBlob {
	b := SmartBlob{
		ID:          id,
		ChunkCoords: make([]Point, 0, len(members)),
		Size:        len(members),
	}
	minX, minY := math.MaxInt32, math.MaxInt32
	maxX, maxY := -1, -1

	var lum, col, hue, totalHeat, cx, cy float64
	for _, i := range members {
		p := Point{X: i % w, Y: i / w}
		b.ChunkCoords = append(b.ChunkCoords, p)
		minX, minY = minInt(minX, p.X), minInt(minY, p.Y)
		maxX, maxY = maxInt(maxX, p.X), maxInt(maxY, p.Y)

		a := statusMap[i].Anomaly
		lum += a.LuminanceScore
		col += a.ColorScore
		hue += a.HueScore
		totalHeat += a.LuminanceScore
		cx += float64(p.X) * a.LuminanceScore
		cy += float64(p.Y) * a.LuminanceScore
	}

	n := float64(len(members))
	b.BoundingBox = [2]Point{{X: minX, Y: minY}, {X: maxX, Y: maxY}}
	b.AverageAnomaly = chunk.AnomalyDetails{
		LuminanceScore: lum / n,
		ColorScore:     col / n,
		HueScore:       hue / n,
	}
	b.CenterOfMass = Vec2{X: cx / totalHeat, Y: cy / totalHeat}
	return b
}

func minInt(a, b int) int {
	if a < b {
		return a
	}
	return b
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}
