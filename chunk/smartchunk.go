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
	"gonum.org/v1/gonum/stat"
)

const (
	HistoryWindowSize        = 20
	AnomalyThresholdStdDev   = 3.0
	StableLuminanceThreshold = 2.0

	// StaticHistoryScore is reported when a history has no variance at all.
	StaticHistoryScore = AnomalyThresholdStdDev * 2

	minStdDev = 1e-6
)

// window is a fixed capacity FIFO of float64 values.
type window struct {
	values []float64
	size   int
}

func newWindow(size int) *window {
	return &window{values: make([]float64, 0, size), size: size}
}

func (w *window) push(v float64) {
	if len(w.values) == w.size {
		copy(w.values, w.values[1:])
		w.values = w.values[:w.size-1]
	}
	w.values = append(w.values, v)
}

func (w *window) full() bool {
	return len(w.values) >= w.size
}

// stats returns the mean and population standard deviation of the window.
func (w *window) stats() (mean, stdDev float64) {
	if len(w.values) == 0 {
		return 0, 0
	}
	return stat.PopMeanStdDev(w.values, nil)
}

// SmartChunk learns how one grid cell normally changes from frame to
// frame and classifies each new observation against that history.
type SmartChunk struct {
	x, y int

	pixelHistory   []Pixel
	luminanceDelta *window
	colorDelta     *window
	hueDifference  *window

	MeanLuminanceDelta   float64
	StdDevLuminanceDelta float64
	MeanColorDelta       float64
	StdDevColorDelta     float64
	MeanHueDifference    float64
	StdDevHueDifference  float64

	status ChunkStatus
}

func NewSmartChunk(x, y int) *SmartChunk {
	return &SmartChunk{
		x:              x,
		y:              y,
		pixelHistory:   make([]Pixel, 0, HistoryWindowSize),
		luminanceDelta: newWindow(HistoryWindowSize),
		colorDelta:     newWindow(HistoryWindowSize),
		hueDifference:  newWindow(HistoryWindowSize),
		status:         LearningStatus(),
	}
}

func (sc *SmartChunk) X() int { return sc.x }
func (sc *SmartChunk) Y() int { return sc.y }

func (sc *SmartChunk) Status() ChunkStatus {
	return sc.status
}

// HistoryLen is the number of deltas currently held.
func (sc *SmartChunk) HistoryLen() int {
	return len(sc.luminanceDelta.values)
}

// AveragePixelHistory returns the most recent average pixels, oldest first.
func (sc *SmartChunk) AveragePixelHistory() []Pixel {
	out := make([]Pixel, len(sc.pixelHistory))
	copy(out, sc.pixelHistory)
	return out
}

// Update feeds the chunk seen in the latest frame. The status is left as
// Learning until a full window of deltas has been gathered.
func (sc *SmartChunk) Update(c *Chunk) {
	avg := c.AveragePixel()

	if n := len(sc.pixelHistory); n > 0 {
		prev := sc.pixelHistory[n-1]
		lum := avg.LuminanceDelta(prev)
		col := avg.ColorDelta(prev)
		hue := avg.HueDifference(prev)

		sc.luminanceDelta.push(lum)
		sc.colorDelta.push(col)
		sc.hueDifference.push(hue)

		if sc.luminanceDelta.full() {
			sc.recalculateStatistics()
			sc.status = sc.classify(lum, col, hue)
		}
	}

	sc.pushPixel(avg)
}

func (sc *SmartChunk) pushPixel(p Pixel) {
	if len(sc.pixelHistory) == HistoryWindowSize {
		copy(sc.pixelHistory, sc.pixelHistory[1:])
		sc.pixelHistory = sc.pixelHistory[:HistoryWindowSize-1]
	}
	sc.pixelHistory = append(sc.pixelHistory, p)
}

func (sc *SmartChunk) recalculateStatistics() {
	sc.MeanLuminanceDelta, sc.StdDevLuminanceDelta = sc.luminanceDelta.stats()
	sc.MeanColorDelta, sc.StdDevColorDelta = sc.colorDelta.stats()
	sc.MeanHueDifference, sc.StdDevHueDifference = sc.hueDifference.stats()
}

// classify gates on luminance alone; colour and hue scores are only
// computed once luminance has flagged an anomaly.
func (sc *SmartChunk) classify(lum, col, hue float64) ChunkStatus {
	if lum < StableLuminanceThreshold {
		return StableStatus()
	}

	lumScore := significance(lum, sc.MeanLuminanceDelta, sc.StdDevLuminanceDelta)
	if lumScore <= AnomalyThresholdStdDev {
		return PredictableMotionStatus()
	}

	return AnomalousStatus(AnomalyDetails{
		LuminanceScore: lumScore,
		ColorScore:     significance(col, sc.MeanColorDelta, sc.StdDevColorDelta),
		HueScore:       significance(hue, sc.MeanHueDifference, sc.StdDevHueDifference),
	})
}

func significance(value, mean, stdDev float64) float64 {
	if stdDev < minStdDev {
		return StaticHistoryScore
	}
	return (value - mean) / stdDev
}
