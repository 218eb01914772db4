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

package tracker

import (
	"fmt"
	"math"

	"github.com/TheCacophonyProject/moment-recorder/blob"
	"github.com/TheCacophonyProject/moment-recorder/chunk"
)

type TrackedState uint8

const (
	New TrackedState = iota
	Tracking
	Lost
	Anomalous
)

func (s TrackedState) String() string {
	switch s {
	case New:
		return "new"
	case Tracking:
		return "tracking"
	case Lost:
		return "lost"
	case Anomalous:
		return "anomalous"
	}
	return fmt.Sprintf("state(%d)", uint8(s))
}

// MarshalText lets states appear by name in JSON and YAML output.
func (s TrackedState) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// runningStats keeps the sum and sum of squares of a bounded window so the
// mean and variance are available without rescanning the window.
type runningStats struct {
	values []float64
	size   int
	sum    float64
	sumSq  float64
}

func newRunningStats(size int) runningStats {
	return runningStats{values: make([]float64, 0, size), size: size}
}

func (r *runningStats) push(v float64) {
	if len(r.values) == r.size {
		old := r.values[0]
		r.sum -= old
		r.sumSq -= old * old
		copy(r.values, r.values[1:])
		r.values[r.size-1] = v
	} else {
		r.values = append(r.values, v)
	}
	r.sum += v
	r.sumSq += v * v
}

func (r *runningStats) len() int {
	return len(r.values)
}

func (r *runningStats) meanStdDev() (float64, float64) {
	n := float64(len(r.values))
	if n == 0 {
		return 0, 0
	}
	mean := r.sum / n
	variance := r.sumSq/n - mean*mean
	if variance < 0 {
		// rounding after many evictions
		variance = 0
	}
	return mean, math.Sqrt(variance)
}

func (r *runningStats) clone() runningStats {
	c := *r
	c.values = append(make([]float64, 0, r.size), r.values...)
	return c
}

// pushBounded appends v, dropping the oldest entry once s holds max.
func pushBounded[T any](s []T, v T, max int) []T {
	if len(s) < max {
		return append(s, v)
	}
	copy(s, s[1:])
	s[len(s)-1] = v
	return s
}

// TrackedBlob is an object followed across frames.
type TrackedBlob struct {
	ID         uint64
	State      TrackedState
	LatestBlob blob.SmartBlob
	Velocity   blob.Vec2
	// Age is the number of frames the object has been matched in.
	Age             int
	FramesSinceSeen int
	// ParentID is reserved for merged blob hierarchies.
	ParentID *uint64

	PositionHistory  []blob.Vec2
	SizeHistory      []int
	VelocityHistory  []blob.Vec2
	SignatureHistory []chunk.AnomalyDetails

	velocityX  runningStats
	velocityY  runningStats
	hue        runningStats
	sizeChange runningStats

	predictor Predictor
}

func newTrackedBlob(id uint64, b blob.SmartBlob, p Predictor) *TrackedBlob {
	tb := &TrackedBlob{
		ID:               id,
		State:            New,
		LatestBlob:       b,
		Age:              1,
		PositionHistory:  make([]blob.Vec2, 0, HistorySize),
		SizeHistory:      make([]int, 0, HistorySize),
		VelocityHistory:  make([]blob.Vec2, 0, HistorySize),
		SignatureHistory: make([]chunk.AnomalyDetails, 0, HistorySize),
		velocityX:        newRunningStats(HistorySize),
		velocityY:        newRunningStats(HistorySize),
		hue:              newRunningStats(HistorySize),
		sizeChange:       newRunningStats(HistorySize),
		predictor:        p,
	}
	tb.PositionHistory = append(tb.PositionHistory, b.CenterOfMass)
	tb.SizeHistory = append(tb.SizeHistory, b.Size)
	tb.SignatureHistory = append(tb.SignatureHistory, b.AverageAnomaly)
	tb.hue.push(b.AverageAnomaly.HueScore)
	return tb
}

// update folds in the blob matched to this object in the current frame.
func (tb *TrackedBlob) update(b blob.SmartBlob) error {
	prevPos := tb.PositionHistory[len(tb.PositionHistory)-1]
	prevSize := tb.SizeHistory[len(tb.SizeHistory)-1]

	tb.LatestBlob = b
	tb.Age++
	tb.FramesSinceSeen = 0

	tb.PositionHistory = pushBounded(tb.PositionHistory, b.CenterOfMass, HistorySize)
	tb.SizeHistory = pushBounded(tb.SizeHistory, b.Size, HistorySize)
	tb.sizeChange.push(float64(b.Size - prevSize))
	tb.SignatureHistory = pushBounded(tb.SignatureHistory, b.AverageAnomaly, HistorySize)
	tb.hue.push(b.AverageAnomaly.HueScore)

	tb.Velocity = b.CenterOfMass.Sub(prevPos)
	tb.VelocityHistory = pushBounded(tb.VelocityHistory, tb.Velocity, HistorySize)
	tb.velocityX.push(tb.Velocity.X)
	tb.velocityY.push(tb.Velocity.Y)

	if tb.predictor != nil {
		return tb.predictor.Correct(b.CenterOfMass)
	}
	return nil
}

// PredictNextPosition extrapolates the latest position by one frame of
// the current velocity.
func (tb *TrackedBlob) PredictNextPosition() blob.Vec2 {
	return tb.LatestBlob.CenterOfMass.Add(tb.Velocity)
}

func (tb *TrackedBlob) BoundingBox() [2]blob.Point {
	return tb.LatestBlob.BoundingBox
}

func (tb *TrackedBlob) CenterOfMass() blob.Vec2 {
	return tb.LatestBlob.CenterOfMass
}

// Seen reports whether the object was matched in the latest frame.
func (tb *TrackedBlob) Seen() bool {
	return tb.FramesSinceSeen == 0
}

// Snapshot returns a deep copy that later tracker updates will not touch.
func (tb *TrackedBlob) Snapshot() TrackedBlob {
	c := *tb
	c.PositionHistory = append([]blob.Vec2(nil), tb.PositionHistory...)
	c.SizeHistory = append([]int(nil), tb.SizeHistory...)
	c.VelocityHistory = append([]blob.Vec2(nil), tb.VelocityHistory...)
	c.SignatureHistory = append([]chunk.AnomalyDetails(nil), tb.SignatureHistory...)
	c.velocityX = tb.velocityX.clone()
	c.velocityY = tb.velocityY.clone()
	c.hue = tb.hue.clone()
	c.sizeChange = tb.sizeChange.clone()
	if tb.ParentID != nil {
		id := *tb.ParentID
		c.ParentID = &id
	}
	c.predictor = nil
	return c
}
