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

import "math"

// MinStdDev floors the denominator of behavioural z-scores.
const MinStdDev = 0.01

// minBehaviourHistory is the number of samples a test needs before it is
// allowed to flag anything.
const minBehaviourHistory = HistorySize / 2

func (t *Tracker) analyseBehaviour(tb *TrackedBlob) {
	if tb.Age < t.config.NewAgeThreshold {
		tb.State = New
		return
	}

	if t.accelerationAnomalous(tb) || t.sizeChangeAnomalous(tb) || t.hueChangeAnomalous(tb) {
		tb.State = Anomalous
	} else {
		tb.State = Tracking
	}
}

func (t *Tracker) accelerationAnomalous(tb *TrackedBlob) bool {
	if len(tb.VelocityHistory) < minBehaviourHistory {
		return false
	}
	return t.outlier(tb.Velocity.X, &tb.velocityX) || t.outlier(tb.Velocity.Y, &tb.velocityY)
}

func (t *Tracker) sizeChangeAnomalous(tb *TrackedBlob) bool {
	if len(tb.SizeHistory) < minBehaviourHistory || tb.sizeChange.len() == 0 {
		return false
	}
	n := len(tb.SizeHistory)
	current := float64(tb.SizeHistory[n-1] - tb.SizeHistory[n-2])
	return t.outlier(current, &tb.sizeChange)
}

func (t *Tracker) hueChangeAnomalous(tb *TrackedBlob) bool {
	if len(tb.SignatureHistory) < minBehaviourHistory {
		return false
	}
	return t.outlier(tb.LatestBlob.AverageAnomaly.HueScore, &tb.hue)
}

func (t *Tracker) outlier(value float64, stats *runningStats) bool {
	mean, stdDev := stats.meanStdDev()
	z := (value - mean) / math.Max(stdDev, MinStdDev)
	return math.Abs(z) > t.config.BehavioralAnomalyThreshold
}
