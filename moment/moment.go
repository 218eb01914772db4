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

package moment

import (
	"github.com/TheCacophonyProject/moment-recorder/blob"
	"github.com/TheCacophonyProject/moment-recorder/tracker"
)

// Moment is the record of one tracked object from the frame it was first
// seen to the frame it was last seen.
type Moment struct {
	ID            uint64           `json:"id"`
	StartFrame    uint64           `json:"start-frame"`
	EndFrame      uint64           `json:"end-frame"`
	Path          []blob.Vec2      `json:"path"`
	BlobHistory   []blob.SmartBlob `json:"blob-history"`
	IsActive      bool             `json:"active"`
	IsSignificant bool             `json:"significant"`
}

func newMoment(tb *tracker.TrackedBlob, frame uint64) *Moment {
	return &Moment{
		ID:          tb.ID,
		StartFrame:  frame,
		EndFrame:    frame,
		Path:        []blob.Vec2{tb.CenterOfMass()},
		BlobHistory: []blob.SmartBlob{tb.LatestBlob},
		IsActive:    true,
	}
}

func (m *Moment) extend(tb *tracker.TrackedBlob, frame uint64) {
	m.EndFrame = frame
	m.Path = append(m.Path, tb.CenterOfMass())
	m.BlobHistory = append(m.BlobHistory, tb.LatestBlob)
}

func (m *Moment) complete() {
	m.IsActive = false
}

// Frames is the number of frames between the first and last sighting,
// inclusive.
func (m *Moment) Frames() uint64 {
	return m.EndFrame - m.StartFrame + 1
}

// PeakLuminanceScore is the highest average luminance score of any blob
// in the moment.
func (m *Moment) PeakLuminanceScore() float64 {
	var peak float64
	for _, b := range m.BlobHistory {
		if b.AverageAnomaly.LuminanceScore > peak {
			peak = b.AverageAnomaly.LuminanceScore
		}
	}
	return peak
}

// MaxSize is the largest blob size, in cells, seen in the moment.
func (m *Moment) MaxSize() int {
	var max int
	for _, b := range m.BlobHistory {
		if b.Size > max {
			max = b.Size
		}
	}
	return max
}

// Clone returns a copy that does not share slices with m.
func (m *Moment) Clone() Moment {
	c := *m
	c.Path = append([]blob.Vec2(nil), m.Path...)
	c.BlobHistory = append([]blob.SmartBlob(nil), m.BlobHistory...)
	return c
}
