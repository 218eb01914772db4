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

// SceneManager turns tracker output into moments. It owns the tracker and
// both moment lists; moments move from active to completed and are never
// dropped.
type SceneManager struct {
	tracker    *tracker.Tracker
	active     []*Moment
	byID       map[uint64]*Moment
	completed  []Moment
	frameCount uint64
}

func NewSceneManager(t *tracker.Tracker) *SceneManager {
	return &SceneManager{
		tracker: t,
		byID:    make(map[uint64]*Moment),
	}
}

// Update advances the frame counter, tracks blobs and returns the moments
// that started and completed in this frame.
//
// A moment is only extended on frames where its object was matched. While
// the object is lost the moment stays active and unchanged, and it
// completes on the frame the tracker drops the object.
func (sm *SceneManager) Update(blobs []blob.SmartBlob) (started, completed []Moment) {
	sm.frameCount++
	tracked := sm.tracker.Update(blobs)

	present := make(map[uint64]bool, len(tracked))
	for _, tb := range tracked {
		present[tb.ID] = true

		m, ok := sm.byID[tb.ID]
		if !ok {
			m = newMoment(tb, sm.frameCount)
			m.IsSignificant = isSignificant(tb)
			sm.active = append(sm.active, m)
			sm.byID[tb.ID] = m
			started = append(started, m.Clone())
			continue
		}
		if tb.Seen() {
			m.extend(tb, sm.frameCount)
			m.IsSignificant = isSignificant(tb)
		}
	}

	stillActive := sm.active[:0]
	for _, m := range sm.active {
		if present[m.ID] {
			stillActive = append(stillActive, m)
			continue
		}
		m.complete()
		delete(sm.byID, m.ID)
		sm.completed = append(sm.completed, *m)
		completed = append(completed, m.Clone())
	}
	// clear the tail so completed moments are not kept alive twice
	for i := len(stillActive); i < len(sm.active); i++ {
		sm.active[i] = nil
	}
	sm.active = stillActive

	return started, completed
}

func isSignificant(tb *tracker.TrackedBlob) bool {
	return tb.State == tracker.New || tb.State == tracker.Anomalous
}

// ActiveMoments returns copies of the moments still in progress.
func (sm *SceneManager) ActiveMoments() []Moment {
	out := make([]Moment, len(sm.active))
	for i, m := range sm.active {
		out[i] = m.Clone()
	}
	return out
}

func (sm *SceneManager) CompletedMoments() []Moment {
	return sm.completed
}

func (sm *SceneManager) TrackedBlobs() []*tracker.TrackedBlob {
	return sm.tracker.TrackedBlobs()
}

// FrameCount is the number of frames seen, so the first frame is 1.
func (sm *SceneManager) FrameCount() uint64 {
	return sm.frameCount
}
