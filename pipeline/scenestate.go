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

package pipeline

import (
	"github.com/TheCacophonyProject/moment-recorder/chunk"
)

type SceneState uint8

const (
	Calibrating SceneState = iota
	Stable
	Volatile
	Disturbed
)

func (s SceneState) String() string {
	switch s {
	case Calibrating:
		return "calibrating"
	case Stable:
		return "stable"
	case Volatile:
		return "volatile"
	case Disturbed:
		return "disturbed"
	}
	return "unknown"
}

func (s SceneState) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// sceneMachine classifies the whole scene from the fraction of cells that
// are not Stable. Leaving Stable takes the entry threshold and returning
// takes the lower exit threshold.
type sceneMachine struct {
	entry        float64
	exit         float64
	confirmation int
	calibration  uint64

	state         SceneState
	volatileCount int
}

// newSceneMachine starts out Calibrating, or Stable when there are no
// calibration frames.
func newSceneMachine(conf *Config) *sceneMachine {
	state := Calibrating
	if conf.CalibrationFrames == 0 {
		state = Stable
	}
	return &sceneMachine{
		entry:        conf.DisturbanceEntryThreshold,
		exit:         conf.DisturbanceExitThreshold,
		confirmation: conf.DisturbanceConfirmationFrames,
		calibration:  uint64(conf.CalibrationFrames),
		state:        state,
	}
}

// update moves the machine on by one frame and returns the new state.
func (s *sceneMachine) update(frame uint64, fraction float64) SceneState {
	if frame <= s.calibration {
		s.state = Calibrating
		return s.state
	}

	switch s.state {
	case Calibrating:
		// the first frame after calibration is always Stable
		s.state = Stable
		s.volatileCount = 0
	case Stable:
		s.volatileCount = 0
		if fraction >= s.entry {
			s.state = Volatile
		} else {
			s.state = Stable
		}
	case Volatile:
		if fraction < s.exit {
			s.state = Stable
			s.volatileCount = 0
			break
		}
		s.volatileCount++
		if s.volatileCount >= s.confirmation {
			s.state = Disturbed
		}
	case Disturbed:
		if fraction < s.exit {
			s.state = Stable
			s.volatileCount = 0
		}
	}
	return s.state
}

// unstableFraction is the share of cells whose status is anything but
// Stable. An empty map counts as fully stable.
func unstableFraction(statusMap []chunk.ChunkStatus) float64 {
	if len(statusMap) == 0 {
		return 0
	}
	unstable := 0
	for _, s := range statusMap {
		if !s.IsStable() {
			unstable++
		}
	}
	return float64(unstable) / float64(len(statusMap))
}
