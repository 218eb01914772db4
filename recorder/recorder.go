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

package recorder

import (
	"time"

	"github.com/pkg/errors"

	"github.com/TheCacophonyProject/moment-recorder/moment"
	"github.com/TheCacophonyProject/moment-recorder/pipeline"
)

// Event is a completed moment handed to a Recorder.
type Event struct {
	Moment     moment.Moment
	SceneState pipeline.SceneState
	// Frame is the frame on which the moment completed.
	Frame uint64
	Time  time.Time
}

type Recorder interface {
	RecordMoment(Event) error
	CheckCanRecord() error
}

type NoWriteRecorder struct {
}

func (*NoWriteRecorder) RecordMoment(Event) error { return nil }
func (*NoWriteRecorder) CheckCanRecord() error    { return nil }

// MultiRecorder passes each moment on to every recorder it holds.
type MultiRecorder []Recorder

func (mr MultiRecorder) RecordMoment(e Event) error {
	var first error
	for _, r := range mr {
		if err := r.RecordMoment(e); err != nil && first == nil {
			first = errors.Wrapf(err, "moment %d", e.Moment.ID)
		}
	}
	return first
}

// CheckCanRecord fails if any of the recorders can't record.
func (mr MultiRecorder) CheckCanRecord() error {
	for _, r := range mr {
		if err := r.CheckCanRecord(); err != nil {
			return err
		}
	}
	return nil
}
