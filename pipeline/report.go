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
	"github.com/TheCacophonyProject/moment-recorder/moment"
	"github.com/TheCacophonyProject/moment-recorder/tracker"
)

type ReportKind uint8

const (
	NoSignificantMention ReportKind = iota
	SignificantMention
)

func (k ReportKind) String() string {
	if k == SignificantMention {
		return "significant-mention"
	}
	return "no-significant-mention"
}

// MentionData holds the significant moments that started or completed in
// a frame.
type MentionData struct {
	NewSignificantMoments       []moment.Moment `json:"new-significant-moments"`
	CompletedSignificantMoments []moment.Moment `json:"completed-significant-moments"`
	GlobalDisturbance           bool            `json:"global-disturbance"`
	SceneState                  SceneState      `json:"scene-state"`
}

// Report is the verdict for one frame. Mention is nil unless Kind is
// SignificantMention.
type Report struct {
	Kind    ReportKind   `json:"kind"`
	Mention *MentionData `json:"mention,omitempty"`
}

func (r Report) IsSignificant() bool {
	return r.Kind == SignificantMention
}

// FrameAnalysis is everything the pipeline knows after one frame. Started
// and Completed hold every moment that began or ended, significant or not.
type FrameAnalysis struct {
	Frame                 uint64                `json:"frame"`
	Report                Report                `json:"report"`
	Started               []moment.Moment       `json:"started"`
	Completed             []moment.Moment       `json:"completed"`
	StatusMap             []chunk.ChunkStatus   `json:"-"`
	TrackedBlobs          []tracker.TrackedBlob `json:"tracked-blobs"`
	SceneState            SceneState            `json:"scene-state"`
	SignificantEventCount uint64                `json:"significant-event-count"`
}

func significantOnly(moments []moment.Moment) []moment.Moment {
	var out []moment.Moment
	for _, m := range moments {
		if m.IsSignificant {
			out = append(out, m)
		}
	}
	return out
}
