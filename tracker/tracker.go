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
	"log"

	"github.com/TheCacophonyProject/moment-recorder/blob"
)

const (
	HistorySize        = 15
	MaxFramesSinceSeen = 5
	DistanceThreshold  = 5.0
)

type Config struct {
	// NewAgeThreshold is the age below which a track is always New.
	NewAgeThreshold int
	// BehavioralAnomalyThreshold is the z-score beyond which a change in
	// motion, size or hue marks a track Anomalous.
	BehavioralAnomalyThreshold float64
}

type Option func(*Tracker)

func WithMatcher(m Matcher) Option {
	return func(t *Tracker) {
		t.matcher = m
	}
}

func WithPredictor(f PredictorFactory) Option {
	return func(t *Tracker) {
		t.newPredictor = f
	}
}

// Tracker associates each frame's blobs with the objects seen in earlier
// frames.
type Tracker struct {
	config       Config
	matcher      Matcher
	newPredictor PredictorFactory
	tracked      []*TrackedBlob
	nextID       uint64
}

func NewTracker(config Config, opts ...Option) *Tracker {
	t := &Tracker{
		config:       config,
		matcher:      GreedyMatcher{},
		newPredictor: NewConstantVelocity,
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// TrackedBlobs returns the tracks produced by the latest Update.
func (t *Tracker) TrackedBlobs() []*TrackedBlob {
	return t.tracked
}

// Update matches blobs to the current tracks and returns the new track
// list: matched tracks first, then tracks still within their lost grace
// period, then tracks born this frame.
func (t *Tracker) Update(blobs []blob.SmartBlob) []*TrackedBlob {
	blobs = t.mergeFragmentedBlobs(blobs)

	predicted := make([]blob.Vec2, len(t.tracked))
	for i, tb := range t.tracked {
		predicted[i] = tb.predictor.Predict(tb)
	}

	matchedTrack := make([]bool, len(t.tracked))
	matchedBlob := make([]bool, len(blobs))
	updated := make([]*TrackedBlob, 0, len(t.tracked)+len(blobs))

	for _, m := range t.matcher.Match(predicted, blobs, DistanceThreshold) {
		tb := t.tracked[m[0]]
		if err := tb.update(blobs[m[1]]); err != nil {
			log.Printf("track %d: %v", tb.ID, err)
		}
		t.analyseBehaviour(tb)
		matchedTrack[m[0]] = true
		matchedBlob[m[1]] = true
		updated = append(updated, tb)
	}

	for i, tb := range t.tracked {
		if matchedTrack[i] {
			continue
		}
		tb.FramesSinceSeen++
		tb.State = Lost
		if tb.FramesSinceSeen <= MaxFramesSinceSeen {
			updated = append(updated, tb)
		}
	}

	for j, b := range blobs {
		if matchedBlob[j] {
			continue
		}
		updated = append(updated, newTrackedBlob(t.nextID, b, t.newPredictor(b.CenterOfMass)))
		t.nextID++
	}

	t.tracked = updated
	return updated
}

// mergeFragmentedBlobs is where fragments of one object would be joined
// before matching. Blobs currently pass through unchanged.
func (t *Tracker) mergeFragmentedBlobs(blobs []blob.SmartBlob) []blob.SmartBlob {
	return blobs
}
