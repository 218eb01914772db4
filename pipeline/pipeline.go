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

// Package pipeline runs frames through the grid, blob detector, tracker
// and scene manager and reports the significant moments of each frame.
package pipeline

import (
	"github.com/TheCacophonyProject/moment-recorder/blob"
	"github.com/TheCacophonyProject/moment-recorder/chunk"
	"github.com/TheCacophonyProject/moment-recorder/grid"
	"github.com/TheCacophonyProject/moment-recorder/moment"
	"github.com/TheCacophonyProject/moment-recorder/tracker"
)

// Pipeline processes one frame at a time. It is not safe for concurrent
// use.
type Pipeline struct {
	conf    Config
	grid    *grid.GridManager
	scene   *moment.SceneManager
	sizes   *sizeFilter
	machine *sceneMachine

	lastStatusMap         []chunk.ChunkStatus
	significantEventCount uint64
}

func New(conf Config) (*Pipeline, error) {
	if err := conf.Validate(); err != nil {
		return nil, err
	}
	matcher, _ := tracker.MatcherByName(conf.Matcher)
	predictor, _ := tracker.PredictorByName(conf.Predictor)

	g := grid.NewGridManager(
		conf.ImageWidth, conf.ImageHeight,
		conf.ChunkWidth, conf.ChunkHeight,
		grid.WithWorkers(conf.Workers),
	)
	t := tracker.NewTracker(tracker.Config{
		NewAgeThreshold:            conf.NewAgeThreshold,
		BehavioralAnomalyThreshold: conf.BehavioralAnomalyThreshold,
	}, tracker.WithMatcher(matcher), tracker.WithPredictor(predictor))

	statusMap := make([]chunk.ChunkStatus, g.Len())
	for i := range statusMap {
		statusMap[i] = chunk.LearningStatus()
	}

	return &Pipeline{
		conf:          conf,
		grid:          g,
		scene:         moment.NewSceneManager(t),
		sizes:         newSizeFilter(&conf),
		machine:       newSceneMachine(&conf),
		lastStatusMap: statusMap,
	}, nil
}

// ProcessFrame runs one RGBA frame through every stage. A frame that is
// too short is rejected before any state changes.
func (p *Pipeline) ProcessFrame(frame []byte) (*FrameAnalysis, error) {
	statusMap, err := p.grid.ProcessFrame(frame)
	if err != nil {
		return nil, err
	}
	p.lastStatusMap = statusMap

	blobs := blob.FindBlobs(statusMap, p.grid.GridWidth(), p.grid.GridHeight())
	blobs = p.sizes.filter(blobs)

	started, completed := p.scene.Update(blobs)
	frameNum := p.scene.FrameCount()

	previous := p.machine.state
	state := p.machine.update(frameNum, unstableFraction(statusMap))
	enteredDisturbed := state == Disturbed && previous != Disturbed

	report := Report{Kind: NoSignificantMention}
	newSignificant := significantOnly(started)
	completedSignificant := significantOnly(completed)
	if len(newSignificant) > 0 || len(completedSignificant) > 0 || enteredDisturbed {
		p.significantEventCount++
		report = Report{
			Kind: SignificantMention,
			Mention: &MentionData{
				NewSignificantMoments:       newSignificant,
				CompletedSignificantMoments: completedSignificant,
				GlobalDisturbance:           state == Disturbed,
				SceneState:                  state,
			},
		}
	}

	return &FrameAnalysis{
		Frame:                 frameNum,
		Report:                report,
		Started:               started,
		Completed:             completed,
		StatusMap:             statusMap,
		TrackedBlobs:          p.trackedSnapshots(),
		SceneState:            state,
		SignificantEventCount: p.significantEventCount,
	}, nil
}

// SignificantMentionDetected processes a frame and reports only whether
// it was significant.
func (p *Pipeline) SignificantMentionDetected(frame []byte) (bool, error) {
	analysis, err := p.ProcessFrame(frame)
	if err != nil {
		return false, err
	}
	return analysis.Report.IsSignificant(), nil
}

// LastStatusMap is the status map of the latest frame, or all Learning
// before the first frame.
func (p *Pipeline) LastStatusMap() []chunk.ChunkStatus {
	return p.lastStatusMap
}

func (p *Pipeline) SceneState() SceneState {
	return p.machine.state
}

func (p *Pipeline) TrackedBlobs() []*tracker.TrackedBlob {
	return p.scene.TrackedBlobs()
}

func (p *Pipeline) ActiveMoments() []moment.Moment {
	return p.scene.ActiveMoments()
}

func (p *Pipeline) CompletedMoments() []moment.Moment {
	return p.scene.CompletedMoments()
}

func (p *Pipeline) SignificantEventCount() uint64 {
	return p.significantEventCount
}

func (p *Pipeline) FrameCount() uint64 {
	return p.scene.FrameCount()
}

func (p *Pipeline) GridWidth() int  { return p.grid.GridWidth() }
func (p *Pipeline) GridHeight() int { return p.grid.GridHeight() }

func (p *Pipeline) Config() Config {
	return p.conf
}

func (p *Pipeline) trackedSnapshots() []tracker.TrackedBlob {
	tracked := p.scene.TrackedBlobs()
	out := make([]tracker.TrackedBlob, len(tracked))
	for i, tb := range tracked {
		out[i] = tb.Snapshot()
	}
	return out
}
