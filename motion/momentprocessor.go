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

package motion

import (
	"errors"
	"log"
	"sync"
	"time"

	"github.com/TheCacophonyProject/moment-recorder/chunk"
	"github.com/TheCacophonyProject/moment-recorder/loglimiter"
	"github.com/TheCacophonyProject/moment-recorder/moment"
	"github.com/TheCacophonyProject/moment-recorder/pipeline"
	"github.com/TheCacophonyProject/moment-recorder/recorder"
)

const minLogInterval = time.Minute

var errOutsideWindow = errors.New("moment completed but outside of recording window")

func NewMomentProcessor(
	p *pipeline.Pipeline,
	procConf *ProcessorConfig,
	recorderConf *recorder.RecorderConfig,
	listener Listener,
	rec recorder.Recorder,
) *MomentProcessor {
	conf := p.Config()
	mp := &MomentProcessor{
		pipeline:  p,
		conf:      procConf,
		recConf:   recorderConf,
		frameLoop: NewFrameLoop(procConf.FrameBuffer, conf.FrameSize()),
		listener:  listener,
		recorder:  rec,
		log:       loglimiter.New(minLogInterval),
		nowFunc:   time.Now,
		state:     p.SceneState(),
	}
	if procConf.Verbose {
		mp.debug = newDebugTracker()
	}
	return mp
}

// MomentProcessor feeds frames to the pipeline and records the moments it
// completes. Process must be called from a single goroutine; the status
// accessors and GetRecentFrame can be called from any goroutine.
type MomentProcessor struct {
	pipeline  *pipeline.Pipeline
	conf      *ProcessorConfig
	recConf   *recorder.RecorderConfig
	frameLoop *FrameLoop
	listener  Listener
	recorder  recorder.Recorder
	log       *loglimiter.LogLimiter
	debug     *debugTracker
	nowFunc   func() time.Time

	mu                    sync.Mutex
	state                 pipeline.SceneState
	trackedCount          int
	significantEventCount uint64
	recordedCount         int
}

type Listener interface {
	MomentStarted(moment.Moment)
	MomentCompleted(moment.Moment)
	SceneStateChanged(from, to pipeline.SceneState)
}

// Process copies rawFrame into the frame loop and runs it through the
// pipeline, so rawFrame can be reused as soon as Process returns.
func (mp *MomentProcessor) Process(rawFrame []byte) error {
	frame := mp.frameLoop.Current()
	if len(rawFrame) != len(frame) {
		return errors.New("frame is the wrong size")
	}
	copy(frame, rawFrame)
	_, err := mp.process(frame)
	return err
}

func (mp *MomentProcessor) process(frame []byte) (*pipeline.FrameAnalysis, error) {
	analysis, err := mp.pipeline.ProcessFrame(frame)
	if err != nil {
		return nil, err
	}
	mp.frameLoop.Move()

	mp.mu.Lock()
	previous := mp.state
	mp.state = analysis.SceneState
	mp.trackedCount = len(analysis.TrackedBlobs)
	mp.significantEventCount = analysis.SignificantEventCount
	mp.mu.Unlock()

	if previous != analysis.SceneState {
		mp.log.Printf("scene %s -> %s at frame %d", previous, analysis.SceneState, analysis.Frame)
		if mp.listener != nil {
			mp.listener.SceneStateChanged(previous, analysis.SceneState)
		}
	}

	for _, m := range analysis.Started {
		if mp.conf.Verbose {
			log.Printf("moment %d started at frame %d", m.ID, m.StartFrame)
		}
		if mp.listener != nil {
			mp.listener.MomentStarted(m)
		}
	}

	for _, m := range analysis.Completed {
		if mp.conf.Verbose {
			log.Printf("moment %d completed: frames %d-%d significant=%t",
				m.ID, m.StartFrame, m.EndFrame, m.IsSignificant)
		}
		if mp.listener != nil {
			mp.listener.MomentCompleted(m)
		}
		mp.recordMoment(recorder.Event{
			Moment:     m,
			SceneState: analysis.SceneState,
			Frame:      analysis.Frame,
			Time:       mp.nowFunc(),
		})
	}

	mp.updateDebug(analysis)
	return analysis, nil
}

func (mp *MomentProcessor) recordMoment(e recorder.Event) {
	if !mp.recConf.Wants(e) {
		return
	}
	if err := mp.canRecord(); err != nil {
		mp.log.Printf("moment not recorded: %v", err)
		return
	}
	if err := mp.recorder.RecordMoment(e); err != nil {
		mp.log.Printf("failed to record moment: %v", err)
		return
	}
	mp.mu.Lock()
	mp.recordedCount++
	mp.mu.Unlock()
}

func (mp *MomentProcessor) canRecord() error {
	if !mp.recConf.Active() {
		return errOutsideWindow
	}
	return mp.recorder.CheckCanRecord()
}

func (mp *MomentProcessor) updateDebug(analysis *pipeline.FrameAnalysis) {
	if mp.debug == nil {
		return
	}
	anomalous := 0
	unstable := 0
	for _, s := range analysis.StatusMap {
		if s.Kind == chunk.AnomalousEvent {
			anomalous++
		}
		if !s.IsStable() {
			unstable++
		}
	}
	mp.debug.update("anomalous", float64(anomalous))
	mp.debug.update("unstable", float64(unstable))
	mp.debug.update("tracked", float64(len(analysis.TrackedBlobs)))

	if analysis.Frame%uint64(mp.conf.VerboseInterval) == 0 {
		log.Printf("frame %d (%s): %s", analysis.Frame, analysis.SceneState, mp.debug)
		mp.debug.reset()
	}
}

// GetRecentFrame returns a copy of the last processed frame, or nil.
func (mp *MomentProcessor) GetRecentFrame() []byte {
	return mp.frameLoop.CopyRecent()
}

func (mp *MomentProcessor) SceneState() pipeline.SceneState {
	mp.mu.Lock()
	defer mp.mu.Unlock()
	return mp.state
}

func (mp *MomentProcessor) TrackedCount() int {
	mp.mu.Lock()
	defer mp.mu.Unlock()
	return mp.trackedCount
}

func (mp *MomentProcessor) SignificantEventCount() uint64 {
	mp.mu.Lock()
	defer mp.mu.Unlock()
	return mp.significantEventCount
}

// RecordedCount is the number of moments handed to the recorder without
// error.
func (mp *MomentProcessor) RecordedCount() int {
	mp.mu.Lock()
	defer mp.mu.Unlock()
	return mp.recordedCount
}

func (mp *MomentProcessor) ImageSize() (int, int) {
	conf := mp.pipeline.Config()
	return conf.ImageWidth, conf.ImageHeight
}
