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

package main

import (
	"bufio"
	"fmt"
	"io"
	"log"
	"os"
	"strings"

	"github.com/pkg/errors"

	"github.com/TheCacophonyProject/moment-recorder/moment"
	"github.com/TheCacophonyProject/moment-recorder/motion"
	"github.com/TheCacophonyProject/moment-recorder/pipeline"
	"github.com/TheCacophonyProject/moment-recorder/recorder"
)

// MomentLoggingListener collects what happened during a playback run.
type MomentLoggingListener struct {
	verbose      bool
	started      int
	completed    int
	significant  int
	momentRanges []string
	sceneChanges []string
}

func (l *MomentLoggingListener) MomentStarted(m moment.Moment) {
	if l.verbose {
		log.Printf("%d: moment %d started", m.StartFrame, m.ID)
	}
	l.started++
}

func (l *MomentLoggingListener) MomentCompleted(m moment.Moment) {
	if l.verbose {
		log.Printf("%d: moment %d completed", m.EndFrame, m.ID)
	}
	l.completed++
	if m.IsSignificant {
		l.significant++
		l.momentRanges = append(l.momentRanges, fmt.Sprintf("(%d:%d)", m.StartFrame, m.EndFrame))
	}
}

func (l *MomentLoggingListener) SceneStateChanged(from, to pipeline.SceneState) {
	l.sceneChanges = append(l.sceneChanges, to.String())
}

// PlaybackResults summarises one playback run.
type PlaybackResults struct {
	Frames             int
	MomentsStarted     int
	MomentsCompleted   int
	SignificantMoments string
	SignificantFrames  uint64
	Recorded           int
	SceneStates        string
	FinalState         pipeline.SceneState
}

func (r *PlaybackResults) String() string {
	return fmt.Sprintf("Frames: %d Moments: %d/%d Significant: %-16s Significant frames: %d Recorded: %d Scene: %s (final %s)",
		r.Frames, r.MomentsCompleted, r.MomentsStarted, r.SignificantMoments,
		r.SignificantFrames, r.Recorded, r.SceneStates, r.FinalState)
}

// PlaybackTester runs a file of raw RGBA frames through the pipeline.
type PlaybackTester struct {
	config *Config
	dbPath string
}

func NewPlaybackTester(conf *Config, dbPath string) *PlaybackTester {
	return &PlaybackTester{
		config: conf,
		dbPath: dbPath,
	}
}

func (pt *PlaybackTester) Play(filename string) (*PlaybackResults, error) {
	file, err := os.Open(filename)
	if err != nil {
		return nil, err
	}
	defer file.Close()
	return pt.PlayFrom(bufio.NewReader(file))
}

// PlayFrom reads frames until r runs out. A partial frame at the end is
// an error.
func (pt *PlaybackTester) PlayFrom(r io.Reader) (*PlaybackResults, error) {
	p, err := pipeline.New(pt.config.Pipeline)
	if err != nil {
		return nil, err
	}

	var rec recorder.Recorder = new(recorder.NoWriteRecorder)
	if pt.dbPath != "" {
		db, err := recorder.NewSQLiteRecorder(pt.dbPath, "playback")
		if err != nil {
			return nil, err
		}
		defer db.Close()
		rec = db
	}

	listener := &MomentLoggingListener{verbose: pt.config.Processor.Verbose}
	proc := motion.NewMomentProcessor(p, &pt.config.Processor, &pt.config.Recorder, listener, rec)

	frame := make([]byte, pt.config.Pipeline.FrameSize())
	frames := 0
	for {
		_, err := io.ReadFull(r, frame)
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, errors.Wrapf(err, "reading frame %d", frames+1)
		}
		if err := proc.Process(frame); err != nil {
			return nil, err
		}
		frames++
	}

	ranges := "None"
	if len(listener.momentRanges) > 0 {
		ranges = strings.Join(listener.momentRanges, "")
	}
	states := strings.Join(listener.sceneChanges, ",")
	if states == "" {
		states = "-"
	}
	return &PlaybackResults{
		Frames:             frames,
		MomentsStarted:     listener.started,
		MomentsCompleted:   listener.completed,
		SignificantMoments: ranges,
		SignificantFrames:  proc.SignificantEventCount(),
		Recorded:           proc.RecordedCount(),
		SceneStates:        states,
		FinalState:         proc.SceneState(),
	}, nil
}
