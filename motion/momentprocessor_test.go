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
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/TheCacophonyProject/moment-recorder/moment"
	"github.com/TheCacophonyProject/moment-recorder/pipeline"
	"github.com/TheCacophonyProject/moment-recorder/recorder"
)

type TestRecorder struct {
	events          []recorder.Event
	CanRecordReturn error
}

func (tr *TestRecorder) RecordMoment(e recorder.Event) error {
	tr.events = append(tr.events, e)
	return nil
}

func (tr *TestRecorder) CheckCanRecord() error { return tr.CanRecordReturn }

func (tr *TestRecorder) SetCheckError(err error) {
	tr.CanRecordReturn = err
}

type testListener struct {
	started   []moment.Moment
	completed []moment.Moment
	states    [][2]pipeline.SceneState
}

func (l *testListener) MomentStarted(m moment.Moment)   { l.started = append(l.started, m) }
func (l *testListener) MomentCompleted(m moment.Moment) { l.completed = append(l.completed, m) }
func (l *testListener) SceneStateChanged(from, to pipeline.SceneState) {
	l.states = append(l.states, [2]pipeline.SceneState{from, to})
}

func PipelineTestConfig() pipeline.Config {
	conf := pipeline.DefaultConfig()
	conf.ImageWidth = 100
	conf.ImageHeight = 100
	return conf
}

func RecorderTestConfig() *recorder.RecorderConfig {
	conf := recorder.DefaultRecorderConfig()
	return &conf
}

func ProcessorTestConfig() *ProcessorConfig {
	conf := DefaultProcessorConfig()
	return &conf
}

func SetupTest(pConf pipeline.Config, rConf *recorder.RecorderConfig) (*TestRecorder, *testListener, *TestFrameMaker, *MomentProcessor) {
	p, err := pipeline.New(pConf)
	if err != nil {
		panic(err)
	}
	rec := new(TestRecorder)
	listener := new(testListener)
	processor := NewMomentProcessor(p, ProcessorTestConfig(), rConf, listener, rec)
	processor.nowFunc = func() time.Time { return time.Unix(1600000000, 0) }
	return rec, listener, MakeTestFrameMaker(processor), processor
}

func TestNothingRecordedFromBackground(t *testing.T) {
	rec, listener, scenarioMaker, processor := SetupTest(PipelineTestConfig(), RecorderTestConfig())
	scenarioMaker.AddBackgroundFrames(60)

	assert.Empty(t, scenarioMaker.Errors())
	assert.Empty(t, rec.events)
	assert.Empty(t, listener.started)
	assert.Equal(t, pipeline.Stable, processor.SceneState())
	assert.Equal(t, uint64(0), processor.SignificantEventCount())
}

func TestSquareMomentIsRecorded(t *testing.T) {
	rec, listener, scenarioMaker, processor := SetupTest(PipelineTestConfig(), RecorderTestConfig())

	scenarioMaker.AddBackgroundFrames(30).PlaceSquare(40, 40).AddSquareFrames(1)
	assert.Equal(t, 1, processor.TrackedCount())
	require.Len(t, listener.started, 1)
	assert.Empty(t, rec.events)

	scenarioMaker.AddSquareFrames(9).AddBackgroundFrames(10)
	assert.Empty(t, scenarioMaker.Errors())

	require.Len(t, rec.events, 1)
	e := rec.events[0]
	assert.Equal(t, uint64(31), e.Moment.StartFrame)
	assert.Equal(t, uint64(31), e.Moment.EndFrame)
	assert.Equal(t, uint64(37), e.Frame)
	assert.True(t, e.Moment.IsSignificant)
	assert.Equal(t, 9, e.Moment.MaxSize())
	assert.Equal(t, pipeline.Stable, e.SceneState)
	assert.Equal(t, time.Unix(1600000000, 0), e.Time)

	assert.Len(t, listener.completed, 1)
	assert.Equal(t, [][2]pipeline.SceneState{{pipeline.Calibrating, pipeline.Stable}}, listener.states)
	assert.Equal(t, 1, processor.RecordedCount())
	assert.Equal(t, 0, processor.TrackedCount())
	assert.Equal(t, uint64(2), processor.SignificantEventCount())
}

func TestMovingSquareIsOneMoment(t *testing.T) {
	rConf := RecorderTestConfig()
	rConf.SignificantOnly = false
	rec, listener, scenarioMaker, _ := SetupTest(PipelineTestConfig(), rConf)

	scenarioMaker.AddBackgroundFrames(30).
		PlaceSquare(0, 40).AddSquareFrames(1).
		AddMovingSquareFrames(7, 10, 0).
		AddBackgroundFrames(10)
	assert.Empty(t, scenarioMaker.Errors())

	require.Len(t, listener.started, 1)
	require.Len(t, rec.events, 1)
	m := rec.events[0].Moment
	assert.Equal(t, uint64(31), m.StartFrame)
	assert.Equal(t, uint64(38), m.EndFrame)
	require.Len(t, m.Path, 8)
	for i := 1; i < len(m.Path); i++ {
		assert.Greater(t, m.Path[i].X, m.Path[i-1].X)
		assert.InDelta(t, 5.0, m.Path[i].Y, 1e-9)
	}
}

func TestMomentNotRecordedIfCheckCanRecordReturnsError(t *testing.T) {
	rec, listener, scenarioMaker, processor := SetupTest(PipelineTestConfig(), RecorderTestConfig())
	rec.SetCheckError(errors.New("Cannot record or bad things will happen"))

	scenarioMaker.AddBackgroundFrames(30).PlaceSquare(40, 40).AddSquareFrames(10)
	assert.Empty(t, rec.events)
	assert.Len(t, listener.completed, 1)
	assert.Equal(t, 0, processor.RecordedCount())
}

func TestShortMomentsAreNotRecorded(t *testing.T) {
	rConf := RecorderTestConfig()
	rConf.MinFrames = 2
	rec, listener, scenarioMaker, _ := SetupTest(PipelineTestConfig(), rConf)

	scenarioMaker.AddBackgroundFrames(30).PlaceSquare(40, 40).AddSquareFrames(10)
	assert.Len(t, listener.completed, 1)
	assert.Empty(t, rec.events)
}

func TestWrongSizedFrameIsRejected(t *testing.T) {
	_, _, _, processor := SetupTest(PipelineTestConfig(), RecorderTestConfig())
	assert.Error(t, processor.Process(make([]byte, 10)))
	assert.Nil(t, processor.GetRecentFrame())
}

func TestRecentFrameIsLastProcessed(t *testing.T) {
	_, _, scenarioMaker, processor := SetupTest(PipelineTestConfig(), RecorderTestConfig())

	scenarioMaker.AddBackgroundFrames(3)
	square := scenarioMaker.MakeFrameWithSquare(0, 0)
	scenarioMaker.PlayFrame(square)

	recent := processor.GetRecentFrame()
	assert.Equal(t, square, recent)

	// the copy is not touched by later frames
	scenarioMaker.AddBackgroundFrames(5)
	assert.Equal(t, square, recent)
	assert.NotEqual(t, square, processor.GetRecentFrame())
}
