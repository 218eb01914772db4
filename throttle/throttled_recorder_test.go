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

package throttle

import (
	"testing"
	"time"

	"github.com/juju/ratelimit"
	"github.com/stretchr/testify/assert"

	"github.com/TheCacophonyProject/moment-recorder/moment"
	"github.com/TheCacophonyProject/moment-recorder/recorder"
)

const bucketSize = 3

func newTestConfig() *ThrottlerConfig {
	return &ThrottlerConfig{
		ApplyThrottling: true,
		BucketSize:      bucketSize,
		RefillRate:      1,
	}
}

func newTestThrottledRecorder() (*writeRecorder, *throttleListener, *ThrottledRecorder, *testClock) {
	clock := new(testClock)
	recorder := new(writeRecorder)
	listener := new(throttleListener)
	return recorder, listener, NewThrottledRecorderWithClock(recorder, newTestConfig(), listener, clock), clock
}

type writeRecorder struct {
	recorder.NoWriteRecorder
	ids []uint64
}

func (rec *writeRecorder) RecordMoment(e recorder.Event) error {
	rec.ids = append(rec.ids, e.Moment.ID)
	return nil
}

func (rec *writeRecorder) Reset() {
	rec.ids = nil
}

type throttleListener struct {
	events int
}

func (tc *throttleListener) WhenThrottled() {
	tc.events++
}

var nextID uint64

func recordMoments(throttler *ThrottledRecorder, n int) {
	for i := 0; i < n; i++ {
		throttler.RecordMoment(recorder.Event{Moment: moment.Moment{ID: nextID}})
		nextID++
	}
}

func TestOnlyRecordsUntilBucketIsEmpty(t *testing.T) {
	recorder, listener, throtRecorder, _ := newTestThrottledRecorder()

	recordMoments(throtRecorder, bucketSize+2)
	assert.Len(t, recorder.ids, bucketSize)
	assert.Equal(t, 1, listener.events)
	assert.Equal(t, int64(0), throtRecorder.Available())
}

func TestKeepsMomentOrder(t *testing.T) {
	recorder, _, throtRecorder, _ := newTestThrottledRecorder()

	nextID = 10
	recordMoments(throtRecorder, 2)
	assert.Equal(t, []uint64{10, 11}, recorder.ids)
}

func TestRefillsOverTime(t *testing.T) {
	recorder, listener, throtRecorder, clock := newTestThrottledRecorder()

	recordMoments(throtRecorder, bucketSize+1)
	clock.Sleep(time.Minute)

	recorder.Reset()
	recordMoments(throtRecorder, 2)
	assert.Len(t, recorder.ids, 1)
	// throttling resumed and then started again
	assert.Equal(t, 2, listener.events)
}

func TestRefillIsCappedAtBucketSize(t *testing.T) {
	recorder, _, throtRecorder, clock := newTestThrottledRecorder()

	recordMoments(throtRecorder, bucketSize)
	clock.Sleep(time.Hour)

	recorder.Reset()
	recordMoments(throtRecorder, bucketSize*2)
	assert.Len(t, recorder.ids, bucketSize)
}

func TestNotifiesOncePerThrottledRun(t *testing.T) {
	_, listener, throtRecorder, _ := newTestThrottledRecorder()

	recordMoments(throtRecorder, bucketSize)
	assert.Equal(t, 0, listener.events)

	recordMoments(throtRecorder, 10)
	assert.Equal(t, 1, listener.events)
}

func TestUsingDifferentRefillRate(t *testing.T) {
	clock := new(testClock)
	config := newTestConfig()
	config.RefillRate = 6
	recorder := new(writeRecorder)
	throtRecorder := NewThrottledRecorderWithClock(recorder, config, nil, clock)

	recordMoments(throtRecorder, bucketSize)
	clock.Sleep(20 * time.Second)

	recorder.Reset()
	recordMoments(throtRecorder, bucketSize)
	assert.Len(t, recorder.ids, 2)
}

func TestValidate(t *testing.T) {
	conf := DefaultThrottlerConfig()
	assert.NoError(t, conf.Validate())

	conf.BucketSize = 0
	assert.EqualError(t, conf.Validate(), "bucket-size should be at least 1")

	conf.ApplyThrottling = false
	assert.NoError(t, conf.Validate())

	conf = DefaultThrottlerConfig()
	conf.RefillRate = 0
	assert.EqualError(t, conf.Validate(), "refill-rate should be positive")
}

var _ ratelimit.Clock = new(realClock)
var _ ratelimit.Clock = new(testClock)
var _ recorder.Recorder = new(ThrottledRecorder)

type testClock struct {
	now time.Time
}

func (c *testClock) Now() time.Time {
	return c.now
}

func (c *testClock) Sleep(d time.Duration) {
	c.now = c.now.Add(d)
}
