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
	"log"
	"time"

	"github.com/juju/ratelimit"

	"github.com/TheCacophonyProject/moment-recorder/recorder"
)

func NewThrottledRecorder(
	baseRecorder recorder.Recorder,
	config *ThrottlerConfig,
	eventListener ThrottledEventListener,
) *ThrottledRecorder {
	return NewThrottledRecorderWithClock(baseRecorder, config, eventListener, new(realClock))
}

func NewThrottledRecorderWithClock(
	baseRecorder recorder.Recorder,
	config *ThrottlerConfig,
	listener ThrottledEventListener,
	clock ratelimit.Clock,
) *ThrottledRecorder {
	// The token bucket tracks the number of *moments* available for recording.
	refillRate := config.RefillRate / time.Minute.Seconds()
	bucket := ratelimit.NewBucketWithRateAndClock(refillRate, config.BucketSize, clock)

	if listener == nil {
		listener = new(nullListener)
	}

	return &ThrottledRecorder{
		recorder: baseRecorder,
		listener: listener,
		bucket:   bucket,
	}
}

// ThrottledRecorder drops moments once too many have been recorded in a
// short time. The listener hears about each run of dropped moments once.
type ThrottledRecorder struct {
	recorder   recorder.Recorder
	listener   ThrottledEventListener
	bucket     *ratelimit.Bucket
	throttling bool
	dropped    int
}

type ThrottledEventListener interface {
	WhenThrottled()
}

type nullListener struct{}

func (lis *nullListener) WhenThrottled() {}

func (throttler *ThrottledRecorder) CheckCanRecord() error {
	return throttler.recorder.CheckCanRecord()
}

func (throttler *ThrottledRecorder) RecordMoment(e recorder.Event) error {
	if throttler.bucket.TakeAvailable(1) == 0 {
		throttler.dropped++
		if !throttler.throttling {
			throttler.throttling = true
			log.Print("moment recording throttled")
			throttler.listener.WhenThrottled()
		}
		return nil
	}

	if throttler.throttling {
		log.Printf("moment recording resumed; %d moments throttled", throttler.dropped)
		throttler.throttling = false
		throttler.dropped = 0
	}
	return throttler.recorder.RecordMoment(e)
}

// Available is the number of moments that could be recorded right now.
func (throttler *ThrottledRecorder) Available() int64 {
	return throttler.bucket.Available()
}

type realClock struct{}

func (realClock) Now() time.Time {
	return time.Now()
}

func (realClock) Sleep(d time.Duration) {
	time.Sleep(d)
}
