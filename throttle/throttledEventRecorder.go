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

	"github.com/TheCacophonyProject/moment-recorder/recorder"
)

const throttleEventType = "throttle"

// ThrottledEventRecorder queues a throttle event whenever moments start
// being dropped.
type ThrottledEventRecorder struct {
}

func (er ThrottledEventRecorder) WhenThrottled() {
	if err := recorder.QueueEvent(throttleEventType, nil, time.Now()); err != nil {
		log.Printf("Could not record throttle event: %s", err)
	}
}
