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
	"log"
	"time"

	"github.com/TheCacophonyProject/moment-recorder/recorder"
	"github.com/TheCacophonyProject/moment-recorder/throttle"
)

const minLogInterval = time.Minute

// newRecorder builds the moment sinks named by the store config behind
// the throttler. The returned func closes the database.
func newRecorder(conf *Config) (recorder.Recorder, func(), error) {
	var sinks recorder.MultiRecorder
	closer := func() {}

	if conf.Store.Database != "" {
		db, err := recorder.NewSQLiteRecorder(conf.Store.Database, conf.Store.Notes)
		if err != nil {
			return nil, nil, err
		}
		sinks = append(sinks, db)
		closer = func() {
			if err := db.Close(); err != nil {
				log.Printf("failed to close moment database: %v", err)
			}
		}
	}
	if conf.Store.Events {
		sinks = append(sinks, recorder.NewEventRecorder())
	}

	var rec recorder.Recorder = sinks
	if len(sinks) == 0 {
		log.Print("no moment store configured, moments will not be saved")
		rec = new(recorder.NoWriteRecorder)
	}
	if conf.Throttler.ApplyThrottling {
		rec = throttle.NewThrottledRecorder(rec, &conf.Throttler, new(throttle.ThrottledEventRecorder))
	}
	return rec, closer, nil
}
