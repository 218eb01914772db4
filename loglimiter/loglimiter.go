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

// Package loglimiter stops repeated log lines from flooding the log.
package loglimiter

import (
	"fmt"
	"log"
	"time"
)

func New(interval time.Duration) *LogLimiter {
	return &LogLimiter{
		interval: interval,
		nowFunc:  time.Now,
		entries:  make(map[string]*entry),
	}
}

// LogLimiter logs a line at most once per interval for each key. Print
// and Printf use the message itself as the key; PrintKeyf lets messages
// whose details change every time share a limit.
type LogLimiter struct {
	interval time.Duration
	nowFunc  func() time.Time
	entries  map[string]*entry
}

type entry struct {
	last       time.Time
	suppressed int
}

func (limiter *LogLimiter) Printf(format string, v ...interface{}) {
	s := fmt.Sprintf(format, v...)
	limiter.print(s, s)
}

func (limiter *LogLimiter) Print(s string) {
	limiter.print(s, s)
}

// PrintKeyf logs under key rather than under the formatted message.
func (limiter *LogLimiter) PrintKeyf(key, format string, v ...interface{}) {
	limiter.print(key, fmt.Sprintf(format, v...))
}

func (limiter *LogLimiter) print(key, s string) {
	now := limiter.nowFunc()
	limiter.expire(now)

	e, ok := limiter.entries[key]
	if ok && now.Sub(e.last) < limiter.interval {
		e.suppressed++
		return
	}
	if !ok {
		e = new(entry)
		limiter.entries[key] = e
	}

	if e.suppressed > 0 {
		log.Printf("%s (repeated %d times)", s, e.suppressed)
	} else {
		log.Print(s)
	}
	e.last = now
	e.suppressed = 0
}

// expire drops entries that have been quiet for a whole interval and
// have nothing left to report.
func (limiter *LogLimiter) expire(now time.Time) {
	for key, e := range limiter.entries {
		if e.suppressed == 0 && now.Sub(e.last) >= limiter.interval {
			delete(limiter.entries, key)
		}
	}
}
