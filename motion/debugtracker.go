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
	"fmt"
	"math"
	"strings"
)

// debugTracker collects per frame values between verbose log lines. A
// nil tracker ignores everything so callers need not check Verbose.
type debugTracker struct {
	values map[string]*value
	names  []string
}

func newDebugTracker() *debugTracker {
	return &debugTracker{
		values: make(map[string]*value),
	}
}

func (d *debugTracker) update(name string, x float64) {
	if d == nil {
		return
	}
	v := d.values[name]
	if v == nil {
		v = newValue()
		d.values[name] = v
		d.names = append(d.names, name)
	}
	v.update(x)
}

func (d *debugTracker) reset() {
	if d == nil {
		return
	}
	for _, v := range d.values {
		v.reset()
	}
}

// String lists every value in the order it was first seen.
func (d *debugTracker) String() string {
	if d == nil {
		return ""
	}
	var out []string
	for _, name := range d.names {
		v := d.values[name]
		if v.n > 0 {
			out = append(out, fmt.Sprintf("%s: %s", name, v))
		}
	}
	return strings.Join(out, "; ")
}

func newValue() *value {
	v := new(value)
	v.reset()
	return v
}

type value struct {
	n   int
	min float64
	max float64
	avg float64
}

func (v *value) reset() {
	v.n = 0
	v.max = math.Inf(-1)
	v.min = math.Inf(1)
	v.avg = 0
}

func (v *value) update(x float64) {
	v.n++
	v.max = math.Max(v.max, x)
	v.min = math.Min(v.min, x)
	// Cumulative moving average
	v.avg = v.avg + ((x - v.avg) / float64(v.n))
}

func (v *value) String() string {
	return fmt.Sprintf("%g -> %g (avg: %.2f)", v.min, v.max, v.avg)
}
