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

package loglimiter

import (
	"bytes"
	"log"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func newTestLimiter(interval time.Duration) (*LogLimiter, *time.Time) {
	now := time.Now()
	limiter := New(interval)
	limiter.nowFunc = func() time.Time { return now }
	return limiter, &now
}

func TestPrint(t *testing.T) {
	logs, reset := captureLogs()
	defer reset()

	limiter := New(time.Minute)
	limiter.Print("hello")
	limiter.Print("world")

	assert.Equal(t, "hello\nworld\n", logs.String())
}

func TestPrintf(t *testing.T) {
	logs, reset := captureLogs()
	defer reset()

	limiter := New(time.Minute)
	limiter.Printf("frame %d: %q", 42, "short")

	assert.Equal(t, "frame 42: \"short\"\n", logs.String())
}

func TestRepeatsAreCounted(t *testing.T) {
	logs, reset := captureLogs()
	defer reset()

	limiter, now := newTestLimiter(2 * time.Second)

	limiter.Print("hello")
	*now = now.Add(time.Second)
	limiter.Print("hello")
	limiter.Print("hello")
	assert.Equal(t, "hello\n", logs.String())

	*now = now.Add(time.Second)
	limiter.Print("hello")
	assert.Equal(t, "hello\nhello (repeated 2 times)\n", logs.String())
}

func TestEachMessageHasItsOwnLimit(t *testing.T) {
	logs, reset := captureLogs()
	defer reset()

	limiter, _ := newTestLimiter(time.Minute)
	limiter.Print("hello")
	limiter.Print("world")
	limiter.Print("hello")
	limiter.Print("world")

	assert.Equal(t, "hello\nworld\n", logs.String())
}

func TestPrintKeyf(t *testing.T) {
	logs, reset := captureLogs()
	defer reset()

	limiter, now := newTestLimiter(time.Minute)
	limiter.PrintKeyf("short-frame", "short frame: %d bytes", 10)
	limiter.PrintKeyf("short-frame", "short frame: %d bytes", 12)
	assert.Equal(t, "short frame: 10 bytes\n", logs.String())

	*now = now.Add(time.Minute)
	limiter.PrintKeyf("short-frame", "short frame: %d bytes", 14)
	assert.Equal(t, "short frame: 10 bytes\nshort frame: 14 bytes (repeated 1 times)\n", logs.String())
}

func TestMixed(t *testing.T) {
	logs, reset := captureLogs()
	defer reset()

	// Mixing Print and Printf doesn't matter if the resulting string is the same.
	limiter := New(time.Minute)
	limiter.Print("hello")
	limiter.Printf("hello")
	assert.Equal(t, "hello\n", logs.String())
}

func TestQuietEntriesExpire(t *testing.T) {
	_, reset := captureLogs()
	defer reset()

	limiter, now := newTestLimiter(time.Second)
	limiter.Print("a")
	limiter.Print("b")
	assert.Len(t, limiter.entries, 2)

	*now = now.Add(time.Second)
	limiter.Print("c")
	assert.Len(t, limiter.entries, 1)
}

func captureLogs() (*bytes.Buffer, func()) {
	flags := log.Flags()
	log.SetFlags(0)

	logs := new(bytes.Buffer)
	log.SetOutput(logs)

	return logs, func() {
		log.SetOutput(os.Stderr)
		log.SetFlags(flags)
	}
}
