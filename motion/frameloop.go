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
	"sync"
)

func NewFrameLoop(size, frameSize int) *FrameLoop {
	if size < 2 {
		size = 2
	}
	frames := make([][]byte, size)
	for i := range frames {
		frames[i] = make([]byte, frameSize)
	}

	return &FrameLoop{
		size:         size,
		currentIndex: 0,
		frames:       frames,
	}
}

// FrameLoop is a ring of reusable RGBA frame buffers. The current buffer
// is written by the frame goroutine; the previous ones can be copied out
// from other goroutines.
type FrameLoop struct {
	size         int
	currentIndex int
	frames       [][]byte
	count        int
	mu           sync.Mutex
}

func (fl *FrameLoop) nextIndexAfter(index int) int {
	return (index + 1) % fl.size
}

// Move finishes the current frame and returns the buffer for the next.
func (fl *FrameLoop) Move() []byte {
	fl.mu.Lock()
	defer fl.mu.Unlock()

	fl.currentIndex = fl.nextIndexAfter(fl.currentIndex)
	if fl.count < fl.size-1 {
		fl.count++
	}
	return fl.frames[fl.currentIndex]
}

func (fl *FrameLoop) Current() []byte {
	return fl.frames[fl.currentIndex]
}

// CopyRecent returns a copy of the last finished frame, or nil if no
// frame has finished yet.
func (fl *FrameLoop) CopyRecent() []byte {
	fl.mu.Lock()
	defer fl.mu.Unlock()

	if fl.count == 0 {
		return nil
	}
	previousIndex := (fl.currentIndex - 1 + fl.size) % fl.size
	return append([]byte(nil), fl.frames[previousIndex]...)
}
