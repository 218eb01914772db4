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
	"errors"
	"hash/fnv"
	"image"
	"image/png"
	"log"
	"os"
	"path"
	"sync"
	"time"

	"github.com/TheCacophonyProject/moment-recorder/motion"
)

const (
	snapshotName          = "still.png"
	allowedSnapshotPeriod = 500 * time.Millisecond
)

var (
	previousSnapshotID   uint64
	previousSnapshotTime time.Time
	snapshotMu           sync.Mutex
)

func newSnapshot(dir string, proc *motion.MomentProcessor) error {
	snapshotMu.Lock()
	defer snapshotMu.Unlock()

	if time.Since(previousSnapshotTime) < allowedSnapshotPeriod {
		return nil
	}

	if proc == nil {
		return errors.New("reading from camera has not started yet")
	}
	f := proc.GetRecentFrame()
	if f == nil {
		return errors.New("no frames yet")
	}

	// Check if frame had already been saved
	id := frameID(f)
	if id == previousSnapshotID {
		return nil
	}

	width, height := proc.ImageSize()
	img := &image.RGBA{
		Pix:    f,
		Stride: width * 4,
		Rect:   image.Rect(0, 0, width, height),
	}
	if err := writePNG(path.Join(dir, snapshotName), img); err != nil {
		return err
	}

	// the id and time change only if the attempt is successful
	previousSnapshotID = id
	previousSnapshotTime = time.Now()
	return nil
}

func writePNG(filename string, img image.Image) error {
	out, err := os.Create(filename)
	if err != nil {
		return err
	}
	if err := png.Encode(out, img); err != nil {
		out.Close()
		return err
	}
	return out.Close()
}

func frameID(frame []byte) uint64 {
	h := fnv.New64a()
	h.Write(frame)
	return h.Sum64()
}

func deleteSnapshot(dir string) {
	if err := os.Remove(path.Join(dir, snapshotName)); err != nil && !os.IsNotExist(err) {
		log.Printf("error deleting snapshot image: %v", err)
	}
}
