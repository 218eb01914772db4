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

package pipeline

import (
	"gonum.org/v1/gonum/stat"

	"github.com/TheCacophonyProject/moment-recorder/blob"
)

// sizeFilter drops blobs that are too small to be worth tracking, either
// below an absolute size or well below the sizes seen recently.
type sizeFilter struct {
	minSize  int
	stdDevs  float64
	capacity int
	history  []float64
}

func newSizeFilter(conf *Config) *sizeFilter {
	return &sizeFilter{
		minSize:  conf.AbsoluteMinBlobSize,
		stdDevs:  conf.BlobSizeStdDevFilter,
		capacity: conf.BlobSizeHistory,
		history:  make([]float64, 0, conf.BlobSizeHistory),
	}
}

// filter judges every blob against the history as it was before this
// frame, then records the sizes of blobs that passed the absolute limit.
func (f *sizeFilter) filter(blobs []blob.SmartBlob) []blob.SmartBlob {
	cutoff, haveCutoff := f.relativeCutoff()

	kept := make([]blob.SmartBlob, 0, len(blobs))
	for _, b := range blobs {
		if b.Size < f.minSize {
			continue
		}
		f.push(float64(b.Size))
		if haveCutoff && float64(b.Size) < cutoff {
			continue
		}
		kept = append(kept, b)
	}
	return kept
}

func (f *sizeFilter) relativeCutoff() (float64, bool) {
	if len(f.history) == 0 || len(f.history)*2 < f.capacity {
		return 0, false
	}
	mean, std := stat.PopMeanStdDev(f.history, nil)
	return mean - f.stdDevs*std, true
}

func (f *sizeFilter) push(size float64) {
	if len(f.history) < f.capacity {
		f.history = append(f.history, size)
		return
	}
	copy(f.history, f.history[1:])
	f.history[len(f.history)-1] = size
}
