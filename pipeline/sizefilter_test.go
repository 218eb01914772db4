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
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/TheCacophonyProject/moment-recorder/blob"
)

func blobsOfSize(sizes ...int) []blob.SmartBlob {
	blobs := make([]blob.SmartBlob, len(sizes))
	for i, s := range sizes {
		blobs[i] = blob.SmartBlob{ID: uint64(i), Size: s}
	}
	return blobs
}

func sizesOf(blobs []blob.SmartBlob) []int {
	sizes := make([]int, len(blobs))
	for i, b := range blobs {
		sizes[i] = b.Size
	}
	return sizes
}

func newTestSizeFilter(capacity int) *sizeFilter {
	conf := DefaultConfig()
	conf.AbsoluteMinBlobSize = 2
	conf.BlobSizeStdDevFilter = 1.0
	conf.BlobSizeHistory = capacity
	return newSizeFilter(&conf)
}

func TestAbsoluteMinimum(t *testing.T) {
	f := newTestSizeFilter(10)
	assert.Equal(t, []int{2, 5}, sizesOf(f.filter(blobsOfSize(1, 2, 0, 5))))
	// rejected sizes are not remembered
	assert.Equal(t, []float64{2, 5}, f.history)
}

func TestRelativeFilterWaitsForHalfHistory(t *testing.T) {
	f := newTestSizeFilter(6)
	// two sizes held, below half of six
	f.filter(blobsOfSize(10, 10))
	assert.Equal(t, []int{2}, sizesOf(f.filter(blobsOfSize(2))))

	// three held: 10, 10, 2 gives mean 7.33 and std 3.77
	assert.Equal(t, []int{10, 4}, sizesOf(f.filter(blobsOfSize(3, 10, 4))))
}

func TestRelativeFilterUsesPreviousFrames(t *testing.T) {
	f := newTestSizeFilter(4)
	f.filter(blobsOfSize(8, 8))
	// history is 8, 8 with no spread so anything smaller goes, but the
	// small blob's size is still recorded
	assert.Equal(t, []int{8}, sizesOf(f.filter(blobsOfSize(8, 4))))
	assert.Equal(t, []float64{8, 8, 8, 4}, f.history)
}

func TestHistoryIsBounded(t *testing.T) {
	f := newTestSizeFilter(3)
	for i := 2; i < 10; i++ {
		f.filter(blobsOfSize(i))
	}
	assert.Equal(t, []float64{7, 8, 9}, f.history)
}
