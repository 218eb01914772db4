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

package recorder

import (
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/TheCacophonyProject/moment-recorder/blob"
)

func newTestSQLiteRecorder(t *testing.T, path string) *SQLiteRecorder {
	t.Helper()
	rec, err := NewSQLiteRecorder(path, "test")
	require.NoError(t, err)
	t.Cleanup(func() { rec.Close() })
	return rec
}

func TestSQLiteRecorderStoresMoments(t *testing.T) {
	rec := newTestSQLiteRecorder(t, filepath.Join(t.TempDir(), "moments.db"))
	assert.NotEqual(t, uuid.Nil, rec.SessionID())
	require.NoError(t, rec.CheckCanRecord())

	require.NoError(t, rec.RecordMoment(testEvent(0, 5, 7, true)))
	require.NoError(t, rec.RecordMoment(testEvent(1, 9, 9, false)))

	stored, err := rec.Moments()
	require.NoError(t, err)
	require.Len(t, stored, 2)

	first := stored[0]
	assert.Equal(t, uint64(0), first.MomentID)
	assert.Equal(t, uint64(5), first.StartFrame)
	assert.Equal(t, uint64(7), first.EndFrame)
	assert.Equal(t, uint64(13), first.CompletedFrame)
	assert.True(t, first.Significant)
	assert.Equal(t, 3, first.MaxSize)
	assert.Equal(t, 7.0, first.PeakScore)
	assert.Equal(t, "stable", first.SceneState)
	assert.Equal(t, int64(1600000000), first.Recorded.Unix())
	want := []blob.Vec2{{X: 5, Y: 2}, {X: 6, Y: 2}, {X: 7, Y: 2}}
	if diff := cmp.Diff(want, first.Path); diff != "" {
		t.Errorf("path mismatch (-want +got):\n%s", diff)
	}

	assert.Equal(t, uint64(1), stored[1].MomentID)
	assert.False(t, stored[1].Significant)
}

func TestSQLiteSessionsAreSeparate(t *testing.T) {
	path := filepath.Join(t.TempDir(), "moments.db")
	first := newTestSQLiteRecorder(t, path)
	require.NoError(t, first.RecordMoment(testEvent(0, 1, 2, true)))

	second := newTestSQLiteRecorder(t, path)
	assert.NotEqual(t, first.SessionID(), second.SessionID())

	stored, err := second.Moments()
	require.NoError(t, err)
	assert.Empty(t, stored)

	stored, err = first.Moments()
	require.NoError(t, err)
	assert.Len(t, stored, 1)
}
