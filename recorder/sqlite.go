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
	"database/sql"
	_ "embed"
	"encoding/json"
	"log"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	_ "modernc.org/sqlite"

	"github.com/TheCacophonyProject/moment-recorder/blob"
)

//go:embed schema.sql
var schemaSQL string

// SQLiteRecorder stores completed moments in a sqlite database. Each
// recorder run gets its own session id.
type SQLiteRecorder struct {
	db        *sql.DB
	sessionID uuid.UUID
}

func NewSQLiteRecorder(path, notes string) (*SQLiteRecorder, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, errors.Wrapf(err, "can't open %s", path)
	}
	if _, err := db.Exec(schemaSQL); err != nil {
		db.Close()
		return nil, errors.Wrap(err, "can't create schema")
	}

	rec := &SQLiteRecorder{db: db, sessionID: uuid.New()}
	_, err = db.Exec(
		`INSERT INTO sessions (session_id, started_unix_nanos, notes) VALUES (?, ?, ?)`,
		rec.sessionID.String(), time.Now().UnixNano(), notes)
	if err != nil {
		db.Close()
		return nil, errors.Wrap(err, "can't start session")
	}
	log.Printf("recording moments to %s (session %s)", path, rec.sessionID)
	return rec, nil
}

func (rec *SQLiteRecorder) SessionID() uuid.UUID {
	return rec.sessionID
}

func (rec *SQLiteRecorder) RecordMoment(e Event) error {
	m := e.Moment
	pathJSON, err := json.Marshal(m.Path)
	if err != nil {
		return err
	}

	query := `
		INSERT INTO moments (
			session_id, moment_id, start_frame, end_frame, completed_frame,
			significant, max_size, peak_score, scene_state, path_json,
			recorded_unix_nanos
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`
	_, err = rec.db.Exec(query,
		rec.sessionID.String(), m.ID, m.StartFrame, m.EndFrame, e.Frame,
		m.IsSignificant, m.MaxSize(), m.PeakLuminanceScore(), e.SceneState.String(),
		string(pathJSON), e.Time.UnixNano())
	if err != nil {
		return errors.Wrapf(err, "failed to insert moment %d", m.ID)
	}
	return nil
}

func (rec *SQLiteRecorder) CheckCanRecord() error {
	return rec.db.Ping()
}

func (rec *SQLiteRecorder) Close() error {
	return rec.db.Close()
}

// StoredMoment is a moment as read back from the database.
type StoredMoment struct {
	MomentID       uint64
	StartFrame     uint64
	EndFrame       uint64
	CompletedFrame uint64
	Significant    bool
	MaxSize        int
	PeakScore      float64
	SceneState     string
	Path           []blob.Vec2
	Recorded       time.Time
}

// Moments returns the moments recorded in this session in the order they
// were recorded.
func (rec *SQLiteRecorder) Moments() ([]StoredMoment, error) {
	rows, err := rec.db.Query(`
		SELECT moment_id, start_frame, end_frame, completed_frame, significant,
			max_size, peak_score, scene_state, path_json, recorded_unix_nanos
		FROM moments
		WHERE session_id = ?
		ORDER BY id`, rec.sessionID.String())
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []StoredMoment
	for rows.Next() {
		var (
			sm       StoredMoment
			pathJSON string
			recorded int64
		)
		err := rows.Scan(&sm.MomentID, &sm.StartFrame, &sm.EndFrame, &sm.CompletedFrame,
			&sm.Significant, &sm.MaxSize, &sm.PeakScore, &sm.SceneState, &pathJSON, &recorded)
		if err != nil {
			return nil, err
		}
		if err := json.Unmarshal([]byte(pathJSON), &sm.Path); err != nil {
			return nil, errors.Wrapf(err, "bad path for moment %d", sm.MomentID)
		}
		sm.Recorded = time.Unix(0, recorded)
		out = append(out, sm)
	}
	return out, rows.Err()
}
