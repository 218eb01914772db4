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
	"encoding/json"
	"time"

	"github.com/godbus/dbus"
)

const (
	eventsService   = "org.cacophony.Events"
	eventsPath      = "/org/cacophony/Events"
	eventsQueueCall = "org.cacophony.Events.Queue"

	MomentEventType = "moment"
)

// QueueEvent hands an event to the Cacophony events service on the
// system bus.
func QueueEvent(eventType string, details map[string]interface{}, ts time.Time) error {
	description := map[string]interface{}{"type": eventType}
	if details != nil {
		description["details"] = details
	}
	eventDetails := map[string]interface{}{"description": description}
	detailsJSON, err := json.Marshal(&eventDetails)
	if err != nil {
		return err
	}

	conn, err := dbus.SystemBus()
	if err != nil {
		return err
	}

	obj := conn.Object(eventsService, eventsPath)
	call := obj.Call(eventsQueueCall, 0, detailsJSON, ts.UnixNano())
	return call.Err
}

type QueueFunc func(eventType string, details map[string]interface{}, ts time.Time) error

// EventRecorder reports each moment as a "moment" event.
type EventRecorder struct {
	queue QueueFunc
}

func NewEventRecorder() *EventRecorder {
	return NewEventRecorderWithQueue(QueueEvent)
}

func NewEventRecorderWithQueue(queue QueueFunc) *EventRecorder {
	return &EventRecorder{queue: queue}
}

func (er *EventRecorder) RecordMoment(e Event) error {
	return er.queue(MomentEventType, momentDetails(e), e.Time)
}

func (er *EventRecorder) CheckCanRecord() error {
	return nil
}

func momentDetails(e Event) map[string]interface{} {
	m := e.Moment
	return map[string]interface{}{
		"id":          m.ID,
		"start-frame": m.StartFrame,
		"end-frame":   m.EndFrame,
		"frames":      m.Frames(),
		"significant": m.IsSignificant,
		"max-size":    m.MaxSize(),
		"peak-score":  m.PeakLuminanceScore(),
		"scene-state": e.SceneState.String(),
	}
}
