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

	"github.com/godbus/dbus"
	"github.com/godbus/dbus/introspect"
)

const (
	dbusName = "org.cacophony.momentrecorder"
	dbusPath = "/org/cacophony/momentrecorder"
)

type service struct {
	dir string
}

func startService(dir string) error {
	conn, err := dbus.SystemBus()
	if err != nil {
		return err
	}
	reply, err := conn.RequestName(dbusName, dbus.NameFlagDoNotQueue)
	if err != nil {
		return err
	}
	if reply != dbus.RequestNameReplyPrimaryOwner {
		return errors.New("name already taken")
	}

	s := &service{
		dir: dir,
	}
	conn.Export(s, dbusPath, dbusName)
	conn.Export(genIntrospectable(s), dbusPath, "org.freedesktop.DBus.Introspectable")

	return nil
}

func genIntrospectable(v interface{}) introspect.Introspectable {
	node := &introspect.Node{
		Interfaces: []introspect.Interface{{
			Name:    dbusName,
			Methods: introspect.Methods(v),
		}},
	}
	return introspect.NewIntrospectable(node)
}

func dbusErr(method string, err error) *dbus.Error {
	return &dbus.Error{
		Name: dbusName + "." + method,
		Body: []interface{}{err.Error()},
	}
}

var errNoCamera = errors.New("no camera connected")

// SceneState returns the scene state of the current camera connection.
func (s *service) SceneState() (string, *dbus.Error) {
	p := currentProcessor()
	if p == nil {
		return "", dbusErr("SceneState", errNoCamera)
	}
	return p.SceneState().String(), nil
}

// TrackedCount returns the number of objects tracked in the latest frame.
func (s *service) TrackedCount() (int32, *dbus.Error) {
	p := currentProcessor()
	if p == nil {
		return 0, dbusErr("TrackedCount", errNoCamera)
	}
	return int32(p.TrackedCount()), nil
}

// SignificantEventCount returns the number of significant frames seen on
// the current camera connection.
func (s *service) SignificantEventCount() (uint64, *dbus.Error) {
	p := currentProcessor()
	if p == nil {
		return 0, dbusErr("SignificantEventCount", errNoCamera)
	}
	return p.SignificantEventCount(), nil
}

// TakeSnapshot will save the next frame as a still
func (s *service) TakeSnapshot() *dbus.Error {
	if err := newSnapshot(s.dir, currentProcessor()); err != nil {
		return dbusErr("TakeSnapshot", err)
	}
	return nil
}
