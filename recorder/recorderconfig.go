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
	"errors"

	config "github.com/TheCacophonyProject/go-config"
	"github.com/TheCacophonyProject/window"
)

type RecorderConfig struct {
	// MinFrames is the shortest moment, in frames, worth recording.
	MinFrames int `yaml:"min-frames"`
	// SignificantOnly skips moments that were not significant when they
	// completed.
	SignificantOnly bool `yaml:"significant-only"`

	Window *window.Window `yaml:"-"`
}

func DefaultRecorderConfig() RecorderConfig {
	return RecorderConfig{
		MinFrames:       1,
		SignificantOnly: true,
	}
}

// LoadWindow reads the recording window from the device config. The
// window is always active when no window has been configured.
func (conf *RecorderConfig) LoadWindow(deviceConf *config.Config) error {
	windowLocationConfig := config.DefaultWindowLocation()
	if err := deviceConf.Unmarshal(config.LocationKey, &windowLocationConfig); err != nil {
		return err
	}
	windowsConfig := config.DefaultWindows()
	if err := deviceConf.Unmarshal(config.WindowsKey, &windowsConfig); err != nil {
		return err
	}

	w, err := window.New(
		windowsConfig.StartRecording,
		windowsConfig.StopRecording,
		float64(windowLocationConfig.Latitude),
		float64(windowLocationConfig.Longitude))
	if err != nil {
		return err
	}
	conf.Window = w
	return nil
}

// Active reports whether moments should be recorded right now.
func (conf *RecorderConfig) Active() bool {
	return conf.Window == nil || conf.Window.Active()
}

// Wants reports whether a completed moment passes the configured filters.
func (conf *RecorderConfig) Wants(e Event) bool {
	if conf.SignificantOnly && !e.Moment.IsSignificant {
		return false
	}
	return int(e.Moment.Frames()) >= conf.MinFrames
}

func (conf *RecorderConfig) Validate() error {
	if conf.MinFrames < 1 {
		return errors.New("min-frames should be at least 1")
	}
	return nil
}
