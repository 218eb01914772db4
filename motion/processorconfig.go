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

import "errors"

type ProcessorConfig struct {
	// Verbose logs a summary of the scene every VerboseInterval frames.
	Verbose         bool `yaml:"verbose"`
	VerboseInterval int  `yaml:"verbose-interval"`
	// FrameBuffer is the number of frame buffers kept in the frame loop.
	FrameBuffer int `yaml:"frame-buffer"`
}

func DefaultProcessorConfig() ProcessorConfig {
	return ProcessorConfig{
		Verbose:         false,
		VerboseInterval: 100,
		FrameBuffer:     4,
	}
}

func (conf *ProcessorConfig) Validate() error {
	if conf.Verbose && conf.VerboseInterval < 1 {
		return errors.New("verbose-interval should be at least 1")
	}
	if conf.FrameBuffer < 2 {
		return errors.New("frame-buffer should be at least 2")
	}
	return nil
}
