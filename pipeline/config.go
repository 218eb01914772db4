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
	"github.com/pkg/errors"

	"github.com/TheCacophonyProject/moment-recorder/chunk"
	"github.com/TheCacophonyProject/moment-recorder/tracker"
)

// ErrInvalidConfig is the cause of every error returned by Validate.
var ErrInvalidConfig = errors.New("invalid pipeline config")

type Config struct {
	ImageWidth  int `yaml:"image-width"`
	ImageHeight int `yaml:"image-height"`
	ChunkWidth  int `yaml:"chunk-width"`
	ChunkHeight int `yaml:"chunk-height"`

	NewAgeThreshold            int     `yaml:"new-age-threshold"`
	BehavioralAnomalyThreshold float64 `yaml:"behavioral-anomaly-threshold"`

	AbsoluteMinBlobSize  int     `yaml:"absolute-min-blob-size"`
	BlobSizeStdDevFilter float64 `yaml:"blob-size-std-dev-filter"`
	BlobSizeHistory      int     `yaml:"blob-size-history"`

	DisturbanceEntryThreshold     float64 `yaml:"disturbance-entry-threshold"`
	DisturbanceExitThreshold      float64 `yaml:"disturbance-exit-threshold"`
	DisturbanceConfirmationFrames int     `yaml:"disturbance-confirmation-frames"`
	CalibrationFrames             int     `yaml:"calibration-frames"`

	// Workers above 1 update grid cells concurrently.
	Workers   int    `yaml:"workers"`
	Matcher   string `yaml:"matcher"`
	Predictor string `yaml:"predictor"`
}

func DefaultConfig() Config {
	return Config{
		ImageWidth:                    640,
		ImageHeight:                   480,
		ChunkWidth:                    10,
		ChunkHeight:                   10,
		NewAgeThreshold:               5,
		BehavioralAnomalyThreshold:    3.0,
		AbsoluteMinBlobSize:           2,
		BlobSizeStdDevFilter:          2.0,
		BlobSizeHistory:               100,
		DisturbanceEntryThreshold:     0.25,
		DisturbanceExitThreshold:      0.15,
		DisturbanceConfirmationFrames: 5,
		CalibrationFrames:             30,
		Workers:                       1,
		Matcher:                       tracker.MatcherGreedy,
		Predictor:                     tracker.PredictorConstantVelocity,
	}
}

// GridWidth is the number of chunk columns, truncating any remainder.
func (c *Config) GridWidth() int {
	if c.ChunkWidth <= 0 {
		return 0
	}
	return c.ImageWidth / c.ChunkWidth
}

func (c *Config) GridHeight() int {
	if c.ChunkHeight <= 0 {
		return 0
	}
	return c.ImageHeight / c.ChunkHeight
}

// FrameSize is the number of bytes in one RGBA frame.
func (c *Config) FrameSize() int {
	return c.ImageWidth * c.ImageHeight * chunk.BytesPerPixel
}

func invalid(format string, args ...interface{}) error {
	return errors.Wrapf(ErrInvalidConfig, format, args...)
}

func (c *Config) Validate() error {
	if c.ImageWidth <= 0 || c.ImageHeight <= 0 {
		return invalid("image size %dx%d", c.ImageWidth, c.ImageHeight)
	}
	if c.ChunkWidth <= 0 || c.ChunkHeight <= 0 {
		return invalid("chunk size %dx%d", c.ChunkWidth, c.ChunkHeight)
	}
	if c.ImageWidth%c.ChunkWidth != 0 || c.ImageHeight%c.ChunkHeight != 0 {
		return invalid("chunk size %dx%d does not divide image size %dx%d",
			c.ChunkWidth, c.ChunkHeight, c.ImageWidth, c.ImageHeight)
	}
	if c.NewAgeThreshold < 0 {
		return invalid("new-age-threshold must not be negative")
	}
	if c.BehavioralAnomalyThreshold <= 0 {
		return invalid("behavioral-anomaly-threshold must be positive")
	}
	if c.AbsoluteMinBlobSize < 0 {
		return invalid("absolute-min-blob-size must not be negative")
	}
	if c.BlobSizeStdDevFilter < 0 {
		return invalid("blob-size-std-dev-filter must not be negative")
	}
	if c.BlobSizeHistory < 1 {
		return invalid("blob-size-history must be at least 1")
	}
	if c.DisturbanceExitThreshold < 0 || c.DisturbanceEntryThreshold > 1 {
		return invalid("disturbance thresholds must be within [0, 1]")
	}
	if c.DisturbanceExitThreshold > c.DisturbanceEntryThreshold {
		return invalid("disturbance-exit-threshold is above disturbance-entry-threshold")
	}
	if c.DisturbanceConfirmationFrames < 0 {
		return invalid("disturbance-confirmation-frames must not be negative")
	}
	if c.CalibrationFrames < 0 {
		return invalid("calibration-frames must not be negative")
	}
	if _, ok := tracker.MatcherByName(c.Matcher); !ok {
		return invalid("unknown matcher %q", c.Matcher)
	}
	if _, ok := tracker.PredictorByName(c.Predictor); !ok {
		return invalid("unknown predictor %q", c.Predictor)
	}
	return nil
}
