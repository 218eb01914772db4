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
	"io/ioutil"

	goconfig "github.com/TheCacophonyProject/go-config"
	"github.com/pkg/errors"
	yaml "gopkg.in/yaml.v2"

	"github.com/TheCacophonyProject/moment-recorder/motion"
	"github.com/TheCacophonyProject/moment-recorder/pipeline"
	"github.com/TheCacophonyProject/moment-recorder/recorder"
	"github.com/TheCacophonyProject/moment-recorder/throttle"
)

type Config struct {
	DeviceName string                   `yaml:"-"`
	FrameInput string                   `yaml:"frame-input"`
	OutputDir  string                   `yaml:"output-dir"`
	Pipeline   pipeline.Config          `yaml:"pipeline"`
	Processor  motion.ProcessorConfig   `yaml:"processor"`
	Recorder   recorder.RecorderConfig  `yaml:"recorder"`
	Throttler  throttle.ThrottlerConfig `yaml:"throttler"`
	Store      StoreConfig              `yaml:"store"`
}

// StoreConfig picks where completed moments go. An empty Database
// disables the sqlite store.
type StoreConfig struct {
	Database string `yaml:"database"`
	Events   bool   `yaml:"events"`
	Notes    string `yaml:"notes"`
}

func (conf *Config) Validate() error {
	if conf.FrameInput == "" {
		return errors.New("frame-input must be set")
	}
	if err := conf.Pipeline.Validate(); err != nil {
		return err
	}
	if err := conf.Processor.Validate(); err != nil {
		return err
	}
	if err := conf.Recorder.Validate(); err != nil {
		return err
	}
	if err := conf.Throttler.Validate(); err != nil {
		return err
	}
	return nil
}

func defaultConfig() Config {
	return Config{
		FrameInput: "/var/run/moment-frames",
		OutputDir:  "/var/spool/moments",
		Pipeline:   pipeline.DefaultConfig(),
		Processor:  motion.DefaultProcessorConfig(),
		Recorder:   recorder.DefaultRecorderConfig(),
		Throttler:  throttle.DefaultThrottlerConfig(),
		Store: StoreConfig{
			Database: "/var/lib/moment-recorder/moments.db",
			Events:   true,
		},
	}
}

// ParseConfigFiles reads the recorder's yaml file and, when configDir is
// set, the device name and recording window from the device config.
func ParseConfigFiles(configFile, configDir string) (*Config, error) {
	buf, err := ioutil.ReadFile(configFile)
	if err != nil {
		return nil, err
	}
	conf, err := ParseConfig(buf)
	if err != nil {
		return nil, err
	}
	if configDir == "" {
		return conf, nil
	}

	deviceConf, err := goconfig.New(configDir)
	if err != nil {
		return nil, errors.Wrapf(err, "can't read device config from %s", configDir)
	}
	var device goconfig.Device
	if err := deviceConf.Unmarshal(goconfig.DeviceKey, &device); err != nil {
		return nil, err
	}
	conf.DeviceName = device.Name

	if err := conf.Recorder.LoadWindow(deviceConf); err != nil {
		return nil, errors.Wrap(err, "can't load recording window")
	}
	return conf, nil
}

func ParseConfig(buf []byte) (*Config, error) {
	conf := defaultConfig()
	if err := yaml.Unmarshal(buf, &conf); err != nil {
		return nil, err
	}
	if err := conf.Validate(); err != nil {
		return nil, err
	}
	return &conf, nil
}
