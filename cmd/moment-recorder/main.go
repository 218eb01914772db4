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
	"log"
	"net"
	"os"
	"sync"

	arg "github.com/alexflint/go-arg"
	"github.com/coreos/go-systemd/daemon"

	"github.com/TheCacophonyProject/moment-recorder/loglimiter"
	"github.com/TheCacophonyProject/moment-recorder/motion"
	"github.com/TheCacophonyProject/moment-recorder/pipeline"
	"github.com/TheCacophonyProject/moment-recorder/recorder"
)

const (
	framesHz = 10 // approx

	frameLogIntervalFirstMin = 15 * framesHz
	frameLogInterval         = 60 * 5 * framesHz

	framesPerSdNotify = 5 * framesHz
)

var (
	version = "<not set>"

	processorMu sync.Mutex
	processor   *motion.MomentProcessor
)

type Args struct {
	ConfigFile string `arg:"-c,--config" help:"path to configuration file"`
	ConfigDir  string `arg:"--config-dir" help:"path to the device config directory, for the recording window"`
	Timestamps bool   `arg:"-t,--timestamps" help:"include timestamps in log output"`
	TestFile   string `arg:"-f,--testfile" help:"play a raw RGBA file through the pipeline and report the results"`
	Verbose    bool   `arg:"-v,--verbose" help:"make logging more verbose"`
	Database   string `arg:"--db" help:"sqlite database to record moments in, overrides the config"`
}

func (Args) Version() string {
	return version
}

func procArgs() Args {
	var args Args
	args.ConfigFile = "/etc/moment-recorder.yaml"
	arg.MustParse(&args)
	return args
}

func main() {
	err := runMain()
	if err != nil {
		log.Fatal(err)
	}
}

func runMain() error {
	args := procArgs()

	if !args.Timestamps {
		log.SetFlags(0) // Removes default timestamp flag
	}

	log.Printf("running version: %s", version)
	conf, err := ParseConfigFiles(args.ConfigFile, args.ConfigDir)
	if err != nil {
		return err
	}
	if args.Database != "" {
		conf.Store.Database = args.Database
	}
	if args.Verbose {
		conf.Processor.Verbose = true
	}
	logConfig(conf)

	if args.TestFile != "" {
		results, err := NewPlaybackTester(conf, args.Database).Play(args.TestFile)
		if err != nil {
			return err
		}
		log.Print(results)
		return nil
	}

	log.Println("starting d-bus service")
	if err := startService(conf.OutputDir); err != nil {
		return err
	}

	log.Println("deleting old snapshots")
	deleteSnapshot(conf.OutputDir)

	rec, closeRecorder, err := newRecorder(conf)
	if err != nil {
		return err
	}
	defer closeRecorder()

	notified := false
	for {
		// Set up listener for frames sent by the camera.
		os.Remove(conf.FrameInput)
		listener, err := net.Listen("unixpacket", conf.FrameInput)
		if err != nil {
			return err
		}
		if !notified {
			daemon.SdNotify(false, "READY=1")
			notified = true
		}
		log.Print("waiting for camera connection")

		conn, err := listener.Accept()
		if err != nil {
			log.Printf("socket accept failed: %v", err)
			listener.Close()
			continue
		}

		// Prevent concurrent connections.
		listener.Close()

		err = handleConn(conn, conf, rec)
		log.Printf("camera connection ended with: %v", err)
	}
}

// handleConn starts a fresh pipeline for each connection so a new camera
// is calibrated from scratch.
func handleConn(conn net.Conn, conf *Config, rec recorder.Recorder) error {
	defer conn.Close()

	p, err := pipeline.New(conf.Pipeline)
	if err != nil {
		return err
	}
	setProcessor(motion.NewMomentProcessor(p, &conf.Processor, &conf.Recorder, nil, rec))
	defer setProcessor(nil)
	proc := currentProcessor()

	frameSize := conf.Pipeline.FrameSize()
	rawFrame := make([]byte, frameSize)
	shortFrames := loglimiter.New(minLogInterval)
	totalFrames := 0
	notifyCount := 0

	log.Print("new camera connection, reading frames")
	for {
		n, err := conn.Read(rawFrame)
		if err != nil {
			return err
		}
		if n != frameSize {
			shortFrames.Printf("skipping frame of %d bytes, expected %d", n, frameSize)
			continue
		}
		totalFrames++

		if totalFrames%frameLogIntervalFirstMin == 0 &&
			totalFrames <= 60*framesHz || totalFrames%frameLogInterval == 0 {
			log.Printf("%d frames for this connection", totalFrames)
		}

		if notifyCount++; notifyCount >= framesPerSdNotify {
			daemon.SdNotify(false, "WATCHDOG=1")
			notifyCount = 0
		}

		if err := proc.Process(rawFrame); err != nil {
			return err
		}
	}
}

func setProcessor(p *motion.MomentProcessor) {
	processorMu.Lock()
	defer processorMu.Unlock()
	processor = p
}

func currentProcessor() *motion.MomentProcessor {
	processorMu.Lock()
	defer processorMu.Unlock()
	return processor
}

func logConfig(conf *Config) {
	if conf.DeviceName != "" {
		log.Printf("device name: %s", conf.DeviceName)
	}
	log.Printf("frame input: %s", conf.FrameInput)
	log.Printf("output dir: %s", conf.OutputDir)
	log.Printf("pipeline: %+v", conf.Pipeline)
	log.Printf("processor: %+v", conf.Processor)
	log.Printf("recorder: min-frames=%d significant-only=%t",
		conf.Recorder.MinFrames, conf.Recorder.SignificantOnly)
	log.Printf("throttler: %+v", conf.Throttler)
	if conf.Store.Database != "" {
		log.Printf("moment database: %s", conf.Store.Database)
	}
	if conf.Store.Events {
		log.Print("queueing moment events")
	}
}
