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

import "github.com/TheCacophonyProject/moment-recorder/chunk"

// TestFrameMaker plays synthetic RGBA scenes through a MomentProcessor: a
// flat grey background with an optional bright square on top.
type TestFrameMaker struct {
	processor     *MomentProcessor
	width         int
	height        int
	BackgroundVal uint8
	BrightSpotVal uint8
	SquareSize    int
	squareX       int
	squareY       int
	errs          []error
}

func MakeTestFrameMaker(processor *MomentProcessor) *TestFrameMaker {
	width, height := processor.ImageSize()
	return &TestFrameMaker{
		processor:     processor,
		width:         width,
		height:        height,
		BackgroundVal: 50,
		BrightSpotVal: 250,
		SquareSize:    30,
	}
}

func (tfm *TestFrameMaker) AddBackgroundFrames(frames int) *TestFrameMaker {
	for i := 0; i < frames; i++ {
		tfm.PlayFrame(tfm.MakeFrame())
	}
	return tfm
}

// PlaceSquare moves the square's top left corner to (x, y) pixels.
func (tfm *TestFrameMaker) PlaceSquare(x, y int) *TestFrameMaker {
	tfm.squareX = x
	tfm.squareY = y
	return tfm
}

func (tfm *TestFrameMaker) AddSquareFrames(frames int) *TestFrameMaker {
	for i := 0; i < frames; i++ {
		tfm.PlayFrame(tfm.MakeFrameWithSquare(tfm.squareX, tfm.squareY))
	}
	return tfm
}

// AddMovingSquareFrames moves the square by (dx, dy) pixels before each
// frame.
func (tfm *TestFrameMaker) AddMovingSquareFrames(frames, dx, dy int) *TestFrameMaker {
	for i := 0; i < frames; i++ {
		tfm.squareX += dx
		tfm.squareY += dy
		tfm.PlayFrame(tfm.MakeFrameWithSquare(tfm.squareX, tfm.squareY))
	}
	return tfm
}

func (tfm *TestFrameMaker) PlayFrame(frame []byte) {
	if err := tfm.processor.Process(frame); err != nil {
		tfm.errs = append(tfm.errs, err)
	}
}

// Errors returns every error Process has returned so far.
func (tfm *TestFrameMaker) Errors() []error {
	return tfm.errs
}

func (tfm *TestFrameMaker) MakeFrame() []byte {
	frame := make([]byte, tfm.width*tfm.height*chunk.BytesPerPixel)
	for i := 0; i < len(frame); i += chunk.BytesPerPixel {
		setGrey(frame[i:], tfm.BackgroundVal)
	}
	return frame
}

// MakeFrameWithSquare draws the square with its top left corner at (x, y),
// clipped to the frame.
func (tfm *TestFrameMaker) MakeFrameWithSquare(x, y int) []byte {
	frame := tfm.MakeFrame()
	for py := y; py < y+tfm.SquareSize; py++ {
		for px := x; px < x+tfm.SquareSize; px++ {
			if px < 0 || py < 0 || px >= tfm.width || py >= tfm.height {
				continue
			}
			setGrey(frame[(py*tfm.width+px)*chunk.BytesPerPixel:], tfm.BrightSpotVal)
		}
	}
	return frame
}

func setGrey(pixel []byte, v uint8) {
	pixel[0], pixel[1], pixel[2], pixel[3] = v, v, v, 255
}
