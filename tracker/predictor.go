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

package tracker

import (
	kalman_filter "github.com/LdDl/kalman-filter"
	"github.com/pkg/errors"

	"github.com/TheCacophonyProject/moment-recorder/blob"
)

// Predictor estimates where a tracked object will be in the next frame.
// Predict is called once per frame for every live track before matching
// and Correct is called with the position of each matched blob.
type Predictor interface {
	Predict(tb *TrackedBlob) blob.Vec2
	Correct(pos blob.Vec2) error
}

// PredictorFactory makes the predictor for a newborn track.
type PredictorFactory func(start blob.Vec2) Predictor

// ConstantVelocity extrapolates the latest position by the latest
// velocity. It keeps no state of its own.
type ConstantVelocity struct{}

func NewConstantVelocity(blob.Vec2) Predictor {
	return ConstantVelocity{}
}

func (ConstantVelocity) Predict(tb *TrackedBlob) blob.Vec2 {
	return tb.PredictNextPosition()
}

func (ConstantVelocity) Correct(blob.Vec2) error {
	return nil
}

// Kalman filter props, one frame per step.
const (
	kalmanDt       = 1.0
	kalmanStdDevA  = 2.0
	kalmanStdDevMx = 0.1
	kalmanStdDevMy = 0.1
)

// KalmanPredictor smooths the centre of mass of a track with a 2D
// constant velocity Kalman filter.
type KalmanPredictor struct {
	kf *kalman_filter.Kalman2D
}

func NewKalmanPredictor(start blob.Vec2) Predictor {
	kf := kalman_filter.NewKalman2D(
		kalmanDt, 0, 0,
		kalmanStdDevA, kalmanStdDevMx, kalmanStdDevMy,
		kalman_filter.WithState2D(start.X, start.Y),
	)
	return &KalmanPredictor{kf: kf}
}

func (k *KalmanPredictor) Predict(*TrackedBlob) blob.Vec2 {
	k.kf.Predict()
	x, y := k.kf.GetState()
	return blob.Vec2{X: x, Y: y}
}

func (k *KalmanPredictor) Correct(pos blob.Vec2) error {
	if err := k.kf.Update(pos.X, pos.Y); err != nil {
		return errors.Wrap(err, "can't update kalman filter")
	}
	return nil
}

const (
	PredictorConstantVelocity = "constant-velocity"
	PredictorKalman           = "kalman"
)

// PredictorByName maps a config value to a PredictorFactory.
func PredictorByName(name string) (PredictorFactory, bool) {
	switch name {
	case "", PredictorConstantVelocity:
		return NewConstantVelocity, true
	case PredictorKalman:
		return NewKalmanPredictor, true
	}
	return nil, false
}
