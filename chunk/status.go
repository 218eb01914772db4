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

package chunk

import "fmt"

// AnomalyDetails holds the z-scores of the latest change of a chunk
// against its own learned history.
type AnomalyDetails struct {
	LuminanceScore float64 `json:"luminance-score"`
	ColorScore     float64 `json:"color-score"`
	HueScore       float64 `json:"hue-score"`
}

type StatusKind uint8

const (
	Learning StatusKind = iota
	Stable
	PredictableMotion
	AnomalousEvent
)

func (k StatusKind) String() string {
	switch k {
	case Learning:
		return "learning"
	case Stable:
		return "stable"
	case PredictableMotion:
		return "predictable-motion"
	case AnomalousEvent:
		return "anomalous-event"
	}
	return fmt.Sprintf("status(%d)", uint8(k))
}

// ChunkStatus is the per frame verdict for one grid cell. Anomaly is only
// meaningful when Kind is AnomalousEvent.
type ChunkStatus struct {
	Kind    StatusKind
	Anomaly AnomalyDetails
}

func LearningStatus() ChunkStatus          { return ChunkStatus{Kind: Learning} }
func StableStatus() ChunkStatus            { return ChunkStatus{Kind: Stable} }
func PredictableMotionStatus() ChunkStatus { return ChunkStatus{Kind: PredictableMotion} }

func AnomalousStatus(details AnomalyDetails) ChunkStatus {
	return ChunkStatus{Kind: AnomalousEvent, Anomaly: details}
}

func (s ChunkStatus) IsAnomalous() bool {
	return s.Kind == AnomalousEvent
}

func (s ChunkStatus) IsStable() bool {
	return s.Kind == Stable
}

func (s ChunkStatus) String() string {
	if s.Kind == AnomalousEvent {
		return fmt.Sprintf("%s(lum=%.2f col=%.2f hue=%.2f)",
			s.Kind, s.Anomaly.LuminanceScore, s.Anomaly.ColorScore, s.Anomaly.HueScore)
	}
	return s.Kind.String()
}
