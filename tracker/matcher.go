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
	"github.com/arthurkushman/go-hungarian"

	"github.com/TheCacophonyProject/moment-recorder/blob"
)

// Matcher pairs predicted track positions with this frame's blobs. Each
// returned pair is {track index, blob index}, ordered by track index, and
// only pairs closer than maxDist may be returned.
type Matcher interface {
	Match(predicted []blob.Vec2, blobs []blob.SmartBlob, maxDist float64) [][2]int
}

// GreedyMatcher lets each track, in order, take the nearest blob that no
// earlier track has claimed. It is not globally optimal.
type GreedyMatcher struct{}

func (GreedyMatcher) Match(predicted []blob.Vec2, blobs []blob.SmartBlob, maxDist float64) [][2]int {
	used := make([]bool, len(blobs))
	var matches [][2]int
	for i, p := range predicted {
		best := -1
		bestDist := maxDist
		for j := range blobs {
			if used[j] {
				continue
			}
			// strict comparison keeps the lowest index on equal distances
			if d := p.Dist(blobs[j].CenterOfMass); d < bestDist {
				best, bestDist = j, d
			}
		}
		if best >= 0 {
			used[best] = true
			matches = append(matches, [2]int{i, best})
		}
	}
	return matches
}

// HungarianMatcher scores each pair as maxDist-distance and looks for the
// assignment with the highest total. go-hungarian's SolveMax is a
// heuristic, so its answer and the greedy answer are both improved by
// pairwise swaps and the better of the two is kept. The result is never
// worse than GreedyMatcher's but is not guaranteed to be optimal.
type HungarianMatcher struct{}

func (HungarianMatcher) Match(predicted []blob.Vec2, blobs []blob.SmartBlob, maxDist float64) [][2]int {
	if len(predicted) == 0 || len(blobs) == 0 {
		return nil
	}

	scores := make([][]float64, len(predicted))
	for i := range scores {
		scores[i] = make([]float64, len(blobs))
		for j := range blobs {
			if d := predicted[i].Dist(blobs[j].CenterOfMass); d < maxDist {
				scores[i][j] = maxDist - d
			}
		}
	}
	return assignScores(scores, len(blobs))
}

// assignScores pairs rows with columns of a rows x cols score matrix where
// zero means the pair is not allowed. Pairs are ordered by row.
func assignScores(scores [][]float64, cols int) [][2]int {
	rows := len(scores)
	size := rows
	if cols > size {
		size = cols
	}
	// Pad to a square matrix; padded cells score zero.
	square := make([][]float64, size)
	for i := range square {
		square[i] = make([]float64, size)
		if i < rows {
			copy(square[i], scores[i])
		}
	}

	solved := make(map[int]int)
	for i, row := range hungarian.SolveMax(square) {
		for j := range row {
			solved[i] = j
			break
		}
	}
	best := improveBySwaps(square, permutation(size, solved))

	greedy := improveBySwaps(square, permutation(size, greedyAssignment(square)))
	if betterAssignment(square, greedy, best, rows, cols) {
		best = greedy
	}

	var matches [][2]int
	for i := 0; i < rows; i++ {
		if j := best[i]; j < cols && square[i][j] > 0 {
			matches = append(matches, [2]int{i, j})
		}
	}
	return matches
}

// greedyAssignment gives each row in turn its highest scoring free column,
// the same choice GreedyMatcher makes by distance.
func greedyAssignment(square [][]float64) map[int]int {
	used := make([]bool, len(square))
	out := make(map[int]int)
	for i, row := range square {
		best := -1
		bestScore := 0.0
		for j, v := range row {
			if !used[j] && v > bestScore {
				best, bestScore = j, v
			}
		}
		if best >= 0 {
			used[best] = true
			out[i] = best
		}
	}
	return out
}

// permutation turns a partial row -> column assignment into a full one,
// dropping clashing columns and handing out the free columns in order.
func permutation(size int, partial map[int]int) []int {
	perm := make([]int, size)
	used := make([]bool, size)
	for i := range perm {
		perm[i] = -1
	}
	for i := 0; i < size; i++ {
		j, ok := partial[i]
		if ok && j >= 0 && j < size && !used[j] {
			perm[i] = j
			used[j] = true
		}
	}
	next := 0
	for i := range perm {
		if perm[i] >= 0 {
			continue
		}
		for used[next] {
			next++
		}
		perm[i] = next
		used[next] = true
	}
	return perm
}

const swapEpsilon = 1e-9

// improveBySwaps exchanges the columns of two rows while that raises the
// total score.
func improveBySwaps(square [][]float64, perm []int) []int {
	for improved := true; improved; {
		improved = false
		for a := range perm {
			for b := a + 1; b < len(perm); b++ {
				before := square[a][perm[a]] + square[b][perm[b]]
				after := square[a][perm[b]] + square[b][perm[a]]
				if after > before+swapEpsilon {
					perm[a], perm[b] = perm[b], perm[a]
					improved = true
				}
			}
		}
	}
	return perm
}

// betterAssignment reports whether x beats y: a higher total, or the same
// total with more real pairs.
func betterAssignment(square [][]float64, x, y []int, rows, cols int) bool {
	xTotal, xPairs := assignmentTotal(square, x, rows, cols)
	yTotal, yPairs := assignmentTotal(square, y, rows, cols)
	if xTotal > yTotal+swapEpsilon {
		return true
	}
	return xTotal > yTotal-swapEpsilon && xPairs > yPairs
}

func assignmentTotal(square [][]float64, perm []int, rows, cols int) (float64, int) {
	total := 0.0
	pairs := 0
	for i := 0; i < rows; i++ {
		if j := perm[i]; j < cols && square[i][j] > 0 {
			total += square[i][j]
			pairs++
		}
	}
	return total, pairs
}

// MatcherByName maps a config value to a Matcher.
func MatcherByName(name string) (Matcher, bool) {
	switch name {
	case "", MatcherGreedy:
		return GreedyMatcher{}, true
	case MatcherHungarian:
		return HungarianMatcher{}, true
	}
	return nil, false
}

const (
	MatcherGreedy    = "greedy"
	MatcherHungarian = "hungarian"
)
