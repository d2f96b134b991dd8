// Copyright © 2023-2024 Wei Shen <shenwei356@gmail.com>
//
// Permission is hereby granted, free of charge, to any person obtaining a copy
// of this software and associated documentation files (the "Software"), to deal
// in the Software without restriction, including without limitation the rights
// to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
// copies of the Software, and to permit persons to whom the Software is
// furnished to do so, subject to the following conditions:
//
// The above copyright notice and this permission notice shall be included in
// all copies or substantial portions of the Software.
//
// THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
// IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
// FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
// AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
// LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
// OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN
// THE SOFTWARE.

package compo

import (
	"errors"
)

// ErrScoreOutOfRange means a score is beyond the range of a ScoreProbs.
var ErrScoreOutOfRange = errors.New("compo: score out of range")

// ErrInvalidScoreRange means the minimum score is larger than the maximum.
var ErrInvalidScoreRange = errors.New("compo: invalid score range")

// ScoreProbs holds probabilities of integer scores in [Min, Max].
type ScoreProbs struct {
	min   int
	probs []float64
}

// NewScoreProbs creates an all-zero ScoreProbs.
func NewScoreProbs(min, max int) (*ScoreProbs, error) {
	if min > max {
		return nil, ErrInvalidScoreRange
	}
	return &ScoreProbs{min: min, probs: make([]float64, max-min+1)}, nil
}

// Min returns the minimum score.
func (sp *ScoreProbs) Min() int { return sp.min }

// Max returns the maximum score.
func (sp *ScoreProbs) Max() int { return sp.min + len(sp.probs) - 1 }

// At returns the probability of a score, 0 for scores out of range.
func (sp *ScoreProbs) At(score int) float64 {
	i := score - sp.min
	if i < 0 || i >= len(sp.probs) {
		return 0
	}
	return sp.probs[i]
}

// Add adds p to the probability of a score.
func (sp *ScoreProbs) Add(score int, p float64) error {
	i := score - sp.min
	if i < 0 || i >= len(sp.probs) {
		return ErrScoreOutOfRange
	}
	sp.probs[i] += p
	return nil
}

// Mean returns the expected score.
func (sp *ScoreProbs) Mean() float64 {
	var m float64
	for i, p := range sp.probs {
		m += float64(sp.min+i) * p
	}
	return m
}

// MatrixScoreProbs computes score probabilities of a matrix in the
// standard alphabet. Only rows of true amino acids are used, and pairs
// with zero probability are skipped.
func MatrixScoreProbs(matrix [][]int, rowProb, colProb []float64) (*ScoreProbs, error) {
	min, max := 0, 0
	var i, j, s int
	for _, i = range trueCharPositions {
		if rowProb[i] == 0 {
			continue
		}
		for j, s = range matrix[i] {
			if colProb[j] == 0 {
				continue
			}
			if s < min {
				min = s
			}
			if s > max {
				max = s
			}
		}
	}

	sp, err := NewScoreProbs(min, max)
	if err != nil {
		return nil, err
	}
	for _, i = range trueCharPositions {
		if rowProb[i] == 0 {
			continue
		}
		for j, s = range matrix[i] {
			if colProb[j] == 0 {
				continue
			}
			sp.probs[s-min] += rowProb[i] * colProb[j]
		}
	}
	return sp, nil
}

// PSSMScoreProbs computes score probabilities of a position-specific
// matrix, with all positions equally weighted.
func PSSMScoreProbs(pssm [][]int, colProb []float64) (*ScoreProbs, error) {
	min, max := 0, 0
	for _, row := range pssm {
		for j, s := range row {
			if colProb[j] == 0 {
				continue
			}
			if s < min {
				min = s
			}
			if s > max {
				max = s
			}
		}
	}

	sp, err := NewScoreProbs(min, max)
	if err != nil {
		return nil, err
	}
	if len(pssm) == 0 {
		return sp, nil
	}
	w := 1.0 / float64(len(pssm))
	for _, row := range pssm {
		for j, s := range row {
			if colProb[j] == 0 {
				continue
			}
			sp.probs[s-min] += w * colProb[j]
		}
	}
	return sp, nil
}
