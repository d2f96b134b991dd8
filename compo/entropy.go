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
	"math"
)

// RelativeEntropy returns the square root of the Jensen-Shannon
// divergence of two distributions of true amino acids. It is symmetric
// and 0 for identical distributions.
func RelativeEntropy(a, b *[NumTrueAA]float64) float64 {
	var v, m float64
	for i := range a {
		m = (a[i] + b[i]) / 2
		if m <= 0 {
			continue
		}
		if a[i] > 0 {
			v += a[i] * math.Log(a[i]/m) / 2
		}
		if b[i] > 0 {
			v += b[i] * math.Log(b[i]/m) / 2
		}
	}
	if v < 0 { // rounding
		v = 0
	}
	return math.Sqrt(v)
}

// Angle returns the angle in degrees between two composition vectors.
func Angle(a, b *[NumTrueAA]float64) float64 {
	var dot, na, nb float64
	for i := range a {
		dot += a[i] * b[i]
		na += a[i] * a[i]
		nb += b[i] * b[i]
	}
	if na == 0 || nb == 0 {
		return 90
	}
	c := dot / math.Sqrt(na*nb)
	if c > 1 {
		c = 1
	}
	return math.Acos(c) * 180 / math.Pi
}

// marginals returns row and column sums of a joint probability matrix.
func marginals(q *JointProbs) (row, col [NumTrueAA]float64) {
	for i := range q {
		for j, v := range q[i] {
			row[i] += v
			col[j] += v
		}
	}
	return row, col
}

// TargetFreqEntropy returns the relative entropy of target frequencies
// with respect to their own marginals, in nats.
func TargetFreqEntropy(q *JointProbs) float64 {
	row, col := marginals(q)
	var h float64
	for i := range q {
		for j, v := range q[i] {
			if v > 0 {
				h += v * math.Log(v/row[i]/col[j])
			}
		}
	}
	return h
}

// MatrixEntropy returns the relative entropy of an integer score matrix
// in the standard alphabet, under the given lambda and the probabilities
// of true amino acids.
func MatrixEntropy(matrix [][]int, rowProb, colProb *[NumTrueAA]float64, lambda float64) float64 {
	var h, s float64
	for i, ci := range trueCharPositions {
		for j, cj := range trueCharPositions {
			s = lambda * float64(matrix[ci][cj])
			h += rowProb[i] * colProb[j] * s * math.Exp(s)
		}
	}
	return h
}

// tolerance for EntropyOldFreqNewContext.
var entropyLambdaTolerance = LambdaTolerance{
	ErrorTolerance:    1e-10,
	FunctionTolerance: 1e-5,
	MaxIterations:     2000,
}

// EntropyOldFreqNewContext returns the relative entropy that a scoring
// system derived from target frequencies q would have if the sequences
// had the composition rowProb and colProb, together with the lambda of
// that system. ErrNoConvergence is returned if lambda is not found.
func EntropyOldFreqNewContext(q *JointProbs,
	rowProb, colProb *[NumTrueAA]float64) (entropy, lambda float64, iterations int, err error) {
	oldRow, oldCol := marginals(q)

	scores := make([][]float64, NumTrueAA)
	for i := range q {
		scores[i] = make([]float64, NumTrueAA)
		for j, v := range q[i] {
			scores[i][j] = math.Log(v / (oldRow[i] * oldCol[j]))
		}
	}

	lambda, iterations = Lambda(scores, rowProb[:], colProb[:], &entropyLambdaTolerance)
	if lambda < 0 || iterations >= entropyLambdaTolerance.MaxIterations {
		return 0, lambda, iterations, ErrNoConvergence
	}

	var x float64
	for i := range scores {
		for j, s := range scores[i] {
			if math.IsInf(s, -1) {
				continue
			}
			x = lambda * s
			entropy += rowProb[i] * colProb[j] * math.Exp(x) * x
		}
	}
	return entropy, lambda, iterations, nil
}
