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

// LambdaTolerance controls the lambda solver.
type LambdaTolerance struct {
	// bound of the relative error of lambda
	ErrorTolerance float64
	// bound of the relative residual of the equation
	FunctionTolerance float64
	MaxIterations     int
}

// DefaultLambdaTolerance is the default tolerance.
var DefaultLambdaTolerance = LambdaTolerance{
	ErrorTolerance:    1e-7,
	FunctionTolerance: 1e-5,
	MaxIterations:     100,
}

// a score and the probability of it
type scoreTerm struct {
	score float64
	prob  float64
}

// Lambda finds the positive lambda satisfying
//
//	sum_ij rowProb[i] * colProb[j] * exp(lambda * scores[i][j]) = 1.
//
// It returns -1 and tol.MaxIterations if no such lambda exists, i.e.,
// the maximum score is not positive or the expected score is not negative.
func Lambda(scores [][]float64, rowProb, colProb []float64, tol *LambdaTolerance) (lambda float64, iterations int) {
	terms := make([]scoreTerm, 0, len(rowProb)*len(colProb))
	for i, pi := range rowProb {
		if pi == 0 {
			continue
		}
		for j, pj := range colProb {
			if pj == 0 || math.IsInf(scores[i][j], -1) {
				continue
			}
			terms = append(terms, scoreTerm{scores[i][j], pi * pj})
		}
	}
	return solveLambda(terms, tol)
}

// LambdaFromScoreProbs finds lambda from the probabilities of scores.
func LambdaFromScoreProbs(sp *ScoreProbs, tol *LambdaTolerance) (lambda float64, iterations int) {
	terms := make([]scoreTerm, 0, len(sp.probs))
	for i, p := range sp.probs {
		if p == 0 {
			continue
		}
		terms = append(terms, scoreTerm{float64(sp.min + i), p})
	}
	return solveLambda(terms, tol)
}

// solveLambda solves f(x) = 0 for x = exp(-lambda) in (0, 1), where
//
//	f(x) = -x^M + sum_k p_k x^(M - s_k)
//
// and M is the maximum score. The form keeps all powers in [0, 1].
// Newton steps are taken when they are safe, otherwise the interval
// (left, right) holding the root is bisected.
func solveLambda(terms []scoreTerm, tol *LambdaTolerance) (float64, int) {
	maxScore := float64(ScoreMin)
	var avg float64
	for _, t := range terms {
		if t.score > maxScore {
			maxScore = t.score
		}
		avg += t.prob * t.score
	}
	if maxScore <= 0 || avg >= 0 {
		return -1, tol.MaxIterations
	}

	f := 4.0 // larger than any possible value
	left, right := 0.0, 1.0
	x := 0.367879441171 // exp(-1)
	var isNewton bool

	var k int
	var slope, fold, xPowMax, lambda, diff, ff, xNew float64
	var wasNewton bool
	for k = 0; k < tol.MaxIterations; k++ {
		fold = f
		wasNewton = isNewton
		lambda = -math.Log(x)

		xPowMax = math.Exp(-maxScore * lambda)
		f = -xPowMax
		slope = maxScore * f / x
		for _, t := range terms {
			if t.score == maxScore {
				f += t.prob
				continue
			}
			diff = maxScore - t.score
			ff = t.prob * math.Exp(-lambda*diff)
			slope += diff * ff / x
			f += ff
		}

		if f > 0 {
			left = x
		} else if f < 0 {
			right = x
		} else {
			break
		}

		if right-left <= 2*left*(1-right)*tol.ErrorTolerance &&
			math.Abs(f/xPowMax) <= tol.FunctionTolerance {
			x = (left + right) / 2
			break
		}

		xNew = x - f/slope
		if (wasNewton && math.Abs(f) > .9*math.Abs(fold)) ||
			slope >= 0 ||
			xNew <= left || xNew >= right {
			isNewton = false
			x = (left + right) / 2
		} else {
			isNewton = true
			x = xNew
		}
	}
	return -math.Log(x), k
}
