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
	"math"
	"testing"
)

func TestLambdaTwoLetters(t *testing.T) {
	scores := [][]float64{{2, -3}, {-3, 1}}
	p := []float64{0.5, 0.5}

	lambda, it := Lambda(scores, p, p, &DefaultLambdaTolerance)
	if lambda <= 0 {
		t.Errorf("lambda should be positive: %f", lambda)
		return
	}
	if it >= DefaultLambdaTolerance.MaxIterations {
		t.Errorf("lambda did not converge: %d iterations", it)
	}

	var sum float64
	for i := range scores {
		for j := range scores[i] {
			sum += p[i] * p[j] * math.Exp(lambda*scores[i][j])
		}
	}
	if math.Abs(sum-1) > 1e-5 {
		t.Errorf("sum of p_i p_j exp(lambda s_ij) should be 1: %f", sum)
	}

	lambda2, it2 := Lambda(scores, p, p, &DefaultLambdaTolerance)
	if lambda2 != lambda || it2 != it {
		t.Errorf("lambda should be deterministic: %f/%d vs %f/%d", lambda, it, lambda2, it2)
	}
}

func TestLambdaDegenerate(t *testing.T) {
	p := []float64{0.5, 0.5}
	tests := []struct {
		name   string
		scores [][]float64
	}{
		{"non-negative expectation", [][]float64{{1, 0}, {0, 1}}},
		{"zero expectation", [][]float64{{1, -1}, {-1, 1}}},
		{"no positive score", [][]float64{{0, -1}, {-1, 0}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			lambda, it := Lambda(tt.scores, p, p, &DefaultLambdaTolerance)
			if lambda != -1 {
				t.Errorf("expected -1, got %f", lambda)
			}
			if it != DefaultLambdaTolerance.MaxIterations {
				t.Errorf("unexpected iterations: %d", it)
			}
		})
	}
}

func TestLambdaSkipsZeroProbabilities(t *testing.T) {
	// the positive score of the second letter never occurs
	scores := [][]float64{{-1, 5}, {5, 5}}
	p := []float64{1, 0}
	if lambda, _ := Lambda(scores, p, p, &DefaultLambdaTolerance); lambda != -1 {
		t.Errorf("expected -1, got %f", lambda)
	}
}

func TestLambdaFromScoreProbs(t *testing.T) {
	sp, err := NewScoreProbs(-3, 2)
	if err != nil {
		t.Error(err)
		return
	}
	for _, sc := range []struct {
		s int
		p float64
	}{{2, 0.25}, {-3, 0.5}, {1, 0.25}} {
		if err = sp.Add(sc.s, sc.p); err != nil {
			t.Error(err)
			return
		}
	}
	if err = sp.Add(3, 0.1); !errors.Is(err, ErrScoreOutOfRange) {
		t.Errorf("expected ErrScoreOutOfRange, got %v", err)
	}
	if sp.At(10) != 0 {
		t.Errorf("scores out of range should have zero probability: %f", sp.At(10))
	}
	if sp.Min() != -3 || sp.Max() != 2 {
		t.Errorf("unexpected range: [%d, %d]", sp.Min(), sp.Max())
	}
	if math.Abs(sp.Mean()+0.75) > 1e-12 {
		t.Errorf("unexpected mean: %f", sp.Mean())
	}

	fromHist, _ := LambdaFromScoreProbs(sp, &DefaultLambdaTolerance)
	fromMatrix, _ := Lambda([][]float64{{2, -3}, {-3, 1}}, []float64{0.5, 0.5}, []float64{0.5, 0.5},
		&DefaultLambdaTolerance)
	if math.Abs(fromHist-fromMatrix) > 1e-6 {
		t.Errorf("lambdas of the histogram and the matrix differ: %f vs %f", fromHist, fromMatrix)
	}

	if _, err = NewScoreProbs(1, 0); !errors.Is(err, ErrInvalidScoreRange) {
		t.Errorf("expected ErrInvalidScoreRange, got %v", err)
	}
}

func TestBlosum62Lambda(t *testing.T) {
	info := Blosum62Info()
	if math.Abs(info.UngappedLambda-0.3176) > 1e-3 {
		t.Errorf("unexpected lambda: %f", info.UngappedLambda)
	}
	if info.StartMatrix[1][1] != 4 || info.StartMatrix[20][20] != 11 { // A/A, W/W
		t.Errorf("unexpected scores: %d, %d", info.StartMatrix[1][1], info.StartMatrix[20][20])
	}
	for j := range info.StartMatrix[Xchar] {
		if info.StartMatrix[Xchar][j] != info.StartMatrix[Uchar][j] {
			t.Errorf("U should score as X: column %d", j)
		}
	}
	if info.StartMatrix[Gap][1] != ScoreMin {
		t.Errorf("unexpected gap score: %d", info.StartMatrix[Gap][1])
	}
	if info.StartFreqRatios[Gap][1] != 0 {
		t.Errorf("unexpected gap ratio: %f", info.StartFreqRatios[Gap][1])
	}
	if r := info.StartFreqRatios[1][1]; math.Abs(r-math.Exp(4*info.UngappedLambda)) > 1e-12 {
		t.Errorf("unexpected A/A ratio: %f", r)
	}

	p := robinsonTrueAA()
	if h := MatrixEntropy(info.StartMatrix, &p, &p, info.UngappedLambda); math.Abs(h-0.40) > 0.05 {
		t.Errorf("unexpected entropy: %f", h)
	}
}
