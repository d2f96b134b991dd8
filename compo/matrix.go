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
	"fmt"
	"math"

	"github.com/shenwei356/seedext/submat"
)

// ScoreMin is the score of impossible substitutions.
const ScoreMin = -32768

// the best score allowed for X and U.
const maxXScore = -1.0

// MatrixInfo holds a base scoring matrix and data derived from it.
// It is created once per search.
type MatrixInfo struct {
	Name string

	// AlphabetSize for square matrices, query length for position-based
	// ones.
	Rows int
	Cols int

	PositionBased bool

	// Rows x Cols scores in the standard alphabet.
	StartMatrix [][]int

	// Rows x Cols frequency ratios, exp(lambda * score) for square
	// matrices, 0 for impossible substitutions.
	StartFreqRatios [][]float64

	UngappedLambda float64
}

// NewMatrixInfo creates a MatrixInfo from a substitution matrix.
// Letters missing from the matrix score ScoreMin, except U, which
// takes the scores of X. The ungapped lambda is computed with Robinson
// background frequencies.
func NewMatrixInfo(m *submat.Matrix) (*MatrixInfo, error) {
	info := &MatrixInfo{
		Name: m.Name,
		Rows: AlphabetSize,
		Cols: AlphabetSize,
	}

	letter := func(c byte) byte {
		if c == 'U' && !m.Has(c) {
			return 'X'
		}
		return c
	}

	info.StartMatrix = make([][]int, AlphabetSize)
	scores := make([][]float64, AlphabetSize)
	var s int
	var ok bool
	for i := 0; i < AlphabetSize; i++ {
		info.StartMatrix[i] = make([]int, AlphabetSize)
		scores[i] = make([]float64, AlphabetSize)
		for j := 0; j < AlphabetSize; j++ {
			s, ok = m.Score(letter(Letters[i]), letter(Letters[j]))
			if !ok {
				s = ScoreMin
			}
			info.StartMatrix[i][j] = s
			scores[i][j] = float64(s)
		}
	}

	std := robinsonStd()
	lambda, _ := Lambda(scores, std[:], std[:], &DefaultLambdaTolerance)
	if lambda < 0 {
		return nil, fmt.Errorf("%w: %s", ErrNoLambda, m.Name)
	}
	info.UngappedLambda = lambda

	info.StartFreqRatios = make([][]float64, AlphabetSize)
	for i, row := range info.StartMatrix {
		info.StartFreqRatios[i] = make([]float64, AlphabetSize)
		for j, s := range row {
			if s > ScoreMin {
				info.StartFreqRatios[i][j] = math.Exp(lambda * float64(s))
			}
		}
	}
	return info, nil
}

// NewPSSMInfo creates a MatrixInfo of a position-specific matrix, one
// row per query position, columns in the standard alphabet.
func NewPSSMInfo(name string, pssm [][]int, freqRatios [][]float64, lambda float64) (*MatrixInfo, error) {
	if len(pssm) == 0 || len(pssm) != len(freqRatios) {
		return nil, fmt.Errorf("%w: %s: %d score rows, %d ratio rows",
			ErrInvalidPSSM, name, len(pssm), len(freqRatios))
	}
	for i := range pssm {
		if len(pssm[i]) != AlphabetSize || len(freqRatios[i]) != AlphabetSize {
			return nil, fmt.Errorf("%w: %s: row %d", ErrInvalidPSSM, name, i)
		}
	}
	if !(lambda > 0) {
		return nil, fmt.Errorf("%w: %s", ErrNoLambda, name)
	}
	return &MatrixInfo{
		Name:            name,
		Rows:            len(pssm),
		Cols:            AlphabetSize,
		PositionBased:   true,
		StartMatrix:     pssm,
		StartFreqRatios: freqRatios,
		UngappedLambda:  lambda,
	}, nil
}

// newMatrix allocates a rows x cols matrix, failing with ErrNoMemory
// if it has more than maxCells cells and maxCells > 0.
func newMatrix(rows, cols, maxCells int) ([][]int, error) {
	if maxCells > 0 && rows*cols > maxCells {
		return nil, fmt.Errorf("%w: %d x %d matrix", ErrNoMemory, rows, cols)
	}
	data := make([]int, rows*cols)
	m := make([][]int, rows)
	for i := range m {
		m[i] = data[i*cols : (i+1)*cols]
	}
	return m, nil
}

func roundScore(x float64) int {
	if x < ScoreMin {
		return ScoreMin
	}
	return int(math.Round(x))
}

// ScoresStdAlphabet computes an integer score matrix in the standard
// alphabet from target frequencies of true amino acids.
//
//   - B and Z are the sums of D and N, and of E and Q, in both the
//     frequencies and the probabilities.
//   - A score is round(ln(ratio)/lambda), ScoreMin for a zero ratio.
//   - X scores are expected scores over true amino acids, at most -1.
//     U takes the scores of X.
//   - Scores of stops are copied from start.
func ScoresStdAlphabet(out [][]int, freq *JointProbs, start [][]int,
	rowProb, colProb *[NumTrueAA]float64, lambda float64) {
	var f [AlphabetSize][AlphabetSize]float64
	for i, ci := range trueCharPositions {
		for j, cj := range trueCharPositions {
			f[ci][cj] = freq[i][j]
		}
	}
	for j := 0; j < AlphabetSize; j++ {
		f[Bchar][j] = f[Dchar][j] + f[Nchar][j]
		f[Zchar][j] = f[Echar][j] + f[Qchar][j]
	}
	for i := 0; i < AlphabetSize; i++ {
		f[i][Bchar] = f[i][Dchar] + f[i][Nchar]
		f[i][Zchar] = f[i][Echar] + f[i][Qchar]
	}
	rp := unpackLetterProbs(rowProb)
	cp := unpackLetterProbs(colProb)

	var scores [AlphabetSize][AlphabetSize]float64
	var ratio float64
	for i := 0; i < AlphabetSize; i++ {
		for j := 0; j < AlphabetSize; j++ {
			if rp[i] == 0 || cp[j] == 0 {
				scores[i][j] = ScoreMin
				continue
			}
			ratio = f[i][j] / (rp[i] * cp[j])
			if ratio == 0 {
				scores[i][j] = ScoreMin
			} else {
				scores[i][j] = math.Log(ratio) / lambda
			}
		}
	}

	// X
	var avg, xx float64
	for i := 0; i < AlphabetSize; i++ {
		if rp[i] == 0 {
			continue
		}
		avg = 0
		for j, cj := range trueCharPositions {
			avg += colProb[j] * scores[i][cj]
		}
		scores[i][Xchar] = math.Min(avg, maxXScore)
	}
	for j := 0; j < AlphabetSize; j++ {
		if cp[j] == 0 {
			continue
		}
		avg = 0
		for i, ci := range trueCharPositions {
			avg += rowProb[i] * scores[ci][j]
		}
		scores[Xchar][j] = math.Min(avg, maxXScore)
	}
	for i, ci := range trueCharPositions {
		xx += rowProb[i] * scores[ci][Xchar]
	}
	scores[Xchar][Xchar] = math.Min(xx, maxXScore)

	for i := 0; i < AlphabetSize; i++ {
		for j := 0; j < AlphabetSize; j++ {
			out[i][j] = roundScore(scores[i][j])
		}
	}
	// U
	for i := 0; i < AlphabetSize; i++ {
		out[i][Uchar] = out[i][Xchar]
		out[Uchar][i] = out[Xchar][i]
	}
	out[Uchar][Uchar] = out[Xchar][Xchar]
	// stops
	for i := 0; i < AlphabetSize; i++ {
		out[i][StopChar] = start[i][StopChar]
		out[StopChar][i] = start[StopChar][i]
	}
}

// Int4MatrixFromFreq converts frequency ratios into integer scores
// round(ln(ratio)/lambda), ScoreMin for zero ratios.
func Int4MatrixFromFreq(out [][]int, freqRatios [][]float64, lambda float64) {
	for i, row := range freqRatios {
		for j, r := range row {
			if r == 0 {
				out[i][j] = ScoreMin
			} else {
				out[i][j] = roundScore(math.Log(r) / lambda)
			}
		}
	}
}
