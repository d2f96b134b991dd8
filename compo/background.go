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
	"strings"
	"sync"

	"github.com/shenwei356/seedext/submat"
)

// RobinsonFreqs are the amino acid background frequencies of Robinson
// and Robinson (1991), in the order of TrueAA.
var RobinsonFreqs = [NumTrueAA]float64{
	0.07805, 0.05129, 0.04487, 0.05364, 0.01925,
	0.04264, 0.06295, 0.07377, 0.02199, 0.05142,
	0.09019, 0.05744, 0.02243, 0.03856, 0.05203,
	0.07120, 0.05841, 0.01330, 0.03216, 0.06441,
}

// robinsonStd returns normalized Robinson frequencies in the standard
// alphabet.
func robinsonStd() [AlphabetSize]float64 {
	var sum float64
	for _, p := range RobinsonFreqs {
		sum += p
	}
	var std [AlphabetSize]float64
	for i, c := range trueCharPositions {
		std[c] = RobinsonFreqs[i] / sum
	}
	return std
}

// JointProbs are the target frequencies of a substitution matrix over
// pairs of true amino acids. They sum to 1.
type JointProbs [NumTrueAA][NumTrueAA]float64

// DeriveJointProbs computes joint probabilities implied by a matrix in
// the standard alphabet:
//
//	q[i][j] = p[i] * p[j] * exp(lambda * s[i][j]),
//
// normalized, where p are Robinson frequencies and lambda is the
// ungapped lambda of the matrix.
func DeriveJointProbs(info *MatrixInfo) (*JointProbs, error) {
	if info.PositionBased {
		return nil, fmt.Errorf("compo: no joint probabilities for position-based matrix %s", info.Name)
	}
	std := robinsonStd()
	var q JointProbs
	var sum float64
	for i, ci := range trueCharPositions {
		for j, cj := range trueCharPositions {
			q[i][j] = std[ci] * std[cj] *
				math.Exp(info.UngappedLambda*float64(info.StartMatrix[ci][cj]))
			sum += q[i][j]
		}
	}
	for i := range q {
		for j := range q[i] {
			q[i][j] /= sum
		}
	}
	return &q, nil
}

var blosum62Joint *JointProbs
var blosum62Info *MatrixInfo
var onceBlosum62 sync.Once

func loadBlosum62() {
	onceBlosum62.Do(func() {
		var err error
		blosum62Info, err = NewMatrixInfo(submat.Blosum62())
		if err != nil {
			panic(err)
		}
		blosum62Joint, err = DeriveJointProbs(blosum62Info)
		if err != nil {
			panic(err)
		}
	})
}

// Blosum62Info returns the MatrixInfo of the built-in BLOSUM62.
// It is shared and must not be modified.
func Blosum62Info() *MatrixInfo {
	loadBlosum62()
	return blosum62Info
}

// LookupJointProbs returns the built-in joint probabilities of a named
// matrix. Only BLOSUM62 is built in. The returned value must not be
// modified.
func LookupJointProbs(name string) (*JointProbs, error) {
	if strings.EqualFold(name, "BLOSUM62") {
		loadBlosum62()
		return blosum62Joint, nil
	}
	return nil, fmt.Errorf("%w: %s", ErrUnknownMatrix, name)
}
