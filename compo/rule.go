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
	"strings"
)

// Mode selects how scores are adjusted for a search.
type Mode int

const (
	NoCompositionBasedStats Mode = iota
	// scale the matrix by the ratio of lambdas.
	CompositionBasedStats
	// adjust the matrix when compositions are close enough, else scale.
	ConditionalMatrixAdjust
	// always adjust the matrix.
	FullMatrixAdjust
)

var modeNames = [...]string{"none", "scale", "conditional", "full"}

func (m Mode) String() string {
	if m < 0 || int(m) >= len(modeNames) {
		return fmt.Sprintf("Mode(%d)", int(m))
	}
	return modeNames[m]
}

// ParseMode parses a mode name.
func ParseMode(s string) (Mode, error) {
	for i, name := range modeNames {
		if strings.EqualFold(s, name) {
			return Mode(i), nil
		}
	}
	return 0, fmt.Errorf("compo: unknown composition mode: %q", s)
}

// RuleKind tells how the relative entropy target of an adjusted matrix
// is chosen.
type RuleKind int

const (
	DontAdjust RuleKind = iota
	ScaleOldMatrix
	Unconstrained
	// the relative entropy the old target frequencies have under the
	// compositions of the pair.
	RelEntropyOldMatrixNewContext
	// the relative entropy of the old target frequencies.
	RelEntropyOldMatrixOldContext
	UserSpecifiedRelEntropy
)

var ruleNames = [...]string{
	"dont-adjust",
	"scale-old-matrix",
	"unconstrained",
	"old-matrix-new-context",
	"old-matrix-old-context",
	"user-specified",
}

func (k RuleKind) String() string {
	if k < 0 || int(k) >= len(ruleNames) {
		return fmt.Sprintf("RuleKind(%d)", int(k))
	}
	return ruleNames[k]
}

// AdjustRule is the rule chosen for one query/subject pair.
// RE is only used by UserSpecifiedRelEntropy.
type AdjustRule struct {
	Kind RuleKind
	RE   float64
}

func (r AdjustRule) String() string {
	if r.Kind == UserSpecifiedRelEntropy {
		return fmt.Sprintf("%s(%.4f)", r.Kind, r.RE)
	}
	return r.Kind.String()
}

// thresholds of the conditional rule.
const (
	conditionalDistance = 0.16
	conditionalAngle    = 70.0
)

// ChooseAdjustRule chooses the rule for a pair from the compositions of
// the query and subject, the matrix background and the mode.
//
// Full adjustment uses a fixed relative entropy for BLOSUM62 and the
// old-matrix-new-context rule otherwise. Conditional adjustment scales
// the old matrix instead when both compositions are far from the
// background and the angle between them is large.
func ChooseAdjustRule(pQuery, pSubject, background *[NumTrueAA]float64,
	matrixName string, mode Mode, fixedRE float64) AdjustRule {
	switch mode {
	case NoCompositionBasedStats:
		return AdjustRule{Kind: DontAdjust}
	case CompositionBasedStats:
		return AdjustRule{Kind: ScaleOldMatrix}
	case ConditionalMatrixAdjust:
		if RelativeEntropy(pQuery, background) > conditionalDistance &&
			RelativeEntropy(pSubject, background) > conditionalDistance &&
			Angle(pQuery, pSubject) > conditionalAngle {
			return AdjustRule{Kind: ScaleOldMatrix}
		}
	}
	if strings.EqualFold(matrixName, "BLOSUM62") {
		return AdjustRule{Kind: UserSpecifiedRelEntropy, RE: fixedRE}
	}
	return AdjustRule{Kind: RelEntropyOldMatrixNewContext}
}
