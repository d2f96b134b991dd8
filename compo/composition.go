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

// CompositionMargin is the default number of residues kept away from
// a stop character by CompositionRange.
const CompositionMargin = 20

// Composition is the amino acid composition of a sequence window.
type Composition struct {
	// probabilities in the standard alphabet, only true amino acids
	// are non-zero.
	Prob [AlphabetSize]float64

	// number of true amino acids.
	NumTrueAminoAcids int
}

// ReadComposition computes the composition of a sequence of standard
// codes. Selenocysteine (U) is counted as cysteine. Ambiguous letters,
// stops and gaps are not counted.
func ReadComposition(codes []byte) Composition {
	var c Composition
	var code byte
	for _, code = range codes {
		if code == Uchar {
			code = Cchar
		}
		if IsTrueAA(code) {
			c.Prob[code]++
			c.NumTrueAminoAcids++
		}
	}
	if c.NumTrueAminoAcids > 0 {
		n := float64(c.NumTrueAminoAcids)
		for i := range c.Prob {
			c.Prob[i] /= n
		}
	}
	return c
}

// TrueAAProbs returns the probabilities of the 20 true amino acids.
func (c *Composition) TrueAAProbs() [NumTrueAA]float64 {
	return GatherLetterProbs(c.Prob[:])
}

// ApplyPseudocounts blends probabilities observed from n residues with
// background probabilities:
//
//	p[i] = (1-w) * p[i] / sum(p) + w * background[i],  w = pc / (n + pc)
//
// A zero sum is treated as 1.
func ApplyPseudocounts(probs *[NumTrueAA]float64, n int,
	background *[NumTrueAA]float64, pseudocounts int) {
	var sum float64
	for _, p := range probs {
		sum += p
	}
	if sum == 0 {
		sum = 1
	}

	var w float64
	if n+pseudocounts > 0 {
		w = float64(pseudocounts) / float64(n+pseudocounts)
	}
	for i := range probs {
		probs[i] = (1-w)*probs[i]/sum + w*background[i]
	}
}

// CompositionRange returns the window [left, right) used for computing
// the composition of the alignment [start, finish) of a sequence of
// standard codes. The window runs to the nearest stop on either side,
// stopping margin residues short of it. A stop closer than margin+1 to
// the alignment leaves that boundary unchanged.
func CompositionRange(codes []byte, start, finish, margin int) (left, right int) {
	left = 0
	for p := start - 1; p >= 0; p-- {
		if codes[p] == StopChar {
			left = p + margin
			if left > start {
				left = start
			}
			break
		}
	}

	right = len(codes)
	for q := finish; q < len(codes); q++ {
		if codes[q] == StopChar {
			right = q - margin
			if right < finish {
				right = finish
			}
			break
		}
	}
	return left, right
}
