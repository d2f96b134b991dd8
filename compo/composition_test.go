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
	"bytes"
	"math"
	"testing"
)

func TestReadComposition(t *testing.T) {
	c := ReadComposition(Encode([]byte("ACuX*B-j"), nil))
	if c.NumTrueAminoAcids != 3 {
		t.Errorf("unexpected number of true amino acids: %d", c.NumTrueAminoAcids)
	}
	if math.Abs(c.Prob[1]-1.0/3) > 1e-12 { // A
		t.Errorf("unexpected frequency of A: %f", c.Prob[1])
	}
	if math.Abs(c.Prob[Cchar]-2.0/3) > 1e-12 { // C and U
		t.Errorf("unexpected frequency of C: %f", c.Prob[Cchar])
	}
	for _, x := range []byte{Uchar, Xchar, Bchar} {
		if c.Prob[x] != 0 {
			t.Errorf("letter %c should not be counted: %f", Letters[x], c.Prob[x])
		}
	}

	p := c.TrueAAProbs()
	var sum float64
	for _, v := range p {
		sum += v
	}
	if math.Abs(sum-1) > 1e-12 {
		t.Errorf("frequencies should sum to 1: %f", sum)
	}

	empty := ReadComposition(Encode([]byte("XXBZ**"), nil))
	if empty.NumTrueAminoAcids != 0 || empty.Prob != ([AlphabetSize]float64{}) {
		t.Errorf("unexpected composition: %+v", empty)
	}
}

func TestApplyPseudocounts(t *testing.T) {
	bg := robinsonTrueAA()

	// counts, not normalized
	var obs [NumTrueAA]float64
	obs[0], obs[4] = 3, 1
	p := obs
	ApplyPseudocounts(&p, 4, &bg, 0)
	if p[0] != 0.75 || p[4] != 0.25 || p[1] != 0 {
		t.Errorf("unexpected frequencies: %v", p)
	}

	for _, pc := range []int{1, 20, 5000} {
		var zero [NumTrueAA]float64
		ApplyPseudocounts(&zero, 0, &bg, pc)
		for i := range zero {
			if math.Abs(zero[i]-bg[i]) > 1e-15 {
				t.Errorf("pseudocounts %d: empty counts should give the background: %d %f", pc, i, zero[i])
			}
		}
	}

	var zero [NumTrueAA]float64
	ApplyPseudocounts(&zero, 0, &bg, 0)
	if zero != ([NumTrueAA]float64{}) {
		t.Errorf("no counts and no pseudocounts should stay zero: %v", zero)
	}

	p = obs
	ApplyPseudocounts(&p, 4, &bg, 4)
	if want := 0.5*0.75 + 0.5*bg[0]; math.Abs(p[0]-want) > 1e-15 {
		t.Errorf("expected %f, got %f", want, p[0])
	}
}

func TestCompositionRange(t *testing.T) {
	const margin = CompositionMargin
	seq := func(stops ...int) []byte {
		s := Encode(bytes.Repeat([]byte{'A'}, 100), nil)
		for _, p := range stops {
			s[p] = StopChar
		}
		return s
	}
	start, finish := 50, 60

	tests := []struct {
		name        string
		codes       []byte
		left, right int
	}{
		{"no stop", seq(), 0, 100},
		{"left stop at margin", seq(start - margin), start, 100},
		{"left stop at margin+1", seq(start - margin - 1), start - margin - 1 + margin, 100},
		{"right stop at margin", seq(finish + margin), 0, finish},
		{"right stop at margin+1", seq(finish + margin + 1), 0, finish + margin + 1 - margin},
		{"nearest stops", seq(5, 10, 90, 95), 10 + margin, 90 - margin},
		{"adjacent stops", seq(start-1, finish), start, finish},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			l, r := CompositionRange(tt.codes, start, finish, margin)
			if l != tt.left || r != tt.right {
				t.Errorf("expected [%d, %d), got [%d, %d)", tt.left, tt.right, l, r)
			}
		})
	}
}

func TestRelativeEntropy(t *testing.T) {
	bg := robinsonTrueAA()
	if d := RelativeEntropy(&bg, &bg); math.Abs(d) > 1e-12 {
		t.Errorf("distance to itself should be 0: %f", d)
	}

	var a, w [NumTrueAA]float64
	a[0], w[17] = 1, 1
	d := RelativeEntropy(&a, &w)
	if math.Abs(RelativeEntropy(&w, &a)-d) > 1e-15 {
		t.Errorf("distance should be symmetric")
	}
	if math.Abs(d-0.8325546) > 1e-6 { // sqrt(ln 2)
		t.Errorf("unexpected distance: %f", d)
	}
	if x := Angle(&a, &w); math.Abs(x-90) > 1e-9 {
		t.Errorf("unexpected angle: %f", x)
	}
	if x := Angle(&bg, &bg); math.Abs(x) > 1e-5 {
		t.Errorf("unexpected angle: %f", x)
	}
}
