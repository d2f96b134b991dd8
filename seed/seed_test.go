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

package seed

import (
	"bytes"
	"testing"

	"github.com/shenwei356/seedext/diag"
	"github.com/shenwei356/seedext/extend"
	"github.com/shenwei356/seedext/hitlist"
)

// fakeExtender returns alignments derived from the seed positions.
type fakeExtender struct {
	length int
	score  func(qOff, sOff int) int
}

func (f *fakeExtender) Extend(qOff, sOff, sEnd int) extend.Alignment {
	return extend.Alignment{
		QStart: qOff,
		SStart: sOff,
		Length: f.length,
		Score:  f.score(qOff, sOff),
	}
}

func newStore(t *testing.T, sparse bool, qlen, window, minStep int) diag.Store {
	if sparse {
		opt := diag.DefaultStacksOptions
		opt.NumStacks = 8
		opt.InitialStackSize = 2
		opt.Window = window
		opt.MinStep = minStep
		s, err := diag.NewStacks(&opt)
		if err != nil {
			t.Fatal(err)
		}
		return s
	}
	s, err := diag.NewTable(qlen, window)
	if err != nil {
		t.Fatal(err)
	}
	return s
}

func TestTwoHitWindow(t *testing.T) {
	ext := &fakeExtender{length: 11, score: func(q, s int) int { return 0 }}
	for _, sparse := range []bool{false, true} {
		for _, w := range []int{1, 10, 40} {
			for tl := 1; tl <= w; tl++ {
				for g := 1; g < 2*w+2; g++ {
					opt := Options{WordLength: 11, TemplateLength: tl, Window: w, Cutoff: 1}
					m, err := New(&opt, newStore(t, sparse, 100, w, 0), ext, hitlist.New(4, 0), nil)
					if err != nil {
						t.Fatal(err)
					}

					var n int
					if m.Process(3, 5, 5+11) {
						n++
					}
					if n > 0 {
						t.Errorf("sparse: %v, W: %d, T: %d: the first hit should not be ready",
							sparse, w, tl)
					}
					if m.Process(3+g, 5+g, 5+g+11) {
						n++
					}

					expected := 0
					if tl <= g && g < w {
						expected = 1
					}
					if n != expected {
						t.Errorf("sparse: %v, W: %d, T: %d, gap: %d: expected %d ready events, got %d",
							sparse, w, tl, g, expected, n)
					}
				}
			}
		}
	}
}

func TestSingleHit(t *testing.T) {
	ext := &fakeExtender{length: 30, score: func(q, s int) int { return 50 }}
	for _, sparse := range []bool{false, true} {
		opt := Options{WordLength: 11, Window: 0, Cutoff: 20}
		m, _ := New(&opt, newStore(t, sparse, 100, 0, 0), ext, hitlist.New(4, 0), nil)

		if !m.Process(0, 0, 11) {
			t.Errorf("sparse: %v: the first hit should be extended", sparse)
		}
		// inside the saved alignment [0, 30)
		if m.Process(5, 5, 16) {
			t.Errorf("sparse: %v: a covered hit should be rejected", sparse)
		}
		// beyond it
		if !m.Process(25, 25, 36) {
			t.Errorf("sparse: %v: a hit beyond the alignment should be extended", sparse)
		}
		// another diagonal
		if !m.Process(10, 5, 16) {
			t.Errorf("sparse: %v: a hit on a new diagonal should be extended", sparse)
		}

		st := m.Stats()
		if st.Seeds != 4 || st.Rejected != 1 || st.Extensions != 3 || st.Saved != 3 {
			t.Errorf("sparse: %v: unexpected stats: %+v", sparse, *st)
		}
		if m.Hits().Len() != 3 {
			t.Errorf("sparse: %v: expected 3 hits, got %d", sparse, m.Hits().Len())
		}

		m.NextSubject(1000)
		if m.Hits().Len() != 0 {
			t.Errorf("sparse: %v: hits should be cleared for the next subject", sparse)
		}
		if !m.Process(5, 5, 16) {
			t.Errorf("sparse: %v: states should not leak into the next subject", sparse)
		}
	}
}

func TestBelowCutoff(t *testing.T) {
	ext := &fakeExtender{length: 30, score: func(q, s int) int { return 10 }}
	opt := Options{WordLength: 11, Window: 0, Cutoff: 20}
	m, _ := New(&opt, newStore(t, false, 100, 0, 0), ext, hitlist.New(4, 0), nil)

	m.Process(0, 0, 11)
	if m.Hits().Len() != 0 {
		t.Errorf("hits below the cutoff should not be saved")
	}
	// only the seed is recorded as explored
	if m.Process(0, 0, 11) {
		t.Errorf("the same seed should be rejected")
	}
	if !m.Process(1, 1, 12) {
		t.Errorf("a later seed should be extended again")
	}
}

func TestStoreEquivalence(t *testing.T) {
	ext := &fakeExtender{
		length: 15,
		score:  func(q, s int) int { return (q*7 + s*3) % 40 },
	}

	seeds := make([]Hit, 0, 1024)
	for s := 0; s < 600; s += 1 + (s*31)%5 {
		seeds = append(seeds,
			Hit{QOffset: (s * 17) % 90, SOffset: s},
			Hit{QOffset: (s*13 + 7) % 90, SOffset: s},
		)
	}

	for _, w := range []int{0, 16, 40} {
		var results [2][]bool
		var lists [2]*hitlist.List
		for k, sparse := range []bool{false, true} {
			opt := Options{WordLength: 8, TemplateLength: 4, Window: w, Cutoff: 20}
			lists[k] = hitlist.New(8, 0)
			m, err := New(&opt, newStore(t, sparse, 100, w, 0), ext, lists[k], nil)
			if err != nil {
				t.Fatal(err)
			}
			for _, h := range seeds {
				results[k] = append(results[k], m.Process(h.QOffset, h.SOffset, h.SOffset+8))
			}
		}

		for i := range results[0] {
			if results[0][i] != results[1][i] {
				t.Errorf("W: %d, seed %d (%+v): table says %v, stacks says %v",
					w, i, seeds[i], results[0][i], results[1][i])
				break
			}
		}
		h0, h1 := lists[0].Hits(), lists[1].Hits()
		if len(h0) != len(h1) {
			t.Errorf("W: %d: different numbers of hits: %d vs %d", w, len(h0), len(h1))
			continue
		}
		for i := range h0 {
			if h0[i].QOffset != h1[i].QOffset || h0[i].SOffset != h1[i].SOffset ||
				*h0[i].Alignment != *h1[i].Alignment {
				t.Errorf("W: %d: hit %d differs", w, i)
			}
		}
	}
}

func TestDroppedSeeds(t *testing.T) {
	opt := diag.DefaultStacksOptions
	opt.NumStacks = 1
	opt.InitialStackSize = 1
	opt.MaxStackSize = 2
	opt.Window = 40
	store, _ := diag.NewStacks(&opt)

	ext := &fakeExtender{length: 11, score: func(q, s int) int { return 0 }}
	m, _ := New(&Options{WordLength: 11, TemplateLength: 11, Window: 40, Cutoff: 1},
		store, ext, hitlist.New(4, 0), nil)

	m.Process(0, 0, 11)
	m.Process(0, 1, 12)
	m.Process(0, 2, 13) // bucket full
	m.Process(0, 3, 14) // bucket full

	if m.Stats().Dropped != 2 {
		t.Errorf("expected 2 dropped seeds, got %d", m.Stats().Dropped)
	}
	if m.Stats().Seeds != 4 {
		t.Errorf("dropped seeds should still be counted")
	}
}

func TestExtendInitialHits(t *testing.T) {
	s := bytes.Repeat([]byte("ACGTTGCAGGATCCA"), 4)

	eopt := extend.DefaultNuclOptions
	eopt.Reward, eopt.Penalty = 1, -3
	ext := extend.NewNucleotide(&eopt)
	ext.SetQuery(s)
	p, err := extend.PackNucleotides(s)
	if err != nil {
		t.Fatal(err)
	}
	ext.SetSubject(p)

	opt := Options{WordLength: 11, Window: 0, Cutoff: 20}
	store, _ := diag.NewTable(len(s), 0)
	m, _ := New(&opt, store, ext, hitlist.New(4, 0), nil)

	seeds := make([]Hit, 0, len(s))
	for i := 0; i+11 <= len(s); i++ {
		seeds = append(seeds, Hit{QOffset: i, SOffset: i})
	}
	if n := m.ExtendInitialHits(seeds); n != 1 {
		t.Errorf("only the first seed should be extended, got %d extensions", n)
	}
	hits := m.Hits().Hits()
	if len(hits) != 1 {
		t.Fatalf("expected 1 hit, got %d", len(hits))
	}
	if *hits[0].Alignment != (extend.Alignment{QStart: 0, SStart: 0, Length: len(s), Score: len(s)}) {
		t.Errorf("unexpected alignment: %s", hits[0].Alignment)
	}
}

func TestOptions(t *testing.T) {
	ext := &fakeExtender{}
	store, _ := diag.NewTable(10, 10)
	if _, err := New(&Options{WordLength: 0}, store, ext, hitlist.New(1, 0), nil); err != ErrInvalidWordLength {
		t.Errorf("expected ErrInvalidWordLength, got %v", err)
	}
	if _, err := New(&Options{WordLength: 8, TemplateLength: 20, Window: 10}, store, ext, hitlist.New(1, 0), nil); err != ErrTemplateTooLong {
		t.Errorf("expected ErrTemplateTooLong, got %v", err)
	}
}
