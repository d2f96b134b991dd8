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

// Package seed decides which seed hits are extended.
//
// In single-hit mode (Window == 0), a seed is extended unless its
// diagonal has been explored up to it. In two-hit mode, a seed is only
// extended when an earlier seed on the same diagonal ends between
// TemplateLength and Window positions before it.
package seed

import (
	"errors"

	"github.com/shenwei356/seedext/diag"
	"github.com/shenwei356/seedext/extend"
	"github.com/shenwei356/seedext/hitlist"
)

// ErrInvalidWordLength means the word length is not positive.
var ErrInvalidWordLength = errors.New("seed: invalid word length")

// ErrTemplateTooLong means the template is longer than the window.
var ErrTemplateTooLong = errors.New("seed: template length should be <= window size")

// Hit is a word hit produced by a lookup table scan.
type Hit struct {
	QOffset int
	SOffset int
}

// Extender turns a seed into an ungapped alignment.
// *extend.Nucleotide and *extend.Protein satisfy it.
type Extender interface {
	Extend(qOff, sOff, sEnd int) extend.Alignment
}

// Options contains options of the state machine.
type Options struct {
	WordLength     int
	TemplateLength int // minimal distance of two hits, for discontiguous words
	Window         int // 0 for single-hit mode
	MinStep        int
	Cutoff         int // minimal score of saved hits
}

// DefaultOptions is the default options, for two-hit nucleotide search.
var DefaultOptions = Options{
	WordLength:     11,
	TemplateLength: 11,
	Window:         40,
	MinStep:        0,
	Cutoff:         20,
}

// Stats counts events of a search. It is owned by the caller and may be
// shared by machines of the same worker.
type Stats struct {
	Seeds      int // seeds processed
	Rejected   int // seeds inside explored regions
	Dropped    int // seeds the store could not keep
	Extensions int // ungapped extensions
	Saved      int // hits saved
	Refused    int // hits refused by a full hit list
}

// Add accumulates another Stats.
func (s *Stats) Add(o *Stats) {
	s.Seeds += o.Seeds
	s.Rejected += o.Rejected
	s.Dropped += o.Dropped
	s.Extensions += o.Extensions
	s.Saved += o.Saved
	s.Refused += o.Refused
}

// Machine applies the extension rules to seeds of one query against
// a series of subjects.
type Machine struct {
	opt   Options
	store diag.Store
	ext   Extender
	hits  *hitlist.List
	stats *Stats
}

// New creates a state machine.
// stats can be nil, then a private one is used.
func New(opt *Options, store diag.Store, ext Extender, hits *hitlist.List, stats *Stats) (*Machine, error) {
	if opt.WordLength <= 0 {
		return nil, ErrInvalidWordLength
	}
	if opt.Window > 0 && opt.TemplateLength > opt.Window {
		return nil, ErrTemplateTooLong
	}
	if stats == nil {
		stats = &Stats{}
	}
	return &Machine{
		opt:   *opt,
		store: store,
		ext:   ext,
		hits:  hits,
		stats: stats,
	}, nil
}

// Stats returns the statistics.
func (m *Machine) Stats() *Stats { return m.stats }

// Hits returns the hit list.
func (m *Machine) Hits() *hitlist.List { return m.hits }

// Process handles one seed ending at sEnd in the subject,
// and reports whether an extension was attempted.
func (m *Machine) Process(qOff, sOff, sEnd int) bool {
	m.stats.Seeds++

	h, last, saved, ok := m.store.Lookup(qOff, sOff, sEnd)
	if !ok {
		m.stats.Dropped++
		return false
	}

	offset := m.store.Offset()
	sEndPos := sEnd + offset
	step := sEndPos - last
	if step <= 0 { // explored
		m.stats.Rejected++
		return false
	}

	window := m.opt.Window
	if saved && step > m.opt.MinStep && step > window {
		// too old to pair with, the same as a pruned stack entry
		saved = false
	}

	var ready bool
	if window == 0 || saved {
		ready = step > m.opt.MinStep
	} else {
		ready = step >= m.opt.TemplateLength && step < window
	}

	if !ready {
		if window > 0 && step >= window {
			saved = false
		}
		m.store.Update(h, sEndPos, saved)
		return false
	}

	a := m.ext.Extend(qOff, sOff, sEnd)
	m.stats.Extensions++
	if a.Score < m.opt.Cutoff {
		m.store.Update(h, sEndPos, false)
		return true
	}

	if m.hits.Save(qOff, sOff, &a) {
		m.stats.Saved++
	} else {
		m.stats.Refused++
	}
	m.store.Update(h, max(a.SEnd()+offset, sEndPos), true)
	return true
}

// ExtendInitialHits processes seeds of the current subject in order,
// and returns the number of extensions.
func (m *Machine) ExtendInitialHits(seeds []Hit) int {
	var n int
	for _, s := range seeds {
		if m.Process(s.QOffset, s.SOffset, s.SOffset+m.opt.WordLength) {
			n++
		}
	}
	return n
}

// NextSubject resets the store and the hit list after a subject of
// subjectLen is scanned. Hits must be consumed before calling it.
func (m *Machine) NextSubject(subjectLen int) {
	m.store.Reset(subjectLen)
	m.hits.Reset()
}
