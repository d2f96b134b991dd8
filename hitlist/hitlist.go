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

// Package hitlist stores seed hits accepted after ungapped extension.
package hitlist

import (
	"sync"

	"github.com/shenwei356/seedext/extend"
	"github.com/twotwotwo/sorts"
)

// Hit is a seed hit and its ungapped alignment, if any.
// The alignment is owned by the List.
type Hit struct {
	QOffset int
	SOffset int

	Alignment *extend.Alignment
}

var poolAlignment = &sync.Pool{New: func() interface{} {
	return &extend.Alignment{}
}}

// List is a growable list of hits.
//
// Once growing fails (the capacity limit is reached), the list stops
// accepting hits until it is reset for the next subject.
type List struct {
	hits   []Hit
	maxCap int
	noGrow bool
}

// New creates a list with an initial capacity.
// maxCap limits the capacity, 0 for no limit.
func New(initCap, maxCap int) *List {
	if initCap <= 0 {
		initCap = 1
	}
	if maxCap > 0 && initCap > maxCap {
		initCap = maxCap
	}
	return &List{
		hits:   make([]Hit, 0, initCap),
		maxCap: maxCap,
	}
}

// Save appends a hit, and copies the alignment if it is not nil.
// It returns false if the hit is refused.
func (l *List) Save(qOff, sOff int, a *extend.Alignment) bool {
	if l.noGrow {
		return false
	}
	if len(l.hits) == cap(l.hits) {
		n := cap(l.hits) << 1
		if n == 0 {
			n = 1
		}
		if l.maxCap > 0 && n > l.maxCap {
			n = l.maxCap
		}
		if n <= len(l.hits) {
			l.noGrow = true
			return false
		}
		tmp := make([]Hit, len(l.hits), n)
		copy(tmp, l.hits)
		l.hits = tmp
	}

	h := Hit{QOffset: qOff, SOffset: sOff}
	if a != nil {
		h.Alignment = poolAlignment.Get().(*extend.Alignment)
		*h.Alignment = *a
	}
	l.hits = append(l.hits, h)
	return true
}

// Len returns the number of hits.
func (l *List) Len() int { return len(l.hits) }

// Cap returns the current capacity.
func (l *List) Cap() int { return cap(l.hits) }

// NoGrow tells if the list has stopped accepting hits.
func (l *List) NoGrow() bool { return l.noGrow }

// Hits returns the hits. The slice and alignments are only valid
// until the next Reset.
func (l *List) Hits() []Hit { return l.hits }

// Reset recycles the alignments and empties the list.
// The capacity is kept.
func (l *List) Reset() {
	for i := range l.hits {
		if l.hits[i].Alignment != nil {
			poolAlignment.Put(l.hits[i].Alignment)
			l.hits[i].Alignment = nil
		}
	}
	l.hits = l.hits[:0]
	l.noGrow = false
}

// Sort sorts hits by score in descending order.
// Ties are broken by subject start (ascending), length (descending),
// and query start (ascending). Hits without alignments come last.
func (l *List) Sort() {
	SortHits(l.hits)
}

// SortHits sorts hits in the order of List.Sort.
func SortHits(hits []Hit) {
	sorts.Quicksort(byScore(hits))
}

type byScore []Hit

func (s byScore) Len() int      { return len(s) }
func (s byScore) Swap(i, j int) { s[i], s[j] = s[j], s[i] }
func (s byScore) Less(i, j int) bool {
	a, b := s[i].Alignment, s[j].Alignment
	if a == nil || b == nil {
		if a != nil {
			return true
		}
		if b != nil {
			return false
		}
		return s[i].SOffset < s[j].SOffset
	}

	if a.Score != b.Score {
		return a.Score > b.Score
	}
	if a.SStart != b.SStart {
		return a.SStart < b.SStart
	}
	if a.Length != b.Length {
		return a.Length > b.Length
	}
	return a.QStart < b.QStart
}
