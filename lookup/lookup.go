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

// Package lookup is a simple exact-word scanner producing seeds of a
// query in a subject, in the order of subject positions.
package lookup

import (
	"errors"

	"github.com/shenwei356/seedext/compo"
	"github.com/shenwei356/seedext/iterator"
	"github.com/shenwei356/seedext/seed"
)

// MaxProteinWord is the longest protein word, with 5 bits per residue.
const MaxProteinWord = 12

// ErrInvalidWordLength means the protein word length is out of range.
var ErrInvalidWordLength = errors.New("lookup: invalid protein word length (1 <= k <= 12)")

// Table maps words of a query to their positions.
type Table struct {
	k       int
	protein bool
	pos     map[uint64][]int32
}

// New builds the table of a query. Words with bases other than ACGT
// are not indexed.
func New(query []byte, k int) (*Table, error) {
	iter, err := iterator.NewKmerIterator(query, k)
	if err != nil {
		return nil, err
	}

	t := &Table{k: k, pos: make(map[uint64][]int32, len(query))}
	var code uint64
	var ok bool
	for {
		code, ok, err = iter.Next()
		if err != nil {
			return nil, err
		}
		if !ok {
			break
		}
		t.pos[code] = append(t.pos[code], int32(iter.Index()))
	}
	return t, nil
}

// K returns the word length.
func (t *Table) K() int { return t.k }

// Len returns the number of distinct words.
func (t *Table) Len() int { return len(t.pos) }

// Scan appends the seeds of a subject to hits. Subjects shorter than
// the word length have no seeds.
func (t *Table) Scan(subject []byte, hits []seed.Hit) ([]seed.Hit, error) {
	if len(subject) < t.k {
		return hits, nil
	}
	if t.protein {
		proteinWords(subject, t.k, func(code uint64, sOff int) {
			for _, q := range t.pos[code] {
				hits = append(hits, seed.Hit{QOffset: int(q), SOffset: sOff})
			}
		})
		return hits, nil
	}

	iter, err := iterator.NewKmerIterator(subject, t.k)
	if err != nil {
		return hits, err
	}

	var code uint64
	var ok bool
	var sOff int
	for {
		code, ok, err = iter.Next()
		if err != nil {
			return hits, err
		}
		if !ok {
			break
		}
		sOff = iter.Index()
		for _, q := range t.pos[code] {
			hits = append(hits, seed.Hit{QOffset: int(q), SOffset: sOff})
		}
	}
	return hits, nil
}

// NewProtein builds the table of a query in standard protein codes
// (see compo.Encode). Words with letters other than the 20 true amino
// acids are not indexed.
func NewProtein(codes []byte, k int) (*Table, error) {
	if k < 1 || k > MaxProteinWord {
		return nil, ErrInvalidWordLength
	}
	t := &Table{k: k, protein: true, pos: make(map[uint64][]int32, len(codes))}
	proteinWords(codes, k, func(code uint64, pos int) {
		t.pos[code] = append(t.pos[code], int32(pos))
	})
	return t, nil
}

// proteinWords calls fn with the code and start of every word of true
// amino acids.
func proteinWords(codes []byte, k int, fn func(code uint64, pos int)) {
	mask := uint64(1)<<(uint(k)*5) - 1
	var code uint64
	var n int
	for i, c := range codes {
		if !compo.IsTrueAA(c) {
			n = 0
			continue
		}
		code = (code<<5 | uint64(c)) & mask
		n++
		if n >= k {
			fn(code, i-k+1)
		}
	}
}
