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

// Package diag keeps per-diagonal state of seed hits between a query and
// the subject sequences scanned against it.
//
// A diagonal is the set of (query offset, subject offset) pairs with the
// same difference. For every diagonal a store keeps the last subject
// position (shifted by a rolling offset) that has been explored, and
// whether an ungapped hit on it has already been saved.
package diag

import (
	"errors"
	"math"
)

// ErrInvalidQueryLength means the query length is not positive.
var ErrInvalidQueryLength = errors.New("diag: invalid query length")

// ErrInvalidWindow means the two-hit window is negative.
var ErrInvalidWindow = errors.New("diag: invalid window size")

// ErrInvalidNumStacks means the number of stacks is not positive.
var ErrInvalidNumStacks = errors.New("diag: invalid number of stacks")

// Handle points to the state of one diagonal, returned by Store.Lookup
// and valid until the next call of Lookup or Reset.
type Handle struct {
	bucket int
	index  int
}

// Store is a key/value store of diagonal states.
// The dense Table and the sparse Stacks both implement it.
type Store interface {
	// Lookup returns the state of the diagonal of the seed at qOff and sOff.
	// sEnd is the subject end of the seed, which is used for pruning stale
	// states. ok is false if the store can not keep the state, and the seed
	// should be dropped.
	Lookup(qOff, sOff, sEnd int) (h Handle, lastHit int, saved bool, ok bool)

	// Update records a new state for the diagonal.
	Update(h Handle, lastHit int, saved bool)

	// Offset is the rolling offset added to subject positions.
	Offset() int

	// Reset prepares the store for the next subject.
	// subjectLen is the length of the subject just scanned.
	Reset(subjectLen int)
}

const (
	flagSaved   uint32 = 1 << 31
	maskLastHit uint32 = flagSaved - 1

	// the rolling offset is reset before it could overflow 31 bits.
	maxOffset = math.MaxInt32 / 4
)

func pack(lastHit int, saved bool) uint32 {
	v := uint32(lastHit) & maskLastHit
	if saved {
		v |= flagSaved
	}
	return v
}

func unpack(v uint32) (lastHit int, saved bool) {
	return int(v & maskLastHit), v&flagSaved > 0
}

// roundUpPowerOf2 returns the smallest power of two >= n.
func roundUpPowerOf2(n int) int {
	p := 1
	for p < n {
		p <<= 1
	}
	return p
}
