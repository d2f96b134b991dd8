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

package diag

import (
	"github.com/twotwotwo/sorts/sortutil"
)

// StacksOptions contains options of the sparse store.
type StacksOptions struct {
	NumStacks        int // number of buckets
	InitialStackSize int // initial capacity of each bucket
	MaxStackSize     int // a bucket never grows beyond it, 0 for no limit

	Window  int // two-hit window
	MinStep int // minimal step, used for pruning
}

// DefaultStacksOptions is the default options.
var DefaultStacksOptions = StacksOptions{
	NumStacks:        512,
	InitialStackSize: 16,
	MaxStackSize:     0,

	Window:  40,
	MinStep: 0,
}

type entry struct {
	diag  int
	state uint32
}

// Stacks is a sparse diagonal store. Diagonals are hashed into a fixed
// number of growable buckets, and each bucket holds at most one entry
// per diagonal.
type Stacks struct {
	opt     StacksOptions
	buckets [][]entry
	offset  int

	dropped int
}

// NewStacks creates a sparse store.
func NewStacks(opt *StacksOptions) (*Stacks, error) {
	if opt.NumStacks <= 0 {
		return nil, ErrInvalidNumStacks
	}
	if opt.Window < 0 {
		return nil, ErrInvalidWindow
	}
	n := opt.InitialStackSize
	if n <= 0 {
		n = 1
	}
	if opt.MaxStackSize > 0 && n > opt.MaxStackSize {
		n = opt.MaxStackSize
	}

	buckets := make([][]entry, opt.NumStacks)
	for i := range buckets {
		buckets[i] = make([]entry, 0, n)
	}
	return &Stacks{
		opt:     *opt,
		buckets: buckets,
		offset:  opt.Window,
	}, nil
}

func (s *Stacks) bucket(d int) int {
	b := d % s.opt.NumStacks
	if b < 0 {
		b += s.opt.NumStacks
	}
	return b
}

// Lookup scans the bucket of the diagonal. Entries that can no longer
// pair with any later seed are swapped out on the way. A missing diagonal
// gets a fresh entry. ok is false if the bucket is full.
func (s *Stacks) Lookup(qOff, sOff, sEnd int) (Handle, int, bool, bool) {
	d := sOff - qOff
	b := s.bucket(d)
	stack := s.buckets[b]
	sEndPos := sEnd + s.offset

	var step int
	var last int
	var saved bool
	for i := 0; i < len(stack); {
		if stack[i].diag == d {
			last, saved = unpack(stack[i].state)
			s.buckets[b] = stack
			return Handle{bucket: b, index: i}, last, saved, true
		}

		last, _ = unpack(stack[i].state)
		step = sEndPos - last
		if step > s.opt.MinStep && step > s.opt.Window {
			stack[i] = stack[len(stack)-1]
			stack = stack[:len(stack)-1]
			continue
		}
		i++
	}

	if len(stack) == cap(stack) {
		n := cap(stack) << 1
		if n == 0 {
			n = 1
		}
		if s.opt.MaxStackSize > 0 && n > s.opt.MaxStackSize {
			n = s.opt.MaxStackSize
		}
		if n <= len(stack) {
			s.buckets[b] = stack
			s.dropped++
			return Handle{}, 0, false, false
		}
		tmp := make([]entry, len(stack), n)
		copy(tmp, stack)
		stack = tmp
	}

	stack = append(stack, entry{diag: d})
	s.buckets[b] = stack
	return Handle{bucket: b, index: len(stack) - 1}, 0, false, true
}

// Update records the state of a diagonal.
func (s *Stacks) Update(h Handle, lastHit int, saved bool) {
	s.buckets[h.bucket][h.index].state = pack(lastHit, saved)
}

// Offset returns the rolling offset, which stays at the window size
// as all buckets are emptied on Reset.
func (s *Stacks) Offset() int { return s.offset }

// Reset empties all buckets and keeps their capacity.
func (s *Stacks) Reset(subjectLen int) {
	for i, stack := range s.buckets {
		s.buckets[i] = stack[:0]
	}
}

// Dropped returns the number of seeds refused because of full buckets.
func (s *Stacks) Dropped() int { return s.dropped }

// Len returns the number of live entries.
func (s *Stacks) Len() int {
	var n int
	for _, stack := range s.buckets {
		n += len(stack)
	}
	return n
}

// Diagonals returns the sorted diagonals of live entries.
func (s *Stacks) Diagonals() []int64 {
	diags := make([]int64, 0, s.Len())
	for _, stack := range s.buckets {
		for _, e := range stack {
			diags = append(diags, int64(e.diag))
		}
	}
	sortutil.Int64s(diags)
	return diags
}
