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
	"testing"
)

func TestPack(t *testing.T) {
	for _, c := range []struct {
		last  int
		saved bool
	}{
		{0, false},
		{0, true},
		{12345, true},
		{1<<31 - 1, false},
		{1<<31 - 1, true},
	} {
		last, saved := unpack(pack(c.last, c.saved))
		if last != c.last || saved != c.saved {
			t.Errorf("pack/unpack (%d, %v): got (%d, %v)", c.last, c.saved, last, saved)
		}
	}
}

func TestTableSize(t *testing.T) {
	for _, c := range []struct {
		qlen, window, size int
	}{
		{1, 0, 1},
		{10, 0, 16},
		{100, 28, 128},
		{100, 29, 256},
	} {
		tbl, err := NewTable(c.qlen, c.window)
		if err != nil {
			t.Error(err)
			return
		}
		if tbl.Size() != c.size {
			t.Errorf("qlen %d, window %d: expected size %d, got %d",
				c.qlen, c.window, c.size, tbl.Size())
		}
	}

	if _, err := NewTable(0, 10); err != ErrInvalidQueryLength {
		t.Errorf("expected ErrInvalidQueryLength, got %v", err)
	}
	if _, err := NewTable(10, -1); err != ErrInvalidWindow {
		t.Errorf("expected ErrInvalidWindow, got %v", err)
	}
}

func TestTableNegativeDiagonal(t *testing.T) {
	tbl, _ := NewTable(50, 10)

	h, last, saved, ok := tbl.Lookup(30, 5, 13)
	if !ok || last != 0 || saved {
		t.Errorf("unexpected fresh state: %d %v %v", last, saved, ok)
	}
	tbl.Update(h, 99, true)

	// same diagonal, another position
	_, last, saved, _ = tbl.Lookup(40, 15, 23)
	if last != 99 || !saved {
		t.Errorf("expected (99, true), got (%d, %v)", last, saved)
	}

	// another diagonal
	_, last, _, _ = tbl.Lookup(40, 16, 24)
	if last != 0 {
		t.Errorf("expected a fresh diagonal, got last hit %d", last)
	}
}

func TestTableReset(t *testing.T) {
	tbl, _ := NewTable(100, 40)
	if tbl.Offset() != 40 {
		t.Errorf("initial offset should be the window size")
	}

	h, _, _, _ := tbl.Lookup(0, 0, 11)
	tbl.Update(h, 11+tbl.Offset(), true)

	tbl.Reset(1000)
	if tbl.Offset() != 40+1000+40 {
		t.Errorf("unexpected offset after reset: %d", tbl.Offset())
	}
	_, last, _, _ := tbl.Lookup(0, 0, 11)
	if last != 51 {
		t.Errorf("slots should be kept when the offset is small")
	}

	tbl.offset = maxOffset
	tbl.Reset(1000)
	if tbl.Offset() != 40 {
		t.Errorf("offset should start over, got %d", tbl.Offset())
	}
	_, last, saved, _ := tbl.Lookup(0, 0, 11)
	if last != 0 || saved {
		t.Errorf("slots should be cleared after the offset starts over")
	}
}

func TestStacksLookup(t *testing.T) {
	opt := DefaultStacksOptions
	opt.NumStacks = 4
	opt.InitialStackSize = 1
	opt.Window = 10
	s, err := NewStacks(&opt)
	if err != nil {
		t.Error(err)
		return
	}

	// diagonals 1, 5 and -3 share bucket 1
	for _, d := range []int{1, 5, -3} {
		h, last, saved, ok := s.Lookup(0, d, d+8)
		if !ok || last != 0 || saved {
			t.Errorf("diagonal %d: unexpected state %d %v %v", d, last, saved, ok)
		}
		s.Update(h, d+8+s.Offset(), false)
	}
	if s.Len() != 3 {
		t.Errorf("expected 3 entries, got %d", s.Len())
	}

	_, last, _, _ := s.Lookup(0, 5, 13)
	if last != 5+8+10 {
		t.Errorf("diagonal 5: unexpected last hit %d", last)
	}
	if s.Len() != 3 {
		t.Errorf("a repeated diagonal should not add entries")
	}

	diags := s.Diagonals()
	if len(diags) != 3 || diags[0] != -3 || diags[1] != 1 || diags[2] != 5 {
		t.Errorf("unexpected diagonals: %v", diags)
	}
}

func TestStacksPrune(t *testing.T) {
	opt := DefaultStacksOptions
	opt.NumStacks = 1
	opt.Window = 10
	opt.MinStep = 0
	s, _ := NewStacks(&opt)

	h, _, _, _ := s.Lookup(0, 0, 8)
	s.Update(h, 8+s.Offset(), false)
	h, _, _, _ = s.Lookup(0, 2, 10)
	s.Update(h, 10+s.Offset(), false)

	// step of diagonal 0 is 19-8 = 11 > window, diagonal 2 is 9
	s.Lookup(0, 3, 19)
	diags := s.Diagonals()
	if len(diags) != 2 || diags[0] != 2 || diags[1] != 3 {
		t.Errorf("stale entry not pruned: %v", diags)
	}

	s.Reset(100)
	if s.Len() != 0 {
		t.Errorf("expected empty buckets after reset")
	}
}

func TestStacksMaxSize(t *testing.T) {
	opt := DefaultStacksOptions
	opt.NumStacks = 1
	opt.InitialStackSize = 1
	opt.MaxStackSize = 3
	opt.Window = 1000
	s, _ := NewStacks(&opt)

	for d := 0; d < 3; d++ {
		h, _, _, ok := s.Lookup(0, d, d+8)
		if !ok {
			t.Errorf("diagonal %d should be accepted", d)
			continue
		}
		s.Update(h, d+8+s.Offset(), false)
	}
	if _, _, _, ok := s.Lookup(0, 3, 11); ok {
		t.Errorf("a full bucket should refuse new diagonals")
	}
	if s.Dropped() != 1 {
		t.Errorf("expected 1 dropped seed, got %d", s.Dropped())
	}
	if _, _, _, ok := s.Lookup(0, 1, 9); !ok {
		t.Errorf("existing diagonals should still be found")
	}
}
