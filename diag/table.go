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

// Table is a dense diagonal store, with one packed word per diagonal.
// Diagonals are folded with a mask, so the table size is the next
// power of two >= queryLen + window.
type Table struct {
	slots  []uint32
	mask   int
	window int
	offset int
}

// NewTable creates a dense store for a query.
func NewTable(queryLen, window int) (*Table, error) {
	if queryLen <= 0 {
		return nil, ErrInvalidQueryLength
	}
	if window < 0 {
		return nil, ErrInvalidWindow
	}
	n := roundUpPowerOf2(queryLen + window)
	return &Table{
		slots:  make([]uint32, n),
		mask:   n - 1,
		window: window,
		offset: window,
	}, nil
}

// Size returns the number of slots.
func (t *Table) Size() int { return len(t.slots) }

// Lookup returns the state of the diagonal. It never fails.
func (t *Table) Lookup(qOff, sOff, sEnd int) (Handle, int, bool, bool) {
	d := (sOff - qOff) & t.mask // also right for negative differences
	last, saved := unpack(t.slots[d])
	return Handle{index: d}, last, saved, true
}

// Update records the state of a diagonal.
func (t *Table) Update(h Handle, lastHit int, saved bool) {
	t.slots[h.index] = pack(lastHit, saved)
}

// Offset returns the rolling offset.
func (t *Table) Offset() int { return t.offset }

// Reset shifts the rolling offset past the subject just scanned,
// so the slots need not be cleared. Once the offset grows too large,
// slots are zeroed and the offset starts over.
func (t *Table) Reset(subjectLen int) {
	if t.offset >= maxOffset {
		t.offset = t.window
		clear(t.slots)
		return
	}
	t.offset += subjectLen + t.window
}
