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

package iterator

import (
	"bytes"
	"testing"

	"github.com/shenwei356/kmers"
)

func TestKmerIterator(t *testing.T) {
	_s := "AAGTTTGAATCATTCAACTATCTAGTTTTCAGAGAACAATGTTCTCTAAAGAATAGAAAAGAGTCATTGTGCGGTGATGATGGCGGGAAGGATCCACCTG"
	sequence := []byte(_s)

	for _, k := range []int{1, 10, 32} {
		iter, err := NewKmerIterator(sequence, k)
		if err != nil {
			t.Errorf("fail to create k-mer iterator: %s", err)
			return
		}

		var code, expected uint64
		var ok bool
		var n, idx int
		for {
			code, ok, err = iter.Next()
			if err != nil {
				t.Error(err)
				return
			}
			if !ok {
				break
			}
			idx = iter.Index()
			if idx != n {
				t.Errorf("k=%d: unexpected index %d, expected %d", k, idx, n)
			}
			expected, _ = kmers.Encode(sequence[idx : idx+k])
			if code != expected {
				t.Errorf("k=%d: wrong code of %s", k, sequence[idx:idx+k])
			}
			n++
		}
		if n != len(_s)-k+1 {
			t.Errorf("k=%d: k-mers number error: %d", k, n)
		}
	}
}

func TestKmerIteratorSkip(t *testing.T) {
	sequence := []byte("acgtNACGTTrAC")
	iter, err := NewKmerIterator(sequence, 4)
	if err != nil {
		t.Error(err)
		return
	}

	var idxs []int
	var code uint64
	var ok bool
	for {
		code, ok, err = iter.Next()
		if err != nil {
			t.Error(err)
			return
		}
		if !ok {
			break
		}
		idx := iter.Index()
		idxs = append(idxs, idx)
		if !bytes.Equal(kmers.Decode(code, 4), bytes.ToUpper(sequence[idx:idx+4])) {
			t.Errorf("wrong code at %d", idx)
		}
	}
	if len(idxs) != 3 || idxs[0] != 0 || idxs[1] != 5 || idxs[2] != 6 {
		t.Errorf("unexpected k-mer positions: %v", idxs)
	}
}

func TestKmerIteratorErrors(t *testing.T) {
	if _, err := NewKmerIterator([]byte("ACGT"), 0); err != ErrInvalidK {
		t.Errorf("expected ErrInvalidK, got %v", err)
	}
	if _, err := NewKmerIterator([]byte("ACGT"), 33); err != ErrInvalidK {
		t.Errorf("expected ErrInvalidK, got %v", err)
	}
	if _, err := NewKmerIterator([]byte("ACG"), 4); err != ErrShortSeq {
		t.Errorf("expected ErrShortSeq, got %v", err)
	}
}
