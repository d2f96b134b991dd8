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
	"errors"
	"fmt"
	"sync"

	"github.com/shenwei356/kmers"
)

// ErrInvalidK means k < 1 or K > 32
var ErrInvalidK = fmt.Errorf("k-mer iterator: invalid k-mer size (1 <= k <= 32)")

// ErrShortSeq means the sequence is shorter than k.
var ErrShortSeq = errors.New("k-mer iterator: sequence too short")

var poolIterator = &sync.Pool{New: func() interface{} {
	return &Iterator{}
}}

// Iterator iterates k-mers on the positive strand of a nucleotide
// sequence. K-mers containing bases other than ACGT are skipped.
type Iterator struct {
	s        []byte
	k        int
	length   int
	finished bool

	e     int // next base to read
	n     int // number of ACGT bases before e
	idx   int // start of the current k-mer
	mask1 uint64

	preCode uint64
}

// NewKmerIterator returns a k-mer code iterator.
func NewKmerIterator(s []byte, k int) (*Iterator, error) {
	if k < 1 || k > 32 {
		return nil, ErrInvalidK
	}
	if len(s) < k {
		return nil, ErrShortSeq
	}

	iter := poolIterator.Get().(*Iterator)
	iter.s = s
	iter.k = k
	iter.length = len(s)
	iter.finished = false
	iter.e = 0
	iter.n = 0
	iter.idx = -1
	iter.mask1 = (1 << (uint(k-1) << 1)) - 1
	iter.preCode = 0
	return iter, nil
}

// Next returns the code of the next k-mer. The iterator is recycled
// once ok is false, and must not be used again.
func (iter *Iterator) Next() (code uint64, ok bool, err error) {
	if iter.finished {
		return 0, false, nil
	}

	var b uint64
	for iter.e < iter.length {
		b = base2bit[iter.s[iter.e]]
		iter.e++
		if b == 4 { // start over
			iter.n = 0
			continue
		}
		iter.n++
		if iter.n < iter.k {
			continue
		}

		if iter.n == iter.k {
			code, err = kmers.Encode(iter.s[iter.e-iter.k : iter.e])
			if err != nil {
				return 0, false, fmt.Errorf("encode %s: %s", iter.s[iter.e-iter.k:iter.e], err)
			}
		} else {
			code = (iter.preCode&iter.mask1)<<2 | b
		}
		iter.preCode = code
		iter.idx = iter.e - iter.k
		return code, true, nil
	}

	iter.finished = true
	poolIterator.Put(iter)
	return 0, false, nil
}

// Index returns the 0-based start of the current k-mer.
func (iter *Iterator) Index() int {
	return iter.idx
}

var base2bit = [256]uint64{
	4, 4, 4, 4, 4, 4, 4, 4, 4, 4, 4, 4, 4, 4, 4, 4,
	4, 4, 4, 4, 4, 4, 4, 4, 4, 4, 4, 4, 4, 4, 4, 4,
	4, 4, 4, 4, 4, 4, 4, 4, 4, 4, 4, 4, 4, 4, 4, 4,
	4, 4, 4, 4, 4, 4, 4, 4, 4, 4, 4, 4, 4, 4, 4, 4,
	4, 0, 4, 1, 4, 4, 4, 2, 4, 4, 4, 4, 4, 4, 4, 4,
	4, 4, 4, 4, 3, 4, 4, 4, 4, 4, 4, 4, 4, 4, 4, 4,
	4, 0, 4, 1, 4, 4, 4, 2, 4, 4, 4, 4, 4, 4, 4, 4,
	4, 4, 4, 4, 3, 4, 4, 4, 4, 4, 4, 4, 4, 4, 4, 4,
	4, 4, 4, 4, 4, 4, 4, 4, 4, 4, 4, 4, 4, 4, 4, 4,
	4, 4, 4, 4, 4, 4, 4, 4, 4, 4, 4, 4, 4, 4, 4, 4,
	4, 4, 4, 4, 4, 4, 4, 4, 4, 4, 4, 4, 4, 4, 4, 4,
	4, 4, 4, 4, 4, 4, 4, 4, 4, 4, 4, 4, 4, 4, 4, 4,
	4, 4, 4, 4, 4, 4, 4, 4, 4, 4, 4, 4, 4, 4, 4, 4,
	4, 4, 4, 4, 4, 4, 4, 4, 4, 4, 4, 4, 4, 4, 4, 4,
	4, 4, 4, 4, 4, 4, 4, 4, 4, 4, 4, 4, 4, 4, 4, 4,
	4, 4, 4, 4, 4, 4, 4, 4, 4, 4, 4, 4, 4, 4, 4, 4,
}
