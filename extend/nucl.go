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

package extend

import (
	"errors"
	"fmt"

	"github.com/shenwei356/kmers"
)

// ErrEmptySeq means the sequence is empty.
var ErrEmptySeq = errors.New("extend: empty sequence")

// Ambiguous is the query code of bases other than ACGT/U.
const Ambiguous = 4

// Packed is a nucleotide sequence with 4 bases per byte,
// the first base in the highest 2 bits.
type Packed struct {
	Data []byte
	Len  int
}

// Base returns the 2-bit code of the i-th base.
func (p *Packed) Base(i int) byte {
	return (p.Data[i>>2] >> ((3 - uint(i&3)) << 1)) & 3
}

// PackNucleotides packs a sequence with kmers.Encode, 32 bases at a time.
// Bases other than ACGT/U, including N, X and gaps, are packed as A,
// so packing never fails on a non-empty sequence.
func PackNucleotides(seq []byte) (*Packed, error) {
	if len(seq) == 0 {
		return nil, ErrEmptySeq
	}
	data := make([]byte, 0, (len(seq)+3)>>2)
	buf := make([]byte, 32)

	var code uint64
	var err error
	var k, j, nb int
	for i := 0; i < len(seq); i += 32 {
		k = min(32, len(seq)-i)
		for j = 0; j < k; j++ {
			buf[j] = code2base[base2code[seq[i+j]]]
		}
		code, err = kmers.Encode(buf[:k])
		if err != nil {
			return nil, fmt.Errorf("extend: pack nucleotides at %d: %w", i, err)
		}
		code <<= uint(32-k) << 1 // left aligned

		nb = (k + 3) >> 2
		for j = 0; j < nb; j++ {
			data = append(data, byte(code>>(56-(j<<3))))
		}
	}
	return &Packed{Data: data, Len: len(seq)}, nil
}

// bases of query codes, with Ambiguous folded to A.
var code2base = [Ambiguous + 1]byte{'A', 'C', 'G', 'T', 'A'}

// EncodeQuery converts bases into codes of 0-3 for ACGT, and Ambiguous
// for all others. The buffer is reused if it is large enough.
func EncodeQuery(seq []byte, buf []byte) []byte {
	if cap(buf) < len(seq) {
		buf = make([]byte, len(seq))
	}
	buf = buf[:len(seq)]
	for i, b := range seq {
		buf[i] = base2code[b]
	}
	return buf
}

// CompressQuery packs the 4 bases starting at every query position into
// a byte, so any query offset can be compared with a packed subject byte.
// Ambiguous bases are treated as A.
func CompressQuery(codes []byte, buf []byte) []byte {
	if cap(buf) < len(codes) {
		buf = make([]byte, len(codes))
	}
	buf = buf[:len(codes)]

	var v byte
	n := len(codes)
	for i := n - 1; i >= 0; i-- {
		v >>= 2
		if codes[i] < Ambiguous {
			v |= codes[i] << 6
		}
		buf[i] = v
	}
	return buf
}

// NuclMatrix is a substitution matrix with rows of query codes,
// including the ambiguous one, and columns of subject bases.
type NuclMatrix [5][4]int

// NewNuclMatrix creates a match/mismatch matrix.
// Ambiguous query bases always get the penalty.
func NewNuclMatrix(reward, penalty int) *NuclMatrix {
	var m NuclMatrix
	for i := 0; i < 5; i++ {
		for j := 0; j < 4; j++ {
			if i == j {
				m[i][j] = reward
			} else {
				m[i][j] = penalty
			}
		}
	}
	return &m
}

// ScoreTable returns scores of all XOR values of two packed bytes.
func ScoreTable(reward, penalty int) *[256]int {
	var t [256]int
	var s int
	for x := 0; x < 256; x++ {
		s = 0
		for k := 0; k < 8; k += 2 {
			if (x>>k)&3 == 0 {
				s += reward
			} else {
				s += penalty
			}
		}
		t[x] = s
	}
	return &t
}

// NuclExact extends a seed base by base. q holds query codes and s is the
// packed subject.
func NuclExact(m *NuclMatrix, q []byte, s *Packed, qOff, sOff, x int) Alignment {
	return xdrop(qOff, sOff, len(q), s.Len, x, func(i, j int) int {
		return m[q[i]][s.Base(j)]
	})
}

// NuclApprox extends a seed 4 bases at a time, starting from the subject
// bytes fully covered by the seed [sOff, sEnd). qc is the compressed query.
// The approximate result is kept if its score does not exceed
// reducedCutoff, otherwise it is recomputed with NuclExact, as it is if
// the seed covers no full subject byte.
func NuclApprox(m *NuclMatrix, table *[256]int, q, qc []byte, s *Packed,
	qOff, sOff, sEnd, x, reducedCutoff int) Alignment {

	a := (sOff + 3) &^ 3
	b := sEnd &^ 3
	qa := qOff + a - sOff
	if b-a < 4 || qa+b-a > len(q) {
		return NuclExact(m, q, s, qOff, sOff, x)
	}

	var score, sum int
	var i, j int
	for j, i = a, qa; j < b; j, i = j+4, i+4 {
		score += table[qc[i]^s.Data[j>>2]]
	}

	beg := a
	for j, i = a-4, qa-4; j >= 0 && i >= 0; j, i = j-4, i-4 {
		sum += table[qc[i]^s.Data[j>>2]]
		if sum > 0 {
			beg = j
			score += sum
			sum = 0
		} else if sum < -x {
			break
		}
	}

	end := b
	sum = 0
	for j, i = b, qa+b-a; j+4 <= s.Len && i+4 <= len(q); j, i = j+4, i+4 {
		sum += table[qc[i]^s.Data[j>>2]]
		if sum > 0 {
			end = j + 4
			score += sum
			sum = 0
		} else if sum < -x {
			break
		}
	}

	if score > reducedCutoff {
		return NuclExact(m, q, s, qOff, sOff, x)
	}
	return Alignment{
		QStart: qa - (a - beg),
		SStart: beg,
		Length: end - beg,
		Score:  score,
	}
}

// NuclOptions contains options of nucleotide extension.
type NuclOptions struct {
	Reward  int
	Penalty int
	XDrop   int

	// use byte-wise extension for results scoring up to ReducedCutoff.
	// ReducedCutoff should not exceed the cutoff of saved hits, or
	// approximate results could be saved.
	Approximate   bool
	ReducedCutoff int
}

// DefaultNuclOptions is the default options.
var DefaultNuclOptions = NuclOptions{
	Reward:  1,
	Penalty: -3,
	XDrop:   20,

	Approximate:   false,
	ReducedCutoff: 0,
}

// Nucleotide extends seeds between a query and the current subject.
type Nucleotide struct {
	opt    NuclOptions
	matrix *NuclMatrix
	table  *[256]int

	query   []byte // codes
	qc      []byte // compressed query
	subject *Packed
}

// NewNucleotide creates a nucleotide extender.
func NewNucleotide(opt *NuclOptions) *Nucleotide {
	return &Nucleotide{
		opt:    *opt,
		matrix: NewNuclMatrix(opt.Reward, opt.Penalty),
		table:  ScoreTable(opt.Reward, opt.Penalty),
	}
}

// SetQuery sets the query bases. Buffers are reused between queries.
func (e *Nucleotide) SetQuery(seq []byte) {
	e.query = EncodeQuery(seq, e.query)
	if e.opt.Approximate {
		e.qc = CompressQuery(e.query, e.qc)
	}
}

// SetSubject sets the packed subject.
func (e *Nucleotide) SetSubject(s *Packed) {
	e.subject = s
}

// Extend extends the seed at qOff and sOff, ending at sEnd in the subject.
func (e *Nucleotide) Extend(qOff, sOff, sEnd int) Alignment {
	if e.opt.Approximate {
		return NuclApprox(e.matrix, e.table, e.query, e.qc, e.subject,
			qOff, sOff, sEnd, e.opt.XDrop, e.opt.ReducedCutoff)
	}
	return NuclExact(e.matrix, e.query, e.subject, qOff, sOff, e.opt.XDrop)
}

var base2code = [256]byte{
	4, 4, 4, 4, 4, 4, 4, 4, 4, 4, 4, 4, 4, 4, 4, 4,
	4, 4, 4, 4, 4, 4, 4, 4, 4, 4, 4, 4, 4, 4, 4, 4,
	4, 4, 4, 4, 4, 4, 4, 4, 4, 4, 4, 4, 4, 4, 4, 4,
	4, 4, 4, 4, 4, 4, 4, 4, 4, 4, 4, 4, 4, 4, 4, 4,
	4, 0, 4, 1, 4, 4, 4, 2, 4, 4, 4, 4, 4, 4, 4, 4,
	4, 4, 4, 4, 3, 3, 4, 4, 4, 4, 4, 4, 4, 4, 4, 4,
	4, 0, 4, 1, 4, 4, 4, 2, 4, 4, 4, 4, 4, 4, 4, 4,
	4, 4, 4, 4, 3, 3, 4, 4, 4, 4, 4, 4, 4, 4, 4, 4,
	4, 4, 4, 4, 4, 4, 4, 4, 4, 4, 4, 4, 4, 4, 4, 4,
	4, 4, 4, 4, 4, 4, 4, 4, 4, 4, 4, 4, 4, 4, 4, 4,
	4, 4, 4, 4, 4, 4, 4, 4, 4, 4, 4, 4, 4, 4, 4, 4,
	4, 4, 4, 4, 4, 4, 4, 4, 4, 4, 4, 4, 4, 4, 4, 4,
	4, 4, 4, 4, 4, 4, 4, 4, 4, 4, 4, 4, 4, 4, 4, 4,
	4, 4, 4, 4, 4, 4, 4, 4, 4, 4, 4, 4, 4, 4, 4, 4,
	4, 4, 4, 4, 4, 4, 4, 4, 4, 4, 4, 4, 4, 4, 4, 4,
	4, 4, 4, 4, 4, 4, 4, 4, 4, 4, 4, 4, 4, 4, 4, 4,
}
