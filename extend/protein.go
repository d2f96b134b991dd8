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

// ProteinExact extends a seed residue by residue. q and s are residue
// codes indexing the rows and columns of the matrix.
func ProteinExact(matrix [][]int, q, s []byte, qOff, sOff, x int) Alignment {
	return xdrop(qOff, sOff, len(q), len(s), x, func(i, j int) int {
		return matrix[q[i]][s[j]]
	})
}

// Protein extends seeds between encoded protein sequences.
type Protein struct {
	matrix [][]int
	x      int

	query   []byte
	subject []byte
}

// NewProtein creates a protein extender.
func NewProtein(matrix [][]int, xdrop int) *Protein {
	return &Protein{matrix: matrix, x: xdrop}
}

// SetQuery sets the encoded query.
func (e *Protein) SetQuery(codes []byte) { e.query = codes }

// SetSubject sets the encoded subject.
func (e *Protein) SetSubject(codes []byte) { e.subject = codes }

// SetMatrix replaces the matrix, e.g., with a composition-adjusted one.
func (e *Protein) SetMatrix(matrix [][]int) { e.matrix = matrix }

// Extend extends the seed at qOff and sOff. sEnd is not used.
func (e *Protein) Extend(qOff, sOff, sEnd int) Alignment {
	return ProteinExact(e.matrix, e.query, e.subject, qOff, sOff, e.x)
}
