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

// Package submat reads integer substitution matrices in the NCBI text
// format: a header line of single-letter columns, then one line per row
// starting with the row letter. Anything after '#' is ignored.
package submat

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"sync"

	"github.com/shenwei356/xopen"
)

// ErrNoHeader means no header line is found.
var ErrNoHeader = errors.New("submat: no header line")

// ErrInvalidLetter means a column or row label is not a single ASCII letter.
var ErrInvalidLetter = errors.New("submat: invalid letter")

// ErrRowCount means the number of rows differs from the number of columns.
var ErrRowCount = errors.New("submat: number of rows and columns differ")

const notSet int8 = -1

// Matrix is a square integer substitution matrix.
type Matrix struct {
	Name string

	letters []byte
	cmap    [128]int8
	scores  [][]int
}

// CmmtScanner wraps bufio.Scanner. It drops text after the comment
// character, trims spaces, and skips blank lines.
type CmmtScanner struct {
	*bufio.Scanner
	cmmt byte
}

// NewCmmtScanner creates a CmmtScanner.
func NewCmmtScanner(r io.Reader, cmmt byte) *CmmtScanner {
	return &CmmtScanner{bufio.NewScanner(r), cmmt}
}

// Next returns the next non-empty line, or nil at the end.
// The bytes are only valid until the next call.
func (s *CmmtScanner) Next() []byte {
	var b []byte
	for s.Scan() {
		b = s.Bytes()
		if i := bytes.IndexByte(b, s.cmmt); i >= 0 {
			b = b[:i]
		}
		b = bytes.TrimSpace(b)
		if len(b) > 0 {
			return b
		}
	}
	return nil
}

func (m *Matrix) header(line []byte) error {
	for i := range m.cmap {
		m.cmap[i] = notSet
	}
	fields := bytes.Fields(line)
	m.letters = make([]byte, 0, len(fields))
	for _, f := range fields {
		if len(f) != 1 || f[0] >= 128 {
			return fmt.Errorf("%w: %q", ErrInvalidLetter, f)
		}
		m.letters = append(m.letters, f[0])
	}
	for i, c := range m.letters {
		m.cmap[c] = int8(i)
	}
	// both cases, unless set explicitly
	var l, u byte
	for i, c := range m.letters {
		l, u = lower(c), upper(c)
		if m.cmap[l] == notSet {
			m.cmap[l] = int8(i)
		}
		if m.cmap[u] == notSet {
			m.cmap[u] = int8(i)
		}
	}
	return nil
}

// Read reads a matrix.
func Read(r io.Reader, name string) (*Matrix, error) {
	m := &Matrix{Name: name}
	scanner := NewCmmtScanner(r, '#')

	line := scanner.Next()
	if line == nil {
		if err := scanner.Err(); err != nil {
			return nil, fmt.Errorf("submat: read %s: %w", name, err)
		}
		return nil, ErrNoHeader
	}
	if err := m.header(line); err != nil {
		return nil, err
	}
	n := len(m.letters)

	m.scores = make([][]int, n)
	var nRows int
	var fields [][]byte
	var i int8
	var v int64
	var err error
	for {
		line = scanner.Next()
		if line == nil {
			break
		}
		fields = bytes.Fields(line)
		if len(fields) != n+1 {
			return nil, fmt.Errorf("submat: %s: wrong number of items on line: %s", name, line)
		}
		if len(fields[0]) != 1 || fields[0][0] >= 128 || m.cmap[fields[0][0]] == notSet {
			return nil, fmt.Errorf("%w: row %q of %s", ErrInvalidLetter, fields[0], name)
		}
		i = m.cmap[fields[0][0]]
		m.scores[i] = make([]int, n)
		for j := 0; j < n; j++ {
			v, err = strconv.ParseInt(string(fields[j+1]), 10, 32)
			if err != nil {
				return nil, fmt.Errorf("submat: %s: %w", name, err)
			}
			m.scores[i][j] = int(v)
		}
		nRows++
	}
	if err = scanner.Err(); err != nil {
		return nil, fmt.Errorf("submat: read %s: %w", name, err)
	}
	if nRows != n {
		return nil, ErrRowCount
	}
	for i := range m.scores {
		if m.scores[i] == nil {
			return nil, ErrRowCount
		}
	}
	return m, nil
}

// ReadFile reads a matrix from a (possibly compressed) file.
// The matrix is named after the file.
func ReadFile(file string) (*Matrix, error) {
	fh, err := xopen.Ropen(file)
	if err != nil {
		return nil, fmt.Errorf("submat: %w", err)
	}
	defer fh.Close()
	return Read(fh, file)
}

// Letters returns the letters of columns.
func (m *Matrix) Letters() []byte { return m.letters }

// Has tells if a letter is in the matrix.
func (m *Matrix) Has(c byte) bool {
	return c < 128 && m.cmap[c] != notSet
}

// Score returns the score of two letters. ok is false if any of them
// is not in the matrix.
func (m *Matrix) Score(a, b byte) (score int, ok bool) {
	if !m.Has(a) || !m.Has(b) {
		return 0, false
	}
	return m.scores[m.cmap[a]][m.cmap[b]], true
}

func (m *Matrix) String() string {
	var sb strings.Builder
	sb.WriteString("  ")
	for _, c := range m.letters {
		fmt.Fprintf(&sb, "%3c", c)
	}
	sb.WriteByte('\n')
	for i, c := range m.letters {
		fmt.Fprintf(&sb, "%c ", c)
		for _, v := range m.scores[i] {
			fmt.Fprintf(&sb, "%3d", v)
		}
		sb.WriteByte('\n')
	}
	return sb.String()
}

func lower(c byte) byte {
	if c >= 'A' && c <= 'Z' {
		return c + 'a' - 'A'
	}
	return c
}

func upper(c byte) byte {
	if c >= 'a' && c <= 'z' {
		return c - 'a' + 'A'
	}
	return c
}

var blosum62 *Matrix
var onceBlosum62 sync.Once

// Blosum62 returns the built-in BLOSUM62 matrix.
func Blosum62() *Matrix {
	onceBlosum62.Do(func() {
		var err error
		blosum62, err = Read(strings.NewReader(blosum62Text), "BLOSUM62")
		if err != nil {
			panic(err)
		}
	})
	return blosum62
}

const blosum62Text = `#  Matrix made by matblas from blosum62.iij
#  * column uses minimum score
#  BLOSUM Clustered Scoring Matrix in 1/2 Bit Units
#  Blocks Database = /data/blocks_5.0/blocks.dat
#  Cluster Percentage: >= 62
#  Entropy =   0.6979, Expected =  -0.5209
   A  R  N  D  C  Q  E  G  H  I  L  K  M  F  P  S  T  W  Y  V  B  Z  X  *
A  4 -1 -2 -2  0 -1 -1  0 -2 -1 -1 -1 -1 -2 -1  1  0 -3 -2  0 -2 -1  0 -4
R -1  5  0 -2 -3  1  0 -2  0 -3 -2  2 -1 -3 -2 -1 -1 -3 -2 -3 -1  0 -1 -4
N -2  0  6  1 -3  0  0  0  1 -3 -3  0 -2 -3 -2  1  0 -4 -2 -3  3  0 -1 -4
D -2 -2  1  6 -3  0  2 -1 -1 -3 -4 -1 -3 -3 -1  0 -1 -4 -3 -3  4  1 -1 -4
C  0 -3 -3 -3  9 -3 -4 -3 -3 -1 -1 -3 -1 -2 -3 -1 -1 -2 -2 -1 -3 -3 -2 -4
Q -1  1  0  0 -3  5  2 -2  0 -3 -2  1  0 -3 -1  0 -1 -2 -1 -2  0  3 -1 -4
E -1  0  0  2 -4  2  5 -2  0 -3 -3  1 -2 -3 -1  0 -1 -3 -2 -2  1  4 -1 -4
G  0 -2  0 -1 -3 -2 -2  6 -2 -4 -4 -2 -3 -3 -2  0 -2 -2 -3 -3 -1 -2 -1 -4
H -2  0  1 -1 -3  0  0 -2  8 -3 -3 -1 -2 -1 -2 -1 -2 -2  2 -3  0  0 -1 -4
I -1 -3 -3 -3 -1 -3 -3 -4 -3  4  2 -3  1  0 -3 -2 -1 -3 -1  3 -3 -3 -1 -4
L -1 -2 -3 -4 -1 -2 -3 -4 -3  2  4 -2  2  0 -3 -2 -1 -2 -1  1 -4 -3 -1 -4
K -1  2  0 -1 -3  1  1 -2 -1 -3 -2  5 -1 -3 -1  0 -1 -3 -2 -2  0  1 -1 -4
M -1 -1 -2 -3 -1  0 -2 -3 -2  1  2 -1  5  0 -2 -1 -1 -1 -1  1 -3 -1 -1 -4
F -2 -3 -3 -3 -2 -3 -3 -3 -1  0  0 -3  0  6 -4 -2 -2  1  3 -1 -3 -3 -1 -4
P -1 -2 -2 -1 -3 -1 -1 -2 -2 -3 -3 -1 -2 -4  7 -1 -1 -4 -3 -2 -2 -1 -2 -4
S  1 -1  1  0 -1  0  0  0 -1 -2 -2  0 -1 -2 -1  4  1 -3 -2 -2  0  0  0 -4
T  0 -1  0 -1 -1 -1 -1 -2 -2 -1 -1 -1 -1 -2 -1  1  5 -2 -2  0 -1 -1  0 -4
W -3 -3 -4 -4 -2 -2 -3 -2 -2 -3 -2 -3 -1  1 -4 -3 -2 11  2 -3 -4 -3 -2 -4
Y -2 -2 -2 -3 -2 -1 -2 -3  2 -1 -1 -2 -1  3 -3 -2 -2  2  7 -1 -3 -2 -1 -4
V  0 -3 -3 -3 -1 -2 -2 -3 -3  3  1 -2  1 -1 -2 -2  0 -3 -1  4 -3 -2 -1 -4
B -2 -1  3  4 -3  0  1 -1  0 -3 -4  0 -3 -3 -2  0 -1 -4 -3 -3  4  1 -1 -4
Z -1  0  0  1 -3  3  4 -2  0 -3 -3  1 -1 -3 -1  0 -1 -3 -2 -2  1  4 -1 -4
X  0 -1 -1 -1 -2 -1 -1 -1 -1 -1 -1 -1 -1 -1 -2  0  0 -2 -1 -1 -1 -1 -1 -4
* -4 -4 -4 -4 -4 -4 -4 -4 -4 -4 -4 -4 -4 -4 -4 -4 -4 -4 -4 -4 -4 -4 -4  1
`
