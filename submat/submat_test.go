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

package submat

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestBlosum62(t *testing.T) {
	m := Blosum62()
	b := []byte{'a', 'C', 'w'}
	var sb strings.Builder
	for _, x := range b {
		for _, y := range b {
			s, ok := m.Score(x, y)
			if !ok {
				t.Errorf("missing score of %c %c", x, y)
			}
			fmt.Fprintf(&sb, "%c %c %d", x, y, s)
		}
	}
	if sb.String() != "a a 4a C 0a w -3C a 0C C 9C w -2w a -3w C -2w w 11" {
		t.Errorf("wrong scores: %s", sb.String())
	}

	if len(m.Letters()) != 24 {
		t.Errorf("expected 24 letters, got %d", len(m.Letters()))
	}
	if _, ok := m.Score('U', 'A'); ok {
		t.Errorf("U is not in BLOSUM62")
	}
	if s, _ := m.Score('*', '*'); s != 1 {
		t.Errorf("unexpected score of * *: %d", s)
	}
}

func TestReadErrors(t *testing.T) {
	tests := []struct {
		text string
		err  error
	}{
		{"# only comments\n\n", ErrNoHeader},
		{"A BC\nA 1 2\nBC 1 2\n", ErrInvalidLetter},
		{"A B\nA 1 2\n", ErrRowCount},
	}
	for i, c := range tests {
		_, err := Read(strings.NewReader(c.text), "test")
		if !errors.Is(err, c.err) {
			t.Errorf("case %d: expected %v, got %v", i, c.err, err)
		}
	}

	if _, err := Read(strings.NewReader("A B\nA 1\nB 1 2\n"), "test"); err == nil {
		t.Errorf("short rows should be reported")
	}
	if _, err := Read(strings.NewReader("A B\nA 1 x\nB 1 2\n"), "test"); err == nil {
		t.Errorf("invalid numbers should be reported")
	}
}

func TestReadFile(t *testing.T) {
	file := filepath.Join(t.TempDir(), "dna.txt")
	text := "# a tiny matrix\n   A  C\nA  1 -3  # row A\nC -3  1\n"
	if err := os.WriteFile(file, []byte(text), 0644); err != nil {
		t.Fatal(err)
	}
	m, err := ReadFile(file)
	if err != nil {
		t.Fatal(err)
	}
	if s, _ := m.Score('a', 'c'); s != -3 {
		t.Errorf("unexpected score: %d", s)
	}
	if !strings.Contains(m.String(), "A   1 -3") {
		t.Errorf("unexpected string: %s", m.String())
	}
}
