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

// Package extend extends seeds into ungapped alignments with an X-drop rule.
package extend

import "fmt"

// Alignment is an ungapped alignment.
type Alignment struct {
	QStart int // 0-based
	SStart int // 0-based
	Length int
	Score  int
}

// QEnd returns the 0-based, exclusive query end.
func (a Alignment) QEnd() int { return a.QStart + a.Length }

// SEnd returns the 0-based, exclusive subject end.
func (a Alignment) SEnd() int { return a.SStart + a.Length }

func (a Alignment) String() string {
	return fmt.Sprintf("q[%d, %d) s[%d, %d) score: %d",
		a.QStart, a.QEnd(), a.SStart, a.SEnd(), a.Score)
}

// xdrop extends leftward from (qOff-1, sOff-1) and rightward from
// (qOff, sOff). The running sum is banked whenever it becomes positive,
// and a direction stops once it falls below -x.
func xdrop(qOff, sOff, qLen, sLen, x int, score func(i, j int) int) Alignment {
	var sum, total int
	qBeg, qEnd := qOff, qOff

	for i, j := qOff-1, sOff-1; i >= 0 && j >= 0; i, j = i-1, j-1 {
		sum += score(i, j)
		if sum > 0 {
			qBeg = i
			total += sum
			sum = 0
		} else if sum < -x {
			break
		}
	}

	sum = 0
	for i, j := qOff, sOff; i < qLen && j < sLen; i, j = i+1, j+1 {
		sum += score(i, j)
		if sum > 0 {
			qEnd = i + 1
			total += sum
			sum = 0
		} else if sum < -x {
			break
		}
	}

	return Alignment{
		QStart: qBeg,
		SStart: sOff - (qOff - qBeg),
		Length: qEnd - qBeg,
		Score:  total,
	}
}
