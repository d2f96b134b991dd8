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

package compo

import "errors"

// ErrNotMeaningful means a sequence has no true amino acids, so
// composition adjustment makes no sense for the pair.
var ErrNotMeaningful = errors.New("compo: adjustment not meaningful")

// ErrNoConvergence means an iterative solver did not converge.
var ErrNoConvergence = errors.New("compo: no convergence")

// ErrNoMemory means a matrix could not be allocated.
var ErrNoMemory = errors.New("compo: out of memory")

// ErrNoLambda means no positive lambda exists for a scoring system.
var ErrNoLambda = errors.New("compo: no positive lambda")

// ErrUnknownMatrix means no data is available for a named matrix.
var ErrUnknownMatrix = errors.New("compo: unknown matrix")

// ErrInvalidPSSM means a position-specific matrix is malformed.
var ErrInvalidPSSM = errors.New("compo: invalid position-specific matrix")

// Status is the numeric outcome of an adjustment.
type Status int

// Status values. A non-meaningful adjustment and a failed one share the
// non-fatal value 1.
const (
	StatusNoMemory      Status = -1
	StatusOK            Status = 0
	StatusFailure       Status = 1
	StatusNotMeaningful Status = 1
)

// StatusOf maps an error returned by this package to a Status.
func StatusOf(err error) Status {
	switch {
	case err == nil:
		return StatusOK
	case errors.Is(err, ErrNoMemory):
		return StatusNoMemory
	default:
		return StatusFailure
	}
}
