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

// Workspace holds data of one base matrix reused across pairs.
// It is created once per matrix and owned by one worker.
type Workspace struct {
	Name string

	// marginals of JointProbs, backgrounds of query and subject.
	BackgroundA [NumTrueAA]float64
	BackgroundB [NumTrueAA]float64

	JointProbs JointProbs

	// output of the optimizer.
	Optimized JointProbs
}

// NewWorkspace creates a Workspace of a matrix with built-in joint
// probabilities.
func NewWorkspace(name string) (*Workspace, error) {
	q, err := LookupJointProbs(name)
	if err != nil {
		return nil, err
	}
	return NewWorkspaceFromJointProbs(name, q), nil
}

// NewWorkspaceFromJointProbs creates a Workspace from joint probabilities.
// They are copied.
func NewWorkspaceFromJointProbs(name string, q *JointProbs) *Workspace {
	ws := &Workspace{Name: name, JointProbs: *q}
	a, b := marginals(q)
	ws.BackgroundA, ws.BackgroundB = a, b
	return ws
}
