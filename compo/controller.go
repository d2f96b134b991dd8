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

import (
	"errors"
	"fmt"
	"log/slog"
	"math"
)

// Optimizer computes target frequencies close to q whose marginals are
// rowProb and colProb. If constrain is true, their relative entropy is
// also fixed to re. The result is written to out.
// ErrNoConvergence, possibly wrapped, is returned on failure.
type Optimizer interface {
	Optimize(out, q *JointProbs, rowProb, colProb *[NumTrueAA]float64,
		constrain bool, re float64, tol float64, maxIterations int) (iterations int, err error)
}

// ControllerOptions contains options of composition adjustment.
type ControllerOptions struct {
	Mode Mode

	// pseudocounts added to compositions before optimizing.
	Pseudocounts int

	// relative entropy of BLOSUM62 adjusted matrices.
	FixedRE float64

	OptimizerTolerance     float64
	OptimizerMaxIterations int

	LambdaTolerance LambdaTolerance

	// the largest matrix to allocate, 0 for no limit.
	MaxMatrixCells int
}

// DefaultControllerOptions is the default options.
var DefaultControllerOptions = ControllerOptions{
	Mode:                   ConditionalMatrixAdjust,
	Pseudocounts:           20,
	FixedRE:                0.44,
	OptimizerTolerance:     1e-8,
	OptimizerMaxIterations: 2000,
	LambdaTolerance:        DefaultLambdaTolerance,
	MaxMatrixCells:         0,
}

// Stats counts events of composition adjustment. It is owned by the
// caller, one per search or worker.
type Stats struct {
	Pairs               int // calls of AdjustScores
	Adjusted            int // pairs with an optimized matrix
	Scaled              int // pairs with a scaled matrix
	Skipped             int // pairs without true amino acids
	Failed              int // optimizer failures
	OptimizerIterations int
	LambdaIterations    int
}

// Add accumulates another Stats.
func (s *Stats) Add(o *Stats) {
	s.Pairs += o.Pairs
	s.Adjusted += o.Adjusted
	s.Scaled += o.Scaled
	s.Skipped += o.Skipped
	s.Failed += o.Failed
	s.OptimizerIterations += o.OptimizerIterations
	s.LambdaIterations += o.LambdaIterations
}

// Result is the adjusted scoring system of a pair.
type Result struct {
	Matrix [][]int
	Rule   AdjustRule

	// lambda of Matrix, UngappedLambda/LambdaRatio when scaled.
	Lambda float64

	// ratio of the lambda of the pair to the ungapped lambda, 1 if the
	// matrix is not scaled.
	LambdaRatio float64
}

// Controller adjusts the scores of query/subject pairs.
// It is not safe for concurrent use.
type Controller struct {
	opt       ControllerOptions
	info      *MatrixInfo
	ws        *Workspace
	optimizer Optimizer
	stats     *Stats
	logger    *slog.Logger
}

// NewController creates a Controller.
// ws and optimizer are only needed by matrix adjustment modes.
// stats and logger can be nil.
func NewController(opt *ControllerOptions, info *MatrixInfo, ws *Workspace,
	optimizer Optimizer, stats *Stats, logger *slog.Logger) (*Controller, error) {
	if info == nil {
		return nil, errors.New("compo: nil matrix info")
	}
	if !info.PositionBased && (opt.Mode == ConditionalMatrixAdjust || opt.Mode == FullMatrixAdjust) {
		if ws == nil || optimizer == nil {
			return nil, fmt.Errorf("compo: mode %s needs a workspace and an optimizer", opt.Mode)
		}
	}
	if stats == nil {
		stats = &Stats{}
	}
	if logger == nil {
		logger = slog.Default().With("component", "compo")
	}
	return &Controller{
		opt:       *opt,
		info:      info,
		ws:        ws,
		optimizer: optimizer,
		stats:     stats,
		logger:    logger,
	}, nil
}

// Stats returns the statistics.
func (c *Controller) Stats() *Stats { return c.stats }

// CompositionMatrixAdj computes an adjusted score matrix into out with
// the target frequencies optimized for the pair. query and subject are
// the raw compositions, numQuery and numSubject their numbers of true
// amino acids.
func (c *Controller) CompositionMatrixAdj(out [][]int,
	query, subject *[NumTrueAA]float64, numQuery, numSubject int,
	rule AdjustRule) (iterations int, err error) {
	ws := c.ws
	pq, ps := *query, *subject

	var re float64
	constrain := true
	switch rule.Kind {
	case Unconstrained:
		constrain = false
	case RelEntropyOldMatrixNewContext:
		var it int
		re, _, it, err = EntropyOldFreqNewContext(&ws.JointProbs, &pq, &ps)
		c.stats.LambdaIterations += it
		if err != nil {
			return 0, err
		}
	case RelEntropyOldMatrixOldContext:
		re = TargetFreqEntropy(&ws.JointProbs)
	case UserSpecifiedRelEntropy:
		re = rule.RE
	default:
		panic(fmt.Sprintf("compo: unexpected adjust rule: %s", rule.Kind))
	}

	ApplyPseudocounts(&pq, numQuery, &ws.BackgroundA, c.opt.Pseudocounts)
	ApplyPseudocounts(&ps, numSubject, &ws.BackgroundB, c.opt.Pseudocounts)

	iterations, err = c.optimizer.Optimize(&ws.Optimized, &ws.JointProbs, &pq, &ps,
		constrain, re, c.opt.OptimizerTolerance, c.opt.OptimizerMaxIterations)
	c.stats.OptimizerIterations += iterations
	if err != nil {
		c.logger.Warn("target frequency optimization failed",
			"rule", rule.String(),
			"iterations", iterations,
			"query_probs", pq[:],
			"subject_probs", ps[:],
			"error", err)
		if !errors.Is(err, ErrNoConvergence) {
			err = fmt.Errorf("%w: %w", ErrNoConvergence, err)
		}
		return iterations, err
	}

	ScoresStdAlphabet(out, &ws.Optimized, c.info.StartMatrix, &pq, &ps, c.info.UngappedLambda)
	return iterations, nil
}

// CompositionBasedStats scales the start matrix into out by the ratio of
// the lambda of the pair to the ungapped lambda, clamped to [0.5, 1].
func (c *Controller) CompositionBasedStats(out [][]int, query, subject *Composition) (ratio float64, err error) {
	info := c.info
	var sp *ScoreProbs
	if info.PositionBased {
		sp, err = PSSMScoreProbs(info.StartMatrix, subject.Prob[:])
	} else {
		sp, err = MatrixScoreProbs(info.StartMatrix, query.Prob[:], subject.Prob[:])
	}
	if err != nil {
		return 0, err
	}

	lambda, it := LambdaFromScoreProbs(sp, &c.opt.LambdaTolerance)
	c.stats.LambdaIterations += it
	if lambda < 0 {
		return 0, ErrNoLambda
	}

	ratio = math.Max(math.Min(lambda/info.UngappedLambda, 1), 0.5)
	Int4MatrixFromFreq(out, info.StartFreqRatios, info.UngappedLambda/ratio)
	return ratio, nil
}

// AdjustScores computes the scoring system of a pair from the
// compositions of the query and subject windows.
//
// ErrNotMeaningful is returned if any composition has no true amino
// acids, and ErrNoMemory if the matrix is larger than MaxMatrixCells.
// A failed optimization falls back to scaling. Use StatusOf for the
// numeric status.
func (c *Controller) AdjustScores(query, subject *Composition) (*Result, error) {
	c.stats.Pairs++
	info := c.info

	out, err := newMatrix(info.Rows, info.Cols, c.opt.MaxMatrixCells)
	if err != nil {
		return nil, err
	}

	if c.opt.Mode == NoCompositionBasedStats {
		for i, row := range info.StartMatrix {
			copy(out[i], row)
		}
		return &Result{
			Matrix:      out,
			Rule:        AdjustRule{Kind: DontAdjust},
			Lambda:      info.UngappedLambda,
			LambdaRatio: 1,
		}, nil
	}

	if query.NumTrueAminoAcids == 0 || subject.NumTrueAminoAcids == 0 {
		c.stats.Skipped++
		return nil, ErrNotMeaningful
	}

	rule := AdjustRule{Kind: ScaleOldMatrix}
	if !info.PositionBased && c.opt.Mode != CompositionBasedStats {
		pq, ps := query.TrueAAProbs(), subject.TrueAAProbs()
		rule = ChooseAdjustRule(&pq, &ps, &c.ws.BackgroundA, info.Name, c.opt.Mode, c.opt.FixedRE)
		if rule.Kind != ScaleOldMatrix {
			_, err = c.CompositionMatrixAdj(out, &pq, &ps,
				query.NumTrueAminoAcids, subject.NumTrueAminoAcids, rule)
			if err == nil {
				c.stats.Adjusted++
				return &Result{Matrix: out, Rule: rule, Lambda: info.UngappedLambda, LambdaRatio: 1}, nil
			}
			if StatusOf(err) == StatusNoMemory {
				return nil, err
			}
			c.stats.Failed++
			rule = AdjustRule{Kind: ScaleOldMatrix}
		}
	}

	ratio, err := c.CompositionBasedStats(out, query, subject)
	if err != nil {
		return nil, err
	}
	c.stats.Scaled++
	return &Result{Matrix: out, Rule: rule, Lambda: info.UngappedLambda / ratio, LambdaRatio: ratio}, nil
}
