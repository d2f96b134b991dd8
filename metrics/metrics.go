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

// Package metrics exports the statistics of a search as Prometheus
// collectors. Statistics are accumulated per subject by the library
// packages and added here, so nothing in the hot loops touches a
// collector.
package metrics

import (
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/shenwei356/seedext/compo"
	"github.com/shenwei356/seedext/seed"
)

// Metrics holds the collectors of a search.
type Metrics struct {
	SeedsTotal          *prometheus.CounterVec
	SubjectsTotal       prometheus.Counter
	HitsPerSubject      prometheus.Histogram
	PairsTotal          *prometheus.CounterVec
	OptimizerIterations prometheus.Counter
	LambdaIterations    prometheus.Counter
}

// New creates the collectors and registers them to reg.
func New(reg prometheus.Registerer) (*Metrics, error) {
	m := &Metrics{
		SeedsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "seedext_seeds_total",
				Help: "Seeds by outcome (seen, rejected, dropped, extended, saved, refused).",
			},
			[]string{"outcome"},
		),
		SubjectsTotal: prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: "seedext_subjects_total",
				Help: "Subject sequences scanned.",
			},
		),
		HitsPerSubject: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "seedext_hits_per_subject",
				Help:    "Ungapped hits saved per subject.",
				Buckets: []float64{0, 1, 2, 5, 10, 50, 100, 1000},
			},
		),
		PairsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "seedext_composition_pairs_total",
				Help: "Query/subject pairs by adjustment outcome (adjusted, scaled, skipped, failed).",
			},
			[]string{"outcome"},
		),
		OptimizerIterations: prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: "seedext_optimizer_iterations_total",
				Help: "Iterations of the target frequency optimizer.",
			},
		),
		LambdaIterations: prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: "seedext_lambda_iterations_total",
				Help: "Iterations of the lambda solver.",
			},
		),
	}

	for _, c := range []prometheus.Collector{
		m.SeedsTotal,
		m.SubjectsTotal,
		m.HitsPerSubject,
		m.PairsTotal,
		m.OptimizerIterations,
		m.LambdaIterations,
	} {
		if err := reg.Register(c); err != nil {
			return nil, fmt.Errorf("metrics: %w", err)
		}
	}
	return m, nil
}

// AddSeedStats adds the statistics of one subject.
func (m *Metrics) AddSeedStats(s *seed.Stats) {
	m.SubjectsTotal.Inc()
	m.HitsPerSubject.Observe(float64(s.Saved))

	m.SeedsTotal.WithLabelValues("seen").Add(float64(s.Seeds))
	m.SeedsTotal.WithLabelValues("rejected").Add(float64(s.Rejected))
	m.SeedsTotal.WithLabelValues("dropped").Add(float64(s.Dropped))
	m.SeedsTotal.WithLabelValues("extended").Add(float64(s.Extensions))
	m.SeedsTotal.WithLabelValues("saved").Add(float64(s.Saved))
	m.SeedsTotal.WithLabelValues("refused").Add(float64(s.Refused))
}

// AddCompoStats adds statistics of composition adjustment.
func (m *Metrics) AddCompoStats(s *compo.Stats) {
	m.PairsTotal.WithLabelValues("adjusted").Add(float64(s.Adjusted))
	m.PairsTotal.WithLabelValues("scaled").Add(float64(s.Scaled))
	m.PairsTotal.WithLabelValues("skipped").Add(float64(s.Skipped))
	m.PairsTotal.WithLabelValues("failed").Add(float64(s.Failed))
	m.OptimizerIterations.Add(float64(s.OptimizerIterations))
	m.LambdaIterations.Add(float64(s.LambdaIterations))
}

// WriteFile writes all metrics gathered from g to a file in the text
// exposition format.
func WriteFile(g prometheus.Gatherer, file string) error {
	if err := prometheus.WriteToTextfile(file, g); err != nil {
		return fmt.Errorf("metrics: %w", err)
	}
	return nil
}
