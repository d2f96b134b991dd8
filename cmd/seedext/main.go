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

package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/pkg/profile"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/shenwei356/bio/seq"
	"github.com/shenwei356/bio/seqio/fastx"
	"github.com/shenwei356/seedext/compo"
	"github.com/shenwei356/seedext/config"
	"github.com/shenwei356/seedext/extend"
	"github.com/shenwei356/seedext/hitlist"
	"github.com/shenwei356/seedext/lookup"
	"github.com/shenwei356/seedext/metrics"
	"github.com/shenwei356/seedext/seed"
	"github.com/shenwei356/seedext/submat"
	"github.com/shenwei356/xopen"
	"github.com/vbauerster/mpb/v5"
	"github.com/vbauerster/mpb/v5/decor"
)

var version = "0.1.0"

type record struct {
	id  string
	seq []byte
}

func main() {
	usage := fmt.Sprintf(`
This command finds ungapped local alignments between query and subject
sequences, with word seeds, two-hit diagonal tracking and X-drop extension.
Protein searches can adjust scores for the composition of each pair.

Author: Wei Shen <shenwei356@gmail.com>
  Code: https://github.com/shenwei356/seedext

Version: v%s
Usage: %s [options] <query fasta/q> <subject fasta/q> [<subject fasta/q> ...]

Options/Flags:
`, version, filepath.Base(os.Args[0]))

	flag.Usage = func() {
		fmt.Fprint(os.Stderr, usage)
		flag.PrintDefaults()
	}

	help := flag.Bool("h", false, "print help message")
	confFile := flag.String("c", "", "YAML config file, defaults are used if not given")
	protein := flag.Bool("p", false, "protein search")
	outFile := flag.String("o", "-", `output file, "-" for stdout`)
	metricsFile := flag.String("metrics", "", "write metrics in Prometheus text format to this file")
	progress := flag.Bool("progress", false, "show progress bar")
	pfCPU := flag.Bool("pprof-cpu", false, "pprofile CPU")
	pfMEM := flag.Bool("pprof-mem", false, "pprofile memory")

	flag.Parse()

	if *help {
		flag.Usage()
		return
	}

	if flag.NArg() < 2 {
		flag.Usage()
		os.Exit(1)
	}

	for _, file := range flag.Args() {
		if _, err := os.Stat(file); errors.Is(err, os.ErrNotExist) {
			checkError(fmt.Errorf("%s", err))
		}
	}

	opt, err := config.Load(*confFile)
	checkError(err)

	logger := opt.Logging.Logger(os.Stderr)
	slog.SetDefault(logger)

	// -----------------------------------------------

	// go tool pprof -http=:8080 cpu.pprof
	if *pfCPU {
		defer profile.Start(profile.CPUProfile, profile.ProfilePath(".")).Stop()
	} else if *pfMEM {
		defer profile.Start(profile.MemProfile, profile.ProfilePath(".")).Stop()
	}

	reg := prometheus.NewRegistry()
	mt, err := metrics.New(reg)
	checkError(err)

	outfh, err := xopen.Wopen(*outFile)
	checkError(err)
	defer outfh.Close()

	seq.ValidateSeq = false

	sTime := time.Now()
	subjects, err := readAll(flag.Args()[1:])
	checkError(err)
	logger.Info("subjects loaded", "files", flag.NArg()-1, "sequences", len(subjects),
		"elapsed", time.Since(sTime).String())

	queries, err := readAll(flag.Args()[:1])
	checkError(err)

	// -----------------------------------------------

	var pbs *mpb.Progress
	var bar *mpb.Bar
	if *progress {
		pbs = mpb.New(mpb.WithWidth(40), mpb.WithOutput(os.Stderr))
		bar = pbs.AddBar(int64(len(queries)),
			mpb.PrependDecorators(
				decor.Name("searched queries: ", decor.WC{W: len("searched queries: ")}),
				decor.Name("", decor.WCSyncSpaceR),
				decor.CountersNoUnit("%d / %d", decor.WCSyncWidth),
			),
			mpb.AppendDecorators(
				decor.Name("ETA: ", decor.WC{W: len("ETA: ")}),
				decor.AverageETA(decor.ET_STYLE_GO),
				decor.OnComplete(decor.Name(""), ". done"),
			),
		)
	}

	var s *searcher
	if *protein {
		s, err = newProteinSearcher(opt, logger)
	} else {
		s, err = newNuclSearcher(opt, logger)
	}
	checkError(err)
	s.metrics = mt

	sTime = time.Now()
	fmt.Fprintf(outfh, "query\tsubject\tqstart\tqend\tsstart\tsend\tlen\tscore\n")
	for _, q := range queries {
		err = s.search(outfh, q, subjects)
		if err != nil {
			checkError(fmt.Errorf("query %s: %s", q.id, err))
		}
		if bar != nil {
			bar.Increment()
		}
	}
	if pbs != nil {
		pbs.Wait()
	}

	mt.AddCompoStats(&s.compoStats)
	logger.Info("search finished", "queries", len(queries),
		"seeds", s.seedStats.Seeds, "extensions", s.seedStats.Extensions,
		"hits", s.seedStats.Saved, "elapsed", time.Since(sTime).String())
	if *protein {
		logger.Info("composition adjustment", "pairs", s.compoStats.Pairs,
			"scaled", s.compoStats.Scaled, "skipped", s.compoStats.Skipped)
	}

	if *metricsFile != "" {
		checkError(metrics.WriteFile(reg, *metricsFile))
	}
}

// searcher runs the seed and extend pipeline of one query against all
// subjects.
type searcher struct {
	opt     *config.Options
	protein bool
	logger  *slog.Logger
	metrics *metrics.Metrics // optional

	nucl *extend.Nucleotide
	prot *extend.Protein
	ctrl *compo.Controller
	info *compo.MatrixInfo

	hits  *hitlist.List
	seeds []seed.Hit

	seedStats  seed.Stats
	compoStats compo.Stats
}

func newNuclSearcher(opt *config.Options, logger *slog.Logger) (*searcher, error) {
	nopt := opt.NuclOptions()
	return &searcher{
		opt:    opt,
		logger: logger,
		nucl:   extend.NewNucleotide(&nopt),
		hits:   hitlist.New(opt.HitList.InitialCapacity, opt.HitList.MaxCapacity),
	}, nil
}

func newProteinSearcher(opt *config.Options, logger *slog.Logger) (*searcher, error) {
	var m *submat.Matrix
	var err error
	if name := opt.Composition.Matrix; strings.EqualFold(name, "BLOSUM62") {
		m = submat.Blosum62()
	} else {
		m, err = submat.ReadFile(name)
		if err != nil {
			return nil, err
		}
	}
	info, err := compo.NewMatrixInfo(m)
	if err != nil {
		return nil, err
	}

	copt, err := opt.ControllerOptions()
	if err != nil {
		return nil, err
	}
	if copt.Mode == compo.ConditionalMatrixAdjust || copt.Mode == compo.FullMatrixAdjust {
		logger.Warn("no target frequency optimizer available, scaling matrices instead",
			"mode", copt.Mode.String())
		copt.Mode = compo.CompositionBasedStats
	}

	s := &searcher{
		opt:     opt,
		protein: true,
		logger:  logger,
		info:    info,
		prot:    extend.NewProtein(info.StartMatrix, opt.Extension.XDrop),
		hits:    hitlist.New(opt.HitList.InitialCapacity, opt.HitList.MaxCapacity),
	}
	s.ctrl, err = compo.NewController(&copt, info, nil, nil, &s.compoStats,
		logger.With("component", "compo"))
	if err != nil {
		return nil, err
	}
	return s, nil
}

func (s *searcher) search(outfh io.Writer, q *record, subjects []*record) error {
	sopt := s.opt.SeedOptions()
	if len(q.seq) < sopt.WordLength {
		s.logger.Debug("query shorter than the word length, skipped", "query", q.id)
		return nil
	}

	store, err := s.opt.NewStore(len(q.seq))
	if err != nil {
		return err
	}

	var ext seed.Extender
	var tbl *lookup.Table
	var qcodes, scodes []byte
	if s.protein {
		qcodes = compo.Encode(q.seq, nil)
		tbl, err = lookup.NewProtein(qcodes, sopt.WordLength)
		s.prot.SetQuery(qcodes)
		ext = s.prot
	} else {
		tbl, err = lookup.New(q.seq, sopt.WordLength)
		s.nucl.SetQuery(q.seq)
		ext = s.nucl
	}
	if err != nil {
		return err
	}

	var stats seed.Stats
	m, err := seed.New(&sopt, store, ext, s.hits, &stats)
	if err != nil {
		return err
	}

	var packed *extend.Packed
	var hits []hitlist.Hit
	for _, sub := range subjects {
		stats = seed.Stats{}

		if s.protein {
			scodes = compo.Encode(sub.seq, scodes)
			s.prot.SetSubject(scodes)
			s.seeds, err = tbl.Scan(scodes, s.seeds[:0])
		} else {
			packed, err = extend.PackNucleotides(sub.seq)
			if err == extend.ErrEmptySeq {
				s.logger.Warn("empty subject, skipped", "query", q.id, "subject", sub.id)
				m.NextSubject(0)
				continue
			}
			if err != nil {
				return err
			}
			s.nucl.SetSubject(packed)
			s.seeds, err = tbl.Scan(sub.seq, s.seeds[:0])
		}
		if err != nil {
			return err
		}

		m.ExtendInitialHits(s.seeds)

		if s.protein {
			hits, err = s.rescore(qcodes, scodes, s.hits.Hits(), hits[:0])
			if err != nil {
				return err
			}
			hitlist.SortHits(hits)
		} else {
			s.hits.Sort()
			hits = s.hits.Hits()
		}
		for _, h := range hits {
			a := h.Alignment
			fmt.Fprintf(outfh, "%s\t%s\t%d\t%d\t%d\t%d\t%d\t%d\n",
				q.id, sub.id, a.QStart+1, a.QEnd(), a.SStart+1, a.SEnd(), a.Length, a.Score)
		}
		if s.hits.NoGrow() {
			s.logger.Warn("hit list full, some hits were refused",
				"query", q.id, "subject", sub.id, "refused", stats.Refused)
		}

		m.NextSubject(len(sub.seq))
		s.seedStats.Add(&stats)
		if s.metrics != nil {
			s.metrics.AddSeedStats(&stats)
		}
	}
	return nil
}

// rescore re-extends protein hits with matrices adjusted for the
// composition of the regions around them, and appends the hits still
// scoring at least the cutoff to kept. Alignments are updated in place.
// Pairs where adjustment is not meaningful keep the unadjusted result.
func (s *searcher) rescore(qcodes, scodes []byte, hits, kept []hitlist.Hit) ([]hitlist.Hit, error) {
	var ql, qr, sl, sr int
	var qcomp, scomp compo.Composition
	for _, h := range hits {
		a := h.Alignment
		if a == nil {
			continue
		}
		ql, qr = compo.CompositionRange(qcodes, a.QStart, a.QEnd(), compo.CompositionMargin)
		sl, sr = compo.CompositionRange(scodes, a.SStart, a.SEnd(), compo.CompositionMargin)
		qcomp = compo.ReadComposition(qcodes[ql:qr])
		scomp = compo.ReadComposition(scodes[sl:sr])

		res, err := s.ctrl.AdjustScores(&qcomp, &scomp)
		if err != nil {
			if compo.StatusOf(err) == compo.StatusNoMemory {
				return kept, err
			}
			s.logger.Debug("using the unadjusted matrix", "error", err)
			kept = append(kept, h)
			continue
		}

		*a = extend.ProteinExact(res.Matrix, qcodes, scodes, h.QOffset, h.SOffset, s.opt.Extension.XDrop)
		if a.Score >= s.opt.Seed.Cutoff {
			kept = append(kept, h)
		}
	}
	return kept, nil
}

func readAll(files []string) ([]*record, error) {
	var records []*record
	var r *fastx.Record
	for _, file := range files {
		fastxReader, err := fastx.NewReader(nil, file, "")
		if err != nil {
			return nil, err
		}
		for {
			r, err = fastxReader.Read()
			if err != nil {
				if err == io.EOF {
					break
				}
				fastxReader.Close()
				return nil, err
			}
			records = append(records, &record{
				id:  string(r.ID),
				seq: append([]byte(nil), r.Seq.Seq...),
			})
		}
		fastxReader.Close()
	}
	return records, nil
}

func checkError(err error) {
	if err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}
