package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/segmentio/ksuid"
	"golang.org/x/sync/errgroup"

	"github.com/ssargent/helixcode/pkg/alphabet"
	"github.com/ssargent/helixcode/pkg/hamming"
)

// maxLoggedUnits caps how many unit indexes go into a single log line
const maxLoggedUnits = 16

// Report summarises a run. Unit indexes are positions in the whole input,
// in ascending order.
type Report struct {
	RunID                 string
	Direction             Direction
	Units                 int
	Workers               int
	Corrected             int
	Uncorrectable         []int
	AlternationViolations []int
	Unrecognized          []int
	Elapsed               time.Duration
}

// Clean reports whether every unit decoded without substitution
func (r *Report) Clean() bool {
	return len(r.Uncorrectable) == 0 && len(r.Unrecognized) == 0
}

func (r *Report) merge(o *Report) {
	r.Corrected += o.Corrected
	r.Uncorrectable = append(r.Uncorrectable, o.Uncorrectable...)
	r.AlternationViolations = append(r.AlternationViolations, o.AlternationViolations...)
	r.Unrecognized = append(r.Unrecognized, o.Unrecognized...)
}

// Result is the reassembled output of a run
type Result struct {
	Output []byte
	Report Report
}

type chunkResult struct {
	out    []byte
	report Report
}

// Run applies dir to every unit of input using opts.Workers goroutines and
// returns the outputs concatenated in chunk order
func Run(ctx context.Context, input []byte, dir Direction, opts Options) (*Result, error) {
	if err := opts.validate(); err != nil {
		return nil, err
	}
	opts = opts.withDefaults()

	width := dir.unitWidth()
	if len(input)%width != 0 {
		return nil, fmt.Errorf("%w: %d symbols, group size %d", ErrTruncatedBody, len(input), width)
	}
	units := len(input) / width

	runID := ksuid.New().String()
	chunks := Split(units, opts.Workers)
	logger := opts.Logger.With("run", runID, "direction", dir.String())
	logger.Info("pipeline started", "units", units, "workers", len(chunks))
	start := time.Now()

	progress := NewProgress()
	monCtx, stopMonitor := context.WithCancel(ctx)
	var monitor sync.WaitGroup
	if opts.OnProgress != nil {
		monitor.Add(1)
		go func() {
			defer monitor.Done()
			NewMonitor(progress, int64(units), opts.ProgressInterval, opts.OnProgress).Run(monCtx)
		}()
	}

	slots := make([]chunkResult, len(chunks))
	var g errgroup.Group
	for _, c := range chunks {
		c := c
		g.Go(func() error {
			part := input[c.Start*width : c.End*width]
			res, err := processChunk(dir, c, part, progress, opts)
			slots[c.Index] = res
			return err
		})
	}
	err := g.Wait()

	stopMonitor()
	monitor.Wait()

	elapsed := time.Since(start)
	opts.Metrics.RecordRun(dir, err == nil, units, elapsed)
	if err != nil {
		logger.Error("pipeline failed", "error", err, "elapsed", elapsed)
		return nil, err
	}

	res := &Result{
		Report: Report{
			RunID:     runID,
			Direction: dir,
			Units:     units,
			Workers:   len(chunks),
			Elapsed:   elapsed,
		},
	}

	size := 0
	for i := range slots {
		size += len(slots[i].out)
	}
	res.Output = make([]byte, 0, size)
	for i := range slots {
		res.Output = append(res.Output, slots[i].out...)
		res.Report.merge(&slots[i].report)
	}

	if dir == Decode {
		opts.Metrics.RecordReport(&res.Report)
		logReport(logger, &res.Report)
	}
	logger.Info("pipeline finished", "units", units, "elapsed", elapsed)

	return res, nil
}

func processChunk(dir Direction, c Chunk, part []byte, progress *Progress, opts Options) (chunkResult, error) {
	if dir == Encode {
		return encodeChunk(part, progress), nil
	}
	return decodeChunk(c, part, progress, opts)
}

func encodeChunk(part []byte, progress *Progress) chunkResult {
	out := make([]byte, 0, len(part)*alphabet.GroupLength)
	for _, b := range part {
		out = alphabet.AppendSymbols(out, hamming.Encode(b))
		progress.Add(1)
	}
	return chunkResult{out: out}
}

func decodeChunk(c Chunk, part []byte, progress *Progress, opts Options) (chunkResult, error) {
	res := chunkResult{out: make([]byte, 0, c.Len())}
	for i := 0; i < c.Len(); i++ {
		unit := c.Start + i
		group := part[i*alphabet.GroupLength : (i+1)*alphabet.GroupLength]

		b, err := decodeGroup(unit, group, &res.report, opts)
		if err != nil {
			return res, err
		}
		res.out = append(res.out, b)
		progress.Add(1)
	}
	return res, nil
}

func decodeGroup(unit int, group []byte, report *Report, opts Options) (byte, error) {
	cw, err := alphabet.FromSymbols(group)
	if err != nil {
		var symErr *alphabet.SymbolError
		if errors.As(err, &symErr) {
			// report the offset within the whole body
			err = &alphabet.SymbolError{Offset: unit*alphabet.GroupLength + symErr.Offset, Symbol: symErr.Symbol}
		}
		if opts.SymbolPolicy == SymbolPolicyAbort {
			return 0, fmt.Errorf("unit %d: %w", unit, err)
		}
		report.Unrecognized = append(report.Unrecognized, unit)
		return opts.Placeholder, nil
	}

	if !alphabet.CheckAlternation(group) {
		report.AlternationViolations = append(report.AlternationViolations, unit)
	}

	b, outcome, _ := hamming.DecodeUnit(cw)
	switch outcome {
	case hamming.Corrected:
		report.Corrected++
	case hamming.Uncorrectable:
		report.Uncorrectable = append(report.Uncorrectable, unit)
		b = opts.Placeholder
	}
	return b, nil
}

func logReport(logger *slog.Logger, r *Report) {
	if r.Corrected > 0 {
		logger.Debug("units corrected", "count", r.Corrected)
	}
	if n := len(r.Uncorrectable); n > 0 {
		logger.Warn("uncorrectable units replaced", "count", n, "units", head(r.Uncorrectable))
	}
	if n := len(r.Unrecognized); n > 0 {
		logger.Warn("unrecognized groups replaced", "count", n, "units", head(r.Unrecognized))
	}
	if n := len(r.AlternationViolations); n > 0 {
		logger.Warn("alternation violations", "count", n, "units", head(r.AlternationViolations))
	}
}

func head(units []int) []int {
	if len(units) > maxLoggedUnits {
		return units[:maxLoggedUnits]
	}
	return units
}
