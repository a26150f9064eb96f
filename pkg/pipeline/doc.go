// Package pipeline runs the hamming and alphabet transforms over a whole
// input on a fixed pool of goroutines.
//
// The input is cut into contiguous chunks, one per worker. Each worker
// processes its chunk independently and the outputs are stitched back
// together by chunk index, so the result never depends on which worker
// finishes first. A shared Progress counter is bumped once per unit and a
// Monitor polls it to report completion while the workers run.
//
// # Usage
//
//	opts := pipeline.DefaultOptions()
//	opts.Workers = 4
//
//	symbols, err := pipeline.EncodeStream(ctx, []byte("hello"), opts)
//	if err != nil {
//	    return err
//	}
//
//	raw, report, err := pipeline.DecodeStream(ctx, symbols, opts)
//	if err != nil {
//	    return err
//	}
//	if len(report.Uncorrectable) > 0 {
//	    // some units were replaced by opts.Placeholder
//	}
//
// # Error Handling
//
// An invalid worker count is a *ConfigError and aborts before any work
// starts. An unrecognized symbol aborts the run under SymbolPolicyAbort and
// is counted in the Report under SymbolPolicySubstitute. Uncorrectable
// units never abort: they are replaced by the placeholder and listed in the
// Report.
package pipeline
