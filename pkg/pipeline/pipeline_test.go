package pipeline

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"math/rand"
	"sync"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ssargent/helixcode/pkg/alphabet"
)

func optsWithWorkers(n int) Options {
	opts := DefaultOptions()
	opts.Workers = n
	return opts
}

func TestEncodeStream_KnownSymbols(t *testing.T) {
	out, err := EncodeStream(context.Background(), []byte("A"), optsWithWorkers(1))
	require.NoError(t, err)
	assert.Equal(t, "GACATCAGCACTA", string(out))

	raw, report, err := DecodeStream(context.Background(), out, optsWithWorkers(1))
	require.NoError(t, err)
	assert.Equal(t, []byte("A"), raw)
	assert.True(t, report.Clean())
	assert.Empty(t, report.AlternationViolations)
	assert.Zero(t, report.Corrected)
}

func TestRun_SingleCharacterAnyWorkerCount(t *testing.T) {
	var outputs [][]byte
	for _, workers := range []int{1, 4} {
		sym, err := EncodeStream(context.Background(), []byte("x"), optsWithWorkers(workers))
		require.NoError(t, err)
		raw, _, err := DecodeStream(context.Background(), sym, optsWithWorkers(workers))
		require.NoError(t, err)
		outputs = append(outputs, raw)
	}
	assert.Equal(t, outputs[0], outputs[1])
	assert.Equal(t, []byte("x"), outputs[0])
}

func TestRun_OrderPreservedAcrossWorkerCounts(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	input := make([]byte, 1037)
	rng.Read(input)

	ctx := context.Background()
	for _, encWorkers := range []int{1, 2, 3, 7, 16} {
		sym, err := EncodeStream(ctx, input, optsWithWorkers(encWorkers))
		require.NoError(t, err)
		require.Len(t, sym, len(input)*alphabet.GroupLength)

		for _, decWorkers := range []int{1, 5, 8, 2000} {
			t.Run(fmt.Sprintf("enc%d_dec%d", encWorkers, decWorkers), func(t *testing.T) {
				raw, report, err := DecodeStream(ctx, sym, optsWithWorkers(decWorkers))
				require.NoError(t, err)
				assert.True(t, bytes.Equal(input, raw), "round trip mismatch")
				assert.True(t, report.Clean())
				assert.Equal(t, len(input), report.Units)
			})
		}
	}
}

func TestRun_EmptyInput(t *testing.T) {
	sym, err := EncodeStream(context.Background(), nil, optsWithWorkers(3))
	require.NoError(t, err)
	assert.Empty(t, sym)

	raw, report, err := DecodeStream(context.Background(), sym, optsWithWorkers(3))
	require.NoError(t, err)
	assert.Empty(t, raw)
	assert.Equal(t, 0, report.Units)
}

func TestRun_InvalidWorkerCount(t *testing.T) {
	called := false
	opts := optsWithWorkers(0)
	opts.OnProgress = func(done, total int64) { called = true }

	_, err := Run(context.Background(), []byte("abc"), Encode, opts)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrInvalidWorkerCount))

	var cfgErr *ConfigError
	require.True(t, errors.As(err, &cfgErr))
	assert.Equal(t, "workers", cfgErr.Field)
	assert.False(t, called, "no work may start on a configuration error")
}

func TestRun_UnknownPolicy(t *testing.T) {
	opts := optsWithWorkers(1)
	opts.SymbolPolicy = "ignore"

	_, err := Run(context.Background(), nil, Decode, opts)
	assert.ErrorIs(t, err, ErrUnknownPolicy)
}

func TestDecodeStream_TruncatedBody(t *testing.T) {
	_, _, err := DecodeStream(context.Background(), []byte("GACATCAGCACT"), optsWithWorkers(1))
	assert.ErrorIs(t, err, ErrTruncatedBody)
}

func TestDecodeStream_Corruption(t *testing.T) {
	ctx := context.Background()
	input := []byte("helix")
	sym, err := EncodeStream(ctx, input, optsWithWorkers(2))
	require.NoError(t, err)

	t.Run("single flip is corrected", func(t *testing.T) {
		bad := flipBits(sym, 1, 4)
		raw, report, err := DecodeStream(ctx, bad, optsWithWorkers(2))
		require.NoError(t, err)
		assert.Equal(t, input, raw)
		assert.Equal(t, 1, report.Corrected)
		assert.True(t, report.Clean())
	})

	t.Run("double flip is replaced and reported", func(t *testing.T) {
		bad := flipBits(sym, 3, 2, 5)
		opts := optsWithWorkers(3)
		opts.Placeholder = '#'
		raw, report, err := DecodeStream(ctx, bad, opts)
		require.NoError(t, err)
		assert.Equal(t, []byte("hel#x"), raw)
		assert.Equal(t, []int{3}, report.Uncorrectable)
		assert.False(t, report.Clean())
	})

	t.Run("corruption in several chunks", func(t *testing.T) {
		bad := flipBits(flipBits(sym, 0, 0, 12), 4, 6, 7)
		raw, report, err := DecodeStream(ctx, bad, optsWithWorkers(5))
		require.NoError(t, err)
		assert.Equal(t, []byte("?eli?"), raw)
		assert.Equal(t, []int{0, 4}, report.Uncorrectable)
	})

	t.Run("same-class swap is advisory only", func(t *testing.T) {
		bad := append([]byte(nil), sym...)
		unit := 2
		for i := unit * alphabet.GroupLength; i < (unit+1)*alphabet.GroupLength; i++ {
			if bad[i] == alphabet.BaseC {
				bad[i] = alphabet.BaseA
				break
			}
		}
		raw, report, err := DecodeStream(ctx, bad, optsWithWorkers(2))
		require.NoError(t, err)
		assert.Equal(t, input, raw)
		assert.Equal(t, []int{unit}, report.AlternationViolations)
		assert.True(t, report.Clean())
	})
}

func TestDecodeStream_UnrecognizedSymbol(t *testing.T) {
	ctx := context.Background()
	sym, err := EncodeStream(ctx, []byte("abcdef"), optsWithWorkers(1))
	require.NoError(t, err)
	bad := append([]byte(nil), sym...)
	bad[4*alphabet.GroupLength+7] = 'N'

	t.Run("abort", func(t *testing.T) {
		_, _, err := DecodeStream(ctx, bad, optsWithWorkers(3))
		require.Error(t, err)
		assert.ErrorIs(t, err, alphabet.ErrUnrecognizedSymbol)

		var symErr *alphabet.SymbolError
		require.True(t, errors.As(err, &symErr))
		assert.Equal(t, 4*alphabet.GroupLength+7, symErr.Offset)
		assert.Equal(t, byte('N'), symErr.Symbol)
	})

	t.Run("substitute", func(t *testing.T) {
		opts := optsWithWorkers(3)
		opts.SymbolPolicy = SymbolPolicySubstitute
		raw, report, err := DecodeStream(ctx, bad, opts)
		require.NoError(t, err)
		assert.Equal(t, []byte("abcd?f"), raw)
		assert.Equal(t, []int{4}, report.Unrecognized)
		assert.False(t, report.Clean())
	})
}

func TestRun_ReportsProgress(t *testing.T) {
	var mu sync.Mutex
	var last [2]int64
	opts := optsWithWorkers(4)
	opts.ProgressInterval = time.Millisecond
	opts.OnProgress = func(done, total int64) {
		mu.Lock()
		defer mu.Unlock()
		last = [2]int64{done, total}
	}

	input := bytes.Repeat([]byte("progress"), 512)
	_, err := Run(context.Background(), input, Encode, opts)
	require.NoError(t, err)

	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, [2]int64{int64(len(input)), int64(len(input))}, last)
}

func TestRun_RecordsMetrics(t *testing.T) {
	ctx := context.Background()
	m := NewMetrics()
	opts := optsWithWorkers(2)
	opts.Metrics = m

	sym, err := EncodeStream(ctx, []byte("metrics"), opts)
	require.NoError(t, err)

	bad := flipBits(flipBits(sym, 0, 9), 1, 1, 2)
	_, _, err = DecodeStream(ctx, bad, opts)
	require.NoError(t, err)

	assert.Equal(t, 7.0, testutil.ToFloat64(m.unitsTotal.WithLabelValues("encode")))
	assert.Equal(t, 7.0, testutil.ToFloat64(m.unitsTotal.WithLabelValues("decode")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.correctedTotal))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.uncorrectableTotal))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.runsTotal.WithLabelValues("decode", statusSuccess)))

	_, err = Run(ctx, []byte("GACA"), Decode, opts)
	require.Error(t, err)
	assert.Equal(t, 0.0, testutil.ToFloat64(m.runsTotal.WithLabelValues("decode", statusError)),
		"truncated bodies are rejected before the run starts")
}

func TestMetrics_NilIsNoop(t *testing.T) {
	var m *Metrics
	m.RecordRun(Encode, true, 1, time.Second)
	m.RecordReport(&Report{Corrected: 1})
	assert.NoError(t, m.WriteToTextfile("/nonexistent/metrics.prom"))
	assert.Nil(t, m.Registry())
}

// flipBits inverts the bit class of the given codeword positions in one
// symbol group and re-emits the group with the canonical alternation.
func flipBits(sym []byte, unit int, positions ...int) []byte {
	out := append([]byte(nil), sym...)
	group := out[unit*alphabet.GroupLength : (unit+1)*alphabet.GroupLength]
	cw, err := alphabet.FromSymbols(group)
	if err != nil {
		panic(err)
	}
	for _, pos := range positions {
		cw = cw.Flip(pos)
	}
	g := alphabet.ToSymbols(cw)
	copy(group, g[:])
	return out
}
