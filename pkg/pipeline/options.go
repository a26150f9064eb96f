package pipeline

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/ssargent/helixcode/pkg/alphabet"
)

const (
	DefaultPlaceholder      byte = '?'
	DefaultProgressInterval      = 200 * time.Millisecond
)

var (
	ErrInvalidWorkerCount = errors.New("worker count must be at least 1")
	ErrUnknownPolicy      = errors.New("unknown symbol policy")
	ErrTruncatedBody      = errors.New("symbol body is not a whole number of groups")
)

// ConfigError is returned before any work starts when Options are unusable
type ConfigError struct {
	Field string
	Err   error
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("invalid %s: %v", e.Field, e.Err)
}

func (e *ConfigError) Unwrap() error {
	return e.Err
}

// Direction selects the transform applied to every unit
type Direction int

const (
	Encode Direction = iota
	Decode
)

func (d Direction) String() string {
	if d == Decode {
		return "decode"
	}
	return "encode"
}

// unitWidth is the number of input bytes consumed per unit
func (d Direction) unitWidth() int {
	if d == Decode {
		return alphabet.GroupLength
	}
	return 1
}

// SymbolPolicy decides what happens to a group with an unrecognized symbol
type SymbolPolicy string

const (
	SymbolPolicyAbort      SymbolPolicy = "abort"
	SymbolPolicySubstitute SymbolPolicy = "substitute"
)

// ParseSymbolPolicy accepts the names used in config files and flags
func ParseSymbolPolicy(s string) (SymbolPolicy, error) {
	switch p := SymbolPolicy(s); p {
	case SymbolPolicyAbort, SymbolPolicySubstitute:
		return p, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownPolicy, s)
}

// ProgressFunc receives the number of units done out of total
type ProgressFunc func(done, total int64)

// Options configures a pipeline run
type Options struct {
	Workers          int
	Placeholder      byte // written for units that cannot be recovered; 0 means DefaultPlaceholder
	SymbolPolicy     SymbolPolicy
	ProgressInterval time.Duration
	OnProgress       ProgressFunc // optional; no monitor runs when nil
	Logger           *slog.Logger // optional
	Metrics          *Metrics     // optional
}

// DefaultOptions returns options for a single worker that aborts on
// unrecognized symbols
func DefaultOptions() Options {
	return Options{
		Workers:          1,
		Placeholder:      DefaultPlaceholder,
		SymbolPolicy:     SymbolPolicyAbort,
		ProgressInterval: DefaultProgressInterval,
	}
}

func (o Options) validate() error {
	if o.Workers < 1 {
		return &ConfigError{Field: "workers", Err: fmt.Errorf("%w: got %d", ErrInvalidWorkerCount, o.Workers)}
	}
	if o.SymbolPolicy != "" {
		if _, err := ParseSymbolPolicy(string(o.SymbolPolicy)); err != nil {
			return &ConfigError{Field: "symbol policy", Err: err}
		}
	}
	return nil
}

func (o Options) withDefaults() Options {
	if o.Placeholder == 0 {
		o.Placeholder = DefaultPlaceholder
	}
	if o.SymbolPolicy == "" {
		o.SymbolPolicy = SymbolPolicyAbort
	}
	if o.ProgressInterval <= 0 {
		o.ProgressInterval = DefaultProgressInterval
	}
	if o.Logger == nil {
		o.Logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return o
}
