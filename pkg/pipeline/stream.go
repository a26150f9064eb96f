package pipeline

import "context"

// EncodeStream encodes raw bytes into an undivided symbol body
func EncodeStream(ctx context.Context, raw []byte, opts Options) ([]byte, error) {
	res, err := Run(ctx, raw, Encode, opts)
	if err != nil {
		return nil, err
	}
	return res.Output, nil
}

// DecodeStream decodes an unwrapped symbol body back into bytes. Units that
// cannot be recovered hold opts.Placeholder and are listed in the report.
func DecodeStream(ctx context.Context, symbols []byte, opts Options) ([]byte, *Report, error) {
	res, err := Run(ctx, symbols, Decode, opts)
	if err != nil {
		return nil, nil, err
	}
	return res.Output, &res.Report, nil
}
