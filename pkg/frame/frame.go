// Package frame wraps an encoded symbol body into a single text record and
// back. A record is one header line followed by the body wrapped at a fixed
// width:
//
//	>notes.txt 3
//	GACATCAGCACTAGAC...
//
// The header starts with the '>' marker, carries a free-text descriptor and
// ends with the number of encoded units. Records can optionally be zstd
// compressed; Read detects compression on its own.
package frame

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/klauspost/compress/zstd"
)

const (
	Marker           = '>'
	DefaultLineWidth = 60
)

var zstdMagic = []byte{0x28, 0xB5, 0x2F, 0xFD}

var (
	ErrMissingHeader    = errors.New("record does not start with a header line")
	ErrMalformedHeader  = errors.New("malformed header line")
	ErrMultipleRecords  = errors.New("input holds more than one record")
	ErrCountMismatch    = errors.New("header unit count does not match body")
	ErrInvalidLineWidth = errors.New("line width must be at least 1")
)

// Header is the first line of a record
type Header struct {
	Descriptor string
	Count      int
}

// String renders the header line without a trailing newline. Line breaks in
// the descriptor are folded into spaces.
func (h Header) String() string {
	desc := strings.Join(strings.Fields(h.Descriptor), " ")
	if desc == "" {
		return fmt.Sprintf("%c%d", Marker, h.Count)
	}
	return fmt.Sprintf("%c%s %d", Marker, desc, h.Count)
}

// ParseHeader parses a header line. The unit count is the last field; the
// rest is the descriptor.
func ParseHeader(line string) (Header, error) {
	line = strings.TrimRight(line, "\r\n")
	if len(line) == 0 || line[0] != Marker {
		return Header{}, ErrMissingHeader
	}

	rest := strings.TrimSpace(line[1:])
	if rest == "" {
		return Header{}, fmt.Errorf("%w: no unit count", ErrMalformedHeader)
	}

	desc, field := "", rest
	if i := strings.LastIndexAny(rest, " \t"); i >= 0 {
		desc, field = strings.TrimSpace(rest[:i]), rest[i+1:]
	}

	count, err := strconv.Atoi(field)
	if err != nil || count < 0 {
		return Header{}, fmt.Errorf("%w: bad unit count %q", ErrMalformedHeader, field)
	}

	return Header{Descriptor: desc, Count: count}, nil
}

// Options controls how a record is written
type Options struct {
	LineWidth int
	Compress  bool
}

// Write writes h and body as one record
func Write(w io.Writer, h Header, body []byte, opts Options) error {
	if opts.LineWidth < 1 {
		return fmt.Errorf("%w: got %d", ErrInvalidLineWidth, opts.LineWidth)
	}

	var enc *zstd.Encoder
	if opts.Compress {
		var err error
		enc, err = zstd.NewWriter(w)
		if err != nil {
			return fmt.Errorf("failed to create zstd writer: %w", err)
		}
		w = enc
	}

	bw := bufio.NewWriter(w)
	if _, err := bw.WriteString(h.String() + "\n"); err != nil {
		closeEncoder(enc)
		return err
	}
	if err := Wrap(bw, body, opts.LineWidth); err != nil {
		closeEncoder(enc)
		return err
	}
	if err := bw.Flush(); err != nil {
		closeEncoder(enc)
		return err
	}

	if enc != nil {
		if err := enc.Close(); err != nil {
			return fmt.Errorf("failed to finish zstd stream: %w", err)
		}
	}
	return nil
}

// Wrap writes body as lines of at most width bytes, each ending in '\n'
func Wrap(w io.Writer, body []byte, width int) error {
	if width < 1 {
		return fmt.Errorf("%w: got %d", ErrInvalidLineWidth, width)
	}
	for len(body) > 0 {
		n := width
		if n > len(body) {
			n = len(body)
		}
		if _, err := w.Write(body[:n]); err != nil {
			return err
		}
		if _, err := w.Write([]byte{'\n'}); err != nil {
			return err
		}
		body = body[n:]
	}
	return nil
}

// Record is a parsed record with its body unwrapped
type Record struct {
	Header     Header
	Body       []byte
	Compressed bool
}

// Verify checks the header count against a body of groupSize-symbol units
func (r *Record) Verify(groupSize int) error {
	if groupSize < 1 || len(r.Body) != r.Header.Count*groupSize {
		return fmt.Errorf("%w: header says %d units, body has %d symbols", ErrCountMismatch, r.Header.Count, len(r.Body))
	}
	return nil
}

// Read reads a single record, decompressing it first when it starts with the
// zstd magic number
func Read(r io.Reader) (*Record, error) {
	br := bufio.NewReader(r)

	var src io.Reader = br
	compressed := false
	if magic, err := br.Peek(len(zstdMagic)); err == nil && bytes.Equal(magic, zstdMagic) {
		dec, err := zstd.NewReader(br)
		if err != nil {
			return nil, fmt.Errorf("failed to create zstd reader: %w", err)
		}
		defer dec.Close()
		src = dec
		compressed = true
	}

	data, err := io.ReadAll(src)
	if err != nil {
		return nil, fmt.Errorf("failed to read record: %w", err)
	}

	rec, err := Unframe(data)
	if err != nil {
		return nil, err
	}
	rec.Compressed = compressed
	return rec, nil
}

// Unframe splits raw record text into header and unwrapped body. Whitespace
// in the body is dropped.
func Unframe(data []byte) (*Record, error) {
	line, rest, _ := bytes.Cut(data, []byte{'\n'})
	h, err := ParseHeader(string(line))
	if err != nil {
		return nil, err
	}

	body := make([]byte, 0, len(rest))
	atLineStart := true
	for _, c := range rest {
		switch c {
		case '\n':
			atLineStart = true
			continue
		case ' ', '\t', '\r':
			continue
		case Marker:
			if atLineStart {
				return nil, ErrMultipleRecords
			}
		}
		atLineStart = false
		body = append(body, c)
	}

	return &Record{Header: h, Body: body}, nil
}

func closeEncoder(enc *zstd.Encoder) {
	if enc != nil {
		_ = enc.Close()
	}
}
