package sphinx

import (
	"context"
	"errors"
	"fmt"
	"io"

	"go.uber.org/zap"
)

// DefaultMaxBuf limits size of a single token, Sphinx pages never come close.
const DefaultMaxBuf = 4 << 20

// how often cancellation is checked
const checkEvery = 64

type options struct {
	log     *zap.Logger
	markers Markers
	maxBuf  int
}

// Option configures conversion.
type Option func(*options)

// WithLogger sets logger for conversion diagnostics.
func WithLogger(log *zap.Logger) Option {
	return func(o *options) {
		if log != nil {
			o.log = log
		}
	}
}

// WithMarkers overrides class names recognized by classifier.
func WithMarkers(m Markers) Option {
	return func(o *options) {
		o.markers = m
	}
}

// WithMaxBuf sets maximum size of a single token, 0 means no limit.
func WithMaxBuf(n int) Option {
	return func(o *options) {
		o.maxBuf = n
	}
}

// Convert reads the whole document from r and converts it.
func Convert(ctx context.Context, r io.Reader, opts ...Option) (*Document, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, &ParseError{Offset: len(data), Err: fmt.Errorf("%w: %w", ErrTruncated, err)}
	}
	return ConvertBytes(ctx, data, opts...)
}

// ConvertBytes converts fully loaded document. Only tokenizer level failures
// are reported as errors (*ParseError), unexpected markup is ignored.
func ConvertBytes(ctx context.Context, data []byte, opts ...Option) (*Document, error) {
	o := options{
		log:     zap.NewNop(),
		markers: DefaultMarkers(),
		maxBuf:  DefaultMaxBuf,
	}
	for _, opt := range opts {
		opt(&o)
	}

	c := newConverter(o.markers, o.log)
	z := NewTokenizer(data, o.maxBuf)

	for n := 0; ; n++ {
		if n%checkEvery == 0 {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
		}
		ev, err := z.Next()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, err
		}
		c.handle(ev)
	}

	doc := &Document{Runs: c.out.runs, TOC: c.toc.entries}
	o.log.Debug("Conversion pass completed",
		zap.Int("runs", len(doc.Runs)),
		zap.Int("toc", len(doc.TOC)),
		zap.String("prefix", c.state.prefix),
		zap.Int("unhandled", c.state.unhandled),
		zap.Int("suppressed", c.state.suppressed))
	return doc, nil
}
