package docfill

import (
	"io"

	"go.uber.org/zap"
)

// Options holds configuration for the Filler.
type Options struct {
	templatePath   string
	templateBytes  []byte
	templateReader io.Reader
	font           Font
	logger         *zap.Logger
	listeners      []FillListener
	preWrite       func(Transformer) error
}

func defaultOptions() *Options {
	return &Options{
		font:   DefaultFont,
		logger: zap.NewNop(),
	}
}

// Option configures the Filler.
type Option func(*Options)

// WithTemplate sets the template file path. The file is read on every fill and never written.
func WithTemplate(path string) Option {
	return func(o *Options) { o.templatePath = path }
}

// WithTemplateBytes sets the template from an in-memory .docx package.
func WithTemplateBytes(data []byte) Option {
	return func(o *Options) { o.templateBytes = data }
}

// WithTemplateReader sets the template as an io.Reader. The reader is drained
// on first use and its content reused by later fills.
func WithTemplateReader(r io.Reader) Option {
	return func(o *Options) { o.templateReader = r }
}

// WithFont sets the style applied to rewritten cells (default: Times New Roman, 9pt).
func WithFont(font Font) Option {
	return func(o *Options) { o.font = font }
}

// WithLogger sets the logger used for per-cell debug records (default: no-op).
func WithLogger(logger *zap.Logger) Option {
	return func(o *Options) {
		if logger != nil {
			o.logger = logger
		}
	}
}

// WithFillListener adds a listener notified before/after each cell rewrite.
func WithFillListener(listener FillListener) Option {
	return func(o *Options) { o.listeners = append(o.listeners, listener) }
}

// WithPreWrite sets a callback executed after all rewrites and before serialization.
func WithPreWrite(fn func(Transformer) error) Option {
	return func(o *Options) { o.preWrite = fn }
}
