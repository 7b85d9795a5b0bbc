package purc

import (
	"io"
	"log/slog"
	"time"

	"github.com/purc-go/purc/tokenizer"
)

// Option configures LoadFromStream and its LoadFromString/File/URL
// wrappers: cache TTLs, eJSON/JSONEE nesting depth, the file-header and
// raw-attribute tokenizer flags, the lenient-mode toggle, logging, and
// the URL fetcher collaborator. Follows the teacher's functional-options
// shape (go-xml's xml.Option).
type Option func(*config)

type config struct {
	maxDepth       int
	inFileHeader   bool
	rawAttrTags    []string
	lenient        bool
	logger         *slog.Logger
	fetcher        Fetcher
	stringCacheTTL time.Duration
	urlCacheTTL    time.Duration
}

func newConfig(opts []Option) *config {
	cfg := &config{
		lenient:        true,
		logger:         slog.Default(),
		stringCacheTTL: DefaultStringCacheTTL,
		urlCacheTTL:    DefaultURLCacheTTL,
	}
	for _, o := range opts {
		o(cfg)
	}
	return cfg
}

func (cfg *config) tokenizerOptions() []tokenizer.Option {
	var opts []tokenizer.Option
	if cfg.maxDepth > 0 {
		opts = append(opts, tokenizer.WithMaxDepth(cfg.maxDepth))
	}
	if cfg.inFileHeader {
		opts = append(opts, tokenizer.WithInFileHeader())
	}
	if len(cfg.rawAttrTags) > 0 {
		opts = append(opts, tokenizer.WithRawAttributeTags(cfg.rawAttrTags...))
	}
	return opts
}

// WithMaxJSONEEDepth overrides the eJSON/JSONEE nesting bound enforced
// while scanning embedded expressions (default ejson.DefaultMaxDepth).
func WithMaxJSONEEDepth(n int) Option {
	return func(cfg *config) { cfg.maxDepth = n }
}

// WithInFileHeader marks the source as HVML's file-header form, relaxing
// DOCTYPE-placement recovery (tokenizer.WithInFileHeader).
func WithInFileHeader() Option {
	return func(cfg *config) { cfg.inFileHeader = true }
}

// WithRawAttributeTags marks tag names whose attribute values are scanned
// as literal text instead of delegated to eJSON
// (tokenizer.WithRawAttributeTags).
func WithRawAttributeTags(names ...string) Option {
	return func(cfg *config) { cfg.rawAttrTags = append(cfg.rawAttrTags, names...) }
}

// WithLenient controls whether a recoverable VDOM structural error
// (logged, smallest-damage recovery, parse continues) still lets
// LoadFromStream return the built document. true (the default) returns
// the document regardless; false fails the whole call with the first
// recorded error once the generator's Errors is non-empty - for a caller
// that wants "log and continue" at the VDOM layer but "fail the load" at
// the front-end-entry-point layer, e.g. a conformance test runner.
func WithLenient(lenient bool) Option {
	return func(cfg *config) { cfg.lenient = lenient }
}

// WithLogger overrides the default logger (slog.Default()) that the
// tokenizer and generator use to report recoverable errors.
func WithLogger(l *slog.Logger) Option {
	return func(cfg *config) { cfg.logger = l }
}

// WithFetcher supplies the collaborator LoadFromURL uses to retrieve a
// source over the network. There is no default: omitting this makes
// LoadFromURL fail immediately rather than silently doing network I/O.
func WithFetcher(f Fetcher) Option {
	return func(cfg *config) { cfg.fetcher = f }
}

// WithStringCacheTTL overrides the document cache's entry lifetime for
// LoadFromString/LoadFromFile (default DefaultStringCacheTTL).
func WithStringCacheTTL(d time.Duration) Option {
	return func(cfg *config) { cfg.stringCacheTTL = d }
}

// WithURLCacheTTL overrides the document cache's entry lifetime for
// LoadFromURL (default DefaultURLCacheTTL).
func WithURLCacheTTL(d time.Duration) Option {
	return func(cfg *config) { cfg.urlCacheTTL = d }
}

// DiscardLogger returns a logger that writes nothing, for a caller that
// only wants the returned error value and not the recoverable-error log
// stream.
func DiscardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}
