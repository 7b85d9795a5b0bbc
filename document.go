package purc

import (
	"bytes"
	"context"
	"crypto/md5"
	"fmt"
	"io"
	"os"

	"github.com/purc-go/purc/internal/reader"
	"github.com/purc-go/purc/tokenizer"
	"github.com/purc-go/purc/vdom"
)

// Document is a parsed HVML document: the VDOM tree returned by a
// generator's End().
type Document = vdom.Node

// Fetcher is the collaborator LoadFromURL uses to retrieve a source over
// the network (spec §6: "the core requests bytes via an abstract fetcher
// collaborator with signature fetch(url, timeout_s) -> (status, bytes,
// mime)"). purc ships no default implementation; a caller that wants
// LoadFromURL to work supplies one via WithFetcher (no network I/O is a
// stated Non-goal of the parser itself).
type Fetcher interface {
	Fetch(ctx context.Context, url string, timeoutS int) (status int, body []byte, mime string, err error)
}

// LoadFromStream implements C11's load_from_stream: create a tokenizer
// and generator bound to r, push every token to the generator until EOF
// or a tokenizer error, then return generator.End(). A lexical error
// aborts and returns nil with the error populated; a recoverable VDOM
// structural error is logged and does not abort unless WithLenient(false)
// was given, matching §4.7/§7's "partially built trees are never
// exposed" (a failed load never returns a non-nil *Document).
func LoadFromStream(r io.Reader, opts ...Option) (*Document, error) {
	cfg := newConfig(opts)

	rd := reader.New(r, 64)
	tz := tokenizer.New(rd, cfg.tokenizerOptions()...)
	gen := vdom.New(vdom.WithLogger(cfg.logger))

	for {
		tok, err := tz.Next()
		if err != nil {
			return nil, err
		}
		if err := gen.PushToken(tz, tok); err != nil {
			return nil, err
		}
		if tok.Kind == tokenizer.EOFToken {
			break
		}
	}

	for _, e := range tz.Errors {
		cfg.logger.Warn("tokenizer: recoverable error", "kind", e.Kind.String(), "pos", e.Pos.String(), "msg", e.Msg)
	}

	doc := gen.End()
	if !cfg.lenient && len(gen.Errors) > 0 {
		return nil, gen.Errors[0]
	}
	return doc, nil
}

// LoadFromString implements load_from_string: LoadFromStream over s,
// wrapped by the process-wide document cache keyed by the MD5 of s
// (spec §4.7/§6), with the default string/file TTL unless overridden by
// WithStringCacheTTL.
func LoadFromString(s string, opts ...Option) (*Document, error) {
	cfg := newConfig(opts)

	key := cacheKey(md5.Sum([]byte(s)))
	if doc, ok := defaultCache.get(key); ok {
		return doc, nil
	}

	doc, err := LoadFromStream(bytes.NewReader([]byte(s)), opts...)
	if err != nil {
		return nil, err
	}
	defaultCache.put(key, doc, cfg.stringCacheTTL, len(s))
	return doc, nil
}

// LoadFromFile implements load_from_file: reads path fully - spec §6's
// "byte-oriented; read sequentially; no seek required" is satisfied by a
// single full read here - then behaves as LoadFromString over its bytes.
func LoadFromFile(path string, opts ...Option) (*Document, error) {
	cfg := newConfig(opts)

	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("purc: load_from_file %q: %w", path, err)
	}

	key := cacheKey(md5.Sum(b))
	if doc, ok := defaultCache.get(key); ok {
		return doc, nil
	}

	doc, err := LoadFromStream(bytes.NewReader(b), opts...)
	if err != nil {
		return nil, err
	}
	defaultCache.put(key, doc, cfg.stringCacheTTL, len(b))
	return doc, nil
}

// LoadFromURL implements load_from_url: the cache key is the MD5 of the
// URL string itself, not of its body (spec §6: "16-byte MD5 of the raw
// source bytes (or URL for network loads)"), so repeated loads of the
// same URL reuse the cached document - and never refetch - until it
// expires under the (shorter) default URL TTL. Fetching requires a
// Fetcher configured via WithFetcher; only a 2xx response body is parsed.
func LoadFromURL(ctx context.Context, url string, timeoutS int, opts ...Option) (*Document, error) {
	cfg := newConfig(opts)
	if cfg.fetcher == nil {
		return nil, fmt.Errorf("purc: load_from_url %q: no Fetcher configured (WithFetcher)", url)
	}

	key := cacheKey(md5.Sum([]byte(url)))
	if doc, ok := defaultCache.get(key); ok {
		return doc, nil
	}

	status, body, _, err := cfg.fetcher.Fetch(ctx, url, timeoutS)
	if err != nil {
		return nil, fmt.Errorf("purc: load_from_url %q: %w", url, err)
	}
	if status < 200 || status >= 300 {
		return nil, fmt.Errorf("purc: load_from_url %q: non-2xx status %d", url, status)
	}

	doc, err := LoadFromStream(bytes.NewReader(body), opts...)
	if err != nil {
		return nil, err
	}
	defaultCache.put(key, doc, cfg.urlCacheTTL, len(body))
	return doc, nil
}
