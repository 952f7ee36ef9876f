// Package parser decodes match event files (flattened CSV, StatsBomb JSON or
// JSON lines, optionally gzip-compressed) into model.EventRecord streams.
package parser

import (
	"bufio"
	"context"
	"crypto/sha256"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/klauspost/compress/gzip"

	"github.com/pable/go-football-metrics/internal/logger"
	"github.com/pable/go-football-metrics/internal/model"
)

// ErrUnsupportedFormat is returned when a file's format cannot be determined
// or is not one of the known event formats.
var ErrUnsupportedFormat = errors.New("unsupported event format")

// Format names an input encoding.
type Format string

const (
	FormatAuto Format = "auto"
	FormatCSV  Format = "csv"
	FormatJSON Format = "json"
)

// ParseFormat validates a --format value.
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimSpace(s))); f {
	case "", FormatAuto:
		return FormatAuto, nil
	case FormatCSV, FormatJSON:
		return f, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnsupportedFormat, s)
}

// DetectFormat guesses the format from the file name, ignoring a trailing .gz.
func DetectFormat(path string) (Format, error) {
	name := strings.TrimSuffix(strings.ToLower(filepath.Base(path)), ".gz")
	switch filepath.Ext(name) {
	case ".csv":
		return FormatCSV, nil
	case ".json", ".jsonl", ".ndjson":
		return FormatJSON, nil
	}
	return "", fmt.Errorf("%w: %s", ErrUnsupportedFormat, path)
}

// MatchIDFromPath returns the match id encoded in a StatsBomb file name such
// as "3773585.json", or "" when the stem is not numeric.
func MatchIDFromPath(path string) string {
	stem := filepath.Base(path)
	for {
		ext := filepath.Ext(stem)
		if ext == "" {
			break
		}
		stem = strings.TrimSuffix(stem, ext)
	}
	if stem == "" {
		return ""
	}
	for _, r := range stem {
		if r < '0' || r > '9' {
			return ""
		}
	}
	return stem
}

// Source yields events until io.EOF.
type Source interface {
	Next() (*model.EventRecord, error)
}

// Reader streams the events of one file.
type Reader struct {
	Path   string
	Format Format

	src     Source
	closers []io.Closer
	events  int
}

// Open opens path for streaming. Gzip input is detected from its magic bytes.
func Open(path string, format Format) (*Reader, error) {
	if format == "" || format == FormatAuto {
		f, err := DetectFormat(path)
		if err != nil {
			return nil, err
		}
		format = f
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open events: %w", err)
	}
	rd := &Reader{Path: path, Format: format, closers: []io.Closer{f}}

	body, err := maybeGunzip(bufio.NewReader(f), rd)
	if err != nil {
		rd.Close()
		return nil, fmt.Errorf("open events %s: %w", path, err)
	}

	matchID := MatchIDFromPath(path)
	switch format {
	case FormatCSV:
		rd.src, err = newCSVReader(body, matchID)
	case FormatJSON:
		rd.src, err = newJSONReader(body, matchID)
	default:
		err = fmt.Errorf("%w: %s", ErrUnsupportedFormat, format)
	}
	if err != nil {
		rd.Close()
		return nil, fmt.Errorf("open events %s: %w", path, err)
	}
	logger.Named("parser").Debug(context.Background(), "events file opened",
		logger.String("path", path), logger.String("format", string(format)))
	return rd, nil
}

func maybeGunzip(br *bufio.Reader, rd *Reader) (io.Reader, error) {
	magic, err := br.Peek(2)
	if err != nil || magic[0] != 0x1f || magic[1] != 0x8b {
		return br, nil
	}
	zr, err := gzip.NewReader(br)
	if err != nil {
		return nil, fmt.Errorf("gzip: %w", err)
	}
	rd.closers = append(rd.closers, zr)
	return zr, nil
}

// Next returns the next event or io.EOF.
func (r *Reader) Next() (*model.EventRecord, error) {
	ev, err := r.src.Next()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, io.EOF
		}
		return nil, fmt.Errorf("%s: %w", r.Path, err)
	}
	r.events++
	return ev, nil
}

// Events returns how many events have been read.
func (r *Reader) Events() int { return r.events }

// Close releases the underlying file.
func (r *Reader) Close() error {
	var first error
	for i := len(r.closers) - 1; i >= 0; i-- {
		if err := r.closers[i].Close(); err != nil && first == nil {
			first = err
		}
	}
	r.closers = nil
	return first
}

// MultiReader reads several files back to back, opening each lazily.
type MultiReader struct {
	paths  []string
	format Format
	cur    *Reader
	next   int
	events int
}

// OpenAll returns a reader over every path in order.
func OpenAll(paths []string, format Format) *MultiReader {
	return &MultiReader{paths: paths, format: format}
}

// Next implements the event source contract.
func (m *MultiReader) Next() (*model.EventRecord, error) {
	for {
		if m.cur == nil {
			if m.next >= len(m.paths) {
				return nil, io.EOF
			}
			rd, err := Open(m.paths[m.next], m.format)
			if err != nil {
				return nil, err
			}
			m.next++
			m.cur = rd
		}
		ev, err := m.cur.Next()
		if errors.Is(err, io.EOF) {
			m.cur.Close()
			m.cur = nil
			continue
		}
		if err != nil {
			return nil, err
		}
		m.events++
		return ev, nil
	}
}

// Events returns how many events have been read across all files.
func (m *MultiReader) Events() int { return m.events }

// Close closes the file currently open, if any.
func (m *MultiReader) Close() error {
	if m.cur == nil {
		return nil
	}
	err := m.cur.Close()
	m.cur = nil
	return err
}

// MatchLimiter passes through only events of the first n distinct matches.
// For arbitrary input it must read to the end, discarding later matches,
// since an admitted match may reappear. An ordered limiter assumes each
// match's events are contiguous (as fetch writes them) and stops at the
// first event of match n+1.
type MatchLimiter struct {
	src     Source
	n       int
	ordered bool
	done    bool
	allowed map[string]struct{}
}

// LimitMatches wraps src; n <= 0 disables the limit.
func LimitMatches(src Source, n int) *MatchLimiter {
	return &MatchLimiter{src: src, n: n, allowed: make(map[string]struct{})}
}

// LimitOrderedMatches is LimitMatches for match-contiguous input.
func LimitOrderedMatches(src Source, n int) *MatchLimiter {
	l := LimitMatches(src, n)
	l.ordered = true
	return l
}

// Next implements the event source contract.
func (l *MatchLimiter) Next() (*model.EventRecord, error) {
	if l.done {
		return nil, io.EOF
	}
	for {
		ev, err := l.src.Next()
		if err != nil || l.n <= 0 {
			return ev, err
		}
		if _, ok := l.allowed[ev.MatchID]; ok {
			return ev, nil
		}
		if len(l.allowed) < l.n {
			l.allowed[ev.MatchID] = struct{}{}
			return ev, nil
		}
		if l.ordered {
			l.done = true
			return nil, io.EOF
		}
	}
}

// HashFiles returns a sha256 over the contents of paths, used as the
// idempotency key of an aggregation run.
func HashFiles(paths []string) (string, error) {
	h := sha256.New()
	for _, p := range paths {
		f, err := os.Open(p)
		if err != nil {
			return "", fmt.Errorf("hash events: %w", err)
		}
		_, err = io.Copy(h, f)
		f.Close()
		if err != nil {
			return "", fmt.Errorf("hash events: %w", err)
		}
	}
	return fmt.Sprintf("%x", h.Sum(nil)), nil
}
