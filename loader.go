package sqlfill

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"sync"

	"github.com/zeebo/xxh3"

	"github.com/nao1215/sqlfill/domain/model"
)

const (
	// DefaultCacheEntries is the number of parsed sources a Loader remembers
	DefaultCacheEntries = 16
	// pastedSourceName names datasets loaded from text without a file name
	pastedSourceName = "pasted"
)

// Dataset is a parsed data source.
type Dataset struct {
	// Name is derived from the file name, or "pasted" for text input
	Name string
	// FileType is the format the source was parsed as
	FileType FileType
	// Rows are the parsed rows; never empty
	Rows model.RowSet
	// Skipped counts delimited lines dropped for a field count mismatch
	Skipped int
}

// Loader reads, decodes, sniffs, and parses data sources. Parses of identical
// input (same name and bytes) are memoized. A Loader is safe for concurrent
// use.
type Loader struct {
	logger     *slog.Logger
	maxEntries int

	mu    sync.Mutex
	cache map[uint64]*Dataset
	order []uint64
}

// LoaderOption configures a Loader
type LoaderOption func(*Loader)

// WithLogger sets the logger used for parse diagnostics.
// slog.Default() is used when not set.
func WithLogger(logger *slog.Logger) LoaderOption {
	return func(l *Loader) {
		if logger != nil {
			l.logger = logger
		}
	}
}

// WithCacheEntries bounds the parse cache. Zero or less disables caching.
func WithCacheEntries(n int) LoaderOption {
	return func(l *Loader) {
		l.maxEntries = n
	}
}

// NewLoader creates a Loader.
func NewLoader(opts ...LoaderOption) *Loader {
	l := &Loader{
		logger:     slog.Default(),
		maxEntries: DefaultCacheEntries,
		cache:      make(map[uint64]*Dataset),
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// LoadFile reads and parses the file at path. The format is chosen from the
// file name; compressed files (.gz, .bz2, .xz, .zst) are decompressed first.
func (l *Loader) LoadFile(ctx context.Context, path string) (*Dataset, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path) //nolint:gosec // User-provided path is necessary for file operations
	if err != nil {
		return nil, NewErrorContext("load", path).Error(err)
	}
	return l.Load(ctx, filepath.Base(path), data)
}

// LoadText parses pasted text that has no file name. JSON is tried first,
// then TSV when the text contains a tab, else CSV.
func (l *Loader) LoadText(ctx context.Context, text string) (*Dataset, error) {
	return l.Load(ctx, "", []byte(text))
}

// Load parses data. name is the original file name and may be empty for
// pasted input.
func (l *Loader) Load(ctx context.Context, name string, data []byte) (*Dataset, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	key := cacheKey(name, data)
	if ds, ok := l.cached(key); ok {
		l.logger.Debug("reusing parsed data", slog.String("source", sourceLabel(name)), slog.Int("rows", ds.Rows.Len()))
		return ds, nil
	}

	ds, err := l.parse(ctx, name, data)
	if err != nil {
		return nil, err
	}
	if ds.Skipped > 0 {
		l.logger.Warn("skipped lines with mismatched field count",
			slog.String("source", sourceLabel(name)),
			slog.Int("skipped", ds.Skipped))
	}
	l.logger.Debug("parsed data",
		slog.String("source", sourceLabel(name)),
		slog.String("format", ds.FileType.String()),
		slog.Int("rows", ds.Rows.Len()))

	l.store(key, ds)
	return ds, nil
}

// parse does the uncached work of Load.
func (l *Loader) parse(ctx context.Context, name string, data []byte) (*Dataset, error) {
	ds := &Dataset{Name: pastedSourceName}
	// Pasted input is sniffed once it has been decoded.
	ft := FileTypeJSON

	if name != "" {
		var compression CompressionType
		ft, compression = DetectFileType(name)
		ds.Name = tableNameFromPath(name)

		raw, err := decompress(data, compression)
		if err != nil {
			return nil, NewErrorContext("decompress", name).WithDetails(compression.String()).Error(err)
		}
		data = raw
	}
	ds.FileType = ft
	errCtx := NewErrorContext("parse", sourceLabel(name))

	var (
		result ParseResult
		err    error
	)
	if ft.isText() {
		text, derr := decodeText(data)
		if derr != nil {
			return nil, errCtx.WithFormat(ft).Error(derr)
		}
		if name == "" {
			ft = sniffText(text)
			ds.FileType = ft
		}
		result, err = parseText(text, ft, name != "")
	} else {
		switch ft {
		case FileTypeXLSX:
			result, err = ParseXLSX(data)
		case FileTypeParquet:
			result, err = ParseParquet(ctx, data)
		default:
			err = fmt.Errorf("%w: unsupported file type %s", model.ErrFormat, ft)
		}
	}
	if err != nil {
		return nil, errCtx.WithFormat(ft).Error(err)
	}
	if result.Rows.Len() == 0 {
		return nil, errCtx.WithFormat(ft).Error(model.ValidationErrors{msgEmptyRows})
	}

	ds.Rows = result.Rows
	ds.Skipped = result.Skipped
	return ds, nil
}

// parseText dispatches decoded text to its parser. Envelope unwrapping of
// JSON applies only to named files.
func parseText(text string, ft FileType, fromFile bool) (ParseResult, error) {
	switch ft {
	case FileTypeCSV:
		return ParseCSV(text)
	case FileTypeTSV:
		return ParseTSV(text)
	default:
		if fromFile {
			return parseJSONFile(text)
		}
		return ParseJSON(text)
	}
}

// decompress inflates data according to compression.
func decompress(data []byte, compression CompressionType) ([]byte, error) {
	if compression == CompressionNone {
		return data, nil
	}
	reader, closer, err := NewCompressionHandler(compression).CreateReader(bytes.NewReader(data))
	if err != nil {
		return nil, err
	}
	out, err := io.ReadAll(reader)
	if cerr := closer(); cerr != nil && err == nil {
		err = cerr
	}
	if err != nil {
		return nil, errors.Join(model.ErrFormat, err)
	}
	return out, nil
}

// cacheKey hashes the source name and content.
func cacheKey(name string, data []byte) uint64 {
	h := xxh3.New()
	_, _ = h.WriteString(name)
	_, _ = h.Write([]byte{0})
	_, _ = h.Write(data)
	return h.Sum64()
}

// cached returns the memoized dataset for key.
func (l *Loader) cached(key uint64) (*Dataset, bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	ds, ok := l.cache[key]
	return ds, ok
}

// store memoizes ds, evicting the oldest entry when the cache is full.
func (l *Loader) store(key uint64, ds *Dataset) {
	if l.maxEntries <= 0 {
		return
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	if _, ok := l.cache[key]; ok {
		return
	}
	for len(l.order) >= l.maxEntries {
		delete(l.cache, l.order[0])
		l.order = l.order[1:]
	}
	l.cache[key] = ds
	l.order = append(l.order, key)
}

// sourceLabel names a source in logs and errors.
func sourceLabel(name string) string {
	if name == "" {
		return pastedSourceName
	}
	return name
}
