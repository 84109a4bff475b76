package sqlfill

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/nao1215/sqlfill/domain/model"
)

const (
	// extSQL is the extension of exported scripts
	extSQL = ".sql"
	// maxParallelWrites bounds concurrent file writes in Save
	maxParallelWrites = 4
)

// SaveOptions configures how variants are written to files.
//
// Example:
//
//	options := NewSaveOptions().WithCompression(CompressionGZ)
//	paths, err := Save(ctx, "./out", variants, options)
type SaveOptions struct {
	// Compression specifies the compression type
	Compression CompressionType
}

// NewSaveOptions creates default save options (plain .sql files).
func NewSaveOptions() SaveOptions {
	return SaveOptions{Compression: CompressionNone}
}

// WithCompression adds compression to output files.
//
// Options:
//   - CompressionNone: No compression (default)
//   - CompressionGZ: Gzip compression (.gz)
//   - CompressionXZ: XZ compression (.xz)
//   - CompressionZSTD: Zstandard compression (.zst)
//
// CompressionBZ2 cannot be written.
func (o SaveOptions) WithCompression(compression CompressionType) SaveOptions {
	o.Compression = compression
	return o
}

// FileExtension returns the complete file extension including compression
func (o SaveOptions) FileExtension() string {
	return extSQL + o.Compression.Extension()
}

// Save writes every variant to dir as <name>.sql (plus the compression
// extension) and returns the written paths in variant order. dir is created
// when missing.
func Save(ctx context.Context, dir string, variants []model.Variant, opts SaveOptions) ([]string, error) {
	if strings.TrimSpace(dir) == "" {
		return nil, errors.New("output directory cannot be empty")
	}
	if opts.Compression == CompressionBZ2 {
		return nil, errors.New("bzip2 compression is not supported for writing")
	}
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return nil, NewErrorContext("save", dir).Error(err)
	}

	paths := make([]string, len(variants))
	for i, v := range variants {
		paths[i] = filepath.Join(dir, variantFileName(v.Name)+opts.FileExtension())
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(maxParallelWrites)
	for i, v := range variants {
		i, v := i, v
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			if err := writeScript(paths[i], v.Script, opts.Compression); err != nil {
				return NewErrorContext("save", paths[i]).WithDetails(v.Name).Error(err)
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return paths, nil
}

// writeScript writes one script, newline terminated, through the compressor.
func writeScript(path, script string, compression CompressionType) (err error) {
	f, err := os.Create(path) //nolint:gosec // User-provided path is necessary for file operations
	if err != nil {
		return fmt.Errorf("failed to create file: %w", err)
	}
	defer func() {
		if closeErr := f.Close(); closeErr != nil && err == nil {
			err = closeErr
		}
	}()

	w, closeWriter, err := NewCompressionHandler(compression).CreateWriter(f)
	if err != nil {
		return err
	}
	if _, err := io.WriteString(w, script+"\n"); err != nil {
		_ = closeWriter()
		return fmt.Errorf("failed to write script: %w", err)
	}
	return closeWriter()
}

// variantFileName turns a variant name into a lower-case file name stem.
func variantFileName(name string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(name) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9', r == '-', r == '_':
			b.WriteRune(r)
		default:
			b.WriteRune('_')
		}
	}
	if b.Len() == 0 {
		return "script"
	}
	return b.String()
}
