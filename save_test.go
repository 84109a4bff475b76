package sqlfill

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nao1215/sqlfill/domain/model"
)

func TestSaveOptions_FileExtension(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name        string
		compression CompressionType
		want        string
	}{
		{name: "plain", compression: CompressionNone, want: ".sql"},
		{name: "gzip", compression: CompressionGZ, want: ".sql.gz"},
		{name: "xz", compression: CompressionXZ, want: ".sql.xz"},
		{name: "zstd", compression: CompressionZSTD, want: ".sql.zst"},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got := NewSaveOptions().WithCompression(tt.compression).FileExtension()
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestSave(t *testing.T) {
	t.Parallel()

	variants := []model.Variant{
		{Name: model.VariantAll, Script: "INSERT INTO t VALUES\n(1),\n(NULL)", RowCount: 2},
		{Name: model.VariantWithNull, Script: "INSERT INTO t VALUES\n(NULL)", RowCount: 1},
		{Name: model.BatchName(1), Script: "INSERT INTO t VALUES\n(1)", RowCount: 1},
	}

	for _, compression := range []CompressionType{CompressionNone, CompressionGZ, CompressionXZ, CompressionZSTD} {
		compression := compression
		t.Run(compression.String(), func(t *testing.T) {
			t.Parallel()

			dir := filepath.Join(t.TempDir(), "nested", "out")
			opts := NewSaveOptions().WithCompression(compression)
			paths, err := Save(context.Background(), dir, variants, opts)
			require.NoError(t, err)

			ext := opts.FileExtension()
			assert.Equal(t, []string{
				filepath.Join(dir, "all"+ext),
				filepath.Join(dir, "with-null"+ext),
				filepath.Join(dir, "batch-1"+ext),
			}, paths)

			for i, path := range paths {
				assert.Equal(t, variants[i].Script+"\n", readScript(t, path, compression))
			}
		})
	}
}

func TestSave_Errors(t *testing.T) {
	t.Parallel()

	variants := []model.Variant{{Name: model.VariantAll, Script: "SELECT 1", RowCount: 1}}

	t.Run("bzip2 is rejected", func(t *testing.T) {
		t.Parallel()
		_, err := Save(context.Background(), t.TempDir(), variants, NewSaveOptions().WithCompression(CompressionBZ2))
		require.Error(t, err)
	})

	t.Run("empty directory", func(t *testing.T) {
		t.Parallel()
		_, err := Save(context.Background(), " ", variants, NewSaveOptions())
		require.Error(t, err)
	})

	t.Run("directory is a file", func(t *testing.T) {
		t.Parallel()
		file := filepath.Join(t.TempDir(), "file")
		require.NoError(t, os.WriteFile(file, nil, 0o600))
		_, err := Save(context.Background(), file, variants, NewSaveOptions())
		require.Error(t, err)
	})

	t.Run("canceled context", func(t *testing.T) {
		t.Parallel()
		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		_, err := Save(ctx, t.TempDir(), variants, NewSaveOptions())
		require.ErrorIs(t, err, context.Canceled)
	})
}

func TestVariantFileName(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "without-null", variantFileName(model.VariantWithoutNull))
	assert.Equal(t, "batch-12", variantFileName(model.BatchName(12)))
	assert.Equal(t, "a_b_c", variantFileName("a/b c"))
	assert.Equal(t, "script", variantFileName(""))
}

// readScript reads a saved script back through its decompressor.
func readScript(t *testing.T, path string, compression CompressionType) string {
	t.Helper()

	f, err := os.Open(path) //nolint:gosec // test file path
	require.NoError(t, err)
	defer f.Close()

	r, closeReader, err := NewCompressionHandler(compression).CreateReader(f)
	require.NoError(t, err)
	defer func() {
		_ = closeReader()
	}()
	data, err := io.ReadAll(r)
	require.NoError(t, err)
	return string(data)
}
