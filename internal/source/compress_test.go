package source

import (
	"bytes"
	"context"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zstd"
	"github.com/pierrec/lz4/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCompressionFor(t *testing.T) {
	tests := []struct {
		path string
		want Compression
	}{
		{"data.csv", CompressionNone},
		{"data.csv.gz", CompressionGzip},
		{"DATA.CSV.GZ", CompressionGzip},
		{"data.csv.zst", CompressionZstd},
		{"data.csv.zstd", CompressionZstd},
		{"data.csv.lz4", CompressionLZ4},
		{"data", CompressionNone},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			assert.Equal(t, tt.want, CompressionFor(tt.path))
		})
	}
}

const compressedCSV = "id,name\n1,a\n2,b\n3,c\n"

func compressWith(t *testing.T, c Compression, data string) []byte {
	t.Helper()
	var buf bytes.Buffer

	var w io.WriteCloser
	switch c {
	case CompressionGzip:
		w = gzip.NewWriter(&buf)
	case CompressionZstd:
		enc, err := zstd.NewWriter(&buf)
		require.NoError(t, err)
		w = enc
	case CompressionLZ4:
		w = lz4.NewWriter(&buf)
	default:
		t.Fatalf("no writer for %q", c)
	}

	_, err := io.WriteString(w, data)
	require.NoError(t, err)
	require.NoError(t, w.Close())
	return buf.Bytes()
}

func TestLoadCSV_Compressed(t *testing.T) {
	tests := []struct {
		name string
		file string
		c    Compression
	}{
		{"gzip", "data.csv.gz", CompressionGzip},
		{"zstd", "data.csv.zst", CompressionZstd},
		{"lz4", "data.csv.lz4", CompressionLZ4},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), tt.file)
			require.NoError(t, os.WriteFile(path, compressWith(t, tt.c, compressedCSV), 0o644))

			ds, err := LoadCSV(context.Background(), path, defaultCSVOptions())
			require.NoError(t, err)
			assert.Equal(t, []string{"id", "name"}, ds.ColumnNames())
			assert.Equal(t, 3, ds.NumRows())
		})
	}
}

func TestLoadCSV_CorruptGzip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "data.csv.gz")
	require.NoError(t, os.WriteFile(path, []byte(compressedCSV), 0o644))

	_, err := LoadCSV(context.Background(), path, defaultCSVOptions())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "gzip")
}
