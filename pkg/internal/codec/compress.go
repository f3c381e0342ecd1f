package codec

import (
	"bytes"
	"compress/gzip"
	"fmt"
	"io"
	"strings"

	"github.com/andybalholm/brotli"
	"github.com/golang/snappy"
	"github.com/klauspost/compress/zstd"
	"github.com/pierrec/lz4"
)

// Compression names an algorithm applied to an encoded payload.
type Compression string

const (
	CompressNone   Compression = ""
	CompressGzip   Compression = "gzip"
	CompressZstd   Compression = "zstd"
	CompressSnappy Compression = "snappy"
	CompressBrotli Compression = "br"
	CompressLZ4    Compression = "lz4"
)

// ParseCompression accepts the usual aliases ("gz", "brotli", "none").
func ParseCompression(s string) (Compression, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "none", "identity":
		return CompressNone, nil
	case "gzip", "gz", "deflate":
		return CompressGzip, nil
	case "zstd", "zstandard":
		return CompressZstd, nil
	case "snappy":
		return CompressSnappy, nil
	case "br", "brotli":
		return CompressBrotli, nil
	case "lz4":
		return CompressLZ4, nil
	default:
		return CompressNone, fmt.Errorf("codec: unsupported compression %q", s)
	}
}

// ContentEncoding is the HTTP Content-Encoding token, empty for none.
func (c Compression) ContentEncoding() string { return string(c) }

// Extension is appended to object keys after the format extension.
func (c Compression) Extension() string {
	switch c {
	case CompressGzip:
		return ".gz"
	case CompressZstd:
		return ".zst"
	case CompressSnappy:
		return ".sz"
	case CompressBrotli:
		return ".br"
	case CompressLZ4:
		return ".lz4"
	default:
		return ""
	}
}

// Compress returns data unchanged for CompressNone.
func Compress(data []byte, c Compression) ([]byte, error) {
	var b bytes.Buffer
	var w io.WriteCloser

	switch c {
	case CompressGzip:
		w = gzip.NewWriter(&b)
	case CompressSnappy:
		w = snappy.NewBufferedWriter(&b)
	case CompressZstd:
		var err error
		w, err = zstd.NewWriter(&b)
		if err != nil {
			return nil, err
		}
	case CompressBrotli:
		w = brotli.NewWriterLevel(&b, brotli.DefaultCompression)
	case CompressLZ4:
		w = lz4.NewWriter(&b)
	case CompressNone:
		return data, nil
	default:
		return nil, fmt.Errorf("codec: unsupported compression %q", string(c))
	}

	if _, err := w.Write(data); err != nil {
		return nil, err
	}
	if err := w.Close(); err != nil {
		return nil, err
	}
	return b.Bytes(), nil
}

// Decompress reverses Compress.
func Decompress(data []byte, c Compression) ([]byte, error) {
	var r io.Reader
	src := bytes.NewReader(data)

	switch c {
	case CompressNone:
		return data, nil
	case CompressGzip:
		zr, err := gzip.NewReader(src)
		if err != nil {
			return nil, err
		}
		defer zr.Close()
		r = zr
	case CompressSnappy:
		r = snappy.NewReader(src)
	case CompressZstd:
		zr, err := zstd.NewReader(src)
		if err != nil {
			return nil, err
		}
		defer zr.Close()
		r = zr
	case CompressBrotli:
		r = brotli.NewReader(src)
	case CompressLZ4:
		r = lz4.NewReader(src)
	default:
		return nil, fmt.Errorf("codec: unsupported compression %q", string(c))
	}
	return io.ReadAll(r)
}
