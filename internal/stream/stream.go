// Package stream opens baseline files for the extractor, decompressing
// gzip transparently. Baseline distributions ship as .xml.gz; sniffing the
// magic bytes instead of trusting the name also covers piped input.
package stream

import (
	"bufio"
	"fmt"
	"io"
	"os"

	gzip "github.com/klauspost/pgzip"
)

const peekSize = 2

// Reader wraps r with gzip decompression when its first bytes carry the
// gzip magic, and returns it untouched otherwise.
func Reader(r io.Reader) (io.Reader, error) {
	br := bufio.NewReader(r)
	head, err := br.Peek(peekSize)
	if err != nil && err != io.EOF {
		return nil, fmt.Errorf("sniff input: %w", err)
	}
	if len(head) == peekSize && head[0] == 0x1f && head[1] == 0x8b {
		gz, err := gzip.NewReader(br)
		if err != nil {
			return nil, fmt.Errorf("open gzip stream: %w", err)
		}
		return gz, nil
	}
	return br, nil
}

// Open opens path for reading with transparent decompression. An empty
// path means stdin.
func Open(path string) (io.ReadCloser, error) {
	if path == "" {
		r, err := Reader(os.Stdin)
		if err != nil {
			return nil, err
		}
		return io.NopCloser(r), nil
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	r, err := Reader(f)
	if err != nil {
		f.Close()
		return nil, err
	}
	return &readCloser{Reader: r, file: f}, nil
}

type readCloser struct {
	io.Reader
	file *os.File
}

func (rc *readCloser) Close() error {
	if c, ok := rc.Reader.(io.Closer); ok {
		c.Close()
	}
	return rc.file.Close()
}
