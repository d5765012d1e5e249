package sheet

// encoding.go normalizes the byte stream of an uploaded sheet before parsing.
//
// Spreadsheets exported from Windows tools often start with a UTF-8 BOM and
// sometimes contain stray Latin-1 bytes. Neither should surface as a column
// name that starts with U+FEFF or break the CSV parser, so:
//
//   - bomSkippingReader drops a leading UTF-8 BOM (0xEF 0xBB 0xBF)
//   - utf8Sanitizer replaces invalid UTF-8 bytes with '?' without buffering
//     the whole file
//   - CountingReader tracks bytes read for logging
//
// Use normalize to apply the transforms in the correct order.

import (
	"bufio"
	"bytes"
	"io"
	"unicode/utf8"
)

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// bomSkippingReader discards a leading UTF-8 BOM on first read.
type bomSkippingReader struct {
	r       *bufio.Reader
	checked bool
}

func newBOMSkippingReader(r io.Reader) *bomSkippingReader {
	return &bomSkippingReader{r: bufio.NewReader(r)}
}

func (b *bomSkippingReader) Read(p []byte) (int, error) {
	if !b.checked {
		b.checked = true
		if head, err := b.r.Peek(len(utf8BOM)); err == nil && bytes.Equal(head, utf8BOM) {
			_, _ = b.r.Discard(len(utf8BOM))
		}
	}
	return b.r.Read(p)
}

// utf8Sanitizer replaces invalid UTF-8 bytes with '?'. A multi-byte rune
// split across reads is carried over to the next fill, and sanitized bytes
// that do not fit the caller's buffer are held for the next Read.
type utf8Sanitizer struct {
	r       io.Reader
	buf     []byte
	pending []byte
	out     []byte
	err     error
}

func newUTF8Sanitizer(r io.Reader) *utf8Sanitizer {
	return &utf8Sanitizer{r: r, buf: make([]byte, 4096)}
}

func (s *utf8Sanitizer) Read(p []byte) (int, error) {
	if len(p) == 0 {
		return 0, nil
	}
	for len(s.out) == 0 {
		if s.err != nil {
			return 0, s.err
		}
		s.fill()
	}
	n := copy(p, s.out)
	s.out = s.out[n:]
	return n, nil
}

// fill reads once from the source and appends the sanitized bytes to out.
func (s *utf8Sanitizer) fill() {
	n, err := s.r.Read(s.buf)
	s.err = err

	data := make([]byte, 0, len(s.pending)+n)
	data = append(data, s.pending...)
	data = append(data, s.buf[:n]...)
	s.pending = nil

	// Once the source has failed or ended, a truncated rune can never complete.
	final := err != nil
	out := make([]byte, 0, len(data))
	for read := 0; read < len(data); {
		c := data[read]
		if c < utf8.RuneSelf {
			out = append(out, c)
			read++
			continue
		}

		r, size := utf8.DecodeRune(data[read:])
		if r == utf8.RuneError && size <= 1 {
			if !final && !utf8.FullRune(data[read:]) {
				s.pending = append(s.pending, data[read:]...)
				break
			}
			out = append(out, '?')
			read++
			continue
		}

		out = append(out, data[read:read+size]...)
		read += size
	}
	s.out = out
}

// CountingReader tracks the number of bytes read through it.
type CountingReader struct {
	r         io.Reader
	BytesRead int64
}

// NewCountingReader wraps r.
func NewCountingReader(r io.Reader) *CountingReader {
	return &CountingReader{r: r}
}

// Read implements io.Reader.
func (c *CountingReader) Read(p []byte) (int, error) {
	n, err := c.r.Read(p)
	c.BytesRead += int64(n)
	return n, err
}

// normalize strips the BOM first, then sanitizes what remains.
func normalize(r io.Reader) io.Reader {
	return newUTF8Sanitizer(newBOMSkippingReader(r))
}
