package armor

import (
	"bytes"
	"errors"
	"fmt"
	"io"
)

const readBufferSize = 4096

// reader decodes armored text read from an underlying reader.
type reader struct {
	src io.Reader
	dec *Decoder
	buf []byte
	in  []byte
	eof bool
	err error
}

// NewReader returns an io.Reader which reads armored text from src and decodes it with dec. When
// the armor ends, the reader closes dec and returns io.EOF if it verified, or the verification
// error otherwise. The caller must not use dec other than to call Title or Headers.
func NewReader(src io.Reader, dec *Decoder) io.Reader {
	return &reader{
		src: src,
		dec: dec,
		buf: make([]byte, readBufferSize),
	}
}

func (r *reader) Read(p []byte) (int, error) {
	if r.err != nil {
		return 0, r.err
	}

	if len(p) == 0 {
		return 0, nil
	}

	for {
		n, m, err := r.dec.Process(p, r.in)
		r.in = r.in[m:]

		if err != nil && !errors.Is(err, io.ErrShortBuffer) {
			r.err = err

			return n, err
		}

		if n > 0 {
			return n, nil
		}

		// Stop at the END line or at the end of the input.
		if r.dec.done() || r.eof {
			r.err = r.dec.Close()
			if r.err == nil {
				r.err = io.EOF
			}

			return 0, r.err
		}

		// Process consumes all input unless it returns an error, so r.in is empty here.
		k, err := r.src.Read(r.buf)
		r.in = r.buf[:k]

		if errors.Is(err, io.EOF) {
			r.eof = true
		} else if err != nil {
			r.err = fmt.Errorf("armor: reading: %w", err)

			return 0, r.err
		}
	}
}

var _ io.Reader = &reader{}

// Encode returns the armored encoding of b.
func Encode(b []byte, title string, headers map[string]string) ([]byte, error) {
	buf := bytes.NewBuffer(nil)

	enc, err := NewEncoder(buf, title, headers)
	if err != nil {
		return nil, err
	}

	if _, err := enc.Write(b); err != nil {
		return nil, err
	}

	if err := enc.Close(); err != nil {
		return nil, err
	}

	return buf.Bytes(), nil
}

// Decode returns the data armored in text. If title is not empty, text before the BEGIN line and
// after the END line is ignored.
func Decode(text []byte, title string) ([]byte, error) {
	dst := bytes.NewBuffer(nil)
	if _, err := io.Copy(dst, NewReader(bytes.NewReader(text), NewDecoder(title))); err != nil {
		return nil, err
	}

	return dst.Bytes(), nil
}
