package armor

import (
	"fmt"
	"io"

	"github.com/codahale/radix64/pkg/armor/internal/banner"
	"github.com/codahale/radix64/pkg/armor/internal/crc24"
	"github.com/codahale/radix64/pkg/armor/internal/quad"
)

// Encoder armors data written to it and writes the result to an underlying writer.
type Encoder struct {
	dst     io.Writer
	title   string
	status  status
	err     error
	crc     *crc24.Digest
	pending [quad.BinarySize]byte
	n       int
	col     int
	buf     []byte
}

// NewEncoder returns an Encoder which writes armored data to dst. If title is not empty, the BEGIN
// line and headers are written immediately. Headers require a title.
//
// The caller must call Close to write the checksum and END lines. Closing the Encoder does not
// close dst.
func NewEncoder(dst io.Writer, title string, headers map[string]string) (*Encoder, error) {
	e := &Encoder{dst: dst, title: title, crc: crc24.New()}

	if title == "" {
		if len(headers) > 0 {
			return nil, fmt.Errorf("%w: headers require a title", ErrInvalidBanner)
		}

		return e, nil
	}

	if err := banner.ValidTitle(title); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidBanner, err)
	}

	lines, err := banner.Headers(headers)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidBanner, err)
	}

	e.line(banner.Begin(title))

	for _, l := range lines {
		e.line(l)
	}

	e.line("")

	if err := e.flush(); err != nil {
		return nil, err
	}

	return e, nil
}

// Write armors p. Complete groups are written to the underlying writer; up to two bytes are
// buffered until the next call to Write or Close.
func (e *Encoder) Write(p []byte) (int, error) {
	if err := e.check(); err != nil {
		return 0, err
	}

	_, _ = e.crc.Write(p)

	var q [quad.TextSize]byte

	for _, b := range p {
		e.pending[e.n] = b
		e.n++

		if e.n == quad.BinarySize {
			quad.Pack(&q, e.pending[:])
			e.group(q)
			e.n = 0
		}
	}

	if err := e.flush(); err != nil {
		return 0, err
	}

	return len(p), nil
}

// Close writes the final group, the checksum line, and the END line, if any.
func (e *Encoder) Close() error {
	if err := e.check(); err != nil {
		return err
	}

	// Pad the final group.
	if e.n > 0 {
		var q [quad.TextSize]byte

		quad.Pack(&q, e.pending[:e.n])
		e.group(q)
		e.n = 0
		e.pending = [quad.BinarySize]byte{}
	}

	// Terminate the last body line.
	if e.col > 0 {
		e.buf = append(e.buf, '\n')
		e.col = 0
	}

	e.line(banner.Checksum(e.crc.Bytes()))

	if e.title != "" {
		e.line(banner.End(e.title))
	}

	if err := e.flush(); err != nil {
		return err
	}

	e.status = statusClosed

	return nil
}

func (e *Encoder) check() error {
	switch e.status {
	case statusClosed:
		return ErrClosed
	case statusFailed:
		return e.err
	default:
		return nil
	}
}

func (e *Encoder) group(q [quad.TextSize]byte) {
	e.buf = append(e.buf, q[:]...)
	e.col += quad.TextSize

	if e.col == LineLength {
		e.buf = append(e.buf, '\n')
		e.col = 0
	}
}

func (e *Encoder) line(s string) {
	e.buf = append(e.buf, s...)
	e.buf = append(e.buf, '\n')
}

func (e *Encoder) flush() error {
	if len(e.buf) == 0 {
		return nil
	}

	_, err := e.dst.Write(e.buf)
	e.buf = e.buf[:0]

	if err != nil {
		e.status = statusFailed
		e.err = fmt.Errorf("armor: writing: %w", err)

		return e.err
	}

	return nil
}

var _ io.WriteCloser = &Encoder{}
