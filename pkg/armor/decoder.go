package armor

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/codahale/radix64/pkg/armor/internal/banner"
	"github.com/codahale/radix64/pkg/armor/internal/crc24"
	"github.com/codahale/radix64/pkg/armor/internal/quad"
)

// phase tracks where in the armor a Decoder is.
type phase int

const (
	phaseSeek     phase = iota // skipping text before the BEGIN line
	phaseHeaders               // reading header lines up to the blank line
	phaseBody                  // reading groups
	phasePadding               // inside a final group which has started padding
	phaseChecksum              // reading the checksum line
	phaseTrailer               // after the final group or checksum
	phaseFooter                // reading the END line
	phaseDone                  // END line seen; remaining text is ignored
)

// Decoder removes armor from text passed to Process.
type Decoder struct {
	title    string
	anyTitle bool
	framed   bool
	headers  map[string]string

	status status
	phase  phase
	err    error
	offset int64

	crc     *crc24.Digest
	pending [quad.TextSize]byte
	n       int
	sum     [quad.TextSize]byte
	sumN    int

	line     []byte
	overflow bool
	midLine  bool

	out    []byte
	outPos int
}

// NewDecoder returns a Decoder for armor with the given title. If title is not empty, any text
// before the matching BEGIN line is skipped and the armor must end with the matching END line. If
// title is empty, the text must be a bare body followed by an optional checksum line.
func NewDecoder(title string) *Decoder {
	d := &Decoder{
		title:   title,
		framed:  title != "",
		headers: make(map[string]string),
		crc:     crc24.New(),
		phase:   phaseBody,
	}

	if d.framed {
		d.phase = phaseSeek
	}

	return d
}

// NewBannerDecoder returns a Decoder which accepts the first BEGIN line of any title. The title is
// available via Title once the BEGIN line has been processed.
func NewBannerDecoder() *Decoder {
	d := NewDecoder("")
	d.anyTitle = true
	d.framed = true
	d.phase = phaseSeek

	return d
}

// Title returns the title of the armor, or an empty string if no BEGIN line has been seen.
func (d *Decoder) Title() string {
	if d.phase == phaseSeek {
		return ""
	}

	return d.title
}

// Headers returns a copy of the armor headers seen so far.
func (d *Decoder) Headers() map[string]string {
	h := make(map[string]string, len(d.headers))
	for k, v := range d.headers {
		h[k] = v
	}

	return h
}

// Checksum returns the CRC24 of the data decoded so far.
func (d *Decoder) Checksum() uint32 {
	return d.crc.Sum24()
}

// Process decodes armored text from src into dst and returns the number of bytes written to dst and
// the number of bytes consumed from src. Whitespace is ignored and input may be split at any point.
//
// If dst is too small to hold the decoded data, Process returns io.ErrShortBuffer and the caller
// should call Process again with src[nSrc:] and more room. Decoded bytes are unauthenticated until
// Close returns nil.
//
// Invalid input permanently fails the Decoder: all subsequent calls return the same error.
func (d *Decoder) Process(dst, src []byte) (nDst, nSrc int, err error) {
	switch d.status {
	case statusClosed:
		return 0, 0, ErrClosed
	case statusFailed:
		return 0, 0, d.err
	case statusOpen, statusStopped:
	}

	for {
		// Deliver anything already decoded.
		if d.outPos < len(d.out) {
			n := copy(dst[nDst:], d.out[d.outPos:])
			nDst += n
			d.outPos += n

			if d.outPos < len(d.out) {
				return nDst, nSrc, io.ErrShortBuffer
			}
		}

		d.out, d.outPos = d.out[:0], 0

		if nSrc == len(src) {
			return nDst, nSrc, nil
		}

		if err := d.step(src[nSrc]); err != nil {
			d.status = statusFailed
			d.err = fmt.Errorf("%w at offset %d", err, d.offset)

			return nDst, nSrc, d.err
		}

		nSrc++
		d.offset++
	}
}

// Close verifies that the armor was terminated and that its checksum, if any, matches the decoded
// data. It does not consume any more input. Close returns io.ErrShortBuffer, without closing the
// Decoder, if decoded data has not yet been delivered by Process.
func (d *Decoder) Close() error {
	switch d.status {
	case statusClosed:
		return ErrClosed
	case statusFailed:
		d.status = statusClosed

		return d.err
	case statusOpen, statusStopped:
	}

	if d.outPos < len(d.out) {
		return io.ErrShortBuffer
	}

	d.status = statusClosed
	d.pending = [quad.TextSize]byte{}

	if err := d.verify(); err != nil {
		d.err = fmt.Errorf("%w at offset %d", err, d.offset)

		return d.err
	}

	return nil
}

func (d *Decoder) done() bool {
	return d.phase == phaseDone
}

func (d *Decoder) verify() error {
	if d.phase == phaseFooter {
		if err := d.footer(); err != nil {
			return err
		}
	}

	switch d.phase {
	case phaseSeek, phaseHeaders, phaseBody, phaseChecksum:
		return ErrPrematureEnd
	case phasePadding:
		return ErrMisplacedPadding
	case phaseTrailer:
		if d.framed {
			return ErrPrematureEnd
		}
	case phaseFooter, phaseDone:
	}

	if d.sumN == quad.TextSize {
		want, err := quad.DecodeString(string(d.sum[:]))
		if err != nil || len(want) != crc24.Size {
			return ErrChecksumMismatch
		}

		got := d.crc.Bytes()
		if string(want) != string(got[:]) {
			return ErrChecksumMismatch
		}
	}

	return nil
}

func (d *Decoder) step(c byte) error {
	if err := d.advance(c); err != nil {
		return err
	}

	if c == '\n' {
		d.midLine = false
	} else if !quad.IsSpace(c) {
		d.midLine = true
	}

	return nil
}

//nolint:gocognit,gocyclo,cyclop // it's a state machine
func (d *Decoder) advance(c byte) error {
	switch d.phase {
	case phaseSeek:
		if c != '\n' {
			if !d.appendLine(c) {
				d.overflow = true
			}

			return nil
		}

		line, overflow := d.takeLine()
		if title, ok := banner.ParseBegin(line); ok && !overflow && d.matches(title) {
			d.title = title
			d.phase = phaseHeaders
		}

		return nil
	case phaseHeaders:
		if c != '\n' {
			if d.appendLine(c) {
				return nil
			}

			// Too long to be a header, so it must be the body.
			line, _ := d.takeLine()
			d.phase = phaseBody
			d.midLine = false

			return d.replay(line + string([]byte{c}))
		}

		line, _ := d.takeLine()

		if strings.TrimSpace(line) == "" {
			d.phase = phaseBody

			return nil
		}

		if k, v, ok := banner.ParseHeader(line); ok {
			d.headers[k] = v

			return nil
		}

		// Some armor omits the blank line when there are no headers.
		d.phase = phaseBody
		d.midLine = false

		return d.replay(line + "\n")
	case phaseBody:
		return d.body(c)
	case phasePadding:
		switch {
		case quad.IsSpace(c):
			return nil
		case c == quad.Pad:
			return d.group(c)
		default:
			return ErrMisplacedPadding
		}
	case phaseChecksum:
		if _, ok := quad.Value(c); !ok {
			return ErrInvalidCharacter
		}

		d.sum[d.sumN] = c
		d.sumN++

		if d.sumN == quad.TextSize {
			d.phase = phaseTrailer
		}

		return nil
	case phaseTrailer:
		switch {
		case quad.IsSpace(c):
			return nil
		case c == quad.Pad && d.sumN == 0:
			if d.midLine {
				return ErrMisplacedPadding
			}

			d.phase = phaseChecksum

			return nil
		case c == '-' && d.framed:
			d.phase = phaseFooter

			return d.appendFooter(c)
		default:
			return ErrInvalidCharacter
		}
	case phaseFooter:
		if c == '\n' {
			return d.footer()
		}

		return d.appendFooter(c)
	case phaseDone:
		return nil
	}

	return nil
}

func (d *Decoder) body(c byte) error {
	switch {
	case quad.IsSpace(c):
		return nil
	case c == quad.Pad:
		d.status = statusStopped

		switch d.n {
		case 0:
			// A pad at the start of a line starts the checksum line.
			if d.midLine {
				return ErrMisplacedPadding
			}

			d.phase = phaseChecksum

			return nil
		case 1:
			return ErrMisplacedPadding
		default:
			d.phase = phasePadding

			return d.group(c)
		}
	case c == '-' && d.framed:
		if d.n != 0 {
			return ErrInvalidCharacter
		}

		// The END line also terminates a body which needs no padding.
		d.status = statusStopped
		d.phase = phaseFooter

		return d.appendFooter(c)
	}

	if _, ok := quad.Value(c); !ok {
		return ErrInvalidCharacter
	}

	return d.group(c)
}

// group adds c to the pending group and decodes it once complete.
func (d *Decoder) group(c byte) error {
	d.pending[d.n] = c
	d.n++

	if d.n < quad.TextSize {
		return nil
	}

	var b [quad.BinarySize]byte

	n, err := quad.Unpack(b[:], d.pending)
	if err != nil {
		if errors.Is(err, quad.ErrInvalidCharacter) {
			return ErrInvalidCharacter
		}

		return ErrMisplacedPadding
	}

	d.n = 0
	d.out = append(d.out, b[:n]...)
	_, _ = d.crc.Write(b[:n])

	if n < quad.BinarySize {
		d.phase = phaseTrailer
	}

	return nil
}

func (d *Decoder) replay(s string) error {
	for i := 0; i < len(s); i++ {
		if err := d.step(s[i]); err != nil {
			return err
		}
	}

	return nil
}

func (d *Decoder) footer() error {
	line, _ := d.takeLine()
	if !banner.HasEndPrefix(line) {
		return ErrInvalidCharacter
	}

	title, ok := banner.ParseEnd(line)
	if !ok || title != d.title {
		return fmt.Errorf("%w: unexpected %q", ErrInvalidBanner, line)
	}

	d.phase = phaseDone

	return nil
}

func (d *Decoder) appendFooter(c byte) error {
	if !d.appendLine(c) {
		return fmt.Errorf("%w: END line too long", ErrInvalidBanner)
	}

	// A dash which does not begin an END line is a corrupt body.
	if !banner.EndPrefix(string(d.line)) {
		return ErrInvalidCharacter
	}

	return nil
}

func (d *Decoder) matches(title string) bool {
	if d.anyTitle {
		return banner.ValidTitle(title) == nil
	}

	return title == d.title
}

func (d *Decoder) appendLine(c byte) bool {
	if len(d.line) >= banner.MaxLine {
		return false
	}

	d.line = append(d.line, c)

	return true
}

func (d *Decoder) takeLine() (string, bool) {
	line, overflow := string(d.line), d.overflow
	d.line, d.overflow = d.line[:0], false

	return line, overflow
}
