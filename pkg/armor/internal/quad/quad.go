// Package quad converts between 3-byte binary groups and 4-character radix-64 groups.
package quad

import (
	"errors"
	"fmt"
)

const (
	// Pad is the padding character used to fill out the final group.
	Pad = '='

	// BinarySize is the number of raw bytes in a full group.
	BinarySize = 3

	// TextSize is the number of characters in an encoded group.
	TextSize = 4

	alphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz0123456789+/"
	invalid  = 0xFF
)

var (
	// ErrInvalidCharacter is returned when a group contains a character outside the alphabet.
	ErrInvalidCharacter = errors.New("quad: invalid character")

	// ErrMisplacedPadding is returned when padding appears anywhere but the end of a group.
	ErrMisplacedPadding = errors.New("quad: misplaced padding")
)

//nolint:gochecknoglobals // immutable lookup table
var decodeMap = func() (m [256]byte) {
	for i := range m {
		m[i] = invalid
	}

	for i := 0; i < len(alphabet); i++ {
		m[alphabet[i]] = byte(i)
	}

	return
}()

// Value returns the 6-bit value of c and whether c is part of the alphabet.
func Value(c byte) (byte, bool) {
	v := decodeMap[c]

	return v, v != invalid
}

// IsSpace returns true if c is a whitespace character which may separate groups.
func IsSpace(c byte) bool {
	switch c {
	case ' ', '\t', '\r', '\n', '\v', '\f':
		return true
	default:
		return false
	}
}

// Pack encodes between one and three bytes of src into dst, padding short groups.
func Pack(dst *[TextSize]byte, src []byte) {
	var b [BinarySize]byte

	n := copy(b[:], src)
	if n == 0 || len(src) > BinarySize {
		panic(fmt.Sprintf("quad: cannot pack %d bytes", len(src)))
	}

	dst[0] = alphabet[b[0]>>2]
	dst[1] = alphabet[(b[0]&0x03)<<4|b[1]>>4]
	dst[2] = alphabet[(b[1]&0x0F)<<2|b[2]>>6]
	dst[3] = alphabet[b[2]&0x3F]

	switch n {
	case 1:
		dst[2], dst[3] = Pad, Pad
	case 2:
		dst[3] = Pad
	}
}

// Unpack decodes a 4-character group into dst, which must have room for three bytes, and returns
// the number of bytes decoded.
func Unpack(dst []byte, src [TextSize]byte) (int, error) {
	var v [TextSize]byte

	// Count the trailing padding characters.
	n := TextSize
	for n > 0 && src[n-1] == Pad {
		n--
	}

	// Only "xx==" and "xxx=" are legal short groups.
	if n < 2 {
		return 0, ErrMisplacedPadding
	}

	for i := 0; i < n; i++ {
		if src[i] == Pad {
			return 0, ErrMisplacedPadding
		}

		c, ok := Value(src[i])
		if !ok {
			return 0, ErrInvalidCharacter
		}

		v[i] = c
	}

	dst[0] = v[0]<<2 | v[1]>>4
	if n == 2 {
		return 1, nil
	}

	dst[1] = v[1]<<4 | v[2]>>2
	if n == 3 {
		return 2, nil
	}

	dst[2] = v[2]<<6 | v[3]

	return BinarySize, nil
}

// EncodedLen returns the length of the padded encoding of n bytes.
func EncodedLen(n int) int {
	return (n + BinarySize - 1) / BinarySize * TextSize
}

// EncodeToString returns the padded radix-64 encoding of b, without line breaks.
func EncodeToString(b []byte) string {
	var q [TextSize]byte

	out := make([]byte, 0, EncodedLen(len(b)))

	for len(b) > 0 {
		n := len(b)
		if n > BinarySize {
			n = BinarySize
		}

		Pack(&q, b[:n])
		out = append(out, q[:]...)
		b = b[n:]
	}

	return string(out)
}

// DecodeString decodes a padded radix-64 string with no whitespace. Padding is only permitted in
// the final group.
func DecodeString(s string) ([]byte, error) {
	if len(s)%TextSize != 0 {
		return nil, ErrMisplacedPadding
	}

	var (
		q   [TextSize]byte
		buf [BinarySize]byte
	)

	out := make([]byte, 0, len(s)/TextSize*BinarySize)

	for i := 0; i < len(s); i += TextSize {
		copy(q[:], s[i:i+TextSize])

		n, err := Unpack(buf[:], q)
		if err != nil {
			return nil, err
		}

		if n < BinarySize && i+TextSize < len(s) {
			return nil, ErrMisplacedPadding
		}

		out = append(out, buf[:n]...)
	}

	return out, nil
}
