// Package armor encodes and decodes OpenPGP-style ASCII armor.
//
// Armored data is radix-64 encoded, wrapped at 64 characters, and followed by a CRC24 checksum
// line. If a title is given, the body is framed by BEGIN and END lines and may carry "Key: Value"
// header lines:
//
//     -----BEGIN PGP MESSAGE-----
//     Comment: example
//
//     aGVsbG8gd29ybGQgaGVsbG8gd29ybGQgaGVsbG8gd29ybGQgaGVsbG8gd29ybGQg
//     =6Mb8
//     -----END PGP MESSAGE-----
//
// Encoders and decoders are sessions: they buffer partial groups between calls, so input may be
// split into chunks of any size without changing the result. A session must not be used
// concurrently.
package armor

import (
	"errors"
)

// LineLength is the number of encoded characters per body line.
const LineLength = 64

var (
	// ErrInvalidCharacter is returned when armored text contains a character which is not part of
	// the radix-64 alphabet, padding, or whitespace.
	ErrInvalidCharacter = errors.New("armor: invalid character")

	// ErrMisplacedPadding is returned when padding appears outside the final group, or when the
	// final group is incomplete.
	ErrMisplacedPadding = errors.New("armor: misplaced padding")

	// ErrPrematureEnd is returned when armored text ends before it is terminated.
	ErrPrematureEnd = errors.New("armor: premature end")

	// ErrChecksumMismatch is returned when the decoded data does not match the checksum line.
	ErrChecksumMismatch = errors.New("armor: checksum mismatch")

	// ErrInvalidBanner is returned when a title or header cannot be encoded, or when an END line
	// does not match its BEGIN line.
	ErrInvalidBanner = errors.New("armor: invalid banner")

	// ErrClosed is returned when an encoder or decoder is used after it has been closed.
	ErrClosed = errors.New("armor: use of closed session")
)

// status is the state of a session. Transitions only move towards statusClosed.
type status int

const (
	statusOpen    status = iota // accepting input
	statusStopped               // terminator seen; only trailer input accepted
	statusFailed                // corrupt input or sink failure; all input rejected
	statusClosed                // closed; all operations rejected
)
