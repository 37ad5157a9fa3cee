// Package banner formats and recognizes the lines which frame an armored body.
package banner

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/codahale/radix64/pkg/armor/internal/quad"
)

const (
	dashes = "-----"
	begin  = dashes + "BEGIN "
	end    = dashes + "END "

	// MaxLine is the longest banner or header line which will be recognized.
	MaxLine = 1024
)

// ErrInvalid is returned when a title or header cannot be represented in a banner.
var ErrInvalid = errors.New("banner: invalid")

// Begin returns the BEGIN line for the given title.
func Begin(title string) string {
	return begin + title + dashes
}

// End returns the END line for the given title.
func End(title string) string {
	return end + title + dashes
}

// ParseBegin returns the title of a BEGIN line, if line is one.
func ParseBegin(line string) (string, bool) {
	return parse(line, begin)
}

// ParseEnd returns the title of an END line, if line is one.
func ParseEnd(line string) (string, bool) {
	return parse(line, end)
}

// EndPrefix returns true if line could be the start of an END line.
func EndPrefix(line string) bool {
	if len(line) < len(end) {
		return strings.HasPrefix(end, line)
	}

	return strings.HasPrefix(line, end)
}

// HasEndPrefix returns true if line starts like an END line, whatever its title.
func HasEndPrefix(line string) bool {
	return strings.HasPrefix(line, end)
}

// Checksum returns the checksum line for the given CRC24 value.
func Checksum(sum [3]byte) string {
	return string(quad.Pad) + quad.EncodeToString(sum[:])
}

// Header returns a "Key: Value" armor header line.
func Header(key, value string) string {
	return key + ": " + value
}

// ParseHeader splits a "Key: Value" armor header line.
func ParseHeader(line string) (key, value string, ok bool) {
	key, value, ok = strings.Cut(strings.TrimRight(line, " \t\r"), ":")
	if !ok || key == "" || strings.ContainsAny(key, " \t") {
		return "", "", false
	}

	return key, strings.TrimLeft(value, " \t"), true
}

// Headers returns the header lines for the given map, sorted by key.
func Headers(headers map[string]string) ([]string, error) {
	keys := make([]string, 0, len(headers))
	for k := range headers {
		keys = append(keys, k)
	}

	sort.Strings(keys)

	lines := make([]string, len(keys))

	for i, k := range keys {
		if k == "" || !printable(k) || strings.ContainsAny(k, ": \t") || !printable(headers[k]) {
			return nil, fmt.Errorf("%w header %q", ErrInvalid, k)
		}

		lines[i] = Header(k, headers[k])
	}

	return lines, nil
}

// ValidTitle returns nil if title can be framed by BEGIN and END lines.
func ValidTitle(title string) error {
	if title == "" || len(title) > MaxLine-len(begin)-len(dashes) || !printable(title) ||
		strings.HasPrefix(title, "-") || strings.HasSuffix(title, "-") ||
		strings.TrimSpace(title) != title {
		return fmt.Errorf("%w title %q", ErrInvalid, title)
	}

	return nil
}

func parse(line, prefix string) (string, bool) {
	line = strings.TrimRight(line, " \t\r")

	if !strings.HasPrefix(line, prefix) || !strings.HasSuffix(line, dashes) ||
		len(line) < len(prefix)+len(dashes) {
		return "", false
	}

	return line[len(prefix) : len(line)-len(dashes)], true
}

func printable(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] < 0x20 || s[i] > 0x7E {
			return false
		}
	}

	return true
}
