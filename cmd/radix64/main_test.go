package main

import (
	"bytes"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/codahale/gubbins/assert"
	"github.com/codahale/radix64/pkg/armor"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/mr-tron/base58"
	"github.com/zeebo/blake3"
)

func TestParseHeaders(t *testing.T) {
	t.Parallel()

	headers, err := parseHeaders([]string{"Comment=a=b", "Version=1"})
	if err != nil {
		t.Fatal(err)
	}

	assert.Equal(t, "headers", map[string]string{"Comment": "a=b", "Version": "1"}, headers)

	if _, err := parseHeaders([]string{"Comment"}); err == nil {
		t.Fatal("should have failed")
	}
}

func TestInspect(t *testing.T) {
	t.Parallel()

	text, err := armor.Encode([]byte("welcome to paradise"), "PGP SIGNATURE",
		map[string]string{"Comment": "ok"})
	if err != nil {
		t.Fatal(err)
	}

	r, err := inspect(bytes.NewReader(text), newDecoder("", true))
	if err != nil {
		t.Fatal(err)
	}

	digest := blake3.Sum256([]byte("welcome to paradise"))

	assert.Equal(t, "report", &report{
		Title:       "PGP SIGNATURE",
		Headers:     map[string]string{"Comment": "ok"},
		Size:        19,
		CRC24:       "6B8F93",
		Fingerprint: base58.Encode(digest[:]),
	}, r)

	out := bytes.NewBuffer(nil)
	if err := writeReport(out, r); err != nil {
		t.Fatal(err)
	}

	assert.Equal(t, "yaml", true, strings.HasPrefix(out.String(),
		"title: PGP SIGNATURE\nheaders:\n  Comment: ok\nsize: 19\ncrc24: 6B8F93\n"))
}

func TestInspect_Corrupt(t *testing.T) {
	t.Parallel()

	_, err := inspect(strings.NewReader("-----BEGIN X-----\n\nZm9v*\n"), newDecoder("X", false))
	if err == nil {
		t.Fatal("should have failed")
	}
}

func TestNewLogger(t *testing.T) {
	t.Parallel()

	out := bytes.NewBuffer(nil)

	newLogger(out, false).Debug("hidden")
	assert.Equal(t, "quiet output", "", out.String())

	newLogger(out, true).Debug("shown", "bytes", 3)
	assert.Equal(t, "verbose output", true, strings.Contains(out.String(), "msg=shown bytes=3"))
}

func TestDecodeTo(t *testing.T) {
	t.Parallel()

	text, err := armor.Encode([]byte("welcome to paradise"), "PGP SIGNATURE", nil)
	if err != nil {
		t.Fatal(err)
	}

	out := filepath.Join(t.TempDir(), "out.bin")

	n, err := decodeTo(out, armor.NewReader(bytes.NewReader(text), newDecoder("PGP SIGNATURE", false)))
	if err != nil {
		t.Fatal(err)
	}

	b, err := os.ReadFile(out)
	if err != nil {
		t.Fatal(err)
	}

	assert.Equal(t, "bytes written", int64(19), n)
	assert.Equal(t, "output", "welcome to paradise", string(b))
}

func TestDecodeTo_ChecksumMismatch(t *testing.T) {
	t.Parallel()

	text, err := armor.Encode([]byte("welcome to paradise"), "PGP SIGNATURE", nil)
	if err != nil {
		t.Fatal(err)
	}

	text = bytes.Replace(text, []byte("=a4+T"), []byte("=a4+U"), 1)
	dir := t.TempDir()
	out := filepath.Join(dir, "out.bin")

	_, err = decodeTo(out, armor.NewReader(bytes.NewReader(text), newDecoder("PGP SIGNATURE", false)))
	assert.Equal(t, "error", armor.ErrChecksumMismatch, err, cmpopts.EquateErrors())

	_, err = os.Stat(out)
	assert.Equal(t, "output exists", true, errors.Is(err, fs.ErrNotExist))

	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatal(err)
	}

	assert.Equal(t, "leftover files", 0, len(entries))
}
