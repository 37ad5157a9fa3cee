package main

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/codahale/radix64/pkg/armor"
	"golang.org/x/term"
)

var (
	errTerminal = errors.New("refusing to write binary data to a terminal; use --force to override")
	errAnyTitle = errors.New("--title and --any are mutually exclusive")
)

type decodeCmd struct {
	Input  string `arg:"" optional:"" default:"-" help:"The path to the armored input, or - for stdin."`
	Output string `arg:"" optional:"" default:"-" help:"The path to the binary output, or - for stdout."`

	Title string `short:"t" env:"RADIX64_TITLE" help:"The expected title of the BEGIN and END lines. Omit for a bare body."`
	Any   bool   `short:"a" help:"Accept the first BEGIN line of any title."`
	Force bool   `short:"f" help:"Write binary data even if the output is a terminal."`
}

func (cmd *decodeCmd) Run(logger *slog.Logger) error {
	if cmd.Title != "" && cmd.Any {
		return errAnyTitle
	}

	if cmd.Output == "-" && !cmd.Force && term.IsTerminal(int(os.Stdout.Fd())) {
		return errTerminal
	}

	// Open the armored input.
	src, err := openInput(cmd.Input)
	if err != nil {
		return err
	}

	defer func() { _ = src.Close() }()

	// Remove the armor. Nothing written is trustworthy unless this succeeds.
	dec := newDecoder(cmd.Title, cmd.Any)

	n, err := decodeTo(cmd.Output, armor.NewReader(src, dec))
	if err != nil {
		return err
	}

	logger.Debug("decoded input", "title", dec.Title(), "bytes", n, "headers", dec.Headers())

	return nil
}

// decodeTo copies the decoded data to the given path. A file is only created at path once all of
// the data has been decoded and verified.
func decodeTo(path string, r io.Reader) (int64, error) {
	if path == "-" {
		return io.Copy(os.Stdout, r)
	}

	tmp, err := os.CreateTemp(filepath.Dir(path), ".radix64-*")
	if err != nil {
		return 0, err
	}

	success := false

	defer func() {
		if !success {
			_ = tmp.Close()
			_ = os.Remove(tmp.Name())
		}
	}()

	n, err := io.Copy(tmp, r)
	if err != nil {
		return n, err
	}

	if err := tmp.Chmod(0o644); err != nil {
		return n, err
	}

	if err := tmp.Close(); err != nil {
		return n, err
	}

	if err := os.Rename(tmp.Name(), path); err != nil {
		return n, fmt.Errorf("renaming output to %s: %w", path, err)
	}

	success = true

	return n, nil
}

func newDecoder(title string, anyTitle bool) *armor.Decoder {
	if anyTitle {
		return armor.NewBannerDecoder()
	}

	return armor.NewDecoder(title)
}
