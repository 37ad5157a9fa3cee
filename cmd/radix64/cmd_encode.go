package main

import (
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/codahale/radix64/pkg/armor"
)

type encodeCmd struct {
	Input  string `arg:"" optional:"" default:"-" help:"The path to the binary input, or - for stdin."`
	Output string `arg:"" optional:"" default:"-" help:"The path to the armored output, or - for stdout."`

	Title   string   `short:"t" env:"RADIX64_TITLE" help:"The title of the BEGIN and END lines. Omit for a bare body."`
	Headers []string `short:"H" name:"header" help:"An armor header to add, as KEY=VALUE. Requires a title."`
}

func (cmd *encodeCmd) Run(logger *slog.Logger) error {
	headers, err := parseHeaders(cmd.Headers)
	if err != nil {
		return err
	}

	// Open the binary input.
	src, err := openInput(cmd.Input)
	if err != nil {
		return err
	}

	defer func() { _ = src.Close() }()

	// Open the armored output.
	dst, err := openOutput(cmd.Output)
	if err != nil {
		return err
	}

	defer func() { _ = dst.Close() }()

	// Armor the input.
	enc, err := armor.NewEncoder(dst, cmd.Title, headers)
	if err != nil {
		return err
	}

	n, err := io.Copy(enc, src)
	if err != nil {
		return err
	}

	if err := enc.Close(); err != nil {
		return err
	}

	logger.Debug("encoded input", "title", cmd.Title, "bytes", n, "headers", len(headers))

	return dst.Close()
}

func parseHeaders(pairs []string) (map[string]string, error) {
	if len(pairs) == 0 {
		return nil, nil
	}

	headers := make(map[string]string, len(pairs))

	for _, pair := range pairs {
		k, v, ok := strings.Cut(pair, "=")
		if !ok {
			return nil, fmt.Errorf("invalid header %q: expected KEY=VALUE", pair)
		}

		headers[k] = v
	}

	return headers, nil
}
