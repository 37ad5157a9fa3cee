package main

import (
	"io"
	"log/slog"
	"os"

	"github.com/alecthomas/kong"
)

type cli struct {
	Verbose bool `short:"v" env:"RADIX64_VERBOSE" help:"Log progress to stderr."`

	Encode  encodeCmd  `cmd:"" help:"Armor a binary file."`
	Decode  decodeCmd  `cmd:"" help:"Remove the armor from a text file."`
	Inspect inspectCmd `cmd:"" help:"Describe the contents of an armored file."`
}

func main() {
	var cli cli

	ctx := kong.Parse(&cli,
		kong.Name("radix64"),
		kong.Description("Encode and decode OpenPGP-style ASCII armor."),
	)
	err := ctx.Run(newLogger(os.Stderr, cli.Verbose))
	ctx.FatalIfErrorf(err)
}

func newLogger(w io.Writer, verbose bool) *slog.Logger {
	level := slog.LevelWarn
	if verbose {
		level = slog.LevelDebug
	}

	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}

func openInput(path string) (io.ReadCloser, error) {
	if path == "-" {
		return io.NopCloser(os.Stdin), nil
	}

	return os.Open(path)
}

func openOutput(path string) (io.WriteCloser, error) {
	if path == "-" {
		return nopWriteCloser{Writer: os.Stdout}, nil
	}

	return os.Create(path)
}

type nopWriteCloser struct {
	io.Writer
}

func (nopWriteCloser) Close() error {
	return nil
}

var _ io.WriteCloser = nopWriteCloser{}
