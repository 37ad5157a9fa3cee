package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/codahale/radix64/pkg/armor"
	"github.com/mr-tron/base58"
	"github.com/zeebo/blake3"
	"gopkg.in/yaml.v3"
)

type inspectCmd struct {
	Input string `arg:"" optional:"" default:"-" help:"The path to the armored input, or - for stdin."`

	Title string `short:"t" env:"RADIX64_TITLE" help:"The expected title of the BEGIN and END lines. Omit to accept any title."`
	Bare  bool   `help:"The input is a bare body with no BEGIN or END lines."`
}

// report describes an armored payload.
type report struct {
	Title       string            `yaml:"title,omitempty"`
	Headers     map[string]string `yaml:"headers,omitempty"`
	Size        int64             `yaml:"size"`
	CRC24       string            `yaml:"crc24"`
	Fingerprint string            `yaml:"fingerprint"`
}

func (cmd *inspectCmd) Run(logger *slog.Logger) error {
	// Open the armored input.
	src, err := openInput(cmd.Input)
	if err != nil {
		return err
	}

	defer func() { _ = src.Close() }()

	r, err := inspect(src, newDecoder(cmd.Title, cmd.Title == "" && !cmd.Bare))
	if err != nil {
		return err
	}

	logger.Debug("inspected input", "title", r.Title, "bytes", r.Size)

	return writeReport(os.Stdout, r)
}

// inspect decodes the armored text in src and describes the payload.
func inspect(src io.Reader, dec *armor.Decoder) (*report, error) {
	h := blake3.New()

	n, err := io.Copy(h, armor.NewReader(src, dec))
	if err != nil {
		return nil, err
	}

	return &report{
		Title:       dec.Title(),
		Headers:     dec.Headers(),
		Size:        n,
		CRC24:       fmt.Sprintf("%06X", dec.Checksum()),
		Fingerprint: base58.Encode(h.Sum(nil)),
	}, nil
}

func writeReport(w io.Writer, r *report) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)

	if err := enc.Encode(r); err != nil {
		return err
	}

	return enc.Close()
}
