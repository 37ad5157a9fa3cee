package armor

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/codahale/gubbins/assert"
	"github.com/google/go-cmp/cmp/cmpopts"
)

func TestEncoder(t *testing.T) {
	t.Parallel()

	dst := bytes.NewBuffer(nil)

	enc, err := NewEncoder(dst, "VEIL", nil)
	if err != nil {
		t.Fatal(err)
	}

	if _, err := enc.Write(bytes.Repeat([]byte("hello world "), 12)); err != nil {
		t.Fatal(err)
	}

	if err := enc.Close(); err != nil {
		t.Fatal(err)
	}

	assert.Equal(t, "armored output",
		strings.Join([]string{
			"-----BEGIN VEIL-----",
			"",
			"aGVsbG8gd29ybGQgaGVsbG8gd29ybGQgaGVsbG8gd29ybGQgaGVsbG8gd29ybGQg",
			"aGVsbG8gd29ybGQgaGVsbG8gd29ybGQgaGVsbG8gd29ybGQgaGVsbG8gd29ybGQg",
			"aGVsbG8gd29ybGQgaGVsbG8gd29ybGQgaGVsbG8gd29ybGQgaGVsbG8gd29ybGQg",
			"=6Mb8",
			"-----END VEIL-----",
			"",
		}, "\n"),
		dst.String())
}

func TestEncoder_Headers(t *testing.T) {
	t.Parallel()

	out, err := Encode([]byte("welcome to paradise"), "PGP SIGNATURE",
		map[string]string{"Version": "1", "Comment": "ok"})
	if err != nil {
		t.Fatal(err)
	}

	assert.Equal(t, "armored output",
		strings.Join([]string{
			"-----BEGIN PGP SIGNATURE-----",
			"Comment: ok",
			"Version: 1",
			"",
			"d2VsY29tZSB0byBwYXJhZGlzZQ==",
			"=a4+T",
			"-----END PGP SIGNATURE-----",
			"",
		}, "\n"),
		string(out))
}

func TestEncoder_Empty(t *testing.T) {
	t.Parallel()

	out, err := Encode(nil, "PGP MESSAGE", nil)
	if err != nil {
		t.Fatal(err)
	}

	assert.Equal(t, "armored output",
		"-----BEGIN PGP MESSAGE-----\n\n=twTO\n-----END PGP MESSAGE-----\n",
		string(out))
}

func TestEncoder_Untitled(t *testing.T) {
	t.Parallel()

	for _, tc := range []struct {
		in, want string
	}{
		{"foobar", "Zm9vYmFy\n=czTe\n"},
		{"fo", "Zm8=\n=otEN\n"},
		{
			strings.Repeat("hello world ", 5),
			"aGVsbG8gd29ybGQgaGVsbG8gd29ybGQgaGVsbG8gd29ybGQgaGVsbG8gd29ybGQg\n" +
				"aGVsbG8gd29ybGQg\n=MWUB\n",
		},
	} {
		out, err := Encode([]byte(tc.in), "", nil)
		if err != nil {
			t.Fatal(err)
		}

		assert.Equal(t, tc.in, tc.want, string(out))
	}
}

func TestEncoder_Chunking(t *testing.T) {
	t.Parallel()

	msg := testMessage(1000)

	want, err := Encode(msg, "PGP MESSAGE", nil)
	if err != nil {
		t.Fatal(err)
	}

	for chunk := 1; chunk <= 70; chunk++ {
		dst := bytes.NewBuffer(nil)

		enc, err := NewEncoder(dst, "PGP MESSAGE", nil)
		if err != nil {
			t.Fatal(err)
		}

		for _, p := range split(msg, chunk) {
			if _, err := enc.Write(p); err != nil {
				t.Fatal(err)
			}
		}

		if err := enc.Close(); err != nil {
			t.Fatal(err)
		}

		assert.Equal(t, "chunked output", string(want), dst.String())
	}
}

func TestEncoder_InvalidBanner(t *testing.T) {
	t.Parallel()

	_, err := NewEncoder(bytes.NewBuffer(nil), "", map[string]string{"Comment": "no title"})
	assert.Equal(t, "headers without title", ErrInvalidBanner, err, cmpopts.EquateErrors())

	_, err = NewEncoder(bytes.NewBuffer(nil), "BAD-", nil)
	assert.Equal(t, "bad title", ErrInvalidBanner, err, cmpopts.EquateErrors())

	_, err = NewEncoder(bytes.NewBuffer(nil), "OK", map[string]string{"Bad Key": "x"})
	assert.Equal(t, "bad header", ErrInvalidBanner, err, cmpopts.EquateErrors())
}

func TestEncoder_Closed(t *testing.T) {
	t.Parallel()

	dst := bytes.NewBuffer(nil)

	enc, err := NewEncoder(dst, "", nil)
	if err != nil {
		t.Fatal(err)
	}

	if _, err := enc.Write([]byte("f")); err != nil {
		t.Fatal(err)
	}

	if err := enc.Close(); err != nil {
		t.Fatal(err)
	}

	out := dst.String()

	n, err := enc.Write([]byte("oo"))
	assert.Equal(t, "write after close", ErrClosed, err, cmpopts.EquateErrors())
	assert.Equal(t, "bytes written", 0, n)
	assert.Equal(t, "close after close", ErrClosed, enc.Close(), cmpopts.EquateErrors())
	assert.Equal(t, "output", out, dst.String())
}

func TestEncoder_SinkError(t *testing.T) {
	t.Parallel()

	sink := &failingWriter{}

	enc, err := NewEncoder(sink, "", nil)
	if err != nil {
		t.Fatal(err)
	}

	_, err = enc.Write([]byte("foo"))
	assert.Equal(t, "write error", errSink, err, cmpopts.EquateErrors())

	_, err = enc.Write([]byte("bar"))
	assert.Equal(t, "sticky error", errSink, err, cmpopts.EquateErrors())
	assert.Equal(t, "close error", errSink, enc.Close(), cmpopts.EquateErrors())
	assert.Equal(t, "sink writes", 1, sink.calls)
}

func TestEncoder_SinkErrorOnStart(t *testing.T) {
	t.Parallel()

	_, err := NewEncoder(&failingWriter{}, "PGP MESSAGE", nil)
	assert.Equal(t, "start error", errSink, err, cmpopts.EquateErrors())
}

var errSink = errors.New("sink failed")

type failingWriter struct {
	calls int
}

func (w *failingWriter) Write(_ []byte) (int, error) {
	w.calls++

	return 0, errSink
}

func testMessage(n int) []byte {
	b := make([]byte, n)
	for i := range b {
		b[i] = byte(i*7 + i/3)
	}

	return b
}

func split(b []byte, n int) [][]byte {
	var chunks [][]byte

	for len(b) > n {
		chunks = append(chunks, b[:n])
		b = b[n:]
	}

	return append(chunks, b)
}
