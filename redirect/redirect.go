// Package redirect captures process-wide standard output or error at the
// file-descriptor level. Unlike swapping os.Stdout, duplicating the
// descriptor also catches writes made by C libraries and child code that
// holds the raw fd.
package redirect

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"golang.org/x/sys/unix"
)

// ErrUnknownStream is reported when a stream name does not match any of
// the supported standard streams.
var ErrUnknownStream = errors.New("unknown stream")

// Stream selects which standard stream to redirect.
type Stream int

const (
	Stdout Stream = iota
	Stderr
)

// ParseStream resolves a stream from its conventional name.
func ParseStream(name string) (Stream, error) {
	switch name {
	case "stdout":
		return Stdout, nil
	case "stderr":
		return Stderr, nil
	default:
		return 0, fmt.Errorf("%w %q: select one of \"stdout\", \"stderr\"", ErrUnknownStream, name)
	}
}

func (s Stream) String() string {
	switch s {
	case Stdout:
		return "stdout"
	case Stderr:
		return "stderr"
	default:
		return fmt.Sprintf("stream(%d)", int(s))
	}
}

func (s Stream) fd() (int, error) {
	switch s {
	case Stdout:
		return int(os.Stdout.Fd()), nil
	case Stderr:
		return int(os.Stderr.Fd()), nil
	default:
		return 0, fmt.Errorf("%w %q", ErrUnknownStream, s)
	}
}

// Capture runs fn with the chosen stream redirected into a temporary
// file and returns whatever was written to it. The original descriptor
// is restored before Capture returns, also when fn fails or panics.
// The error returned by fn is passed through alongside the captured
// output.
func Capture(stream Stream, fn func() error) (string, error) {
	var buf strings.Builder
	err := CaptureTo(stream, &buf, fn)

	return buf.String(), err
}

// CaptureTo is Capture writing into the given writer instead of a string.
func CaptureTo(stream Stream, w io.Writer, fn func() error) error {
	fd, err := stream.fd()
	if err != nil {
		return err
	}

	saved, err := unix.Dup(fd)
	if err != nil {
		return fmt.Errorf("failed to save %s: %w", stream, err)
	}
	defer unix.Close(saved)

	tmp, err := os.CreateTemp("", "pyscripts-capture-*")
	if err != nil {
		return fmt.Errorf("failed to create capture file: %w", err)
	}
	defer func() {
		tmp.Close()
		os.Remove(tmp.Name())
	}()

	if err := dupTo(int(tmp.Fd()), fd); err != nil {
		return fmt.Errorf("failed to redirect %s: %w", stream, err)
	}
	// Restore on every exit path, including a panic inside fn. The
	// second call after the explicit restore below is a no-op.
	defer dupTo(saved, fd)

	fnErr := fn()

	if err := dupTo(saved, fd); err != nil {
		return fmt.Errorf("failed to restore %s: %w", stream, err)
	}

	if _, err := tmp.Seek(0, io.SeekStart); err != nil {
		return fmt.Errorf("failed to rewind capture file: %w", err)
	}
	if _, err := io.Copy(w, tmp); err != nil {
		return fmt.Errorf("failed to read captured %s: %w", stream, err)
	}

	return fnErr
}
