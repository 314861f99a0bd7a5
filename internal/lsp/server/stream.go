package server

import (
	"errors"
	"io"
	"os"
	"sync"
)

// Stream joins a reader and a writer into the connection a jsonrpc2 buffered
// stream reads requests from and writes responses to.
type Stream struct {
	r io.ReadCloser
	w io.WriteCloser

	once sync.Once
	err  error
}

// NewStdioStream serves over standard input and output
func NewStdioStream() *Stream {
	return NewStream(os.Stdin, os.Stdout)
}

// NewStream serves over r and w, which may be the two ends of one connection
func NewStream(r io.ReadCloser, w io.WriteCloser) *Stream {
	return &Stream{r: r, w: w}
}

func (s *Stream) Read(p []byte) (int, error)  { return s.r.Read(p) }
func (s *Stream) Write(p []byte) (int, error) { return s.w.Write(p) }

// Close closes both halves once. A half shared by reader and writer is closed a
// single time and a half the client already closed is not an error.
func (s *Stream) Close() error {
	s.once.Do(func() {
		var errs []error
		if s.r != nil {
			errs = append(errs, closeHalf(s.r))
		}
		if s.w != nil && !sameCloser(s.r, s.w) {
			errs = append(errs, closeHalf(s.w))
		}
		s.err = errors.Join(errs...)
	})
	return s.err
}

func closeHalf(c io.Closer) error {
	if err := c.Close(); err != nil && !errors.Is(err, os.ErrClosed) {
		return err
	}
	return nil
}

func sameCloser(r io.ReadCloser, w io.WriteCloser) bool {
	rw, ok := r.(io.WriteCloser)
	return ok && rw == w
}
