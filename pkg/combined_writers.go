package pkg

import (
	"io"

	"go.uber.org/multierr"
)

// CombinedWriter fans a single Write out to every underlying writer. Used
// for logging to a rotated file and stdout at the same time.
type CombinedWriter struct {
	Writers []io.Writer
}

func NewCombinedWriter(writers ...io.Writer) *CombinedWriter {
	return &CombinedWriter{Writers: writers}
}

// Write keeps going past a failing writer so the others still get the
// bytes; the errors come back combined.
func (cw CombinedWriter) Write(p []byte) (n int, err error) {
	for _, w := range cw.Writers {
		written, werr := w.Write(p)
		if werr != nil {
			err = multierr.Combine(err, werr)
			continue
		}
		n += written
	}
	return n, err
}
