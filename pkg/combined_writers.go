package pkg

import (
	"io"
	"sync"

	"go.uber.org/multierr"
)

// CombinedWriter fans out every write to all of its writers. A write
// succeeds as soon as one writer took it, so a full log disk does not stop
// stdout logging. Failures of the other writers are kept, see Err.
type CombinedWriter struct {
	writers []io.Writer

	mu  sync.Mutex
	err error
}

func NewCombinedWriter(writers ...io.Writer) *CombinedWriter {
	return &CombinedWriter{
		writers: append([]io.Writer(nil), writers...),
	}
}

func (cw *CombinedWriter) Write(p []byte) (int, error) {
	var errs error
	written := false
	for _, w := range cw.writers {
		if _, err := w.Write(p); err != nil {
			errs = multierr.Append(errs, err)
			continue
		}
		written = true
	}

	if errs != nil {
		cw.mu.Lock()
		cw.err = multierr.Append(cw.err, errs)
		cw.mu.Unlock()
	}
	if !written {
		return 0, errs
	}
	return len(p), nil
}

// Err returns every write failure seen so far.
func (cw *CombinedWriter) Err() error {
	cw.mu.Lock()
	defer cw.mu.Unlock()
	return cw.err
}
