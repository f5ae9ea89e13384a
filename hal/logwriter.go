package hal

import (
	"bytes"
	"sync"
)

// LogWriter adapts a Logger to io.Writer, emitting one log line per
// newline-terminated chunk. Partial lines are held until the newline arrives.
type LogWriter struct {
	mu  sync.Mutex
	l   Logger
	buf []byte
}

func NewLogWriter(l Logger) *LogWriter {
	return &LogWriter{l: l}
}

func (w *LogWriter) Write(p []byte) (int, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.l == nil {
		return len(p), nil
	}
	w.buf = append(w.buf, p...)
	for {
		i := bytes.IndexByte(w.buf, '\n')
		if i < 0 {
			break
		}
		w.l.WriteLineBytes(bytes.TrimRight(w.buf[:i], "\r"))
		w.buf = w.buf[i+1:]
	}
	if len(w.buf) == 0 {
		w.buf = nil
	}
	return len(p), nil
}
