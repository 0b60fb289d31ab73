package mount

import (
	"io"
	"sync"

	"github.com/go-drift/tinyui/pkg/dom"
)

// ANSIClear clears a terminal and homes the cursor.
const ANSIClear = "\x1b[H\x1b[2J"

// WriterMount writes every attached tree to an io.Writer as one line of HTML.
type WriterMount struct {
	// ClearSequence is written on Clear. Empty writes nothing, which leaves
	// a frame-by-frame log.
	ClearSequence string

	mu     sync.Mutex
	w      io.Writer
	frames int
	err    error
}

// NewWriterMount creates a mount point that writes to w.
func NewWriterMount(w io.Writer) *WriterMount {
	return &WriterMount{w: w}
}

// Clear writes ClearSequence, if set.
func (m *WriterMount) Clear() {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.ClearSequence == "" || m.err != nil {
		return
	}
	_, m.err = io.WriteString(m.w, m.ClearSequence)
}

// Attach writes node followed by a newline.
func (m *WriterMount) Attach(node *dom.Node) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.frames++
	if m.err != nil {
		return
	}
	if node != nil {
		if m.err = node.Render(m.w); m.err != nil {
			return
		}
	}
	_, m.err = io.WriteString(m.w, "\n")
}

// Frames returns the number of attached trees.
func (m *WriterMount) Frames() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.frames
}

// Err returns the first write error. Later writes are skipped once set.
func (m *WriterMount) Err() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.err
}
