package mount

import (
	"github.com/go-drift/tinyui/pkg/core"
	"github.com/go-drift/tinyui/pkg/dom"
)

// Tee is a mount point that forwards every Clear and Attach to each of its
// targets in order. All targets receive the same tree.
type Tee []core.MountPoint

// Clear clears every target.
func (t Tee) Clear() {
	for _, mp := range t {
		if mp != nil {
			mp.Clear()
		}
	}
}

// Attach attaches node to every target.
func (t Tee) Attach(node *dom.Node) {
	for _, mp := range t {
		if mp != nil {
			mp.Attach(node)
		}
	}
}
