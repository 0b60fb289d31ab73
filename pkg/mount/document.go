package mount

import (
	"fmt"
	"slices"
	"strings"
	"sync"

	"github.com/go-drift/tinyui/pkg/core"
	"github.com/go-drift/tinyui/pkg/errors"
)

// Document is a set of named mount points.
type Document struct {
	mu     sync.RWMutex
	mounts map[string]core.MountPoint
}

// NewDocument creates an empty document.
func NewDocument() *Document {
	return &Document{mounts: make(map[string]core.MountPoint)}
}

// Add registers mp under id, replacing any earlier mount point with that id.
func (d *Document) Add(id string, mp core.MountPoint) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.mounts[strings.TrimPrefix(id, "#")] = mp
}

// IDs returns the registered ids in sorted order.
func (d *Document) IDs() []string {
	d.mu.RLock()
	defer d.mu.RUnlock()
	ids := make([]string, 0, len(d.mounts))
	for id := range d.mounts {
		ids = append(ids, id)
	}
	slices.Sort(ids)
	return ids
}

// Query resolves selector to a mount point. "#app" and "app" both select
// the mount point registered as "app".
func (d *Document) Query(selector string) (core.MountPoint, error) {
	id := strings.TrimPrefix(strings.TrimSpace(selector), "#")
	d.mu.RLock()
	mp, ok := d.mounts[id]
	d.mu.RUnlock()
	if !ok {
		return nil, &errors.UIError{
			Op:   "mount.Query",
			Kind: errors.KindMount,
			Err:  fmt.Errorf("%w: %q", errors.ErrMountPointNotFound, selector),
		}
	}
	return mp, nil
}

// Selection is a resolved mount point bound to a runtime.
type Selection struct {
	// MountPoint is the resolved mount point.
	MountPoint core.MountPoint
	// Selector is the selector it was resolved from.
	Selector string

	runtime *core.Runtime
}

// Select resolves selector in doc and binds the result to rt.
func Select(rt *core.Runtime, doc *Document, selector string) (*Selection, error) {
	mp, err := doc.Query(selector)
	if err != nil {
		return nil, err
	}
	return &Selection{MountPoint: mp, Selector: selector, runtime: rt}, nil
}

// RenderComponent renders the named component into the selection's mount
// point.
func (s *Selection) RenderComponent(name string, props core.Props, opts ...core.RenderOption) error {
	return s.runtime.Render(name, s.MountPoint, props, opts...)
}
