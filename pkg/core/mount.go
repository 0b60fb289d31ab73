package core

import "github.com/go-drift/tinyui/pkg/dom"

// MountPoint is where a rendered tree is attached. The runtime calls Clear
// and then Attach at the end of every successful pass.
type MountPoint interface {
	// Clear removes everything previously attached.
	Clear()
	// Attach adds node as the mount point's content. node may be nil when a
	// render function returns nothing.
	Attach(node *dom.Node)
}

// RenderFunc builds one renderable node from props. It may declare state
// through ctx and must not retain ctx past its return.
type RenderFunc func(ctx *RenderContext, props Props) *dom.Node

// Props are the caller-supplied inputs of a render pass.
type Props map[string]any

// Clone returns a shallow copy of p. Nil clones to an empty map.
func (p Props) Clone() Props {
	out := make(Props, len(p))
	for k, v := range p {
		out[k] = v
	}
	return out
}

// String returns the value at key if it is a string.
func (p Props) String(key string) string {
	s, _ := p[key].(string)
	return s
}

// Int returns the value at key if it is an int.
func (p Props) Int(key string) int {
	i, _ := p[key].(int)
	return i
}
