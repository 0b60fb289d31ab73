package dom

import (
	"slices"
	"strings"
)

// EventClick is the event name dispatched by Tap helpers.
const EventClick = "click"

// textTag marks a text node.
const textTag = "#text"

// Node is one element of a rendered tree.
type Node struct {
	Tag      string
	ID       string
	Text     string
	Attrs    map[string]string
	Children []*Node

	handlers map[string]func()
}

// El creates an element node with the given children. Nil children are dropped.
func El(tag string, children ...*Node) *Node {
	n := &Node{Tag: tag}
	for _, c := range children {
		if c != nil {
			n.Children = append(n.Children, c)
		}
	}
	return n
}

// Text creates a text node.
func Text(content string) *Node {
	return &Node{Tag: textTag, Text: content}
}

// Button creates a button element labelled with label that invokes onClick
// when a click is dispatched to it.
func Button(label string, onClick func()) *Node {
	return El("button", Text(label)).On(EventClick, onClick)
}

// IsText reports whether n is a text node.
func (n *Node) IsText() bool {
	return n != nil && n.Tag == textTag
}

// WithID sets the element id and returns n.
func (n *Node) WithID(id string) *Node {
	n.ID = id
	return n
}

// WithAttr sets an attribute and returns n.
func (n *Node) WithAttr(key, value string) *Node {
	if n.Attrs == nil {
		n.Attrs = make(map[string]string)
	}
	n.Attrs[key] = value
	return n
}

// On registers fn as the handler for event and returns n.
// A nil fn removes the handler.
func (n *Node) On(event string, fn func()) *Node {
	if fn == nil {
		delete(n.handlers, event)
		return n
	}
	if n.handlers == nil {
		n.handlers = make(map[string]func())
	}
	n.handlers[event] = fn
	return n
}

// HasHandler reports whether n handles event.
func (n *Node) HasHandler(event string) bool {
	_, ok := n.handlers[event]
	return ok
}

// Events returns the sorted names of events n handles.
func (n *Node) Events() []string {
	events := make([]string, 0, len(n.handlers))
	for name := range n.handlers {
		events = append(events, name)
	}
	slices.Sort(events)
	return events
}

// Dispatch invokes the handler for event on n. It returns false when n has
// no handler for it. Events do not bubble.
func (n *Node) Dispatch(event string) bool {
	if n == nil {
		return false
	}
	fn, ok := n.handlers[event]
	if !ok {
		return false
	}
	fn()
	return true
}

// TextContent returns the concatenated text of n and its descendants.
func (n *Node) TextContent() string {
	var sb strings.Builder
	n.Walk(func(node *Node) bool {
		if node.IsText() {
			sb.WriteString(node.Text)
		}
		return true
	})
	return sb.String()
}

// Walk visits n and its descendants depth first. Returning false from visit
// stops the walk.
func (n *Node) Walk(visit func(*Node) bool) bool {
	if n == nil {
		return true
	}
	if !visit(n) {
		return false
	}
	for _, c := range n.Children {
		if !c.Walk(visit) {
			return false
		}
	}
	return true
}

// FindByID returns the first node with the given id, or nil.
func (n *Node) FindByID(id string) *Node {
	return n.find(func(node *Node) bool { return node.ID == id })
}

// FindByText returns the first element whose text content equals text, or nil.
// The innermost match wins so a label finds its button, not the button's parent.
func (n *Node) FindByText(text string) *Node {
	if n == nil {
		return nil
	}
	for _, c := range n.Children {
		if found := c.FindByText(text); found != nil {
			return found
		}
	}
	if !n.IsText() && n.TextContent() == text {
		return n
	}
	return nil
}

func (n *Node) find(match func(*Node) bool) *Node {
	var found *Node
	n.Walk(func(node *Node) bool {
		if match(node) {
			found = node
			return false
		}
		return true
	})
	return found
}
