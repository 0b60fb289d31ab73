package mount

import (
	"sync"

	"github.com/google/uuid"

	"github.com/go-drift/tinyui/pkg/dom"
	"github.com/go-drift/tinyui/pkg/errors"
)

// Container is an in-memory mount point. It holds the most recently
// attached tree.
type Container struct {
	id   string
	name string

	mu       sync.Mutex
	content  *dom.Node
	clears   int
	attaches int
}

// NewContainer creates an empty container with a fresh unique id.
func NewContainer(name string) *Container {
	return &Container{
		id:   uuid.NewString(),
		name: name,
	}
}

// ID returns the container's unique id.
func (c *Container) ID() string {
	return c.id
}

// Name returns the name the container was created with.
func (c *Container) Name() string {
	return c.name
}

// Clear removes the attached tree.
func (c *Container) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.content = nil
	c.clears++
}

// Attach sets node as the container's content.
func (c *Container) Attach(node *dom.Node) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.content = node
	c.attaches++
}

// Content returns the attached tree, or nil.
func (c *Container) Content() *dom.Node {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.content
}

// TextContent returns the text of the attached tree.
func (c *Container) TextContent() string {
	return c.Content().TextContent()
}

// HTML returns the attached tree as HTML.
func (c *Container) HTML() string {
	if content := c.Content(); content != nil {
		return content.String()
	}
	return ""
}

// Counts returns how many times the container was cleared and attached to.
func (c *Container) Counts() (clears, attaches int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.clears, c.attaches
}

// Dispatch sends event to the node with the given id. The handler runs
// without the container lock held, so it may trigger a re-render. A panic
// in the handler is reported to the process-wide error handler and
// Dispatch returns false.
func (c *Container) Dispatch(id, event string) bool {
	defer errors.Recover("mount.Dispatch")
	content := c.Content()
	if content == nil {
		return false
	}
	return content.FindByID(id).Dispatch(event)
}
