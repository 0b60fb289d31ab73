package core

import (
	"strconv"

	"github.com/go-drift/tinyui/pkg/dom"
	"github.com/go-drift/tinyui/pkg/errors"
)

// fakeMount records every clear and attach it receives.
type fakeMount struct {
	content  *dom.Node
	clears   int
	attaches int
	history  []string
}

func (m *fakeMount) Clear() {
	m.clears++
	m.content = nil
}

func (m *fakeMount) Attach(node *dom.Node) {
	m.attaches++
	m.content = node
	m.history = append(m.history, node.TextContent())
}

func (m *fakeMount) text(id string) string {
	if m.content == nil {
		return ""
	}
	if n := m.content.FindByID(id); n != nil {
		return n.TextContent()
	}
	return ""
}

func (m *fakeMount) click(id string) bool {
	if m.content == nil {
		return false
	}
	return m.content.FindByID(id).Dispatch(dom.EventClick)
}

// recordingHandler collects reported errors.
type recordingHandler struct {
	errors       []*errors.UIError
	panics       []*errors.PanicError
	renderErrors []*errors.RenderError
}

func (h *recordingHandler) HandleError(err *errors.UIError) {
	h.errors = append(h.errors, err)
}

func (h *recordingHandler) HandlePanic(err *errors.PanicError) {
	h.panics = append(h.panics, err)
}

func (h *recordingHandler) HandleRenderError(err *errors.RenderError) {
	h.renderErrors = append(h.renderErrors, err)
}

func newTestRuntime(opts ...Option) (*Runtime, *recordingHandler) {
	h := &recordingHandler{}
	opts = append([]Option{WithErrorHandler(h)}, opts...)
	return NewRuntime(opts...), h
}

func counter(ctx *RenderContext, props Props) *dom.Node {
	count, setCount := UseState(ctx, 0)
	return dom.El("div",
		dom.El("p", dom.Text(strconv.Itoa(count))).WithID("count"),
		dom.Button("+1", func() { setCount(count + 1) }).WithID("inc"),
	)
}
