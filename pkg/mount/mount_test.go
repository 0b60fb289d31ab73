package mount

import (
	"bytes"
	stderrors "errors"
	"image/png"
	"io"
	"log/slog"
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/go-drift/tinyui/pkg/core"
	"github.com/go-drift/tinyui/pkg/dom"
	"github.com/go-drift/tinyui/pkg/errors"
)

func counter(ctx *core.RenderContext, props core.Props) *dom.Node {
	count, setCount := core.UseState(ctx, 0)
	return dom.El("div",
		dom.El("h1", dom.Text(props.String("title"))),
		dom.El("p", dom.Text(strconv.Itoa(count))).WithID("count"),
		dom.Button("+1", func() { setCount(count + 1) }).WithID("inc"),
	)
}

func newRuntime() *core.Runtime {
	rt := core.NewRuntime(core.WithLogger(slog.New(slog.NewTextHandler(io.Discard, nil))))
	rt.Register("Counter", counter)
	return rt
}

func TestContainer(t *testing.T) {
	c := NewContainer("app")
	other := NewContainer("app")
	assert.NotEmpty(t, c.ID())
	assert.NotEqual(t, c.ID(), other.ID(), "container ids must be unique")
	assert.Equal(t, "app", c.Name())
	assert.Equal(t, "", c.TextContent())
	assert.Equal(t, "", c.HTML())

	rt := newRuntime()
	require.NoError(t, rt.Render("Counter", c, core.Props{"title": "T"}))
	assert.Equal(t, "T0+1", c.TextContent())

	require.True(t, c.Dispatch("inc", dom.EventClick))
	assert.Equal(t, "1", c.Content().FindByID("count").TextContent())
	assert.False(t, c.Dispatch("missing", dom.EventClick))

	clears, attaches := c.Counts()
	assert.Equal(t, 2, clears)
	assert.Equal(t, 2, attaches)
}

func TestWriterMount(t *testing.T) {
	var buf bytes.Buffer
	w := NewWriterMount(&buf)
	rt := newRuntime()
	c := NewContainer("shadow")

	require.NoError(t, rt.Render("Counter", w, nil, core.WithInstanceKey("w")))
	require.NoError(t, rt.Render("Counter", c, nil, core.WithInstanceKey("w")))
	c.Dispatch("inc", dom.EventClick)

	// The click re-renders into the container that last rendered "w".
	assert.Equal(t, 1, w.Frames())
	assert.NoError(t, w.Err())
	assert.Equal(t, "1", c.Content().FindByID("count").TextContent())
	assert.Equal(t,
		`<div><h1></h1><p id="count">0</p><button id="inc" data-on="click">+1</button></div>`+"\n",
		buf.String())
}

func TestWriterMountClearSequence(t *testing.T) {
	var buf bytes.Buffer
	w := NewWriterMount(&buf)
	w.ClearSequence = ANSIClear

	w.Clear()
	w.Attach(dom.Text("a"))
	w.Clear()
	w.Attach(nil)

	assert.Equal(t, ANSIClear+"a\n"+ANSIClear+"\n", buf.String())
}

type failingWriter struct{ writes int }

func (f *failingWriter) Write(p []byte) (int, error) {
	f.writes++
	return 0, stderrors.New("disk full")
}

func TestWriterMountStopsAfterError(t *testing.T) {
	fw := &failingWriter{}
	w := NewWriterMount(fw)
	w.Attach(dom.Text("a"))
	w.Attach(dom.Text("b"))

	assert.EqualError(t, w.Err(), "disk full")
	assert.Equal(t, 1, fw.writes)
	assert.Equal(t, 2, w.Frames())
}

func TestImageMount(t *testing.T) {
	m := NewImageMount(120, 60)
	rt := newRuntime()
	require.NoError(t, rt.Render("Counter", m, core.Props{"title": "Counter"}))

	assert.Equal(t, []string{"Counter", "0", "+1"}, m.Lines())
	assert.Equal(t, 7*len("Counter"), m.TextWidth("Counter"))

	inked := false
	bounds := m.Image().Bounds()
	for y := bounds.Min.Y; y < bounds.Max.Y && !inked; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			if r, _, _, _ := m.Image().At(x, y).RGBA(); r == 0 {
				inked = true
				break
			}
		}
	}
	assert.True(t, inked, "expected some foreground pixels")

	var buf bytes.Buffer
	require.NoError(t, m.EncodePNG(&buf))
	decoded, err := png.Decode(&buf)
	require.NoError(t, err)
	assert.Equal(t, bounds, decoded.Bounds())

	m.Clear()
	assert.Empty(t, m.Lines())
	r, g, b, _ := m.Image().At(10, 10).RGBA()
	assert.Equal(t, []uint32{0xffff, 0xffff, 0xffff}, []uint32{r, g, b})
}

func TestImageMountBareText(t *testing.T) {
	m := NewImageMount(40, 20)
	m.Attach(dom.Text("hi"))
	assert.Equal(t, []string{"hi"}, m.Lines())
}

func TestSelect(t *testing.T) {
	rt := newRuntime()
	doc := NewDocument()
	app := NewContainer("app")
	doc.Add("#app", app)
	doc.Add("sidebar", NewContainer("sidebar"))

	assert.Equal(t, []string{"app", "sidebar"}, doc.IDs())

	sel, err := Select(rt, doc, "#app")
	require.NoError(t, err)
	assert.Same(t, app, sel.MountPoint)
	assert.Equal(t, "#app", sel.Selector)

	require.NoError(t, sel.RenderComponent("Counter", core.Props{"title": "x"}))
	assert.Equal(t, "x0+1", app.TextContent())

	bare, err := Select(rt, doc, "app")
	require.NoError(t, err)
	assert.Same(t, app, bare.MountPoint)

	_, err = Select(rt, doc, "#nowhere")
	assert.ErrorIs(t, err, errors.ErrMountPointNotFound)
	assert.Contains(t, err.Error(), `"#nowhere"`)
}

func TestSelectionRenderUnregistered(t *testing.T) {
	rt := core.NewRuntime(core.WithErrorHandler(&errors.LogHandler{
		Logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
	}))
	doc := NewDocument()
	app := NewContainer("app")
	doc.Add("app", app)

	sel, err := Select(rt, doc, "#app")
	require.NoError(t, err)
	err = sel.RenderComponent("ghost", nil)
	assert.ErrorIs(t, err, errors.ErrComponentNotRegistered)

	clears, attaches := app.Counts()
	assert.Zero(t, clears)
	assert.Zero(t, attaches)
}

func TestTee(t *testing.T) {
	rt := newRuntime()

	var buf bytes.Buffer
	c := NewContainer("app")
	w := NewWriterMount(&buf)
	require.NoError(t, rt.Render("Counter", Tee{c, nil, w}, core.Props{"title": "tee"}))
	require.True(t, c.Dispatch("inc", dom.EventClick))

	clears, attaches := c.Counts()
	assert.Equal(t, 2, clears)
	assert.Equal(t, 2, attaches)
	assert.Equal(t, 2, w.Frames())
	assert.Equal(t, "1", c.Content().FindByID("count").TextContent())
	assert.Contains(t, buf.String(), `<p id="count">1</p>`)
}

type panicRecorder struct {
	panics []*errors.PanicError
}

func (r *panicRecorder) HandleError(*errors.UIError)           {}
func (r *panicRecorder) HandlePanic(err *errors.PanicError)    { r.panics = append(r.panics, err) }
func (r *panicRecorder) HandleRenderError(*errors.RenderError) {}

func TestContainerDispatchRecoversHandlerPanic(t *testing.T) {
	rec := &panicRecorder{}
	old := errors.Handler()
	errors.SetHandler(rec)
	defer errors.SetHandler(old)

	rt := newRuntime()
	rt.Register("Broken", func(ctx *core.RenderContext, props core.Props) *dom.Node {
		return dom.Button("boom", func() { panic("handler exploded") }).WithID("boom")
	})
	c := NewContainer("app")
	require.NoError(t, rt.Render("Broken", c, nil))

	assert.False(t, c.Dispatch("boom", dom.EventClick))
	require.Len(t, rec.panics, 1)
	assert.Equal(t, "mount.Dispatch", rec.panics[0].Op)
}
