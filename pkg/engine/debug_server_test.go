package engine

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strconv"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/go-drift/tinyui/pkg/core"
	"github.com/go-drift/tinyui/pkg/dom"
	tinyerrors "github.com/go-drift/tinyui/pkg/errors"
	"github.com/go-drift/tinyui/pkg/mount"
)

type discardHandler struct{}

func (discardHandler) HandleError(*tinyerrors.UIError)           {}
func (discardHandler) HandlePanic(*tinyerrors.PanicError)        {}
func (discardHandler) HandleRenderError(*tinyerrors.RenderError) {}

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func counter(ctx *core.RenderContext, props core.Props) *dom.Node {
	count, setCount := core.UseState(ctx, props.Int("initial"))
	return dom.El("div",
		dom.El("p", dom.Text(strconv.Itoa(count))).WithID("count"),
		dom.Button("+1", func() { setCount(count + 1) }).WithID("inc"),
	)
}

func newTestServer(t *testing.T) (*DebugServer, *core.Runtime, *mount.Container) {
	t.Helper()
	rt := core.NewRuntime(core.WithErrorHandler(discardHandler{}), core.WithLogger(quietLogger()))
	rt.Register("Counter", counter)
	s := NewDebugServer(rt, quietLogger())
	t.Cleanup(func() { s.Close() })
	return s, rt, mount.NewContainer("app")
}

func get(t *testing.T, h http.Handler, target string, v any) int {
	t.Helper()
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, target, nil))
	if v != nil && rec.Code == http.StatusOK {
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), v))
	}
	return rec.Code
}

func TestDebugServer_Health(t *testing.T) {
	s, _, _ := newTestServer(t)

	var health map[string]string
	assert.Equal(t, http.StatusOK, get(t, s.Handler(), "/api/health", &health))
	assert.Equal(t, "ok", health["status"])
}

func TestDebugServer_Components(t *testing.T) {
	s, rt, _ := newTestServer(t)
	rt.Register("About", func(*core.RenderContext, core.Props) *dom.Node { return nil })

	var names []string
	assert.Equal(t, http.StatusOK, get(t, s.Handler(), "/api/components", &names))
	assert.Equal(t, []string{"About", "Counter"}, names)
}

func TestDebugServer_Instances(t *testing.T) {
	s, rt, c := newTestServer(t)
	require.NoError(t, rt.Render("Counter", c, core.Props{"initial": 2}))
	require.NoError(t, rt.Render("Counter", mount.NewContainer("b"), nil, core.WithInstanceKey("second")))

	var all []core.InstanceInfo
	assert.Equal(t, http.StatusOK, get(t, s.Handler(), "/api/instances", &all))
	require.Len(t, all, 2)
	assert.Equal(t, "Counter", all[0].Key)
	assert.Equal(t, "second", all[1].Key)

	var one core.InstanceInfo
	assert.Equal(t, http.StatusOK, get(t, s.Handler(), "/api/instances/Counter", &one))
	assert.Equal(t, "Counter", one.Component)
	assert.Equal(t, []any{float64(2)}, one.Slots)
	assert.Equal(t, uint64(1), one.Passes)

	assert.Equal(t, http.StatusNotFound, get(t, s.Handler(), "/api/instances/ghost", nil))

	var filtered []core.InstanceInfo
	assert.Equal(t, http.StatusOK, get(t, s.Handler(), "/api/instances?component=Nope", &filtered))
	assert.Empty(t, filtered)
}

func TestDebugServer_Rerender(t *testing.T) {
	s, rt, c := newTestServer(t)
	require.NoError(t, rt.Render("Counter", c, nil))
	require.True(t, c.Dispatch("inc", "click"))

	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/instances/Counter/rerender", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	var info core.InstanceInfo
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &info))
	assert.Equal(t, uint64(3), info.Passes)
	assert.Equal(t, []any{float64(1)}, info.Slots)
	assert.Equal(t, "1", c.Content().FindByID("count").TextContent())

	rec = httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/instances/ghost/rerender", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/instances/Counter/rerender", nil))
	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}

func TestDebugServer_ConcurrentRerender(t *testing.T) {
	rt := core.NewRuntime(
		core.WithErrorHandler(discardHandler{}),
		core.WithLogger(quietLogger()),
		core.WithReentrancy(core.ReentrancyReject),
	)
	rt.Register("Slow", func(ctx *core.RenderContext, props core.Props) *dom.Node {
		label, _ := core.UseState(ctx, "slow")
		time.Sleep(5 * time.Millisecond)
		return dom.El("p", dom.Text(label))
	})
	s := NewDebugServer(rt, quietLogger())
	t.Cleanup(func() { s.Close() })
	require.NoError(t, rt.Render("Slow", mount.NewContainer("app"), nil))

	const requests = 8
	codes := make([]int, requests)
	var wg sync.WaitGroup
	for i := range requests {
		wg.Add(1)
		go func() {
			defer wg.Done()
			rec := httptest.NewRecorder()
			s.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/instances/Slow/rerender", nil))
			codes[i] = rec.Code
		}()
	}
	wg.Wait()

	for i, code := range codes {
		assert.Equal(t, http.StatusOK, code, "request %d", i)
	}
	stats := rt.Stats()
	assert.Equal(t, uint64(requests+1), stats.Passes)
	assert.Zero(t, stats.Failed)
}

func TestDebugServer_StatsAndRenders(t *testing.T) {
	s, rt, c := newTestServer(t)
	require.NoError(t, rt.Render("Counter", c, nil))
	require.True(t, c.Dispatch("inc", "click"))
	require.Error(t, rt.Render("ghost", c, nil))

	var stats core.Stats
	assert.Equal(t, http.StatusOK, get(t, s.Handler(), "/api/stats", &stats))
	assert.Equal(t, uint64(2), stats.Passes)
	assert.Equal(t, uint64(1), stats.NotFound)

	var timeline RenderTimeline
	assert.Equal(t, http.StatusOK, get(t, s.Handler(), "/api/renders?component=Counter", &timeline))
	require.Len(t, timeline.Samples, 2)
	assert.Equal(t, "external", timeline.Samples[0].Trigger)
	assert.Equal(t, "state", timeline.Samples[1].Trigger)

	assert.Equal(t, http.StatusOK, get(t, s.Handler(), "/api/renders?limit=1&component=Counter", &timeline))
	require.Len(t, timeline.Samples, 1)
	assert.Equal(t, uint64(2), timeline.Samples[0].Passes)
}

func TestDebugServer_StartShutdown(t *testing.T) {
	s, _, _ := newTestServer(t)

	addr, err := s.Start("127.0.0.1:0")
	require.NoError(t, err)

	again, err := s.Start("127.0.0.1:0")
	require.NoError(t, err)
	assert.Equal(t, addr, again, "second Start returns the running address")

	resp, err := http.Get(fmt.Sprintf("http://%s/api/health", addr))
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	require.NoError(t, s.Shutdown(ctx))
	require.NoError(t, s.Shutdown(ctx), "shutdown is idempotent")

	_, err = http.Get(fmt.Sprintf("http://%s/api/health", addr))
	assert.Error(t, err)
}
