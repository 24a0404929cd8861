package api

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"reflect"
	"strings"
	"sync"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/matzehuels/sunburst/pkg/buildinfo"
	"github.com/matzehuels/sunburst/pkg/chart"
	"github.com/matzehuels/sunburst/pkg/core/interaction"
	"github.com/matzehuels/sunburst/pkg/errors"
	"github.com/matzehuels/sunburst/pkg/observability"
	"github.com/matzehuels/sunburst/pkg/store"
)

const testQuery = `{
  "fields": {
    "dimension_like": [{"name": "cat"}, {"name": "sub"}],
    "measure_like": [{"name": "amount"}]
  },
  "data": [
    {"cat": {"value": "A"}, "sub": {"value": "X"}, "amount": {"value": 10, "links": [{"label": "x", "url": "/x"}]}},
    {"cat": {"value": "A"}, "sub": {"value": "Y"}, "amount": {"value": 5}},
    {"cat": {"value": "B"}, "sub": {"value": null}, "amount": {"value": 20}}
  ]
}`

type recorder struct {
	observability.NoopInteractionHooks
	mu     sync.Mutex
	hovers []int
	leaves int
	stale  int
}

func (r *recorder) OnHover(_ context.Context, _ string, node, _ int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.hovers = append(r.hovers, node)
}

func (r *recorder) OnLeave(context.Context, string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.leaves++
}

func (r *recorder) OnStale(context.Context, string, uint64, uint64) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.stale++
}

func newTestServer(t *testing.T) (*httptest.Server, store.Store) {
	t.Helper()
	st := store.NewMemoryStore()
	srv := New(Config{Store: st, Logger: log.New(&bytes.Buffer{})})
	ts := httptest.NewServer(srv.Handler())
	t.Cleanup(ts.Close)
	return ts, st
}

func do(t *testing.T, method, url string, body any) *http.Response {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		switch b := body.(type) {
		case string:
			buf.WriteString(b)
		default:
			require.NoError(t, json.NewEncoder(&buf).Encode(b))
		}
	}
	req, err := http.NewRequest(method, url, &buf)
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	t.Cleanup(func() { resp.Body.Close() })
	return resp
}

func decode[T any](t *testing.T, resp *http.Response) T {
	t.Helper()
	var v T
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&v))
	return v
}

func createChart(t *testing.T, ts *httptest.Server, options string) ChartResponse {
	t.Helper()
	body := `{"query": ` + testQuery + `, "options": {` + options + `}}`
	resp := do(t, http.MethodPost, ts.URL+"/v1/charts", body)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	return decode[ChartResponse](t, resp)
}

func nodeAt(t *testing.T, c chart.Chart, path ...string) chart.Node {
	t.Helper()
	for _, n := range c.Nodes {
		if reflect.DeepEqual(n.Path, path) {
			return n
		}
	}
	t.Fatalf("no node at %v", path)
	return chart.Node{}
}

func TestHealth(t *testing.T) {
	ts, _ := newTestServer(t)
	resp := do(t, http.MethodGet, ts.URL+"/healthz", nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	var body struct {
		Status string         `json:"status"`
		Build  buildinfo.Info `json:"build"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, "ok", body.Status)
	assert.NotEmpty(t, body.Build.Version)
}

func TestCreateAndGet(t *testing.T) {
	ts, st := newTestServer(t)
	created := createChart(t, ts, `"color_by": "node"`)

	c := created.Chart
	assert.NotEmpty(t, c.ID)
	assert.Equal(t, chart.VizTypeSunburst, c.VizType)
	assert.Equal(t, 35.0, c.Total())
	assert.Equal(t, uint64(1), created.Epoch)
	assert.EqualValues(t, "node", c.Options.ColorBy)
	assert.True(t, c.Options.ShowPercentage, "unset options keep their defaults")

	stored, err := st.Get(context.Background(), c.ID)
	require.NoError(t, err)
	assert.Len(t, stored.Nodes, len(c.Nodes))

	resp := do(t, http.MethodGet, ts.URL+"/v1/charts/"+c.ID, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	got := decode[ChartResponse](t, resp)
	assert.Equal(t, c.ID, got.Chart.ID)
	assert.Equal(t, created.Epoch, got.Epoch)

	resp = do(t, http.MethodGet, ts.URL+"/v1/charts", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	list := decode[map[string][]store.Summary](t, resp)
	require.Len(t, list["charts"], 1)
	assert.Equal(t, c.ID, list["charts"][0].ID)
}

func TestCreateErrors(t *testing.T) {
	ts, _ := newTestServer(t)
	tests := []struct {
		name string
		body string
		code string
	}{
		{"Malformed", `{`, "INVALID_INPUT"},
		{"UnknownField", `{"querry": {}}`, "INVALID_INPUT"},
		{"MissingQuery", `{}`, "INVALID_QUERY"},
		{"Pivots", `{"query": {"fields": {"dimension_like": [{"name": "a"}], "measure_like": [{"name": "m"}], "pivots": [{"name": "p"}]}, "data": []}}`, "INVALID_QUERY"},
		{"BadVizType", `{"query": ` + testQuery + `, "viz_type": "pie"}`, "INVALID_VIZ_TYPE"},
		{"BadColor", `{"query": ` + testQuery + `, "options": {"color_range": ["blue-ish"]}}`, "INVALID_COLOR"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := do(t, http.MethodPost, ts.URL+"/v1/charts", tt.body)
			assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
			body := decode[errorBody](t, resp)
			assert.EqualValues(t, tt.code, body.Error.Code)
			assert.NotEmpty(t, body.Error.Message)
		})
	}
}

func TestNotFound(t *testing.T) {
	ts, _ := newTestServer(t)
	tests := []struct {
		name   string
		path   string
		status int
		code   string
	}{
		{"UnknownChart", "/v1/charts/" + store.NewID(), http.StatusNotFound, "CHART_NOT_FOUND"},
		{"BadID", "/v1/charts/not-a-uuid", http.StatusBadRequest, "INVALID_CHART_ID"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := do(t, http.MethodGet, ts.URL+tt.path, nil)
			assert.Equal(t, tt.status, resp.StatusCode)
			assert.EqualValues(t, tt.code, decode[errorBody](t, resp).Error.Code)
		})
	}
}

func TestHoverAndLeave(t *testing.T) {
	rec := &recorder{}
	observability.SetInteractionHooks(rec)
	t.Cleanup(observability.Reset)

	ts, _ := newTestServer(t)
	created := createChart(t, ts, "")
	c := created.Chart
	a := nodeAt(t, c, "A")
	url := ts.URL + "/v1/charts/" + c.ID + "/hover"

	resp := do(t, http.MethodPost, url, HoverRequest{Node: a.ID, Epoch: created.Epoch})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	hover := decode[HoverResponse](t, resp)
	assert.True(t, hover.Applied)
	assert.Equal(t, interaction.Hovering, hover.Frame.State)
	assert.Equal(t, []int{0, a.ID}, hover.Frame.Emphasized)
	assert.Equal(t, "42.9%", hover.Frame.CenterLabel)
	require.Len(t, hover.Frame.Trail.Crumbs, 1)
	assert.Equal(t, "A", hover.Frame.Trail.Crumbs[0].Label)
	assert.Equal(t, 1.0, hover.Frame.Opacity[a.ID])
	assert.Equal(t, 0.15, hover.Frame.Opacity[nodeAt(t, c, "B").ID])

	// A reference from another epoch is answered with the current frame.
	resp = do(t, http.MethodPost, url, HoverRequest{Node: nodeAt(t, c, "B").ID, Epoch: created.Epoch + 1})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	stale := decode[HoverResponse](t, resp)
	assert.False(t, stale.Applied)
	assert.Equal(t, a.ID, stale.Frame.Node)

	resp = do(t, http.MethodPost, url, HoverRequest{Node: 99, Epoch: created.Epoch})
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	assert.EqualValues(t, "NODE_NOT_FOUND", decode[errorBody](t, resp).Error.Code)

	resp = do(t, http.MethodDelete, url, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	idle := decode[HoverResponse](t, resp)
	assert.Equal(t, interaction.Idle, idle.Frame.State)
	assert.Empty(t, idle.Frame.Trail.Crumbs)
	assert.InDelta(t, 0.85, idle.Frame.Opacity[a.ID], 1e-9)

	rec.mu.Lock()
	defer rec.mu.Unlock()
	assert.Equal(t, []int{a.ID}, rec.hovers)
	assert.Equal(t, 1, rec.stale)
	assert.Equal(t, 1, rec.leaves)
}

func TestSessionLoadedFromStore(t *testing.T) {
	ts, st := newTestServer(t)
	created := createChart(t, ts, "")

	// A second server over the same store starts a fresh session.
	srv := New(Config{Store: st, Logger: log.New(&bytes.Buffer{})})
	ts2 := httptest.NewServer(srv.Handler())
	defer ts2.Close()

	b := nodeAt(t, created.Chart, "B")
	resp := do(t, http.MethodPost, ts2.URL+"/v1/charts/"+created.Chart.ID+"/hover", HoverRequest{Node: b.ID, Epoch: 1})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	hover := decode[HoverResponse](t, resp)
	assert.True(t, hover.Applied)
	assert.Equal(t, "57.1%", hover.Frame.CenterLabel)
}

func TestClick(t *testing.T) {
	ts, _ := newTestServer(t)
	c := createChart(t, ts, "").Chart
	url := ts.URL + "/v1/charts/" + c.ID + "/click"

	x := nodeAt(t, c, "A", "X")
	resp := do(t, http.MethodPost, url, ClickRequest{Node: x.ID, PageX: 12, PageY: 34})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	ev := decode[DrillEvent](t, resp)
	require.Len(t, ev.Links, 1)
	assert.Equal(t, "/x", ev.Links[0].URL)
	assert.Equal(t, PagePosition{PageX: 12, PageY: 34}, ev.Event)

	resp = do(t, http.MethodPost, url, ClickRequest{Node: nodeAt(t, c, "B").ID})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Empty(t, decode[DrillEvent](t, resp).Links)

	resp = do(t, http.MethodPost, url, ClickRequest{Node: -1})
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestRender(t *testing.T) {
	ts, _ := newTestServer(t)
	c := createChart(t, ts, "").Chart
	base := ts.URL + "/v1/charts/" + c.ID + "/render"

	tests := []struct {
		name        string
		query       string
		contentType string
		contains    string
	}{
		{"DefaultSVG", "", "image/svg+xml", `class="sunburst"`},
		{"Interactive", "?interactive=true", "image/svg+xml", `class="frames"`},
		{"Highlight", "?highlight=A/X", "image/svg+xml", `class="lastCrumb"`},
		{"JSON", "?format=json", "application/json", `"viz_type": "sunburst"`},
		{"DOT", "?format=dot", "text/vnd.graphviz", "digraph"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := do(t, http.MethodGet, base+tt.query, nil)
			require.Equal(t, http.StatusOK, resp.StatusCode)
			assert.Equal(t, tt.contentType, resp.Header.Get("Content-Type"))
			var buf bytes.Buffer
			_, err := buf.ReadFrom(resp.Body)
			require.NoError(t, err)
			assert.True(t, strings.Contains(buf.String(), tt.contains), "body lacks %q", tt.contains)
		})
	}

	resp := do(t, http.MethodGet, base+"?format=gif", nil)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	resp = do(t, http.MethodGet, base+"?highlight=Q", nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	resp = do(t, http.MethodGet, base+"?scale=-1", nil)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestDelete(t *testing.T) {
	ts, st := newTestServer(t)
	c := createChart(t, ts, "").Chart

	resp := do(t, http.MethodDelete, ts.URL+"/v1/charts/"+c.ID, nil)
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)

	_, err := st.Get(context.Background(), c.ID)
	assert.Error(t, err)

	resp = do(t, http.MethodGet, ts.URL+"/v1/charts/"+c.ID, nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	resp = do(t, http.MethodDelete, ts.URL+"/v1/charts/"+c.ID, nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestStatusOf(t *testing.T) {
	tests := []struct {
		err  error
		want int
	}{
		{errors.New(errors.ErrCodeInvalidOption, "bad"), http.StatusBadRequest},
		{errors.New(errors.ErrCodeNodeNotFound, "missing"), http.StatusNotFound},
		{errors.New(errors.ErrCodeUnsupported, "no rsvg"), http.StatusNotImplemented},
		{errors.New(errors.ErrCodeInternal, "boom"), http.StatusInternalServerError},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, statusOf(tt.err), "status of %v", tt.err)
	}
}
