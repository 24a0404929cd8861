package api

import (
	"bytes"
	"encoding/json"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/matzehuels/sunburst/pkg/buildinfo"
	"github.com/matzehuels/sunburst/pkg/chart"
	"github.com/matzehuels/sunburst/pkg/config"
	"github.com/matzehuels/sunburst/pkg/core/interaction"
	"github.com/matzehuels/sunburst/pkg/core/taxonomy"
	"github.com/matzehuels/sunburst/pkg/errors"
	sbio "github.com/matzehuels/sunburst/pkg/io"
	"github.com/matzehuels/sunburst/pkg/observability"
	"github.com/matzehuels/sunburst/pkg/pipeline"
)

// defaultListLimit caps GET /v1/charts without ?limit.
const defaultListLimit = 50

var contentTypes = map[string]string{
	pipeline.FormatSVG:  "image/svg+xml",
	pipeline.FormatPNG:  "image/png",
	pipeline.FormatPDF:  "application/pdf",
	pipeline.FormatJSON: "application/json",
	pipeline.FormatDOT:  "text/vnd.graphviz",
}

// CreateRequest is the body of POST /v1/charts. Options override
// config.Default field by field; an empty value_format falls back to the
// measure's own format.
type CreateRequest struct {
	Query   json.RawMessage `json:"query"`
	VizType string          `json:"viz_type,omitempty"`
	Options config.Chart    `json:"options"`
}

// ChartResponse carries a chart and the epoch its node references belong to.
type ChartResponse struct {
	Chart chart.Chart `json:"chart"`
	Epoch uint64      `json:"epoch"`
}

// HoverRequest is the body of POST /v1/charts/{id}/hover.
type HoverRequest struct {
	Node  int    `json:"node"`
	Epoch uint64 `json:"epoch"`
}

// HoverResponse reports the resulting frame. Applied is false when the
// request named a node of an older epoch.
type HoverResponse struct {
	Applied bool              `json:"applied"`
	Frame   interaction.Frame `json:"frame"`
}

// ClickRequest is the body of POST /v1/charts/{id}/click.
type ClickRequest struct {
	Node  int     `json:"node"`
	PageX float64 `json:"x"`
	PageY float64 `json:"y"`
}

// DrillEvent is the drill request raised by a click on an arc.
type DrillEvent struct {
	Links []taxonomy.Link `json:"links"`
	Event PagePosition    `json:"event"`
}

// PagePosition is the pointer position of a click.
type PagePosition struct {
	PageX float64 `json:"pageX"`
	PageY float64 `json:"pageY"`
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, struct {
		Status string         `json:"status"`
		Build  buildinfo.Info `json:"build"`
	}{"ok", buildinfo.Get()})
}

func (s *Server) handleCreate(w http.ResponseWriter, r *http.Request) {
	req := CreateRequest{Options: config.Default()}
	if err := decodeBody(w, r, &req); err != nil {
		s.writeError(w, err)
		return
	}
	if len(req.Query) == 0 {
		s.writeError(w, errors.New(errors.ErrCodeInvalidQuery, "query is required"))
		return
	}
	q, err := sbio.ReadQuery(bytes.NewReader(req.Query))
	if err != nil {
		s.writeError(w, err)
		return
	}
	rows, err := q.Rows()
	if err != nil {
		s.writeError(w, err)
		return
	}
	if req.Options.ValueFormat == "" {
		req.Options.ValueFormat = q.Measure().ValueFormat
	}

	opts := pipeline.Options{VizType: req.VizType, Chart: req.Options, Logger: s.logger}
	c, err := s.runner.Layout(r.Context(), rows, opts)
	if err != nil {
		s.writeError(w, err)
		return
	}
	c.ID = ""
	if err := s.store.Save(r.Context(), &c); err != nil {
		s.writeError(w, err)
		return
	}
	sess, err := newSession(c)
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.putSession(c.ID, sess)

	s.logger.Info("chart created", "id", c.ID, "nodes", len(c.Nodes), "total", c.Total())
	s.writeJSON(w, http.StatusCreated, ChartResponse{Chart: c, Epoch: sess.machine.Epoch()})
}

func (s *Server) handleList(w http.ResponseWriter, r *http.Request) {
	limit := defaultListLimit
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			s.writeError(w, errors.New(errors.ErrCodeInvalidInput, "invalid limit %q", v))
			return
		}
		limit = n
	}
	out, err := s.store.List(r.Context(), limit)
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, map[string]any{"charts": out})
}

func (s *Server) handleGet(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.lookup(w, r)
	if !ok {
		return
	}
	sess.mu.Lock()
	resp := ChartResponse{Chart: sess.chart, Epoch: sess.machine.Epoch()}
	sess.mu.Unlock()
	s.writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleDelete(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if err := errors.ValidateChartID(id); err != nil {
		s.writeError(w, err)
		return
	}
	if err := s.store.Delete(r.Context(), id); err != nil {
		s.writeError(w, err)
		return
	}
	s.dropSession(id)
	w.WriteHeader(http.StatusNoContent)
}

// handleRender renders a stored chart. Query parameters: format (default
// svg), interactive, title, highlight (slash-separated node path), scale
// and detailed.
func (s *Server) handleRender(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.lookup(w, r)
	if !ok {
		return
	}
	q := r.URL.Query()
	f := q.Get("format")
	if f == "" {
		f = pipeline.FormatSVG
	}
	if err := pipeline.ValidateFormat(f); err != nil {
		s.writeError(w, err)
		return
	}
	opts := pipeline.Options{
		Formats:     []string{f},
		Interactive: q.Get("interactive") == "true",
		Title:       q.Get("title"),
		Detailed:    q.Get("detailed") == "true",
		Logger:      s.logger,
	}
	if h := q.Get("highlight"); h != "" {
		opts.Highlight = strings.Split(h, "/")
	}
	if v := q.Get("scale"); v != "" {
		scale, err := strconv.ParseFloat(v, 64)
		if err != nil || scale <= 0 {
			s.writeError(w, errors.New(errors.ErrCodeInvalidOption, "invalid scale %q", v))
			return
		}
		opts.Scale = scale
	}

	sess.mu.Lock()
	c := sess.chart
	sess.mu.Unlock()

	artifacts, err := s.runner.Render(r.Context(), c, opts)
	if err != nil {
		s.writeError(w, err)
		return
	}
	w.Header().Set("Content-Type", contentTypes[f])
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(artifacts[f]); err != nil {
		s.logger.Warn("write artifact", "err", err)
	}
}

func (s *Server) handleHover(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	sess, ok := s.lookup(w, r)
	if !ok {
		return
	}
	var req HoverRequest
	if err := decodeBody(w, r, &req); err != nil {
		s.writeError(w, err)
		return
	}

	sess.mu.Lock()
	defer sess.mu.Unlock()
	m := sess.machine
	if req.Epoch != m.Epoch() {
		observability.Interaction().OnStale(r.Context(), id, req.Epoch, m.Epoch())
		s.writeJSON(w, http.StatusOK, HoverResponse{Frame: m.Current()})
		return
	}
	frame, applied := m.Enter(interaction.Ref{Epoch: req.Epoch, ID: req.Node})
	if !applied {
		s.writeError(w, errors.New(errors.ErrCodeNodeNotFound, "chart %s has no node %d", id, req.Node))
		return
	}
	n, _ := m.Layout().Node(req.Node)
	observability.Interaction().OnHover(r.Context(), id, n.ID, n.Depth)
	s.writeJSON(w, http.StatusOK, HoverResponse{Applied: true, Frame: frame})
}

func (s *Server) handleLeave(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	sess, ok := s.lookup(w, r)
	if !ok {
		return
	}
	sess.mu.Lock()
	frame := sess.machine.Leave()
	sess.mu.Unlock()
	observability.Interaction().OnLeave(r.Context(), id)
	s.writeJSON(w, http.StatusOK, HoverResponse{Applied: true, Frame: frame})
}

// handleClick answers a click on a node with its drill request. Nodes
// without links answer with an empty link list.
func (s *Server) handleClick(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	sess, ok := s.lookup(w, r)
	if !ok {
		return
	}
	var req ClickRequest
	if err := decodeBody(w, r, &req); err != nil {
		s.writeError(w, err)
		return
	}
	sess.mu.Lock()
	n, found := sess.machine.Layout().Node(req.Node)
	var links []taxonomy.Link
	if found {
		links = append(links, n.Links...)
	}
	sess.mu.Unlock()
	if !found {
		s.writeError(w, errors.New(errors.ErrCodeNodeNotFound, "chart %s has no node %d", id, req.Node))
		return
	}
	if links == nil {
		links = []taxonomy.Link{}
	}
	s.writeJSON(w, http.StatusOK, DrillEvent{
		Links: links,
		Event: PagePosition{PageX: req.PageX, PageY: req.PageY},
	})
}

// lookup validates the {id} parameter and returns its session, writing the
// error response itself when it fails.
func (s *Server) lookup(w http.ResponseWriter, r *http.Request) (*session, bool) {
	id := chi.URLParam(r, "id")
	if err := errors.ValidateChartID(id); err != nil {
		s.writeError(w, err)
		return nil, false
	}
	sess, err := s.session(r.Context(), id)
	if err != nil {
		s.writeError(w, err)
		return nil, false
	}
	return sess, true
}
