package api

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/charmbracelet/log"

	"github.com/mhuisman/etymon/pkg/errors"
	"github.com/mhuisman/etymon/pkg/etymology"
	"github.com/mhuisman/etymon/pkg/pipeline"
)

type stubTracer struct {
	record *etymology.Node
	err    error
	calls  int
}

func (s *stubTracer) Trace(ctx context.Context, word string, opts etymology.Options) (*etymology.Node, error) {
	s.calls++
	if s.err != nil {
		return nil, s.err
	}
	return s.record, nil
}

func (s *stubTracer) Name() string { return "stub" }

func nightRecord() *etymology.Node {
	return &etymology.Node{
		Word: "night", Language: "English", Meaning: "the dark hours",
		Children: []*etymology.Node{{
			Word: "niht", Language: "Old English", Era: "before 12c",
			Children: []*etymology.Node{{
				Word: "*nahts", Language: "Proto-Germanic",
			}},
		}},
	}
}

func testLogger() *log.Logger {
	return log.NewWithOptions(io.Discard, log.Options{})
}

func newTestServer(t *testing.T) (*Server, *stubTracer) {
	t.Helper()
	tracer := &stubTracer{record: nightRecord()}
	runner := pipeline.NewRunner(nil, nil, tracer, testLogger())
	srv, err := New(Config{Runner: runner, Logger: testLogger()})
	if err != nil {
		t.Fatalf("New() failed: %v", err)
	}
	t.Cleanup(srv.hub.Stop)
	return srv, tracer
}

func doRequest(t *testing.T, h http.Handler, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var rd io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("marshal request body: %v", err)
		}
		rd = bytes.NewReader(data)
	}
	req := httptest.NewRequest(method, path, rd)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func errorCode(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	var body errorBody
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode error body: %v (body: %s)", err, rec.Body.String())
	}
	return body.Error.Code
}

func TestHealth(t *testing.T) {
	srv, _ := newTestServer(t)
	rec := doRequest(t, srv.Router(), http.MethodGet, "/healthz", nil)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusOK)
	}
	var body map[string]string
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	if body["status"] != "ok" {
		t.Errorf("status = %q, want ok", body["status"])
	}
	if rec.Header().Get("X-Request-ID") == "" {
		t.Error("X-Request-ID header not set")
	}
}

func TestTrace(t *testing.T) {
	srv, tracer := newTestServer(t)
	rec := doRequest(t, srv.Router(), http.MethodPost, "/api/trace",
		map[string]any{"word": "night"})

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d (body: %s)", rec.Code, http.StatusOK, rec.Body.String())
	}

	var body struct {
		Word     string          `json:"word"`
		TreeHash string          `json:"tree_hash"`
		Nodes    int             `json:"nodes"`
		Depth    int             `json:"depth"`
		Cached   bool            `json:"cached"`
		Tree     json.RawMessage `json:"tree"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode body: %v", err)
	}

	if body.Word != "night" {
		t.Errorf("word = %q, want night", body.Word)
	}
	if body.Nodes != 3 {
		t.Errorf("nodes = %d, want 3", body.Nodes)
	}
	if body.Depth != 2 {
		t.Errorf("depth = %d, want 2", body.Depth)
	}
	if body.TreeHash == "" {
		t.Error("tree_hash is empty")
	}
	if body.Cached {
		t.Error("cached = true, want false with a null cache")
	}
	if !bytes.Contains(body.Tree, []byte(`"root"`)) {
		t.Errorf("tree missing root field: %s", body.Tree)
	}
	if tracer.calls != 1 {
		t.Errorf("tracer calls = %d, want 1", tracer.calls)
	}
}

func TestTraceRequiresWord(t *testing.T) {
	srv, tracer := newTestServer(t)
	rec := doRequest(t, srv.Router(), http.MethodPost, "/api/trace",
		map[string]any{"word": "  "})

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusBadRequest)
	}
	if code := errorCode(t, rec); code != string(errors.ErrCodeInvalidWord) {
		t.Errorf("code = %q, want %s", code, errors.ErrCodeInvalidWord)
	}
	if tracer.calls != 0 {
		t.Errorf("tracer calls = %d, want 0", tracer.calls)
	}
}

func TestTraceRejectsUnknownFields(t *testing.T) {
	srv, _ := newTestServer(t)
	rec := doRequest(t, srv.Router(), http.MethodPost, "/api/trace",
		map[string]any{"word": "night", "wrod": "typo"})

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusBadRequest)
	}
	if code := errorCode(t, rec); code != string(errors.ErrCodeInvalidInput) {
		t.Errorf("code = %q, want %s", code, errors.ErrCodeInvalidInput)
	}
}

func TestTraceWordNotFound(t *testing.T) {
	srv, tracer := newTestServer(t)
	tracer.err = errors.New(errors.ErrCodeWordNotFound, "no lineage for %q", "zzz")

	rec := doRequest(t, srv.Router(), http.MethodPost, "/api/trace",
		map[string]any{"word": "zzz"})

	if rec.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusNotFound)
	}

	var body errorBody
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode error body: %v", err)
	}
	if body.Error.Code != string(errors.ErrCodeWordNotFound) {
		t.Errorf("code = %q, want %s", body.Error.Code, errors.ErrCodeWordNotFound)
	}
	if body.Error.Message != errors.LineageMessage {
		t.Errorf("message = %q, want %q", body.Error.Message, errors.LineageMessage)
	}
	if body.Error.RequestID == "" {
		t.Error("request_id is empty")
	}
}

func TestTraceRateLimited(t *testing.T) {
	srv, tracer := newTestServer(t)
	tracer.err = &errors.RateLimitedError{RetryAfter: 7}

	rec := doRequest(t, srv.Router(), http.MethodPost, "/api/trace",
		map[string]any{"word": "night"})

	if rec.Code != http.StatusTooManyRequests {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusTooManyRequests)
	}
	if got := rec.Header().Get("Retry-After"); got != "7" {
		t.Errorf("Retry-After = %q, want 7", got)
	}
	if code := errorCode(t, rec); code != string(errors.ErrCodeRateLimited) {
		t.Errorf("code = %q, want %s", code, errors.ErrCodeRateLimited)
	}
}

func TestLayoutQuery(t *testing.T) {
	srv, _ := newTestServer(t)
	rec := doRequest(t, srv.Router(), http.MethodGet,
		"/api/layout?word=night&mode=radial&width=640&height=480", nil)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d (body: %s)", rec.Code, http.StatusOK, rec.Body.String())
	}

	var body struct {
		Word   string          `json:"word"`
		Mode   string          `json:"mode"`
		Layout json.RawMessage `json:"layout"`
		Cached stageHits       `json:"cached"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode body: %v", err)
	}

	if body.Mode != "radial" {
		t.Errorf("mode = %q, want radial", body.Mode)
	}
	if len(body.Layout) == 0 {
		t.Error("layout is empty")
	}
	if body.Cached.Trace || body.Cached.Layout {
		t.Errorf("cached = %+v, want all false with a null cache", body.Cached)
	}
}

func TestLayoutQueryBadParam(t *testing.T) {
	srv, _ := newTestServer(t)
	rec := doRequest(t, srv.Router(), http.MethodGet, "/api/layout?word=night&width=wide", nil)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusBadRequest)
	}
	if code := errorCode(t, rec); code != string(errors.ErrCodeInvalidInput) {
		t.Errorf("code = %q, want %s", code, errors.ErrCodeInvalidInput)
	}
}

func TestLayoutRejectsUnknownMode(t *testing.T) {
	srv, _ := newTestServer(t)
	rec := doRequest(t, srv.Router(), http.MethodPost, "/api/layout",
		map[string]any{"word": "night", "mode": "spiral"})

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusBadRequest)
	}
	if code := errorCode(t, rec); code != string(errors.ErrCodeInvalidMode) {
		t.Errorf("code = %q, want %s", code, errors.ErrCodeInvalidMode)
	}
}

func TestExportSingleFormat(t *testing.T) {
	srv, _ := newTestServer(t)
	rec := doRequest(t, srv.Router(), http.MethodPost, "/api/export",
		map[string]any{"word": "night", "formats": []string{"svg"}})

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d (body: %s)", rec.Code, http.StatusOK, rec.Body.String())
	}
	if ct := rec.Header().Get("Content-Type"); ct != "image/svg+xml" {
		t.Errorf("Content-Type = %q, want image/svg+xml", ct)
	}
	if cd := rec.Header().Get("Content-Disposition"); !strings.Contains(cd, "etymon_night_tree.svg") {
		t.Errorf("Content-Disposition = %q, want etymon_night_tree.svg", cd)
	}
	if !bytes.Contains(rec.Body.Bytes(), []byte("<svg")) {
		t.Error("body is not an SVG document")
	}
}

func TestExportMultipleFormats(t *testing.T) {
	srv, _ := newTestServer(t)
	rec := doRequest(t, srv.Router(), http.MethodPost, "/api/export",
		map[string]any{"word": "night", "formats": []string{"svg", "json"}})

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d (body: %s)", rec.Code, http.StatusOK, rec.Body.String())
	}

	var body struct {
		Word      string            `json:"word"`
		Mode      string            `json:"mode"`
		TreeHash  string            `json:"tree_hash"`
		Artifacts map[string][]byte `json:"artifacts"`
		Cached    cacheHits         `json:"cached"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode body: %v", err)
	}

	if body.Word != "night" {
		t.Errorf("word = %q, want night", body.Word)
	}
	if body.Mode != "tree" {
		t.Errorf("mode = %q, want tree", body.Mode)
	}
	for _, f := range []string{"svg", "json"} {
		if len(body.Artifacts[f]) == 0 {
			t.Errorf("artifact %q is empty", f)
		}
	}
	if !bytes.Contains(body.Artifacts["svg"], []byte("<svg")) {
		t.Error("svg artifact is not an SVG document")
	}
}

func TestModes(t *testing.T) {
	srv, _ := newTestServer(t)
	rec := doRequest(t, srv.Router(), http.MethodGet, "/api/modes", nil)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusOK)
	}

	var body struct {
		Modes []modeInfo `json:"modes"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode body: %v", err)
	}

	byName := make(map[string]modeInfo, len(body.Modes))
	for _, m := range body.Modes {
		byName[m.Name] = m
	}

	tree, ok := byName["tree"]
	if !ok {
		t.Fatal("tree mode missing")
	}
	if !tree.Default || tree.Engine != "geometric" {
		t.Errorf("tree mode = %+v, want default geometric", tree)
	}

	dot, ok := byName["dot"]
	if !ok {
		t.Fatal("dot mode missing")
	}
	if dot.Engine != "graphviz" {
		t.Errorf("dot engine = %q, want graphviz", dot.Engine)
	}
}

func TestGardenCRUD(t *testing.T) {
	srv, _ := newTestServer(t)
	router := srv.Router()

	rec := doRequest(t, router, http.MethodPost, "/api/garden/",
		map[string]any{"word": "night", "language": "English", "mode": "radial", "notes": "favourite"})
	if rec.Code != http.StatusCreated {
		t.Fatalf("save status = %d, want %d (body: %s)", rec.Code, http.StatusCreated, rec.Body.String())
	}

	var saved struct {
		ID   string `json:"id"`
		Word string `json:"word"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &saved); err != nil {
		t.Fatalf("decode saved entry: %v", err)
	}
	if saved.ID == "" || saved.Word != "night" {
		t.Fatalf("saved entry = %+v, want id and word night", saved)
	}

	rec = doRequest(t, router, http.MethodGet, "/api/garden/", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("list status = %d, want %d", rec.Code, http.StatusOK)
	}
	var list gardenListResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &list); err != nil {
		t.Fatalf("decode list: %v", err)
	}
	if list.Count != 1 || len(list.Entries) != 1 {
		t.Fatalf("list count = %d (%d entries), want 1", list.Count, len(list.Entries))
	}

	rec = doRequest(t, router, http.MethodGet, "/api/garden/"+saved.ID, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("get status = %d, want %d", rec.Code, http.StatusOK)
	}

	rec = doRequest(t, router, http.MethodDelete, "/api/garden/"+saved.ID, nil)
	if rec.Code != http.StatusNoContent {
		t.Fatalf("delete status = %d, want %d", rec.Code, http.StatusNoContent)
	}

	rec = doRequest(t, router, http.MethodGet, "/api/garden/"+saved.ID, nil)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("get after delete status = %d, want %d", rec.Code, http.StatusNotFound)
	}
	if code := errorCode(t, rec); code != string(errors.ErrCodeEntryNotFound) {
		t.Errorf("code = %q, want %s", code, errors.ErrCodeEntryNotFound)
	}
}

func TestGardenSaveRequiresWord(t *testing.T) {
	srv, _ := newTestServer(t)
	rec := doRequest(t, srv.Router(), http.MethodPost, "/api/garden/",
		map[string]any{"word": "  "})

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusBadRequest)
	}
	if code := errorCode(t, rec); code != string(errors.ErrCodeInvalidWord) {
		t.Errorf("code = %q, want %s", code, errors.ErrCodeInvalidWord)
	}
}

func TestGardenSaveValidatesMode(t *testing.T) {
	srv, _ := newTestServer(t)
	rec := doRequest(t, srv.Router(), http.MethodPost, "/api/garden/",
		map[string]any{"word": "night", "mode": "spiral"})

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusBadRequest)
	}
	if code := errorCode(t, rec); code != string(errors.ErrCodeInvalidMode) {
		t.Errorf("code = %q, want %s", code, errors.ErrCodeInvalidMode)
	}
}

// readEvent scans the stream until the next event and returns its name
// and data line.
func readEvent(t *testing.T, r *bufio.Reader) (name, data string) {
	t.Helper()
	for {
		line, err := r.ReadString('\n')
		if err != nil {
			t.Fatalf("read event stream: %v", err)
		}
		line = strings.TrimSpace(line)
		switch {
		case strings.HasPrefix(line, "event: "):
			name = strings.TrimPrefix(line, "event: ")
		case strings.HasPrefix(line, "data: "):
			data = strings.TrimPrefix(line, "data: ")
		case line == "" && name != "":
			return name, data
		}
	}
}

func TestEventsStream(t *testing.T) {
	srv, _ := newTestServer(t)
	ts := httptest.NewServer(srv.Router())
	defer ts.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, ts.URL+"/events", nil)
	if err != nil {
		t.Fatalf("build request: %v", err)
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("connect to events: %v", err)
	}
	defer resp.Body.Close()

	if ct := resp.Header.Get("Content-Type"); ct != "text/event-stream" {
		t.Fatalf("Content-Type = %q, want text/event-stream", ct)
	}

	reader := bufio.NewReader(resp.Body)
	name, _ := readEvent(t, reader)
	if name != "connected" {
		t.Fatalf("first event = %q, want connected", name)
	}

	// The connected event is sent after registration, so a notify
	// from here on is guaranteed to reach the client.
	body, _ := json.Marshal(map[string]any{"word": "night"})
	post, err := http.Post(ts.URL+"/api/garden/", "application/json", bytes.NewReader(body))
	if err != nil {
		t.Fatalf("save garden entry: %v", err)
	}
	post.Body.Close()
	if post.StatusCode != http.StatusCreated {
		t.Fatalf("save status = %d, want %d", post.StatusCode, http.StatusCreated)
	}

	name, data := readEvent(t, reader)
	if name != "change" {
		t.Fatalf("second event = %q, want change", name)
	}
	if !strings.Contains(data, `"source":"garden"`) {
		t.Errorf("event data = %q, want garden source", data)
	}
}

func TestEventHubWatchesFiles(t *testing.T) {
	hub, err := NewEventHub(map[string]string{"/tmp/etymon-garden.yml": "garden"})
	if err != nil {
		t.Fatalf("NewEventHub() failed: %v", err)
	}
	defer hub.Stop()

	if hub.ClientCount() != 0 {
		t.Errorf("ClientCount() = %d, want 0", hub.ClientCount())
	}

	// Notify with no clients must not block.
	hub.Notify("garden")
}
