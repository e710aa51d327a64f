package api

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/matzehuels/labelspread/pkg/cache"
	"github.com/matzehuels/labelspread/pkg/labels"
	"github.com/matzehuels/labelspread/pkg/pipeline"
)

func testLogger() *log.Logger {
	return log.NewWithOptions(io.Discard, log.Options{})
}

func newTestServer() *Server {
	return New(Config{
		Store:  NewMemoryStore(),
		Runner: pipeline.NewRunner(cache.NewMemoryCache(), nil, testLogger()),
		Logger: testLogger(),
	})
}

// doRequest drives the server directly, encoding body as JSON when present.
func doRequest(t *testing.T, srv *Server, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("encode request body: %v", err)
		}
	}

	req := httptest.NewRequest(method, path, &buf)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, req)
	return rec
}

// errorCode extracts the code from an error response body.
func errorCode(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()

	var resp errorResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode error body %q: %v", rec.Body.String(), err)
	}
	return resp.Error.Code
}

func TestHealthz(t *testing.T) {
	srv := newTestServer()

	rec := doRequest(t, srv, http.MethodGet, "/healthz", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), `"ok"`) {
		t.Errorf("body = %q, want an ok status", rec.Body.String())
	}
}

func TestPlacementsAnchors(t *testing.T) {
	srv := newTestServer()

	body := map[string]any{"anchors": []int{0, 0}, "separation": 5}
	rec := doRequest(t, srv, http.MethodPost, "/api/v1/placements", body)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200 (body %s)", rec.Code, rec.Body.String())
	}

	var res labels.Result
	if err := json.Unmarshal(rec.Body.Bytes(), &res); err != nil {
		t.Fatalf("decode result: %v", err)
	}
	if got := res.Positions(); len(got) != 2 || got[0] != -3 || got[1] != 2 {
		t.Errorf("positions = %v, want [-3 2]", got)
	}
	if res.MaxOffset != 3 {
		t.Errorf("MaxOffset = %d, want 3", res.MaxOffset)
	}
	if res.Placements[0].ID != "1" || res.Placements[1].ID != "2" {
		t.Errorf("anchors should get ordinal IDs, got %+v", res.Placements)
	}
}

func TestPlacementsWithLimits(t *testing.T) {
	srv := newTestServer()

	body := map[string]any{
		"labels": []map[string]any{
			{"id": "a", "anchor": -10},
			{"id": "b", "anchor": -1},
			{"id": "c", "anchor": 1},
			{"id": "d", "anchor": 10},
		},
		"separation": 10,
		"limits":     map[string]int{"min": 0, "max": 100},
	}
	rec := doRequest(t, srv, http.MethodPost, "/api/v1/placements", body)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200 (body %s)", rec.Code, rec.Body.String())
	}

	var res labels.Result
	if err := json.Unmarshal(rec.Body.Bytes(), &res); err != nil {
		t.Fatalf("decode result: %v", err)
	}
	if got := res.Positions(); len(got) != 4 ||
		got[0] != 0 || got[1] != 10 || got[2] != 20 || got[3] != 30 {
		t.Errorf("positions = %v, want [0 10 20 30]", got)
	}
}

func TestPlacementsValidation(t *testing.T) {
	srv := newTestServer()

	tests := []struct {
		name     string
		body     any
		wantCode string
	}{
		{
			name:     "no anchors or labels",
			body:     map[string]any{"separation": 5},
			wantCode: "INVALID_INPUT",
		},
		{
			name: "both anchors and labels",
			body: map[string]any{
				"anchors":    []int{1},
				"labels":     []map[string]any{{"id": "a", "anchor": 1}},
				"separation": 5,
			},
			wantCode: "INVALID_INPUT",
		},
		{
			name:     "negative separation",
			body:     map[string]any{"anchors": []int{1, 2}, "separation": -1},
			wantCode: "INVALID_SET",
		},
		{
			name: "duplicate label IDs",
			body: map[string]any{
				"labels": []map[string]any{
					{"id": "a", "anchor": 1},
					{"id": "a", "anchor": 2},
				},
				"separation": 5,
			},
			wantCode: "INVALID_SET",
		},
		{
			name:     "unknown field",
			body:     map[string]any{"anchors": []int{1}, "separation": 5, "bogus": true},
			wantCode: "INVALID_INPUT",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := doRequest(t, srv, http.MethodPost, "/api/v1/placements", tt.body)
			if rec.Code != http.StatusBadRequest {
				t.Fatalf("status = %d, want 400 (body %s)", rec.Code, rec.Body.String())
			}
			if got := errorCode(t, rec); got != tt.wantCode {
				t.Errorf("error code = %q, want %q", got, tt.wantCode)
			}
		})
	}
}

func TestSetLifecycle(t *testing.T) {
	srv := newTestServer()

	create := map[string]any{
		"name":       "pair",
		"separation": 10,
		"labels": []map[string]any{
			{"id": "a", "anchor": 0},
			{"id": "b", "anchor": 1},
		},
	}
	rec := doRequest(t, srv, http.MethodPost, "/api/v1/sets", create)
	if rec.Code != http.StatusCreated {
		t.Fatalf("create status = %d, want 201 (body %s)", rec.Code, rec.Body.String())
	}

	var stored StoredSet
	if err := json.Unmarshal(rec.Body.Bytes(), &stored); err != nil {
		t.Fatalf("decode created set: %v", err)
	}
	if _, err := uuid.Parse(stored.ID); err != nil {
		t.Errorf("server-assigned ID %q is not a UUID: %v", stored.ID, err)
	}
	if stored.CreatedAt.IsZero() || stored.UpdatedAt.IsZero() {
		t.Error("timestamps not set on create")
	}

	rec = doRequest(t, srv, http.MethodGet, "/api/v1/sets/"+stored.ID, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("get status = %d, want 200", rec.Code)
	}
	var fetched StoredSet
	if err := json.Unmarshal(rec.Body.Bytes(), &fetched); err != nil {
		t.Fatalf("decode fetched set: %v", err)
	}
	if fetched.Set.Name != "pair" || len(fetched.Set.Labels) != 2 {
		t.Errorf("fetched set = %+v, want the stored one", fetched.Set)
	}

	rec = doRequest(t, srv, http.MethodGet, "/api/v1/sets", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("list status = %d, want 200", rec.Code)
	}
	var list setListResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &list); err != nil {
		t.Fatalf("decode list: %v", err)
	}
	if list.Count != 1 || len(list.Sets) != 1 {
		t.Errorf("list count = %d (%d sets), want 1", list.Count, len(list.Sets))
	}

	rec = doRequest(t, srv, http.MethodDelete, "/api/v1/sets/"+stored.ID, nil)
	if rec.Code != http.StatusNoContent {
		t.Fatalf("delete status = %d, want 204", rec.Code)
	}

	rec = doRequest(t, srv, http.MethodGet, "/api/v1/sets/"+stored.ID, nil)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("get after delete status = %d, want 404", rec.Code)
	}
	if got := errorCode(t, rec); got != "NOT_FOUND_SET" {
		t.Errorf("error code = %q, want NOT_FOUND_SET", got)
	}

	rec = doRequest(t, srv, http.MethodDelete, "/api/v1/sets/"+stored.ID, nil)
	if rec.Code != http.StatusNotFound {
		t.Errorf("double delete status = %d, want 404", rec.Code)
	}
}

func TestCreateSetExplicitID(t *testing.T) {
	srv := newTestServer()

	create := map[string]any{
		"id":         "my-set",
		"separation": 5,
		"labels":     []map[string]any{{"id": "a", "anchor": 0}},
	}
	rec := doRequest(t, srv, http.MethodPost, "/api/v1/sets", create)
	if rec.Code != http.StatusCreated {
		t.Fatalf("create status = %d, want 201 (body %s)", rec.Code, rec.Body.String())
	}
	var stored StoredSet
	if err := json.Unmarshal(rec.Body.Bytes(), &stored); err != nil {
		t.Fatalf("decode created set: %v", err)
	}
	if stored.ID != "my-set" {
		t.Errorf("ID = %q, want my-set", stored.ID)
	}

	// Replacing the same ID answers 200 and keeps the creation time.
	rec = doRequest(t, srv, http.MethodPost, "/api/v1/sets", create)
	if rec.Code != http.StatusOK {
		t.Fatalf("replace status = %d, want 200 (body %s)", rec.Code, rec.Body.String())
	}
	var replaced StoredSet
	if err := json.Unmarshal(rec.Body.Bytes(), &replaced); err != nil {
		t.Fatalf("decode replaced set: %v", err)
	}
	if !replaced.CreatedAt.Equal(stored.CreatedAt) {
		t.Errorf("CreatedAt changed on replace: %v -> %v", stored.CreatedAt, replaced.CreatedAt)
	}

	create["id"] = "../escape"
	rec = doRequest(t, srv, http.MethodPost, "/api/v1/sets", create)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("traversal ID status = %d, want 400", rec.Code)
	}
	if got := errorCode(t, rec); got != "INVALID_INPUT" {
		t.Errorf("error code = %q, want INVALID_INPUT", got)
	}
}

func TestSetResult(t *testing.T) {
	srv := newTestServer()

	create := map[string]any{
		"id":         "pair",
		"separation": 10,
		"labels": []map[string]any{
			{"id": "a", "anchor": 0},
			{"id": "b", "anchor": 1},
		},
	}
	if rec := doRequest(t, srv, http.MethodPost, "/api/v1/sets", create); rec.Code != http.StatusCreated {
		t.Fatalf("create status = %d", rec.Code)
	}

	rec := doRequest(t, srv, http.MethodGet, "/api/v1/sets/pair/result", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("result status = %d, want 200 (body %s)", rec.Code, rec.Body.String())
	}
	var res labels.Result
	if err := json.Unmarshal(rec.Body.Bytes(), &res); err != nil {
		t.Fatalf("decode result: %v", err)
	}
	if got := res.Positions(); len(got) != 2 || got[0] != -5 || got[1] != 5 {
		t.Errorf("positions = %v, want [-5 5]", got)
	}

	// Query override widens the separation.
	rec = doRequest(t, srv, http.MethodGet, "/api/v1/sets/pair/result?separation=20", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("override status = %d, want 200", rec.Code)
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &res); err != nil {
		t.Fatalf("decode overridden result: %v", err)
	}
	if got := res.Positions(); len(got) != 2 || got[0] != -10 || got[1] != 10 {
		t.Errorf("overridden positions = %v, want [-10 10]", got)
	}

	tests := []struct {
		name  string
		query string
	}{
		{"malformed separation", "?separation=abc"},
		{"inverted limits", "?min=5&max=1"},
		{"malformed refresh", "?refresh=maybe"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := doRequest(t, srv, http.MethodGet, "/api/v1/sets/pair/result"+tt.query, nil)
			if rec.Code != http.StatusBadRequest {
				t.Fatalf("status = %d, want 400 (body %s)", rec.Code, rec.Body.String())
			}
			if got := errorCode(t, rec); got != "INVALID_INPUT" {
				t.Errorf("error code = %q, want INVALID_INPUT", got)
			}
		})
	}
}

func TestSetPreviewSVG(t *testing.T) {
	srv := newTestServer()

	create := map[string]any{
		"id":         "pair",
		"name":       "pair",
		"separation": 10,
		"labels": []map[string]any{
			{"id": "a", "anchor": 0},
			{"id": "b", "anchor": 1},
		},
	}
	if rec := doRequest(t, srv, http.MethodPost, "/api/v1/sets", create); rec.Code != http.StatusCreated {
		t.Fatalf("create status = %d", rec.Code)
	}

	rec := doRequest(t, srv, http.MethodGet, "/api/v1/sets/pair/preview.svg", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("preview status = %d, want 200 (body %s)", rec.Code, rec.Body.String())
	}
	if ct := rec.Header().Get("Content-Type"); ct != "image/svg+xml" {
		t.Errorf("Content-Type = %q, want image/svg+xml", ct)
	}
	if !strings.HasPrefix(rec.Body.String(), "<svg") {
		t.Errorf("body does not start with <svg: %.60q", rec.Body.String())
	}

	rec = doRequest(t, srv, http.MethodGet, "/api/v1/sets/pair/preview.svg?theme=dark&width=800&height=300", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("themed preview status = %d, want 200", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), `width="800"`) {
		t.Error("width query not applied to preview")
	}

	tests := []struct {
		name  string
		query string
	}{
		{"unknown theme", "?theme=sepia"},
		{"malformed width", "?width=abc"},
		{"negative height", "?height=-5"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := doRequest(t, srv, http.MethodGet, "/api/v1/sets/pair/preview.svg"+tt.query, nil)
			if rec.Code != http.StatusBadRequest {
				t.Fatalf("status = %d, want 400 (body %s)", rec.Code, rec.Body.String())
			}
			if got := errorCode(t, rec); got != "INVALID_INPUT" {
				t.Errorf("error code = %q, want INVALID_INPUT", got)
			}
		})
	}
}

func TestRequestIDHeader(t *testing.T) {
	srv := newTestServer()

	rec := doRequest(t, srv, http.MethodGet, "/healthz", nil)
	if rec.Header().Get("X-Request-ID") == "" {
		t.Error("response missing X-Request-ID")
	}

	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	req.Header.Set("X-Request-ID", "caller-id")
	echo := httptest.NewRecorder()
	srv.ServeHTTP(echo, req)
	if got := echo.Header().Get("X-Request-ID"); got != "caller-id" {
		t.Errorf("X-Request-ID = %q, want the caller's id echoed", got)
	}
}

func TestUnknownRouteIs404(t *testing.T) {
	srv := newTestServer()

	rec := doRequest(t, srv, http.MethodGet, "/api/v1/nope", nil)
	if rec.Code != http.StatusNotFound {
		t.Errorf("status = %d, want 404", rec.Code)
	}
}
