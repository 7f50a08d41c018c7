package devserver

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

func newTestServer(t *testing.T) (*Server, *httptest.Server) {
	t.Helper()
	s := New(nil)
	base := time.Date(2024, 5, 1, 9, 0, 0, 0, time.UTC)
	tick := 0
	s.store.now = func() time.Time {
		tick++
		return base.Add(time.Duration(tick) * time.Minute)
	}
	ts := httptest.NewServer(s.Handler())
	t.Cleanup(ts.Close)
	return s, ts
}

func request(t *testing.T, ts *httptest.Server, method, path, body string) *http.Response {
	t.Helper()
	req, err := http.NewRequest(method, ts.URL+path, strings.NewReader(body))
	if err != nil {
		t.Fatalf("build request: %v", err)
	}
	req.Header.Set("Content-Type", "application/json")
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("%s %s: %v", method, path, err)
	}
	t.Cleanup(func() { resp.Body.Close() })
	return resp
}

func decodeTodo(t *testing.T, resp *http.Response) Todo {
	t.Helper()
	var todo Todo
	if err := json.NewDecoder(resp.Body).Decode(&todo); err != nil {
		t.Fatalf("decode: %v", err)
	}
	return todo
}

func TestCreateAndList(t *testing.T) {
	_, ts := newTestServer(t)

	resp := request(t, ts, http.MethodPost, "/api/todos/", `{"title":"  first  ","description":"a"}`)
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("expected 201, got %d", resp.StatusCode)
	}
	first := decodeTodo(t, resp)
	if first.ID != 1 || first.Title != "first" || first.Completed {
		t.Errorf("unexpected todo %+v", first)
	}
	if !first.CreatedAt.Equal(first.UpdatedAt) {
		t.Error("new todo should have equal timestamps")
	}

	request(t, ts, http.MethodPost, "/api/todos/", `{"title":"second"}`)

	resp = request(t, ts, http.MethodGet, "/api/todos/", "")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
	var todos []Todo
	if err := json.NewDecoder(resp.Body).Decode(&todos); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(todos) != 2 || todos[0].Title != "second" || todos[1].Title != "first" {
		t.Errorf("expected newest first, got %+v", todos)
	}
}

func TestCreate_RejectsMissingOrBlankTitle(t *testing.T) {
	_, ts := newTestServer(t)

	tests := []struct {
		body string
		want string
	}{
		{`{}`, "This field is required."},
		{`{"title":"   "}`, "This field may not be blank."},
		{`{"title":"` + strings.Repeat("x", MaxTitleLength+1) + `"}`, "Ensure this field has no more than 200 characters."},
	}
	for _, tt := range tests {
		resp := request(t, ts, http.MethodPost, "/api/todos/", tt.body)
		if resp.StatusCode != http.StatusBadRequest {
			t.Fatalf("%s: expected 400, got %d", tt.body, resp.StatusCode)
		}
		var body map[string][]string
		if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
			t.Fatalf("decode: %v", err)
		}
		if len(body["title"]) != 1 || body["title"][0] != tt.want {
			t.Errorf("%s: unexpected error body %v", tt.body, body)
		}
	}
}

func TestCreate_MalformedJSON(t *testing.T) {
	_, ts := newTestServer(t)
	resp := request(t, ts, http.MethodPost, "/api/todos/", `{"title":`)
	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("expected 400, got %d", resp.StatusCode)
	}
}

func TestPatchAndPut(t *testing.T) {
	s, ts := newTestServer(t)
	created, _ := s.Store().Create(patch{Title: ptr("write"), Description: ptr("draft")})

	resp := request(t, ts, http.MethodPatch, "/api/todos/1/", `{"description":"final"}`)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
	got := decodeTodo(t, resp)
	if got.Title != "write" || got.Description != "final" {
		t.Errorf("patch should keep title: %+v", got)
	}
	if !got.UpdatedAt.After(created.UpdatedAt) {
		t.Error("patch should bump updated_at")
	}

	resp = request(t, ts, http.MethodPut, "/api/todos/1/", `{"description":"x"}`)
	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("put without title: expected 400, got %d", resp.StatusCode)
	}

	s.Store().Toggle(1)
	resp = request(t, ts, http.MethodPut, "/api/todos/1/", `{"title":"rewrite"}`)
	got = decodeTodo(t, resp)
	if got.Title != "rewrite" || got.Description != "final" || !got.Completed {
		t.Errorf("put should keep omitted optional fields: %+v", got)
	}

	resp = request(t, ts, http.MethodPatch, "/api/todos/1/", `{"title":""}`)
	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("blank title: expected 400, got %d", resp.StatusCode)
	}
}

func TestToggle(t *testing.T) {
	s, ts := newTestServer(t)
	s.Store().Create(patch{Title: ptr("a")})

	resp := request(t, ts, http.MethodPatch, "/api/todos/1/toggle_completed/", "")
	if got := decodeTodo(t, resp); !got.Completed {
		t.Errorf("expected completed, got %+v", got)
	}
	resp = request(t, ts, http.MethodPatch, "/api/todos/1/toggle_completed/", "")
	if got := decodeTodo(t, resp); got.Completed {
		t.Errorf("expected active again, got %+v", got)
	}
}

func TestDelete(t *testing.T) {
	s, ts := newTestServer(t)
	s.Store().Create(patch{Title: ptr("a")})

	resp := request(t, ts, http.MethodDelete, "/api/todos/1/", "")
	if resp.StatusCode != http.StatusNoContent {
		t.Fatalf("expected 204, got %d", resp.StatusCode)
	}
	if len(s.Store().List()) != 0 {
		t.Error("todo should be gone")
	}
	resp = request(t, ts, http.MethodDelete, "/api/todos/1/", "")
	if resp.StatusCode != http.StatusNotFound {
		t.Errorf("second delete: expected 404, got %d", resp.StatusCode)
	}
}

func TestUnknownID(t *testing.T) {
	_, ts := newTestServer(t)
	for _, tc := range []struct{ method, path string }{
		{http.MethodGet, "/api/todos/9/"},
		{http.MethodPatch, "/api/todos/9/"},
		{http.MethodPatch, "/api/todos/9/toggle_completed/"},
		{http.MethodGet, "/api/todos/abc/"},
	} {
		resp := request(t, ts, tc.method, tc.path, "")
		if resp.StatusCode != http.StatusNotFound {
			t.Errorf("%s %s: expected 404, got %d", tc.method, tc.path, resp.StatusCode)
		}
	}
}

func TestCORSPreflight(t *testing.T) {
	_, ts := newTestServer(t)
	req, _ := http.NewRequest(http.MethodOptions, ts.URL+"/api/todos/", nil)
	req.Header.Set("Origin", "http://localhost:3000")
	req.Header.Set("Access-Control-Request-Method", "POST")
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("preflight: %v", err)
	}
	defer resp.Body.Close()
	if got := resp.Header.Get("Access-Control-Allow-Origin"); got != "http://localhost:3000" {
		t.Errorf("unexpected allow origin %q", got)
	}
}

func ptr(s string) *string { return &s }
