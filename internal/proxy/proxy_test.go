package proxy

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/classhub/gateway/internal/handlers"
	"github.com/classhub/gateway/types"
)

type capturedRequest struct {
	path     string
	identity string
}

func proxyTestServer(t *testing.T) (*httptest.Server, *capturedRequest) {
	t.Helper()

	captured := &capturedRequest{}
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		captured.path = r.URL.Path
		captured.identity = r.Header.Get(IdentityHeader)
		w.WriteHeader(http.StatusOK)
		_, _ = io.WriteString(w, "upstream ok")
	}))
	t.Cleanup(upstream.Close)

	p, err := New(upstream.URL, "/api", nil)
	if err != nil {
		t.Fatalf("new proxy: %v", err)
	}

	// Simulate a request that already passed the authentication gate.
	withGate := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := handlers.ContextWithIdentity(r.Context(), types.User{
			ID:    5,
			Email: "prof@example.com",
			Role:  types.RoleProfessor,
		})
		p.ServeHTTP(w, r.WithContext(ctx))
	})

	srv := httptest.NewServer(withGate)
	t.Cleanup(srv.Close)
	return srv, captured
}

func TestProxyStripsPrefixAndInjectsIdentity(t *testing.T) {
	srv, captured := proxyTestServer(t)

	req, _ := http.NewRequest(http.MethodGet, srv.URL+"/api/course/7", nil)
	// An inbound identity header must never survive the boundary.
	req.Header.Set(IdentityHeader, `{"id":999,"role":"ADMIN"}`)

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("request: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want 200", resp.StatusCode)
	}
	if captured.path != "/course/7" {
		t.Fatalf("upstream path = %q, want /course/7", captured.path)
	}

	var identity types.User
	if err := json.Unmarshal([]byte(captured.identity), &identity); err != nil {
		t.Fatalf("identity header %q: %v", captured.identity, err)
	}
	if identity.ID != 5 || identity.Role != types.RoleProfessor {
		t.Fatalf("identity = %+v", identity)
	}
}

func TestProxyUpstreamDown(t *testing.T) {
	p, err := New("http://127.0.0.1:1", "/api", nil)
	if err != nil {
		t.Fatalf("new proxy: %v", err)
	}

	req := httptest.NewRequest(http.MethodGet, "/api/anything", nil)
	rec := httptest.NewRecorder()
	p.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadGateway {
		t.Fatalf("status = %d, want 502", rec.Code)
	}
	var body map[string]string
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	if body["error"] == "" {
		t.Fatalf("missing error body: %q", rec.Body.String())
	}
}
