// Package proxy forwards authenticated requests to the downstream
// course service, asserting the caller's identity in a trusted header.
package proxy

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httputil"
	"net/url"
	"strings"

	"github.com/classhub/gateway/internal/handlers"
)

// IdentityHeader carries the JSON-serialized sanitized identity of the
// authenticated caller, so the course service can trust who is calling
// without re-verifying the token.
const IdentityHeader = "X-User"

// Proxy forwards /api/* traffic to the course service with the path
// prefix stripped and the caller's identity injected.
type Proxy struct {
	target  *url.URL
	prefix  string
	reverse *httputil.ReverseProxy
	logger  *slog.Logger
}

// New constructs a Proxy for the given course-service base URL. prefix
// is the route prefix to strip from forwarded paths (e.g. "/api").
func New(baseURL, prefix string, logger *slog.Logger) (*Proxy, error) {
	target, err := url.Parse(baseURL)
	if err != nil {
		return nil, err
	}
	if logger == nil {
		logger = slog.Default()
	}

	p := &Proxy{
		target: target,
		prefix: prefix,
		logger: logger,
	}
	p.reverse = &httputil.ReverseProxy{
		Rewrite:      p.rewrite,
		ErrorHandler: p.upstreamError,
	}
	return p, nil
}

// ServeHTTP implements http.Handler.
func (p *Proxy) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	p.reverse.ServeHTTP(w, r)
}

func (p *Proxy) rewrite(pr *httputil.ProxyRequest) {
	pr.SetURL(p.target)
	pr.SetXForwarded()

	path := strings.TrimPrefix(pr.In.URL.Path, p.prefix)
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}
	pr.Out.URL.Path = strings.TrimRight(p.target.Path, "/") + path
	pr.Out.URL.RawPath = ""

	// Never trust an inbound identity header; only the gate's resolved
	// identity crosses this boundary.
	pr.Out.Header.Del(IdentityHeader)
	if identity, ok := handlers.IdentityFromContext(pr.In.Context()); ok {
		if data, err := json.Marshal(identity); err == nil {
			pr.Out.Header.Set(IdentityHeader, string(data))
		}
	}
}

func (p *Proxy) upstreamError(w http.ResponseWriter, r *http.Request, err error) {
	p.logger.Error("proxy upstream", "path", r.URL.Path, "error", err)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusBadGateway)
	_ = json.NewEncoder(w).Encode(map[string]string{
		"error": "Course service unavailable",
	})
}
