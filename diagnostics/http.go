package diagnostics

import (
	"context"
	"io"
	"net/http"
)

// HTTPProbe issues a GET and expects a 200.
type HTTPProbe struct {
	ProbeName string
	URL       string
	Client    *http.Client
}

func NewHTTPProbe(name, url string) *HTTPProbe {
	return &HTTPProbe{ProbeName: name, URL: url, Client: http.DefaultClient}
}

func (p *HTTPProbe) Name() string { return p.ProbeName }

func (p *HTTPProbe) Run(ctx context.Context) Result {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, p.URL, nil)
	if err != nil {
		return result(p.Name(), StatusUnreachable, "bad url %q: %v", p.URL, err)
	}
	resp, err := p.Client.Do(req)
	if err != nil {
		return result(p.Name(), StatusUnreachable, "%s: %v", p.URL, err)
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 64<<10))

	if resp.StatusCode != http.StatusOK {
		return result(p.Name(), StatusDegraded, "%s returned %d", p.URL, resp.StatusCode)
	}
	return result(p.Name(), StatusOK, "%s returned 200", p.URL)
}
