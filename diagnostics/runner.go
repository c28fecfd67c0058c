package diagnostics

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"
)

var ErrUnknownProbe = errors.New("unknown probe")

// Runner executes probes one after another, each under its own timeout.
// A failing or panicking probe never affects the others.
type Runner struct {
	probes  []Probe
	Timeout time.Duration
}

func NewRunner(timeout time.Duration, probes ...Probe) *Runner {
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	return &Runner{probes: probes, Timeout: timeout}
}

func (r *Runner) RunAll(ctx context.Context) []Result {
	results := make([]Result, 0, len(r.probes))
	for _, p := range r.probes {
		results = append(results, r.run(ctx, p))
	}
	return results
}

func (r *Runner) Run(ctx context.Context, name string) (Result, error) {
	for _, p := range r.probes {
		if p.Name() == name {
			return r.run(ctx, p), nil
		}
	}
	return Result{}, fmt.Errorf("%w: %q (known: %v)", ErrUnknownProbe, name, r.Names())
}

// Names returns the registered probe names, sorted.
func (r *Runner) Names() []string {
	names := make([]string, 0, len(r.probes))
	for _, p := range r.probes {
		names = append(names, p.Name())
	}
	sort.Strings(names)
	return names
}

func (r *Runner) run(ctx context.Context, p Probe) (res Result) {
	ctx, cancel := context.WithTimeout(ctx, r.Timeout)
	defer cancel()

	start := time.Now()
	defer func() {
		if rec := recover(); rec != nil {
			res = result(p.Name(), StatusUnreachable, "probe panicked: %v", rec)
		}
		res.Probe = p.Name()
		res.Elapsed = time.Since(start)
	}()
	return p.Run(ctx)
}

// Options configures the default probe set.
type Options struct {
	BackendURL   string
	FrontendURL  string
	DatabaseURL  string
	RedisURL     string
	AMQPURL      string
	DockerBinary string
}

// DefaultProbes builds the standard probe set. Redis and AMQP are only
// included when their URLs are configured.
func DefaultProbes(o Options) []Probe {
	if o.BackendURL == "" {
		o.BackendURL = "http://127.0.0.1:8000"
	}
	if o.FrontendURL == "" {
		o.FrontendURL = "http://localhost:3000"
	}

	probes := []Probe{
		NewDockerProbe(o.DockerBinary),
		NewHTTPProbe("backend", o.BackendURL),
		NewHTTPProbe("frontend", o.FrontendURL),
		&DatabaseProbe{URL: o.DatabaseURL},
	}
	if o.RedisURL != "" {
		probes = append(probes, &RedisProbe{URL: o.RedisURL})
	}
	if o.AMQPURL != "" {
		probes = append(probes, &AMQPProbe{URL: o.AMQPURL})
	}
	return probes
}

func timeUntil(deadline time.Time) time.Duration {
	d := time.Until(deadline)
	if d < time.Millisecond {
		return time.Millisecond
	}
	return d
}
