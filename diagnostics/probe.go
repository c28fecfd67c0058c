// Package diagnostics checks whether the services a developer needs locally
// are reachable. Every probe is independent and best effort: failures are
// reported, never retried and never escalated.
package diagnostics

import (
	"context"
	"fmt"
	"time"
)

type Status string

const (
	StatusOK          Status = "ok"
	StatusDegraded    Status = "degraded"
	StatusUnreachable Status = "unreachable"
)

// Result is the outcome of a single probe run.
type Result struct {
	Probe   string        `json:"probe"`
	Status  Status        `json:"status"`
	Detail  string        `json:"detail"`
	Elapsed time.Duration `json:"elapsed"`
}

func (r Result) String() string {
	line := fmt.Sprintf("%-9s %-11s", r.Probe, r.Status)
	if r.Detail != "" {
		line += " " + r.Detail
	}
	return fmt.Sprintf("%s (%s)", line, r.Elapsed.Round(time.Millisecond))
}

// Probe checks one external dependency.
type Probe interface {
	Name() string
	Run(ctx context.Context) Result
}

func result(name string, status Status, format string, args ...interface{}) Result {
	return Result{Probe: name, Status: status, Detail: fmt.Sprintf(format, args...)}
}
