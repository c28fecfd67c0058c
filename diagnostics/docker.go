package diagnostics

import (
	"bytes"
	"context"
	"errors"
	"os/exec"
	"strings"
)

// ExecFunc runs a command and returns its combined output.
type ExecFunc func(ctx context.Context, name string, args ...string) ([]byte, error)

func execCommand(ctx context.Context, name string, args ...string) ([]byte, error) {
	return exec.CommandContext(ctx, name, args...).CombinedOutput()
}

// DockerProbe runs `docker ps` and looks at the container table it prints.
type DockerProbe struct {
	Binary string
	Exec   ExecFunc
}

func NewDockerProbe(binary string) *DockerProbe {
	if binary == "" {
		binary = "docker"
	}
	return &DockerProbe{Binary: binary, Exec: execCommand}
}

func (p *DockerProbe) Name() string { return "docker" }

func (p *DockerProbe) Run(ctx context.Context) Result {
	out, err := p.Exec(ctx, p.Binary, "ps")
	if err != nil {
		if errors.Is(err, exec.ErrNotFound) {
			return result(p.Name(), StatusUnreachable, "%s not installed", p.Binary)
		}
		return result(p.Name(), StatusDegraded, "%s ps failed: %s", p.Binary, firstLine(out, err))
	}

	lines := nonEmptyLines(out)
	if len(lines) == 0 || !strings.HasPrefix(lines[0], "CONTAINER") {
		return result(p.Name(), StatusDegraded, "unexpected output from %s ps", p.Binary)
	}
	running := len(lines) - 1
	if running == 0 {
		return result(p.Name(), StatusDegraded, "daemon up, no containers running")
	}
	return result(p.Name(), StatusOK, "%d container(s) running", running)
}

func nonEmptyLines(out []byte) []string {
	var lines []string
	for _, l := range strings.Split(string(bytes.TrimSpace(out)), "\n") {
		if l = strings.TrimSpace(l); l != "" {
			lines = append(lines, l)
		}
	}
	return lines
}

func firstLine(out []byte, err error) string {
	if lines := nonEmptyLines(out); len(lines) > 0 {
		return lines[0]
	}
	return err.Error()
}
