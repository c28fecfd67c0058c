package diagnostics

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"os/exec"
	"strings"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/clubsantiago/sistema-billar/utils"
)

func init() {
	utils.SilenceLoggers()
}

func fakeExec(out string, err error) ExecFunc {
	return func(context.Context, string, ...string) ([]byte, error) {
		return []byte(out), err
	}
}

func TestDockerProbe(t *testing.T) {
	header := "CONTAINER ID   IMAGE   COMMAND   CREATED   STATUS   PORTS   NAMES\n"
	tests := []struct {
		name   string
		out    string
		err    error
		status Status
	}{
		{"running containers", header + "abc123   postgres:16   \"docker-entrypoint\"   1h   Up   5432/tcp   db\n", nil, StatusOK},
		{"no containers", header, nil, StatusDegraded},
		{"daemon down", "Cannot connect to the Docker daemon", errors.New("exit status 1"), StatusDegraded},
		{"not installed", "", &exec.Error{Name: "docker", Err: exec.ErrNotFound}, StatusUnreachable},
		{"garbage output", "hello\n", nil, StatusDegraded},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := &DockerProbe{Binary: "docker", Exec: fakeExec(tt.out, tt.err)}
			res := p.Run(context.Background())
			assert.Equal(t, tt.status, res.Status, res.Detail)
			assert.Equal(t, "docker", res.Probe)
		})
	}
}

func TestHTTPProbe(t *testing.T) {
	ok := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
	defer ok.Close()
	broken := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer broken.Close()
	closed := httptest.NewServer(http.NotFoundHandler())
	closedURL := closed.URL
	closed.Close()

	assert.Equal(t, StatusOK, NewHTTPProbe("backend", ok.URL).Run(context.Background()).Status)

	res := NewHTTPProbe("backend", broken.URL).Run(context.Background())
	assert.Equal(t, StatusDegraded, res.Status)
	assert.Contains(t, res.Detail, "503")

	assert.Equal(t, StatusUnreachable, NewHTTPProbe("frontend", closedURL).Run(context.Background()).Status)
}

func TestDatabaseProbe(t *testing.T) {
	res := (&DatabaseProbe{}).Run(context.Background())
	assert.Equal(t, StatusUnreachable, res.Status)
	assert.Contains(t, res.Detail, "DATABASE_URL")

	res = (&DatabaseProbe{URL: "file:probe_test?mode=memory&cache=shared"}).Run(context.Background())
	assert.Equal(t, StatusOK, res.Status, res.Detail)

	res = (&DatabaseProbe{URL: "mongodb://localhost/billar"}).Run(context.Background())
	assert.Equal(t, StatusUnreachable, res.Status)
}

func TestRedisProbe(t *testing.T) {
	mr := miniredis.RunT(t)

	res := (&RedisProbe{URL: "redis://" + mr.Addr()}).Run(context.Background())
	assert.Equal(t, StatusOK, res.Status, res.Detail)

	addr := mr.Addr()
	mr.Close()
	res = (&RedisProbe{URL: "redis://" + addr}).Run(context.Background())
	assert.Equal(t, StatusUnreachable, res.Status)
}

type panicProbe struct{}

func (panicProbe) Name() string                { return "boom" }
func (panicProbe) Run(context.Context) Result { panic("kaboom") }

type slowProbe struct{}

func (slowProbe) Name() string { return "slow" }
func (slowProbe) Run(ctx context.Context) Result {
	<-ctx.Done()
	return result("slow", StatusUnreachable, "%v", ctx.Err())
}

func TestRunner_ProbesAreIndependent(t *testing.T) {
	docker := &DockerProbe{Binary: "docker", Exec: fakeExec("", &exec.Error{Name: "docker", Err: exec.ErrNotFound})}
	r := NewRunner(50*time.Millisecond, panicProbe{}, slowProbe{}, docker)

	results := r.RunAll(context.Background())
	require.Len(t, results, 3)

	assert.Equal(t, "boom", results[0].Probe)
	assert.Equal(t, StatusUnreachable, results[0].Status)
	assert.Contains(t, results[0].Detail, "kaboom")

	assert.Equal(t, "slow", results[1].Probe)
	assert.Equal(t, StatusUnreachable, results[1].Status)
	assert.Less(t, results[1].Elapsed, time.Second)

	assert.Equal(t, "docker", results[2].Probe)
	assert.True(t, strings.HasPrefix(results[2].String(), "docker"))
}

func TestRunner_RunByName(t *testing.T) {
	r := NewRunner(time.Second, slowProbe{}, panicProbe{})
	assert.Equal(t, []string{"boom", "slow"}, r.Names())

	res, err := r.Run(context.Background(), "boom")
	require.NoError(t, err)
	assert.Equal(t, StatusUnreachable, res.Status)

	_, err = r.Run(context.Background(), "nope")
	assert.True(t, errors.Is(err, ErrUnknownProbe))
}

func TestDefaultProbes(t *testing.T) {
	names := func(ps []Probe) []string {
		var out []string
		for _, p := range ps {
			out = append(out, p.Name())
		}
		return out
	}

	assert.Equal(t, []string{"docker", "backend", "frontend", "database"}, names(DefaultProbes(Options{})))
	assert.Equal(t, []string{"docker", "backend", "frontend", "database", "redis", "amqp"},
		names(DefaultProbes(Options{RedisURL: "redis://localhost:6379", AMQPURL: "amqp://localhost"})))

	backend := DefaultProbes(Options{})[1].(*HTTPProbe)
	assert.Equal(t, "http://127.0.0.1:8000", backend.URL)
}
