package main

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRun_SelectedProbe(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	var out, errOut bytes.Buffer
	code := run([]string{"-probe", "backend", "-backend-url", srv.URL}, &out, &errOut)
	assert.Equal(t, 0, code)
	assert.Contains(t, out.String(), "backend")
	assert.Contains(t, out.String(), "ok")
}

func TestRun_UnreachableIsNotAFailure(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	var out, errOut bytes.Buffer
	code := run([]string{"-probe", "frontend", "-frontend-url", url, "-timeout", "500ms"}, &out, &errOut)
	assert.Equal(t, 0, code)
	assert.Contains(t, out.String(), "unreachable")
}

func TestRun_UnknownProbe(t *testing.T) {
	var out, errOut bytes.Buffer
	code := run([]string{"-probe", "mainframe"}, &out, &errOut)
	assert.Equal(t, 2, code)
	assert.Contains(t, errOut.String(), "unknown probe")
}
