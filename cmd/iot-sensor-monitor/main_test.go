package main

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"

	"github.com/diwise/iot-sensor-monitor/internal/pkg/application"
	"github.com/go-chi/jwtauth/v5"
	"github.com/matryer/is"
	"github.com/rs/zerolog"
)

func TestThatHealthIsAvailable(t *testing.T) {
	is, server, _ := setupTest(t)
	defer server.Close()

	resp, _ := testRequest(is, server, http.MethodGet, "/health", "", "")
	is.Equal(resp.StatusCode, http.StatusNoContent)
}

func TestThatIncidentsCanBeOpenedAndResolved(t *testing.T) {
	is, server, token := setupTest(t)
	defer server.Close()

	resp, body := testRequest(is, server, http.MethodPost, "/api/v0/incidents", token, `{"temperature":35}`)
	is.Equal(resp.StatusCode, http.StatusCreated)
	is.True(strings.Contains(body, `"status":"up"`))

	resp, body = testRequest(is, server, http.MethodPatch, "/api/v0/incidents/1", token, `{"status":"being resolved"}`)
	is.Equal(resp.StatusCode, http.StatusOK)
	is.True(strings.Contains(body, `"resolvedBy":"alice"`))

	resp, _ = testRequest(is, server, http.MethodPatch, "/api/v0/incidents/1", token, `{"status":"resolved"}`)
	is.Equal(resp.StatusCode, http.StatusOK)

	resp, _ = testRequest(is, server, http.MethodPatch, "/api/v0/incidents/1", token, `{"status":"up"}`)
	is.Equal(resp.StatusCode, http.StatusConflict)

	resp, _ = testRequest(is, server, http.MethodPost, "/api/v0/incidents/1/comments", token, `{"content":"compressor restarted"}`)
	is.Equal(resp.StatusCode, http.StatusCreated)

	resp, body = testRequest(is, server, http.MethodGet, "/api/v0/incidents/1/comments", token, "")
	is.Equal(resp.StatusCode, http.StatusOK)
	is.True(strings.Contains(body, `"userName":"alice"`))
}

func TestThatSimulatedSeriesIsServed(t *testing.T) {
	is, server, token := setupTest(t)
	defer server.Close()

	resp, body := testRequest(is, server, http.MethodGet, "/api/v0/series/humidity?period=week", token, "")
	is.Equal(resp.StatusCode, http.StatusOK)
	is.Equal(strings.Count(body, `"label"`), 8)
}

func setupTest(t *testing.T) (*is.I, *httptest.Server, string) {
	is := is.New(t)
	ctx := context.Background()

	flags := defaultFlags()
	flags[devmode] = "true"
	flags[jwtSecret] = "secret"

	cfg := application.DefaultConfig()
	cfg.Storage.Path = filepath.Join(t.TempDir(), "data")

	app, err := initialize(ctx, flags, cfg, io.NopCloser(strings.NewReader(policy)))
	is.NoErr(err)

	_, token, _ := jwtauth.New("HS256", []byte("secret"), nil).Encode(map[string]any{"name": "alice", "role": "admin"})

	t.Cleanup(app.close)

	return is, httptest.NewServer(app.router), token
}

func testRequest(is *is.I, ts *httptest.Server, method, path, token, body string) (*http.Response, string) {
	req, _ := http.NewRequest(method, ts.URL+path, strings.NewReader(body))
	if token != "" {
		req.Header.Add("Authorization", "Bearer "+token)
	}

	resp, err := http.DefaultClient.Do(req)
	is.NoErr(err)
	defer resp.Body.Close()

	respBody, _ := io.ReadAll(resp.Body)

	return resp, string(respBody)
}

func TestThatMissingConfigurationFallsBackToDefaults(t *testing.T) {
	is := is.New(t)

	cfg, err := loadConfiguration(zerolog.Nop(), filepath.Join(t.TempDir(), "missing.yaml"))
	is.NoErr(err)
	is.Equal(cfg.Storage.Driver, application.StorageFile)
}

const policy string = `
package dashboard.authz

default allow = false

allow {
	input.role == "admin"
}
`
