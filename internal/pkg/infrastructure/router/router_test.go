package router

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/matryer/is"
)

func TestThatMetricsAreExposed(t *testing.T) {
	is := is.New(t)

	r := New("sensor-monitor-test")
	r.Get("/ping", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	})

	ts := httptest.NewServer(r)
	defer ts.Close()

	resp, err := http.Get(ts.URL + "/ping")
	is.NoErr(err)
	resp.Body.Close()
	is.Equal(resp.StatusCode, http.StatusTeapot)

	resp, err = http.Get(ts.URL + "/metrics")
	is.NoErr(err)
	defer resp.Body.Close()

	body, _ := io.ReadAll(resp.Body)
	is.True(strings.Contains(string(body), `sensormonitor_http_requests_total{code="418",method="GET",route="/ping"} 1`))
}
