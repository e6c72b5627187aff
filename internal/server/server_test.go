package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/papergenie/internal/feed"
	"github.com/pdiddy/papergenie/internal/observability"
	"github.com/pdiddy/papergenie/internal/pipeline"
	"github.com/pdiddy/papergenie/pkg/types"
)

type fakeRunner struct {
	result *pipeline.Result
	err    error

	calls     int
	lastQuery string
	lastCount int
}

func (f *fakeRunner) Run(_ context.Context, query string, n int) (*pipeline.Result, error) {
	f.calls++
	f.lastQuery = query
	f.lastCount = n
	return f.result, f.err
}

func newTestServer(t *testing.T, runner Runner) (*Server, *observability.Metrics) {
	t.Helper()
	reg := prometheus.NewRegistry()
	m := observability.NewMetrics(reg)
	return New(types.ServerConfig{}, runner, m, reg, zerolog.Nop()), m
}

func do(t *testing.T, s *Server, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)
	return rec
}

func decodeError(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	var body map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return body["error"]
}

func TestHealthz(t *testing.T) {
	s, _ := newTestServer(t, &fakeRunner{})
	rec := do(t, s, http.MethodGet, "/healthz", "")

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
	assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())
}

func TestCreateSummaries(t *testing.T) {
	runner := &fakeRunner{result: &pipeline.Result{
		Query:      "deep learning",
		Digest:     "📌 A\n🧠 Summary: s\n🔗 http://arxiv.org/abs/1\n\n",
		ReportPath: "Summarized_Papers.docx",
		Papers: []*types.Paper{
			{ID: "1", Title: "A", Summary: "s", Outcome: types.OutcomeSummarized},
		},
		Stats: pipeline.Stats{Summarized: 1},
	}}
	s, _ := newTestServer(t, runner)

	rec := do(t, s, http.MethodPost, "/api/v1/summaries", `{"query":"  deep learning ","count":3}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	assert.Equal(t, 1, runner.calls)
	assert.Equal(t, "deep learning", runner.lastQuery)
	assert.Equal(t, 3, runner.lastCount)

	var resp SummaryResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, runner.result.Digest, resp.Digest)
	assert.Equal(t, "Summarized_Papers.docx", resp.ReportPath)
	assert.Equal(t, "/api/v1/report", resp.ReportURL)
	assert.Equal(t, 1, resp.Stats.Summarized)
	require.Len(t, resp.Papers, 1)
	assert.Equal(t, types.OutcomeSummarized, resp.Papers[0].Outcome)
}

func TestCreateSummaries_Validation(t *testing.T) {
	tests := []struct {
		name    string
		body    string
		wantMsg string
	}{
		{"malformed json", `{"query":`, "invalid JSON body"},
		{"missing query", `{"count":3}`, "query is required"},
		{"blank query", `{"query":"   ","count":3}`, "query is required"},
		{"missing count", `{"query":"x"}`, "count is required"},
		{"count too large", `{"query":"x","count":11}`, "count must be at most 10"},
		{"negative count", `{"query":"x","count":-1}`, "count must be at least 1"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			runner := &fakeRunner{}
			s, _ := newTestServer(t, runner)

			rec := do(t, s, http.MethodPost, "/api/v1/summaries", tt.body)
			assert.Equal(t, http.StatusBadRequest, rec.Code)
			assert.Contains(t, decodeError(t, rec), tt.wantMsg)
			assert.Zero(t, runner.calls)
		})
	}
}

func TestCreateSummaries_RunErrors(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
	}{
		{"feed unavailable", fmt.Errorf("searching feed: %w", &feed.MetadataError{Err: errors.New("HTTP 503")}), http.StatusBadGateway},
		{"bad arguments", fmt.Errorf("searching feed: %w", feed.ErrEmptyQuery), http.StatusBadRequest},
		{"report write", errors.New("writing report: disk full"), http.StatusInternalServerError},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, _ := newTestServer(t, &fakeRunner{err: tt.err})

			rec := do(t, s, http.MethodPost, "/api/v1/summaries", `{"query":"x","count":1}`)
			assert.Equal(t, tt.wantStatus, rec.Code)
			assert.Equal(t, tt.err.Error(), decodeError(t, rec))
		})
	}
}

func TestDownloadReport_NoneYet(t *testing.T) {
	s, _ := newTestServer(t, &fakeRunner{})
	rec := do(t, s, http.MethodGet, "/api/v1/report", "")

	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Contains(t, decodeError(t, rec), "no report")
}

func TestDownloadReport_AfterRun(t *testing.T) {
	path := filepath.Join(t.TempDir(), "digest.md")
	require.NoError(t, os.WriteFile(path, []byte("# AI Research Summaries\n"), 0o644))

	s, _ := newTestServer(t, &fakeRunner{result: &pipeline.Result{ReportPath: path}})
	require.Equal(t, http.StatusOK, do(t, s, http.MethodPost, "/api/v1/summaries", `{"query":"x","count":1}`).Code)

	rec := do(t, s, http.MethodGet, "/api/v1/report", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "text/markdown; charset=utf-8", rec.Header().Get("Content-Type"))
	assert.Equal(t, `attachment; filename="digest.md"`, rec.Header().Get("Content-Disposition"))
	assert.Equal(t, "# AI Research Summaries\n", rec.Body.String())
}

func TestMetricsEndpoint(t *testing.T) {
	s, m := newTestServer(t, &fakeRunner{})

	do(t, s, http.MethodGet, "/healthz", "")
	do(t, s, http.MethodGet, "/api/v1/report", "")

	assert.Equal(t, 1.0, testutil.ToFloat64(m.HTTPRequestsTotal.WithLabelValues("GET", "/healthz", "200")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.HTTPRequestsTotal.WithLabelValues("GET", "/api/v1/report", "404")))

	rec := do(t, s, http.MethodGet, "/metrics", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "papergenie_http_requests_total")
}

func TestUnknownRoute(t *testing.T) {
	s, _ := newTestServer(t, &fakeRunner{})
	rec := do(t, s, http.MethodGet, "/nope", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestNew_DefaultAddr(t *testing.T) {
	s, _ := newTestServer(t, &fakeRunner{})
	assert.Equal(t, DefaultAddr, s.httpServer.Addr)

	s = New(types.ServerConfig{Addr: "127.0.0.1:9999"}, &fakeRunner{}, nil, prometheus.NewRegistry(), zerolog.Nop())
	assert.Equal(t, "127.0.0.1:9999", s.httpServer.Addr)
}
