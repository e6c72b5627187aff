package observability

import (
	"bytes"
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/papergenie/pkg/types"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in   string
		want zerolog.Level
	}{
		{"trace", zerolog.TraceLevel},
		{"DEBUG", zerolog.DebugLevel},
		{"", zerolog.InfoLevel},
		{"warning", zerolog.WarnLevel},
		{"error", zerolog.ErrorLevel},
		{"off", zerolog.Disabled},
		{"nonsense", zerolog.InfoLevel},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, ParseLevel(tt.in), tt.in)
	}
}

func TestNewLogger_JSON(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger(types.LogConfig{Level: "info", Format: "json"}, &buf)

	logger.Debug().Msg("hidden")
	pl := WithPaperContext(logger, "2301.07041v1", "Deep Learning")
	pl.Info().Msg("visible")

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 1)

	var entry map[string]any
	require.NoError(t, json.Unmarshal([]byte(lines[0]), &entry))
	assert.Equal(t, "visible", entry["message"])
	assert.Equal(t, "2301.07041v1", entry["paper_id"])
	assert.Equal(t, "info", entry["level"])
	assert.Contains(t, entry, "time")
}

func TestNewLogger_Console(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger(types.LogConfig{Level: "debug", Format: "console"}, &buf)
	ql := WithQueryContext(logger, "transformers", 3)
	ql.Debug().Msg("searching")

	out := buf.String()
	assert.Contains(t, out, "searching")
	assert.Contains(t, out, "query")
	assert.Contains(t, out, "transformers")
	assert.False(t, json.Valid([]byte(strings.TrimSpace(out))))
}

func TestDefaultLogConfig(t *testing.T) {
	cfg := DefaultLogConfig()
	assert.Equal(t, "info", cfg.Level)
	assert.Equal(t, "console", cfg.Format)
}

func TestMetrics_RecordRun(t *testing.T) {
	m := NewMetrics(prometheus.NewRegistry())

	m.RecordRun(2*time.Second, nil)
	m.RecordRun(time.Second, errors.New("feed down"))
	m.RecordRun(time.Second, nil)

	assert.Equal(t, 2.0, testutil.ToFloat64(m.RunsTotal.WithLabelValues("ok")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.RunsTotal.WithLabelValues("error")))
}

func TestMetrics_RecordPaper(t *testing.T) {
	m := NewMetrics(prometheus.NewRegistry())

	m.RecordPaper(types.OutcomeSummarized)
	m.RecordPaper(types.OutcomeSummarized)
	m.RecordPaper(types.OutcomeNotFound)

	assert.Equal(t, 2.0, testutil.ToFloat64(m.PapersTotal.WithLabelValues("summarized")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.PapersTotal.WithLabelValues("not_found")))
	assert.Equal(t, 0.0, testutil.ToFloat64(m.PapersTotal.WithLabelValues("failed")))
}

func TestMetrics_StageAndHTTP(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewMetrics(reg)

	m.ObserveStage(StageFetch, 300*time.Millisecond)
	m.RecordHTTPRequest("POST", "/api/v1/summaries", 200, 10*time.Millisecond)

	assert.Equal(t, 1, testutil.CollectAndCount(m.StageDuration))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.HTTPRequestsTotal.WithLabelValues("POST", "/api/v1/summaries", "200")))

	families, err := reg.Gather()
	require.NoError(t, err)
	names := make([]string, 0, len(families))
	for _, f := range families {
		names = append(names, f.GetName())
	}
	assert.Contains(t, names, "papergenie_stage_duration_seconds")
	assert.Contains(t, names, "papergenie_http_requests_total")
}

func TestMetrics_NilSafe(t *testing.T) {
	var m *Metrics
	assert.NotPanics(t, func() {
		m.RecordRun(time.Second, nil)
		m.RecordPaper(types.OutcomeFailed)
		m.ObserveStage(StageExtract, time.Second)
		m.RecordHTTPRequest("GET", "/healthz", 200, time.Millisecond)
	})
}

func TestMetrics_SeparateRegistries(t *testing.T) {
	assert.NotPanics(t, func() {
		NewMetrics(prometheus.NewRegistry())
		NewMetrics(prometheus.NewRegistry())
	})
}
