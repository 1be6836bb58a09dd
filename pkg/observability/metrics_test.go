package observability_test

import (
	"bytes"
	"context"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aretw0/statespace"
	"github.com/aretw0/statespace/pkg/adapters/memory"
	"github.com/aretw0/statespace/pkg/domain"
	"github.com/aretw0/statespace/pkg/export"
	"github.com/aretw0/statespace/pkg/observability"
)

func loginSet() domain.VariableSet {
	return domain.NewVariableSet(domain.Bool("userLoggedIn"), domain.Enum("theme", "light", "dark"))
}

func TestMetrics_RecordsEngineEvents(t *testing.T) {
	m := observability.NewMetrics()
	eng := statespace.New(
		statespace.WithLifecycleHooks(m.Hooks()),
		statespace.WithCache(memory.NewCache()),
	)
	ctx := context.Background()

	_, _, err := eng.Generate(ctx, loginSet())
	require.NoError(t, err)

	bad := loginSet()
	bad.Add()
	_, _, err = eng.Generate(ctx, bad)
	require.NoError(t, err)

	for i := 0; i < 2; i++ {
		_, err = eng.Export(ctx, loginSet(), export.FormatCSV)
		require.NoError(t, err)
	}

	// 1 direct + 1 export miss; the cache hit does not generate
	assert.Equal(t, 2.0, testutil.ToFloat64(m.Generations.WithLabelValues("ok")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.Generations.WithLabelValues("empty")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.GateRejected.WithLabelValues("empty_name")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.Exports.WithLabelValues("csv", "miss")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.Exports.WithLabelValues("csv", "hit")))
}

func TestMetrics_Handler(t *testing.T) {
	m := observability.NewMetrics()
	m.Hooks().OnExport(context.Background(), &domain.ExportEvent{Format: "json", Bytes: 10})

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `statespace_exports_total{cache="miss",format="json"} 1`)
	assert.Contains(t, rec.Body.String(), `statespace_export_bytes_total{format="json"} 10`)
}

func TestCombine(t *testing.T) {
	var order []string
	a := domain.LifecycleHooks{OnGenerate: func(context.Context, *domain.GenerateEvent) { order = append(order, "a") }}
	b := domain.LifecycleHooks{
		OnGenerate: func(context.Context, *domain.GenerateEvent) { order = append(order, "b") },
		OnExport:   func(context.Context, *domain.ExportEvent) { order = append(order, "export") },
	}

	h := observability.Combine(a, domain.LifecycleHooks{}, b)
	h.OnGenerate(context.Background(), &domain.GenerateEvent{})
	h.OnExport(context.Background(), &domain.ExportEvent{})
	assert.Nil(t, h.OnGateRejected)
	assert.Equal(t, []string{"a", "b", "export"}, order)
}

func TestLogHooks(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, nil))

	eng := statespace.New(statespace.WithLifecycleHooks(observability.LogHooks(logger)))
	_, err := eng.Export(context.Background(), loginSet(), export.FormatJSON)
	require.NoError(t, err)

	out := buf.String()
	assert.Contains(t, out, "msg=generate")
	assert.Contains(t, out, "states=4")
	assert.Contains(t, out, "msg=export")
	assert.Contains(t, out, "format=json")
}
