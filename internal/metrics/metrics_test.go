package metrics_test

import (
	"context"
	"io"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cortexai/igs/internal/metrics"
	"github.com/cortexai/igs/internal/tools"
)

func TestInstrumentExportsCounters(t *testing.T) {
	rec, handler, shutdown, err := metrics.Setup()
	require.NoError(t, err)
	defer shutdown(context.Background())

	p := rec.Instrument(tools.NewArithmetic())
	assert.Equal(t, tools.KindArithmetic, p.Kind())
	assert.Equal(t, "arith", p.Name())

	assert.Equal(t, "4", p.Process(context.Background(), "2+2").Text)
	assert.True(t, p.Process(context.Background(), "2+").Failed())

	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, httptest.NewRequest("GET", "/metrics", nil))
	body, _ := io.ReadAll(rr.Body)
	out := string(body)

	assert.Contains(t, out, `igs_provider_calls_total{`)
	assert.Contains(t, out, `kind="arithmetic"`)
	assert.Contains(t, out, `category="MalformedArithmeticExpression"`)
	assert.Contains(t, out, `igs_provider_latency_milliseconds_bucket{`)
}

func TestInstrumentUnwrap(t *testing.T) {
	rec, _, shutdown, err := metrics.Setup()
	require.NoError(t, err)
	defer shutdown(context.Background())

	inner := tools.NewArithmetic()
	p := rec.Instrument(inner)
	u, ok := p.(interface{ Unwrap() tools.Provider })
	require.True(t, ok)
	assert.Same(t, inner, u.Unwrap())
}
