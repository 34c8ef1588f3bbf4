package service

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	logtest "github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fund-projection/domain"
)

func projectOrFail(t *testing.T, p domain.SimulationParameters) domain.SimulationResult {
	t.Helper()
	result, err := Project(p)
	require.NoError(t, err)
	return result
}

func TestExplainProjection_FallbackWithoutKey(t *testing.T) {
	logger, _ := logtest.NewNullLogger()
	svc := NewExplanationService(ExplanationOptions{}, logger)
	assert.False(t, svc.Enabled())

	short := params(1, 100, 0, domain.VarianceLow)
	text := svc.ExplainProjection(context.Background(), short, projectOrFail(t, short))
	assert.Contains(t, text, "1200.00")
	assert.Contains(t, text, "before any scripted market event")

	mid := params(3, 100, 0, domain.VarianceMedium)
	assert.Contains(t, svc.ExplainProjection(context.Background(), mid, projectOrFail(t, mid)), "tariff dip")

	crashOnly := params(4, 100, 5, domain.VarianceHigh)
	text = svc.ExplainProjection(context.Background(), crashOnly, projectOrFail(t, crashOnly))
	assert.Contains(t, text, "closes on the crash month")
	assert.NotContains(t, text, "partial recovery")

	long := params(10, 100, 7, domain.VarianceHigh)
	assert.Contains(t, svc.ExplainProjection(context.Background(), long, projectOrFail(t, long)), "crash at month 48")

	assert.Empty(t, svc.ExplainProjection(context.Background(), long, domain.SimulationResult{}))
}

func TestExplainProjection_UsesChatEndpoint(t *testing.T) {
	var received ChatRequest
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&received))
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"choices":[{"message":{"role":"assistant","content":"  Steady saving wins.  "}}]}`))
	}))
	defer server.Close()

	logger, _ := logtest.NewNullLogger()
	svc := NewExplanationService(ExplanationOptions{APIKey: "test-key", URL: server.URL, Model: "test-model"}, logger)

	p := params(5, 100, 4, domain.VarianceHigh)
	text := svc.ExplainProjection(context.Background(), p, projectOrFail(t, p))

	assert.Equal(t, "Steady saving wins.", text)
	assert.Equal(t, "test-model", received.Model)
	require.Len(t, received.Messages, 2)
	assert.Contains(t, received.Messages[1].Content, "covid: months 48-50, -20.00% per month")
}

func TestExplainProjection_FallsBackOnAPIError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "overloaded", http.StatusServiceUnavailable)
	}))
	defer server.Close()

	logger, hook := logtest.NewNullLogger()
	svc := NewExplanationService(ExplanationOptions{APIKey: "k", URL: server.URL}, logger)

	p := params(2, 100, 4, domain.VarianceLow)
	text := svc.ExplainProjection(context.Background(), p, projectOrFail(t, p))
	assert.Contains(t, text, "Depositing 100.00 a month")
	require.NotNil(t, hook.LastEntry())
	assert.Contains(t, hook.LastEntry().Data["error"].(error).Error(), "status 503")
}

func TestFormatShockWindows_OnlyWithinPlan(t *testing.T) {
	assert.Equal(t, "- none within the plan\n", formatShockWindows(domain.VarianceLow, 12))
	assert.Equal(t, "- tariff: months 24-36, -0.50% per month\n", formatShockWindows(domain.VarianceLow, 36))
}
