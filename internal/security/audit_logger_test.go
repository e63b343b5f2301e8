package security_test

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/cortexai/igs/internal/security"
)

func captureLog(t *testing.T) *bytes.Buffer {
	t.Helper()
	var buf bytes.Buffer
	prev := log.Logger
	log.Logger = zerolog.New(&buf)
	t.Cleanup(func() { log.Logger = prev })
	return &buf
}

func TestLogDispatchHashesSecrets(t *testing.T) {
	buf := captureLog(t)
	a := security.NewAuditLogger(true)

	a.LogDispatch(security.DispatchEvent{
		Query:           "Tom Cruise age multiplied by 2",
		APIKey:          "super-secret-key",
		RequestID:       "req-1",
		Provider:        "arithmetic",
		Rule:            "compound_multiplication",
		Compound:        true,
		FailureCategory: "MalformedArithmeticExpression",
		ExecutionTimeMs: 12,
	})

	out := buf.String()
	if strings.Contains(out, "Tom Cruise") || strings.Contains(out, "super-secret-key") {
		t.Fatalf("audit log leaked raw values: %s", out)
	}

	var evt map[string]interface{}
	if err := json.Unmarshal(buf.Bytes(), &evt); err != nil {
		t.Fatalf("audit line is not JSON: %v", err)
	}
	if evt["event"] != "query_audit" {
		t.Errorf("event = %v, want query_audit", evt["event"])
	}
	if h, _ := evt["query_hash"].(string); len(h) != 16 {
		t.Errorf("query_hash should be a 16 char prefix, got %q", h)
	}
	if evt["success"] != false {
		t.Errorf("success = %v, want false", evt["success"])
	}
	if evt["failure_category"] != "MalformedArithmeticExpression" {
		t.Errorf("failure_category = %v", evt["failure_category"])
	}
}

func TestLogDispatchDisabled(t *testing.T) {
	buf := captureLog(t)

	security.NewAuditLogger(false).LogDispatch(security.DispatchEvent{Query: "2+2"})
	var nilLogger *security.AuditLogger
	nilLogger.LogDispatch(security.DispatchEvent{Query: "2+2"})

	if buf.Len() != 0 {
		t.Errorf("disabled audit logger wrote %q", buf.String())
	}
}
