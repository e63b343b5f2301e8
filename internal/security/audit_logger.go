package security

import (
	"crypto/sha256"
	"fmt"

	"github.com/rs/zerolog/log"
)

// DispatchEvent is one answered query as seen by the audit log.
type DispatchEvent struct {
	Query           string
	APIKey          string
	RequestID       string
	Provider        string
	Rule            string
	Compound        bool
	DryRun          bool
	FailureCategory string
	ExecutionTimeMs int64
}

// AuditLogger logs security-relevant events with hashed identifiers
type AuditLogger struct {
	enabled bool
}

func NewAuditLogger(enabled bool) *AuditLogger {
	return &AuditLogger{enabled: enabled}
}

// LogDispatch records a query event. The query text and API key are stored as
// hash prefixes only.
func (a *AuditLogger) LogDispatch(e DispatchEvent) {
	if a == nil || !a.enabled {
		return
	}

	evt := log.Info().
		Str("event", "query_audit").
		Str("query_hash", hashStr(e.Query)[:16]).
		Int("query_length", len(e.Query)).
		Str("api_key_hash", hashStr(e.APIKey)[:16]).
		Str("request_id", e.RequestID).
		Str("provider", e.Provider).
		Str("rule", e.Rule).
		Bool("compound", e.Compound).
		Bool("dry_run", e.DryRun).
		Int64("execution_time_ms", e.ExecutionTimeMs).
		Bool("success", e.FailureCategory == "")

	if e.FailureCategory != "" {
		evt = evt.Str("failure_category", e.FailureCategory)
	}
	evt.Msg("audit")
}

func hashStr(s string) string {
	h := sha256.Sum256([]byte(s))
	return fmt.Sprintf("%x", h)
}
