package models

import (
	"fmt"
	"strings"
	"unicode/utf8"
)

// QueryRequest for POST /api/v1/query
type QueryRequest struct {
	Query  string `json:"query"`
	DryRun bool   `json:"dry_run"`
}

// Validate checks the query length in characters. Empty queries are allowed
// and answered like any other.
func (r *QueryRequest) Validate(maxLength int) error {
	if n := utf8.RuneCountInString(r.Query); maxLength > 0 && n > maxLength {
		return fmt.Errorf("query is too long: %d characters, maximum is %d", n, maxLength)
	}
	return nil
}

// SetDefaults strips surrounding newlines left by clients that post raw
// terminal input.
func (r *QueryRequest) SetDefaults() {
	r.Query = strings.Trim(r.Query, "\r\n")
}
