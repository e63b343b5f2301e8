package models

// HealthResponse is returned by GET /health
type HealthResponse struct {
	Status  string            `json:"status"`
	Version string            `json:"version"`
	Checks  map[string]string `json:"checks,omitempty"`
}

// Routing explains which rule picked the provider
type Routing struct {
	Rule      string `json:"rule"`
	Trigger   string `json:"trigger,omitempty"`
	Reasoning string `json:"reasoning"`
}

// CompoundInfo describes a decomposed "<subject> multiplied by <n>" query
type CompoundInfo struct {
	Subject         string `json:"subject"`
	Multiplier      int64  `json:"multiplier"`
	Operator        string `json:"operator"`
	SubjectProvider string `json:"subject_provider"`
	Intermediate    string `json:"intermediate,omitempty"`
}

// QueryResponse is returned by POST /api/v1/query
type QueryResponse struct {
	Status          string        `json:"status"`
	Query           string        `json:"query"`
	Result          string        `json:"result,omitempty"`
	Provider        string        `json:"provider"`
	Backend         string        `json:"backend,omitempty"`
	FailureCategory string        `json:"failure_category,omitempty"`
	Routing         Routing       `json:"routing"`
	Compound        *CompoundInfo `json:"compound,omitempty"`
	ExecutionTimeMs int64         `json:"execution_time_ms"`
}

// ToolInfo describes a registered provider
type ToolInfo struct {
	Kind        string `json:"kind"`
	Name        string `json:"name"`
	Description string `json:"description"`
}

// ToolsResponse is returned by GET /api/v1/tools
type ToolsResponse struct {
	Status string     `json:"status"`
	Tools  []ToolInfo `json:"tools"`
	Count  int        `json:"count"`
}
