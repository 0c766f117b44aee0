package domain

// Report is the rendered output of one query: a self-contained HTML page plus
// the metadata the caller needs to display or store it.
type Report struct {
	HTMLContent string   `json:"htmlContent" yaml:"htmlContent"`
	Metadata    Metadata `json:"metadata" yaml:"metadata"`
}

// Metadata describes a report. Title through Summary are owned by the report
// module, the remaining fields are filled in by the orchestrator.
type Metadata struct {
	Title       string `json:"title" yaml:"title"`
	Description string `json:"description" yaml:"description"`
	RecordCount int    `json:"recordCount" yaml:"recordCount"`
	DataType    string `json:"dataType" yaml:"dataType"`
	SearchQuery string `json:"searchQuery" yaml:"searchQuery"`
	FarmName    string `json:"farmName,omitempty" yaml:"farmName,omitempty"`
	Summary     any    `json:"summary,omitempty" yaml:"summary,omitempty"`

	FarmID          FarmID          `json:"farmId,omitempty" yaml:"farmId,omitempty"`
	QueryTime       int64           `json:"queryTime" yaml:"queryTime"`
	MatchedKeywords []string        `json:"matchedKeywords" yaml:"matchedKeywords"`
	ModuleSelection []SelectionStep `json:"moduleSelection,omitempty" yaml:"moduleSelection,omitempty"`

	Error      bool   `json:"error,omitempty" yaml:"error,omitempty"`
	ErrorType  string `json:"errorType,omitempty" yaml:"errorType,omitempty"`
	ModuleUsed string `json:"moduleUsed,omitempty" yaml:"moduleUsed,omitempty"`
}

// SelectionStep is one entry of the routing trace.
type SelectionStep struct {
	Module  string   `json:"module" yaml:"module"`
	Outcome string   `json:"outcome" yaml:"outcome"`
	Matched []string `json:"matched,omitempty" yaml:"matched,omitempty"`
}
