package excel

// RawRowData represents a row of raw sheet data keyed by header
type RawRowData map[string]string

// SheetData represents a complete sheet: headers plus data rows
type SheetData struct {
	Headers []string     // Column headers
	Rows    []RawRowData // Data rows
}

// Columns names the headers holding group, category and value.
type Columns struct {
	Group    string `json:"group" yaml:"group"`
	Category string `json:"category" yaml:"category"`
	Value    string `json:"value" yaml:"value"`
}

// DefaultColumns returns Group, Category and Value.
func DefaultColumns() Columns {
	return Columns{Group: "Group", Category: "Category", Value: "Value"}
}
