package validate

import (
	"time"

	"github.com/elbasanier-main/dlarc/internal/standards"
)

// Severity ranks validation issues. The order is total: critical > high >
// medium > low > info.
type Severity string

const (
	SeverityCritical Severity = "critical"
	SeverityHigh     Severity = "high"
	SeverityMedium   Severity = "medium"
	SeverityLow      Severity = "low"
	SeverityInfo     Severity = "info"
)

// Rank returns the severity order, higher is more severe.
func (s Severity) Rank() int {
	switch s {
	case SeverityCritical:
		return 4
	case SeverityHigh:
		return 3
	case SeverityMedium:
		return 2
	case SeverityLow:
		return 1
	default:
		return 0
	}
}

// Weight is the score deduction for one issue of this severity.
func (s Severity) Weight() float64 {
	switch s {
	case SeverityCritical:
		return 0.25
	case SeverityHigh:
		return 0.10
	case SeverityMedium:
		return 0.05
	case SeverityLow:
		return 0.02
	default:
		return 0
	}
}

// Category groups issues by the kind of constraint violated.
type Category string

const (
	CategoryStructural Category = "structural"
	CategoryMaterial   Category = "material"
	CategoryFormwork   Category = "formwork"
	CategoryGeometry   Category = "geometry"
	CategorySchedule   Category = "schedule"
)

// Issue is one finding from a rule check. Immutable once created.
type Issue struct {
	ID          string        `json:"id"`
	Severity    Severity      `json:"severity"`
	Category    Category      `json:"category"`
	Description string        `json:"description"`
	CodeRef     standards.Ref `json:"code_ref"`
	// Calculated shows the actual computed value against the limit it
	// was compared to, e.g. "h/t = 4.00m / 0.10m = 40.0 > 30".
	Calculated string `json:"calculated"`
}

// Result is the complete constructability judgment for one building.
type Result struct {
	ProjectName string    `json:"project_name"`
	Timestamp   time.Time `json:"timestamp"`
	// Constructable is true iff no critical issue is present; it is
	// independent of the numeric score.
	Constructable    bool           `json:"constructable"`
	Score            float64        `json:"score"`
	Issues           []Issue        `json:"issues"`
	StandardsChecked []string       `json:"standards_checked"`
	CountsBySeverity map[string]int `json:"counts_by_severity"`
}
