package cpm

// Entry holds the computed timing for a single activity. All values are
// in days from project start.
type Entry struct {
	ActivityID string  `json:"activity_id"`
	ES         float64 `json:"early_start"`
	EF         float64 `json:"early_finish"`
	LS         float64 `json:"late_start"`
	LF         float64 `json:"late_finish"`
	Slack      float64 `json:"slack"`
	Critical   bool    `json:"critical"`
}

// Result is the complete schedule: entries in activity definition order
// (floor and phase grouping preserved, not sorted by time), the critical
// set, total duration, and the per-day crew histogram under early-start
// scheduling.
type Result struct {
	Entries           []*Entry          `json:"entries"`
	ByID              map[string]*Entry `json:"-"`
	CriticalPath      []string          `json:"critical_path"`
	TotalDurationDays float64           `json:"total_duration_days"`
	Histogram         []int             `json:"resource_histogram"`
	TopoOrder         []string          `json:"-"`
}
