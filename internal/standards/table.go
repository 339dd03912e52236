// Package standards holds the engineering-code lookup tables the scheduling
// engine is constrained by. The tables are parsed once by Load from YAML
// files embedded in the binary and are immutable afterwards, so a single
// *Table may be shared across any number of concurrent readers.
//
// Lookups fail closed: a combination absent from the data returns
// ErrNotFound rather than a guessed default.
package standards

import (
	"embed"
	"fmt"
	"math"
	"sort"

	"gopkg.in/yaml.v3"
)

//go:embed data/*.yaml
var dataFS embed.FS

// raw YAML shapes; converted to lookup maps once during Load.

type aci347File struct {
	Standard         string `yaml:"standard"`
	Version          string `yaml:"version"`
	VerticalElements map[string]struct {
		Hours float64 `yaml:"hours"`
	} `yaml:"vertical_elements"`
	FormRemoval        map[string]map[string]map[string]removalEntry `yaml:"form_removal"`
	FormRemovalSection string                                        `yaml:"form_removal_section"`
	ColdWeather        struct {
		ThresholdF float64 `yaml:"threshold_f"`
		Multiplier float64 `yaml:"multiplier"`
	} `yaml:"cold_weather"`
	LateralPressure struct {
		BasePsf         float64 `yaml:"base_psf"`
		RateCoefficient float64 `yaml:"rate_coefficient"`
		MaxPsf          float64 `yaml:"max_psf"`
		HeadPsfPerFt    float64 `yaml:"head_psf_per_ft"`
		Section         string  `yaml:"section"`
	} `yaml:"lateral_pressure"`
	Limits map[string]float64 `yaml:"limits"`
}

type removalEntry struct {
	Days             float64 `yaml:"days"`
	WithReshoresDays float64 `yaml:"with_reshores_days"`
	MinimumDays      float64 `yaml:"minimum_days"`
}

type aci318File struct {
	Standard   string `yaml:"standard"`
	Version    string `yaml:"version"`
	PhiFactors map[string]struct {
		Phi         float64 `yaml:"phi"`
		Description string  `yaml:"description"`
		Section     string  `yaml:"section"`
	} `yaml:"phi_factors"`
	Curing struct {
		MinimumDays float64 `yaml:"minimum_days"`
		Section     string  `yaml:"section"`
	} `yaml:"curing"`
	Materials map[string]struct {
		FcMPa       float64 `yaml:"fc_mpa"`
		FcPsi       float64 `yaml:"fc_psi"`
		WeightClass string  `yaml:"weight_class"`
	} `yaml:"materials"`
	Limits map[string]struct {
		Value   float64 `yaml:"value"`
		Section string  `yaml:"section"`
	} `yaml:"limits"`
}

type productivityFile struct {
	Standard string `yaml:"standard"`
	Version  string `yaml:"version"`
	Tasks    map[string]struct {
		Min  float64 `yaml:"min"`
		Max  float64 `yaml:"max"`
		Unit string  `yaml:"unit"`
	} `yaml:"tasks"`
	RebarDensity map[string]float64 `yaml:"rebar_density_kg_m3"`
}

// Table is the loaded, read-only standards dataset.
type Table struct {
	aci347 aci347File
	aci318 aci318File
	prod   productivityFile
}

// Load parses the embedded standard files. A missing file or malformed
// entry is a startup-time error; there are no silent defaults.
func Load() (*Table, error) {
	t := &Table{}

	if err := loadYAML("data/aci347.yaml", &t.aci347); err != nil {
		return nil, err
	}
	if err := loadYAML("data/aci318.yaml", &t.aci318); err != nil {
		return nil, err
	}
	if err := loadYAML("data/productivity.yaml", &t.prod); err != nil {
		return nil, err
	}

	if len(t.aci347.FormRemoval) == 0 {
		return nil, fmt.Errorf("aci347: form_removal table is empty")
	}
	if t.aci318.Curing.MinimumDays <= 0 {
		return nil, fmt.Errorf("aci318: curing minimum days missing")
	}
	if len(t.prod.Tasks) == 0 {
		return nil, fmt.Errorf("productivity: no tasks defined")
	}
	return t, nil
}

func loadYAML(path string, out interface{}) error {
	raw, err := dataFS.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read %s: %w", path, err)
	}
	if err := yaml.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("parse %s: %w", path, err)
	}
	return nil
}

// PhiFactor returns the ACI 318-19 strength-reduction factor for a
// loading mode.
func (t *Table) PhiFactor(mode LoadingMode) (PhiFactor, error) {
	entry, ok := t.aci318.PhiFactors[string(mode)]
	if !ok {
		return PhiFactor{}, fmt.Errorf("phi factor for %q: %w", mode, ErrNotFound)
	}
	return PhiFactor{
		Phi:         entry.Phi,
		Description: entry.Description,
		Ref:         Ref{Standard: t.aci318.Standard, Section: entry.Section},
	}, nil
}

// FormRemoval resolves the minimum formwork removal time for a member.
// Columns and walls use fixed hours; slab/beam/joist soffits are keyed by
// span bucket and load ratio, reshores permitting the shorter column of
// the table. Below 50F the time extends by the cold-weather multiplier.
func (t *Table) FormRemoval(member MemberType, spanFt float64, lc LoadCondition, reshores bool, tempF float64) (FormRemoval, error) {
	ref := Ref{Standard: t.aci347.Standard, Section: t.aci347.FormRemovalSection}

	if member.Vertical() {
		v, ok := t.aci347.VerticalElements[string(member)]
		if !ok {
			return FormRemoval{}, fmt.Errorf("vertical element %q: %w", member, ErrNotFound)
		}
		return FormRemoval{Days: v.Hours / 24.0, Ref: ref}, nil
	}

	bucket := BucketForSpan(spanFt)
	byBucket, ok := t.aci347.FormRemoval[string(member)]
	if !ok {
		return FormRemoval{}, fmt.Errorf("member type %q: %w", member, ErrNotFound)
	}
	byLoad, ok := byBucket[string(bucket)]
	if !ok {
		return FormRemoval{}, fmt.Errorf("member %q span bucket %q: %w", member, bucket, ErrNotFound)
	}
	entry, ok := byLoad[string(lc)]
	if !ok {
		return FormRemoval{}, fmt.Errorf("member %q load condition %q: %w", member, lc, ErrNotFound)
	}

	days := entry.Days
	if reshores && entry.WithReshoresDays > 0 {
		days = entry.WithReshoresDays
	}
	if days < entry.MinimumDays {
		days = entry.MinimumDays
	}

	out := FormRemoval{
		Days:        days,
		MinimumDays: entry.MinimumDays,
		Bucket:      bucket,
		Ref:         ref,
	}
	if tempF < t.aci347.ColdWeather.ThresholdF {
		out.Days *= t.aci347.ColdWeather.Multiplier
		out.ColdAdjusted = true
	}
	return out, nil
}

// MinCuring returns the ACI 318-19 minimum curing time in days.
func (t *Table) MinCuring() (float64, Ref) {
	return t.aci318.Curing.MinimumDays, Ref{
		Standard: t.aci318.Standard,
		Section:  t.aci318.Curing.Section,
	}
}

// Rate returns the average productivity rate for a task, per worker per
// day. Productivity data is not an international code and is tagged low
// confidence.
func (t *Table) Rate(task string) (Rate, error) {
	entry, ok := t.prod.Tasks[task]
	if !ok {
		return Rate{}, fmt.Errorf("productivity task %q: %w", task, ErrNotFound)
	}
	return Rate{
		PerWorkerDay: (entry.Min + entry.Max) / 2,
		Unit:         entry.Unit,
		Confidence:   ConfidenceLow,
		Ref:          Ref{Standard: t.prod.Standard},
	}, nil
}

// RebarDensity returns the typical reinforcement mass per m3 of concrete
// for a member class (slab, wall, foundation).
func (t *Table) RebarDensity(memberClass string) (float64, error) {
	d, ok := t.prod.RebarDensity[memberClass]
	if !ok {
		return 0, fmt.Errorf("rebar density for %q: %w", memberClass, ErrNotFound)
	}
	return d, nil
}

// LateralPressure evaluates the ACI 347-04 formwork pressure formula
// p = 150 + 9000*R/T, capped at 2000 psf and at full hydrostatic head.
func (t *Table) LateralPressure(placementRateFtHr, tempF, heightFt float64) LateralPressure {
	lp := t.aci347.LateralPressure
	raw := lp.BasePsf + lp.RateCoefficient*placementRateFtHr/tempF
	p := raw

	head := lp.HeadPsfPerFt * heightFt
	headGoverns := false
	if p > lp.MaxPsf {
		p = lp.MaxPsf
	}
	if p > head {
		p = head
		headGoverns = true
	}
	return LateralPressure{
		Psf:             p,
		UncappedPsf:     raw,
		PlacementRateFt: placementRateFtHr,
		TemperatureF:    tempF,
		HeadGovrns:      headGoverns,
		Ref:             Ref{Standard: t.aci347.Standard, Section: lp.Section},
	}
}

// Material returns concrete grade properties. Ec is derived as
// 57000*sqrt(fc') for normal-weight concrete.
func (t *Table) Material(grade string) (Material, error) {
	entry, ok := t.aci318.Materials[grade]
	if !ok {
		return Material{}, fmt.Errorf("material grade %q: %w", grade, ErrNotFound)
	}
	return Material{
		Grade:  grade,
		FcMPa:  entry.FcMPa,
		FcPsi:  entry.FcPsi,
		EcPsi:  57000 * math.Sqrt(entry.FcPsi),
		Weight: entry.WeightClass,
		Ref:    Ref{Standard: t.aci318.Standard},
	}, nil
}

// Materials lists the known concrete grades, sorted.
func (t *Table) Materials() []string {
	out := make([]string, 0, len(t.aci318.Materials))
	for grade := range t.aci318.Materials {
		out = append(out, grade)
	}
	sort.Strings(out)
	return out
}

// StructuralLimit returns a named ACI 318-19 limit and its code section.
func (t *Table) StructuralLimit(name string) (float64, Ref, error) {
	entry, ok := t.aci318.Limits[name]
	if !ok {
		return 0, Ref{}, fmt.Errorf("structural limit %q: %w", name, ErrNotFound)
	}
	return entry.Value, Ref{Standard: t.aci318.Standard, Section: entry.Section}, nil
}

// FormworkLimit returns a named ACI 347-04 limit.
func (t *Table) FormworkLimit(name string) (float64, Ref, error) {
	v, ok := t.aci347.Limits[name]
	if !ok {
		return 0, Ref{}, fmt.Errorf("formwork limit %q: %w", name, ErrNotFound)
	}
	return v, Ref{Standard: t.aci347.Standard}, nil
}

// Consulted lists the standards backing this table, for reporting.
func (t *Table) Consulted() []string {
	return []string{
		fmt.Sprintf("%s (%s)", t.aci318.Standard, t.aci318.Version),
		fmt.Sprintf("%s (%s)", t.aci347.Standard, t.aci347.Version),
		fmt.Sprintf("%s (%s, low confidence)", t.prod.Standard, t.prod.Version),
	}
}
