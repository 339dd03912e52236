// Package validate runs a fixed battery of deterministic, code-based
// constructability checks against building data and the computed
// schedule. Each check is pure and order-independent; a check that fails
// internally degrades to a single info issue so one broken rule never
// hides the rest of the report.
package validate

import (
	"fmt"
	"sort"
	"time"

	"github.com/elbasanier-main/dlarc/internal/building"
	"github.com/elbasanier-main/dlarc/internal/cpm"
	"github.com/elbasanier-main/dlarc/internal/network"
	"github.com/elbasanier-main/dlarc/internal/standards"
)

const (
	placementRateFtHr = 2.0
	mPerFt            = 0.3048
	volumeBandLow     = 0.15
	volumeBandHigh    = 0.35
	volumeHardHigh    = 0.5
)

// Validator evaluates buildings against the shared standards table.
type Validator struct {
	Table *standards.Table
	// now is injectable for deterministic tests.
	now func() time.Time
}

// New returns a Validator over the table.
func New(t *standards.Table) *Validator {
	return &Validator{Table: t, now: time.Now}
}

// input bundles everything a check may read. Schedule entries may be nil
// when validation runs without a computed schedule.
type input struct {
	params *building.Params
	net    *network.Network
	sched  *cpm.Result
}

type check struct {
	name string
	fn   func(v *Validator, in input) []Issue
}

// The battery is fixed; checks never share state, so output cannot
// depend on the order they run in.
var checks = []check{
	{"wall_slenderness", (*Validator).checkWallSlenderness},
	{"slab_span_depth", (*Validator).checkSlabSpanDepth},
	{"concrete_strength", (*Validator).checkConcreteStrength},
	{"building_aspect", (*Validator).checkBuildingAspect},
	{"lateral_pressure", (*Validator).checkLateralPressure},
	{"pour_height", (*Validator).checkPourHeight},
	{"floor_plate_aspect", (*Validator).checkFloorPlateAspect},
	{"volume_sanity", (*Validator).checkVolumeSanity},
	{"reshoring", (*Validator).checkReshoring},
	{"floor_sequence", (*Validator).checkFloorSequence},
}

// Run validates the building, and the schedule when one is supplied.
func (v *Validator) Run(p *building.Params, net *network.Network, sched *cpm.Result) (*Result, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}
	in := input{params: p, net: net, sched: sched}

	var issues []Issue
	for _, c := range checks {
		issues = append(issues, v.runCheck(c, in)...)
	}

	// Stable ids within each check; sorting by id makes the full list
	// independent of battery order.
	sort.Slice(issues, func(i, j int) bool { return issues[i].ID < issues[j].ID })

	score := 1.0
	constructable := true
	counts := make(map[string]int)
	for _, issue := range issues {
		score -= issue.Severity.Weight()
		counts[string(issue.Severity)]++
		if issue.Severity == SeverityCritical {
			constructable = false
		}
	}
	if score < 0 {
		score = 0
	}

	return &Result{
		ProjectName:      p.Name,
		Timestamp:        v.now(),
		Constructable:    constructable,
		Score:            score,
		Issues:           issues,
		StandardsChecked: v.Table.Consulted(),
		CountsBySeverity: counts,
	}, nil
}

// runCheck isolates one check: a panic inside it becomes a single info
// issue naming the check, and the battery continues.
func (v *Validator) runCheck(c check, in input) (issues []Issue) {
	defer func() {
		if r := recover(); r != nil {
			issues = []Issue{{
				ID:          c.name + "_000",
				Severity:    SeverityInfo,
				Category:    CategoryGeometry,
				Description: fmt.Sprintf("check %s could not be evaluated: %v", c.name, r),
				Calculated:  "not evaluated",
			}}
		}
	}()
	return c.fn(v, in)
}

func issueID(check string, n int) string {
	return fmt.Sprintf("%s_%03d", check, n)
}

// couldNotEvaluate is the degraded info issue for a lookup miss inside a
// check: the rest of the battery still reports.
func couldNotEvaluate(check string, err error) []Issue {
	return []Issue{{
		ID:          check + "_000",
		Severity:    SeverityInfo,
		Category:    CategoryGeometry,
		Description: fmt.Sprintf("check %s could not be evaluated: %v", check, err),
		Calculated:  "not evaluated",
	}}
}

// checkWallSlenderness compares wall height / thickness against the
// braced-wall limit (ACI 318-19 Table 11.3.1.1).
func (v *Validator) checkWallSlenderness(in input) []Issue {
	p := in.params
	limit, ref, err := v.Table.StructuralLimit("wall_slenderness_braced")
	if err != nil {
		return couldNotEvaluate("wall_slenderness", err)
	}
	ratio := p.FloorHeightM / p.WallThicknessM

	switch {
	case ratio > limit:
		return []Issue{{
			ID:          issueID("wall_slenderness", 1),
			Severity:    SeverityCritical,
			Category:    CategoryStructural,
			Description: fmt.Sprintf("wall slenderness ratio %.1f exceeds %s limit of %.0f", ratio, ref.Standard, limit),
			CodeRef:     ref,
			Calculated:  fmt.Sprintf("h/t = %.2fm / %.2fm = %.1f > %.0f", p.FloorHeightM, p.WallThicknessM, ratio, limit),
		}}
	case ratio > limit*0.9:
		return []Issue{{
			ID:          issueID("wall_slenderness", 1),
			Severity:    SeverityMedium,
			Category:    CategoryStructural,
			Description: fmt.Sprintf("wall slenderness ratio %.1f is within 10%% of the %s limit of %.0f", ratio, ref.Standard, limit),
			CodeRef:     ref,
			Calculated:  fmt.Sprintf("h/t = %.1f, limit = %.0f (at 90%% of limit)", ratio, limit),
		}}
	}
	return nil
}

// checkSlabSpanDepth compares the shorter footprint span over slab depth
// against the two-way slab limit.
func (v *Validator) checkSlabSpanDepth(in input) []Issue {
	p := in.params
	limit, ref, err := v.Table.StructuralLimit("slab_span_depth_two_way")
	if err != nil {
		return couldNotEvaluate("slab_span_depth", err)
	}
	shorter := p.LengthM
	if p.WidthM < shorter {
		shorter = p.WidthM
	}
	depthM := p.SlabThicknessMM / 1000
	ratio := shorter / depthM

	switch {
	case ratio > limit:
		return []Issue{{
			ID:          issueID("slab_span_depth", 1),
			Severity:    SeverityHigh,
			Category:    CategoryStructural,
			Description: fmt.Sprintf("slab span/depth ratio %.1f exceeds %s limit of %.0f", ratio, ref.Standard, limit),
			CodeRef:     ref,
			Calculated:  fmt.Sprintf("L/h = %.2fm / %.3fm = %.1f > %.0f", shorter, depthM, ratio, limit),
		}}
	case ratio > limit*0.85:
		return []Issue{{
			ID:          issueID("slab_span_depth", 1),
			Severity:    SeverityLow,
			Category:    CategoryStructural,
			Description: fmt.Sprintf("slab span/depth ratio %.1f approaching limit %.0f", ratio, limit),
			CodeRef:     ref,
			Calculated:  fmt.Sprintf("L/h = %.1f, limit = %.0f", ratio, limit),
		}}
	}
	return nil
}

// checkConcreteStrength enforces the fc' floor and practical ceiling.
func (v *Validator) checkConcreteStrength(in input) []Issue {
	p := in.params
	if p.ConcreteStrengthPsi == 0 {
		return []Issue{{
			ID:          issueID("concrete_strength", 1),
			Severity:    SeverityInfo,
			Category:    CategoryMaterial,
			Description: "concrete strength not supplied; minimum fc' not verified",
			Calculated:  "fc' not supplied",
		}}
	}
	minFc, minRef, err := v.Table.StructuralLimit("min_fc_psi")
	if err != nil {
		return couldNotEvaluate("concrete_strength", err)
	}
	maxFc, maxRef, err := v.Table.StructuralLimit("max_fc_psi")
	if err != nil {
		return couldNotEvaluate("concrete_strength", err)
	}

	var issues []Issue
	if p.ConcreteStrengthPsi < minFc {
		issues = append(issues, Issue{
			ID:          issueID("concrete_strength", 1),
			Severity:    SeverityCritical,
			Category:    CategoryMaterial,
			Description: fmt.Sprintf("concrete strength %.0f psi below %s minimum of %.0f psi", p.ConcreteStrengthPsi, minRef.Standard, minFc),
			CodeRef:     minRef,
			Calculated:  fmt.Sprintf("fc' = %.0f psi < %.0f psi minimum", p.ConcreteStrengthPsi, minFc),
		})
	}
	if p.ConcreteStrengthPsi > maxFc {
		issues = append(issues, Issue{
			ID:          issueID("concrete_strength", 2),
			Severity:    SeverityHigh,
			Category:    CategoryMaterial,
			Description: fmt.Sprintf("concrete strength %.0f psi above practical limit of %.0f psi", p.ConcreteStrengthPsi, maxFc),
			CodeRef:     maxRef,
			Calculated:  fmt.Sprintf("fc' = %.0f psi > %.0f psi", p.ConcreteStrengthPsi, maxFc),
		})
	}
	return issues
}

// checkBuildingAspect flags slender towers: H over the narrow plan
// dimension beyond 6 is outside typical shear-wall practice.
func (v *Validator) checkBuildingAspect(in input) []Issue {
	p := in.params
	narrow := p.LengthM
	if p.WidthM < narrow {
		narrow = p.WidthM
	}
	height := p.TotalHeightM()
	ratio := height / narrow
	if ratio <= 6 {
		return nil
	}
	return []Issue{{
		ID:          issueID("building_aspect", 1),
		Severity:    SeverityHigh,
		Category:    CategoryStructural,
		Description: fmt.Sprintf("building aspect ratio %.1f exceeds typical limit of 6 for shear wall buildings", ratio),
		CodeRef:     standards.Ref{Standard: "ASCE 7-22", Section: "engineering practice"},
		Calculated:  fmt.Sprintf("H/B = %.1fm / %.1fm = %.1f > 6", height, narrow, ratio),
	}}
}

// checkLateralPressure evaluates formwork pressure at the assumed
// placement rate against the code cap.
func (v *Validator) checkLateralPressure(in input) []Issue {
	p := in.params
	capPsf, capRef, err := v.Table.FormworkLimit("max_lateral_pressure_psf")
	if err != nil {
		return couldNotEvaluate("lateral_pressure", err)
	}

	lp := v.Table.LateralPressure(placementRateFtHr, p.AmbientTempF, p.FloorHeightM/mPerFt)
	if lp.UncappedPsf <= capPsf {
		return nil
	}
	return []Issue{{
		ID:          issueID("lateral_pressure", 1),
		Severity:    SeverityHigh,
		Category:    CategoryFormwork,
		Description: fmt.Sprintf("calculated lateral pressure %.0f psf exceeds the %s maximum of %.0f psf", lp.UncappedPsf, capRef.Standard, capPsf),
		CodeRef:     lp.Ref,
		Calculated:  fmt.Sprintf("p = %.0f psf > %.0f psf (p = 150 + 9000R/T, R = %.1f ft/hr, T = %.0fF)", lp.UncappedPsf, capPsf, lp.PlacementRateFt, lp.TemperatureF),
	}}
}

// checkPourHeight flags floors taller than a single formwork lift.
func (v *Validator) checkPourHeight(in input) []Issue {
	p := in.params
	limit, ref, err := v.Table.FormworkLimit("single_lift_height_m")
	if err != nil {
		return couldNotEvaluate("pour_height", err)
	}
	if p.FloorHeightM <= limit {
		return nil
	}
	return []Issue{{
		ID:          issueID("pour_height", 1),
		Severity:    SeverityMedium,
		Category:    CategoryFormwork,
		Description: fmt.Sprintf("floor height %.1fm exceeds typical single-pour height of %.1fm", p.FloorHeightM, limit),
		CodeRef:     standards.Ref{Standard: ref.Standard, Section: "Section 3.4"},
		Calculated:  fmt.Sprintf("pour height = %.1fm > %.1fm, staged pours required", p.FloorHeightM, limit),
	}}
}

// checkFloorPlateAspect flags elongated floor plates beyond 4:1.
func (v *Validator) checkFloorPlateAspect(in input) []Issue {
	p := in.params
	long, short := p.LengthM, p.WidthM
	if short > long {
		long, short = short, long
	}
	ratio := long / short
	if ratio <= 4 {
		return nil
	}
	return []Issue{{
		ID:          issueID("floor_plate_aspect", 1),
		Severity:    SeverityMedium,
		Category:    CategoryGeometry,
		Description: fmt.Sprintf("floor plate aspect ratio %.1f exceeds recommended 4:1", ratio),
		CodeRef:     standards.Ref{Standard: "engineering practice"},
		Calculated:  fmt.Sprintf("aspect = %.1f / %.1f = %.1f", long, short, ratio),
	}}
}

// checkVolumeSanity compares declared concrete volume per floor area
// against the typical band for reinforced concrete buildings.
func (v *Validator) checkVolumeSanity(in input) []Issue {
	p := in.params
	if p.ConcreteVolumeM3 == 0 {
		return nil
	}
	floorArea := p.LengthM * p.WidthM
	perM2 := (p.ConcreteVolumeM3 / float64(p.Floors)) / floorArea
	if perM2 <= volumeHardHigh {
		return nil
	}
	return []Issue{{
		ID:          issueID("volume_sanity", 1),
		Severity:    SeverityLow,
		Category:    CategoryGeometry,
		Description: fmt.Sprintf("concrete volume %.2f m3/m2 is high (typical: %.2f-%.2f)", perM2, volumeBandLow, volumeBandHigh),
		CodeRef:     standards.Ref{Standard: "industry standard"},
		Calculated:  fmt.Sprintf("%.1fm3 / %d floors / %.1fm2 = %.2f m3/m2", p.ConcreteVolumeM3, p.Floors, floorArea, perM2),
	}}
}

// checkReshoring notes the reshoring requirement for taller buildings.
func (v *Validator) checkReshoring(in input) []Issue {
	p := in.params
	threshold, ref, err := v.Table.FormworkLimit("reshoring_floor_threshold")
	if err != nil {
		return couldNotEvaluate("reshoring", err)
	}
	if float64(p.Floors) <= threshold {
		return nil
	}
	return []Issue{{
		ID:          issueID("reshoring", 1),
		Severity:    SeverityInfo,
		Category:    CategoryFormwork,
		Description: fmt.Sprintf("multi-story building (%d floors) requires reshoring", p.Floors),
		CodeRef:     standards.Ref{Standard: ref.Standard, Section: "Section 4.4"},
		Calculated:  fmt.Sprintf("%d floors > %.0f floor threshold", p.Floors, threshold),
	}}
}

// checkFloorSequence verifies the computed schedule honors the
// sequential-floor invariant: floor f walls cannot start before floor
// f-1 curing finishes. Only runs when a schedule is supplied.
func (v *Validator) checkFloorSequence(in input) []Issue {
	if in.net == nil || in.sched == nil {
		return nil
	}
	var issues []Issue
	count := 0
	for _, a := range in.net.Activities {
		if a.Phase != network.PhaseFloorWalls || a.Floor <= 1 {
			continue
		}
		curingID := in.net.CuringOf(a.Floor - 1)
		if curingID == "" {
			continue
		}
		walls := in.sched.ByID[a.ID]
		curing := in.sched.ByID[curingID]
		if walls == nil || curing == nil {
			continue
		}
		if walls.ES < curing.EF-1e-9 {
			count++
			issues = append(issues, Issue{
				ID:          issueID("floor_sequence", count),
				Severity:    SeverityCritical,
				Category:    CategorySchedule,
				Description: fmt.Sprintf("floor %d walls start before floor %d curing completes", a.Floor, a.Floor-1),
				CodeRef:     standards.Ref{Standard: "ACI 347-04", Section: "Section 3.7.2.3"},
				Calculated:  fmt.Sprintf("walls ES %.1f < curing EF %.1f", walls.ES, curing.EF),
			})
		}
	}
	return issues
}
