// Package durations turns building parameters and standards-table rates
// into per-activity durations and the mandatory inter-floor wait time.
//
// Work durations come from productivity rates (quantity / (rate * crew))
// and carry low confidence; the wait time comes from code tables and
// carries high confidence. Both the value and its confidence tag travel
// with every datum into downstream reports.
package durations

import (
	"fmt"
	"math"

	"github.com/elbasanier-main/dlarc/internal/building"
	"github.com/elbasanier-main/dlarc/internal/standards"
)

// Duration is a computed activity duration plus its provenance.
type Duration struct {
	Days       float64              `json:"days"`
	Confidence standards.Confidence `json:"confidence"`
	Ref        standards.Ref        `json:"ref"`
}

// FloorPlan holds the computed durations for one typical floor.
type FloorPlan struct {
	Walls        Duration `json:"walls"`
	SlabFormwork Duration `json:"slab_formwork"`
	SlabRebar    Duration `json:"slab_rebar"`
	Pour         Duration `json:"pour"`
	Wait         Duration `json:"wait"`

	FormRemovalDays float64 `json:"form_removal_days"`
	MinCuringDays   float64 `json:"min_curing_days"`
	// Controlling names which code requirement set the wait time.
	Controlling string `json:"controlling"`
}

// CycleDays is the floor cycle time: total elapsed time to fully complete
// one floor before the next may begin. It is the single governing
// constant for inter-floor sequencing.
func (fp *FloorPlan) CycleDays() float64 {
	return fp.Walls.Days + fp.SlabFormwork.Days + fp.SlabRebar.Days + fp.Pour.Days + fp.Wait.Days
}

// FoundationPlan holds the computed durations for the substructure.
type FoundationPlan struct {
	SitePrep   Duration `json:"site_prep"`
	Excavation Duration `json:"excavation"`
	Formwork   Duration `json:"formwork"`
	Rebar      Duration `json:"rebar"`
	Pour       Duration `json:"pour"`
	Curing     Duration `json:"curing"`
}

// Calculator derives durations from a shared standards table.
type Calculator struct {
	Table *standards.Table
	// MinActivityDays floors every productivity-derived duration so no
	// activity collapses to zero. Callers may raise it; zero means 0.5.
	MinActivityDays float64
}

// NewCalculator returns a Calculator with the default 0.5-day floor.
func NewCalculator(t *standards.Table) *Calculator {
	return &Calculator{Table: t, MinActivityDays: 0.5}
}

const (
	foundationDepthM   = 0.5
	envelopeRateM2Day  = 25.0 // facade area per worker-day equivalent
	finishesRateM2Day  = 8.0  // finished floor area per worker-day equivalent
	wallRebarClass     = "wall"
	slabRebarClass     = "slab"
	foundationRebarCls = "foundation"
)

// FloorPlan computes the per-floor activity durations and wait time.
// A standards lookup miss propagates unmodified; no value is guessed.
func (c *Calculator) FloorPlan(p *building.Params) (*FloorPlan, error) {
	crew := float64(p.CrewSize)

	wallFormworkRate, err := c.Table.Rate("wall_formwork")
	if err != nil {
		return nil, err
	}
	slabFormworkRate, err := c.Table.Rate("slab_formwork")
	if err != nil {
		return nil, err
	}
	rebarRate, err := c.Table.Rate("rebar_fixing")
	if err != nil {
		return nil, err
	}
	pourRate, err := c.Table.Rate("concrete_placement")
	if err != nil {
		return nil, err
	}
	wallDensity, err := c.Table.RebarDensity(wallRebarClass)
	if err != nil {
		return nil, err
	}
	slabDensity, err := c.Table.RebarDensity(slabRebarClass)
	if err != nil {
		return nil, err
	}

	// Wall work: formwork both faces, then rebar, then pour, combined
	// into a single walls activity.
	wallArea := p.WallAreaM2()
	wallVolume := wallArea * p.WallThicknessM
	wallDays := c.laborDays(wallArea*2, wallFormworkRate.PerWorkerDay, crew) +
		c.laborDays(wallVolume*wallDensity, rebarRate.PerWorkerDay, crew) +
		c.laborDays(wallVolume, pourRate.PerWorkerDay, crew)

	slabVolume := p.SlabVolumeM3()

	plan := &FloorPlan{
		Walls:        lowConfidence(round1(wallDays), wallFormworkRate.Ref),
		SlabFormwork: lowConfidence(c.laborDays(p.FloorAreaM2, slabFormworkRate.PerWorkerDay, crew), slabFormworkRate.Ref),
		SlabRebar:    lowConfidence(c.laborDays(slabVolume*slabDensity, rebarRate.PerWorkerDay, crew), rebarRate.Ref),
		Pour:         lowConfidence(c.laborDays(slabVolume, pourRate.PerWorkerDay, crew), pourRate.Ref),
	}

	removal, err := c.Table.FormRemoval(standards.MemberSlab, p.TypicalSpanFt, p.LoadCondition, p.UseReshores, p.AmbientTempF)
	if err != nil {
		return nil, fmt.Errorf("floor wait time: %w", err)
	}
	curingDays, curingRef := c.Table.MinCuring()

	plan.FormRemovalDays = removal.Days
	plan.MinCuringDays = curingDays
	if removal.Days >= curingDays {
		plan.Wait = Duration{Days: removal.Days, Confidence: standards.ConfidenceHigh, Ref: removal.Ref}
		plan.Controlling = removal.Ref.Standard + " form removal"
	} else {
		plan.Wait = Duration{Days: curingDays, Confidence: standards.ConfidenceHigh, Ref: curingRef}
		plan.Controlling = curingRef.Standard + " curing"
	}
	return plan, nil
}

// FoundationPlan computes substructure durations, ending in a curing
// activity that gates floor 1 the same way floor curing gates floor N+1.
func (c *Calculator) FoundationPlan(p *building.Params) (*FoundationPlan, error) {
	crew := float64(p.CrewSize)
	footprint := p.LengthM * p.WidthM

	sitePrepRate, err := c.Table.Rate("site_preparation")
	if err != nil {
		return nil, err
	}
	excavationRate, err := c.Table.Rate("excavation")
	if err != nil {
		return nil, err
	}
	formworkRate, err := c.Table.Rate("slab_formwork")
	if err != nil {
		return nil, err
	}
	rebarRate, err := c.Table.Rate("rebar_fixing")
	if err != nil {
		return nil, err
	}
	pourRate, err := c.Table.Rate("concrete_placement")
	if err != nil {
		return nil, err
	}
	density, err := c.Table.RebarDensity(foundationRebarCls)
	if err != nil {
		return nil, err
	}

	volume := footprint * foundationDepthM

	plan := &FoundationPlan{
		SitePrep:   lowConfidence(c.laborDays(footprint, sitePrepRate.PerWorkerDay, crew), sitePrepRate.Ref),
		Excavation: lowConfidence(c.laborDays(volume, excavationRate.PerWorkerDay, crew), excavationRate.Ref),
		Formwork:   lowConfidence(c.laborDays(footprint, formworkRate.PerWorkerDay, crew), formworkRate.Ref),
		Rebar:      lowConfidence(c.laborDays(volume*density, rebarRate.PerWorkerDay, crew), rebarRate.Ref),
		Pour:       lowConfidence(c.laborDays(volume, pourRate.PerWorkerDay, crew), pourRate.Ref),
	}

	// Foundation slabs are ground-supported; the curing gate is the
	// ACI 318 minimum rather than a soffit removal time.
	curingDays, curingRef := c.Table.MinCuring()
	plan.Curing = Duration{Days: curingDays, Confidence: standards.ConfidenceHigh, Ref: curingRef}
	return plan, nil
}

// EnvelopeDays estimates the building envelope duration.
func (c *Calculator) EnvelopeDays(p *building.Params) Duration {
	facade := 2 * (p.LengthM + p.WidthM) * p.TotalHeightM()
	return lowConfidence(c.laborDays(facade, envelopeRateM2Day, float64(p.CrewSize)),
		standards.Ref{Standard: "Construction Productivity"})
}

// FinishesDays estimates the interior finishes duration.
func (c *Calculator) FinishesDays(p *building.Params) Duration {
	total := p.FloorAreaM2 * float64(p.Floors)
	return lowConfidence(c.laborDays(total, finishesRateM2Day, float64(p.CrewSize)),
		standards.Ref{Standard: "Construction Productivity"})
}

// laborDays is quantity / (rate * crew), rounded to one decimal day and
// floored at MinActivityDays.
func (c *Calculator) laborDays(quantity, ratePerWorkerDay, crew float64) float64 {
	days := round1(quantity / (ratePerWorkerDay * crew))
	floor := c.MinActivityDays
	if floor == 0 {
		floor = 0.5
	}
	if days < floor {
		return floor
	}
	return days
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}

func lowConfidence(days float64, ref standards.Ref) Duration {
	return Duration{Days: days, Confidence: standards.ConfidenceLow, Ref: ref}
}
