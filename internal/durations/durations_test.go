package durations

import (
	"math"
	"testing"

	"github.com/elbasanier-main/dlarc/internal/building"
	"github.com/elbasanier-main/dlarc/internal/standards"
)

func testCalculator(t *testing.T) *Calculator {
	t.Helper()
	table, err := standards.Load()
	if err != nil {
		t.Fatalf("load standards: %v", err)
	}
	return NewCalculator(table)
}

func testParams() *building.Params {
	return &building.Params{
		Name:            "tower-a",
		Floors:          3,
		FloorAreaM2:     200,
		SlabThicknessMM: 150,
		WallThicknessM:  0.3,
		FloorHeightM:    3.0,
		TypicalSpanFt:   15,
		LengthM:         20,
		WidthM:          10,
		CrewSize:        6,
		AmbientTempF:    70,
		LoadCondition:   standards.LiveLessThanDead,
		UseReshores:     true,
	}
}

func approx(t *testing.T, name string, got, want float64) {
	t.Helper()
	if math.Abs(got-want) > 1e-9 {
		t.Errorf("%s = %v, want %v", name, got, want)
	}
}

func TestFloorPlan(t *testing.T) {
	calc := testCalculator(t)

	plan, err := calc.FloorPlan(testParams())
	if err != nil {
		t.Fatalf("FloorPlan: %v", err)
	}

	// 200 m2 at 3 m2/worker-day with a crew of 6
	approx(t, "SlabFormwork", plan.SlabFormwork.Days, 11.1)
	// 30 m3 slab at 100 kg/m3 rebar, fixed at 100 kg/worker-day
	approx(t, "SlabRebar", plan.SlabRebar.Days, 5.0)
	// 30 m3 at 2 m3/worker-day
	approx(t, "Pour", plan.Pour.Days, 2.5)
	// both wall faces formed, rebar fixed, concrete placed
	approx(t, "Walls", plan.Walls.Days, 15.3)

	// 15 ft span, live < dead, reshores: 4-day removal loses to the
	// 7-day curing minimum
	approx(t, "FormRemovalDays", plan.FormRemovalDays, 4)
	approx(t, "MinCuringDays", plan.MinCuringDays, 7)
	approx(t, "Wait", plan.Wait.Days, 7)
	if plan.Controlling != "ACI 318-19 curing" {
		t.Errorf("Controlling = %q", plan.Controlling)
	}

	approx(t, "CycleDays", plan.CycleDays(), 40.9)
}

func TestFloorPlan_ConfidenceTags(t *testing.T) {
	calc := testCalculator(t)

	plan, err := calc.FloorPlan(testParams())
	if err != nil {
		t.Fatalf("FloorPlan: %v", err)
	}

	for name, d := range map[string]Duration{
		"Walls":        plan.Walls,
		"SlabFormwork": plan.SlabFormwork,
		"SlabRebar":    plan.SlabRebar,
		"Pour":         plan.Pour,
	} {
		if d.Confidence != standards.ConfidenceLow {
			t.Errorf("%s confidence = %q, want low", name, d.Confidence)
		}
	}
	if plan.Wait.Confidence != standards.ConfidenceHigh {
		t.Errorf("Wait confidence = %q, want high", plan.Wait.Confidence)
	}
	if plan.Wait.Ref.Standard != "ACI 318-19" {
		t.Errorf("Wait ref = %+v", plan.Wait.Ref)
	}
}

func TestFloorPlan_FormRemovalGoverns(t *testing.T) {
	calc := testCalculator(t)

	// no reshores in cold weather: 7 * 1.5 = 10.5 days beats curing
	p := testParams()
	p.UseReshores = false
	p.AmbientTempF = 40

	plan, err := calc.FloorPlan(p)
	if err != nil {
		t.Fatalf("FloorPlan: %v", err)
	}
	approx(t, "Wait", plan.Wait.Days, 10.5)
	if plan.Controlling != "ACI 347-04 form removal" {
		t.Errorf("Controlling = %q", plan.Controlling)
	}
}

func TestFoundationPlan(t *testing.T) {
	calc := testCalculator(t)

	plan, err := calc.FoundationPlan(testParams())
	if err != nil {
		t.Fatalf("FoundationPlan: %v", err)
	}

	// 200 m2 footprint, 0.5 m excavation depth, crew of 6
	approx(t, "SitePrep", plan.SitePrep.Days, 0.5) // floored at the minimum
	approx(t, "Excavation", plan.Excavation.Days, 4.2)
	approx(t, "Formwork", plan.Formwork.Days, 11.1)
	approx(t, "Rebar", plan.Rebar.Days, 15.0)
	approx(t, "Pour", plan.Pour.Days, 8.3)
	approx(t, "Curing", plan.Curing.Days, 7)

	if plan.Curing.Confidence != standards.ConfidenceHigh {
		t.Errorf("Curing confidence = %q", plan.Curing.Confidence)
	}
}

func TestEnvelopeAndFinishes(t *testing.T) {
	calc := testCalculator(t)
	p := testParams()

	// facade: 2*(20+10)*9 = 540 m2
	approx(t, "Envelope", calc.EnvelopeDays(p).Days, 3.6)
	// 3 floors * 200 m2
	approx(t, "Finishes", calc.FinishesDays(p).Days, 12.5)
}

func TestMinActivityFloor(t *testing.T) {
	calc := testCalculator(t)
	calc.MinActivityDays = 2.0

	plan, err := calc.FoundationPlan(testParams())
	if err != nil {
		t.Fatalf("FoundationPlan: %v", err)
	}
	// site prep computes to 0.4 days and gets floored
	approx(t, "SitePrep", plan.SitePrep.Days, 2.0)
}

func TestDeterminism(t *testing.T) {
	calc := testCalculator(t)

	a, err := calc.FloorPlan(testParams())
	if err != nil {
		t.Fatal(err)
	}
	b, err := calc.FloorPlan(testParams())
	if err != nil {
		t.Fatal(err)
	}
	if *a != *b {
		t.Errorf("identical inputs produced different plans:\n%+v\n%+v", a, b)
	}
}
