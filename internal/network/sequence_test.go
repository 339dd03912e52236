package network

import (
	"errors"
	"fmt"
	"testing"

	"github.com/elbasanier-main/dlarc/internal/building"
	"github.com/elbasanier-main/dlarc/internal/durations"
	"github.com/elbasanier-main/dlarc/internal/standards"
)

func seqParams(floors int) *building.Params {
	return &building.Params{
		Name:            "tower-a",
		Floors:          floors,
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

func seqPlans() (*durations.FoundationPlan, *durations.FloorPlan, durations.Duration, durations.Duration) {
	low := func(days float64) durations.Duration {
		return durations.Duration{Days: days, Confidence: standards.ConfidenceLow}
	}
	high := func(days float64) durations.Duration {
		return durations.Duration{Days: days, Confidence: standards.ConfidenceHigh, Ref: standards.Ref{Standard: "ACI 318-19"}}
	}
	fnd := &durations.FoundationPlan{
		SitePrep:   low(0.5),
		Excavation: low(4.2),
		Formwork:   low(11.1),
		Rebar:      low(15.0),
		Pour:       low(8.3),
		Curing:     high(7),
	}
	floor := &durations.FloorPlan{
		Walls:        low(15.3),
		SlabFormwork: low(11.1),
		SlabRebar:    low(5.0),
		Pour:         low(2.5),
		Wait:         high(7),
	}
	return fnd, floor, low(3.6), low(12.5)
}

func TestBuildSequence(t *testing.T) {
	fnd, floor, env, fin := seqPlans()

	n, err := BuildSequence(seqParams(3), fnd, floor, env, fin)
	if err != nil {
		t.Fatalf("BuildSequence: %v", err)
	}

	// site prep + excavation + 4 foundation + 5 per floor + envelope + finishes
	want := 2 + 4 + 3*5 + 2
	if n.ActivityCount() != want {
		t.Fatalf("ActivityCount = %d, want %d", n.ActivityCount(), want)
	}

	first := n.Activities[0]
	if first.Name != "Site Preparation" || len(first.Predecessors) != 0 {
		t.Errorf("first activity = %+v", first)
	}
	last := n.Activities[len(n.Activities)-1]
	if last.Name != "Interior Finishes" {
		t.Errorf("last activity = %q", last.Name)
	}
	if len(n.Roots) != 1 || len(n.Leaves) != 1 {
		t.Errorf("Roots=%v Leaves=%v, want single chain endpoints", n.Roots, n.Leaves)
	}
}

func TestBuildSequence_FloorGates(t *testing.T) {
	fnd, floor, env, fin := seqPlans()

	n, err := BuildSequence(seqParams(3), fnd, floor, env, fin)
	if err != nil {
		t.Fatalf("BuildSequence: %v", err)
	}

	var foundationCuring string
	for _, a := range n.Activities {
		if a.Phase == PhaseFoundationCuring {
			foundationCuring = a.ID
		}
	}
	if foundationCuring == "" {
		t.Fatal("no foundation curing activity")
	}

	for fl := 1; fl <= 3; fl++ {
		var walls *Activity
		for _, a := range n.Activities {
			if a.Floor == fl && a.Phase == PhaseFloorWalls {
				walls = a
			}
		}
		if walls == nil {
			t.Fatalf("floor %d has no walls activity", fl)
		}

		gate := foundationCuring
		if fl > 1 {
			gate = n.CuringOf(fl - 1)
		}
		if len(walls.Predecessors) != 1 || walls.Predecessors[0] != gate {
			t.Errorf("floor %d walls predecessors = %v, want [%s]", fl, walls.Predecessors, gate)
		}
	}
}

func TestBuildSequence_CrewAndDurations(t *testing.T) {
	fnd, floor, env, fin := seqPlans()

	n, err := BuildSequence(seqParams(2), fnd, floor, env, fin)
	if err != nil {
		t.Fatalf("BuildSequence: %v", err)
	}

	for _, a := range n.Activities {
		if a.CrewSize != 6 {
			t.Errorf("%s crew = %d, want 6", a.ID, a.CrewSize)
		}
	}

	w := n.Index["A006"] // floor 1 walls
	if w == nil || w.Phase != PhaseFloorWalls {
		t.Fatalf("A006 = %+v, want floor 1 walls", w)
	}
	if w.DurationDays != 15.3 || w.Confidence != standards.ConfidenceLow {
		t.Errorf("walls duration = %v conf %q", w.DurationDays, w.Confidence)
	}

	cure := n.Index[n.CuringOf(1)]
	if cure.DurationDays != 7 || cure.Confidence != standards.ConfidenceHigh {
		t.Errorf("curing duration = %v conf %q", cure.DurationDays, cure.Confidence)
	}
}

func TestBuildSequence_InvalidFloors(t *testing.T) {
	fnd, floor, env, fin := seqPlans()

	_, err := BuildSequence(seqParams(0), fnd, floor, env, fin)
	if !errors.Is(err, building.ErrInvalidInput) {
		t.Fatalf("got %v, want ErrInvalidInput", err)
	}
}

func TestBuildSequence_IDFormat(t *testing.T) {
	fnd, floor, env, fin := seqPlans()

	n, err := BuildSequence(seqParams(1), fnd, floor, env, fin)
	if err != nil {
		t.Fatalf("BuildSequence: %v", err)
	}
	for i, a := range n.Activities {
		if want := fmt.Sprintf("A%03d", i); a.ID != want {
			t.Errorf("activity %d id = %q, want %q", i, a.ID, want)
		}
	}
}
