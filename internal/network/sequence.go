package network

import (
	"fmt"

	"github.com/elbasanier-main/dlarc/internal/building"
	"github.com/elbasanier-main/dlarc/internal/durations"
)

// BuildSequence emits the full activity network for one building: site
// preparation and excavation, the foundation group ending in its curing
// gate, one five-activity group per floor in fixed phase order, then
// envelope and finishes. Each floor's walls activity depends only on the
// prior curing activity, which is what makes floors strictly sequential.
func BuildSequence(p *building.Params, fnd *durations.FoundationPlan, floor *durations.FloorPlan, envelope, finishes durations.Duration) (*Network, error) {
	if p.Floors <= 0 {
		return nil, fmt.Errorf("%w: floors must be positive, got %d", building.ErrInvalidInput, p.Floors)
	}

	b := NewBuilder()
	nextID := 0
	id := func() string {
		s := fmt.Sprintf("A%03d", nextID)
		nextID++
		return s
	}
	add := func(a Activity) error {
		a.CrewSize = p.CrewSize
		return b.Add(a)
	}

	sitePrep := id()
	if err := add(Activity{ID: sitePrep, Name: "Site Preparation", Phase: PhaseSitePrep,
		DurationDays: fnd.SitePrep.Days, Confidence: fnd.SitePrep.Confidence, Ref: fnd.SitePrep.Ref}); err != nil {
		return nil, err
	}
	excavation := id()
	if err := add(Activity{ID: excavation, Name: "Excavation", Phase: PhaseExcavation,
		DurationDays: fnd.Excavation.Days, Predecessors: []string{sitePrep},
		Confidence: fnd.Excavation.Confidence, Ref: fnd.Excavation.Ref}); err != nil {
		return nil, err
	}

	foundation := []struct {
		name  string
		phase Phase
		d     durations.Duration
	}{
		{"Foundation Formwork", PhaseFoundationFormwork, fnd.Formwork},
		{"Foundation Rebar", PhaseFoundationRebar, fnd.Rebar},
		{"Foundation Pour", PhaseFoundationPour, fnd.Pour},
		{"Foundation Curing", PhaseFoundationCuring, fnd.Curing},
	}
	prev := excavation
	for _, f := range foundation {
		cur := id()
		if err := add(Activity{ID: cur, Name: f.name, Phase: f.phase,
			DurationDays: f.d.Days, Predecessors: []string{prev},
			Confidence: f.d.Confidence, Ref: f.d.Ref}); err != nil {
			return nil, err
		}
		prev = cur
	}
	// prev is now the foundation curing activity: the floor-1 gate.

	var lastCuring string
	for fl := 1; fl <= p.Floors; fl++ {
		phases := []struct {
			name  string
			phase Phase
			d     durations.Duration
		}{
			{fmt.Sprintf("Floor %d Walls", fl), PhaseFloorWalls, floor.Walls},
			{fmt.Sprintf("Floor %d Slab Formwork", fl), PhaseFloorSlabFormwork, floor.SlabFormwork},
			{fmt.Sprintf("Floor %d Slab Rebar", fl), PhaseFloorSlabRebar, floor.SlabRebar},
			{fmt.Sprintf("Floor %d Pour", fl), PhaseFloorPour, floor.Pour},
			{fmt.Sprintf("Floor %d Curing", fl), PhaseFloorCuring, floor.Wait},
		}
		for _, ph := range phases {
			cur := id()
			if err := add(Activity{ID: cur, Name: ph.name, Phase: ph.phase, Floor: fl,
				DurationDays: ph.d.Days, Predecessors: []string{prev},
				Confidence: ph.d.Confidence, Ref: ph.d.Ref}); err != nil {
				return nil, err
			}
			prev = cur
		}
		lastCuring = prev
	}

	envelopeID := id()
	if err := add(Activity{ID: envelopeID, Name: "Building Envelope", Phase: PhaseEnvelope,
		DurationDays: envelope.Days, Predecessors: []string{lastCuring},
		Confidence: envelope.Confidence, Ref: envelope.Ref}); err != nil {
		return nil, err
	}
	finishesID := id()
	if err := add(Activity{ID: finishesID, Name: "Interior Finishes", Phase: PhaseFinishes,
		DurationDays: finishes.Days, Predecessors: []string{envelopeID},
		Confidence: finishes.Confidence, Ref: finishes.Ref}); err != nil {
		return nil, err
	}

	return b.Finalize()
}
