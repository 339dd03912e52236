package network

import "github.com/elbasanier-main/dlarc/internal/standards"

// Phase classifies an activity within the construction sequence.
type Phase string

const (
	PhaseSitePrep           Phase = "site-prep"
	PhaseExcavation         Phase = "excavation"
	PhaseFoundationFormwork Phase = "foundation-formwork"
	PhaseFoundationRebar    Phase = "foundation-rebar"
	PhaseFoundationPour     Phase = "foundation-pour"
	PhaseFoundationCuring   Phase = "foundation-curing"
	PhaseFloorWalls         Phase = "floor-walls"
	PhaseFloorSlabFormwork  Phase = "floor-slab-formwork"
	PhaseFloorSlabRebar     Phase = "floor-slab-rebar"
	PhaseFloorPour          Phase = "floor-pour"
	PhaseFloorCuring        Phase = "floor-curing"
	PhaseEnvelope           Phase = "envelope"
	PhaseFinishes           Phase = "finishes"
)

// FloorPhase reports whether the phase belongs to a numbered floor group.
func (p Phase) FloorPhase() bool {
	switch p {
	case PhaseFloorWalls, PhaseFloorSlabFormwork, PhaseFloorSlabRebar, PhaseFloorPour, PhaseFloorCuring:
		return true
	}
	return false
}

// floorPhaseOrder is the fixed within-floor construction order.
var floorPhaseOrder = []Phase{
	PhaseFloorWalls,
	PhaseFloorSlabFormwork,
	PhaseFloorSlabRebar,
	PhaseFloorPour,
	PhaseFloorCuring,
}

// Activity is one node of the construction network. Floor 0 marks
// activities that are not floor-specific.
type Activity struct {
	ID           string               `json:"id"`
	Name         string               `json:"name"`
	Phase        Phase                `json:"phase"`
	DurationDays float64              `json:"duration_days"`
	Predecessors []string             `json:"predecessors"`
	Floor        int                  `json:"floor"`
	CrewSize     int                  `json:"crew_size"`
	Confidence   standards.Confidence `json:"confidence"`
	Ref          standards.Ref        `json:"ref"`
}

// Network is a validated activity DAG. Activities keeps definition order;
// Adj/RevAdj hold the successor and predecessor relations with sorted
// neighbor lists for deterministic traversal.
type Network struct {
	Activities []*Activity
	Index      map[string]*Activity
	Adj        map[string][]string
	RevAdj     map[string][]string
	Roots      []string
	Leaves     []string
}

// ActivityCount returns the number of activities in the network.
func (n *Network) ActivityCount() int {
	return len(n.Activities)
}

// CuringOf returns the curing activity id for a floor, or "" if absent.
func (n *Network) CuringOf(floor int) string {
	for _, a := range n.Activities {
		if a.Floor == floor && a.Phase == PhaseFloorCuring {
			return a.ID
		}
	}
	return ""
}
