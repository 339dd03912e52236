// Package network assembles the construction activity DAG: site work,
// foundation, N strictly sequential floor groups, then envelope and
// finishes. Invariants are enforced at construction time so an
// inconsistent graph can never be handed to the scheduler.
package network

import (
	"errors"
	"fmt"
	"sort"
)

// ErrInvalidNetwork marks a graph rejected at build time: a cycle, a
// reference to an undefined predecessor, or a floor added out of order.
var ErrInvalidNetwork = errors.New("invalid activity network")

// Builder accumulates activities in definition order and validates each
// one against the activities already defined.
type Builder struct {
	activities []*Activity
	index      map[string]*Activity
	// floorPhases tracks which phases exist per floor so the
	// sequential-floor invariant can be checked incrementally.
	floorPhases map[int]map[Phase]bool
}

// NewBuilder returns an empty Builder.
func NewBuilder() *Builder {
	return &Builder{
		index:       make(map[string]*Activity),
		floorPhases: make(map[int]map[Phase]bool),
	}
}

// Add appends one activity. It rejects duplicate ids, negative durations,
// predecessors that do not yet exist, and any floor-f activity arriving
// before floor f-1 is complete.
func (b *Builder) Add(a Activity) error {
	if a.ID == "" {
		return fmt.Errorf("%w: activity with empty id", ErrInvalidNetwork)
	}
	if _, dup := b.index[a.ID]; dup {
		return fmt.Errorf("%w: duplicate activity id %q", ErrInvalidNetwork, a.ID)
	}
	if a.DurationDays < 0 {
		return fmt.Errorf("%w: activity %q has negative duration %.1f", ErrInvalidNetwork, a.ID, a.DurationDays)
	}
	if a.CrewSize <= 0 {
		return fmt.Errorf("%w: activity %q has non-positive crew size %d", ErrInvalidNetwork, a.ID, a.CrewSize)
	}
	for _, pred := range a.Predecessors {
		if _, ok := b.index[pred]; !ok {
			return fmt.Errorf("%w: activity %q references undefined predecessor %q", ErrInvalidNetwork, a.ID, pred)
		}
	}

	if a.Phase.FloorPhase() {
		if a.Floor < 1 {
			return fmt.Errorf("%w: floor activity %q has floor level %d", ErrInvalidNetwork, a.ID, a.Floor)
		}
		if err := b.checkFloorOrder(&a); err != nil {
			return err
		}
	}

	cp := a
	cp.Predecessors = append([]string(nil), a.Predecessors...)
	b.activities = append(b.activities, &cp)
	b.index[cp.ID] = &cp
	if cp.Phase.FloorPhase() {
		if b.floorPhases[cp.Floor] == nil {
			b.floorPhases[cp.Floor] = make(map[Phase]bool)
		}
		b.floorPhases[cp.Floor][cp.Phase] = true
	}
	return nil
}

// checkFloorOrder enforces strictly sequential floors: no floor-f
// activity may be added until every phase of floor f-1 exists, and the
// walls activity of floor f must be gated on the prior curing activity
// (foundation curing for floor 1).
func (b *Builder) checkFloorOrder(a *Activity) error {
	if a.Floor > 1 {
		prev := b.floorPhases[a.Floor-1]
		for _, phase := range floorPhaseOrder {
			if !prev[phase] {
				return fmt.Errorf("%w: floor %d activity %q added before floor %d %s exists",
					ErrInvalidNetwork, a.Floor, a.ID, a.Floor-1, phase)
			}
		}
	}

	if a.Phase != PhaseFloorWalls {
		return nil
	}
	for _, pred := range a.Predecessors {
		p := b.index[pred]
		if a.Floor > 1 && p.Phase == PhaseFloorCuring && p.Floor == a.Floor-1 {
			return nil
		}
		if a.Floor == 1 && p.Phase == PhaseFoundationCuring {
			return nil
		}
	}
	if a.Floor == 1 {
		return fmt.Errorf("%w: floor 1 walls %q must depend on foundation curing", ErrInvalidNetwork, a.ID)
	}
	return fmt.Errorf("%w: floor %d walls %q must depend on floor %d curing",
		ErrInvalidNetwork, a.Floor, a.ID, a.Floor-1)
}

// Finalize validates the accumulated graph and returns an immutable
// Network. The cycle check runs here so traversal code downstream can
// assume a DAG.
func (b *Builder) Finalize() (*Network, error) {
	if len(b.activities) == 0 {
		return nil, fmt.Errorf("%w: no activities defined", ErrInvalidNetwork)
	}

	n := &Network{
		Activities: b.activities,
		Index:      b.index,
		Adj:        make(map[string][]string),
		RevAdj:     make(map[string][]string),
	}

	edgeSet := make(map[[2]string]bool)
	for _, a := range b.activities {
		for _, pred := range a.Predecessors {
			key := [2]string{pred, a.ID}
			if edgeSet[key] {
				continue
			}
			edgeSet[key] = true
			n.Adj[pred] = append(n.Adj[pred], a.ID)
			n.RevAdj[a.ID] = append(n.RevAdj[a.ID], pred)
		}
	}

	// Sorted adjacency for deterministic traversal
	for k := range n.Adj {
		sort.Strings(n.Adj[k])
	}
	for k := range n.RevAdj {
		sort.Strings(n.RevAdj[k])
	}

	for _, a := range b.activities {
		if len(n.RevAdj[a.ID]) == 0 {
			n.Roots = append(n.Roots, a.ID)
		}
		if len(n.Adj[a.ID]) == 0 {
			n.Leaves = append(n.Leaves, a.ID)
		}
	}
	sort.Strings(n.Roots)
	sort.Strings(n.Leaves)

	if cycle := n.detectCycle(); cycle != nil {
		return nil, fmt.Errorf("%w: dependency cycle %v", ErrInvalidNetwork, cycle)
	}
	return n, nil
}

// detectCycle returns the cycle path if one exists, or nil for a DAG.
// DFS with coloring: white (unvisited), gray (in progress), black (done).
func (n *Network) detectCycle() []string {
	const (
		white = 0
		gray  = 1
		black = 2
	)

	color := make(map[string]int)
	parent := make(map[string]string)

	var dfs func(node string) []string
	dfs = func(node string) []string {
		color[node] = gray
		for _, next := range n.Adj[node] {
			if color[next] == gray {
				cycle := []string{next, node}
				cur := node
				for cur != next {
					cur = parent[cur]
					cycle = append(cycle, cur)
				}
				for i, j := 0, len(cycle)-1; i < j; i, j = i+1, j-1 {
					cycle[i], cycle[j] = cycle[j], cycle[i]
				}
				return cycle
			}
			if color[next] == white {
				parent[next] = node
				if cycle := dfs(next); cycle != nil {
					return cycle
				}
			}
		}
		color[node] = black
		return nil
	}

	for _, a := range n.Activities {
		if color[a.ID] == white {
			if cycle := dfs(a.ID); cycle != nil {
				return cycle
			}
		}
	}
	return nil
}
