// Package cpm runs the critical path method over an activity network:
// forward and backward passes, slack, the zero-slack critical set, and a
// resource histogram aggregated from the early-start schedule.
package cpm

import (
	"fmt"
	"math"
	"sort"

	"github.com/elbasanier-main/dlarc/internal/network"
)

// slackEps absorbs float rounding when testing slack against zero.
const slackEps = 1e-9

// Analyze schedules the network. A cycle or a dangling predecessor is
// rejected before the forward pass via topological sort failure.
func Analyze(n *network.Network) (*Result, error) {
	for id, preds := range n.RevAdj {
		if _, ok := n.Index[id]; !ok {
			return nil, fmt.Errorf("%w: edge to undefined activity %q", network.ErrInvalidNetwork, id)
		}
		for _, pred := range preds {
			if _, ok := n.Index[pred]; !ok {
				return nil, fmt.Errorf("%w: undefined predecessor %q", network.ErrInvalidNetwork, pred)
			}
		}
	}

	order, err := topoSort(n)
	if err != nil {
		return nil, err
	}

	result := &Result{
		ByID:      make(map[string]*Entry, len(order)),
		TopoOrder: order,
	}
	for _, a := range n.Activities {
		e := &Entry{ActivityID: a.ID}
		result.Entries = append(result.Entries, e)
		result.ByID[a.ID] = e
	}

	// Forward pass: ES = max(EF of predecessors), EF = ES + duration.
	for _, id := range order {
		e := result.ByID[id]
		es := 0.0
		for _, pred := range n.RevAdj[id] {
			if pe := result.ByID[pred]; pe.EF > es {
				es = pe.EF
			}
		}
		e.ES = es
		e.EF = es + n.Index[id].DurationDays
	}

	total := 0.0
	for _, e := range result.Entries {
		if e.EF > total {
			total = e.EF
		}
	}
	result.TotalDurationDays = total

	// Backward pass in reverse topological order. Terminal activities
	// finish no later than the project; everything else is bounded by
	// the earliest late start among its successors.
	for i := len(order) - 1; i >= 0; i-- {
		id := order[i]
		e := result.ByID[id]
		if len(n.Adj[id]) == 0 {
			e.LF = total
		} else {
			minLS := math.Inf(1)
			for _, succ := range n.Adj[id] {
				if se := result.ByID[succ]; se.LS < minLS {
					minLS = se.LS
				}
			}
			e.LF = minLS
		}
		e.LS = e.LF - n.Index[id].DurationDays
		e.Slack = e.LS - e.ES
		e.Critical = e.Slack <= slackEps
	}

	// Critical path is the full zero-slack set, reported in definition
	// order; parallel zero-slack branches are all included.
	for _, e := range result.Entries {
		if e.Critical {
			result.CriticalPath = append(result.CriticalPath, e.ActivityID)
		}
	}

	result.Histogram = histogram(n, result)
	return result, nil
}

// topoSort is Kahn's algorithm. Ready activities are processed in sorted
// id order so identical inputs always yield identical output.
func topoSort(n *network.Network) ([]string, error) {
	inDegree := make(map[string]int, len(n.Activities))
	for _, a := range n.Activities {
		inDegree[a.ID] = len(n.RevAdj[a.ID])
	}

	var queue []string
	for _, a := range n.Activities {
		if inDegree[a.ID] == 0 {
			queue = append(queue, a.ID)
		}
	}
	sort.Strings(queue)

	var order []string
	for len(queue) > 0 {
		node := queue[0]
		queue = queue[1:]
		order = append(order, node)

		var newReady []string
		for _, succ := range n.Adj[node] {
			inDegree[succ]--
			if inDegree[succ] == 0 {
				newReady = append(newReady, succ)
			}
		}
		sort.Strings(newReady)
		queue = append(queue, newReady...)
	}

	if len(order) != len(n.Activities) {
		return nil, fmt.Errorf("%w: topological sort failed, graph has a cycle (%d of %d activities sorted)",
			network.ErrInvalidNetwork, len(order), len(n.Activities))
	}
	return order, nil
}

// histogram sums crew size per calendar day over every activity whose
// [ES, EF) interval contains that day. Early-start scheduling models a
// start-as-soon-as-possible plan.
func histogram(n *network.Network, result *Result) []int {
	days := int(math.Ceil(result.TotalDurationDays))
	if days <= 0 {
		return nil
	}
	out := make([]int, days)
	for _, a := range n.Activities {
		e := result.ByID[a.ID]
		// day d is occupied iff ES <= d < EF
		for d := int(math.Ceil(e.ES)); d < days && float64(d) < e.EF; d++ {
			out[d] += a.CrewSize
		}
	}
	return out
}
