// Package sequencer wires the engine end to end: building parameters
// through the duration calculator, network builder, CPM scheduler, and
// constructability validator. Each invocation owns its own activity list
// and results, so independent buildings can be sequenced concurrently
// against the one shared standards table.
package sequencer

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"

	"github.com/elbasanier-main/dlarc/internal/building"
	"github.com/elbasanier-main/dlarc/internal/cpm"
	"github.com/elbasanier-main/dlarc/internal/durations"
	"github.com/elbasanier-main/dlarc/internal/network"
	"github.com/elbasanier-main/dlarc/internal/standards"
	"github.com/elbasanier-main/dlarc/internal/validate"
)

// Sequencer runs the full scheduling pipeline for one or more buildings.
type Sequencer struct {
	Table     *standards.Table
	Calc      *durations.Calculator
	Validator *validate.Validator
}

// New builds a Sequencer over a loaded standards table.
func New(t *standards.Table) *Sequencer {
	return &Sequencer{
		Table:     t,
		Calc:      durations.NewCalculator(t),
		Validator: validate.New(t),
	}
}

// Outcome bundles everything one scheduling run produces.
type Outcome struct {
	Params     *building.Params
	FloorPlan  *durations.FloorPlan
	Network    *network.Network
	Schedule   *cpm.Result
	Validation *validate.Result
}

// Run sequences one building: durations, network, CPM, validation.
// Errors from any stage propagate unchanged so callers can distinguish
// InvalidInput, InvalidNetwork, and standards lookup misses.
func (s *Sequencer) Run(p *building.Params) (*Outcome, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}

	floorPlan, err := s.Calc.FloorPlan(p)
	if err != nil {
		return nil, fmt.Errorf("floor durations: %w", err)
	}
	foundationPlan, err := s.Calc.FoundationPlan(p)
	if err != nil {
		return nil, fmt.Errorf("foundation durations: %w", err)
	}

	net, err := network.BuildSequence(p, foundationPlan, floorPlan,
		s.Calc.EnvelopeDays(p), s.Calc.FinishesDays(p))
	if err != nil {
		return nil, fmt.Errorf("build network: %w", err)
	}

	schedule, err := cpm.Analyze(net)
	if err != nil {
		return nil, fmt.Errorf("schedule network: %w", err)
	}

	validation, err := s.Validator.Run(p, net, schedule)
	if err != nil {
		return nil, fmt.Errorf("validate: %w", err)
	}

	return &Outcome{
		Params:     p,
		FloorPlan:  floorPlan,
		Network:    net,
		Schedule:   schedule,
		Validation: validation,
	}, nil
}

// BatchResult is one building's outcome or failure within a batch.
type BatchResult struct {
	Name    string
	Outcome *Outcome
	Err     error
}

// RunBatch sequences independent buildings concurrently with at most
// maxParallel in flight. Results come back in input order; a failure in
// one building never aborts the others.
func (s *Sequencer) RunBatch(ctx context.Context, params []*building.Params, maxParallel int) []BatchResult {
	if maxParallel <= 0 {
		maxParallel = 4
	}

	results := make([]BatchResult, len(params))
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(maxParallel)

	for i, p := range params {
		i, p := i, p
		g.Go(func() error {
			name := "unnamed"
			if p != nil {
				name = p.Name
			}
			if err := ctx.Err(); err != nil {
				results[i] = BatchResult{Name: name, Err: err}
				return nil
			}
			out, err := s.Run(p)
			results[i] = BatchResult{Name: name, Outcome: out, Err: err}
			return nil
		})
	}
	// Workers only record per-building errors; Wait cannot fail.
	_ = g.Wait()
	return results
}
