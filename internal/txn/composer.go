package txn

import (
	"context"
	"github.com/NautilusNFTs/nautilus-interface/internal/failure"
	"github.com/NautilusNFTs/nautilus-interface/internal/metrics"
	"github.com/pkg/errors"
	"go.uber.org/zap"
)

// Simulator dry-runs a group against current ledger state.
type Simulator interface {
	Simulate(ctx context.Context, g *Group) (*Simulation, error)
}

type Composer interface {
	Compose(ctx context.Context, fctx failure.Context, b *Builder) (*Group, error)
}

type composer struct {
	simulator Simulator
}

func NewComposer(simulator Simulator) Composer {
	return composer{simulator}
}

// Compose builds the group and dry-runs it. A rejected dry-run is returned as
// a SimulationFailure and no group is produced.
func (c composer) Compose(ctx context.Context, fctx failure.Context, b *Builder) (*Group, error) {
	g, err := b.Build()
	if err != nil {
		zap.L().With(fctx.Fields()...).With(zap.Error(err)).Warn("Composer: Invalid group")
		return nil, failure.Validation(fctx, "operations", err.Error())
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	sim, err := c.simulator.Simulate(ctx, g)
	if err != nil {
		return nil, errors.Wrapf(err, "simulate %s", fctx.Action)
	}

	if !sim.Success {
		metrics.SimulationFailed(string(fctx.Action), "")
		zap.L().With(fctx.Fields()...).With(zap.String("reason", sim.FailureMessage)).Warn("Composer: Simulation failed")
		return nil, failure.Simulation(fctx, "", sim.FailureMessage)
	}

	if b.Options().Fee == 0 && sim.EstimatedFee > g.Fee {
		g.Fee = sim.EstimatedFee
	}
	g.Simulation = sim

	metrics.GroupComposed(string(fctx.Action))
	zap.L().With(fctx.Fields()...).With(zap.Int("size", g.Size()), zap.Uint64("fee", g.Fee)).Debug("Composer: Group composed")

	return g, nil
}
