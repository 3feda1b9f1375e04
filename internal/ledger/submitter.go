package ledger

import (
	"context"
	"github.com/NautilusNFTs/nautilus-interface/internal/txn"
	"github.com/pkg/errors"
)

type Submitter interface {
	SignAndSubmit(ctx context.Context, g *txn.Group) (*Confirmation, error)
}

type submitter struct {
	client Client
	signer Signer
}

func NewSubmitter(client Client, signer Signer) Submitter {
	return submitter{client, signer}
}

// SignAndSubmit signs the simulated group and submits it. A cancelled context
// abandons the group before anything reaches the ledger.
func (s submitter) SignAndSubmit(ctx context.Context, g *txn.Group) (*Confirmation, error) {
	if g == nil || g.Simulation == nil || len(g.Simulation.Unsigned) == 0 {
		return nil, errors.New("group has not been simulated")
	}

	signed, err := s.signer.Sign(ctx, g.Sender, g.Simulation.Unsigned)
	if err != nil {
		return nil, errors.Wrap(err, "sign group")
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	return s.client.Submit(ctx, signed)
}
