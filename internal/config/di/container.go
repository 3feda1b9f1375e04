package di

import (
	"github.com/NautilusNFTs/nautilus-interface/internal/event"
	"github.com/NautilusNFTs/nautilus-interface/internal/indexer"
	"github.com/NautilusNFTs/nautilus-interface/internal/ledger"
	"github.com/NautilusNFTs/nautilus-interface/internal/listing"
	"github.com/NautilusNFTs/nautilus-interface/internal/position"
	"github.com/NautilusNFTs/nautilus-interface/internal/purchase"
	"github.com/NautilusNFTs/nautilus-interface/internal/royalty"
	"github.com/NautilusNFTs/nautilus-interface/internal/staking"
	"github.com/NautilusNFTs/nautilus-interface/internal/swap"
	"github.com/NautilusNFTs/nautilus-interface/internal/txn"
	"github.com/sarulabs/di/v2"
)

// Container resolves services lazily; a service that fails to build panics
// on first use.
type Container struct {
	ctn di.Container
}

func NewContainer(defs ...di.Def) (*Container, error) {
	builder, err := di.NewBuilder()
	if err != nil {
		return nil, err
	}
	// defs replace the default definitions sharing their name.
	if err := builder.Add(append(Definitions, defs...)...); err != nil {
		return nil, err
	}
	return &Container{builder.Build()}, nil
}

func (c *Container) Delete() error {
	return c.ctn.Delete()
}

func (c *Container) GetBus() *event.Bus {
	return c.ctn.Get(busDef).(*event.Bus)
}

func (c *Container) GetLedger() ledger.Client {
	return c.ctn.Get(ledgerDef).(ledger.Client)
}

func (c *Container) GetSubmitter() ledger.Submitter {
	return c.ctn.Get(submitterDef).(ledger.Submitter)
}

func (c *Container) GetComposer() txn.Composer {
	return c.ctn.Get(composerDef).(txn.Composer)
}

func (c *Container) GetIndexer() indexer.Service {
	return c.ctn.Get(indexerDef).(indexer.Service)
}

func (c *Container) GetSwap() swap.Quoter {
	return c.ctn.Get(swapDef).(swap.Quoter)
}

func (c *Container) GetRoyalty() royalty.Resolver {
	return c.ctn.Get(royaltyDef).(royalty.Resolver)
}

func (c *Container) GetValuator() staking.Valuator {
	return c.ctn.Get(valuatorDef).(staking.Valuator)
}

func (c *Container) GetPurchase() purchase.Orchestrator {
	return c.ctn.Get(purchaseDef).(purchase.Orchestrator)
}

func (c *Container) GetListing() listing.Manager {
	return c.ctn.Get(listingDef).(listing.Manager)
}

func (c *Container) GetPosition() position.Service {
	return c.ctn.Get(positionDef).(position.Service)
}
