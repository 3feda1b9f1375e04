package di

import (
	"github.com/NautilusNFTs/nautilus-interface/internal/event"
	"github.com/NautilusNFTs/nautilus-interface/internal/ledger/ledgertest"
	"github.com/NautilusNFTs/nautilus-interface/internal/swap"
	"github.com/sarulabs/di/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"testing"
)

func testContainer(t *testing.T) *Container {
	fake := ledgertest.New()
	ctn, err := NewContainer(
		di.Def{Name: ledgerDef, Build: func(di.Container) (interface{}, error) { return fake, nil }},
		di.Def{Name: signerDef, Build: func(di.Container) (interface{}, error) { return ledgertest.Signer{}, nil }},
		di.Def{Name: swapDef, Build: func(di.Container) (interface{}, error) { return swap.NewSwapService("http://swap.local", 5) }},
	)
	require.NoError(t, err)
	t.Cleanup(func() { _ = ctn.Delete() })
	return ctn
}

func TestContainerResolvesServices(t *testing.T) {
	ctn := testContainer(t)

	assert.NotNil(t, ctn.GetLedger())
	assert.NotNil(t, ctn.GetSubmitter())
	assert.NotNil(t, ctn.GetComposer())
	assert.NotNil(t, ctn.GetRoyalty())
	assert.NotNil(t, ctn.GetValuator())
	assert.NotNil(t, ctn.GetPurchase())
	assert.NotNil(t, ctn.GetListing())
	assert.NotNil(t, ctn.GetPosition())
	assert.NotNil(t, ctn.GetIndexer())
}

func TestContainerSharesTheBus(t *testing.T) {
	ctn := testContainer(t)

	assert.Same(t, ctn.GetBus(), ctn.GetBus())

	ctn.GetIndexer()
	received := 0
	ctn.GetBus().AddEventListener(event.GroupSubmittedEvent, func(interface{}) { received++ })
	ctn.GetBus().EmitEvent(event.GroupSubmittedEvent, event.GroupSubmitted{Sender: "A"})
	assert.Equal(t, 1, received)
}
