package di

import (
	"github.com/NautilusNFTs/nautilus-interface/internal/config"
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
	"go.uber.org/zap"
	"time"
)

const (
	busDef       = "bus"
	ledgerDef    = "ledger"
	signerDef    = "signer"
	submitterDef = "submitter"
	composerDef  = "composer"
	indexerDef   = "indexer"
	swapDef      = "swap"
	royaltyDef   = "royalty"
	valuatorDef  = "valuator"
	purchaseDef  = "purchase"
	listingDef   = "listing"
	positionDef  = "position"
)

var Definitions = []di.Def{
	{
		Name: busDef,
		Build: func(ctn di.Container) (interface{}, error) {
			return event.NewBus(), nil
		},
	},
	{
		Name: ledgerDef,
		Build: func(ctn di.Container) (interface{}, error) {
			cfg := config.Get().Ledger
			client, err := ledger.NewClient(cfg.Url, cfg.Timeout, cfg.Debug)
			if err != nil {
				zap.L().With(zap.Error(err)).Error("Container: Failed to create ledger client")
				return nil, err
			}
			return ledger.NewLedgerService(ledger.NewProvider(client)), nil
		},
	},
	{
		Name: signerDef,
		Build: func(ctn di.Container) (interface{}, error) {
			cfg := config.Get().Signer
			return ledger.NewRemoteSigner(cfg.Url, cfg.Timeout)
		},
	},
	{
		Name: submitterDef,
		Build: func(ctn di.Container) (interface{}, error) {
			return ledger.NewSubmitter(ctn.Get(ledgerDef).(ledger.Client), ctn.Get(signerDef).(ledger.Signer)), nil
		},
	},
	{
		Name: composerDef,
		Build: func(ctn di.Container) (interface{}, error) {
			return txn.NewComposer(ctn.Get(ledgerDef).(ledger.Client)), nil
		},
	},
	{
		Name: indexerDef,
		Build: func(ctn di.Container) (interface{}, error) {
			cfg := config.Get().Indexer
			svc, err := indexer.NewIndexerService(cfg.Url, cfg.Timeout, cfg.CacheTtl)
			if err != nil {
				return nil, err
			}
			ctn.Get(busDef).(*event.Bus).AddEventListener(event.GroupSubmittedEvent, svc.OnGroupSubmitted)
			return svc, nil
		},
	},
	{
		Name: swapDef,
		Build: func(ctn di.Container) (interface{}, error) {
			cfg := config.Get().Swap
			return swap.NewSwapService(cfg.Url, cfg.Timeout)
		},
	},
	{
		Name: royaltyDef,
		Build: func(ctn di.Container) (interface{}, error) {
			mp := config.Get().Marketplace
			return royalty.NewResolver(mp.RoyaltyCap, mp.NullAddress), nil
		},
	},
	{
		Name: valuatorDef,
		Build: func(ctn di.Container) (interface{}, error) {
			cfg := config.Get().Staking
			return staking.NewValuator(staking.Schedule{
				ProgramStart:     time.Unix(cfg.ProgramStart, 0).UTC(),
				MonthSeconds:     cfg.MonthSeconds,
				MonthlyThreshold: cfg.MonthlyThreshold,
			}), nil
		},
	},
	{
		Name: purchaseDef,
		Build: func(ctn di.Container) (interface{}, error) {
			mp := config.Get().Marketplace
			return purchase.NewOrchestrator(
				ctn.Get(ledgerDef).(ledger.Client),
				ctn.Get(composerDef).(txn.Composer),
				ctn.Get(swapDef).(swap.Quoter),
				purchase.DefaultStrategy(),
				purchase.Config{
					MarketplaceId:   mp.AppId,
					WrappedNativeId: mp.WrappedNativeId,
					NullAddress:     mp.NullAddress,
					BalanceBoxCost:  mp.BalanceBoxCost,
					CostFloor:       mp.PurchaseCostFloor,
					GroupSize:       mp.GroupSize,
				},
			), nil
		},
	},
	{
		Name: listingDef,
		Build: func(ctn di.Container) (interface{}, error) {
			mp := config.Get().Marketplace
			return listing.NewManager(
				ctn.Get(ledgerDef).(ledger.Client),
				ctn.Get(composerDef).(txn.Composer),
				ctn.Get(royaltyDef).(royalty.Resolver),
				ctn.Get(busDef).(*event.Bus),
				listing.Config{
					MarketplaceId:  mp.AppId,
					NullAddress:    mp.NullAddress,
					ListingBoxCost: mp.ListingBoxCost,
					BalanceBoxCost: mp.BalanceBoxCost,
					MinAvailable:   mp.MinAvailable,
					ListFee:        mp.ListFee,
					DeleteFee:      mp.DeleteFee,
					BulkDeleteFee:  mp.BulkDeleteFee,
					TransferFee:    mp.TransferFee,
					GroupSize:      mp.GroupSize,
					BulkRate:       mp.BulkRate,
					Optins:         mp.Optins,
				},
			), nil
		},
	},
	{
		Name: positionDef,
		Build: func(ctn di.Container) (interface{}, error) {
			cfg := config.Get().Staking
			return position.NewPositionService(ctn.Get(composerDef).(txn.Composer), position.Config{
				MinterAppId:     cfg.MinterAppId,
				MintCost:        cfg.MintCost,
				MintFee:         cfg.MintFee,
				WithdrawFee:     cfg.WithdrawFee,
				BulkFee:         cfg.WithdrawFee,
				ParticipateFee:  cfg.ParticipateFee,
				ParticipateCost: cfg.ParticipateCost,
				ChunkSize:       cfg.WithdrawChunkSize,
			}), nil
		},
	},
}
