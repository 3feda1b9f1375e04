package main

import (
	"context"
	"errors"
	"github.com/NautilusNFTs/nautilus-interface/internal/config"
	"github.com/NautilusNFTs/nautilus-interface/internal/dev"
	"github.com/NautilusNFTs/nautilus-interface/internal/entity"
	"github.com/NautilusNFTs/nautilus-interface/internal/failure"
	"github.com/NautilusNFTs/nautilus-interface/internal/indexer"
	"github.com/NautilusNFTs/nautilus-interface/internal/listing"
	"github.com/NautilusNFTs/nautilus-interface/internal/purchase"
	"github.com/NautilusNFTs/nautilus-interface/internal/swap"
	"github.com/urfave/cli/v2"
	"go.uber.org/zap"
	"os"
)

// loadListing fetches a listing and attaches the royalties of its token.
func loadListing(ctx context.Context, listingId uint64) (*entity.Listing, *entity.Token, error) {
	l, err := container.GetIndexer().Listing(ctx, config.Get().Marketplace.AppId, listingId)
	if err != nil {
		return nil, nil, err
	}

	token, err := container.GetIndexer().Token(ctx, l.CollectionId, l.TokenId)
	if err != nil {
		return nil, nil, err
	}

	royalties := container.GetRoyalty().Resolve(token.Royalties)
	l.Royalties = &royalties

	return l, token, nil
}

// activeListing returns the seller's active listing of a token, if any.
func activeListing(ctx context.Context, seller string, collectionId, tokenId uint64) (*entity.Listing, error) {
	listings, err := container.GetIndexer().Listings(ctx, indexer.ListingFilter{
		MarketplaceId: config.Get().Marketplace.AppId,
		CollectionId:  collectionId,
		TokenId:       tokenId,
		Seller:        seller,
		ActiveOnly:    true,
	})
	if err != nil {
		return nil, err
	}
	for _, l := range listings {
		if l.CollectionId == collectionId && l.TokenId == tokenId {
			l := l
			return &l, nil
		}
	}
	return nil, nil
}

func buy(c *cli.Context) error {
	l, _, err := loadListing(c.Context, c.Uint64("listing"))
	if err != nil {
		return err
	}

	plan := purchase.CurrencyPlan{Held: c.Uint64("held")}
	if c.IsSet("pool") {
		plan.Pool = &swap.Pool{PoolId: c.Uint64("pool"), TokenA: c.Uint64("pool-a"), TokenB: c.Uint64("pool-b")}
	}

	g, err := container.GetPurchase().Purchase(c.Context, *l, c.String("buyer"), plan)
	if err != nil {
		return err
	}
	return output(c, failure.BuyAction, g)
}

func list(c *cli.Context) error {
	seller := c.String("seller")
	token, err := container.GetIndexer().Token(c.Context, c.Uint64("collection"), c.Uint64("token"))
	if err != nil {
		return err
	}

	prior, err := activeListing(c.Context, seller, token.CollectionId, token.TokenId)
	if err != nil {
		return err
	}

	g, err := container.GetListing().Create(c.Context, listing.CreateRequest{
		Seller:   seller,
		Token:    *token,
		Price:    c.Uint64("price"),
		Currency: c.Uint64("currency"),
		Prior:    prior,
	})
	if err != nil {
		return err
	}
	return output(c, failure.ListAction, g)
}

func update(c *cli.Context) error {
	l, token, err := loadListing(c.Context, c.Uint64("listing"))
	if err != nil {
		return err
	}

	g, err := container.GetListing().Update(c.Context, *l, *token, c.Uint64("price"), c.Uint64("currency"))
	if err != nil {
		return err
	}
	return output(c, failure.UpdateAction, g)
}

func delist(c *cli.Context) error {
	l, err := container.GetIndexer().Listing(c.Context, config.Get().Marketplace.AppId, c.Uint64("listing"))
	if err != nil {
		return err
	}

	res, err := container.GetListing().Delete(c.Context, c.String("seller"), *l)
	if err != nil {
		return err
	}
	if res.NoOp {
		zap.L().With(zap.Uint64("listingId", l.ListingId)).Info("CLI: Listing already removed")
		return nil
	}
	return output(c, failure.DeleteAction, res.Group)
}

func delistAll(c *cli.Context) error {
	seller := c.String("seller")
	listings, err := container.GetIndexer().Listings(c.Context, indexer.ListingFilter{
		MarketplaceId: config.Get().Marketplace.AppId,
		Seller:        seller,
		ActiveOnly:    true,
	})
	if err != nil {
		return err
	}

	progress := func(p listing.Progress) {
		zap.L().With(zap.Int("completed", p.Completed), zap.Int("total", p.Total), zap.String("txId", p.TxId)).Info("CLI: Bulk delete progress")
	}

	res, err := container.GetListing().BulkDelete(c.Context, seller, listings, container.GetSubmitter(), progress)
	if res != nil {
		if printErr := dev.Print(os.Stdout, res); printErr != nil {
			return printErr
		}
	}
	var partial *failure.PartialBatchFailure
	if errors.As(err, &partial) {
		zap.L().With(zap.Int("completed", partial.Completed), zap.Int("total", partial.Total)).Warn("CLI: Bulk delete stopped early")
	}
	return err
}

func transfer(c *cli.Context) error {
	owner := c.String("owner")
	token, err := container.GetIndexer().Token(c.Context, c.Uint64("collection"), c.Uint64("token"))
	if err != nil {
		return err
	}
	l, err := activeListing(c.Context, owner, token.CollectionId, token.TokenId)
	if err != nil {
		return err
	}

	g, err := container.GetListing().Transfer(c.Context, owner, *token, c.String("to"), l)
	if err != nil {
		return err
	}
	return output(c, failure.TransferAction, g)
}

func burn(c *cli.Context) error {
	owner := c.String("owner")
	token, err := container.GetIndexer().Token(c.Context, c.Uint64("collection"), c.Uint64("token"))
	if err != nil {
		return err
	}
	l, err := activeListing(c.Context, owner, token.CollectionId, token.TokenId)
	if err != nil {
		return err
	}

	g, err := container.GetListing().Burn(c.Context, owner, *token, l)
	if err != nil {
		return err
	}
	return output(c, failure.BurnAction, g)
}

func recipients(c *cli.Context) error {
	token, err := container.GetIndexer().Token(c.Context, c.Uint64("collection"), c.Uint64("token"))
	if err != nil {
		return err
	}

	groups, err := container.GetListing().PrepareTokenRecipients(c.Context, c.String("seller"), *token, c.Uint64("currency"))
	if err != nil {
		return err
	}
	if len(groups) == 0 {
		zap.L().Info("CLI: All recipients already hold a balance")
		return nil
	}
	return output(c, failure.RecipientAction, groups...)
}
