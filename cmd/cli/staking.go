package main

import (
	"encoding/base64"
	"errors"
	"github.com/NautilusNFTs/nautilus-interface/internal/dev"
	"github.com/NautilusNFTs/nautilus-interface/internal/failure"
	"github.com/NautilusNFTs/nautilus-interface/internal/indexer"
	"github.com/NautilusNFTs/nautilus-interface/internal/position"
	"github.com/urfave/cli/v2"
	"go.uber.org/zap"
	"os"
	"time"
)

type discountOutput struct {
	ListingId uint64 `json:"listingId"`
	Price     uint64 `json:"price"`
	Value     uint64 `json:"value"`
	Discount  string `json:"discount"`
}

func discount(c *cli.Context) error {
	l, _, err := loadListing(c.Context, c.Uint64("listing"))
	if err != nil {
		return err
	}

	if l.Staking == nil {
		p, err := container.GetIndexer().StakePosition(c.Context, l.TokenId)
		if err != nil && !errors.Is(err, indexer.ErrPositionNotFound) {
			return err
		}
		l.Staking = p
	}

	now := time.Now()
	d, err := container.GetValuator().ListingDiscount(*l, now)
	if err != nil {
		return err
	}

	return dev.Print(os.Stdout, discountOutput{
		ListingId: l.ListingId,
		Price:     l.Price,
		Value:     container.GetValuator().TotalTokens(*l.Staking, now),
		Discount:  d.StringFixed(2),
	})
}

func unlock(c *cli.Context) error {
	p, err := container.GetIndexer().StakePosition(c.Context, c.Uint64("contract"))
	if err != nil {
		return err
	}
	return dev.Print(os.Stdout, container.GetValuator().Describe(*p, time.Now()))
}

func withdraw(c *cli.Context) error {
	p, err := container.GetIndexer().StakePosition(c.Context, c.Uint64("contract"))
	if err != nil {
		return err
	}

	amount := c.Uint64("amount")
	if amount == 0 {
		amount = p.Withdrawable
	}

	g, err := container.GetPosition().Withdraw(c.Context, c.String("owner"), *p, amount)
	if err != nil {
		return err
	}
	return output(c, failure.WithdrawAction, g)
}

func withdrawAll(c *cli.Context) error {
	owner := c.String("owner")
	positions, err := container.GetIndexer().StakePositions(c.Context, owner)
	if err != nil {
		return err
	}

	groups, err := container.GetPosition().WithdrawAll(c.Context, owner, positions)
	if err != nil {
		return err
	}
	if len(groups) == 0 {
		zap.L().With(zap.String("owner", owner)).Info("CLI: Nothing to withdraw")
		return nil
	}
	return output(c, failure.WithdrawAction, groups...)
}

func participate(c *cli.Context) error {
	p, err := container.GetIndexer().StakePosition(c.Context, c.Uint64("contract"))
	if err != nil {
		return err
	}

	keys := position.Keys{
		VoteFirst:   c.Uint64("first"),
		VoteLast:    c.Uint64("last"),
		KeyDilution: c.Uint64("dilution"),
	}
	if keys.VoteKey, err = base64.StdEncoding.DecodeString(c.String("vote-key")); err != nil {
		return err
	}
	if keys.SelectionKey, err = base64.StdEncoding.DecodeString(c.String("selection-key")); err != nil {
		return err
	}
	if keys.StateProofKey, err = base64.StdEncoding.DecodeString(c.String("state-proof-key")); err != nil {
		return err
	}

	g, err := container.GetPosition().Participate(c.Context, c.String("owner"), *p, keys)
	if err != nil {
		return err
	}
	return output(c, failure.ParticipateAction, g)
}

func mint(c *cli.Context) error {
	p, err := container.GetIndexer().StakePosition(c.Context, c.Uint64("contract"))
	if err != nil {
		return err
	}

	g, err := container.GetPosition().MintToken(c.Context, c.String("owner"), *p, c.String("delegate"))
	if err != nil {
		return err
	}
	return output(c, failure.MintAction, g)
}
