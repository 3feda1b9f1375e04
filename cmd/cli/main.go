package main

import (
	"github.com/NautilusNFTs/nautilus-interface/internal/config"
	"github.com/NautilusNFTs/nautilus-interface/internal/config/di"
	"github.com/NautilusNFTs/nautilus-interface/internal/dev"
	"github.com/NautilusNFTs/nautilus-interface/internal/event"
	"github.com/NautilusNFTs/nautilus-interface/internal/failure"
	"github.com/NautilusNFTs/nautilus-interface/internal/txn"
	"github.com/urfave/cli/v2"
	"go.uber.org/zap"
	"os"
)

var container *di.Container

func main() {
	config.Init("cli")

	var err error
	if container, err = di.NewContainer(); err != nil {
		zap.L().With(zap.Error(err)).Fatal("Failed to build container")
	}
	defer container.Delete()

	app := &cli.App{
		Name:  "nautilus",
		Usage: "build marketplace and staking transaction groups",
		Commands: []*cli.Command{
			{
				Name:   "buy",
				Usage:  "Buy a listing",
				Action: buy,
				Flags: []cli.Flag{
					&cli.Uint64Flag{Name: "listing", Required: true},
					&cli.StringFlag{Name: "buyer", Required: true},
					&cli.Uint64Flag{Name: "held", Usage: "asset the buyer pays with, 0 for the native asset"},
					&cli.Uint64Flag{Name: "pool", Usage: "swap pool id when the held asset differs from the listing currency"},
					&cli.Uint64Flag{Name: "pool-a"},
					&cli.Uint64Flag{Name: "pool-b"},
					submitFlag(),
				},
			},
			{
				Name:   "list",
				Usage:  "List a token for sale",
				Action: list,
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "seller", Required: true},
					&cli.Uint64Flag{Name: "collection", Required: true},
					&cli.Uint64Flag{Name: "token", Required: true},
					&cli.Uint64Flag{Name: "price", Required: true},
					&cli.Uint64Flag{Name: "currency"},
					submitFlag(),
				},
			},
			{
				Name:   "update",
				Usage:  "Replace a listing with a new price or currency",
				Action: update,
				Flags: []cli.Flag{
					&cli.Uint64Flag{Name: "listing", Required: true},
					&cli.Uint64Flag{Name: "price", Required: true},
					&cli.Uint64Flag{Name: "currency"},
					submitFlag(),
				},
			},
			{
				Name:   "delist",
				Usage:  "Delete a listing",
				Action: delist,
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "seller", Required: true},
					&cli.Uint64Flag{Name: "listing", Required: true},
					submitFlag(),
				},
			},
			{
				Name:   "delist-all",
				Usage:  "Delete every active listing of a seller",
				Action: delistAll,
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "seller", Required: true},
				},
			},
			{
				Name:   "transfer",
				Usage:  "Transfer a token, removing its listing",
				Action: transfer,
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "owner", Required: true},
					&cli.Uint64Flag{Name: "collection", Required: true},
					&cli.Uint64Flag{Name: "token", Required: true},
					&cli.StringFlag{Name: "to", Required: true},
					submitFlag(),
				},
			},
			{
				Name:   "burn",
				Usage:  "Burn a token, removing its listing",
				Action: burn,
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "owner", Required: true},
					&cli.Uint64Flag{Name: "collection", Required: true},
					&cli.Uint64Flag{Name: "token", Required: true},
					submitFlag(),
				},
			},
			{
				Name:   "recipients",
				Usage:  "Prepare balance entries for a token-priced listing",
				Action: recipients,
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "seller", Required: true},
					&cli.Uint64Flag{Name: "collection", Required: true},
					&cli.Uint64Flag{Name: "token", Required: true},
					&cli.Uint64Flag{Name: "currency", Required: true},
					submitFlag(),
				},
			},
			{
				Name:   "discount",
				Usage:  "Discount of a staking listing against its token value",
				Action: discount,
				Flags: []cli.Flag{
					&cli.Uint64Flag{Name: "listing", Required: true},
				},
			},
			{
				Name:   "unlock",
				Usage:  "Unlock schedule of a stake position",
				Action: unlock,
				Flags: []cli.Flag{
					&cli.Uint64Flag{Name: "contract", Required: true},
				},
			},
			{
				Name:   "withdraw",
				Usage:  "Withdraw from a stake position",
				Action: withdraw,
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "owner", Required: true},
					&cli.Uint64Flag{Name: "contract", Required: true},
					&cli.Uint64Flag{Name: "amount"},
					submitFlag(),
				},
			},
			{
				Name:   "withdraw-all",
				Usage:  "Withdraw everything withdrawable across an owner's positions",
				Action: withdrawAll,
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "owner", Required: true},
					submitFlag(),
				},
			},
			{
				Name:   "participate",
				Usage:  "Register participation keys for a stake position",
				Action: participate,
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "owner", Required: true},
					&cli.Uint64Flag{Name: "contract", Required: true},
					&cli.StringFlag{Name: "vote-key", Required: true, Usage: "base64"},
					&cli.StringFlag{Name: "selection-key", Required: true, Usage: "base64"},
					&cli.StringFlag{Name: "state-proof-key", Usage: "base64"},
					&cli.Uint64Flag{Name: "first", Required: true},
					&cli.Uint64Flag{Name: "last", Required: true},
					&cli.Uint64Flag{Name: "dilution", Required: true},
					submitFlag(),
				},
			},
			{
				Name:   "mint",
				Usage:  "Mint a tradeable token for a stake position",
				Action: mint,
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "owner", Required: true},
					&cli.Uint64Flag{Name: "contract", Required: true},
					&cli.StringFlag{Name: "delegate"},
					submitFlag(),
				},
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		zap.L().With(zap.Error(err)).Fatal("CLI: Command failed")
	}
}

// output prints the group, or signs and submits it when --submit is set.
func output(c *cli.Context, action failure.Action, groups ...*txn.Group) error {
	if !c.Bool("submit") {
		if len(groups) == 1 {
			return dev.Print(os.Stdout, groups[0])
		}
		return dev.Print(os.Stdout, groups)
	}

	for _, g := range groups {
		confirmation, err := container.GetSubmitter().SignAndSubmit(c.Context, g)
		if err != nil {
			return err
		}
		container.GetBus().EmitEvent(event.GroupSubmittedEvent, event.GroupSubmitted{Action: string(action), Sender: g.Sender, TxId: confirmation.TxId})
		if err := dev.Print(os.Stdout, confirmation); err != nil {
			return err
		}
	}
	return nil
}

func submitFlag() cli.Flag {
	return &cli.BoolFlag{Name: "submit", Usage: "sign and submit the group instead of printing it"}
}
