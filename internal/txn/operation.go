package txn

import (
	"fmt"
	"github.com/algorand/go-algorand-sdk/v2/types"
)

type Kind string

const (
	ApproveKind           Kind = "approve"
	TransferKind          Kind = "transfer"
	ListNativeKind        Kind = "list-native"
	ListTokenKind         Kind = "list-token"
	DeleteListingKind     Kind = "delete-listing"
	SwapKind              Kind = "swap"
	WithdrawKind          Kind = "withdraw"
	MintKind              Kind = "mint"
	BurnKind              Kind = "burn"
	BuyKind               Kind = "buy"
	TokenTransferKind     Kind = "token-transfer"
	ParticipateKind       Kind = "participate"
	TransferOwnershipKind Kind = "transfer-ownership"
)

// Operation is one application call in a group. The set of implementations is
// closed: only the types in this file satisfy it.
type Operation interface {
	Kind() Kind
	AppId() uint64
	NestedCalls() bool
	Validate() error
	operation()
}

// Payer is implemented by operations that carry their own payment.
type Payer interface {
	Payment() uint64
}

// Approve lets Spender move an ARC-72 token, or Amount of an ARC-200 token
// when Amount is set.
type Approve struct {
	CollectionId uint64 `json:"collectionId"`
	TokenId      uint64 `json:"tokenId"`
	Spender      string `json:"spender"`
	Amount       uint64 `json:"amount,omitempty"`
}

type Transfer struct {
	CollectionId uint64 `json:"collectionId"`
	TokenId      uint64 `json:"tokenId"`
	From         string `json:"from"`
	To           string `json:"to"`
}

type ListNative struct {
	MarketplaceId uint64   `json:"marketplaceId"`
	CollectionId  uint64   `json:"collectionId"`
	TokenId       uint64   `json:"tokenId"`
	Price         uint64   `json:"price"`
	RoyaltyPoints uint64   `json:"royaltyPoints"`
	Creators      [3]Share `json:"creators"`
}

type ListToken struct {
	MarketplaceId uint64   `json:"marketplaceId"`
	CollectionId  uint64   `json:"collectionId"`
	TokenId       uint64   `json:"tokenId"`
	Price         uint64   `json:"price"`
	Currency      uint64   `json:"currency"`
	RoyaltyPoints uint64   `json:"royaltyPoints"`
	Creators      [3]Share `json:"creators"`
}

type Share struct {
	Points  uint64 `json:"points"`
	Address string `json:"address"`
}

type DeleteListing struct {
	MarketplaceId uint64 `json:"marketplaceId"`
	ListingId     uint64 `json:"listingId"`
}

// Swap trades AmountIn of InputAsset in a pool. With Deposit set the input is
// wrapped from the native coin in the same call, so the swap carries AmountIn
// as its payment.
type Swap struct {
	PoolId       uint64 `json:"poolId"`
	InputAsset   uint64 `json:"inputAsset"`
	OutputAsset  uint64 `json:"outputAsset"`
	AmountIn     uint64 `json:"amountIn"`
	MinAmountOut uint64 `json:"minAmountOut"`
	Deposit      bool   `json:"deposit,omitempty"`
}

// Withdraw unwraps Amount from a wrapped asset, or from a stake position when
// the app is a staking contract.
type Withdraw struct {
	ContractId uint64 `json:"contractId"`
	Amount     uint64 `json:"amount"`
}

type Mint struct {
	MinterId    uint64 `json:"minterId"`
	To          string `json:"to"`
	TokenId     uint64 `json:"tokenId"`
	Delegate    string `json:"delegate"`
	MintPayment uint64 `json:"payment"`
}

type Burn struct {
	CollectionId uint64 `json:"collectionId"`
	TokenId      uint64 `json:"tokenId"`
}

type Buy struct {
	MarketplaceId uint64 `json:"marketplaceId"`
	ListingId     uint64 `json:"listingId"`
	Currency      uint64 `json:"currency"`
	Price         uint64 `json:"price"`
	Ensure        bool   `json:"ensure"`
	EnsurePayment uint64 `json:"ensurePayment"`
}

type TokenTransfer struct {
	TokenId uint64 `json:"tokenId"`
	To      string `json:"to"`
	Amount  uint64 `json:"amount"`
}

type Participate struct {
	ContractId       uint64 `json:"contractId"`
	VoteKey          []byte `json:"voteKey"`
	SelectionKey     []byte `json:"selectionKey"`
	StateProofKey    []byte `json:"stateProofKey"`
	VoteFirst        uint64 `json:"voteFirst"`
	VoteLast         uint64 `json:"voteLast"`
	KeyDilution      uint64 `json:"keyDilution"`
	ParticipationFee uint64 `json:"payment"`
}

type TransferOwnership struct {
	ContractId uint64 `json:"contractId"`
	NewOwner   string `json:"newOwner"`
}

const (
	voteKeySize       = 32
	selectionKeySize  = 32
	stateProofKeySize = 64
)

func (Approve) Kind() Kind           { return ApproveKind }
func (Transfer) Kind() Kind          { return TransferKind }
func (ListNative) Kind() Kind        { return ListNativeKind }
func (ListToken) Kind() Kind         { return ListTokenKind }
func (DeleteListing) Kind() Kind     { return DeleteListingKind }
func (Swap) Kind() Kind              { return SwapKind }
func (Withdraw) Kind() Kind          { return WithdrawKind }
func (Mint) Kind() Kind              { return MintKind }
func (Burn) Kind() Kind              { return BurnKind }
func (Buy) Kind() Kind               { return BuyKind }
func (TokenTransfer) Kind() Kind     { return TokenTransferKind }
func (Participate) Kind() Kind       { return ParticipateKind }
func (TransferOwnership) Kind() Kind { return TransferOwnershipKind }

func (o Approve) AppId() uint64           { return o.CollectionId }
func (o Transfer) AppId() uint64          { return o.CollectionId }
func (o ListNative) AppId() uint64        { return o.MarketplaceId }
func (o ListToken) AppId() uint64         { return o.MarketplaceId }
func (o DeleteListing) AppId() uint64     { return o.MarketplaceId }
func (o Swap) AppId() uint64              { return o.PoolId }
func (o Withdraw) AppId() uint64          { return o.ContractId }
func (o Mint) AppId() uint64              { return o.MinterId }
func (o Burn) AppId() uint64              { return o.CollectionId }
func (o Buy) AppId() uint64               { return o.MarketplaceId }
func (o TokenTransfer) AppId() uint64     { return o.TokenId }
func (o Participate) AppId() uint64       { return o.ContractId }
func (o TransferOwnership) AppId() uint64 { return o.ContractId }

func (Approve) NestedCalls() bool           { return false }
func (Transfer) NestedCalls() bool          { return false }
func (ListNative) NestedCalls() bool        { return true }
func (ListToken) NestedCalls() bool         { return true }
func (DeleteListing) NestedCalls() bool     { return true }
func (Swap) NestedCalls() bool              { return true }
func (Withdraw) NestedCalls() bool          { return true }
func (Mint) NestedCalls() bool              { return true }
func (Burn) NestedCalls() bool              { return false }
func (Buy) NestedCalls() bool               { return true }
func (TokenTransfer) NestedCalls() bool     { return false }
func (Participate) NestedCalls() bool       { return true }
func (TransferOwnership) NestedCalls() bool { return false }

func (Approve) operation()           {}
func (Transfer) operation()          {}
func (ListNative) operation()        {}
func (ListToken) operation()         {}
func (DeleteListing) operation()     {}
func (Swap) operation()              {}
func (Withdraw) operation()          {}
func (Mint) operation()              {}
func (Burn) operation()              {}
func (Buy) operation()               {}
func (TokenTransfer) operation()     {}
func (Participate) operation()       {}
func (TransferOwnership) operation() {}

func (o Mint) Payment() uint64        { return o.MintPayment }
func (o Participate) Payment() uint64 { return o.ParticipationFee }

func (o Swap) Payment() uint64 {
	if o.Deposit {
		return o.AmountIn
	}
	return 0
}

func (o Buy) Payment() uint64 {
	if o.Ensure {
		return o.EnsurePayment
	}
	return 0
}

func (o Approve) Validate() error {
	if o.CollectionId == 0 {
		return fmt.Errorf("approve: missing collection")
	}
	return validAddress("spender", o.Spender)
}

func (o Transfer) Validate() error {
	if o.CollectionId == 0 {
		return fmt.Errorf("transfer: missing collection")
	}
	if err := validAddress("from", o.From); err != nil {
		return err
	}
	if o.From == o.To {
		return fmt.Errorf("transfer: recipient is the owner")
	}
	return validAddress("to", o.To)
}

func (o ListNative) Validate() error {
	return validListing(o.MarketplaceId, o.CollectionId, o.Price, o.RoyaltyPoints, o.Creators)
}

func (o ListToken) Validate() error {
	if o.Currency == 0 {
		return fmt.Errorf("list: token listing without currency")
	}
	return validListing(o.MarketplaceId, o.CollectionId, o.Price, o.RoyaltyPoints, o.Creators)
}

func (o DeleteListing) Validate() error {
	if o.MarketplaceId == 0 {
		return fmt.Errorf("delete: missing marketplace")
	}
	return nil
}

func (o Swap) Validate() error {
	if o.PoolId == 0 {
		return fmt.Errorf("swap: missing pool")
	}
	if o.InputAsset == o.OutputAsset {
		return fmt.Errorf("swap: input and output asset are both %d", o.InputAsset)
	}
	if o.AmountIn == 0 {
		return fmt.Errorf("swap: zero input amount")
	}
	return nil
}

func (o Withdraw) Validate() error {
	if o.ContractId == 0 {
		return fmt.Errorf("withdraw: missing contract")
	}
	if o.Amount == 0 {
		return fmt.Errorf("withdraw: zero amount")
	}
	return nil
}

func (o Mint) Validate() error {
	if o.MinterId == 0 {
		return fmt.Errorf("mint: missing minter")
	}
	if err := validAddress("to", o.To); err != nil {
		return err
	}
	if o.Delegate == "" {
		return nil
	}
	return validAddress("delegate", o.Delegate)
}

func (o Burn) Validate() error {
	if o.CollectionId == 0 {
		return fmt.Errorf("burn: missing collection")
	}
	return nil
}

func (o Buy) Validate() error {
	if o.MarketplaceId == 0 {
		return fmt.Errorf("buy: missing marketplace")
	}
	return nil
}

func (o TokenTransfer) Validate() error {
	if o.TokenId == 0 {
		return fmt.Errorf("token transfer: missing token")
	}
	return validAddress("to", o.To)
}

func (o Participate) Validate() error {
	switch {
	case o.ContractId == 0:
		return fmt.Errorf("participate: missing contract")
	case len(o.VoteKey) != voteKeySize:
		return fmt.Errorf("participate: vote key must be %d bytes, got %d", voteKeySize, len(o.VoteKey))
	case len(o.SelectionKey) != selectionKeySize:
		return fmt.Errorf("participate: selection key must be %d bytes, got %d", selectionKeySize, len(o.SelectionKey))
	case len(o.StateProofKey) != stateProofKeySize:
		return fmt.Errorf("participate: state proof key must be %d bytes, got %d", stateProofKeySize, len(o.StateProofKey))
	case o.VoteFirst >= o.VoteLast:
		return fmt.Errorf("participate: vote first %d not before vote last %d", o.VoteFirst, o.VoteLast)
	case o.KeyDilution == 0:
		return fmt.Errorf("participate: zero key dilution")
	}
	return nil
}

func (o TransferOwnership) Validate() error {
	if o.ContractId == 0 {
		return fmt.Errorf("transfer ownership: missing contract")
	}
	return validAddress("new owner", o.NewOwner)
}

func validListing(marketplaceId, collectionId, price, royaltyPoints uint64, creators [3]Share) error {
	if marketplaceId == 0 || collectionId == 0 {
		return fmt.Errorf("list: missing marketplace or collection")
	}
	if price == 0 {
		return fmt.Errorf("list: zero price")
	}
	var shares uint64
	for i, c := range creators {
		if err := validAddress(fmt.Sprintf("creator %d", i+1), c.Address); err != nil {
			return err
		}
		shares += c.Points
	}
	if shares > royaltyPoints {
		return fmt.Errorf("list: creator shares %d above royalty %d", shares, royaltyPoints)
	}
	return nil
}

func validAddress(field, address string) error {
	if _, err := types.DecodeAddress(address); err != nil {
		return fmt.Errorf("%s address %q: %v", field, address, err)
	}
	return nil
}

// ValidAddress reports whether address is a well formed account address.
func ValidAddress(address string) bool {
	return validAddress("", address) == nil
}
