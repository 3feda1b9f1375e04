package indexer

import (
	"encoding/json"
	"strconv"
	"strings"
)

// number decodes integers sent either as JSON numbers or strings.
type number uint64

func (n *number) UnmarshalJSON(data []byte) error {
	s := strings.Trim(string(data), `"`)
	if s == "" || s == "null" {
		*n = 0
		return nil
	}
	if i := strings.IndexByte(s, '.'); i >= 0 {
		s = s[:i]
	}
	v, err := strconv.ParseUint(s, 10, 64)
	if err != nil {
		return err
	}
	*n = number(v)
	return nil
}

type listingsResponse struct {
	Listings     []listingDto `json:"listings"`
	CurrentRound uint64       `json:"current-round"`
	NextToken    string       `json:"next-token"`
}

type listingDto struct {
	TransactionId   string           `json:"transactionId"`
	MpContractId    number           `json:"mpContractId"`
	MpListingId     number           `json:"mpListingId"`
	CollectionId    number           `json:"collectionId"`
	TokenId         number           `json:"tokenId"`
	Seller          string           `json:"seller"`
	Price           number           `json:"price"`
	Currency        number           `json:"currency"`
	CreateTimestamp int64            `json:"createTimestamp"`
	Sale            *json.RawMessage `json:"sale"`
	Delete          *json.RawMessage `json:"delete"`
	Staking         *positionDto     `json:"staking"`
}

type tokensResponse struct {
	Tokens    []tokenDto `json:"tokens"`
	NextToken string     `json:"next-token"`
}

type tokenDto struct {
	ContractId  number `json:"contractId"`
	TokenId     number `json:"tokenId"`
	Owner       string `json:"owner"`
	Approved    string `json:"approved"`
	MetadataURI string `json:"metadataURI"`
	Metadata    string `json:"metadata"`
	IsBurned    bool   `json:"isBurned"`
}

type tokenMetadata struct {
	Name      string `json:"name"`
	Royalties string `json:"royalties"`
}

type collectionsResponse struct {
	Collections []collectionDto `json:"collections"`
}

type collectionDto struct {
	ContractId   number `json:"contractId"`
	Creator      string `json:"creator"`
	MintRound    number `json:"mintRound"`
	TotalSupply  number `json:"totalSupply"`
	BurnedSupply number `json:"burnedSupply"`
	FirstToken   *struct {
		Metadata string `json:"metadata"`
	} `json:"firstToken"`
}

type accountsResponse struct {
	Accounts []positionDto `json:"accounts"`
}

type positionDto struct {
	ContractId        number `json:"contractId"`
	ParentId          number `json:"global_parent_id"`
	Owner             string `json:"global_owner"`
	Delegate          string `json:"global_delegate"`
	Initial           number `json:"global_initial"`
	Total             number `json:"global_total"`
	Period            number `json:"global_period"`
	DistributionCount number `json:"global_distribution_count"`
	Withdrawable      number `json:"withdrawable"`
	PartVoteLast      number `json:"part_vote_lst"`
	Deleted           number `json:"deleted"`
}
