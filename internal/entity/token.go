package entity

import (
	"fmt"
	"github.com/gosimple/slug"
)

type Token struct {
	CollectionId uint64 `json:"collectionId"`
	TokenId      uint64 `json:"tokenId"`
	Owner        string `json:"owner"`
	Approved     string `json:"approved"`
	MetadataUri  string `json:"metadataUri"`
	Name         string `json:"name"`
	Royalties    string `json:"royalties"`
	Burned       bool   `json:"burned"`
}

func (t Token) Slug() string {
	return CreateListingSlug(t.CollectionId, t.TokenId)
}

type Collection struct {
	CollectionId uint64 `json:"collectionId"`
	Name         string `json:"name"`
	Creator      string `json:"creator"`
	MintRound    uint64 `json:"mintRound"`
	TotalSupply  uint64 `json:"totalSupply"`
	Burned       uint64 `json:"burned"`
}

func (c Collection) Slug() string {
	return slug.Make(fmt.Sprintf("collection-%d-%s", c.CollectionId, c.Name))
}
