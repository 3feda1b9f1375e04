package indexer

import (
	"encoding/json"
	"github.com/NautilusNFTs/nautilus-interface/internal/entity"
	"github.com/NautilusNFTs/nautilus-interface/internal/helper"
	"go.uber.org/zap"
)

func createListing(dto listingDto) entity.Listing {
	l := entity.Listing{
		MarketplaceId: uint64(dto.MpContractId),
		ListingId:     uint64(dto.MpListingId),
		CollectionId:  uint64(dto.CollectionId),
		TokenId:       uint64(dto.TokenId),
		Seller:        dto.Seller,
		Price:         uint64(dto.Price),
		Currency:      uint64(dto.Currency),
		CreatedAt:     dto.CreateTimestamp,
		Sold:          present(dto.Sale),
		Deleted:       present(dto.Delete),
	}
	if dto.Staking != nil {
		p := createPosition(*dto.Staking)
		l.Staking = &p
	}
	return l
}

func createToken(dto tokenDto) entity.Token {
	t := entity.Token{
		CollectionId: uint64(dto.ContractId),
		TokenId:      uint64(dto.TokenId),
		Owner:        dto.Owner,
		Approved:     dto.Approved,
		MetadataUri:  helper.NormalizeIpfs(dto.MetadataURI),
		Burned:       dto.IsBurned,
	}

	if dto.Metadata != "" {
		var md tokenMetadata
		if err := json.Unmarshal([]byte(dto.Metadata), &md); err != nil {
			zap.L().With(zap.Uint64("collectionId", t.CollectionId), zap.Uint64("tokenId", t.TokenId), zap.Error(err)).Debug("Indexer: Unreadable token metadata")
		} else {
			t.Name = md.Name
			t.Royalties = md.Royalties
		}
	}

	return t
}

func createCollection(dto collectionDto) entity.Collection {
	c := entity.Collection{
		CollectionId: uint64(dto.ContractId),
		Creator:      dto.Creator,
		MintRound:    uint64(dto.MintRound),
		TotalSupply:  uint64(dto.TotalSupply),
		Burned:       uint64(dto.BurnedSupply),
	}

	if dto.FirstToken != nil && dto.FirstToken.Metadata != "" {
		var md tokenMetadata
		if err := json.Unmarshal([]byte(dto.FirstToken.Metadata), &md); err == nil {
			c.Name = md.Name
		}
	}

	return c
}

func createPosition(dto positionDto) entity.StakePosition {
	return entity.StakePosition{
		ContractId:          uint64(dto.ContractId),
		ParentId:            uint64(dto.ParentId),
		Owner:               dto.Owner,
		Delegate:            dto.Delegate,
		Initial:             uint64(dto.Initial),
		Total:               uint64(dto.Total),
		Period:              uint64(dto.Period),
		DistributionCount:   uint64(dto.DistributionCount),
		Withdrawable:        uint64(dto.Withdrawable),
		ParticipationExpiry: uint64(dto.PartVoteLast),
	}
}

func present(raw *json.RawMessage) bool {
	return raw != nil && len(*raw) > 0 && string(*raw) != "null"
}
