package royalty

import (
	"encoding/base64"
	"encoding/binary"
	"github.com/NautilusNFTs/nautilus-interface/internal/entity"
	"github.com/algorand/go-algorand-sdk/v2/types"
	"github.com/pkg/errors"
	"go.uber.org/zap"
	"strings"
)

// Encoded layout: total points, three share points (uint16 big endian each),
// then three 32 byte beneficiary keys. An all zero key marks an unused slot.
const (
	pointsSize  = 2
	keySize     = 32
	keysOffset  = pointsSize * (1 + entity.RoyaltySlots)
	encodedSize = keysOffset + keySize*entity.RoyaltySlots
)

var encodings = []*base64.Encoding{
	base64.StdEncoding,
	base64.RawStdEncoding,
	base64.URLEncoding,
	base64.RawURLEncoding,
}

type Resolver interface {
	Decode(blob string) *entity.RoyaltyDistribution
	Resolve(blob string) entity.RoyaltyDistribution
	Empty() entity.RoyaltyDistribution
}

type resolver struct {
	cap         uint64
	nullAddress string
}

func NewResolver(cap uint64, nullAddress string) Resolver {
	if cap > entity.MaxRoyaltyPoints {
		cap = entity.MaxRoyaltyPoints
	}
	return resolver{cap, nullAddress}
}

// Decode returns nil when the blob is absent or malformed.
func (r resolver) Decode(blob string) *entity.RoyaltyDistribution {
	raw, ok := decodeBase64(strings.TrimSpace(blob))
	if !ok || len(raw) != encodedSize {
		if blob != "" {
			zap.L().With(zap.Int("size", len(raw))).Debug("Royalty: Malformed royalty data")
		}
		return nil
	}

	total := uint64(binary.BigEndian.Uint16(raw[0:pointsSize]))

	dist := r.Empty()
	var shares uint64
	for i := 0; i < entity.RoyaltySlots; i++ {
		offset := pointsSize * (i + 1)
		dist.Beneficiaries[i].Points = uint64(binary.BigEndian.Uint16(raw[offset : offset+pointsSize]))
		shares += dist.Beneficiaries[i].Points

		var key types.Address
		copy(key[:], raw[keysOffset+i*keySize:keysOffset+(i+1)*keySize])
		if !key.IsZero() {
			dist.Beneficiaries[i].Address = key.String()
		}
	}

	if shares > total {
		zap.L().With(zap.Uint64("total", total), zap.Uint64("shares", shares)).Debug("Royalty: Shares exceed total")
		return nil
	}

	dist.RoyaltyPoints = total
	if total > r.cap {
		dist.RoyaltyPoints = r.cap
	}

	if shares > dist.RoyaltyPoints {
		for i := range dist.Beneficiaries {
			dist.Beneficiaries[i].Points = dist.Beneficiaries[i].Points * dist.RoyaltyPoints / shares
		}
	}

	return &dist
}

func (r resolver) Resolve(blob string) entity.RoyaltyDistribution {
	if dist := r.Decode(blob); dist != nil {
		return *dist
	}
	return r.Empty()
}

func (r resolver) Empty() entity.RoyaltyDistribution {
	dist := entity.RoyaltyDistribution{}
	for i := range dist.Beneficiaries {
		dist.Beneficiaries[i].Address = r.nullAddress
	}
	return dist
}

// Encode writes dist in the layout Decode reads. The null address and empty
// addresses are written as unused slots.
func Encode(dist entity.RoyaltyDistribution, nullAddress string) (string, error) {
	if dist.RoyaltyPoints > entity.MaxRoyaltyPoints {
		return "", errors.Errorf("royalty points %d above %d", dist.RoyaltyPoints, entity.MaxRoyaltyPoints)
	}

	raw := make([]byte, encodedSize)
	binary.BigEndian.PutUint16(raw[0:pointsSize], uint16(dist.RoyaltyPoints))
	for i, b := range dist.Beneficiaries {
		if b.Points > entity.MaxRoyaltyPoints {
			return "", errors.Errorf("share %d points %d above %d", i, b.Points, entity.MaxRoyaltyPoints)
		}
		offset := pointsSize * (i + 1)
		binary.BigEndian.PutUint16(raw[offset:offset+pointsSize], uint16(b.Points))

		if b.Address == "" || b.Address == nullAddress {
			continue
		}
		key, err := types.DecodeAddress(b.Address)
		if err != nil {
			return "", errors.Wrapf(err, "share %d address", i)
		}
		copy(raw[keysOffset+i*keySize:], key[:])
	}

	return base64.StdEncoding.EncodeToString(raw), nil
}

func decodeBase64(blob string) ([]byte, bool) {
	if blob == "" {
		return nil, false
	}
	for _, enc := range encodings {
		if raw, err := enc.DecodeString(blob); err == nil {
			return raw, true
		}
	}
	return nil, false
}
