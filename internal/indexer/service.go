package indexer

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"github.com/NautilusNFTs/nautilus-interface/internal/entity"
	"github.com/NautilusNFTs/nautilus-interface/internal/event"
	"github.com/hashicorp/go-retryablehttp"
	"github.com/patrickmn/go-cache"
	"go.uber.org/zap"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"
)

var (
	ErrListingNotFound    = errors.New("Listing not found")
	ErrTokenNotFound      = errors.New("Token not found")
	ErrCollectionNotFound = errors.New("Collection not found")
	ErrPositionNotFound   = errors.New("Stake position not found")
)

const (
	listingsPath    = "/nft-indexer/v1/mp/listings"
	tokensPath      = "/nft-indexer/v1/tokens"
	collectionsPath = "/nft-indexer/v1/collections"
	accountsPath    = "/v1/scs/accounts"

	sellerListingsTtl = 15 * time.Second
)

type ListingFilter struct {
	MarketplaceId uint64
	CollectionId  uint64
	TokenId       uint64
	Seller        string
	ActiveOnly    bool
}

func (f ListingFilter) query() url.Values {
	q := url.Values{}
	if f.MarketplaceId != 0 {
		q.Set("mpContractId", strconv.FormatUint(f.MarketplaceId, 10))
	}
	if f.CollectionId != 0 {
		q.Set("collectionId", strconv.FormatUint(f.CollectionId, 10))
	}
	if f.TokenId != 0 {
		q.Set("tokenId", strconv.FormatUint(f.TokenId, 10))
	}
	if f.Seller != "" {
		q.Set("seller", f.Seller)
	}
	if f.ActiveOnly {
		q.Set("active", "true")
	}
	return q
}

func (f ListingFilter) key() string {
	return "listings:" + f.query().Encode()
}

type Service interface {
	Listings(ctx context.Context, filter ListingFilter) ([]entity.Listing, error)
	Listing(ctx context.Context, marketplaceId, listingId uint64) (*entity.Listing, error)
	Tokens(ctx context.Context, owner string) ([]entity.Token, error)
	Token(ctx context.Context, collectionId, tokenId uint64) (*entity.Token, error)
	Collection(ctx context.Context, collectionId uint64) (*entity.Collection, error)
	StakePositions(ctx context.Context, owner string) ([]entity.StakePosition, error)
	StakePosition(ctx context.Context, contractId uint64) (*entity.StakePosition, error)
	OnGroupSubmitted(msg interface{})
}

type service struct {
	url     string
	client  *retryablehttp.Client
	timeout time.Duration
	cache   *cache.Cache
}

func NewIndexerService(baseUrl string, timeout int, cacheTtl int) (Service, error) {
	if baseUrl == "" {
		return nil, errors.New("indexer url not configured")
	}

	client := retryablehttp.NewClient()
	client.Logger = nil
	client.RetryMax = 3

	ttl := time.Duration(cacheTtl) * time.Second
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}

	return &service{
		url:     strings.TrimRight(baseUrl, "/"),
		client:  client,
		timeout: time.Duration(timeout) * time.Second,
		cache:   cache.New(ttl, 2*ttl),
	}, nil
}

// Listings results filtered by seller are cached briefly so a bulk operation
// reads a consistent snapshot.
func (s *service) Listings(ctx context.Context, filter ListingFilter) ([]entity.Listing, error) {
	if filter.Seller != "" {
		if cached, found := s.cache.Get(filter.key()); found {
			return cached.([]entity.Listing), nil
		}
	}

	var resp listingsResponse
	if err := s.get(ctx, listingsPath, filter.query(), &resp); err != nil {
		return nil, err
	}

	listings := make([]entity.Listing, 0, len(resp.Listings))
	for _, dto := range resp.Listings {
		l := createListing(dto)
		if filter.ActiveOnly && !l.Active() {
			continue
		}
		listings = append(listings, l)
	}

	if filter.Seller != "" {
		s.cache.Set(filter.key(), listings, sellerListingsTtl)
	}

	zap.L().With(zap.Int("count", len(listings)), zap.String("seller", filter.Seller)).Debug("Indexer: Listings fetched")

	return listings, nil
}

func (s *service) Listing(ctx context.Context, marketplaceId, listingId uint64) (*entity.Listing, error) {
	q := url.Values{}
	q.Set("mpContractId", strconv.FormatUint(marketplaceId, 10))
	q.Set("mpListingId", strconv.FormatUint(listingId, 10))

	var resp listingsResponse
	if err := s.get(ctx, listingsPath, q, &resp); err != nil {
		return nil, err
	}
	if len(resp.Listings) == 0 {
		return nil, ErrListingNotFound
	}

	l := createListing(resp.Listings[0])
	return &l, nil
}

func (s *service) Tokens(ctx context.Context, owner string) ([]entity.Token, error) {
	q := url.Values{}
	q.Set("owner", owner)

	var resp tokensResponse
	if err := s.get(ctx, tokensPath, q, &resp); err != nil {
		return nil, err
	}

	tokens := make([]entity.Token, 0, len(resp.Tokens))
	for _, dto := range resp.Tokens {
		tokens = append(tokens, createToken(dto))
	}
	return tokens, nil
}

func (s *service) Token(ctx context.Context, collectionId, tokenId uint64) (*entity.Token, error) {
	q := url.Values{}
	q.Set("contractId", strconv.FormatUint(collectionId, 10))
	q.Set("tokenId", strconv.FormatUint(tokenId, 10))

	var resp tokensResponse
	if err := s.get(ctx, tokensPath, q, &resp); err != nil {
		return nil, err
	}
	if len(resp.Tokens) == 0 {
		return nil, ErrTokenNotFound
	}

	t := createToken(resp.Tokens[0])
	return &t, nil
}

func (s *service) Collection(ctx context.Context, collectionId uint64) (*entity.Collection, error) {
	key := fmt.Sprintf("collection:%d", collectionId)
	if cached, found := s.cache.Get(key); found {
		c := cached.(entity.Collection)
		return &c, nil
	}

	q := url.Values{}
	q.Set("contractId", strconv.FormatUint(collectionId, 10))

	var resp collectionsResponse
	if err := s.get(ctx, collectionsPath, q, &resp); err != nil {
		return nil, err
	}
	if len(resp.Collections) == 0 {
		return nil, ErrCollectionNotFound
	}

	c := createCollection(resp.Collections[0])
	s.cache.Set(key, c, cache.DefaultExpiration)

	return &c, nil
}

func (s *service) StakePositions(ctx context.Context, owner string) ([]entity.StakePosition, error) {
	q := url.Values{}
	q.Set("owner", owner)

	var resp accountsResponse
	if err := s.get(ctx, accountsPath, q, &resp); err != nil {
		return nil, err
	}

	positions := make([]entity.StakePosition, 0, len(resp.Accounts))
	for _, dto := range resp.Accounts {
		if dto.Deleted != 0 {
			continue
		}
		positions = append(positions, createPosition(dto))
	}
	return positions, nil
}

func (s *service) StakePosition(ctx context.Context, contractId uint64) (*entity.StakePosition, error) {
	q := url.Values{}
	q.Set("contractId", strconv.FormatUint(contractId, 10))

	var resp accountsResponse
	if err := s.get(ctx, accountsPath, q, &resp); err != nil {
		return nil, err
	}
	if len(resp.Accounts) == 0 || resp.Accounts[0].Deleted != 0 {
		return nil, ErrPositionNotFound
	}

	p := createPosition(resp.Accounts[0])
	return &p, nil
}

// OnGroupSubmitted drops cached seller listings once the sender changes chain state.
func (s *service) OnGroupSubmitted(msg interface{}) {
	submitted, ok := msg.(event.GroupSubmitted)
	if !ok {
		return
	}

	for key := range s.cache.Items() {
		if strings.HasPrefix(key, "listings:") && strings.Contains(key, "seller="+url.QueryEscape(submitted.Sender)) {
			s.cache.Delete(key)
		}
	}
	zap.L().With(zap.String("sender", submitted.Sender), zap.String("action", submitted.Action)).Debug("Indexer: Listing cache invalidated")
}

func (s *service) get(ctx context.Context, path string, q url.Values, out interface{}) error {
	if s.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}

	target := s.url + path
	if len(q) > 0 {
		target += "?" + q.Encode()
	}

	req, err := retryablehttp.NewRequest(http.MethodGet, target, nil)
	if err != nil {
		return err
	}
	req = req.WithContext(ctx)
	req.Header.Set("Accept", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		zap.L().With(zap.String("path", path), zap.Error(err)).Warn("Indexer: Request failed")
		return err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return err
	}
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("indexer %s returned %d", path, resp.StatusCode)
	}

	return json.Unmarshal(body, out)
}
