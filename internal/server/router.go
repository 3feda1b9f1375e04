package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"github.com/NautilusNFTs/nautilus-interface/internal/entity"
	"github.com/NautilusNFTs/nautilus-interface/internal/failure"
	"github.com/NautilusNFTs/nautilus-interface/internal/indexer"
	"github.com/NautilusNFTs/nautilus-interface/internal/staking"
	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
	"net/http"
	"strconv"
	"time"
)

type ListingDiscount struct {
	ListingId     uint64 `json:"listingId"`
	TokenId       uint64 `json:"tokenId"`
	Price         uint64 `json:"price"`
	Value         uint64 `json:"value"`
	Discount      string `json:"discount"`
	Indeterminate bool   `json:"indeterminate,omitempty"`
}

type handler struct {
	indexer       indexer.Service
	valuator      staking.Valuator
	marketplaceId uint64
	now           func() time.Time
}

func NewRouter(idx indexer.Service, valuator staking.Valuator, marketplaceId uint64) *mux.Router {
	return newRouter(handler{idx, valuator, marketplaceId, time.Now})
}

func newRouter(h handler) *mux.Router {
	r := mux.NewRouter()
	r.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = fmt.Fprintf(w, "OK")
	}).Methods("GET")
	r.Handle("/metrics", promhttp.Handler()).Methods("GET")
	r.HandleFunc("/listings/{collectionId:[0-9]+}/discounts", h.discounts).Methods("GET")
	r.HandleFunc("/positions/{contractId:[0-9]+}/valuation", h.valuation).Methods("GET")

	return r
}

func (h handler) discounts(w http.ResponseWriter, r *http.Request) {
	collectionId, _ := strconv.ParseUint(mux.Vars(r)["collectionId"], 10, 64)

	listings, err := h.indexer.Listings(r.Context(), indexer.ListingFilter{
		MarketplaceId: h.marketplaceId,
		CollectionId:  collectionId,
		ActiveOnly:    true,
	})
	if err != nil {
		writeError(w, http.StatusBadGateway, err)
		return
	}

	now := h.now()
	discounts := make([]ListingDiscount, 0, len(listings))
	for _, l := range listings {
		discounts = append(discounts, h.discount(l, now))
	}

	writeJson(w, http.StatusOK, discounts)
}

func (h handler) discount(l entity.Listing, now time.Time) ListingDiscount {
	out := ListingDiscount{ListingId: l.ListingId, TokenId: l.TokenId, Price: l.Price}

	d, err := h.valuator.ListingDiscount(l, now)
	if err != nil {
		if !failure.IsIndeterminate(err) {
			zap.L().With(zap.Uint64("listingId", l.ListingId), zap.Error(err)).Warn("Server: Discount failed")
		}
		out.Indeterminate = true
		return out
	}

	out.Value = h.valuator.TotalTokens(*l.Staking, now)
	out.Discount = d.StringFixed(staking.DiscountPlaces)
	return out
}

func (h handler) valuation(w http.ResponseWriter, r *http.Request) {
	contractId, _ := strconv.ParseUint(mux.Vars(r)["contractId"], 10, 64)

	p, err := h.indexer.StakePosition(r.Context(), contractId)
	if errors.Is(err, indexer.ErrPositionNotFound) {
		writeError(w, http.StatusNotFound, err)
		return
	}
	if err != nil {
		writeError(w, http.StatusBadGateway, err)
		return
	}
	if err := p.Validate(); err != nil {
		writeError(w, http.StatusUnprocessableEntity, err)
		return
	}

	writeJson(w, http.StatusOK, h.valuator.Describe(*p, h.now()))
}

func writeJson(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		zap.L().With(zap.Error(err)).Error("Server: Failed to write response")
	}
}

func writeError(w http.ResponseWriter, status int, err error) {
	writeJson(w, status, map[string]string{"error": err.Error()})
}
