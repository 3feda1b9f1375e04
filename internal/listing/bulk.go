package listing

import (
	"context"
	"github.com/NautilusNFTs/nautilus-interface/internal/entity"
	"github.com/NautilusNFTs/nautilus-interface/internal/event"
	"github.com/NautilusNFTs/nautilus-interface/internal/failure"
	"github.com/NautilusNFTs/nautilus-interface/internal/ledger"
	"github.com/NautilusNFTs/nautilus-interface/internal/metrics"
	"github.com/NautilusNFTs/nautilus-interface/internal/txn"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

type Progress struct {
	Completed  int
	Total      int
	ListingIds []uint64
	TxId       string
}

type BulkResult struct {
	Completed     int
	Total         int
	Confirmations []ledger.Confirmation
}

// BulkDelete removes the seller's active listings in groups of at most the
// configured size, submitting them one after another. A failed group stops
// the run; groups already submitted stay submitted and are reported in a
// PartialBatchFailure.
func (m manager) BulkDelete(ctx context.Context, seller string, listings []entity.Listing, submitter ledger.Submitter, progress func(Progress)) (*BulkResult, error) {
	fctx := failure.NewContext(failure.BulkDeleteAction).WithAddress(seller)
	if !txn.ValidAddress(seller) {
		return nil, failure.Validation(fctx, "seller", "malformed address")
	}

	ops := make([]txn.Operation, 0, len(listings))
	ids := make([]uint64, 0, len(listings))
	for _, l := range listings {
		if !l.Active() || l.Seller != seller {
			continue
		}
		ops = append(ops, txn.DeleteListing{MarketplaceId: m.marketplaceId(l), ListingId: l.ListingId})
		ids = append(ids, l.ListingId)
	}

	chunks := txn.Chunk(ops, m.config.GroupSize)
	result := &BulkResult{Total: len(chunks), Confirmations: make([]ledger.Confirmation, 0, len(chunks))}
	if len(chunks) == 0 {
		return result, nil
	}

	limit := rate.Inf
	if m.config.BulkRate > 0 {
		limit = rate.Limit(m.config.BulkRate)
	}
	limiter := rate.NewLimiter(limit, 1)

	zap.L().With(fctx.Fields()...).With(zap.Int("listings", len(ops)), zap.Int("groups", len(chunks))).Info("Listing: Bulk delete started")

	offset := 0
	for i, chunk := range chunks {
		chunkIds := ids[offset : offset+len(chunk)]
		offset += len(chunk)

		confirmation, err := m.submitChunk(ctx, fctx, seller, chunk, submitter, limiter)
		if err != nil {
			metrics.BulkChunk(string(fctx.Action), false)
			zap.L().With(fctx.Fields()...).With(zap.Int("chunk", i+1), zap.Int("total", len(chunks)), zap.Error(err)).Error("Listing: Bulk delete chunk failed")
			if result.Completed == 0 {
				return result, err
			}
			return result, failure.PartialBatch(fctx, result.Completed, result.Total, err)
		}

		metrics.BulkChunk(string(fctx.Action), true)
		result.Completed++
		result.Confirmations = append(result.Confirmations, *confirmation)

		m.bus.EmitEvent(event.GroupSubmittedEvent, event.GroupSubmitted{Action: string(fctx.Action), Sender: seller, TxId: confirmation.TxId})
		m.bus.EmitEvent(event.BulkProgressEvent, event.BulkProgress{Action: string(fctx.Action), Sender: seller, Completed: result.Completed, Total: result.Total})
		if progress != nil {
			progress(Progress{Completed: result.Completed, Total: result.Total, ListingIds: chunkIds, TxId: confirmation.TxId})
		}
	}

	return result, nil
}

func (m manager) submitChunk(ctx context.Context, fctx failure.Context, seller string, chunk []txn.Operation, submitter ledger.Submitter, limiter *rate.Limiter) (*ledger.Confirmation, error) {
	if err := limiter.Wait(ctx); err != nil {
		return nil, err
	}

	b := txn.NewBuilder(seller).
		Add(chunk...).
		Fee(m.config.BulkDeleteFee).
		ResourceSharing(txn.MergeSharing).
		MaxSize(m.config.GroupSize)

	g, err := m.composer.Compose(ctx, fctx, b)
	if err != nil {
		return nil, err
	}

	return submitter.SignAndSubmit(ctx, g)
}
