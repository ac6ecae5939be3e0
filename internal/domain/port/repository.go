package port

import (
	"context"

	"acctex.io/internal/domain/entity"
)

// LedgerStore is the port for balance mutations within a batch. Balances are
// strictly non-negative; an owner with no remaining balances has no ledger
// entry at all.
type LedgerStore interface {
	// Credit adds quantity to the owner's partition for that asset type,
	// creating the partition (and the owner entry) if absent. The addition
	// must strictly increase the stored amount or the credit fails with
	// entity.ErrBalanceOverflow.
	Credit(owner string, quantity entity.ExtendedAsset) error

	// Debit subtracts quantity from the owner's partition. It fails with
	// entity.ErrBalanceNotFound if the owner or the partition is absent and
	// with entity.ErrInsufficientFunds if the stored amount is too small. A
	// debit to exactly zero removes the partition, and the owner entry with
	// it when it was the last one.
	Debit(owner string, quantity entity.ExtendedAsset) error
}

// ListingStore is the port for sale postings, keyed by account.
type ListingStore interface {
	Get(account string) (entity.Listing, bool)

	// Put stores a new listing, failing with entity.ErrAlreadyListed if one
	// already exists for the account.
	Put(listing entity.Listing) error

	// Delete removes a listing, failing with entity.ErrNotListed if absent.
	Delete(account string) error
}

// Batch is the view of state handed to an operation. Every mutation and every
// emitted effect commits atomically with the batch, or not at all.
type Batch interface {
	Ledger() LedgerStore
	Listings() ListingStore

	// Emit stages an outbound effect for dispatch at commit time.
	Emit(effect entity.Effect)
}

// Transactor runs an operation against staged state. If fn returns an error,
// or any authority assertion emitted during fn fails, nothing is applied.
type Transactor interface {
	Execute(ctx context.Context, fn func(Batch) error) error
}

// LedgerReader is the read-only port for balance queries.
type LedgerReader interface {
	UserBalances(ctx context.Context, owner string) ([]entity.ExtendedAsset, error)
}

// EffectSink receives the effects of a committed batch.
type EffectSink interface {
	Dispatch(ctx context.Context, effects []entity.Effect)
}
