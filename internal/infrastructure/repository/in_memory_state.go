package repository

import (
	"context"
	"sort"
	"sync"

	"acctex.io/internal/domain/entity"
	"acctex.io/internal/domain/port"
	"acctex.io/internal/infrastructure/logger"
)

// InMemoryState holds the two persisted stores (owner balances and sale
// listings) and implements port.Transactor over them. Each Execute runs
// against a deep copy of both maps; the copy replaces the live state only if
// the operation and every authority assertion it emitted succeed, so a failed
// operation leaves no partial state behind.
type InMemoryState struct {
	mu       sync.Mutex
	balances map[string]map[entity.ExtendedSymbol]int64
	listings map[string]entity.Listing
	verifier port.AuthorityVerifier
	sink     port.EffectSink
	logger   logger.Logger
}

// NewInMemoryState creates an empty state store.
func NewInMemoryState(verifier port.AuthorityVerifier, sink port.EffectSink, logger logger.Logger) *InMemoryState {
	return &InMemoryState{
		balances: make(map[string]map[entity.ExtendedSymbol]int64),
		listings: make(map[string]entity.Listing),
		verifier: verifier,
		sink:     sink,
		logger:   logger,
	}
}

// Execute runs fn against staged copies of the stores. On success the copies
// become the live state and all staged effects are dispatched.
func (s *InMemoryState) Execute(ctx context.Context, fn func(port.Batch) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	staged := &batch{
		balances: copyBalances(s.balances),
		listings: copyListings(s.listings),
	}

	if err := fn(staged); err != nil {
		return err
	}

	// Deferred authority assertions must hold within the same batch.
	for _, effect := range staged.effects {
		assert, ok := effect.(entity.AssertAuthorityEffect)
		if !ok {
			continue
		}
		if err := s.verifier.Assert(ctx, assert.Account, assert.Permission); err != nil {
			s.logger.LogWarning(ctx, "Authority assertion failed, batch discarded",
				"account", assert.Account,
				"permission", assert.Permission)
			return err
		}
	}

	s.balances = staged.balances
	s.listings = staged.listings

	outbound := make([]entity.Effect, 0, len(staged.effects))
	for _, effect := range staged.effects {
		if _, ok := effect.(entity.AssertAuthorityEffect); ok {
			continue
		}
		outbound = append(outbound, effect)
	}
	if len(outbound) > 0 {
		s.sink.Dispatch(ctx, outbound)
	}

	return nil
}

// UserBalances returns the owner's balances, sorted by asset type for stable
// output. A missing owner yields an empty slice.
func (s *InMemoryState) UserBalances(_ context.Context, owner string) ([]entity.ExtendedAsset, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	partitions := s.balances[owner]
	assets := make([]entity.ExtendedAsset, 0, len(partitions))
	for sym, amount := range partitions {
		assets = append(assets, entity.ExtendedAsset{
			Asset:  entity.Asset{Amount: amount, Symbol: sym.Symbol, Precision: sym.Precision},
			Issuer: sym.Issuer,
		})
	}
	sort.Slice(assets, func(i, j int) bool {
		if assets[i].Symbol != assets[j].Symbol {
			return assets[i].Symbol < assets[j].Symbol
		}
		return assets[i].Issuer < assets[j].Issuer
	})

	return assets, nil
}

// ActiveListing reports the current listing for an account, if any.
func (s *InMemoryState) ActiveListing(account string) (entity.Listing, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	listing, ok := s.listings[account]
	return listing, ok
}

func copyBalances(src map[string]map[entity.ExtendedSymbol]int64) map[string]map[entity.ExtendedSymbol]int64 {
	dst := make(map[string]map[entity.ExtendedSymbol]int64, len(src))
	for owner, partitions := range src {
		owned := make(map[entity.ExtendedSymbol]int64, len(partitions))
		for sym, amount := range partitions {
			owned[sym] = amount
		}
		dst[owner] = owned
	}
	return dst
}

func copyListings(src map[string]entity.Listing) map[string]entity.Listing {
	dst := make(map[string]entity.Listing, len(src))
	for account, listing := range src {
		dst[account] = listing
	}
	return dst
}

// batch implements port.Batch over the staged copies.
type batch struct {
	balances map[string]map[entity.ExtendedSymbol]int64
	listings map[string]entity.Listing
	effects  []entity.Effect
}

func (b *batch) Ledger() port.LedgerStore    { return (*ledgerView)(b) }
func (b *batch) Listings() port.ListingStore { return (*listingView)(b) }
func (b *batch) Emit(effect entity.Effect)   { b.effects = append(b.effects, effect) }

// ledgerView applies balance mutations to the staged copy.
type ledgerView batch

func (v *ledgerView) Credit(owner string, quantity entity.ExtendedAsset) error {
	if quantity.Amount <= 0 {
		return entity.ErrNonPositiveAmount
	}

	sym := quantity.ExtendedSymbol()

	partitions := v.balances[owner]
	if partitions == nil {
		v.balances[owner] = map[entity.ExtendedSymbol]int64{sym: quantity.Amount}
		return nil
	}

	prior, ok := partitions[sym]
	if !ok {
		partitions[sym] = quantity.Amount
		return nil
	}

	// Addition must strictly increase the stored amount; a wrapped sum is an
	// integrity violation, not something to clamp.
	sum := prior + quantity.Amount
	if sum <= prior {
		return entity.ErrBalanceOverflow
	}
	partitions[sym] = sum

	return nil
}

func (v *ledgerView) Debit(owner string, quantity entity.ExtendedAsset) error {
	if quantity.Amount <= 0 {
		return entity.ErrNonPositiveAmount
	}

	sym := quantity.ExtendedSymbol()

	partitions := v.balances[owner]
	if partitions == nil {
		return entity.ErrBalanceNotFound
	}

	prior, ok := partitions[sym]
	if !ok {
		return entity.ErrBalanceNotFound
	}
	if quantity.Amount > prior {
		return entity.ErrInsufficientFunds
	}

	if quantity.Amount == prior {
		delete(partitions, sym)
		if len(partitions) == 0 {
			delete(v.balances, owner)
		}
		return nil
	}

	partitions[sym] = prior - quantity.Amount

	return nil
}

// listingView applies listing mutations to the staged copy.
type listingView batch

func (v *listingView) Get(account string) (entity.Listing, bool) {
	listing, ok := v.listings[account]
	return listing, ok
}

func (v *listingView) Put(listing entity.Listing) error {
	if _, exists := v.listings[listing.Account]; exists {
		return entity.ErrAlreadyListed
	}
	v.listings[listing.Account] = listing
	return nil
}

func (v *listingView) Delete(account string) error {
	if _, exists := v.listings[account]; !exists {
		return entity.ErrNotListed
	}
	delete(v.listings, account)
	return nil
}
