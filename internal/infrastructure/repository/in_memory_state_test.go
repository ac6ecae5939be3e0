package repository

import (
	"context"
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"acctex.io/internal/domain/entity"
	"acctex.io/internal/domain/port"
	"acctex.io/internal/infrastructure/logger"
)

type allowAllVerifier struct{}

func (allowAllVerifier) Assert(context.Context, string, string) error { return nil }

type denyAllVerifier struct{}

func (denyAllVerifier) Assert(context.Context, string, string) error {
	return entity.ErrUnauthorized
}

type recordingSink struct {
	effects []entity.Effect
}

func (s *recordingSink) Dispatch(_ context.Context, effects []entity.Effect) {
	s.effects = append(s.effects, effects...)
}

func coreAsset(amount int64) entity.ExtendedAsset {
	return entity.ExtendedAsset{
		Asset:  entity.Asset{Amount: amount, Symbol: "CORE", Precision: 4},
		Issuer: "eosio.token",
	}
}

func newTestState() (*InMemoryState, *recordingSink) {
	sink := &recordingSink{}
	return NewInMemoryState(allowAllVerifier{}, sink, logger.NewLogger()), sink
}

func TestInMemoryState_CreditDebit(t *testing.T) {
	ctx := context.Background()

	t.Run("credit creates partition and owner lazily", func(t *testing.T) {
		state, _ := newTestState()

		err := state.Execute(ctx, func(b port.Batch) error {
			return b.Ledger().Credit("alice", coreAsset(1000))
		})
		require.NoError(t, err)

		balances, err := state.UserBalances(ctx, "alice")
		require.NoError(t, err)
		require.Len(t, balances, 1)
		assert.Equal(t, int64(1000), balances[0].Amount)
	})

	t.Run("credits accumulate per asset type", func(t *testing.T) {
		state, _ := newTestState()
		sys := entity.ExtendedAsset{
			Asset:  entity.Asset{Amount: 7, Symbol: "SYS", Precision: 0},
			Issuer: "other.token",
		}

		err := state.Execute(ctx, func(b port.Batch) error {
			if err := b.Ledger().Credit("alice", coreAsset(1000)); err != nil {
				return err
			}
			if err := b.Ledger().Credit("alice", coreAsset(500)); err != nil {
				return err
			}
			return b.Ledger().Credit("alice", sys)
		})
		require.NoError(t, err)

		balances, err := state.UserBalances(ctx, "alice")
		require.NoError(t, err)
		require.Len(t, balances, 2)
		// sorted by symbol
		assert.Equal(t, "CORE", balances[0].Symbol)
		assert.Equal(t, int64(1500), balances[0].Amount)
		assert.Equal(t, "SYS", balances[1].Symbol)
		assert.Equal(t, int64(7), balances[1].Amount)
	})

	t.Run("credit overflow aborts", func(t *testing.T) {
		state, _ := newTestState()

		err := state.Execute(ctx, func(b port.Batch) error {
			return b.Ledger().Credit("alice", coreAsset(math.MaxInt64))
		})
		require.NoError(t, err)

		err = state.Execute(ctx, func(b port.Batch) error {
			return b.Ledger().Credit("alice", coreAsset(1))
		})
		assert.ErrorIs(t, err, entity.ErrBalanceOverflow)

		balances, _ := state.UserBalances(ctx, "alice")
		require.Len(t, balances, 1)
		assert.Equal(t, int64(math.MaxInt64), balances[0].Amount)
	})

	t.Run("non-positive credit rejected", func(t *testing.T) {
		state, _ := newTestState()

		err := state.Execute(ctx, func(b port.Batch) error {
			return b.Ledger().Credit("alice", coreAsset(0))
		})
		assert.ErrorIs(t, err, entity.ErrNonPositiveAmount)
	})

	t.Run("debit without entry fails", func(t *testing.T) {
		state, _ := newTestState()

		err := state.Execute(ctx, func(b port.Batch) error {
			return b.Ledger().Debit("alice", coreAsset(1))
		})
		assert.ErrorIs(t, err, entity.ErrBalanceNotFound)
	})

	t.Run("debit of unknown asset type fails", func(t *testing.T) {
		state, _ := newTestState()

		err := state.Execute(ctx, func(b port.Batch) error {
			return b.Ledger().Credit("alice", coreAsset(100))
		})
		require.NoError(t, err)

		other := entity.ExtendedAsset{
			Asset:  entity.Asset{Amount: 1, Symbol: "SYS", Precision: 0},
			Issuer: "other.token",
		}
		err = state.Execute(ctx, func(b port.Batch) error {
			return b.Ledger().Debit("alice", other)
		})
		assert.ErrorIs(t, err, entity.ErrBalanceNotFound)
	})

	t.Run("debit beyond balance fails", func(t *testing.T) {
		state, _ := newTestState()

		err := state.Execute(ctx, func(b port.Batch) error {
			return b.Ledger().Credit("alice", coreAsset(100))
		})
		require.NoError(t, err)

		err = state.Execute(ctx, func(b port.Batch) error {
			return b.Ledger().Debit("alice", coreAsset(101))
		})
		assert.ErrorIs(t, err, entity.ErrInsufficientFunds)
	})

	t.Run("exact debit removes partition and owner entry", func(t *testing.T) {
		state, _ := newTestState()

		err := state.Execute(ctx, func(b port.Batch) error {
			return b.Ledger().Credit("alice", coreAsset(100))
		})
		require.NoError(t, err)

		err = state.Execute(ctx, func(b port.Batch) error {
			return b.Ledger().Debit("alice", coreAsset(100))
		})
		require.NoError(t, err)

		balances, err := state.UserBalances(ctx, "alice")
		require.NoError(t, err)
		assert.Empty(t, balances)
		assert.NotContains(t, state.balances, "alice")
	})

	t.Run("partial debit subtracts in place", func(t *testing.T) {
		state, _ := newTestState()

		err := state.Execute(ctx, func(b port.Batch) error {
			return b.Ledger().Credit("alice", coreAsset(1500000))
		})
		require.NoError(t, err)

		err = state.Execute(ctx, func(b port.Batch) error {
			return b.Ledger().Debit("alice", coreAsset(1000000))
		})
		require.NoError(t, err)

		balances, _ := state.UserBalances(ctx, "alice")
		require.Len(t, balances, 1)
		assert.Equal(t, int64(500000), balances[0].Amount)
	})
}

func TestInMemoryState_Listings(t *testing.T) {
	ctx := context.Background()
	listing := entity.Listing{
		Account:   "alice",
		Price:     coreAsset(1000000),
		Recipient: "bob",
	}

	t.Run("put then get", func(t *testing.T) {
		state, _ := newTestState()

		err := state.Execute(ctx, func(b port.Batch) error {
			return b.Listings().Put(listing)
		})
		require.NoError(t, err)

		got, ok := state.ActiveListing("alice")
		require.True(t, ok)
		assert.Equal(t, listing, got)
	})

	t.Run("duplicate put fails", func(t *testing.T) {
		state, _ := newTestState()

		err := state.Execute(ctx, func(b port.Batch) error {
			return b.Listings().Put(listing)
		})
		require.NoError(t, err)

		err = state.Execute(ctx, func(b port.Batch) error {
			return b.Listings().Put(listing)
		})
		assert.ErrorIs(t, err, entity.ErrAlreadyListed)
	})

	t.Run("delete absent listing fails", func(t *testing.T) {
		state, _ := newTestState()

		err := state.Execute(ctx, func(b port.Batch) error {
			return b.Listings().Delete("alice")
		})
		assert.ErrorIs(t, err, entity.ErrNotListed)
	})
}

func TestInMemoryState_Atomicity(t *testing.T) {
	ctx := context.Background()

	t.Run("error mid-batch discards all mutations and effects", func(t *testing.T) {
		state, sink := newTestState()
		boom := errors.New("boom")

		err := state.Execute(ctx, func(b port.Batch) error {
			if err := b.Ledger().Credit("alice", coreAsset(100)); err != nil {
				return err
			}
			if err := b.Listings().Put(entity.Listing{Account: "alice", Price: coreAsset(1), Recipient: "bob"}); err != nil {
				return err
			}
			b.Emit(entity.PayoutEffect{From: "acctexchange", To: "bob", Quantity: coreAsset(100)})
			return boom
		})
		require.ErrorIs(t, err, boom)

		balances, _ := state.UserBalances(ctx, "alice")
		assert.Empty(t, balances)
		_, ok := state.ActiveListing("alice")
		assert.False(t, ok)
		assert.Empty(t, sink.effects)
	})

	t.Run("failed authority assertion discards the batch", func(t *testing.T) {
		sink := &recordingSink{}
		state := NewInMemoryState(denyAllVerifier{}, sink, logger.NewLogger())

		err := state.Execute(ctx, func(b port.Batch) error {
			b.Emit(entity.AssertAuthorityEffect{Account: "alice", Permission: entity.PermissionOwner})
			return b.Listings().Put(entity.Listing{Account: "alice", Price: coreAsset(1), Recipient: "bob"})
		})
		require.ErrorIs(t, err, entity.ErrUnauthorized)

		_, ok := state.ActiveListing("alice")
		assert.False(t, ok)
		assert.Empty(t, sink.effects)
	})

	t.Run("assert effects are consumed, not dispatched", func(t *testing.T) {
		state, sink := newTestState()

		err := state.Execute(ctx, func(b port.Batch) error {
			b.Emit(entity.AssertAuthorityEffect{Account: "alice", Permission: entity.PermissionOwner})
			b.Emit(entity.PayoutEffect{From: "acctexchange", To: "bob", Quantity: coreAsset(100)})
			return nil
		})
		require.NoError(t, err)

		require.Len(t, sink.effects, 1)
		_, isPayout := sink.effects[0].(entity.PayoutEffect)
		assert.True(t, isPayout)
	})
}
