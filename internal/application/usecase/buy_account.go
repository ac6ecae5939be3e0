package usecase

import (
	"context"

	"acctex.io/internal/domain/entity"
	"acctex.io/internal/domain/port"
)

const soldMemo = "Your account has been successfully sold!"

// BuyAccountUseCase handles the purchase protocol
type BuyAccountUseCase struct {
	tx            port.Transactor
	systemAccount string
}

// NewBuyAccountUseCase creates a new BuyAccountUseCase
func NewBuyAccountUseCase(tx port.Transactor, systemAccount string) *BuyAccountUseCase {
	return &BuyAccountUseCase{
		tx:            tx,
		systemAccount: systemAccount,
	}
}

// BuyAccountRequest contains the request data for purchasing an account
type BuyAccountRequest struct {
	Caller        string
	Buyer         string
	Target        string
	PriceQuantity string
	PriceIssuer   string
	PubKey        string
}

// Execute purchases a listed account. The offered price must match the
// listed asset type exactly and be at least the listed amount, but only what
// was listed is ever debited; overpaying is a defence against a concurrent
// delist/re-list at a higher price, not a tip. Payout, owner re-key and
// active re-key are emitted into the same batch that debits the buyer and
// removes the listing, so a failure at any step leaves everything untouched.
func (uc *BuyAccountUseCase) Execute(ctx context.Context, req BuyAccountRequest) error {
	if req.Caller != req.Buyer {
		return entity.ErrUnauthorized
	}

	offered, err := entity.ParseExtendedQuantity(req.PriceQuantity, req.PriceIssuer)
	if err != nil {
		return err
	}

	return uc.tx.Execute(ctx, func(b port.Batch) error {
		listing, ok := b.Listings().Get(req.Target)
		if !ok {
			return entity.ErrNotListed
		}

		// Protection from price-change attack
		if !listing.Price.SameSymbol(offered) {
			return entity.ErrPriceMismatch
		}
		if offered.Amount < listing.Price.Amount {
			return entity.ErrPriceTooLow
		}

		if err := b.Ledger().Debit(req.Buyer, listing.Price); err != nil {
			return err
		}

		key, err := entity.DecodeControlKey(req.PubKey)
		if err != nil {
			return err
		}

		b.Emit(entity.PayoutEffect{
			From:     uc.systemAccount,
			To:       listing.Recipient,
			Quantity: listing.Price,
			Memo:     soldMemo,
		})
		b.Emit(entity.UpdateAuthEffect{
			Account:    req.Target,
			Permission: entity.PermissionOwner,
			Key:        key,
		})
		b.Emit(entity.UpdateAuthEffect{
			Account:    req.Target,
			Permission: entity.PermissionActive,
			Parent:     entity.PermissionOwner,
			Key:        key,
		})

		return b.Listings().Delete(req.Target)
	})
}
