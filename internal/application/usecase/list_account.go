package usecase

import (
	"context"

	"acctex.io/internal/domain/entity"
	"acctex.io/internal/domain/port"
)

// ListAccountUseCase handles putting an account up for sale
type ListAccountUseCase struct {
	tx port.Transactor
}

// NewListAccountUseCase creates a new ListAccountUseCase
func NewListAccountUseCase(tx port.Transactor) *ListAccountUseCase {
	return &ListAccountUseCase{tx: tx}
}

// ListAccountRequest contains the request data for listing an account
type ListAccountRequest struct {
	Caller        string
	Account       string
	PriceQuantity string
	PriceIssuer   string
	Recipient     string
}

// Execute lists an account for sale. The caller must be the account being
// listed. Holding the account's owner permission is asserted within the same
// batch that stores the listing; if that delegation is revoked afterwards the
// listing goes stale and only the admin removal path can clear it.
func (uc *ListAccountUseCase) Execute(ctx context.Context, req ListAccountRequest) error {
	if req.Caller != req.Account {
		return entity.ErrUnauthorized
	}

	price, err := entity.ParseExtendedQuantity(req.PriceQuantity, req.PriceIssuer)
	if err != nil {
		return err
	}

	listing := entity.Listing{
		Account:   req.Account,
		Price:     price,
		Recipient: req.Recipient,
	}
	if err := listing.Validate(); err != nil {
		return err
	}

	return uc.tx.Execute(ctx, func(b port.Batch) error {
		b.Emit(entity.AssertAuthorityEffect{
			Account:    req.Account,
			Permission: entity.PermissionOwner,
		})

		return b.Listings().Put(listing)
	})
}
