package usecase

import (
	"context"

	"acctex.io/internal/domain/entity"
	"acctex.io/internal/domain/port"
)

// DelistAccountUseCase handles withdrawing a sale posting
type DelistAccountUseCase struct {
	tx port.Transactor
}

// NewDelistAccountUseCase creates a new DelistAccountUseCase
func NewDelistAccountUseCase(tx port.Transactor) *DelistAccountUseCase {
	return &DelistAccountUseCase{tx: tx}
}

// Execute removes the caller's own sale posting.
func (uc *DelistAccountUseCase) Execute(ctx context.Context, caller, account string) error {
	if caller != account {
		return entity.ErrUnauthorized
	}

	return uc.tx.Execute(ctx, func(b port.Batch) error {
		return b.Listings().Delete(account)
	})
}
