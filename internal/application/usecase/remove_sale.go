package usecase

import (
	"context"

	"acctex.io/internal/domain/entity"
	"acctex.io/internal/domain/port"
	"acctex.io/internal/infrastructure/logger"
)

// RemoveSaleUseCase handles privileged removal of a listing
type RemoveSaleUseCase struct {
	tx           port.Transactor
	adminAccount string
	logger       logger.Logger
}

// NewRemoveSaleUseCase creates a new RemoveSaleUseCase
func NewRemoveSaleUseCase(tx port.Transactor, adminAccount string, logger logger.Logger) *RemoveSaleUseCase {
	return &RemoveSaleUseCase{
		tx:           tx,
		adminAccount: adminAccount,
		logger:       logger,
	}
}

// Execute force-removes a listing regardless of its state. No funds move and
// no authority changes. This is the only way to clear a listing whose owner
// delegation was revoked after it was posted.
func (uc *RemoveSaleUseCase) Execute(ctx context.Context, caller, account string) error {
	if uc.adminAccount == "" || caller != uc.adminAccount {
		return entity.ErrUnauthorized
	}

	err := uc.tx.Execute(ctx, func(b port.Batch) error {
		return b.Listings().Delete(account)
	})
	if err != nil {
		return err
	}

	uc.logger.LogInfo(ctx, "Listing force-removed",
		"account", account,
		"admin", caller)

	return nil
}
