package usecase

import (
	"context"
	"sync"

	"acctex.io/internal/domain/entity"
	"acctex.io/internal/infrastructure/logger"
)

// AdjustFeeUseCase accepts the admin fee setting. The stored figure is not
// yet applied anywhere: purchase payouts always transfer the full listed
// price. TODO: deduct the fee from the purchase payout once the fee schedule
// is settled.
type AdjustFeeUseCase struct {
	adminAccount string
	logger       logger.Logger

	mu  sync.Mutex
	fee uint64
}

// NewAdjustFeeUseCase creates a new AdjustFeeUseCase
func NewAdjustFeeUseCase(adminAccount string, logger logger.Logger) *AdjustFeeUseCase {
	return &AdjustFeeUseCase{
		adminAccount: adminAccount,
		logger:       logger,
	}
}

// Execute records the new fee figure.
func (uc *AdjustFeeUseCase) Execute(ctx context.Context, caller string, newFee uint64) error {
	if uc.adminAccount == "" || caller != uc.adminAccount {
		return entity.ErrUnauthorized
	}

	uc.mu.Lock()
	uc.fee = newFee
	uc.mu.Unlock()

	uc.logger.LogInfo(ctx, "Fee setting recorded",
		"fee", newFee,
		"admin", caller)

	return nil
}

// Fee returns the last recorded fee figure.
func (uc *AdjustFeeUseCase) Fee() uint64 {
	uc.mu.Lock()
	defer uc.mu.Unlock()
	return uc.fee
}
