package usecase

import (
	"context"

	"acctex.io/internal/domain/entity"
	"acctex.io/internal/domain/port"
	"acctex.io/internal/infrastructure/logger"
)

// ProcessDepositUseCase handles inbound transfer notices
type ProcessDepositUseCase struct {
	tx            port.Transactor
	systemAccount string
	depositAsset  entity.ExtendedSymbol
	logger        logger.Logger
}

// NewProcessDepositUseCase creates a new ProcessDepositUseCase
func NewProcessDepositUseCase(
	tx port.Transactor,
	systemAccount string,
	depositAsset entity.ExtendedSymbol,
	logger logger.Logger,
) *ProcessDepositUseCase {
	return &ProcessDepositUseCase{
		tx:            tx,
		systemAccount: systemAccount,
		depositAsset:  depositAsset,
		logger:        logger,
	}
}

// Execute credits the sender's balance for a recognized transfer notice.
// Notices for any other asset type, notices not addressed to the system
// account, and notices originating from the system account itself (its own
// payouts echoing back) are ignored without error.
func (uc *ProcessDepositUseCase) Execute(ctx context.Context, notice *entity.TransferNotice) error {
	if err := notice.Validate(); err != nil {
		return err
	}

	quantity, err := entity.ParseExtendedQuantity(notice.Quantity, notice.Issuer)
	if err != nil {
		return err
	}

	if quantity.ExtendedSymbol() != uc.depositAsset {
		uc.logger.LogInfo(ctx, "Ignoring transfer of unrecognized asset",
			"from", notice.From,
			"quantity", notice.Quantity,
			"issuer", notice.Issuer)
		return nil
	}
	if notice.From == uc.systemAccount || notice.To != uc.systemAccount {
		return nil
	}

	if quantity.Amount <= 0 {
		return entity.ErrNonPositiveAmount
	}

	return uc.tx.Execute(ctx, func(b port.Batch) error {
		return b.Ledger().Credit(notice.From, quantity)
	})
}
