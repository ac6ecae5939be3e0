package usecase

import (
	"context"

	"acctex.io/internal/domain/entity"
	"acctex.io/internal/domain/port"
)

const withdrawalMemo = "Withdrawal"

// WithdrawUseCase handles redeeming ledger balance back out of custody
type WithdrawUseCase struct {
	tx            port.Transactor
	systemAccount string
}

// NewWithdrawUseCase creates a new WithdrawUseCase
func NewWithdrawUseCase(tx port.Transactor, systemAccount string) *WithdrawUseCase {
	return &WithdrawUseCase{
		tx:            tx,
		systemAccount: systemAccount,
	}
}

// WithdrawRequest contains the request data for a withdrawal
type WithdrawRequest struct {
	Caller   string
	User     string
	Quantity string
	Issuer   string
}

// Execute debits the user's balance and emits a payout back to the user.
func (uc *WithdrawUseCase) Execute(ctx context.Context, req WithdrawRequest) error {
	if req.Caller != req.User {
		return entity.ErrUnauthorized
	}

	quantity, err := entity.ParseExtendedQuantity(req.Quantity, req.Issuer)
	if err != nil {
		return err
	}
	if quantity.Amount <= 0 {
		return entity.ErrNonPositiveAmount
	}

	return uc.tx.Execute(ctx, func(b port.Batch) error {
		if err := b.Ledger().Debit(req.User, quantity); err != nil {
			return err
		}

		b.Emit(entity.PayoutEffect{
			From:     uc.systemAccount,
			To:       req.User,
			Quantity: quantity,
			Memo:     withdrawalMemo,
		})

		return nil
	})
}
