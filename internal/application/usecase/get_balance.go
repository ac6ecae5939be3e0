package usecase

import (
	"context"

	"acctex.io/internal/domain/entity"
	"acctex.io/internal/domain/port"
)

// GetBalanceUseCase handles balance retrieval
type GetBalanceUseCase struct {
	reader port.LedgerReader
}

// NewGetBalanceUseCase creates a new GetBalanceUseCase
func NewGetBalanceUseCase(reader port.LedgerReader) *GetBalanceUseCase {
	return &GetBalanceUseCase{reader: reader}
}

// Execute retrieves the balances for a user
func (uc *GetBalanceUseCase) Execute(ctx context.Context, user string) (*entity.BalanceResponse, error) {
	assets, err := uc.reader.UserBalances(ctx, user)
	if err != nil {
		return nil, err
	}

	balances := make(map[string]string, len(assets))
	for _, asset := range assets {
		balances[entity.BalanceKey(asset.ExtendedSymbol())] = asset.String()
	}

	return &entity.BalanceResponse{
		User:     user,
		Balances: balances,
	}, nil
}
