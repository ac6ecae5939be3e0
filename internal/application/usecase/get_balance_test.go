package usecase

import (
	"context"
	"errors"
	"testing"

	"acctex.io/internal/domain/entity"
)

// mockLedgerReader is a mock implementation of LedgerReader
type mockLedgerReader struct {
	userBalancesFunc func(ctx context.Context, owner string) ([]entity.ExtendedAsset, error)
}

func (m *mockLedgerReader) UserBalances(ctx context.Context, owner string) ([]entity.ExtendedAsset, error) {
	if m.userBalancesFunc != nil {
		return m.userBalancesFunc(ctx, owner)
	}
	return nil, nil
}

func TestGetBalanceUseCase_Execute(t *testing.T) {
	tests := []struct {
		name         string
		user         string
		readerRes    []entity.ExtendedAsset
		readerErr    error
		wantErr      bool
		wantBalances map[string]string
	}{
		{
			name: "balances keyed by symbol and issuer",
			user: "alice",
			readerRes: []entity.ExtendedAsset{
				{
					Asset:  entity.Asset{Amount: 1000000, Symbol: "CORE", Precision: 4},
					Issuer: "eosio.token",
				},
				{
					Asset:  entity.Asset{Amount: 42, Symbol: "SYS", Precision: 0},
					Issuer: "other.token",
				},
			},
			wantBalances: map[string]string{
				"CORE@eosio.token": "100.0000 CORE",
				"SYS@other.token":  "42 SYS",
			},
		},
		{
			name:         "user with no balances",
			user:         "bob",
			readerRes:    nil,
			wantBalances: map[string]string{},
		},
		{
			name:      "reader error",
			user:      "carol",
			readerErr: errors.New("reader error"),
			wantErr:   true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			reader := &mockLedgerReader{
				userBalancesFunc: func(ctx context.Context, owner string) ([]entity.ExtendedAsset, error) {
					return tt.readerRes, tt.readerErr
				},
			}

			useCase := NewGetBalanceUseCase(reader)
			result, err := useCase.Execute(context.Background(), tt.user)

			if (err != nil) != tt.wantErr {
				t.Errorf("GetBalanceUseCase.Execute() error = %v, wantErr %v", err, tt.wantErr)
				return
			}

			if !tt.wantErr {
				if result.User != tt.user {
					t.Errorf("Result.User = %v, want %v", result.User, tt.user)
				}
				if len(result.Balances) != len(tt.wantBalances) {
					t.Errorf("Result.Balances length = %v, want %v", len(result.Balances), len(tt.wantBalances))
				}
				for key, quantity := range tt.wantBalances {
					if result.Balances[key] != quantity {
						t.Errorf("Result.Balances[%v] = %v, want %v", key, result.Balances[key], quantity)
					}
				}
			}
		})
	}
}
