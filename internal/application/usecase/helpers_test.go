package usecase

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"acctex.io/internal/domain/entity"
	"acctex.io/internal/infrastructure/authority"
	"acctex.io/internal/infrastructure/logger"
	"acctex.io/internal/infrastructure/repository"
)

const (
	testSystemAccount = "acctexchange"
	testAdminAccount  = "admin.ex"
	testIssuer        = "tok"
)

var testDepositAsset = entity.ExtendedSymbol{
	Issuer:    testIssuer,
	Symbol:    "CORE",
	Precision: 4,
}

type recordingSink struct {
	effects []entity.Effect
}

func (s *recordingSink) Dispatch(_ context.Context, effects []entity.Effect) {
	s.effects = append(s.effects, effects...)
}

func (s *recordingSink) payouts() []entity.PayoutEffect {
	var out []entity.PayoutEffect
	for _, e := range s.effects {
		if p, ok := e.(entity.PayoutEffect); ok {
			out = append(out, p)
		}
	}
	return out
}

func (s *recordingSink) authUpdates() []entity.UpdateAuthEffect {
	var out []entity.UpdateAuthEffect
	for _, e := range s.effects {
		if u, ok := e.(entity.UpdateAuthEffect); ok {
			out = append(out, u)
		}
	}
	return out
}

// exchange wires the real in-memory adapters together the way the server
// does, so usecase tests exercise full operation semantics end to end.
type exchange struct {
	state    *repository.InMemoryState
	registry *authority.Registry
	sink     *recordingSink
}

func newExchange() *exchange {
	log := logger.NewLogger()
	sink := &recordingSink{}
	registry := authority.NewRegistry(log)
	return &exchange{
		state:    repository.NewInMemoryState(registry, sink, log),
		registry: registry,
		sink:     sink,
	}
}

// deposit credits a user through the deposit path.
func (e *exchange) deposit(t *testing.T, user, quantity string) {
	t.Helper()

	uc := NewProcessDepositUseCase(e.state, testSystemAccount, testDepositAsset, logger.NewLogger())
	err := uc.Execute(context.Background(), &entity.TransferNotice{
		From:     user,
		To:       testSystemAccount,
		Quantity: quantity,
		Issuer:   testIssuer,
	})
	require.NoError(t, err)
}

// listAccount posts a sale after granting the owner delegation.
func (e *exchange) listAccount(t *testing.T, account, priceQuantity, recipient string) {
	t.Helper()

	ctx := context.Background()
	e.registry.Grant(ctx, account, entity.PermissionOwner)

	uc := NewListAccountUseCase(e.state)
	err := uc.Execute(ctx, ListAccountRequest{
		Caller:        account,
		Account:       account,
		PriceQuantity: priceQuantity,
		PriceIssuer:   testIssuer,
		Recipient:     recipient,
	})
	require.NoError(t, err)
}

// balanceAmount returns the user's stored base units for the deposit asset,
// or -1 when no partition exists.
func (e *exchange) balanceAmount(t *testing.T, user string) int64 {
	t.Helper()

	balances, err := e.state.UserBalances(context.Background(), user)
	require.NoError(t, err)
	for _, b := range balances {
		if b.ExtendedSymbol() == testDepositAsset {
			return b.Amount
		}
	}
	return -1
}
