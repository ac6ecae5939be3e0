package authority

import (
	"context"
	"sync"

	"acctex.io/internal/domain/entity"
	"acctex.io/internal/domain/port"
	"acctex.io/internal/infrastructure/logger"
)

// Registry implements the AuthorityVerifier port over an in-memory record of
// which account permissions have been delegated to this system. It stands in
// for the host platform's permission table: an account appears here after its
// holder delegates the named permission, and disappears again when the
// delegation is revoked. A listing whose owner delegation was revoked after
// listing is stale; see the admin removal path.
type Registry struct {
	mu     sync.RWMutex
	grants map[string]map[string]bool
	logger logger.Logger
}

// NewRegistry creates an empty registry.
func NewRegistry(logger logger.Logger) *Registry {
	return &Registry{
		grants: make(map[string]map[string]bool),
		logger: logger,
	}
}

// Grant records that the account's permission is delegated to this system.
func (r *Registry) Grant(ctx context.Context, account, permission string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.grants[account] == nil {
		r.grants[account] = make(map[string]bool)
	}
	r.grants[account][permission] = true

	r.logger.LogInfo(ctx, "Authority delegated",
		"account", account,
		"permission", permission)
}

// Revoke removes a delegation.
func (r *Registry) Revoke(ctx context.Context, account, permission string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	delete(r.grants[account], permission)
	if len(r.grants[account]) == 0 {
		delete(r.grants, account)
	}

	r.logger.LogInfo(ctx, "Authority delegation revoked",
		"account", account,
		"permission", permission)
}

// Assert implements port.AuthorityVerifier.
func (r *Registry) Assert(_ context.Context, account, permission string) error {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if !r.grants[account][permission] {
		return entity.ErrUnauthorized
	}
	return nil
}

var _ port.AuthorityVerifier = (*Registry)(nil)
