package port

import "context"

// AuthorityVerifier is the port for checking that a permission of an account
// is genuinely delegated to this system. Assert returns
// entity.ErrUnauthorized when it is not.
type AuthorityVerifier interface {
	Assert(ctx context.Context, account, permission string) error
}
