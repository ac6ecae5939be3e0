package entity

// Permission names of the two-tier account control structure.
const (
	PermissionOwner  = "owner"
	PermissionActive = "active"
)

// Effect is an outbound instruction accumulated during a batch and handed to
// the host platform only when the batch commits. Effects are fire-and-forget:
// there is no confirmation callback, the host either applies the whole batch
// or none of it.
type Effect interface {
	effect()
}

// PayoutEffect instructs the host to transfer value out of system custody.
type PayoutEffect struct {
	From     string
	To       string
	Quantity ExtendedAsset
	Memo     string
}

// UpdateAuthEffect instructs the host to replace an account permission with a
// single-key authority of threshold one.
type UpdateAuthEffect struct {
	Account    string
	Permission string
	Parent     string
	Key        ControlKey
}

// AssertAuthorityEffect demands that the named permission of the account is
// genuinely held within the enclosing batch. The batch aborts if the
// assertion fails at commit time.
type AssertAuthorityEffect struct {
	Account    string
	Permission string
}

func (PayoutEffect) effect()          {}
func (UpdateAuthEffect) effect()      {}
func (AssertAuthorityEffect) effect() {}
