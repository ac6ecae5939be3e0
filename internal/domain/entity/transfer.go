package entity

// TransferNotice is an inbound notification that value moved on the host
// ledger. It is consumed once by the deposit path and never persisted.
type TransferNotice struct {
	From     string `json:"from"`
	To       string `json:"to"`
	Quantity string `json:"quantity"`
	Issuer   string `json:"issuer"`
	Memo     string `json:"memo"`
}

// Validate validates the transfer notice
func (n *TransferNotice) Validate() error {
	if n.From == "" {
		return ErrMissingFrom
	}
	if n.To == "" {
		return ErrMissingTo
	}
	if n.Quantity == "" {
		return ErrMissingQuantity
	}
	if n.Issuer == "" {
		return ErrMissingIssuer
	}
	return nil
}
