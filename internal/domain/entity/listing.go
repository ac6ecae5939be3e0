package entity

// Listing is an active sale posting for one account. At most one listing
// exists per account at any time; changing terms requires delist and re-list.
type Listing struct {
	Account   string
	Price     ExtendedAsset
	Recipient string
}

// Validate checks the listing terms. The authority of the lister over the
// account is asserted separately, inside the same batch that stores the
// listing.
func (l Listing) Validate() error {
	if !ValidAccountName(l.Account) {
		return ErrInvalidAccount
	}
	if !ValidAccountName(l.Recipient) {
		return ErrInvalidAccount
	}
	if l.Recipient == l.Account {
		return ErrSameRecipient
	}
	if l.Price.Amount <= 0 {
		return ErrNonPositiveAmount
	}
	return nil
}
