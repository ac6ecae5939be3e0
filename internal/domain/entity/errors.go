package entity

import "errors"

var (
	ErrInvalidQuantity   = errors.New("invalid asset quantity")
	ErrInvalidAccount    = errors.New("invalid account name")
	ErrSameRecipient     = errors.New("recipient must differ from the listed account")
	ErrNonPositiveAmount = errors.New("amount must be positive")

	ErrAlreadyListed     = errors.New("account is already for sale")
	ErrNotListed         = errors.New("account is not for sale")
	ErrPriceMismatch     = errors.New("wrong price symbol")
	ErrPriceTooLow       = errors.New("provided price is too low")
	ErrInsufficientFunds = errors.New("insufficient balance")
	ErrBalanceNotFound   = errors.New("balance not found")
	ErrBalanceOverflow   = errors.New("balance overflow")
	ErrInvalidKey        = errors.New("invalid public key")
	ErrUnauthorized      = errors.New("missing required authority")
)

var (
	ErrMissingFrom     = errors.New("missing required field: from")
	ErrMissingTo       = errors.New("missing required field: to")
	ErrMissingQuantity = errors.New("missing required field: quantity")
	ErrMissingIssuer   = errors.New("missing required field: issuer")
)
