package http

import (
	"github.com/go-playground/validator/v10"
)

// priceSchema is the wire form of an extended asset quantity.
type priceSchema struct {
	Quantity string `json:"quantity" validate:"required"`
	Issuer   string `json:"issuer" validate:"required"`
}

type listRequestSchema struct {
	Account   string      `json:"account" validate:"required"`
	Price     priceSchema `json:"price" validate:"required"`
	Recipient string      `json:"recipient" validate:"required"`
}

type buyRequestSchema struct {
	Buyer   string      `json:"buyer" validate:"required"`
	Account string      `json:"account" validate:"required"`
	Price   priceSchema `json:"price" validate:"required"`
	PubKey  string      `json:"pub_key" validate:"required"`
}

type withdrawRequestSchema struct {
	User     string      `json:"user" validate:"required"`
	Quantity priceSchema `json:"quantity" validate:"required"`
}

type feeRequestSchema struct {
	Fee uint64 `json:"fee"`
}

type authorityRequestSchema struct {
	Account    string `json:"account" validate:"required"`
	Permission string `json:"permission" validate:"required,oneof=owner active"`
}

type listingResponseSchema struct {
	Account   string      `json:"account"`
	Price     priceSchema `json:"price"`
	Recipient string      `json:"recipient"`
}

func newValidate() *validator.Validate {
	return validator.New(validator.WithRequiredStructEnabled())
}
