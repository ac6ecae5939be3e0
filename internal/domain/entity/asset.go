package entity

import (
	"regexp"
	"strings"

	"github.com/shopspring/decimal"
)

// MaxPrecision is the largest number of decimal places an asset symbol may carry.
const MaxPrecision = 18

var (
	symbolPattern  = regexp.MustCompile(`^[A-Z]{1,7}$`)
	accountPattern = regexp.MustCompile(`^[a-z1-5.]{1,12}$`)
)

// Asset is a quantity of a single token symbol, held as integer base units.
// "100.0000 CORE" is Amount 1000000 at Precision 4.
type Asset struct {
	Amount    int64
	Symbol    string
	Precision uint8
}

// ExtendedAsset is an Asset qualified by the account that issues the token.
// Two tokens with the same symbol from different issuers are distinct assets.
type ExtendedAsset struct {
	Asset
	Issuer string
}

// ExtendedSymbol identifies an asset type: issuer plus symbol plus precision.
// It is comparable and used as the partition key in balance sets.
type ExtendedSymbol struct {
	Issuer    string
	Symbol    string
	Precision uint8
}

// ParseQuantity parses a quantity string such as "100.0000 CORE" into an
// Asset. The number of decimal places determines the symbol precision.
func ParseQuantity(s string) (Asset, error) {
	parts := strings.SplitN(strings.TrimSpace(s), " ", 2)
	if len(parts) != 2 {
		return Asset{}, ErrInvalidQuantity
	}
	symbol := parts[1]
	if !symbolPattern.MatchString(symbol) {
		return Asset{}, ErrInvalidQuantity
	}

	value, err := decimal.NewFromString(parts[0])
	if err != nil {
		return Asset{}, ErrInvalidQuantity
	}

	var precision uint8
	if exp := value.Exponent(); exp < 0 {
		if -exp > MaxPrecision {
			return Asset{}, ErrInvalidQuantity
		}
		precision = uint8(-exp)
	}

	units := value.Shift(int32(precision))
	if !units.BigInt().IsInt64() {
		return Asset{}, ErrInvalidQuantity
	}

	return Asset{
		Amount:    units.IntPart(),
		Symbol:    symbol,
		Precision: precision,
	}, nil
}

// ParseExtendedQuantity parses a quantity string together with its issuing
// account into an ExtendedAsset.
func ParseExtendedQuantity(quantity, issuer string) (ExtendedAsset, error) {
	if !accountPattern.MatchString(issuer) {
		return ExtendedAsset{}, ErrInvalidAccount
	}
	asset, err := ParseQuantity(quantity)
	if err != nil {
		return ExtendedAsset{}, err
	}
	return ExtendedAsset{Asset: asset, Issuer: issuer}, nil
}

// String renders the asset back into quantity-string form.
func (a Asset) String() string {
	return decimal.New(a.Amount, -int32(a.Precision)).StringFixed(int32(a.Precision)) + " " + a.Symbol
}

// ExtendedSymbol returns the asset-type key for this asset.
func (a ExtendedAsset) ExtendedSymbol() ExtendedSymbol {
	return ExtendedSymbol{Issuer: a.Issuer, Symbol: a.Symbol, Precision: a.Precision}
}

// SameSymbol reports whether two extended assets are of the same asset type.
func (a ExtendedAsset) SameSymbol(other ExtendedAsset) bool {
	return a.ExtendedSymbol() == other.ExtendedSymbol()
}

// ValidAccountName reports whether s is a well-formed ledger account name.
func ValidAccountName(s string) bool {
	return accountPattern.MatchString(s)
}
