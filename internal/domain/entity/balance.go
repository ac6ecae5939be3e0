package entity

// BalanceResponse represents the balance response for a user. Balances are
// keyed by "SYMBOL@issuer" and rendered as quantity strings.
type BalanceResponse struct {
	User     string            `json:"user"`
	Balances map[string]string `json:"balances"`
}

// BalanceKey builds the response key for an asset type.
func BalanceKey(sym ExtendedSymbol) string {
	return sym.Symbol + "@" + sym.Issuer
}
