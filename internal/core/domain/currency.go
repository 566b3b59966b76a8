package domain

// Currency identifies either the native escrow currency or a registered
// external-token currency. The zero value is the native currency. At the
// wire boundary the native currency is still the empty symbol, preserving
// compatibility with existing callers; inside the core the distinction is
// carried by the type rather than by string overloading.
type Currency struct {
	symbol string
}

// Native returns the native currency.
func Native() Currency {
	return Currency{}
}

// TokenCurrency returns the currency for a registered token symbol. The
// empty symbol is reserved for the native currency and must never reach
// here; validation happens at the registry boundary.
func TokenCurrency(symbol string) Currency {
	return Currency{symbol: symbol}
}

// IsNative reports whether c is the native currency.
func (c Currency) IsNative() bool {
	return c.symbol == ""
}

// Symbol returns the wire representation: "" for native, the registered
// symbol otherwise.
func (c Currency) Symbol() string {
	return c.symbol
}

func (c Currency) String() string {
	if c.IsNative() {
		return "native"
	}
	return c.symbol
}
