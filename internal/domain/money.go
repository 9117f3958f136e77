package domain

import "github.com/shopspring/decimal"

// Money values travel as JSON numbers ("cost": 500), not quoted strings.
// Decoding accepts both forms.
func init() {
	decimal.MarshalJSONWithoutQuotes = true
}
