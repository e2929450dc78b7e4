// Package model holds the domain types shared by the handler, service and
// repository layers: identity provider users and sessions, and marketplace
// service listings with their query parameters.
package model

import "github.com/shopspring/decimal"

func init() {
	// Prices are JSON numbers on the wire.
	decimal.MarshalJSONWithoutQuotes = true
}
