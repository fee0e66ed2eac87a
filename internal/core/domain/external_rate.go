package domain

import "github.com/shopspring/decimal"

// ExternalRate is one record from the external reference-rate provider, as
// fetched by the refresh pipeline.
type ExternalRate struct {
	Code         string
	Name         string
	OfficialRate decimal.Decimal
	Scale        int
}
