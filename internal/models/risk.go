package models

import "github.com/shopspring/decimal"

// PV01 is the price value of a one-basis-point yield change for a
// position in one bond. A fresh PV01 is derived per position update;
// existing values are never mutated.
type PV01 struct {
	Bond        Bond
	Sensitivity decimal.Decimal
	Quantity    int64
}

// Total returns the total risk: per-unit sensitivity times quantity.
func (r PV01) Total() decimal.Decimal {
	return r.Sensitivity.Mul(decimal.NewFromInt(r.Quantity))
}

// BucketedSector groups bonds for sector-level risk aggregation.
type BucketedSector struct {
	Name  string
	Bonds []Bond
}
