package common

import "github.com/shopspring/decimal"

// Price Monetary amount with optional VAT-inclusive value. Fixed-point decimals
// only: a total must equal the sum of its components to the cent.
type Price struct {
	ExclVat decimal.Decimal  `json:"excl_vat" bson:"excl_vat"`
	InclVat *decimal.Decimal `json:"incl_vat,omitempty" bson:"incl_vat,omitempty"`
}

func NewPrice(exclVat decimal.Decimal) *Price {
	return &Price{ExclVat: exclVat}
}

func (p *Price) Add(other *Price) *Price {
	if other == nil {
		return p
	}
	sum := &Price{ExclVat: p.ExclVat.Add(other.ExclVat)}
	if p.InclVat != nil && other.InclVat != nil {
		incl := p.InclVat.Add(*other.InclVat)
		sum.InclVat = &incl
	}
	return sum
}
