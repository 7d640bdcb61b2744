package tariff

import "github.com/shopspring/decimal"

type DimensionType string

const (
	Energy      DimensionType = "ENERGY"
	Flat        DimensionType = "FLAT"
	ParkingTime DimensionType = "PARKING_TIME"
	Time        DimensionType = "TIME"
)

func IsValidDimensionType(t DimensionType) bool {
	switch t {
	case Energy, Flat, ParkingTime, Time:
		return true
	}
	return false
}

type PriceComponent struct {
	Type     DimensionType   `json:"type" bson:"type" validate:"required,oneof=ENERGY FLAT PARKING_TIME TIME"`
	Price    decimal.Decimal `json:"price" bson:"price" validate:"required"`
	StepSize int             `json:"step_size" bson:"step_size" validate:"required"`
}

func (p *PriceComponent) IsEnergy() bool {
	return p.Type == Energy
}

func NewPriceEnergy() *PriceComponent {
	return &PriceComponent{
		Type: Energy,
	}
}
