package common

import (
	"ocpinode/types"

	"github.com/shopspring/decimal"
)

// CdrDimensionType Categories of measured volumes within a charging period.
type CdrDimensionType string

const (
	DimensionEnergy      CdrDimensionType = "ENERGY"
	DimensionFlat        CdrDimensionType = "FLAT"
	DimensionMaxCurrent  CdrDimensionType = "MAX_CURRENT"
	DimensionMinCurrent  CdrDimensionType = "MIN_CURRENT"
	DimensionParkingTime CdrDimensionType = "PARKING_TIME"
	DimensionTime        CdrDimensionType = "TIME"
)

func IsValidCdrDimensionType(t CdrDimensionType) bool {
	switch t {
	case DimensionEnergy, DimensionFlat, DimensionMaxCurrent, DimensionMinCurrent, DimensionParkingTime, DimensionTime:
		return true
	}
	return false
}

type CdrDimension struct {
	Type   CdrDimensionType `json:"type" bson:"type" validate:"required"`
	Volume decimal.Decimal  `json:"volume" bson:"volume" validate:"required"`
}

// ChargingPeriod A period of a session or CDR with constant charging conditions.
type ChargingPeriod struct {
	StartDateTime *types.DateTime `json:"start_date_time" bson:"start_date_time" validate:"required"`
	Dimensions    []*CdrDimension `json:"dimensions" bson:"dimensions" validate:"required,dive"`
}

// VolumeOf sums the volume of the given dimension type across periods.
func VolumeOf(periods []*ChargingPeriod, dimension CdrDimensionType) decimal.Decimal {
	total := decimal.Zero
	for _, period := range periods {
		for _, d := range period.Dimensions {
			if d.Type == dimension {
				total = total.Add(d.Volume)
			}
		}
	}
	return total
}
