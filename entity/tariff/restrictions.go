package tariff

import "github.com/shopspring/decimal"

type Restrictions struct {
	StartTime   string           `json:"start_time,omitempty" bson:"start_time,omitempty" validate:"omitempty,datetime=15:04"`
	EndTime     string           `json:"end_time,omitempty" bson:"end_time,omitempty" validate:"omitempty,datetime=15:04"`
	StartDate   string           `json:"start_date,omitempty" bson:"start_date,omitempty" validate:"omitempty,date=2006-01-02"`
	EndDate     string           `json:"end_date,omitempty" bson:"end_date,omitempty" validate:"omitempty,date=2006-01-02"`
	MinKwh      *decimal.Decimal `json:"min_kwh,omitempty" bson:"min_kwh,omitempty"`
	MaxKwh      *decimal.Decimal `json:"max_kwh,omitempty" bson:"max_kwh,omitempty"`
	MinPower    *decimal.Decimal `json:"min_power,omitempty" bson:"min_power,omitempty"`
	MaxPower    *decimal.Decimal `json:"max_power,omitempty" bson:"max_power,omitempty"`
	MinDuration int              `json:"min_duration,omitempty" bson:"min_duration,omitempty"`
	MaxDuration int              `json:"max_duration,omitempty" bson:"max_duration,omitempty"`
	DayOfWeek   []string         `json:"day_of_week,omitempty" bson:"day_of_week,omitempty" validate:"omitempty,dive,oneof=MONDAY TUESDAY WEDNESDAY THURSDAY FRIDAY SATURDAY SUNDAY"`
}
