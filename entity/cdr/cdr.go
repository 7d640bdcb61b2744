// Package cdr holds the Charge Detail Record: the finalized, billable record
// of one charging session. A CDR owns snapshot copies of the location and
// tariffs it was billed against; it is created once and never deleted.
package cdr

import (
	"encoding/json"
	"fmt"

	"ocpinode/entity/common"
	"ocpinode/entity/location"
	"ocpinode/entity/session"
	"ocpinode/entity/tariff"
	"ocpinode/patch"
	"ocpinode/types"

	"github.com/shopspring/decimal"
)

type Cdr struct {
	CountryCode      string                   `json:"country_code,omitempty" bson:"country_code"`
	PartyId          string                   `json:"party_id,omitempty" bson:"party_id"`
	Id               string                   `json:"id" bson:"id"`
	StartDateTime    *types.DateTime          `json:"start_date_time" bson:"start_date_time"`
	StopDateTime     *types.DateTime          `json:"stop_date_time" bson:"stop_date_time"`
	SessionId        string                   `json:"session_id,omitempty" bson:"session_id,omitempty"`
	AuthId           string                   `json:"auth_id" bson:"auth_id"`
	AuthMethod       session.AuthMethod       `json:"auth_method" bson:"auth_method"`
	Location         *location.Location       `json:"location" bson:"location"`
	MeterId          string                   `json:"meter_id,omitempty" bson:"meter_id,omitempty"`
	Currency         string                   `json:"currency" bson:"currency"`
	Tariffs          []*tariff.Tariff         `json:"tariffs,omitempty" bson:"tariffs,omitempty"`
	ChargingPeriods  []*common.ChargingPeriod `json:"charging_periods" bson:"charging_periods"`
	SignedData       *SignedData              `json:"signed_data,omitempty" bson:"signed_data,omitempty"`
	TotalCost        decimal.Decimal          `json:"total_cost" bson:"total_cost"`
	TotalEnergy      decimal.Decimal          `json:"total_energy" bson:"total_energy"`
	TotalTime        decimal.Decimal          `json:"total_time" bson:"total_time"`
	TotalParkingTime *decimal.Decimal         `json:"total_parking_time,omitempty" bson:"total_parking_time,omitempty"`
	Remark           string                   `json:"remark,omitempty" bson:"remark,omitempty"`
	LastUpdated      *types.DateTime          `json:"last_updated" bson:"last_updated"`
}

func (c *Cdr) Serialize() ([]byte, error) {
	return json.Marshal(c)
}

func Parse(data []byte, countryCode, partyId string) (*Cdr, error) {
	record := &Cdr{}
	if err := json.Unmarshal(data, record); err != nil {
		return nil, fmt.Errorf("invalid CDR: %w", err)
	}
	if record.CountryCode == "" {
		record.CountryCode = countryCode
	}
	if record.PartyId == "" {
		record.PartyId = partyId
	}
	if err := record.Validate(); err != nil {
		return nil, err
	}
	return record, nil
}

func (c *Cdr) Validate() error {
	if c.Id == "" {
		return fmt.Errorf("missing 'id' in CDR")
	}
	if c.StartDateTime == nil {
		return fmt.Errorf("missing 'start_date_time' in CDR")
	}
	if c.StopDateTime == nil {
		return fmt.Errorf("missing 'stop_date_time' in CDR")
	}
	if c.AuthId == "" {
		return fmt.Errorf("missing 'auth_id' in CDR")
	}
	if !session.IsValidAuthMethod(c.AuthMethod) {
		return fmt.Errorf("invalid auth method '%s' in CDR", c.AuthMethod)
	}
	if c.Location == nil {
		return fmt.Errorf("missing 'location' in CDR")
	}
	if len(c.Currency) != 3 {
		return fmt.Errorf("invalid currency '%s' in CDR", c.Currency)
	}
	if len(c.ChargingPeriods) == 0 {
		return fmt.Errorf("missing 'charging_periods' in CDR")
	}
	if c.LastUpdated == nil {
		return fmt.Errorf("missing 'last_updated' in CDR")
	}
	return nil
}

// AttachTariffs snapshots the given tariffs into the record: the CDR owns
// its copies, later tariff changes must not alter a billed record.
func (c *Cdr) AttachTariffs(tariffs []*tariff.Tariff) {
	c.Tariffs = make([]*tariff.Tariff, len(tariffs))
	for i, t := range tariffs {
		c.Tariffs[i] = t.Clone()
	}
}

// MeteredEnergy sums the ENERGY dimensions of all charging periods.
func (c *Cdr) MeteredEnergy() decimal.Decimal {
	return common.VolumeOf(c.ChargingPeriods, common.DimensionEnergy)
}

// EnergyConsistent reports whether total_energy equals the metered sum; a
// billable record must add up exactly, never approximately.
func (c *Cdr) EnergyConsistent() bool {
	return c.TotalEnergy.Equal(c.MeteredEnergy())
}

func cdrPatchPolicy() patch.Policy {
	return patch.Policy{
		Resource: "a charge detail record",
		Immutable: map[string]string{
			"country_code": "country code",
			"party_id":     "party identification",
			"id":           "identification",
		},
	}
}

func (c *Cdr) Patch(body []byte) patch.Result[*Cdr] {
	return patch.Apply(c, body, cdrPatchPolicy())
}
