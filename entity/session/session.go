// Package session holds the Session resource: one charging event from start
// until it completes or is invalidated, update-only afterwards.
package session

import (
	"encoding/json"
	"fmt"

	"ocpinode/entity/common"
	"ocpinode/patch"
	"ocpinode/types"

	"github.com/shopspring/decimal"
)

type Status string

const (
	StatusActive      Status = "ACTIVE"
	StatusCompleted   Status = "COMPLETED"
	StatusInvalid     Status = "INVALID"
	StatusPending     Status = "PENDING"
	StatusReservation Status = "RESERVATION"
)

func IsValidStatus(s Status) bool {
	switch s {
	case StatusActive, StatusCompleted, StatusInvalid, StatusPending, StatusReservation:
		return true
	}
	return false
}

type AuthMethod string

const (
	AuthMethodRequest   AuthMethod = "AUTH_REQUEST"
	AuthMethodCommand   AuthMethod = "COMMAND"
	AuthMethodWhitelist AuthMethod = "WHITELIST"
)

func IsValidAuthMethod(m AuthMethod) bool {
	switch m {
	case AuthMethodRequest, AuthMethodCommand, AuthMethodWhitelist:
		return true
	}
	return false
}

type Session struct {
	CountryCode     string                   `json:"country_code,omitempty" bson:"country_code"`
	PartyId         string                   `json:"party_id,omitempty" bson:"party_id"`
	Id              string                   `json:"id" bson:"id"`
	StartDateTime   *types.DateTime          `json:"start_date_time" bson:"start_date_time"`
	EndDateTime     *types.DateTime          `json:"end_date_time,omitempty" bson:"end_date_time,omitempty"`
	Kwh             decimal.Decimal          `json:"kwh" bson:"kwh"`
	AuthId          string                   `json:"auth_id" bson:"auth_id"`
	AuthMethod      AuthMethod               `json:"auth_method" bson:"auth_method"`
	LocationId      string                   `json:"location_id" bson:"location_id"`
	EvseUid         string                   `json:"evse_uid,omitempty" bson:"evse_uid,omitempty"`
	ConnectorId     string                   `json:"connector_id,omitempty" bson:"connector_id,omitempty"`
	MeterId         string                   `json:"meter_id,omitempty" bson:"meter_id,omitempty"`
	Currency        string                   `json:"currency" bson:"currency"`
	ChargingPeriods []*common.ChargingPeriod `json:"charging_periods,omitempty" bson:"charging_periods,omitempty"`
	TotalCost       *common.Price            `json:"total_cost,omitempty" bson:"total_cost,omitempty"`
	Status          Status                   `json:"status" bson:"status"`
	LastUpdated     *types.DateTime          `json:"last_updated" bson:"last_updated"`
}

func (s *Session) Serialize() ([]byte, error) {
	return json.Marshal(s)
}

func Parse(data []byte, countryCode, partyId string) (*Session, error) {
	session := &Session{}
	if err := json.Unmarshal(data, session); err != nil {
		return nil, fmt.Errorf("invalid session: %w", err)
	}
	if session.CountryCode == "" {
		session.CountryCode = countryCode
	}
	if session.PartyId == "" {
		session.PartyId = partyId
	}
	if err := session.Validate(); err != nil {
		return nil, err
	}
	return session, nil
}

func (s *Session) Validate() error {
	if s.Id == "" {
		return fmt.Errorf("missing 'id' in session")
	}
	if s.StartDateTime == nil {
		return fmt.Errorf("missing 'start_date_time' in session")
	}
	if s.AuthId == "" {
		return fmt.Errorf("missing 'auth_id' in session")
	}
	if !IsValidAuthMethod(s.AuthMethod) {
		return fmt.Errorf("invalid auth method '%s' in session", s.AuthMethod)
	}
	if s.LocationId == "" {
		return fmt.Errorf("missing 'location_id' in session")
	}
	if len(s.Currency) != 3 {
		return fmt.Errorf("invalid currency '%s' in session", s.Currency)
	}
	if !IsValidStatus(s.Status) {
		return fmt.Errorf("invalid status '%s' in session", s.Status)
	}
	if s.LastUpdated == nil {
		return fmt.Errorf("missing 'last_updated' in session")
	}
	return nil
}

// TotalEnergy sums the ENERGY dimensions of all charging periods.
func (s *Session) TotalEnergy() decimal.Decimal {
	return common.VolumeOf(s.ChargingPeriods, common.DimensionEnergy)
}

func sessionPatchPolicy() patch.Policy {
	return patch.Policy{
		Resource: "a session",
		Immutable: map[string]string{
			"country_code": "country code",
			"party_id":     "party identification",
			"id":           "identification",
		},
		Validators: map[string]patch.FieldRule{
			"status": {Display: "session status", Valid: func(v interface{}) bool {
				value, ok := v.(string)
				return ok && IsValidStatus(Status(value))
			}},
			"auth_method": {Display: "auth method", Valid: func(v interface{}) bool {
				value, ok := v.(string)
				return ok && IsValidAuthMethod(AuthMethod(value))
			}},
		},
	}
}

func (s *Session) Patch(body []byte) patch.Result[*Session] {
	return patch.Apply(s, body, sessionPatchPolicy())
}
