package location

import (
	"encoding/json"
	"fmt"

	"ocpinode/entity/common"
	"ocpinode/patch"
	"ocpinode/types"
)

type StatusSchedule struct {
	PeriodBegin *types.DateTime `json:"period_begin" bson:"period_begin"`
	PeriodEnd   *types.DateTime `json:"period_end,omitempty" bson:"period_end,omitempty"`
	Status      Status          `json:"status" bson:"status"`
}

// Evse A charging position within a location, keyed by UId. Owns its
// connectors; removal from the protocol is modeled by StatusRemoved,
// never by physical deletion.
type Evse struct {
	UId                 string                `json:"uid" bson:"uid"`
	EvseId              string                `json:"evse_id,omitempty" bson:"evse_id,omitempty"`
	Status              Status                `json:"status" bson:"status"`
	StatusSchedule      []*StatusSchedule     `json:"status_schedule,omitempty" bson:"status_schedule,omitempty"`
	Capabilities        []Capability          `json:"capabilities,omitempty" bson:"capabilities,omitempty"`
	Connectors          []*Connector          `json:"connectors" bson:"connectors"`
	EnergyMeter         *common.EnergyMeter   `json:"energy_meter,omitempty" bson:"energy_meter,omitempty"`
	FloorLevel          string                `json:"floor_level,omitempty" bson:"floor_level,omitempty"`
	Coordinates         *common.GeoLocation   `json:"coordinates,omitempty" bson:"coordinates,omitempty"`
	PhysicalReference   string                `json:"physical_reference,omitempty" bson:"physical_reference,omitempty"`
	Directions          []*common.DisplayText `json:"directions,omitempty" bson:"directions,omitempty"`
	ParkingRestrictions []ParkingRestriction  `json:"parking_restrictions,omitempty" bson:"parking_restrictions,omitempty"`
	Images              []*common.Image       `json:"images,omitempty" bson:"images,omitempty"`
	LastUpdated         *types.DateTime       `json:"last_updated" bson:"last_updated"`
}

func (e *Evse) Serialize() ([]byte, error) {
	return json.Marshal(e)
}

func ParseEvse(data []byte) (*Evse, error) {
	evse := &Evse{}
	if err := json.Unmarshal(data, evse); err != nil {
		return nil, fmt.Errorf("invalid EVSE: %w", err)
	}
	if err := evse.Validate(); err != nil {
		return nil, err
	}
	return evse, nil
}

func (e *Evse) Validate() error {
	if e.UId == "" {
		return fmt.Errorf("missing 'uid' in EVSE")
	}
	if e.LastUpdated == nil {
		return fmt.Errorf("missing 'last_updated' in EVSE")
	}
	// status is descriptive: unknown wire values become UNKNOWN
	e.Status = NormalizeStatus(e.Status)
	for i, capability := range e.Capabilities {
		e.Capabilities[i] = NormalizeCapability(capability)
	}
	for _, connector := range e.Connectors {
		if err := connector.Validate(); err != nil {
			return err
		}
	}
	return nil
}

// GetConnector finds a connector by id; nil when absent.
func (e *Evse) GetConnector(id string) *Connector {
	for _, connector := range e.Connectors {
		if connector.Id == id {
			return connector
		}
	}
	return nil
}

func (e *Evse) Clone() *Evse {
	clone := *e
	if e.Connectors != nil {
		clone.Connectors = make([]*Connector, len(e.Connectors))
		for i, connector := range e.Connectors {
			clone.Connectors[i] = connector.Clone()
		}
	}
	clone.EnergyMeter = e.EnergyMeter.Clone()
	if e.LastUpdated != nil {
		ts := *e.LastUpdated
		clone.LastUpdated = &ts
	}
	return &clone
}

// ViewFor returns a copy with every connector's tariff reference resolved
// for the given EMSP.
func (e *Evse) ViewFor(emspId string) *Evse {
	view := e.Clone()
	for i, connector := range e.Connectors {
		view.Connectors[i] = connector.ViewFor(emspId)
	}
	return view
}

// ReplaceConnector swaps (or appends) a connector and lifts the child's
// last_updated to the EVSE when it is newer.
func (e *Evse) ReplaceConnector(connector *Connector) {
	for i, existing := range e.Connectors {
		if existing.Id == connector.Id {
			e.Connectors[i] = connector
			e.bumpLastUpdated(connector.LastUpdated)
			return
		}
	}
	e.Connectors = append(e.Connectors, connector)
	e.bumpLastUpdated(connector.LastUpdated)
}

func (e *Evse) bumpLastUpdated(ts *types.DateTime) {
	if ts == nil {
		return
	}
	if e.LastUpdated == nil || ts.Time.After(e.LastUpdated.Time) {
		e.LastUpdated = ts
	}
}

func evsePatchPolicy() patch.Policy {
	return patch.Policy{
		Resource:  "an EVSE",
		Immutable: map[string]string{"uid": "unique identification"},
		Validators: map[string]patch.FieldRule{
			"status": {Display: "EVSE status", Valid: func(v interface{}) bool {
				s, ok := v.(string)
				return ok && IsValidStatus(Status(s))
			}},
		},
	}
}

func (e *Evse) Patch(body []byte) patch.Result[*Evse] {
	return patch.Apply(e, body, evsePatchPolicy())
}
