// Package location holds the Location resource tree: Location owns its EVSEs,
// an EVSE owns its connectors. Identity of a location is the tuple
// (country_code, party_id, id) within the owning party's namespace.
package location

import (
	"encoding/json"
	"fmt"

	"ocpinode/entity/common"
	"ocpinode/patch"
	"ocpinode/types"
)

type Location struct {
	CountryCode string                  `json:"country_code,omitempty" bson:"country_code"`
	PartyId     string                  `json:"party_id,omitempty" bson:"party_id"`
	Id          string                  `json:"id" bson:"id"`
	Publish     bool                    `json:"publish" bson:"publish"`
	Type        LocationType            `json:"type,omitempty" bson:"type,omitempty"`
	Name        string                  `json:"name,omitempty" bson:"name,omitempty"`
	Address     string                  `json:"address" bson:"address"`
	City        string                  `json:"city" bson:"city"`
	PostalCode  string                  `json:"postal_code,omitempty" bson:"postal_code,omitempty"`
	Country     string                  `json:"country" bson:"country"`
	Coordinates *common.GeoLocation     `json:"coordinates" bson:"coordinates"`
	Evses       []*Evse                 `json:"evses,omitempty" bson:"evses,omitempty"`
	Directions  []*common.DisplayText   `json:"directions,omitempty" bson:"directions,omitempty"`
	Operator    *common.BusinessDetails `json:"operator,omitempty" bson:"operator,omitempty"`
	Suboperator *common.BusinessDetails `json:"suboperator,omitempty" bson:"suboperator,omitempty"`
	Owner       *common.BusinessDetails `json:"owner,omitempty" bson:"owner,omitempty"`
	Facilities  []Facility              `json:"facilities,omitempty" bson:"facilities,omitempty"`
	TimeZone    string                  `json:"time_zone,omitempty" bson:"time_zone,omitempty"`
	EnergyMix   *common.EnergyMix       `json:"energy_mix,omitempty" bson:"energy_mix,omitempty"`
	LastUpdated *types.DateTime         `json:"last_updated" bson:"last_updated"`
}

func (l *Location) Serialize() ([]byte, error) {
	return json.Marshal(l)
}

// Parse builds a location from its wire form. The identity context keys are
// supplied by the caller because OCPI omits parent identity in nested
// positions; values present in the body win over the context.
func Parse(data []byte, countryCode, partyId string) (*Location, error) {
	loc := &Location{}
	if err := json.Unmarshal(data, loc); err != nil {
		return nil, fmt.Errorf("invalid location: %w", err)
	}
	if loc.CountryCode == "" {
		loc.CountryCode = countryCode
	}
	if loc.PartyId == "" {
		loc.PartyId = partyId
	}
	if err := loc.Validate(); err != nil {
		return nil, err
	}
	return loc, nil
}

func (l *Location) Validate() error {
	if l.Id == "" {
		return fmt.Errorf("missing 'id' in location")
	}
	if l.CountryCode == "" {
		return fmt.Errorf("missing 'country_code' in location")
	}
	if l.PartyId == "" {
		return fmt.Errorf("missing 'party_id' in location")
	}
	if l.Address == "" {
		return fmt.Errorf("missing 'address' in location")
	}
	if l.City == "" {
		return fmt.Errorf("missing 'city' in location")
	}
	if l.Country == "" {
		return fmt.Errorf("missing 'country' in location")
	}
	if !l.Coordinates.IsSet() {
		return fmt.Errorf("missing 'coordinates' in location")
	}
	if l.LastUpdated == nil {
		return fmt.Errorf("missing 'last_updated' in location")
	}
	if l.Type != "" {
		l.Type = NormalizeLocationType(l.Type)
	}
	for _, evse := range l.Evses {
		if err := evse.Validate(); err != nil {
			return err
		}
	}
	return nil
}

// GetEvse finds a nested EVSE by uid; nil when absent.
func (l *Location) GetEvse(uid string) *Evse {
	for _, evse := range l.Evses {
		if evse.UId == uid {
			return evse
		}
	}
	return nil
}

func (l *Location) Clone() *Location {
	clone := *l
	if l.Evses != nil {
		clone.Evses = make([]*Evse, len(l.Evses))
		for i, evse := range l.Evses {
			clone.Evses[i] = evse.Clone()
		}
	}
	clone.EnergyMix = l.EnergyMix.Clone()
	if l.LastUpdated != nil {
		ts := *l.LastUpdated
		clone.LastUpdated = &ts
	}
	return &clone
}

// ViewFor returns a copy with every nested connector's tariff reference
// resolved for the given EMSP.
func (l *Location) ViewFor(emspId string) *Location {
	view := l.Clone()
	for i, evse := range l.Evses {
		view.Evses[i] = evse.ViewFor(emspId)
	}
	return view
}

// ReplaceEvse swaps (or appends) a nested EVSE and lifts the child's
// last_updated to the location when it is newer.
func (l *Location) ReplaceEvse(evse *Evse) {
	for i, existing := range l.Evses {
		if existing.UId == evse.UId {
			l.Evses[i] = evse
			l.bumpLastUpdated(evse.LastUpdated)
			return
		}
	}
	l.Evses = append(l.Evses, evse)
	l.bumpLastUpdated(evse.LastUpdated)
}

func (l *Location) bumpLastUpdated(ts *types.DateTime) {
	if ts == nil {
		return
	}
	if l.LastUpdated == nil || ts.Time.After(l.LastUpdated.Time) {
		l.LastUpdated = ts
	}
}

func locationPatchPolicy() patch.Policy {
	return patch.Policy{
		Resource: "a location",
		Immutable: map[string]string{
			"country_code": "country code",
			"party_id":     "party identification",
			"id":           "identification",
			"evses":        "evses",
		},
	}
}

func (l *Location) Patch(body []byte) patch.Result[*Location] {
	return patch.Apply(l, body, locationPatchPolicy())
}
