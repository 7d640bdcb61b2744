package location

import (
	"encoding/json"
	"fmt"

	"ocpinode/patch"
	"ocpinode/types"
)

// Connector A plug on an EVSE. Nested resource, keyed by Id within its parent.
// The tariff reference is either the single default TariffId or the per-EMSP
// map; the wire form only ever carries the single id, resolved for the
// requesting EMSP at serialization time.
type Connector struct {
	Id                 string            `json:"id" bson:"id"`
	Standard           ConnectorType     `json:"standard" bson:"standard"`
	Format             ConnectorFormat   `json:"format" bson:"format"`
	PowerType          PowerType         `json:"power_type" bson:"power_type"`
	Voltage            int               `json:"voltage" bson:"voltage"`
	Amperage           int               `json:"amperage" bson:"amperage"`
	TariffId           string            `json:"tariff_id,omitempty" bson:"tariff_id,omitempty"`
	EmspTariffIds      map[string]string `json:"-" bson:"emsp_tariff_ids,omitempty"`
	TermsAndConditions string            `json:"terms_and_conditions,omitempty" bson:"terms_and_conditions,omitempty"`
	LastUpdated        *types.DateTime   `json:"last_updated" bson:"last_updated"`
}

// GetTariffId resolves the applicable tariff. With an EMSP id the per-EMSP
// map wins over the default; empty string means no tariff applies.
func (c *Connector) GetTariffId(emspId ...string) string {
	if len(emspId) > 0 && emspId[0] != "" {
		if id, ok := c.EmspTariffIds[emspId[0]]; ok {
			return id
		}
	}
	return c.TariffId
}

func (c *Connector) Serialize() ([]byte, error) {
	return json.Marshal(c)
}

// SerializeFor renders the wire form seen by one EMSP: the per-EMSP tariff
// lookup overrides the default tariff_id.
func (c *Connector) SerializeFor(emspId string) ([]byte, error) {
	return json.Marshal(c.ViewFor(emspId))
}

// ViewFor returns a copy with the tariff reference resolved for the given
// EMSP. The receiver is never mutated.
func (c *Connector) ViewFor(emspId string) *Connector {
	view := c.Clone()
	view.TariffId = c.GetTariffId(emspId)
	return view
}

// ParseConnector validates all mandatory fields; identity-critical enums
// reject unknown values. Errors are structured strings for 2001 responses.
func ParseConnector(data []byte) (*Connector, error) {
	connector := &Connector{}
	if err := json.Unmarshal(data, connector); err != nil {
		return nil, fmt.Errorf("invalid connector: %w", err)
	}
	if err := connector.Validate(); err != nil {
		return nil, err
	}
	return connector, nil
}

func (c *Connector) Validate() error {
	if c.Id == "" {
		return fmt.Errorf("missing 'id' in connector")
	}
	if !IsValidConnectorType(c.Standard) {
		return fmt.Errorf("invalid connector standard '%s'", c.Standard)
	}
	if !IsValidConnectorFormat(c.Format) {
		return fmt.Errorf("invalid connector format '%s'", c.Format)
	}
	if !IsValidPowerType(c.PowerType) {
		return fmt.Errorf("invalid power type '%s'", c.PowerType)
	}
	if c.LastUpdated == nil {
		return fmt.Errorf("missing 'last_updated' in connector")
	}
	return nil
}

func (c *Connector) Clone() *Connector {
	clone := *c
	if c.EmspTariffIds != nil {
		clone.EmspTariffIds = make(map[string]string, len(c.EmspTariffIds))
		for k, v := range c.EmspTariffIds {
			clone.EmspTariffIds[k] = v
		}
	}
	if c.LastUpdated != nil {
		ts := *c.LastUpdated
		clone.LastUpdated = &ts
	}
	return &clone
}

func connectorPatchPolicy() patch.Policy {
	return patch.Policy{
		Resource:  "a connector",
		Immutable: map[string]string{"id": "identification"},
		Validators: map[string]patch.FieldRule{
			"standard": {Display: "connector standard", Valid: func(v interface{}) bool {
				s, ok := v.(string)
				return ok && IsValidConnectorType(ConnectorType(s))
			}},
			"format": {Display: "connector format", Valid: func(v interface{}) bool {
				s, ok := v.(string)
				return ok && IsValidConnectorFormat(ConnectorFormat(s))
			}},
			"power_type": {Display: "power type", Valid: func(v interface{}) bool {
				s, ok := v.(string)
				return ok && IsValidPowerType(PowerType(s))
			}},
		},
	}
}

// Patch applies a JSON merge patch, returning the tri-state result; the
// original connector is never mutated. The per-EMSP tariff map is not part
// of the wire form and survives the patch untouched.
func (c *Connector) Patch(body []byte) patch.Result[*Connector] {
	result := patch.Apply(c, body, connectorPatchPolicy())
	if result.IsSuccess() && c.EmspTariffIds != nil {
		ids := make(map[string]string, len(c.EmspTariffIds))
		for k, v := range c.EmspTariffIds {
			ids[k] = v
		}
		result.PatchedData.EmspTariffIds = ids
	}
	return result
}
