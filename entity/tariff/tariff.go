package tariff

import (
	"encoding/json"
	"fmt"

	"ocpinode/entity/common"
	"ocpinode/patch"
	"ocpinode/types"

	"github.com/shopspring/decimal"
)

type Tariff struct {
	CountryCode   string                `json:"country_code,omitempty" bson:"country_code"`
	PartyId       string                `json:"party_id,omitempty" bson:"party_id"`
	Id            string                `json:"id" bson:"id" validate:"required,max=36"`
	Currency      string                `json:"currency" bson:"currency" validate:"required,len=3"`
	AltText       []*common.DisplayText `json:"tariff_alt_text,omitempty" bson:"tariff_alt_text,omitempty"`
	AltUrl        string                `json:"tariff_alt_url,omitempty" bson:"tariff_alt_url,omitempty" validate:"omitempty,url"`
	MinPrice      *common.Price         `json:"min_price,omitempty" bson:"min_price,omitempty"`
	MaxPrice      *common.Price         `json:"max_price,omitempty" bson:"max_price,omitempty"`
	Elements      []*Element            `json:"elements" bson:"elements" validate:"required,dive"`
	StartDateTime *types.DateTime       `json:"start_date_time,omitempty" bson:"start_date_time,omitempty"`
	EndDateTime   *types.DateTime       `json:"end_date_time,omitempty" bson:"end_date_time,omitempty"`
	EnergyMix     *common.EnergyMix     `json:"energy_mix,omitempty" bson:"energy_mix,omitempty"`
	LastUpdated   *types.DateTime       `json:"last_updated" bson:"last_updated"`
}

type Element struct {
	PriceComponents []*PriceComponent `json:"price_components" bson:"price_components" validate:"required,dive"`
	Restrictions    *Restrictions     `json:"restrictions,omitempty" bson:"restrictions,omitempty" validate:"omitempty"`
}

// PricePerKwh sums the energy components across all elements.
func (t *Tariff) PricePerKwh() decimal.Decimal {
	total := decimal.Zero
	for _, element := range t.Elements {
		for _, priceComponent := range element.PriceComponents {
			if priceComponent.IsEnergy() {
				total = total.Add(priceComponent.Price)
			}
		}
	}
	return total
}

func (t *Tariff) Serialize() ([]byte, error) {
	return json.Marshal(t)
}

// Parse builds a tariff from its wire form; country code and party id come
// from the request context when the body omits them.
func Parse(data []byte, countryCode, partyId string) (*Tariff, error) {
	tariff := &Tariff{}
	if err := json.Unmarshal(data, tariff); err != nil {
		return nil, fmt.Errorf("invalid tariff: %w", err)
	}
	if tariff.CountryCode == "" {
		tariff.CountryCode = countryCode
	}
	if tariff.PartyId == "" {
		tariff.PartyId = partyId
	}
	if err := tariff.Validate(); err != nil {
		return nil, err
	}
	return tariff, nil
}

func (t *Tariff) Validate() error {
	if t.Id == "" {
		return fmt.Errorf("missing 'id' in tariff")
	}
	if len(t.Currency) != 3 {
		return fmt.Errorf("invalid currency '%s' in tariff", t.Currency)
	}
	if len(t.Elements) == 0 {
		return fmt.Errorf("missing 'elements' in tariff")
	}
	for _, element := range t.Elements {
		if len(element.PriceComponents) == 0 {
			return fmt.Errorf("missing 'price_components' in tariff element")
		}
		for _, priceComponent := range element.PriceComponents {
			if !IsValidDimensionType(priceComponent.Type) {
				return fmt.Errorf("invalid price component type '%s'", priceComponent.Type)
			}
		}
	}
	if t.LastUpdated == nil {
		return fmt.Errorf("missing 'last_updated' in tariff")
	}
	return nil
}

// Clone Deep copy for snapshot composition, e.g. the tariff list owned by a CDR.
func (t *Tariff) Clone() *Tariff {
	clone := *t
	if t.Elements != nil {
		clone.Elements = make([]*Element, len(t.Elements))
		for i, element := range t.Elements {
			e := Element{}
			if element.PriceComponents != nil {
				e.PriceComponents = make([]*PriceComponent, len(element.PriceComponents))
				for j, pc := range element.PriceComponents {
					component := *pc
					e.PriceComponents[j] = &component
				}
			}
			if element.Restrictions != nil {
				restrictions := *element.Restrictions
				e.Restrictions = &restrictions
			}
			clone.Elements[i] = &e
		}
	}
	clone.EnergyMix = t.EnergyMix.Clone()
	if t.LastUpdated != nil {
		ts := *t.LastUpdated
		clone.LastUpdated = &ts
	}
	return &clone
}

func Empty() *Tariff {
	return &Tariff{
		Elements: []*Element{{PriceComponents: []*PriceComponent{NewPriceEnergy()}}},
	}
}

func tariffPatchPolicy() patch.Policy {
	return patch.Policy{
		Resource: "a tariff",
		Immutable: map[string]string{
			"country_code": "country code",
			"party_id":     "party identification",
			"id":           "identification",
		},
		Validators: map[string]patch.FieldRule{
			"currency": {Display: "currency", Valid: func(v interface{}) bool {
				s, ok := v.(string)
				return ok && len(s) == 3
			}},
		},
	}
}

func (t *Tariff) Patch(body []byte) patch.Result[*Tariff] {
	return patch.Apply(t, body, tariffPatchPolicy())
}
