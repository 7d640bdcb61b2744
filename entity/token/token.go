// Package token holds the Token resource: an EMSP-issued charging credential
// pushed to CPOs for authorization decisions.
package token

import (
	"encoding/json"
	"fmt"

	"ocpinode/patch"
	"ocpinode/types"
)

type Type string

const (
	TypeRfid    Type = "RFID"
	TypeAppUser Type = "APP_USER"
	TypeAdHoc   Type = "AD_HOC_USER"
	TypeOther   Type = "OTHER"
)

// NormalizeType Descriptive field: unknown wire values map to OTHER.
func NormalizeType(t Type) Type {
	switch t {
	case TypeRfid, TypeAppUser, TypeAdHoc:
		return t
	default:
		return TypeOther
	}
}

// WhitelistType When the CPO may authorize this token without a real-time check.
type WhitelistType string

const (
	WhitelistAlways         WhitelistType = "ALWAYS"
	WhitelistAllowed        WhitelistType = "ALLOWED"
	WhitelistAllowedOffline WhitelistType = "ALLOWED_OFFLINE"
	WhitelistNever          WhitelistType = "NEVER"
)

func IsValidWhitelistType(w WhitelistType) bool {
	switch w {
	case WhitelistAlways, WhitelistAllowed, WhitelistAllowedOffline, WhitelistNever:
		return true
	}
	return false
}

type Token struct {
	CountryCode  string          `json:"country_code,omitempty" bson:"country_code"`
	PartyId      string          `json:"party_id,omitempty" bson:"party_id"`
	Uid          string          `json:"uid" bson:"uid"`
	Type         Type            `json:"type" bson:"type"`
	AuthId       string          `json:"auth_id" bson:"auth_id"`
	VisualNumber string          `json:"visual_number,omitempty" bson:"visual_number,omitempty"`
	Issuer       string          `json:"issuer" bson:"issuer"`
	Valid        bool            `json:"valid" bson:"valid"`
	Whitelist    WhitelistType   `json:"whitelist" bson:"whitelist"`
	Language     string          `json:"language,omitempty" bson:"language,omitempty"`
	LastUpdated  *types.DateTime `json:"last_updated" bson:"last_updated"`
}

func (t *Token) Serialize() ([]byte, error) {
	return json.Marshal(t)
}

func Parse(data []byte, countryCode, partyId string) (*Token, error) {
	tok := &Token{}
	if err := json.Unmarshal(data, tok); err != nil {
		return nil, fmt.Errorf("invalid token: %w", err)
	}
	if tok.CountryCode == "" {
		tok.CountryCode = countryCode
	}
	if tok.PartyId == "" {
		tok.PartyId = partyId
	}
	if err := tok.Validate(); err != nil {
		return nil, err
	}
	return tok, nil
}

func (t *Token) Validate() error {
	if t.Uid == "" {
		return fmt.Errorf("missing 'uid' in token")
	}
	if t.AuthId == "" {
		return fmt.Errorf("missing 'auth_id' in token")
	}
	if t.Issuer == "" {
		return fmt.Errorf("missing 'issuer' in token")
	}
	if !IsValidWhitelistType(t.Whitelist) {
		return fmt.Errorf("invalid whitelist type '%s' in token", t.Whitelist)
	}
	if t.LastUpdated == nil {
		return fmt.Errorf("missing 'last_updated' in token")
	}
	t.Type = NormalizeType(t.Type)
	return nil
}

func tokenPatchPolicy() patch.Policy {
	return patch.Policy{
		Resource: "a token",
		Immutable: map[string]string{
			"country_code": "country code",
			"party_id":     "party identification",
			"uid":          "unique identification",
		},
		Validators: map[string]patch.FieldRule{
			"whitelist": {Display: "whitelist type", Valid: func(v interface{}) bool {
				value, ok := v.(string)
				return ok && IsValidWhitelistType(WhitelistType(value))
			}},
		},
	}
}

func (t *Token) Patch(body []byte) patch.Result[*Token] {
	return patch.Apply(t, body, tokenPatchPolicy())
}
