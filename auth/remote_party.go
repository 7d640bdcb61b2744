// Package auth resolves inbound access tokens to configured counterparties.
package auth

import (
	"fmt"
	"time"

	"ocpinode/entity/common"
	"ocpinode/types"
)

type Role string

const (
	RoleCPO   Role = "CPO"
	RoleEMSP  Role = "EMSP"
	RoleHub   Role = "HUB"
	RoleNSP   Role = "NSP"
	RoleOther Role = "OTHER"
)

type TokenStatus string

const (
	TokenAllowed TokenStatus = "ALLOWED"
	TokenBlocked TokenStatus = "BLOCKED"
	TokenExpired TokenStatus = "EXPIRED"
)

// AccessToken One credential a counterparty may present, with its validity window.
type AccessToken struct {
	Token     string          `json:"token" bson:"token"`
	Status    TokenStatus     `json:"status" bson:"status"`
	NotBefore *types.DateTime `json:"not_before,omitempty" bson:"not_before,omitempty"`
	NotAfter  *types.DateTime `json:"not_after,omitempty" bson:"not_after,omitempty"`
}

func (t *AccessToken) IsLive(now time.Time) bool {
	if t.Status != TokenAllowed {
		return false
	}
	if t.NotBefore != nil && now.Before(t.NotBefore.Time) {
		return false
	}
	if t.NotAfter != nil && now.After(t.NotAfter.Time) {
		return false
	}
	return true
}

// RemoteParty A configured counterparty: role, ids, credentials and its
// version-discovery endpoint. Read-mostly configuration, looked up per request.
type RemoteParty struct {
	CountryCode     string                  `json:"country_code" bson:"country_code"`
	PartyId         string                  `json:"party_id" bson:"party_id"`
	Role            Role                    `json:"role" bson:"role"`
	BusinessDetails *common.BusinessDetails `json:"business_details,omitempty" bson:"business_details,omitempty"`
	AccessTokens    []*AccessToken          `json:"access_tokens" bson:"access_tokens"`
	VersionsURL     string                  `json:"versions_url,omitempty" bson:"versions_url,omitempty"`
}

// CPOId renders the CPO identifier with the asterisk separator the external
// spec mandates for that role; empty for any other role.
func (p *RemoteParty) CPOId() string {
	if p.Role != RoleCPO {
		return ""
	}
	return fmt.Sprintf("%s*%s", p.CountryCode, p.PartyId)
}

// EMSPId renders the EMSP identifier with the dash separator; empty for any
// other role.
func (p *RemoteParty) EMSPId() string {
	if p.Role != RoleEMSP {
		return ""
	}
	return fmt.Sprintf("%s-%s", p.CountryCode, p.PartyId)
}

// LiveToken finds the party's live credential matching the given value.
func (p *RemoteParty) LiveToken(value string, now time.Time) *AccessToken {
	for _, token := range p.AccessTokens {
		if token.Token == value && token.IsLive(now) {
			return token
		}
	}
	return nil
}

// LocalAccessInfo The resolved identity attached to a request for the whole
// handler invocation.
type LocalAccessInfo struct {
	Token           string
	Status          TokenStatus
	CountryCode     string
	PartyId         string
	Role            Role
	BusinessDetails *common.BusinessDetails
	NotBefore       *types.DateTime
	NotAfter        *types.DateTime
	VersionsURL     string
	CPOId           string
	EMSPId          string
}

// IsParty reports whether the resolved identity matches the given ids.
func (i *LocalAccessInfo) IsParty(countryCode, partyId string) bool {
	return i != nil && i.CountryCode == countryCode && i.PartyId == partyId
}
