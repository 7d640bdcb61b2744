package auth

import (
	"sync"
	"time"
)

// Registry supplies the counterparty set; backed by the database in the node
// and by an in-memory list in tests and config-seeded setups.
type Registry interface {
	LookupRemoteParties(token string) ([]*RemoteParty, error)
}

type Resolver struct {
	registry Registry
}

func NewResolver(registry Registry) *Resolver {
	return &Resolver{registry: registry}
}

// Resolve maps a bearer credential to a counterparty identity. Exactly one
// match attaches an identity; zero or ambiguous matches resolve to nil
// without error, ambiguity is never settled by guessing.
func (r *Resolver) Resolve(token string) (*LocalAccessInfo, error) {
	if token == "" {
		return nil, nil
	}
	parties, err := r.registry.LookupRemoteParties(token)
	if err != nil {
		return nil, err
	}
	now := time.Now().UTC()
	var matched *RemoteParty
	var matchedToken *AccessToken
	for _, party := range parties {
		live := party.LiveToken(token, now)
		if live == nil {
			continue
		}
		if matched != nil {
			return nil, nil
		}
		matched = party
		matchedToken = live
	}
	if matched == nil {
		return nil, nil
	}
	return &LocalAccessInfo{
		Token:           matchedToken.Token,
		Status:          matchedToken.Status,
		CountryCode:     matched.CountryCode,
		PartyId:         matched.PartyId,
		Role:            matched.Role,
		BusinessDetails: matched.BusinessDetails,
		NotBefore:       matchedToken.NotBefore,
		NotAfter:        matchedToken.NotAfter,
		VersionsURL:     matched.VersionsURL,
		CPOId:           matched.CPOId(),
		EMSPId:          matched.EMSPId(),
	}, nil
}

// MemoryRegistry Mutex-guarded counterparty list for tests and static config.
type MemoryRegistry struct {
	mu      sync.RWMutex
	parties []*RemoteParty
}

func NewMemoryRegistry(parties ...*RemoteParty) *MemoryRegistry {
	return &MemoryRegistry{parties: parties}
}

func (m *MemoryRegistry) Add(party *RemoteParty) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.parties = append(m.parties, party)
}

func (m *MemoryRegistry) LookupRemoteParties(token string) ([]*RemoteParty, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var found []*RemoteParty
	for _, party := range m.parties {
		for _, accessToken := range party.AccessTokens {
			if accessToken.Token == token {
				found = append(found, party)
				break
			}
		}
	}
	return found, nil
}
