package internal

import (
	"ocpinode/auth"
	"ocpinode/entity/cdr"
	"ocpinode/entity/location"
	"ocpinode/entity/session"
	"ocpinode/entity/tariff"
	"ocpinode/entity/token"
)

// Database Persistence behind the OCPI node: the resource store, the
// counterparty registry and the audit log. The registry part satisfies
// auth.Registry.
type Database interface {
	WriteLogMessage(data Data) error
	ReadLog() (interface{}, error)

	LookupRemoteParties(token string) ([]*auth.RemoteParty, error)
	GetRemoteParties() ([]*auth.RemoteParty, error)
	AddRemoteParty(party *auth.RemoteParty) error

	GetLocations(countryCode, partyId string) ([]*location.Location, error)
	GetLocation(countryCode, partyId, id string) (*location.Location, error)
	UpsertLocation(loc *location.Location) error

	GetTariffs(countryCode, partyId string) ([]*tariff.Tariff, error)
	GetTariff(countryCode, partyId, id string) (*tariff.Tariff, error)
	UpsertTariff(trf *tariff.Tariff) error

	GetSession(countryCode, partyId, id string) (*session.Session, error)
	UpsertSession(ses *session.Session) error

	GetToken(countryCode, partyId, uid string) (*token.Token, error)
	UpsertToken(tok *token.Token) error

	GetCdr(countryCode, partyId, id string) (*cdr.Cdr, error)
	AddCdr(record *cdr.Cdr) error
}

type Data interface {
	DataType() string
}
