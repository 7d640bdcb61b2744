package server

import (
	"fmt"
	"net/http"

	"ocpinode/entity/cdr"
	"ocpinode/entity/tariff"
	"ocpinode/ocpi"
	"ocpinode/utility"

	"github.com/julienschmidt/httprouter"
)

const ModuleCdrs = "cdrs"

func (s *Server) getCdr(_ *ocpi.Request, params httprouter.Params) *ocpi.Builder {
	id := params.ByName("cdr_id")
	record, err := s.store.GetCdr(params.ByName("country_code"), params.ByName("party_id"), id)
	if err != nil {
		return ocpi.ServerError(err.Error())
	}
	if record == nil {
		return ocpi.UnknownObject(fmt.Sprintf("unknown cdr '%s'", id))
	}
	return ocpi.Success(record)
}

func (s *Server) postCdr(request *ocpi.Request, params httprouter.Params) *ocpi.Builder {
	countryCode := params.ByName("country_code")
	partyId := params.ByName("party_id")
	if fail := requireParty(request, countryCode, partyId); fail != nil {
		return fail
	}
	record, err := cdr.Parse(request.Body, countryCode, partyId)
	if err != nil {
		return ocpi.InvalidBody(err.Error())
	}
	existing, err := s.store.GetCdr(countryCode, partyId, record.Id)
	if err != nil {
		return ocpi.ServerError(err.Error())
	}
	if existing != nil {
		return ocpi.ClientError(fmt.Sprintf("cdr '%s' already exists", record.Id))
	}
	if len(record.Tariffs) == 0 {
		if err = s.attachBilledTariffs(record); err != nil {
			return ocpi.ServerError(err.Error())
		}
	}
	if err = s.store.AddCdr(record); err != nil {
		return ocpi.ServerError(err.Error())
	}
	response := ocpi.Success(nil)
	response.HTTPStatus = http.StatusCreated
	response.HTTPLocation = fmt.Sprintf("%s/cdrs/%s/%s/%s", versionEndpoint, countryCode, partyId, record.Id)
	return response
}

// attachBilledTariffs snapshots the tariffs referenced by the record's
// location into the record itself, so later tariff changes cannot alter a
// billed amount.
func (s *Server) attachBilledTariffs(record *cdr.Cdr) error {
	var ids []string
	for _, evse := range record.Location.Evses {
		for _, connector := range evse.Connectors {
			id := connector.GetTariffId()
			if id != "" && !utility.Contains(ids, id) {
				ids = append(ids, id)
			}
		}
	}
	var tariffs []*tariff.Tariff
	for _, id := range ids {
		trf, err := s.store.GetTariff(record.CountryCode, record.PartyId, id)
		if err != nil {
			return err
		}
		if trf != nil {
			tariffs = append(tariffs, trf)
		}
	}
	if len(tariffs) > 0 {
		record.AttachTariffs(tariffs)
	}
	return nil
}
