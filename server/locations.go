package server

import (
	"encoding/json"
	"fmt"

	"ocpinode/entity/location"
	"ocpinode/metrics/counters"
	"ocpinode/ocpi"

	"github.com/julienschmidt/httprouter"
)

const ModuleLocations = "locations"

// getLocations renders the list as seen by the requesting EMSP so that
// per-EMSP tariff references resolve the same at every depth of the tree.
func (s *Server) getLocations(request *ocpi.Request, params httprouter.Params) *ocpi.Builder {
	list, err := s.store.GetLocations(params.ByName("country_code"), params.ByName("party_id"))
	if err != nil {
		return ocpi.ServerError(err.Error())
	}
	views := make([]*location.Location, len(list))
	for i, loc := range list {
		views[i] = loc.ViewFor(request.EMSPId())
	}
	return ocpi.Success(views)
}

func (s *Server) findLocation(params httprouter.Params) (*location.Location, *ocpi.Builder) {
	id := params.ByName("location_id")
	loc, err := s.store.GetLocation(params.ByName("country_code"), params.ByName("party_id"), id)
	if err != nil {
		return nil, ocpi.ServerError(err.Error())
	}
	if loc == nil {
		return nil, ocpi.UnknownObject(fmt.Sprintf("unknown location '%s'", id))
	}
	return loc, nil
}

func (s *Server) findEvse(params httprouter.Params) (*location.Location, *location.Evse, *ocpi.Builder) {
	loc, fail := s.findLocation(params)
	if fail != nil {
		return nil, nil, fail
	}
	uid := params.ByName("evse_uid")
	evse := loc.GetEvse(uid)
	if evse == nil {
		return nil, nil, ocpi.UnknownObject(fmt.Sprintf("unknown EVSE '%s'", uid))
	}
	return loc, evse, nil
}

func (s *Server) getLocation(request *ocpi.Request, params httprouter.Params) *ocpi.Builder {
	loc, fail := s.findLocation(params)
	if fail != nil {
		return fail
	}
	return ocpi.Success(loc.ViewFor(request.EMSPId()))
}

func (s *Server) getEvse(request *ocpi.Request, params httprouter.Params) *ocpi.Builder {
	_, evse, fail := s.findEvse(params)
	if fail != nil {
		return fail
	}
	return ocpi.Success(evse.ViewFor(request.EMSPId()))
}

// getConnector renders the connector as seen by the requesting EMSP: the
// per-EMSP tariff reference wins over the default one.
func (s *Server) getConnector(request *ocpi.Request, params httprouter.Params) *ocpi.Builder {
	_, evse, fail := s.findEvse(params)
	if fail != nil {
		return fail
	}
	id := params.ByName("connector_id")
	connector := evse.GetConnector(id)
	if connector == nil {
		return ocpi.UnknownObject(fmt.Sprintf("unknown connector '%s'", id))
	}
	data, err := connector.SerializeFor(request.EMSPId())
	if err != nil {
		return ocpi.ServerError(err.Error())
	}
	return ocpi.Success(json.RawMessage(data))
}

func (s *Server) putLocation(request *ocpi.Request, params httprouter.Params) *ocpi.Builder {
	countryCode := params.ByName("country_code")
	partyId := params.ByName("party_id")
	if fail := requireParty(request, countryCode, partyId); fail != nil {
		return fail
	}
	loc, err := location.Parse(request.Body, countryCode, partyId)
	if err != nil {
		return ocpi.InvalidBody(err.Error())
	}
	if loc.Id != params.ByName("location_id") {
		return ocpi.InvalidBody("location id does not match the request path")
	}
	if err = s.store.UpsertLocation(loc); err != nil {
		return ocpi.ServerError(err.Error())
	}
	return ocpi.Success(nil)
}

func (s *Server) putEvse(request *ocpi.Request, params httprouter.Params) *ocpi.Builder {
	if fail := requireParty(request, params.ByName("country_code"), params.ByName("party_id")); fail != nil {
		return fail
	}
	loc, fail := s.findLocation(params)
	if fail != nil {
		return fail
	}
	evse, err := location.ParseEvse(request.Body)
	if err != nil {
		return ocpi.InvalidBody(err.Error())
	}
	if evse.UId != params.ByName("evse_uid") {
		return ocpi.InvalidBody("EVSE uid does not match the request path")
	}
	loc.ReplaceEvse(evse)
	if err = s.store.UpsertLocation(loc); err != nil {
		return ocpi.ServerError(err.Error())
	}
	return ocpi.Success(nil)
}

func (s *Server) putConnector(request *ocpi.Request, params httprouter.Params) *ocpi.Builder {
	if fail := requireParty(request, params.ByName("country_code"), params.ByName("party_id")); fail != nil {
		return fail
	}
	loc, evse, fail := s.findEvse(params)
	if fail != nil {
		return fail
	}
	connector, err := location.ParseConnector(request.Body)
	if err != nil {
		return ocpi.InvalidBody(err.Error())
	}
	if connector.Id != params.ByName("connector_id") {
		return ocpi.InvalidBody("connector id does not match the request path")
	}
	evse.ReplaceConnector(connector)
	loc.ReplaceEvse(evse)
	if err = s.store.UpsertLocation(loc); err != nil {
		return ocpi.ServerError(err.Error())
	}
	return ocpi.Success(nil)
}

func (s *Server) patchLocation(request *ocpi.Request, params httprouter.Params) *ocpi.Builder {
	if fail := requireParty(request, params.ByName("country_code"), params.ByName("party_id")); fail != nil {
		return fail
	}
	loc, fail := s.findLocation(params)
	if fail != nil {
		return fail
	}
	result := loc.Patch(request.Body)
	if result.IsFailed() {
		counters.CountPatchFailure(ModuleLocations)
		return ocpi.InvalidBody(result.ErrorResponse)
	}
	if err := s.store.UpsertLocation(result.PatchedData); err != nil {
		return ocpi.ServerError(err.Error())
	}
	return ocpi.Success(nil)
}

func (s *Server) patchEvse(request *ocpi.Request, params httprouter.Params) *ocpi.Builder {
	if fail := requireParty(request, params.ByName("country_code"), params.ByName("party_id")); fail != nil {
		return fail
	}
	loc, evse, fail := s.findEvse(params)
	if fail != nil {
		return fail
	}
	result := evse.Patch(request.Body)
	if result.IsFailed() {
		counters.CountPatchFailure(ModuleLocations)
		return ocpi.InvalidBody(result.ErrorResponse)
	}
	loc.ReplaceEvse(result.PatchedData)
	if err := s.store.UpsertLocation(loc); err != nil {
		return ocpi.ServerError(err.Error())
	}
	return ocpi.Success(nil)
}

func (s *Server) patchConnector(request *ocpi.Request, params httprouter.Params) *ocpi.Builder {
	if fail := requireParty(request, params.ByName("country_code"), params.ByName("party_id")); fail != nil {
		return fail
	}
	loc, evse, fail := s.findEvse(params)
	if fail != nil {
		return fail
	}
	id := params.ByName("connector_id")
	connector := evse.GetConnector(id)
	if connector == nil {
		return ocpi.UnknownObject(fmt.Sprintf("unknown connector '%s'", id))
	}
	result := connector.Patch(request.Body)
	if result.IsFailed() {
		counters.CountPatchFailure(ModuleLocations)
		return ocpi.InvalidBody(result.ErrorResponse)
	}
	evse.ReplaceConnector(result.PatchedData)
	loc.ReplaceEvse(evse)
	if err := s.store.UpsertLocation(loc); err != nil {
		return ocpi.ServerError(err.Error())
	}
	return ocpi.Success(nil)
}
