package server

import (
	"fmt"

	"ocpinode/entity/session"
	"ocpinode/metrics/counters"
	"ocpinode/ocpi"

	"github.com/julienschmidt/httprouter"
)

const ModuleSessions = "sessions"

func (s *Server) findSession(params httprouter.Params) (*session.Session, *ocpi.Builder) {
	id := params.ByName("session_id")
	ses, err := s.store.GetSession(params.ByName("country_code"), params.ByName("party_id"), id)
	if err != nil {
		return nil, ocpi.ServerError(err.Error())
	}
	if ses == nil {
		return nil, ocpi.UnknownObject(fmt.Sprintf("unknown session '%s'", id))
	}
	return ses, nil
}

func (s *Server) getSession(_ *ocpi.Request, params httprouter.Params) *ocpi.Builder {
	ses, fail := s.findSession(params)
	if fail != nil {
		return fail
	}
	return ocpi.Success(ses)
}

func (s *Server) putSession(request *ocpi.Request, params httprouter.Params) *ocpi.Builder {
	countryCode := params.ByName("country_code")
	partyId := params.ByName("party_id")
	if fail := requireParty(request, countryCode, partyId); fail != nil {
		return fail
	}
	ses, err := session.Parse(request.Body, countryCode, partyId)
	if err != nil {
		return ocpi.InvalidBody(err.Error())
	}
	if ses.Id != params.ByName("session_id") {
		return ocpi.InvalidBody("session id does not match the request path")
	}
	if err = s.store.UpsertSession(ses); err != nil {
		return ocpi.ServerError(err.Error())
	}
	return ocpi.Success(nil)
}

func (s *Server) patchSession(request *ocpi.Request, params httprouter.Params) *ocpi.Builder {
	if fail := requireParty(request, params.ByName("country_code"), params.ByName("party_id")); fail != nil {
		return fail
	}
	ses, fail := s.findSession(params)
	if fail != nil {
		return fail
	}
	result := ses.Patch(request.Body)
	if result.IsFailed() {
		counters.CountPatchFailure(ModuleSessions)
		return ocpi.InvalidBody(result.ErrorResponse)
	}
	if err := s.store.UpsertSession(result.PatchedData); err != nil {
		return ocpi.ServerError(err.Error())
	}
	return ocpi.Success(nil)
}
