package server

import (
	"fmt"

	"ocpinode/entity/token"
	"ocpinode/metrics/counters"
	"ocpinode/ocpi"

	"github.com/julienschmidt/httprouter"
)

const ModuleTokens = "tokens"

func (s *Server) findToken(params httprouter.Params) (*token.Token, *ocpi.Builder) {
	uid := params.ByName("token_uid")
	tok, err := s.store.GetToken(params.ByName("country_code"), params.ByName("party_id"), uid)
	if err != nil {
		return nil, ocpi.ServerError(err.Error())
	}
	if tok == nil {
		return nil, ocpi.UnknownObject(fmt.Sprintf("unknown token '%s'", uid))
	}
	return tok, nil
}

func (s *Server) getToken(_ *ocpi.Request, params httprouter.Params) *ocpi.Builder {
	tok, fail := s.findToken(params)
	if fail != nil {
		return fail
	}
	return ocpi.Success(tok)
}

func (s *Server) putToken(request *ocpi.Request, params httprouter.Params) *ocpi.Builder {
	countryCode := params.ByName("country_code")
	partyId := params.ByName("party_id")
	if fail := requireParty(request, countryCode, partyId); fail != nil {
		return fail
	}
	tok, err := token.Parse(request.Body, countryCode, partyId)
	if err != nil {
		return ocpi.InvalidBody(err.Error())
	}
	if tok.Uid != params.ByName("token_uid") {
		return ocpi.InvalidBody("token uid does not match the request path")
	}
	if err = s.store.UpsertToken(tok); err != nil {
		return ocpi.ServerError(err.Error())
	}
	return ocpi.Success(nil)
}

func (s *Server) patchToken(request *ocpi.Request, params httprouter.Params) *ocpi.Builder {
	if fail := requireParty(request, params.ByName("country_code"), params.ByName("party_id")); fail != nil {
		return fail
	}
	tok, fail := s.findToken(params)
	if fail != nil {
		return fail
	}
	result := tok.Patch(request.Body)
	if result.IsFailed() {
		counters.CountPatchFailure(ModuleTokens)
		return ocpi.InvalidBody(result.ErrorResponse)
	}
	if err := s.store.UpsertToken(result.PatchedData); err != nil {
		return ocpi.ServerError(err.Error())
	}
	return ocpi.Success(nil)
}
