package server

import (
	"fmt"

	"ocpinode/entity/tariff"
	"ocpinode/metrics/counters"
	"ocpinode/ocpi"

	"github.com/julienschmidt/httprouter"
)

const ModuleTariffs = "tariffs"

func (s *Server) getTariffs(_ *ocpi.Request, params httprouter.Params) *ocpi.Builder {
	list, err := s.store.GetTariffs(params.ByName("country_code"), params.ByName("party_id"))
	if err != nil {
		return ocpi.ServerError(err.Error())
	}
	return ocpi.Success(list)
}

func (s *Server) findTariff(params httprouter.Params) (*tariff.Tariff, *ocpi.Builder) {
	id := params.ByName("tariff_id")
	trf, err := s.store.GetTariff(params.ByName("country_code"), params.ByName("party_id"), id)
	if err != nil {
		return nil, ocpi.ServerError(err.Error())
	}
	if trf == nil {
		return nil, ocpi.UnknownObject(fmt.Sprintf("unknown tariff '%s'", id))
	}
	return trf, nil
}

func (s *Server) getTariff(_ *ocpi.Request, params httprouter.Params) *ocpi.Builder {
	trf, fail := s.findTariff(params)
	if fail != nil {
		return fail
	}
	return ocpi.Success(trf)
}

func (s *Server) putTariff(request *ocpi.Request, params httprouter.Params) *ocpi.Builder {
	countryCode := params.ByName("country_code")
	partyId := params.ByName("party_id")
	if fail := requireParty(request, countryCode, partyId); fail != nil {
		return fail
	}
	trf, err := tariff.Parse(request.Body, countryCode, partyId)
	if err != nil {
		return ocpi.InvalidBody(err.Error())
	}
	if trf.Id != params.ByName("tariff_id") {
		return ocpi.InvalidBody("tariff id does not match the request path")
	}
	if err = s.store.UpsertTariff(trf); err != nil {
		return ocpi.ServerError(err.Error())
	}
	return ocpi.Success(nil)
}

func (s *Server) patchTariff(request *ocpi.Request, params httprouter.Params) *ocpi.Builder {
	if fail := requireParty(request, params.ByName("country_code"), params.ByName("party_id")); fail != nil {
		return fail
	}
	trf, fail := s.findTariff(params)
	if fail != nil {
		return fail
	}
	result := trf.Patch(request.Body)
	if result.IsFailed() {
		counters.CountPatchFailure(ModuleTariffs)
		return ocpi.InvalidBody(result.ErrorResponse)
	}
	if err := s.store.UpsertTariff(result.PatchedData); err != nil {
		return ocpi.ServerError(err.Error())
	}
	return ocpi.Success(nil)
}
