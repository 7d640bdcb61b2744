package server

import (
	"fmt"

	"ocpinode/ocpi"

	"github.com/julienschmidt/httprouter"
)

const ModuleVersions = "versions"

type versionEntry struct {
	Version string `json:"version"`
	URL     string `json:"url"`
}

type endpointEntry struct {
	Identifier string `json:"identifier"`
	Role       string `json:"role"`
	URL        string `json:"url"`
}

type versionDetails struct {
	Version   string          `json:"version"`
	Endpoints []endpointEntry `json:"endpoints"`
}

func (s *Server) baseURL() string {
	scheme := "http"
	if s.conf != nil && s.conf.Listen.TLS {
		scheme = "https"
	}
	host := "localhost"
	port := "9000"
	if s.conf != nil {
		host = s.conf.Listen.BindIP
		port = s.conf.Listen.Port
	}
	return fmt.Sprintf("%s://%s:%s", scheme, host, port)
}

func (s *Server) getVersions(_ *ocpi.Request, _ httprouter.Params) *ocpi.Builder {
	return ocpi.Success([]versionEntry{
		{Version: "2.2", URL: s.baseURL() + versionEndpoint},
	})
}

func (s *Server) getVersionDetails(_ *ocpi.Request, _ httprouter.Params) *ocpi.Builder {
	base := s.baseURL() + versionEndpoint
	return ocpi.Success(versionDetails{
		Version: "2.2",
		Endpoints: []endpointEntry{
			{Identifier: ModuleLocations, Role: "SENDER", URL: base + "/locations"},
			{Identifier: ModuleTariffs, Role: "SENDER", URL: base + "/tariffs"},
			{Identifier: ModuleSessions, Role: "SENDER", URL: base + "/sessions"},
			{Identifier: ModuleCdrs, Role: "RECEIVER", URL: base + "/cdrs"},
			{Identifier: ModuleTokens, Role: "RECEIVER", URL: base + "/tokens"},
		},
	})
}
