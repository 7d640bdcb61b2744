package server

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"runtime/debug"
	"time"

	"ocpinode/entity/cdr"
	"ocpinode/entity/location"
	"ocpinode/entity/session"
	"ocpinode/entity/tariff"
	"ocpinode/entity/token"
	"ocpinode/event"
	"ocpinode/internal"
	"ocpinode/internal/config"
	"ocpinode/metrics/counters"
	"ocpinode/ocpi"
	"ocpinode/utility"

	"github.com/gorilla/websocket"
	"github.com/julienschmidt/httprouter"
)

const (
	versionsEndpoint = "/ocpi/versions"
	versionEndpoint  = "/ocpi/2.2"
	monitorEndpoint  = "/ocpi/monitor"
)

// Store The slice of persistence the transport needs; internal.Database
// satisfies it.
type Store interface {
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

// Journal The read side of the audit log, served to monitor clients on
// request; internal.Database satisfies it.
type Journal interface {
	ReadLog() (interface{}, error)
}

type Server struct {
	conf       *config.Config
	httpServer *http.Server
	upgrader   websocket.Upgrader
	store      Store
	resolver   ocpi.TokenResolver
	notifier   *event.Notifier
	logger     internal.LogHandler
	journal    Journal
}

func NewServer(conf *config.Config) *Server {
	server := &Server{
		conf:     conf,
		upgrader: websocket.Upgrader{},
	}
	// register itself as a router for httpServer handler
	router := httprouter.New()
	server.Register(router)
	server.httpServer = &http.Server{
		Handler: router,
	}
	return server
}

func (s *Server) SetStore(store Store) {
	s.store = store
}

func (s *Server) SetResolver(resolver ocpi.TokenResolver) {
	s.resolver = resolver
}

func (s *Server) SetNotifier(notifier *event.Notifier) {
	s.notifier = notifier
}

func (s *Server) SetLogger(logger internal.LogHandler) {
	s.logger = logger
}

func (s *Server) SetJournal(journal Journal) {
	s.journal = journal
}

func (s *Server) Register(router *httprouter.Router) {
	router.GET(versionsEndpoint, s.handle(ModuleVersions, s.getVersions))
	router.GET(versionEndpoint, s.handle(ModuleVersions, s.getVersionDetails))

	locations := versionEndpoint + "/locations/:country_code/:party_id"
	router.GET(locations, s.handle(ModuleLocations, s.getLocations))
	router.GET(locations+"/:location_id", s.handle(ModuleLocations, s.getLocation))
	router.GET(locations+"/:location_id/:evse_uid", s.handle(ModuleLocations, s.getEvse))
	router.GET(locations+"/:location_id/:evse_uid/:connector_id", s.handle(ModuleLocations, s.getConnector))
	router.PUT(locations+"/:location_id", s.handle(ModuleLocations, s.putLocation))
	router.PUT(locations+"/:location_id/:evse_uid", s.handle(ModuleLocations, s.putEvse))
	router.PUT(locations+"/:location_id/:evse_uid/:connector_id", s.handle(ModuleLocations, s.putConnector))
	router.PATCH(locations+"/:location_id", s.handle(ModuleLocations, s.patchLocation))
	router.PATCH(locations+"/:location_id/:evse_uid", s.handle(ModuleLocations, s.patchEvse))
	router.PATCH(locations+"/:location_id/:evse_uid/:connector_id", s.handle(ModuleLocations, s.patchConnector))

	tariffs := versionEndpoint + "/tariffs/:country_code/:party_id"
	router.GET(tariffs, s.handle(ModuleTariffs, s.getTariffs))
	router.GET(tariffs+"/:tariff_id", s.handle(ModuleTariffs, s.getTariff))
	router.PUT(tariffs+"/:tariff_id", s.handle(ModuleTariffs, s.putTariff))
	router.PATCH(tariffs+"/:tariff_id", s.handle(ModuleTariffs, s.patchTariff))

	sessions := versionEndpoint + "/sessions/:country_code/:party_id"
	router.GET(sessions+"/:session_id", s.handle(ModuleSessions, s.getSession))
	router.PUT(sessions+"/:session_id", s.handle(ModuleSessions, s.putSession))
	router.PATCH(sessions+"/:session_id", s.handle(ModuleSessions, s.patchSession))

	cdrs := versionEndpoint + "/cdrs/:country_code/:party_id"
	router.GET(cdrs+"/:cdr_id", s.handle(ModuleCdrs, s.getCdr))
	router.POST(cdrs, s.handle(ModuleCdrs, s.postCdr))

	tokens := versionEndpoint + "/tokens/:country_code/:party_id"
	router.GET(tokens+"/:token_uid", s.handle(ModuleTokens, s.getToken))
	router.PUT(tokens+"/:token_uid", s.handle(ModuleTokens, s.putToken))
	router.PATCH(tokens+"/:token_uid", s.handle(ModuleTokens, s.patchToken))

	router.GET(monitorEndpoint, s.handleMonitor)
	router.GlobalOPTIONS = http.HandlerFunc(s.handleOptions)
}

type handlerFunc func(request *ocpi.Request, params httprouter.Params) *ocpi.Builder

// handle wraps a module handler into the envelope lifecycle: parse the
// request, build the response, degrade on panic, then fan the exchange out
// and write the envelope. A handler can fail but a request never goes
// unanswered.
func (s *Server) handle(module string, fn handlerFunc) httprouter.Handle {
	return func(w http.ResponseWriter, r *http.Request, params httprouter.Params) {
		start := time.Now()
		request := ocpi.ParseRequest(r, s.resolver)
		if s.logger != nil && len(request.Body) > 0 {
			s.logger.RawDataEvent("IN", string(request.Body))
		}
		if request.AccessToken != "" {
			outcome := "anonymous"
			if request.AccessInfo != nil {
				outcome = "resolved"
			}
			counters.CountAuthResolution(outcome)
		}
		var response *ocpi.Response
		defer func() {
			if cause := recover(); cause != nil {
				response = ocpi.Degraded(request, module, cause, debug.Stack())
				counters.CountDegraded(module)
			}
			s.finish(w, module, request, response, start)
		}()
		response = fn(request, params).Finalize(request)
	}
}

func (s *Server) finish(w http.ResponseWriter, module string, request *ocpi.Request, response *ocpi.Response, start time.Time) {
	if response == nil {
		return
	}
	if s.notifier != nil {
		s.notifier.SendAll(context.Background(), &event.Exchange{Request: request, Response: response})
	}
	counters.ObserveRequest(module, request.Method, ocpi.StatusClass(response.StatusCode), time.Since(start).Seconds())
	if s.logger != nil {
		s.logger.FeatureEvent(module, request.EMSPId(), fmt.Sprintf("%s %s: %d", request.Method, request.Path, response.StatusCode))
	}
	if err := response.Send(w, request.Method); err != nil && s.logger != nil {
		s.logger.Error("sending response", err)
	}
}

func (s *Server) handleOptions(w http.ResponseWriter, r *http.Request) {
	request := ocpi.ParseRequest(r, s.resolver)
	response := ocpi.Success(nil).Finalize(request)
	_ = response.Send(w, http.MethodOptions)
}

// requireParty rejects pushes that do not come from the party owning the
// object; nil means the caller may proceed.
func requireParty(request *ocpi.Request, countryCode, partyId string) *ocpi.Builder {
	if request.AccessInfo == nil {
		return ocpi.ClientError("authorization required")
	}
	if !request.FromParty(countryCode, partyId) {
		return ocpi.ClientError(fmt.Sprintf("token does not match party %s-%s", countryCode, partyId))
	}
	return nil
}

func (s *Server) Start() error {
	if s.conf == nil {
		return utility.Err("configuration not loaded")
	}
	serverAddress := fmt.Sprintf("%s:%s", s.conf.Listen.BindIP, s.conf.Listen.Port)
	s.logger.Debug(fmt.Sprintf("starting server on %s", serverAddress))
	listener, err := net.Listen("tcp", serverAddress)
	if err != nil {
		return err
	}
	if s.conf.Listen.TLS {
		s.logger.Debug("starting https TLS server")
		err = s.httpServer.ServeTLS(listener, s.conf.Listen.CertFile, s.conf.Listen.KeyFile)
	} else {
		s.logger.Debug("starting http server")
		err = s.httpServer.Serve(listener)
	}
	return err
}
