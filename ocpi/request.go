package ocpi

import (
	"encoding/base64"
	"io"
	"net/http"
	"strings"

	"ocpinode/auth"
	"ocpinode/types"
	"ocpinode/utility"
)

const (
	HeaderRequestId     = "X-Request-ID"
	HeaderCorrelationId = "X-Correlation-ID"
)

// TokenResolver maps an inbound credential to a counterparty identity.
type TokenResolver interface {
	Resolve(token string) (*auth.LocalAccessInfo, error)
}

// Request The transport request paired with its protocol fields. AccessInfo
// stays nil for anonymous requests; endpoint-level checks decide whether
// anonymous access is acceptable, parsing never fails a request.
type Request struct {
	Method        string
	Path          string
	RequestId     string
	CorrelationId string

	// generated here rather than received from the counterparty
	LocalRequestId     bool
	LocalCorrelationId bool

	AccessToken string
	AccessInfo  *auth.LocalAccessInfo

	Body     []byte
	Received *types.DateTime
}

// ParseRequest extracts the correlation headers and credential from the
// transport request and resolves the caller's identity. Missing or
// unusable ids are replaced with fresh ones, flagged as locally generated.
func ParseRequest(r *http.Request, resolver TokenResolver) *Request {
	request := &Request{
		Method:   r.Method,
		Path:     r.URL.Path,
		Received: types.Now(),
	}
	request.RequestId, request.LocalRequestId = headerOrNew(r, HeaderRequestId)
	request.CorrelationId, request.LocalCorrelationId = headerOrNew(r, HeaderCorrelationId)

	request.AccessToken = ExtractAccessToken(r)
	if request.AccessToken != "" && resolver != nil {
		info, err := resolver.Resolve(request.AccessToken)
		if err == nil && info != nil {
			request.AccessInfo = info
		}
	}

	if r.Body != nil {
		body, err := io.ReadAll(r.Body)
		if err == nil {
			request.Body = body
		}
	}
	return request
}

func headerOrNew(r *http.Request, name string) (string, bool) {
	value := strings.TrimSpace(r.Header.Get(name))
	if value == "" || len(value) > 128 {
		return utility.NewUUID(), true
	}
	return value, false
}

// ExtractAccessToken reads the credential from a Bearer authorization or
// from Basic auth with the token as username.
func ExtractAccessToken(r *http.Request) string {
	header := strings.TrimSpace(r.Header.Get("Authorization"))
	if header == "" {
		return ""
	}
	if token, found := strings.CutPrefix(header, "Bearer "); found {
		return strings.TrimSpace(token)
	}
	if token, found := strings.CutPrefix(header, "Token "); found {
		return strings.TrimSpace(token)
	}
	if encoded, found := strings.CutPrefix(header, "Basic "); found {
		decoded, err := base64.StdEncoding.DecodeString(strings.TrimSpace(encoded))
		if err != nil {
			return ""
		}
		username, _, _ := strings.Cut(string(decoded), ":")
		return username
	}
	return ""
}

// FromParty reports whether the request is authenticated as the given party.
func (r *Request) FromParty(countryCode, partyId string) bool {
	return r.AccessInfo.IsParty(countryCode, partyId)
}

// EMSPId Shorthand for the requesting EMSP's identifier, empty when the
// request is anonymous or from a non-EMSP role.
func (r *Request) EMSPId() string {
	if r.AccessInfo == nil {
		return ""
	}
	return r.AccessInfo.EMSPId
}
