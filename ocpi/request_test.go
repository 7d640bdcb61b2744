package ocpi

import (
	"encoding/base64"
	"net/http/httptest"
	"strings"
	"testing"

	"ocpinode/auth"
)

type fakeResolver struct {
	info *auth.LocalAccessInfo
	err  error
}

func (f *fakeResolver) Resolve(token string) (*auth.LocalAccessInfo, error) {
	return f.info, f.err
}

func TestParseRequestEchoesHeaders(t *testing.T) {
	r := httptest.NewRequest("GET", "/ocpi/2.2/locations/DE/EXC", nil)
	r.Header.Set(HeaderRequestId, "req-1")
	r.Header.Set(HeaderCorrelationId, "corr-1")
	request := ParseRequest(r, nil)
	if request.RequestId != "req-1" || request.LocalRequestId {
		t.Errorf("request id not taken from header: %s local=%v", request.RequestId, request.LocalRequestId)
	}
	if request.CorrelationId != "corr-1" || request.LocalCorrelationId {
		t.Errorf("correlation id not taken from header: %s local=%v", request.CorrelationId, request.LocalCorrelationId)
	}
}

func TestParseRequestGeneratesMissingIds(t *testing.T) {
	r := httptest.NewRequest("GET", "/ocpi/versions", nil)
	request := ParseRequest(r, nil)
	if request.RequestId == "" || !request.LocalRequestId {
		t.Error("a missing request id must be generated and flagged local")
	}
	if request.CorrelationId == "" || !request.LocalCorrelationId {
		t.Error("a missing correlation id must be generated and flagged local")
	}
	if request.RequestId == request.CorrelationId {
		t.Error("generated ids must be distinct")
	}
}

func TestParseRequestReplacesOversizeId(t *testing.T) {
	r := httptest.NewRequest("GET", "/ocpi/versions", nil)
	r.Header.Set(HeaderRequestId, strings.Repeat("x", 200))
	request := ParseRequest(r, nil)
	if len(request.RequestId) > 128 || !request.LocalRequestId {
		t.Errorf("oversize id must be replaced: %q", request.RequestId)
	}
}

func TestParseRequestReadsBody(t *testing.T) {
	r := httptest.NewRequest("PUT", "/ocpi/2.2/locations/DE/EXC/LOC1", strings.NewReader(`{"id":"LOC1"}`))
	request := ParseRequest(r, nil)
	if string(request.Body) != `{"id":"LOC1"}` {
		t.Errorf("unexpected body: %s", request.Body)
	}
	if request.Received == nil {
		t.Error("received timestamp must be set")
	}
}

func TestParseRequestResolvesIdentity(t *testing.T) {
	info := &auth.LocalAccessInfo{CountryCode: "DE", PartyId: "EXM", Role: auth.RoleEMSP, EMSPId: "DE-EXM"}
	r := httptest.NewRequest("GET", "/ocpi/versions", nil)
	r.Header.Set("Authorization", "Token secret")
	request := ParseRequest(r, &fakeResolver{info: info})
	if request.AccessToken != "secret" {
		t.Errorf("unexpected access token: %q", request.AccessToken)
	}
	if request.AccessInfo == nil || request.EMSPId() != "DE-EXM" {
		t.Error("resolved identity must be attached")
	}
	if !request.FromParty("DE", "EXM") {
		t.Error("FromParty must match the resolved identity")
	}
}

func TestParseRequestStaysAnonymousOnResolverError(t *testing.T) {
	r := httptest.NewRequest("GET", "/ocpi/versions", nil)
	r.Header.Set("Authorization", "Token secret")
	request := ParseRequest(r, &fakeResolver{err: errFake})
	if request.AccessInfo != nil {
		t.Error("a resolver error must leave the request anonymous")
	}
	if request.EMSPId() != "" {
		t.Error("an anonymous request has no EMSP id")
	}
	if request.FromParty("DE", "EXM") {
		t.Error("an anonymous request matches no party")
	}
}

var errFake = &fakeError{}

type fakeError struct{}

func (e *fakeError) Error() string { return "lookup failed" }

func TestExtractAccessToken(t *testing.T) {
	basic := base64.StdEncoding.EncodeToString([]byte("basic-token:ignored"))
	cases := map[string]string{
		"Bearer bearer-token": "bearer-token",
		"Token plain-token":   "plain-token",
		"Basic " + basic:      "basic-token",
		"Digest whatever":     "",
		"":                    "",
	}
	for header, want := range cases {
		r := httptest.NewRequest("GET", "/", nil)
		if header != "" {
			r.Header.Set("Authorization", header)
		}
		if got := ExtractAccessToken(r); got != want {
			t.Errorf("%q: got %q, want %q", header, got, want)
		}
	}
}
