package ocpi

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

func testRequest() *Request {
	return &Request{Method: http.MethodGet, Path: "/ocpi/versions", RequestId: "req-1", CorrelationId: "corr-1"}
}

func TestFinalizeDefaults(t *testing.T) {
	response := Success(map[string]string{"hello": "world"}).Finalize(testRequest())
	if response.StatusCode != StatusSuccess {
		t.Errorf("unexpected status code %d", response.StatusCode)
	}
	if response.HTTPStatus != http.StatusOK {
		t.Errorf("unexpected transport status %d", response.HTTPStatus)
	}
	if response.RequestId != "req-1" || response.CorrelationId != "corr-1" {
		t.Error("correlation ids must echo the request")
	}
	if response.Timestamp == nil || time.Since(response.Timestamp.Time) > 5*time.Second {
		t.Error("timestamp must default to now")
	}
}

func TestMarshalOmitsEmptyOptionals(t *testing.T) {
	response := ClientError("bad input").Finalize(testRequest())
	data, err := json.Marshal(response)
	if err != nil {
		t.Fatalf("marshal failed: %v", err)
	}
	var wire map[string]interface{}
	if err = json.Unmarshal(data, &wire); err != nil {
		t.Fatalf("unmarshal failed: %v", err)
	}
	if _, present := wire["data"]; present {
		t.Error("empty data must be omitted, not null")
	}
	if _, present := wire["httpLocation"]; present {
		t.Error("empty httpLocation must be omitted")
	}
	if wire["status_code"] != float64(StatusClientError) {
		t.Errorf("unexpected status_code %v", wire["status_code"])
	}
	if wire["status_message"] != "bad input" {
		t.Errorf("unexpected status_message %v", wire["status_message"])
	}
	if _, present := wire["timestamp"]; !present {
		t.Error("timestamp is mandatory")
	}
}

func TestSendEchoesHeaders(t *testing.T) {
	response := Success(nil).Finalize(testRequest())
	w := httptest.NewRecorder()
	if err := response.Send(w, http.MethodGet); err != nil {
		t.Fatalf("send failed: %v", err)
	}
	if w.Code != http.StatusOK {
		t.Errorf("unexpected transport status %d", w.Code)
	}
	if w.Header().Get(HeaderRequestId) != "req-1" || w.Header().Get(HeaderCorrelationId) != "corr-1" {
		t.Error("correlation headers must echo the request")
	}
	if !strings.Contains(w.Body.String(), `"status_code":1000`) {
		t.Errorf("unexpected body: %s", w.Body.String())
	}
}

func TestSendOptionsHasNoBody(t *testing.T) {
	response := Success(nil).Finalize(testRequest())
	w := httptest.NewRecorder()
	if err := response.Send(w, http.MethodOptions); err != nil {
		t.Fatalf("send failed: %v", err)
	}
	if w.Body.Len() != 0 {
		t.Errorf("OPTIONS must not carry a body: %s", w.Body.String())
	}
	if w.Header().Get("Allow") == "" {
		t.Error("OPTIONS must advertise allowed methods")
	}
}

func TestSendSetsLocationHeader(t *testing.T) {
	builder := Success(nil)
	builder.HTTPStatus = http.StatusCreated
	builder.HTTPLocation = "/ocpi/2.2/cdrs/DE/EXC/CDR1"
	response := builder.Finalize(testRequest())
	w := httptest.NewRecorder()
	if err := response.Send(w, http.MethodPost); err != nil {
		t.Fatalf("send failed: %v", err)
	}
	if w.Code != http.StatusCreated {
		t.Errorf("unexpected transport status %d", w.Code)
	}
	if w.Header().Get("Location") != "/ocpi/2.2/cdrs/DE/EXC/CDR1" {
		t.Errorf("unexpected Location header %q", w.Header().Get("Location"))
	}
}

func TestDegraded(t *testing.T) {
	response := Degraded(testRequest(), "locations", "boom", []byte("stack trace here"))
	if response.StatusCode != StatusClientError {
		t.Errorf("degraded status must be %d, got %d", StatusClientError, response.StatusCode)
	}
	if response.StatusMessage != "boom" {
		t.Errorf("unexpected message %q", response.StatusMessage)
	}
	if response.AdditionalInformation != "locations" {
		t.Errorf("unexpected additional information %q", response.AdditionalInformation)
	}
	if response.HTTPStatus != http.StatusInternalServerError {
		t.Errorf("unexpected transport status %d", response.HTTPStatus)
	}
	var diagnostics map[string]string
	if err := json.Unmarshal(response.Data, &diagnostics); err != nil {
		t.Fatalf("diagnostics must be JSON: %v", err)
	}
	if diagnostics["module"] != "locations" || diagnostics["stackTrace"] != "stack trace here" {
		t.Errorf("unexpected diagnostics %v", diagnostics)
	}

	w := httptest.NewRecorder()
	if err := response.Send(w, http.MethodGet); err != nil {
		t.Fatalf("send failed: %v", err)
	}
	if w.Header().Get("Connection") != "close" {
		t.Error("a degraded response must close the connection")
	}
}

func TestParseResponseEmptyBody(t *testing.T) {
	response := ParseResponse(http.StatusBadGateway, "502 Bad Gateway", nil)
	if response.StatusCode != StatusNotParsed {
		t.Errorf("unexpected status code %d", response.StatusCode)
	}
	if response.StatusMessage != "502 Bad Gateway" {
		t.Errorf("unexpected message %q", response.StatusMessage)
	}
	if response.Timestamp == nil {
		t.Error("a parsed response always carries a timestamp")
	}
}

func TestParseResponseBadJSON(t *testing.T) {
	response := ParseResponse(http.StatusOK, "200 OK", []byte("<html>oops</html>"))
	if response.StatusCode != StatusNotParsed {
		t.Errorf("unexpected status code %d", response.StatusCode)
	}
	if response.StatusMessage == "" {
		t.Error("the decode error must become the message")
	}
}

func TestParseResponseValidEnvelope(t *testing.T) {
	body := []byte(`{"data":{"version":"2.2"},"status_code":1000,"requestId":"req-1","correlationId":"corr-1","timestamp":"2020-06-01T10:00:00.000Z"}`)
	response := ParseResponse(http.StatusOK, "200 OK", body)
	if response.StatusCode != StatusSuccess {
		t.Errorf("unexpected status code %d", response.StatusCode)
	}
	if response.RequestId != "req-1" || response.CorrelationId != "corr-1" {
		t.Error("ids must be taken from the envelope")
	}
	if response.Timestamp.String() != "2020-06-01T10:00:00.000Z" {
		t.Errorf("unexpected timestamp %s", response.Timestamp.String())
	}
}

func TestStatusClassPartition(t *testing.T) {
	cases := map[int]string{
		1000: "success",
		1999: "success",
		2000: "client_error",
		2001: "client_error",
		2999: "client_error",
		3000: "server_error",
		4500: "server_error",
		-1:   "not_parsed",
		0:    "not_parsed",
	}
	for code, want := range cases {
		if got := StatusClass(code); got != want {
			t.Errorf("%d: got %q, want %q", code, got, want)
		}
	}
}
