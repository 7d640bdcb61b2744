package ocpi

import (
	"encoding/json"
	"fmt"
	"net/http"

	"ocpinode/types"
)

// Builder A response draft with optional fields, frozen into a Response by
// Finalize. Handlers fill what they know; defaults and correlation fields
// are added in one place.
type Builder struct {
	StatusCode            int
	StatusMessage         string
	AdditionalInformation string
	Data                  interface{}
	Timestamp             *types.DateTime
	HTTPStatus            int
	HTTPLocation          string
}

func Success(data interface{}) *Builder {
	return &Builder{StatusCode: StatusSuccess, Data: data}
}

func ClientError(message string) *Builder {
	return &Builder{StatusCode: StatusClientError, StatusMessage: message}
}

func InvalidBody(message string) *Builder {
	return &Builder{StatusCode: StatusInvalidBody, StatusMessage: message}
}

func UnknownObject(message string) *Builder {
	return &Builder{StatusCode: StatusUnknownObject, StatusMessage: message}
}

func ServerError(message string) *Builder {
	return &Builder{StatusCode: StatusServerError, StatusMessage: message}
}

// Response The frozen protocol response. RequestId and CorrelationId always
// echo the originating request, on the JSON body and the transport headers.
type Response struct {
	StatusCode            int
	StatusMessage         string
	AdditionalInformation string
	Data                  json.RawMessage
	RequestId             string
	CorrelationId         string
	HTTPStatus            int
	HTTPLocation          string
	Timestamp             *types.DateTime

	closeConnection bool
}

// wire form of the envelope; optional fields are omitted, never null
type responseJSON struct {
	Data                  json.RawMessage `json:"data,omitempty"`
	StatusCode            int             `json:"status_code"`
	StatusMessage         string          `json:"status_message,omitempty"`
	AdditionalInformation string          `json:"additionalInformation,omitempty"`
	RequestId             string          `json:"requestId,omitempty"`
	CorrelationId         string          `json:"correlationId,omitempty"`
	HTTPLocation          string          `json:"httpLocation,omitempty"`
	Timestamp             *types.DateTime `json:"timestamp"`
}

// Finalize fills defaults (timestamp, transport status) and copies the
// correlation ids from the originating request.
func (b *Builder) Finalize(request *Request) *Response {
	response := &Response{
		StatusCode:            b.StatusCode,
		StatusMessage:         b.StatusMessage,
		AdditionalInformation: b.AdditionalInformation,
		HTTPStatus:            b.HTTPStatus,
		HTTPLocation:          b.HTTPLocation,
		Timestamp:             b.Timestamp,
	}
	if response.Timestamp == nil {
		response.Timestamp = types.Now()
	}
	if response.HTTPStatus == 0 {
		response.HTTPStatus = http.StatusOK
	}
	if request != nil {
		response.RequestId = request.RequestId
		response.CorrelationId = request.CorrelationId
	}
	if b.Data != nil {
		if raw, ok := b.Data.(json.RawMessage); ok {
			response.Data = raw
		} else if data, err := json.Marshal(b.Data); err == nil {
			response.Data = data
		}
	}
	return response
}

func (r *Response) MarshalJSON() ([]byte, error) {
	return json.Marshal(responseJSON{
		Data:                  r.Data,
		StatusCode:            r.StatusCode,
		StatusMessage:         r.StatusMessage,
		AdditionalInformation: r.AdditionalInformation,
		RequestId:             r.RequestId,
		CorrelationId:         r.CorrelationId,
		HTTPLocation:          r.HTTPLocation,
		Timestamp:             r.Timestamp,
	})
}

// Send writes the envelope to the transport: correlation headers echoed,
// Location header on redirect-style responses, no body on OPTIONS.
func (r *Response) Send(w http.ResponseWriter, method string) error {
	header := w.Header()
	if r.RequestId != "" {
		header.Set(HeaderRequestId, r.RequestId)
	}
	if r.CorrelationId != "" {
		header.Set(HeaderCorrelationId, r.CorrelationId)
	}
	if r.HTTPLocation != "" {
		header.Set("Location", r.HTTPLocation)
	}
	if r.closeConnection {
		header.Set("Connection", "close")
	}
	if method == http.MethodOptions {
		header.Set("Allow", "OPTIONS, GET, PUT, PATCH, POST")
		w.WriteHeader(r.HTTPStatus)
		return nil
	}
	header.Set("Content-Type", "application/json; charset=utf-8")
	body, err := json.Marshal(r)
	if err != nil {
		w.WriteHeader(http.StatusInternalServerError)
		return err
	}
	w.WriteHeader(r.HTTPStatus)
	_, err = w.Write(body)
	return err
}

// Degraded Last-resort envelope for a failure while building the real
// response: fixed status_code 2000 with the failure diagnostics, transport
// 500 and no keep-alive.
func Degraded(request *Request, module string, cause interface{}, stack []byte) *Response {
	diagnostics, _ := json.Marshal(map[string]string{
		"module":     module,
		"stackTrace": string(stack),
	})
	response := &Response{
		StatusCode:            StatusClientError,
		StatusMessage:         fmt.Sprintf("%v", cause),
		AdditionalInformation: module,
		Data:                  diagnostics,
		HTTPStatus:            http.StatusInternalServerError,
		Timestamp:             types.Now(),
		closeConnection:       true,
	}
	if request != nil {
		response.RequestId = request.RequestId
		response.CorrelationId = request.CorrelationId
	}
	return response
}

// ParseResponse interprets a remote server's reply. It never fails: an empty
// body yields the transport status line as the message, a decoding error
// yields the error text, both with the StatusNotParsed sentinel.
func ParseResponse(httpStatus int, statusLine string, body []byte) *Response {
	response := &Response{HTTPStatus: httpStatus}
	if len(body) == 0 {
		response.StatusCode = StatusNotParsed
		response.StatusMessage = statusLine
		response.Timestamp = types.Now()
		return response
	}
	var wire responseJSON
	if err := json.Unmarshal(body, &wire); err != nil {
		response.StatusCode = StatusNotParsed
		response.StatusMessage = err.Error()
		response.Timestamp = types.Now()
		return response
	}
	response.StatusCode = wire.StatusCode
	response.StatusMessage = wire.StatusMessage
	response.AdditionalInformation = wire.AdditionalInformation
	response.Data = wire.Data
	response.RequestId = wire.RequestId
	response.CorrelationId = wire.CorrelationId
	response.HTTPLocation = wire.HTTPLocation
	response.Timestamp = wire.Timestamp
	if response.Timestamp == nil {
		response.Timestamp = types.Now()
	}
	return response
}
