// Package ocpi implements the OCPI request/response envelope: the
// status_code/status_message/timestamp wrapper carried inside the transport
// body, correlated with the X-Request-ID and X-Correlation-ID headers.
package ocpi

// Protocol status codes, independent of the transport status. Success and
// client errors both travel on a 2xx transport response; the protocol
// multiplexes its own result inside the body.
const (
	StatusSuccess       = 1000
	StatusClientError   = 2000
	StatusInvalidBody   = 2001
	StatusUnknownObject = 2003
	StatusServerError   = 3000

	// StatusNotParsed marks a reply that never yielded a protocol status:
	// empty body or unparsable JSON. Internal sentinel, never sent on the wire.
	StatusNotParsed = -1
)

func IsSuccessCode(code int) bool {
	return code >= 1000 && code < 2000
}

func IsClientErrorCode(code int) bool {
	return code >= 2000 && code < 3000
}

func IsServerErrorCode(code int) bool {
	return code >= 3000
}

// StatusClass buckets a protocol code for metrics labels.
func StatusClass(code int) string {
	switch {
	case IsSuccessCode(code):
		return "success"
	case IsClientErrorCode(code):
		return "client_error"
	case IsServerErrorCode(code):
		return "server_error"
	default:
		return "not_parsed"
	}
}
