package api

import (
	"fmt"
	"net/http"

	"github.com/mpetrenko/studyport/internal/common"
)

// Server error codes carried in the error envelope. Only the codes the
// client reacts to are named; everything else is surfaced verbatim.
const (
	CodeTokenExpired      = "TOKEN_EXPIRED"
	CodeSessionTerminated = "SESSION_TERMINATED"
	CodeSessionLimit      = "SESSION_LIMIT_REACHED"
)

// APIError is a decoded non-2xx response: HTTP status plus the server's
// {code, message} envelope. It matches the package sentinels via errors.Is.
type APIError struct {
	Status  int
	Code    string
	Message string
}

func (e *APIError) Error() string {
	if e.Code != "" {
		return fmt.Sprintf("api error %d (%s): %s", e.Status, e.Code, e.Message)
	}
	return fmt.Sprintf("api error %d: %s", e.Status, e.Message)
}

func (e *APIError) Is(target error) bool {
	switch target {
	case common.ErrSessionLimit:
		return e.Code == CodeSessionLimit
	case common.ErrTokenExpired:
		return e.Code == CodeTokenExpired
	case common.ErrSessionTerminated:
		return e.Code == CodeSessionTerminated
	case common.ErrUnauthorized:
		return e.Status == http.StatusUnauthorized || e.Status == http.StatusForbidden
	case common.ErrNotFound:
		return e.Status == http.StatusNotFound
	case common.ErrUnavailable:
		return e.Status >= http.StatusInternalServerError
	}
	return false
}
