package dart

import (
	"errors"
	"fmt"
)

// Error taxonomy shared by both fetchers. Wrapped errors keep the sentinel
// reachable through errors.Is.
var (
	// ErrNetwork covers transport failures and non-2xx HTTP responses.
	ErrNetwork = errors.New("dart: network error")
	// ErrParse covers malformed XML, JSON or ZIP payloads.
	ErrParse = errors.New("dart: parse error")
	// ErrConfig is returned before any request when the API credential is missing.
	ErrConfig = errors.New("dart: missing API credential")
	// ErrAPILogic is matched by *APIError: a well-formed response with a
	// non-success status or an empty payload.
	ErrAPILogic = errors.New("dart: api returned no data")
	// ErrNoRecords is the soft failure of an empty registry download.
	ErrNoRecords = errors.New("dart: registry contains no records")
)

// StatusOK is the DART success status code.
const StatusOK = "000"

// APIError is a non-success DART status (e.g. "013" no data, "020" rate
// limit exceeded) or a success status with an empty list.
type APIError struct {
	Status  string
	Message string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("dart: status %s: %s", e.Status, e.Message)
}

// Is makes errors.Is(err, ErrAPILogic) true for any *APIError.
func (e *APIError) Is(target error) bool {
	return target == ErrAPILogic
}

func newAPIError(status, message string) *APIError {
	if message == "" {
		message = "N/A"
	}
	return &APIError{Status: status, Message: message}
}
