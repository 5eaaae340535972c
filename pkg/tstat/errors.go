package tstat

import (
	"errors"
	"net/http"
	"strconv"
)

var (
	// ErrUnknownKey indicates the logical key is not present in the client's Registry.
	ErrUnknownKey = errors.New("unknown key")
	// ErrPathNotFound indicates the JSON path of a Getter does not exist in the endpoint's response.
	ErrPathNotFound = errors.New("path not found")
	// ErrUnsupportedModel indicates the thermostat reported a model without a built-in Registry.
	ErrUnsupportedModel = errors.New("unsupported model")
)

var _ error = &TransportError{}

// TransportError is returned when a call to the thermostat fails, returns a non-200 status, or returns
// a body that isn't valid JSON.
type TransportError struct {
	Endpoint string
	Status   int
	Err      error
}

func (e *TransportError) Error() string {
	msg := "tstat: " + e.Endpoint
	if e.Status != 0 && e.Status != http.StatusOK {
		msg += ": " + strconv.Itoa(e.Status) + " " + http.StatusText(e.Status)
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

func (e *TransportError) Is(err error) bool {
	var transportError *TransportError
	return errors.As(err, &transportError)
}
