package sdk

import (
	"errors"
	"fmt"
)

// ErrExtrinsicFailed is returned when a submitted extrinsic completes with
// an error.
var ErrExtrinsicFailed = errors.New("extrinsic failed")

// APIError is a non-2xx response from the REST API.
type APIError struct {
	Status  int
	Code    string
	Message string
}

func (e *APIError) Error() string {
	if e.Code != "" {
		return fmt.Sprintf("sdk: http %d: %s: %s", e.Status, e.Code, e.Message)
	}
	return fmt.Sprintf("sdk: http %d: %s", e.Status, e.Message)
}

type errorBody struct {
	Error struct {
		Code    string `json:"code"`
		Name    string `json:"name"`
		Message string `json:"message"`
	} `json:"error"`
	Message string `json:"message"`
}

func (b *errorBody) toAPIError(status int) *APIError {
	e := &APIError{Status: status, Code: b.Error.Code, Message: b.Error.Message}
	if e.Code == "" {
		e.Code = b.Error.Name
	}
	if e.Message == "" {
		e.Message = b.Message
	}
	return e
}
