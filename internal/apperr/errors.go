package apperr

import "errors"

// ErrNotFound reports that no article matches the requested identity.
var ErrNotFound = errors.New("article not found")

type ValidationError struct {
	Message string
	Err     error
}

func (e *ValidationError) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

func (e *ValidationError) Unwrap() error {
	return e.Err
}

func NewValidation(msg string) *ValidationError {
	return &ValidationError{Message: msg}
}

func NewValidationWrap(msg string, err error) *ValidationError {
	return &ValidationError{Message: msg, Err: err}
}

// NetworkError is any failure of the remote headline source: transport, timeout,
// non-2xx status or a payload that could not be decoded.
type NetworkError struct {
	Message string
	Err     error
}

func (e *NetworkError) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

func (e *NetworkError) Unwrap() error {
	return e.Err
}

func NewNetwork(msg string) *NetworkError {
	return &NetworkError{Message: msg}
}

func NewNetworkWrap(msg string, err error) *NetworkError {
	return &NetworkError{Message: msg, Err: err}
}

// IOError is a failure of the local article store.
type IOError struct {
	Op  string
	Err error
}

func (e *IOError) Error() string {
	if e.Err != nil {
		return "storage: failed to " + e.Op + ": " + e.Err.Error()
	}
	return "storage: failed to " + e.Op
}

func (e *IOError) Unwrap() error {
	return e.Err
}

func NewIO(op string, err error) *IOError {
	return &IOError{Op: op, Err: err}
}

// UserMessage returns the text shown to a user for err. NetworkError and
// ValidationError carry their own message; everything else is reported as is.
func UserMessage(err error) string {
	if err == nil {
		return ""
	}
	var ne *NetworkError
	if errors.As(err, &ne) {
		return ne.Message
	}
	var ve *ValidationError
	if errors.As(err, &ve) {
		return ve.Message
	}
	return err.Error()
}
