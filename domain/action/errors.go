package action

import (
	"errors"
	"strings"

	"github.com/soocke/dualcam-monitor/domain/remote"
)

// ErrBusy is returned when an action targets an item that is not idle.
var ErrBusy = errors.New("action already in progress")

// ValidationError is a local input failure detected before any request is sent.
type ValidationError struct {
	Fields []string
	Reason string
}

func (e *ValidationError) Error() string {
	switch {
	case e.Reason != "" && len(e.Fields) > 0:
		return e.Reason + ": " + strings.Join(e.Fields, ", ")
	case e.Reason != "":
		return e.Reason
	}
	return "missing required fields: " + strings.Join(e.Fields, ", ")
}

// ErrorClass groups failures by where they arose.
type ErrorClass int

const (
	ClassNone ErrorClass = iota
	ClassTransport
	ClassApplication
	ClassValidation
	ClassBusy
)

func (c ErrorClass) String() string {
	switch c {
	case ClassTransport:
		return "transport"
	case ClassApplication:
		return "application"
	case ClassValidation:
		return "validation"
	case ClassBusy:
		return "busy"
	}
	return "none"
}

// Classify maps err to its class. Unrecognized errors count as transport failures.
func Classify(err error) ErrorClass {
	if err == nil {
		return ClassNone
	}
	var ve *ValidationError
	var ae *remote.ApplicationError
	switch {
	case errors.Is(err, ErrBusy):
		return ClassBusy
	case errors.As(err, &ve):
		return ClassValidation
	case errors.As(err, &ae):
		return ClassApplication
	}
	return ClassTransport
}

// describe renders err for an operator notification.
func describe(err error) string {
	var ae *remote.ApplicationError
	if errors.As(err, &ae) && ae.Message != "" {
		return ae.Message
	}
	var te *remote.TransportError
	if errors.As(err, &te) {
		if te.StatusCode != 0 {
			return te.Error()
		}
		if te.Err != nil {
			return "network error: " + te.Err.Error()
		}
	}
	return err.Error()
}
