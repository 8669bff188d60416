package session

import (
	"context"
	"errors"
	"fmt"

	"github.com/sickscan/sickscan-tui/internal/client"
	"github.com/sickscan/sickscan-tui/internal/symptom"
)

var (
	ErrNoSymptoms = errors.New("no symptoms selected")
	ErrStale      = errors.New("response arrived after reset")
)

// Kind classifies a failure for reporting.
type Kind int

const (
	KindNone Kind = iota
	KindInput
	KindNotRecognized
	KindPrecondition
	KindCatalog
	KindService
	KindTransport
	KindStale
)

func (k Kind) String() string {
	switch k {
	case KindNone:
		return "none"
	case KindInput:
		return "input"
	case KindNotRecognized:
		return "not_recognized"
	case KindPrecondition:
		return "precondition"
	case KindCatalog:
		return "catalog"
	case KindService:
		return "service"
	case KindTransport:
		return "transport"
	case KindStale:
		return "stale"
	default:
		return "unknown"
	}
}

// Surfaced reports whether failures of this kind are shown to the user.
func (k Kind) Surfaced() bool {
	switch k {
	case KindNone, KindInput, KindStale:
		return false
	default:
		return true
	}
}

func Classify(err error) Kind {
	var se *client.ServiceError
	switch {
	case err == nil:
		return KindNone
	case errors.Is(err, ErrStale):
		return KindStale
	case errors.Is(err, symptom.ErrEmptyInput):
		return KindInput
	case errors.Is(err, symptom.ErrNotRecognized):
		return KindNotRecognized
	case errors.Is(err, ErrNoSymptoms):
		return KindPrecondition
	case errors.Is(err, symptom.ErrCatalogUnavailable):
		return KindCatalog
	case errors.As(err, &se):
		return KindService
	default:
		return KindTransport
	}
}

// Notice is a failure ready to show to the user.
type Notice struct {
	Kind    Kind
	Action  string
	Message string
	Err     error
}

func noticeFor(action string, err error) Notice {
	n := Notice{Kind: Classify(err), Action: action, Err: err}
	var se *client.ServiceError

	switch n.Kind {
	case KindNotRecognized:
		n.Message = "Symptom not recognized in database. Please select from the list."
	case KindPrecondition:
		n.Message = "Please add at least one symptom."
	case KindCatalog:
		n.Message = "The symptom list could not be loaded, so typed symptoms cannot be matched."
	case KindService:
		errors.As(err, &se)
		n.Message = se.Message
	case KindTransport:
		if errors.Is(err, context.DeadlineExceeded) {
			n.Message = fmt.Sprintf("The symptom service did not answer in time (%s).", action)
		} else {
			n.Message = fmt.Sprintf("Could not reach the symptom service (%s).", action)
		}
	default:
		n.Message = err.Error()
	}
	return n
}
