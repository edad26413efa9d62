package nns

import (
	"errors"
	"fmt"

	nnscommon "github.com/tranvictor/nns/common"
	"github.com/tranvictor/nns/contracts"
	"github.com/tranvictor/nns/names"
	"github.com/tranvictor/nns/session"
	"github.com/tranvictor/nns/util/monitor"
)

// Messages shown when the session does not match the requested owner.
const (
	MsgSessionInvalid = "Your session is invalid. Please disconnect and connect again."
	MsgUnauthorized   = "Unauthorized. Please sign in again."
	MsgNotOwner       = "You do not own this domain."
)

type (
	ValidationError  = names.ValidationError
	ChainError       = contracts.ChainError
	UnconfirmedError = contracts.UnconfirmedError
)

var (
	ErrUnauthorized   = session.ErrUnauthorized
	ErrUnconfirmed    = monitor.ErrUnconfirmed
	ErrInvalidAddress = nnscommon.ErrInvalidAddress
	ErrReadOnly       = contracts.ErrReadOnly

	ErrNothingToUpdate = errors.New("no profile field to update")
	// ErrEnumerationUnsupported is returned when listing every registered
	// name. That needs an event indexer which this service does not run.
	ErrEnumerationUnsupported = errors.New("enumerating all registered names is not supported")
)

// AuthorizationError never says why the session was rejected.
type AuthorizationError struct {
	Message string
}

func (e *AuthorizationError) Error() string {
	return e.Message
}

func (e *AuthorizationError) Unwrap() error {
	return ErrUnauthorized
}

type UnavailableError struct {
	Name string
}

func (e *UnavailableError) Error() string {
	return fmt.Sprintf("%s is already registered", e.Name)
}

// Kind classifies err into the taxonomy used by callers that map errors to
// status codes or exit messages.
type Kind int

const (
	KindInternal Kind = iota
	KindValidation
	KindAuthorization
	KindUnavailable
	KindChain
	KindUnconfirmed
)

func KindOf(err error) Kind {
	var (
		ve *ValidationError
		ae *AuthorizationError
		ue *UnavailableError
		ce *ChainError
		te *UnconfirmedError
	)
	switch {
	case errors.As(err, &ve), errors.Is(err, ErrInvalidAddress), errors.Is(err, ErrNothingToUpdate):
		return KindValidation
	case errors.As(err, &ae):
		return KindAuthorization
	case errors.As(err, &ue):
		return KindUnavailable
	case errors.As(err, &te), errors.Is(err, ErrUnconfirmed):
		return KindUnconfirmed
	case errors.As(err, &ce):
		return KindChain
	}
	return KindInternal
}
