package engine

import "fmt"

// ErrorKind classifies why an action was rejected. The set is closed;
// transports map kinds to protocol codes without parsing messages.
type ErrorKind string

const (
	KindInvalidTarget      ErrorKind = "InvalidTarget"      // referenced entity does not exist or is out of reach
	KindPreconditionFailed ErrorKind = "PreconditionFailed" // world state forbids the action right now
	KindIllegalTransition  ErrorKind = "IllegalTransition"  // requested state change violates a state machine
	KindResourceExhausted  ErrorKind = "ResourceExhausted"  // required item or capacity is missing
)

// RejectionError is returned by ApplyAction when validation fails. No state
// has been mutated when one of these comes back.
type RejectionError struct {
	Kind   ErrorKind
	Action string
	Reason string
}

func (e *RejectionError) Error() string {
	return fmt.Sprintf("%s: %s rejected: %s", e.Kind, e.Action, e.Reason)
}

func reject(kind ErrorKind, action ActionType, format string, args ...interface{}) *RejectionError {
	return &RejectionError{
		Kind:   kind,
		Action: string(action),
		Reason: fmt.Sprintf(format, args...),
	}
}
