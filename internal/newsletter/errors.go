package newsletter

import "fmt"

// Kind classifies service failures.
type Kind int

const (
	KindValidation Kind = iota + 1
	KindDuplicate
	KindInternal
	KindNotFound
)

func (k Kind) String() string {
	switch k {
	case KindValidation:
		return "validation"
	case KindDuplicate:
		return "duplicate_subscriber"
	case KindInternal:
		return "internal"
	case KindNotFound:
		return "not_found"
	default:
		return "unknown"
	}
}

// Error is returned by Service operations. Message is safe to show to the
// caller; Err holds the underlying cause and is never rendered.
type Error struct {
	Kind    Kind
	Message string
	Err     error
}

// Sentinels for errors.Is. Any *Error of the same kind matches.
var (
	ErrValidation          = &Error{Kind: KindValidation, Message: MsgInvalidEmail}
	ErrDuplicateSubscriber = &Error{Kind: KindDuplicate, Message: MsgAlreadySubscribed}
	ErrInternal            = &Error{Kind: KindInternal, Message: MsgInternal}
	ErrNotSubscribed       = &Error{Kind: KindNotFound, Message: MsgNotSubscribed}
)

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Kind, e.Err)
	}
	return e.Kind.String()
}

func (e *Error) Unwrap() error {
	return e.Err
}

func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return t.Kind == e.Kind
}

func validationError(err error) *Error {
	return &Error{Kind: KindValidation, Message: MsgInvalidEmail, Err: err}
}

func duplicateError(email string) *Error {
	return &Error{Kind: KindDuplicate, Message: MsgAlreadySubscribed, Err: fmt.Errorf("email %q is already active", email)}
}

func internalError(msg string, err error) *Error {
	return &Error{Kind: KindInternal, Message: msg, Err: err}
}
