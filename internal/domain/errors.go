package domain

import "errors"

// ErrorKind classifies failures so the HTTP layer can pick a status code.
type ErrorKind int

const (
	KindInternal ErrorKind = iota
	KindValidation
	KindNotFound
	KindImmutable
)

func (k ErrorKind) String() string {
	switch k {
	case KindValidation:
		return "validation"
	case KindNotFound:
		return "not_found"
	case KindImmutable:
		return "immutable"
	default:
		return "internal"
	}
}

var (
	ErrValidation = errors.New("validation failed")
	ErrNotFound   = errors.New("not found")
	ErrImmutable  = errors.New("immutable")
)

// Error is a typed failure with a single user-facing message.
type Error struct {
	Kind    ErrorKind
	Message string
}

func (e *Error) Error() string { return e.Message }

// Is lets errors.Is match an *Error against the kind sentinels.
func (e *Error) Is(target error) bool {
	switch target {
	case ErrValidation:
		return e.Kind == KindValidation
	case ErrNotFound:
		return e.Kind == KindNotFound
	case ErrImmutable:
		return e.Kind == KindImmutable
	}
	return false
}

func NewValidationError(msg string) error {
	return &Error{Kind: KindValidation, Message: msg}
}

func NewNotFoundError(msg string) error {
	return &Error{Kind: KindNotFound, Message: msg}
}

func NewImmutableError(msg string) error {
	return &Error{Kind: KindImmutable, Message: msg}
}

// KindOf returns the kind of err, or KindInternal when err is not a domain error.
func KindOf(err error) ErrorKind {
	var de *Error
	if errors.As(err, &de) {
		return de.Kind
	}
	return KindInternal
}

// Messages used across layers.
const (
	MsgTitleEmpty         = "Title cannot be empty"
	MsgTitleTooLong       = "Title cannot exceed 100 characters"
	MsgDescriptionTooLong = "Description cannot exceed 500 characters"
	MsgTodoNotFound       = "Todo not found"
	MsgTodoCompleted      = "Cannot update completed todo"
)
