package service

import "errors"

// Kind classifies domain failures; handlers map kinds to HTTP status codes.
type Kind int

const (
	KindNotFound Kind = iota + 1
	KindUnauthorized
	KindForbidden
	KindConflict
	KindInvalidState
	KindInvalidOperation
	KindInvalidInput
	KindInvalidCredentials
)

// Error is a user-facing domain error. Msg is shown to the caller verbatim.
type Error struct {
	Kind Kind
	Msg  string
}

func (e *Error) Error() string { return e.Msg }

func newError(kind Kind, msg string) *Error { return &Error{Kind: kind, Msg: msg} }

// KindOf returns the Kind of err, or 0 when err is not a domain error.
func KindOf(err error) Kind {
	var de *Error
	if errors.As(err, &de) {
		return de.Kind
	}
	return 0
}

var (
	ErrEmailTaken         = newError(KindConflict, "User already exists")
	ErrInvalidCredentials = newError(KindInvalidCredentials, "Invalid credentials")
	ErrUserNotFound       = newError(KindNotFound, "User not found")

	ErrItemNotFound = newError(KindNotFound, "Item not found")

	ErrNotForBorrow  = newError(KindInvalidOperation, "This item is not for borrow")
	ErrBorrowOwnItem = newError(KindInvalidOperation, "You cannot borrow your own item")
	ErrNotAvailable  = newError(KindInvalidState, "Item is not available")

	ErrNotForSale      = newError(KindInvalidOperation, "This item is not for sale")
	ErrBuyOwnItem      = newError(KindInvalidOperation, "You cannot buy your own item")
	ErrNoLongerForSale = newError(KindInvalidState, "Item is no longer available")

	ErrNotEligibleToRate = newError(KindForbidden, "You must borrow or buy an item to rate it.")
	ErrAlreadyRated      = newError(KindConflict, "You have already rated this item.")
	ErrInvalidStars      = newError(KindInvalidInput, "Stars must be an integer between 1 and 5")
)

// invalidInput builds an InvalidInput error for a specific field problem.
func invalidInput(msg string) *Error { return newError(KindInvalidInput, msg) }
