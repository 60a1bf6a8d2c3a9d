// Package loan holds the loan ledger and the borrow/return coordinator.
package loan

import (
	"errors"
	"time"
)

// Coordinator outcomes. Every precondition failure surfaces as its own
// sentinel so callers can tell them apart.
var (
	// ErrInvalidRequest means the input was malformed or missing.
	ErrInvalidRequest = errors.New("invalid request")
	// ErrRateLimited means the caller exceeded the borrow admission window.
	ErrRateLimited = errors.New("rate limited")
	// ErrUserNotFound means the users service reported no such user.
	ErrUserNotFound = errors.New("user not found")
	// ErrUserLookupFailed means the users service could not be consulted.
	// The borrow fails closed rather than assuming the user is valid.
	ErrUserLookupFailed = errors.New("user validation failed")
	// ErrBookUnavailable means the book is not AVAILABLE, including losing
	// the status race to a concurrent borrow.
	ErrBookUnavailable = errors.New("book not available")
	// ErrAlreadyOnLoan means an open loan already references the book.
	ErrAlreadyOnLoan = errors.New("book already on loan")
	// ErrBookNotBorrowed means a return was attempted on a book that is not
	// BORROWED.
	ErrBookNotBorrowed = errors.New("book not borrowed")
	// ErrNoOpenLoan means no open loan references the book.
	ErrNoOpenLoan = errors.New("no open loan for this book")
)

// Loan is one lending of one book to one user. BorrowedAt and DueDate are
// fixed at creation; ReturnedAt is set exactly once and never cleared.
type Loan struct {
	ID         int64      `json:"id"`
	UserID     int64      `json:"user_id"`
	BookID     int64      `json:"book_id"`
	BorrowedAt time.Time  `json:"borrowed_at"`
	ReturnedAt *time.Time `json:"returned_at"`
	DueDate    *time.Time `json:"due_date"`
}

// Open reports whether the loan has not been returned yet.
func (l Loan) Open() bool {
	return l.ReturnedAt == nil
}

// Filter narrows a loan listing. Nil fields mean no restriction; set fields
// compose by AND.
type Filter struct {
	UserID   *int64
	OpenOnly *bool
}
