package loan

import (
	"context"
	"time"

	"loanapi/internal/platform/users"
)

// Ledger defines the contract for loan storage. Borrow and Return are
// compound operations: each one moves the book's status and the loan row
// inside a single transaction, so no reader ever observes a half-applied
// borrow or return.
type Ledger interface {
	// OpenForBook returns the open loan referencing bookID, or ErrNoOpenLoan.
	OpenForBook(ctx context.Context, bookID int64) (Loan, error)

	// Borrow flips the book AVAILABLE -> BORROWED and inserts an open loan.
	// The status flip is conditional on the current status; losing that race
	// yields ErrBookUnavailable and no loan row.
	Borrow(ctx context.Context, userID, bookID int64, due *time.Time) (Loan, error)

	// Return closes the open loan at `at` and flips the book
	// BORROWED -> AVAILABLE. ErrNoOpenLoan or ErrBookNotBorrowed when the
	// stores say otherwise.
	Return(ctx context.Context, bookID int64, at time.Time) (Loan, error)

	List(ctx context.Context, f Filter) ([]Loan, error)

	// ListOverdue returns open loans whose due date passed before `now`.
	// Loans without a due date never appear.
	ListOverdue(ctx context.Context, now time.Time) ([]Loan, error)
}

// UserVerifier checks a user identity against the external users service.
type UserVerifier interface {
	Verify(ctx context.Context, userID int64) (users.Status, error)
}

// Admitter gates borrow requests per caller.
type Admitter interface {
	Admit(key string, now time.Time) bool
}
