package loan

import (
	"context"
	"errors"
	"fmt"
	"time"

	"loanapi/internal/book"
	"loanapi/internal/platform/users"
)

// Service coordinates borrow and return across the catalog, the ledger, the
// users service and the admission limiter.
type Service struct {
	books   book.Repository
	ledger  Ledger
	users   UserVerifier
	limiter Admitter

	now func() time.Time
}

func NewService(books book.Repository, ledger Ledger, verifier UserVerifier, limiter Admitter) *Service {
	return &Service{
		books:   books,
		ledger:  ledger,
		users:   verifier,
		limiter: limiter,
		now:     time.Now,
	}
}

// Borrow runs the borrow preconditions in order and short-circuits on the
// first failure. Only the final step mutates anything, and it does so
// atomically through the ledger.
//
// A non-positive days means the loan has no due date; that request is still
// accepted, matching the lenient behavior callers rely on.
func (s *Service) Borrow(ctx context.Context, callerKey string, userID, bookID int64, days int) (Loan, error) {
	now := s.now().UTC()

	if !s.limiter.Admit(callerKey, now) {
		return Loan{}, ErrRateLimited
	}

	if userID <= 0 || bookID <= 0 {
		return Loan{}, ErrInvalidRequest
	}

	status, err := s.users.Verify(ctx, userID)
	switch status {
	case users.StatusValid:
	case users.StatusNotFound:
		return Loan{}, ErrUserNotFound
	default:
		return Loan{}, fmt.Errorf("%w: %v", ErrUserLookupFailed, err)
	}

	b, err := s.books.GetByID(ctx, bookID)
	if err != nil {
		return Loan{}, err
	}
	if b.Status != book.StatusAvailable {
		return Loan{}, ErrBookUnavailable
	}

	// Status and open-loan existence are stored separately; both must agree
	// before we write.
	if _, err := s.ledger.OpenForBook(ctx, bookID); err == nil {
		return Loan{}, ErrAlreadyOnLoan
	} else if !errors.Is(err, ErrNoOpenLoan) {
		return Loan{}, err
	}

	var due *time.Time
	if days > 0 {
		d := now.Add(time.Duration(days) * 24 * time.Hour)
		due = &d
	}

	return s.ledger.Borrow(ctx, userID, bookID, due)
}

// Return closes the open loan for bookID and frees the book.
func (s *Service) Return(ctx context.Context, bookID int64) (Loan, error) {
	if bookID <= 0 {
		return Loan{}, ErrInvalidRequest
	}

	b, err := s.books.GetByID(ctx, bookID)
	if err != nil {
		return Loan{}, err
	}
	if b.Status != book.StatusBorrowed {
		return Loan{}, ErrBookNotBorrowed
	}

	if _, err := s.ledger.OpenForBook(ctx, bookID); err != nil {
		return Loan{}, err
	}

	return s.ledger.Return(ctx, bookID, s.now().UTC())
}

// Loans lists loans matching f.
func (s *Service) Loans(ctx context.Context, f Filter) ([]Loan, error) {
	return s.ledger.List(ctx, f)
}

// Overdue lists open loans whose due date has passed.
func (s *Service) Overdue(ctx context.Context) ([]Loan, error) {
	return s.ledger.ListOverdue(ctx, s.now().UTC())
}
