package loan

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"loanapi/internal/book"
)

type PostgresRepo struct {
	db      *pgxpool.Pool
	timeout time.Duration
}

func NewPostgresRepo(db *pgxpool.Pool, timeout time.Duration) *PostgresRepo {
	return &PostgresRepo{db: db, timeout: timeout}
}

func (r *PostgresRepo) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, r.timeout)
}

const loanColumns = "id, user_id, book_id, borrowed_at, returned_at, due_date"

func scanLoan(row pgx.Row) (Loan, error) {
	var l Loan
	err := row.Scan(&l.ID, &l.UserID, &l.BookID, &l.BorrowedAt, &l.ReturnedAt, &l.DueDate)
	return l, err
}

func (r *PostgresRepo) OpenForBook(ctx context.Context, bookID int64) (Loan, error) {
	const query = `
		SELECT ` + loanColumns + `
		FROM loans
		WHERE book_id = $1 AND returned_at IS NULL
		LIMIT 1
	`
	timeoutCtx, cancel := r.withTimeout(ctx)
	defer cancel()
	l, err := scanLoan(r.db.QueryRow(timeoutCtx, query, bookID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Loan{}, ErrNoOpenLoan
		}
		return Loan{}, err
	}
	return l, nil
}

// Borrow performs the status flip and the loan insert in one transaction.
// The conditional UPDATE is the compare-and-set: under concurrent borrows of
// the same book exactly one transaction moves the row, the rest see zero
// rows affected and roll back without writing a loan.
func (r *PostgresRepo) Borrow(ctx context.Context, userID, bookID int64, due *time.Time) (Loan, error) {
	timeoutCtx, cancel := r.withTimeout(ctx)
	defer cancel()

	tx, err := r.db.Begin(timeoutCtx)
	if err != nil {
		return Loan{}, err
	}
	defer tx.Rollback(timeoutCtx)

	ct, err := tx.Exec(timeoutCtx,
		`UPDATE books SET status = $1 WHERE id = $2 AND status = $3`,
		book.StatusBorrowed, bookID, book.StatusAvailable,
	)
	if err != nil {
		return Loan{}, err
	}
	if ct.RowsAffected() == 0 {
		return Loan{}, ErrBookUnavailable
	}

	const insert = `
		INSERT INTO loans (user_id, book_id, borrowed_at, due_date)
		VALUES ($1, $2, NOW(), $3)
		RETURNING ` + loanColumns

	l, err := scanLoan(tx.QueryRow(timeoutCtx, insert, userID, bookID, due))
	if err != nil {
		return Loan{}, err
	}

	if err := tx.Commit(timeoutCtx); err != nil {
		return Loan{}, err
	}
	return l, nil
}

// Return closes the open loan and frees the book in one transaction. The
// returned_at IS NULL guard makes closing idempotence-safe: a loan can only
// be closed once.
func (r *PostgresRepo) Return(ctx context.Context, bookID int64, at time.Time) (Loan, error) {
	timeoutCtx, cancel := r.withTimeout(ctx)
	defer cancel()

	tx, err := r.db.Begin(timeoutCtx)
	if err != nil {
		return Loan{}, err
	}
	defer tx.Rollback(timeoutCtx)

	const closeLoan = `
		UPDATE loans
		SET returned_at = $2
		WHERE book_id = $1 AND returned_at IS NULL
		RETURNING ` + loanColumns

	l, err := scanLoan(tx.QueryRow(timeoutCtx, closeLoan, bookID, at))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Loan{}, ErrNoOpenLoan
		}
		return Loan{}, err
	}

	ct, err := tx.Exec(timeoutCtx,
		`UPDATE books SET status = $1 WHERE id = $2 AND status = $3`,
		book.StatusAvailable, bookID, book.StatusBorrowed,
	)
	if err != nil {
		return Loan{}, err
	}
	if ct.RowsAffected() == 0 {
		// The ledger had an open loan but the catalog disagreed. Rolling back
		// leaves both stores untouched.
		return Loan{}, ErrBookNotBorrowed
	}

	if err := tx.Commit(timeoutCtx); err != nil {
		return Loan{}, err
	}
	return l, nil
}

func (r *PostgresRepo) List(ctx context.Context, f Filter) ([]Loan, error) {
	clauses := []string{"1=1"}
	args := []any{}
	argn := 1

	if f.UserID != nil {
		clauses = append(clauses, fmt.Sprintf("user_id = $%d", argn))
		args = append(args, *f.UserID)
		argn++
	}

	if f.OpenOnly != nil {
		if *f.OpenOnly {
			clauses = append(clauses, "returned_at IS NULL")
		} else {
			clauses = append(clauses, "returned_at IS NOT NULL")
		}
	}

	query := fmt.Sprintf(
		"SELECT "+loanColumns+" FROM loans WHERE %s ORDER BY id",
		strings.Join(clauses, " AND "),
	)

	timeoutCtx, cancel := r.withTimeout(ctx)
	defer cancel()
	rows, err := r.db.Query(timeoutCtx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return collectLoans(rows)
}

func (r *PostgresRepo) ListOverdue(ctx context.Context, now time.Time) ([]Loan, error) {
	const query = `
		SELECT ` + loanColumns + `
		FROM loans
		WHERE returned_at IS NULL
		  AND due_date IS NOT NULL
		  AND due_date < $1
		ORDER BY due_date
	`
	timeoutCtx, cancel := r.withTimeout(ctx)
	defer cancel()
	rows, err := r.db.Query(timeoutCtx, query, now)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return collectLoans(rows)
}

func collectLoans(rows pgx.Rows) ([]Loan, error) {
	var out []Loan
	for rows.Next() {
		l, err := scanLoan(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, l)
	}
	return out, rows.Err()
}
