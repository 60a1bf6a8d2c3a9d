package book

import (
	"context"
)

// Repository defines the contract for catalog storage. Status transitions
// are not part of this contract: they only happen inside the loan ledger's
// borrow/return transaction, so the two stores cannot drift apart.
type Repository interface {
	Create(ctx context.Context, title, author string) (Book, error)
	GetByID(ctx context.Context, id int64) (Book, error)
	List(ctx context.Context, status Status) ([]Book, error)
}
