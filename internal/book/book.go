package book

import (
	"errors"
)

// ErrNotFound is returned when a book is not found.
var ErrNotFound = errors.New("book not found")

// ErrTitleRequired is returned when a book is created without a title.
var ErrTitleRequired = errors.New("title is required")

// DefaultAuthor is recorded when a book is created without an author.
const DefaultAuthor = "Unknown"

// Status is a book's lending state. It must always agree with the loan
// ledger: BORROWED iff an open loan references the book.
type Status string

const (
	StatusAvailable Status = "AVAILABLE"
	StatusBorrowed  Status = "BORROWED"
)

// Valid reports whether s is a known status.
func (s Status) Valid() bool {
	return s == StatusAvailable || s == StatusBorrowed
}

// Book represents a catalog entry.
type Book struct {
	ID     int64  `json:"id"`
	Title  string `json:"title"`
	Author string `json:"author"`
	Status Status `json:"status"`
}
