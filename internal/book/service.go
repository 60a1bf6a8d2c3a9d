package book

import (
	"context"
	"strings"
)

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// Create adds a catalog entry. Title is required; a missing author falls
// back to DefaultAuthor. New books start AVAILABLE.
func (s *Service) Create(ctx context.Context, title, author string) (Book, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return Book{}, ErrTitleRequired
	}
	author = strings.TrimSpace(author)
	if author == "" {
		author = DefaultAuthor
	}
	return s.repo.Create(ctx, title, author)
}

func (s *Service) GetByID(ctx context.Context, id int64) (Book, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *Service) List(ctx context.Context, status Status) ([]Book, error) {
	return s.repo.List(ctx, status)
}
