package repository

import (
	"context"

	"github.com/tinylink-dev/tinylink/internal/domain"
)

type ShortURLRepository interface {
	// Create returns domain.ErrCodeTaken when the short code is already used.
	Create(ctx context.Context, u *domain.ShortURL) (*domain.ShortURL, error)
	ListByUser(ctx context.Context, userID string) ([]*domain.ShortURL, error)
	// Delete filters by both id and owner so one user cannot remove
	// another user's links. Returns the number of rows removed.
	Delete(ctx context.Context, id, userID string) (int64, error)
	// FindByCode returns domain.ErrShortURLNotFound on a miss.
	FindByCode(ctx context.Context, code string) (*domain.ShortURL, error)
}
