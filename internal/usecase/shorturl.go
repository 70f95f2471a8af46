package usecase

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/tinylink-dev/tinylink/internal/domain"
	"github.com/tinylink-dev/tinylink/internal/metrics"
	"github.com/tinylink-dev/tinylink/internal/repository"
	"github.com/tinylink-dev/tinylink/internal/shortcode"
)

type ShortURLUsecase struct {
	urls  repository.ShortURLRepository
	codes *shortcode.Generator
}

func NewShortURLUsecase(urls repository.ShortURLRepository, codes *shortcode.Generator) *ShortURLUsecase {
	return &ShortURLUsecase{urls: urls, codes: codes}
}

type ShortenInput struct {
	UserID     string
	TargetURL  string
	CustomCode string
}

// Shorten creates a mapping under a caller-supplied code, or a random
// 6-character one when none is given. No retry on collision: the unique
// constraint surfaces as domain.ErrCodeTaken.
func (u *ShortURLUsecase) Shorten(ctx context.Context, input ShortenInput) (*domain.ShortURL, error) {
	code := input.CustomCode
	origin := "custom"
	if code == "" {
		var err error
		code, err = u.codes.Generate(shortcode.DefaultLength)
		if err != nil {
			return nil, fmt.Errorf("generate short code: %w", err)
		}
		origin = "random"
	}

	created, err := u.urls.Create(ctx, &domain.ShortURL{
		ID:        uuid.NewString(),
		ShortCode: code,
		TargetURL: input.TargetURL,
		UserID:    input.UserID,
	})
	if err != nil {
		if errors.Is(err, domain.ErrCodeTaken) {
			return nil, domain.ErrCodeTaken
		}
		return nil, fmt.Errorf("create short url: %w", err)
	}

	metrics.ShortURLsCreatedTotal.WithLabelValues(origin).Inc()
	return created, nil
}

// List returns every short URL owned by userID.
func (u *ShortURLUsecase) List(ctx context.Context, userID string) ([]*domain.ShortURL, error) {
	urls, err := u.urls.ListByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list short urls: %w", err)
	}
	return urls, nil
}

// Delete removes the short URL only when it belongs to userID. It
// reports how many rows were removed; the caller decides whether a
// zero counts as failure.
func (u *ShortURLUsecase) Delete(ctx context.Context, id, userID string) (int64, error) {
	removed, err := u.urls.Delete(ctx, id, userID)
	if err != nil {
		return 0, fmt.Errorf("delete short url: %w", err)
	}
	return removed, nil
}

// Resolve looks up the redirect target for code.
func (u *ShortURLUsecase) Resolve(ctx context.Context, code string) (string, error) {
	url, err := u.urls.FindByCode(ctx, code)
	if err != nil {
		if errors.Is(err, domain.ErrShortURLNotFound) {
			metrics.RedirectsTotal.WithLabelValues("miss").Inc()
			return "", domain.ErrShortURLNotFound
		}
		return "", fmt.Errorf("find short url: %w", err)
	}

	metrics.RedirectsTotal.WithLabelValues("hit").Inc()
	return url.TargetURL, nil
}
