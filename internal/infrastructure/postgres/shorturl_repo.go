package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/tinylink-dev/tinylink/internal/domain"
)

type ShortURLRepository struct {
	pool *pgxpool.Pool
}

func NewShortURLRepository(pool *pgxpool.Pool) *ShortURLRepository {
	return &ShortURLRepository{pool: pool}
}

func (r *ShortURLRepository) Create(ctx context.Context, u *domain.ShortURL) (*domain.ShortURL, error) {
	query := `
		INSERT INTO short_urls (id, short_code, target_url, user_id)
		VALUES ($1, $2, $3, $4)
		RETURNING id, short_code, target_url, user_id, created_at`

	row := r.pool.QueryRow(ctx, query, u.ID, u.ShortCode, u.TargetURL, u.UserID)

	created, err := scanShortURL(row)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return nil, domain.ErrCodeTaken
		}
		return nil, err
	}
	return created, nil
}

func (r *ShortURLRepository) ListByUser(ctx context.Context, userID string) ([]*domain.ShortURL, error) {
	query := `
		SELECT id, short_code, target_url, user_id, created_at
		FROM short_urls
		WHERE user_id = $1
		ORDER BY created_at DESC`

	rows, err := r.pool.Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("list short urls: %w", err)
	}
	defer rows.Close()

	urls := []*domain.ShortURL{}
	for rows.Next() {
		u, err := scanShortURL(rows)
		if err != nil {
			return nil, err
		}
		urls = append(urls, u)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate short urls: %w", err)
	}
	return urls, nil
}

func (r *ShortURLRepository) Delete(ctx context.Context, id, userID string) (int64, error) {
	// Both predicates are required: id alone would let any
	// authenticated caller remove another user's link.
	tag, err := r.pool.Exec(ctx,
		`DELETE FROM short_urls WHERE id = $1 AND user_id = $2`,
		id, userID,
	)
	if err != nil {
		return 0, fmt.Errorf("delete short url: %w", err)
	}
	return tag.RowsAffected(), nil
}

func (r *ShortURLRepository) FindByCode(ctx context.Context, code string) (*domain.ShortURL, error) {
	query := `
		SELECT id, short_code, target_url, user_id, created_at
		FROM short_urls
		WHERE short_code = $1`

	row := r.pool.QueryRow(ctx, query, code)
	return scanShortURL(row)
}

func scanShortURL(row pgx.Row) (*domain.ShortURL, error) {
	var u domain.ShortURL
	err := row.Scan(&u.ID, &u.ShortCode, &u.TargetURL, &u.UserID, &u.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrShortURLNotFound
		}
		return nil, fmt.Errorf("scan short url: %w", err)
	}
	return &u, nil
}
