package domain

import (
	"errors"
	"time"
)

var (
	ErrShortURLNotFound = errors.New("short url not found")
	ErrCodeTaken        = errors.New("short code already in use")
)

type ShortURL struct {
	ID        string
	ShortCode string
	TargetURL string
	UserID    string
	CreatedAt time.Time
}
