package handler

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/tinylink-dev/tinylink/internal/domain"
	"github.com/tinylink-dev/tinylink/internal/usecase"
)

// shortURLUsecaser is the subset of ShortURLUsecase the handler needs.
type shortURLUsecaser interface {
	Shorten(ctx context.Context, input usecase.ShortenInput) (*domain.ShortURL, error)
	List(ctx context.Context, userID string) ([]*domain.ShortURL, error)
	Delete(ctx context.Context, id, userID string) (int64, error)
	Resolve(ctx context.Context, code string) (string, error)
}

type ShortURLHandler struct {
	urlUsecase shortURLUsecaser
	logger     *slog.Logger
}

func NewShortURLHandler(urlUsecase shortURLUsecaser, logger *slog.Logger) *ShortURLHandler {
	return &ShortURLHandler{
		urlUsecase: urlUsecase,
		logger:     logger.With("component", "shorturl_handler"),
	}
}

type shortenRequest struct {
	URL  string `json:"url"  binding:"required,url,max=2048"`
	Code string `json:"code" binding:"omitempty,alphanum,max=32"`
}

type shortURLResponse struct {
	ID        string    `json:"id"`
	ShortCode string    `json:"shortCode"`
	TargetURL string    `json:"targetURL"`
	CreatedAt time.Time `json:"createdAt"`
}

func toShortURLResponse(u *domain.ShortURL) shortURLResponse {
	return shortURLResponse{
		ID:        u.ID,
		ShortCode: u.ShortCode,
		TargetURL: u.TargetURL,
		CreatedAt: u.CreatedAt,
	}
}

// POST /shorten
// Returns 201 {id, shortCode, targetURL}, 409 when a custom code is
// already taken.
func (h *ShortURLHandler) Shorten(c *gin.Context) {
	var req shortenRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	u, err := h.urlUsecase.Shorten(c.Request.Context(), usecase.ShortenInput{
		UserID:     c.GetString("userID"),
		TargetURL:  req.URL,
		CustomCode: req.Code,
	})
	if err != nil {
		if errors.Is(err, domain.ErrCodeTaken) {
			c.JSON(http.StatusConflict, gin.H{"error": errCodeTaken})
			return
		}
		h.logger.Error("shorten url", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": errInternalServer})
		return
	}

	c.JSON(http.StatusCreated, toShortURLResponse(u))
}

// GET /codes
// Returns every short URL owned by the caller.
func (h *ShortURLHandler) List(c *gin.Context) {
	urls, err := h.urlUsecase.List(c.Request.Context(), c.GetString("userID"))
	if err != nil {
		h.logger.Error("list short urls", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": errInternalServer})
		return
	}

	codes := make([]shortURLResponse, len(urls))
	for i, u := range urls {
		codes[i] = toShortURLResponse(u)
	}
	c.JSON(http.StatusOK, gin.H{"codes": codes})
}

// DELETE /:id
// Always reports {"deleted":true}, even when no row matched. The
// removed count is deliberately ignored to keep the historical API
// contract; the store still filters by owner.
func (h *ShortURLHandler) Delete(c *gin.Context) {
	id := c.Param("id")

	_, err := h.urlUsecase.Delete(c.Request.Context(), id, c.GetString("userID"))
	if err != nil {
		h.logger.Error("delete short url", "short_url_id", id, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": errInternalServer})
		return
	}

	c.JSON(http.StatusOK, gin.H{"deleted": true})
}

// GET /:shortcode
// Redirects to the target URL, or 404 {"error":"Invalid url"} on a miss.
func (h *ShortURLHandler) Redirect(c *gin.Context) {
	code := c.Param("shortcode")

	target, err := h.urlUsecase.Resolve(c.Request.Context(), code)
	if err != nil {
		if errors.Is(err, domain.ErrShortURLNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": errInvalidURL})
			return
		}
		h.logger.Error("resolve short url", "short_code", code, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": errInternalServer})
		return
	}

	c.Redirect(http.StatusFound, target)
}
