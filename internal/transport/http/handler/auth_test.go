package handler_test

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"

	"github.com/tinylink-dev/tinylink/internal/domain"
	"github.com/tinylink-dev/tinylink/internal/transport/http/handler"
	"github.com/tinylink-dev/tinylink/internal/usecase"
)

func init() {
	gin.SetMode(gin.TestMode)
}

// fakeAuthUsecase implements the unexported authUsecaser interface via method matching.
type fakeAuthUsecase struct {
	signup func(ctx context.Context, input usecase.SignupInput) (string, error)
	login  func(ctx context.Context, email, password string) (string, error)
}

func (f *fakeAuthUsecase) Signup(ctx context.Context, input usecase.SignupInput) (string, error) {
	return f.signup(ctx, input)
}

func (f *fakeAuthUsecase) Login(ctx context.Context, email, password string) (string, error) {
	return f.login(ctx, email, password)
}

func newAuthEngine(uc *fakeAuthUsecase) *gin.Engine {
	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))
	h := handler.NewAuthHandler(uc, logger)

	r := gin.New()
	r.POST("/signup", h.Signup)
	r.POST("/login", h.Login)
	return r
}

func postJSON(t *testing.T, r *gin.Engine, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)
	return w
}

// ---- Signup ----

func TestSignup_InvalidJSON_Returns400(t *testing.T) {
	w := postJSON(t, newAuthEngine(&fakeAuthUsecase{}), "/signup", `{bad json}`)

	if w.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", w.Code)
	}
}

func TestSignup_MissingFields_Returns400(t *testing.T) {
	w := postJSON(t, newAuthEngine(&fakeAuthUsecase{}), "/signup",
		`{"firstname":"A","email":"a@x.com","password":"pw1pw1pw1"}`)

	if w.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", w.Code)
	}
}

func TestSignup_DuplicateEmail_Returns400(t *testing.T) {
	uc := &fakeAuthUsecase{
		signup: func(_ context.Context, _ usecase.SignupInput) (string, error) {
			return "", domain.ErrEmailTaken
		},
	}
	w := postJSON(t, newAuthEngine(uc), "/signup",
		`{"firstname":"A","lastname":"B","email":"a@x.com","password":"pw1pw1pw1"}`)

	if w.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", w.Code)
	}
}

func TestSignup_Success_Returns201WithUserID(t *testing.T) {
	uc := &fakeAuthUsecase{
		signup: func(_ context.Context, _ usecase.SignupInput) (string, error) {
			return "user-1", nil
		},
	}
	w := postJSON(t, newAuthEngine(uc), "/signup",
		`{"firstname":"A","lastname":"B","email":"a@x.com","password":"pw1pw1pw1"}`)

	if w.Code != http.StatusCreated {
		t.Fatalf("status = %d, want 201", w.Code)
	}

	var resp struct {
		Data struct {
			UserID string `json:"userId"`
		} `json:"data"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp.Data.UserID != "user-1" {
		t.Errorf("userId = %q, want user-1", resp.Data.UserID)
	}
}

func TestSignup_StoreError_Returns500(t *testing.T) {
	uc := &fakeAuthUsecase{
		signup: func(_ context.Context, _ usecase.SignupInput) (string, error) {
			return "", errors.New("db down")
		},
	}
	w := postJSON(t, newAuthEngine(uc), "/signup",
		`{"firstname":"A","lastname":"B","email":"a@x.com","password":"pw1pw1pw1"}`)

	if w.Code != http.StatusInternalServerError {
		t.Errorf("status = %d, want 500", w.Code)
	}
	if strings.Contains(w.Body.String(), "db down") {
		t.Error("response leaks internal error detail")
	}
}

// ---- Login ----

func TestLogin_UnknownEmail_Returns404(t *testing.T) {
	uc := &fakeAuthUsecase{
		login: func(_ context.Context, _, _ string) (string, error) {
			return "", domain.ErrUserNotFound
		},
	}
	w := postJSON(t, newAuthEngine(uc), "/login", `{"email":"a@x.com","password":"pw"}`)

	if w.Code != http.StatusNotFound {
		t.Errorf("status = %d, want 404", w.Code)
	}
}

func TestLogin_WrongPassword_Returns400(t *testing.T) {
	uc := &fakeAuthUsecase{
		login: func(_ context.Context, _, _ string) (string, error) {
			return "", domain.ErrInvalidCredentials
		},
	}
	w := postJSON(t, newAuthEngine(uc), "/login", `{"email":"a@x.com","password":"wrong"}`)

	if w.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", w.Code)
	}
	if strings.Contains(w.Body.String(), "token") {
		t.Error("token issued for wrong password")
	}
}

func TestLogin_Success_Returns200WithToken(t *testing.T) {
	const fakeToken = "header.payload.signature"
	uc := &fakeAuthUsecase{
		login: func(_ context.Context, _, _ string) (string, error) {
			return fakeToken, nil
		},
	}
	w := postJSON(t, newAuthEngine(uc), "/login", `{"email":"a@x.com","password":"pw1pw1pw1"}`)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}
	if !strings.Contains(w.Body.String(), fakeToken) {
		t.Errorf("body %q does not contain token", w.Body.String())
	}
}
