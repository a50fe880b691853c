package handler

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"go-movie-api/internal/auth"
	"go-movie-api/internal/model"
	"go-movie-api/internal/service"
)

type stubStrategy struct {
	user model.User
	err  error
}

func (s stubStrategy) Name() string { return auth.StrategyLocal }

func (s stubStrategy) Authenticate(*http.Request) (model.User, error) {
	return s.user, s.err
}

func newAuthHandler(t *testing.T, strategy auth.Strategy) *AuthHandler {
	t.Helper()
	issuer, err := auth.NewIssuer([]byte("handler-test-secret"))
	require.NoError(t, err)
	return NewAuthHandler(service.NewAuthService(strategy, issuer))
}

func postLogin(h *AuthHandler) *httptest.ResponseRecorder {
	req := httptest.NewRequest("POST", "/login", strings.NewReader(`{"username":"alice12","password":"s3cret!"}`))
	rec := httptest.NewRecorder()
	h.Login(rec, req)
	return rec
}

func TestLogin_StoreUnavailable(t *testing.T) {
	h := newAuthHandler(t, stubStrategy{err: fmt.Errorf("find user: %w: connection refused", model.ErrStoreUnavailable)})

	rec := postLogin(h)

	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
	assert.JSONEq(t, `{"message":"Service temporarily unavailable","user":null}`, rec.Body.String())
}

func TestLogin_StoreUnavailableIsNotNotFound(t *testing.T) {
	unavailable := postLogin(newAuthHandler(t, stubStrategy{err: model.ErrStoreUnavailable}))
	notFound := postLogin(newAuthHandler(t, stubStrategy{err: fmt.Errorf("%w: alice12", model.ErrUserNotFound)}))
	wrongPassword := postLogin(newAuthHandler(t, stubStrategy{err: model.ErrInvalidCredentials}))

	assert.Equal(t, http.StatusBadRequest, notFound.Code)
	assert.Equal(t, notFound.Body.String(), wrongPassword.Body.String())
	assert.JSONEq(t, `{"message":"Incorrect username or password","user":null}`, notFound.Body.String())

	assert.Equal(t, http.StatusServiceUnavailable, unavailable.Code)
	assert.NotEqual(t, notFound.Body.String(), unavailable.Body.String())
}

func TestLogin_Success(t *testing.T) {
	h := newAuthHandler(t, stubStrategy{user: model.User{ID: "id-alice12", Username: "alice12", PasswordHash: "$2a$04$hash"}})

	rec := postLogin(h)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"token":"`)
	assert.Contains(t, rec.Body.String(), `"username":"alice12"`)
	assert.NotContains(t, rec.Body.String(), "$2a$04$hash")
}
