package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"grocerystore/internal/config"
	"grocerystore/internal/domain/model"
	repo "grocerystore/internal/repository"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

type SessionRepoMock struct{ mock.Mock }

func (m *SessionRepoMock) Create(ctx context.Context, s *model.Session) error {
	args := m.Called(ctx, s)
	return args.Error(0)
}

func (m *SessionRepoMock) FindByID(ctx context.Context, sessionID string) (*model.Session, error) {
	args := m.Called(ctx, sessionID)
	s, _ := args.Get(0).(*model.Session)
	return s, args.Error(1)
}

func (m *SessionRepoMock) Revoke(ctx context.Context, sessionID string) error {
	args := m.Called(ctx, sessionID)
	return args.Error(0)
}

func (m *SessionRepoMock) DeleteByUserID(ctx context.Context, userID int64) error {
	args := m.Called(ctx, userID)
	return args.Error(0)
}

func runSessionGuard(sessionRepo repo.SessionRepository, sid interface{}) *httptest.ResponseRecorder {
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/cart", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	if sid != nil {
		c.Set(CtxSessionIDKey, sid)
	}

	_ = SessionGuard(sessionRepo)(func(c echo.Context) error {
		return c.NoContent(http.StatusOK)
	})(c)

	return rec
}

func TestMiddleware_SessionGuard_Unauthorized_MissingContext(t *testing.T) {
	sessionRepo := new(SessionRepoMock)

	rec := runSessionGuard(sessionRepo, nil)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	sessionRepo.AssertNotCalled(t, "FindByID", mock.Anything, mock.Anything)
}

func TestMiddleware_SessionGuard_Unauthorized_UnknownSession(t *testing.T) {
	sessionRepo := new(SessionRepoMock)
	sessionRepo.On("FindByID", mock.Anything, "sid-1").Return(nil, repo.ErrNotFound)

	rec := runSessionGuard(sessionRepo, "sid-1")

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestMiddleware_SessionGuard_Unauthorized_RevokedSession(t *testing.T) {
	sessionRepo := new(SessionRepoMock)
	revokedAt := time.Now().Add(-time.Minute)
	sessionRepo.On("FindByID", mock.Anything, "sid-1").Return(&model.Session{
		ID:        "sid-1",
		UserID:    2,
		ExpiresAt: time.Now().Add(time.Hour),
		RevokedAt: &revokedAt,
	}, nil)

	rec := runSessionGuard(sessionRepo, "sid-1")

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestMiddleware_SessionGuard_Unauthorized_ExpiredSession(t *testing.T) {
	sessionRepo := new(SessionRepoMock)
	sessionRepo.On("FindByID", mock.Anything, "sid-1").Return(&model.Session{
		ID:        "sid-1",
		UserID:    2,
		ExpiresAt: time.Now().Add(-time.Minute),
	}, nil)

	rec := runSessionGuard(sessionRepo, "sid-1")

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestMiddleware_SessionGuard_AllowsActiveSession(t *testing.T) {
	sessionRepo := new(SessionRepoMock)
	sessionRepo.On("FindByID", mock.Anything, "sid-1").Return(&model.Session{
		ID:        "sid-1",
		UserID:    2,
		ExpiresAt: time.Now().Add(time.Hour),
	}, nil)

	rec := runSessionGuard(sessionRepo, "sid-1")

	assert.Equal(t, http.StatusOK, rec.Code)
}

// ログアウトでrevokeされたセッションのトークンは、署名と期限が有効でも401。
func TestMiddleware_SessionGuard_RejectsTokenAfterLogout(t *testing.T) {
	token := signToken(t, testSecret, defaultClaims())

	sessionRepo := new(SessionRepoMock)
	revokedAt := time.Now()
	sessionRepo.On("FindByID", mock.Anything, "sid-1").Return(&model.Session{
		ID:        "sid-1",
		UserID:    2,
		ExpiresAt: time.Now().Add(time.Hour),
		RevokedAt: &revokedAt,
	}, nil)

	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/cart", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	//実際のルートと同じAuthJWT→SessionGuardの順で通す
	chain := AuthJWT(config.Config{JWTSecret: testSecret})(
		SessionGuard(sessionRepo)(func(c echo.Context) error {
			return c.NoContent(http.StatusOK)
		}),
	)
	err := chain(c)

	assert.NoError(t, err)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	sessionRepo.AssertExpectations(t)
}
