package handler

import (
	"net/http"

	"grocerystore/internal/config"
	"grocerystore/internal/middleware"
	repo "grocerystore/internal/repository"
	"grocerystore/internal/usecase"

	"github.com/labstack/echo/v4"
)

// /authのHTTP（登録・ログイン・ログアウト）
type AuthHandler struct {
	uc *usecase.AccountUsecase
}

// DI
func NewAuthHandler(uc *usecase.AccountUsecase) *AuthHandler {
	return &AuthHandler{uc: uc}
}

type RegisterRequest struct {
	Name     string `json:"name"`
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (h *AuthHandler) RegisterRoutes(e *echo.Echo, cfg config.Config, sessions repo.SessionRepository) {
	g := e.Group("/auth")

	g.POST("/register", h.register)
	g.POST("/login", h.login)
	g.POST("/login/admin", h.loginAdmin)

	//logoutだけ認証必須。失効済みセッションの再ログアウトも401になる
	g.POST("/logout", h.logout, middleware.AuthJWT(cfg), middleware.SessionGuard(sessions))
}

// JWT検証済みのsession_idをcontextから取り出す
func getSessionIDFromContext(c echo.Context) (string, bool) {
	v := c.Get(middleware.CtxSessionIDKey)
	sid, ok := v.(string)
	return sid, ok && sid != ""
}

func (h *AuthHandler) register(c echo.Context) error {
	var req RegisterRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}

	out, err := h.uc.Register(c.Request().Context(), usecase.RegisterInput{
		Name:     req.Name,
		Username: req.Username,
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		return writeError(c, err)
	}

	return c.JSON(http.StatusCreated, out)
}

func (h *AuthHandler) login(c echo.Context) error {
	return h.doLogin(c, false)
}

// 管理者専用ログイン。一般ユーザーは資格情報エラーと同じ応答で弾く。
func (h *AuthHandler) loginAdmin(c echo.Context) error {
	return h.doLogin(c, true)
}

func (h *AuthHandler) doLogin(c echo.Context, requireAdmin bool) error {
	var req LoginRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}

	out, err := h.uc.Login(c.Request().Context(), usecase.LoginInput{
		Email:    req.Email,
		Password: req.Password,
	}, requireAdmin)
	if err != nil {
		return writeError(c, err)
	}

	return c.JSON(http.StatusOK, out)
}

func (h *AuthHandler) logout(c echo.Context) error {
	userID, ok := getUserIDFromContext(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "unauthorized"})
	}
	sessionID, ok := getSessionIDFromContext(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "unauthorized"})
	}

	if err := h.uc.Logout(c.Request().Context(), userID, sessionID); err != nil {
		return writeError(c, err)
	}

	return c.NoContent(http.StatusNoContent)
}
