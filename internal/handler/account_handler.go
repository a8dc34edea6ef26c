package handler

import (
	"net/http"

	"grocerystore/internal/config"
	"grocerystore/internal/middleware"
	repo "grocerystore/internal/repository"
	"grocerystore/internal/usecase"

	"github.com/labstack/echo/v4"
)

// /accountのHTTP（自分のプロフィール）
type AccountHandler struct {
	uc *usecase.AccountUsecase
}

// DI
func NewAccountHandler(uc *usecase.AccountUsecase) *AccountHandler {
	return &AccountHandler{uc: uc}
}

type UpdateProfileRequest struct {
	Name     string `json:"name"`
	Username string `json:"username"`
	Email    string `json:"email"`
}

func (h *AccountHandler) RegisterRoutes(e *echo.Echo, cfg config.Config, sessions repo.SessionRepository) {
	g := e.Group("/account")
	g.Use(middleware.AuthJWT(cfg))
	g.Use(middleware.SessionGuard(sessions))

	g.GET("", h.me)
	g.PATCH("", h.updateProfile)
	g.DELETE("", h.deleteAccount)
}

func (h *AccountHandler) me(c echo.Context) error {
	userID, ok := getUserIDFromContext(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "unauthorized"})
	}

	out, err := h.uc.Me(c.Request().Context(), userID)
	if err != nil {
		return writeError(c, err)
	}

	return c.JSON(http.StatusOK, out)
}

func (h *AccountHandler) updateProfile(c echo.Context) error {
	userID, ok := getUserIDFromContext(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "unauthorized"})
	}

	var req UpdateProfileRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}

	out, err := h.uc.UpdateProfile(c.Request().Context(), userID, usecase.UpdateProfileInput{
		Name:     req.Name,
		Username: req.Username,
		Email:    req.Email,
	})
	if err != nil {
		return writeError(c, err)
	}

	return c.JSON(http.StatusOK, out)
}

func (h *AccountHandler) deleteAccount(c echo.Context) error {
	userID, ok := getUserIDFromContext(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "unauthorized"})
	}

	if err := h.uc.DeleteAccount(c.Request().Context(), userID); err != nil {
		return writeError(c, err)
	}

	return c.NoContent(http.StatusNoContent)
}
