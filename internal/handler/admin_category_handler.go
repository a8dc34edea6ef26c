package handler

import (
	"net/http"
	"strconv"

	"grocerystore/internal/config"
	"grocerystore/internal/middleware"
	repo "grocerystore/internal/repository"
	"grocerystore/internal/usecase"

	"github.com/labstack/echo/v4"
)

// /admin/categoriesのHTTP（管理者のみ）
type AdminCategoryHandler struct {
	uc *usecase.CatalogUsecase
}

// DI
func NewAdminCategoryHandler(uc *usecase.CatalogUsecase) *AdminCategoryHandler {
	return &AdminCategoryHandler{uc: uc}
}

type CategoryRequest struct {
	Name string `json:"name"`
}

func (h *AdminCategoryHandler) RegisterRoutes(e *echo.Echo, cfg config.Config, sessions repo.SessionRepository) {
	g := e.Group("/admin/categories")
	g.Use(middleware.AuthJWT(cfg))
	g.Use(middleware.SessionGuard(sessions))
	g.Use(middleware.AdminRoleGuard())

	g.POST("", h.create)
	g.PUT("/:id", h.update)
	g.DELETE("/:id", h.delete)
}

func (h *AdminCategoryHandler) create(c echo.Context) error {
	adminID, ok := getUserIDFromContext(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "unauthorized"})
	}

	var req CategoryRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}

	id, err := h.uc.AdminCreateCategory(c.Request().Context(), adminID, req.Name)
	if err != nil {
		return writeError(c, err)
	}

	return c.JSON(http.StatusCreated, map[string]int64{"id": id})
}

func (h *AdminCategoryHandler) update(c echo.Context) error {
	adminID, ok := getUserIDFromContext(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "unauthorized"})
	}

	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid id"})
	}

	var req CategoryRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}

	if err := h.uc.AdminUpdateCategory(c.Request().Context(), adminID, id, req.Name); err != nil {
		return writeError(c, err)
	}

	return c.NoContent(http.StatusNoContent)
}

func (h *AdminCategoryHandler) delete(c echo.Context) error {
	adminID, ok := getUserIDFromContext(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "unauthorized"})
	}

	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid id"})
	}

	if err := h.uc.AdminDeleteCategory(c.Request().Context(), adminID, id); err != nil {
		return writeError(c, err)
	}

	return c.NoContent(http.StatusNoContent)
}
