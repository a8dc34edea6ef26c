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

// /admin/users, /admin/audit-logsのHTTP（管理者のみ）
type AdminUserHandler struct {
	accountUC *usecase.AccountUsecase
	catalogUC *usecase.CatalogUsecase
}

// DI
func NewAdminUserHandler(accountUC *usecase.AccountUsecase, catalogUC *usecase.CatalogUsecase) *AdminUserHandler {
	return &AdminUserHandler{accountUC: accountUC, catalogUC: catalogUC}
}

func (h *AdminUserHandler) RegisterRoutes(e *echo.Echo, cfg config.Config, sessions repo.SessionRepository) {
	g := e.Group("/admin")
	g.Use(middleware.AuthJWT(cfg))
	g.Use(middleware.SessionGuard(sessions))
	g.Use(middleware.AdminRoleGuard())

	g.GET("/users", h.listUsers)
	g.GET("/audit-logs", h.listAuditLogs)
}

func (h *AdminUserHandler) listUsers(c echo.Context) error {
	adminID, ok := getUserIDFromContext(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "unauthorized"})
	}

	outs, err := h.accountUC.ListUsers(c.Request().Context(), adminID)
	if err != nil {
		return writeError(c, err)
	}

	return c.JSON(http.StatusOK, outs)
}

func (h *AdminUserHandler) listAuditLogs(c echo.Context) error {
	adminID, ok := getUserIDFromContext(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "unauthorized"})
	}

	filter := repo.AuditLogFilter{
		Action:       c.QueryParam("action"),
		ResourceType: c.QueryParam("resource_type"),
	}
	if v := c.QueryParam("limit"); v != "" {
		limit, err := strconv.Atoi(v)
		if err != nil {
			return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid limit"})
		}
		filter.Limit = limit
	}

	logs, err := h.catalogUC.ListAuditLogs(c.Request().Context(), adminID, filter)
	if err != nil {
		return writeError(c, err)
	}

	return c.JSON(http.StatusOK, logs)
}
