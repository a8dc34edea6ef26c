package middleware

import (
	"net/http"

	"grocerystore/internal/domain/model"

	"github.com/labstack/echo/v4"
)

// AuthJWTがcontextに入れたroleで管理者ルートを守る。
// SessionGuardの後段に置く前提。
func AdminRoleGuard() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			rawRole := c.Get(CtxUserRoleKey)
			role, ok := rawRole.(string)
			if !ok || role == "" {
				return c.JSON(http.StatusUnauthorized, errorJSON("unauthorized"))
			}

			//ADMIN以外（USER）は拒否
			if role != string(model.RoleAdmin) {
				return c.JSON(http.StatusForbidden, errorJSON("admin only"))
			}

			return next(c)
		}
	}
}
