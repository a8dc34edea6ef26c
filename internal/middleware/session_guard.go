package middleware

import (
	"net/http"
	"time"

	"grocerystore/internal/repository"

	"github.com/labstack/echo/v4"
)

// JWTのsidに対応するセッション行がまだ有効か確認。
// ログアウト（revoked_at）や期限切れのセッションは401で弾く。
func SessionGuard(sessionRepo repository.SessionRepository) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			//AuthJWTが入れたsession_idを取得する
			rawSID := c.Get(CtxSessionIDKey)
			sid, ok := rawSID.(string)
			if !ok || sid == "" {
				return c.JSON(http.StatusUnauthorized, errorJSON("unauthorized"))
			}

			//DBからセッション行を取得する
			s, err := sessionRepo.FindByID(c.Request().Context(), sid)
			if err != nil || s == nil {
				return c.JSON(http.StatusUnauthorized, errorJSON("unauthorized"))
			}

			//ログアウト済みは強制ログアウト扱い（401）
			if s.RevokedAt != nil {
				return c.JSON(http.StatusUnauthorized, errorJSON("unauthorized"))
			}

			//期限切れ
			if time.Now().After(s.ExpiresAt) {
				return c.JSON(http.StatusUnauthorized, errorJSON("unauthorized"))
			}

			return next(c)
		}
	}
}
