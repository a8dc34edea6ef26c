package server

import (
	"grocerystore/internal/config"
	repo "grocerystore/internal/repository"

	"github.com/labstack/echo/v4"
)

// 各ハンドラが自分のルートを登録する。
// セッション必須のルートはAuthJWT＋SessionGuardの二段で守る。
func registerRoutes(e *echo.Echo, cfg config.Config, sessions repo.SessionRepository, h Handlers) {
	h.Auth.RegisterRoutes(e, cfg, sessions)
	h.Account.RegisterRoutes(e, cfg, sessions)
	h.Category.RegisterRoutes(e, cfg, sessions)
	h.Product.RegisterRoutes(e, cfg, sessions)
	h.Cart.RegisterRoutes(e, cfg, sessions)
	h.Order.RegisterRoutes(e, cfg, sessions)
	h.AdminCategory.RegisterRoutes(e, cfg, sessions)
	h.AdminProduct.RegisterRoutes(e, cfg, sessions)
	h.AdminUser.RegisterRoutes(e, cfg, sessions)
}
