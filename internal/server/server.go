package server

import (
	"grocerystore/internal/config"
	"grocerystore/internal/handler"
	repo "grocerystore/internal/repository"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
)

// 全ハンドラをまとめて受け取る
type Handlers struct {
	Auth          *handler.AuthHandler
	Account       *handler.AccountHandler
	Category      *handler.CategoryHandler
	Product       *handler.ProductHandler
	Cart          *handler.CartHandler
	Order         *handler.OrderHandler
	AdminCategory *handler.AdminCategoryHandler
	AdminProduct  *handler.AdminProductHandler
	AdminUser     *handler.AdminUserHandler
}

func New(cfg config.Config, sessions repo.SessionRepository, h Handlers) *echo.Echo {
	e := echo.New()
	e.HideBanner = true

	e.Use(echomw.Logger())
	e.Use(echomw.Recover())

	registerRoutes(e, cfg, sessions, h)

	return e
}

func Start(e *echo.Echo, addr string) error {
	return e.Start(addr)
}
