package handler

import (
	"net/http"
	"strconv"
	"time"

	"grocerystore/internal/config"
	"grocerystore/internal/middleware"
	repo "grocerystore/internal/repository"
	"grocerystore/internal/usecase"

	"github.com/labstack/echo/v4"
)

// /admin/productsのHTTP（管理者のみ）
type AdminProductHandler struct {
	uc *usecase.CatalogUsecase
}

// DI
func NewAdminProductHandler(uc *usecase.CatalogUsecase) *AdminProductHandler {
	return &AdminProductHandler{uc: uc}
}

type AdminProductRequest struct {
	Name            string  `json:"name"`
	Price           float64 `json:"price"`
	CategoryID      int64   `json:"category_id"`
	Quantity        int64   `json:"quantity"`
	ManufactureDate string  `json:"manufacture_date"` // YYYY-MM-DD
}

type SetStockRequest struct {
	Quantity int64  `json:"quantity"`
	Reason   string `json:"reason"`
}

func (h *AdminProductHandler) RegisterRoutes(e *echo.Echo, cfg config.Config, sessions repo.SessionRepository) {
	g := e.Group("/admin/products")
	g.Use(middleware.AuthJWT(cfg))
	g.Use(middleware.SessionGuard(sessions))
	g.Use(middleware.AdminRoleGuard())

	g.POST("", h.create)
	g.PUT("/:id", h.update)
	g.DELETE("/:id", h.delete)
	g.PATCH("/:id/stock", h.setStock)
}

// manufacture_dateはYYYY-MM-DD固定
func (h *AdminProductHandler) toInput(req AdminProductRequest) (usecase.AdminProductInput, error) {
	in := usecase.AdminProductInput{
		Name:       req.Name,
		Price:      req.Price,
		CategoryID: req.CategoryID,
		Quantity:   req.Quantity,
	}

	if req.ManufactureDate != "" {
		d, err := time.Parse("2006-01-02", req.ManufactureDate)
		if err != nil {
			return usecase.AdminProductInput{}, err
		}
		in.ManufactureDate = d
	}

	return in, nil
}

func (h *AdminProductHandler) create(c echo.Context) error {
	adminID, ok := getUserIDFromContext(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "unauthorized"})
	}

	var req AdminProductRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}

	in, err := h.toInput(req)
	if err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid manufacture_date"})
	}

	id, err := h.uc.AdminCreateProduct(c.Request().Context(), adminID, in)
	if err != nil {
		return writeError(c, err)
	}

	return c.JSON(http.StatusCreated, map[string]int64{"id": id})
}

func (h *AdminProductHandler) update(c echo.Context) error {
	adminID, ok := getUserIDFromContext(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "unauthorized"})
	}

	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid id"})
	}

	var req AdminProductRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}

	in, err := h.toInput(req)
	if err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid manufacture_date"})
	}

	if err := h.uc.AdminUpdateProduct(c.Request().Context(), adminID, id, in); err != nil {
		return writeError(c, err)
	}

	return c.NoContent(http.StatusNoContent)
}

func (h *AdminProductHandler) delete(c echo.Context) error {
	adminID, ok := getUserIDFromContext(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "unauthorized"})
	}

	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid id"})
	}

	if err := h.uc.AdminDeleteProduct(c.Request().Context(), adminID, id); err != nil {
		return writeError(c, err)
	}

	return c.NoContent(http.StatusNoContent)
}

func (h *AdminProductHandler) setStock(c echo.Context) error {
	adminID, ok := getUserIDFromContext(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "unauthorized"})
	}

	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid id"})
	}

	var req SetStockRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}

	if err := h.uc.AdminSetStock(c.Request().Context(), adminID, id, req.Quantity, req.Reason); err != nil {
		return writeError(c, err)
	}

	return c.NoContent(http.StatusNoContent)
}
