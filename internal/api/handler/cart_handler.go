package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/mercadito/ecommerce-api/internal/core/domain"
	"github.com/mercadito/ecommerce-api/internal/core/ports"
)

// CartHandler handles the per-user shopping cart endpoints. All routes
// require a bearer session token; the user id comes from the JWT claims.
type CartHandler struct {
	service ports.CartService
}

func NewCartHandler(service ports.CartService) *CartHandler {
	return &CartHandler{service: service}
}

type addItemRequest struct {
	ProductID string `json:"productoId" validate:"required"`
	Quantity  int    `json:"cantidad"   validate:"required,min=1"`
}

type cartResponse struct {
	Msg  string       `json:"msg,omitempty"`
	Cart *domain.Cart `json:"carrito"`
}

// Get returns the caller's cart, creating an empty one on first access.
//
// @Summary      Get the current user's cart
// @Tags         carrito
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  cartResponse
// @Failure      401  {object}  errorResponse
// @Router       /api/carrito [get]
func (h *CartHandler) Get(c echo.Context) error {
	uid, err := ctxUserID(c)
	if err != nil {
		return err
	}

	cart, err := h.service.GetCart(c.Request().Context(), uid)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, cartResponse{Cart: cart})
}

// AddItem merges a requested quantity into the cart, bounded by stock.
//
// @Summary      Add a product to the cart
// @Tags         carrito
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      addItemRequest  true  "Product and quantity"
// @Success      200   {object}  cartResponse
// @Failure      400   {object}  errorResponse
// @Failure      404   {object}  errorResponse
// @Failure      409   {object}  errorResponse
// @Router       /api/carrito/agregar [post]
func (h *CartHandler) AddItem(c echo.Context) error {
	uid, err := ctxUserID(c)
	if err != nil {
		return err
	}

	var req addItemRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	cart, err := h.service.AddItem(c.Request().Context(), uid, req.ProductID, req.Quantity)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, cartResponse{Msg: "product added or quantity updated", Cart: cart})
}

// RemoveItem drops a product line from the cart entirely.
//
// @Summary      Remove a product from the cart
// @Tags         carrito
// @Produce      json
// @Security     BearerAuth
// @Param        productoId  path      string  true  "Product id"
// @Success      200         {object}  cartResponse
// @Failure      404         {object}  errorResponse
// @Router       /api/carrito/remover/{productoId} [delete]
func (h *CartHandler) RemoveItem(c echo.Context) error {
	uid, err := ctxUserID(c)
	if err != nil {
		return err
	}

	cart, err := h.service.RemoveItem(c.Request().Context(), uid, c.Param("productoId"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, cartResponse{Msg: "product removed from cart", Cart: cart})
}
