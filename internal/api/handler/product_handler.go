package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/mercadito/ecommerce-api/internal/core/domain"
	"github.com/mercadito/ecommerce-api/internal/core/ports"
)

// ProductHandler handles catalog CRUD. Reads are public; writes sit behind
// the Auth middleware.
type ProductHandler struct {
	service ports.ProductService
}

func NewProductHandler(service ports.ProductService) *ProductHandler {
	return &ProductHandler{service: service}
}

type createProductRequest struct {
	Name        string  `json:"nombre"      validate:"required"`
	Description string  `json:"descripcion" validate:"required"`
	Price       float64 `json:"precio"      validate:"gte=0"`
	Stock       int     `json:"stock"       validate:"gte=0"`
}

type updateProductRequest struct {
	Name        string  `json:"nombre"      validate:"required"`
	Description string  `json:"descripcion" validate:"required"`
	Price       float64 `json:"precio"      validate:"gte=0"`
	Stock       int     `json:"stock"       validate:"gte=0"`
	Active      bool    `json:"activo"`
}

type productResponse struct {
	Msg     string          `json:"msg,omitempty"`
	Product *domain.Product `json:"producto"`
}

type productListResponse struct {
	Products []*domain.Product `json:"productos"`
}

// Create adds a new catalog entry.
//
// @Summary      Create a product
// @Tags         producto
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      createProductRequest  true  "Product details"
// @Success      201   {object}  productResponse
// @Failure      400   {object}  errorResponse
// @Failure      401   {object}  errorResponse
// @Router       /api/producto [post]
func (h *ProductHandler) Create(c echo.Context) error {
	var req createProductRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	product, err := h.service.Create(c.Request().Context(), req.Name, req.Description, req.Price, req.Stock)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, productResponse{Msg: "product created", Product: product})
}

// List returns every product, newest first, soft-deleted ones included.
//
// @Summary      List all products
// @Tags         producto
// @Produce      json
// @Success      200  {object}  productListResponse
// @Router       /api/producto [get]
func (h *ProductHandler) List(c echo.Context) error {
	products, err := h.service.List(c.Request().Context())
	if err != nil {
		return err
	}
	if products == nil {
		products = []*domain.Product{}
	}
	return c.JSON(http.StatusOK, productListResponse{Products: products})
}

// Get returns a single product by id.
//
// @Summary      Get a product by id
// @Tags         producto
// @Produce      json
// @Param        id   path      string  true  "Product id"
// @Success      200  {object}  productResponse
// @Failure      400  {object}  errorResponse
// @Failure      404  {object}  errorResponse
// @Router       /api/producto/{id} [get]
func (h *ProductHandler) Get(c echo.Context) error {
	product, err := h.service.Get(c.Request().Context(), c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, productResponse{Product: product})
}

// Update replaces the mutable fields of a product.
//
// @Summary      Update a product
// @Tags         producto
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      string                true  "Product id"
// @Param        body  body      updateProductRequest  true  "New field values"
// @Success      200   {object}  productResponse
// @Failure      400   {object}  errorResponse
// @Failure      404   {object}  errorResponse
// @Router       /api/producto/{id} [put]
func (h *ProductHandler) Update(c echo.Context) error {
	var req updateProductRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	product, err := h.service.Update(c.Request().Context(), c.Param("id"), ports.UpdateProductInput{
		Name:        req.Name,
		Description: req.Description,
		Price:       req.Price,
		Stock:       req.Stock,
		Active:      req.Active,
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, productResponse{Msg: "product updated", Product: product})
}

// Delete soft-deletes a product: it stays readable with activo=false.
//
// @Summary      Deactivate a product
// @Tags         producto
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Product id"
// @Success      200  {object}  productResponse
// @Failure      400  {object}  errorResponse
// @Failure      404  {object}  errorResponse
// @Router       /api/producto/{id} [delete]
func (h *ProductHandler) Delete(c echo.Context) error {
	product, err := h.service.Delete(c.Request().Context(), c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, productResponse{Msg: "product deactivated", Product: product})
}
