package handler

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"

	"github.com/mercadito/ecommerce-api/internal/core/domain"
	"github.com/mercadito/ecommerce-api/internal/core/ports"
)

// ---------------------------------------------------------------------------
// Stub product service
// ---------------------------------------------------------------------------

type stubProductService struct {
	product    *domain.Product
	products   []*domain.Product
	err        error
	lastID     string
	lastUpdate ports.UpdateProductInput
}

func (s *stubProductService) Create(_ context.Context, name, description string, price float64, stock int) (*domain.Product, error) {
	if s.err != nil {
		return nil, s.err
	}
	return &domain.Product{ID: "prod-1", Name: name, Description: description, Price: price, Stock: stock, Active: true}, nil
}

func (s *stubProductService) List(_ context.Context) ([]*domain.Product, error) {
	return s.products, s.err
}

func (s *stubProductService) Get(_ context.Context, id string) (*domain.Product, error) {
	s.lastID = id
	return s.product, s.err
}

func (s *stubProductService) Update(_ context.Context, id string, in ports.UpdateProductInput) (*domain.Product, error) {
	s.lastID, s.lastUpdate = id, in
	return s.product, s.err
}

func (s *stubProductService) Delete(_ context.Context, id string) (*domain.Product, error) {
	s.lastID = id
	return s.product, s.err
}

// ---------------------------------------------------------------------------
// Helpers
// ---------------------------------------------------------------------------

func productContext(t *testing.T, method, body string) (echo.Context, *httptest.ResponseRecorder) {
	t.Helper()
	e := echo.New()
	e.Validator = NewValidator()
	req := httptest.NewRequest(method, "/", strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	return e.NewContext(req, rec), rec
}

// ---------------------------------------------------------------------------
// Create
// ---------------------------------------------------------------------------

func TestProductHandler_Create_Created(t *testing.T) {
	h := NewProductHandler(&stubProductService{})

	c, rec := productContext(t, http.MethodPost, `{"nombre":"Tomates","descripcion":"frescos","precio":25.5,"stock":10}`)
	if err := h.Create(c); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rec.Code != http.StatusCreated {
		t.Errorf("expected 201, got %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), `"producto"`) {
		t.Errorf("response must wrap the product in producto: %s", rec.Body.String())
	}
}

func TestProductHandler_Create_MissingName(t *testing.T) {
	h := NewProductHandler(&stubProductService{})

	c, _ := productContext(t, http.MethodPost, `{"descripcion":"frescos","precio":25.5,"stock":10}`)
	err := h.Create(c)
	var he *echo.HTTPError
	if !errors.As(err, &he) || he.Code != http.StatusBadRequest {
		t.Errorf("expected 400 for missing nombre, got %v", err)
	}
}

func TestProductHandler_Create_NegativePrice(t *testing.T) {
	h := NewProductHandler(&stubProductService{})

	c, _ := productContext(t, http.MethodPost, `{"nombre":"Tomates","descripcion":"x","precio":-1,"stock":10}`)
	err := h.Create(c)
	var he *echo.HTTPError
	if !errors.As(err, &he) || he.Code != http.StatusBadRequest {
		t.Errorf("expected 400 for negative precio, got %v", err)
	}
}

func TestProductHandler_Create_PropagatesDuplicate(t *testing.T) {
	h := NewProductHandler(&stubProductService{err: domain.ErrProductExists})

	c, _ := productContext(t, http.MethodPost, `{"nombre":"Tomates","descripcion":"x","precio":1,"stock":1}`)
	err := h.Create(c)
	if !errors.Is(err, domain.ErrProductExists) {
		t.Errorf("expected ErrProductExists, got %v", err)
	}
}

// ---------------------------------------------------------------------------
// List / Get
// ---------------------------------------------------------------------------

func TestProductHandler_List_EmptyCatalogIsEmptyArray(t *testing.T) {
	h := NewProductHandler(&stubProductService{products: nil})

	c, rec := productContext(t, http.MethodGet, "")
	if err := h.List(c); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(rec.Body.String(), `"productos":[]`) {
		t.Errorf("empty catalog must render as [], not null: %s", rec.Body.String())
	}
}

func TestProductHandler_Get_UsesPathParam(t *testing.T) {
	svc := &stubProductService{product: &domain.Product{ID: "prod-7", Name: "Tomates"}}
	h := NewProductHandler(svc)

	c, rec := productContext(t, http.MethodGet, "")
	c.SetParamNames("id")
	c.SetParamValues("prod-7")
	if err := h.Get(c); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Errorf("expected 200, got %d", rec.Code)
	}
	if svc.lastID != "prod-7" {
		t.Errorf("path param not forwarded, got %q", svc.lastID)
	}
}

func TestProductHandler_Get_PropagatesNotFound(t *testing.T) {
	h := NewProductHandler(&stubProductService{err: domain.ErrProductNotFound})

	c, _ := productContext(t, http.MethodGet, "")
	c.SetParamNames("id")
	c.SetParamValues("missing")
	err := h.Get(c)
	if !errors.Is(err, domain.ErrProductNotFound) {
		t.Errorf("expected ErrProductNotFound, got %v", err)
	}
}

// ---------------------------------------------------------------------------
// Update / Delete
// ---------------------------------------------------------------------------

func TestProductHandler_Update_ForwardsAllFields(t *testing.T) {
	svc := &stubProductService{product: &domain.Product{ID: "prod-1"}}
	h := NewProductHandler(svc)

	c, _ := productContext(t, http.MethodPut, `{"nombre":"Tomates","descripcion":"nuevos","precio":30,"stock":8,"activo":true}`)
	c.SetParamNames("id")
	c.SetParamValues("prod-1")
	if err := h.Update(c); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := ports.UpdateProductInput{Name: "Tomates", Description: "nuevos", Price: 30, Stock: 8, Active: true}
	if svc.lastUpdate != want {
		t.Errorf("update fields not forwarded: %+v", svc.lastUpdate)
	}
}

func TestProductHandler_Delete_ReturnsDeactivatedProduct(t *testing.T) {
	svc := &stubProductService{product: &domain.Product{ID: "prod-1", Active: false}}
	h := NewProductHandler(svc)

	c, rec := productContext(t, http.MethodDelete, "")
	c.SetParamNames("id")
	c.SetParamValues("prod-1")
	if err := h.Delete(c); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Errorf("expected 200, got %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), `"activo":false`) {
		t.Errorf("response must show the product deactivated: %s", rec.Body.String())
	}
}
