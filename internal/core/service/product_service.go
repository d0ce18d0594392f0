package service

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/mercadito/ecommerce-api/internal/core/domain"
	"github.com/mercadito/ecommerce-api/internal/core/ports"
)

// ProductService is catalog CRUD. Deletion is logical only.
type ProductService struct {
	repo ports.ProductRepository
	log  zerolog.Logger
}

func NewProductService(repo ports.ProductRepository, log zerolog.Logger) *ProductService {
	return &ProductService{repo: repo, log: log}
}

func (s *ProductService) Create(ctx context.Context, name, description string, price float64, stock int) (*domain.Product, error) {
	if name == "" || price < 0 || stock < 0 {
		return nil, domain.ErrInvalidProduct
	}

	product := &domain.Product{
		Name:        name,
		Description: description,
		Price:       price,
		Stock:       stock,
		Active:      true,
		CreatedAt:   time.Now().UTC(),
	}

	created, err := s.repo.Create(ctx, product)
	if err != nil {
		return nil, err
	}

	s.log.Info().Str("id", created.ID).Str("nombre", created.Name).Msg("product created")
	return created, nil
}

func (s *ProductService) List(ctx context.Context) ([]*domain.Product, error) {
	return s.repo.List(ctx)
}

func (s *ProductService) Get(ctx context.Context, id string) (*domain.Product, error) {
	return s.repo.FindByID(ctx, id)
}

func (s *ProductService) Update(ctx context.Context, id string, in ports.UpdateProductInput) (*domain.Product, error) {
	if in.Price < 0 || in.Stock < 0 {
		return nil, domain.ErrInvalidProduct
	}
	return s.repo.Update(ctx, id, in)
}

func (s *ProductService) Delete(ctx context.Context, id string) (*domain.Product, error) {
	product, err := s.repo.Deactivate(ctx, id)
	if err != nil {
		return nil, err
	}
	s.log.Info().Str("id", id).Msg("product deactivated")
	return product, nil
}
