package services

import (
	"context"
	"fmt"
	"io"
	"path"
	"strings"
	"time"

	"github.com/granthkosh/granthkosh/app/models"
	"github.com/granthkosh/granthkosh/app/repositories"
	"github.com/granthkosh/granthkosh/pkg/cache"
	"github.com/granthkosh/granthkosh/pkg/storage"
	"github.com/granthkosh/granthkosh/pkg/validate"
)

// BookRepo is the slice of the book repository the catalog, checkout and
// order services need.
type BookRepo interface {
	All(ctx context.Context, f repositories.BookFilter) ([]models.Book, error)
	FindByID(ctx context.Context, id string) (models.Book, error)
	Create(ctx context.Context, book *models.Book) error
	Update(ctx context.Context, book *models.Book) error
	SetImage(ctx context.Context, id, url string) error
	Delete(ctx context.Context, id string) error
	DecrementStock(ctx context.Context, id string, qty int) error
	IncrementStock(ctx context.Context, id string, qty int) error
	Stats(ctx context.Context) (repositories.CatalogStats, error)
}

const (
	listCacheKey = "granthkosh:books:all"
	listCacheTTL = 5 * time.Minute
)

// BookInput is the admin payload for creating or updating a book.
type BookInput struct {
	Title         string  `json:"title" validate:"required"`
	Author        string  `json:"author" validate:"required"`
	Description   string  `json:"description"`
	Category      string  `json:"category" validate:"required"`
	Price         float64 `json:"price" validate:"required,gt=0"`
	DiscountPrice float64 `json:"discountPrice"`
	Stock         int     `json:"stock" validate:"gte=0"`
	Image         string  `json:"image" validate:"nullable,url"`
}

// CatalogService owns the book catalogue: public listing and the admin
// write path.
type CatalogService struct {
	books BookRepo
}

// NewCatalogService wires the service to its repository.
func NewCatalogService(books BookRepo) *CatalogService {
	return &CatalogService{books: books}
}

// List returns books matching the filter. The unfiltered listing is served
// from cache when possible; filtered queries always hit the database.
func (s *CatalogService) List(ctx context.Context, f repositories.BookFilter) ([]models.Book, error) {
	unfiltered := f == (repositories.BookFilter{})
	if unfiltered {
		var cached []models.Book
		if cache.Get(ctx, listCacheKey, &cached) {
			return cached, nil
		}
	}

	books, err := s.books.All(ctx, f)
	if err != nil {
		return nil, err
	}

	if unfiltered {
		_ = cache.Set(ctx, listCacheKey, books, listCacheTTL)
	}
	return books, nil
}

// Get returns one book by ID.
func (s *CatalogService) Get(ctx context.Context, id string) (models.Book, error) {
	return s.books.FindByID(ctx, id)
}

// Create validates and stores a new book.
func (s *CatalogService) Create(ctx context.Context, in BookInput) (models.Book, error) {
	if err := s.validateInput(in); err != nil {
		return models.Book{}, err
	}

	book := models.Book{
		Title:         strings.TrimSpace(in.Title),
		Author:        strings.TrimSpace(in.Author),
		Description:   strings.TrimSpace(in.Description),
		Category:      in.Category,
		Price:         in.Price,
		DiscountPrice: in.DiscountPrice,
		Stock:         in.Stock,
		Image:         in.Image,
	}
	if err := s.books.Create(ctx, &book); err != nil {
		return models.Book{}, err
	}

	_ = cache.Del(ctx, listCacheKey)
	return book, nil
}

// Update validates and replaces an existing book's fields.
func (s *CatalogService) Update(ctx context.Context, id string, in BookInput) (models.Book, error) {
	if err := s.validateInput(in); err != nil {
		return models.Book{}, err
	}

	book, err := s.books.FindByID(ctx, id)
	if err != nil {
		return models.Book{}, err
	}

	book.Title = strings.TrimSpace(in.Title)
	book.Author = strings.TrimSpace(in.Author)
	book.Description = strings.TrimSpace(in.Description)
	book.Category = in.Category
	book.Price = in.Price
	book.DiscountPrice = in.DiscountPrice
	book.Stock = in.Stock
	book.Image = in.Image

	if err := s.books.Update(ctx, &book); err != nil {
		return models.Book{}, err
	}

	_ = cache.Del(ctx, listCacheKey)
	return book, nil
}

// Delete removes a book from the catalogue.
func (s *CatalogService) Delete(ctx context.Context, id string) error {
	if err := s.books.Delete(ctx, id); err != nil {
		return err
	}
	_ = cache.Del(ctx, listCacheKey)
	return nil
}

// UploadCover stores a cover image on the configured disk and records its
// public URL on the book.
func (s *CatalogService) UploadCover(ctx context.Context, id, filename string, r io.Reader) (string, error) {
	book, err := s.books.FindByID(ctx, id)
	if err != nil {
		return "", err
	}

	ext := strings.ToLower(path.Ext(filename))
	switch ext {
	case ".jpg", ".jpeg", ".png", ".webp":
	default:
		return "", NewValidationError(map[string]string{
			"cover": "cover must be a jpg, png or webp image",
		})
	}

	disk := storage.Default()
	key := fmt.Sprintf("covers/%s%s", book.ID.Hex(), ext)
	if err := disk.PutStream(key, r); err != nil {
		return "", fmt.Errorf("catalog: store cover: %w", err)
	}

	url := disk.URL(key)
	if err := s.books.SetImage(ctx, id, url); err != nil {
		return "", err
	}

	_ = cache.Del(ctx, listCacheKey)
	return url, nil
}

// Stats returns catalogue aggregates for the admin dashboard.
func (s *CatalogService) Stats(ctx context.Context) (repositories.CatalogStats, error) {
	return s.books.Stats(ctx)
}

// validateInput runs tag validation plus the rules tags cannot express:
// the category enum and discount below list price.
func (s *CatalogService) validateInput(in BookInput) error {
	errs := validate.Struct(in)
	if errs == nil {
		errs = map[string]string{}
	}
	if in.Category != "" && !models.ValidCategory(in.Category) {
		errs["category"] = "category must be one of: " + strings.Join(models.Categories, ", ")
	}
	if in.DiscountPrice < 0 {
		errs["discountPrice"] = "discount price cannot be negative"
	} else if in.DiscountPrice > 0 && in.DiscountPrice >= in.Price {
		errs["discountPrice"] = "discount price must be below the list price"
	}
	if validate.HasErrors(errs) {
		return NewValidationError(errs)
	}
	return nil
}
