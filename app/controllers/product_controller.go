package controllers

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/granthkosh/granthkosh/app/models"
	"github.com/granthkosh/granthkosh/app/repositories"
	"github.com/granthkosh/granthkosh/app/services"
	"github.com/granthkosh/granthkosh/pkg/bind"
	"github.com/granthkosh/granthkosh/pkg/response"
)

// maxCoverBytes caps cover image uploads at 8 MB.
const maxCoverBytes = 8 << 20

// ProductController serves the public catalogue and the admin write path.
type ProductController struct {
	catalog *services.CatalogService
}

// NewProductController wires the controller to its service.
func NewProductController(catalog *services.CatalogService) *ProductController {
	return &ProductController{catalog: catalog}
}

// Index handles GET /products with optional category, search, minPrice and
// maxPrice query parameters.
func (c *ProductController) Index(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	filter := repositories.BookFilter{
		Category: q.Get("category"),
		Search:   q.Get("search"),
	}
	if v, err := strconv.ParseFloat(q.Get("minPrice"), 64); err == nil {
		filter.MinPrice = &v
	}
	if v, err := strconv.ParseFloat(q.Get("maxPrice"), 64); err == nil {
		filter.MaxPrice = &v
	}

	books, err := c.catalog.List(r.Context(), filter)
	if err != nil {
		fail(w, r, err, "")
		return
	}
	response.Success(w, books)
}

// Show handles GET /products/{id}.
func (c *ProductController) Show(w http.ResponseWriter, r *http.Request) {
	book, err := c.catalog.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		fail(w, r, err, "Book not found")
		return
	}
	response.Success(w, book)
}

// Categories handles GET /products/categories.
func (c *ProductController) Categories(w http.ResponseWriter, r *http.Request) {
	response.Success(w, models.Categories)
}

// Create handles POST /products (admin).
func (c *ProductController) Create(w http.ResponseWriter, r *http.Request) {
	var in services.BookInput
	if errs, err := bind.JSON(r, &in); err != nil {
		response.BadRequest(w, err.Error())
		return
	} else if errs != nil {
		response.ValidationError(w, errs)
		return
	}

	book, err := c.catalog.Create(r.Context(), in)
	if err != nil {
		fail(w, r, err, "")
		return
	}
	response.Created(w, book)
}

// Update handles PUT /products/{id} (admin).
func (c *ProductController) Update(w http.ResponseWriter, r *http.Request) {
	var in services.BookInput
	if errs, err := bind.JSON(r, &in); err != nil {
		response.BadRequest(w, err.Error())
		return
	} else if errs != nil {
		response.ValidationError(w, errs)
		return
	}

	book, err := c.catalog.Update(r.Context(), chi.URLParam(r, "id"), in)
	if err != nil {
		fail(w, r, err, "Book not found")
		return
	}
	response.Success(w, book)
}

// Delete handles DELETE /products/{id} (admin).
func (c *ProductController) Delete(w http.ResponseWriter, r *http.Request) {
	if err := c.catalog.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		fail(w, r, err, "Book not found")
		return
	}
	response.Message(w, "Book deleted")
}

// UploadCover handles POST /products/{id}/cover (admin, multipart form with
// a "cover" file field).
func (c *ProductController) UploadCover(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(maxCoverBytes); err != nil {
		response.BadRequest(w, "invalid multipart form")
		return
	}

	file, header, err := r.FormFile("cover")
	if err != nil {
		response.BadRequest(w, "missing cover file")
		return
	}
	defer file.Close()

	url, err := c.catalog.UploadCover(r.Context(), chi.URLParam(r, "id"), header.Filename, file)
	if err != nil {
		fail(w, r, err, "Book not found")
		return
	}
	response.Success(w, map[string]string{"image": url})
}
