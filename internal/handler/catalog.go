package handler

import (
	"net/http"

	"storefront-service/internal/model"
	"storefront-service/internal/store"
	"storefront-service/pkg/logger"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

// CatalogHandler serves the public storefront data: products, content,
// design, sizes and the floating contact configuration.
type CatalogHandler struct {
	Store *store.Store
}

// NewCatalogHandler creates the catalog handler.
func NewCatalogHandler(st *store.Store) *CatalogHandler {
	return &CatalogHandler{Store: st}
}

// Products handles GET /api/catalog/products with optional category filter
func (h *CatalogHandler) Products(c echo.Context) error {
	log := logger.FromEcho(c)
	category := c.QueryParam("category")

	products := h.Store.VisibleProducts(category)
	if products == nil {
		products = []model.Product{}
	}
	log.Info("Products retrieved", zap.Int("count", len(products)), zap.String("category", category))
	return c.JSON(http.StatusOK, products)
}

// Product handles GET /api/catalog/products/:id
func (h *CatalogHandler) Product(c echo.Context) error {
	log := logger.FromEcho(c)
	id := c.Param("id")

	product := h.Store.ProductByID(id)
	if product == nil || !product.Visible {
		log.Warn("Product not found", zap.String("product_id", id))
		return c.JSON(http.StatusNotFound, echo.Map{"error": "Product not found"})
	}
	return c.JSON(http.StatusOK, product)
}

// Content handles GET /api/catalog/content
func (h *CatalogHandler) Content(c echo.Context) error {
	return c.JSONBlob(http.StatusOK, h.Store.Content())
}

// Design handles GET /api/catalog/design
func (h *CatalogHandler) Design(c echo.Context) error {
	return c.JSON(http.StatusOK, h.Store.Design())
}

// FloatingContact handles GET /api/catalog/floating-contact
func (h *CatalogHandler) FloatingContact(c echo.Context) error {
	return c.JSON(http.StatusOK, h.Store.FloatingContact())
}

// Sizes handles GET /api/catalog/sizes
func (h *CatalogHandler) Sizes(c echo.Context) error {
	return c.JSON(http.StatusOK, h.Store.Sizes())
}
