package handler

import (
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"inventory-service/internal/store"
	"inventory-service/pkg/logger"
	"inventory-service/prometheus"
)

// ProductHandler serves product CRUD endpoints. Product images are stored on
// local disk under imageDir; the database only holds the path.
type ProductHandler struct {
	store    *store.Store
	imageDir string
}

func NewProductHandler(s *store.Store, imageDir string) *ProductHandler {
	return &ProductHandler{store: s, imageDir: imageDir}
}

// ListProducts retrieves all products with optional category filtering
func (h *ProductHandler) ListProducts(c echo.Context) error {
	log := logger.FromContext(c)

	category := c.QueryParam("category")
	if category != "" {
		log.Info("Filtering products by category", zap.String("category", category))
	}

	defer prometheus.TrackDBOperation("list_products")(time.Now())
	products, err := h.store.ListProducts(category)
	if err != nil {
		return storeError(c, log, err)
	}

	log.Info("Products retrieved successfully", zap.Int("count", len(products)))
	return c.JSON(http.StatusOK, products)
}

// GetProduct retrieves a single product by ID
func (h *ProductHandler) GetProduct(c echo.Context) error {
	log := logger.FromContext(c)
	id := c.Param("id")

	defer prometheus.TrackDBOperation("get_product")(time.Now())
	product, err := h.store.GetProduct(id)
	if err != nil {
		return storeError(c, log.With(zap.String("product_id", id)), err)
	}

	return c.JSON(http.StatusOK, product)
}

// CreateProduct adds a new product from a multipart form. The image file is an
// optional side effect: a failed image write logs a warning but the product
// record stands.
func (h *ProductHandler) CreateProduct(c echo.Context) error {
	log := logger.FromContext(c)
	log.Info("Creating new product")

	input := store.ProductInput{
		ID:          c.FormValue("id"),
		Name:        c.FormValue("name"),
		Description: c.FormValue("description"),
		Category:    c.FormValue("category"),
		Barcode:     c.FormValue("barcode"),
	}
	if priceStr := c.FormValue("price"); priceStr != "" {
		price, err := strconv.ParseFloat(priceStr, 64)
		if err != nil {
			log.Warn("Invalid price", zap.String("price", priceStr))
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "Invalid price"})
		}
		input.Price = &price
	}

	log.Info("Product creation request",
		zap.String("product_id", input.ID),
		zap.String("name", input.Name),
		zap.String("category", input.Category))

	defer prometheus.TrackDBOperation("create_product")(time.Now())
	product, err := h.store.CreateProduct(input)
	if err != nil {
		return storeError(c, log.With(zap.String("product_id", input.ID)), err)
	}

	if file, err := c.FormFile("image"); err == nil {
		imagePath, saveErr := h.saveImage(file, product.ID)
		if saveErr != nil {
			// The product record stands even when the image write fails
			log.Warn("Failed to store product image",
				zap.String("product_id", product.ID),
				zap.Error(saveErr))
		} else {
			updated, updErr := h.store.UpdateProduct(product.ID, store.ProductUpdate{ImagePath: &imagePath})
			if updErr != nil {
				log.Warn("Failed to record image path",
					zap.String("product_id", product.ID),
					zap.Error(updErr))
			} else {
				product = updated
			}
		}
	}

	log.Info("Product created successfully",
		zap.String("product_id", product.ID),
		zap.String("name", product.Name))
	return c.JSON(http.StatusCreated, product)
}

// UpdateProduct patches an existing product; omitted form fields are left
// untouched
func (h *ProductHandler) UpdateProduct(c echo.Context) error {
	log := logger.FromContext(c)
	id := c.Param("id")
	log.Info("Updating product", zap.String("product_id", id))

	var update store.ProductUpdate
	if _, err := c.FormParams(); err != nil {
		log.Error("Invalid request data", zap.Error(err))
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "Invalid request data"})
	}
	if v := c.FormValue("name"); v != "" {
		update.Name = &v
	}
	if v := c.FormValue("description"); v != "" {
		update.Description = &v
	}
	if v := c.FormValue("category"); v != "" {
		update.Category = &v
	}
	if v := c.FormValue("barcode"); v != "" {
		update.Barcode = &v
	}
	if priceStr := c.FormValue("price"); priceStr != "" {
		price, err := strconv.ParseFloat(priceStr, 64)
		if err != nil {
			log.Warn("Invalid price", zap.String("price", priceStr))
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "Invalid price"})
		}
		update.Price = &price
	}

	if file, err := c.FormFile("image"); err == nil {
		imagePath, saveErr := h.saveImage(file, id)
		if saveErr != nil {
			log.Warn("Failed to store product image",
				zap.String("product_id", id),
				zap.Error(saveErr))
		} else {
			// Replacing an image removes the previous file
			if existing, getErr := h.store.GetProduct(id); getErr == nil &&
				existing.ImagePath != "" && existing.ImagePath != imagePath {
				if rmErr := os.Remove(existing.ImagePath); rmErr != nil && !os.IsNotExist(rmErr) {
					log.Warn("Failed to remove previous product image",
						zap.String("product_id", id),
						zap.Error(rmErr))
				}
			}
			update.ImagePath = &imagePath
		}
	}

	defer prometheus.TrackDBOperation("update_product")(time.Now())
	product, err := h.store.UpdateProduct(id, update)
	if err != nil {
		return storeError(c, log.With(zap.String("product_id", id)), err)
	}

	log.Info("Product updated successfully",
		zap.String("product_id", id),
		zap.String("name", product.Name))
	return c.JSON(http.StatusOK, product)
}

// DeleteProduct removes a product unless tagged items still reference it
func (h *ProductHandler) DeleteProduct(c echo.Context) error {
	log := logger.FromContext(c)
	id := c.Param("id")
	log.Info("Deleting product", zap.String("product_id", id))

	defer prometheus.TrackDBOperation("delete_product")(time.Now())
	if err := h.store.DeleteProduct(id); err != nil {
		return storeError(c, log.With(zap.String("product_id", id)), err)
	}

	log.Info("Product deleted successfully", zap.String("product_id", id))
	return c.JSON(http.StatusOK, echo.Map{"message": "Product deleted successfully"})
}

// GetProductImage serves the stored image file for a product
func (h *ProductHandler) GetProductImage(c echo.Context) error {
	log := logger.FromContext(c)
	id := c.Param("id")

	product, err := h.store.GetProduct(id)
	if err != nil {
		return storeError(c, log.With(zap.String("product_id", id)), err)
	}
	if product.ImagePath == "" {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "product has no image"})
	}
	return c.File(product.ImagePath)
}

func (h *ProductHandler) saveImage(file *multipart.FileHeader, productID string) (string, error) {
	if err := os.MkdirAll(h.imageDir, 0o755); err != nil {
		return "", err
	}
	src, err := file.Open()
	if err != nil {
		return "", err
	}
	defer src.Close()

	ext := filepath.Ext(file.Filename)
	if ext == "" {
		ext = ".jpg"
	}
	path := filepath.Join(h.imageDir, productID+ext)
	dst, err := os.Create(path)
	if err != nil {
		return "", err
	}
	defer dst.Close()

	if _, err := io.Copy(dst, src); err != nil {
		return "", err
	}
	return path, nil
}
