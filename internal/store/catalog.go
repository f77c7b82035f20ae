package store

import (
	"errors"

	"gorm.io/gorm"

	"inventory-service/internal/model"
)

// CategorySummary is a category with its usage counts for listing views
type CategorySummary struct {
	model.Category
	ProductCount int64 `json:"product_count"`
	TagCount     int64 `json:"tag_count"`
}

// CreateCategory adds a category. The name is the identity; an exact duplicate
// is a conflict.
func (s *Store) CreateCategory(name, description string) (*model.Category, error) {
	if name == "" {
		return nil, errf(KindInvalid, "category name is required")
	}
	var count int64
	if err := s.db.Model(&model.Category{}).Where("name = ?", name).Count(&count).Error; err != nil {
		return nil, err
	}
	if count > 0 {
		return nil, errf(KindConflict, "category %s already exists", name)
	}
	category := model.Category{Name: name, Description: description}
	if err := s.db.Create(&category).Error; err != nil {
		return nil, err
	}
	return &category, nil
}

// ListCategories returns every category with product and live tag counts
func (s *Store) ListCategories() ([]CategorySummary, error) {
	var categories []model.Category
	if err := s.db.Order("name").Find(&categories).Error; err != nil {
		return nil, err
	}
	summaries := make([]CategorySummary, 0, len(categories))
	for _, category := range categories {
		summary := CategorySummary{Category: category}
		if err := s.db.Model(&model.Product{}).Where("category = ?", category.Name).
			Count(&summary.ProductCount).Error; err != nil {
			return nil, err
		}
		if err := s.db.Model(&model.Tag{}).Where("category = ?", category.Name).
			Count(&summary.TagCount).Error; err != nil {
			return nil, err
		}
		summaries = append(summaries, summary)
	}
	return summaries, nil
}

// DeleteCategory removes a category unless any product still names it
func (s *Store) DeleteCategory(id uint) error {
	var category model.Category
	if err := s.db.First(&category, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return errf(KindNotFound, "category %d not found", id)
		}
		return err
	}
	var count int64
	if err := s.db.Model(&model.Product{}).Where("category = ?", category.Name).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return errf(KindInUse, "cannot delete category %s: %d products reference it", category.Name, count)
	}
	return s.db.Delete(&category).Error
}

// ProductInput carries the fields accepted on product creation
type ProductInput struct {
	ID          string
	Name        string
	Description string
	Category    string
	Price       *float64
	Barcode     string
}

// CreateProduct adds a product record. A named but unknown category is created
// on the fly, matching how the original inventory screens behave. Image
// storage is a separate side effect owned by the caller so an image failure
// never rolls back the product row.
func (s *Store) CreateProduct(input ProductInput) (*model.Product, error) {
	if input.ID == "" || input.Name == "" {
		return nil, errf(KindInvalid, "product id and name are required")
	}
	var count int64
	if err := s.db.Model(&model.Product{}).Where("id = ?", input.ID).Count(&count).Error; err != nil {
		return nil, err
	}
	if count > 0 {
		return nil, errf(KindConflict, "product ID %s already exists", input.ID)
	}

	var product model.Product
	err := s.db.Transaction(func(tx *gorm.DB) error {
		if input.Category != "" {
			var catCount int64
			if err := tx.Model(&model.Category{}).Where("name = ?", input.Category).Count(&catCount).Error; err != nil {
				return err
			}
			if catCount == 0 {
				if err := tx.Create(&model.Category{Name: input.Category}).Error; err != nil {
					return err
				}
			}
		}
		product = model.Product{
			ID:          input.ID,
			Name:        input.Name,
			Description: input.Description,
			Category:    input.Category,
			Price:       input.Price,
			Barcode:     input.Barcode,
		}
		return tx.Create(&product).Error
	})
	if err != nil {
		return nil, err
	}
	return &product, nil
}

// GetProduct fetches one product by id
func (s *Store) GetProduct(id string) (*model.Product, error) {
	var product model.Product
	if err := s.db.First(&product, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errf(KindNotFound, "product %s not found", id)
		}
		return nil, err
	}
	return &product, nil
}

// ListProducts returns products, optionally filtered by category name
func (s *Store) ListProducts(category string) ([]model.Product, error) {
	q := s.db.Order("id")
	if category != "" {
		q = q.Where("category = ?", category)
	}
	var products []model.Product
	if err := q.Find(&products).Error; err != nil {
		return nil, err
	}
	return products, nil
}

// ProductUpdate patches a product; nil fields are left untouched
type ProductUpdate struct {
	Name        *string
	Description *string
	Category    *string
	Price       *float64
	Barcode     *string
	ImagePath   *string
}

// UpdateProduct applies only the supplied fields. Changing the category to an
// unknown name creates it, same as CreateProduct.
func (s *Store) UpdateProduct(id string, update ProductUpdate) (*model.Product, error) {
	var product model.Product
	if err := s.db.First(&product, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errf(KindNotFound, "product %s not found", id)
		}
		return nil, err
	}

	fields := map[string]interface{}{}
	if update.Name != nil {
		fields["name"] = *update.Name
	}
	if update.Description != nil {
		fields["description"] = *update.Description
	}
	if update.Category != nil {
		var count int64
		if err := s.db.Model(&model.Category{}).Where("name = ?", *update.Category).Count(&count).Error; err != nil {
			return nil, err
		}
		if count == 0 {
			if err := s.db.Create(&model.Category{Name: *update.Category}).Error; err != nil {
				return nil, err
			}
		}
		fields["category"] = *update.Category
	}
	if update.Price != nil {
		fields["price"] = *update.Price
	}
	if update.Barcode != nil {
		fields["barcode"] = *update.Barcode
	}
	if update.ImagePath != nil {
		fields["image_path"] = *update.ImagePath
	}
	if len(fields) == 0 {
		return &product, nil
	}
	if err := s.db.Model(&product).Updates(fields).Error; err != nil {
		return nil, err
	}
	return &product, nil
}

// DeleteProduct removes a product unless live ledger entries still reference it
func (s *Store) DeleteProduct(id string) error {
	var product model.Product
	if err := s.db.First(&product, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return errf(KindNotFound, "product %s not found", id)
		}
		return err
	}
	var count int64
	if err := s.db.Model(&model.Tag{}).Where("product_id = ?", id).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return errf(KindInUse, "cannot delete product %s: %d tagged items reference it", id, count)
	}
	return s.db.Delete(&product).Error
}
