package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/hazratullahh/eceomerce-jawad/database"
	"github.com/hazratullahh/eceomerce-jawad/models"
	"github.com/hazratullahh/eceomerce-jawad/utils"
	"go.mongodb.org/mongo-driver/v2/bson"
)

// ProductInput is a full product submission. On update, nil list fields
// keep their stored values.
type ProductInput struct {
	Name               models.BilingualText
	Price              float64
	OriginalPrice      *float64
	DiscountPercentage *float64
	Quantity           int
	Images             []models.Image
	SaleText           *models.BilingualText
	Category           string
	Description        *models.BilingualText
	Sizes              []string
	SKU                string
	Materials          *models.BilingualText
	CareInstructions   []models.BilingualText
	Dimensions         []models.Dimension
	Details            []models.BilingualText
	Version            *int64
}

func (in ProductInput) validate() (bson.ObjectID, error) {
	v := &ValidationError{}
	if in.Name.IsBlank() {
		v.add("name.en", "English name is required")
	}
	if in.Price < 0 {
		v.add("price", "Price must be a non-negative number")
	}
	if in.OriginalPrice != nil && *in.OriginalPrice < 0 {
		v.add("originalPrice", "Original price must be a non-negative number")
	}
	if d := in.DiscountPercentage; d != nil && (*d < 0 || *d > 100) {
		v.add("discountPercentage", "Discount must be between 0 and 100")
	}
	if in.Quantity < 0 {
		v.add("quantity", "Quantity must be a non-negative integer")
	}
	if len(in.Images) == 0 {
		v.add("images", "At least one image is required")
	}
	for i, img := range in.Images {
		if !img.Complete() {
			v.add(fmt.Sprintf("images[%d]", i), "Image must have both url and public_id")
		}
	}
	for i, item := range in.CareInstructions {
		if item.IsBlank() {
			v.add(fmt.Sprintf("careInstructions[%d].en", i), "English text is required")
		}
	}
	for i, item := range in.Dimensions {
		if strings.TrimSpace(item.Size) == "" {
			v.add(fmt.Sprintf("dimensions[%d].size", i), "Size is required")
		}
		if item.IsBlank() {
			v.add(fmt.Sprintf("dimensions[%d].en", i), "English text is required")
		}
	}
	for i, item := range in.Details {
		if item.IsBlank() {
			v.add(fmt.Sprintf("details[%d].en", i), "English text is required")
		}
	}

	category, err := bson.ObjectIDFromHex(strings.TrimSpace(in.Category))
	if err != nil {
		v.add("category", "Invalid category ID format")
	}
	return category, v.orNil()
}

type ProductService struct {
	products   database.ProductRepository
	categories database.CategoryRepository
	reconciler *Reconciler
	images     ImageStore
}

func NewProductService(products database.ProductRepository, categories database.CategoryRepository, reconciler *Reconciler, images ImageStore) *ProductService {
	return &ProductService{products: products, categories: categories, reconciler: reconciler, images: images}
}

// List filters by category when given, either as an id or as a slug. An
// unknown slug yields an empty page.
func (s *ProductService) List(ctx context.Context, category, search string, page database.Page) ([]models.Product, int64, error) {
	q := database.ProductQuery{Search: search, Page: page}
	if category = strings.TrimSpace(category); category != "" {
		if id, err := bson.ObjectIDFromHex(category); err == nil {
			q.Category = &id
		} else {
			cat, err := s.categories.FindBySlug(ctx, category)
			if errors.Is(err, database.ErrNotFound) {
				return []models.Product{}, 0, nil
			}
			if err != nil {
				return nil, 0, err
			}
			q.Category = &cat.Id
		}
	}
	return s.products.List(ctx, q)
}

func (s *ProductService) Get(ctx context.Context, id bson.ObjectID) (*models.Product, error) {
	p, err := s.products.FindByID(ctx, id)
	if err != nil {
		return nil, storeError("Product", err)
	}
	return p, nil
}

func (s *ProductService) requireCategory(ctx context.Context, id bson.ObjectID) error {
	if _, err := s.categories.FindByID(ctx, id); err != nil {
		return storeError("Category", err)
	}
	return nil
}

// reconcile fills every bilingual field of p from in, in a fixed order.
// existing is nil on create.
func (s *ProductService) reconcile(ctx context.Context, p *models.Product, in ProductInput, existing *models.Product) {
	var prev models.Product
	if existing != nil {
		prev = *existing
		p.Name = s.reconciler.Field(ctx, in.Name, &prev.Name)
	} else {
		p.Name = s.reconciler.Field(ctx, in.Name, nil)
	}
	p.SaleText = s.reconciler.Optional(ctx, in.SaleText, prev.SaleText)
	p.Description = s.reconciler.Optional(ctx, in.Description, prev.Description)
	p.Materials = s.reconciler.Optional(ctx, in.Materials, prev.Materials)

	if in.CareInstructions != nil || existing == nil {
		p.CareInstructions = s.reconciler.Items(ctx, in.CareInstructions, prev.CareInstructions)
	}
	if in.Dimensions != nil || existing == nil {
		p.Dimensions = s.reconciler.Dimensions(ctx, in.Dimensions, prev.Dimensions)
	}
	if in.Details != nil || existing == nil {
		p.Details = s.reconciler.Items(ctx, in.Details, prev.Details)
	}
}

func (s *ProductService) Create(ctx context.Context, in ProductInput) (*models.Product, error) {
	category, err := in.validate()
	if err != nil {
		return nil, err
	}
	if err := s.requireCategory(ctx, category); err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	p := &models.Product{
		Price:              in.Price,
		OriginalPrice:      in.OriginalPrice,
		DiscountPercentage: in.DiscountPercentage,
		Quantity:           in.Quantity,
		Images:             in.Images,
		Category:           category,
		Sizes:              nonNil(in.Sizes),
		SKU:                strings.TrimSpace(in.SKU),
		Version:            1,
		CreatedAt:          now,
		UpdatedAt:          now,
	}
	s.reconcile(ctx, p, in, nil)
	p.Slug = utils.GenerateSlug(p.Name.EN)

	if err := s.products.Insert(ctx, p); err != nil {
		return nil, storeError("Product", err)
	}
	return p, nil
}

// Update persists the new product, then evicts images that are no longer
// referenced.
func (s *ProductService) Update(ctx context.Context, id bson.ObjectID, in ProductInput) (*models.Product, error) {
	category, err := in.validate()
	if err != nil {
		return nil, err
	}

	existing, err := s.products.FindByID(ctx, id)
	if err != nil {
		return nil, storeError("Product", err)
	}
	if err := checkVersion("Product", in.Version, existing.Version); err != nil {
		return nil, err
	}
	if category != existing.Category {
		if err := s.requireCategory(ctx, category); err != nil {
			return nil, err
		}
	}

	updated := *existing
	updated.Price = in.Price
	updated.OriginalPrice = in.OriginalPrice
	updated.DiscountPercentage = in.DiscountPercentage
	updated.Quantity = in.Quantity
	updated.Images = in.Images
	updated.Category = category
	if in.Sizes != nil {
		updated.Sizes = in.Sizes
	}
	updated.SKU = strings.TrimSpace(in.SKU)
	s.reconcile(ctx, &updated, in, existing)
	updated.Slug = utils.GenerateSlug(updated.Name.EN)
	updated.UpdatedAt = time.Now().UTC()

	if err := s.products.Update(ctx, &updated, existing.Version); err != nil {
		return nil, storeError("Product", err)
	}

	evict(ctx, s.images, removedImages(existing.Images, updated.Images)...)
	return &updated, nil
}

func (s *ProductService) Delete(ctx context.Context, id bson.ObjectID) (*models.Product, error) {
	deleted, err := s.products.Delete(ctx, id)
	if err != nil {
		return nil, storeError("Product", err)
	}
	evict(ctx, s.images, deleted.ImagePublicIDs()...)
	return deleted, nil
}

// removedImages lists public ids present in before but not in after.
func removedImages(before, after []models.Image) []string {
	keep := make(map[string]struct{}, len(after))
	for _, img := range after {
		keep[img.PublicID] = struct{}{}
	}
	var gone []string
	for _, img := range before {
		if _, ok := keep[img.PublicID]; !ok && img.PublicID != "" {
			gone = append(gone, img.PublicID)
		}
	}
	return gone
}

func nonNil[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}
