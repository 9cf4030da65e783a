package services

import (
	"context"
	"errors"
	"time"

	"github.com/hazratullahh/eceomerce-jawad/database"
	"github.com/hazratullahh/eceomerce-jawad/models"
	"github.com/hazratullahh/eceomerce-jawad/utils"
	"go.mongodb.org/mongo-driver/v2/bson"
)

type CategoryInput struct {
	Name        models.BilingualText
	Description *models.BilingualText
	Image       *models.Image
	Version     *int64
}

func (in CategoryInput) validate(create bool) error {
	v := &ValidationError{}
	if in.Name.IsBlank() {
		v.add("name.en", "English name is required")
	}
	switch {
	case in.Image == nil && create:
		v.add("image", "Image is required")
	case in.Image != nil && !in.Image.Complete():
		v.add("image", "Image must have both url and public_id")
	}
	return v.orNil()
}

type CategoryService struct {
	categories database.CategoryRepository
	reconciler *Reconciler
	images     ImageStore
}

func NewCategoryService(categories database.CategoryRepository, reconciler *Reconciler, images ImageStore) *CategoryService {
	return &CategoryService{categories: categories, reconciler: reconciler, images: images}
}

func (s *CategoryService) List(ctx context.Context, q database.CategoryQuery) ([]models.Category, int64, error) {
	return s.categories.List(ctx, q)
}

func (s *CategoryService) Get(ctx context.Context, id bson.ObjectID) (*models.Category, error) {
	c, err := s.categories.FindByID(ctx, id)
	if err != nil {
		return nil, storeError("Category", err)
	}
	return c, nil
}

func (s *CategoryService) GetBySlug(ctx context.Context, slug string) (*models.Category, error) {
	c, err := s.categories.FindBySlug(ctx, slug)
	if err != nil {
		return nil, storeError("Category", err)
	}
	return c, nil
}

// nameTaken reports whether another category already uses the name.
func (s *CategoryService) nameTaken(ctx context.Context, find func(context.Context, string) (*models.Category, error), name string, self bson.ObjectID) (bool, error) {
	if name == "" {
		return false, nil
	}
	other, err := find(ctx, name)
	if errors.Is(err, database.ErrNotFound) {
		return false, nil
	}
	if err != nil {
		return false, storeError("Category", err)
	}
	return other.Id != self, nil
}

func (s *CategoryService) Create(ctx context.Context, in CategoryInput) (*models.Category, error) {
	if err := in.validate(true); err != nil {
		return nil, err
	}

	// English first so a duplicate never costs a translation call.
	taken, err := s.nameTaken(ctx, s.categories.FindByNameEN, in.Name.EN, bson.NilObjectID)
	if err != nil {
		return nil, err
	}
	if taken {
		return nil, &ConflictError{Message: "Category with this English name already exists"}
	}

	name := s.reconciler.Field(ctx, in.Name, nil)
	taken, err = s.nameTaken(ctx, s.categories.FindByNameAR, name.AR, bson.NilObjectID)
	if err != nil {
		return nil, err
	}
	if taken {
		return nil, &ConflictError{Message: "Category with this Arabic name already exists"}
	}
	description := s.reconciler.Optional(ctx, in.Description, nil)

	now := time.Now().UTC()
	c := &models.Category{
		Name:        name,
		Slug:        utils.GenerateSlug(name.EN),
		Description: description,
		Image:       *in.Image,
		Version:     1,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := s.categories.Insert(ctx, c); err != nil {
		return nil, storeError("Category", err)
	}
	return c, nil
}

// Update re-runs reconciliation against the stored category. A replaced
// image is evicted only once the new record is persisted.
func (s *CategoryService) Update(ctx context.Context, id bson.ObjectID, in CategoryInput) (*models.Category, error) {
	if err := in.validate(false); err != nil {
		return nil, err
	}

	existing, err := s.categories.FindByID(ctx, id)
	if err != nil {
		return nil, storeError("Category", err)
	}
	if err := checkVersion("Category", in.Version, existing.Version); err != nil {
		return nil, err
	}
	if in.Name.EN != existing.Name.EN {
		taken, err := s.nameTaken(ctx, s.categories.FindByNameEN, in.Name.EN, id)
		if err != nil {
			return nil, err
		}
		if taken {
			return nil, &ConflictError{Message: "Category with this English name already exists"}
		}
	}

	updated := *existing
	updated.Name = s.reconciler.Field(ctx, in.Name, &existing.Name)
	updated.Slug = utils.GenerateSlug(updated.Name.EN)
	updated.Description = s.reconciler.Optional(ctx, in.Description, existing.Description)
	if in.Image != nil {
		updated.Image = *in.Image
	}
	updated.UpdatedAt = time.Now().UTC()

	if err := s.categories.Update(ctx, &updated, existing.Version); err != nil {
		return nil, storeError("Category", err)
	}

	if existing.Image.PublicID != updated.Image.PublicID {
		evict(ctx, s.images, existing.Image.PublicID)
	}
	return &updated, nil
}

// Delete removes the category and evicts its image. Products that point
// at it keep the stale reference.
func (s *CategoryService) Delete(ctx context.Context, id bson.ObjectID) (*models.Category, error) {
	deleted, err := s.categories.Delete(ctx, id)
	if err != nil {
		return nil, storeError("Category", err)
	}
	evict(ctx, s.images, deleted.Image.PublicID)
	return deleted, nil
}
