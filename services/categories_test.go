package services

import (
	"context"
	"errors"
	"testing"

	"github.com/hazratullahh/eceomerce-jawad/database"
	"github.com/hazratullahh/eceomerce-jawad/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/v2/bson"
)

type categoryFixture struct {
	store  *database.Store
	tr     *countingTranslator
	images *fakeImageStore
	svc    *CategoryService
}

func newCategoryFixture() *categoryFixture {
	store := database.NewMemoryStore()
	tr := &countingTranslator{}
	images := &fakeImageStore{}
	return &categoryFixture{
		store:  store,
		tr:     tr,
		images: images,
		svc:    NewCategoryService(store.Categories, NewReconciler(tr, "ar"), images),
	}
}

func TestCategoryCreateTranslatesName(t *testing.T) {
	f := newCategoryFixture()

	c, err := f.svc.Create(context.Background(), CategoryInput{
		Name:  models.BilingualText{EN: "Dresses"},
		Image: &models.Image{URL: "u1", PublicID: "p1"},
	})
	require.NoError(t, err)
	assert.Equal(t, "Dresses", c.Name.EN)
	assert.NotEmpty(t, c.Name.AR)
	assert.Equal(t, "dresses", c.Slug)
	assert.Equal(t, int64(1), c.Version)
	assert.Nil(t, c.Description)
	assert.Equal(t, 1, f.tr.count())
}

func TestCategoryCreateValidation(t *testing.T) {
	f := newCategoryFixture()

	_, err := f.svc.Create(context.Background(), CategoryInput{Name: models.BilingualText{EN: " "}})
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Len(t, verr.Fields, 2)

	_, err = f.svc.Create(context.Background(), CategoryInput{
		Name:  models.BilingualText{EN: "Bags"},
		Image: &models.Image{URL: "u1"},
	})
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "image", verr.Fields[0].Field)
	assert.Zero(t, f.tr.count())
}

func TestCategoryDuplicateNames(t *testing.T) {
	ctx := context.Background()
	f := newCategoryFixture()
	img := &models.Image{URL: "u", PublicID: "p"}

	_, err := f.svc.Create(ctx, CategoryInput{Name: models.BilingualText{EN: "Shoes", AR: "أحذية"}, Image: img})
	require.NoError(t, err)

	_, err = f.svc.Create(ctx, CategoryInput{Name: models.BilingualText{EN: "Shoes"}, Image: img})
	var conflict *ConflictError
	require.ErrorAs(t, err, &conflict)
	assert.Equal(t, "Category with this English name already exists", conflict.Message)
	assert.Zero(t, f.tr.count(), "duplicate english must not reach the translator")

	_, err = f.svc.Create(ctx, CategoryInput{Name: models.BilingualText{EN: "Footwear", AR: "أحذية"}, Image: img})
	require.ErrorAs(t, err, &conflict)
	assert.Equal(t, "Category with this Arabic name already exists", conflict.Message)
}

func TestCategoryUpdateIdenticalIsNoop(t *testing.T) {
	ctx := context.Background()
	f := newCategoryFixture()

	c, err := f.svc.Create(ctx, CategoryInput{
		Name:        models.BilingualText{EN: "Dresses"},
		Description: &models.BilingualText{EN: "Evening wear"},
		Image:       &models.Image{URL: "u1", PublicID: "p1"},
	})
	require.NoError(t, err)
	f.tr.reset()

	updated, err := f.svc.Update(ctx, c.Id, CategoryInput{
		Name:        c.Name,
		Description: c.Description,
		Image:       &c.Image,
		Version:     ptr(c.Version),
	})
	require.NoError(t, err)
	assert.Zero(t, f.tr.count())
	assert.Equal(t, c.Name, updated.Name)
	assert.Equal(t, c.Description, updated.Description)
	assert.Equal(t, c.Image, updated.Image)
	assert.Equal(t, c.Version+1, updated.Version)
	assert.Empty(t, f.images.destroyedIDs())
}

func TestCategoryUpdateReplacesImageAfterPersist(t *testing.T) {
	ctx := context.Background()
	f := newCategoryFixture()

	c, err := f.svc.Create(ctx, CategoryInput{
		Name:  models.BilingualText{EN: "Bags", AR: "حقائب"},
		Image: &models.Image{URL: "u1", PublicID: "p1"},
	})
	require.NoError(t, err)

	updated, err := f.svc.Update(ctx, c.Id, CategoryInput{
		Name:  models.BilingualText{EN: "Handbags"},
		Image: &models.Image{URL: "u2", PublicID: "p2"},
	})
	require.NoError(t, err)
	assert.Equal(t, "ar:Handbags", updated.Name.AR)
	assert.Equal(t, "handbags", updated.Slug)
	assert.Equal(t, []string{"p1"}, f.images.destroyedIDs())

	stored, err := f.svc.Get(ctx, c.Id)
	require.NoError(t, err)
	assert.Equal(t, "p2", stored.Image.PublicID)
}

func TestCategoryUpdateStaleVersion(t *testing.T) {
	ctx := context.Background()
	f := newCategoryFixture()

	c, err := f.svc.Create(ctx, CategoryInput{
		Name:  models.BilingualText{EN: "Bags", AR: "حقائب"},
		Image: &models.Image{URL: "u1", PublicID: "p1"},
	})
	require.NoError(t, err)

	_, err = f.svc.Update(ctx, c.Id, CategoryInput{Name: models.BilingualText{EN: "Totes"}, Version: ptr(int64(7))})
	var conflict *ConflictError
	require.ErrorAs(t, err, &conflict)
	assert.Zero(t, f.tr.count())
}

func TestCategoryDeleteEvictsImage(t *testing.T) {
	ctx := context.Background()
	f := newCategoryFixture()

	c, err := f.svc.Create(ctx, CategoryInput{
		Name:  models.BilingualText{EN: "Dresses"},
		Image: &models.Image{URL: "u1", PublicID: "p1"},
	})
	require.NoError(t, err)

	_, err = f.svc.Delete(ctx, c.Id)
	require.NoError(t, err)
	assert.Equal(t, []string{"p1"}, f.images.destroyedIDs())

	_, err = f.svc.Get(ctx, c.Id)
	var nf *NotFoundError
	require.ErrorAs(t, err, &nf)
	assert.Equal(t, "Category not found", nf.Error())

	_, err = f.svc.Delete(ctx, bson.NewObjectID())
	require.ErrorAs(t, err, &nf)
	assert.Len(t, f.images.destroyedIDs(), 1)
}

func TestCategoryDeleteToleratesStoreFailure(t *testing.T) {
	ctx := context.Background()
	f := newCategoryFixture()
	f.images.failWith = errors.New("bucket unavailable")

	c, err := f.svc.Create(ctx, CategoryInput{
		Name:  models.BilingualText{EN: "Dresses"},
		Image: &models.Image{URL: "u1", PublicID: "p1"},
	})
	require.NoError(t, err)

	_, err = f.svc.Delete(ctx, c.Id)
	assert.NoError(t, err)
}
