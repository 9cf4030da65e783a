package database

import (
	"context"
	"fmt"

	"github.com/hazratullahh/eceomerce-jawad/models"
	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
)

type mongoCategories struct {
	col *mongo.Collection
}

func (r *mongoCategories) List(ctx context.Context, q CategoryQuery) ([]models.Category, int64, error) {
	filter := containsFilter(q.Search, "name.en", "name.ar")
	items, err := findAll[models.Category](ctx, r.col, filter, pageOptions(q.Page, bson.D{{Key: "createdAt", Value: -1}}))
	if err != nil {
		return nil, 0, err
	}
	total, err := r.col.CountDocuments(ctx, filter)
	if err != nil {
		return nil, 0, fmt.Errorf("count categories: %w", err)
	}
	return items, total, nil
}

func (r *mongoCategories) FindByID(ctx context.Context, id bson.ObjectID) (*models.Category, error) {
	return findOne[models.Category](ctx, r.col, bson.M{"_id": id})
}

func (r *mongoCategories) FindBySlug(ctx context.Context, slug string) (*models.Category, error) {
	return findOne[models.Category](ctx, r.col, bson.M{"slug": slug})
}

func (r *mongoCategories) FindByNameEN(ctx context.Context, en string) (*models.Category, error) {
	return findOne[models.Category](ctx, r.col, bson.M{"name.en": en})
}

func (r *mongoCategories) FindByNameAR(ctx context.Context, ar string) (*models.Category, error) {
	return findOne[models.Category](ctx, r.col, bson.M{"name.ar": ar})
}

func (r *mongoCategories) Insert(ctx context.Context, c *models.Category) error {
	if c.Id.IsZero() {
		c.Id = bson.NewObjectID()
	}
	if _, err := r.col.InsertOne(ctx, c); err != nil {
		return writeError(r.col, "insert", err)
	}
	return nil
}

func (r *mongoCategories) Update(ctx context.Context, c *models.Category, expectedVersion int64) error {
	set := bson.M{
		"name":      c.Name,
		"slug":      c.Slug,
		"image":     c.Image,
		"updatedAt": c.UpdatedAt,
		"version":   expectedVersion + 1,
	}
	update := bson.M{"$set": set}
	if c.Description != nil {
		set["description"] = c.Description
	} else {
		update["$unset"] = bson.M{"description": ""}
	}

	res, err := r.col.UpdateOne(ctx, versionFilter(c.Id, expectedVersion), update)
	if err != nil {
		return writeError(r.col, "update", err)
	}
	if res.MatchedCount == 0 {
		return missingOrConflict(ctx, r.col, c.Id)
	}
	c.Version = expectedVersion + 1
	return nil
}

func (r *mongoCategories) Delete(ctx context.Context, id bson.ObjectID) (*models.Category, error) {
	return findOneAndDelete[models.Category](ctx, r.col, id)
}
