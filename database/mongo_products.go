package database

import (
	"context"
	"fmt"

	"github.com/hazratullahh/eceomerce-jawad/models"
	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
)

type mongoProducts struct {
	col *mongo.Collection
}

func (r *mongoProducts) List(ctx context.Context, q ProductQuery) ([]models.Product, int64, error) {
	filter := containsFilter(q.Search, "name.en", "name.ar", "sku")
	if q.Category != nil {
		filter["category"] = *q.Category
	}
	items, err := findAll[models.Product](ctx, r.col, filter, pageOptions(q.Page, bson.D{{Key: "createdAt", Value: -1}}))
	if err != nil {
		return nil, 0, err
	}
	total, err := r.col.CountDocuments(ctx, filter)
	if err != nil {
		return nil, 0, fmt.Errorf("count products: %w", err)
	}
	return items, total, nil
}

func (r *mongoProducts) FindByID(ctx context.Context, id bson.ObjectID) (*models.Product, error) {
	return findOne[models.Product](ctx, r.col, bson.M{"_id": id})
}

func (r *mongoProducts) Insert(ctx context.Context, p *models.Product) error {
	if p.Id.IsZero() {
		p.Id = bson.NewObjectID()
	}
	if _, err := r.col.InsertOne(ctx, p); err != nil {
		return writeError(r.col, "insert", err)
	}
	return nil
}

func (r *mongoProducts) Update(ctx context.Context, p *models.Product, expectedVersion int64) error {
	set := bson.M{
		"name":             p.Name,
		"slug":             p.Slug,
		"price":            p.Price,
		"quantity":         p.Quantity,
		"images":           p.Images,
		"category":         p.Category,
		"sizes":            p.Sizes,
		"careInstructions": p.CareInstructions,
		"dimensions":       p.Dimensions,
		"details":          p.Details,
		"updatedAt":        p.UpdatedAt,
		"version":          expectedVersion + 1,
	}
	unset := bson.M{}
	optional := map[string]any{
		"originalPrice":      p.OriginalPrice,
		"discountPercentage": p.DiscountPercentage,
		"saleText":           p.SaleText,
		"description":        p.Description,
		"materials":          p.Materials,
	}
	for field, v := range optional {
		if isNilPointer(v) {
			unset[field] = ""
		} else {
			set[field] = v
		}
	}
	if p.SKU != "" {
		set["sku"] = p.SKU
	} else {
		unset["sku"] = ""
	}

	update := bson.M{"$set": set}
	if len(unset) > 0 {
		update["$unset"] = unset
	}

	res, err := r.col.UpdateOne(ctx, versionFilter(p.Id, expectedVersion), update)
	if err != nil {
		return writeError(r.col, "update", err)
	}
	if res.MatchedCount == 0 {
		return missingOrConflict(ctx, r.col, p.Id)
	}
	p.Version = expectedVersion + 1
	return nil
}

func (r *mongoProducts) Delete(ctx context.Context, id bson.ObjectID) (*models.Product, error) {
	return findOneAndDelete[models.Product](ctx, r.col, id)
}

func isNilPointer(v any) bool {
	switch p := v.(type) {
	case *float64:
		return p == nil
	case *models.BilingualText:
		return p == nil
	}
	return v == nil
}
