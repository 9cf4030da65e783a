package database

import (
	"context"
	"errors"
	"fmt"
	"regexp"

	"github.com/hazratullahh/eceomerce-jawad/utils"
	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
)

func findOne[T any](ctx context.Context, col *mongo.Collection, filter any) (*T, error) {
	var doc T
	if err := col.FindOne(ctx, filter).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("find %s: %w", col.Name(), err)
	}
	return &doc, nil
}

func findAll[T any](ctx context.Context, col *mongo.Collection, filter any, opts ...options.Lister[options.FindOptions]) ([]T, error) {
	cursor, err := col.Find(ctx, filter, opts...)
	if err != nil {
		return nil, fmt.Errorf("find %s: %w", col.Name(), err)
	}
	items := make([]T, 0)
	if err := cursor.All(ctx, &items); err != nil {
		return nil, fmt.Errorf("decode %s: %w", col.Name(), err)
	}
	return items, nil
}

func findOneAndDelete[T any](ctx context.Context, col *mongo.Collection, id bson.ObjectID) (*T, error) {
	var doc T
	if err := col.FindOneAndDelete(ctx, bson.M{"_id": id}).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("delete from %s: %w", col.Name(), err)
	}
	return &doc, nil
}

// versionFilter matches id at the given version. Documents written before
// versioning carry no field and count as version 0.
func versionFilter(id bson.ObjectID, version int64) bson.M {
	if version == 0 {
		return bson.M{"_id": id, "$or": bson.A{
			bson.M{"version": 0},
			bson.M{"version": bson.M{"$exists": false}},
		}}
	}
	return bson.M{"_id": id, "version": version}
}

// missingOrConflict explains why a versioned update matched nothing.
func missingOrConflict(ctx context.Context, col *mongo.Collection, id bson.ObjectID) error {
	n, err := col.CountDocuments(ctx, bson.M{"_id": id})
	if err != nil {
		return fmt.Errorf("count %s: %w", col.Name(), err)
	}
	if n == 0 {
		return ErrNotFound
	}
	return ErrVersionConflict
}

func writeError(col *mongo.Collection, op string, err error) error {
	if utils.IsDuplicateKey(err) {
		return fmt.Errorf("%s %s: %w", op, col.Name(), ErrDuplicate)
	}
	return fmt.Errorf("%s %s: %w", op, col.Name(), err)
}

// containsFilter matches documents where any of fields contains search,
// case-insensitively. The search text is matched literally.
func containsFilter(search string, fields ...string) bson.M {
	if search == "" {
		return bson.M{}
	}
	pattern := regexp.QuoteMeta(search)
	or := make(bson.A, 0, len(fields))
	for _, f := range fields {
		or = append(or, bson.M{f: bson.M{"$regex": pattern, "$options": "i"}})
	}
	return bson.M{"$or": or}
}

func pageOptions(p Page, sort bson.D) *options.FindOptionsBuilder {
	opts := options.Find().SetSort(sort)
	if p.Limit > 0 {
		opts.SetSkip(p.Skip).SetLimit(p.Limit)
	}
	return opts
}
