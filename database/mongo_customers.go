package database

import (
	"context"
	"fmt"
	"time"

	"github.com/hazratullahh/eceomerce-jawad/models"
	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
)

type mongoCustomers struct {
	col *mongo.Collection
}

func (r *mongoCustomers) List(ctx context.Context, search string) ([]models.Customer, error) {
	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})
	return findAll[models.Customer](ctx, r.col, containsFilter(search, "name"), opts)
}

func (r *mongoCustomers) FindByID(ctx context.Context, id bson.ObjectID) (*models.Customer, error) {
	return findOne[models.Customer](ctx, r.col, bson.M{"_id": id})
}

func (r *mongoCustomers) FindByIDs(ctx context.Context, ids []bson.ObjectID) ([]models.Customer, error) {
	if len(ids) == 0 {
		return []models.Customer{}, nil
	}
	return findAll[models.Customer](ctx, r.col, bson.M{"_id": bson.M{"$in": ids}})
}

func (r *mongoCustomers) Insert(ctx context.Context, c *models.Customer) error {
	if c.Id.IsZero() {
		c.Id = bson.NewObjectID()
	}
	if _, err := r.col.InsertOne(ctx, c); err != nil {
		return writeError(r.col, "insert", err)
	}
	return nil
}

func (r *mongoCustomers) Update(ctx context.Context, c *models.Customer, expectedVersion int64) error {
	set := bson.M{
		"name":          c.Name,
		"amountWillPay": c.AmountWillPay,
		"paidAmount":    c.PaidAmount,
		"updatedAt":     c.UpdatedAt,
		"version":       expectedVersion + 1,
	}
	update := bson.M{"$set": set}
	if c.Referrer != nil {
		set["referrer"] = *c.Referrer
	} else {
		update["$unset"] = bson.M{"referrer": ""}
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

func (r *mongoCustomers) Delete(ctx context.Context, id bson.ObjectID) (*models.Customer, error) {
	return findOneAndDelete[models.Customer](ctx, r.col, id)
}

// IncrementReferralCount adds delta to the counter. A decrement never takes
// the counter below zero.
func (r *mongoCustomers) IncrementReferralCount(ctx context.Context, id bson.ObjectID, delta int) error {
	filter := bson.M{"_id": id}
	if delta < 0 {
		filter["referralCount"] = bson.M{"$gte": -delta}
	}
	res, err := r.col.UpdateOne(ctx, filter, bson.M{"$inc": bson.M{"referralCount": delta}})
	if err != nil {
		return fmt.Errorf("increment referral count: %w", err)
	}
	if res.MatchedCount > 0 {
		return nil
	}
	if delta >= 0 {
		return ErrNotFound
	}
	return r.SetReferralCount(ctx, id, 0)
}

func (r *mongoCustomers) SetReferralCount(ctx context.Context, id bson.ObjectID, count int) error {
	res, err := r.col.UpdateByID(ctx, id, bson.M{"$set": bson.M{"referralCount": count}})
	if err != nil {
		return fmt.Errorf("set referral count: %w", err)
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *mongoCustomers) ClearReferrer(ctx context.Context, referrer bson.ObjectID) (int64, error) {
	res, err := r.col.UpdateMany(ctx, bson.M{"referrer": referrer}, bson.M{
		"$unset": bson.M{"referrer": ""},
		"$set":   bson.M{"updatedAt": time.Now().UTC()},
		"$inc":   bson.M{"version": 1},
	})
	if err != nil {
		return 0, fmt.Errorf("clear referrer: %w", err)
	}
	return res.ModifiedCount, nil
}

func (r *mongoCustomers) CountReferrals(ctx context.Context) (map[bson.ObjectID]int, error) {
	cursor, err := r.col.Aggregate(ctx, mongo.Pipeline{
		{{Key: "$match", Value: bson.M{"referrer": bson.M{"$exists": true, "$ne": nil}}}},
		{{Key: "$group", Value: bson.M{"_id": "$referrer", "count": bson.M{"$sum": 1}}}},
	})
	if err != nil {
		return nil, fmt.Errorf("count referrals: %w", err)
	}
	var rows []struct {
		ID    bson.ObjectID `bson:"_id"`
		Count int           `bson:"count"`
	}
	if err := cursor.All(ctx, &rows); err != nil {
		return nil, fmt.Errorf("decode referral counts: %w", err)
	}
	counts := make(map[bson.ObjectID]int, len(rows))
	for _, row := range rows {
		counts[row.ID] = row.Count
	}
	return counts, nil
}

func (r *mongoCustomers) Stats(ctx context.Context) (CustomerStats, error) {
	cursor, err := r.col.Aggregate(ctx, mongo.Pipeline{
		{{Key: "$group", Value: bson.M{
			"_id":           nil,
			"count":         bson.M{"$sum": 1},
			"paidAmount":    bson.M{"$sum": "$paidAmount"},
			"amountWillPay": bson.M{"$sum": "$amountWillPay"},
			"withReferrer": bson.M{"$sum": bson.M{
				"$cond": bson.A{bson.M{"$ifNull": bson.A{"$referrer", false}}, 1, 0},
			}},
		}}},
	})
	if err != nil {
		return CustomerStats{}, fmt.Errorf("customer stats: %w", err)
	}
	var rows []struct {
		Count         int64   `bson:"count"`
		PaidAmount    float64 `bson:"paidAmount"`
		AmountWillPay float64 `bson:"amountWillPay"`
		WithReferrer  int64   `bson:"withReferrer"`
	}
	if err := cursor.All(ctx, &rows); err != nil {
		return CustomerStats{}, fmt.Errorf("decode customer stats: %w", err)
	}
	if len(rows) == 0 {
		return CustomerStats{}, nil
	}
	return CustomerStats(rows[0]), nil
}

func (r *mongoCustomers) MonthlyCreated(ctx context.Context, year int) ([12]int64, error) {
	var months [12]int64
	start := time.Date(year, time.January, 1, 0, 0, 0, 0, time.UTC)
	cursor, err := r.col.Aggregate(ctx, mongo.Pipeline{
		{{Key: "$match", Value: bson.M{"createdAt": bson.M{"$gte": start, "$lt": start.AddDate(1, 0, 0)}}}},
		{{Key: "$group", Value: bson.M{"_id": bson.M{"$month": "$createdAt"}, "count": bson.M{"$sum": 1}}}},
	})
	if err != nil {
		return months, fmt.Errorf("monthly customers: %w", err)
	}
	var rows []struct {
		Month int   `bson:"_id"`
		Count int64 `bson:"count"`
	}
	if err := cursor.All(ctx, &rows); err != nil {
		return months, fmt.Errorf("decode monthly customers: %w", err)
	}
	for _, row := range rows {
		if row.Month >= 1 && row.Month <= 12 {
			months[row.Month-1] = row.Count
		}
	}
	return months, nil
}

func (r *mongoCustomers) Recent(ctx context.Context, n int64) ([]models.Customer, error) {
	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}}).SetLimit(n)
	return findAll[models.Customer](ctx, r.col, bson.M{}, opts)
}
