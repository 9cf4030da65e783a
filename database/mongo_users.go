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

type mongoUsers struct {
	col *mongo.Collection
}

func (r *mongoUsers) List(ctx context.Context, search string) ([]models.User, error) {
	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})
	return findAll[models.User](ctx, r.col, containsFilter(search, "name", "email"), opts)
}

func (r *mongoUsers) FindByID(ctx context.Context, id bson.ObjectID) (*models.User, error) {
	return findOne[models.User](ctx, r.col, bson.M{"_id": id})
}

func (r *mongoUsers) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	return findOne[models.User](ctx, r.col, bson.M{"email": email})
}

func (r *mongoUsers) Insert(ctx context.Context, u *models.User) error {
	if u.ID.IsZero() {
		u.ID = bson.NewObjectID()
	}
	if _, err := r.col.InsertOne(ctx, u); err != nil {
		return writeError(r.col, "insert", err)
	}
	return nil
}

func (r *mongoUsers) Update(ctx context.Context, u *models.User) error {
	res, err := r.col.UpdateByID(ctx, u.ID, bson.M{
		"$set": bson.M{
			"name":         u.Name,
			"email":        u.Email,
			"role":         u.Role,
			"passwordHash": u.PasswordHash,
			"isActive":     u.IsActive,
			"updatedAt":    u.UpdatedAt,
		},
	})
	if err != nil {
		return writeError(r.col, "update", err)
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *mongoUsers) Delete(ctx context.Context, id bson.ObjectID) error {
	res, err := r.col.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return fmt.Errorf("delete user: %w", err)
	}
	if res.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *mongoUsers) EnsureUser(ctx context.Context, u *models.User) (bool, error) {
	// Only insert if it doesn't exist
	filter := bson.M{"email": u.Email}
	update := bson.M{
		"$setOnInsert": bson.M{
			"name":         u.Name,
			"email":        u.Email,
			"passwordHash": u.PasswordHash,
			"role":         u.Role,
			"isActive":     u.IsActive,
			"createdAt":    u.CreatedAt,
			"updatedAt":    u.UpdatedAt,
		},
	}
	res, err := r.col.UpdateOne(ctx, filter, update, options.UpdateOne().SetUpsert(true))
	if err != nil {
		return false, fmt.Errorf("upsert user: %w", err)
	}
	return res.UpsertedCount == 1, nil
}

func (r *mongoUsers) Recent(ctx context.Context, n int64) ([]models.User, error) {
	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}}).SetLimit(n)
	return findAll[models.User](ctx, r.col, bson.M{}, opts)
}

type mongoRefreshTokens struct {
	col *mongo.Collection
}

func (r *mongoRefreshTokens) Insert(ctx context.Context, t *models.RefreshToken) error {
	if t.ID.IsZero() {
		t.ID = bson.NewObjectID()
	}
	if _, err := r.col.InsertOne(ctx, t); err != nil {
		return writeError(r.col, "insert", err)
	}
	return nil
}

func (r *mongoRefreshTokens) FindActive(ctx context.Context, hash string, now time.Time) (*models.RefreshToken, error) {
	return findOne[models.RefreshToken](ctx, r.col, bson.M{
		"tokenHash": hash,
		"revokedAt": bson.M{"$exists": false},
		"expiresAt": bson.M{"$gt": now},
	})
}

func (r *mongoRefreshTokens) Revoke(ctx context.Context, id bson.ObjectID, replacedBy *string, now time.Time) error {
	set := bson.M{"revokedAt": now}
	if replacedBy != nil {
		set["replacedBy"] = *replacedBy
	}
	if _, err := r.col.UpdateByID(ctx, id, bson.M{"$set": set}); err != nil {
		return fmt.Errorf("revoke refresh token: %w", err)
	}
	return nil
}

func (r *mongoRefreshTokens) RevokeByHash(ctx context.Context, hash string, now time.Time) error {
	_, err := r.col.UpdateOne(ctx, bson.M{
		"tokenHash": hash,
		"revokedAt": bson.M{"$exists": false},
	}, bson.M{
		"$set": bson.M{"revokedAt": now},
	})
	if err != nil {
		return fmt.Errorf("revoke refresh token: %w", err)
	}
	return nil
}

func (r *mongoRefreshTokens) RevokeAllForUser(ctx context.Context, userID bson.ObjectID, now time.Time) error {
	_, err := r.col.UpdateMany(ctx, bson.M{
		"userId":    userID,
		"revokedAt": bson.M{"$exists": false},
	}, bson.M{
		"$set": bson.M{"revokedAt": now},
	})
	if err != nil {
		return fmt.Errorf("revoke refresh tokens: %w", err)
	}
	return nil
}
