package database

import (
	"context"
	"time"

	"github.com/hazratullahh/eceomerce-jawad/models"
	"go.mongodb.org/mongo-driver/v2/bson"
)

// Page is an offset window over a sorted listing.
type Page struct {
	Skip  int64
	Limit int64
}

type CategoryQuery struct {
	Search string
	Page
}

type ProductQuery struct {
	Category *bson.ObjectID
	Search   string
	Page
}

// CategoryRepository persists categories. Update writes only when the stored
// version still equals expectedVersion, and bumps it by one.
type CategoryRepository interface {
	List(ctx context.Context, q CategoryQuery) ([]models.Category, int64, error)
	FindByID(ctx context.Context, id bson.ObjectID) (*models.Category, error)
	FindBySlug(ctx context.Context, slug string) (*models.Category, error)
	FindByNameEN(ctx context.Context, en string) (*models.Category, error)
	FindByNameAR(ctx context.Context, ar string) (*models.Category, error)
	Insert(ctx context.Context, c *models.Category) error
	Update(ctx context.Context, c *models.Category, expectedVersion int64) error
	Delete(ctx context.Context, id bson.ObjectID) (*models.Category, error)
}

type ProductRepository interface {
	List(ctx context.Context, q ProductQuery) ([]models.Product, int64, error)
	FindByID(ctx context.Context, id bson.ObjectID) (*models.Product, error)
	Insert(ctx context.Context, p *models.Product) error
	Update(ctx context.Context, p *models.Product, expectedVersion int64) error
	Delete(ctx context.Context, id bson.ObjectID) (*models.Product, error)
}

// CustomerStats are the dashboard totals over all customers.
type CustomerStats struct {
	Count         int64
	PaidAmount    float64
	AmountWillPay float64
	WithReferrer  int64
}

// CustomerRepository persists customers. Update never touches
// referralCount; the counter only moves through IncrementReferralCount and
// SetReferralCount.
type CustomerRepository interface {
	List(ctx context.Context, search string) ([]models.Customer, error)
	FindByID(ctx context.Context, id bson.ObjectID) (*models.Customer, error)
	FindByIDs(ctx context.Context, ids []bson.ObjectID) ([]models.Customer, error)
	Insert(ctx context.Context, c *models.Customer) error
	Update(ctx context.Context, c *models.Customer, expectedVersion int64) error
	Delete(ctx context.Context, id bson.ObjectID) (*models.Customer, error)
	IncrementReferralCount(ctx context.Context, id bson.ObjectID, delta int) error
	SetReferralCount(ctx context.Context, id bson.ObjectID, count int) error
	ClearReferrer(ctx context.Context, referrer bson.ObjectID) (int64, error)
	CountReferrals(ctx context.Context) (map[bson.ObjectID]int, error)
	Stats(ctx context.Context) (CustomerStats, error)
	MonthlyCreated(ctx context.Context, year int) ([12]int64, error)
	Recent(ctx context.Context, n int64) ([]models.Customer, error)
}

type UserRepository interface {
	List(ctx context.Context, search string) ([]models.User, error)
	FindByID(ctx context.Context, id bson.ObjectID) (*models.User, error)
	FindByEmail(ctx context.Context, email string) (*models.User, error)
	Insert(ctx context.Context, u *models.User) error
	Update(ctx context.Context, u *models.User) error
	Delete(ctx context.Context, id bson.ObjectID) error
	// EnsureUser inserts u unless a user with the same email exists.
	EnsureUser(ctx context.Context, u *models.User) (bool, error)
	Recent(ctx context.Context, n int64) ([]models.User, error)
}

type RefreshTokenRepository interface {
	Insert(ctx context.Context, t *models.RefreshToken) error
	FindActive(ctx context.Context, hash string, now time.Time) (*models.RefreshToken, error)
	Revoke(ctx context.Context, id bson.ObjectID, replacedBy *string, now time.Time) error
	RevokeByHash(ctx context.Context, hash string, now time.Time) error
	RevokeAllForUser(ctx context.Context, userID bson.ObjectID, now time.Time) error
}

// Transactor runs fn atomically: either every write fn made through ctx
// is kept, or none is.
type Transactor interface {
	WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error
}

// Store groups the repositories the services depend on.
type Store struct {
	Categories    CategoryRepository
	Products      ProductRepository
	Customers     CustomerRepository
	Users         UserRepository
	RefreshTokens RefreshTokenRepository
	Tx            Transactor
}
