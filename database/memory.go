package database

import (
	"bytes"
	"context"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/hazratullahh/eceomerce-jawad/models"
	"go.mongodb.org/mongo-driver/v2/bson"
)

// NewMemoryStore returns a Store kept in process memory. Documents are copied
// in and out so callers never share state with the store. Transactions are
// serialised against each other and roll back by restoring a snapshot.
func NewMemoryStore() *Store {
	d := &memData{
		categories: map[bson.ObjectID]models.Category{},
		products:   map[bson.ObjectID]models.Product{},
		customers:  map[bson.ObjectID]models.Customer{},
		users:      map[bson.ObjectID]models.User{},
		tokens:     map[bson.ObjectID]models.RefreshToken{},
	}
	return &Store{
		Categories:    &memCategories{d},
		Products:      &memProducts{d},
		Customers:     &memCustomers{d},
		Users:         &memUsers{d},
		RefreshTokens: &memRefreshTokens{d},
		Tx:            &memTransactor{d: d},
	}
}

type memData struct {
	mu         sync.RWMutex
	categories map[bson.ObjectID]models.Category
	products   map[bson.ObjectID]models.Product
	customers  map[bson.ObjectID]models.Customer
	users      map[bson.ObjectID]models.User
	tokens     map[bson.ObjectID]models.RefreshToken
}

type memSnapshot struct {
	categories map[bson.ObjectID]models.Category
	products   map[bson.ObjectID]models.Product
	customers  map[bson.ObjectID]models.Customer
	users      map[bson.ObjectID]models.User
	tokens     map[bson.ObjectID]models.RefreshToken
}

func cloneMap[T any](in map[bson.ObjectID]T, clone func(T) T) map[bson.ObjectID]T {
	out := make(map[bson.ObjectID]T, len(in))
	for k, v := range in {
		out[k] = clone(v)
	}
	return out
}

func (d *memData) snapshot() memSnapshot {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return memSnapshot{
		categories: cloneMap(d.categories, cloneCategory),
		products:   cloneMap(d.products, cloneProduct),
		customers:  cloneMap(d.customers, cloneCustomer),
		users:      cloneMap(d.users, func(u models.User) models.User { return u }),
		tokens:     cloneMap(d.tokens, cloneToken),
	}
}

func (d *memData) restore(s memSnapshot) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.categories = s.categories
	d.products = s.products
	d.customers = s.customers
	d.users = s.users
	d.tokens = s.tokens
}

type memTransactor struct {
	mu sync.Mutex
	d  *memData
}

func (t *memTransactor) WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	snap := t.d.snapshot()
	if err := fn(ctx); err != nil {
		t.d.restore(snap)
		return err
	}
	return nil
}

func ptr[T any](p *T) *T {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}

func cloneCategory(c models.Category) models.Category {
	c.Description = ptr(c.Description)
	return c
}

func cloneProduct(p models.Product) models.Product {
	p.OriginalPrice = ptr(p.OriginalPrice)
	p.DiscountPercentage = ptr(p.DiscountPercentage)
	p.SaleText = ptr(p.SaleText)
	p.Description = ptr(p.Description)
	p.Materials = ptr(p.Materials)
	p.Images = slices.Clone(p.Images)
	p.Sizes = slices.Clone(p.Sizes)
	p.CareInstructions = slices.Clone(p.CareInstructions)
	p.Dimensions = slices.Clone(p.Dimensions)
	p.Details = slices.Clone(p.Details)
	return p
}

func cloneCustomer(c models.Customer) models.Customer {
	c.Referrer = ptr(c.Referrer)
	return c
}

func cloneToken(t models.RefreshToken) models.RefreshToken {
	t.RevokedAt = ptr(t.RevokedAt)
	t.ReplacedBy = ptr(t.ReplacedBy)
	return t
}

func containsFold(search string, fields ...string) bool {
	if search == "" {
		return true
	}
	needle := strings.ToLower(search)
	for _, f := range fields {
		if strings.Contains(strings.ToLower(f), needle) {
			return true
		}
	}
	return false
}

func window[T any](items []T, p Page) []T {
	if p.Limit <= 0 {
		return items
	}
	start := min(int(p.Skip), len(items))
	end := min(start+int(p.Limit), len(items))
	return items[start:end]
}

// sortedNewestFirst orders by creation time, then by id, both descending.
func sortedNewestFirst[T any](items []T, at func(T) (time.Time, bson.ObjectID)) {
	slices.SortFunc(items, func(a, b T) int {
		ta, ia := at(a)
		tb, ib := at(b)
		if c := tb.Compare(ta); c != 0 {
			return c
		}
		return bytes.Compare(ib[:], ia[:])
	})
}
