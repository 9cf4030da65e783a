package database

import (
	"context"
	"time"

	"github.com/hazratullahh/eceomerce-jawad/models"
	"go.mongodb.org/mongo-driver/v2/bson"
)

func categoryKey(c models.Category) (time.Time, bson.ObjectID) { return c.CreatedAt, c.Id }
func productKey(p models.Product) (time.Time, bson.ObjectID)   { return p.CreatedAt, p.Id }
func customerKey(c models.Customer) (time.Time, bson.ObjectID) { return c.CreatedAt, c.Id }
func userKey(u models.User) (time.Time, bson.ObjectID)         { return u.CreatedAt, u.ID }

type memCategories struct{ d *memData }

func (r *memCategories) List(_ context.Context, q CategoryQuery) ([]models.Category, int64, error) {
	r.d.mu.RLock()
	defer r.d.mu.RUnlock()
	items := make([]models.Category, 0)
	for _, c := range r.d.categories {
		if containsFold(q.Search, c.Name.EN, c.Name.AR) {
			items = append(items, cloneCategory(c))
		}
	}
	sortedNewestFirst(items, categoryKey)
	return window(items, q.Page), int64(len(items)), nil
}

func (r *memCategories) find(match func(models.Category) bool) (*models.Category, error) {
	r.d.mu.RLock()
	defer r.d.mu.RUnlock()
	for _, c := range r.d.categories {
		if match(c) {
			out := cloneCategory(c)
			return &out, nil
		}
	}
	return nil, ErrNotFound
}

func (r *memCategories) FindByID(_ context.Context, id bson.ObjectID) (*models.Category, error) {
	return r.find(func(c models.Category) bool { return c.Id == id })
}

func (r *memCategories) FindBySlug(_ context.Context, slug string) (*models.Category, error) {
	return r.find(func(c models.Category) bool { return c.Slug == slug })
}

func (r *memCategories) FindByNameEN(_ context.Context, en string) (*models.Category, error) {
	return r.find(func(c models.Category) bool { return c.Name.EN == en })
}

func (r *memCategories) FindByNameAR(_ context.Context, ar string) (*models.Category, error) {
	return r.find(func(c models.Category) bool { return c.Name.AR == ar })
}

func (r *memCategories) nameTaken(id bson.ObjectID, en string) bool {
	for _, c := range r.d.categories {
		if c.Id != id && c.Name.EN == en {
			return true
		}
	}
	return false
}

func (r *memCategories) Insert(_ context.Context, c *models.Category) error {
	r.d.mu.Lock()
	defer r.d.mu.Unlock()
	if c.Id.IsZero() {
		c.Id = bson.NewObjectID()
	}
	if r.nameTaken(c.Id, c.Name.EN) {
		return ErrDuplicate
	}
	r.d.categories[c.Id] = cloneCategory(*c)
	return nil
}

func (r *memCategories) Update(_ context.Context, c *models.Category, expectedVersion int64) error {
	r.d.mu.Lock()
	defer r.d.mu.Unlock()
	stored, ok := r.d.categories[c.Id]
	if !ok {
		return ErrNotFound
	}
	if stored.Version != expectedVersion {
		return ErrVersionConflict
	}
	if r.nameTaken(c.Id, c.Name.EN) {
		return ErrDuplicate
	}
	next := cloneCategory(*c)
	next.CreatedAt = stored.CreatedAt
	next.Version = expectedVersion + 1
	r.d.categories[c.Id] = next
	c.Version = next.Version
	return nil
}

func (r *memCategories) Delete(_ context.Context, id bson.ObjectID) (*models.Category, error) {
	r.d.mu.Lock()
	defer r.d.mu.Unlock()
	c, ok := r.d.categories[id]
	if !ok {
		return nil, ErrNotFound
	}
	delete(r.d.categories, id)
	return &c, nil
}

type memProducts struct{ d *memData }

func (r *memProducts) List(_ context.Context, q ProductQuery) ([]models.Product, int64, error) {
	r.d.mu.RLock()
	defer r.d.mu.RUnlock()
	items := make([]models.Product, 0)
	for _, p := range r.d.products {
		if q.Category != nil && p.Category != *q.Category {
			continue
		}
		if containsFold(q.Search, p.Name.EN, p.Name.AR, p.SKU) {
			items = append(items, cloneProduct(p))
		}
	}
	sortedNewestFirst(items, productKey)
	return window(items, q.Page), int64(len(items)), nil
}

func (r *memProducts) FindByID(_ context.Context, id bson.ObjectID) (*models.Product, error) {
	r.d.mu.RLock()
	defer r.d.mu.RUnlock()
	p, ok := r.d.products[id]
	if !ok {
		return nil, ErrNotFound
	}
	out := cloneProduct(p)
	return &out, nil
}

func (r *memProducts) Insert(_ context.Context, p *models.Product) error {
	r.d.mu.Lock()
	defer r.d.mu.Unlock()
	if p.Id.IsZero() {
		p.Id = bson.NewObjectID()
	}
	r.d.products[p.Id] = cloneProduct(*p)
	return nil
}

func (r *memProducts) Update(_ context.Context, p *models.Product, expectedVersion int64) error {
	r.d.mu.Lock()
	defer r.d.mu.Unlock()
	stored, ok := r.d.products[p.Id]
	if !ok {
		return ErrNotFound
	}
	if stored.Version != expectedVersion {
		return ErrVersionConflict
	}
	next := cloneProduct(*p)
	next.CreatedAt = stored.CreatedAt
	next.Version = expectedVersion + 1
	r.d.products[p.Id] = next
	p.Version = next.Version
	return nil
}

func (r *memProducts) Delete(_ context.Context, id bson.ObjectID) (*models.Product, error) {
	r.d.mu.Lock()
	defer r.d.mu.Unlock()
	p, ok := r.d.products[id]
	if !ok {
		return nil, ErrNotFound
	}
	delete(r.d.products, id)
	return &p, nil
}

type memCustomers struct{ d *memData }

func (r *memCustomers) List(_ context.Context, search string) ([]models.Customer, error) {
	r.d.mu.RLock()
	defer r.d.mu.RUnlock()
	items := make([]models.Customer, 0)
	for _, c := range r.d.customers {
		if containsFold(search, c.Name) {
			items = append(items, cloneCustomer(c))
		}
	}
	sortedNewestFirst(items, customerKey)
	return items, nil
}

func (r *memCustomers) FindByID(_ context.Context, id bson.ObjectID) (*models.Customer, error) {
	r.d.mu.RLock()
	defer r.d.mu.RUnlock()
	c, ok := r.d.customers[id]
	if !ok {
		return nil, ErrNotFound
	}
	out := cloneCustomer(c)
	return &out, nil
}

func (r *memCustomers) FindByIDs(_ context.Context, ids []bson.ObjectID) ([]models.Customer, error) {
	r.d.mu.RLock()
	defer r.d.mu.RUnlock()
	items := make([]models.Customer, 0, len(ids))
	for _, id := range ids {
		if c, ok := r.d.customers[id]; ok {
			items = append(items, cloneCustomer(c))
		}
	}
	return items, nil
}

func (r *memCustomers) Insert(_ context.Context, c *models.Customer) error {
	r.d.mu.Lock()
	defer r.d.mu.Unlock()
	if c.Id.IsZero() {
		c.Id = bson.NewObjectID()
	}
	r.d.customers[c.Id] = cloneCustomer(*c)
	return nil
}

func (r *memCustomers) Update(_ context.Context, c *models.Customer, expectedVersion int64) error {
	r.d.mu.Lock()
	defer r.d.mu.Unlock()
	stored, ok := r.d.customers[c.Id]
	if !ok {
		return ErrNotFound
	}
	if stored.Version != expectedVersion {
		return ErrVersionConflict
	}
	stored.Name = c.Name
	stored.AmountWillPay = c.AmountWillPay
	stored.PaidAmount = c.PaidAmount
	stored.Referrer = ptr(c.Referrer)
	stored.UpdatedAt = c.UpdatedAt
	stored.Version = expectedVersion + 1
	r.d.customers[c.Id] = stored
	c.Version = stored.Version
	return nil
}

func (r *memCustomers) Delete(_ context.Context, id bson.ObjectID) (*models.Customer, error) {
	r.d.mu.Lock()
	defer r.d.mu.Unlock()
	c, ok := r.d.customers[id]
	if !ok {
		return nil, ErrNotFound
	}
	delete(r.d.customers, id)
	return &c, nil
}

func (r *memCustomers) IncrementReferralCount(_ context.Context, id bson.ObjectID, delta int) error {
	r.d.mu.Lock()
	defer r.d.mu.Unlock()
	c, ok := r.d.customers[id]
	if !ok {
		return ErrNotFound
	}
	c.ReferralCount = max(c.ReferralCount+delta, 0)
	r.d.customers[id] = c
	return nil
}

func (r *memCustomers) SetReferralCount(_ context.Context, id bson.ObjectID, count int) error {
	r.d.mu.Lock()
	defer r.d.mu.Unlock()
	c, ok := r.d.customers[id]
	if !ok {
		return ErrNotFound
	}
	c.ReferralCount = count
	r.d.customers[id] = c
	return nil
}

func (r *memCustomers) ClearReferrer(_ context.Context, referrer bson.ObjectID) (int64, error) {
	r.d.mu.Lock()
	defer r.d.mu.Unlock()
	var n int64
	now := time.Now().UTC()
	for id, c := range r.d.customers {
		if c.Referrer != nil && *c.Referrer == referrer {
			c.Referrer = nil
			c.UpdatedAt = now
			c.Version++
			r.d.customers[id] = c
			n++
		}
	}
	return n, nil
}

func (r *memCustomers) CountReferrals(_ context.Context) (map[bson.ObjectID]int, error) {
	r.d.mu.RLock()
	defer r.d.mu.RUnlock()
	counts := map[bson.ObjectID]int{}
	for _, c := range r.d.customers {
		if c.Referrer != nil {
			counts[*c.Referrer]++
		}
	}
	return counts, nil
}

func (r *memCustomers) Stats(_ context.Context) (CustomerStats, error) {
	r.d.mu.RLock()
	defer r.d.mu.RUnlock()
	var s CustomerStats
	for _, c := range r.d.customers {
		s.Count++
		s.PaidAmount += c.PaidAmount
		s.AmountWillPay += c.AmountWillPay
		if c.Referrer != nil {
			s.WithReferrer++
		}
	}
	return s, nil
}

func (r *memCustomers) MonthlyCreated(_ context.Context, year int) ([12]int64, error) {
	r.d.mu.RLock()
	defer r.d.mu.RUnlock()
	var months [12]int64
	for _, c := range r.d.customers {
		created := c.CreatedAt.UTC()
		if created.Year() == year {
			months[created.Month()-1]++
		}
	}
	return months, nil
}

func (r *memCustomers) Recent(ctx context.Context, n int64) ([]models.Customer, error) {
	items, _ := r.List(ctx, "")
	return window(items, Page{Limit: n}), nil
}

type memUsers struct{ d *memData }

func (r *memUsers) List(_ context.Context, search string) ([]models.User, error) {
	r.d.mu.RLock()
	defer r.d.mu.RUnlock()
	items := make([]models.User, 0)
	for _, u := range r.d.users {
		if containsFold(search, u.Name, u.Email) {
			items = append(items, u)
		}
	}
	sortedNewestFirst(items, userKey)
	return items, nil
}

func (r *memUsers) FindByID(_ context.Context, id bson.ObjectID) (*models.User, error) {
	r.d.mu.RLock()
	defer r.d.mu.RUnlock()
	u, ok := r.d.users[id]
	if !ok {
		return nil, ErrNotFound
	}
	return &u, nil
}

func (r *memUsers) FindByEmail(_ context.Context, email string) (*models.User, error) {
	r.d.mu.RLock()
	defer r.d.mu.RUnlock()
	for _, u := range r.d.users {
		if u.Email == email {
			return &u, nil
		}
	}
	return nil, ErrNotFound
}

func (r *memUsers) emailTaken(id bson.ObjectID, email string) bool {
	for _, u := range r.d.users {
		if u.ID != id && u.Email == email {
			return true
		}
	}
	return false
}

func (r *memUsers) Insert(_ context.Context, u *models.User) error {
	r.d.mu.Lock()
	defer r.d.mu.Unlock()
	if u.ID.IsZero() {
		u.ID = bson.NewObjectID()
	}
	if r.emailTaken(u.ID, u.Email) {
		return ErrDuplicate
	}
	r.d.users[u.ID] = *u
	return nil
}

func (r *memUsers) Update(_ context.Context, u *models.User) error {
	r.d.mu.Lock()
	defer r.d.mu.Unlock()
	stored, ok := r.d.users[u.ID]
	if !ok {
		return ErrNotFound
	}
	if r.emailTaken(u.ID, u.Email) {
		return ErrDuplicate
	}
	next := *u
	next.CreatedAt = stored.CreatedAt
	r.d.users[u.ID] = next
	return nil
}

func (r *memUsers) Delete(_ context.Context, id bson.ObjectID) error {
	r.d.mu.Lock()
	defer r.d.mu.Unlock()
	if _, ok := r.d.users[id]; !ok {
		return ErrNotFound
	}
	delete(r.d.users, id)
	return nil
}

func (r *memUsers) EnsureUser(_ context.Context, u *models.User) (bool, error) {
	r.d.mu.Lock()
	defer r.d.mu.Unlock()
	if r.emailTaken(bson.NilObjectID, u.Email) {
		return false, nil
	}
	if u.ID.IsZero() {
		u.ID = bson.NewObjectID()
	}
	r.d.users[u.ID] = *u
	return true, nil
}

func (r *memUsers) Recent(ctx context.Context, n int64) ([]models.User, error) {
	items, _ := r.List(ctx, "")
	return window(items, Page{Limit: n}), nil
}

type memRefreshTokens struct{ d *memData }

func (r *memRefreshTokens) Insert(_ context.Context, t *models.RefreshToken) error {
	r.d.mu.Lock()
	defer r.d.mu.Unlock()
	if t.ID.IsZero() {
		t.ID = bson.NewObjectID()
	}
	r.d.tokens[t.ID] = cloneToken(*t)
	return nil
}

func (r *memRefreshTokens) FindActive(_ context.Context, hash string, now time.Time) (*models.RefreshToken, error) {
	r.d.mu.RLock()
	defer r.d.mu.RUnlock()
	for _, t := range r.d.tokens {
		if t.TokenHash == hash && t.RevokedAt == nil && t.ExpiresAt.After(now) {
			out := cloneToken(t)
			return &out, nil
		}
	}
	return nil, ErrNotFound
}

func (r *memRefreshTokens) Revoke(_ context.Context, id bson.ObjectID, replacedBy *string, now time.Time) error {
	r.d.mu.Lock()
	defer r.d.mu.Unlock()
	t, ok := r.d.tokens[id]
	if !ok {
		return nil
	}
	t.RevokedAt = &now
	t.ReplacedBy = ptr(replacedBy)
	r.d.tokens[id] = t
	return nil
}

func (r *memRefreshTokens) RevokeByHash(_ context.Context, hash string, now time.Time) error {
	r.d.mu.Lock()
	defer r.d.mu.Unlock()
	for id, t := range r.d.tokens {
		if t.TokenHash == hash && t.RevokedAt == nil {
			t.RevokedAt = &now
			r.d.tokens[id] = t
		}
	}
	return nil
}

func (r *memRefreshTokens) RevokeAllForUser(_ context.Context, userID bson.ObjectID, now time.Time) error {
	r.d.mu.Lock()
	defer r.d.mu.Unlock()
	for id, t := range r.d.tokens {
		if t.UserID == userID && t.RevokedAt == nil {
			t.RevokedAt = &now
			r.d.tokens[id] = t
		}
	}
	return nil
}
