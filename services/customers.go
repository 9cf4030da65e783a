package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/hazratullahh/eceomerce-jawad/database"
	"github.com/hazratullahh/eceomerce-jawad/models"
	"go.mongodb.org/mongo-driver/v2/bson"
)

// CustomerInput is a customer submission. Nil fields were absent; on update
// they keep the stored value. Referrer points at "" when it was cleared.
type CustomerInput struct {
	Name          *string
	AmountWillPay *float64
	PaidAmount    *float64
	Referrer      *string
	Version       *int64
}

func (in CustomerInput) validate() error {
	v := &ValidationError{}
	if in.Name == nil || strings.TrimSpace(*in.Name) == "" {
		v.add("name", "Name is required")
	}
	if in.AmountWillPay == nil || *in.AmountWillPay < models.MinAmountWillPay {
		v.add("amountWillPay", fmt.Sprintf("Amount to pay must be at least $%d", models.MinAmountWillPay))
	}
	if in.PaidAmount != nil && *in.PaidAmount < 0 {
		v.add("paidAmount", "Paid amount cannot be negative")
	}
	return v.orNil()
}

func parseReferrer(raw *string) (*bson.ObjectID, error) {
	if raw == nil || *raw == "" {
		return nil, nil
	}
	id, err := bson.ObjectIDFromHex(*raw)
	if err != nil {
		return nil, invalid("referrer", "Invalid Referrer ID format")
	}
	return &id, nil
}

type CustomerService struct {
	customers database.CustomerRepository
	tx        database.Transactor
	ledger    *Ledger
}

func NewCustomerService(customers database.CustomerRepository, tx database.Transactor) *CustomerService {
	return &CustomerService{customers: customers, tx: tx, ledger: NewLedger(customers)}
}

func (s *CustomerService) List(ctx context.Context, search string) ([]models.CustomerView, error) {
	items, err := s.customers.List(ctx, strings.TrimSpace(search))
	if err != nil {
		return nil, err
	}
	return s.populate(ctx, items)
}

func (s *CustomerService) Get(ctx context.Context, id bson.ObjectID) (*models.CustomerView, error) {
	c, err := s.customers.FindByID(ctx, id)
	if err != nil {
		return nil, storeError("Customer", err)
	}
	return s.view(ctx, c)
}

func (s *CustomerService) view(ctx context.Context, c *models.Customer) (*models.CustomerView, error) {
	views, err := s.populate(ctx, []models.Customer{*c})
	if err != nil {
		return nil, err
	}
	return &views[0], nil
}

// populate resolves referrer ids to names in one lookup.
func (s *CustomerService) populate(ctx context.Context, items []models.Customer) ([]models.CustomerView, error) {
	seen := map[bson.ObjectID]struct{}{}
	var ids []bson.ObjectID
	for _, c := range items {
		if c.Referrer == nil {
			continue
		}
		if _, ok := seen[*c.Referrer]; !ok {
			seen[*c.Referrer] = struct{}{}
			ids = append(ids, *c.Referrer)
		}
	}
	names := map[bson.ObjectID]string{}
	if len(ids) > 0 {
		refs, err := s.customers.FindByIDs(ctx, ids)
		if err != nil {
			return nil, err
		}
		for _, r := range refs {
			names[r.Id] = r.Name
		}
	}

	views := make([]models.CustomerView, 0, len(items))
	for _, c := range items {
		v := models.CustomerView{
			Id:            c.Id,
			Name:          c.Name,
			AmountWillPay: c.AmountWillPay,
			PaidAmount:    c.PaidAmount,
			ReferralCount: c.ReferralCount,
			Version:       c.Version,
			CreatedAt:     c.CreatedAt,
			UpdatedAt:     c.UpdatedAt,
		}
		if c.Referrer != nil {
			if name, ok := names[*c.Referrer]; ok {
				v.Referrer = &models.ReferrerSummary{Id: *c.Referrer, Name: name}
			}
		}
		views = append(views, v)
	}
	return views, nil
}

// requireReferrer fails with a not-found error when id names no customer.
func (s *CustomerService) requireReferrer(ctx context.Context, id *bson.ObjectID) error {
	if id == nil {
		return nil
	}
	if _, err := s.customers.FindByID(ctx, *id); err != nil {
		return storeError("Referrer", err)
	}
	return nil
}

func (s *CustomerService) Create(ctx context.Context, in CustomerInput) (*models.CustomerView, error) {
	if err := in.validate(); err != nil {
		return nil, err
	}
	referrer, err := parseReferrer(in.Referrer)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	c := &models.Customer{
		Name:          strings.TrimSpace(*in.Name),
		AmountWillPay: *in.AmountWillPay,
		Referrer:      referrer,
		Version:       1,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	if in.PaidAmount != nil {
		c.PaidAmount = *in.PaidAmount
	}

	err = s.tx.WithTransaction(ctx, func(ctx context.Context) error {
		if err := s.requireReferrer(ctx, referrer); err != nil {
			return err
		}
		if err := s.customers.Insert(ctx, c); err != nil {
			return storeError("Customer", err)
		}
		return s.ledger.Apply(ctx, ReferralChange(nil, referrer))
	})
	if err != nil {
		return nil, err
	}
	return s.view(ctx, c)
}

// Update merges the submission over the stored customer and moves referral
// counters in one transaction. A self reference is rejected before anything
// is read. The customer is written before the counters move, so a failed
// write leaves the ledger untouched even without a transaction.
func (s *CustomerService) Update(ctx context.Context, id bson.ObjectID, in CustomerInput) (*models.CustomerView, error) {
	if in.Referrer != nil && strings.EqualFold(*in.Referrer, id.Hex()) {
		return nil, invalid("referrer", "Customer cannot refer themselves")
	}
	newReferrer, err := parseReferrer(in.Referrer)
	if err != nil {
		return nil, err
	}

	var updated models.Customer
	err = s.tx.WithTransaction(ctx, func(ctx context.Context) error {
		existing, err := s.customers.FindByID(ctx, id)
		if err != nil {
			return storeError("Customer", err)
		}
		merged := in
		if merged.Name == nil {
			merged.Name = &existing.Name
		}
		if merged.AmountWillPay == nil {
			merged.AmountWillPay = &existing.AmountWillPay
		}
		if merged.PaidAmount == nil {
			merged.PaidAmount = &existing.PaidAmount
		}
		if err := merged.validate(); err != nil {
			return err
		}
		if err := checkVersion("Customer", in.Version, existing.Version); err != nil {
			return err
		}

		target := existing.Referrer
		if in.Referrer != nil {
			target = newReferrer
		}
		delta := ReferralChange(existing.Referrer, target)
		if delta.Increment != nil {
			if err := s.requireReferrer(ctx, delta.Increment); err != nil {
				return err
			}
		}

		updated = *existing
		updated.Name = strings.TrimSpace(*merged.Name)
		updated.AmountWillPay = *merged.AmountWillPay
		updated.PaidAmount = *merged.PaidAmount
		updated.Referrer = target
		updated.UpdatedAt = time.Now().UTC()

		if err := s.customers.Update(ctx, &updated, existing.Version); err != nil {
			return storeError("Customer", err)
		}
		if err := s.ledger.Apply(ctx, delta); err != nil {
			return err
		}
		// re-read so the counter reflects any ledger move on this document
		fresh, err := s.customers.FindByID(ctx, id)
		if err != nil {
			return storeError("Customer", err)
		}
		updated = *fresh
		return nil
	})
	if err != nil {
		return nil, err
	}
	return s.view(ctx, &updated)
}

// Delete removes the customer, releases the slot it held on its referrer
// and detaches every customer it referred.
func (s *CustomerService) Delete(ctx context.Context, id bson.ObjectID) (*models.Customer, error) {
	var deleted *models.Customer
	err := s.tx.WithTransaction(ctx, func(ctx context.Context) error {
		var err error
		deleted, err = s.customers.Delete(ctx, id)
		if err != nil {
			return storeError("Customer", err)
		}
		if err := s.ledger.Apply(ctx, ReferralChange(deleted.Referrer, nil)); err != nil {
			return err
		}
		if _, err := s.customers.ClearReferrer(ctx, id); err != nil {
			return fmt.Errorf("detach referees: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return deleted, nil
}

// RecountReferrals repairs every referralCount from the live pointers.
func (s *CustomerService) RecountReferrals(ctx context.Context) (int, error) {
	var fixed int
	err := s.tx.WithTransaction(ctx, func(ctx context.Context) error {
		var err error
		fixed, err = s.ledger.Recount(ctx)
		return err
	})
	return fixed, err
}
