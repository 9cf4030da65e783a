package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/hazratullahh/eceomerce-jawad/database"
	"go.mongodb.org/mongo-driver/v2/bson"
)

// ReferralDelta is the counter movement caused by a referrer change.
type ReferralDelta struct {
	Decrement *bson.ObjectID
	Increment *bson.ObjectID
}

// ReferralChange compares the referrer before and after a write.
func ReferralChange(before, after *bson.ObjectID) ReferralDelta {
	switch {
	case before == nil && after == nil:
		return ReferralDelta{}
	case before == nil:
		return ReferralDelta{Increment: after}
	case after == nil:
		return ReferralDelta{Decrement: before}
	case *before == *after:
		return ReferralDelta{}
	}
	return ReferralDelta{Decrement: before, Increment: after}
}

func (d ReferralDelta) Empty() bool {
	return d.Decrement == nil && d.Increment == nil
}

// Ledger keeps referralCount equal to the number of customers pointing at
// each customer. Callers run it inside a transaction together with the
// write that moved the pointers.
type Ledger struct {
	customers database.CustomerRepository
}

func NewLedger(customers database.CustomerRepository) *Ledger {
	return &Ledger{customers: customers}
}

// Apply moves the counters. A decrement against a customer that no longer
// exists is ignored; an increment against one is an error.
func (l *Ledger) Apply(ctx context.Context, d ReferralDelta) error {
	if d.Decrement != nil {
		err := l.customers.IncrementReferralCount(ctx, *d.Decrement, -1)
		if err != nil && !errors.Is(err, database.ErrNotFound) {
			return fmt.Errorf("decrement referral count: %w", err)
		}
	}
	if d.Increment != nil {
		if err := l.customers.IncrementReferralCount(ctx, *d.Increment, 1); err != nil {
			return storeError("Referrer", err)
		}
	}
	return nil
}

// Recount rewrites every counter that disagrees with the live pointers and
// returns how many were corrected.
func (l *Ledger) Recount(ctx context.Context) (int, error) {
	counts, err := l.customers.CountReferrals(ctx)
	if err != nil {
		return 0, err
	}
	all, err := l.customers.List(ctx, "")
	if err != nil {
		return 0, err
	}
	fixed := 0
	for _, c := range all {
		want := counts[c.Id]
		if c.ReferralCount == want {
			continue
		}
		if err := l.customers.SetReferralCount(ctx, c.Id, want); err != nil {
			return fixed, fmt.Errorf("set referral count: %w", err)
		}
		fixed++
	}
	return fixed, nil
}
