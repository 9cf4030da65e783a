package services

import (
	"context"
	"math/rand"
	"testing"

	"github.com/hazratullahh/eceomerce-jawad/database"
	"github.com/hazratullahh/eceomerce-jawad/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/v2/bson"
)

func newCustomerService() (*database.Store, *CustomerService) {
	store := database.NewMemoryStore()
	return store, NewCustomerService(store.Customers, store.Tx)
}

func mustCreate(t *testing.T, svc *CustomerService, name string, referrer *string) *models.CustomerView {
	t.Helper()
	c, err := svc.Create(context.Background(), CustomerInput{Name: ptr(name), AmountWillPay: ptr(700.0), Referrer: referrer})
	require.NoError(t, err)
	return c
}

func referralCount(t *testing.T, store *database.Store, id bson.ObjectID) int {
	t.Helper()
	c, err := store.Customers.FindByID(context.Background(), id)
	require.NoError(t, err)
	return c.ReferralCount
}

// assertLedgerConsistent checks every counter against the live pointers.
func assertLedgerConsistent(t *testing.T, store *database.Store) {
	t.Helper()
	all, err := store.Customers.List(context.Background(), "")
	require.NoError(t, err)
	want := map[bson.ObjectID]int{}
	for _, c := range all {
		if c.Referrer != nil {
			want[*c.Referrer]++
		}
	}
	for _, c := range all {
		assert.Equal(t, want[c.Id], c.ReferralCount, "referralCount of %s", c.Name)
	}
}

func TestCustomerReferralLifecycle(t *testing.T) {
	ctx := context.Background()
	store, svc := newCustomerService()

	alice := mustCreate(t, svc, "Alice", nil)
	bob, err := svc.Create(ctx, CustomerInput{Name: ptr("Bob"), AmountWillPay: ptr(800.0), Referrer: ptr(alice.Id.Hex())})
	require.NoError(t, err)
	assert.Equal(t, 1, referralCount(t, store, alice.Id))
	require.NotNil(t, bob.Referrer)
	assert.Equal(t, "Alice", bob.Referrer.Name)

	bob, err = svc.Update(ctx, bob.Id, CustomerInput{Name: ptr("Bob"), AmountWillPay: ptr(800.0), Referrer: ptr("")})
	require.NoError(t, err)
	assert.Nil(t, bob.Referrer)
	assert.Equal(t, 0, referralCount(t, store, alice.Id))
	assertLedgerConsistent(t, store)
}

func TestCustomerMinimumAmount(t *testing.T) {
	_, svc := newCustomerService()

	_, err := svc.Create(context.Background(), CustomerInput{Name: ptr("Carol"), AmountWillPay: ptr(500.0)})
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "amountWillPay", verr.Fields[0].Field)
	assert.Equal(t, "Amount to pay must be at least $700", verr.Fields[0].Message)
}

func TestCustomerReferrerErrors(t *testing.T) {
	ctx := context.Background()
	store, svc := newCustomerService()

	_, err := svc.Create(ctx, CustomerInput{Name: ptr("Dan"), AmountWillPay: ptr(700.0), Referrer: ptr("xyz")})
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "Invalid Referrer ID format", verr.Fields[0].Message)

	_, err = svc.Create(ctx, CustomerInput{Name: ptr("Dan"), AmountWillPay: ptr(700.0), Referrer: ptr(bson.NewObjectID().Hex())})
	var nf *NotFoundError
	require.ErrorAs(t, err, &nf)
	assert.Equal(t, "Referrer not found", nf.Error())

	all, err := store.Customers.List(ctx, "")
	require.NoError(t, err)
	assert.Empty(t, all, "failed create must not leave a record behind")
}

func TestCustomerSelfReferralRejected(t *testing.T) {
	ctx := context.Background()
	store, svc := newCustomerService()
	alice := mustCreate(t, svc, "Alice", nil)
	before, err := store.Customers.FindByID(ctx, alice.Id)
	require.NoError(t, err)

	_, err = svc.Update(ctx, alice.Id, CustomerInput{Name: ptr("Alice"), AmountWillPay: ptr(700.0), Referrer: ptr(alice.Id.Hex())})
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "Customer cannot refer themselves", verr.Fields[0].Message)

	after, err := store.Customers.FindByID(ctx, alice.Id)
	require.NoError(t, err)
	assert.Equal(t, before, after)
}

func TestCustomerUpdateMovesReferral(t *testing.T) {
	ctx := context.Background()
	store, svc := newCustomerService()
	alice := mustCreate(t, svc, "Alice", nil)
	erin := mustCreate(t, svc, "Erin", nil)
	bob := mustCreate(t, svc, "Bob", ptr(alice.Id.Hex()))

	updated, err := svc.Update(ctx, bob.Id, CustomerInput{Name: ptr("Bob"), AmountWillPay: ptr(900.0), Referrer: ptr(erin.Id.Hex())})
	require.NoError(t, err)
	assert.Equal(t, "Erin", updated.Referrer.Name)
	assert.Equal(t, 900.0, updated.AmountWillPay)
	assert.Equal(t, 0, referralCount(t, store, alice.Id))
	assert.Equal(t, 1, referralCount(t, store, erin.Id))

	// absent referrer keeps the current one
	updated, err = svc.Update(ctx, bob.Id, CustomerInput{Name: ptr("Robert"), AmountWillPay: ptr(900.0)})
	require.NoError(t, err)
	assert.Equal(t, erin.Id, updated.Referrer.Id)
	assert.Equal(t, 1, referralCount(t, store, erin.Id))

	_, err = svc.Update(ctx, bob.Id, CustomerInput{Name: ptr("Robert"), AmountWillPay: ptr(900.0), Referrer: ptr(bson.NewObjectID().Hex())})
	var nf *NotFoundError
	require.ErrorAs(t, err, &nf)
	assert.Equal(t, 1, referralCount(t, store, erin.Id), "failed update must roll back the ledger")
	assertLedgerConsistent(t, store)
}

func TestCustomerUpdateVersionConflict(t *testing.T) {
	ctx := context.Background()
	_, svc := newCustomerService()
	alice := mustCreate(t, svc, "Alice", nil)

	_, err := svc.Update(ctx, alice.Id, CustomerInput{Name: ptr("Al"), AmountWillPay: ptr(700.0), Version: ptr(alice.Version + 1)})
	var conflict *ConflictError
	require.ErrorAs(t, err, &conflict)

	updated, err := svc.Update(ctx, alice.Id, CustomerInput{Name: ptr("Al"), AmountWillPay: ptr(700.0), Version: ptr(alice.Version)})
	require.NoError(t, err)
	assert.Equal(t, alice.Version+1, updated.Version)
}

func TestCustomerIdenticalUpdate(t *testing.T) {
	ctx := context.Background()
	_, svc := newCustomerService()
	alice := mustCreate(t, svc, "Alice", nil)
	bob := mustCreate(t, svc, "Bob", ptr(alice.Id.Hex()))

	updated, err := svc.Update(ctx, bob.Id, CustomerInput{
		Name:          ptr(bob.Name),
		AmountWillPay: ptr(bob.AmountWillPay),
		PaidAmount:    ptr(bob.PaidAmount),
		Referrer:      ptr(alice.Id.Hex()),
	})
	require.NoError(t, err)
	assert.Equal(t, bob.Name, updated.Name)
	assert.Equal(t, bob.Referrer, updated.Referrer)
	assert.Equal(t, bob.ReferralCount, updated.ReferralCount)

	refreshed, err := svc.Get(ctx, alice.Id)
	require.NoError(t, err)
	assert.Equal(t, 1, refreshed.ReferralCount)
}

func TestCustomerDeleteDetachesReferees(t *testing.T) {
	ctx := context.Background()
	store, svc := newCustomerService()
	alice := mustCreate(t, svc, "Alice", nil)
	bob := mustCreate(t, svc, "Bob", ptr(alice.Id.Hex()))
	carol := mustCreate(t, svc, "Carol", ptr(bob.Id.Hex()))
	dave := mustCreate(t, svc, "Dave", ptr(bob.Id.Hex()))

	_, err := svc.Delete(ctx, bob.Id)
	require.NoError(t, err)

	assert.Equal(t, 0, referralCount(t, store, alice.Id))
	for _, id := range []bson.ObjectID{carol.Id, dave.Id} {
		c, err := svc.Get(ctx, id)
		require.NoError(t, err)
		assert.Nil(t, c.Referrer)
	}
	assertLedgerConsistent(t, store)

	_, err = svc.Delete(ctx, bob.Id)
	var nf *NotFoundError
	require.ErrorAs(t, err, &nf)
	assert.Equal(t, "Customer not found", nf.Error())
}

func TestCustomerLedgerHoldsUnderRandomOperations(t *testing.T) {
	ctx := context.Background()
	store, svc := newCustomerService()
	rng := rand.New(rand.NewSource(42))
	var ids []bson.ObjectID

	pick := func() *string {
		if len(ids) == 0 || rng.Intn(4) == 0 {
			return nil
		}
		return ptr(ids[rng.Intn(len(ids))].Hex())
	}

	for i := 0; i < 300; i++ {
		switch op := rng.Intn(10); {
		case op < 4 || len(ids) == 0:
			c, err := svc.Create(ctx, CustomerInput{Name: ptr("c"), AmountWillPay: ptr(700.0), Referrer: pick()})
			require.NoError(t, err)
			ids = append(ids, c.Id)
		case op < 8:
			id := ids[rng.Intn(len(ids))]
			ref := pick()
			if ref == nil {
				ref = ptr("")
			}
			_, err := svc.Update(ctx, id, CustomerInput{Name: ptr("c"), AmountWillPay: ptr(700.0), Referrer: ref})
			if err != nil {
				var verr *ValidationError
				require.ErrorAs(t, err, &verr)
			}
		default:
			n := rng.Intn(len(ids))
			_, err := svc.Delete(ctx, ids[n])
			require.NoError(t, err)
			ids = append(ids[:n], ids[n+1:]...)
		}
		assertLedgerConsistent(t, store)
	}
}

func TestCustomerRecountRepairsDrift(t *testing.T) {
	ctx := context.Background()
	store, svc := newCustomerService()
	alice := mustCreate(t, svc, "Alice", nil)
	mustCreate(t, svc, "Bob", ptr(alice.Id.Hex()))
	mustCreate(t, svc, "Carol", ptr(alice.Id.Hex()))

	require.NoError(t, store.Customers.SetReferralCount(ctx, alice.Id, 9))
	fixed, err := svc.RecountReferrals(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, fixed)
	assert.Equal(t, 2, referralCount(t, store, alice.Id))

	fixed, err = svc.RecountReferrals(ctx)
	require.NoError(t, err)
	assert.Zero(t, fixed)
}

func TestCustomerListPopulatesReferrer(t *testing.T) {
	ctx := context.Background()
	_, svc := newCustomerService()
	alice := mustCreate(t, svc, "Alice", nil)
	mustCreate(t, svc, "Bob", ptr(alice.Id.Hex()))

	items, err := svc.List(ctx, "bo")
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, &models.ReferrerSummary{Id: alice.Id, Name: "Alice"}, items[0].Referrer)
}

func TestCustomerPartialUpdateKeepsStoredFields(t *testing.T) {
	ctx := context.Background()
	store, svc := newCustomerService()
	alice := mustCreate(t, svc, "Alice", nil)
	bob, err := svc.Create(ctx, CustomerInput{Name: ptr("Bob"), AmountWillPay: ptr(950.0), PaidAmount: ptr(100.0), Referrer: ptr(alice.Id.Hex())})
	require.NoError(t, err)

	updated, err := svc.Update(ctx, bob.Id, CustomerInput{Referrer: ptr("")})
	require.NoError(t, err)
	assert.Equal(t, "Bob", updated.Name)
	assert.Equal(t, 950.0, updated.AmountWillPay)
	assert.Equal(t, 100.0, updated.PaidAmount)
	assert.Nil(t, updated.Referrer)
	assert.Equal(t, 0, referralCount(t, store, alice.Id))

	_, err = svc.Update(ctx, bob.Id, CustomerInput{AmountWillPay: ptr(300.0)})
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "amountWillPay", verr.Fields[0].Field)
}

// noTx runs the callback without rollback, like a standalone Mongo server.
type noTx struct{}

func (noTx) WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

// racingCustomers fails every update as if another writer got there first.
type racingCustomers struct {
	database.CustomerRepository
}

func (racingCustomers) Update(context.Context, *models.Customer, int64) error {
	return database.ErrVersionConflict
}

func TestCustomerUpdateConflictLeavesLedgerWithoutTransaction(t *testing.T) {
	ctx := context.Background()
	store := database.NewMemoryStore()
	setup := NewCustomerService(store.Customers, noTx{})
	alice := mustCreate(t, setup, "Alice", nil)
	erin := mustCreate(t, setup, "Erin", nil)
	bob := mustCreate(t, setup, "Bob", ptr(alice.Id.Hex()))

	svc := NewCustomerService(racingCustomers{store.Customers}, noTx{})
	_, err := svc.Update(ctx, bob.Id, CustomerInput{Referrer: ptr(erin.Id.Hex())})
	var conflict *ConflictError
	require.ErrorAs(t, err, &conflict)

	assert.Equal(t, 1, referralCount(t, store, alice.Id))
	assert.Equal(t, 0, referralCount(t, store, erin.Id))
	assertLedgerConsistent(t, store)
}
