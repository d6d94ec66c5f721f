package inventory

import (
	"testing"

	"github.com/juju/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vendtx/vendtx/payment"
)

func testLedger(t testing.TB) *Ledger {
	l := NewLedger()
	require.NoError(t, l.Load(
		Product{Name: "coke", Price: 1100, Quantity: 3},
		Product{Name: "water", Price: 600, Quantity: 3},
		Product{Name: "coffee", Price: 700, Quantity: 3},
	))
	return l
}

func TestLoadMerge(t *testing.T) {
	t.Parallel()
	l := testLedger(t)

	require.NoError(t, l.Load(Product{Name: "coke", Price: 1100, Quantity: 2}))
	snap := l.Snapshot()
	require.Len(t, snap, 3)
	assert.Equal(t, Product{Name: "coke", Price: 1100, Quantity: 5}, snap[0])
	assert.Equal(t, "product=coke price=1100 quantity=5", snap[0].String())

	err := l.Load(Product{Name: "coke", Price: 1200, Quantity: 1})
	require.Error(t, err)
	assert.Equal(t, ErrPriceConflict, errors.Cause(err))
	// failed load leaves the entry as it was
	snap = l.Snapshot()
	assert.Equal(t, uint(5), snap[0].Quantity)
}

func TestPrice(t *testing.T) {
	t.Parallel()
	l := testLedger(t)

	price, ok := l.Price("water")
	require.True(t, ok)
	assert.EqualValues(t, 600, price)

	_, ok = l.Price("beer")
	assert.False(t, ok)

	// a free product is a real product, not a missing one
	require.NoError(t, l.Load(Product{Name: "sample", Price: 0, Quantity: 1}))
	price, ok = l.Price("sample")
	require.True(t, ok)
	assert.EqualValues(t, 0, price)
}

func TestAvailable(t *testing.T) {
	t.Parallel()
	l := testLedger(t)

	names := func(ps []Product) []string {
		r := make([]string, 0, len(ps))
		for _, p := range ps {
			r = append(r, p.Name)
		}
		return r
	}

	// insertion order, cash filter
	assert.Equal(t, []string{"water", "coffee"}, names(l.Available(payment.MethodCash, 700)))
	assert.Equal(t, []string{"coke", "water", "coffee"}, names(l.Available(payment.MethodCash, 16600)))
	assert.Empty(t, l.Available(payment.MethodCash, 0))

	// card ignores affordability
	assert.Equal(t, []string{"coke", "water", "coffee"}, names(l.Available(payment.MethodCard, 0)))

	// out of stock disappears for both methods
	l.Decrement("water")
	l.Decrement("water")
	l.Decrement("water")
	assert.Equal(t, []string{"coffee"}, names(l.Available(payment.MethodCash, 700)))
	assert.Equal(t, []string{"coke", "coffee"}, names(l.Available(payment.MethodCard, 0)))
}

func TestDecrementGuard(t *testing.T) {
	t.Parallel()
	l := testLedger(t)

	l.Decrement("beer") // unknown product: no-op
	require.Len(t, l.Snapshot(), 3)

	for i := 0; i < 5; i++ {
		l.Decrement("coffee")
	}
	snap := l.Snapshot()
	assert.Equal(t, uint(0), snap[2].Quantity)
}

func TestSnapshotIsCopy(t *testing.T) {
	t.Parallel()
	l := testLedger(t)
	snap := l.Snapshot()
	snap[0].Quantity = 0
	price, ok := l.Price("coke")
	require.True(t, ok)
	assert.EqualValues(t, 1100, price)
	assert.Equal(t, uint(3), l.Snapshot()[0].Quantity)
}
