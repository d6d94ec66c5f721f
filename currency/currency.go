// Package currency holds the change ledger: denominated cash counted per
// nominal, with load-merge, deposit, exact spend and change computation.
package currency

import (
	"fmt"
	"sort"
	"strings"

	"github.com/juju/errors"
)

// Amount is integer counting lowest currency unit, e.g. ₩1100 = 1100.
type Amount uint32

// Nominal is value of one coin or bill.
type Nominal Amount

// Denominations is the fixed set accepted and dispensed by the machine.
var Denominations = []Nominal{100, 500, 1000, 5000, 10000}

var (
	ErrNominalInvalid = errors.New("nominal is not valid for this group")
	ErrNominalCount   = errors.New("not enough nominals for this amount")
)

// Sum adds up a list of cash units.
func Sum(units []Nominal) Amount {
	total := Amount(0)
	for _, n := range units {
		total += Amount(n)
	}
	return total
}

// ExactChange is the settlement commit gate: change paid out must equal
// tendered cash minus price, to the unit.
func ExactChange(cashSum, price, changeSum Amount) bool {
	return cashSum == price+changeSum
}

// NominalGroup counts money comprised of multiple nominals, like coins or bills.
// nominal 100 : 10
// nominal 500 : 10
// total       : 6000
type NominalGroup struct {
	values map[Nominal]uint
}

// NewNominalGroup returns an empty group accepting exactly the given nominals.
func NewNominalGroup(valid []Nominal) *NominalGroup {
	g := &NominalGroup{}
	g.SetValid(valid)
	return g
}

func (g *NominalGroup) SetValid(valid []Nominal) {
	g.values = make(map[Nominal]uint, len(valid))
	for _, n := range valid {
		if n != 0 {
			g.values[n] = 0
		}
	}
}

// Add merges count units of nominal n into the group. Loading the same
// nominal again is additive, supporting incremental refills.
func (g *NominalGroup) Add(n Nominal, count uint) error {
	if _, ok := g.values[n]; !ok {
		return errors.Annotatef(ErrNominalInvalid, "Add(n=%d c=%d)", n, count)
	}
	g.values[n] += count
	return nil
}

// Deposit accepts tendered cash into the pool, one unit at a time.
// Units outside the valid set are ignored; the payment validator has
// already quarantined them.
func (g *NominalGroup) Deposit(units []Nominal) {
	for _, n := range units {
		if _, ok := g.values[n]; ok {
			g.values[n]++
		}
	}
}

// Spend removes previously computed change units from the pool.
// A nominal at zero is skipped: the caller guarantees feasibility via
// MakeChange on a scratch copy that included the deposit.
func (g *NominalGroup) Spend(units []Nominal) {
	for _, n := range units {
		if g.values[n] > 0 {
			g.values[n]--
		}
	}
}

func (g *NominalGroup) Get(n Nominal) (uint, error) {
	stored, ok := g.values[n]
	if !ok {
		return 0, ErrNominalInvalid
	}
	return stored, nil
}

func (g *NominalGroup) Copy() *NominalGroup {
	g2 := &NominalGroup{
		values: make(map[Nominal]uint, len(g.values)),
	}
	for k, v := range g.values {
		g2.values[k] = v
	}
	return g2
}

func (g *NominalGroup) Equal(other *NominalGroup) bool {
	if len(g.values) != len(other.values) {
		return false
	}
	for n, c := range g.values {
		if oc, ok := other.values[n]; !ok || oc != c {
			return false
		}
	}
	return true
}

func (g *NominalGroup) Total() Amount {
	sum := Amount(0)
	for nominal, count := range g.values {
		sum += Amount(nominal) * Amount(count)
	}
	return sum
}

func (g *NominalGroup) String() string {
	parts := make([]string, 0, len(g.values)+1)
	sum := Amount(0)
	for nominal, count := range g.values {
		if count > 0 {
			parts = append(parts, fmt.Sprintf("%d:%d", nominal, count))
			sum += Amount(nominal) * Amount(count)
		}
	}
	sort.Strings(parts)
	parts = append(parts, fmt.Sprintf("total:%d", sum))
	return strings.Join(parts, ",")
}

// MakeChange computes the units to pay out for amount. The tendered cash is
// first deposited into a scratch copy of the pool: the buyer's own bills are
// eligible to come straight back as change, like a real machine where
// inserted cash joins the pool before dispensing starts. The group itself is
// never mutated; commit happens later via Deposit+Spend.
//
// Returns ErrNominalCount when no combination reaches the exact amount.
func (g *NominalGroup) MakeChange(amount Amount, tendered []Nominal, strategy ExpendStrategy) ([]Nominal, error) {
	if amount == 0 {
		return nil, nil
	}
	scratch := g.Copy()
	scratch.Deposit(tendered)
	strategy.Reset(scratch)
	result := make([]Nominal, 0, len(scratch.values))
	for amount > 0 {
		nominal, err := strategy.ExpendOne(scratch, amount)
		if err != nil {
			return nil, errors.Annotatef(err, "MakeChange remaining=%d", amount)
		}
		if nominal == 0 {
			panic("ExpendStrategy returned nominal 0 without error")
		}
		amount -= Amount(nominal)
		result = append(result, nominal)
	}
	return result, nil
}

// common code from strategies
func expendOneOrdered(from *NominalGroup, order []Nominal, max Amount) (Nominal, error) {
	if len(order) < len(from.values) {
		panic("expendOneOrdered order must include all nominals")
	}
	for _, n := range order {
		if Amount(n) <= max && from.values[n] > 0 {
			from.values[n]--
			return n, nil
		}
	}
	return 0, ErrNominalCount
}

type ngOrderSortElemFunc func(Nominal, uint) Nominal

func (g *NominalGroup) order(sortElemFunc ngOrderSortElemFunc) []Nominal {
	order := make([]Nominal, 0, len(g.values))
	for n := range g.values {
		order = append(order, n)
	}
	sort.Slice(order, func(i, j int) bool {
		ni, nj := order[i], order[j]
		return sortElemFunc(ni, g.values[ni]) > sortElemFunc(nj, g.values[nj])
	})
	return order
}

func ngOrderSortElemNominal(n Nominal, c uint) Nominal { return n }
func ngOrderSortElemCount(n Nominal, c uint) Nominal   { return Nominal(c) }

// ExpendStrategy picks which nominal leaves the pool next while making
// change. The default greedy highest-first order is correct for the fixed
// denomination set, where every nominal divides the larger ones evenly. A
// future set breaking that property requires replacing the greedy strategy
// with a dynamic-programming minimum-coin solver behind this interface.
type ExpendStrategy interface {
	Reset(from *NominalGroup)
	ExpendOne(from *NominalGroup, max Amount) (Nominal, error)
}

type ExpendGenericOrder struct {
	order        []Nominal
	SortElemFunc ngOrderSortElemFunc
}

func (s *ExpendGenericOrder) Reset(from *NominalGroup) {
	s.order = from.order(s.SortElemFunc)
}

func (s *ExpendGenericOrder) ExpendOne(from *NominalGroup, max Amount) (Nominal, error) {
	return expendOneOrdered(from, s.order, max)
}

// NewExpendLeastCount pays with the largest nominal that still fits,
// minimizing the number of units handed out.
func NewExpendLeastCount() ExpendStrategy {
	return &ExpendGenericOrder{SortElemFunc: ngOrderSortElemNominal}
}

// NewExpendMostAvailable drains whichever nominal the pool holds most of.
func NewExpendMostAvailable() ExpendStrategy {
	return &ExpendGenericOrder{SortElemFunc: ngOrderSortElemCount}
}
