// Package inventory tracks products on the shelf: price and remaining
// quantity per product, with additive restocking.
package inventory

import (
	"fmt"

	"github.com/juju/errors"

	"github.com/vendtx/vendtx/currency"
	"github.com/vendtx/vendtx/payment"
)

var ErrPriceConflict = errors.New("product already loaded with different price")

type Product struct {
	Name     string
	Price    currency.Amount
	Quantity uint
}

func (p Product) String() string {
	return fmt.Sprintf("product=%s price=%d quantity=%d", p.Name, p.Price, p.Quantity)
}

// Ledger maps product name to price and remaining quantity. Insertion order
// is stable so menus and tests see a deterministic listing.
type Ledger struct {
	order  []string
	byName map[string]*Product
}

func NewLedger() *Ledger {
	return &Ledger{byName: make(map[string]*Product)}
}

// Load merges entries by product name, summing quantities. Loading the same
// product again restocks it; a repeat with a different price is a refill
// mistake and fails without touching that entry.
func (l *Ledger) Load(entries ...Product) error {
	for _, e := range entries {
		if existing, ok := l.byName[e.Name]; ok {
			if existing.Price != e.Price {
				return errors.Annotatef(ErrPriceConflict, "product=%s old=%d new=%d", e.Name, existing.Price, e.Price)
			}
			existing.Quantity += e.Quantity
			continue
		}
		p := e
		l.byName[p.Name] = &p
		l.order = append(l.order, p.Name)
	}
	return nil
}

// Price reports a product's price. ok is false for an unknown product, so a
// genuinely free item stays distinguishable from a missing one.
func (l *Ledger) Price(name string) (currency.Amount, bool) {
	p, ok := l.byName[name]
	if !ok {
		return 0, false
	}
	return p.Price, true
}

// Available returns in-stock products in insertion order. Card is assumed to
// cover any price; cash further filters to price within the tendered sum.
func (l *Ledger) Available(method payment.Method, cash currency.Amount) []Product {
	result := make([]Product, 0, len(l.order))
	for _, name := range l.order {
		p := l.byName[name]
		if p.Quantity == 0 {
			continue
		}
		if method != payment.MethodCard && p.Price > cash {
			continue
		}
		result = append(result, *p)
	}
	return result
}

// Decrement takes one unit of product off the shelf. The caller has already
// confirmed availability; an unknown or empty product is left untouched.
func (l *Ledger) Decrement(name string) {
	if p, ok := l.byName[name]; ok && p.Quantity > 0 {
		p.Quantity--
	}
}

// Snapshot copies the whole ledger in insertion order.
func (l *Ledger) Snapshot() []Product {
	result := make([]Product, 0, len(l.order))
	for _, name := range l.order {
		result = append(result, *l.byName[name])
	}
	return result
}
