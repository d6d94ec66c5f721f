// Package payment classifies tendered cash and card tokens, and defines the
// card authorization boundary.
package payment

import (
	"time"

	"github.com/juju/errors"

	"github.com/vendtx/vendtx/currency"
)

type Method string

const (
	MethodCash Method = "cash"
	MethodCard Method = "card"
)

var ErrCardDeclined = errors.New("card declined")

// Validator checks tendered cash against the recognized denomination set and
// card tokens against the accepted list. It holds no per-attempt state.
type Validator struct {
	nominals map[currency.Nominal]struct{}
	cards    map[string]struct{}
}

func NewValidator(denominations []currency.Nominal, acceptedCards []string) *Validator {
	v := &Validator{
		nominals: make(map[currency.Nominal]struct{}, len(denominations)),
		cards:    make(map[string]struct{}, len(acceptedCards)),
	}
	for _, n := range denominations {
		v.nominals[n] = struct{}{}
	}
	for _, c := range acceptedCards {
		v.cards[c] = struct{}{}
	}
	return v
}

// PartitionCash splits units into recognized and rejected, preserving input
// order. Rejected units never gain purchasing power and go back to the buyer.
func (v *Validator) PartitionCash(units []currency.Nominal) (valid, invalid []currency.Nominal) {
	for _, n := range units {
		if _, ok := v.nominals[n]; ok {
			valid = append(valid, n)
		} else {
			invalid = append(invalid, n)
		}
	}
	return valid, invalid
}

func (v *Validator) CardAccepted(token string) bool {
	_, ok := v.cards[token]
	return ok
}

// Authorizer decides a pending card charge. It is injected into the machine
// so tests and callers control the outcome.
type Authorizer interface {
	Authorize(token string) error
}

// AuthorizerFunc adapts a plain function to Authorizer.
type AuthorizerFunc func(token string) error

func (f AuthorizerFunc) Authorize(token string) error { return f(token) }

// EvenMinute approves a charge only while the wall-clock minute is even, the
// reference machine's stand-in for a real processor. Now is injectable so
// tests can pin the clock.
type EvenMinute struct {
	Now func() time.Time
}

func (a EvenMinute) Authorize(token string) error {
	now := time.Now
	if a.Now != nil {
		now = a.Now
	}
	if now().Minute()%2 == 0 {
		return nil
	}
	return errors.Annotatef(ErrCardDeclined, "token=%s", token)
}
