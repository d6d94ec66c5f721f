// Package vend runs purchase attempts: payment validation, product
// selection, settlement and the atomic commit of both ledgers.
package vend

import (
	"github.com/google/uuid"
	"github.com/juju/errors"
	"go.uber.org/zap"

	"github.com/vendtx/vendtx/currency"
	"github.com/vendtx/vendtx/inventory"
	"github.com/vendtx/vendtx/payment"
)

// Cancel is the reserved selection that aborts an attempt.
const Cancel = "cancel"

const (
	msgDispensed        = "enjoy your drink"
	msgInvalidCard      = "this card cannot be used"
	msgNoProducts       = "no purchasable products"
	msgCancelled        = "goodbye"
	msgInvalidSelection = "invalid selection, please try again"
	msgCardDeclined     = "card payment failed"
	msgNoChange         = "not enough change, please pay by card or come back later"
)

// SelectFunc presents in-stock candidates and returns the chosen product
// name, or Cancel. It is called synchronously; no ledger mutation happens
// until it returns.
type SelectFunc func(candidates []inventory.Product) string

// Result is the sole output of one purchase attempt.
type Result struct {
	AttemptID string
	Outcome   Outcome
	Method    payment.Method
	Message   string
	Err       error // nil when dispensed
	Product   string
	Price     currency.Amount
	// Change is the paid-out change on success, or the returned valid cash
	// on rejection. InvalidCash is always handed back separately.
	Change      []currency.Nominal
	InvalidCash []currency.Nominal
}

// Machine owns one inventory ledger and one change ledger and drives single
// purchase attempts to a terminal state. Single-threaded by design:
// concurrent callers would need an attempt-scoped mutex around run.
type Machine struct {
	log       *zap.SugaredLogger
	inventory *inventory.Ledger
	change    *currency.NominalGroup
	validator *payment.Validator
	auth      payment.Authorizer
	expend    currency.ExpendStrategy
}

// Option configures a Machine.
type Option func(*Machine)

func WithLogger(log *zap.SugaredLogger) Option {
	return func(m *Machine) {
		if log != nil {
			m.log = log
		}
	}
}

// WithExpendStrategy overrides the change payout order.
func WithExpendStrategy(s currency.ExpendStrategy) Option {
	return func(m *Machine) { m.expend = s }
}

func New(inv *inventory.Ledger, change *currency.NominalGroup, validator *payment.Validator, auth payment.Authorizer, opts ...Option) *Machine {
	m := &Machine{
		log:       zap.NewNop().Sugar(),
		inventory: inv,
		change:    change,
		validator: validator,
		auth:      auth,
		expend:    currency.NewExpendLeastCount(),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// LoadInventory merges products into the inventory ledger, additive on
// repeat names. Callable any number of times.
func (m *Machine) LoadInventory(entries ...inventory.Product) error {
	return m.inventory.Load(entries...)
}

// LoadChange merges count units of a nominal into the change ledger.
func (m *Machine) LoadChange(nominal currency.Nominal, count uint) error {
	return m.change.Add(nominal, count)
}

// Products returns a snapshot of the inventory ledger.
func (m *Machine) Products() []inventory.Product { return m.inventory.Snapshot() }

// ChangeCopy returns a snapshot of the change ledger.
func (m *Machine) ChangeCopy() *currency.NominalGroup { return m.change.Copy() }

// PurchaseWithCash runs one attempt paid with the given cash units.
func (m *Machine) PurchaseWithCash(units []currency.Nominal, choose SelectFunc) Result {
	s := &session{
		id:       uuid.NewString(),
		method:   payment.MethodCash,
		tendered: units,
	}
	return m.run(s, choose)
}

// PurchaseWithCard runs one attempt paid with the given card token.
func (m *Machine) PurchaseWithCard(token string, choose SelectFunc) Result {
	s := &session{
		id:     uuid.NewString(),
		method: payment.MethodCard,
		card:   token,
	}
	return m.run(s, choose)
}

// session is the transient per-attempt state. Recreated fresh each purchase.
type session struct {
	id         string
	method     payment.Method
	tendered   []currency.Nominal
	card       string
	valid      []currency.Nominal
	invalid    []currency.Nominal
	candidates []inventory.Product
	selection  string
	result     Result
}

func (m *Machine) run(s *session, choose SelectFunc) Result {
	for state := StateAwaitingPayment; ; {
		next := m.enter(s, state, choose)
		m.log.Debugw("vend transition", "attempt", s.id, "from", state.String(), "to", next.String())
		state = next
		if state.terminal() {
			m.log.Infow("vend attempt done",
				"attempt", s.id,
				"method", s.method,
				"outcome", s.result.Outcome.String(),
				"message", s.result.Message)
			return s.result
		}
	}
}

func (m *Machine) enter(s *session, state State, choose SelectFunc) State {
	switch state {
	case StateAwaitingPayment:
		return StateValidatingPayment

	case StateValidatingPayment:
		if s.method == payment.MethodCard {
			if !m.validator.CardAccepted(s.card) {
				return m.reject(s, ErrInvalidPayment, msgInvalidCard, nil, nil)
			}
			return StateSelectingProduct
		}
		s.valid, s.invalid = m.validator.PartitionCash(s.tendered)
		return StateSelectingProduct

	case StateSelectingProduct:
		s.candidates = m.inventory.Available(s.method, currency.Sum(s.valid))
		if len(s.candidates) == 0 {
			return m.reject(s, ErrNoAvailableProduct, msgNoProducts, s.valid, s.invalid)
		}
		// Ledgers are frozen while the caller picks; choose must not reenter
		// the machine.
		s.selection = choose(s.candidates)
		if s.selection == Cancel {
			return m.reject(s, ErrCancelled, msgCancelled, s.valid, s.invalid)
		}
		if !containsProduct(s.candidates, s.selection) {
			return m.reject(s, ErrInvalidSelection, msgInvalidSelection, s.valid, s.invalid)
		}
		return StateSettling

	case StateSettling:
		if s.method == payment.MethodCard {
			return m.settleCard(s)
		}
		return m.settleCash(s)
	}
	panic("vend: enter on terminal state " + state.String())
}

func (m *Machine) settleCard(s *session) State {
	price, ok := m.inventory.Price(s.selection)
	if !ok {
		return m.reject(s, ErrInvalidSelection, msgInvalidSelection, nil, nil)
	}
	if err := m.auth.Authorize(s.card); err != nil {
		return m.reject(s, err, msgCardDeclined, nil, nil)
	}
	m.inventory.Decrement(s.selection)
	s.result = Result{
		AttemptID: s.id,
		Outcome:   OutcomeDispensed,
		Method:    payment.MethodCard,
		Message:   msgDispensed,
		Product:   s.selection,
		Price:     price,
	}
	return StateDispensed
}

func (m *Machine) settleCash(s *session) State {
	// Selection came from candidates, so the product exists and
	// price <= cashSum holds.
	price, _ := m.inventory.Price(s.selection)
	cashSum := currency.Sum(s.valid)
	change, err := m.change.MakeChange(cashSum-price, s.valid, m.expend)
	if err != nil || !currency.ExactChange(cashSum, price, currency.Sum(change)) {
		reason := errors.Annotatef(ErrInsufficientChange, "cash=%d price=%d", cashSum, price)
		return m.reject(s, reason, msgNoChange, s.valid, s.invalid)
	}

	// Both feasibility checks passed: commit everything together.
	m.change.Deposit(s.valid)
	m.change.Spend(change)
	m.inventory.Decrement(s.selection)

	s.result = Result{
		AttemptID:   s.id,
		Outcome:     OutcomeDispensed,
		Method:      payment.MethodCash,
		Message:     msgDispensed,
		Product:     s.selection,
		Price:       price,
		Change:      change,
		InvalidCash: s.invalid,
	}
	return StateDispensed
}

// reject builds the terminal result, handing all tendered cash back.
func (m *Machine) reject(s *session, cause error, msg string, returned, invalid []currency.Nominal) State {
	s.result = Result{
		AttemptID:   s.id,
		Outcome:     OutcomeRejected,
		Method:      s.method,
		Message:     msg,
		Err:         cause,
		Change:      returned,
		InvalidCash: invalid,
	}
	return StateRejected
}

func containsProduct(products []inventory.Product, name string) bool {
	for _, p := range products {
		if p.Name == name {
			return true
		}
	}
	return false
}
