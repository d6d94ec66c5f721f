package vend

// State of one purchase attempt. Every attempt walks the same path:
// AwaitingPayment -> ValidatingPayment -> SelectingProduct -> Settling ->
// Dispensed|Rejected. Nothing carries over between attempts.
type State uint32

const (
	StateAwaitingPayment State = iota
	StateValidatingPayment
	StateSelectingProduct
	StateSettling
	StateDispensed
	StateRejected
)

func (s State) String() string {
	switch s {
	case StateAwaitingPayment:
		return "AwaitingPayment"
	case StateValidatingPayment:
		return "ValidatingPayment"
	case StateSelectingProduct:
		return "SelectingProduct"
	case StateSettling:
		return "Settling"
	case StateDispensed:
		return "Dispensed"
	case StateRejected:
		return "Rejected"
	}
	return "unknown"
}

func (s State) terminal() bool { return s == StateDispensed || s == StateRejected }

type Outcome uint8

const (
	OutcomeRejected Outcome = iota
	OutcomeDispensed
)

func (o Outcome) String() string {
	if o == OutcomeDispensed {
		return "Dispensed"
	}
	return "Rejected"
}
