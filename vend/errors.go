package vend

import "github.com/juju/errors"

// Per-attempt rejection reasons. All recoverable: a rejected attempt leaves
// both ledgers untouched and the next attempt starts clean.
var (
	ErrInvalidPayment     = errors.New("invalid payment")
	ErrNoAvailableProduct = errors.New("no purchasable products")
	ErrInvalidSelection   = errors.New("invalid selection")
	ErrCancelled          = errors.New("cancelled")
	ErrInsufficientChange = errors.New("insufficient change")
)
