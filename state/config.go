// Package state reads the machine configuration: product and change presets,
// accepted card tokens and front messages.
package state

import (
	"os"
	"strconv"

	"github.com/hashicorp/hcl"
	"github.com/juju/errors"
	"go.uber.org/zap"

	"github.com/vendtx/vendtx/currency"
	"github.com/vendtx/vendtx/inventory"
	"github.com/vendtx/vendtx/payment"
	"github.com/vendtx/vendtx/vend"
)

type Config struct {
	Inventory struct {
		Products []ProductConfig `hcl:"product"`
	}
	Change struct {
		Nominals []NominalConfig `hcl:"nominal"`
	}
	Payment struct {
		AcceptedCards []string `hcl:"accepted_cards"`
	}
	UI struct {
		Front struct {
			MsgIntro  string `hcl:"msg_intro"`
			MsgSelect string `hcl:"msg_select"`
		}
	}
}

type ProductConfig struct {
	Name     string `hcl:"name,key"`
	Price    int    `hcl:"price"`
	Quantity int    `hcl:"quantity"`
}

type NominalConfig struct {
	// nominal value doubles as the block key, e.g. `nominal "500" { ... }`
	Nominal  string `hcl:"nominal,key"`
	Quantity int    `hcl:"quantity"`
}

// ReadConfig parses HCL bytes. Missing front messages get defaults.
func ReadConfig(b []byte) (*Config, error) {
	c := &Config{}
	if err := hcl.Unmarshal(b, c); err != nil {
		return nil, errors.Annotate(err, "config parse")
	}
	if c.UI.Front.MsgIntro == "" {
		c.UI.Front.MsgIntro = "welcome, insert cash or card"
	}
	if c.UI.Front.MsgSelect == "" {
		c.UI.Front.MsgSelect = "pick one of"
	}
	if len(c.Payment.AcceptedCards) == 0 {
		c.Payment.AcceptedCards = []string{"card"}
	}
	return c, nil
}

func ReadFile(path string) (*Config, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Annotatef(err, "config path=%s", path)
	}
	return ReadConfig(b)
}

// NewMachine builds a vending machine from config presets. Loading is
// additive, so applying another config to the same machine via
// LoadInventory/LoadChange restocks it.
func NewMachine(log *zap.SugaredLogger, c *Config, auth payment.Authorizer) (*vend.Machine, error) {
	inv := inventory.NewLedger()
	change := currency.NewNominalGroup(currency.Denominations)
	validator := payment.NewValidator(currency.Denominations, c.Payment.AcceptedCards)
	m := vend.New(inv, change, validator, auth, vend.WithLogger(log))

	for _, p := range c.Inventory.Products {
		if p.Price < 0 || p.Quantity < 0 {
			return nil, errors.Errorf("config product=%s negative price or quantity", p.Name)
		}
		err := m.LoadInventory(inventory.Product{
			Name:     p.Name,
			Price:    currency.Amount(p.Price),
			Quantity: uint(p.Quantity),
		})
		if err != nil {
			return nil, errors.Annotatef(err, "config product=%s", p.Name)
		}
	}
	for _, n := range c.Change.Nominals {
		value, err := strconv.Atoi(n.Nominal)
		if err != nil || value <= 0 || n.Quantity < 0 {
			return nil, errors.Errorf("config nominal=%s quantity=%d is invalid", n.Nominal, n.Quantity)
		}
		if err := m.LoadChange(currency.Nominal(value), uint(n.Quantity)); err != nil {
			return nil, errors.Annotatef(err, "config nominal=%s", n.Nominal)
		}
	}
	return m, nil
}
