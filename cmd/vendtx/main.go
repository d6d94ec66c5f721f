package main

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/c-bata/go-prompt"
	"github.com/spf13/cobra"
	alive "github.com/temoto/alive/v2"
	"go.uber.org/zap"

	"github.com/vendtx/vendtx/currency"
	"github.com/vendtx/vendtx/internal/cli"
	"github.com/vendtx/vendtx/inventory"
	"github.com/vendtx/vendtx/payment"
	"github.com/vendtx/vendtx/state"
	"github.com/vendtx/vendtx/vend"
)

const usage = `commands:
  cash <unit> [unit...]  start a cash purchase, e.g. cash 1000 500 100
  card [token]           start a card purchase (default token "card")
  stock                  show inventory ledger
  change                 show change ledger
  help                   this text
  exit                   quit`

func main() {
	if err := newRootCommand().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "vendtx: %v\n", err)
		os.Exit(1)
	}
}

func newRootCommand() *cobra.Command {
	var configPath string
	var debug bool
	cmd := &cobra.Command{
		Use:           "vendtx",
		Short:         "Vending machine transaction console",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(configPath, debug)
		},
	}
	cmd.Flags().StringVarP(&configPath, "config", "c", "vendtx.hcl", "path to HCL config")
	cmd.Flags().BoolVar(&debug, "debug", false, "log state transitions")
	return cmd
}

func run(configPath string, debug bool) error {
	zcfg := zap.NewProductionConfig()
	if debug {
		zcfg = zap.NewDevelopmentConfig()
	}
	logger, err := zcfg.Build()
	if err != nil {
		return err
	}
	defer func() { _ = logger.Sync() }()

	cfg, err := state.ReadFile(configPath)
	if err != nil {
		return err
	}
	machine, err := state.NewMachine(logger.Sugar(), cfg, payment.EvenMinute{})
	if err != nil {
		return err
	}

	a := alive.NewAlive()
	loop := cli.NewLoop(a)
	console := &console{machine: machine, cfg: cfg, loop: loop, alive: a}

	fmt.Println(cfg.UI.Front.MsgIntro)
	loop.Run(console.exec, console.complete)
	a.Stop()
	a.Wait()
	return nil
}

type console struct {
	machine *vend.Machine
	cfg     *state.Config
	loop    *cli.Loop
	alive   *alive.Alive
}

func (c *console) exec(line string) {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return
	}
	switch fields[0] {
	case "help":
		fmt.Println(usage)
	case "exit", "quit":
		c.alive.Stop()
		os.Exit(0)
	case "stock":
		for _, p := range c.machine.Products() {
			fmt.Println(p.String())
		}
	case "change":
		fmt.Println(c.machine.ChangeCopy().String())
	case "cash":
		units, err := parseUnits(fields[1:])
		if err != nil {
			fmt.Println(err)
			return
		}
		printResult(c.machine.PurchaseWithCash(units, c.choose))
	case "card":
		token := "card"
		if len(fields) > 1 {
			token = fields[1]
		}
		printResult(c.machine.PurchaseWithCard(token, c.choose))
	default:
		fmt.Printf("unknown command %q, try help\n", fields[0])
	}
}

func (c *console) complete(d prompt.Document) []prompt.Suggest {
	suggests := []prompt.Suggest{
		{Text: "cash", Description: "pay with cash units"},
		{Text: "card", Description: "pay with card token"},
		{Text: "stock", Description: "inventory ledger"},
		{Text: "change", Description: "change ledger"},
		{Text: "help"},
		{Text: "exit"},
	}
	return prompt.FilterHasPrefix(suggests, d.GetWordBeforeCursor(), true)
}

func (c *console) choose(candidates []inventory.Product) string {
	names := make([]string, 0, len(candidates)+1)
	for _, p := range candidates {
		fmt.Printf("  %s (%d)\n", p.Name, p.Price)
		names = append(names, p.Name)
	}
	names = append(names, vend.Cancel)
	fmt.Printf("%s [ %s ]\n", c.cfg.UI.Front.MsgSelect, strings.Join(names, ", "))
	return c.loop.Input("select> ", func(d prompt.Document) []prompt.Suggest {
		suggests := make([]prompt.Suggest, 0, len(names))
		for _, n := range names {
			suggests = append(suggests, prompt.Suggest{Text: n})
		}
		return prompt.FilterHasPrefix(suggests, d.GetWordBeforeCursor(), true)
	})
}

func parseUnits(args []string) ([]currency.Nominal, error) {
	if len(args) == 0 {
		return nil, fmt.Errorf("cash needs at least one unit, e.g. cash 1000")
	}
	units := make([]currency.Nominal, 0, len(args))
	for _, arg := range args {
		v, err := strconv.Atoi(arg)
		if err != nil || v <= 0 {
			return nil, fmt.Errorf("bad cash unit %q", arg)
		}
		units = append(units, currency.Nominal(v))
	}
	return units, nil
}

func printResult(r vend.Result) {
	fmt.Printf("%s: %s\n", r.Outcome.String(), r.Message)
	if r.Outcome == vend.OutcomeDispensed && r.Product != "" {
		fmt.Printf("  product=%s price=%d\n", r.Product, r.Price)
	}
	if len(r.Change) > 0 {
		fmt.Printf("  returned=%s\n", joinNominals(r.Change))
	}
	if len(r.InvalidCash) > 0 {
		fmt.Printf("  invalid cash returned=%s\n", joinNominals(r.InvalidCash))
	}
}

func joinNominals(units []currency.Nominal) string {
	parts := make([]string, 0, len(units))
	for _, n := range units {
		parts = append(parts, strconv.Itoa(int(n)))
	}
	return strings.Join(parts, ",")
}
