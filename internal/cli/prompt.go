// Package cli is the interactive console loop: prompt with completion on a
// terminal, plain line batch otherwise.
package cli

import (
	"bufio"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/c-bata/go-prompt"
	"github.com/mattn/go-isatty"
	alive "github.com/temoto/alive/v2"
)

// Loop reads commands from stdin. A single scanner is shared between the
// command loop and Input so batch mode never loses buffered lines.
type Loop struct {
	alive   *alive.Alive
	scanner *bufio.Scanner
	tty     bool
}

func NewLoop(a *alive.Alive) *Loop {
	l := &Loop{
		alive: a,
		tty:   isatty.IsTerminal(os.Stdin.Fd()),
	}
	if !l.tty {
		l.scanner = bufio.NewScanner(os.Stdin)
	}
	return l
}

// Run executes lines until stdin ends or the alive instance stops.
// Signals stop the loop hard; ledger state is in-memory only, nothing to
// flush.
func (l *Loop) Run(exec func(line string), complete func(d prompt.Document) []prompt.Suggest) {
	signalCh := make(chan os.Signal, 1)
	signal.Notify(signalCh,
		syscall.SIGHUP,
		syscall.SIGINT,
		syscall.SIGTERM,
		syscall.SIGQUIT)
	go func() {
		<-signalCh
		l.alive.Stop()
		os.Exit(1)
	}()

	if l.tty {
		prompt.New(exec, complete).Run()
		return
	}
	for l.alive.IsRunning() && l.scanner.Scan() {
		exec(strings.TrimSpace(l.scanner.Text()))
	}
}

// Input asks one synchronous question, used for product selection.
func (l *Loop) Input(query string, complete func(d prompt.Document) []prompt.Suggest) string {
	if l.tty {
		return strings.TrimSpace(prompt.Input(query, complete))
	}
	os.Stdout.WriteString(query)
	if l.scanner.Scan() {
		return strings.TrimSpace(l.scanner.Text())
	}
	return ""
}
