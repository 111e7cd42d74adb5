// Package toast is the console's transient-alert surface, the terminal
// counterpart of a toast stack: success and error lines with an optional
// second description line.
package toast

import (
	"fmt"
	"io"
	"os"
	"strings"
	"sync"

	"github.com/fatih/color"
)

func init() {
	// Force color output even when not connected to a TTY.
	// Users can disable with the NO_COLOR environment variable.
	if os.Getenv("NO_COLOR") == "" {
		color.NoColor = false
	}
}

var (
	green  = color.New(color.FgGreen)
	yellow = color.New(color.FgYellow)
	red    = color.New(color.FgRed, color.Bold)
)

// Emitter receives transient user-facing alerts. The notification channel and
// the import controller publish through it so tests can capture alerts.
type Emitter interface {
	Success(message, description string)
	Error(message, description string)
}

// Console writes toasts to a terminal.
type Console struct {
	mu  sync.Mutex
	out io.Writer
}

// NewConsole returns a console emitter. A nil writer defaults to stdout.
func NewConsole(out io.Writer) *Console {
	if out == nil {
		out = os.Stdout
	}
	return &Console{out: out}
}

// Success prints a green check line plus an indented description.
func (c *Console) Success(message, description string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	green.Fprintf(c.out, "✓ %s\n", message)
	if description != "" {
		fmt.Fprintf(c.out, "  %s\n", description)
	}
}

// Error prints a red cross line plus an indented description.
func (c *Console) Error(message, description string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	red.Fprintf(c.out, "✗ %s\n", message)
	if description != "" {
		fmt.Fprintf(c.out, "  %s\n", description)
	}
}

// Warning prints a standalone yellow warning line.
func (c *Console) Warning(format string, a ...interface{}) {
	c.mu.Lock()
	defer c.mu.Unlock()
	msg := fmt.Sprintf(format, a...)
	if !strings.HasPrefix(msg, "⚠") {
		msg = "⚠ " + msg
	}
	yellow.Fprintln(c.out, msg)
}

// Info prints an uncolored informational line.
func (c *Console) Info(format string, a ...interface{}) {
	c.mu.Lock()
	defer c.mu.Unlock()
	fmt.Fprintf(c.out, format+"\n", a...)
}
