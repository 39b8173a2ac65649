// Package console is the terminal host of the checkout protocol. It asks the
// operator for form fields and confirmations on an input stream, and prints
// prompts, notices and the in-progress table on an output stream.
package console

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/fatih/color"
	"github.com/google/uuid"
)

// Console reads operator answers line by line. A Console is shared by the
// prompts, the notifier, the highlighter and the board of one session.
type Console struct {
	in  *bufio.Reader
	out io.Writer

	mu          sync.Mutex
	highlighted uuid.UUID

	title   *color.Color
	success *color.Color
	warning *color.Color
	failure *color.Color
	mark    *color.Color
}

// Option customizes a Console.
type Option func(*Console)

// WithoutColor disables ANSI colors regardless of the terminal.
func WithoutColor() Option {
	return func(c *Console) {
		for _, col := range []*color.Color{c.title, c.success, c.warning, c.failure, c.mark} {
			col.DisableColor()
		}
	}
}

// New builds a Console reading from in and writing to out.
func New(in io.Reader, out io.Writer, opts ...Option) *Console {
	c := &Console{
		in:      bufio.NewReader(in),
		out:     out,
		title:   color.New(color.Bold),
		success: color.New(color.FgGreen),
		warning: color.New(color.FgYellow),
		failure: color.New(color.FgRed, color.Bold),
		mark:    color.New(color.FgRed, color.Bold),
	}
	for _, o := range opts {
		o(c)
	}
	return c
}

// Ask prints label and reads one answer. A blank answer yields def.
func (c *Console) Ask(ctx context.Context, label, def string) (string, error) {
	if def != "" {
		fmt.Fprintf(c.out, "%s [%s]: ", label, def)
	} else {
		fmt.Fprintf(c.out, "%s: ", label)
	}
	ans, err := c.readLine(ctx)
	if err != nil {
		return "", err
	}
	if ans == "" {
		return def, nil
	}
	return ans, nil
}

// Println writes one line to the output.
func (c *Console) Println(a ...any) {
	fmt.Fprintln(c.out, a...)
}

// readLine returns the next trimmed input line. The read itself cannot be
// interrupted; ctx is checked before it starts.
func (c *Console) readLine(ctx context.Context) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	line, err := c.in.ReadString('\n')
	if err != nil && (err != io.EOF || line == "") {
		return "", fmt.Errorf("console.Console.readLine: %w", err)
	}
	return strings.TrimSpace(line), nil
}
