package console

import (
	"context"
	"fmt"
	"io"
	"strings"
	"unicode/utf8"

	"github.com/fatih/color"

	"github.com/frotalog/frotalog/internal/checkout"
)

// OverrideConfirm returns the prompt used when the driver is already out.
// Proceeding requires typing "sim"; anything else is a no.
func (c *Console) OverrideConfirm() checkout.UserPrompt {
	return checkout.PromptFunc(func(ctx context.Context, p checkout.Prompt) (bool, error) {
		c.printPrompt(p, c.warning)
		fmt.Fprint(c.out, `Digite "sim" para continuar: `)
		ans, err := c.readLine(ctx)
		if err != nil {
			return false, err
		}
		return strings.EqualFold(ans, "sim"), nil
	})
}

// FinalConfirm returns the last yes/no prompt before a departure is written.
// The default is no.
func (c *Console) FinalConfirm() checkout.UserPrompt {
	return checkout.PromptFunc(func(ctx context.Context, p checkout.Prompt) (bool, error) {
		c.printPrompt(p, c.title)
		fmt.Fprint(c.out, "Confirmar? [s/N]: ")
		ans, err := c.readLine(ctx)
		if err != nil {
			return false, err
		}
		return isYes(ans), nil
	})
}

// YesNo asks a free-form yes/no question. The default is no.
func (c *Console) YesNo(ctx context.Context, question string) bool {
	fmt.Fprintf(c.out, "%s [s/N]: ", question)
	ans, err := c.readLine(ctx)
	return err == nil && isYes(ans)
}

func (c *Console) printPrompt(p checkout.Prompt, heading *color.Color) {
	fmt.Fprintln(c.out)
	heading.Fprintln(c.out, p.Title)
	if p.Message != "" {
		fmt.Fprintln(c.out, p.Message)
	}
	if len(p.Fields) > 0 {
		fmt.Fprintln(c.out)
		printFields(c.out, p.Fields)
	}
}

// printFields aligns labels in one column. Blank values print as "-".
func printFields(w io.Writer, fields []checkout.Field) {
	width := 0
	for _, f := range fields {
		width = max(width, utf8.RuneCountInString(f.Label))
	}
	for _, f := range fields {
		v := f.Value
		if strings.TrimSpace(v) == "" {
			v = "-"
		}
		pad := width - utf8.RuneCountInString(f.Label)
		fmt.Fprintf(w, "  %s:%s %s\n", f.Label, strings.Repeat(" ", pad), v)
	}
}

func isYes(ans string) bool {
	switch strings.ToLower(ans) {
	case "s", "sim", "y", "yes":
		return true
	}
	return false
}
