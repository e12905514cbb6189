package cmd

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"fbrportal/internal/catalog"
)

// prompter reads answers from the command's stdin.
type prompter struct {
	in  *bufio.Reader
	out io.Writer
}

func newPrompter(cmd *cobra.Command) *prompter {
	return &prompter{in: bufio.NewReader(cmd.InOrStdin()), out: cmd.ErrOrStderr()}
}

// Line asks label and returns the trimmed answer.
func (p *prompter) Line(label string) (string, error) {
	fmt.Fprintf(p.out, "%s: ", label)
	line, err := p.in.ReadString('\n')
	if err != nil && (err != io.EOF || line == "") {
		return "", fmt.Errorf("read %s: %w", strings.ToLower(label), err)
	}
	return strings.TrimSpace(line), nil
}

// valueOr returns value, or asks label when it is empty.
func (p *prompter) valueOr(value, label string) (string, error) {
	if value != "" {
		return value, nil
	}
	return p.Line(label)
}

// choose lists labels and returns the picked index. An empty answer or EOF
// cancels.
func (p *prompter) choose(title string, labels []string) (int, bool) {
	fmt.Fprintf(p.out, "%s:\n", title)
	for i, l := range labels {
		fmt.Fprintf(p.out, "  %d) %s\n", i+1, l)
	}
	for {
		answer, err := p.Line("Choose")
		if err != nil || answer == "" {
			return 0, false
		}
		n, err := strconv.Atoi(answer)
		if err == nil && n >= 1 && n <= len(labels) {
			return n - 1, true
		}
		fmt.Fprintf(p.out, "Enter a number between 1 and %d\n", len(labels))
	}
}

// stdinChooser asks the user to pick among several rates, SROs or SRO items.
type stdinChooser struct {
	p *prompter
}

func (c stdinChooser) ChooseRate(_ context.Context, options []catalog.Rate) (catalog.Rate, bool) {
	labels := make([]string, len(options))
	for i, o := range options {
		labels[i] = o.Description
	}
	i, ok := c.p.choose("Select a rate", labels)
	if !ok {
		return catalog.Rate{}, false
	}
	return options[i], true
}

func (c stdinChooser) ChooseSRO(_ context.Context, options []catalog.SRO) (catalog.SRO, bool) {
	labels := make([]string, len(options))
	for i, o := range options {
		labels[i] = o.Description
	}
	i, ok := c.p.choose("Select an SRO schedule", labels)
	if !ok {
		return catalog.SRO{}, false
	}
	return options[i], true
}

func (c stdinChooser) ChooseSROItem(_ context.Context, options []catalog.SROItem) (catalog.SROItem, bool) {
	labels := make([]string, len(options))
	for i, o := range options {
		labels[i] = o.Description
	}
	i, ok := c.p.choose("Select an SRO item", labels)
	if !ok {
		return catalog.SROItem{}, false
	}
	return options[i], true
}
