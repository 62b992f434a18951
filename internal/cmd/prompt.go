package cmd

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"golang.org/x/term"
)

// Prompter collects answers interactively, showing saved defaults
type Prompter struct {
	in  *bufio.Reader
	out io.Writer
}

// NewPrompter reads from stdin and writes to stdout
func NewPrompter() *Prompter {
	return &Prompter{in: bufio.NewReader(os.Stdin), out: os.Stdout}
}

// NewPrompterForTesting reads and writes the given streams
func NewPrompterForTesting(in io.Reader, out io.Writer) *Prompter {
	return &Prompter{in: bufio.NewReader(in), out: out}
}

// String asks for a line of input; an empty answer takes the default
func (p *Prompter) String(label, def string) (string, error) {
	if def != "" {
		fmt.Fprintf(p.out, "? %s [%s]: ", label, def)
	} else {
		fmt.Fprintf(p.out, "? %s: ", label)
	}

	input, err := p.in.ReadString('\n')
	if err != nil && input == "" {
		return "", fmt.Errorf("failed to read input: %w", err)
	}

	input = strings.TrimSpace(input)
	if input == "" {
		return def, nil
	}
	return input, nil
}

// Secret asks for a value without echoing it when stdin is a terminal
func (p *Prompter) Secret(label string) (string, error) {
	fmt.Fprintf(p.out, "? %s: ", label)

	fd := int(os.Stdin.Fd())
	if term.IsTerminal(fd) {
		value, err := term.ReadPassword(fd)
		fmt.Fprintln(p.out)
		if err != nil {
			return "", fmt.Errorf("failed to read secret: %w", err)
		}
		return strings.TrimSpace(string(value)), nil
	}

	// Piped input (tests, CI): read a plain line
	input, err := p.in.ReadString('\n')
	if err != nil && input == "" {
		return "", fmt.Errorf("failed to read secret: %w", err)
	}
	return strings.TrimSpace(input), nil
}

// Select displays numbered options and returns the chosen index
func (p *Prompter) Select(label string, options []string, def int) (int, error) {
	fmt.Fprintln(p.out)
	fmt.Fprintln(p.out, label)
	for i, opt := range options {
		fmt.Fprintf(p.out, "  [%d] %s\n", i+1, opt)
	}

	answer, err := p.String("Select", strconv.Itoa(def+1))
	if err != nil {
		return 0, err
	}

	choice, err := strconv.Atoi(answer)
	if err != nil || choice < 1 || choice > len(options) {
		return 0, fmt.Errorf("select a number between 1 and %d", len(options))
	}
	return choice - 1, nil
}

// IsInteractive returns true if stdin is a terminal and --yes is not set
func IsInteractive() bool {
	if IsYesMode() {
		return false
	}
	return term.IsTerminal(int(os.Stdin.Fd()))
}
