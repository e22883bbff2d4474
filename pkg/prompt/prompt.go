// Package prompt separates operator interaction from the lifecycle logic.
// The controller asks questions through interfaces so non-interactive runs
// and tests can supply answers programmatically.
package prompt

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"golang.org/x/term"
)

// Confirmer answers yes/no questions.
type Confirmer interface {
	Confirm(question string) (bool, error)
}

// CredentialProvider supplies secrets.
type CredentialProvider interface {
	Password(label string) (string, error)
}

// Chooser picks one option from a closed set. An empty result with a nil
// error means the operator declined or gave an unrecognized answer.
type Chooser interface {
	Choose(question string, options []string) (string, error)
}

// Terminal prompts the operator on an interactive terminal.
type Terminal struct {
	in  *bufio.Reader
	out io.Writer
	fd  int
}

// NewTerminal creates a Terminal reading stdin and writing stderr.
func NewTerminal() *Terminal {
	return &Terminal{
		in:  bufio.NewReader(os.Stdin),
		out: os.Stderr,
		fd:  int(os.Stdin.Fd()),
	}
}

// Confirm asks a y/n question. Anything other than y/yes is a decline.
func (t *Terminal) Confirm(question string) (bool, error) {
	fmt.Fprintf(t.out, "%s [y/N]: ", question)
	line, err := t.in.ReadString('\n')
	if err != nil && err != io.EOF {
		return false, fmt.Errorf("failed to read confirmation: %w", err)
	}
	answer := strings.ToLower(strings.TrimSpace(line))
	return answer == "y" || answer == "yes", nil
}

// Password reads a secret without echoing when stdin is a terminal.
func (t *Terminal) Password(label string) (string, error) {
	fmt.Fprintf(t.out, "%s: ", label)
	if term.IsTerminal(t.fd) {
		raw, err := term.ReadPassword(t.fd)
		fmt.Fprintln(t.out)
		if err != nil {
			return "", fmt.Errorf("failed to read password: %w", err)
		}
		return string(raw), nil
	}
	line, err := t.in.ReadString('\n')
	if err != nil && err != io.EOF {
		return "", fmt.Errorf("failed to read password: %w", err)
	}
	return strings.TrimSpace(line), nil
}

// Choose asks for one of the listed options. An unrecognized answer is
// reported as a decline, not an error.
func (t *Terminal) Choose(question string, options []string) (string, error) {
	fmt.Fprintf(t.out, "%s (%s): ", question, strings.Join(options, "/"))
	line, err := t.in.ReadString('\n')
	if err != nil && err != io.EOF {
		return "", fmt.Errorf("failed to read choice: %w", err)
	}
	answer := strings.ToLower(strings.TrimSpace(line))
	for _, opt := range options {
		if answer == opt {
			return opt, nil
		}
	}
	return "", nil
}

// Canned answers prompts programmatically, for --yes runs and tests.
type Canned struct {
	// ConfirmAnswer is returned for every Confirm call.
	ConfirmAnswer bool

	// PasswordValue is returned for every Password call.
	PasswordValue string

	// Choice is returned for every Choose call; empty means decline.
	Choice string
}

func (c *Canned) Confirm(string) (bool, error) { return c.ConfirmAnswer, nil }

func (c *Canned) Password(string) (string, error) { return c.PasswordValue, nil }

func (c *Canned) Choose(string, []string) (string, error) { return c.Choice, nil }
