// Package prompt asks the user for free-text answers.
//
// On a terminal the readline library provides line editing. When input is
// piped a plain line reader is used so scripts can feed the answers.
package prompt

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/chzyer/readline"
	"golang.org/x/term"
)

// ErrAborted is returned when the user interrupts a prompt or input ends
var ErrAborted = errors.New("input aborted")

// Prompter asks a single question and returns the trimmed answer
type Prompter interface {
	Ask(question string) (string, error)
	Close() error
}

// New returns a readline prompter when in is a terminal and a line
// prompter otherwise. Questions are printed to out.
func New(in io.Reader, out io.Writer) (Prompter, error) {
	if f, ok := in.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		return NewReadline(f, out)
	}
	return NewLinePrompter(in, out), nil
}

// ReadlinePrompter prompts with line editing on a terminal
type ReadlinePrompter struct {
	rl *readline.Instance
}

// NewReadline creates a prompter on the terminal in
func NewReadline(in *os.File, out io.Writer) (*ReadlinePrompter, error) {
	rl, err := readline.NewEx(&readline.Config{
		Stdin:                  in,
		Stdout:                 out,
		DisableAutoSaveHistory: true,
		HistoryLimit:           -1,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to initialize readline: %w", err)
	}
	return &ReadlinePrompter{rl: rl}, nil
}

// Ask implements Prompter
func (p *ReadlinePrompter) Ask(question string) (string, error) {
	p.rl.SetPrompt(question)
	line, err := p.rl.Readline()
	if errors.Is(err, readline.ErrInterrupt) || errors.Is(err, io.EOF) {
		return "", ErrAborted
	}
	if err != nil {
		return "", fmt.Errorf("failed to read input: %w", err)
	}
	return strings.TrimSpace(line), nil
}

// Close implements Prompter
func (p *ReadlinePrompter) Close() error {
	return p.rl.Close()
}

// LinePrompter reads answers line by line from any reader
type LinePrompter struct {
	in  *bufio.Reader
	out io.Writer
}

// NewLinePrompter creates a prompter reading from r and printing questions to w
func NewLinePrompter(r io.Reader, w io.Writer) *LinePrompter {
	return &LinePrompter{in: bufio.NewReader(r), out: w}
}

// Ask implements Prompter. A final line without a trailing newline is accepted.
func (p *LinePrompter) Ask(question string) (string, error) {
	fmt.Fprint(p.out, question)
	line, err := p.in.ReadString('\n')
	if err != nil {
		if errors.Is(err, io.EOF) && line != "" {
			return strings.TrimSpace(line), nil
		}
		if errors.Is(err, io.EOF) {
			return "", ErrAborted
		}
		return "", fmt.Errorf("failed to read input: %w", err)
	}
	return strings.TrimSpace(line), nil
}

// Close implements Prompter
func (p *LinePrompter) Close() error {
	return nil
}
