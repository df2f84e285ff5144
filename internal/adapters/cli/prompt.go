package cli

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strings"
)

// ErrAbandoned is returned when a field was rejected too many times.
var ErrAbandoned = errors.New("maximum attempts reached")

// PromptState is a step of the bounded retry loop.
type PromptState int

const (
	StatePrompting PromptState = iota
	StateInvalid
	StateAbandoned
	StateAccepted
)

func (s PromptState) String() string {
	switch s {
	case StatePrompting:
		return "prompting"
	case StateInvalid:
		return "invalid"
	case StateAbandoned:
		return "abandoned"
	case StateAccepted:
		return "accepted"
	default:
		return fmt.Sprintf("PromptState(%d)", int(s))
	}
}

// Field describes one value to read from the user.
type Field struct {
	// Name identifies the field in metrics, e.g. "salary".
	Name     string
	Prompt   string
	Validate func(string) bool
	ErrorMsg string
	// AllowEmpty accepts a blank answer without running Validate.
	AllowEmpty bool
}

// Prompter reads validated answers line by line.
type Prompter struct {
	in          *bufio.Reader
	out         io.Writer
	maxAttempts int

	// OnInvalid and OnAbandon are optional hooks, called with the field name.
	OnInvalid func(field string)
	OnAbandon func(field string)
}

// NewPrompter creates a prompter allowing maxAttempts answers per field.
func NewPrompter(in io.Reader, out io.Writer, maxAttempts int) *Prompter {
	if maxAttempts < 1 {
		maxAttempts = 1
	}
	return &Prompter{
		in:          bufio.NewReader(in),
		out:         out,
		maxAttempts: maxAttempts,
	}
}

// Ask runs the retry loop for f. It returns ErrAbandoned once the attempts
// are used up, or io.EOF when input ends.
func (p *Prompter) Ask(f Field) (string, error) {
	var (
		value    string
		attempts int
	)

	state := StatePrompting
	for {
		switch state {
		case StatePrompting:
			fmt.Fprint(p.out, f.Prompt)
			line, err := p.ReadLine()
			if err != nil {
				return "", err
			}
			value = line
			if (f.AllowEmpty && value == "") || f.Validate == nil || f.Validate(value) {
				state = StateAccepted
			} else {
				state = StateInvalid
			}

		case StateInvalid:
			fmt.Fprintln(p.out, f.ErrorMsg)
			if p.OnInvalid != nil {
				p.OnInvalid(f.Name)
			}
			attempts++
			if attempts >= p.maxAttempts {
				state = StateAbandoned
			} else {
				state = StatePrompting
			}

		case StateAbandoned:
			fmt.Fprintln(p.out, "❌ Maximum attempts reached. Returning to main menu.")
			if p.OnAbandon != nil {
				p.OnAbandon(f.Name)
			}
			return "", ErrAbandoned

		case StateAccepted:
			return value, nil
		}
	}
}

// ReadLine returns the next trimmed input line. A final line without a
// newline is still returned; io.EOF only comes once nothing is left.
func (p *Prompter) ReadLine() (string, error) {
	line, err := p.in.ReadString('\n')
	if err != nil {
		if errors.Is(err, io.EOF) && line != "" {
			return strings.TrimSpace(line), nil
		}
		return "", err
	}
	return strings.TrimSpace(line), nil
}
