// Package prompt provides interactive CLI prompts for choosing a snapshot
// or container and confirming destructive actions.
package prompt

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/thoreinstein/nixdeck/internal/errors"
)

// Sentinel errors for selection.
var (
	ErrNoChoices          = errors.New("nothing to select from")
	ErrInvalidSelection   = errors.New("invalid selection")
	ErrSelectionCancelled = errors.New("selection cancelled")
)

// Choice is one selectable item.
type Choice struct {
	Name string

	// Detail is shown next to the name, e.g. the creation time.
	Detail string
}

// Selector handles interactive selection prompts.
type Selector struct {
	reader *bufio.Reader
	writer io.Writer
}

// NewSelector creates a new Selector using stdin and stdout.
func NewSelector() *Selector {
	return NewSelectorWithIO(os.Stdin, os.Stdout)
}

// NewSelectorWithIO creates a Selector with custom reader and writer for testing.
func NewSelectorWithIO(r io.Reader, w io.Writer) *Selector {
	return &Selector{
		reader: bufio.NewReader(r),
		writer: w,
	}
}

// Select prompts the user to choose one of choices. kind names what is being
// chosen ("snapshot", "container").
//
// Returns:
//   - ErrNoChoices if the list is empty
//   - The only choice without prompting if there is exactly one
//   - The selected choice based on user input (empty input picks the first)
//   - ErrInvalidSelection if the selection is out of range
//   - ErrSelectionCancelled if input is EOF (e.g., Ctrl+D)
func (s *Selector) Select(kind string, choices []Choice) (*Choice, error) {
	if len(choices) == 0 {
		return nil, errors.Wrapf(ErrNoChoices, "no %ss", kind)
	}

	if len(choices) == 1 {
		return &choices[0], nil
	}

	fmt.Fprintf(s.writer, "Available %ss:\n", kind)
	for i, c := range choices {
		if c.Detail != "" {
			fmt.Fprintf(s.writer, "  [%d] %s (%s)\n", i+1, c.Name, c.Detail)
		} else {
			fmt.Fprintf(s.writer, "  [%d] %s\n", i+1, c.Name)
		}
	}
	fmt.Fprintf(s.writer, "Select [1]: ")

	input, err := s.readLine()
	if err != nil {
		return nil, err
	}

	if input == "" {
		return &choices[0], nil
	}

	selection, err := strconv.Atoi(input)
	if err != nil {
		return nil, errors.Wrapf(ErrInvalidSelection, "%q is not a number", input)
	}

	// 1-indexed
	if selection < 1 || selection > len(choices) {
		return nil, errors.Wrapf(ErrInvalidSelection, "%d is out of range [1-%d]", selection, len(choices))
	}

	return &choices[selection-1], nil
}

// Confirm asks a yes/no question. Only "y" or "yes" (any case) confirms.
func (s *Selector) Confirm(question string) (bool, error) {
	fmt.Fprintf(s.writer, "%s [y/N]: ", question)

	input, err := s.readLine()
	if err != nil {
		if errors.Is(err, ErrSelectionCancelled) {
			return false, nil
		}
		return false, err
	}

	switch strings.ToLower(input) {
	case "y", "yes":
		return true, nil
	default:
		return false, nil
	}
}

func (s *Selector) readLine() (string, error) {
	input, err := s.reader.ReadString('\n')
	if err != nil {
		if errors.Is(err, io.EOF) && input == "" {
			return "", ErrSelectionCancelled
		}
		if !errors.Is(err, io.EOF) {
			return "", errors.Wrap(err, "reading selection")
		}
	}
	return strings.TrimSpace(input), nil
}
