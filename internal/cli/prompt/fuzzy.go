package prompt

import (
	"fmt"

	"github.com/ktr0731/go-fuzzyfinder"

	"github.com/thoreinstein/nixdeck/internal/errors"
)

// FindFunc picks an index from choices, as fuzzyfinder.Find does.
type FindFunc func(choices []Choice) (int, error)

// Fuzzy is the full-screen fuzzy finder.
var Fuzzy FindFunc = findFuzzy

// Pick runs find over choices and returns the chosen item. An aborted
// finder returns ErrSelectionCancelled.
func Pick(find FindFunc, kind string, choices []Choice) (*Choice, error) {
	if len(choices) == 0 {
		return nil, errors.Wrapf(ErrNoChoices, "no %ss", kind)
	}

	idx, err := find(choices)
	if err != nil {
		if errors.Is(err, fuzzyfinder.ErrAbort) {
			return nil, ErrSelectionCancelled
		}
		return nil, errors.Wrapf(err, "choosing %s", kind)
	}
	if idx < 0 || idx >= len(choices) {
		return nil, errors.Wrapf(ErrInvalidSelection, "index %d", idx)
	}
	return &choices[idx], nil
}

func findFuzzy(choices []Choice) (int, error) {
	return fuzzyfinder.Find(
		choices,
		func(i int) string {
			return choices[i].Name
		},
		fuzzyfinder.WithPreviewWindow(func(i, _, _ int) string {
			if i == -1 {
				return ""
			}
			c := choices[i]
			if c.Detail == "" {
				return c.Name
			}
			return fmt.Sprintf("%s\n\n%s", c.Name, c.Detail)
		}),
	)
}
