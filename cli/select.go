// Package cli holds the interactive prompts used by the command line tools.
package cli

import (
	"errors"
	"strings"

	"github.com/amp-labs/txprocess/set"
	"github.com/manifoldco/promptui"
)

// ErrNoChoices is returned when a selection is requested from an empty list.
var ErrNoChoices = errors.New("nothing to choose from")

const selectSize = 10

// SortedChoices deduplicates choices and sorts them naturally, so that
// "release-2" comes before "release-10".
func SortedChoices(choices ...string) []string {
	return set.New(choices...).SortedEntries()
}

// Searcher matches items that start with the typed input.
func Searcher(items []string) func(input string, index int) bool {
	return func(input string, index int) bool {
		if len(input) == 0 || index < 0 || index >= len(items) {
			return false
		}

		return strings.HasPrefix(items[index], input)
	}
}

// Select asks the user to pick one of choices.
func Select(label string, choices ...string) (string, error) {
	items := SortedChoices(choices...)
	if len(items) == 0 {
		return "", ErrNoChoices
	}

	sel := &promptui.Select{
		Label:             label,
		Items:             items,
		Size:              selectSize,
		Searcher:          Searcher(items),
		StartInSearchMode: len(items) > selectSize,
	}

	_, value, err := sel.Run()
	if err != nil {
		return "", err
	}

	return value, nil
}
