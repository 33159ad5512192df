package cli

import (
	"errors"
	"fmt"
	"os"

	"github.com/google/uuid"
	"github.com/manifoldco/promptui"
)

var errEmptyInput = errors.New("you must enter something")

// ValidateUUID accepts any textual UUID form google/uuid can parse.
func ValidateUUID(s string) error {
	if len(s) == 0 {
		return errEmptyInput
	}

	if _, err := uuid.Parse(s); err != nil {
		return fmt.Errorf("invalid uuid: %w", err)
	}

	return nil
}

// CanonicalUUID parses s and returns it in the lowercase hyphenated form. Ids
// typed by a user go through here before they are compared with stored ones.
func CanonicalUUID(s string) (string, error) {
	if err := ValidateUUID(s); err != nil {
		return "", err
	}

	return uuid.MustParse(s).String(), nil
}

// PromptUUID asks for a UUID and returns it in canonical form.
func PromptUUID(label string) (string, error) {
	prompt := promptui.Prompt{
		Label:    label,
		Validate: ValidateUUID,
		Stdin:    os.Stdin,
		Stdout:   os.Stdout,
	}

	txt, err := prompt.Run()
	if err != nil {
		return "", err
	}

	return CanonicalUUID(txt)
}
