// pkg/interaction/prompt.go

package interaction

import (
	"fmt"
	"strconv"
	"strings"
)

// PromptSelect shows a numbered menu and returns the index of the chosen
// option. Invalid input re-prompts instead of failing.
func (r *Reader) PromptSelect(title string, options []string) (int, error) {
	fmt.Fprintln(r.out, title)
	for i, opt := range options {
		fmt.Fprintf(r.out, "  %d) %s\n", i+1, opt)
	}
	choice, err := RunPromptLoop(r, fmt.Sprintf("Select [1-%d]: ", len(options)), func(input string) (string, error) {
		n, convErr := strconv.Atoi(input)
		if convErr != nil || n < 1 || n > len(options) {
			return "", fmt.Errorf("enter a number between 1 and %d", len(options))
		}
		return input, nil
	})
	if err != nil {
		return 0, err
	}
	n, _ := strconv.Atoi(choice)
	return n - 1, nil
}

// PromptYesNo asks a yes/no question. Empty input takes the default.
func (r *Reader) PromptYesNo(question string, defaultYes bool) (bool, error) {
	hint := "y/N"
	if defaultYes {
		hint = "Y/n"
	}
	answer, err := RunPromptLoop(r, fmt.Sprintf("%s [%s]: ", question, hint), func(input string) (string, error) {
		switch strings.ToLower(input) {
		case "", "y", "yes", "n", "no":
			return strings.ToLower(input), nil
		}
		return "", fmt.Errorf("answer y or n")
	})
	if err != nil {
		return false, err
	}
	switch answer {
	case "y", "yes":
		return true, nil
	case "n", "no":
		return false, nil
	}
	return defaultYes, nil
}
