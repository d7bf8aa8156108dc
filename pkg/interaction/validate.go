// pkg/interaction/validate.go

package interaction

import "fmt"

// promptState tracks where a prompt loop sits between reads.
type promptState int

const (
	statePrompting promptState = iota
	stateRetrying
	stateValidated
)

// Validator inspects raw input and returns the accepted value or an error
// whose message is shown to the operator before re-prompting.
type Validator func(input string) (string, error)

// RunPromptLoop drives a prompt until the validator accepts the input or
// the input stream ends. Validation failures print the reason and retry;
// only a closed stream terminates the loop with an error.
func RunPromptLoop(r *Reader, prompt string, validate Validator) (string, error) {
	state := statePrompting
	var accepted string
	for state != stateValidated {
		if state == stateRetrying {
			state = statePrompting
		}
		input, err := r.ReadLine(prompt)
		if err != nil {
			return "", err
		}
		value, vErr := validate(input)
		if vErr != nil {
			fmt.Fprintf(r.out, "Invalid input: %v\n", vErr)
			state = stateRetrying
			continue
		}
		accepted = value
		state = stateValidated
	}
	return accepted, nil
}

// NonEmpty rejects blank input with the given field name in the message.
func NonEmpty(field string) Validator {
	return func(input string) (string, error) {
		if input == "" {
			return "", fmt.Errorf("%s must not be empty", field)
		}
		return input, nil
	}
}
