// pkg/interaction/input.go

package interaction

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/GaspardD78/bmcuflash/pkg/flash_err"
)

// Reader wraps an input source so prompts can be driven by tests.
type Reader struct {
	in  *bufio.Reader
	out io.Writer
}

// NewReader builds a prompt reader. Nil arguments default to stdin/stdout.
func NewReader(in io.Reader, out io.Writer) *Reader {
	if in == nil {
		in = os.Stdin
	}
	if out == nil {
		out = os.Stdout
	}
	return &Reader{in: bufio.NewReader(in), out: out}
}

// ReadLine prints the prompt and reads one trimmed line. EOF or a closed
// input stream surfaces as StopRequested so the top level can clean up
// instead of aborting mid-prompt.
func (r *Reader) ReadLine(prompt string) (string, error) {
	fmt.Fprint(r.out, prompt)
	line, err := r.in.ReadString('\n')
	if err != nil {
		if err == io.EOF && strings.TrimSpace(line) != "" {
			return strings.TrimSpace(line), nil
		}
		return "", flash_err.StopRequested("interactive prompt")
	}
	return strings.TrimSpace(line), nil
}

// PromptWithDefault asks for a value, returning the default on empty input.
func (r *Reader) PromptWithDefault(label, defaultValue string) (string, error) {
	input, err := r.ReadLine(fmt.Sprintf("%s [%s]: ", label, defaultValue))
	if err != nil {
		return "", err
	}
	if input == "" {
		return defaultValue, nil
	}
	return input, nil
}
