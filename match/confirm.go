package match

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"
)

// Confirmer answers the "is this the right track?" question. The terminal
// implementation blocks on user input; substitute AutoConfirmer for batch or
// test use.
type Confirmer interface {
	Confirm(prompt string) bool
}

// TerminalConfirmer asks on Out and reads a yes/no answer from In.
// An empty answer counts as "yes".
type TerminalConfirmer struct {
	In  io.Reader
	Out io.Writer
}

func (t *TerminalConfirmer) Confirm(prompt string) bool {
	in := t.In
	if in == nil {
		in = os.Stdin
	}
	out := t.Out
	if out == nil {
		out = os.Stdout
	}

	fmt.Fprint(out, prompt)

	line, err := bufio.NewReader(in).ReadString('\n')
	if err != nil && line == "" {
		// EOF with no input: fall back to the default answer.
		return true
	}

	switch strings.ToLower(strings.TrimSpace(line)) {
	case "", "y", "yes":
		return true
	default:
		return false
	}
}

// AutoConfirmer always answers with a fixed decision.
type AutoConfirmer struct {
	Answer bool
}

func (a AutoConfirmer) Confirm(string) bool {
	return a.Answer
}
