package console

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
)

// Prompter owns the console reader and writers for one run.
type Prompter struct {
	in  *bufio.Reader
	out io.Writer
	err io.Writer
}

func NewPrompter(in io.Reader, out, errOut io.Writer) *Prompter {
	return &Prompter{in: bufio.NewReader(in), out: out, err: errOut}
}

func (p *Prompter) Println(a ...any) { fmt.Fprintln(p.out, a...) }

func (p *Prompter) Printf(format string, a ...any) { fmt.Fprintf(p.out, format, a...) }

// Errorln writes a diagnostic line.
func (p *Prompter) Errorln(a ...any) { fmt.Fprintln(p.err, a...) }

// ReadLine prints prompt and returns the next line without its line ending.
// A final line without a newline is returned normally; io.EOF is returned
// only when no input is left.
func (p *Prompter) ReadLine(prompt string) (string, error) {
	if prompt != "" {
		fmt.Fprint(p.out, prompt)
	}
	line, err := p.in.ReadString('\n')
	if err != nil {
		if errors.Is(err, io.EOF) && line != "" {
			return strings.TrimRight(line, "\r\n"), nil
		}
		return "", err
	}
	return strings.TrimRight(line, "\r\n"), nil
}

// ReadInt re-prompts until the operator enters an integer.
func (p *Prompter) ReadInt(prompt string) (int, error) {
	for {
		line, err := p.ReadLine(prompt)
		if err != nil {
			return 0, err
		}
		n, err := strconv.Atoi(strings.TrimSpace(line))
		if err == nil {
			return n, nil
		}
		p.Println("Your input is invalid!")
	}
}

// ReadChoice reads a menu selection.
func (p *Prompter) ReadChoice() (int, error) {
	return p.ReadInt("Please make your choice: ")
}
