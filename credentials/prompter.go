package credentials

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"

	"golang.org/x/term"
)

// TerminalPrompter reads answers line by line from an input stream. When the
// input is a terminal, secrets are read without echo.
type TerminalPrompter struct {
	out io.Writer
	in  *bufio.Reader
	fd  int
	tty bool

	mu sync.Mutex
}

var (
	_ Prompter = (*TerminalPrompter)(nil)
	_ Noticer  = (*TerminalPrompter)(nil)
)

// NewTerminalPrompter returns a prompter reading from in and writing labels
// to out.
func NewTerminalPrompter(in io.Reader, out io.Writer) *TerminalPrompter {
	p := &TerminalPrompter{out: out, in: bufio.NewReader(in)}

	if f, ok := in.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		p.fd = int(f.Fd())
		p.tty = true
	}

	return p
}

// Notice writes msg on its own line.
func (p *TerminalPrompter) Notice(msg string) {
	p.mu.Lock()
	defer p.mu.Unlock()

	fmt.Fprintln(p.out, msg)
}

// Prompt - implements Prompter
func (p *TerminalPrompter) Prompt(label string) (string, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	fmt.Fprintf(p.out, "%s: ", label)

	return p.readLine()
}

// PromptSecret - implements Prompter
func (p *TerminalPrompter) PromptSecret(label string) (string, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	fmt.Fprintf(p.out, "%s: ", label)

	if !p.tty {
		return p.readLine()
	}

	b, err := term.ReadPassword(p.fd)
	fmt.Fprintln(p.out)

	if err != nil {
		return "", fmt.Errorf("read secret: %w", err)
	}

	return string(b), nil
}

func (p *TerminalPrompter) readLine() (string, error) {
	line, err := p.in.ReadString('\n')
	if err != nil && !(errors.Is(err, io.EOF) && line != "") {
		return "", err
	}

	return strings.TrimRight(line, "\r\n"), nil
}
