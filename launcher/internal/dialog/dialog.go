package dialog

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"golang.org/x/term"
)

// Kind selects the box accent.
type Kind int

const (
	KindInfo Kind = iota
	KindWarning
	KindError
)

// AppName titles fatal boxes.
const AppName = "Memospot"

var (
	boxStyle   = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(0, 1)
	titleStyle = lipgloss.NewStyle().Bold(true)
)

func (k Kind) color() lipgloss.Color {
	switch k {
	case KindError:
		return lipgloss.Color("9")
	case KindWarning:
		return lipgloss.Color("11")
	default:
		return lipgloss.Color("12")
	}
}

// Render returns title and message inside a bordered box.
func Render(kind Kind, title, message string) string {
	body := titleStyle.Foreground(kind.color()).Render(title) + "\n\n" + strings.TrimSpace(message)
	return boxStyle.BorderForeground(kind.color()).Render(body)
}

// Fatal shows err and exits with status 1.
func Fatal(err error) {
	fmt.Fprintln(os.Stderr, Render(KindError, AppName, err.Error()))
	os.Exit(1)
}

// Terminal asks questions on a text terminal.
type Terminal struct {
	In  io.Reader
	Out io.Writer

	// Interactive is true when a user can answer.
	Interactive bool

	// AssumeYes is the answer when nobody can be asked.
	AssumeYes bool
}

// NewTerminal returns a Terminal on stdin/stderr.
func NewTerminal(assumeYes bool) *Terminal {
	return &Terminal{
		In:          os.Stdin,
		Out:         os.Stderr,
		Interactive: term.IsTerminal(int(os.Stdin.Fd())) && term.IsTerminal(int(os.Stderr.Fd())),
		AssumeYes:   assumeYes,
	}
}

// Confirm shows a warning box and reads a y/N answer.
func (t *Terminal) Confirm(title, message string) bool {
	if !t.Interactive {
		return t.AssumeYes
	}
	fmt.Fprintln(t.Out, Render(KindWarning, title, message))
	fmt.Fprint(t.Out, "[y/N] ")

	line, err := bufio.NewReader(t.In).ReadString('\n')
	if err != nil && line == "" {
		return false
	}
	switch strings.ToLower(strings.TrimSpace(line)) {
	case "y", "yes":
		return true
	default:
		return false
	}
}
