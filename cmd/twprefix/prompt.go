package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/mattn/go-isatty"

	"twprefix/internal/config"
)

const defaultPrefix = "ts-"

var (
	errPromptCancelled = errors.New("prefix prompt cancelled")
	errNoPrefix        = errors.New("no prefix given: pass --prefix or set it in .twprefix.yaml")
)

// stdinIsTerminal is swapped in tests.
var stdinIsTerminal = func() bool {
	fd := os.Stdin.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}

// prefixModel asks for the prefix on a single line.
type prefixModel struct {
	input     textinput.Model
	err       string
	value     string
	done      bool
	cancelled bool
}

func newPrefixModel() prefixModel {
	ti := textinput.New()
	ti.Placeholder = defaultPrefix
	ti.SetValue(defaultPrefix)
	ti.Focus()
	ti.Prompt = "› "
	ti.CharLimit = 64
	ti.Width = 32
	ti.PromptStyle = promptStyle
	ti.TextStyle = inputStyle
	return prefixModel{input: ti}
}

func (m prefixModel) Init() tea.Cmd {
	return textinput.Blink
}

func (m prefixModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if key, ok := msg.(tea.KeyMsg); ok {
		switch key.Type {
		case tea.KeyCtrlC, tea.KeyEsc:
			m.cancelled = true
			return m, tea.Quit
		case tea.KeyEnter:
			v := strings.TrimSpace(m.input.Value())
			if v == "" {
				m.err = "Prefix cannot be empty."
				return m, nil
			}
			if errors.Is(config.CheckPrefix(v), config.ErrPrefixWhitespace) {
				m.err = "Prefix cannot contain spaces."
				return m, nil
			}
			m.value = v
			m.done = true
			return m, tea.Quit
		}
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	m.err = ""
	return m, cmd
}

func (m prefixModel) View() string {
	if m.done || m.cancelled {
		return ""
	}
	var b strings.Builder
	b.WriteString(titleStyle.Render("Enter the Tailwind prefix (e.g., 'ts-')"))
	b.WriteString("\n")
	b.WriteString(m.input.View())
	b.WriteString("\n")
	if m.err != "" {
		b.WriteString(errorStyle.Render(m.err))
		b.WriteString("\n")
	}
	b.WriteString(mutedStyle.Render("enter to confirm · esc to cancel"))
	b.WriteString("\n")
	return b.String()
}

// promptPrefix runs the prompt on the given streams.
func promptPrefix(in io.Reader, out io.Writer) (string, error) {
	p := tea.NewProgram(newPrefixModel(), tea.WithInput(in), tea.WithOutput(out))
	final, err := p.Run()
	if err != nil {
		return "", fmt.Errorf("prefix prompt: %w", err)
	}
	m := final.(prefixModel)
	if m.cancelled || !m.done {
		return "", errPromptCancelled
	}
	return m.value, nil
}

// resolvePrefix picks the prefix from the flag, then the config (which
// already includes TWPREFIX_PREFIX), then an interactive prompt when stdin
// is a terminal.
func resolvePrefix(flagValue, configured string, out io.Writer) (string, error) {
	for _, p := range []string{flagValue, configured} {
		if p == "" {
			continue
		}
		if err := config.CheckPrefix(p); err != nil {
			return "", err
		}
		return p, nil
	}
	if !stdinIsTerminal() {
		return "", errNoPrefix
	}
	return promptPrefix(os.Stdin, out)
}
