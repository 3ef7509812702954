package model

import (
	"fmt"
	"os"
	"os/exec"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
)

// openEditor hands the focused field to $EDITOR, for long text like post
// bodies that a single line input is no good for.
func (s *section[T]) openEditor(field string) tea.Cmd {
	if field == "" {
		return nil
	}
	f, err := os.CreateTemp("", fmt.Sprintf("shipwright-%s-*.md", field))
	if err != nil {
		return s.newStatusMessage(failure("Couldn’t open editor", err))
	}
	_, err = f.WriteString(s.draft.Text(field))
	if cerr := f.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		os.Remove(f.Name())
		return s.newStatusMessage(failure("Couldn’t open editor", err))
	}

	editor := os.Getenv("EDITOR")
	if editor == "" {
		editor = "vim"
	}
	// EDITOR may carry flags, e.g. "code --wait"
	args := strings.Fields(editor)
	cmd := exec.Command(args[0], append(args[1:], f.Name())...)

	key, path := s.kind.Name, f.Name()
	return tea.ExecProcess(cmd, func(err error) tea.Msg {
		return editedMsg{key: key, field: field, path: path, err: err}
	})
}

func (s *section[T]) handleEdited(msg editedMsg) tea.Cmd {
	defer os.Remove(msg.path)
	if msg.err != nil {
		return s.newStatusMessage(failure("Editor exited", msg.err))
	}
	if !s.draft.Open() {
		return nil
	}
	b, err := os.ReadFile(msg.path)
	if err != nil {
		return s.newStatusMessage(failure("Couldn’t read edits", err))
	}
	s.draft.SetField(msg.field, strings.TrimRight(string(b), "\n"))
	s.draft.Blur(msg.field)
	s.form.sync(s.draft.Text, true)
	return nil
}
