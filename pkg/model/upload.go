package model

import (
	"fmt"
	"strings"

	"github.com/byxorna/shipwright/pkg/ui"
	"github.com/byxorna/shipwright/pkg/upload"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/dustin/go-humanize"
	homedir "github.com/mitchellh/go-homedir"
)

// UPDATE

func (s *section[T]) handleUploadPrompt(msg tea.Msg) tea.Cmd {
	km, ok := msg.(tea.KeyMsg)
	if !ok {
		var cmd tea.Cmd
		s.uploadInput, cmd = s.uploadInput.Update(msg)
		return cmd
	}

	switch km.String() {
	case "esc":
		return s.leaveUploadPrompt()

	case "enter":
		switch s.uploads.State() {
		case upload.Uploading:
			return nil
		case upload.Attached:
			a, err := s.uploads.Confirm(s.draft)
			if err != nil {
				return s.newStatusMessage(failure("Couldn’t attach", err))
			}
			cmd := s.leaveUploadPrompt()
			return tea.Batch(cmd, s.newStatusMessage(statusMessage{normalStatusMessage, "Attached " + displayName(a.URL)}))
		case upload.Failed:
			if strings.TrimSpace(s.uploadInput.Value()) == s.picked {
				return s.startUpload()
			}
		}
		return s.pick()
	}

	var cmd tea.Cmd
	s.uploadInput, cmd = s.uploadInput.Update(msg)
	return cmd
}

func (s *section[T]) pick() tea.Cmd {
	path, err := homedir.Expand(strings.TrimSpace(s.uploadInput.Value()))
	if err != nil || path == "" {
		return nil
	}
	f, err := upload.FromPath(path)
	if err != nil {
		s.uploads.Cancel()
		return s.newStatusMessage(statusMessage{errorStatusMessage, err.Error()})
	}
	s.picked = strings.TrimSpace(s.uploadInput.Value())
	if err := s.uploads.Pick(f); err != nil {
		return s.newStatusMessage(statusMessage{errorStatusMessage, s.uploads.Message()})
	}
	return s.startUpload()
}

func (s *section[T]) startUpload() tea.Cmd {
	job, err := s.uploads.Start()
	if err != nil {
		return s.newStatusMessage(failure("Couldn’t upload", err))
	}
	s.hideStatusMessage()
	return tea.Batch(uploadCmd(s.common.ctx, s.kind.Name, job), s.spin())
}

func (s *section[T]) leaveUploadPrompt() tea.Cmd {
	s.uploads.Cancel()
	s.uploadInput.Blur()
	s.uploadInput.Reset()
	s.picked = ""
	s.state = sectionEditing
	return s.form.focusField(s.form.focus)
}

func (s *section[T]) handleUploaded(res upload.Result) tea.Cmd {
	if s.uploads == nil || !s.uploads.Finish(res) {
		return nil
	}
	switch s.uploads.State() {
	case upload.Failed:
		return s.newStatusMessage(statusMessage{errorStatusMessage, "Upload failed: " + s.uploads.Message() + ". Press enter to retry."})
	case upload.Attached:
		return s.newStatusMessage(statusMessage{normalStatusMessage, "Uploaded. Press enter to attach."})
	}
	return nil
}

// VIEW

func (s *section[T]) uploadView() string {
	var b strings.Builder
	b.WriteString("  " + s.uploadInput.View() + "\n")

	p := s.uploads.Preview()
	if p.Name == "" {
		b.WriteString("  " + ui.SubtleFg(fmt.Sprintf("images up to %s", humanize.IBytes(uint64(s.uploads.MaxBytes())))))
		return b.String()
	}

	details := []string{p.Name, humanize.IBytes(uint64(p.Size)), p.Type}
	if p.Width > 0 {
		details = append(details, fmt.Sprintf("%d×%d", p.Width, p.Height))
	}
	var state string
	switch s.uploads.State() {
	case upload.Uploading:
		state = ui.YellowFg("uploading…")
	case upload.Attached:
		state = ui.GreenFg("uploaded")
	case upload.Failed:
		state = ui.RedFg("failed")
	default:
		state = ui.SubtleFg(s.uploads.State().String())
	}
	b.WriteString("  " + ui.NormalFg(strings.Join(details, " · ")) + dividerDot + state + "\n")
	if p.Thumb != nil {
		b.WriteString(indent(ui.Thumbnail(p.Thumb), 2))
	}
	return b.String()
}

func displayName(url string) string {
	if i := strings.LastIndex(url, "/"); i >= 0 {
		return url[i+1:]
	}
	return url
}
