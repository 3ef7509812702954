package model

import (
	"errors"
	"fmt"
	"path"
	"strings"
	"unicode"

	"github.com/byxorna/shipwright/pkg/draft"
	"github.com/byxorna/shipwright/pkg/entity"
	"github.com/byxorna/shipwright/pkg/ui"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

const fieldCharLimit = 4000

var titleCase = cases.Title(language.English)

// formModel holds one single line input per editable field. The draft
// session stays the source of truth; inputs are re-synced from it whenever
// the session rewrites a value (slug derivation, tag parsing, choices).
type formModel struct {
	fields []string
	inputs []textinput.Model
	focus  int
}

func newForm(fields []string, value func(string) string, static bool) formModel {
	f := formModel{fields: fields}
	for _, k := range fields {
		ti := newInput(static)
		ti.Prompt = ""
		ti.CharLimit = fieldCharLimit
		ti.SetValue(value(k))
		f.inputs = append(f.inputs, ti)
	}
	return f
}

func (f *formModel) setWidth(w int) {
	for i := range f.inputs {
		f.inputs[i].Width = max(10, w-labelStyle.GetWidth()-stashViewHorizontalPadding*2)
	}
}

func (f formModel) focused() string {
	if f.focus < 0 || f.focus >= len(f.fields) {
		return ""
	}
	return f.fields[f.focus]
}

func (f formModel) value() string {
	if f.focused() == "" {
		return ""
	}
	return f.inputs[f.focus].Value()
}

func (f *formModel) focusField(i int) tea.Cmd {
	if len(f.inputs) == 0 {
		return nil
	}
	f.blur()
	f.focus = (i + len(f.inputs)) % len(f.inputs)
	return f.inputs[f.focus].Focus()
}

func (f *formModel) blur() {
	for i := range f.inputs {
		f.inputs[i].Blur()
	}
}

// sync copies the session's values into the inputs. The focused input keeps
// its text unless all is set, so typing is never rewritten under the cursor.
func (f *formModel) sync(value func(string) string, all bool) {
	for i, k := range f.fields {
		if i == f.focus && !all {
			continue
		}
		if v := value(k); f.inputs[i].Value() != v {
			f.inputs[i].SetValue(v)
			f.inputs[i].CursorEnd()
		}
	}
}

func (f *formModel) update(msg tea.Msg) tea.Cmd {
	if f.focused() == "" {
		return nil
	}
	var cmd tea.Cmd
	f.inputs[f.focus], cmd = f.inputs[f.focus].Update(msg)
	return cmd
}

// UPDATE

func (s *section[T]) openForm() tea.Cmd {
	s.hideStatusMessage()
	s.state = sectionEditing
	s.form = newForm(s.kind.Schema.Editable, s.draft.Text, s.common.opts.Static)
	s.form.setWidth(s.common.width)
	return s.form.focusField(0)
}

func (s *section[T]) closeForm() {
	s.state = sectionBrowsing
	s.form = formModel{}
	s.uploadInput.Blur()
	s.uploadInput.Reset()
	if s.uploads != nil {
		s.uploads.Cancel()
	}
}

func (s *section[T]) moveFocus(delta int) tea.Cmd {
	s.draft.Blur(s.form.focused())
	cmd := s.form.focusField(s.form.focus + delta)
	s.form.sync(s.draft.Text, true)
	return cmd
}

func (s *section[T]) handleForm(msg tea.Msg) tea.Cmd {
	if km, ok := msg.(tea.KeyMsg); ok {
		k := s.keys
		switch {
		case key.Matches(km, k.Cancel):
			s.draft.Cancel()
			s.closeForm()
			return nil

		case key.Matches(km, k.Save):
			return s.save()

		case key.Matches(km, k.NextField):
			return s.moveFocus(1)

		case key.Matches(km, k.PrevField):
			return s.moveFocus(-1)

		case key.Matches(km, k.Upload):
			if s.uploads == nil {
				return s.newStatusMessage(statusMessage{subtleStatusMessage, s.kind.Title + " take no images"})
			}
			s.state = sectionUploading
			s.form.blur()
			s.uploadInput.Reset()
			return s.uploadInput.Focus()

		case key.Matches(km, k.RemoveImage):
			if n := len(s.draft.Images()); n > 0 {
				s.draft.RemoveImage(n - 1)
			}
			return nil

		case key.Matches(km, k.Option):
			field := s.form.focused()
			choices := s.kind.Schema.Choices[field]
			if len(choices) == 0 {
				return nil
			}
			next := entity.Cycle(choices, s.draft.Text(field))
			if next == "" {
				next = choices[0]
			}
			s.draft.SetField(field, next)
			s.form.sync(s.draft.Text, true)
			return nil

		case key.Matches(km, k.Editor):
			return s.openEditor(s.form.focused())
		}
	}

	field := s.form.focused()
	cmd := s.form.update(msg)
	if v := s.form.value(); field != "" && v != s.draft.Text(field) {
		s.draft.SetField(field, v)
		s.form.sync(s.draft.Text, false)
	}
	return cmd
}

func (s *section[T]) save() tea.Cmd {
	s.draft.Blur(s.form.focused())
	c, err := s.draft.Prepare()
	s.form.sync(s.draft.Text, true)
	if err != nil {
		var ve *draft.ValidationError
		switch {
		case errors.As(err, &ve):
			return s.newStatusMessage(statusMessage{errorStatusMessage, "Fix the highlighted fields"})
		case errors.Is(err, draft.ErrInFlight):
			return nil
		}
		return s.newStatusMessage(failure("Couldn’t save", err))
	}
	s.hideStatusMessage()
	return tea.Batch(commitCmd(s.common.ctx, s.kind.Name, c), s.spin())
}

func (s *section[T]) handleCommitted(res draft.Committed[T]) tea.Cmd {
	item, err := s.draft.Finish(res)
	switch {
	case errors.Is(err, draft.ErrDiscarded):
		return nil
	case err == nil:
		s.store(item, res.Created)
		s.closeForm()
		status := s.newStatusMessage(statusMessage{normalStatusMessage, fmt.Sprintf("Saved “%s”", item.Label())})
		return tea.Batch(status, s.fetch(s.list.Refresh()))
	}

	s.err = err
	var ase *draft.AttachmentSyncError
	if errors.As(err, &ase) {
		// the record made it, only its images did not
		if saved, ok := ase.Item.(T); ok {
			s.store(saved, res.Created)
		}
		status := s.newStatusMessage(failure("Saved, but not the images", ase.Err))
		return tea.Batch(status, s.fetch(s.list.Refresh()))
	}
	return s.newStatusMessage(failure("Couldn’t save", err))
}

// store shows item right away; the refresh that follows puts the page back
// in line with the query
func (s *section[T]) store(item T, created bool) {
	if created {
		s.list.Insert(item)
		s.cursor = 0
		return
	}
	if !s.list.Replace(item) {
		s.list.Insert(item)
	}
}

// VIEW

func (s *section[T]) formView() string {
	var b strings.Builder

	indicator := " "
	if s.busy() {
		indicator = s.spinner.View()
	}
	heading := "New " + singular(strings.ReplaceAll(s.kind.Name, "-", " "))
	if s.draft.Mode() == draft.Editing {
		heading = fmt.Sprintf("Edit “%s”", s.draft.Text(s.labelField()))
	}
	fmt.Fprintf(&b, "%s %s", indicator, ui.Logo(" "+heading+" "))
	if s.showStatusMessage {
		b.WriteString("  " + s.statusMessage.String())
	}
	b.WriteString("\n\n")

	var ve *draft.ValidationError
	errors.As(s.draft.Err(), &ve)

	rows := make([]string, 0, len(s.form.fields)*2+1)
	for i, k := range s.form.fields {
		label := labelStyle.Render(fieldLabel(k))
		if i == s.form.focus && s.state == sectionEditing {
			label = focusedLabelStyle.Render(fieldLabel(k))
		}
		input := s.form.inputs[i].View()
		if choices := s.kind.Schema.Choices[k]; len(choices) > 0 && i == s.form.focus {
			input += ui.SubtleFg("  ctrl+o: " + strings.Join(choices, "/"))
		}
		rows = append(rows, lipgloss.JoinHorizontal(lipgloss.Top, label, input))
		if ve != nil {
			if msg := ve.Field(k); msg != "" {
				rows = append(rows, fieldErrorStyle.Render(msg))
			}
		}
	}
	if s.kind.Schema.ImageField != "" {
		rows = append(rows, lipgloss.JoinHorizontal(lipgloss.Top,
			labelStyle.Render(fieldLabel(s.kind.Schema.ImageField)), s.imagesView()))
	}
	b.WriteString(formBoxStyle.Render(strings.Join(rows, "\n")))
	b.WriteString("\n")

	if err := s.draft.Err(); err != nil && ve == nil {
		b.WriteString("\n  " + ui.RedFg(err.Error()) + "\n")
	}
	if s.state == sectionUploading {
		b.WriteString("\n" + s.uploadView() + "\n")
	}

	b.WriteString("\n  " + s.help.View(s.keys.forState(s.state)))
	return "\n" + indent(b.String(), stashIndent)
}

func (s *section[T]) imagesView() string {
	images := s.draft.Images()
	if len(images) == 0 {
		return ui.SubtleFg("none, ctrl+u to add")
	}
	names := make([]string, len(images))
	for i, img := range images {
		names[i] = path.Base(img.URL)
	}
	return ui.NormalFg(strings.Join(names, ", "))
}

// labelField is the field the record is known by in headings
func (s *section[T]) labelField() string {
	if src := s.kind.Schema.SlugSource; src != "" {
		return src
	}
	if len(s.kind.Schema.Editable) > 0 {
		return s.kind.Schema.Editable[0]
	}
	return ""
}

// fieldLabel turns a record key like coverImage into "Cover Image"
func fieldLabel(k string) string {
	var b strings.Builder
	for i, r := range k {
		if i > 0 && unicode.IsUpper(r) {
			b.WriteRune(' ')
		}
		b.WriteRune(r)
	}
	return titleCase.String(b.String())
}

func singular(title string) string {
	t := strings.ToLower(title)
	switch {
	case strings.HasSuffix(t, "ies"):
		return strings.TrimSuffix(t, "ies") + "y"
	case strings.HasSuffix(t, "s"):
		return strings.TrimSuffix(t, "s")
	}
	return t
}
